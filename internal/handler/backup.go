package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/shoplist/internal/backup"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/websocket"
)

const (
	maxSnapshotBody  = 10 << 20
	PassphraseHeader = "X-Backup-Passphrase"
)

type BackupManager interface {
	Snapshot(ctx context.Context, passphrase string) ([]byte, error)
	Restore(ctx context.Context, sealed []byte, passphrase string) (model.Collection, error)
}

// Reloader rebuilds cached views after the stored collection is replaced.
type Reloader interface {
	Reload(ctx context.Context) error
}

type BackupHandler struct {
	manager  BackupManager
	mirror   Reloader
	hub      Broadcaster
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

func NewBackupHandler(manager BackupManager, mirror Reloader, hub Broadcaster, logger *slog.Logger) *BackupHandler {
	return &BackupHandler{manager: manager, mirror: mirror, hub: hub, validate: newValidator(), logger: logger, now: time.Now}
}

type snapshotRequest struct {
	Passphrase string `json:"passphrase" validate:"required,min=8"`
}

// Snapshot returns the sealed collection as a file download.
func (h *BackupHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if !decode(w, r, h.validate, &req) {
		return
	}

	sealed, err := h.manager.Snapshot(r.Context(), req.Passphrase)
	if errors.Is(err, backup.ErrNothingToBackup) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("create snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create backup")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", attachment(fmt.Sprintf("shoplist-backup-%s.bin", h.now().Format("20060102-150405"))))
	w.WriteHeader(http.StatusOK)
	w.Write(sealed)
}

// Restore takes the sealed snapshot as the raw request body and the
// passphrase in the X-Backup-Passphrase header.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	passphrase := r.Header.Get(PassphraseHeader)
	if passphrase == "" {
		writeError(w, http.StatusBadRequest, "passphrase is required")
		return
	}

	sealed, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "snapshot too large")
		return
	}

	lists, err := h.manager.Restore(r.Context(), sealed, passphrase)
	switch {
	case errors.Is(err, backup.ErrDecrypt), errors.Is(err, backup.ErrInvalidSnapshot), errors.Is(err, backup.ErrEmptyPassphrase):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("restore snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to restore backup")
		return
	}

	if err := h.mirror.Reload(r.Context()); err != nil {
		h.logger.Error("reload after restore", "error", err)
		writeError(w, http.StatusInternalServerError, "restored, but failed to reload lists")
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(websocket.NewMessage(websocket.EntityCollection, "restored", "", map[string]any{"lists": len(lists)}))
	}
	writeJSON(w, http.StatusOK, map[string]int{"lists": len(lists)})
}

func attachment(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
