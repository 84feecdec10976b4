package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/shoplist/internal/export"
	"github.com/dukerupert/shoplist/internal/share"
)

type Sharer interface {
	Share(ctx context.Context, listID, phone string) (share.Result, error)
}

type Exporter interface {
	Export(ctx context.Context, listID string) (export.Result, error)
}

// OutboundHandler serves the endpoints that hand a list to something outside
// the app: a WhatsApp link or a PDF download.
type OutboundHandler struct {
	sharer   Sharer
	exporter Exporter
	validate *validator.Validate
	logger   *slog.Logger
}

func NewOutboundHandler(sharer Sharer, exporter Exporter, logger *slog.Logger) *OutboundHandler {
	return &OutboundHandler{sharer: sharer, exporter: exporter, validate: newValidator(), logger: logger}
}

type shareRequest struct {
	To string `json:"to"`
}

func (h *OutboundHandler) Share(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if !decode(w, r, h.validate, &req) {
		return
	}

	res, err := h.sharer.Share(r.Context(), r.PathValue("id"), req.To)
	if err != nil {
		h.logger.Error("share list", "list_id", r.PathValue("id"), "error", err)
		writeJSON(w, http.StatusInternalServerError, share.Result{Error: "failed to read list"})
		return
	}

	switch {
	case res.Success:
		writeJSON(w, http.StatusOK, res)
	case res.Error == share.ErrListNotFound.Error():
		writeJSON(w, http.StatusNotFound, res)
	default:
		writeJSON(w, http.StatusBadRequest, res)
	}
}

func (h *OutboundHandler) Export(w http.ResponseWriter, r *http.Request) {
	res, err := h.exporter.Export(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Error("export list", "list_id", r.PathValue("id"), "error", err)
		writeJSON(w, http.StatusInternalServerError, export.Result{Error: "failed to read list"})
		return
	}
	if !res.Success {
		status := http.StatusInternalServerError
		if res.Error == export.ErrListNotFound.Error() {
			status = http.StatusNotFound
		}
		writeJSON(w, status, res)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment(res.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}
