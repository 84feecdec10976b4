// Package backup produces passphrase-sealed snapshots of the stored
// collection and restores them.
package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
)

var (
	ErrEmptyPassphrase = errors.New("passphrase is required")
	ErrNothingToBackup = errors.New("no stored collection to back up")
	ErrInvalidSnapshot = errors.New("snapshot does not contain a valid collection")
)

// Source is the slice of the collection store the manager needs.
type Source interface {
	LoadRaw(ctx context.Context) ([]byte, bool, error)
	Save(ctx context.Context, lists model.Collection) error
}

// Status holds the outcome of the most recent snapshot and restore.
type Status struct {
	LastSnapshot *time.Time `json:"last_snapshot,omitempty"`
	LastRestore  *time.Time `json:"last_restore,omitempty"`
}

type Manager struct {
	mu     sync.Mutex
	source Source
	logger *slog.Logger
	status Status
	now    func() time.Time
}

func NewManager(source Source, logger *slog.Logger) *Manager {
	return &Manager{source: source, logger: logger, now: time.Now}
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Snapshot seals the stored collection blob as-is.
func (m *Manager) Snapshot(ctx context.Context, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok, err := m.source.LoadRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("read collection: %w", err)
	}
	if !ok {
		return nil, ErrNothingToBackup
	}

	sealed, err := Seal(raw, passphrase)
	if err != nil {
		return nil, fmt.Errorf("seal snapshot: %w", err)
	}

	now := m.now()
	m.status.LastSnapshot = &now
	m.logger.Info("snapshot created", "bytes", len(sealed))
	return sealed, nil
}

// Restore opens a sealed snapshot and replaces the stored collection with
// it. A snapshot that does not decode as a collection is refused and the
// stored data is left untouched.
func (m *Manager) Restore(ctx context.Context, sealed []byte, passphrase string) (model.Collection, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := Open(sealed, passphrase)
	if err != nil {
		return nil, err
	}

	lists, err := store.Decode(raw)
	if err != nil {
		m.logger.Warn("refusing snapshot", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	if err := m.source.Save(ctx, lists); err != nil {
		return nil, fmt.Errorf("save restored collection: %w", err)
	}

	now := m.now()
	m.status.LastRestore = &now
	m.logger.Info("snapshot restored", "lists", len(lists))
	return lists, nil
}
