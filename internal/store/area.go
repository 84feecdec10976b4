package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Area is a key-value storage area holding opaque blobs.
type Area interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// --- SQLite ---

// SQLiteArea keeps blobs in the kv_blobs table.
type SQLiteArea struct {
	db *sql.DB
}

func NewSQLiteArea(db *sql.DB) *SQLiteArea {
	return &SQLiteArea{db: db}
}

func (a *SQLiteArea) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := a.db.QueryRowContext(ctx, `SELECT value FROM kv_blobs WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get blob %q: %w", key, err)
	}
	return value, true, nil
}

func (a *SQLiteArea) Set(ctx context.Context, key string, value []byte) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO kv_blobs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set blob %q: %w", key, err)
	}
	return nil
}

// --- File ---

// FileArea keeps each key as <dir>/<key>.json. Writes go to a temp file that
// is renamed over the target, so readers never see a partial blob.
type FileArea struct {
	dir string
}

func NewFileArea(dir string) *FileArea {
	return &FileArea{dir: dir}
}

func (a *FileArea) path(key string) string {
	return filepath.Join(a.dir, key+".json")
}

func (a *FileArea) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(a.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read blob %q: %w", key, err)
	}
	return data, true, nil
}

func (a *FileArea) Set(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	target := a.path(key)
	temp := target + ".tmp"
	if err := os.WriteFile(temp, value, 0o644); err != nil {
		return fmt.Errorf("write blob %q: %w", key, err)
	}
	if err := os.Rename(temp, target); err != nil {
		return fmt.Errorf("replace blob %q: %w", key, err)
	}
	return nil
}

// --- Memory ---

// MemoryArea is a process-local area. Its zero value is not usable; use NewMemoryArea.
type MemoryArea struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryArea() *MemoryArea {
	return &MemoryArea{blobs: make(map[string][]byte)}
}

func (a *MemoryArea) Get(_ context.Context, key string) ([]byte, bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (a *MemoryArea) Set(_ context.Context, key string, value []byte) error {
	a.mu.Lock()
	a.blobs[key] = append([]byte(nil), value...)
	a.mu.Unlock()
	return nil
}
