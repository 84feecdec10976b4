package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/shoplist/internal/backup"
	"github.com/dukerupert/shoplist/internal/shopping"
	"github.com/dukerupert/shoplist/internal/store"
	"github.com/dukerupert/shoplist/internal/workspace"
)

type backupFixture struct {
	mux *http.ServeMux
	svc *shopping.Service
	ws  *workspace.Workspace
	hub *recordingHub
}

func setupBackupHandler(t *testing.T) *backupFixture {
	t.Helper()
	cs := store.NewCollectionStore(store.NewMemoryArea(), slog.Default())
	svc := shopping.NewService(cs, slog.Default())
	ws := workspace.New(svc)
	if err := ws.Open(context.Background()); err != nil {
		t.Fatalf("open workspace: %v", err)
	}
	hub := &recordingHub{}
	h := NewBackupHandler(backup.NewManager(cs, slog.Default()), ws, hub, slog.Default())

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/backup", h.Snapshot)
	mux.HandleFunc("POST /api/backup/restore", h.Restore)
	return &backupFixture{mux: mux, svc: svc, ws: ws, hub: hub}
}

func (f *backupFixture) snapshot(t *testing.T, passphrase string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"passphrase": passphrase})
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/backup", bytes.NewReader(body)))
	return rec
}

func (f *backupFixture) restore(t *testing.T, sealed []byte, passphrase string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/backup/restore", bytes.NewReader(sealed))
	if passphrase != "" {
		req.Header.Set(PassphraseHeader, passphrase)
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := setupBackupHandler(t)

	l, err := f.ws.CreateList(ctx, "Market")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	rec := f.snapshot(t, "correct horse")
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot: status %d body %s", rec.Code, rec.Body)
	}
	sealed := rec.Body.Bytes()

	if _, err := f.ws.DeleteList(ctx, l.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(f.ws.Lists()) != 0 {
		t.Fatal("expected no lists before restore")
	}

	rec = f.restore(t, sealed, "correct horse")
	if rec.Code != http.StatusOK {
		t.Fatalf("restore: status %d body %s", rec.Code, rec.Body)
	}
	if got := f.ws.List(l.ID); got == nil || got.Name != "Market" {
		t.Errorf("restored list = %+v", got)
	}
	if types := f.hub.types(); len(types) != 1 || types[0] != "collection_restored" {
		t.Errorf("broadcasts = %v", types)
	}
}

func TestBackupErrors(t *testing.T) {
	ctx := context.Background()
	f := setupBackupHandler(t)

	if rec := f.snapshot(t, "correct horse"); rec.Code != http.StatusNotFound {
		t.Errorf("snapshot of nothing: status %d", rec.Code)
	}
	if rec := f.snapshot(t, "short"); rec.Code != http.StatusBadRequest {
		t.Errorf("short passphrase: status %d", rec.Code)
	}

	if _, err := f.ws.CreateList(ctx, "Market"); err != nil {
		t.Fatalf("create list: %v", err)
	}
	sealed := f.snapshot(t, "correct horse").Body.Bytes()

	if rec := f.restore(t, sealed, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("missing passphrase: status %d", rec.Code)
	}
	if rec := f.restore(t, sealed, "wrong horse"); rec.Code != http.StatusBadRequest {
		t.Errorf("wrong passphrase: status %d", rec.Code)
	}
	if rec := f.restore(t, []byte("garbage"), "correct horse"); rec.Code != http.StatusBadRequest {
		t.Errorf("garbage: status %d", rec.Code)
	}
}
