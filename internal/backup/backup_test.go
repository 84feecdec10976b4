package backup

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
)

func setupManager(t *testing.T) (*Manager, *store.CollectionStore) {
	t.Helper()
	cs := store.NewCollectionStore(store.NewMemoryArea(), slog.Default())
	return NewManager(cs, slog.Default()), cs
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, cs := setupManager(t)

	lists := model.Collection{{ID: "l1", Name: "Market", Items: []model.Item{{ID: "i1", Name: "Milk", Quantity: 2}}, Categories: model.DefaultCategories()}}
	if err := cs.Save(ctx, lists); err != nil {
		t.Fatalf("save: %v", err)
	}

	sealed, err := m.Snapshot(ctx, "pw")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if m.Status().LastSnapshot == nil {
		t.Error("expected LastSnapshot to be set")
	}

	if err := cs.Save(ctx, model.Collection{}); err != nil {
		t.Fatalf("clear: %v", err)
	}

	restored, err := m.Restore(ctx, sealed, "pw")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if len(restored) != 1 || restored[0].Name != "Market" {
		t.Errorf("restored = %+v", restored)
	}

	res, err := cs.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Lists) != 1 || len(res.Lists[0].Items) != 1 {
		t.Errorf("stored after restore = %+v", res.Lists)
	}
}

func TestSnapshotRequiresData(t *testing.T) {
	m, _ := setupManager(t)
	if _, err := m.Snapshot(context.Background(), "pw"); !errors.Is(err, ErrNothingToBackup) {
		t.Errorf("err = %v, want ErrNothingToBackup", err)
	}
	if _, err := m.Snapshot(context.Background(), ""); !errors.Is(err, ErrEmptyPassphrase) {
		t.Errorf("err = %v, want ErrEmptyPassphrase", err)
	}
}

func TestRestoreWrongPassphrase(t *testing.T) {
	ctx := context.Background()
	m, cs := setupManager(t)
	if err := cs.Save(ctx, model.Collection{{ID: "l1", Name: "A"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	sealed, err := m.Snapshot(ctx, "pw")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, err := m.Restore(ctx, sealed, "nope"); !errors.Is(err, ErrDecrypt) {
		t.Errorf("err = %v, want ErrDecrypt", err)
	}
}

func TestRestoreRefusesInvalidCollection(t *testing.T) {
	ctx := context.Background()
	m, cs := setupManager(t)
	if err := cs.Save(ctx, model.Collection{{ID: "keep", Name: "Keep"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	sealed, err := Seal([]byte(`{"not":"a list"}`), "pw")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if _, err := m.Restore(ctx, sealed, "pw"); !errors.Is(err, ErrInvalidSnapshot) {
		t.Errorf("err = %v, want ErrInvalidSnapshot", err)
	}

	res, err := cs.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Lists) != 1 || res.Lists[0].ID != "keep" {
		t.Errorf("stored data changed: %+v", res.Lists)
	}
}
