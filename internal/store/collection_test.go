package store

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dukerupert/shoplist/internal/model"
)

func strPtr(s string) *string { return &s }

func sampleCollection() model.Collection {
	created := time.Date(2026, 3, 1, 9, 30, 0, 123000000, time.UTC)
	updated := created.Add(90 * time.Minute)
	return model.Collection{
		{
			ID:   "l1",
			Name: "Market",
			Items: []model.Item{
				{ID: "i1", Name: "Milk", Quantity: 2, CreatedAt: created, CategoryID: strPtr("dairy")},
				{ID: "i2", Name: "Bread", Quantity: 1, Checked: true, CreatedAt: updated},
			},
			Categories: model.DefaultCategories(),
			CreatedAt:  created,
			UpdatedAt:  updated,
		},
		{
			ID:         "l2",
			Name:       "Empty",
			Items:      []model.Item{},
			Categories: []model.Category{},
			CreatedAt:  created,
			UpdatedAt:  created,
		},
	}
}

func assertCollectionsEqual(t *testing.T, got, want model.Collection) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.ID != w.ID || g.Name != w.Name {
			t.Errorf("list[%d] = (%q, %q), want (%q, %q)", i, g.ID, g.Name, w.ID, w.Name)
		}
		if !g.CreatedAt.Equal(w.CreatedAt) || !g.UpdatedAt.Equal(w.UpdatedAt) {
			t.Errorf("list[%d] timestamps = (%v, %v), want (%v, %v)", i, g.CreatedAt, g.UpdatedAt, w.CreatedAt, w.UpdatedAt)
		}
		if len(g.Items) != len(w.Items) {
			t.Fatalf("list[%d] items = %d, want %d", i, len(g.Items), len(w.Items))
		}
		for j := range w.Items {
			gi, wi := g.Items[j], w.Items[j]
			if gi.ID != wi.ID || gi.Name != wi.Name || gi.Quantity != wi.Quantity || gi.Checked != wi.Checked {
				t.Errorf("item[%d][%d] = %+v, want %+v", i, j, gi, wi)
			}
			if !gi.CreatedAt.Equal(wi.CreatedAt) {
				t.Errorf("item[%d][%d].CreatedAt = %v, want %v", i, j, gi.CreatedAt, wi.CreatedAt)
			}
			if (gi.CategoryID == nil) != (wi.CategoryID == nil) || (gi.CategoryID != nil && *gi.CategoryID != *wi.CategoryID) {
				t.Errorf("item[%d][%d].CategoryID = %v, want %v", i, j, gi.CategoryID, wi.CategoryID)
			}
		}
		if len(g.Categories) != len(w.Categories) {
			t.Fatalf("list[%d] categories = %d, want %d", i, len(g.Categories), len(w.Categories))
		}
		for j := range w.Categories {
			if g.Categories[j] != w.Categories[j] {
				t.Errorf("category[%d][%d] = %+v, want %+v", i, j, g.Categories[j], w.Categories[j])
			}
		}
	}
}

func TestLoadAbsentKeyIsEmpty(t *testing.T) {
	s := NewCollectionStore(NewMemoryArea(), slog.Default())

	res, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Status != StatusEmpty {
		t.Errorf("status = %q, want %q", res.Status, StatusEmpty)
	}
	if res.Lists == nil || len(res.Lists) != 0 {
		t.Errorf("lists = %v, want empty non-nil", res.Lists)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewCollectionStore(setupSQLiteArea(t), slog.Default())

	want := sampleCollection()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Status != StatusLoaded {
		t.Fatalf("status = %q, want %q", res.Status, StatusLoaded)
	}
	assertCollectionsEqual(t, res.Lists, want)
}

func TestLoadMalformedIsCorrupt(t *testing.T) {
	ctx := context.Background()
	area := NewMemoryArea()
	area.Set(ctx, CollectionKey, []byte(`{not json`))
	s := NewCollectionStore(area, slog.Default())

	res, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load should not fail on malformed data: %v", err)
	}
	if res.Status != StatusCorrupt {
		t.Errorf("status = %q, want %q", res.Status, StatusCorrupt)
	}
	if res.Reason == "" {
		t.Error("expected a reason for corrupt data")
	}
	if len(res.Lists) != 0 {
		t.Errorf("expected empty lists, got %d", len(res.Lists))
	}
}

func TestLoadWrongShapeIsCorrupt(t *testing.T) {
	ctx := context.Background()
	area := NewMemoryArea()
	area.Set(ctx, CollectionKey, []byte(`{"id":"l1"}`))
	s := NewCollectionStore(area, slog.Default())

	res, _ := s.Load(ctx)
	if res.Status != StatusCorrupt {
		t.Errorf("status = %q, want %q", res.Status, StatusCorrupt)
	}
}

func TestLoadBackfillsMissingCategories(t *testing.T) {
	ctx := context.Background()
	area := NewMemoryArea()
	blob := `[{"id":"l1","name":"Old","items":[{"id":"i1","name":"Soap","quantity":0,"checked":false,"createdAt":"2024-05-01T10:00:00.000Z"}],"createdAt":"2024-05-01T10:00:00.000Z","updatedAt":"2024-05-02T11:30:00.000Z"}]`
	area.Set(ctx, CollectionKey, []byte(blob))
	s := NewCollectionStore(area, slog.Default())

	res, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Status != StatusLoaded {
		t.Fatalf("status = %q, want %q", res.Status, StatusLoaded)
	}

	l := res.Lists[0]
	defaults := model.DefaultCategories()
	if len(l.Categories) != len(defaults) {
		t.Fatalf("categories = %d, want %d", len(l.Categories), len(defaults))
	}
	for i := range defaults {
		if l.Categories[i].ID != defaults[i].ID {
			t.Errorf("category[%d] = %q, want %q", i, l.Categories[i].ID, defaults[i].ID)
		}
	}

	wantUpdated := time.Date(2024, 5, 2, 11, 30, 0, 0, time.UTC)
	if !l.UpdatedAt.Equal(wantUpdated) {
		t.Errorf("updatedAt = %v, want %v", l.UpdatedAt, wantUpdated)
	}
	if l.Items[0].CreatedAt.IsZero() {
		t.Error("item createdAt was not revived")
	}
	if l.Items[0].Quantity != 1 {
		t.Errorf("quantity = %d, want 1", l.Items[0].Quantity)
	}
}

func TestLoadKeepsExplicitEmptyCategories(t *testing.T) {
	ctx := context.Background()
	area := NewMemoryArea()
	area.Set(ctx, CollectionKey, []byte(`[{"id":"l1","name":"x","items":[],"categories":[],"createdAt":"2024-05-01T10:00:00Z","updatedAt":"2024-05-01T10:00:00Z"}]`))
	s := NewCollectionStore(area, slog.Default())

	res, _ := s.Load(ctx)
	if len(res.Lists[0].Categories) != 0 {
		t.Errorf("expected user-emptied categories to stay empty, got %d", len(res.Lists[0].Categories))
	}
}

func TestBackfilledCategoriesAreIndependent(t *testing.T) {
	lists, err := Decode([]byte(`[{"id":"a","name":"a"},{"id":"b","name":"b"}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	lists[0].Categories[0].Name = "changed"
	if lists[1].Categories[0].Name == "changed" {
		t.Error("backfilled categories share storage between lists")
	}
}

func TestNilAreaIsNoop(t *testing.T) {
	ctx := context.Background()
	s := NewCollectionStore(nil, nil)

	if err := s.Save(ctx, sampleCollection()); err != nil {
		t.Fatalf("save without area should be a no-op, got %v", err)
	}
	res, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Status != StatusEmpty || len(res.Lists) != 0 {
		t.Errorf("got %q with %d lists, want empty", res.Status, len(res.Lists))
	}
}

func TestEncodeNeverWritesNullSlices(t *testing.T) {
	data, err := Encode(model.Collection{{ID: "l1", Name: "x"}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	lists, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if lists[0].Categories == nil || len(lists[0].Categories) != 0 {
		t.Errorf("nil categories should persist as empty, got %v", lists[0].Categories)
	}

	data, _ = Encode(nil)
	if string(data) != "[]" {
		t.Errorf("Encode(nil) = %s, want []", data)
	}
}
