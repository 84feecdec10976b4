// Package workspace holds the presentation-side mirror of the collection and
// the active list selection. The mirror is a cache: it is rebuilt from a fresh
// load after every mutation and never written back directly.
package workspace

import (
	"context"
	"sync"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/shopping"
)

type Workspace struct {
	mu       sync.RWMutex
	svc      *shopping.Service
	lists    model.Collection
	activeID string
}

func New(svc *shopping.Service) *Workspace {
	return &Workspace{svc: svc}
}

// Open loads the mirror and selects the first list, if any.
func (w *Workspace) Open(ctx context.Context) error {
	if err := w.refresh(ctx); err != nil {
		return err
	}
	w.mu.Lock()
	if w.activeID == "" && len(w.lists) > 0 {
		w.activeID = w.lists[0].ID
	}
	w.mu.Unlock()
	return nil
}

func (w *Workspace) refresh(ctx context.Context) error {
	lists, err := w.svc.Lists(ctx)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.lists = lists
	if w.activeID != "" && lists.Find(w.activeID) == -1 {
		w.activeID = firstID(lists)
	}
	w.mu.Unlock()
	return nil
}

func firstID(lists model.Collection) string {
	if len(lists) == 0 {
		return ""
	}
	return lists[0].ID
}

// Lists returns a copy of the mirrored collection.
func (w *Workspace) Lists() model.Collection {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lists.Clone()
}

// List returns a copy of one mirrored list, or nil.
func (w *Workspace) List(id string) *model.List {
	w.mu.RLock()
	defer w.mu.RUnlock()
	idx := w.lists.Find(id)
	if idx == -1 {
		return nil
	}
	l := w.lists[idx].Clone()
	return &l
}

// ActiveID returns the selected list id, or "" when nothing is selected.
func (w *Workspace) ActiveID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.activeID
}

// SetActive selects a list. An empty id clears the selection; an unknown id
// is refused.
func (w *Workspace) SetActive(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if id != "" && w.lists.Find(id) == -1 {
		return false
	}
	w.activeID = id
	return true
}

func (w *Workspace) CreateList(ctx context.Context, name string) (*model.List, error) {
	l, err := w.svc.CreateList(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := w.refresh(ctx); err != nil {
		return nil, err
	}
	w.mu.Lock()
	if w.activeID == "" {
		w.activeID = l.ID
	}
	w.mu.Unlock()
	return l, nil
}

// DeleteList removes the list. When it was the active one, the selection
// moves to the first remaining list or to none.
func (w *Workspace) DeleteList(ctx context.Context, id string) (bool, error) {
	ok, err := w.svc.DeleteList(ctx, id)
	if err != nil {
		return false, err
	}
	return ok, w.refresh(ctx)
}

func (w *Workspace) AddItem(ctx context.Context, listID, name string, quantity int, categoryID *string) (*model.Item, error) {
	item, err := w.svc.AddItem(ctx, listID, name, quantity, categoryID)
	if err != nil || item == nil {
		return item, err
	}
	return item, w.refresh(ctx)
}

func (w *Workspace) RemoveItem(ctx context.Context, listID, itemID string) (bool, error) {
	return w.afterBool(ctx)(w.svc.RemoveItem(ctx, listID, itemID))
}

func (w *Workspace) ToggleChecked(ctx context.Context, listID, itemID string) (bool, error) {
	return w.afterBool(ctx)(w.svc.ToggleChecked(ctx, listID, itemID))
}

func (w *Workspace) SetItemCategory(ctx context.Context, listID, itemID string, categoryID *string) (bool, error) {
	return w.afterBool(ctx)(w.svc.SetItemCategory(ctx, listID, itemID, categoryID))
}

func (w *Workspace) RemoveCategory(ctx context.Context, listID, categoryID string) (bool, error) {
	return w.afterBool(ctx)(w.svc.RemoveCategory(ctx, listID, categoryID))
}

func (w *Workspace) AddCategory(ctx context.Context, listID, name, color string) (*model.Category, error) {
	cat, err := w.svc.AddCategory(ctx, listID, name, color)
	if err != nil || cat == nil {
		return cat, err
	}
	return cat, w.refresh(ctx)
}

func (w *Workspace) ClearChecked(ctx context.Context, listID string) (int, bool, error) {
	n, found, err := w.svc.ClearChecked(ctx, listID)
	if err != nil || n == 0 {
		return n, found, err
	}
	return n, found, w.refresh(ctx)
}

// Reload rebuilds the mirror from storage, e.g. after a restore.
func (w *Workspace) Reload(ctx context.Context) error {
	return w.refresh(ctx)
}

// afterBool refreshes the mirror when a boolean operation changed something.
func (w *Workspace) afterBool(ctx context.Context) func(bool, error) (bool, error) {
	return func(ok bool, err error) (bool, error) {
		if err != nil || !ok {
			return ok, err
		}
		return true, w.refresh(ctx)
	}
}
