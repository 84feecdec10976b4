package shopping

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/shoplist/internal/id"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
)

// Persistence loads and saves the whole collection.
type Persistence interface {
	Load(ctx context.Context) (store.LoadResult, error)
	Save(ctx context.Context, lists model.Collection) error
}

// Service implements the list, item and category operations. Every mutation
// is a full load-modify-save cycle against the persistence port.
//
// Lookups that miss report a sentinel (nil or false) with a nil error; errors
// are reserved for storage failures.
type Service struct {
	mu     sync.Mutex
	store  Persistence
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(p Persistence, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  p,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  id.New,
	}
}

func (s *Service) load(ctx context.Context) (model.Collection, error) {
	res, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if res.Status == store.StatusCorrupt {
		s.logger.Warn("continuing with empty collection", "reason", res.Reason)
	}
	return res.Lists, nil
}

func (s *Service) save(ctx context.Context, lists model.Collection) error {
	if err := s.store.Save(ctx, lists); err != nil {
		return fmt.Errorf("persist collection: %w", err)
	}
	return nil
}

// mutateList runs fn against the list with the given id and persists the
// collection when fn reports a change. It returns false when either the list
// is missing or fn found nothing to change.
func (s *Service) mutateList(ctx context.Context, listID string, fn func(l *model.List) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	idx := lists.Find(listID)
	if idx == -1 {
		return false, nil
	}
	l := &lists[idx]
	if !fn(l) {
		return false, nil
	}
	l.UpdatedAt = s.now()
	if err := s.save(ctx, lists); err != nil {
		return false, err
	}
	return true, nil
}

// Lists returns the whole collection.
func (s *Service) Lists(ctx context.Context) (model.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// GetList returns nil when no list has the id.
func (s *Service) GetList(ctx context.Context, listID string) (*model.List, error) {
	lists, err := s.Lists(ctx)
	if err != nil {
		return nil, err
	}
	idx := lists.Find(listID)
	if idx == -1 {
		return nil, nil
	}
	l := lists[idx]
	return &l, nil
}

func (s *Service) CreateList(ctx context.Context, name string) (*model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	l := model.List{
		ID:         s.newID(),
		Name:       name,
		Items:      []model.Item{},
		Categories: model.DefaultCategories(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.save(ctx, append(lists, l)); err != nil {
		return nil, err
	}
	s.logger.Debug("list created", "list_id", l.ID)
	return &l, nil
}

// DeleteList removes the list and everything in it. Deleting an unknown id
// is a no-op reported as false.
func (s *Service) DeleteList(ctx context.Context, listID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	idx := lists.Find(listID)
	if idx == -1 {
		return false, nil
	}
	lists = append(lists[:idx], lists[idx+1:]...)
	if err := s.save(ctx, lists); err != nil {
		return false, err
	}
	s.logger.Debug("list deleted", "list_id", listID)
	return true, nil
}

// AddItem appends an item to the list. Quantities below 1 are stored as 1.
// The category reference is not checked against the list's categories.
func (s *Service) AddItem(ctx context.Context, listID, name string, quantity int, categoryID *string) (*model.Item, error) {
	if quantity < 1 {
		quantity = 1
	}
	var item model.Item
	ok, err := s.mutateList(ctx, listID, func(l *model.List) bool {
		item = model.Item{
			ID:         s.newID(),
			Name:       name,
			Quantity:   quantity,
			CreatedAt:  s.now(),
			CategoryID: normalizeRef(categoryID),
		}
		l.Items = append(l.Items, item)
		return true
	})
	if err != nil || !ok {
		return nil, err
	}
	return &item, nil
}

func (s *Service) RemoveItem(ctx context.Context, listID, itemID string) (bool, error) {
	return s.mutateList(ctx, listID, func(l *model.List) bool {
		idx := l.FindItem(itemID)
		if idx == -1 {
			return false
		}
		l.Items = append(l.Items[:idx], l.Items[idx+1:]...)
		return true
	})
}

func (s *Service) ToggleChecked(ctx context.Context, listID, itemID string) (bool, error) {
	return s.mutateList(ctx, listID, func(l *model.List) bool {
		idx := l.FindItem(itemID)
		if idx == -1 {
			return false
		}
		l.Items[idx].Checked = !l.Items[idx].Checked
		return true
	})
}

// SetItemCategory sets or, with a nil or empty categoryID, clears the item's
// category.
func (s *Service) SetItemCategory(ctx context.Context, listID, itemID string, categoryID *string) (bool, error) {
	return s.mutateList(ctx, listID, func(l *model.List) bool {
		idx := l.FindItem(itemID)
		if idx == -1 {
			return false
		}
		l.Items[idx].CategoryID = normalizeRef(categoryID)
		return true
	})
}

// ClearChecked removes every checked item and returns how many went.
func (s *Service) ClearChecked(ctx context.Context, listID string) (int, bool, error) {
	var removed int
	found := false
	_, err := s.mutateList(ctx, listID, func(l *model.List) bool {
		found = true
		kept := l.Items[:0]
		for _, item := range l.Items {
			if item.Checked {
				removed++
				continue
			}
			kept = append(kept, item)
		}
		l.Items = kept
		return removed > 0
	})
	if err != nil {
		return 0, false, err
	}
	return removed, found, nil
}

func (s *Service) AddCategory(ctx context.Context, listID, name, color string) (*model.Category, error) {
	var cat model.Category
	ok, err := s.mutateList(ctx, listID, func(l *model.List) bool {
		cat = model.Category{ID: s.newID(), Name: name, Color: color}
		l.Categories = append(l.Categories, cat)
		return true
	})
	if err != nil || !ok {
		return nil, err
	}
	return &cat, nil
}

// RemoveCategory drops the category and clears it from every item in the list
// that pointed at it.
func (s *Service) RemoveCategory(ctx context.Context, listID, categoryID string) (bool, error) {
	return s.mutateList(ctx, listID, func(l *model.List) bool {
		idx := l.FindCategory(categoryID)
		if idx == -1 {
			return false
		}
		l.Categories = append(l.Categories[:idx], l.Categories[idx+1:]...)
		for i := range l.Items {
			if ref := l.Items[i].CategoryID; ref != nil && *ref == categoryID {
				l.Items[i].CategoryID = nil
			}
		}
		return true
	})
}

func normalizeRef(ref *string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	v := *ref
	return &v
}
