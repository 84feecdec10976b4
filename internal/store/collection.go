package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/shoplist/internal/model"
)

// CollectionKey is the fixed key the whole collection lives under.
const CollectionKey = "shopping-lists"

type LoadStatus string

const (
	StatusLoaded  LoadStatus = "loaded"
	StatusEmpty   LoadStatus = "empty"
	StatusCorrupt LoadStatus = "corrupt"
)

// LoadResult is what Load found. Lists is never nil. Reason is set only for
// StatusCorrupt.
type LoadResult struct {
	Lists  model.Collection
	Status LoadStatus
	Reason string
}

// CollectionStore reads and writes the entire collection as one blob.
type CollectionStore struct {
	area   Area
	key    string
	logger *slog.Logger
}

// NewCollectionStore returns a store backed by area. A nil area means no
// storage is available: Load reports an empty collection and Save does nothing.
func NewCollectionStore(area Area, logger *slog.Logger) *CollectionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollectionStore{area: area, key: CollectionKey, logger: logger}
}

func (s *CollectionStore) Load(ctx context.Context) (LoadResult, error) {
	data, ok, err := s.LoadRaw(ctx)
	if err != nil {
		return LoadResult{}, err
	}
	if !ok {
		return LoadResult{Lists: model.Collection{}, Status: StatusEmpty}, nil
	}

	lists, err := Decode(data)
	if err != nil {
		s.logger.Warn("stored collection is malformed, starting empty", "key", s.key, "error", err)
		return LoadResult{Lists: model.Collection{}, Status: StatusCorrupt, Reason: err.Error()}, nil
	}
	return LoadResult{Lists: lists, Status: StatusLoaded}, nil
}

func (s *CollectionStore) Save(ctx context.Context, lists model.Collection) error {
	if s.area == nil {
		return nil
	}
	data, err := Encode(lists)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := s.area.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	return nil
}

// LoadRaw returns the stored blob without decoding it.
func (s *CollectionStore) LoadRaw(ctx context.Context) ([]byte, bool, error) {
	if s.area == nil {
		return nil, false, nil
	}
	data, ok, err := s.area.Get(ctx, s.key)
	if err != nil {
		return nil, false, fmt.Errorf("load collection: %w", err)
	}
	return data, ok, nil
}

// wireList mirrors model.List with pointer slices so a missing field can be
// told apart from an empty one.
type wireList struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Items      *[]model.Item     `json:"items"`
	Categories *[]model.Category `json:"categories"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// Decode parses a stored blob and normalizes legacy data: lists without a
// categories field get the default set, missing items become empty and
// quantities are floored at 1.
func Decode(data []byte) (model.Collection, error) {
	var wire []wireList
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}

	lists := make(model.Collection, 0, len(wire))
	for _, w := range wire {
		l := model.List{
			ID:        w.ID,
			Name:      w.Name,
			CreatedAt: w.CreatedAt,
			UpdatedAt: w.UpdatedAt,
		}
		if w.Items != nil {
			l.Items = *w.Items
		}
		if l.Items == nil {
			l.Items = []model.Item{}
		}
		for i := range l.Items {
			if l.Items[i].Quantity < 1 {
				l.Items[i].Quantity = 1
			}
		}
		if w.Categories != nil {
			l.Categories = *w.Categories
		} else {
			l.Categories = model.DefaultCategories()
		}
		lists = append(lists, l)
	}
	return lists, nil
}

// Encode serializes the collection in the stored layout.
func Encode(lists model.Collection) ([]byte, error) {
	out := make(model.Collection, len(lists))
	for i, l := range lists {
		if l.Items == nil {
			l.Items = []model.Item{}
		}
		if l.Categories == nil {
			l.Categories = []model.Category{}
		}
		out[i] = l
	}
	return json.Marshal(out)
}
