package shopping

import "github.com/dukerupert/shoplist/internal/model"

// Group is one bucket of a list's items. Category is nil for the
// uncategorized bucket.
type Group struct {
	Key      string          `json:"key"`
	Category *model.Category `json:"category,omitempty"`
	Items    []model.Item    `json:"items"`
}

type Groups []Group

// GroupByCategory buckets the list's items: uncategorized first, then one
// bucket per category in list order. Items keep their insertion order, and an
// item pointing at a category the list no longer has lands in uncategorized.
func GroupByCategory(l model.List) Groups {
	groups := make(Groups, 0, len(l.Categories)+1)
	groups = append(groups, Group{Key: model.UncategorizedKey, Items: []model.Item{}})

	index := make(map[string]int, len(l.Categories))
	for i := range l.Categories {
		cat := l.Categories[i]
		if _, dup := index[cat.ID]; dup {
			continue
		}
		index[cat.ID] = len(groups)
		groups = append(groups, Group{Key: cat.ID, Category: &cat, Items: []model.Item{}})
	}

	for _, item := range l.Items {
		bucket := 0
		if item.CategoryID != nil {
			if i, ok := index[*item.CategoryID]; ok {
				bucket = i
			}
		}
		groups[bucket].Items = append(groups[bucket].Items, item)
	}
	return groups
}

// Map returns the key to items mapping.
func (g Groups) Map() map[string][]model.Item {
	m := make(map[string][]model.Item, len(g))
	for _, grp := range g {
		m[grp.Key] = grp.Items
	}
	return m
}

// Get returns the items for key, or nil if there is no such bucket.
func (g Groups) Get(key string) []model.Item {
	for _, grp := range g {
		if grp.Key == key {
			return grp.Items
		}
	}
	return nil
}

// NonEmpty drops buckets without items, keeping order.
func (g Groups) NonEmpty() Groups {
	out := make(Groups, 0, len(g))
	for _, grp := range g {
		if len(grp.Items) > 0 {
			out = append(out, grp)
		}
	}
	return out
}

// FindCategory looks up a category by id within the list. A nil id finds nothing.
func FindCategory(l model.List, categoryID *string) *model.Category {
	if categoryID == nil {
		return nil
	}
	for i := range l.Categories {
		if l.Categories[i].ID == *categoryID {
			c := l.Categories[i]
			return &c
		}
	}
	return nil
}

type Summary struct {
	Total   int `json:"total"`
	Checked int `json:"checked"`
}

func Summarize(l model.List) Summary {
	s := Summary{Total: len(l.Items)}
	for _, item := range l.Items {
		if item.Checked {
			s.Checked++
		}
	}
	return s
}
