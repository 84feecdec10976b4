package model

import "time"

// UncategorizedKey is the grouping key for items without a (live) category.
const UncategorizedKey = "uncategorized"

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Item struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	Checked    bool      `json:"checked"`
	CreatedAt  time.Time `json:"createdAt"`
	CategoryID *string   `json:"categoryId,omitempty"`
}

type List struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Items      []Item     `json:"items"`
	Categories []Category `json:"categories"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Collection is every list the user has, persisted as one unit.
type Collection []List

var defaultCategories = []Category{
	{ID: "fruits", Name: "Fruits & Vegetables", Color: "#4ade80"},
	{ID: "dairy", Name: "Dairy", Color: "#60a5fa"},
	{ID: "meat", Name: "Meat", Color: "#f43f5e"},
	{ID: "bakery", Name: "Bakery", Color: "#fbbf24"},
	{ID: "cleaning", Name: "Cleaning", Color: "#a3a3a3"},
	{ID: "drinks", Name: "Drinks", Color: "#c084fc"},
	{ID: "canned", Name: "Canned Goods", Color: "#f97316"},
	{ID: "frozen", Name: "Frozen", Color: "#0ea5e9"},
	{ID: "other", Name: "Other", Color: "#737373"},
}

// DefaultCategories returns a fresh copy of the category template seeded into
// every new list. Callers may modify the result freely.
func DefaultCategories() []Category {
	out := make([]Category, len(defaultCategories))
	copy(out, defaultCategories)
	return out
}

// IsDefaultCategory reports whether id belongs to the default template.
func IsDefaultCategory(id string) bool {
	for _, c := range defaultCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the list.
func (l List) Clone() List {
	out := l
	out.Items = make([]Item, len(l.Items))
	for i, item := range l.Items {
		if item.CategoryID != nil {
			id := *item.CategoryID
			item.CategoryID = &id
		}
		out.Items[i] = item
	}
	out.Categories = make([]Category, len(l.Categories))
	copy(out.Categories, l.Categories)
	return out
}

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for i, l := range c {
		out[i] = l.Clone()
	}
	return out
}

// Find returns the index of the list with the given id, or -1.
func (c Collection) Find(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// FindItem returns the index of the item with the given id, or -1.
func (l *List) FindItem(id string) int {
	for i := range l.Items {
		if l.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// FindCategory returns the index of the category with the given id, or -1.
func (l *List) FindCategory(id string) int {
	for i := range l.Categories {
		if l.Categories[i].ID == id {
			return i
		}
	}
	return -1
}
