package id

import "github.com/google/uuid"

// New returns an opaque identifier for a list, item or category.
func New() string {
	return uuid.NewString()
}
