package model

import (
	"strings"
	"time"
)

// Status of a category. Only active categories are meant to be shown to shoppers.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// DefaultMaxDepth bounds every walk over parent links.
const DefaultMaxDepth = 10

// Category is one node of the self-referencing classification tree.
// ParentID nil marks a top-level category.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Image     *string   `json:"image"`
	Icon      *string   `json:"icon"`
	ParentID  *int64    `json:"parent_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// NormalizeName trims surrounding whitespace. Names are stored trimmed.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NewCategory is the row to insert for a create request.
// Callers validate first.
type NewCategory struct {
	Name     string
	Image    *string
	Icon     *string
	ParentID *int64
	Status   Status
}

// CategoryUpdate carries the fields of a partial update.
// Nil Name/Status means unchanged; Image/Icon use Optional so they can be cleared.
type CategoryUpdate struct {
	Name   *string
	Image  Optional[string]
	Icon   Optional[string]
	Status *Status
}

func (u CategoryUpdate) IsEmpty() bool {
	return u.Name == nil && !u.Image.Set && !u.Icon.Set && u.Status == nil
}

// ListFilter selects a page of top-level categories.
type ListFilter struct {
	Limit   int
	Offset  int
	Pattern string // ILIKE pattern, empty = no filter
}
