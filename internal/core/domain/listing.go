package domain

import (
	"strings"
	"time"
)

// Category is a named grouping for posts. Key is the normalized name and is
// the uniqueness key in storage; Slug is only used for display and URLs.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Key         string    `json:"-"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryKey normalizes a category name for uniqueness checks: surrounding
// space trimmed, inner runs of whitespace collapsed, lower-cased.
func CategoryKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Post is a classified ad owned by a user and filed under a category.
//
// Owner and Category are only populated on reads.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	Price       float64   `json:"price"`
	CategoryID  string    `json:"category_id"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`

	Owner    *User     `json:"owner,omitempty"`
	Category *Category `json:"category,omitempty"`
}
