package ports

import (
	"context"

	"github.com/marketplace/classifieds/internal/core/domain"
)

// CategoryRepository persists categories.
type CategoryRepository interface {
	// Create inserts a category. A collision on the normalized name returns domain.ErrCategoryExists.
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	// List returns all categories ordered by name.
	List(ctx context.Context) ([]*domain.Category, error)
}

// PostFilter narrows List. Empty fields are not applied.
type PostFilter struct {
	OwnerID    string
	CategoryID string
}

// PostRepository persists posts. Reads return Owner and Category populated.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)
	// Replace overwrites every mutable field of the post with the same ID.
	Replace(ctx context.Context, p *domain.Post) error
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// List returns matching posts, newest first.
	List(ctx context.Context, filter PostFilter) ([]*domain.Post, error)
}
