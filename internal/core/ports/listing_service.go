package ports

import (
	"context"

	"github.com/marketplace/classifieds/internal/core/domain"
)

// CategoryInput carries the create-category form.
type CategoryInput struct {
	Name        string
	Description string
	Image       string
}

// PostInput carries the create/update post form.
type PostInput struct {
	Title       string
	Description string
	Image       string
	CategoryID  string
	Price       float64
}

// HomePage is everything the index page shows.
type HomePage struct {
	Posts      []*domain.Post
	Categories []*domain.Category
}

// CategoryPage is a category with the posts filed under it.
type CategoryPage struct {
	Category *domain.Category
	Posts    []*domain.Post
}

// EditForm is a post together with the category choices for editing it.
type EditForm struct {
	Post       *domain.Post
	Categories []*domain.Category
}

type ListingService interface {
	Home(ctx context.Context) (*HomePage, error)
	Post(ctx context.Context, id string) (*domain.Post, error)
	Categories(ctx context.Context) ([]*domain.Category, error)
	CategoryPage(ctx context.Context, id string) (*CategoryPage, error)
	OwnerListings(ctx context.Context, ownerID string) ([]*domain.Post, error)
	EditForm(ctx context.Context, id string) (*EditForm, error)

	CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error)
	CreatePost(ctx context.Context, owner *domain.User, in PostInput) (*domain.Post, error)
	UpdatePost(ctx context.Context, actor *domain.User, id string, in PostInput) (*domain.Post, error)
}
