package ports

import (
	"context"

	"github.com/marketplace/classifieds/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create inserts a user. A username collision returns domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Update overwrites the mutable fields of an existing user.
	Update(ctx context.Context, user *domain.User) error
}
