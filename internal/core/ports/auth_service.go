package ports

import (
	"context"

	"github.com/marketplace/classifieds/internal/core/domain"
)

// PasswordHasher is a one-way salted password digest.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify never fails; a malformed hash simply does not match.
	Verify(plaintext, hash string) bool
}

// SignupInput carries the registration form.
type SignupInput struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
	Email     string
	Phone     string
}

// AdminGrantInput carries the admin access form.
type AdminGrantInput struct {
	Passphrase string
	FirstName  string
	LastName   string
	Username   string
	Password   string
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GrantAdmin(ctx context.Context, userID string, in AdminGrantInput) (*domain.User, error)
}

// SessionService maps browser sessions to identities.
type SessionService interface {
	Start(ctx context.Context, user *domain.User) (*domain.Session, error)
	// Resolve returns a nil user for anonymous sessions.
	Resolve(ctx context.Context, sessionID string) (*domain.User, error)
	End(ctx context.Context, sessionID string) error
}
