package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/marketplace/classifieds/internal/core/domain"
	"github.com/marketplace/classifieds/internal/core/ports"
)

// AuthService implements signup, credential checks and the admin grant.
type AuthService struct {
	users           ports.UserRepository
	hasher          ports.PasswordHasher
	adminPassphrase string
	log             zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, adminPassphrase string, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:           users,
		hasher:          hasher,
		adminPassphrase: adminPassphrase,
		log:             log,
	}
}

// Signup hashes the password and inserts the user. Username uniqueness is
// enforced by the store in the same write.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, domain.NewValidationError("username and password are required")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, domain.NewValidationError("first_name and last_name are required")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, &domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Username:     in.Username,
		PasswordHash: hash,
		Email:        strings.TrimSpace(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if !errors.Is(err, domain.ErrUserExists) {
			s.log.Error().Err(err).Str("username", in.Username).Msg("failed to create user")
		}
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Authenticate checks a username/password pair. Failures wrap
// domain.ErrInvalidCredentials; the specific reason stays in the error chain
// for logs and metrics.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Info().Str("username", username).Msg("login rejected: unknown username")
			return nil, domain.ErrIncorrectUsername
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Info().Str("username", username).Msg("login rejected: wrong password")
		return nil, domain.ErrIncorrectPassword
	}
	return user, nil
}

// GrantAdmin elevates the user behind userID when the passphrase matches.
// The same form also overwrites the account's names, username and password.
func (s *AuthService) GrantAdmin(ctx context.Context, userID string, in ports.AdminGrantInput) (*domain.User, error) {
	if !s.passphraseMatches(in.Passphrase) {
		s.log.Warn().Str("user_id", userID).Msg("admin grant rejected")
		return nil, domain.ErrIncorrectPassphrase
	}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, domain.NewValidationError("username and password are required")
	}
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, domain.NewValidationError("first_name and last_name are required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Username = in.Username
	user.PasswordHash = hash
	user.IsAdmin = true

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Warn().Str("user_id", user.ID).Str("username", user.Username).Msg("admin access granted")
	return user, nil
}

// passphraseMatches never matches when no passphrase is configured.
func (s *AuthService) passphraseMatches(given string) bool {
	if s.adminPassphrase == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(s.adminPassphrase)) == 1
}
