package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/marketplace/classifieds/internal/core/domain"
	"github.com/marketplace/classifieds/internal/core/ports"
)

// DefaultSessionTTL is the session lifetime when none is configured.
const DefaultSessionTTL = time.Hour

// SessionService keeps only the user id in the session and rehydrates the
// full user on every request.
type SessionService struct {
	store ports.SessionStore
	users ports.UserRepository
	ttl   time.Duration
	log   zerolog.Logger
}

func NewSessionService(store ports.SessionStore, users ports.UserRepository, ttl time.Duration, log zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{store: store, users: users, ttl: ttl, log: log}
}

// TTL is the lifetime given to new sessions.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Start opens a new session for an authenticated user.
func (s *SessionService) Start(ctx context.Context, user *domain.User) (*domain.Session, error) {
	now := time.Now().UTC()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Create(ctx, sess, s.ttl); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	s.log.Debug().Str("user_id", user.ID).Msg("session started")
	return sess, nil
}

// Resolve returns the user attached to the session, or nil when the session
// is unknown, anonymous, or points at a user that no longer exists.
func (s *SessionService) Resolve(ctx context.Context, sessionID string) (*domain.User, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if !sess.Authenticated() {
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Str("user_id", sess.UserID).Msg("session references missing user")
			return nil, nil
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	return user, nil
}

// End detaches the identity from the session. The session id itself stays
// valid until it expires.
func (s *SessionService) End(ctx context.Context, sessionID string) error {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("end session: %w", err)
	}
	if !sess.Authenticated() {
		return nil
	}

	sess.UserID = ""
	if err := s.store.Save(ctx, sess); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}
