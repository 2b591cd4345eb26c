package ports

import (
	"context"
	"time"

	"github.com/marketplace/classifieds/internal/core/domain"
)

// SessionStore keeps server-side session records.
type SessionStore interface {
	// Create stores a new session that expires after ttl.
	Create(ctx context.Context, s *domain.Session, ttl time.Duration) error
	// Get returns domain.ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Save overwrites an existing session without touching its expiry.
	Save(ctx context.Context, s *domain.Session) error
}
