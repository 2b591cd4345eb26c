package domain

import "time"

// Session is the server-side state behind a session cookie. An empty UserID
// means the session is anonymous.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Authenticated reports whether an identity is attached to the session.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != ""
}
