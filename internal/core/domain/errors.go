package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")

	ErrIncorrectPassphrase = errors.New("incorrect admin passphrase")

	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrPostNotFound     = errors.New("post not found")

	ErrSessionNotFound = errors.New("session not found")
)

// Authentication failure reasons. Both wrap ErrInvalidCredentials so the
// transport can answer with one generic message.
var (
	ErrIncorrectUsername = fmt.Errorf("%w: incorrect username", ErrInvalidCredentials)
	ErrIncorrectPassword = fmt.Errorf("%w: incorrect password", ErrInvalidCredentials)
)

// ValidationError carries a human-readable description of rejected input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
