// Package common defines shared sentinel errors used across the service and
// transport layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Account errors.
	ErrDuplicateEmail     = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("email or password is incorrect")

	// Validation errors; wrap with NewValidationError to carry a message.
	ErrValidation = errors.New("validation error")

	// Auth errors (invalid, malformed, or revoked token).
	ErrInvalidToken = errors.New("invalid token")
)

// NewValidationError returns an error that carries a human-readable message
// and matches ErrValidation under errors.Is.
func NewValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
