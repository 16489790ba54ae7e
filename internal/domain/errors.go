package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a flight, ticket, city or admin does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoCapacity is returned when a flight has no seats left to book.
	ErrNoCapacity = errors.New("no seats available")
	// ErrConflict is returned when a write collides with existing or
	// concurrent state, such as a flight sharing a departure slot with
	// another flight, or a ticket whose status changed mid request.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized is returned for bad or missing admin credentials.
	ErrUnauthorized = errors.New("invalid credentials")
)

// ValidationError reports a single malformed, missing or out-of-range field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
