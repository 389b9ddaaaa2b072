package entity

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for domain layer operations.
// Use cases wrap them with NotFound / Conflict so callers can test with errors.Is.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrConflict indicates a uniqueness or referential conflict
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match validation failures.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// KindError is a user-facing error message tagged with one of the sentinel kinds.
type KindError struct {
	Kind    error
	Message string
}

func (e *KindError) Error() string { return e.Message }

func (e *KindError) Unwrap() error { return e.Kind }

// NotFound returns an error matching ErrNotFound with the given message.
func NotFound(msg string) error {
	return &KindError{Kind: ErrNotFound, Message: msg}
}

// Conflict returns an error matching ErrConflict with the given message.
func Conflict(msg string) error {
	return &KindError{Kind: ErrConflict, Message: msg}
}
