// Package subscriber provides newsletter subscription use cases.
package subscriber

import "inkwell/internal/domain/entity"

// Sentinel errors for subscriber use case operations.
var (
	// ErrAlreadySubscribed indicates that the email already has an active subscription.
	ErrAlreadySubscribed = entity.Conflict("email is already subscribed")

	// ErrNotSubscribed indicates that the email has no active subscription.
	ErrNotSubscribed = entity.NotFound("email is not subscribed")

	// ErrSubscriberNotFound indicates that the requested subscriber does not exist.
	ErrSubscriberNotFound = entity.NotFound("subscriber not found")

	// ErrInvalidID indicates a non-positive subscriber ID.
	ErrInvalidID = &entity.ValidationError{Field: "id", Message: "must be a positive integer"}
)
