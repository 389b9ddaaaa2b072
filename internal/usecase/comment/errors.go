// Package comment provides use cases for reader comments and their moderation.
package comment

import "inkwell/internal/domain/entity"

// Sentinel errors for comment use case operations.
var (
	// ErrCommentNotFound indicates that the requested comment does not exist.
	ErrCommentNotFound = entity.NotFound("comment not found")

	// ErrArticleNotFound indicates that the commented article does not exist or is not published.
	ErrArticleNotFound = entity.NotFound("article not found")

	// ErrInvalidID indicates a non-positive article or comment ID.
	ErrInvalidID = &entity.ValidationError{Field: "id", Message: "must be a positive integer"}
)
