// Package article provides use cases for managing blog articles.
// It implements the public listing and detail reads and the admin authoring operations,
// including validation, HTML sanitizing and interaction with the article repository.
package article

import "inkwell/internal/domain/entity"

// Sentinel errors for article use case operations.
var (
	// ErrArticleNotFound indicates that the requested article was not found,
	// or that it is not published when read from the public site.
	ErrArticleNotFound = entity.NotFound("article not found")

	// ErrInvalidArticleID indicates that the provided article ID is invalid.
	// Article IDs must be positive integers.
	ErrInvalidArticleID = &entity.ValidationError{Field: "id", Message: "must be a positive integer"}

	// ErrCategoryNotFound indicates that category_id refers to no category.
	ErrCategoryNotFound = &entity.ValidationError{Field: "category_id", Message: "category does not exist"}

	// ErrNothingToUpdate indicates an update request without any field set.
	ErrNothingToUpdate = &entity.ValidationError{Field: "body", Message: "no fields to update"}
)
