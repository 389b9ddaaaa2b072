// Package search provides the article search, suggestion and popular term use cases.
package search

import "inkwell/internal/domain/entity"

// Sentinel errors for search use case operations.
var (
	// ErrEmptyTerm indicates a search without a term (after trimming).
	ErrEmptyTerm = &entity.ValidationError{Field: "q", Message: "search term is required"}

	// ErrTermTooLong indicates a term above the maximum rune length.
	ErrTermTooLong = &entity.ValidationError{Field: "q", Message: "search term must not exceed 100 characters"}

	// ErrInvalidCategory indicates a non-positive category filter.
	ErrInvalidCategory = &entity.ValidationError{Field: "category_id", Message: "must be a positive integer"}
)
