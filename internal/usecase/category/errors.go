// Package category provides use cases for blog categories and their article lists.
package category

import "inkwell/internal/domain/entity"

// Sentinel errors for category use case operations.
var (
	// ErrCategoryNotFound indicates that the requested category does not exist.
	ErrCategoryNotFound = entity.NotFound("category not found")

	// ErrInvalidCategoryID indicates a non-positive category ID.
	ErrInvalidCategoryID = &entity.ValidationError{Field: "id", Message: "must be a positive integer"}

	// ErrDuplicateName indicates that another category already uses the name.
	ErrDuplicateName = entity.Conflict("category name already exists")

	// ErrCategoryInUse indicates that articles still reference the category.
	ErrCategoryInUse = entity.Conflict("category has articles and cannot be deleted")
)
