package entity

import (
	"strings"
	"time"
	"unicode/utf8"
)

// maxCategoryNameLength bounds category names (in runes).
const maxCategoryNameLength = 50

// Category groups articles. Name is unique across categories.
type Category struct {
	ID           int64
	Name         string
	Description  string
	ArticleCount int64 // populated by list queries only
	CreatedAt    time.Time
}

// Validate checks the category fields that can be set by an administrator.
func (c *Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLength {
		return &ValidationError{Field: "name", Message: "is too long (max 50 characters)"}
	}
	return nil
}
