package pathutil

import (
	"net/http"
	"strconv"

	"inkwell/internal/domain/entity"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
// It matches entity.ErrInvalidInput, so respond.Fail answers 400.
var ErrInvalidID error = &entity.ValidationError{Field: "id", Message: "must be a positive integer"}

// ParseID parses a positive int64 id.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// PathID parses the named {wildcard} of a ServeMux route as a positive id.
func PathID(r *http.Request, name string) (int64, error) {
	return ParseID(r.PathValue(name))
}

// QueryID parses an optional positive id query parameter.
// Absent or empty yields nil; anything else must be a positive integer.
func QueryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := ParseID(raw)
	if err != nil {
		return nil, &entity.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return &id, nil
}

// QueryInt parses an optional integer query parameter.
// Missing or malformed values yield def; callers clamp the range.
func QueryInt(r *http.Request, name string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return n
}
