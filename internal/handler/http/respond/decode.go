package respond

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"inkwell/internal/domain/entity"
)

// Decode reads a JSON request body into v.
// Malformed, empty or oversized bodies come back as a body ValidationError.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return &entity.ValidationError{Field: "body", Message: "is too large"}
		case errors.Is(err, io.EOF):
			return &entity.ValidationError{Field: "body", Message: "is required"}
		default:
			return &entity.ValidationError{Field: "body", Message: "must be valid JSON"}
		}
	}
	return nil
}
