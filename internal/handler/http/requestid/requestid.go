// Package requestid tags every request with an id that is echoed in the
// X-Request-ID response header and attached to log lines.
package requestid

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	// RequestIDKey holds the id in the request context.
	RequestIDKey contextKey = "request_id"
	// RequestIDHeader is read from requests and set on responses.
	RequestIDHeader = "X-Request-ID"

	maxLen = 64
	// idChars may appear in an id taken from the client.
	idChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_."
)

// FromContext returns the request id, or "" outside a request.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// WithRequestID returns ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Middleware keeps a Valid client X-Request-ID (the reader sends one per
// navigation) and otherwise assigns a fresh UUID v4.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !Valid(id) {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

// Valid reports whether id is 1..64 characters of [A-Za-z0-9._-], which keeps
// it safe to echo into headers and logs.
func Valid(id string) bool {
	return id != "" && len(id) <= maxLen && strings.Trim(id, idChars) == ""
}
