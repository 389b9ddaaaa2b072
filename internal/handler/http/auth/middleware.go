package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"inkwell/internal/handler/http/respond"
	authservice "inkwell/internal/service/auth"
)

type ctxKey string

const ctxClaims ctxKey = "claims"

// PublicEndpoints are the admin paths reachable without a token.
var PublicEndpoints = []string{
	"/api/admin/auth/login",
}

// IsPublicEndpoint reports whether path is exactly one of PublicEndpoints,
// optionally with a trailing slash.
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if path == endpoint || path == endpoint+"/" {
			return true
		}
	}
	return false
}

// Authz requires a valid admin bearer token on every request except PublicEndpoints.
// The verified claims are stored in the request context.
func Authz(svc *authservice.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				RecordRejected("missing")
				respond.Error(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			claims, err := svc.Parse(token)
			if err != nil {
				RecordRejected("invalid")
				respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			if claims.Role != authservice.RoleAdmin {
				RecordRejected("forbidden")
				respond.Error(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// WithClaims returns ctx carrying claims.
func WithClaims(ctx context.Context, claims *authservice.Claims) context.Context {
	return context.WithValue(ctx, ctxClaims, claims)
}

// ClaimsFromContext returns the claims stored by Authz.
func ClaimsFromContext(ctx context.Context) (*authservice.Claims, bool) {
	c, ok := ctx.Value(ctxClaims).(*authservice.Claims)
	return c, ok
}

// Actor returns the admin subject of the request, or "" when unauthenticated.
func Actor(ctx context.Context) string {
	if c, ok := ClaimsFromContext(ctx); ok {
		return c.Subject
	}
	return ""
}

// ProfileDTO is the JSON shape of the current admin session.
type ProfileDTO struct {
	Username  string    `json:"username" example:"admin"`
	Role      string    `json:"role" example:"admin"`
	ExpiresAt time.Time `json:"expires_at"`
}
