package middleware

import (
	"net/http"
	"strings"

	"inkwell/pkg/security/csp"
)

// DefaultCSP locks API responses and uploaded files down to nothing executable.
var DefaultCSP = csp.APIPolicy().Build()

// SwaggerCSP lets the bundled Swagger UI load its own scripts and styles.
var SwaggerCSP = csp.SwaggerUIPolicy().Build()

// SecurityHeaders sets CSP and the usual hardening headers. The longest
// matching prefix of pathPolicies wins over defaultPolicy.
func SecurityHeaders(defaultPolicy string, pathPolicies map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if policy := selectPolicy(r.URL.Path, defaultPolicy, pathPolicies); policy != "" {
				h.Set("Content-Security-Policy", policy)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func selectPolicy(path, def string, policies map[string]string) string {
	longest := ""
	matched := def
	for prefix, policy := range policies {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(longest) {
			longest = prefix
			matched = policy
		}
	}
	return matched
}
