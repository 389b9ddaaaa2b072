package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputValidation(t *testing.T) {
	limits := InputLimits{
		MaxAuthHeader: 64,
		MaxPath:       32,
		MaxBody:       16,
		UploadPaths:   []string{"/api/admin/media/upload"},
		UploadMaxBody: 1024,
	}

	tests := []struct {
		name     string
		path     string
		auth     string
		bodySize int
		want     int
	}{
		{name: "within limits", path: "/api/comments", auth: "Bearer abc", bodySize: 16, want: http.StatusOK},
		{name: "auth header too large", path: "/api/admin/articles", auth: "Bearer " + strings.Repeat("x", 64), want: http.StatusBadRequest},
		{name: "path too long", path: "/api/" + strings.Repeat("a", 40), want: http.StatusRequestURITooLong},
		{name: "json body over cap", path: "/api/comments", bodySize: 17, want: http.StatusRequestEntityTooLarge},
		{name: "upload gets its own cap", path: "/api/admin/media/upload", bodySize: 1024, want: http.StatusOK},
		{name: "upload over framing slack", path: "/api/admin/media/upload", bodySize: 1024 + 64<<10 + 1, want: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			handler := InputValidation(limits)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				if _, err := io.ReadAll(r.Body); err != nil {
					w.WriteHeader(http.StatusRequestEntityTooLarge)
					return
				}
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(strings.Repeat("b", tt.bodySize)))
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusBadRequest || tt.want == http.StatusRequestURITooLong {
				assert.False(t, reached, "handler must not run on rejected input")
				assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
			}
		})
	}
}

func TestDefaultInputLimits(t *testing.T) {
	l := DefaultInputLimits(5 << 20)
	assert.Equal(t, int64(1<<20), l.bodyLimit("/api/admin/articles"))
	assert.Equal(t, int64(5<<20+64<<10), l.bodyLimit("/api/admin/media/upload"))
}

func TestInputValidation_ZeroLimitsDisableChecks(t *testing.T) {
	handler := InputValidation(InputLimits{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/"+strings.Repeat("p", 5000), nil)
	req.Header.Set("Authorization", strings.Repeat("t", 10000))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
