package http

import (
	"net/http"
	"strings"

	"inkwell/internal/handler/http/respond"
)

// InputLimits bounds the size of incoming requests.
type InputLimits struct {
	MaxAuthHeader int   // bytes of the Authorization header
	MaxPath       int   // bytes of the URL path
	MaxBody       int64 // bytes of a regular request body
	// UploadPaths get UploadMaxBody instead of MaxBody. The upload handler
	// enforces the exact cap itself, this only bounds the read.
	UploadPaths   []string
	UploadMaxBody int64
}

// DefaultInputLimits returns the API limits: 8 KiB auth header, 2 KiB path,
// 1 MiB JSON body and the given upload cap.
func DefaultInputLimits(uploadMax int64) InputLimits {
	return InputLimits{
		MaxAuthHeader: 8 << 10,
		MaxPath:       2 << 10,
		MaxBody:       1 << 20,
		UploadPaths:   []string{"/api/admin/media/upload"},
		UploadMaxBody: uploadMax,
	}
}

// bodyLimit picks the body cap for a path.
func (l InputLimits) bodyLimit(path string) int64 {
	for _, p := range l.UploadPaths {
		if strings.HasPrefix(path, p) {
			// multipart framing adds a little on top of the file itself
			return l.UploadMaxBody + 64<<10
		}
	}
	return l.MaxBody
}

// InputValidation rejects oversized headers and paths and caps the request body.
func InputValidation(limits InputLimits) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limits.MaxAuthHeader > 0 && len(r.Header.Get("Authorization")) > limits.MaxAuthHeader {
				respond.Error(w, http.StatusBadRequest, "authorization header too large")
				return
			}
			if limits.MaxPath > 0 && len(r.URL.Path) > limits.MaxPath {
				respond.Error(w, http.StatusRequestURITooLong, "URI too long")
				return
			}
			if max := limits.bodyLimit(r.URL.Path); max > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, max)
			}
			next.ServeHTTP(w, r)
		})
	}
}
