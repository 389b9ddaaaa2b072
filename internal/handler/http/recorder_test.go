package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	tests := []struct {
		name       string
		write      func(w http.ResponseWriter)
		wantStatus int
		wantBytes  int
	}{
		{"nothing written", func(http.ResponseWriter) {}, http.StatusOK, 0},
		{"implicit 200", func(w http.ResponseWriter) { _, _ = w.Write([]byte("hello")) }, http.StatusOK, 5},
		{"explicit status", func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":true}`))
		}, http.StatusNotFound, 14},
		{"second WriteHeader ignored", func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusCreated)
			w.WriteHeader(http.StatusInternalServerError)
		}, http.StatusCreated, 0},
		{"bytes accumulate", func(w http.ResponseWriter) {
			_, _ = w.Write([]byte("abc"))
			_, _ = w.Write([]byte("defg"))
		}, http.StatusOK, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r := record(rec)
			tt.write(r)
			assert.Equal(t, tt.wantStatus, r.Status())
			assert.Equal(t, tt.wantBytes, r.bytes)
			if r.status != 0 {
				assert.Equal(t, tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestRecorder_ResponseController(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, http.NewResponseController(record(rec)).Flush())
	assert.True(t, rec.Flushed)
}
