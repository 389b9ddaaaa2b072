package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStatuses []JobStatus

func (f fixedStatuses) Statuses() []JobStatus { return f }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthServer_LivenessAndReadiness(t *testing.T) {
	t.Parallel()
	hs := NewHealthServer(":0", discardLogger(), nil, nil)
	h := hs.Handler()

	rec := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = get(t, h, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"not ready"}`, rec.Body.String())

	hs.SetReady(true)
	rec = get(t, h, "/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthServer_Jobs(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 10, 14, 3, 15, 0, 0, time.UTC)

	tests := []struct {
		name     string
		jobs     StatusSource
		wantCode int
		wantOK   bool
	}{
		{name: "no source", jobs: nil, wantCode: http.StatusOK, wantOK: true},
		{
			name:     "all succeeded",
			jobs:     fixedStatuses{{Name: "popular_terms", LastSuccess: &now, Rows: 12}},
			wantCode: http.StatusOK,
			wantOK:   true,
		},
		{
			name:     "last run failed",
			jobs:     fixedStatuses{{Name: "prune_queries", LastRun: &now, LastError: "timeout"}},
			wantCode: http.StatusServiceUnavailable,
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := get(t, NewHealthServer(":0", discardLogger(), tt.jobs, nil).Handler(), "/health/jobs")
			assert.Equal(t, tt.wantCode, rec.Code)

			var body jobsResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantOK, body.Healthy)
			assert.NotNil(t, body.Jobs)
		})
	}
}

func TestHealthServer_Metrics(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := NewWorkerMetrics(reg)
	m.RecordRun("popular_terms", 0.2, 5, nil)

	rec := get(t, NewHealthServer(":0", discardLogger(), nil, reg).Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `worker_job_runs_total{job="popular_terms",status="success"} 1`))
}

func TestHealthServer_StartAndStop(t *testing.T) {
	t.Parallel()
	hs := NewHealthServer("127.0.0.1:0", discardLogger(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- hs.Start(ctx) }()

	require.Eventually(t, func() bool { return hs.Addr() != nil }, time.Second, 5*time.Millisecond)
	resp, err := http.Get("http://" + hs.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	assert.ErrorIs(t, <-done, http.ErrServerClosed)
}

func TestHealthServer_StartBindError(t *testing.T) {
	t.Parallel()
	err := NewHealthServer("256.0.0.1:1", discardLogger(), nil, nil).Start(context.Background())
	assert.ErrorContains(t, err, "health server listen")
}
