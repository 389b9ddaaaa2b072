package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusSource reports job outcomes for /health/jobs.
type StatusSource interface {
	Statuses() []JobStatus
}

// HealthServer is the worker's probe port.
//
//	GET /health        liveness, always 200
//	GET /health/ready  200 after SetReady(true)
//	GET /health/jobs   last outcome per job, 503 when any last run failed
//	GET /metrics       the given gatherer
type HealthServer struct {
	addr     string
	logger   *slog.Logger
	jobs     StatusSource
	gatherer prometheus.Gatherer
	ready    atomic.Bool
	bound    atomic.Pointer[net.Addr]
}

type jobsResponse struct {
	Healthy bool        `json:"healthy"`
	Jobs    []JobStatus `json:"jobs"`
}

// NewHealthServer creates a server that starts as not ready.
func NewHealthServer(addr string, logger *slog.Logger, jobs StatusSource, gatherer prometheus.Gatherer) *HealthServer {
	return &HealthServer{addr: addr, logger: logger, jobs: jobs, gatherer: gatherer}
}

// Handler returns the probe routes.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if h.ready.Load() {
			h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
	})
	mux.HandleFunc("GET /health/jobs", h.serveJobs)
	if h.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// Start binds the port and serves until ctx ends. A bind failure is
// returned at once; a graceful stop returns http.ErrServerClosed.
func (h *HealthServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.addr)
	if err != nil {
		return fmt.Errorf("health server listen %s: %w", h.addr, err)
	}
	addr := ln.Addr()
	h.bound.Store(&addr)

	srv := &http.Server{
		Handler:      h.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  time.Minute,
	}
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()
	h.logger.Info("health server starting", slog.String("addr", addr.String()))

	select {
	case err := <-served:
		h.logger.Error("health server failed", slog.Any("error", err))
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		h.logger.Error("health server shutdown failed", slog.Any("error", err))
		return err
	}
	h.logger.Info("health server stopped")
	return http.ErrServerClosed
}

// Addr is the bound address once Start has listened, or nil.
func (h *HealthServer) Addr() net.Addr {
	if p := h.bound.Load(); p != nil {
		return *p
	}
	return nil
}

// SetReady changes the /health/ready answer.
func (h *HealthServer) SetReady(ready bool) {
	if h.ready.Swap(ready) != ready {
		h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
	}
}

func (h *HealthServer) serveJobs(w http.ResponseWriter, _ *http.Request) {
	resp := jobsResponse{Healthy: true, Jobs: []JobStatus{}}
	if h.jobs != nil {
		resp.Jobs = append(resp.Jobs, h.jobs.Statuses()...)
	}
	for _, j := range resp.Jobs {
		resp.Healthy = resp.Healthy && j.LastError == ""
	}
	code := http.StatusOK
	if !resp.Healthy {
		code = http.StatusServiceUnavailable
	}
	h.writeJSON(w, code, resp)
}

func (h *HealthServer) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
