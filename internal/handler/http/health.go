package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Check status values. Only StatusUnhealthy fails the probe.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"` // RFC 3339, UTC
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus is the result of one component check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// BreakerState reports the state of a circuit breaker.
type BreakerState interface {
	State() gobreaker.State
}

// LimiterSize reports how many client entries a rate limiter tracks.
type LimiterSize interface {
	Size() int
}

// StorageChecker reports whether the media store can accept files.
type StorageChecker interface {
	Check(ctx context.Context) error
}

// HealthHandler reports on the database and its pool, the DB circuit breaker,
// the rate limiter tables and the media store. Nil components are skipped,
// except the database which is required.
type HealthHandler struct {
	DB       *sql.DB
	Breaker  BreakerState
	Limiters map[string]LimiterSize
	Storage  StorageChecker
	Version  string
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]CheckStatus{"database": h.database(ctx)}
	if h.Breaker != nil {
		checks["circuit_breaker"] = h.breaker()
	}
	if len(h.Limiters) > 0 {
		checks["rate_limiter"] = h.limiters()
	}
	if h.Storage != nil {
		checks["media_storage"] = h.storage(ctx)
	}

	resp := HealthResponse{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}
	code := http.StatusOK
	for _, c := range checks {
		if c.Status == StatusUnhealthy {
			resp.Status = StatusUnhealthy
			code = http.StatusServiceUnavailable
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Default().Warn("health: failed to encode response", slog.Any("error", err))
	}
}

// poolBusyPercent is the pool utilization at which the database is degraded.
const poolBusyPercent = 80.0

func (h *HealthHandler) database(ctx context.Context) CheckStatus {
	if h.DB == nil {
		return CheckStatus{Status: StatusUnhealthy, Message: "not configured"}
	}
	if err := h.DB.PingContext(ctx); err != nil {
		return CheckStatus{Status: StatusUnhealthy, Message: err.Error()}
	}

	s := h.DB.Stats()
	c := CheckStatus{Status: StatusHealthy, Details: map[string]any{
		"max_open_connections": s.MaxOpenConnections,
		"open_connections":     s.OpenConnections,
		"in_use":               s.InUse,
		"idle":                 s.Idle,
		"wait_count":           s.WaitCount,
		"wait_duration_ms":     s.WaitDuration.Milliseconds(),
	}}

	// 上限なし (0) の場合は使用率を出せない
	if s.MaxOpenConnections == 0 {
		c.Status = StatusDegraded
		c.Message = "connection pool max connections not configured"
		return c
	}
	busy := float64(s.InUse) / float64(s.MaxOpenConnections) * 100
	c.Details["utilization_percent"] = busy
	if busy >= poolBusyPercent {
		c.Status = StatusDegraded
		c.Message = "connection pool utilization above 80%"
	}
	return c
}

// An open breaker only degrades; the ping decides whether the probe fails.
func (h *HealthHandler) breaker() CheckStatus {
	state := h.Breaker.State()
	c := CheckStatus{Status: StatusHealthy, Details: map[string]any{"state": state.String()}}
	if state == gobreaker.StateOpen {
		c.Status = StatusDegraded
		c.Message = "database circuit breaker is open"
	}
	return c
}

func (h *HealthHandler) limiters() CheckStatus {
	details := make(map[string]any, len(h.Limiters))
	for scope, l := range h.Limiters {
		details[scope] = map[string]any{"active_keys": l.Size()}
	}
	return CheckStatus{Status: StatusHealthy, Details: details}
}

// Reads keep working without the upload directory, so a failure only degrades.
func (h *HealthHandler) storage(ctx context.Context) CheckStatus {
	if err := h.Storage.Check(ctx); err != nil {
		return CheckStatus{Status: StatusDegraded, Message: err.Error()}
	}
	return CheckStatus{Status: StatusHealthy}
}

// ReadyHandler answers readiness probes with a database ping.
type ReadyHandler struct {
	DB *sql.DB
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	switch {
	case h.DB == nil:
		http.Error(w, "database not configured", http.StatusServiceUnavailable)
	case h.DB.PingContext(ctx) != nil:
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
	default:
		plain(w, "ready")
	}
}

// LiveHandler always answers 200 while the process can serve requests.
type LiveHandler struct{}

func (LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) { plain(w, "alive") }

func plain(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
