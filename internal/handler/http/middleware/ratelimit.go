package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"inkwell/internal/handler/http/respond"
	"inkwell/pkg/config"
)

var rateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "blog_rate_limited_total",
		Help: "Requests rejected by the per-IP rate limiter",
	},
	[]string{"scope"},
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	scope   string
	rate    rate.Limit
	burst   int
	idleTTL time.Duration

	mu       sync.Mutex
	limiters map[string]*ipLimiter
	now      func() time.Time
}

// NewRateLimiter creates a limiter named scope (used as metric label) from cfg.
func NewRateLimiter(scope string, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		scope:    scope,
		rate:     rate.Limit(cfg.RPS),
		burst:    cfg.Burst,
		idleTTL:  cfg.IdleTTL,
		limiters: make(map[string]*ipLimiter),
		now:      time.Now,
	}
}

// Allow consumes one token of ip's bucket.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	l, ok := rl.limiters[ip]
	if !ok {
		l = &ipLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = l
	}
	l.lastSeen = now
	return l.limiter.AllowN(now, 1)
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := RequestIP(r)
		if !rl.Allow(ip) {
			slog.Warn("rate limit exceeded",
				slog.String("scope", rl.scope),
				slog.String("ip", ip),
				slog.String("path", r.URL.Path))
			rateLimitedTotal.WithLabelValues(rl.scope).Inc()
			retryAfter := max(int(math.Ceil(1/float64(rl.rate))), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			respond.Error(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CleanupExpired evicts buckets idle for longer than the configured TTL.
func (rl *RateLimiter) CleanupExpired() int {
	cutoff := rl.now().Add(-rl.idleTTL)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for ip, l := range rl.limiters {
		if l.lastSeen.Before(cutoff) {
			delete(rl.limiters, ip)
			removed++
		}
	}
	return removed
}

// Size returns the number of tracked clients.
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// RunCleanup calls CleanupExpired every interval until ctx is done.
func (rl *RateLimiter) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.CleanupExpired(); n > 0 {
				slog.Debug("rate limiter: cleanup completed",
					slog.String("scope", rl.scope),
					slog.Int("removed", n),
					slog.Int("active_ips", rl.Size()))
			}
		}
	}
}
