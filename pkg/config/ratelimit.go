package config

import (
	"fmt"
	"log/slog"
	"time"
)

// RateLimitConfig configures the per-client token buckets in front of the
// public write endpoints (login, comment and subscribe).
type RateLimitConfig struct {
	Enabled bool
	// RPS is the sustained rate of requests per second per client IP.
	RPS float64
	// Burst is the bucket size per client IP.
	Burst int
	// IdleTTL is how long an idle client's bucket is kept before it is evicted.
	IdleTTL time.Duration
	// CleanupInterval is how often idle buckets are evicted.
	CleanupInterval time.Duration
}

// DefaultRateLimitConfig returns conservative limits for a personal blog:
// one request per second with bursts of five.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:         true,
		RPS:             1,
		Burst:           5,
		IdleTTL:         10 * time.Minute,
		CleanupInterval: time.Minute,
	}
}

// LoadRateLimitConfig reads RATE_LIMIT_ENABLED, RATE_LIMIT_RPS, RATE_LIMIT_BURST,
// RATE_LIMIT_IDLE_TTL and RATE_LIMIT_CLEANUP_INTERVAL. Values that are not
// positive are logged and replaced with DefaultRateLimitConfig's.
func LoadRateLimitConfig() RateLimitConfig {
	def := DefaultRateLimitConfig()
	return RateLimitConfig{
		Enabled:         GetEnvBool("RATE_LIMIT_ENABLED", def.Enabled),
		RPS:             positive("RATE_LIMIT_RPS", GetEnvFloat("RATE_LIMIT_RPS", def.RPS), def.RPS),
		Burst:           positive("RATE_LIMIT_BURST", GetEnvInt("RATE_LIMIT_BURST", def.Burst), def.Burst),
		IdleTTL:         positive("RATE_LIMIT_IDLE_TTL", GetEnvDuration("RATE_LIMIT_IDLE_TTL", def.IdleTTL), def.IdleTTL),
		CleanupInterval: positive("RATE_LIMIT_CLEANUP_INTERVAL", GetEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", def.CleanupInterval), def.CleanupInterval),
	}
}

// positive returns v, or def with a warning when v <= 0.
func positive[T int | float64 | time.Duration](key string, v, def T) T {
	if v > 0 {
		return v
	}
	slog.Warn("non-positive rate limit setting, using default",
		slog.String("key", key),
		slog.String("value", fmt.Sprint(v)),
		slog.String("default", fmt.Sprint(def)))
	return def
}
