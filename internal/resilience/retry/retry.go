// Package retry re-runs operations that failed for transient reasons, waiting
// with exponential backoff plus jitter between attempts.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Config is a retry policy.
type Config struct {
	MaxAttempts  int           // total calls, including the first
	InitialDelay time.Duration // wait before the second call
	MaxDelay     time.Duration // cap on the base wait
	Multiplier   float64       // growth of the base wait per attempt
	// JitterFraction adds up to this share of the wait at random (0..1).
	JitterFraction float64
}

// DefaultConfig is a slow policy for background work.
func DefaultConfig() Config {
	return Config{MaxAttempts: 3, InitialDelay: time.Second, MaxDelay: 30 * time.Second, Multiplier: 2, JitterFraction: 0.1}
}

// APIConfig is the reader's policy. A person is waiting, so waits stay short.
func APIConfig() Config {
	return Config{MaxAttempts: 3, InitialDelay: 200 * time.Millisecond, MaxDelay: 2 * time.Second, Multiplier: 2, JitterFraction: 0.2}
}

// DBConfig covers connection blips, serialization failures and deadlocks.
func DBConfig() Config {
	return Config{MaxAttempts: 3, InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2, JitterFraction: 0.1}
}

// backoff is the base wait after the given failed attempt (1-based).
func (c Config) backoff(attempt int) time.Duration {
	d := float64(c.InitialDelay)
	for i := 1; i < attempt; i++ {
		d *= c.Multiplier
		if c.MaxDelay > 0 && d >= float64(c.MaxDelay) {
			return c.MaxDelay
		}
	}
	return time.Duration(d)
}

// WithBackoff calls fn until it succeeds, fails with a non-retryable error,
// or MaxAttempts calls were made. Canceling ctx stops the wait between calls.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			if attempt > 1 {
				slog.Info("operation succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		}
		if !IsRetryable(err) {
			if attempt > 1 {
				slog.Warn("non-retryable error, aborting", slog.Int("attempt", attempt), slog.Any("error", err))
			}
			return err
		}
		if attempt >= cfg.MaxAttempts {
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
		}

		wait := addJitter(cfg.backoff(attempt), cfg.JitterFraction)
		slog.Warn("operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", wait),
			slog.Any("error", err))

		t := time.NewTimer(wait)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}
	}
}

// Postgres SQLSTATEs worth another try besides class 08 (connection exception).
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsRetryable reports whether err looks transient: network timeouts and
// resets, Postgres connection or concurrency failures, and 5xx/429/408 answers.
// Context errors never are.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ETIMEDOUT), errors.Is(err, syscall.ENETUNREACH):
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var se StatusError
	if errors.As(err, &se) {
		code := se.HTTPStatus()
		return code >= 500 && code < 600 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout
	}
	return false
}

// StatusError is an error carrying an HTTP status, such as *api.Error.
type StatusError interface {
	error
	HTTPStatus() int
}

// HTTPError is a bare status failure.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string { return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message) }

func (e *HTTPError) HTTPStatus() int { return e.StatusCode }

// addJitter stretches d by a random share of at most fraction (capped at 1).
func addJitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return d
	}
	fraction = min(fraction, 1)
	// #nosec G404 -- backoff jitter does not need cryptographic randomness
	return d + time.Duration(rand.Float64()*fraction*float64(d))
}
