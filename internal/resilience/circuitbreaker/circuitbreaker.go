// Package circuitbreaker guards the database and the reader's API calls with
// github.com/sony/gobreaker so an outage fails fast instead of piling up requests.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

// breakerState exposes the state per breaker: 0 closed, 1 half-open, 2 open.
var breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "circuit_breaker_state",
	Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
}, []string{"name"})

// Config tunes one breaker.
type Config struct {
	Name string

	// MaxRequests pass through while half-open.
	MaxRequests uint32
	// Interval clears closed-state counts; 0 never clears.
	Interval time.Duration
	// Timeout is the open period before probing again.
	Timeout time.Duration

	// The breaker trips once MinRequests calls were seen in the current
	// interval and the failure ratio reached FailureThreshold.
	FailureThreshold float64
	MinRequests      uint32

	// Successful decides whether an error counts against the dependency.
	// nil counts every non-nil error except context cancellation.
	Successful func(err error) bool
}

// DefaultConfig returns a breaker that trips at 60% failures over 5+ calls.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// APIConfig is the breaker of the reader's blog API client.
// It reopens sooner than the database breaker since a person is waiting.
func APIConfig() Config {
	return Config{
		Name:             "blog-api",
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 0.5,
		MinRequests:      3,
		Successful:       serverHealthy,
	}
}

// serverHealthy counts only 5xx and 429 answers, and errors without a status
// (timeouts, refused connections), against the server.
func serverHealthy(err error) bool {
	if ignoreCanceled(err) {
		return true
	}
	var se interface{ HTTPStatus() int }
	if errors.As(err, &se) {
		code := se.HTTPStatus()
		return code < 500 && code != 429
	}
	return false
}

// CircuitBreaker is a named gobreaker with logged and exported state changes.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New builds a breaker from cfg.
func New(cfg Config) *CircuitBreaker {
	successful := cfg.Successful
	if successful == nil {
		successful = ignoreCanceled
	}
	breakerState.WithLabelValues(cfg.Name).Set(0)

	return &CircuitBreaker{
		name: cfg.Name,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:         cfg.Name,
			MaxRequests:  cfg.MaxRequests,
			Interval:     cfg.Interval,
			Timeout:      cfg.Timeout,
			IsSuccessful: successful,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.Requests >= cfg.MinRequests &&
					float64(c.TotalFailures)/float64(c.Requests) >= cfg.FailureThreshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				breakerState.WithLabelValues(name).Set(float64(to))
				slog.Warn("circuit breaker state changed",
					slog.String("circuit", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()))
			},
		}),
	}
}

// A canceled caller says nothing about the dependency's health.
func ignoreCanceled(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// Execute runs fn unless the breaker is open, in which case it returns
// gobreaker.ErrOpenState (or ErrTooManyRequests while half-open) at once.
func (cb *CircuitBreaker) Execute(fn func() (any, error)) (any, error) {
	return cb.breaker.Execute(fn)
}

// Do is Execute for calls without a result.
func (cb *CircuitBreaker) Do(fn func() error) error {
	_, err := cb.breaker.Execute(func() (any, error) { return nil, fn() })
	return err
}

func (cb *CircuitBreaker) State() gobreaker.State { return cb.breaker.State() }

func (cb *CircuitBreaker) Name() string { return cb.name }

func (cb *CircuitBreaker) IsOpen() bool { return cb.breaker.State() == gobreaker.StateOpen }

// IsRejected reports whether err came from the breaker rather than the call.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
