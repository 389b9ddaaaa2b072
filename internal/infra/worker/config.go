// Package worker runs the periodic search maintenance jobs: the popular-term
// snapshot and the pruning of old query log rows.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/pkg/config"
)

// WorkerConfig holds the schedules and limits of cmd/worker.
type WorkerConfig struct {
	// PopularSchedule drives the popular-term recompute (five-field cron).
	PopularSchedule string
	// PruneSchedule drives the query log pruning.
	PruneSchedule string
	// Timezone is the IANA zone the schedules are evaluated in.
	Timezone string
	// PopularWindow is how far back the recompute counts queries.
	PopularWindow time.Duration
	// QueryRetention is how long query log rows are kept.
	QueryRetention time.Duration
	// JobTimeout bounds a single job run.
	JobTimeout time.Duration
	// HealthPort serves /health, /health/ready and /health/jobs.
	HealthPort int
}

// DefaultConfig recomputes every ten minutes over the last 30 days and prunes
// rows older than 90 days once a night.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		PopularSchedule: "*/10 * * * *",
		PruneSchedule:   "15 3 * * *",
		Timezone:        "UTC",
		PopularWindow:   30 * 24 * time.Hour,
		QueryRetention:  90 * 24 * time.Hour,
		JobTimeout:      5 * time.Minute,
		HealthPort:      9091,
	}
}

// Validate checks every field and reports all problems at once.
func (c *WorkerConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.PopularSchedule); err != nil {
		errs = append(errs, fmt.Errorf("popular schedule: %w", err))
	}
	if err := config.ValidateCronSchedule(c.PruneSchedule); err != nil {
		errs = append(errs, fmt.Errorf("prune schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.DurationRange(time.Hour, 365*24*time.Hour)(c.PopularWindow); err != nil {
		errs = append(errs, fmt.Errorf("popular window: %w", err))
	}
	if err := config.DurationRange(24*time.Hour, 10*365*24*time.Hour)(c.QueryRetention); err != nil {
		errs = append(errs, fmt.Errorf("query retention: %w", err))
	}
	if err := config.DurationRange(time.Second, time.Hour)(c.JobTimeout); err != nil {
		errs = append(errs, fmt.Errorf("job timeout: %w", err))
	}
	if err := config.IntRange(1024, 65535)(c.HealthPort); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	return errors.Join(errs...)
}

// LoadConfigFromEnv reads the worker configuration. Invalid values fall back
// to DefaultConfig, are logged and counted in metrics; it never fails.
//
// Environment variables:
//   - POPULAR_TERMS_SCHEDULE (default: */10 * * * *)
//   - SEARCH_LOG_PRUNE_SCHEDULE (default: 15 3 * * *)
//   - WORKER_TIMEZONE (default: UTC)
//   - POPULAR_TERMS_WINDOW (default: 720h)
//   - SEARCH_LOG_RETENTION (default: 2160h)
//   - WORKER_JOB_TIMEOUT (default: 5m)
//   - WORKER_HEALTH_PORT (default: 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) WorkerConfig {
	def := DefaultConfig()
	fallback := false

	note := func(field, warning string, applied bool) {
		if !applied {
			return
		}
		fallback = true
		metrics.RecordFallback(field)
		logger.Warn("Configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	cfg := def
	s := config.String("POPULAR_TERMS_SCHEDULE", def.PopularSchedule, config.ValidateCronSchedule)
	cfg.PopularSchedule = s.Value
	note("popular_schedule", s.Warning, s.FallbackApplied)

	s = config.String("SEARCH_LOG_PRUNE_SCHEDULE", def.PruneSchedule, config.ValidateCronSchedule)
	cfg.PruneSchedule = s.Value
	note("prune_schedule", s.Warning, s.FallbackApplied)

	s = config.String("WORKER_TIMEZONE", def.Timezone, config.ValidateTimezone)
	cfg.Timezone = s.Value
	note("timezone", s.Warning, s.FallbackApplied)

	d := config.Duration("POPULAR_TERMS_WINDOW", def.PopularWindow, config.DurationRange(time.Hour, 365*24*time.Hour))
	cfg.PopularWindow = d.Value
	note("popular_window", d.Warning, d.FallbackApplied)

	d = config.Duration("SEARCH_LOG_RETENTION", def.QueryRetention, config.DurationRange(24*time.Hour, 10*365*24*time.Hour))
	cfg.QueryRetention = d.Value
	note("query_retention", d.Warning, d.FallbackApplied)

	d = config.Duration("WORKER_JOB_TIMEOUT", def.JobTimeout, config.DurationRange(time.Second, time.Hour))
	cfg.JobTimeout = d.Value
	note("job_timeout", d.Warning, d.FallbackApplied)

	p := config.Int("WORKER_HEALTH_PORT", def.HealthPort, config.IntRange(1024, 65535))
	cfg.HealthPort = p.Value
	note("health_port", p.Warning, p.FallbackApplied)

	metrics.RecordLoad(fallback)
	return cfg
}
