// Package observability groups the blog's telemetry.
//
//   - logging: slog setup and request-scoped loggers
//   - metrics: Prometheus counters for reading, commenting, search and the database pool
//   - tracing: OpenTelemetry provider and the HTTP span middleware
//
// The API serves /metrics; the worker exposes its own health port.
package observability
