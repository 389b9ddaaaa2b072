// Package tracing wires OpenTelemetry into the HTTP stack.
//
// Init installs an SDK tracer provider so that every request gets a trace id
// (returned in X-Trace-Id and written to the request log). No exporter is
// configured; spans stay in process unless a caller registers one.
//
//	shutdown := tracing.Init(tracing.ConfigFromEnv())
//	defer shutdown(context.Background())
package tracing
