// Package metrics provides the blog's business and database Prometheus metrics.
//
// HTTP request metrics live with the HTTP middleware in internal/handler/http;
// this package covers what the use cases and the worker observe:
//   - search traffic and result sizes
//   - article views, comment submissions and subscriptions
//   - popular-term snapshot recomputes
//   - database query durations and pool usage (db.ReportPoolStats)
//
// All metrics are registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "inkwell/internal/observability/metrics"
//
//	start := time.Now()
//	results, total, err := repo.Search(ctx, q)
//	metrics.RecordDBQuery("search_articles", time.Since(start))
//	metrics.RecordSearch(q.Params.Sort, total)
package metrics
