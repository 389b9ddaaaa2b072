// Package resilience groups the fault tolerance helpers used around the
// database and the HTTP API client.
//
//   - circuitbreaker: gobreaker-based breakers; DBCircuitBreaker wraps *sql.DB
//   - retry: exponential backoff with jitter for transient failures
//
// Usage Example:
//
//	cb := circuitbreaker.NewDBCircuitBreaker(db)
//	artRepo := postgres.NewArticleRepo(cb)
//
//	err := retry.WithBackoff(ctx, retry.DBConfig(), func() error {
//	    return db.PingContext(ctx)
//	})
package resilience
