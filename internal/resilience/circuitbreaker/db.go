package circuitbreaker

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sony/gobreaker"
)

// DBCircuitBreaker puts a breaker in front of *sql.DB.
// It satisfies postgres.DBTX so repositories take it in place of the pool.
type DBCircuitBreaker struct {
	cb *CircuitBreaker
	db *sql.DB
}

// DBConfig trips after five straight database failures and probes again after 30s.
func DBConfig() Config {
	return Config{
		Name:             "database",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0,
		MinRequests:      5,
		Successful:       dbHealthy,
	}
}

// dbHealthy treats errors caused by the request itself as successes:
// missing rows, canceled callers, and rejected data such as a duplicate slug
// (SQLSTATE class 22 data exception or 23 integrity violation).
func dbHealthy(err error) bool {
	if err == nil || errors.Is(err, sql.ErrNoRows) || errors.Is(err, context.Canceled) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) == 5 {
		switch pgErr.Code[:2] {
		case "22", "23":
			return true
		}
	}
	return false
}

func NewDBCircuitBreaker(db *sql.DB) *DBCircuitBreaker {
	return NewDBCircuitBreakerWithConfig(db, DBConfig())
}

func NewDBCircuitBreakerWithConfig(db *sql.DB, cfg Config) *DBCircuitBreaker {
	return &DBCircuitBreaker{cb: New(cfg), db: db}
}

// guarded runs fn through the breaker and keeps its result type.
func guarded[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (any, error) { return fn() })
	if err != nil {
		var zero T
		return zero, err
	}
	v, _ := res.(T)
	return v, nil
}

func (d *DBCircuitBreaker) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return guarded(d.cb, func() (*sql.Rows, error) { return d.db.QueryContext(ctx, query, args...) })
}

func (d *DBCircuitBreaker) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return guarded(d.cb, func() (sql.Result, error) { return d.db.ExecContext(ctx, query, args...) })
}

// QueryRowContext bypasses the breaker: sql.Row defers its error to Scan.
func (d *DBCircuitBreaker) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, query, args...)
}

// BeginTx guards only the BEGIN; statements run on the returned *sql.Tx.
func (d *DBCircuitBreaker) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return guarded(d.cb, func() (*sql.Tx, error) { return d.db.BeginTx(ctx, opts) })
}

func (d *DBCircuitBreaker) PingContext(ctx context.Context) error {
	return d.cb.Do(func() error { return d.db.PingContext(ctx) })
}

// State is read by the /health breaker check.
func (d *DBCircuitBreaker) State() gobreaker.State { return d.cb.State() }

func (d *DBCircuitBreaker) IsOpen() bool { return d.cb.IsOpen() }

// DB returns the unguarded pool.
func (d *DBCircuitBreaker) DB() *sql.DB { return d.db }
