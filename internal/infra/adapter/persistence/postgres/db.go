// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"inkwell/internal/domain/entity"
)

// DefaultQueryTimeout bounds every repository call unless WithQueryTimeout overrides it.
const DefaultQueryTimeout = 5 * time.Second

// PostgreSQL error codes mapped to domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// psql is the squirrel builder for PostgreSQL ($N placeholders).
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Querier is the subset of *sql.DB and *sql.Tx used by the repositories.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// DBTX is a connection pool that can also open transactions.
// *sql.DB and *circuitbreaker.DBCircuitBreaker satisfy it.
type DBTX interface {
	Querier
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Option configures a repository.
type Option func(*base)

// WithQueryTimeout sets the per-call timeout. Non-positive values keep the default.
func WithQueryTimeout(d time.Duration) Option {
	return func(b *base) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// base carries the pool and timeout shared by every repository.
type base struct {
	db      DBTX
	timeout time.Duration
}

func newBase(db DBTX, opts []Option) base {
	b := base{db: db, timeout: DefaultQueryTimeout}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// bound applies the query timeout to ctx.
func (b base) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}

// snapshotOptions makes COUNT and the page query see the same data.
var snapshotOptions = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// withSnapshot runs fn inside a read-only REPEATABLE READ transaction.
func (b base) withSnapshot(ctx context.Context, fn func(q Querier) error) error {
	return b.inTx(ctx, snapshotOptions, fn)
}

// withTx runs fn inside a read-write transaction.
func (b base) withTx(ctx context.Context, fn func(q Querier) error) error {
	return b.inTx(ctx, nil, fn)
}

func (b base) inTx(ctx context.Context, opts *sql.TxOptions, fn func(q Querier) error) error {
	tx, err := b.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// listPage runs the count and the page query of a list endpoint in one snapshot.
// scan is called once per page row.
func (b base) listPage(ctx context.Context, count, page sq.SelectBuilder, scan func(*sql.Rows) error) (int64, error) {
	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	pageSQL, pageArgs, err := page.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build page: %w", err)
	}

	var total int64
	err = b.withSnapshot(ctx, func(q Querier) error {
		if err := q.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
			return fmt.Errorf("count: %w", err)
		}
		if total == 0 {
			return nil
		}
		rows, err := q.QueryContext(ctx, pageSQL, pageArgs...)
		if err != nil {
			return fmt.Errorf("page: %w", err)
		}
		defer func() { _ = rows.Close() }()
		for rows.Next() {
			if err := scan(rows); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
		}
		return rows.Err()
	})
	return total, err
}

// window applies LIMIT/OFFSET of a validated page.
func window(b sq.SelectBuilder, limit, offset int) sq.SelectBuilder {
	return b.Limit(uint64(limit)).Offset(uint64(offset))
}

// orderColumn maps an allow-listed sort field to its column, falling back to def.
func orderColumn(columns map[string]string, field, def string) string {
	if col, ok := columns[field]; ok {
		return col
	}
	return columns[def]
}

// mapError translates constraint violations into domain conflicts.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w", op, entity.Conflict("resource already exists"))
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, entity.Conflict("resource is referenced by other records"))
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// rowsChanged returns RowsAffected, or ErrNotFound when nothing changed.
func rowsChanged(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func nullTime(p *time.Time) sql.NullTime {
	if p == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *p, Valid: true}
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func timePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	v := n.Time
	return &v
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
