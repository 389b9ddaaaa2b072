// Package db opens the PostgreSQL connection pool and manages the schema.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"inkwell/internal/observability/metrics"
	"inkwell/internal/resilience/retry"
	"inkwell/pkg/config"
)

// PoolConfig sizes the connection pool.
type PoolConfig struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
	MaxIdleTime time.Duration
}

// DefaultPoolConfig fits a single API instance next to the worker.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{MaxOpen: 25, MaxIdle: 10, MaxLifetime: time.Hour, MaxIdleTime: 30 * time.Minute}
}

// PoolConfigFromEnv reads DB_MAX_OPEN_CONNS, DB_MAX_IDLE_CONNS,
// DB_CONN_MAX_LIFETIME and DB_CONN_MAX_IDLE_TIME. Non-positive values keep the default.
func PoolConfigFromEnv() PoolConfig {
	c := DefaultPoolConfig()
	orDefault := func(v, def int) int {
		if v > 0 {
			return v
		}
		return def
	}
	orDefaultDur := func(v, def time.Duration) time.Duration {
		if v > 0 {
			return v
		}
		return def
	}
	return PoolConfig{
		MaxOpen:     orDefault(config.GetEnvInt("DB_MAX_OPEN_CONNS", c.MaxOpen), c.MaxOpen),
		MaxIdle:     orDefault(config.GetEnvInt("DB_MAX_IDLE_CONNS", c.MaxIdle), c.MaxIdle),
		MaxLifetime: orDefaultDur(config.GetEnvDuration("DB_CONN_MAX_LIFETIME", c.MaxLifetime), c.MaxLifetime),
		MaxIdleTime: orDefaultDur(config.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", c.MaxIdleTime), c.MaxIdleTime),
	}
}

func (c PoolConfig) apply(db *sql.DB) {
	db.SetMaxOpenConns(c.MaxOpen)
	db.SetMaxIdleConns(min(c.MaxIdle, c.MaxOpen))
	db.SetConnMaxLifetime(c.MaxLifetime)
	db.SetConnMaxIdleTime(c.MaxIdleTime)
}

// ErrMissingDSN is returned by Open when DATABASE_URL is empty.
var ErrMissingDSN = errors.New("DATABASE_URL not set")

// pingTimeout bounds each connectivity check while opening.
const pingTimeout = 5 * time.Second

// Open connects through the pgx stdlib driver, sizes the pool from the
// environment and pings until the server answers or retry.DBConfig gives up.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pool := PoolConfigFromEnv()
	pool.apply(db)
	slog.Info("database connection pool configured",
		slog.Int("max_open_conns", pool.MaxOpen),
		slog.Int("max_idle_conns", pool.MaxIdle),
		slog.Duration("conn_max_lifetime", pool.MaxLifetime),
		slog.Duration("conn_max_idle_time", pool.MaxIdleTime))

	// 起動直後の DB 未準備に備えてリトライ付きで疎通確認
	err = retry.WithBackoff(ctx, retry.DBConfig(), func() error {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connection established successfully")
	return db, nil
}

// StatsSource is satisfied by *sql.DB.
type StatsSource interface {
	Stats() sql.DBStats
}

// ReportPoolStats copies the pool's in-use and idle counts into the
// db_connections_* gauges every interval until ctx ends.
func ReportPoolStats(ctx context.Context, db StatsSource, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	metrics.UpdateDBConnectionStats(db.Stats())
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			metrics.UpdateDBConnectionStats(db.Stats())
		}
	}
}
