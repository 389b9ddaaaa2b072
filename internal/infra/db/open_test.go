package db

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"inkwell/internal/observability/metrics"
)

func TestPoolConfigFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want PoolConfig
	}{
		{name: "defaults", want: DefaultPoolConfig()},
		{
			name: "overrides",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "50",
				"DB_MAX_IDLE_CONNS":     "5",
				"DB_CONN_MAX_LIFETIME":  "2h",
				"DB_CONN_MAX_IDLE_TIME": "10m",
			},
			want: PoolConfig{MaxOpen: 50, MaxIdle: 5, MaxLifetime: 2 * time.Hour, MaxIdleTime: 10 * time.Minute},
		},
		{
			name: "invalid values fall back",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":    "invalid",
				"DB_MAX_IDLE_CONNS":    "-1",
				"DB_CONN_MAX_LIFETIME": "soon",
			},
			want: DefaultPoolConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME"} {
				t.Setenv(k, tt.env[k])
			}
			assert.Equal(t, tt.want, PoolConfigFromEnv())
		})
	}
}

func TestOpen_MissingDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingDSN)
}

type countingStats struct{ calls atomic.Int32 }

func (c *countingStats) Stats() sql.DBStats {
	c.calls.Add(1)
	return sql.DBStats{InUse: 4, Idle: 6}
}

func TestReportPoolStats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &countingStats{}
	done := make(chan struct{})
	go func() {
		ReportPoolStats(ctx, src, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return src.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, float64(4), testutil.ToFloat64(metrics.DBConnectionsActive))
	assert.Equal(t, float64(6), testutil.ToFloat64(metrics.DBConnectionsIdle))
}
