package config

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestConfigMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewConfigMetrics(reg, "test")

	m.RecordFallback("schedule")
	m.RecordFallback("schedule")
	m.RecordLoad(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("schedule")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackActive))
	assert.Positive(t, testutil.ToFloat64(m.LoadTimestamp))

	m.RecordLoad(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FallbackActive))

	n, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestConfigMetrics_DuplicatePanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	NewConfigMetrics(reg, "dup")
	assert.Panics(t, func() { NewConfigMetrics(reg, "dup") })
}
