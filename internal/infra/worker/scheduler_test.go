package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) (*Scheduler, *WorkerMetrics) {
	t.Helper()
	m := NewWorkerMetrics(prometheus.NewRegistry())
	return NewScheduler(time.UTC, time.Second, discardLogger(), m), m
}

func TestScheduler_RunNow_Success(t *testing.T) {
	t.Parallel()
	s, m := newTestScheduler(t)
	job := Job{Name: "popular_terms", Schedule: "*/10 * * * *", Run: func(ctx context.Context) (int64, error) {
		_, ok := ctx.Deadline()
		assert.True(t, ok, "run is bounded by the job timeout")
		return 7, nil
	}}
	require.NoError(t, s.Add(job))

	require.NoError(t, s.RunNow(context.Background(), job))

	st := s.Statuses()
	require.Len(t, st, 1)
	assert.Equal(t, "popular_terms", st[0].Name)
	assert.False(t, st[0].Running)
	assert.NotNil(t, st[0].LastSuccess)
	assert.Empty(t, st[0].LastError)
	assert.Equal(t, int64(7), st[0].Rows)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRunsTotal.WithLabelValues("popular_terms", "success")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.JobRowsTotal.WithLabelValues("popular_terms")))
}

func TestScheduler_RunNow_FailureThenRecovery(t *testing.T) {
	t.Parallel()
	s, m := newTestScheduler(t)
	fail := true
	job := Job{Name: "prune_queries", Schedule: "15 3 * * *", Run: func(context.Context) (int64, error) {
		if fail {
			return 0, errors.New("connection refused")
		}
		return 3, nil
	}}
	require.NoError(t, s.Add(job))

	require.Error(t, s.RunNow(context.Background(), job))
	st := s.Statuses()[0]
	assert.Equal(t, "connection refused", st.LastError)
	assert.Nil(t, st.LastSuccess)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRunsTotal.WithLabelValues("prune_queries", "failure")))

	fail = false
	require.NoError(t, s.RunNow(context.Background(), job))
	st = s.Statuses()[0]
	assert.Empty(t, st.LastError)
	assert.Equal(t, int64(3), st.Rows)
}

func TestScheduler_RunNow_Timeout(t *testing.T) {
	t.Parallel()
	m := NewWorkerMetrics(prometheus.NewRegistry())
	s := NewScheduler(time.UTC, 20*time.Millisecond, discardLogger(), m)
	job := Job{Name: "slow", Schedule: "* * * * *", Run: func(ctx context.Context) (int64, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}}

	err := s.RunNow(context.Background(), job)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScheduler_Add(t *testing.T) {
	t.Parallel()
	s, _ := newTestScheduler(t)
	run := func(context.Context) (int64, error) { return 0, nil }

	require.NoError(t, s.Add(Job{Name: "b", Schedule: "0 * * * *", Run: run}))
	require.NoError(t, s.Add(Job{Name: "a", Schedule: "0 * * * *", Run: run}))
	assert.Error(t, s.Add(Job{Name: "a", Schedule: "0 * * * *", Run: run}), "duplicate name")
	assert.Error(t, s.Add(Job{Name: "c", Schedule: "@hourly-ish", Run: run}), "invalid schedule")

	st := s.Statuses()
	require.Len(t, st, 2)
	assert.Equal(t, "a", st[0].Name)
	assert.Equal(t, "b", st[1].Name)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()
	s, _ := newTestScheduler(t)
	s.Start(context.Background())

	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
