package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"inkwell/internal/pkg/config"
)

// WorkerMetrics are the Prometheus metrics of cmd/worker. Every job metric is
// labelled by job name (popular_terms, prune_queries).
type WorkerMetrics struct {
	*config.ConfigMetrics

	JobRunsTotal         *prometheus.CounterVec
	JobDurationSeconds   *prometheus.HistogramVec
	JobRowsTotal         *prometheus.CounterVec
	JobLastSuccessSecond *prometheus.GaugeVec
}

// NewWorkerMetrics registers the worker metrics on reg.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	f := promauto.With(reg)
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics(reg, "worker"),

		JobRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_job_runs_total",
			Help: "Job runs by job and status (success/failure)",
		}, []string{"job", "status"}),

		JobDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job runs in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 30, 120},
		}, []string{"job"}),

		JobRowsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_job_rows_total",
			Help: "Rows written or deleted by successful job runs",
		}, []string{"job"}),

		JobLastSuccessSecond: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "worker_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful run per job",
		}, []string{"job"}),
	}
}

// RecordRun records one finished run of job.
func (m *WorkerMetrics) RecordRun(job string, seconds float64, rows int64, err error) {
	m.JobDurationSeconds.WithLabelValues(job).Observe(seconds)
	if err != nil {
		m.JobRunsTotal.WithLabelValues(job, "failure").Inc()
		return
	}
	m.JobRunsTotal.WithLabelValues(job, "success").Inc()
	m.JobRowsTotal.WithLabelValues(job).Add(float64(rows))
	m.JobLastSuccessSecond.WithLabelValues(job).SetToCurrentTime()
}
