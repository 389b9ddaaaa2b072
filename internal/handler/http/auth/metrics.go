package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_auth_requests_total",
			Help: "Total admin login attempts by result",
		},
		[]string{"result"}, // result: success | failure
	)

	authDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blog_auth_duration_seconds",
			Help:    "Admin login duration",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	rejectedTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_auth_rejected_total",
			Help: "Admin requests rejected by the JWT middleware by reason",
		},
		[]string{"reason"}, // missing | invalid | forbidden
	)
)

// RecordAuthRequest records one login attempt.
func RecordAuthRequest(result string, durationSeconds float64) {
	authRequestsTotal.WithLabelValues(result).Inc()
	authDuration.Observe(durationSeconds)
}

// RecordRejected records a request refused by Authz.
func RecordRejected(reason string) {
	rejectedTokens.WithLabelValues(reason).Inc()
}
