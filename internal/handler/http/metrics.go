package http

import (
	"net/http"
	"strconv"
	"time"

	"inkwell/internal/handler/http/pathutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TransportMetrics are the per-route HTTP series. Business counters live in
// observability/metrics.
type TransportMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
	reqSize  *prometheus.HistogramVec
	respSize *prometheus.HistogramVec
}

// NewTransportMetrics registers the HTTP series with reg.
func NewTransportMetrics(reg prometheus.Registerer) *TransportMetrics {
	f := promauto.With(reg)
	sizes := prometheus.ExponentialBuckets(100, 10, 8)
	return &TransportMetrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		// 5ms から 10s までのバケットで p95 / p99 を計測する
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "path", "status"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		}),
		reqSize: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: sizes,
		}, []string{"method", "path"}),
		respSize: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: sizes,
		}, []string{"method", "path"}),
	}
}

// Middleware records count, latency and sizes per normalized route.
// Ids are collapsed (/api/articles/42 -> /api/articles/:id) to bound label cardinality.
func (m *TransportMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		route := pathutil.NormalizePath(r.URL.Path)
		if r.ContentLength > 0 {
			m.reqSize.WithLabelValues(r.Method, route).Observe(float64(r.ContentLength))
		}

		rec := record(w)
		start := time.Now()
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start).Seconds()

		status := strconv.Itoa(rec.Status())
		m.requests.WithLabelValues(r.Method, route, status).Inc()
		m.duration.WithLabelValues(r.Method, route, status).Observe(elapsed)
		m.respSize.WithLabelValues(r.Method, route).Observe(float64(rec.bytes))
	})
}

var defaultTransport = NewTransportMetrics(prometheus.DefaultRegisterer)

// MetricsMiddleware records transport metrics on the default registry.
func MetricsMiddleware(next http.Handler) http.Handler {
	return defaultTransport.Middleware(next)
}

// MetricsHandler serves the default registry in the Prometheus text format.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
