package pagination

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	listRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_pagination_requests_total",
		Help: "Total number of paginated list requests",
	}, []string{"resource", "status", "page_range"})

	listDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blog_pagination_duration_seconds",
		Help:    "Paginated list duration distribution",
		Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
	}, []string{"resource"})

	listTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "blog_pagination_total_count",
		Help: "Last observed total item count per listed resource",
	}, []string{"resource"})

	listErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_pagination_errors_total",
		Help: "Total number of paginated list errors",
	}, []string{"resource", "type"})
)

// pageRange buckets page numbers so deep paging is visible without a label per page.
func pageRange(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}

// Observation times one paginated list request and reports it once to the
// logs and the pagination metrics.
type Observation struct {
	logger   *slog.Logger
	resource string
	params   Params
	start    time.Time
}

// Observe logs the request and starts the timer.
func Observe(logger *slog.Logger, resource string, params Params) *Observation {
	logger.Info("Paginated request",
		slog.String("resource", resource),
		slog.Int("page", params.Page),
		slog.Int("limit", params.Limit),
		slog.String("sort", params.Sort),
		slog.String("order", string(params.Order)))
	return &Observation{logger: logger, resource: resource, params: params, start: time.Now()}
}

// Done records a successful page of returned items out of total.
func (o *Observation) Done(returned int, total int64) {
	d := time.Since(o.start)
	listRequests.WithLabelValues(o.resource, "200", pageRange(o.params.Page)).Inc()
	listDuration.WithLabelValues(o.resource).Observe(d.Seconds())
	listTotal.WithLabelValues(o.resource).Set(float64(total))
	o.logger.Info("Paginated response",
		slog.String("resource", o.resource),
		slog.Int("page", o.params.Page),
		slog.Int("limit", o.params.Limit),
		slog.Int("returned_count", returned),
		slog.Int64("total", total),
		slog.Int64("duration_ms", d.Milliseconds()))
}

// Fail records a failed request; 4xx count as validation errors, the rest as storage.
func (o *Observation) Fail(err error, status int) {
	kind := "storage"
	if status < 500 {
		kind = "validation"
	}
	listRequests.WithLabelValues(o.resource, strconv.Itoa(status), pageRange(o.params.Page)).Inc()
	listErrors.WithLabelValues(o.resource, kind).Inc()
	o.logger.Error("Pagination error",
		slog.String("resource", o.resource),
		slog.Int("page", o.params.Page),
		slog.Int("limit", o.params.Limit),
		slog.Any("error", err),
		slog.String("error_type", kind))
}
