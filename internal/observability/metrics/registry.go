package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	blog = "blog"
	db   = "db"
)

func counter(ns, name, help string) prometheus.Counter {
	return promauto.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: name, Help: help})
}

func gauge(ns, name, help string) prometheus.Gauge {
	return promauto.NewGauge(prometheus.GaugeOpts{Namespace: ns, Name: name, Help: help})
}

// Reader and moderation traffic.
var (
	SearchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: blog, Name: "search_requests_total",
		Help: "Article searches by sort field.",
	}, []string{"sort"})

	SearchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: blog, Name: "search_results",
		Help:    "Articles matched per search.",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})

	// the search itself still succeeds when its term cannot be logged
	SearchLogFailuresTotal = counter(blog, "search_log_failures_total", "Search terms that could not be written to the query log.")

	PopularTermsRecomputedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: blog, Name: "popular_terms_recomputed_total",
		Help: "Popular term snapshot rebuilds by outcome.",
	}, []string{"status"})

	PopularTermsSnapshotSize = gauge(blog, "popular_terms_snapshot_size", "Distinct terms in the current popular terms snapshot.")

	ArticleViewsTotal      = counter(blog, "article_views_total", "Article detail views.")
	CommentsSubmittedTotal = counter(blog, "comments_submitted_total", "Comments entering the moderation queue.")

	// action: subscribe, reactivate, unsubscribe
	SubscriptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: blog, Name: "subscriptions_total",
		Help: "Subscription changes by action.",
	}, []string{"action"})

	MediaUploadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: blog, Name: "media_upload_bytes",
		Help:    "Accepted media upload sizes.",
		Buckets: prometheus.ExponentialBuckets(16<<10, 2, 10), // 16KiB .. 8MiB
	})
)

// Database.
var (
	DBQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: db, Name: "query_duration_seconds",
		Help:    "Database query duration by operation.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
	}, []string{"operation"})

	DBConnectionsActive = gauge(db, "connections_active", "Pool connections in use.")
	DBConnectionsIdle   = gauge(db, "connections_idle", "Idle pool connections.")
	DBConnectionsOpen   = gauge(db, "connections_open", "Open pool connections, in use or idle.")
	DBConnectionsWaited = gauge(db, "connections_waited", "Cumulative number of waits for a free connection.")
)
