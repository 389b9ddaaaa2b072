package metrics

import (
	"database/sql"
	"time"
)

// RecordSearch records one search and its total match count.
func RecordSearch(sort string, total int64) {
	SearchRequestsTotal.WithLabelValues(sort).Inc()
	SearchResults.Observe(float64(total))
}

// RecordSearchLogFailure records a search term that could not be written to the query log.
func RecordSearchLogFailure() {
	SearchLogFailuresTotal.Inc()
}

// RecordPopularRecompute records a snapshot rebuild. terms is ignored on failure.
func RecordPopularRecompute(success bool, terms int64) {
	if !success {
		PopularTermsRecomputedTotal.WithLabelValues("failure").Inc()
		return
	}
	PopularTermsRecomputedTotal.WithLabelValues("success").Inc()
	PopularTermsSnapshotSize.Set(float64(terms))
}

// RecordArticleView records one article detail view.
func RecordArticleView() {
	ArticleViewsTotal.Inc()
}

// RecordCommentSubmitted records a comment entering the moderation queue.
func RecordCommentSubmitted() {
	CommentsSubmittedTotal.Inc()
}

// RecordSubscription records a subscription change.
// Action should be "subscribe", "reactivate" or "unsubscribe".
func RecordSubscription(action string) {
	SubscriptionsTotal.WithLabelValues(action).Inc()
}

// RecordMediaUpload records the size of an accepted upload.
func RecordMediaUpload(size int64) {
	MediaUploadBytes.Observe(float64(size))
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "search_articles", "recompute_popular").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats copies a pool snapshot into the db_connections_* gauges.
func UpdateDBConnectionStats(stats sql.DBStats) {
	DBConnectionsActive.Set(float64(stats.InUse))
	DBConnectionsIdle.Set(float64(stats.Idle))
	DBConnectionsOpen.Set(float64(stats.OpenConnections))
	DBConnectionsWaited.Set(float64(stats.WaitCount))
}
