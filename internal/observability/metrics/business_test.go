package metrics

import (
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSearch(t *testing.T) {
	before := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues("relevance"))

	RecordSearch("relevance", 3)
	RecordSearch("relevance", 0)

	assert.Equal(t, before+2, testutil.ToFloat64(SearchRequestsTotal.WithLabelValues("relevance")))
}

func TestRecordSearchLogFailure(t *testing.T) {
	before := testutil.ToFloat64(SearchLogFailuresTotal)
	RecordSearchLogFailure()
	assert.Equal(t, before+1, testutil.ToFloat64(SearchLogFailuresTotal))
}

func TestRecordPopularRecompute(t *testing.T) {
	failures := testutil.ToFloat64(PopularTermsRecomputedTotal.WithLabelValues("failure"))

	RecordPopularRecompute(true, 42)
	assert.Equal(t, 42.0, testutil.ToFloat64(PopularTermsSnapshotSize))

	// 失敗時はスナップショットサイズを変えない
	RecordPopularRecompute(false, 0)
	assert.Equal(t, 42.0, testutil.ToFloat64(PopularTermsSnapshotSize))
	assert.Equal(t, failures+1, testutil.ToFloat64(PopularTermsRecomputedTotal.WithLabelValues("failure")))
}

func TestRecordCounters(t *testing.T) {
	views := testutil.ToFloat64(ArticleViewsTotal)
	comments := testutil.ToFloat64(CommentsSubmittedTotal)
	subs := testutil.ToFloat64(SubscriptionsTotal.WithLabelValues("subscribe"))

	RecordArticleView()
	RecordCommentSubmitted()
	RecordSubscription("subscribe")

	assert.Equal(t, views+1, testutil.ToFloat64(ArticleViewsTotal))
	assert.Equal(t, comments+1, testutil.ToFloat64(CommentsSubmittedTotal))
	assert.Equal(t, subs+1, testutil.ToFloat64(SubscriptionsTotal.WithLabelValues("subscribe")))
}

func histogramOf(t *testing.T, h prometheus.Histogram) *dto.Histogram {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	return m.GetHistogram()
}

func TestRecordMediaUpload(t *testing.T) {
	before := histogramOf(t, MediaUploadBytes)

	RecordMediaUpload(512 << 10)

	after := histogramOf(t, MediaUploadBytes)
	assert.Equal(t, before.GetSampleCount()+1, after.GetSampleCount())
	assert.Equal(t, before.GetSampleSum()+512<<10, after.GetSampleSum())
}

func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		duration  time.Duration
	}{
		{name: "fast query", operation: "search_articles", duration: 2 * time.Millisecond},
		{name: "slow query", operation: "recompute_popular", duration: 800 * time.Millisecond},
		{name: "zero duration", operation: "count", duration: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordDBQuery(tt.operation, tt.duration)
			})
		})
	}
}

func TestUpdateDBConnectionStats(t *testing.T) {
	UpdateDBConnectionStats(sql.DBStats{OpenConnections: 10, InUse: 3, Idle: 7, WaitCount: 2})

	assert.Equal(t, 3.0, testutil.ToFloat64(DBConnectionsActive))
	assert.Equal(t, 7.0, testutil.ToFloat64(DBConnectionsIdle))
	assert.Equal(t, 10.0, testutil.ToFloat64(DBConnectionsOpen))
	assert.Equal(t, 2.0, testutil.ToFloat64(DBConnectionsWaited))
}

func TestMetricNames(t *testing.T) {
	for name, c := range map[string]prometheus.Collector{
		"blog_article_views_total": ArticleViewsTotal,
		"db_connections_active":    DBConnectionsActive,
		"blog_search_results":      SearchResults,
	} {
		assert.Equal(t, 1, testutil.CollectAndCount(c, name), name)
	}
}
