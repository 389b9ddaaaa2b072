package repository

import (
	"context"
	"time"

	"inkwell/internal/domain/entity"
)

// Metric names a single dashboard counter.
type Metric string

const (
	MetricArticles          Metric = "articles"
	MetricPublishedArticles Metric = "published_articles"
	MetricDraftArticles     Metric = "draft_articles"
	MetricCategories        Metric = "categories"
	MetricComments          Metric = "comments"
	MetricPendingComments   Metric = "pending_comments"
	MetricSubscribers       Metric = "subscribers"
	MetricMedia             Metric = "media"
	MetricTotalViews        Metric = "total_views"
)

// Series names a per-day creation series.
type Series string

const (
	SeriesArticles    Series = "articles"
	SeriesComments    Series = "comments"
	SeriesSubscribers Series = "subscribers"
)

// StatsRepository answers dashboard aggregate queries.
type StatsRepository interface {
	Count(ctx context.Context, m Metric) (int64, error)
	// Daily returns creation counts per day since since. Days without rows are omitted.
	Daily(ctx context.Context, s Series, since time.Time) ([]entity.DailyCount, error)
	CategoryStats(ctx context.Context) ([]entity.CategoryStat, error)
}
