package postgres

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
)

// metricQueries are the fixed statements behind each dashboard counter.
var metricQueries = map[repository.Metric]string{
	repository.MetricArticles:          `SELECT COUNT(*) FROM articles`,
	repository.MetricPublishedArticles: `SELECT COUNT(*) FROM articles WHERE status = 'published'`,
	repository.MetricDraftArticles:     `SELECT COUNT(*) FROM articles WHERE status = 'draft'`,
	repository.MetricCategories:        `SELECT COUNT(*) FROM categories`,
	repository.MetricComments:          `SELECT COUNT(*) FROM comments`,
	repository.MetricPendingComments:   `SELECT COUNT(*) FROM comments WHERE status = 'pending'`,
	repository.MetricSubscribers:       `SELECT COUNT(*) FROM subscribers WHERE status = 'active'`,
	repository.MetricMedia:             `SELECT COUNT(*) FROM media`,
	repository.MetricTotalViews:        `SELECT COALESCE(SUM(view_count), 0) FROM articles`,
}

// seriesTables maps a series to its table name.
var seriesTables = map[repository.Series]string{
	repository.SeriesArticles:    "articles",
	repository.SeriesComments:    "comments",
	repository.SeriesSubscribers: "subscribers",
}

type StatsRepo struct {
	base
}

func NewStatsRepo(db DBTX, opts ...Option) *StatsRepo {
	return &StatsRepo{base: newBase(db, opts)}
}

var _ repository.StatsRepository = (*StatsRepo)(nil)

func (repo *StatsRepo) Count(ctx context.Context, m repository.Metric) (int64, error) {
	query, ok := metricQueries[m]
	if !ok {
		return 0, fmt.Errorf("Count: unknown metric %q", m)
	}
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	var n int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count %s: %w", m, err)
	}
	return n, nil
}

func (repo *StatsRepo) Daily(ctx context.Context, s repository.Series, since time.Time) ([]entity.DailyCount, error) {
	table, ok := seriesTables[s]
	if !ok {
		return nil, fmt.Errorf("Daily: unknown series %q", s)
	}
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	points, err := dailyCounts(ctx, repo.db, table, since)
	if err != nil {
		return nil, fmt.Errorf("Daily %s: %w", s, err)
	}
	return points, nil
}

func (repo *StatsRepo) CategoryStats(ctx context.Context) ([]entity.CategoryStat, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	const query = `
SELECT c.id, c.name, COUNT(a.id), COALESCE(SUM(a.view_count), 0)
FROM categories c
LEFT JOIN articles a ON a.category_id = c.id
GROUP BY c.id, c.name
ORDER BY COUNT(a.id) DESC, c.name ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("CategoryStats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stats := []entity.CategoryStat{}
	for rows.Next() {
		var s entity.CategoryStat
		if err := rows.Scan(&s.ID, &s.Name, &s.ArticleCount, &s.Views); err != nil {
			return nil, fmt.Errorf("CategoryStats: Scan: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
