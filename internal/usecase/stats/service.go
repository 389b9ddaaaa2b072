// Package stats provides the admin dashboard aggregates.
package stats

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
)

const (
	DefaultTrendDays   = 7
	MaxTrendDays       = 90
	DefaultPopularSize = 10
	MaxPopularSize     = 50
)

// ErrInvalidDays indicates a trend window outside 1..MaxTrendDays.
var ErrInvalidDays = &entity.ValidationError{Field: "days", Message: fmt.Sprintf("must be between 1 and %d", MaxTrendDays)}

// Service provides dashboard statistics.
type Service struct {
	Repo     repository.StatsRepository
	Articles repository.ArticleRepository
	Now      func() time.Time // nil means time.Now
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Overview gathers every dashboard counter concurrently.
// The first failing counter cancels the rest.
func (s *Service) Overview(ctx context.Context) (entity.StatsOverview, error) {
	var ov entity.StatsOverview
	targets := map[repository.Metric]*int64{
		repository.MetricArticles:          &ov.Articles,
		repository.MetricPublishedArticles: &ov.PublishedArticles,
		repository.MetricDraftArticles:     &ov.DraftArticles,
		repository.MetricCategories:        &ov.Categories,
		repository.MetricComments:          &ov.Comments,
		repository.MetricPendingComments:   &ov.PendingComments,
		repository.MetricSubscribers:       &ov.Subscribers,
		repository.MetricMedia:             &ov.Media,
		repository.MetricTotalViews:        &ov.TotalViews,
	}

	g, gctx := errgroup.WithContext(ctx)
	for m, dst := range targets {
		g.Go(func() error {
			n, err := s.Repo.Count(gctx, m)
			if err != nil {
				return fmt.Errorf("count %s: %w", m, err)
			}
			// 各goroutineは別フィールドにのみ書き込む
			*dst = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return entity.StatsOverview{}, fmt.Errorf("stats overview: %w", err)
	}
	return ov, nil
}

// Trends returns daily creation counts for the last days days (today included).
// Days without rows are filled with zero so every series has exactly days points.
func (s *Service) Trends(ctx context.Context, days int) (entity.Trends, error) {
	if days == 0 {
		days = DefaultTrendDays
	}
	if days < 1 || days > MaxTrendDays {
		return entity.Trends{}, ErrInvalidDays
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := today.AddDate(0, 0, -(days - 1))

	out := entity.Trends{Days: days}
	series := map[repository.Series]*[]entity.DailyCount{
		repository.SeriesArticles:    &out.Articles,
		repository.SeriesComments:    &out.Comments,
		repository.SeriesSubscribers: &out.Subscribers,
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, dst := range series {
		g.Go(func() error {
			rows, err := s.Repo.Daily(gctx, name, since)
			if err != nil {
				return fmt.Errorf("daily %s: %w", name, err)
			}
			*dst = fillDays(rows, since, days)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return entity.Trends{}, fmt.Errorf("stats trends: %w", err)
	}
	return out, nil
}

func fillDays(rows []entity.DailyCount, since time.Time, days int) []entity.DailyCount {
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Date] = r.Count
	}
	out := make([]entity.DailyCount, days)
	for i := range out {
		d := since.AddDate(0, 0, i).Format(time.DateOnly)
		out[i] = entity.DailyCount{Date: d, Count: counts[d]}
	}
	return out
}

// Popular returns the most viewed published articles.
func (s *Service) Popular(ctx context.Context, limit int) ([]*entity.Article, error) {
	if limit <= 0 {
		limit = DefaultPopularSize
	}
	if limit > MaxPopularSize {
		limit = MaxPopularSize
	}
	arts, err := s.Articles.MostViewed(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("popular articles: %w", err)
	}
	if arts == nil {
		arts = []*entity.Article{}
	}
	return arts, nil
}

// Categories returns article count and views per category.
func (s *Service) Categories(ctx context.Context) ([]entity.CategoryStat, error) {
	stats, err := s.Repo.CategoryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	if stats == nil {
		stats = []entity.CategoryStat{}
	}
	return stats, nil
}
