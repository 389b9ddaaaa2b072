package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/observability/logging"
	"inkwell/internal/observability/metrics"
	core "inkwell/internal/pkg/search"
	"inkwell/internal/repository"
)

const (
	// DefaultLimit is the page size of search results.
	DefaultLimit = 10

	// DefaultSuggestionLimit and MaxSuggestionLimit bound Suggestions.
	DefaultSuggestionLimit = 10
	MaxSuggestionLimit     = 20

	// DefaultPopularWindow is how far back RecomputePopular counts queries.
	DefaultPopularWindow = 30 * 24 * time.Hour
)

// Sort is the sort allow-list of search. "relevance" ranks by match field weight.
var Sort = pagination.SortSpec{
	Allowed: []string{"relevance", "published_at", "view_count", "created_at"},
	Default: "relevance",
}

// Query carries the optional search filters and the result window.
type Query struct {
	CategoryID *int64
	Params     pagination.Params
}

// Page is one page of ranked search results.
type Page struct {
	Query      string
	Results    []entity.SearchResult
	Pagination pagination.Metadata
}

// Service provides search use cases.
type Service struct {
	Repo repository.SearchRepository
}

// Search finds published articles containing term in their title, summary or content.
// The term is trimmed and NFC-normalized; an empty or oversized term is rejected
// before storage is touched. Titles and summaries come back highlighted.
func (s *Service) Search(ctx context.Context, term string, q Query) (*Page, error) {
	term, err := validTerm(term)
	if err != nil {
		return nil, err
	}
	if q.CategoryID != nil && *q.CategoryID <= 0 {
		return nil, ErrInvalidCategory
	}

	start := time.Now()
	articles, total, err := s.Repo.Search(ctx, repository.SearchQuery{
		Term:       term,
		CategoryID: q.CategoryID,
		Params:     q.Params,
	})
	if err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	metrics.RecordDBQuery("search_articles", time.Since(start))
	metrics.RecordSearch(q.Params.Sort, total)

	// ページ送りで同じ検索語を重複計上しない
	if q.Params.Page <= 1 {
		s.record(ctx, term)
	}

	results := make([]entity.SearchResult, 0, len(articles))
	for _, a := range articles {
		score := core.Score(term, a.Title, a.Summary, a.Content)
		results = append(results, entity.SearchResult{
			Article:            a,
			RelevanceScore:     score,
			RelevancePercent:   core.Percent(score),
			HighlightedTitle:   core.Highlight(a.Title, term),
			HighlightedSummary: core.Highlight(a.Summary, term),
		})
	}
	return &Page{
		Query:      term,
		Results:    results,
		Pagination: pagination.NewMetadata(q.Params, total),
	}, nil
}

// record appends term to the query log. Failures only cost popularity data.
func (s *Service) record(ctx context.Context, term string) {
	if err := s.Repo.RecordQuery(ctx, term, time.Now()); err != nil {
		metrics.RecordSearchLogFailure()
		logging.WithRequestID(ctx, logging.FromContext(ctx)).Warn("record search term failed",
			slog.String("term", term),
			slog.Any("error", err))
	}
}

// Suggestions returns up to limit distinct published titles containing term,
// most viewed first. Terms shorter than two runes yield an empty list.
func (s *Service) Suggestions(ctx context.Context, term string, limit int) ([]string, error) {
	term = core.NormalizeTerm(term)
	if core.TermLength(term) < core.MinSuggestionLength {
		return []string{}, nil
	}
	if core.TermLength(term) > core.MaxTermLength {
		return nil, ErrTermTooLong
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	limit = min(limit, MaxSuggestionLimit)

	titles, err := s.Repo.Suggestions(ctx, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search suggestions: %w", err)
	}
	if titles == nil {
		titles = []string{}
	}
	return titles, nil
}

// PopularTerms returns up to limit terms from the latest snapshot, highest count first.
// While no snapshot has been computed the curated list is returned.
func (s *Service) PopularTerms(ctx context.Context, limit int) ([]entity.PopularTerm, error) {
	if limit <= 0 {
		limit = core.DefaultPopularLimit
	}
	limit = min(limit, core.MaxPopularLimit)

	terms, err := s.Repo.PopularTerms(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("popular terms: %w", err)
	}
	if len(terms) == 0 {
		return core.CuratedTerms(limit), nil
	}
	return terms, nil
}

// RecomputePopular rebuilds the popular term snapshot from queries logged within window.
func (s *Service) RecomputePopular(ctx context.Context, window time.Duration) (int64, error) {
	if window <= 0 {
		window = DefaultPopularWindow
	}
	start := time.Now()
	n, err := s.Repo.RecomputePopular(ctx, start.Add(-window))
	metrics.RecordPopularRecompute(err == nil, n)
	if err != nil {
		return 0, fmt.Errorf("recompute popular terms: %w", err)
	}
	metrics.RecordDBQuery("recompute_popular", time.Since(start))
	return n, nil
}

// PruneQueries deletes query log rows older than olderThan.
func (s *Service) PruneQueries(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, &entity.ValidationError{Field: "retention", Message: "must be positive"}
	}
	n, err := s.Repo.PruneQueries(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("prune search queries: %w", err)
	}
	return n, nil
}

func validTerm(raw string) (string, error) {
	term := core.NormalizeTerm(raw)
	if term == "" {
		return "", ErrEmptyTerm
	}
	if core.TermLength(term) > core.MaxTermLength {
		return "", ErrTermTooLong
	}
	return term, nil
}
