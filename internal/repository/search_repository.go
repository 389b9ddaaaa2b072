package repository

import (
	"context"
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
)

// SearchQuery is a normalized full-text query over published articles.
// Term is matched literally; implementations escape LIKE metacharacters.
type SearchQuery struct {
	Term       string
	CategoryID *int64
	Params     pagination.Params // Sort "relevance" orders by search.Fields weights
}

// SearchRepository runs article searches and keeps the search term statistics.
type SearchRepository interface {
	Search(ctx context.Context, q SearchQuery) ([]*entity.Article, int64, error)
	// Suggestions returns distinct published titles containing term, most viewed first.
	Suggestions(ctx context.Context, term string, limit int) ([]string, error)
	// PopularTerms reads the current snapshot ordered by count descending.
	PopularTerms(ctx context.Context, limit int) ([]entity.PopularTerm, error)
	// RecordQuery appends term to the query log.
	RecordQuery(ctx context.Context, term string, at time.Time) error
	// RecomputePopular replaces the snapshot with counts of queries logged since since.
	// Returns the number of distinct terms written.
	RecomputePopular(ctx context.Context, since time.Time) (int64, error)
	// PruneQueries deletes query log rows older than before.
	PruneQueries(ctx context.Context, before time.Time) (int64, error)
}
