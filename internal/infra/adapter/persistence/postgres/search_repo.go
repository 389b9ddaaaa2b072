package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inkwell/internal/domain/entity"
	"inkwell/internal/pkg/search"
	"inkwell/internal/repository"
)

// maxPopularSnapshot bounds the number of terms kept in popular_terms.
const maxPopularSnapshot = 100

type SearchRepo struct {
	base
	queryBuilder *ArticleQueryBuilder
}

func NewSearchRepo(db DBTX, opts ...Option) *SearchRepo {
	return &SearchRepo{
		base:         newBase(db, opts),
		queryBuilder: NewArticleQueryBuilder(),
	}
}

var _ repository.SearchRepository = (*SearchRepo)(nil)

// Search returns one page of published articles matching q.Term in title,
// summary or content, with the total under the same predicate.
func (repo *SearchRepo) Search(ctx context.Context, q repository.SearchQuery) ([]*entity.Article, int64, error) {
	if q.Term == "" {
		return []*entity.Article{}, 0, nil
	}

	ctx, cancel := repo.bound(ctx)
	defer cancel()

	where := repo.queryBuilder.SearchWhere(q)
	count := repo.queryBuilder.Count().Where(where)
	page := repo.queryBuilder.SearchOrder(repo.queryBuilder.Select().Where(where), q)
	page = window(page, q.Params.Limit, q.Params.Offset())

	articles := make([]*entity.Article, 0, q.Params.Limit)
	total, err := repo.listPage(ctx, count, page, func(rows *sql.Rows) error {
		a, err := scanArticle(rows)
		if err != nil {
			return err
		}
		articles = append(articles, a)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("Search: %w", err)
	}
	return articles, total, nil
}

func (repo *SearchRepo) Suggestions(ctx context.Context, term string, limit int) ([]string, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	const query = `
SELECT title
FROM articles
WHERE status = 'published' AND title ILIKE $1
GROUP BY title
ORDER BY MAX(view_count) DESC, title ASC
LIMIT $2`
	rows, err := repo.db.QueryContext(ctx, query, search.ContainsPattern(term), limit)
	if err != nil {
		return nil, fmt.Errorf("Suggestions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	titles := make([]string, 0, limit)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("Suggestions: Scan: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

func (repo *SearchRepo) PopularTerms(ctx context.Context, limit int) ([]entity.PopularTerm, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	const query = `
SELECT term, count
FROM popular_terms
ORDER BY count DESC, term ASC
LIMIT $1`
	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("PopularTerms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	terms := make([]entity.PopularTerm, 0, limit)
	for rows.Next() {
		var t entity.PopularTerm
		if err := rows.Scan(&t.Term, &t.Count); err != nil {
			return nil, fmt.Errorf("PopularTerms: Scan: %w", err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

func (repo *SearchRepo) RecordQuery(ctx context.Context, term string, at time.Time) error {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	const query = `INSERT INTO search_queries (term, searched_at) VALUES ($1, $2)`
	if _, err := repo.db.ExecContext(ctx, query, term, at); err != nil {
		return fmt.Errorf("RecordQuery: %w", err)
	}
	return nil
}

// RecomputePopular rebuilds popular_terms from the query log. Terms differing
// only in case are counted together.
func (repo *SearchRepo) RecomputePopular(ctx context.Context, since time.Time) (int64, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	const insert = `
INSERT INTO popular_terms (term, count, updated_at)
SELECT MIN(term), COUNT(*), NOW()
FROM search_queries
WHERE searched_at >= $1
GROUP BY LOWER(term)
ORDER BY COUNT(*) DESC
LIMIT $2`

	var written int64
	err := repo.withTx(ctx, func(q Querier) error {
		if _, err := q.ExecContext(ctx, `DELETE FROM popular_terms`); err != nil {
			return err
		}
		res, err := q.ExecContext(ctx, insert, since, maxPopularSnapshot)
		if err != nil {
			return err
		}
		written, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("RecomputePopular: %w", err)
	}
	return written, nil
}

func (repo *SearchRepo) PruneQueries(ctx context.Context, before time.Time) (int64, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	res, err := repo.db.ExecContext(ctx, `DELETE FROM search_queries WHERE searched_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("PruneQueries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("PruneQueries: %w", err)
	}
	return n, nil
}
