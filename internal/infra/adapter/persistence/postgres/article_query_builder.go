package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/pkg/search"
	"inkwell/internal/repository"
)

// articleColumns is the column list scanned by scanArticle.
var articleColumns = []string{
	"a.id", "a.title", "a.content", "a.summary", "a.cover_image",
	"a.category_id", "COALESCE(c.name, '')", "a.status", "a.published_at",
	"a.view_count", "a.created_at", "a.updated_at",
}

// articleSortColumns maps the public sort fields to columns.
var articleSortColumns = map[string]string{
	"id":           "a.id",
	"title":        "a.title",
	"published_at": "a.published_at",
	"view_count":   "a.view_count",
	"created_at":   "a.created_at",
	"updated_at":   "a.updated_at",
}

// sortRelevance is the search-only sort field ordering by search.Fields weights.
const sortRelevance = "relevance"

// ArticleQueryBuilder builds article list and search statements.
// COUNT and SELECT share one predicate so the total always matches the pages.
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// Where builds the conjunctive predicate of an article filter.
func (qb *ArticleQueryBuilder) Where(f repository.ArticleFilter) sq.And {
	where := sq.And{}
	if f.Status != "" {
		where = append(where, sq.Eq{"a.status": string(f.Status)})
	}
	if f.CategoryID != nil {
		where = append(where, sq.Eq{"a.category_id": *f.CategoryID})
	}
	if f.Search != "" {
		where = append(where, sq.ILike{"a.title": search.ContainsPattern(f.Search)})
	}
	return where
}

// SearchWhere matches published articles containing term in any searchable field.
func (qb *ArticleQueryBuilder) SearchWhere(q repository.SearchQuery) sq.And {
	pattern := search.ContainsPattern(q.Term)
	anyField := sq.Or{}
	for _, f := range search.Fields {
		anyField = append(anyField, sq.ILike{"a." + f.Column: pattern})
	}
	where := sq.And{sq.Eq{"a.status": string(entity.ArticleStatusPublished)}, anyField}
	if q.CategoryID != nil {
		where = append(where, sq.Eq{"a.category_id": *q.CategoryID})
	}
	return where
}

// RelevanceExpr returns the CASE expression scoring a row with search.Fields weights.
// The first matching field wins, mirroring search.Score.
func (qb *ArticleQueryBuilder) RelevanceExpr(term string) (string, []any) {
	pattern := search.ContainsPattern(term)
	var b strings.Builder
	args := make([]any, 0, len(search.Fields))
	b.WriteString("CASE")
	for _, f := range search.Fields {
		fmt.Fprintf(&b, " WHEN a.%s ILIKE ? THEN %d", f.Column, f.Weight)
		args = append(args, pattern)
	}
	b.WriteString(" ELSE 0 END")
	return b.String(), args
}

// Select returns the base SELECT with the category join.
func (qb *ArticleQueryBuilder) Select() sq.SelectBuilder {
	return psql.Select(articleColumns...).
		From("articles a").
		LeftJoin("categories c ON c.id = a.category_id")
}

// Count returns SELECT COUNT(*) over the same tables as Select.
func (qb *ArticleQueryBuilder) Count() sq.SelectBuilder {
	return psql.Select("COUNT(*)").From("articles a")
}

// Order applies a sort field and direction. id DESC is always the last key.
func (qb *ArticleQueryBuilder) Order(b sq.SelectBuilder, p pagination.Params, defaultField string) sq.SelectBuilder {
	col := orderColumn(articleSortColumns, p.Sort, defaultField)
	if col == "a.id" {
		return b.OrderBy("a.id " + string(p.Order))
	}
	return b.OrderBy(fmt.Sprintf("%s %s NULLS LAST", col, p.Order), "a.id DESC")
}

// SearchOrder orders search results. Relevance always ranks strongest first
// and ignores the requested order; ties break on published_at DESC then id DESC.
// Other fields fall back to Order.
func (qb *ArticleQueryBuilder) SearchOrder(b sq.SelectBuilder, q repository.SearchQuery) sq.SelectBuilder {
	if q.Params.Sort != sortRelevance {
		return qb.Order(b, q.Params, "published_at")
	}
	expr, args := qb.RelevanceExpr(q.Term)
	return b.OrderByClause(expr+" DESC", args...).
		OrderBy("a.published_at DESC NULLS LAST", "a.id DESC")
}

func scanArticle(s scanner) (*entity.Article, error) {
	var (
		a           entity.Article
		categoryID  sql.NullInt64
		publishedAt sql.NullTime
		status      string
	)
	if err := s.Scan(&a.ID, &a.Title, &a.Content, &a.Summary, &a.CoverImage,
		&categoryID, &a.CategoryName, &status, &publishedAt,
		&a.ViewCount, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.CategoryID = int64Ptr(categoryID)
	a.PublishedAt = timePtr(publishedAt)
	a.Status = entity.ArticleStatus(status)
	return &a, nil
}
