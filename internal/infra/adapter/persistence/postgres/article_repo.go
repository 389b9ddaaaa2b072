package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
)

type ArticleRepo struct {
	base
	queryBuilder *ArticleQueryBuilder
}

func NewArticleRepo(db DBTX, opts ...Option) *ArticleRepo {
	return &ArticleRepo{
		base:         newBase(db, opts),
		queryBuilder: NewArticleQueryBuilder(),
	}
}

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

func (repo *ArticleRepo) List(ctx context.Context, filter repository.ArticleFilter, params pagination.Params) ([]*entity.Article, int64, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	where := repo.queryBuilder.Where(filter)
	count := repo.queryBuilder.Count().Where(where)
	page := repo.queryBuilder.Order(repo.queryBuilder.Select().Where(where), params, "published_at")
	page = window(page, params.Limit, params.Offset())

	// パフォーマンス最適化: メモリ再割り当てを削減するため事前割り当て
	articles := make([]*entity.Article, 0, params.Limit)
	total, err := repo.listPage(ctx, count, page, func(rows *sql.Rows) error {
		a, err := scanArticle(rows)
		if err != nil {
			return err
		}
		articles = append(articles, a)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	return articles, total, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	query, args, err := repo.queryBuilder.Select().Where(sq.Eq{"a.id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return article, nil
}

// GetPublishedAndCountView increments view_count and reads the row back in one
// statement, so concurrent views are never lost.
func (repo *ArticleRepo) GetPublishedAndCountView(ctx context.Context, id int64) (*entity.Article, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	const query = `
WITH bumped AS (
	UPDATE articles
	SET view_count = view_count + 1
	WHERE id = $1 AND status = 'published'
	RETURNING id, title, content, summary, cover_image, category_id, status,
	          published_at, view_count, created_at, updated_at
)
SELECT a.id, a.title, a.content, a.summary, a.cover_image,
       a.category_id, COALESCE(c.name, ''), a.status, a.published_at,
       a.view_count, a.created_at, a.updated_at
FROM bumped a
LEFT JOIN categories c ON c.id = a.category_id`

	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetPublishedAndCountView: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	const query = `
INSERT INTO articles
	(title, content, summary, cover_image, category_id, status, published_at, view_count, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $8)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		article.Title, article.Content, article.Summary, article.CoverImage,
		nullInt64(article.CategoryID), string(article.Status), nullTime(article.PublishedAt),
		article.CreatedAt,
	).Scan(&article.ID)
	if err != nil {
		return mapError("Create", err)
	}
	article.UpdatedAt = article.CreatedAt
	return nil
}

func (repo *ArticleRepo) Update(ctx context.Context, article *entity.Article) error {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	const query = `
UPDATE articles
SET title = $1, content = $2, summary = $3, cover_image = $4, category_id = $5,
    status = $6, published_at = $7, updated_at = $8
WHERE id = $9`
	res, err := repo.db.ExecContext(ctx, query,
		article.Title, article.Content, article.Summary, article.CoverImage,
		nullInt64(article.CategoryID), string(article.Status), nullTime(article.PublishedAt),
		article.UpdatedAt, article.ID,
	)
	if err != nil {
		return mapError("Update", err)
	}
	if err := rowsChanged(res); err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

// Delete removes an article; its comments go with it (ON DELETE CASCADE).
func (repo *ArticleRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	res, err := repo.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return mapError("Delete", err)
	}
	if err := rowsChanged(res); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

func (repo *ArticleRepo) UpdateStatus(ctx context.Context, ids []int64, status entity.ArticleStatus, publishedAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	b := psql.Update("articles").
		Set("status", string(status)).
		Set("updated_at", publishedAt).
		Where(sq.Eq{"id": ids})
	if status == entity.ArticleStatusPublished {
		// published_at は初回公開時のみ設定し、以後は変更しない
		b = b.Set("published_at", sq.Expr("COALESCE(published_at, ?)", publishedAt))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("UpdateStatus: %w", err)
	}
	res, err := repo.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("UpdateStatus: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("UpdateStatus: %w", err)
	}
	return n, nil
}

func (repo *ArticleRepo) MostViewed(ctx context.Context, limit int) ([]*entity.Article, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	query, args, err := repo.queryBuilder.Select().
		Where(sq.Eq{"a.status": string(entity.ArticleStatusPublished)}).
		OrderBy("a.view_count DESC", "a.id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("MostViewed: %w", err)
	}
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("MostViewed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, limit)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("MostViewed: Scan: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
