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
	"inkwell/internal/pkg/search"
	"inkwell/internal/repository"
)

var commentSortColumns = map[string]string{
	"id":         "cm.id",
	"created_at": "cm.created_at",
}

type CommentRepo struct {
	base
}

func NewCommentRepo(db DBTX, opts ...Option) *CommentRepo {
	return &CommentRepo{base: newBase(db, opts)}
}

var _ repository.CommentRepository = (*CommentRepo)(nil)

func selectComments() sq.SelectBuilder {
	return psql.Select(
		"cm.id", "cm.article_id", "COALESCE(a.title, '')", "cm.content", "cm.author_name",
		"cm.author_email", "cm.status", "cm.ip_address", "cm.created_at",
	).
		From("comments cm").
		LeftJoin("articles a ON a.id = cm.article_id")
}

func scanComment(s scanner) (*entity.Comment, error) {
	var (
		c      entity.Comment
		status string
	)
	if err := s.Scan(&c.ID, &c.ArticleID, &c.ArticleTitle, &c.Content, &c.AuthorName,
		&c.AuthorEmail, &status, &c.IPAddress, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Status = entity.CommentStatus(status)
	return &c, nil
}

func commentWhere(f repository.CommentFilter) sq.And {
	where := sq.And{}
	if f.ArticleID != nil {
		where = append(where, sq.Eq{"cm.article_id": *f.ArticleID})
	}
	if f.Status != "" {
		where = append(where, sq.Eq{"cm.status": string(f.Status)})
	}
	if f.Search != "" {
		pattern := search.ContainsPattern(f.Search)
		where = append(where, sq.Or{
			sq.ILike{"cm.content": pattern},
			sq.ILike{"cm.author_name": pattern},
		})
	}
	return where
}

func (repo *CommentRepo) List(ctx context.Context, filter repository.CommentFilter, params pagination.Params) ([]*entity.Comment, int64, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	where := commentWhere(filter)
	col := orderColumn(commentSortColumns, params.Sort, "created_at")
	page := selectComments().Where(where).OrderBy(fmt.Sprintf("%s %s", col, params.Order), "cm.id DESC")
	page = window(page, params.Limit, params.Offset())
	count := psql.Select("COUNT(*)").From("comments cm").Where(where)

	comments := make([]*entity.Comment, 0, params.Limit)
	total, err := repo.listPage(ctx, count, page, func(rows *sql.Rows) error {
		c, err := scanComment(rows)
		if err != nil {
			return err
		}
		comments = append(comments, c)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	return comments, total, nil
}

func (repo *CommentRepo) Get(ctx context.Context, id int64) (*entity.Comment, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	query, args, err := selectComments().Where(sq.Eq{"cm.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	c, err := scanComment(repo.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return c, nil
}

func (repo *CommentRepo) Create(ctx context.Context, comment *entity.Comment) error {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	const query = `
INSERT INTO comments (article_id, content, author_name, author_email, status, ip_address, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		comment.ArticleID, comment.Content, comment.AuthorName, comment.AuthorEmail,
		string(comment.Status), comment.IPAddress, comment.CreatedAt,
	).Scan(&comment.ID)
	if err != nil {
		return mapError("Create", err)
	}
	return nil
}

func (repo *CommentRepo) UpdateStatus(ctx context.Context, ids []int64, status entity.CommentStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	query, args, err := psql.Update("comments").
		Set("status", string(status)).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("UpdateStatus: %w", err)
	}
	return execCount(ctx, repo.db, "UpdateStatus", query, args)
}

func (repo *CommentRepo) Delete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	query, args, err := psql.Delete("comments").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("Delete: %w", err)
	}
	return execCount(ctx, repo.db, "Delete", query, args)
}

func (repo *CommentRepo) Stats(ctx context.Context, today, week time.Time) (entity.CommentStats, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	const query = `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE status = 'approved'),
	COUNT(*) FILTER (WHERE status = 'pending'),
	COUNT(*) FILTER (WHERE status = 'spam'),
	COUNT(*) FILTER (WHERE created_at >= $1),
	COUNT(*) FILTER (WHERE created_at >= $2)
FROM comments`
	var s entity.CommentStats
	err := repo.db.QueryRowContext(ctx, query, today, week).
		Scan(&s.Total, &s.Approved, &s.Pending, &s.Spam, &s.Today, &s.Week)
	if err != nil {
		return entity.CommentStats{}, fmt.Errorf("Stats: %w", err)
	}
	return s, nil
}

// execCount runs a statement and returns RowsAffected.
func execCount(ctx context.Context, q Querier, op, query string, args []any) (int64, error) {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
