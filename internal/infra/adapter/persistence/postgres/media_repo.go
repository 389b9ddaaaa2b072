package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/pkg/search"
	"inkwell/internal/repository"
)

var mediaSortColumns = map[string]string{
	"id":         "id",
	"created_at": "created_at",
	"size":       "size",
}

var mediaColumns = []string{"id", "filename", "original_name", "url", "mime_type", "size", "created_at"}

type MediaRepo struct {
	base
}

func NewMediaRepo(db DBTX, opts ...Option) *MediaRepo {
	return &MediaRepo{base: newBase(db, opts)}
}

var _ repository.MediaRepository = (*MediaRepo)(nil)

func scanMedia(s scanner) (*entity.Media, error) {
	var m entity.Media
	if err := s.Scan(&m.ID, &m.Filename, &m.OriginalName, &m.URL, &m.MimeType, &m.Size, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (repo *MediaRepo) List(ctx context.Context, filter repository.MediaFilter, params pagination.Params) ([]*entity.Media, int64, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	where := sq.And{}
	if filter.MimePrefix != "" {
		where = append(where, sq.Like{"mime_type": search.EscapeLike(filter.MimePrefix) + "%"})
	}
	if filter.Search != "" {
		where = append(where, sq.ILike{"original_name": search.ContainsPattern(filter.Search)})
	}

	col := orderColumn(mediaSortColumns, params.Sort, "created_at")
	page := psql.Select(mediaColumns...).From("media").Where(where).
		OrderBy(fmt.Sprintf("%s %s", col, params.Order), "id DESC")
	page = window(page, params.Limit, params.Offset())
	count := psql.Select("COUNT(*)").From("media").Where(where)

	items := make([]*entity.Media, 0, params.Limit)
	total, err := repo.listPage(ctx, count, page, func(rows *sql.Rows) error {
		m, err := scanMedia(rows)
		if err != nil {
			return err
		}
		items = append(items, m)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	return items, total, nil
}

func (repo *MediaRepo) Get(ctx context.Context, id int64) (*entity.Media, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	query, args, err := psql.Select(mediaColumns...).From("media").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	m, err := scanMedia(repo.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return m, nil
}

func (repo *MediaRepo) Create(ctx context.Context, media *entity.Media) error {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	const query = `
INSERT INTO media (filename, original_name, url, mime_type, size, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		media.Filename, media.OriginalName, media.URL, media.MimeType, media.Size, media.CreatedAt,
	).Scan(&media.ID)
	if err != nil {
		return mapError("Create", err)
	}
	return nil
}

func (repo *MediaRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	res, err := repo.db.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if err := rowsChanged(res); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}
