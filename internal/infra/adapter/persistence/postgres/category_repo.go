package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
)

var categorySortColumns = map[string]string{
	"id":            "c.id",
	"name":          "c.name",
	"created_at":    "c.created_at",
	"article_count": "article_count",
}

type CategoryRepo struct {
	base
}

func NewCategoryRepo(db DBTX, opts ...Option) *CategoryRepo {
	return &CategoryRepo{base: newBase(db, opts)}
}

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// selectCategories counts only published articles so public listings never
// reveal drafts.
func selectCategories() sq.SelectBuilder {
	return psql.Select("c.id", "c.name", "c.description", "c.created_at", "COUNT(a.id) AS article_count").
		From("categories c").
		LeftJoin("articles a ON a.category_id = c.id AND a.status = 'published'").
		GroupBy("c.id")
}

func scanCategory(s scanner) (*entity.Category, error) {
	var c entity.Category
	if err := s.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.ArticleCount); err != nil {
		return nil, err
	}
	return &c, nil
}

func (repo *CategoryRepo) List(ctx context.Context, params pagination.Params) ([]*entity.Category, int64, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	col := orderColumn(categorySortColumns, params.Sort, "name")
	page := selectCategories().OrderBy(fmt.Sprintf("%s %s", col, params.Order), "c.id ASC")
	page = window(page, params.Limit, params.Offset())

	categories := make([]*entity.Category, 0, params.Limit)
	total, err := repo.listPage(ctx, psql.Select("COUNT(*)").From("categories c"), page, func(rows *sql.Rows) error {
		c, err := scanCategory(rows)
		if err != nil {
			return err
		}
		categories = append(categories, c)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	return categories, total, nil
}

func (repo *CategoryRepo) Get(ctx context.Context, id int64) (*entity.Category, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	query, args, err := selectCategories().Where(sq.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	c, err := scanCategory(repo.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return c, nil
}

func (repo *CategoryRepo) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	const query = `SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1 AND id <> $2)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsByName: %w", err)
	}
	return exists, nil
}

func (repo *CategoryRepo) CountArticles(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	var n int64
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles WHERE category_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountArticles: %w", err)
	}
	return n, nil
}

func (repo *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	const query = `
INSERT INTO categories (name, description, created_at)
VALUES ($1, $2, $3)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query, category.Name, category.Description, category.CreatedAt).
		Scan(&category.ID)
	if err != nil {
		return mapError("Create", err)
	}
	return nil
}

func (repo *CategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	res, err := repo.db.ExecContext(ctx,
		`UPDATE categories SET name = $1, description = $2 WHERE id = $3`,
		category.Name, category.Description, category.ID)
	if err != nil {
		return mapError("Update", err)
	}
	if err := rowsChanged(res); err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

// Delete fails with a conflict while articles still reference the category
// (ON DELETE RESTRICT).
func (repo *CategoryRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	res, err := repo.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapError("Delete", err)
	}
	if err := rowsChanged(res); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}
