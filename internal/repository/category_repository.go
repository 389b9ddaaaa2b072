package repository

import (
	"context"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
)

// CategoryRepository stores categories.
type CategoryRepository interface {
	// List returns categories with ArticleCount set to the number of published articles.
	List(ctx context.Context, params pagination.Params) ([]*entity.Category, int64, error)
	Get(ctx context.Context, id int64) (*entity.Category, error)
	// ExistsByName reports whether another category (id != excludeID) uses name.
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	// CountArticles counts articles of any status in the category.
	CountArticles(ctx context.Context, id int64) (int64, error)
	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id int64) error
}
