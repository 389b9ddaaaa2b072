// Package repository declares the persistence ports used by the use cases.
// Implementations live under internal/infra/adapter/persistence.
package repository

import (
	"context"
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
)

// ArticleFilter restricts article lists. Zero-valued fields do not restrict.
// All set fields are combined with AND.
type ArticleFilter struct {
	Status     entity.ArticleStatus // empty means any status
	CategoryID *int64
	Search     string // case-insensitive substring of title, used by the admin list
}

// ArticleRepository stores articles.
//
// Get-style methods return (nil, nil) when the row does not exist.
// List methods return the page together with the total number of rows
// matching the same filter, both read from one snapshot.
type ArticleRepository interface {
	List(ctx context.Context, filter ArticleFilter, params pagination.Params) ([]*entity.Article, int64, error)
	Get(ctx context.Context, id int64) (*entity.Article, error)
	// GetPublishedAndCountView returns a published article and increments its
	// view_count in the same statement. The returned ViewCount includes this view.
	GetPublishedAndCountView(ctx context.Context, id int64) (*entity.Article, error)
	Create(ctx context.Context, article *entity.Article) error
	Update(ctx context.Context, article *entity.Article) error
	Delete(ctx context.Context, id int64) error
	// UpdateStatus sets status on every listed article. publishedAt is stamped on
	// articles entering published that have never been published.
	// Returns the number of rows changed.
	UpdateStatus(ctx context.Context, ids []int64, status entity.ArticleStatus, publishedAt time.Time) (int64, error)
	// MostViewed returns the published articles with the highest view_count.
	MostViewed(ctx context.Context, limit int) ([]*entity.Article, error)
}
