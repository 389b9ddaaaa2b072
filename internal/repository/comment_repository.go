package repository

import (
	"context"
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
)

// CommentFilter restricts comment lists. Zero-valued fields do not restrict.
type CommentFilter struct {
	ArticleID *int64
	Status    entity.CommentStatus
	Search    string // matches content or author_name
}

// CommentRepository stores comments.
type CommentRepository interface {
	List(ctx context.Context, filter CommentFilter, params pagination.Params) ([]*entity.Comment, int64, error)
	Get(ctx context.Context, id int64) (*entity.Comment, error)
	Create(ctx context.Context, comment *entity.Comment) error
	UpdateStatus(ctx context.Context, ids []int64, status entity.CommentStatus) (int64, error)
	Delete(ctx context.Context, ids []int64) (int64, error)
	// Stats counts comments by status, plus those created since today and since week.
	Stats(ctx context.Context, today, week time.Time) (entity.CommentStats, error)
}
