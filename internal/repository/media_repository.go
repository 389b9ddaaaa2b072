package repository

import (
	"context"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
)

// MediaFilter restricts media lists. Zero-valued fields do not restrict.
type MediaFilter struct {
	MimePrefix string // e.g. "image/"
	Search     string // substring of original_name
}

// MediaRepository stores media library metadata. File bytes live in MediaStorage.
type MediaRepository interface {
	List(ctx context.Context, filter MediaFilter, params pagination.Params) ([]*entity.Media, int64, error)
	Get(ctx context.Context, id int64) (*entity.Media, error)
	Create(ctx context.Context, media *entity.Media) error
	Delete(ctx context.Context, id int64) error
}
