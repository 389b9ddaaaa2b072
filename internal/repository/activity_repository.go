package repository

import (
	"context"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
)

// ActivityFilter restricts activity log lists. Zero-valued fields do not restrict.
type ActivityFilter struct {
	Action       string
	ResourceType string
}

// ActivityRepository stores the admin activity log.
type ActivityRepository interface {
	Record(ctx context.Context, log *entity.ActivityLog) error
	List(ctx context.Context, filter ActivityFilter, params pagination.Params) ([]*entity.ActivityLog, int64, error)
}
