package repository

import (
	"context"
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
)

// SubscriberFilter restricts subscriber lists. Zero-valued fields do not restrict.
type SubscriberFilter struct {
	Status entity.SubscriberStatus
	Search string // substring of email
}

// SubscriberRepository stores newsletter subscriptions.
type SubscriberRepository interface {
	List(ctx context.Context, filter SubscriberFilter, params pagination.Params) ([]*entity.Subscriber, int64, error)
	// Export returns every subscriber matching filter, oldest first.
	Export(ctx context.Context, filter SubscriberFilter) ([]*entity.Subscriber, error)
	Get(ctx context.Context, id int64) (*entity.Subscriber, error)
	GetByEmail(ctx context.Context, email string) (*entity.Subscriber, error)
	Create(ctx context.Context, subscriber *entity.Subscriber) error
	UpdateStatus(ctx context.Context, id int64, status entity.SubscriberStatus) error
	Delete(ctx context.Context, ids []int64) (int64, error)
	// Stats counts subscribers by status and returns daily sign-ups since since.
	Stats(ctx context.Context, since time.Time) (entity.SubscriberStats, error)
}
