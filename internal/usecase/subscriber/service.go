package subscriber

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/observability/metrics"
	"inkwell/internal/repository"
)

// DefaultLimit is the page size of the admin subscriber list.
const DefaultLimit = 20

// TrendDays is the length of the sign-up trend in Stats.
const TrendDays = 30

const maxEmailLength = 150

// Sort is the sort allow-list of the subscriber list.
var Sort = pagination.SortSpec{
	Allowed: []string{"id", "email", "created_at", "updated_at"},
	Default: "created_at",
}

// Service provides subscriber use cases.
type Service struct {
	Repo repository.SubscriberRepository
}

// Subscribe registers email. It reports created=true for a new row and false
// when an unsubscribed address is reactivated.
// Returns ErrAlreadySubscribed for an active address.
func (s *Service) Subscribe(ctx context.Context, email string) (sub *entity.Subscriber, created bool, err error) {
	email, err = normalizeEmail(email)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("get subscriber: %w", err)
	}
	if existing != nil {
		if existing.Status == entity.SubscriberStatusActive {
			return nil, false, ErrAlreadySubscribed
		}
		if err := s.Repo.UpdateStatus(ctx, existing.ID, entity.SubscriberStatusActive); err != nil {
			return nil, false, fmt.Errorf("reactivate subscriber: %w", err)
		}
		existing.Status = entity.SubscriberStatusActive
		existing.UpdatedAt = time.Now()
		metrics.RecordSubscription("reactivate")
		return existing, false, nil
	}

	sub = &entity.Subscriber{Email: email, Status: entity.SubscriberStatusActive, CreatedAt: time.Now()}
	if err := s.Repo.Create(ctx, sub); err != nil {
		if errors.Is(err, entity.ErrConflict) {
			// 同時登録: UNIQUE(email) が後から弾いた
			return nil, false, ErrAlreadySubscribed
		}
		return nil, false, fmt.Errorf("create subscriber: %w", err)
	}
	metrics.RecordSubscription("subscribe")
	return sub, true, nil
}

// Unsubscribe deactivates email. Returns ErrNotSubscribed unless it is active.
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get subscriber: %w", err)
	}
	if existing == nil || existing.Status != entity.SubscriberStatusActive {
		return ErrNotSubscribed
	}
	if err := s.Repo.UpdateStatus(ctx, existing.ID, entity.SubscriberStatusUnsubscribed); err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	metrics.RecordSubscription("unsubscribe")
	return nil
}

// AdminList returns one page of subscribers.
func (s *Service) AdminList(ctx context.Context, filter repository.SubscriberFilter, params pagination.Params) (pagination.Page[*entity.Subscriber], error) {
	if err := validateFilter(&filter); err != nil {
		return pagination.Page[*entity.Subscriber]{}, err
	}
	subs, total, err := s.Repo.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[*entity.Subscriber]{}, fmt.Errorf("list subscribers: %w", err)
	}
	return pagination.NewPage(subs, params, total), nil
}

// Stats returns status totals and the daily sign-ups of the last TrendDays days.
func (s *Service) Stats(ctx context.Context) (entity.SubscriberStats, error) {
	stats, err := s.Repo.Stats(ctx, time.Now().AddDate(0, 0, -TrendDays))
	if err != nil {
		return entity.SubscriberStats{}, fmt.Errorf("subscriber stats: %w", err)
	}
	if stats.Trend == nil {
		stats.Trend = []entity.DailyCount{}
	}
	return stats, nil
}

// UpdateStatus sets the status of one subscriber.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status entity.SubscriberStatus) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if !status.Valid() {
		return &entity.ValidationError{Field: "status", Message: "must be active or unsubscribed"}
	}
	if err := s.Repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrSubscriberNotFound
		}
		return fmt.Errorf("update subscriber status: %w", err)
	}
	return nil
}

// Delete removes one subscriber.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	n, err := s.BatchDelete(ctx, []int64{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSubscriberNotFound
	}
	return nil
}

// BatchDelete removes several subscribers and returns how many were deleted.
func (s *Service) BatchDelete(ctx context.Context, ids []int64) (int64, error) {
	if err := entity.ValidateIDs(ids); err != nil {
		return 0, err
	}
	n, err := s.Repo.Delete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete subscribers: %w", err)
	}
	return n, nil
}

// ExportCSV writes every subscriber matching filter as email,status,created_at rows.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, filter repository.SubscriberFilter) error {
	if err := validateFilter(&filter); err != nil {
		return err
	}
	subs, err := s.Repo.Export(ctx, filter)
	if err != nil {
		return fmt.Errorf("export subscribers: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"email", "status", "created_at"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, sub := range subs {
		row := []string{sub.Email, string(sub.Status), sub.CreatedAt.Format(time.RFC3339)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(email) > maxEmailLength {
		return "", &entity.ValidationError{Field: "email", Message: fmt.Sprintf("must not exceed %d characters", maxEmailLength)}
	}
	if err := entity.ValidateEmail("email", email); err != nil {
		return "", err
	}
	return email, nil
}

func validateFilter(f *repository.SubscriberFilter) error {
	if f.Status != "" && !f.Status.Valid() {
		return &entity.ValidationError{Field: "status", Message: "must be active or unsubscribed"}
	}
	f.Search = strings.TrimSpace(f.Search)
	return nil
}
