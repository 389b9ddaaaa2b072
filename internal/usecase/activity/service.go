// Package activity records and lists administrative actions.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/observability/logging"
	"inkwell/internal/repository"
	"inkwell/internal/utils/text"
)

// DefaultLimit is the page size of the activity log.
const DefaultLimit = 20

// details longer than this are cut, in runes
const maxDetailsLength = 1000

// Sort is the sort allow-list of activity lists.
var Sort = pagination.SortSpec{
	Allowed: []string{"id", "created_at"},
	Default: "created_at",
}

// Actions written by the admin API.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
	ActionUpload = "upload"
	ActionReset  = "reset"
	ActionExport = "export"
)

// Entry is an action to record. Actor, IPAddress and UserAgent come from the request.
type Entry struct {
	Action       string
	ResourceType string
	ResourceID   *int64
	Details      string
	Actor        string
	IPAddress    string
	UserAgent    string
}

// Service provides activity log use cases.
type Service struct {
	Repo repository.ActivityRepository
	Now  func() time.Time
}

// Record stores one entry.
func (s *Service) Record(ctx context.Context, e Entry) (*entity.ActivityLog, error) {
	if e.Action == "" {
		return nil, &entity.ValidationError{Field: "action", Message: "is required"}
	}
	if e.ResourceType == "" {
		return nil, &entity.ValidationError{Field: "resource_type", Message: "is required"}
	}
	details := text.Truncate(e.Details, maxDetailsLength, "")
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	log := &entity.ActivityLog{
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		Details:      details,
		Actor:        e.Actor,
		IPAddress:    e.IPAddress,
		UserAgent:    e.UserAgent,
		CreatedAt:    now,
	}
	if err := s.Repo.Record(ctx, log); err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}
	return log, nil
}

// Log records e and only logs a failure; the mutation it describes already succeeded.
func (s *Service) Log(ctx context.Context, e Entry) {
	if s == nil || s.Repo == nil {
		return
	}
	if _, err := s.Record(ctx, e); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "activity log write failed",
			slog.String("action", e.Action),
			slog.String("resource_type", e.ResourceType),
			slog.Any("error", err))
	}
}

// List returns one page of the activity log.
func (s *Service) List(ctx context.Context, filter repository.ActivityFilter, params pagination.Params) (pagination.Page[*entity.ActivityLog], error) {
	logs, total, err := s.Repo.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[*entity.ActivityLog]{}, fmt.Errorf("list activity: %w", err)
	}
	return pagination.NewPage(logs, params, total), nil
}
