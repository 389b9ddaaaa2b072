// Package activity provides the HTTP handler of the admin activity log.
package activity

import (
	"net/http"
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/handler/http/respond"
	"inkwell/internal/observability/logging"
	"inkwell/internal/repository"
	activityUC "inkwell/internal/usecase/activity"
)

// DTO is one activity log entry.
type DTO struct {
	ID           int64     `json:"id" example:"1"`
	Action       string    `json:"action" example:"update"`
	ResourceType string    `json:"resource_type" example:"article"`
	ResourceID   *int64    `json:"resource_id" example:"3"`
	Details      string    `json:"details"`
	Actor        string    `json:"actor" example:"admin"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListDTO is a page of the activity log.
type ListDTO struct {
	Logs       []DTO               `json:"logs"`
	Pagination pagination.Metadata `json:"pagination"`
}

func toDTO(l *entity.ActivityLog) DTO {
	return DTO{
		ID:           l.ID,
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID,
		Details:      l.Details,
		Actor:        l.Actor,
		IPAddress:    l.IPAddress,
		UserAgent:    l.UserAgent,
		CreatedAt:    l.CreatedAt,
	}
}

// ListHandler serves the activity log, newest first.
type ListHandler struct {
	Svc           *activityUC.Service
	PaginationCfg pagination.Config
}

// ServeHTTP 操作履歴
// @Summary      操作履歴
// @Tags         admin-activity
// @Security     BearerAuth
// @Produce      json
// @Param        page          query int    false "ページ番号" default(1)
// @Param        limit         query int    false "件数" default(20)
// @Param        action        query string false "create / update / delete / login / upload / reset / export"
// @Param        resource_type query string false "article / category / comment / subscriber / setting / media / admin"
// @Success      200 {object} respond.Envelope{data=ListDTO}
// @Router       /admin/activity [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))

	params := pagination.ParseQueryParams(r, h.PaginationCfg, activityUC.Sort)
	obs := pagination.Observe(logger, "activity", params)

	q := r.URL.Query()
	page, err := h.Svc.List(ctx, repository.ActivityFilter{
		Action:       q.Get("action"),
		ResourceType: q.Get("resource_type"),
	}, params)
	if err != nil {
		obs.Fail(err, respond.StatusFor(err))
		respond.Fail(w, r, err)
		return
	}

	items := make([]DTO, 0, len(page.Items))
	for _, l := range page.Items {
		items = append(items, toDTO(l))
	}
	obs.Done(len(items), page.Pagination.Total)
	respond.OK(w, http.StatusOK, ListDTO{Logs: items, Pagination: page.Pagination})
}

// RegisterAdmin registers the activity log route behind authz.
func RegisterAdmin(mux *http.ServeMux, svc *activityUC.Service, cfg pagination.Config, authz func(http.Handler) http.Handler) {
	mux.Handle("GET /api/admin/activity", authz(ListHandler{Svc: svc, PaginationCfg: cfg.WithDefaultLimit(activityUC.DefaultLimit)}))
}
