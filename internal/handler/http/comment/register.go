package comment

import (
	"net/http"

	"inkwell/internal/common/pagination"
	"inkwell/internal/usecase/activity"
	commentUC "inkwell/internal/usecase/comment"
)

// Register registers the public comment routes. limit wraps the submit endpoint
// with the comment rate limiter.
func Register(mux *http.ServeMux, svc *commentUC.Service, cfg pagination.Config, limit func(http.Handler) http.Handler) {
	mux.Handle("GET /api/articles/{id}/comments", ListHandler{Svc: svc, PaginationCfg: cfg.WithDefaultLimit(commentUC.DefaultLimit)})
	mux.Handle("POST /api/articles/{id}/comments", limit(CreateHandler{Svc: svc}))
}

// RegisterAdmin registers the moderation routes behind authz.
func RegisterAdmin(mux *http.ServeMux, svc *commentUC.Service, act *activity.Service, cfg pagination.Config, authz func(http.Handler) http.Handler) {
	mux.Handle("GET /api/admin/comments", authz(AdminListHandler{Svc: svc, PaginationCfg: cfg.WithDefaultLimit(commentUC.DefaultLimit)}))
	mux.Handle("GET /api/admin/comments/stats", authz(StatsHandler{Svc: svc}))
	mux.Handle("GET /api/admin/comments/{id}", authz(AdminGetHandler{Svc: svc}))
	mux.Handle("PUT /api/admin/comments/{id}/status", authz(StatusHandler{Svc: svc, Activity: act}))
	mux.Handle("DELETE /api/admin/comments/{id}", authz(DeleteHandler{Svc: svc, Activity: act}))
	mux.Handle("PUT /api/admin/comments/batch/status", authz(BatchStatusHandler{Svc: svc, Activity: act}))
	mux.Handle("POST /api/admin/comments/batch/delete", authz(BatchDeleteHandler{Svc: svc, Activity: act}))
}
