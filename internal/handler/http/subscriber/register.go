package subscriber

import (
	"net/http"

	"inkwell/internal/common/pagination"
	"inkwell/internal/usecase/activity"
	subUC "inkwell/internal/usecase/subscriber"
)

// Register registers the public subscription routes behind the subscribe rate limiter.
func Register(mux *http.ServeMux, svc *subUC.Service, limit func(http.Handler) http.Handler) {
	mux.Handle("POST /api/subscribe", limit(SubscribeHandler{Svc: svc}))
	mux.Handle("POST /api/subscribe/unsubscribe", limit(UnsubscribeHandler{Svc: svc}))
}

// RegisterAdmin registers the admin subscriber routes behind authz.
func RegisterAdmin(mux *http.ServeMux, svc *subUC.Service, act *activity.Service, cfg pagination.Config, authz func(http.Handler) http.Handler) {
	mux.Handle("GET /api/admin/subscribers", authz(AdminListHandler{Svc: svc, PaginationCfg: cfg.WithDefaultLimit(subUC.DefaultLimit)}))
	mux.Handle("GET /api/admin/subscribers/stats", authz(StatsHandler{Svc: svc}))
	mux.Handle("GET /api/admin/subscribers/export", authz(ExportHandler{Svc: svc, Activity: act}))
	mux.Handle("PUT /api/admin/subscribers/{id}/status", authz(StatusHandler{Svc: svc, Activity: act}))
	mux.Handle("DELETE /api/admin/subscribers/{id}", authz(DeleteHandler{Svc: svc, Activity: act}))
	mux.Handle("POST /api/admin/subscribers/batch/delete", authz(BatchDeleteHandler{Svc: svc, Activity: act}))
}
