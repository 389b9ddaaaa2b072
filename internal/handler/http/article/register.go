package article

import (
	"net/http"

	"inkwell/internal/common/pagination"
	"inkwell/internal/usecase/activity"
	artUC "inkwell/internal/usecase/article"
)

// Register registers the public article routes.
func Register(mux *http.ServeMux, svc *artUC.Service, cfg pagination.Config) {
	mux.Handle("GET /api/articles", ListHandler{Svc: svc, PaginationCfg: cfg.WithDefaultLimit(artUC.DefaultLimit)})
	mux.Handle("GET /api/articles/{id}", GetHandler{Svc: svc})
}

// RegisterAdmin registers the admin article routes behind authz.
func RegisterAdmin(mux *http.ServeMux, svc *artUC.Service, act *activity.Service, cfg pagination.Config, authz func(http.Handler) http.Handler) {
	mux.Handle("GET /api/admin/articles", authz(AdminListHandler{Svc: svc, PaginationCfg: cfg.WithDefaultLimit(20)}))
	mux.Handle("POST /api/admin/articles", authz(CreateHandler{Svc: svc, Activity: act}))
	mux.Handle("GET /api/admin/articles/{id}", authz(AdminGetHandler{Svc: svc}))
	mux.Handle("PUT /api/admin/articles/{id}", authz(UpdateHandler{Svc: svc, Activity: act}))
	mux.Handle("DELETE /api/admin/articles/{id}", authz(DeleteHandler{Svc: svc, Activity: act}))
	mux.Handle("PUT /api/admin/articles/batch/status", authz(BatchStatusHandler{Svc: svc, Activity: act}))
}
