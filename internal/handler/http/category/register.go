package category

import (
	"net/http"

	"inkwell/internal/common/pagination"
	"inkwell/internal/usecase/activity"
	artUC "inkwell/internal/usecase/article"
	catUC "inkwell/internal/usecase/category"
)

// Register registers the public category routes.
func Register(mux *http.ServeMux, svc *catUC.Service, cfg pagination.Config) {
	mux.Handle("GET /api/categories", ListHandler{Svc: svc, PaginationCfg: cfg.WithDefaultLimit(catUC.DefaultLimit)})
	mux.Handle("GET /api/categories/{id}", GetHandler{Svc: svc})
	mux.Handle("GET /api/categories/{id}/articles", ArticlesHandler{Svc: svc, PaginationCfg: cfg.WithDefaultLimit(artUC.DefaultLimit)})
}

// RegisterAdmin registers the admin category routes behind authz.
// The admin list reuses the public list, which already counts articles.
func RegisterAdmin(mux *http.ServeMux, svc *catUC.Service, act *activity.Service, cfg pagination.Config, authz func(http.Handler) http.Handler) {
	mux.Handle("GET /api/admin/categories", authz(ListHandler{Svc: svc, PaginationCfg: cfg.WithDefaultLimit(catUC.DefaultLimit)}))
	mux.Handle("POST /api/admin/categories", authz(CreateHandler{Svc: svc, Activity: act}))
	mux.Handle("PUT /api/admin/categories/{id}", authz(UpdateHandler{Svc: svc, Activity: act}))
	mux.Handle("DELETE /api/admin/categories/{id}", authz(DeleteHandler{Svc: svc, Activity: act}))
}
