package search

import (
	"net/http"

	"inkwell/internal/common/pagination"
	searchUC "inkwell/internal/usecase/search"
)

// Register registers the search routes.
func Register(mux *http.ServeMux, svc *searchUC.Service, cfg pagination.Config) {
	mux.Handle("GET /api/search", Handler{Svc: svc, PaginationCfg: cfg.WithDefaultLimit(searchUC.DefaultLimit)})
	mux.Handle("GET /api/search/suggestions", SuggestionsHandler{Svc: svc})
	mux.Handle("GET /api/search/popular", PopularHandler{Svc: svc})
}
