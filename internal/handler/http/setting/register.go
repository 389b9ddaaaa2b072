package setting

import (
	"net/http"

	"inkwell/internal/usecase/activity"
	settingUC "inkwell/internal/usecase/setting"
)

// Register registers the public settings route.
func Register(mux *http.ServeMux, svc *settingUC.Service) {
	mux.HandleFunc("GET /api/settings/public", Handler{Svc: svc}.Public)
}

// RegisterAdmin registers the admin settings routes behind authz.
func RegisterAdmin(mux *http.ServeMux, svc *settingUC.Service, act *activity.Service, authz func(http.Handler) http.Handler) {
	h := Handler{Svc: svc, Activity: act}
	mux.Handle("GET /api/admin/settings", authz(http.HandlerFunc(h.All)))
	mux.Handle("GET /api/admin/settings/groups", authz(http.HandlerFunc(h.Groups)))
	mux.Handle("PUT /api/admin/settings/batch", authz(http.HandlerFunc(h.Batch)))
	mux.Handle("POST /api/admin/settings/reset", authz(http.HandlerFunc(h.Reset)))
	mux.Handle("GET /api/admin/settings/{group}", authz(http.HandlerFunc(h.Group)))
	mux.Handle("GET /api/admin/settings/{group}/{key}", authz(http.HandlerFunc(h.Get)))
	mux.Handle("PUT /api/admin/settings/{group}/{key}", authz(http.HandlerFunc(h.Upsert)))
	mux.Handle("DELETE /api/admin/settings/{group}/{key}", authz(http.HandlerFunc(h.Delete)))
}
