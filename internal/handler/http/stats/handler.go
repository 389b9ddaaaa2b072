// Package stats provides the HTTP handlers of the admin dashboard.
package stats

import (
	"net/http"

	"inkwell/internal/handler/http/article"
	"inkwell/internal/handler/http/pathutil"
	"inkwell/internal/handler/http/respond"
	statsUC "inkwell/internal/usecase/stats"
)

// Handler serves the dashboard aggregates.
type Handler struct{ Svc *statsUC.Service }

// Overview ダッシュボード概要
// @Summary      ダッシュボード概要
// @Tags         admin-stats
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} respond.Envelope{data=entity.StatsOverview}
// @Router       /admin/stats/overview [get]
func (h Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.Svc.Overview(r.Context())
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, ov)
}

// Trends 日別推移
// @Summary      日別推移
// @Description  記事・コメント・購読者の日別作成数。データのない日は 0 で埋めます。
// @Tags         admin-stats
// @Security     BearerAuth
// @Produce      json
// @Param        days query int false "日数 (1-90)" default(7)
// @Success      200 {object} respond.Envelope{data=entity.Trends}
// @Failure      400 {object} respond.ErrorBody
// @Router       /admin/stats/trends [get]
func (h Handler) Trends(w http.ResponseWriter, r *http.Request) {
	days := statsUC.DefaultTrendDays
	if r.URL.Query().Has("days") {
		days = pathutil.QueryInt(r, "days", -1)
	}
	trends, err := h.Svc.Trends(r.Context(), days)
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, trends)
}

// Popular 人気記事
// @Summary      人気記事
// @Tags         admin-stats
// @Security     BearerAuth
// @Produce      json
// @Param        limit query int false "件数 (最大50)" default(10)
// @Success      200 {object} respond.Envelope{data=[]article.DTO}
// @Router       /admin/stats/popular [get]
func (h Handler) Popular(w http.ResponseWriter, r *http.Request) {
	arts, err := h.Svc.Popular(r.Context(), pathutil.QueryInt(r, "limit", 0))
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	out := make([]article.DTO, 0, len(arts))
	for _, a := range arts {
		out = append(out, article.ToDTO(a, false))
	}
	respond.OK(w, http.StatusOK, out)
}

// Categories カテゴリ別統計
// @Summary      カテゴリ別統計
// @Tags         admin-stats
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} respond.Envelope{data=[]entity.CategoryStat}
// @Router       /admin/stats/categories [get]
func (h Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Svc.Categories(r.Context())
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, cats)
}

// RegisterAdmin registers the dashboard routes behind authz.
func RegisterAdmin(mux *http.ServeMux, svc *statsUC.Service, authz func(http.Handler) http.Handler) {
	h := Handler{Svc: svc}
	mux.Handle("GET /api/admin/stats/overview", authz(http.HandlerFunc(h.Overview)))
	mux.Handle("GET /api/admin/stats/trends", authz(http.HandlerFunc(h.Trends)))
	mux.Handle("GET /api/admin/stats/popular", authz(http.HandlerFunc(h.Popular)))
	mux.Handle("GET /api/admin/stats/categories", authz(http.HandlerFunc(h.Categories)))
}
