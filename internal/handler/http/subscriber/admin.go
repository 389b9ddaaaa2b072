package subscriber

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/handler/http/auth"
	"inkwell/internal/handler/http/pathutil"
	"inkwell/internal/handler/http/respond"
	"inkwell/internal/observability/logging"
	"inkwell/internal/repository"
	"inkwell/internal/usecase/activity"
	subUC "inkwell/internal/usecase/subscriber"
)

const resourceType = "subscriber"

type statusRequest struct {
	Status string `json:"status" example:"unsubscribed"`
}

type batchDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// BatchResult reports how many subscribers a batch operation removed.
type BatchResult struct {
	Affected int64 `json:"affected"`
}

func filterFrom(r *http.Request) repository.SubscriberFilter {
	q := r.URL.Query()
	return repository.SubscriberFilter{
		Status: entity.SubscriberStatus(q.Get("status")),
		Search: q.Get("search"),
	}
}

// AdminListHandler lists subscribers.
type AdminListHandler struct {
	Svc           *subUC.Service
	PaginationCfg pagination.Config
}

// ServeHTTP 購読者一覧
// @Summary      購読者一覧
// @Tags         admin-subscribers
// @Security     BearerAuth
// @Produce      json
// @Param        page   query int    false "ページ番号" default(1)
// @Param        limit  query int    false "件数" default(20)
// @Param        status query string false "active / unsubscribed"
// @Param        search query string false "メールアドレスの部分一致"
// @Success      200 {object} respond.Envelope{data=ListDTO}
// @Failure      400 {object} respond.ErrorBody
// @Router       /admin/subscribers [get]
func (h AdminListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))

	params := pagination.ParseQueryParams(r, h.PaginationCfg, subUC.Sort)
	obs := pagination.Observe(logger, "subscribers", params)

	page, err := h.Svc.AdminList(ctx, filterFrom(r), params)
	if err != nil {
		obs.Fail(err, respond.StatusFor(err))
		respond.Fail(w, r, err)
		return
	}
	obs.Done(len(page.Items), page.Pagination.Total)
	respond.OK(w, http.StatusOK, toListDTO(page))
}

// StatsHandler summarizes the subscriber base.
type StatsHandler struct{ Svc *subUC.Service }

// ServeHTTP 購読者統計
// @Summary      購読者統計
// @Description  ステータス別件数と直近30日の日別登録数
// @Tags         admin-subscribers
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} respond.Envelope{data=entity.SubscriberStats}
// @Router       /admin/subscribers/stats [get]
func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, stats)
}

// StatusHandler activates or deactivates one subscriber.
type StatusHandler struct {
	Svc      *subUC.Service
	Activity *activity.Service
}

// ServeHTTP 購読者ステータス変更
// @Summary      購読者ステータス変更
// @Tags         admin-subscribers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path int           true "購読者ID"
// @Param        request body statusRequest true "ステータス"
// @Success      200 {object} respond.Envelope
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody
// @Router       /admin/subscribers/{id}/status [put]
func (h StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	var req statusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Fail(w, r, err)
		return
	}
	if err := h.Svc.UpdateStatus(r.Context(), id, entity.SubscriberStatus(req.Status)); err != nil {
		respond.Fail(w, r, err)
		return
	}
	auth.Audit(r, h.Activity, activity.ActionUpdate, resourceType, &id, "status="+req.Status)
	respond.Message(w, http.StatusOK, "subscriber status updated")
}

// DeleteHandler removes one subscriber.
type DeleteHandler struct {
	Svc      *subUC.Service
	Activity *activity.Service
}

// ServeHTTP 購読者削除
// @Summary      購読者削除
// @Tags         admin-subscribers
// @Security     BearerAuth
// @Param        id path int true "購読者ID"
// @Success      200 {object} respond.Envelope
// @Failure      404 {object} respond.ErrorBody
// @Router       /admin/subscribers/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		respond.Fail(w, r, err)
		return
	}
	auth.Audit(r, h.Activity, activity.ActionDelete, resourceType, &id, "")
	respond.Message(w, http.StatusOK, "subscriber deleted")
}

// BatchDeleteHandler removes several subscribers.
type BatchDeleteHandler struct {
	Svc      *subUC.Service
	Activity *activity.Service
}

// ServeHTTP 購読者一括削除
// @Summary      購読者一括削除
// @Tags         admin-subscribers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body batchDeleteRequest true "対象ID"
// @Success      200 {object} respond.Envelope{data=BatchResult}
// @Failure      400 {object} respond.ErrorBody
// @Router       /admin/subscribers/batch/delete [post]
func (h BatchDeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req batchDeleteRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Fail(w, r, err)
		return
	}
	n, err := h.Svc.BatchDelete(r.Context(), req.IDs)
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	auth.Audit(r, h.Activity, activity.ActionDelete, resourceType, nil, fmt.Sprintf("ids=%v", req.IDs))
	respond.OK(w, http.StatusOK, BatchResult{Affected: n})
}

// ExportHandler downloads the subscribers as CSV.
type ExportHandler struct {
	Svc      *subUC.Service
	Activity *activity.Service
}

// ServeHTTP 購読者CSVエクスポート
// @Summary      購読者CSVエクスポート
// @Tags         admin-subscribers
// @Security     BearerAuth
// @Produce      text/csv
// @Param        status query string false "active / unsubscribed"
// @Param        search query string false "メールアドレスの部分一致"
// @Success      200 {string} string "email,status,created_at"
// @Failure      400 {object} respond.ErrorBody
// @Router       /admin/subscribers/export [get]
func (h ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// 失敗時に JSON エラーを返せるよう全件をバッファしてから書き出す
	var buf bytes.Buffer
	if err := h.Svc.ExportCSV(r.Context(), &buf, filterFrom(r)); err != nil {
		respond.Fail(w, r, err)
		return
	}
	auth.Audit(r, h.Activity, activity.ActionExport, resourceType, nil, "")

	name := fmt.Sprintf("subscribers-%s.csv", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
