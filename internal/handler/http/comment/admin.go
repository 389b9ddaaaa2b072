package comment

import (
	"fmt"
	"net/http"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/handler/http/auth"
	"inkwell/internal/handler/http/pathutil"
	"inkwell/internal/handler/http/respond"
	"inkwell/internal/observability/logging"
	"inkwell/internal/repository"
	"inkwell/internal/usecase/activity"
	commentUC "inkwell/internal/usecase/comment"
)

const resourceType = "comment"

type statusRequest struct {
	Status string `json:"status" example:"approved"`
}

type batchStatusRequest struct {
	IDs    []int64 `json:"ids"`
	Status string  `json:"status" example:"spam"`
}

type batchDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// BatchResult reports how many comments a batch operation changed.
type BatchResult struct {
	Affected int64 `json:"affected"`
}

// AdminListHandler lists comments of every status.
type AdminListHandler struct {
	Svc           *commentUC.Service
	PaginationCfg pagination.Config
}

// ServeHTTP コメント一覧（管理）
// @Summary      コメント一覧（管理）
// @Tags         admin-comments
// @Security     BearerAuth
// @Produce      json
// @Param        page       query int    false "ページ番号" default(1)
// @Param        limit      query int    false "件数" default(20)
// @Param        status     query string false "pending / approved / spam"
// @Param        article_id query int    false "記事ID"
// @Param        search     query string false "本文・投稿者名の部分一致"
// @Success      200 {object} respond.Envelope{data=AdminListDTO}
// @Failure      400 {object} respond.ErrorBody
// @Router       /admin/comments [get]
func (h AdminListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))

	params := pagination.ParseQueryParams(r, h.PaginationCfg, commentUC.Sort)
	obs := pagination.Observe(logger, "admin_comments", params)

	articleID, err := pathutil.QueryID(r, "article_id")
	if err != nil {
		obs.Fail(err, http.StatusBadRequest)
		respond.Fail(w, r, err)
		return
	}
	q := r.URL.Query()
	filter := repository.CommentFilter{
		ArticleID: articleID,
		Status:    entity.CommentStatus(q.Get("status")),
		Search:    q.Get("search"),
	}

	page, err := h.Svc.AdminList(ctx, filter, params)
	if err != nil {
		obs.Fail(err, respond.StatusFor(err))
		respond.Fail(w, r, err)
		return
	}
	obs.Done(len(page.Items), page.Pagination.Total)
	respond.OK(w, http.StatusOK, toAdminListDTO(page))
}

// AdminGetHandler returns one comment with its moderation fields.
type AdminGetHandler struct{ Svc *commentUC.Service }

// ServeHTTP コメント詳細（管理）
// @Summary      コメント詳細（管理）
// @Tags         admin-comments
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "コメントID"
// @Success      200 {object} respond.Envelope{data=AdminDTO}
// @Failure      404 {object} respond.ErrorBody
// @Router       /admin/comments/{id} [get]
func (h AdminGetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	c, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, toAdminDTO(c))
}

// StatusHandler moderates one comment.
type StatusHandler struct {
	Svc      *commentUC.Service
	Activity *activity.Service
}

// ServeHTTP コメントステータス変更
// @Summary      コメントステータス変更
// @Tags         admin-comments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path int           true "コメントID"
// @Param        request body statusRequest true "ステータス"
// @Success      200 {object} respond.Envelope
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody
// @Router       /admin/comments/{id}/status [put]
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
	if err := h.Svc.UpdateStatus(r.Context(), id, entity.CommentStatus(req.Status)); err != nil {
		respond.Fail(w, r, err)
		return
	}
	auth.Audit(r, h.Activity, activity.ActionUpdate, resourceType, &id, "status="+req.Status)
	respond.Message(w, http.StatusOK, "comment status updated")
}

// BatchStatusHandler moderates several comments.
type BatchStatusHandler struct {
	Svc      *commentUC.Service
	Activity *activity.Service
}

// ServeHTTP コメントステータス一括変更
// @Summary      コメントステータス一括変更
// @Tags         admin-comments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body batchStatusRequest true "対象IDとステータス"
// @Success      200 {object} respond.Envelope{data=BatchResult}
// @Failure      400 {object} respond.ErrorBody
// @Router       /admin/comments/batch/status [put]
func (h BatchStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req batchStatusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Fail(w, r, err)
		return
	}
	n, err := h.Svc.BatchStatus(r.Context(), req.IDs, entity.CommentStatus(req.Status))
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	auth.Audit(r, h.Activity, activity.ActionUpdate, resourceType, nil,
		fmt.Sprintf("status=%s ids=%v", req.Status, req.IDs))
	respond.OK(w, http.StatusOK, BatchResult{Affected: n})
}

// DeleteHandler deletes one comment.
type DeleteHandler struct {
	Svc      *commentUC.Service
	Activity *activity.Service
}

// ServeHTTP コメント削除
// @Summary      コメント削除
// @Tags         admin-comments
// @Security     BearerAuth
// @Param        id path int true "コメントID"
// @Success      200 {object} respond.Envelope
// @Failure      404 {object} respond.ErrorBody
// @Router       /admin/comments/{id} [delete]
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
	respond.Message(w, http.StatusOK, "comment deleted")
}

// BatchDeleteHandler deletes several comments.
type BatchDeleteHandler struct {
	Svc      *commentUC.Service
	Activity *activity.Service
}

// ServeHTTP コメント一括削除
// @Summary      コメント一括削除
// @Tags         admin-comments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body batchDeleteRequest true "対象ID"
// @Success      200 {object} respond.Envelope{data=BatchResult}
// @Failure      400 {object} respond.ErrorBody
// @Router       /admin/comments/batch/delete [post]
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

// StatsHandler summarizes the moderation queue.
type StatsHandler struct{ Svc *commentUC.Service }

// ServeHTTP コメント統計
// @Summary      コメント統計
// @Tags         admin-comments
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} respond.Envelope{data=entity.CommentStats}
// @Router       /admin/comments/stats [get]
func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Stats(r.Context())
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, stats)
}
