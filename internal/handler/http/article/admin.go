package article

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
	artUC "inkwell/internal/usecase/article"
)

const resourceType = "article"

type createRequest struct {
	Title      string `json:"title" example:"はじめての投稿"`
	Content    string `json:"content" example:"<p>本文</p>"`
	Summary    string `json:"summary"`
	CoverImage string `json:"cover_image"`
	CategoryID *int64 `json:"category_id"`
	Status     string `json:"status" example:"draft"`
}

// updateRequest carries the fields to change; omitted fields are kept.
// category_id 0 removes the category.
type updateRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Summary    *string `json:"summary"`
	CoverImage *string `json:"cover_image"`
	CategoryID *int64  `json:"category_id"`
	Status     *string `json:"status"`
}

type batchStatusRequest struct {
	IDs    []int64 `json:"ids"`
	Status string  `json:"status" example:"published"`
}

// BatchResult reports how many rows a batch operation changed.
type BatchResult struct {
	Affected int64 `json:"affected"`
}

// AdminListHandler lists articles of any status.
type AdminListHandler struct {
	Svc           *artUC.Service
	PaginationCfg pagination.Config
}

// ServeHTTP 管理画面 記事一覧
// @Summary      記事一覧（管理）
// @Tags         admin-articles
// @Security     BearerAuth
// @Produce      json
// @Param        page        query int    false "ページ番号" default(1)
// @Param        limit       query int    false "件数" default(20)
// @Param        status      query string false "draft / published"
// @Param        category_id query int    false "カテゴリID"
// @Param        search      query string false "タイトルの部分一致"
// @Param        sort        query string false "並び替え" Enums(id, title, created_at, updated_at, published_at, view_count) default(created_at)
// @Param        order       query string false "ASC / DESC" default(DESC)
// @Success      200 {object} respond.Envelope{data=ListDTO}
// @Failure      400 {object} respond.ErrorBody
// @Failure      401 {object} respond.ErrorBody
// @Router       /admin/articles [get]
func (h AdminListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))

	params := pagination.ParseQueryParams(r, h.PaginationCfg, artUC.AdminSort)
	obs := pagination.Observe(logger, "admin_articles", params)

	categoryID, err := pathutil.QueryID(r, "category_id")
	if err != nil {
		obs.Fail(err, http.StatusBadRequest)
		respond.Fail(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := repository.ArticleFilter{
		Status:     entity.ArticleStatus(q.Get("status")),
		CategoryID: categoryID,
		Search:     q.Get("search"),
	}
	page, err := h.Svc.AdminList(ctx, filter, params)
	if err != nil {
		obs.Fail(err, respond.StatusFor(err))
		respond.Fail(w, r, err)
		return
	}

	obs.Done(len(page.Items), page.Pagination.Total)
	respond.OK(w, http.StatusOK, ToListDTO(page))
}

// AdminGetHandler returns one article of any status without counting a view.
type AdminGetHandler struct{ Svc *artUC.Service }

// ServeHTTP 管理画面 記事詳細
// @Summary      記事詳細（管理）
// @Tags         admin-articles
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "記事ID"
// @Success      200 {object} respond.Envelope{data=DTO}
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody
// @Router       /admin/articles/{id} [get]
func (h AdminGetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	article, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, ToDTO(article, true))
}

// CreateHandler creates an article.
type CreateHandler struct {
	Svc      *artUC.Service
	Activity *activity.Service
}

// ServeHTTP 記事作成
// @Summary      記事作成
// @Description  記事を作成します。本文はサニタイズされ、summary が空なら本文から生成されます。
// @Tags         admin-articles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        article body createRequest true "記事情報"
// @Success      201 {object} respond.Envelope{data=DTO}
// @Failure      400 {object} respond.ErrorBody "入力エラー"
// @Failure      401 {object} respond.ErrorBody
// @Router       /admin/articles [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Fail(w, r, err)
		return
	}

	article, err := h.Svc.Create(r.Context(), artUC.CreateInput{
		Title:      req.Title,
		Content:    req.Content,
		Summary:    req.Summary,
		CoverImage: req.CoverImage,
		CategoryID: req.CategoryID,
		Status:     entity.ArticleStatus(req.Status),
	})
	if err != nil {
		respond.Fail(w, r, err)
		return
	}

	auth.Audit(r, h.Activity, activity.ActionCreate, resourceType, &article.ID, article.Title)
	respond.OK(w, http.StatusCreated, ToDTO(article, true))
}

// UpdateHandler applies a partial update.
type UpdateHandler struct {
	Svc      *artUC.Service
	Activity *activity.Service
}

// ServeHTTP 記事更新
// @Summary      記事更新
// @Description  指定したフィールドのみ更新します。初めて公開されたときに published_at が設定されます。
// @Tags         admin-articles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path int           true "記事ID"
// @Param        article body updateRequest true "更新内容"
// @Success      200 {object} respond.Envelope{data=DTO}
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody
// @Router       /admin/articles/{id} [put]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	var req updateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Fail(w, r, err)
		return
	}

	in := artUC.UpdateInput{
		ID:         id,
		Title:      req.Title,
		Content:    req.Content,
		Summary:    req.Summary,
		CoverImage: req.CoverImage,
		CategoryID: req.CategoryID,
	}
	if req.Status != nil {
		st := entity.ArticleStatus(*req.Status)
		in.Status = &st
	}

	article, err := h.Svc.Update(r.Context(), in)
	if err != nil {
		respond.Fail(w, r, err)
		return
	}

	auth.Audit(r, h.Activity, activity.ActionUpdate, resourceType, &article.ID, article.Title)
	respond.OK(w, http.StatusOK, ToDTO(article, true))
}

// DeleteHandler deletes an article and its comments.
type DeleteHandler struct {
	Svc      *artUC.Service
	Activity *activity.Service
}

// ServeHTTP 記事削除
// @Summary      記事削除
// @Tags         admin-articles
// @Security     BearerAuth
// @Param        id path int true "記事ID"
// @Success      200 {object} respond.Envelope "削除しました"
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody
// @Router       /admin/articles/{id} [delete]
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
	respond.Message(w, http.StatusOK, "article deleted")
}

// BatchStatusHandler publishes or unpublishes several articles.
type BatchStatusHandler struct {
	Svc      *artUC.Service
	Activity *activity.Service
}

// ServeHTTP 記事ステータス一括変更
// @Summary      記事ステータス一括変更
// @Tags         admin-articles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body batchStatusRequest true "対象IDとステータス"
// @Success      200 {object} respond.Envelope{data=BatchResult}
// @Failure      400 {object} respond.ErrorBody
// @Router       /admin/articles/batch/status [put]
func (h BatchStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req batchStatusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Fail(w, r, err)
		return
	}
	n, err := h.Svc.BatchStatus(r.Context(), req.IDs, entity.ArticleStatus(req.Status))
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	auth.Audit(r, h.Activity, activity.ActionUpdate, resourceType, nil,
		fmt.Sprintf("status=%s ids=%v", req.Status, req.IDs))
	respond.OK(w, http.StatusOK, BatchResult{Affected: n})
}
