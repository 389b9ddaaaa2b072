package comment

import (
	"net/http"

	"inkwell/internal/common/pagination"
	"inkwell/internal/handler/http/middleware"
	"inkwell/internal/handler/http/pathutil"
	"inkwell/internal/handler/http/respond"
	"inkwell/internal/observability/logging"
	commentUC "inkwell/internal/usecase/comment"
)

// ListHandler serves the approved comments of a published article.
type ListHandler struct {
	Svc           *commentUC.Service
	PaginationCfg pagination.Config
}

// ServeHTTP 記事コメント一覧
// @Summary      記事コメント一覧
// @Description  承認済みのコメントのみ返します
// @Tags         comments
// @Produce      json
// @Param        id    path  int    true  "記事ID"
// @Param        page  query int    false "ページ番号" default(1)
// @Param        limit query int    false "件数" default(20)
// @Param        sort  query string false "並び替え" Enums(id, created_at) default(created_at)
// @Param        order query string false "ASC / DESC" default(DESC)
// @Success      200 {object} respond.Envelope{data=ArticleCommentsDTO}
// @Failure      404 {object} respond.ErrorBody "記事が存在しない、または未公開"
// @Router       /articles/{id}/comments [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))

	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, err)
		return
	}

	params := pagination.ParseQueryParams(r, h.PaginationCfg, commentUC.Sort)
	obs := pagination.Observe(logger, "comments", params)

	page, err := h.Svc.ListForArticle(ctx, id, params)
	if err != nil {
		obs.Fail(err, respond.StatusFor(err))
		respond.Fail(w, r, err)
		return
	}
	obs.Done(len(page.Comments.Items), page.Comments.Pagination.Total)
	respond.OK(w, http.StatusOK, toArticleCommentsDTO(page))
}

type createRequest struct {
	Content     string `json:"content" example:"参考になりました"`
	AuthorName  string `json:"author_name" example:"山田"`
	AuthorEmail string `json:"author_email" example:"yamada@example.com"`
}

// CreateHandler accepts a reader comment into the moderation queue.
type CreateHandler struct{ Svc *commentUC.Service }

// ServeHTTP コメント投稿
// @Summary      コメント投稿
// @Description  コメントは承認待ち (pending) として保存されます
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id      path int           true "記事ID"
// @Param        comment body createRequest true "コメント"
// @Success      201 {object} respond.Envelope{data=DTO}
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody
// @Failure      429 {object} respond.ErrorBody
// @Router       /articles/{id}/comments [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Fail(w, r, err)
		return
	}

	c, err := h.Svc.Create(r.Context(), commentUC.CreateInput{
		ArticleID:   id,
		Content:     req.Content,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		IPAddress:   middleware.RequestIP(r),
	})
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, respond.Envelope{
		Success: true,
		Data:    toDTO(c),
		Message: "comment submitted for review",
	})
}
