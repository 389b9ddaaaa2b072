package category

import (
	"net/http"

	"inkwell/internal/common/pagination"
	"inkwell/internal/handler/http/pathutil"
	"inkwell/internal/handler/http/respond"
	"inkwell/internal/observability/logging"
	artUC "inkwell/internal/usecase/article"
	catUC "inkwell/internal/usecase/category"
)

// ListHandler serves all categories with their published article counts.
type ListHandler struct {
	Svc           *catUC.Service
	PaginationCfg pagination.Config
}

// ServeHTTP カテゴリ一覧
// @Summary      カテゴリ一覧
// @Description  公開記事数付きでカテゴリを取得します。既定は名前の昇順です。
// @Tags         categories
// @Produce      json
// @Param        page  query int    false "ページ番号" default(1)
// @Param        limit query int    false "件数" default(20)
// @Param        sort  query string false "並び替え" Enums(id, name, created_at, article_count) default(name)
// @Param        order query string false "ASC / DESC" default(ASC)
// @Success      200 {object} respond.Envelope{data=ListDTO}
// @Failure      500 {object} respond.ErrorBody
// @Router       /categories [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))

	params := pagination.ParseQueryParams(r, h.PaginationCfg, catUC.Sort)
	obs := pagination.Observe(logger, "categories", params)

	page, err := h.Svc.List(ctx, params)
	if err != nil {
		obs.Fail(err, respond.StatusFor(err))
		respond.Fail(w, r, err)
		return
	}
	obs.Done(len(page.Items), page.Pagination.Total)
	respond.OK(w, http.StatusOK, toListDTO(page))
}

// GetHandler serves one category.
type GetHandler struct{ Svc *catUC.Service }

// ServeHTTP カテゴリ詳細
// @Summary      カテゴリ詳細
// @Tags         categories
// @Produce      json
// @Param        id path int true "カテゴリID"
// @Success      200 {object} respond.Envelope{data=DTO}
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody
// @Router       /categories/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	cat, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, toDTO(cat))
}

// ArticlesHandler serves a category together with its published articles.
type ArticlesHandler struct {
	Svc           *catUC.Service
	PaginationCfg pagination.Config
}

// ServeHTTP カテゴリ別記事一覧
// @Summary      カテゴリ別記事一覧
// @Tags         categories
// @Produce      json
// @Param        id    path  int    true  "カテゴリID"
// @Param        page  query int    false "ページ番号" default(1)
// @Param        limit query int    false "件数" default(10)
// @Param        sort  query string false "並び替え" Enums(id, title, published_at, view_count, created_at, updated_at) default(published_at)
// @Param        order query string false "ASC / DESC" default(DESC)
// @Success      200 {object} respond.Envelope{data=ArticlesDTO}
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody "カテゴリが存在しない"
// @Router       /categories/{id}/articles [get]
func (h ArticlesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))

	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, err)
		return
	}

	params := pagination.ParseQueryParams(r, h.PaginationCfg, artUC.PublicSort)
	obs := pagination.Observe(logger, "category_articles", params)

	page, err := h.Svc.ListArticles(ctx, id, params)
	if err != nil {
		obs.Fail(err, respond.StatusFor(err))
		respond.Fail(w, r, err)
		return
	}
	obs.Done(len(page.Articles.Items), page.Articles.Pagination.Total)
	respond.OK(w, http.StatusOK, toArticlesDTO(page))
}
