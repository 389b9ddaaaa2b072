package article

import (
	"net/http"

	"inkwell/internal/common/pagination"
	"inkwell/internal/handler/http/pathutil"
	"inkwell/internal/handler/http/respond"
	"inkwell/internal/observability/logging"
	artUC "inkwell/internal/usecase/article"
)

// ListHandler serves the public article list.
type ListHandler struct {
	Svc           *artUC.Service
	PaginationCfg pagination.Config
}

// ServeHTTP 公開記事一覧
// @Summary      公開記事一覧（ページネーション対応）
// @Description  公開済みの記事を取得します。category_id で絞り込み、sort / order で並び替えできます。
// @Tags         articles
// @Produce      json
// @Param        page         query int    false "ページ番号 (1-based)" default(1) minimum(1)
// @Param        limit        query int    false "1ページあたりの件数" default(10) minimum(1) maximum(100)
// @Param        category_id  query int    false "カテゴリID"
// @Param        sort         query string false "並び替え" Enums(id, title, published_at, view_count, created_at, updated_at) default(published_at)
// @Param        order        query string false "ASC / DESC" default(DESC)
// @Success      200 {object} respond.Envelope{data=ListDTO} "記事一覧"
// @Failure      400 {object} respond.ErrorBody "category_id が不正"
// @Failure      500 {object} respond.ErrorBody "サーバーエラー"
// @Router       /articles [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))

	params := pagination.ParseQueryParams(r, h.PaginationCfg, artUC.PublicSort)
	obs := pagination.Observe(logger, "articles", params)

	categoryID, err := pathutil.QueryID(r, "category_id")
	if err != nil {
		obs.Fail(err, http.StatusBadRequest)
		respond.Fail(w, r, err)
		return
	}

	page, err := h.Svc.ListPublished(ctx, categoryID, params)
	if err != nil {
		obs.Fail(err, respond.StatusFor(err))
		respond.Fail(w, r, err)
		return
	}

	obs.Done(len(page.Items), page.Pagination.Total)
	respond.OK(w, http.StatusOK, ToListDTO(page))
}
