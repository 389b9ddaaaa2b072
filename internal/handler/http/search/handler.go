package search

import (
	"log/slog"
	"net/http"

	"inkwell/internal/common/pagination"
	"inkwell/internal/handler/http/pathutil"
	"inkwell/internal/handler/http/respond"
	"inkwell/internal/observability/logging"
	searchUC "inkwell/internal/usecase/search"
)

// Handler serves full-text article search.
type Handler struct {
	Svc           *searchUC.Service
	PaginationCfg pagination.Config
}

// ServeHTTP 記事検索
// @Summary      記事検索
// @Description  公開記事のタイトル・要約・本文を部分一致で検索します。1ページ目の検索語は人気キーワードの集計対象になります。
// @Tags         search
// @Produce      json
// @Param        q           query string true  "検索語 (最大100文字)"
// @Param        page        query int    false "ページ番号" default(1)
// @Param        limit       query int    false "件数" default(10)
// @Param        category_id query int    false "カテゴリID"
// @Param        sort        query string false "並び替え" Enums(relevance, published_at, view_count, created_at) default(relevance)
// @Param        order       query string false "ASC / DESC" default(DESC)
// @Success      200 {object} respond.Envelope{data=PageDTO}
// @Failure      400 {object} respond.ErrorBody "検索語が空、または長すぎる"
// @Failure      500 {object} respond.ErrorBody
// @Router       /search [get]
func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))

	params := pagination.ParseQueryParams(r, h.PaginationCfg, searchUC.Sort)
	obs := pagination.Observe(logger, "search", params)

	categoryID, err := pathutil.QueryID(r, "category_id")
	if err != nil {
		obs.Fail(err, http.StatusBadRequest)
		respond.Fail(w, r, err)
		return
	}

	page, err := h.Svc.Search(ctx, r.URL.Query().Get("q"), searchUC.Query{CategoryID: categoryID, Params: params})
	if err != nil {
		obs.Fail(err, respond.StatusFor(err))
		respond.Fail(w, r, err)
		return
	}

	logger.Debug("search completed", slog.String("query", page.Query))
	obs.Done(len(page.Results), page.Pagination.Total)
	respond.OK(w, http.StatusOK, toPageDTO(page))
}

// SuggestionsHandler serves title suggestions for the search box.
type SuggestionsHandler struct{ Svc *searchUC.Service }

// ServeHTTP 検索候補
// @Summary      検索候補
// @Description  2文字未満の入力には空配列を返します
// @Tags         search
// @Produce      json
// @Param        q     query string true  "入力中の検索語"
// @Param        limit query int    false "件数 (最大20)" default(10)
// @Success      200 {object} respond.Envelope{data=[]string}
// @Failure      400 {object} respond.ErrorBody
// @Router       /search/suggestions [get]
func (h SuggestionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := pathutil.QueryInt(r, "limit", searchUC.DefaultSuggestionLimit)
	titles, err := h.Svc.Suggestions(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, titles)
}

// PopularHandler serves the popular search terms.
type PopularHandler struct{ Svc *searchUC.Service }

// ServeHTTP 人気キーワード
// @Summary      人気キーワード
// @Description  集計前は既定のキーワード一覧を返します
// @Tags         search
// @Produce      json
// @Param        limit query int false "件数" default(10)
// @Success      200 {object} respond.Envelope{data=[]entity.PopularTerm}
// @Router       /search/popular [get]
func (h PopularHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	terms, err := h.Svc.PopularTerms(r.Context(), pathutil.QueryInt(r, "limit", 0))
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, terms)
}
