package article

import (
	"net/http"

	"inkwell/internal/handler/http/pathutil"
	"inkwell/internal/handler/http/respond"
	artUC "inkwell/internal/usecase/article"
)

// GetHandler serves a published article and counts the view.
type GetHandler struct{ Svc *artUC.Service }

// ServeHTTP 記事詳細取得
// @Summary      記事詳細取得
// @Description  公開済みの記事を取得し、閲覧数を 1 増やします
// @Tags         articles
// @Produce      json
// @Param        id path int true "記事ID"
// @Success      200 {object} respond.Envelope{data=DTO} "記事詳細"
// @Failure      400 {object} respond.ErrorBody "ID が不正"
// @Failure      404 {object} respond.ErrorBody "記事が存在しない、または未公開"
// @Failure      500 {object} respond.ErrorBody "サーバーエラー"
// @Router       /articles/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, err)
		return
	}

	article, err := h.Svc.GetPublished(r.Context(), id)
	if err != nil {
		respond.Fail(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, ToDTO(article, true))
}
