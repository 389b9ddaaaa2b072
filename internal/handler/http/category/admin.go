package category

import (
	"net/http"

	"inkwell/internal/handler/http/auth"
	"inkwell/internal/handler/http/pathutil"
	"inkwell/internal/handler/http/respond"
	"inkwell/internal/usecase/activity"
	catUC "inkwell/internal/usecase/category"
)

const resourceType = "category"

type request struct {
	Name        string `json:"name" example:"技术"`
	Description string `json:"description"`
}

// CreateHandler creates a category.
type CreateHandler struct {
	Svc      *catUC.Service
	Activity *activity.Service
}

// ServeHTTP カテゴリ作成
// @Summary      カテゴリ作成
// @Tags         admin-categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        category body request true "カテゴリ情報"
// @Success      201 {object} respond.Envelope{data=DTO}
// @Failure      400 {object} respond.ErrorBody
// @Failure      409 {object} respond.ErrorBody "名前が重複"
// @Router       /admin/categories [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := respond.Decode(r, &req); err != nil {
		respond.Fail(w, r, err)
		return
	}
	cat, err := h.Svc.Create(r.Context(), catUC.Input{Name: req.Name, Description: req.Description})
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	auth.Audit(r, h.Activity, activity.ActionCreate, resourceType, &cat.ID, cat.Name)
	respond.OK(w, http.StatusCreated, toDTO(cat))
}

// UpdateHandler replaces the name and description of a category.
type UpdateHandler struct {
	Svc      *catUC.Service
	Activity *activity.Service
}

// ServeHTTP カテゴリ更新
// @Summary      カテゴリ更新
// @Tags         admin-categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path int     true "カテゴリID"
// @Param        category body request true "カテゴリ情報"
// @Success      200 {object} respond.Envelope{data=DTO}
// @Failure      400 {object} respond.ErrorBody
// @Failure      404 {object} respond.ErrorBody
// @Failure      409 {object} respond.ErrorBody
// @Router       /admin/categories/{id} [put]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	var req request
	if err := respond.Decode(r, &req); err != nil {
		respond.Fail(w, r, err)
		return
	}
	cat, err := h.Svc.Update(r.Context(), id, catUC.Input{Name: req.Name, Description: req.Description})
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	auth.Audit(r, h.Activity, activity.ActionUpdate, resourceType, &cat.ID, cat.Name)
	respond.OK(w, http.StatusOK, toDTO(cat))
}

// DeleteHandler deletes a category that no article uses.
type DeleteHandler struct {
	Svc      *catUC.Service
	Activity *activity.Service
}

// ServeHTTP カテゴリ削除
// @Summary      カテゴリ削除
// @Description  記事が残っているカテゴリは削除できません (409)
// @Tags         admin-categories
// @Security     BearerAuth
// @Param        id path int true "カテゴリID"
// @Success      200 {object} respond.Envelope
// @Failure      404 {object} respond.ErrorBody
// @Failure      409 {object} respond.ErrorBody "記事が存在する"
// @Router       /admin/categories/{id} [delete]
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
	respond.Message(w, http.StatusOK, "category deleted")
}
