// Package setting provides the HTTP handlers of the public site settings and
// of the admin settings editor.
package setting

import (
	"net/http"
	"time"

	"inkwell/internal/domain/entity"
	"inkwell/internal/handler/http/auth"
	"inkwell/internal/handler/http/respond"
	"inkwell/internal/usecase/activity"
	settingUC "inkwell/internal/usecase/setting"
)

const resourceType = "setting"

// DTO is one setting.
type DTO struct {
	Group     string `json:"group" example:"site"`
	Key       string `json:"key" example:"title"`
	Value     string `json:"value" example:"个人博客"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

func toDTO(st entity.Setting) DTO {
	return DTO{Group: st.Group, Key: st.Key, Value: st.Value, UpdatedAt: st.UpdatedAt}
}

func toDTOs(settings []entity.Setting) []DTO {
	out := make([]DTO, 0, len(settings))
	for _, st := range settings {
		out = append(out, toDTO(st))
	}
	return out
}

type valueRequest struct {
	Value string `json:"value" example:"新しいタイトル"`
}

type batchRequest struct {
	Settings []DTO `json:"settings"`
}

// Handler serves the settings endpoints.
type Handler struct {
	Svc      *settingUC.Service
	Activity *activity.Service
}

// Public 公開サイト設定
// @Summary      公開サイト設定
// @Description  site グループの設定を返します。未設定のキーは既定値で補われます。
// @Tags         settings
// @Produce      json
// @Success      200 {object} respond.Envelope{data=map[string]string}
// @Router       /settings/public [get]
func (h Handler) Public(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Svc.Public(r.Context())
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, settings)
}

// All 全設定
// @Summary      全設定
// @Tags         admin-settings
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} respond.Envelope{data=map[string]map[string]string}
// @Router       /admin/settings [get]
func (h Handler) All(w http.ResponseWriter, r *http.Request) {
	all, err := h.Svc.All(r.Context())
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, all)
}

// Groups 設定グループ一覧
// @Summary      設定グループ一覧
// @Tags         admin-settings
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} respond.Envelope{data=[]entity.SettingGroup}
// @Router       /admin/settings/groups [get]
func (h Handler) Groups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Svc.Groups(r.Context())
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, groups)
}

// Group グループ内の設定
// @Summary      グループ内の設定
// @Tags         admin-settings
// @Security     BearerAuth
// @Produce      json
// @Param        group path string true "グループ名"
// @Success      200 {object} respond.Envelope{data=[]DTO}
// @Failure      400 {object} respond.ErrorBody
// @Router       /admin/settings/{group} [get]
func (h Handler) Group(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Svc.Group(r.Context(), r.PathValue("group"))
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, toDTOs(settings))
}

// Get 設定取得
// @Summary      設定取得
// @Tags         admin-settings
// @Security     BearerAuth
// @Produce      json
// @Param        group path string true "グループ名"
// @Param        key   path string true "キー"
// @Success      200 {object} respond.Envelope{data=DTO}
// @Failure      404 {object} respond.ErrorBody
// @Router       /admin/settings/{group}/{key} [get]
func (h Handler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.Svc.Get(r.Context(), r.PathValue("group"), r.PathValue("key"))
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, toDTO(*st))
}

// Upsert 設定の作成・更新
// @Summary      設定の作成・更新
// @Tags         admin-settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        group   path string       true "グループ名"
// @Param        key     path string       true "キー"
// @Param        request body valueRequest true "値"
// @Success      200 {object} respond.Envelope{data=DTO}
// @Failure      400 {object} respond.ErrorBody
// @Router       /admin/settings/{group}/{key} [put]
func (h Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req valueRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Fail(w, r, err)
		return
	}
	st, err := h.Svc.Upsert(r.Context(), r.PathValue("group"), r.PathValue("key"), req.Value)
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	auth.Audit(r, h.Activity, activity.ActionUpdate, resourceType, nil, st.Group+"."+st.Key)
	respond.OK(w, http.StatusOK, toDTO(*st))
}

// Batch 設定の一括更新
// @Summary      設定の一括更新
// @Description  1件でも不正な設定があれば何も書き込みません
// @Tags         admin-settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body batchRequest true "設定一覧"
// @Success      200 {object} respond.Envelope
// @Failure      400 {object} respond.ErrorBody
// @Router       /admin/settings/batch [put]
func (h Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Fail(w, r, err)
		return
	}
	settings := make([]entity.Setting, 0, len(req.Settings))
	for _, s := range req.Settings {
		settings = append(settings, entity.Setting{Group: s.Group, Key: s.Key, Value: s.Value})
	}
	if err := h.Svc.BatchUpsert(r.Context(), settings); err != nil {
		respond.Fail(w, r, err)
		return
	}
	auth.Audit(r, h.Activity, activity.ActionUpdate, resourceType, nil, "batch")
	respond.Message(w, http.StatusOK, "settings updated")
}

// Delete 設定削除
// @Summary      設定削除
// @Tags         admin-settings
// @Security     BearerAuth
// @Param        group path string true "グループ名"
// @Param        key   path string true "キー"
// @Success      200 {object} respond.Envelope
// @Failure      404 {object} respond.ErrorBody
// @Router       /admin/settings/{group}/{key} [delete]
func (h Handler) Delete(w http.ResponseWriter, r *http.Request) {
	group, key := r.PathValue("group"), r.PathValue("key")
	if err := h.Svc.Delete(r.Context(), group, key); err != nil {
		respond.Fail(w, r, err)
		return
	}
	auth.Audit(r, h.Activity, activity.ActionDelete, resourceType, nil, group+"."+key)
	respond.Message(w, http.StatusOK, "setting deleted")
}

// Reset 既定値に戻す
// @Summary      既定値に戻す
// @Description  group を省略すると全グループを既定値に戻します
// @Tags         admin-settings
// @Security     BearerAuth
// @Param        group query string false "グループ名"
// @Success      200 {object} respond.Envelope
// @Failure      400 {object} respond.ErrorBody "既定値のないグループ"
// @Router       /admin/settings/reset [post]
func (h Handler) Reset(w http.ResponseWriter, r *http.Request) {
	group := r.URL.Query().Get("group")
	if err := h.Svc.Reset(r.Context(), group); err != nil {
		respond.Fail(w, r, err)
		return
	}
	details := group
	if details == "" {
		details = "all"
	}
	auth.Audit(r, h.Activity, activity.ActionReset, resourceType, nil, details)
	respond.Message(w, http.StatusOK, "settings reset to defaults")
}
