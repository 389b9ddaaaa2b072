// Package media provides the HTTP handlers of the admin media library.
package media

import (
	"errors"
	"net/http"
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/handler/http/auth"
	"inkwell/internal/handler/http/pathutil"
	"inkwell/internal/handler/http/respond"
	"inkwell/internal/observability/logging"
	"inkwell/internal/usecase/activity"
	mediaUC "inkwell/internal/usecase/media"
)

const resourceType = "media"

// multipart framing allowed on top of the file itself
const formOverhead = 1 << 20

// DTO represents the JSON structure for media data transfer.
type DTO struct {
	ID           int64     `json:"id" example:"1"`
	Filename     string    `json:"filename" example:"images/2026/10/0b6c.png"`
	OriginalName string    `json:"original_name" example:"cover.png"`
	URL          string    `json:"url" example:"/uploads/images/2026/10/0b6c.png"`
	MimeType     string    `json:"mime_type" example:"image/png"`
	Size         int64     `json:"size" example:"20480"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListDTO is a page of the media library.
type ListDTO struct {
	Media      []DTO               `json:"media"`
	Pagination pagination.Metadata `json:"pagination"`
}

func toDTO(m *entity.Media) DTO {
	return DTO{
		ID:           m.ID,
		Filename:     m.Filename,
		OriginalName: m.OriginalName,
		URL:          m.URL,
		MimeType:     m.MimeType,
		Size:         m.Size,
		CreatedAt:    m.CreatedAt,
	}
}

// Handler serves the media library endpoints.
type Handler struct {
	Svc           *mediaUC.Service
	Activity      *activity.Service
	PaginationCfg pagination.Config
	MaxBytes      int64 // upload limit; 0 means mediaUC.DefaultMaxBytes
}

func (h Handler) maxBytes() int64 {
	if h.MaxBytes > 0 {
		return h.MaxBytes
	}
	return mediaUC.DefaultMaxBytes
}

// List メディア一覧
// @Summary      メディア一覧
// @Tags         admin-media
// @Security     BearerAuth
// @Produce      json
// @Param        page   query int    false "ページ番号" default(1)
// @Param        limit  query int    false "件数" default(20)
// @Param        type   query string false "MIME の主タイプ (image)"
// @Param        search query string false "元ファイル名の部分一致"
// @Success      200 {object} respond.Envelope{data=ListDTO}
// @Router       /admin/media [get]
func (h Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, logging.FromContext(ctx))

	params := pagination.ParseQueryParams(r, h.PaginationCfg, mediaUC.Sort)
	obs := pagination.Observe(logger, "media", params)

	q := r.URL.Query()
	page, err := h.Svc.List(ctx, q.Get("type"), q.Get("search"), params)
	if err != nil {
		obs.Fail(err, respond.StatusFor(err))
		respond.Fail(w, r, err)
		return
	}
	items := make([]DTO, 0, len(page.Items))
	for _, m := range page.Items {
		items = append(items, toDTO(m))
	}
	obs.Done(len(items), page.Pagination.Total)
	respond.OK(w, http.StatusOK, ListDTO{Media: items, Pagination: page.Pagination})
}

// Upload 画像アップロード
// @Summary      画像アップロード
// @Description  jpeg / png / gif / webp のみ。種別はファイル内容から判定し、上限は 5MiB です。
// @Tags         admin-media
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "画像ファイル"
// @Success      201 {object} respond.Envelope{data=DTO}
// @Failure      400 {object} respond.ErrorBody "ファイルなし、または非対応の形式"
// @Failure      413 {object} respond.ErrorBody "サイズ超過"
// @Router       /admin/media/upload [post]
func (h Handler) Upload(w http.ResponseWriter, r *http.Request) {
	limit := h.maxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			respond.FailWithStatus(w, r, http.StatusRequestEntityTooLarge, &mediaUC.TooLargeError{Limit: limit})
		case errors.Is(err, http.ErrMissingFile):
			respond.Fail(w, r, mediaUC.ErrEmptyFile)
		default:
			respond.Fail(w, r, &entity.ValidationError{Field: "file", Message: "must be a multipart upload"})
		}
		return
	}
	defer file.Close()

	m, err := h.Svc.Upload(r.Context(), mediaUC.Upload{OriginalName: header.Filename, Body: file})
	if err != nil {
		var tooLarge *mediaUC.TooLargeError
		if errors.As(err, &tooLarge) {
			respond.FailWithStatus(w, r, http.StatusRequestEntityTooLarge, err)
			return
		}
		respond.Fail(w, r, err)
		return
	}

	auth.Audit(r, h.Activity, activity.ActionUpload, resourceType, &m.ID, m.OriginalName)
	respond.OK(w, http.StatusCreated, toDTO(m))
}

// Get メディア詳細
// @Summary      メディア詳細
// @Tags         admin-media
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "メディアID"
// @Success      200 {object} respond.Envelope{data=DTO}
// @Failure      404 {object} respond.ErrorBody
// @Router       /admin/media/{id} [get]
func (h Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	m, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	respond.OK(w, http.StatusOK, toDTO(m))
}

// Delete メディア削除
// @Summary      メディア削除
// @Description  ファイルとライブラリの行を削除します
// @Tags         admin-media
// @Security     BearerAuth
// @Param        id path int true "メディアID"
// @Success      200 {object} respond.Envelope
// @Failure      404 {object} respond.ErrorBody
// @Router       /admin/media/{id} [delete]
func (h Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	m, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		respond.Fail(w, r, err)
		return
	}
	auth.Audit(r, h.Activity, activity.ActionDelete, resourceType, &id, m.OriginalName)
	respond.Message(w, http.StatusOK, "media deleted")
}

// RegisterAdmin registers the media library routes behind authz.
func RegisterAdmin(mux *http.ServeMux, h Handler, authz func(http.Handler) http.Handler) {
	h.PaginationCfg = h.PaginationCfg.WithDefaultLimit(mediaUC.DefaultLimit)
	mux.Handle("GET /api/admin/media", authz(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/admin/media/upload", authz(http.HandlerFunc(h.Upload)))
	mux.Handle("GET /api/admin/media/{id}", authz(http.HandlerFunc(h.Get)))
	mux.Handle("DELETE /api/admin/media/{id}", authz(http.HandlerFunc(h.Delete)))
}
