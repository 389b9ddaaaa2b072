package media

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/infra/storage"
	"inkwell/internal/repository"
	"inkwell/internal/usecase/activity"
	mediaUC "inkwell/internal/usecase/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type memRepo struct {
	items map[int64]*entity.Media
}

func (m *memRepo) List(_ context.Context, f repository.MediaFilter, _ pagination.Params) ([]*entity.Media, int64, error) {
	var out []*entity.Media
	for id := int64(1); id <= int64(len(m.items))+1; id++ {
		if it, ok := m.items[id]; ok {
			out = append(out, it)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memRepo) Get(_ context.Context, id int64) (*entity.Media, error) { return m.items[id], nil }

func (m *memRepo) Create(_ context.Context, media *entity.Media) error {
	media.ID = int64(len(m.items) + 1)
	m.items[media.ID] = media
	return nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return entity.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

type stubActivity struct{ logs []*entity.ActivityLog }

func (s *stubActivity) Record(_ context.Context, l *entity.ActivityLog) error {
	s.logs = append(s.logs, l)
	return nil
}

func (s *stubActivity) List(context.Context, repository.ActivityFilter, pagination.Params) ([]*entity.ActivityLog, int64, error) {
	return nil, 0, nil
}

type fixture struct {
	mux  *http.ServeMux
	root string
	repo *memRepo
	act  *stubActivity
}

func newFixture(t *testing.T, maxBytes int64) *fixture {
	t.Helper()
	f := &fixture{root: t.TempDir(), repo: &memRepo{items: map[int64]*entity.Media{}}, act: &stubActivity{}}
	svc := &mediaUC.Service{Repo: f.repo, Storage: storage.NewLocal(f.root, "/uploads"), MaxBytes: maxBytes}

	f.mux = http.NewServeMux()
	RegisterAdmin(f.mux, Handler{
		Svc:           svc,
		Activity:      &activity.Service{Repo: f.act},
		PaginationCfg: pagination.DefaultConfig(),
		MaxBytes:      maxBytes,
	}, func(h http.Handler) http.Handler { return h })
	return f
}

func multipartBody(t *testing.T, field, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (f *fixture) upload(t *testing.T, field, name string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, field, name, data)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/media/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) serve(method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestUpload(t *testing.T) {
	f := newFixture(t, 0)

	rec := f.upload(t, "file", "封面.png", pngHeader)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env struct {
		Data DTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "image/png", env.Data.MimeType)
	assert.Equal(t, "封面.png", env.Data.OriginalName)
	assert.Regexp(t, `^/uploads/images/\d{4}/\d{2}/[0-9a-f-]{36}\.png$`, env.Data.URL)

	stored, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(env.Data.Filename)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)

	require.Len(t, f.act.logs, 1)
	assert.Equal(t, activity.ActionUpload, f.act.logs[0].Action)
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		maxBytes int64
		field    string
		data     []byte
		want     int
	}{
		{"not an image", 0, "file", []byte("plain text, not an image"), http.StatusBadRequest},
		{"missing file field", 0, "other", pngHeader, http.StatusBadRequest},
		{"empty file", 0, "file", nil, http.StatusBadRequest},
		{"over the limit", 16, "file", pngHeader, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.maxBytes)
			rec := f.upload(t, tt.field, "x.png", tt.data)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Empty(t, f.repo.items)
			assert.Empty(t, f.act.logs)
		})
	}
}

func TestUpload_NotMultipart(t *testing.T) {
	f := newFixture(t, 0)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/media/upload", bytes.NewBufferString(`{"file":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListGetDelete(t *testing.T) {
	f := newFixture(t, 0)
	require.Equal(t, http.StatusCreated, f.upload(t, "file", "a.png", pngHeader).Code)

	rec := f.serve(http.MethodGet, "/api/admin/media?type=image")
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data ListDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data.Media, 1)
	filename := env.Data.Media[0].Filename

	assert.Equal(t, http.StatusOK, f.serve(http.MethodGet, "/api/admin/media/1").Code)
	assert.Equal(t, http.StatusNotFound, f.serve(http.MethodGet, "/api/admin/media/2").Code)

	require.Equal(t, http.StatusOK, f.serve(http.MethodDelete, "/api/admin/media/1").Code)
	_, err := os.Stat(filepath.Join(f.root, filepath.FromSlash(filename)))
	assert.True(t, os.IsNotExist(err), "file is removed with the row")
	assert.Equal(t, http.StatusNotFound, f.serve(http.MethodDelete, "/api/admin/media/1").Code)
}
