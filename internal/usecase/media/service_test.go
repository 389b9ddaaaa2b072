package media_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
	mediaUC "inkwell/internal/usecase/media"
)

/* ───────── スタブ実装 ───────── */

type memStorage struct {
	files   map[string][]byte
	saveErr error
}

func (m *memStorage) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	b, _ := io.ReadAll(r)
	m.files[name] = b
	return "/uploads/" + name, nil
}

func (m *memStorage) Remove(_ context.Context, name string) error {
	delete(m.files, name)
	return nil
}

type stubRepo struct {
	items     map[int64]*entity.Media
	createErr error
	gotFilter repository.MediaFilter
}

func (s *stubRepo) List(_ context.Context, f repository.MediaFilter, _ pagination.Params) ([]*entity.Media, int64, error) {
	s.gotFilter = f
	return nil, 0, nil
}
func (s *stubRepo) Get(_ context.Context, id int64) (*entity.Media, error) {
	return s.items[id], nil
}
func (s *stubRepo) Create(_ context.Context, m *entity.Media) error {
	if s.createErr != nil {
		return s.createErr
	}
	m.ID = int64(len(s.items) + 1)
	s.items[m.ID] = m
	return nil
}
func (s *stubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := s.items[id]; !ok {
		return entity.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func newService() (*mediaUC.Service, *stubRepo, *memStorage) {
	repo := &stubRepo{items: map[int64]*entity.Media{}}
	store := &memStorage{files: map[string][]byte{}}
	now := time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)
	return &mediaUC.Service{Repo: repo, Storage: store, Now: func() time.Time { return now }}, repo, store
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

/* ───────── テスト本体 ───────── */

func TestUpload_Image(t *testing.T) {
	svc, repo, store := newService()

	m, err := svc.Upload(context.Background(), mediaUC.Upload{OriginalName: `C:\photos\cat.png`, Body: bytes.NewReader(pngBytes)})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^images/2024/02/[0-9a-f-]{36}\.png$`), m.Filename)
	assert.Equal(t, "/uploads/"+m.Filename, m.URL)
	assert.Equal(t, "cat.png", m.OriginalName)
	assert.Equal(t, "image/png", m.MimeType)
	assert.Equal(t, int64(len(pngBytes)), m.Size)
	assert.Contains(t, store.files, m.Filename)
	assert.Len(t, repo.items, 1)
}

func TestUpload_Rejects(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body io.Reader
		max  int64
		want error
	}{
		{name: "nil body", body: nil, want: mediaUC.ErrEmptyFile},
		{name: "empty", body: strings.NewReader(""), want: mediaUC.ErrEmptyFile},
		{name: "text disguised", body: strings.NewReader("<html>not an image</html>"), want: mediaUC.ErrUnsupportedType},
		{name: "pdf", body: strings.NewReader("%PDF-1.4 ..."), want: mediaUC.ErrUnsupportedType},
		{name: "too large", body: bytes.NewReader(pngBytes), max: 16, want: entity.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, repo, store := newService()
			svc.MaxBytes = tt.max
			_, err := svc.Upload(context.Background(), mediaUC.Upload{OriginalName: "x", Body: tt.body})
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, repo.items)
			assert.Empty(t, store.files)
		})
	}
}

func TestUpload_TooLargeErrorType(t *testing.T) {
	svc, _, _ := newService()
	svc.MaxBytes = 8
	_, err := svc.Upload(context.Background(), mediaUC.Upload{Body: bytes.NewReader(pngBytes)})
	var tooLarge *mediaUC.TooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(8), tooLarge.Limit)
}

func TestUpload_RowFailureRemovesFile(t *testing.T) {
	svc, repo, store := newService()
	repo.createErr = errors.New("insert failed")

	_, err := svc.Upload(context.Background(), mediaUC.Upload{OriginalName: "a.png", Body: bytes.NewReader(pngBytes)})
	assert.ErrorContains(t, err, "create media")
	assert.Empty(t, store.files)
}

func TestGetAndDelete(t *testing.T) {
	svc, repo, store := newService()
	m, err := svc.Upload(context.Background(), mediaUC.Upload{OriginalName: "a.png", Body: bytes.NewReader(pngBytes)})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	_, err = svc.Delete(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Empty(t, repo.items)
	assert.Empty(t, store.files)

	_, err = svc.Get(context.Background(), m.ID)
	assert.ErrorIs(t, err, mediaUC.ErrMediaNotFound)
	_, err = svc.Get(context.Background(), 0)
	assert.ErrorIs(t, err, mediaUC.ErrInvalidID)
}

func TestList_Filter(t *testing.T) {
	svc, repo, _ := newService()
	page, err := svc.List(context.Background(), "Image", " cat ", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Equal(t, repository.MediaFilter{MimePrefix: "image/", Search: "cat"}, repo.gotFilter)
}
