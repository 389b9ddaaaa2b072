// Package media provides the media library use cases.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/observability/logging"
	"inkwell/internal/observability/metrics"
	"inkwell/internal/repository"
)

const (
	// DefaultMaxBytes is the upload size limit when Service.MaxBytes is unset.
	DefaultMaxBytes = 5 << 20
	DefaultLimit    = 20
	maxNameLength   = 255
)

// Sort is the sort allow-list of media lists.
var Sort = pagination.SortSpec{
	Allowed: []string{"id", "created_at", "size"},
	Default: "created_at",
}

// allowedTypes maps accepted sniffed content types to stored extensions.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Sentinel errors for media use case operations.
var (
	ErrMediaNotFound   = entity.NotFound("media not found")
	ErrInvalidID       = &entity.ValidationError{Field: "id", Message: "must be a positive integer"}
	ErrEmptyFile       = &entity.ValidationError{Field: "file", Message: "is required"}
	ErrUnsupportedType = &entity.ValidationError{Field: "file", Message: "only jpeg, png, gif and webp images are allowed"}
)

// TooLargeError reports an upload over the size limit.
type TooLargeError struct{ Limit int64 }

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file exceeds %d bytes", e.Limit)
}

// Unwrap classifies the error as invalid input.
func (e *TooLargeError) Unwrap() error { return entity.ErrInvalidInput }

// Upload is a file received from the admin API.
type Upload struct {
	OriginalName string
	Body         io.Reader
}

// Service provides media use cases.
type Service struct {
	Repo     repository.MediaRepository
	Storage  repository.MediaStorage
	MaxBytes int64
	Now      func() time.Time
}

func (s *Service) maxBytes() int64 {
	if s.MaxBytes > 0 {
		return s.MaxBytes
	}
	return DefaultMaxBytes
}

// Upload validates the file by its sniffed content type, stores it under
// images/YYYY/MM/<uuid><ext> and records it in the library.
func (s *Service) Upload(ctx context.Context, in Upload) (*entity.Media, error) {
	if in.Body == nil {
		return nil, ErrEmptyFile
	}
	limit := s.maxBytes()
	data, err := io.ReadAll(io.LimitReader(in.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > limit {
		return nil, &TooLargeError{Limit: limit}
	}

	mime := http.DetectContentType(data)
	ext, ok := allowedTypes[mime]
	if !ok {
		return nil, ErrUnsupportedType
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	name := path.Join("images", now.Format("2006"), now.Format("01"), uuid.NewString()+ext)

	url, err := s.Storage.Save(ctx, name, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	m := &entity.Media{
		Filename:     name,
		OriginalName: cleanName(in.OriginalName, name),
		URL:          url,
		MimeType:     mime,
		Size:         int64(len(data)),
		CreatedAt:    now,
	}
	if err := s.Repo.Create(ctx, m); err != nil {
		// 行が作れなかったファイルは残さない
		if rmErr := s.Storage.Remove(ctx, name); rmErr != nil {
			logging.FromContext(ctx).WarnContext(ctx, "orphaned upload",
				slog.String("filename", name), slog.Any("error", rmErr))
		}
		return nil, fmt.Errorf("create media: %w", err)
	}
	metrics.RecordMediaUpload(m.Size)
	return m, nil
}

func cleanName(original, fallback string) string {
	n := strings.TrimSpace(path.Base(strings.ReplaceAll(original, "\\", "/")))
	if n == "" || n == "." || n == "/" {
		n = path.Base(fallback)
	}
	if r := []rune(n); len(r) > maxNameLength {
		n = string(r[:maxNameLength])
	}
	return n
}

// List returns one page of the media library. kind "image" restricts to images.
func (s *Service) List(ctx context.Context, kind, search string, params pagination.Params) (pagination.Page[*entity.Media], error) {
	filter := repository.MediaFilter{Search: strings.TrimSpace(search)}
	if kind != "" {
		filter.MimePrefix = strings.ToLower(kind) + "/"
	}
	items, total, err := s.Repo.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[*entity.Media]{}, fmt.Errorf("list media: %w", err)
	}
	return pagination.NewPage(items, params, total), nil
}

// Get returns one media item.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Media, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	m, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get media: %w", err)
	}
	if m == nil {
		return nil, ErrMediaNotFound
	}
	return m, nil
}

// Delete removes the stored file and the library row.
func (s *Service) Delete(ctx context.Context, id int64) (*entity.Media, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Storage.Remove(ctx, m.Filename); err != nil {
		return nil, fmt.Errorf("remove media file: %w", err)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("delete media: %w", err)
	}
	return m, nil
}
