package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/observability/metrics"
	"inkwell/internal/repository"
	"inkwell/internal/utils/text"
)

// DefaultLimit is the page size of comment lists.
const DefaultLimit = 20

const (
	maxContentLength = 1000
	maxAuthorLength  = 100
	maxEmailLength   = 150
)

// Sort is the sort allow-list of comment lists.
var Sort = pagination.SortSpec{
	Allowed: []string{"id", "created_at"},
	Default: "created_at",
}

// ArticleRef identifies the article a comment list belongs to.
type ArticleRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// ArticleComments is one page of approved comments of an article.
type ArticleComments struct {
	Article  ArticleRef
	Comments pagination.Page[*entity.Comment]
}

// CreateInput is a comment submitted from the public site.
type CreateInput struct {
	ArticleID   int64
	Content     string
	AuthorName  string
	AuthorEmail string
	IPAddress   string
}

// Service provides comment use cases.
type Service struct {
	Repo     repository.CommentRepository
	Articles repository.ArticleRepository
}

// ListForArticle returns the approved comments of a published article.
// Returns ErrArticleNotFound when the article is missing or unpublished.
func (s *Service) ListForArticle(ctx context.Context, articleID int64, params pagination.Params) (*ArticleComments, error) {
	art, err := s.publishedArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	filter := repository.CommentFilter{ArticleID: &art.ID, Status: entity.CommentStatusApproved}
	comments, total, err := s.Repo.List(ctx, filter, params)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return &ArticleComments{
		Article:  ArticleRef{ID: art.ID, Title: art.Title},
		Comments: pagination.NewPage(comments, params, total),
	}, nil
}

// Create stores a reader comment in the moderation queue.
// Markup is stripped from the content; the comment starts pending.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Comment, error) {
	c := &entity.Comment{
		ArticleID:   in.ArticleID,
		Content:     text.SanitizeComment(in.Content),
		AuthorName:  text.SanitizeComment(in.AuthorName),
		AuthorEmail: strings.TrimSpace(in.AuthorEmail),
		Status:      entity.CommentStatusPending,
		IPAddress:   in.IPAddress,
		CreatedAt:   time.Now(),
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	art, err := s.publishedArticle(ctx, in.ArticleID)
	if err != nil {
		return nil, err
	}
	c.ArticleTitle = art.Title

	if err := s.Repo.Create(ctx, c); err != nil {
		if errors.Is(err, entity.ErrConflict) {
			// 記事が同時に削除された (FK 違反)
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}
	metrics.RecordCommentSubmitted()
	return c, nil
}

// AdminList returns one page of comments of any status.
func (s *Service) AdminList(ctx context.Context, filter repository.CommentFilter, params pagination.Params) (pagination.Page[*entity.Comment], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return pagination.Page[*entity.Comment]{}, errInvalidStatus
	}
	filter.Search = strings.TrimSpace(filter.Search)
	comments, total, err := s.Repo.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[*entity.Comment]{}, fmt.Errorf("list comments: %w", err)
	}
	return pagination.NewPage(comments, params, total), nil
}

// Get retrieves a comment by ID.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Comment, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if c == nil {
		return nil, ErrCommentNotFound
	}
	return c, nil
}

// UpdateStatus moderates one comment.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status entity.CommentStatus) error {
	if id <= 0 {
		return ErrInvalidID
	}
	n, err := s.BatchStatus(ctx, []int64{id}, status)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// BatchStatus moderates several comments and returns how many changed.
func (s *Service) BatchStatus(ctx context.Context, ids []int64, status entity.CommentStatus) (int64, error) {
	if err := entity.ValidateIDs(ids); err != nil {
		return 0, err
	}
	if !status.Valid() {
		return 0, errInvalidStatus
	}
	n, err := s.Repo.UpdateStatus(ctx, ids, status)
	if err != nil {
		return 0, fmt.Errorf("update comment status: %w", err)
	}
	return n, nil
}

// Delete removes one comment.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	n, err := s.BatchDelete(ctx, []int64{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// BatchDelete removes several comments and returns how many were deleted.
func (s *Service) BatchDelete(ctx context.Context, ids []int64) (int64, error) {
	if err := entity.ValidateIDs(ids); err != nil {
		return 0, err
	}
	n, err := s.Repo.Delete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete comments: %w", err)
	}
	return n, nil
}

// Stats summarizes the moderation queue. "Today" and "week" are relative to now
// in the server's local time zone.
func (s *Service) Stats(ctx context.Context) (entity.CommentStats, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	stats, err := s.Repo.Stats(ctx, today, today.AddDate(0, 0, -6))
	if err != nil {
		return entity.CommentStats{}, fmt.Errorf("comment stats: %w", err)
	}
	return stats, nil
}

func (s *Service) publishedArticle(ctx context.Context, id int64) (*entity.Article, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	art, err := s.Articles.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if art == nil || !art.IsPublished() {
		return nil, ErrArticleNotFound
	}
	return art, nil
}

var errInvalidStatus = &entity.ValidationError{Field: "status", Message: "must be pending, approved or spam"}

func validate(c *entity.Comment) error {
	if c.Content == "" {
		return &entity.ValidationError{Field: "content", Message: "is required"}
	}
	if text.CountRunes(c.Content) > maxContentLength {
		return &entity.ValidationError{Field: "content", Message: fmt.Sprintf("must not exceed %d characters", maxContentLength)}
	}
	if c.AuthorName == "" {
		return &entity.ValidationError{Field: "author_name", Message: "is required"}
	}
	if text.CountRunes(c.AuthorName) > maxAuthorLength {
		return &entity.ValidationError{Field: "author_name", Message: fmt.Sprintf("must not exceed %d characters", maxAuthorLength)}
	}
	if c.AuthorEmail != "" {
		if len(c.AuthorEmail) > maxEmailLength {
			return &entity.ValidationError{Field: "author_email", Message: fmt.Sprintf("must not exceed %d characters", maxEmailLength)}
		}
		if err := entity.ValidateEmail("author_email", c.AuthorEmail); err != nil {
			return err
		}
	}
	return nil
}
