package article

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

const (
	maxTitleLength   = 200
	maxSummaryLength = 500
)

// CreateInput represents the input parameters for creating a new article.
type CreateInput struct {
	Title      string
	Content    string
	Summary    string
	CoverImage string
	CategoryID *int64
	Status     entity.ArticleStatus // empty means draft
}

// UpdateInput represents the input parameters for updating an existing article.
// Fields with nil values will not be updated.
type UpdateInput struct {
	ID         int64
	Title      *string
	Content    *string
	Summary    *string
	CoverImage *string
	CategoryID *int64 // 0 clears the category
	Status     *entity.ArticleStatus
}

// Service provides article use cases.
// It handles business logic for article operations and delegates persistence to the repositories.
type Service struct {
	Repo       repository.ArticleRepository
	Categories repository.CategoryRepository
}

// ListPublished returns one page of published articles, optionally restricted to a category.
func (s *Service) ListPublished(ctx context.Context, categoryID *int64, params pagination.Params) (pagination.Page[*entity.Article], error) {
	filter := repository.ArticleFilter{Status: entity.ArticleStatusPublished, CategoryID: categoryID}
	articles, total, err := s.Repo.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[*entity.Article]{}, fmt.Errorf("list articles: %w", err)
	}
	return pagination.NewPage(articles, params, total), nil
}

// AdminList returns one page of articles of any status.
func (s *Service) AdminList(ctx context.Context, filter repository.ArticleFilter, params pagination.Params) (pagination.Page[*entity.Article], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return pagination.Page[*entity.Article]{}, &entity.ValidationError{Field: "status", Message: "must be draft or published"}
	}
	filter.Search = strings.TrimSpace(filter.Search)
	articles, total, err := s.Repo.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[*entity.Article]{}, fmt.Errorf("list articles: %w", err)
	}
	return pagination.NewPage(articles, params, total), nil
}

// GetPublished retrieves a published article and counts one view.
// Returns ErrArticleNotFound for drafts and missing articles.
func (s *Service) GetPublished(ctx context.Context, id int64) (*entity.Article, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}
	article, err := s.Repo.GetPublishedAndCountView(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	metrics.RecordArticleView()
	return article, nil
}

// Get retrieves a single article of any status by its ID.
// Returns ErrInvalidArticleID if the ID is not positive.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Article, error) {
	if id <= 0 {
		return nil, ErrInvalidArticleID
	}

	article, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}
	return article, nil
}

// Create creates a new article.
// Content is sanitized; an empty summary is derived from the content text.
// Returns a ValidationError if any input field is invalid.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Article, error) {
	if in.Status == "" {
		in.Status = entity.ArticleStatusDraft
	}
	if err := validateFields(in.Title, in.Content, in.CoverImage, in.Status); err != nil {
		return nil, err
	}
	if err := validateSummary(in.Summary); err != nil {
		return nil, err
	}
	categoryID, err := s.checkCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	art := &entity.Article{
		Title:      strings.TrimSpace(in.Title),
		Content:    text.SanitizeArticle(in.Content),
		Summary:    strings.TrimSpace(in.Summary),
		CoverImage: in.CoverImage,
		CategoryID: categoryID,
		Status:     entity.ArticleStatusDraft,
		CreatedAt:  now,
	}
	if art.Summary == "" {
		art.Summary = text.Summary(art.Content)
	}
	if in.Status == entity.ArticleStatusPublished {
		art.Publish(now)
	}

	if err := s.Repo.Create(ctx, art); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return art, nil
}

// Update modifies an existing article with the provided input.
// Only non-nil fields in the input will be updated. PublishedAt is stamped the
// first time the article becomes published and kept when it returns to draft.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Article, error) {
	if in.ID <= 0 {
		return nil, ErrInvalidArticleID
	}
	if in.Title == nil && in.Content == nil && in.Summary == nil &&
		in.CoverImage == nil && in.CategoryID == nil && in.Status == nil {
		return nil, ErrNothingToUpdate
	}

	art, err := s.Repo.Get(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if art == nil {
		return nil, ErrArticleNotFound
	}

	title, content, cover, status := art.Title, art.Content, art.CoverImage, art.Status
	if in.Title != nil {
		title = *in.Title
	}
	if in.Content != nil {
		content = *in.Content
	}
	if in.CoverImage != nil {
		cover = *in.CoverImage
	}
	if in.Status != nil {
		status = *in.Status
	}
	if err := validateFields(title, content, cover, status); err != nil {
		return nil, err
	}
	if in.Summary != nil {
		if err := validateSummary(*in.Summary); err != nil {
			return nil, err
		}
	}

	if in.CategoryID != nil {
		categoryID, err := s.checkCategory(ctx, in.CategoryID)
		if err != nil {
			return nil, err
		}
		art.CategoryID = categoryID
	}

	now := time.Now()
	art.Title = strings.TrimSpace(title)
	if in.Content != nil {
		art.Content = text.SanitizeArticle(content)
	}
	if in.Summary != nil {
		art.Summary = strings.TrimSpace(*in.Summary)
		if art.Summary == "" {
			art.Summary = text.Summary(art.Content)
		}
	}
	art.CoverImage = cover
	if status == entity.ArticleStatusPublished {
		art.Publish(now)
	} else {
		art.Status = status
	}
	art.UpdatedAt = now

	if err := s.Repo.Update(ctx, art); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("update article: %w", err)
	}
	return art, nil
}

// Delete removes an article by its ID together with its comments.
// Returns ErrInvalidArticleID if the ID is not positive.
// Returns ErrArticleNotFound if the article does not exist.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidArticleID
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrArticleNotFound
		}
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// BatchStatus sets status on every listed article and returns how many changed.
func (s *Service) BatchStatus(ctx context.Context, ids []int64, status entity.ArticleStatus) (int64, error) {
	if err := entity.ValidateIDs(ids); err != nil {
		return 0, err
	}
	if !status.Valid() {
		return 0, &entity.ValidationError{Field: "status", Message: "must be draft or published"}
	}
	n, err := s.Repo.UpdateStatus(ctx, ids, status, time.Now())
	if err != nil {
		return 0, fmt.Errorf("batch update article status: %w", err)
	}
	return n, nil
}

// MostViewed returns the published articles with the most views.
func (s *Service) MostViewed(ctx context.Context, limit int) ([]*entity.Article, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	articles, err := s.Repo.MostViewed(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("most viewed articles: %w", err)
	}
	return articles, nil
}

// checkCategory verifies that id (when set) names an existing category.
func (s *Service) checkCategory(ctx context.Context, id *int64) (*int64, error) {
	if id == nil || *id == 0 {
		return nil, nil
	}
	if *id < 0 {
		return nil, ErrCategoryNotFound
	}
	cat, err := s.Categories.Get(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if cat == nil {
		return nil, ErrCategoryNotFound
	}
	v := *id
	return &v, nil
}

func validateFields(title, content, cover string, status entity.ArticleStatus) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return &entity.ValidationError{Field: "title", Message: "is required"}
	}
	if text.CountRunes(title) > maxTitleLength {
		return &entity.ValidationError{Field: "title", Message: fmt.Sprintf("must not exceed %d characters", maxTitleLength)}
	}
	if strings.TrimSpace(content) == "" {
		return &entity.ValidationError{Field: "content", Message: "is required"}
	}
	if !status.Valid() {
		return &entity.ValidationError{Field: "status", Message: "must be draft or published"}
	}
	// カバー画像 URL 検証
	if err := entity.ValidateImageURL(cover); err != nil {
		return err
	}
	return nil
}

func validateSummary(summary string) error {
	if text.CountRunes(strings.TrimSpace(summary)) > maxSummaryLength {
		return &entity.ValidationError{Field: "summary", Message: fmt.Sprintf("must not exceed %d characters", maxSummaryLength)}
	}
	return nil
}
