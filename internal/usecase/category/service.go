package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
)

// DefaultLimit is the page size of category lists.
const DefaultLimit = 20

// Sort is the sort allow-list of the category list. Names sort ascending by default.
var Sort = pagination.SortSpec{
	Allowed:      []string{"id", "name", "created_at", "article_count"},
	Default:      "name",
	DefaultOrder: pagination.OrderAsc,
}

// Input carries the administrator-editable category fields.
type Input struct {
	Name        string
	Description string
}

// ArticlesPage is a category together with one page of its published articles.
type ArticlesPage struct {
	Category *entity.Category
	Articles pagination.Page[*entity.Article]
}

// Service provides category use cases.
type Service struct {
	Repo     repository.CategoryRepository
	Articles repository.ArticleRepository
}

// List returns one page of categories with their published article counts.
func (s *Service) List(ctx context.Context, params pagination.Params) (pagination.Page[*entity.Category], error) {
	cats, total, err := s.Repo.List(ctx, params)
	if err != nil {
		return pagination.Page[*entity.Category]{}, fmt.Errorf("list categories: %w", err)
	}
	return pagination.NewPage(cats, params, total), nil
}

// Get retrieves a category by ID.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Category, error) {
	if id <= 0 {
		return nil, ErrInvalidCategoryID
	}
	cat, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if cat == nil {
		return nil, ErrCategoryNotFound
	}
	return cat, nil
}

// ListArticles returns the category and one page of its published articles.
// Returns ErrCategoryNotFound for an unknown category.
func (s *Service) ListArticles(ctx context.Context, id int64, params pagination.Params) (*ArticlesPage, error) {
	cat, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	filter := repository.ArticleFilter{Status: entity.ArticleStatusPublished, CategoryID: &cat.ID}
	articles, total, err := s.Articles.List(ctx, filter, params)
	if err != nil {
		return nil, fmt.Errorf("list category articles: %w", err)
	}
	return &ArticlesPage{Category: cat, Articles: pagination.NewPage(articles, params, total)}, nil
}

// Create adds a category. Returns ErrDuplicateName when the name is taken.
func (s *Service) Create(ctx context.Context, in Input) (*entity.Category, error) {
	cat := &entity.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   time.Now(),
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	exists, err := s.Repo.ExistsByName(ctx, cat.Name, 0)
	if err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateName
	}
	if err := s.Repo.Create(ctx, cat); err != nil {
		if errors.Is(err, entity.ErrConflict) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

// Update renames or re-describes a category. The duplicate check ignores the category itself.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*entity.Category, error) {
	cat, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cat.Name = strings.TrimSpace(in.Name)
	cat.Description = strings.TrimSpace(in.Description)
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	exists, err := s.Repo.ExistsByName(ctx, cat.Name, cat.ID)
	if err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateName
	}
	if err := s.Repo.Update(ctx, cat); err != nil {
		switch {
		case errors.Is(err, entity.ErrConflict):
			return nil, ErrDuplicateName
		case errors.Is(err, entity.ErrNotFound):
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return cat, nil
}

// Delete removes an unused category.
// Returns ErrCategoryInUse while any article (draft or published) references it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.Repo.CountArticles(ctx, id)
	if err != nil {
		return fmt.Errorf("count category articles: %w", err)
	}
	if n > 0 {
		return ErrCategoryInUse
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, entity.ErrConflict):
			return ErrCategoryInUse
		case errors.Is(err, entity.ErrNotFound):
			return ErrCategoryNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
