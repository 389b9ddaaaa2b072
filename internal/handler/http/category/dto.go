// Package category provides the HTTP handlers of the category pages and the
// admin category editor.
package category

import (
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/handler/http/article"
	catUC "inkwell/internal/usecase/category"
)

// DTO represents the JSON structure for category data transfer.
type DTO struct {
	ID           int64     `json:"id" example:"1"`
	Name         string    `json:"name" example:"技术"`
	Description  string    `json:"description" example:"プログラミングとインフラ"`
	ArticleCount int64     `json:"article_count" example:"12"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListDTO is a page of categories.
type ListDTO struct {
	Categories []DTO               `json:"categories"`
	Pagination pagination.Metadata `json:"pagination"`
}

// ArticlesDTO is a category with one page of its published articles.
type ArticlesDTO struct {
	Category   DTO                 `json:"category"`
	Articles   []article.DTO       `json:"articles"`
	Pagination pagination.Metadata `json:"pagination"`
}

func toDTO(c *entity.Category) DTO {
	return DTO{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		ArticleCount: c.ArticleCount,
		CreatedAt:    c.CreatedAt,
	}
}

func toListDTO(page pagination.Page[*entity.Category]) ListDTO {
	items := make([]DTO, 0, len(page.Items))
	for _, c := range page.Items {
		items = append(items, toDTO(c))
	}
	return ListDTO{Categories: items, Pagination: page.Pagination}
}

func toArticlesDTO(p *catUC.ArticlesPage) ArticlesDTO {
	list := article.ToListDTO(p.Articles)
	return ArticlesDTO{
		Category:   toDTO(p.Category),
		Articles:   list.Articles,
		Pagination: list.Pagination,
	}
}
