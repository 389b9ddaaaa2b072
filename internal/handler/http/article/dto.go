// Package article provides the HTTP handlers of the public article list and
// detail pages and of the admin article editor.
package article

import (
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
)

// DTO represents the JSON structure for article data transfer.
// Content is omitted from list responses.
type DTO struct {
	ID           int64      `json:"id" example:"1"`
	Title        string     `json:"title" example:"Go 1.25 のリリースノートを読む"`
	Content      string     `json:"content,omitempty" example:"<p>本文</p>"`
	Summary      string     `json:"summary" example:"Go 1.25 の主な変更点をまとめました"`
	CoverImage   string     `json:"cover_image" example:"/uploads/images/2026/10/cover.png"`
	CategoryID   *int64     `json:"category_id" example:"2"`
	CategoryName string     `json:"category_name" example:"技术"`
	Status       string     `json:"status" example:"published"`
	PublishedAt  *time.Time `json:"published_at"`
	ViewCount    int64      `json:"view_count" example:"42"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ListDTO is a page of articles.
type ListDTO struct {
	Articles   []DTO               `json:"articles"`
	Pagination pagination.Metadata `json:"pagination"`
}

// ToDTO converts an article; withContent controls whether the body is included.
func ToDTO(a *entity.Article, withContent bool) DTO {
	out := DTO{
		ID:           a.ID,
		Title:        a.Title,
		Summary:      a.Summary,
		CoverImage:   a.CoverImage,
		CategoryID:   a.CategoryID,
		CategoryName: a.CategoryName,
		Status:       string(a.Status),
		PublishedAt:  a.PublishedAt,
		ViewCount:    a.ViewCount,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if withContent {
		out.Content = a.Content
	}
	return out
}

// ToListDTO converts one page of articles without their content.
func ToListDTO(page pagination.Page[*entity.Article]) ListDTO {
	items := make([]DTO, 0, len(page.Items))
	for _, a := range page.Items {
		items = append(items, ToDTO(a, false))
	}
	return ListDTO{Articles: items, Pagination: page.Pagination}
}
