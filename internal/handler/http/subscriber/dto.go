// Package subscriber provides the HTTP handlers of the newsletter sign-up and
// of the admin subscriber list.
package subscriber

import (
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
)

// DTO represents the JSON structure for subscriber data transfer.
type DTO struct {
	ID        int64     `json:"id" example:"1"`
	Email     string    `json:"email" example:"reader@example.com"`
	Status    string    `json:"status" example:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListDTO is a page of subscribers.
type ListDTO struct {
	Subscribers []DTO               `json:"subscribers"`
	Pagination  pagination.Metadata `json:"pagination"`
}

func toDTO(s *entity.Subscriber) DTO {
	return DTO{
		ID:        s.ID,
		Email:     s.Email,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toListDTO(page pagination.Page[*entity.Subscriber]) ListDTO {
	items := make([]DTO, 0, len(page.Items))
	for _, s := range page.Items {
		items = append(items, toDTO(s))
	}
	return ListDTO{Subscribers: items, Pagination: page.Pagination}
}
