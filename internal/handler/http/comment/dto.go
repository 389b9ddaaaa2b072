// Package comment provides the HTTP handlers of article comments and of the
// admin moderation queue.
package comment

import (
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	commentUC "inkwell/internal/usecase/comment"
)

// DTO is a comment as shown on the public site. The email and IP are never exposed there.
type DTO struct {
	ID         int64     `json:"id" example:"1"`
	ArticleID  int64     `json:"article_id" example:"3"`
	Content    string    `json:"content" example:"参考になりました"`
	AuthorName string    `json:"author_name" example:"山田"`
	Status     string    `json:"status" example:"approved"`
	CreatedAt  time.Time `json:"created_at"`
}

// AdminDTO adds the moderation fields to DTO.
type AdminDTO struct {
	DTO
	ArticleTitle string `json:"article_title"`
	AuthorEmail  string `json:"author_email"`
	IPAddress    string `json:"ip_address"`
}

// ArticleCommentsDTO is one page of approved comments of an article.
type ArticleCommentsDTO struct {
	Article    commentUC.ArticleRef `json:"article"`
	Comments   []DTO                `json:"comments"`
	Pagination pagination.Metadata  `json:"pagination"`
}

// AdminListDTO is a page of comments in the moderation queue.
type AdminListDTO struct {
	Comments   []AdminDTO          `json:"comments"`
	Pagination pagination.Metadata `json:"pagination"`
}

func toDTO(c *entity.Comment) DTO {
	return DTO{
		ID:         c.ID,
		ArticleID:  c.ArticleID,
		Content:    c.Content,
		AuthorName: c.AuthorName,
		Status:     string(c.Status),
		CreatedAt:  c.CreatedAt,
	}
}

func toAdminDTO(c *entity.Comment) AdminDTO {
	return AdminDTO{
		DTO:          toDTO(c),
		ArticleTitle: c.ArticleTitle,
		AuthorEmail:  c.AuthorEmail,
		IPAddress:    c.IPAddress,
	}
}

func toArticleCommentsDTO(ac *commentUC.ArticleComments) ArticleCommentsDTO {
	items := make([]DTO, 0, len(ac.Comments.Items))
	for _, c := range ac.Comments.Items {
		items = append(items, toDTO(c))
	}
	return ArticleCommentsDTO{Article: ac.Article, Comments: items, Pagination: ac.Comments.Pagination}
}

func toAdminListDTO(page pagination.Page[*entity.Comment]) AdminListDTO {
	items := make([]AdminDTO, 0, len(page.Items))
	for _, c := range page.Items {
		items = append(items, toAdminDTO(c))
	}
	return AdminListDTO{Comments: items, Pagination: page.Pagination}
}
