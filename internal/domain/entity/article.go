// Package entity defines the core domain entities and validation logic for the blog.
// It contains the fundamental business objects such as Article, Category and Comment,
// along with their validation rules and domain-specific errors.
package entity

import "time"

// ArticleStatus is the publication state of an article.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
)

// Valid reports whether s is a known article status.
func (s ArticleStatus) Valid() bool {
	return s == ArticleStatusDraft || s == ArticleStatusPublished
}

// Article represents a blog post.
// PublishedAt is set on the first transition to published and never cleared afterwards.
// ViewCount only ever grows, one per detail view.
type Article struct {
	ID           int64
	Title        string
	Content      string
	Summary      string
	CoverImage   string
	CategoryID   *int64
	CategoryName string // joined from categories, empty when uncategorized
	Status       ArticleStatus
	PublishedAt  *time.Time
	ViewCount    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsPublished reports whether the article is visible on the public site.
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}

// Publish moves the article to published and stamps PublishedAt the first time only.
func (a *Article) Publish(now time.Time) {
	a.Status = ArticleStatusPublished
	if a.PublishedAt == nil {
		t := now
		a.PublishedAt = &t
	}
}
