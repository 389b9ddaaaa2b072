package api

import "time"

// Pagination is the list window returned by every listing endpoint.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// Article is a published article.
type Article struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content,omitempty"`
	Summary      string     `json:"summary"`
	CoverImage   string     `json:"cover_image"`
	CategoryID   *int64     `json:"category_id"`
	CategoryName string     `json:"category_name"`
	PublishedAt  *time.Time `json:"published_at"`
	ViewCount    int64      `json:"view_count"`
}

// ArticlePage is one page of articles.
type ArticlePage struct {
	Articles   []Article  `json:"articles"`
	Pagination Pagination `json:"pagination"`
}

// Category is a category with its published article count.
type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ArticleCount int64  `json:"article_count"`
}

// CategoryPage is one page of categories.
type CategoryPage struct {
	Categories []Category `json:"categories"`
	Pagination Pagination `json:"pagination"`
}

// CategoryArticles is one page of the articles of a category.
type CategoryArticles struct {
	Category   Category   `json:"category"`
	Articles   []Article  `json:"articles"`
	Pagination Pagination `json:"pagination"`
}

// SearchResult is an article matched by a search, with <mark> highlights.
type SearchResult struct {
	Article
	RelevanceScore     int    `json:"relevance_score"`
	Relevance          int    `json:"relevance"`
	HighlightedTitle   string `json:"highlighted_title"`
	HighlightedSummary string `json:"highlighted_summary"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	Query      string         `json:"query"`
	Articles   []SearchResult `json:"articles"`
	Pagination Pagination     `json:"pagination"`
}

// PopularTerm is a search term with its usage count.
type PopularTerm struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

// Comment is an approved comment.
type Comment struct {
	ID         int64     `json:"id"`
	ArticleID  int64     `json:"article_id"`
	Content    string    `json:"content"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// CommentPage is one page of the comments of an article.
type CommentPage struct {
	Article struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"article"`
	Comments   []Comment  `json:"comments"`
	Pagination Pagination `json:"pagination"`
}

// NewComment is the body of a comment submission.
type NewComment struct {
	Content     string `json:"content"`
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
}

// ListParams are the optional list window and filters. Zero values are omitted
// so the server defaults apply.
type ListParams struct {
	Page       int    `url:"page,omitempty"`
	Limit      int    `url:"limit,omitempty"`
	Sort       string `url:"sort,omitempty"`
	Order      string `url:"order,omitempty"`
	CategoryID int64  `url:"category_id,omitempty"`
}

// searchParams adds the term to a list window.
type searchParams struct {
	Q string `url:"q"`
	ListParams
}

// limitParams carries the optional limit of suggestion and popular-term calls.
type limitParams struct {
	Q     string `url:"q,omitempty"`
	Limit int    `url:"limit,omitempty"`
}
