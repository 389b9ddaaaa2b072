package api

import (
	"context"
	"fmt"
)

// Articles lists published articles.
func (c *Client) Articles(ctx context.Context, p ListParams) (*ArticlePage, error) {
	var out ArticlePage
	if err := c.get(ctx, "/articles", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Article fetches one published article. The server counts it as a view.
func (c *Client) Article(ctx context.Context, id int64) (*Article, error) {
	var out Article
	if err := c.get(ctx, fmt.Sprintf("/articles/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Categories lists categories.
func (c *Client) Categories(ctx context.Context, p ListParams) (*CategoryPage, error) {
	var out CategoryPage
	if err := c.get(ctx, "/categories", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CategoryArticles lists the published articles of a category.
func (c *Client) CategoryArticles(ctx context.Context, id int64, p ListParams) (*CategoryArticles, error) {
	p.CategoryID = 0
	var out CategoryArticles
	if err := c.get(ctx, fmt.Sprintf("/categories/%d/articles", id), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search runs a full-text search. An empty term is answered with 400.
func (c *Client) Search(ctx context.Context, term string, p ListParams) (*SearchPage, error) {
	var out SearchPage
	if err := c.get(ctx, "/search", searchParams{Q: term, ListParams: p}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Suggestions returns article titles starting with prefix.
func (c *Client) Suggestions(ctx context.Context, prefix string, limit int) ([]string, error) {
	out := []string{}
	if err := c.get(ctx, "/search/suggestions", limitParams{Q: prefix, Limit: limit}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PopularTerms returns the most used search terms.
func (c *Client) PopularTerms(ctx context.Context, limit int) ([]PopularTerm, error) {
	out := []PopularTerm{}
	if err := c.get(ctx, "/search/popular", limitParams{Limit: limit}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Comments lists the approved comments of an article.
func (c *Client) Comments(ctx context.Context, articleID int64, p ListParams) (*CommentPage, error) {
	p.CategoryID = 0
	var out CommentPage
	if err := c.get(ctx, fmt.Sprintf("/articles/%d/comments", articleID), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitComment posts a comment. It stays pending until moderated.
func (c *Client) SubmitComment(ctx context.Context, articleID int64, in NewComment) error {
	return c.post(ctx, fmt.Sprintf("/articles/%d/comments", articleID), in, nil)
}

// Subscribe registers email, or reactivates it.
func (c *Client) Subscribe(ctx context.Context, email string) error {
	return c.post(ctx, "/subscribe", map[string]string{"email": email}, nil)
}

// Unsubscribe deactivates email.
func (c *Client) Unsubscribe(ctx context.Context, email string) error {
	return c.post(ctx, "/subscribe/unsubscribe", map[string]string{"email": email}, nil)
}

// PublicSettings returns the site settings (title, description, ...).
func (c *Client) PublicSettings(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	if err := c.get(ctx, "/settings/public", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
