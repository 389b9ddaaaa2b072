package page

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"inkwell/internal/client/api"
	"inkwell/internal/client/router"
	"inkwell/internal/utils/text"
)

const articleComments = 20

// Article is the article detail with its approved comments. Query: id.
type Article struct {
	API API
}

// Handle loads the article and its first page of comments.
func (h Article) Handle(ctx context.Context, req router.Request) (any, error) {
	inline := View{Route: "article", Title: "Article"}
	id := positive(req.Query["id"])
	if id == 0 {
		inline.Notice = "A valid article id is required."
		return inline, nil
	}

	var (
		article  *api.Article
		comments *api.CommentPage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		article, err = h.API.Article(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		comments, err = h.API.Comments(gctx, id, api.ListParams{Limit: articleComments, Sort: "created_at", Order: "asc"})
		return err
	})
	if err := g.Wait(); err != nil {
		return fail("article", req.URL, inline, err)
	}

	items := make([]Item, 0, len(comments.Comments))
	for _, c := range comments.Comments {
		items = append(items, Item{
			Title:   escape(c.AuthorName),
			Meta:    c.CreatedAt.Format("2006-01-02 15:04"),
			Summary: escape(c.Content),
		})
	}

	view := View{
		Route:    "article",
		Title:    escape(article.Title),
		Subtitle: articleMeta(*article) + " · " + count(comments.Pagination.Total, "comment"),
		Body:     text.PlainText(article.Content),
		Items:    items,
	}
	if article.CategoryID != nil {
		view.Filters = []Link{{Label: article.CategoryName, URL: fmt.Sprintf("/categories.html?id=%d", *article.CategoryID)}}
	}
	return view, nil
}
