package page

import (
	"context"
	"fmt"

	"inkwell/internal/client/api"
	"inkwell/internal/client/router"
)

const categoriesPath = "/categories.html"

// Categories lists the categories, or with ?id= the articles of one category.
// Query: id, page, sort, order.
type Categories struct {
	API API
}

// Handle dispatches on the optional id.
func (h Categories) Handle(ctx context.Context, req router.Request) (any, error) {
	if raw, ok := req.Query["id"]; ok && raw != "" {
		id := positive(raw)
		if id == 0 {
			return View{Route: "categories", Title: "Categories", Notice: "A valid category id is required."}, nil
		}
		return h.category(ctx, req, id)
	}

	page, err := h.API.Categories(ctx, api.ListParams{})
	if err != nil {
		return fail("categories", req.URL, View{Route: "categories", Title: "Categories"}, err)
	}
	items := make([]Item, 0, len(page.Categories))
	for _, c := range page.Categories {
		items = append(items, Item{
			Title:   escape(c.Name),
			URL:     fmt.Sprintf("%s?id=%d", categoriesPath, c.ID),
			Meta:    count(c.ArticleCount, "article"),
			Summary: escape(c.Description),
		})
	}
	return View{Route: "categories", Title: "Categories", Items: items}, nil
}

func (h Categories) category(ctx context.Context, req router.Request, id int64) (any, error) {
	params := listParams(req.Query, articlesLimit)
	page, err := h.API.CategoryArticles(ctx, id, params)
	if err != nil {
		return fail("categories", req.URL, View{Route: "categories", Title: "Categories"}, err)
	}
	return View{
		Route:    "categories",
		Title:    escape(page.Category.Name),
		Subtitle: page.Category.Description,
		Items:    articleItems(page.Articles),
		Filters:  append([]Link{{Label: "All categories", URL: categoriesPath}}, sortLinks(categoriesPath, req.Query, "published_at", "desc")...),
		Pager:    NewPager(categoriesPath, req.Query, page.Pagination),
	}, nil
}
