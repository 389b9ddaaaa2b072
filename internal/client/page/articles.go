package page

import (
	"context"
	"strconv"

	"golang.org/x/sync/errgroup"

	"inkwell/internal/client/api"
	"inkwell/internal/client/router"
)

const (
	articlesPath  = "/articles.html"
	articlesLimit = 12
)

// articleSorts are the sort choices offered on list pages.
var articleSorts = []struct {
	label, sort, order string
}{
	{"Newest", "published_at", "desc"},
	{"Oldest", "published_at", "asc"},
	{"Most read", "view_count", "desc"},
	{"Title", "title", "asc"},
}

// Articles is the article list with category filter, sort and pagination.
// Query: page, category, sort, order.
type Articles struct {
	API API
}

// Handle loads one page of articles and the category filter.
func (h Articles) Handle(ctx context.Context, req router.Request) (any, error) {
	params := listParams(req.Query, articlesLimit)

	var (
		articles   *api.ArticlePage
		categories *api.CategoryPage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		articles, err = h.API.Articles(gctx, params)
		return err
	})
	g.Go(func() (err error) {
		categories, err = h.API.Categories(gctx, api.ListParams{})
		return err
	})
	inline := View{Route: "articles", Title: "Articles"}
	if err := g.Wait(); err != nil {
		return fail("articles", req.URL, inline, err)
	}

	filters := []Link{{Label: "All", URL: WithQuery(articlesPath, req.Query, map[string]string{"category": "", "page": ""}), Active: params.CategoryID == 0}}
	for _, c := range categories.Categories {
		filters = append(filters, Link{
			Label:  c.Name,
			URL:    WithQuery(articlesPath, req.Query, map[string]string{"category": strconv.FormatInt(c.ID, 10), "page": ""}),
			Active: c.ID == params.CategoryID,
		})
	}

	inline.Subtitle = strconv.FormatInt(articles.Pagination.Total, 10) + " articles"
	inline.Items = articleItems(articles.Articles)
	inline.Filters = append(filters, sortLinks(articlesPath, req.Query, "published_at", "desc")...)
	inline.Pager = NewPager(articlesPath, req.Query, articles.Pagination)
	return inline, nil
}

// sortLinks offers each sort choice, resetting the page.
func sortLinks(path string, query map[string]string, defSort, defOrder string) []Link {
	sort, order := query["sort"], query["order"]
	if sort == "" {
		sort = defSort
	}
	if order == "" {
		order = defOrder
	}
	links := make([]Link, 0, len(articleSorts))
	for _, s := range articleSorts {
		links = append(links, Link{
			Label:  "Sort: " + s.label,
			URL:    WithQuery(path, query, map[string]string{"sort": s.sort, "order": s.order, "page": ""}),
			Active: s.sort == sort && s.order == order,
		})
	}
	return links
}
