package page

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"golang.org/x/sync/errgroup"

	"inkwell/internal/client/api"
	"inkwell/internal/client/router"
)

const (
	homeArticles = 6
	homeTerms    = 8
)

// Home shows the latest articles, the categories and the popular search terms.
type Home struct {
	API API
}

// Handle loads the three sections concurrently.
func (h Home) Handle(ctx context.Context, req router.Request) (any, error) {
	var (
		articles   *api.ArticlePage
		categories *api.CategoryPage
		terms      []api.PopularTerm
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		articles, err = h.API.Articles(gctx, api.ListParams{Limit: homeArticles, Sort: "published_at", Order: "desc"})
		return err
	})
	g.Go(func() (err error) {
		categories, err = h.API.Categories(gctx, api.ListParams{})
		return err
	})
	g.Go(func() (err error) {
		terms, err = h.API.PopularTerms(gctx, homeTerms)
		return err
	})
	if err := g.Wait(); err != nil {
		return fail("home", req.URL, View{Route: "home"}, err)
	}

	return View{
		Route:    "home",
		Title:    "Latest articles",
		Items:    articleItems(articles.Articles),
		Filters:  categoryLinks(categories.Categories, 0),
		Terms:    termLinks(terms),
		Subtitle: fmt.Sprintf("%d articles", articles.Pagination.Total),
	}, nil
}

func articleItems(articles []api.Article) []Item {
	items := make([]Item, 0, len(articles))
	for _, a := range articles {
		items = append(items, Item{
			Title:   articleTitle(a),
			URL:     articleURL(a.ID),
			Meta:    articleMeta(a),
			Summary: escape(a.Summary),
		})
	}
	return items
}

func articleTitle(a api.Article) string {
	// Title はハイライト付き文字列として扱われるのでエスケープしておく
	return escape(a.Title)
}

func articleURL(id int64) string {
	return fmt.Sprintf("/article.html?id=%d", id)
}

func articleMeta(a api.Article) string {
	category := a.CategoryName
	if category == "" {
		category = "Uncategorized"
	}
	date := "draft"
	if a.PublishedAt != nil {
		date = a.PublishedAt.Format("2006-01-02")
	}
	return fmt.Sprintf("%s · %s · %s", category, date, count(a.ViewCount, "view"))
}

// count renders n with thousands separators and the noun in singular or plural.
func count(n int64, noun string) string {
	return humanize.Comma(n) + " " + english.PluralWord(int(n), noun, "")
}

// categoryLinks links to each category page; active marks the selected one.
func categoryLinks(categories []api.Category, active int64) []Link {
	links := make([]Link, 0, len(categories))
	for _, c := range categories {
		links = append(links, Link{
			Label:  fmt.Sprintf("%s (%d)", c.Name, c.ArticleCount),
			URL:    fmt.Sprintf("/categories.html?id=%d", c.ID),
			Active: c.ID == active,
		})
	}
	return links
}

func termLinks(terms []api.PopularTerm) []Link {
	links := make([]Link, 0, len(terms))
	for _, t := range terms {
		links = append(links, Link{Label: t.Term, URL: "/search.html?q=" + url.QueryEscape(t.Term)})
	}
	return links
}
