package page

import (
	"context"
	"fmt"
	"strings"

	"inkwell/internal/client/router"
)

const (
	searchPath  = "/search.html"
	searchLimit = 10
	searchTerms = 10
)

// Search shows ranked results for ?q=, or the popular terms when q is empty.
// Query: q, page, category, sort, order.
type Search struct {
	API API
}

// Handle runs the search.
func (h Search) Handle(ctx context.Context, req router.Request) (any, error) {
	term := strings.TrimSpace(req.Query["q"])
	if term == "" {
		return h.popular(ctx, req)
	}

	inline := View{Route: "search", Title: escape(fmt.Sprintf("Search: %q", term))}
	page, err := h.API.Search(ctx, term, listParams(req.Query, searchLimit))
	if err != nil {
		return fail("search", req.URL, inline, err)
	}

	items := make([]Item, 0, len(page.Articles))
	for _, r := range page.Articles {
		title := r.HighlightedTitle
		if title == "" {
			title = escape(r.Title)
		}
		summary := r.HighlightedSummary
		if summary == "" {
			summary = escape(r.Summary)
		}
		items = append(items, Item{
			Title:   title,
			URL:     articleURL(r.ID),
			Meta:    fmt.Sprintf("%s · relevance %d%%", articleMeta(r.Article), r.Relevance),
			Summary: summary,
		})
	}

	inline.Subtitle = fmt.Sprintf("%d results", page.Pagination.Total)
	inline.Items = items
	inline.Pager = NewPager(searchPath, req.Query, page.Pagination)
	if len(items) == 0 {
		inline.Notice = "No articles matched. Try another term."
	}
	return inline, nil
}

func (h Search) popular(ctx context.Context, req router.Request) (any, error) {
	inline := View{Route: "search", Title: "Search"}
	terms, err := h.API.PopularTerms(ctx, searchTerms)
	if err != nil {
		return fail("search", req.URL, inline, err)
	}
	inline.Subtitle = "Popular searches"
	inline.Terms = termLinks(terms)
	return inline, nil
}
