// Package page holds the page controllers of the reader client. Each
// controller fetches its data through API and returns a View; list state
// (page, category, sort, order, q) lives entirely in the URL.
package page

import (
	"context"
	"html"
	"net/url"
	"strconv"
	"strings"

	"inkwell/internal/client/api"
)

// API is the part of the blog API the pages call. *api.Client satisfies it.
type API interface {
	Articles(ctx context.Context, p api.ListParams) (*api.ArticlePage, error)
	Article(ctx context.Context, id int64) (*api.Article, error)
	Categories(ctx context.Context, p api.ListParams) (*api.CategoryPage, error)
	CategoryArticles(ctx context.Context, id int64, p api.ListParams) (*api.CategoryArticles, error)
	Search(ctx context.Context, term string, p api.ListParams) (*api.SearchPage, error)
	PopularTerms(ctx context.Context, limit int) ([]api.PopularTerm, error)
	Comments(ctx context.Context, articleID int64, p api.ListParams) (*api.CommentPage, error)
	PublicSettings(ctx context.Context) (map[string]string, error)
}

// Link is a navigable label.
type Link struct {
	Label  string
	URL    string
	Active bool
}

// Item is one entry of a list view.
type Item struct {
	Title   string // may contain <mark> highlights, see Segments
	URL     string
	Meta    string
	Summary string // may contain <mark> highlights
}

// Pager is the pagination control of a list view. Every URL carries the whole
// list state with only the page changed.
type Pager struct {
	Page  int
	Pages int
	Total int64
	Prev  string
	Next  string
	Links []Link
}

// View is the rendered result of one navigation.
type View struct {
	Route    string
	Title    string
	Subtitle string
	Body     string
	Items    []Item
	Filters  []Link
	Terms    []Link
	Pager    *Pager
	// Notice is an inline message, e.g. a rejected search term
	Notice string
	// Failed marks the generic failure view; Retry is the URL to try again
	Failed bool
	Retry  string
}

// pagerWindow is how many page links surround the current page.
const pagerWindow = 2

// NewPager builds the pager of a list at path whose current query is query.
func NewPager(path string, query map[string]string, p api.Pagination) *Pager {
	pg := &Pager{Page: p.Page, Pages: p.Pages, Total: p.Total}
	if p.Pages <= 1 {
		return pg
	}
	if p.Page > 1 {
		pg.Prev = PageURL(path, query, p.Page-1)
	}
	if p.Page < p.Pages {
		pg.Next = PageURL(path, query, p.Page+1)
	}
	lo := max(1, p.Page-pagerWindow)
	hi := min(p.Pages, p.Page+pagerWindow)
	for n := lo; n <= hi; n++ {
		pg.Links = append(pg.Links, Link{Label: strconv.Itoa(n), URL: PageURL(path, query, n), Active: n == p.Page})
	}
	return pg
}

// PageURL encodes query with page set to n. Page 1 drops the page key.
func PageURL(path string, query map[string]string, n int) string {
	return WithQuery(path, query, map[string]string{"page": pageValue(n)})
}

func pageValue(n int) string {
	if n <= 1 {
		return ""
	}
	return strconv.Itoa(n)
}

// WithQuery encodes query overlaid with set. Empty values remove the key.
func WithQuery(path string, query, set map[string]string) string {
	v := url.Values{}
	for k, val := range query {
		if val != "" {
			v.Set(k, val)
		}
	}
	for k, val := range set {
		if val == "" {
			v.Del(k)
			continue
		}
		v.Set(k, val)
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

// Segment is a run of text, highlighted or not.
type Segment struct {
	Text   string
	Marked bool
}

// Segments splits a highlighted string (HTML-escaped text with <mark> tags)
// into plain segments.
func Segments(s string) []Segment {
	var out []Segment
	for s != "" {
		start := strings.Index(s, "<mark>")
		if start < 0 {
			out = append(out, Segment{Text: html.UnescapeString(s)})
			break
		}
		if start > 0 {
			out = append(out, Segment{Text: html.UnescapeString(s[:start])})
		}
		s = s[start+len("<mark>"):]
		end := strings.Index(s, "</mark>")
		if end < 0 {
			out = append(out, Segment{Text: html.UnescapeString(s), Marked: true})
			break
		}
		out = append(out, Segment{Text: html.UnescapeString(s[:end]), Marked: true})
		s = s[end+len("</mark>"):]
	}
	return out
}

// positive parses a positive integer query value; anything else yields 0.
func positive(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// listParams maps the URL list state onto the API list parameters.
func listParams(q map[string]string, limit int) api.ListParams {
	return api.ListParams{
		Page:       int(positive(q["page"])),
		Limit:      limit,
		Sort:       q["sort"],
		Order:      q["order"],
		CategoryID: positive(q["category"]),
	}
}
