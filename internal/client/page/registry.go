package page

import (
	"context"
	"fmt"
	"html"

	"inkwell/internal/client/router"
)

// Constructor builds the controller of one route key.
type Constructor func(API) router.Handler

// Registry maps route keys to controller constructors.
var Registry = map[string]Constructor{
	"home":       func(a API) router.Handler { return Home{API: a} },
	"articles":   func(a API) router.Handler { return Articles{API: a} },
	"article":    func(a API) router.Handler { return Article{API: a} },
	"categories": func(a API) router.Handler { return Categories{API: a} },
	"search":     func(a API) router.Handler { return Search{API: a} },
	"about":      func(a API) router.Handler { return About{API: a} },
}

// Route binds a URL pattern to a registry key.
type Route struct {
	Pattern string
	Key     string
}

// Routes are the client URLs of the site.
var Routes = []Route{
	{Pattern: "/", Key: "home"},
	{Pattern: "/index.html", Key: "home"},
	{Pattern: "/articles.html", Key: "articles"},
	{Pattern: "/article.html", Key: "article"},
	{Pattern: "/categories.html", Key: "categories"},
	{Pattern: "/search.html", Key: "search"},
	{Pattern: "/about.html", Key: "about"},
}

// NewRouter builds a router with every route resolved against Registry.
func NewRouter(client API) (*router.Router, error) {
	r := router.New(router.HandlerFunc(func(_ context.Context, _ router.Request) (any, error) {
		return NotFound("not_found"), nil
	}))
	for _, rt := range Routes {
		ctor, ok := Registry[rt.Key]
		if !ok {
			return nil, fmt.Errorf("route %s: unknown page %q", rt.Pattern, rt.Key)
		}
		r.Register(rt.Pattern, ctor(client))
	}
	return r, nil
}

func escape(s string) string { return html.EscapeString(s) }
