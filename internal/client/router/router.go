// Package router maps client URLs (path + query string) to page handlers.
//
// Patterns are plain paths with optional :param segments. An exact match wins;
// otherwise patterns are tried in registration order. One navigation is active
// at a time: starting a new one cancels the previous one, and a handler whose
// navigation was superseded has its result discarded.
package router

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// ErrSuperseded is returned for a navigation replaced by a newer one before it finished.
var ErrSuperseded = errors.New("navigation superseded")

// ErrNoHistory is returned by Back and Forward at either end of the history.
var ErrNoHistory = errors.New("no history entry")

// Request is what a handler receives for one navigation.
type Request struct {
	// URL is the navigated path plus query string, e.g. /search.html?q=go&page=2
	URL string
	// Path is the URL path
	Path string
	// Params holds the :param segments of the matched pattern
	Params map[string]string
	// Query holds the first value of every query key
	Query map[string]string
}

// Handler renders one route.
type Handler interface {
	Handle(ctx context.Context, req Request) (any, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req Request) (any, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, req Request) (any, error) { return f(ctx, req) }

type route struct {
	pattern string
	parts   []string
	handler Handler
}

// Router dispatches navigations. The zero value is not usable; call New.
type Router struct {
	mu       sync.Mutex
	exact    map[string]Handler
	routes   []route
	notFound Handler
	history  History

	seq    uint64
	cancel context.CancelFunc
}

// New returns a router that answers unknown paths with notFound.
func New(notFound Handler) *Router {
	return &Router{exact: make(map[string]Handler), notFound: notFound}
}

// Register maps pattern to h. Registering a pattern twice replaces its handler.
func (r *Router) Register(pattern string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.exact[pattern] = h
	for i := range r.routes {
		if r.routes[i].pattern == pattern {
			r.routes[i].handler = h
			return
		}
	}
	r.routes = append(r.routes, route{pattern: pattern, parts: strings.Split(pattern, "/"), handler: h})
}

// Match finds the handler of path and its :param values.
func (r *Router) Match(path string) (Handler, map[string]string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 完全一致を優先
	if h, ok := r.exact[path]; ok {
		return h, map[string]string{}, true
	}
	parts := strings.Split(path, "/")
	for _, rt := range r.routes {
		if params, ok := matchParts(rt.parts, parts); ok {
			return rt.handler, params, true
		}
	}
	return nil, nil, false
}

func matchParts(pattern, path []string) (map[string]string, bool) {
	if len(pattern) != len(path) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range pattern {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if path[i] == "" {
				return nil, false
			}
			params[name] = path[i]
			continue
		}
		if p != path[i] {
			return nil, false
		}
	}
	return params, true
}

// Navigate dispatches rawURL (path + optional query) and records it in the history.
// Navigating to the current entry again re-renders it without a new history entry.
func (r *Router) Navigate(ctx context.Context, rawURL string) (any, error) {
	u, err := parseLocal(rawURL)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.history.Push(u.String())
	r.mu.Unlock()
	return r.dispatch(ctx, u)
}

// Back re-dispatches the previous history entry with its exact query string.
func (r *Router) Back(ctx context.Context) (any, error) {
	return r.step(ctx, r.history.Back)
}

// Forward re-dispatches the next history entry.
func (r *Router) Forward(ctx context.Context) (any, error) {
	return r.step(ctx, r.history.Forward)
}

func (r *Router) step(ctx context.Context, move func() (string, bool)) (any, error) {
	r.mu.Lock()
	entry, ok := move()
	r.mu.Unlock()
	if !ok {
		return nil, ErrNoHistory
	}
	u, err := parseLocal(entry)
	if err != nil {
		return nil, err
	}
	return r.dispatch(ctx, u)
}

// Current returns the current history entry, or "" before the first navigation.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history.Current()
}

func (r *Router) dispatch(ctx context.Context, u *url.URL) (any, error) {
	h, params, ok := r.Match(u.Path)
	if !ok {
		h, params = r.notFound, map[string]string{}
	}
	if h == nil {
		return nil, fmt.Errorf("no route for %s", u.Path)
	}

	// 進行中のナビゲーションをキャンセルして置き換える
	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	seq := r.seq
	r.cancel = cancel
	r.mu.Unlock()

	view, err := h.Handle(ctx, Request{
		URL:    u.String(),
		Path:   u.Path,
		Params: params,
		Query:  ParseQuery(u.RawQuery),
	})

	r.mu.Lock()
	current := seq == r.seq
	if current {
		r.cancel = nil
	}
	r.mu.Unlock()
	cancel()

	if !current {
		return nil, ErrSuperseded
	}
	return view, err
}

// ParseQuery flattens a raw query string, keeping the first value of each key.
// Malformed pairs are skipped.
func ParseQuery(raw string) map[string]string {
	out := map[string]string{}
	values, _ := url.ParseQuery(raw)
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// Intercept resolves href against base and reports whether it stays on the
// same origin. For same-origin links it returns the path + query to navigate to.
func Intercept(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	target := base.ResolveReference(ref)
	if !strings.EqualFold(target.Scheme, base.Scheme) || !strings.EqualFold(target.Host, base.Host) {
		return "", false
	}
	return localString(target), true
}

// parseLocal accepts a path with optional query and drops any fragment.
func parseLocal(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if u.Scheme != "" || u.Host != "" {
		return nil, fmt.Errorf("url %q is not a local path", rawURL)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return &url.URL{Path: u.Path, RawQuery: u.RawQuery}, nil
}

func localString(u *url.URL) string {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		return path + "?" + u.RawQuery
	}
	return path
}
