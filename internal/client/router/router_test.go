package router

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echo returns the request it was called with, tagged by name.
func echo(name string) Handler {
	return HandlerFunc(func(_ context.Context, req Request) (any, error) {
		return struct {
			Name string
			Req  Request
		}{name, req}, nil
	})
}

type echoed = struct {
	Name string
	Req  Request
}

func newTestRouter() *Router {
	r := New(echo("404"))
	r.Register("/", echo("home"))
	r.Register("/articles/:id", echo("article-param"))
	r.Register("/articles/latest", echo("article-latest"))
	r.Register("/search.html", echo("search"))
	r.Register("/:section/:id", echo("generic"))
	return r
}

func TestRouter_Match(t *testing.T) {
	t.Parallel()
	r := newTestRouter()

	tests := []struct {
		path       string
		wantName   string
		wantParams map[string]string
		wantOK     bool
	}{
		{path: "/", wantName: "home", wantParams: map[string]string{}, wantOK: true},
		{path: "/search.html", wantName: "search", wantParams: map[string]string{}, wantOK: true},
		// 完全一致はパラメータより優先
		{path: "/articles/latest", wantName: "article-latest", wantParams: map[string]string{}, wantOK: true},
		{path: "/articles/42", wantName: "article-param", wantParams: map[string]string{"id": "42"}, wantOK: true},
		{path: "/tags/go", wantName: "generic", wantParams: map[string]string{"section": "tags", "id": "go"}, wantOK: true},
		{path: "/articles/", wantOK: false},
		{path: "/a/b/c", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			h, params, ok := r.Match(tt.path)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			v, err := h.Handle(context.Background(), Request{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, v.(echoed).Name)
			if diff := cmp.Diff(tt.wantParams, params); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRouter_Navigate_ParsesQuery(t *testing.T) {
	t.Parallel()
	r := newTestRouter()

	v, err := r.Navigate(context.Background(), "/search.html?q=go+lang&page=2&page=9&empty=#top")
	require.NoError(t, err)

	got := v.(echoed)
	assert.Equal(t, "search", got.Name)
	assert.Equal(t, "/search.html", got.Req.Path)
	assert.Equal(t, "/search.html?q=go+lang&page=2&page=9&empty=", got.Req.URL)
	want := map[string]string{"q": "go lang", "page": "2", "empty": ""}
	if diff := cmp.Diff(want, got.Req.Query); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestRouter_Navigate_NotFound(t *testing.T) {
	t.Parallel()
	r := newTestRouter()

	v, err := r.Navigate(context.Background(), "/nope/x/y")
	require.NoError(t, err)
	assert.Equal(t, "404", v.(echoed).Name)
}

func TestRouter_Navigate_RejectsForeignURL(t *testing.T) {
	t.Parallel()
	r := newTestRouter()

	_, err := r.Navigate(context.Background(), "https://evil.example/search.html")
	assert.Error(t, err)
	_, err = r.Navigate(context.Background(), "//evil.example/")
	assert.Error(t, err)
	assert.Empty(t, r.Current())
}

func TestRouter_BackForward_RestoresFilters(t *testing.T) {
	t.Parallel()
	r := newTestRouter()
	ctx := context.Background()

	for _, u := range []string{"/", "/search.html?q=go&page=2", "/articles/7"} {
		_, err := r.Navigate(ctx, u)
		require.NoError(t, err)
	}

	v, err := r.Back(ctx)
	require.NoError(t, err)
	got := v.(echoed)
	assert.Equal(t, "search", got.Name)
	assert.Equal(t, map[string]string{"q": "go", "page": "2"}, got.Req.Query)

	v, err = r.Back(ctx)
	require.NoError(t, err)
	assert.Equal(t, "home", v.(echoed).Name)

	_, err = r.Back(ctx)
	assert.ErrorIs(t, err, ErrNoHistory)

	v, err = r.Forward(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/search.html?q=go&page=2", v.(echoed).Req.URL)

	// 途中から新しく遷移すると forward 履歴は消える
	_, err = r.Navigate(ctx, "/search.html?q=rust")
	require.NoError(t, err)
	_, err = r.Forward(ctx)
	assert.ErrorIs(t, err, ErrNoHistory)
	assert.Equal(t, "/search.html?q=rust", r.Current())
}

func TestRouter_NewNavigationSupersedesInFlight(t *testing.T) {
	t.Parallel()
	started := make(chan struct{})
	r := New(nil)
	r.Register("/slow", HandlerFunc(func(ctx context.Context, _ Request) (any, error) {
		close(started)
		<-ctx.Done()
		return "slow", nil
	}))
	r.Register("/fast", HandlerFunc(func(context.Context, Request) (any, error) {
		return "fast", nil
	}))

	slowErr := make(chan error, 1)
	go func() {
		_, err := r.Navigate(context.Background(), "/slow")
		slowErr <- err
	}()
	<-started

	v, err := r.Navigate(context.Background(), "/fast")
	require.NoError(t, err)
	assert.Equal(t, "fast", v)

	select {
	case err := <-slowErr:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(time.Second):
		t.Fatal("superseded navigation was not cancelled")
	}
}

func TestRouter_HandlerErrorIsReturned(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	r := New(nil)
	r.Register("/x", HandlerFunc(func(context.Context, Request) (any, error) { return nil, boom }))

	_, err := r.Navigate(context.Background(), "/x")
	assert.ErrorIs(t, err, boom)

	_, err = r.Navigate(context.Background(), "/unknown")
	assert.Error(t, err, "no route and no not-found handler")
}

func TestIntercept(t *testing.T) {
	t.Parallel()
	base, err := url.Parse("http://blog.example/articles.html?page=3")
	require.NoError(t, err)

	tests := []struct {
		href   string
		want   string
		wantOK bool
	}{
		{href: "/article.html?id=5", want: "/article.html?id=5", wantOK: true},
		{href: "search.html?q=go", want: "/search.html?q=go", wantOK: true},
		{href: "?page=4", want: "/articles.html?page=4", wantOK: true},
		{href: "http://BLOG.example/about.html", want: "/about.html", wantOK: true},
		{href: "https://blog.example/about.html", wantOK: false},
		{href: "http://other.example/", wantOK: false},
		{href: "mailto:me@blog.example", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			t.Parallel()
			got, ok := Intercept(base, tt.href)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestHistory_PushSameEntryIsNoop(t *testing.T) {
	t.Parallel()
	var h History
	h.Push("/a")
	h.Push("/a")
	h.Push("/b")
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "/b", h.Current())
}
