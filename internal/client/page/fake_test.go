package page

import (
	"context"
	"sync"

	"inkwell/internal/client/api"
)

// fakeAPI serves canned data and records the parameters it was called with.
type fakeAPI struct {
	mu sync.Mutex

	articles   *api.ArticlePage
	article    *api.Article
	categories *api.CategoryPage
	catPage    *api.CategoryArticles
	search     *api.SearchPage
	terms      []api.PopularTerm
	comments   *api.CommentPage
	settings   map[string]string
	err        error

	gotParams api.ListParams
	gotTerm   string
	gotID     int64
	calls     []string
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) Articles(_ context.Context, p api.ListParams) (*api.ArticlePage, error) {
	f.record("articles")
	f.mu.Lock()
	f.gotParams = p
	f.mu.Unlock()
	return f.articles, f.err
}

func (f *fakeAPI) Article(_ context.Context, id int64) (*api.Article, error) {
	f.record("article")
	f.mu.Lock()
	f.gotID = id
	f.mu.Unlock()
	return f.article, f.err
}

func (f *fakeAPI) Categories(context.Context, api.ListParams) (*api.CategoryPage, error) {
	f.record("categories")
	return f.categories, f.err
}

func (f *fakeAPI) CategoryArticles(_ context.Context, id int64, p api.ListParams) (*api.CategoryArticles, error) {
	f.record("category_articles")
	f.mu.Lock()
	f.gotID, f.gotParams = id, p
	f.mu.Unlock()
	return f.catPage, f.err
}

func (f *fakeAPI) Search(_ context.Context, term string, p api.ListParams) (*api.SearchPage, error) {
	f.record("search")
	f.mu.Lock()
	f.gotTerm, f.gotParams = term, p
	f.mu.Unlock()
	return f.search, f.err
}

func (f *fakeAPI) PopularTerms(context.Context, int) ([]api.PopularTerm, error) {
	f.record("popular")
	return f.terms, f.err
}

func (f *fakeAPI) Comments(context.Context, int64, api.ListParams) (*api.CommentPage, error) {
	f.record("comments")
	return f.comments, f.err
}

func (f *fakeAPI) PublicSettings(context.Context) (map[string]string, error) {
	f.record("settings")
	return f.settings, f.err
}
