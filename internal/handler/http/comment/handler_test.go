package comment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
	"inkwell/internal/usecase/activity"
	commentUC "inkwell/internal/usecase/comment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubComments struct {
	repository.CommentRepository
	data       map[int64]*entity.Comment
	nextID     int64
	lastFilter repository.CommentFilter
}

func (s *stubComments) List(_ context.Context, f repository.CommentFilter, _ pagination.Params) ([]*entity.Comment, int64, error) {
	s.lastFilter = f
	var out []*entity.Comment
	for id := int64(1); id < s.nextID; id++ {
		c, ok := s.data[id]
		if !ok || (f.Status != "" && c.Status != f.Status) || (f.ArticleID != nil && c.ArticleID != *f.ArticleID) {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (s *stubComments) Get(_ context.Context, id int64) (*entity.Comment, error) {
	return s.data[id], nil
}

func (s *stubComments) Create(_ context.Context, c *entity.Comment) error {
	c.ID = s.nextID
	s.nextID++
	s.data[c.ID] = c
	return nil
}

func (s *stubComments) UpdateStatus(_ context.Context, ids []int64, status entity.CommentStatus) (int64, error) {
	var n int64
	for _, id := range ids {
		if c, ok := s.data[id]; ok {
			c.Status = status
			n++
		}
	}
	return n, nil
}

func (s *stubComments) Delete(_ context.Context, ids []int64) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := s.data[id]; ok {
			delete(s.data, id)
			n++
		}
	}
	return n, nil
}

func (s *stubComments) Stats(context.Context, time.Time, time.Time) (entity.CommentStats, error) {
	return entity.CommentStats{Total: int64(len(s.data)), Pending: 1}, nil
}

type stubArticles struct {
	repository.ArticleRepository
}

func (stubArticles) Get(_ context.Context, id int64) (*entity.Article, error) {
	switch id {
	case 1:
		return &entity.Article{ID: 1, Title: "公開記事", Status: entity.ArticleStatusPublished}, nil
	case 2:
		return &entity.Article{ID: 2, Title: "下書き", Status: entity.ArticleStatusDraft}, nil
	}
	return nil, nil
}

type stubActivity struct{ logs []*entity.ActivityLog }

func (s *stubActivity) Record(_ context.Context, l *entity.ActivityLog) error {
	s.logs = append(s.logs, l)
	return nil
}

func (s *stubActivity) List(context.Context, repository.ActivityFilter, pagination.Params) ([]*entity.ActivityLog, int64, error) {
	return nil, 0, nil
}

type env struct {
	mux      *http.ServeMux
	comments *stubComments
	activity *stubActivity
	limited  int
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		comments: &stubComments{data: map[int64]*entity.Comment{
			1: {ID: 1, ArticleID: 1, Content: "好文", AuthorName: "甲", AuthorEmail: "a@example.com", Status: entity.CommentStatusApproved},
			2: {ID: 2, ArticleID: 1, Content: "待审", AuthorName: "乙", Status: entity.CommentStatusPending},
		}, nextID: 3},
		activity: &stubActivity{},
	}
	svc := &commentUC.Service{Repo: e.comments, Articles: stubArticles{}}
	limit := func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			e.limited++
			h.ServeHTTP(w, r)
		})
	}

	e.mux = http.NewServeMux()
	Register(e.mux, svc, pagination.DefaultConfig(), limit)
	RegisterAdmin(e.mux, svc, &activity.Service{Repo: e.activity}, pagination.DefaultConfig(),
		func(h http.Handler) http.Handler { return h })
	return e
}

func (e *env) serve(method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, httptest.NewRequest(method, target, bytes.NewBufferString(body)))
	return rec
}

func TestListHandler_ApprovedOnly(t *testing.T) {
	e := newEnv(t)

	rec := e.serve(http.MethodGet, "/api/articles/1/comments", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got struct {
		Data ArticleCommentsDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, commentUC.ArticleRef{ID: 1, Title: "公開記事"}, got.Data.Article)
	require.Len(t, got.Data.Comments, 1)
	assert.Equal(t, "好文", got.Data.Comments[0].Content)
	assert.NotContains(t, rec.Body.String(), "a@example.com")

	assert.Equal(t, http.StatusNotFound, e.serve(http.MethodGet, "/api/articles/2/comments", "").Code)
	assert.Equal(t, http.StatusNotFound, e.serve(http.MethodGet, "/api/articles/9/comments", "").Code)
}

func TestCreateHandler(t *testing.T) {
	e := newEnv(t)

	rec := e.serve(http.MethodPost, "/api/articles/1/comments",
		`{"content":"<b>很好</b>","author_name":"丙","author_email":"c@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, e.limited)

	c := e.comments.data[3]
	require.NotNil(t, c)
	assert.Equal(t, "很好", c.Content)
	assert.Equal(t, entity.CommentStatusPending, c.Status)
	assert.Equal(t, "192.0.2.1", c.IPAddress)

	tests := []struct {
		name   string
		target string
		body   string
		want   int
	}{
		{"missing content", "/api/articles/1/comments", `{"author_name":"丙"}`, http.StatusBadRequest},
		{"missing author", "/api/articles/1/comments", `{"content":"x"}`, http.StatusBadRequest},
		{"bad email", "/api/articles/1/comments", `{"content":"x","author_name":"丙","author_email":"nope"}`, http.StatusBadRequest},
		{"draft article", "/api/articles/2/comments", `{"content":"x","author_name":"丙"}`, http.StatusNotFound},
		{"bad id", "/api/articles/abc/comments", `{"content":"x","author_name":"丙"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.serve(http.MethodPost, tt.target, tt.body).Code)
		})
	}
}

func TestAdminListHandler(t *testing.T) {
	e := newEnv(t)

	rec := e.serve(http.MethodGet, "/api/admin/comments?status=pending&article_id=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Data AdminListDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Data.Comments, 1)
	assert.Equal(t, int64(2), got.Data.Comments[0].ID)
	assert.Equal(t, entity.CommentStatusPending, e.comments.lastFilter.Status)

	assert.Equal(t, http.StatusBadRequest, e.serve(http.MethodGet, "/api/admin/comments?status=hidden", "").Code)
	assert.Equal(t, http.StatusBadRequest, e.serve(http.MethodGet, "/api/admin/comments?article_id=-1", "").Code)
}

func TestModeration(t *testing.T) {
	e := newEnv(t)

	rec := e.serve(http.MethodPut, "/api/admin/comments/2/status", `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, entity.CommentStatusApproved, e.comments.data[2].Status)

	assert.Equal(t, http.StatusNotFound, e.serve(http.MethodPut, "/api/admin/comments/9/status", `{"status":"spam"}`).Code)
	assert.Equal(t, http.StatusBadRequest, e.serve(http.MethodPut, "/api/admin/comments/2/status", `{"status":"gone"}`).Code)

	rec = e.serve(http.MethodPut, "/api/admin/comments/batch/status", `{"ids":[1,2,9],"status":"spam"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"affected":2}}`, rec.Body.String())

	rec = e.serve(http.MethodGet, "/api/admin/comments/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"pending":1`)

	assert.Len(t, e.activity.logs, 2)
}

func TestDelete(t *testing.T) {
	e := newEnv(t)

	require.Equal(t, http.StatusOK, e.serve(http.MethodGet, "/api/admin/comments/1", "").Code)
	require.Equal(t, http.StatusOK, e.serve(http.MethodDelete, "/api/admin/comments/1", "").Code)
	assert.Equal(t, http.StatusNotFound, e.serve(http.MethodGet, "/api/admin/comments/1", "").Code)
	assert.Equal(t, http.StatusNotFound, e.serve(http.MethodDelete, "/api/admin/comments/1", "").Code)

	rec := e.serve(http.MethodPost, "/api/admin/comments/batch/delete", `{"ids":[2,3]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"affected":1}}`, rec.Body.String())
	assert.Equal(t, http.StatusBadRequest, e.serve(http.MethodPost, "/api/admin/comments/batch/delete", `{"ids":[]}`).Code)

	require.Len(t, e.activity.logs, 2)
	assert.Equal(t, "comment", e.activity.logs[1].ResourceType)
}
