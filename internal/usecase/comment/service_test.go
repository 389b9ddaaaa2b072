package comment_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
	cmUC "inkwell/internal/usecase/comment"
)

/* ───────── スタブ実装 ───────── */

type stubRepo struct {
	data       map[int64]*entity.Comment
	nextID     int64
	err        error
	lastFilter repository.CommentFilter
	today      time.Time
	week       time.Time
}

func newStub() *stubRepo {
	return &stubRepo{data: map[int64]*entity.Comment{}, nextID: 1}
}

func (s *stubRepo) List(_ context.Context, f repository.CommentFilter, _ pagination.Params) ([]*entity.Comment, int64, error) {
	s.lastFilter = f
	if s.err != nil {
		return nil, 0, s.err
	}
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
func (s *stubRepo) Get(_ context.Context, id int64) (*entity.Comment, error) {
	return s.data[id], s.err
}
func (s *stubRepo) Create(_ context.Context, c *entity.Comment) error {
	if s.err != nil {
		return s.err
	}
	c.ID = s.nextID
	s.nextID++
	s.data[c.ID] = c
	return nil
}
func (s *stubRepo) UpdateStatus(_ context.Context, ids []int64, status entity.CommentStatus) (int64, error) {
	var n int64
	for _, id := range ids {
		if c, ok := s.data[id]; ok {
			c.Status = status
			n++
		}
	}
	return n, s.err
}
func (s *stubRepo) Delete(_ context.Context, ids []int64) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := s.data[id]; ok {
			delete(s.data, id)
			n++
		}
	}
	return n, s.err
}
func (s *stubRepo) Stats(_ context.Context, today, week time.Time) (entity.CommentStats, error) {
	s.today, s.week = today, week
	return entity.CommentStats{Total: int64(len(s.data))}, s.err
}

type stubArticles struct {
	repository.ArticleRepository
	data map[int64]*entity.Article
}

func (s *stubArticles) Get(_ context.Context, id int64) (*entity.Article, error) {
	return s.data[id], nil
}

func newService() (*cmUC.Service, *stubRepo) {
	repo := newStub()
	arts := &stubArticles{data: map[int64]*entity.Article{
		1: {ID: 1, Title: "React Basics", Status: entity.ArticleStatusPublished},
		2: {ID: 2, Title: "Draft", Status: entity.ArticleStatusDraft},
	}}
	return &cmUC.Service{Repo: repo, Articles: arts}, repo
}

func validInput() cmUC.CreateInput {
	return cmUC.CreateInput{ArticleID: 1, Content: "great post", AuthorName: "reader", AuthorEmail: "r@example.com", IPAddress: "203.0.113.7"}
}

/* ───────── テスト本体 ───────── */

func TestService_Create(t *testing.T) {
	svc, repo := newService()

	in := validInput()
	in.Content = `<b>great</b> <script>alert(1)</script>post`
	c, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if c.Status != entity.CommentStatusPending {
		t.Errorf("status = %q, want pending", c.Status)
	}
	if strings.Contains(c.Content, "<") {
		t.Errorf("markup not stripped: %q", c.Content)
	}
	if repo.data[c.ID].IPAddress != "203.0.113.7" {
		t.Errorf("ip not stored")
	}
}

func TestService_CreateValidation(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*cmUC.CreateInput)
		field  string
	}{
		{"missing content", func(in *cmUC.CreateInput) { in.Content = " " }, "content"},
		{"markup only content", func(in *cmUC.CreateInput) { in.Content = "<img src=x>" }, "content"},
		{"too long content", func(in *cmUC.CreateInput) { in.Content = strings.Repeat("评", 1001) }, "content"},
		{"missing author", func(in *cmUC.CreateInput) { in.AuthorName = "" }, "author_name"},
		{"bad email", func(in *cmUC.CreateInput) { in.AuthorEmail = "not-an-email" }, "author_email"},
		{"article id", func(in *cmUC.CreateInput) { in.ArticleID = 0 }, "id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := svc.Create(ctx, in)
			var ve *entity.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("want ValidationError on %s, got %v", tt.field, err)
			}
		})
	}
	if len(repo.data) != 0 {
		t.Errorf("invalid comment stored")
	}
}

func TestService_Create_EmailOptional(t *testing.T) {
	svc, _ := newService()
	in := validInput()
	in.AuthorEmail = ""
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("comment without email rejected: %v", err)
	}
}

func TestService_Create_ArticleMustBePublished(t *testing.T) {
	svc, _ := newService()
	for _, id := range []int64{2, 99} {
		in := validInput()
		in.ArticleID = id
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, cmUC.ErrArticleNotFound) {
			t.Errorf("article %d: want ErrArticleNotFound, got %v", id, err)
		}
	}
}

func TestService_ListForArticle(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	_, _ = svc.Create(ctx, validInput())
	_, _ = svc.Create(ctx, validInput())
	repo.data[1].Status = entity.CommentStatusApproved

	res, err := svc.ListForArticle(ctx, 1, pagination.Params{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("ListForArticle err=%v", err)
	}
	if res.Article.Title != "React Basics" || res.Article.ID != 1 {
		t.Errorf("article ref = %+v", res.Article)
	}
	if len(res.Comments.Items) != 1 || res.Comments.Pagination.Total != 1 {
		t.Errorf("only approved comments must be listed: %+v", res.Comments.Pagination)
	}
	if repo.lastFilter.Status != entity.CommentStatusApproved {
		t.Errorf("filter status = %q", repo.lastFilter.Status)
	}

	if _, err := svc.ListForArticle(ctx, 99, pagination.Params{Page: 1, Limit: 20}); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("unknown article: want NotFound, got %v", err)
	}
}

func TestService_Moderation(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	_, _ = svc.Create(ctx, validInput())
	_, _ = svc.Create(ctx, validInput())

	if err := svc.UpdateStatus(ctx, 1, entity.CommentStatusSpam); err != nil {
		t.Fatalf("UpdateStatus err=%v", err)
	}
	if repo.data[1].Status != entity.CommentStatusSpam {
		t.Errorf("status not updated")
	}
	if err := svc.UpdateStatus(ctx, 99, entity.CommentStatusSpam); !errors.Is(err, cmUC.ErrCommentNotFound) {
		t.Errorf("want ErrCommentNotFound, got %v", err)
	}
	if err := svc.UpdateStatus(ctx, 1, "hidden"); !errors.Is(err, entity.ErrInvalidInput) {
		t.Errorf("want validation error, got %v", err)
	}

	n, err := svc.BatchStatus(ctx, []int64{1, 2}, entity.CommentStatusApproved)
	if err != nil || n != 2 {
		t.Errorf("BatchStatus n=%d err=%v", n, err)
	}

	if err := svc.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if err := svc.Delete(ctx, 1); !errors.Is(err, cmUC.ErrCommentNotFound) {
		t.Errorf("want ErrCommentNotFound, got %v", err)
	}
	n, err = svc.BatchDelete(ctx, []int64{2, 3})
	if err != nil || n != 1 {
		t.Errorf("BatchDelete n=%d err=%v", n, err)
	}
	if _, err := svc.BatchDelete(ctx, nil); !errors.Is(err, entity.ErrInvalidInput) {
		t.Errorf("empty ids: want validation error, got %v", err)
	}
}

func TestService_Stats(t *testing.T) {
	svc, repo := newService()

	if _, err := svc.Stats(context.Background()); err != nil {
		t.Fatalf("Stats err=%v", err)
	}
	if repo.today.Hour() != 0 || repo.today.Minute() != 0 {
		t.Errorf("today must be midnight, got %v", repo.today)
	}
	if got := repo.today.Sub(repo.week); got < 6*24*time.Hour-time.Hour || got > 6*24*time.Hour+time.Hour {
		t.Errorf("week window = %v", got)
	}
}
