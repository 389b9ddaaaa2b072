package category_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
	catUC "inkwell/internal/usecase/category"
)

/* ───────── スタブ実装 ───────── */

type stubRepo struct {
	data     map[int64]*entity.Category
	articles map[int64]int64 // category_id → article count
	nextID   int64
	err      error
}

func newStub() *stubRepo {
	return &stubRepo{data: map[int64]*entity.Category{}, articles: map[int64]int64{}, nextID: 1}
}

func (s *stubRepo) List(_ context.Context, p pagination.Params) ([]*entity.Category, int64, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	var out []*entity.Category
	for id := int64(1); id < s.nextID; id++ {
		if c, ok := s.data[id]; ok {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}
func (s *stubRepo) Get(_ context.Context, id int64) (*entity.Category, error) {
	if s.err != nil {
		return nil, s.err
	}
	c, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}
func (s *stubRepo) ExistsByName(_ context.Context, name string, excludeID int64) (bool, error) {
	for id, c := range s.data {
		if id != excludeID && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}
func (s *stubRepo) CountArticles(_ context.Context, id int64) (int64, error) {
	return s.articles[id], s.err
}
func (s *stubRepo) Create(_ context.Context, c *entity.Category) error {
	if s.err != nil {
		return s.err
	}
	c.ID = s.nextID
	s.nextID++
	s.data[c.ID] = c
	return nil
}
func (s *stubRepo) Update(_ context.Context, c *entity.Category) error {
	if s.err != nil {
		return s.err
	}
	s.data[c.ID] = c
	return nil
}
func (s *stubRepo) Delete(_ context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	delete(s.data, id)
	return nil
}

// 記事一覧はフィルタの確認だけ
type stubArticles struct {
	repository.ArticleRepository
	filter repository.ArticleFilter
	items  []*entity.Article
}

func (s *stubArticles) List(_ context.Context, f repository.ArticleFilter, _ pagination.Params) ([]*entity.Article, int64, error) {
	s.filter = f
	return s.items, int64(len(s.items)), nil
}

func newService() (*catUC.Service, *stubRepo, *stubArticles) {
	repo := newStub()
	arts := &stubArticles{}
	return &catUC.Service{Repo: repo, Articles: arts}, repo, arts
}

/* ───────── テスト本体 ───────── */

func TestService_Create(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	cat, err := svc.Create(ctx, catUC.Input{Name: " 设计 ", Description: "design notes"})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if cat.ID != 1 || cat.Name != "设计" {
		t.Errorf("unexpected category: %+v", cat)
	}

	_, err = svc.Create(ctx, catUC.Input{Name: "设计"})
	if !errors.Is(err, catUC.ErrDuplicateName) || !errors.Is(err, entity.ErrConflict) {
		t.Errorf("duplicate: want conflict, got %v", err)
	}

	_, err = svc.Create(ctx, catUC.Input{Name: strings.Repeat("类", 51)})
	var ve *entity.ValidationError
	if !errors.As(err, &ve) || ve.Field != "name" {
		t.Errorf("long name: want validation error, got %v", err)
	}
}

func TestService_Create_StorageConflict(t *testing.T) {
	svc, repo, _ := newService()
	repo.err = entity.Conflict("unique violation")

	// ExistsByName は未検出でも DB の一意制約で弾かれる
	_, err := svc.Create(context.Background(), catUC.Input{Name: "x"})
	if !errors.Is(err, catUC.ErrDuplicateName) {
		t.Errorf("want ErrDuplicateName, got %v", err)
	}
}

func TestService_Update(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	_, _ = svc.Create(ctx, catUC.Input{Name: "前端"})
	_, _ = svc.Create(ctx, catUC.Input{Name: "后端"})

	// 自分自身の名前はそのまま使える
	if _, err := svc.Update(ctx, 1, catUC.Input{Name: "前端", Description: "new"}); err != nil {
		t.Fatalf("self rename err=%v", err)
	}
	if _, err := svc.Update(ctx, 1, catUC.Input{Name: "后端"}); !errors.Is(err, catUC.ErrDuplicateName) {
		t.Errorf("want ErrDuplicateName, got %v", err)
	}
	if _, err := svc.Update(ctx, 99, catUC.Input{Name: "x"}); !errors.Is(err, catUC.ErrCategoryNotFound) {
		t.Errorf("want ErrCategoryNotFound, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	svc, repo, _ := newService()
	ctx := context.Background()
	_, _ = svc.Create(ctx, catUC.Input{Name: "随笔"})
	repo.articles[1] = 2

	if err := svc.Delete(ctx, 1); !errors.Is(err, catUC.ErrCategoryInUse) {
		t.Fatalf("want ErrCategoryInUse, got %v", err)
	}
	repo.articles[1] = 0
	if err := svc.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if err := svc.Delete(ctx, 1); !errors.Is(err, catUC.ErrCategoryNotFound) {
		t.Errorf("want ErrCategoryNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, 0); !errors.Is(err, catUC.ErrInvalidCategoryID) {
		t.Errorf("want ErrInvalidCategoryID, got %v", err)
	}
}

func TestService_ListArticles(t *testing.T) {
	svc, _, arts := newService()
	ctx := context.Background()
	_, _ = svc.Create(ctx, catUC.Input{Name: "设计"})
	arts.items = []*entity.Article{{ID: 5, Title: "Grid"}}

	res, err := svc.ListArticles(ctx, 1, pagination.Params{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListArticles err=%v", err)
	}
	if res.Category.Name != "设计" || len(res.Articles.Items) != 1 || res.Articles.Pagination.Total != 1 {
		t.Errorf("unexpected result: %+v", res)
	}
	if arts.filter.Status != entity.ArticleStatusPublished || arts.filter.CategoryID == nil || *arts.filter.CategoryID != 1 {
		t.Errorf("unexpected filter: %+v", arts.filter)
	}

	if _, err := svc.ListArticles(ctx, 2, pagination.Params{Page: 1, Limit: 10}); !errors.Is(err, catUC.ErrCategoryNotFound) {
		t.Errorf("want ErrCategoryNotFound, got %v", err)
	}
}

func TestService_List(t *testing.T) {
	svc, _, _ := newService()
	page, err := svc.List(context.Background(), pagination.Params{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if page.Items == nil || page.Pagination.Pages != 0 {
		t.Errorf("empty list: %+v", page)
	}
}
