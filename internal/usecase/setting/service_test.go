package setting_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain/entity"
	"inkwell/internal/usecase/setting"
)

/* ───────── スタブ実装 ───────── */

type key struct{ group, key string }

type stubRepo struct {
	data        map[key]string
	err         error
	resetGroups []string
	upserts     int
}

func newStub() *stubRepo { return &stubRepo{data: map[key]string{}} }

func (s *stubRepo) list(match func(key) bool) []entity.Setting {
	var out []entity.Setting
	for k, v := range s.data {
		if match(k) {
			out = append(out, entity.Setting{Group: k.group, Key: k.key, Value: v})
		}
	}
	return out
}

func (s *stubRepo) All(_ context.Context) ([]entity.Setting, error) {
	return s.list(func(key) bool { return true }), s.err
}
func (s *stubRepo) Groups(_ context.Context) ([]entity.SettingGroup, error) {
	counts := map[string]int64{}
	for k := range s.data {
		counts[k.group]++
	}
	var out []entity.SettingGroup
	for g, n := range counts {
		out = append(out, entity.SettingGroup{Name: g, Count: n})
	}
	return out, s.err
}
func (s *stubRepo) Group(_ context.Context, group string) ([]entity.Setting, error) {
	return s.list(func(k key) bool { return k.group == group }), s.err
}
func (s *stubRepo) Get(_ context.Context, group, k string) (*entity.Setting, error) {
	v, ok := s.data[key{group, k}]
	if !ok {
		return nil, s.err
	}
	return &entity.Setting{Group: group, Key: k, Value: v}, s.err
}
func (s *stubRepo) Upsert(_ context.Context, settings []entity.Setting) error {
	if s.err != nil {
		return s.err
	}
	s.upserts++
	for _, st := range settings {
		s.data[key{st.Group, st.Key}] = st.Value
	}
	return nil
}
func (s *stubRepo) Delete(_ context.Context, group, k string) (bool, error) {
	_, ok := s.data[key{group, k}]
	delete(s.data, key{group, k})
	return ok, s.err
}
func (s *stubRepo) Reset(_ context.Context, groups []string, defaults []entity.Setting) error {
	s.resetGroups = groups
	for k := range s.data {
		if len(groups) == 0 || k.group == groups[0] {
			delete(s.data, k)
		}
	}
	for _, st := range defaults {
		s.data[key{st.Group, st.Key}] = st.Value
	}
	return s.err
}

/* ───────── テスト本体 ───────── */

func TestBuiltinDefaults(t *testing.T) {
	d := setting.BuiltinDefaults()

	assert.Equal(t, []string{"contact", "site", "social"}, d.Groups())
	assert.Equal(t, "个人博客", d["site"]["title"])
	assert.Equal(t, "contact@blog.com", d["contact"]["email"])

	got := d.Settings("social")
	want := []entity.Setting{{Group: "social", Key: "github"}, {Group: "social", Key: "twitter"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("social defaults (-want +got):\n%s", diff)
	}
	assert.Len(t, d.Settings(), 7)
}

func TestParseDefaults_Invalid(t *testing.T) {
	_, err := setting.ParseDefaults([]byte("site: [unterminated"))
	assert.Error(t, err)
}

func TestService_UpsertAndRead(t *testing.T) {
	repo := newStub()
	svc := &setting.Service{Repo: repo}
	ctx := context.Background()

	st, err := svc.Upsert(ctx, "site", "title", "Inkwell")
	require.NoError(t, err)
	assert.False(t, st.UpdatedAt.IsZero())

	got, err := svc.Get(ctx, "site", "title")
	require.NoError(t, err)
	assert.Equal(t, "Inkwell", got.Value)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]string{"site": {"title": "Inkwell"}}, all)

	_, err = svc.Get(ctx, "site", "missing")
	assert.ErrorIs(t, err, setting.ErrSettingNotFound)
}

func TestService_BatchUpsert_AllOrNothing(t *testing.T) {
	repo := newStub()
	svc := &setting.Service{Repo: repo}

	err := svc.BatchUpsert(context.Background(), []entity.Setting{
		{Group: "site", Key: "title", Value: "ok"},
		{Group: "site", Key: "Bad Key", Value: "x"},
	})
	var ve *entity.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "key", ve.Field)
	assert.Zero(t, repo.upserts)

	err = svc.BatchUpsert(context.Background(), []entity.Setting{{Group: "site", Key: "about", Value: strings.Repeat("字", 5001)}})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	assert.ErrorIs(t, svc.BatchUpsert(context.Background(), nil), entity.ErrInvalidInput)
}

func TestService_Public(t *testing.T) {
	repo := newStub()
	repo.data[key{"site", "title"}] = "Inkwell"
	repo.data[key{"contact", "email"}] = "hidden@example.com"
	svc := &setting.Service{Repo: repo}

	got, err := svc.Public(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Inkwell", got["title"])
	assert.Equal(t, "博主", got["author"], "missing keys come from defaults")
	assert.NotContains(t, got, "email")
}

func TestService_Delete(t *testing.T) {
	repo := newStub()
	repo.data[key{"social", "github"}] = "octocat"
	svc := &setting.Service{Repo: repo}
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "social", "github"))
	assert.ErrorIs(t, svc.Delete(ctx, "social", "github"), setting.ErrSettingNotFound)
}

func TestService_Reset(t *testing.T) {
	repo := newStub()
	repo.data[key{"site", "title"}] = "custom"
	repo.data[key{"site", "extra"}] = "x"
	repo.data[key{"social", "github"}] = "octocat"
	svc := &setting.Service{Repo: repo}
	ctx := context.Background()

	require.NoError(t, svc.Reset(ctx, "site"))
	assert.Equal(t, []string{"site"}, repo.resetGroups)
	assert.Equal(t, "个人博客", repo.data[key{"site", "title"}])
	assert.NotContains(t, repo.data, key{"site", "extra"})
	assert.Equal(t, "octocat", repo.data[key{"social", "github"}], "other groups untouched")

	require.NoError(t, svc.Reset(ctx, ""))
	assert.Empty(t, repo.resetGroups)
	assert.Len(t, repo.data, 7)

	assert.ErrorIs(t, svc.Reset(ctx, "billing"), setting.ErrUnknownGroup)
}

func TestService_Groups(t *testing.T) {
	repo := newStub()
	svc := &setting.Service{Repo: repo}

	groups, err := svc.Groups(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, groups)

	repo.data[key{"site", "title"}] = "a"
	repo.data[key{"site", "author"}] = "b"
	groups, _ = svc.Groups(context.Background())
	if diff := cmp.Diff([]entity.SettingGroup{{Name: "site", Count: 2}}, groups, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("groups (-want +got):\n%s", diff)
	}
}

func TestService_RepoError(t *testing.T) {
	repo := newStub()
	repo.err = errors.New("db down")
	svc := &setting.Service{Repo: repo}

	_, err := svc.All(context.Background())
	assert.ErrorContains(t, err, "list settings")
}
