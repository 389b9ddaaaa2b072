package subscriber

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
	"inkwell/internal/usecase/activity"
	subUC "inkwell/internal/usecase/subscriber"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	repository.SubscriberRepository
	data   map[int64]*entity.Subscriber
	nextID int64
}

func (s *stubRepo) GetByEmail(_ context.Context, email string) (*entity.Subscriber, error) {
	for _, sub := range s.data {
		if sub.Email == email {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) Create(_ context.Context, sub *entity.Subscriber) error {
	sub.ID = s.nextID
	s.nextID++
	s.data[sub.ID] = sub
	return nil
}

func (s *stubRepo) UpdateStatus(_ context.Context, id int64, status entity.SubscriberStatus) error {
	sub, ok := s.data[id]
	if !ok {
		return entity.ErrNotFound
	}
	sub.Status = status
	return nil
}

func (s *stubRepo) Delete(_ context.Context, ids []int64) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := s.data[id]; ok {
			delete(s.data, id)
			n++
		}
	}
	return n, nil
}

func (s *stubRepo) all(f repository.SubscriberFilter) []*entity.Subscriber {
	var out []*entity.Subscriber
	for id := int64(1); id < s.nextID; id++ {
		if sub, ok := s.data[id]; ok && (f.Status == "" || sub.Status == f.Status) {
			out = append(out, sub)
		}
	}
	return out
}

func (s *stubRepo) List(_ context.Context, f repository.SubscriberFilter, _ pagination.Params) ([]*entity.Subscriber, int64, error) {
	out := s.all(f)
	return out, int64(len(out)), nil
}

func (s *stubRepo) Export(_ context.Context, f repository.SubscriberFilter) ([]*entity.Subscriber, error) {
	return s.all(f), nil
}

func (s *stubRepo) Stats(context.Context, time.Time) (entity.SubscriberStats, error) {
	return entity.SubscriberStats{Total: int64(len(s.data))}, nil
}

type stubActivity struct{ logs []*entity.ActivityLog }

func (s *stubActivity) Record(_ context.Context, l *entity.ActivityLog) error {
	s.logs = append(s.logs, l)
	return nil
}

func (s *stubActivity) List(context.Context, repository.ActivityFilter, pagination.Params) ([]*entity.ActivityLog, int64, error) {
	return nil, 0, nil
}

func setup(t *testing.T) (*http.ServeMux, *stubRepo, *stubActivity) {
	t.Helper()
	created := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	repo := &stubRepo{data: map[int64]*entity.Subscriber{
		1: {ID: 1, Email: "active@example.com", Status: entity.SubscriberStatusActive, CreatedAt: created},
		2: {ID: 2, Email: "gone@example.com", Status: entity.SubscriberStatusUnsubscribed, CreatedAt: created},
	}, nextID: 3}
	act := &stubActivity{}
	svc := &subUC.Service{Repo: repo}

	identity := func(h http.Handler) http.Handler { return h }
	mux := http.NewServeMux()
	Register(mux, svc, identity)
	RegisterAdmin(mux, svc, &activity.Service{Repo: act}, pagination.DefaultConfig(), identity)
	return mux, repo, act
}

func serve(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, bytes.NewBufferString(body)))
	return rec
}

func TestSubscribeHandler(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		wantStatus int
	}{
		{"new address", `" New@Example.com "`, http.StatusCreated},
		{"reactivated", `"gone@example.com"`, http.StatusOK},
		{"already active", `"active@example.com"`, http.StatusConflict},
		{"invalid", `"not-an-email"`, http.StatusBadRequest},
		{"missing", `""`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, _, _ := setup(t)
			rec := serve(mux, http.MethodPost, "/api/subscribe", `{"email":`+tt.email+`}`)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestSubscribeHandler_NormalizesEmail(t *testing.T) {
	mux, repo, _ := setup(t)

	require.Equal(t, http.StatusCreated, serve(mux, http.MethodPost, "/api/subscribe", `{"email":"New@Example.com"}`).Code)
	assert.Equal(t, "new@example.com", repo.data[3].Email)
	assert.Equal(t, entity.SubscriberStatusUnsubscribed, repo.data[2].Status)

	require.Equal(t, http.StatusOK, serve(mux, http.MethodPost, "/api/subscribe", `{"email":"gone@example.com"}`).Code)
	assert.Equal(t, entity.SubscriberStatusActive, repo.data[2].Status)
	assert.Len(t, repo.data, 3, "reactivation does not create a row")
}

func TestUnsubscribeHandler(t *testing.T) {
	mux, repo, _ := setup(t)

	require.Equal(t, http.StatusOK, serve(mux, http.MethodPost, "/api/subscribe/unsubscribe", `{"email":"active@example.com"}`).Code)
	assert.Equal(t, entity.SubscriberStatusUnsubscribed, repo.data[1].Status)

	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodPost, "/api/subscribe/unsubscribe", `{"email":"active@example.com"}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodPost, "/api/subscribe/unsubscribe", `{"email":"who@example.com"}`).Code)
}

func TestAdminHandlers(t *testing.T) {
	mux, repo, act := setup(t)

	rec := serve(mux, http.MethodGet, "/api/admin/subscribers?status=active", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "active@example.com")
	assert.NotContains(t, rec.Body.String(), "gone@example.com")
	assert.Equal(t, http.StatusBadRequest, serve(mux, http.MethodGet, "/api/admin/subscribers?status=banned", "").Code)

	rec = serve(mux, http.MethodGet, "/api/admin/subscribers/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"total":2,"active":0,"unsubscribed":0,"trend":[]}}`, rec.Body.String())

	require.Equal(t, http.StatusOK, serve(mux, http.MethodPut, "/api/admin/subscribers/1/status", `{"status":"unsubscribed"}`).Code)
	assert.Equal(t, entity.SubscriberStatusUnsubscribed, repo.data[1].Status)
	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodPut, "/api/admin/subscribers/9/status", `{"status":"active"}`).Code)

	require.Equal(t, http.StatusOK, serve(mux, http.MethodDelete, "/api/admin/subscribers/1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodDelete, "/api/admin/subscribers/1", "").Code)

	rec = serve(mux, http.MethodPost, "/api/admin/subscribers/batch/delete", `{"ids":[2,9]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"affected":1}}`, rec.Body.String())

	assert.Len(t, act.logs, 3)
}

func TestExportHandler(t *testing.T) {
	mux, _, act := setup(t)

	rec := serve(mux, http.MethodGet, "/api/admin/subscribers/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment;")

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"email", "status", "created_at"},
		{"active@example.com", "active", "2026-09-01T08:00:00Z"},
		{"gone@example.com", "unsubscribed", "2026-09-01T08:00:00Z"},
	}, rows)

	require.Len(t, act.logs, 1)
	assert.Equal(t, activity.ActionExport, act.logs[0].Action)

	rec = serve(mux, http.MethodGet, "/api/admin/subscribers/export?status=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}
