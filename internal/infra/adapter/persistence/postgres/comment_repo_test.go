package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	pg "inkwell/internal/infra/adapter/persistence/postgres"
	"inkwell/internal/repository"
)

var commentCols = []string{
	"id", "article_id", "article_title", "content", "author_name",
	"author_email", "status", "ip_address", "created_at",
}

func TestCommentRepo_List_ApprovedForArticle(t *testing.T) {
	db, mock := newMock(t)

	articleID := int64(7)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM comments cm WHERE (cm.article_id = $1 AND cm.status = $2)")).
		WithArgs(articleID, "approved").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY cm.created_at DESC, cm.id DESC LIMIT 20 OFFSET 0")).
		WithArgs(articleID, "approved").
		WillReturnRows(sqlmock.NewRows(commentCols).
			AddRow(1, articleID, "React Basics", "nice", "ann", "", "approved", "127.0.0.1", now))
	mock.ExpectCommit()

	repo := pg.NewCommentRepo(db)
	got, total, err := repo.List(context.Background(),
		repository.CommentFilter{ArticleID: &articleID, Status: entity.CommentStatusApproved},
		params(1, 20, "created_at", pagination.OrderDesc))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)
	assert.Equal(t, entity.CommentStatusApproved, got[0].Status)
	assert.Equal(t, "React Basics", got[0].ArticleTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepo_List_Search(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE ((cm.content ILIKE $1 OR cm.author_name ILIKE $2))")).
		WithArgs("%spam%", "%spam%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectCommit()

	repo := pg.NewCommentRepo(db)
	_, total, err := repo.List(context.Background(), repository.CommentFilter{Search: "spam"},
		params(1, 20, "", pagination.OrderDesc))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepo_Create(t *testing.T) {
	db, mock := newMock(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO comments")).
		WithArgs(int64(1), "hi", "ann", "a@b.co", "pending", "10.0.0.1", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	repo := pg.NewCommentRepo(db)
	c := &entity.Comment{ArticleID: 1, Content: "hi", AuthorName: "ann", AuthorEmail: "a@b.co",
		Status: entity.CommentStatusPending, IPAddress: "10.0.0.1", CreatedAt: now}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, int64(5), c.ID)
}

func TestCommentRepo_BatchOperations(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE comments SET status = $1 WHERE id IN ($2,$3)")).
		WithArgs("spam", int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM comments WHERE id IN ($1)")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := pg.NewCommentRepo(db)
	n, err := repo.UpdateStatus(context.Background(), []int64{1, 2}, entity.CommentStatusSpam)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.Delete(context.Background(), []int64{3})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCommentRepo_Stats(t *testing.T) {
	db, mock := newMock(t)

	today := time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)
	week := today.AddDate(0, 0, -7)
	mock.ExpectQuery(regexp.QuoteMeta("FILTER (WHERE status = 'approved')")).
		WithArgs(today, week).
		WillReturnRows(sqlmock.NewRows([]string{"total", "approved", "pending", "spam", "today", "week"}).
			AddRow(10, 6, 3, 1, 2, 5))

	repo := pg.NewCommentRepo(db)
	got, err := repo.Stats(context.Background(), today, week)
	require.NoError(t, err)
	assert.Equal(t, entity.CommentStats{Total: 10, Approved: 6, Pending: 3, Spam: 1, Today: 2, Week: 5}, got)
}
