package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/pkg/search"
	"inkwell/internal/repository"
)

var subscriberSortColumns = map[string]string{
	"id":         "id",
	"email":      "email",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

var subscriberColumns = []string{"id", "email", "status", "created_at", "updated_at"}

type SubscriberRepo struct {
	base
}

func NewSubscriberRepo(db DBTX, opts ...Option) *SubscriberRepo {
	return &SubscriberRepo{base: newBase(db, opts)}
}

var _ repository.SubscriberRepository = (*SubscriberRepo)(nil)

func scanSubscriber(s scanner) (*entity.Subscriber, error) {
	var (
		sub    entity.Subscriber
		status string
	)
	if err := s.Scan(&sub.ID, &sub.Email, &status, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	sub.Status = entity.SubscriberStatus(status)
	return &sub, nil
}

func subscriberWhere(f repository.SubscriberFilter) sq.And {
	where := sq.And{}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": string(f.Status)})
	}
	if f.Search != "" {
		where = append(where, sq.ILike{"email": search.ContainsPattern(f.Search)})
	}
	return where
}

func (repo *SubscriberRepo) List(ctx context.Context, filter repository.SubscriberFilter, params pagination.Params) ([]*entity.Subscriber, int64, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	where := subscriberWhere(filter)
	col := orderColumn(subscriberSortColumns, params.Sort, "created_at")
	page := psql.Select(subscriberColumns...).From("subscribers").Where(where).
		OrderBy(fmt.Sprintf("%s %s", col, params.Order), "id DESC")
	page = window(page, params.Limit, params.Offset())
	count := psql.Select("COUNT(*)").From("subscribers").Where(where)

	subs := make([]*entity.Subscriber, 0, params.Limit)
	total, err := repo.listPage(ctx, count, page, func(rows *sql.Rows) error {
		s, err := scanSubscriber(rows)
		if err != nil {
			return err
		}
		subs = append(subs, s)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	return subs, total, nil
}

func (repo *SubscriberRepo) Export(ctx context.Context, filter repository.SubscriberFilter) ([]*entity.Subscriber, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	query, args, err := psql.Select(subscriberColumns...).From("subscribers").
		Where(subscriberWhere(filter)).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("Export: %w", err)
	}
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Export: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var subs []*entity.Subscriber
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("Export: Scan: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (repo *SubscriberRepo) getBy(ctx context.Context, op string, where sq.Eq) (*entity.Subscriber, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	query, args, err := psql.Select(subscriberColumns...).From("subscribers").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s, err := scanSubscriber(repo.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (repo *SubscriberRepo) Get(ctx context.Context, id int64) (*entity.Subscriber, error) {
	return repo.getBy(ctx, "Get", sq.Eq{"id": id})
}

func (repo *SubscriberRepo) GetByEmail(ctx context.Context, email string) (*entity.Subscriber, error) {
	return repo.getBy(ctx, "GetByEmail", sq.Eq{"email": email})
}

func (repo *SubscriberRepo) Create(ctx context.Context, subscriber *entity.Subscriber) error {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	const query = `
INSERT INTO subscribers (email, status, created_at, updated_at)
VALUES ($1, $2, $3, $3)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query, subscriber.Email, string(subscriber.Status), subscriber.CreatedAt).
		Scan(&subscriber.ID)
	if err != nil {
		return mapError("Create", err)
	}
	subscriber.UpdatedAt = subscriber.CreatedAt
	return nil
}

func (repo *SubscriberRepo) UpdateStatus(ctx context.Context, id int64, status entity.SubscriberStatus) error {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	res, err := repo.db.ExecContext(ctx,
		`UPDATE subscribers SET status = $1, updated_at = NOW() WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}
	if err := rowsChanged(res); err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}
	return nil
}

func (repo *SubscriberRepo) Delete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	query, args, err := psql.Delete("subscribers").Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("Delete: %w", err)
	}
	return execCount(ctx, repo.db, "Delete", query, args)
}

func (repo *SubscriberRepo) Stats(ctx context.Context, since time.Time) (entity.SubscriberStats, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	const totals = `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE status = 'active'),
	COUNT(*) FILTER (WHERE status = 'unsubscribed')
FROM subscribers`

	var s entity.SubscriberStats
	err := repo.withSnapshot(ctx, func(q Querier) error {
		if err := q.QueryRowContext(ctx, totals).Scan(&s.Total, &s.Active, &s.Unsubscribed); err != nil {
			return err
		}
		trend, err := dailyCounts(ctx, q, "subscribers", since)
		if err != nil {
			return err
		}
		s.Trend = trend
		return nil
	})
	if err != nil {
		return entity.SubscriberStats{}, fmt.Errorf("Stats: %w", err)
	}
	return s, nil
}

// dailyCounts groups rows of table by creation day. table must be a trusted identifier.
func dailyCounts(ctx context.Context, q Querier, table string, since time.Time) ([]entity.DailyCount, error) {
	query := fmt.Sprintf(`
SELECT TO_CHAR(DATE_TRUNC('day', created_at), 'YYYY-MM-DD') AS day, COUNT(*)
FROM %s
WHERE created_at >= $1
GROUP BY day
ORDER BY day`, table)

	rows, err := q.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	points := []entity.DailyCount{}
	for rows.Next() {
		var p entity.DailyCount
		if err := rows.Scan(&p.Date, &p.Count); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
