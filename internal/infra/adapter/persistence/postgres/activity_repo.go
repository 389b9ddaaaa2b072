package postgres

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"inkwell/internal/common/pagination"
	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
)

var activitySortColumns = map[string]string{
	"id":         "id",
	"created_at": "created_at",
}

type ActivityRepo struct {
	base
}

func NewActivityRepo(db DBTX, opts ...Option) *ActivityRepo {
	return &ActivityRepo{base: newBase(db, opts)}
}

var _ repository.ActivityRepository = (*ActivityRepo)(nil)

func (repo *ActivityRepo) Record(ctx context.Context, log *entity.ActivityLog) error {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	const query = `
INSERT INTO activity_logs (action, resource_type, resource_id, details, actor, ip_address, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		log.Action, log.ResourceType, nullInt64(log.ResourceID), log.Details,
		log.Actor, log.IPAddress, log.UserAgent, log.CreatedAt,
	).Scan(&log.ID)
	if err != nil {
		return fmt.Errorf("Record: %w", err)
	}
	return nil
}

func (repo *ActivityRepo) List(ctx context.Context, filter repository.ActivityFilter, params pagination.Params) ([]*entity.ActivityLog, int64, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	where := sq.And{}
	if filter.Action != "" {
		where = append(where, sq.Eq{"action": filter.Action})
	}
	if filter.ResourceType != "" {
		where = append(where, sq.Eq{"resource_type": filter.ResourceType})
	}

	col := orderColumn(activitySortColumns, params.Sort, "created_at")
	page := psql.Select("id", "action", "resource_type", "resource_id", "details",
		"actor", "ip_address", "user_agent", "created_at").
		From("activity_logs").
		Where(where).
		OrderBy(fmt.Sprintf("%s %s", col, params.Order), "id DESC")
	page = window(page, params.Limit, params.Offset())
	count := psql.Select("COUNT(*)").From("activity_logs").Where(where)

	logs := make([]*entity.ActivityLog, 0, params.Limit)
	total, err := repo.listPage(ctx, count, page, func(rows *sql.Rows) error {
		var (
			l          entity.ActivityLog
			resourceID sql.NullInt64
		)
		if err := rows.Scan(&l.ID, &l.Action, &l.ResourceType, &resourceID, &l.Details,
			&l.Actor, &l.IPAddress, &l.UserAgent, &l.CreatedAt); err != nil {
			return err
		}
		l.ResourceID = int64Ptr(resourceID)
		logs = append(logs, &l)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	return logs, total, nil
}
