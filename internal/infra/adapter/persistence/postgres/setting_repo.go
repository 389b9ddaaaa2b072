package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
)

type SettingRepo struct {
	base
}

func NewSettingRepo(db DBTX, opts ...Option) *SettingRepo {
	return &SettingRepo{base: newBase(db, opts)}
}

var _ repository.SettingRepository = (*SettingRepo)(nil)

const upsertSetting = `
INSERT INTO settings (group_name, key_name, value, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (group_name, key_name)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

func (repo *SettingRepo) query(ctx context.Context, op, query string, args ...any) ([]entity.Setting, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	settings := []entity.Setting{}
	for rows.Next() {
		var s entity.Setting
		if err := rows.Scan(&s.Group, &s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (repo *SettingRepo) All(ctx context.Context) ([]entity.Setting, error) {
	return repo.query(ctx, "All",
		`SELECT group_name, key_name, value, updated_at FROM settings ORDER BY group_name, key_name`)
}

func (repo *SettingRepo) Group(ctx context.Context, group string) ([]entity.Setting, error) {
	return repo.query(ctx, "Group",
		`SELECT group_name, key_name, value, updated_at FROM settings WHERE group_name = $1 ORDER BY key_name`, group)
}

func (repo *SettingRepo) Groups(ctx context.Context) ([]entity.SettingGroup, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	rows, err := repo.db.QueryContext(ctx,
		`SELECT group_name, COUNT(*) FROM settings GROUP BY group_name ORDER BY group_name`)
	if err != nil {
		return nil, fmt.Errorf("Groups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	groups := []entity.SettingGroup{}
	for rows.Next() {
		var g entity.SettingGroup
		if err := rows.Scan(&g.Name, &g.Count); err != nil {
			return nil, fmt.Errorf("Groups: Scan: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (repo *SettingRepo) Get(ctx context.Context, group, key string) (*entity.Setting, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	var s entity.Setting
	err := repo.db.QueryRowContext(ctx,
		`SELECT group_name, key_name, value, updated_at FROM settings WHERE group_name = $1 AND key_name = $2`,
		group, key).Scan(&s.Group, &s.Key, &s.Value, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &s, nil
}

func (repo *SettingRepo) Upsert(ctx context.Context, settings []entity.Setting) error {
	if len(settings) == 0 {
		return nil
	}
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	err := repo.withTx(ctx, func(q Querier) error {
		return writeSettings(ctx, q, settings)
	})
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}

func (repo *SettingRepo) Delete(ctx context.Context, group, key string) (bool, error) {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	n, err := execCount(ctx, repo.db, "Delete",
		`DELETE FROM settings WHERE group_name = $1 AND key_name = $2`, []any{group, key})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (repo *SettingRepo) Reset(ctx context.Context, groups []string, defaults []entity.Setting) error {
	ctx, cancel := repo.bound(ctx)
	defer cancel()

	del := psql.Delete("settings")
	if len(groups) > 0 {
		del = del.Where(sq.Eq{"group_name": groups})
	}
	query, args, err := del.ToSql()
	if err != nil {
		return fmt.Errorf("Reset: %w", err)
	}

	err = repo.withTx(ctx, func(q Querier) error {
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return err
		}
		return writeSettings(ctx, q, defaults)
	})
	if err != nil {
		return fmt.Errorf("Reset: %w", err)
	}
	return nil
}

func writeSettings(ctx context.Context, q Querier, settings []entity.Setting) error {
	for _, s := range settings {
		at := s.UpdatedAt
		if at.IsZero() {
			at = time.Now()
		}
		if _, err := q.ExecContext(ctx, upsertSetting, s.Group, s.Key, s.Value, at); err != nil {
			return fmt.Errorf("write %s.%s: %w", s.Group, s.Key, err)
		}
	}
	return nil
}
