package repository

import (
	"context"

	"inkwell/internal/domain/entity"
)

// SettingRepository stores site settings as (group, key) → value.
type SettingRepository interface {
	All(ctx context.Context) ([]entity.Setting, error)
	Groups(ctx context.Context) ([]entity.SettingGroup, error)
	Group(ctx context.Context, group string) ([]entity.Setting, error)
	Get(ctx context.Context, group, key string) (*entity.Setting, error)
	// Upsert writes all settings in one transaction.
	Upsert(ctx context.Context, settings []entity.Setting) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, group, key string) (bool, error)
	// Reset deletes the listed groups (all groups when empty) and writes
	// defaults in their place, in one transaction.
	Reset(ctx context.Context, groups []string, defaults []entity.Setting) error
}
