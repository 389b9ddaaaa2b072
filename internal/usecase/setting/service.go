// Package setting provides the site settings use cases.
package setting

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/domain/entity"
	"inkwell/internal/repository"
	"inkwell/internal/utils/text"
)

// PublicGroup is the settings group readable without authentication.
const PublicGroup = "site"

const maxValueLength = 5000

// Sentinel errors for setting use case operations.
var (
	// ErrSettingNotFound indicates that the (group, key) pair does not exist.
	ErrSettingNotFound = entity.NotFound("setting not found")

	// ErrUnknownGroup indicates a reset of a group without defaults.
	ErrUnknownGroup = &entity.ValidationError{Field: "group", Message: "has no default settings"}
)

// Service provides setting use cases.
type Service struct {
	Repo     repository.SettingRepository
	Defaults Defaults // nil means BuiltinDefaults
}

func (s *Service) defaults() Defaults {
	if s.Defaults == nil {
		s.Defaults = BuiltinDefaults()
	}
	return s.Defaults
}

// All returns every setting grouped as group → key → value.
func (s *Service) All(ctx context.Context) (map[string]map[string]string, error) {
	settings, err := s.Repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	out := map[string]map[string]string{}
	for _, st := range settings {
		if out[st.Group] == nil {
			out[st.Group] = map[string]string{}
		}
		out[st.Group][st.Key] = st.Value
	}
	return out, nil
}

// Groups returns every group with its key count.
func (s *Service) Groups(ctx context.Context) ([]entity.SettingGroup, error) {
	groups, err := s.Repo.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list setting groups: %w", err)
	}
	if groups == nil {
		groups = []entity.SettingGroup{}
	}
	return groups, nil
}

// Group returns the settings of one group. An unknown group is empty, not an error.
func (s *Service) Group(ctx context.Context, group string) ([]entity.Setting, error) {
	if err := (&entity.Setting{Group: group, Key: "x"}).Validate(); err != nil {
		return nil, err
	}
	settings, err := s.Repo.Group(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("get setting group: %w", err)
	}
	if settings == nil {
		settings = []entity.Setting{}
	}
	return settings, nil
}

// Public returns the site group as key → value, falling back to defaults for missing keys.
func (s *Service) Public(ctx context.Context) (map[string]string, error) {
	settings, err := s.Repo.Group(ctx, PublicGroup)
	if err != nil {
		return nil, fmt.Errorf("get public settings: %w", err)
	}
	out := map[string]string{}
	for k, v := range s.defaults()[PublicGroup] {
		out[k] = v
	}
	for _, st := range settings {
		out[st.Key] = st.Value
	}
	return out, nil
}

// Get returns one setting.
func (s *Service) Get(ctx context.Context, group, key string) (*entity.Setting, error) {
	probe := entity.Setting{Group: group, Key: key}
	if err := probe.Validate(); err != nil {
		return nil, err
	}
	st, err := s.Repo.Get(ctx, group, key)
	if err != nil {
		return nil, fmt.Errorf("get setting: %w", err)
	}
	if st == nil {
		return nil, ErrSettingNotFound
	}
	return st, nil
}

// Upsert writes one setting.
func (s *Service) Upsert(ctx context.Context, group, key, value string) (*entity.Setting, error) {
	st := entity.Setting{Group: group, Key: key, Value: value}
	if err := s.BatchUpsert(ctx, []entity.Setting{st}); err != nil {
		return nil, err
	}
	st.UpdatedAt = time.Now()
	return &st, nil
}

// BatchUpsert writes all settings in one transaction. Nothing is written when any entry is invalid.
func (s *Service) BatchUpsert(ctx context.Context, settings []entity.Setting) error {
	if len(settings) == 0 {
		return &entity.ValidationError{Field: "settings", Message: "must not be empty"}
	}
	if len(settings) > entity.MaxBatchSize {
		return &entity.ValidationError{Field: "settings", Message: "too many settings"}
	}
	now := time.Now()
	for i := range settings {
		if err := settings[i].Validate(); err != nil {
			return err
		}
		if text.CountRunes(settings[i].Value) > maxValueLength {
			return &entity.ValidationError{Field: "value", Message: fmt.Sprintf("must not exceed %d characters", maxValueLength)}
		}
		settings[i].UpdatedAt = now
	}
	if err := s.Repo.Upsert(ctx, settings); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

// Delete removes one setting.
func (s *Service) Delete(ctx context.Context, group, key string) error {
	probe := entity.Setting{Group: group, Key: key}
	if err := probe.Validate(); err != nil {
		return err
	}
	ok, err := s.Repo.Delete(ctx, group, key)
	if err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}
	if !ok {
		return ErrSettingNotFound
	}
	return nil
}

// Reset restores group to its defaults; an empty group restores every group.
func (s *Service) Reset(ctx context.Context, group string) error {
	d := s.defaults()
	var groups []string
	if group != "" {
		if _, ok := d[group]; !ok {
			return ErrUnknownGroup
		}
		groups = []string{group}
	}
	defaults := d.Settings(groups...)
	now := time.Now()
	for i := range defaults {
		defaults[i].UpdatedAt = now
	}
	if err := s.Repo.Reset(ctx, groups, defaults); err != nil {
		return fmt.Errorf("reset settings: %w", err)
	}
	return nil
}
