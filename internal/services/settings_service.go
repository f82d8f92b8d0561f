package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hunet324/expertlink/internal/cache"
	"github.com/hunet324/expertlink/internal/models"
	"github.com/hunet324/expertlink/internal/repository"
)

var ErrSettingNotFound = errors.New("setting not found")

const (
	settingsTag      = "settings"
	settingsCacheTTL = 10 * time.Minute
)

type SettingsService struct {
	settings repository.SettingRepository
	cache    *cache.Cache
	audit    AuditLogger
}

func NewSettingsService(settings repository.SettingRepository, c *cache.Cache, audit AuditLogger) *SettingsService {
	return &SettingsService{settings: settings, cache: c, audit: audit}
}

func (s *SettingsService) GetAll(ctx context.Context) ([]models.SystemSetting, error) {
	return cache.GetOrSet(ctx, s.cache, "settings:all", settingsCacheTTL, []string{settingsTag}, func(ctx context.Context) ([]models.SystemSetting, error) {
		return s.settings.GetAll(ctx)
	})
}

func (s *SettingsService) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	setting, err := cache.GetOrSet(ctx, s.cache, "settings:"+key, settingsCacheTTL, []string{settingsTag}, func(ctx context.Context) (*models.SystemSetting, error) {
		st, err := s.settings.Get(ctx, key)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSettingNotFound
		}
		return st, err
	})
	if err != nil {
		return nil, err
	}
	return setting, nil
}

// Update upserts a setting, drops every cached settings read, and records the
// change in the audit trail.
func (s *SettingsService) Update(ctx context.Context, actorID uint, key, value, category, description string) (*models.SystemSetting, error) {
	if key == "" {
		return nil, errors.New("setting key is required")
	}

	oldValue := ""
	if existing, err := s.settings.Get(ctx, key); err == nil {
		oldValue = existing.Value
	}

	setting := &models.SystemSetting{
		Key:         key,
		Value:       value,
		Category:    category,
		Description: description,
		UpdatedBy:   &actorID,
	}

	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateByTag(ctx, settingsTag); err != nil {
		slog.Warn("settings cache invalidation failed", "error", err)
	}

	s.audit.LogSystemSettingChange(actorID, key, oldValue, value)

	return setting, nil
}
