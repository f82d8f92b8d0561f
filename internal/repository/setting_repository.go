package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hunet324/expertlink/internal/models"
)

type SettingRepository interface {
	GetAll(ctx context.Context) ([]models.SystemSetting, error)
	Get(ctx context.Context, key string) (*models.SystemSetting, error)
	Upsert(ctx context.Context, setting *models.SystemSetting) error
}

type gormSettingRepository struct {
	db *gorm.DB
}

func NewGormSettingRepository(db *gorm.DB) SettingRepository {
	return &gormSettingRepository{db: db}
}

func (r *gormSettingRepository) GetAll(ctx context.Context) ([]models.SystemSetting, error) {
	var settings []models.SystemSetting
	err := r.db.WithContext(ctx).Order("category, key").Find(&settings).Error
	return settings, err
}

func (r *gormSettingRepository) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	var setting models.SystemSetting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

func (r *gormSettingRepository) Upsert(ctx context.Context, setting *models.SystemSetting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "category", "description", "updated_by", "updated_at"}),
	}).Create(setting).Error
}
