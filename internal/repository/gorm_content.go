package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hunet324/expertlink/internal/models"
)

type gormContentRepository struct {
	db *gorm.DB
}

func NewGormContentRepository(db *gorm.DB) ContentRepository {
	return &gormContentRepository{db: db}
}

func (r *gormContentRepository) Create(ctx context.Context, content *models.Content) error {
	return r.db.WithContext(ctx).Create(content).Error
}

func (r *gormContentRepository) FindPublished(ctx context.Context, id uint) (*models.Content, error) {
	var content models.Content
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.ContentStatusPublished).
		First(&content).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &content, nil
}

func (r *gormContentRepository) ListPublished(ctx context.Context, category models.ContentCategory, page, limit int) ([]models.Content, int64, error) {
	var contents []models.Content
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Content{}).
		Where("status = ?", models.ContentStatusPublished)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&contents).Error
	if err != nil {
		return nil, 0, err
	}

	return contents, total, nil
}

func (r *gormContentRepository) IncrementView(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Content{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// Toggle locks the content row FOR UPDATE for the whole transaction. Two
// concurrent toggles on the same content serialize here, so the counter can
// never absorb a stale increment. Only one row is ever locked per call, so
// there is no deadlock ordering to worry about.
func (r *gormContentRepository) Toggle(ctx context.Context, contentID, userID uint, kind InteractionKind) (*ToggleResult, error) {
	result := &ToggleResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var content models.Content
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status = ?", contentID, models.ContentStatusPublished).
			First(&content).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		switch kind {
		case InteractionLike:
			return r.toggleLike(tx, &content, userID, result)
		case InteractionBookmark:
			return r.toggleBookmark(tx, &content, userID, result)
		default:
			return errors.New("unknown interaction kind: " + string(kind))
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *gormContentRepository) toggleLike(tx *gorm.DB, content *models.Content, userID uint, result *ToggleResult) error {
	var existing models.ContentLike
	err := tx.Where("content_id = ? AND user_id = ?", content.ID, userID).First(&existing).Error
	if err == nil {
		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		result.Active = false
		result.NewCount = content.LikeCount - 1
		return tx.Model(content).UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	like := models.ContentLike{ContentID: content.ID, UserID: userID}
	if err := tx.Create(&like).Error; err != nil {
		return err
	}
	result.Active = true
	result.NewCount = content.LikeCount + 1
	return tx.Model(content).UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
}

func (r *gormContentRepository) toggleBookmark(tx *gorm.DB, content *models.Content, userID uint, result *ToggleResult) error {
	var existing models.ContentBookmark
	err := tx.Where("content_id = ? AND user_id = ?", content.ID, userID).First(&existing).Error
	if err == nil {
		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		result.Active = false
		result.NewCount = content.BookmarkCount - 1
		return tx.Model(content).UpdateColumn("bookmark_count", gorm.Expr("bookmark_count - 1")).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	bookmark := models.ContentBookmark{ContentID: content.ID, UserID: userID}
	if err := tx.Create(&bookmark).Error; err != nil {
		return err
	}
	result.Active = true
	result.NewCount = content.BookmarkCount + 1
	return tx.Model(content).UpdateColumn("bookmark_count", gorm.Expr("bookmark_count + 1")).Error
}
