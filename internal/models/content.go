package models

import (
	"time"

	"gorm.io/gorm"
)

type ContentCategory string

const (
	CategoryMeditation ContentCategory = "meditation"
	CategoryCounseling ContentCategory = "counseling"
	CategoryPsychology ContentCategory = "psychology"
	CategoryWellness   ContentCategory = "wellness"
	CategoryNotice     ContentCategory = "notice"
)

type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
)

type Content struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Title         string          `gorm:"not null;size:255" json:"title"`
	Body          string          `gorm:"type:text" json:"body"`
	Category      ContentCategory `gorm:"size:30;not null;index" json:"category"`
	Status        ContentStatus   `gorm:"size:20;default:'draft';index" json:"status"`
	AuthorID      uint            `gorm:"not null;index" json:"author_id"`
	LikeCount     int             `gorm:"default:0" json:"like_count"`
	BookmarkCount int             `gorm:"default:0" json:"bookmark_count"`
	ViewCount     int             `gorm:"default:0" json:"view_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// ContentLike tracks which user liked which content. One row per (content, user).
type ContentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ContentID uint      `gorm:"not null;uniqueIndex:idx_content_likes_content_user" json:"content_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_content_likes_content_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Content   Content   `gorm:"foreignKey:ContentID;constraint:OnDelete:CASCADE" json:"-"`
}

// ContentBookmark mirrors ContentLike for the bookmark interaction.
type ContentBookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ContentID uint      `gorm:"not null;uniqueIndex:idx_content_bookmarks_content_user" json:"content_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_content_bookmarks_content_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	Content   Content   `gorm:"foreignKey:ContentID;constraint:OnDelete:CASCADE" json:"-"`
}
