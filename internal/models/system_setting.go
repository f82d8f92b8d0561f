package models

import "time"

// SystemSetting is a keyed admin-editable configuration row.
type SystemSetting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"not null;size:100;uniqueIndex" json:"key"`
	Value       string    `gorm:"type:text" json:"value"`
	Category    string    `gorm:"size:50;index" json:"category"`
	Description string    `gorm:"size:255" json:"description"`
	UpdatedBy   *uint     `json:"updated_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
