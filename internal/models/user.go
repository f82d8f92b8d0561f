package models

import (
	"time"

	"gorm.io/gorm"
)

type UserType string

const (
	UserTypeGeneral     UserType = "general"
	UserTypeExpert      UserType = "expert"
	UserTypeCenterAdmin UserType = "center_admin"
	UserTypeSuperAdmin  UserType = "super_admin"
)

type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusWithdrawn UserStatus = "withdrawn"
)

type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	Name        string         `gorm:"size:100" json:"name"`
	UserType    UserType       `gorm:"size:20;default:'general';index" json:"user_type"`
	Status      UserStatus     `gorm:"size:20;default:'pending';index" json:"status"`
	CenterID    *uint          `gorm:"index" json:"center_id,omitempty"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	LastLoginIP string         `gorm:"size:45" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CanLogin reports whether the account state permits authentication.
// Pending accounts may log in so email verification can finish in-session.
func (u *User) CanLogin() bool {
	return u.Status == UserStatusActive || u.Status == UserStatusPending
}
