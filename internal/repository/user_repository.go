package repository

import (
	"context"
	"time"

	"github.com/hunet324/expertlink/internal/models"
)

// UserRepository is the identity store. Password verification lives here so
// callers never touch the stored hash.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, user *models.User) error

	// ValidatePassword compares a plaintext candidate against the user's hash.
	ValidatePassword(user *models.User, password string) bool

	// ChangePassword verifies current before storing the new hash and rejects
	// reuse of the current password.
	ChangePassword(ctx context.Context, id uint, current, newPassword string) error

	UpdateLoginInfo(ctx context.Context, id uint, at time.Time, ip string) error
}
