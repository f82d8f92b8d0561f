package repository

import (
	"context"

	"github.com/hunet324/expertlink/internal/models"
)

// InteractionKind selects which per-user interaction a toggle operates on.
type InteractionKind string

const (
	InteractionLike     InteractionKind = "like"
	InteractionBookmark InteractionKind = "bookmark"
)

// ToggleResult reports the state after a toggle. NewCount is derived from the
// locked row's counter, never re-queried.
type ToggleResult struct {
	Active   bool
	NewCount int
}

type ContentRepository interface {
	Create(ctx context.Context, content *models.Content) error

	// FindPublished returns the content only if it is publicly visible.
	FindPublished(ctx context.Context, id uint) (*models.Content, error)

	ListPublished(ctx context.Context, category models.ContentCategory, page, limit int) ([]models.Content, int64, error)

	IncrementView(ctx context.Context, id uint) error

	// Toggle flips the (content, user) interaction row for kind and moves the
	// denormalized counter in lockstep, inside one transaction that holds a
	// pessimistic write lock on the content row. Returns ErrNotFound when the
	// content is missing or not published.
	Toggle(ctx context.Context, contentID, userID uint, kind InteractionKind) (*ToggleResult, error)
}
