package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hunet324/expertlink/internal/cache"
	"github.com/hunet324/expertlink/internal/catalog"
	"github.com/hunet324/expertlink/internal/models"
	"github.com/hunet324/expertlink/internal/repository"
)

var ErrContentNotFound = errors.New("content not found")

const (
	contentListTag  = "content:list"
	contentCacheTTL = 5 * time.Minute
)

func contentTag(id uint) string {
	return fmt.Sprintf("content:%d", id)
}

// ContentPage is the cacheable shape of a content list read.
type ContentPage struct {
	Items []models.Content `json:"items"`
	Total int64            `json:"total"`
}

// InteractionResult reports a toggle outcome. NewCount is computed inside the
// locked transaction and matches what a fresh read would return.
type InteractionResult struct {
	Message  string `json:"message"`
	Active   bool   `json:"active"`
	NewCount int    `json:"new_count"`
}

type ContentService struct {
	contents repository.ContentRepository
	cache    *cache.Cache
}

func NewContentService(contents repository.ContentRepository, c *cache.Cache) *ContentService {
	return &ContentService{contents: contents, cache: c}
}

func (s *ContentService) Create(ctx context.Context, authorID uint, title, body string, category models.ContentCategory, publish bool) (*models.Content, error) {
	if title == "" {
		return nil, errors.New("title is required")
	}
	if !catalog.IsValid(category) {
		return nil, fmt.Errorf("unknown content category: %q", category)
	}

	status := models.ContentStatusDraft
	if publish {
		status = models.ContentStatusPublished
	}

	content := &models.Content{
		Title:    title,
		Body:     body,
		Category: category,
		Status:   status,
		AuthorID: authorID,
	}

	if err := s.contents.Create(ctx, content); err != nil {
		return nil, err
	}

	if publish {
		s.invalidate(ctx, contentListTag)
	}

	return content, nil
}

func (s *ContentService) Get(ctx context.Context, id uint) (*models.Content, error) {
	// View count bumps are deliberately outside the cached read; slightly
	// stale counts in cached payloads are acceptable.
	if err := s.contents.IncrementView(ctx, id); err != nil {
		slog.Warn("view count increment failed", "content_id", id, "error", err)
	}

	key := fmt.Sprintf("content:detail:%d", id)
	tags := []string{contentTag(id), contentListTag}

	content, err := cache.GetOrSet(ctx, s.cache, key, contentCacheTTL, tags, func(ctx context.Context) (*models.Content, error) {
		c, err := s.contents.FindPublished(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return c, err
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (s *ContentService) List(ctx context.Context, category models.ContentCategory, page, limit int) (*ContentPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if category != "" && !catalog.IsValid(category) {
		return nil, fmt.Errorf("unknown content category: %q", category)
	}

	key := fmt.Sprintf("content:list:%s:%d:%d", category, page, limit)

	return cache.GetOrSet(ctx, s.cache, key, contentCacheTTL, []string{contentListTag}, func(ctx context.Context) (*ContentPage, error) {
		items, total, err := s.contents.ListPublished(ctx, category, page, limit)
		if err != nil {
			return nil, err
		}
		return &ContentPage{Items: items, Total: total}, nil
	})
}

func (s *ContentService) ToggleLike(ctx context.Context, contentID, userID uint) (*InteractionResult, error) {
	return s.toggle(ctx, contentID, userID, repository.InteractionLike)
}

func (s *ContentService) ToggleBookmark(ctx context.Context, contentID, userID uint) (*InteractionResult, error) {
	return s.toggle(ctx, contentID, userID, repository.InteractionBookmark)
}

func (s *ContentService) toggle(ctx context.Context, contentID, userID uint, kind repository.InteractionKind) (*InteractionResult, error) {
	result, err := s.contents.Toggle(ctx, contentID, userID, kind)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("interaction toggle failed: %w", err)
	}

	// Commit succeeded; drop the cached detail and list views so the next
	// read reflects the new counter.
	s.invalidate(ctx, contentTag(contentID))
	s.invalidate(ctx, contentListTag)

	message := string(kind) + " removed"
	if result.Active {
		message = string(kind) + " added"
	}

	return &InteractionResult{
		Message:  message,
		Active:   result.Active,
		NewCount: result.NewCount,
	}, nil
}

func (s *ContentService) invalidate(ctx context.Context, tag string) {
	if err := s.cache.InvalidateByTag(ctx, tag); err != nil {
		slog.Warn("cache invalidation failed", "tag", tag, "error", err)
	}
}
