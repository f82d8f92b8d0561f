package handlers

import (
	"context"
	"errors"
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/hunet324/expertlink/internal/catalog"
	"github.com/hunet324/expertlink/internal/dto"
	"github.com/hunet324/expertlink/internal/middleware"
	"github.com/hunet324/expertlink/internal/models"
	"github.com/hunet324/expertlink/internal/services"
)

type ContentHandler struct {
	contentService *services.ContentService
}

func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

func (h *ContentHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	var req dto.CreateContentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	content, err := h.contentService.Create(c.Context(), userID, req.Title, req.Body,
		models.ContentCategory(req.Category), req.Publish)
	if err != nil {
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(content)
}

func (h *ContentHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	category := models.ContentCategory(c.Query("category"))

	result, err := h.contentService.List(c.Context(), category, page, limit)
	if err != nil {
		return badRequest(c, err.Error())
	}

	return c.JSON(dto.ContentListResponse{
		Items: result.Items,
		Total: result.Total,
		Page:  page,
		Limit: limit,
	})
}

func (h *ContentHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid content id")
	}

	content, err := h.contentService.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return notFound(c, "Content not found")
		}
		return internalError(c)
	}

	return c.JSON(content)
}

func (h *ContentHandler) ToggleLike(c *fiber.Ctx) error {
	return h.toggle(c, h.contentService.ToggleLike)
}

func (h *ContentHandler) ToggleBookmark(c *fiber.Ctx) error {
	return h.toggle(c, h.contentService.ToggleBookmark)
}

func (h *ContentHandler) toggle(c *fiber.Ctx, fn func(ctx context.Context, contentID, userID uint) (*services.InteractionResult, error)) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return badRequest(c, "Invalid content id")
	}

	result, err := fn(c.Context(), uint(id), userID)
	if err != nil {
		if errors.Is(err, services.ErrContentNotFound) {
			return notFound(c, "Content not found")
		}
		return internalError(c)
	}

	return c.JSON(dto.InteractionResponse{
		Message: result.Message,
		Active:  result.Active,
		Count:   result.NewCount,
	})
}

func (h *ContentHandler) Categories(c *fiber.Ctx) error {
	resp := make([]dto.CategoryResponse, 0, len(catalog.AllCategories))
	for _, cat := range catalog.AllCategories {
		d, ok := catalog.Lookup(cat)
		if !ok {
			continue
		}
		resp = append(resp, dto.CategoryResponse{
			Category: string(cat),
			Label:    d.Label,
			Icon:     d.Icon,
			Order:    d.Order,
		})
	}
	sort.Slice(resp, func(i, j int) bool { return resp[i].Order < resp[j].Order })
	return c.JSON(resp)
}
