package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/hunet324/expertlink/internal/dto"
	"github.com/hunet324/expertlink/internal/middleware"
	"github.com/hunet324/expertlink/internal/services"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) GetAll(c *fiber.Ctx) error {
	settings, err := h.settingsService.GetAll(c.Context())
	if err != nil {
		return internalError(c)
	}
	return c.JSON(settings)
}

func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	key := c.Params("key")
	setting, err := h.settingsService.Get(c.Context(), key)
	if err != nil {
		if errors.Is(err, services.ErrSettingNotFound) {
			return notFound(c, "Setting not found")
		}
		return internalError(c)
	}
	return c.JSON(setting)
}

func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	key := c.Params("key")
	var req dto.UpdateSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	setting, err := h.settingsService.Update(c.Context(), userID, key, req.Value, req.Category, req.Description)
	if err != nil {
		return badRequest(c, err.Error())
	}

	return c.JSON(setting)
}
