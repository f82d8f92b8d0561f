package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hunet324/expertlink/internal/database"
	"github.com/hunet324/expertlink/internal/dto"
	"github.com/hunet324/expertlink/internal/store"
)

type HealthHandler struct {
	kv store.Store
}

func NewHealthHandler(kv store.Store) *HealthHandler {
	return &HealthHandler{kv: kv}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "ok",
		KV:        "ok",
	}

	if err := database.Ping(); err != nil {
		resp.Status = "degraded"
		resp.DB = "unreachable"
	}
	if err := h.kv.Ping(c.Context()); err != nil {
		resp.Status = "degraded"
		resp.KV = "unreachable"
	}

	code := fiber.StatusOK
	if resp.Status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(resp)
}
