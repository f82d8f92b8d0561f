package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hunet324/expertlink/internal/dto"
	"github.com/hunet324/expertlink/internal/middleware"
	"github.com/hunet324/expertlink/internal/models"
	"github.com/hunet324/expertlink/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.authService.Register(c.Context(), services.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		UserType: models.UserType(req.UserType),
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		User:         dto.NewUserResponse(result.User),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.authService.Login(c.Context(), req.Email, req.Password, c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return unauthorized(c, err.Error())
		}
		return internalError(c)
	}

	return c.JSON(dto.AuthResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		User:         dto.NewUserResponse(result.User),
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.authService.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			return unauthorized(c, err.Error())
		}
		return internalError(c)
	}

	return c.JSON(dto.AuthResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		User:         dto.NewUserResponse(result.User),
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	if err := h.authService.Logout(c.Context(), userID); err != nil {
		return internalError(c)
	}

	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.NewPassword) < 8 {
		return badRequest(c, "New password must be at least 8 characters")
	}

	rotated, err := h.authService.ChangePassword(c.Context(), userID,
		req.CurrentPassword, req.NewPassword, req.RefreshToken,
		c.IP(), c.Get(fiber.HeaderUserAgent))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return unauthorized(c, "Current password is incorrect")
		case errors.Is(err, services.ErrPasswordReuse):
			return badRequest(c, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			return notFound(c, "User not found")
		default:
			return internalError(c)
		}
	}

	resp := fiber.Map{"message": "Password changed successfully"}
	if rotated != nil {
		resp["tokens"] = dto.TokenPairResponse{
			AccessToken:  rotated.AccessToken,
			RefreshToken: rotated.RefreshToken,
		}
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Heartbeat(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, "Unauthorized")
	}

	if err := h.authService.Heartbeat(c.Context(), userID); err != nil {
		return internalError(c)
	}
	return c.JSON(fiber.Map{"message": "ok"})
}

func (h *AuthHandler) OnlineUsers(c *fiber.Ctx) error {
	ids, err := h.authService.OnlineUsers(c.Context())
	if err != nil {
		return internalError(c)
	}

	return c.JSON(dto.OnlineUsersResponse{
		UserIDs: ids,
		Count:   len(ids),
		AsOf:    time.Now(),
	})
}
