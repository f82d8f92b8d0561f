package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hunet324/expertlink/internal/dto"
	"github.com/hunet324/expertlink/internal/models"
)

// AdminRequired allows only center admins and super admins through.
// Must run after JWTProtected.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch models.UserType(CurrentUserType(c)) {
		case models.UserTypeCenterAdmin, models.UserTypeSuperAdmin:
			return c.Next()
		default:
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Forbidden: admin privileges required",
			})
		}
	}
}
