package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/hunet324/expertlink/internal/config"
	"github.com/hunet324/expertlink/internal/handlers"
	"github.com/hunet324/expertlink/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	contentHandler *handlers.ContentHandler,
	settingsHandler *handlers.SettingsHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit against credential stuffing
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Auth — protected
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Put("/auth/password", middleware.JWTProtected(cfg), authHandler.ChangePassword)
	api.Post("/auth/heartbeat", middleware.JWTProtected(cfg), authHandler.Heartbeat)

	// Content — public reads
	api.Get("/contents", contentHandler.List)
	api.Get("/contents/categories", contentHandler.Categories)
	api.Get("/contents/:id", contentHandler.Get)

	// Content — protected interactions
	api.Post("/contents/:id/like", middleware.JWTProtected(cfg), contentHandler.ToggleLike)
	api.Post("/contents/:id/bookmark", middleware.JWTProtected(cfg), contentHandler.ToggleBookmark)

	// Settings — reads are public, writes admin-only
	api.Get("/settings", settingsHandler.GetAll)
	api.Get("/settings/:key", settingsHandler.Get)

	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired())
	admin.Put("/settings/:key", settingsHandler.Update)
	admin.Post("/contents", contentHandler.Create)
	admin.Get("/online-users", authHandler.OnlineUsers)
}
