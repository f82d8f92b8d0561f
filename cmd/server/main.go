package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/hunet324/expertlink/internal/auth"
	"github.com/hunet324/expertlink/internal/cache"
	"github.com/hunet324/expertlink/internal/catalog"
	"github.com/hunet324/expertlink/internal/config"
	"github.com/hunet324/expertlink/internal/database"
	"github.com/hunet324/expertlink/internal/handlers"
	"github.com/hunet324/expertlink/internal/logging"
	"github.com/hunet324/expertlink/internal/middleware"
	"github.com/hunet324/expertlink/internal/repository"
	"github.com/hunet324/expertlink/internal/routes"
	"github.com/hunet324/expertlink/internal/services"
	"github.com/hunet324/expertlink/internal/store"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		slog.Error("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET environment variables are required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Category descriptors must be complete before serving anything.
	if err := catalog.Validate(); err != nil {
		slog.Error("content category catalog invalid", "error", err)
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Key-value store (refresh tokens, presence, cache)
	kv, err := store.NewRedisStore(cfg)
	if err != nil {
		slog.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Core components
	appCache := cache.New(kv, cfg.CacheKeyPrefix, cfg.CacheEnabled)
	signer := auth.NewSigner(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	tokenStore := auth.NewTokenStore(kv, cfg.JWTRefreshExpiry)
	presence := auth.NewPresence(kv, cfg.PresenceTTL)

	sweepDone := make(chan struct{})
	presence.StartSweeper(cfg.PresenceSweep, sweepDone)

	// Repositories
	userRepo := repository.NewGormUserRepository(database.DB)
	contentRepo := repository.NewGormContentRepository(database.DB)
	settingRepo := repository.NewGormSettingRepository(database.DB)

	// Services
	auditService := services.NewAuditService(database.DB)
	authService := services.NewAuthService(userRepo, signer, tokenStore, presence, auditService)
	contentService := services.NewContentService(contentRepo, appCache)
	settingsService := services.NewSettingsService(settingRepo, appCache, auditService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	contentHandler := handlers.NewContentHandler(contentService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	healthHandler := handlers.NewHealthHandler(kv)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, authHandler, contentHandler, settingsHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	close(sweepDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if err := kv.Close(); err != nil {
		slog.Error("redis close error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
