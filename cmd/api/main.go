package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AZ-BB/dutch-spinner/internal/config"
	"github.com/AZ-BB/dutch-spinner/internal/handler"
	"github.com/AZ-BB/dutch-spinner/internal/repository"
	"github.com/AZ-BB/dutch-spinner/internal/service"
	"github.com/AZ-BB/dutch-spinner/internal/validator"
	"github.com/AZ-BB/dutch-spinner/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Ensure tables and constraints exist
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database schema")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Dutch Spinner",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit, CSV uploads stay small
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	// Initialize validator with custom rules
	validate := validator.New()

	// Initialize components (layered architecture)
	couponRepo := repository.NewCouponRepository(pool)
	participantRepo := repository.NewParticipantRepository(pool)
	spinService := service.NewSpinService(pool, couponRepo, participantRepo)
	participantService := service.NewParticipantService(participantRepo)
	inventoryService := service.NewInventoryService(pool, couponRepo)

	registerHandler := handler.NewRegisterHandler(participantService, validate)
	spinHandler := handler.NewSpinHandler(spinService, validate)
	prizeHandler := handler.NewPrizeHandler(inventoryService)
	adminCouponHandler := handler.NewAdminCouponHandler(inventoryService, validate)
	adminParticipantHandler := handler.NewAdminParticipantHandler(participantService)

	// Health handler
	healthHandler := handler.NewHealthHandler(pool)
	app.Get("/health", healthHandler.Check)

	// Public routes
	app.Post("/api/register", registerHandler.Register)
	app.Post("/api/spin", spinHandler.Spin)
	app.Get("/api/prizes", prizeHandler.List)

	// Admin routes behind basic auth. Without configured credentials the
	// whole group answers 401.
	admin := app.Group("/api/admin")
	if cfg.Admin.Enabled() {
		admin.Use(basicauth.New(basicauth.Config{
			Users: map[string]string{cfg.Admin.Username: cfg.Admin.Password},
		}))
	} else {
		log.Warn().Msg("admin credentials not configured, admin API disabled")
		admin.Use(func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		})
	}
	admin.Get("/coupons", adminCouponHandler.ListCoupons)
	admin.Post("/coupons", adminCouponHandler.ImportCoupons)
	admin.Post("/coupons/import", adminCouponHandler.ImportCouponsCSV)
	admin.Delete("/coupons/:id", adminCouponHandler.DeleteCoupon)
	admin.Get("/participants", adminParticipantHandler.ListParticipants)
	admin.Get("/participants/export", adminParticipantHandler.ExportParticipants)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
