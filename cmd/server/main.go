package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuckooblock/vendor-portal/config"
	"github.com/cuckooblock/vendor-portal/internal/app/controller"
	"github.com/cuckooblock/vendor-portal/internal/app/repository"
	"github.com/cuckooblock/vendor-portal/internal/app/service"
	"github.com/cuckooblock/vendor-portal/internal/db"
	"github.com/cuckooblock/vendor-portal/internal/middleware"
	"github.com/cuckooblock/vendor-portal/internal/router"
	"github.com/cuckooblock/vendor-portal/internal/scheduler"
	"github.com/cuckooblock/vendor-portal/internal/storage"
	"github.com/cuckooblock/vendor-portal/internal/websocket"
	"github.com/cuckooblock/vendor-portal/pkg/logger"
	"github.com/cuckooblock/vendor-portal/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting vendor portal", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Session revocation list
	tokens := redis.NewMemoryTokenStore()
	if cfg.Redis.Enabled {
		client, err := redis.Connect(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer client.Close()
		tokens = redis.NewTokenStore(client)
	} else {
		logger.Warn("Redis disabled, session revocations are kept in memory")
	}

	// Live review events
	hub := websocket.NewHub()
	go hub.Run(ctx)

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db.GetDB())
	profileRepo := repository.NewProfileRepository(db.GetDB())
	vendorRepo := repository.NewVendorRepository(db.GetDB())
	intakeRepo := repository.NewIntakeRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(accountRepo, profileRepo, tokens, cfg.Session.Secret, cfg.Session.TTL)
	accessService := service.NewAccessService(profileRepo)
	vendorService := service.NewVendorService(vendorRepo, hub)
	reviewService := service.NewReviewService(vendorRepo, accessService, hub)
	intakeService := service.NewIntakeService(intakeRepo, cfg.Intake.Persist)

	// Review reminder job
	reminders := scheduler.NewReviewReminderScheduler(cfg.Scheduler.ReviewReminderSpec, reviewService, hub)
	if err := reminders.Start(); err != nil {
		logger.Warn("Review reminder scheduler not started", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer reminders.Stop()
	}

	// Initialize controllers
	authController := controller.NewAuthController(authService, accessService, controller.CookieSettings{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.SecureCookie,
	})
	vendorController := controller.NewVendorController(vendorService)
	adminController := controller.NewAdminController(accessService, reviewService)
	intakeController := controller.NewIntakeController(intakeService)
	attachmentController := controller.NewAttachmentController(storage.NewS3Storage(ctx, cfg.S3))
	websocketController := controller.NewWebSocketController(hub, accessService, cfg.CORS.AllowedOrigins)
	pageController := controller.NewPageController(func(ctx context.Context) error {
		return db.Ping(ctx, db.GetDB())
	})

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authService, cfg.Session.CookieName)

	// Setup router
	r := router.NewRouter(
		authController,
		vendorController,
		adminController,
		intakeController,
		attachmentController,
		websocketController,
		pageController,
		authMiddleware,
		accessService,
		cfg,
	)
	engine, err := r.Setup()
	if err != nil {
		logger.Fatal("Failed to set up router", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
