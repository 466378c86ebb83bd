package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/mail"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/lettings-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const filesPrefix = "/files"

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(db, 5*time.Second)
	logging.Setup(cfg.LogLevel, pgLogHandler)

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	mailer := mail.New(cfg.MailRelayURL, cfg.MailRelayToken, cfg.MailFrom)

	var store storage.BlobStore
	if cfg.BlobBaseURL != "" {
		store = storage.NewHTTPStore(cfg.BlobBaseURL, cfg.BlobPublicURL, cfg.BlobToken)
	} else {
		local, err := storage.NewLocalStore(cfg.UploadDir, cfg.AppBaseURL+filesPrefix)
		if err != nil {
			slog.Error("upload dir unavailable", "dir", cfg.UploadDir, "error", err)
			os.Exit(1)
		}
		store = local
	}

	// Rate limiter storage: Redis when configured, memory otherwise
	var limiterStorage fiber.Storage
	if cfg.RedisAddr != "" {
		client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cache.Ping(ctx, client); err != nil {
			slog.Warn("redis unavailable, using in-memory rate limits", "addr", cfg.RedisAddr, "error", err)
			_ = client.Close()
		} else {
			limiterStorage = cache.NewRedisStorage(client, "lettings:limiter:")
		}
		cancel()
	}

	// Services
	authService := services.NewAuthService(db, cfg, mailer)
	propertyService := services.NewPropertyService(db)
	leaseService := services.NewLeaseService(db)
	tenantService := services.NewTenantService(db)
	ticketService := services.NewTicketService(db)
	documentService := services.NewDocumentService(db, store)

	metrics.MustRegister()

	// Fiber app
	bodyLimit := 4 * 1024 * 1024
	if cfg.MaxUploadBytes+1024*1024 > bodyLimit {
		bodyLimit = cfg.MaxUploadBytes + 1024*1024
	}
	app := fiber.New(fiber.Config{
		BodyLimit:    bodyLimit,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.Metrics())
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	if cfg.BlobBaseURL == "" {
		app.Static(filesPrefix, cfg.UploadDir)
	}

	// Routes
	routes.Setup(app, cfg, routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Health:   handlers.NewHealthHandler(db),
		Property: handlers.NewPropertyHandler(propertyService),
		Lease:    handlers.NewLeaseHandler(leaseService),
		Tenant:   handlers.NewTenantHandler(tenantService),
		Ticket:   handlers.NewTicketHandler(ticketService),
		Document: handlers.NewDocumentHandler(documentService, cfg.MaxUploadBytes),
	}, limiterStorage)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if limiterStorage != nil {
		if err := limiterStorage.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
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
		slog.Error("unhandled server error",
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"method", c.Method(),
			"path", c.Path(),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
