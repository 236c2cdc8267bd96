package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	httpAdapter "github.com/kk0826-ai/adopstktstracker/internal/adapters/primary/http"
	mw "github.com/kk0826-ai/adopstktstracker/internal/adapters/primary/http/middleware"
	"github.com/kk0826-ai/adopstktstracker/internal/adapters/primary/websocket"
	"github.com/kk0826-ai/adopstktstracker/internal/adapters/secondary/jira"
	"github.com/kk0826-ai/adopstktstracker/internal/config"
	"github.com/kk0826-ai/adopstktstracker/internal/core/services"
	"github.com/kk0826-ai/adopstktstracker/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"project", cfg.Jira.ProjectKey,
		"since", cfg.Jira.SinceDate,
	)

	// 3. Initialize Real-time Components
	hub := websocket.NewHub(logger)
	go hub.Run()

	// 4. Initialize Rate Limiter
	var rateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   mw.DefaultRateLimiterConfig().CleanupInterval,
			TTL:               mw.DefaultRateLimiterConfig().TTL,
		})
	}

	// 5. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Ticket Source (Secondary Adapter)
	jiraClient := jira.NewClient(jira.Config{
		BaseURL:    cfg.Jira.BaseURL,
		UserEmail:  cfg.Jira.UserEmail,
		APIToken:   cfg.Jira.APIToken,
		ProjectKey: cfg.Jira.ProjectKey,
		SinceDate:  cfg.Jira.SinceDate,
		MaxResults: cfg.Jira.MaxResults,
		Timeout:    cfg.Jira.Timeout,
	}, logger)

	// Services (Core)
	snapshotCache := services.NewSnapshotCache(
		jiraClient,
		cfg.Jira.CacheTTL,
		logger,
		services.WithRefreshBroadcaster(hub),
	)
	reportService := services.NewReportService(snapshotCache, cfg.Report.Categories, cfg.Report.GoalPercent)

	// Handlers (Primary Adapters)
	reportHandler := httpAdapter.NewReportHandler(reportService, errorHandler, logger)
	snapshotHandler := httpAdapter.NewSnapshotHandler(snapshotCache, cfg.Jira.ProjectKey, cfg.Jira.SinceDate, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(jiraClient, snapshotCache, cfg.App.Version)

	// 6. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Apply rate limiting if enabled
	if rateLimiter != nil {
		r.Use(rateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket refresh feed
		r.Get("/ws", wsHandler.ServeHTTP)

		reportHandler.RegisterRoutes(r)
		r.Route("/snapshot", snapshotHandler.RegisterRoutes)
	})

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
