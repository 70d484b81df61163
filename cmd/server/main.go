// @title           Social Media Analytics Dashboard API
// @version         1.0.0
// @description     Dashboard API for brand social media analyses. It collects brand configurations and reference images, submits jobs to the analytics backend, polls them to completion and serves filtered results, reports and history.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"social-analytics-dashboard/docs"
	"social-analytics-dashboard/internal/analytics"
	"social-analytics-dashboard/internal/config"
	"social-analytics-dashboard/internal/database"
	"social-analytics-dashboard/internal/handlers"
	"social-analytics-dashboard/internal/services"
	"social-analytics-dashboard/internal/storage"
	"social-analytics-dashboard/internal/supabase"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err == nil {
		err = cfg.ValidateServer()
	}
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		if baseURL, err := url.Parse(cfg.BaseURL); err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := newJobStore(ctx, cfg, logger)
	if closer, ok := store.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	deps := services.SessionDeps{
		Client: analytics.NewClient(cfg.AnalyticsAPIBaseURL, cfg.AnalyticsAPIKey, cfg.AnalyticsTimeout),
		Poll: services.PollConfig{
			InitialDelay: cfg.PollInitialDelay,
			Interval:     cfg.PollInterval,
			BackoffStep:  cfg.PollBackoffStep,
			MaxBackoff:   cfg.PollMaxBackoff,
			MaxRetries:   cfg.PollMaxRetries,
		},
		Store:  store,
		Logger: logger,
	}

	if cfg.SupabaseEnabled() {
		supabaseClient, err := supabase.NewClient(cfg)
		if err != nil {
			logger.Warn("supabase client unavailable, lifecycle events disabled", "error", err)
		} else {
			deps.Events = supabaseClient.Events()
		}
	}

	archive, err := newReportArchive(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize report archive", "backend", cfg.ArchiveBackend, "error", err)
		os.Exit(1)
	}
	if archive != nil {
		deps.Archive = archive
		logger.Info("report archive enabled", "backend", cfg.ArchiveBackend)
	}

	manager := services.NewSessionManager(deps)
	go manager.RunJanitor(ctx, cfg.SessionTTL)
	history := services.NewHistoryService(deps.Client, store, deps.Archive, logger)
	router := handlers.NewRouter(cfg, manager, history, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "analytics_api", cfg.AnalyticsAPIBaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	manager.Shutdown()
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Environment == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// newJobStore runs migrations and returns the Postgres store when
// DATABASE_URL is set, and the in-memory store otherwise.
func newJobStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) services.JobStore {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, tracked analyses are kept in memory")
		return services.NewMemoryJobStore()
	}

	migrator, err := database.NewMigrator(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Warn("failed to initialize migrator", "error", err)
	} else {
		if err := migrator.Run(ctx); err != nil {
			logger.Warn("migration failed", "error", err)
		} else {
			logger.Info("migrations completed successfully")
		}
		migrator.Close()
	}

	dbClient, err := supabase.NewDatabaseClient(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Warn("failed to initialize database client, tracked analyses are kept in memory", "error", err)
		return services.NewMemoryJobStore()
	}
	return dbClient
}

func newReportArchive(ctx context.Context, cfg *config.Config) (services.ReportArchiver, error) {
	switch cfg.ArchiveBackend {
	case config.ArchiveSupabase:
		return supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	case config.ArchiveMinIO:
		return storage.NewMinIOClient(ctx, cfg)
	}
	return nil, nil
}
