// cmd/api/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dangerclosesec/greenhug/internal/auth"
	"github.com/dangerclosesec/greenhug/internal/config"
	"github.com/dangerclosesec/greenhug/internal/database"
	"github.com/dangerclosesec/greenhug/internal/email"
	"github.com/dangerclosesec/greenhug/internal/handler"
	"github.com/dangerclosesec/greenhug/internal/metrics"
	"github.com/dangerclosesec/greenhug/internal/repository"
	"github.com/dangerclosesec/greenhug/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     parseLevel(cfg.LogLevel),
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   a.Key,
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	// Initialize database
	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	// Initialize repositories
	tx := repository.NewGormTransactor(db)
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	impactRepo := repository.NewImpactRepository(db)
	auditLogRepo := repository.NewImpactAuditLogRepository(db)

	// Initialize auth services
	passwordHasher := auth.NewPasswordHasher()
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	// Initialize cache service
	cacheService := service.NewCacheService(service.CacheConfig{
		TTL:         cfg.Cache.RankingTTL,
		CleanupFreq: cfg.Cache.CleanupFreq,
	})
	defer cacheService.Close()

	// Unclassified metric review notices are optional
	var notifier service.ReviewNotifier
	if cfg.Review.Enabled {
		emailService, err := email.NewEmailService(cfg, email.Provider(cfg.Review.Provider))
		if err != nil {
			return fmt.Errorf("initializing email service: %w", err)
		}
		notifier = service.NewEmailReviewNotifier(emailService, cfg.Review.Recipient)
	}

	// Initialize services
	auditLogService := service.NewImpactAuditLogService(auditLogRepo)
	aggregator := service.NewImpactAggregator(impactRepo, tx, auditLogService, cacheService, m, logger)
	companyService := service.NewCompanyService(companyRepo, aggregator)
	projectService := service.NewProjectService(projectRepo, companyRepo, tx, aggregator, notifier, logger)
	rankingService := service.NewRankingService(impactRepo, companyRepo, projectRepo, aggregator, cacheService, m)
	userService := service.NewUserService(userRepo, tx, passwordHasher, tokenManager)

	if cfg.Reconcile.Enabled {
		reconciler := service.NewImpactReconciliationService(companyRepo, projectRepo, aggregator, cfg.Reconcile.Interval, logger)
		reconciler.SetBatchSize(cfg.Reconcile.BatchSize)
		reconciler.Start()
		defer reconciler.Stop()
	}

	// Create router
	router := handler.NewRouter(handler.Handlers{
		Auth:    handler.NewAuthHandler(userService),
		Company: handler.NewCompanyHandler(companyService, projectService),
		Project: handler.NewProjectHandler(projectService),
		Impact:  handler.NewImpactHandler(aggregator, companyService, rankingService, auditLogService),
		Ranking: handler.NewRankingHandler(rankingService),
		User:    handler.NewUserHandler(userService),
	}, handler.RouterConfig{
		TokenManager:   tokenManager,
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: 30 * time.Second,
		Metrics:        m,
		MetricsPath:    cfg.Metrics.Path,
	})

	// Create server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server error channel
	serverErrors := make(chan error, 1)

	// Start server
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port, "metrics", cfg.Metrics.Enabled)
		serverErrors <- srv.ListenAndServe()
	}()

	// Shutdown channel
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Wait for shutdown or error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutdown started", "signal", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Gracefully shutdown the server
		if err := srv.Shutdown(ctx); err != nil {
			// If shutdown times out, forcefully close
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
