package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/persona_ledger/internal/adapters/cache/redis"
	"github.com/SscSPs/persona_ledger/internal/adapters/database/pgsql"
	"github.com/SscSPs/persona_ledger/internal/core/events"
	portssvc "github.com/SscSPs/persona_ledger/internal/core/ports/services"
	"github.com/SscSPs/persona_ledger/internal/core/services"
	"github.com/SscSPs/persona_ledger/internal/handlers"
	"github.com/SscSPs/persona_ledger/internal/middleware"
	"github.com/SscSPs/persona_ledger/internal/platform/config"
	"github.com/SscSPs/persona_ledger/internal/platform/metrics"
	"github.com/SscSPs/persona_ledger/internal/utils"
	"github.com/SscSPs/persona_ledger/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Persona Ledger API
// @version 1.0
// @description Persona-addressed coinhouse accounts and property rentals.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		return err
	}

	// --- Ambient infrastructure ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	bus := events.NewBus(logger, events.NewAuditLogSubscriber(logger))
	if posthogClient.IsInitialized() {
		bus.Subscribe(posthogClient)
	}

	containerOpts := []services.ContainerOption{
		services.WithEventPublisher(bus),
		services.WithMetrics(appMetrics),
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		// The cache is optional; descriptors fall back to the database.
		logger.Warn("Redis unavailable, persona descriptors will not be cached", slog.String("error", err.Error()))
	} else if redisClient != nil {
		defer redisClient.Close()
		containerOpts = append(containerOpts, services.WithPersonaCache(
			redis.NewDescriptorCache(redisClient, redis.WithTTL(cfg.PersonaCacheTTL))))
		logger.Info("Persona descriptor cache enabled", slog.Duration("ttl", cfg.PersonaCacheTTL))
	}

	serviceContainer := services.NewServiceContainer(pgsql.NewRepositoryProvider(dbPool), containerOpts...)

	// --- HTTP ---
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, rateLimiter, metricsHandler); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		return server.Shutdown(shutdownCtx)
	})

	if cfg.EvictionEnabled {
		g.Go(func() error {
			runEvictionLoop(gctx, serviceContainer.Evictions, cfg.EvictionInterval, logger)
			return nil
		})
	}

	return g.Wait()
}

// runEvictionLoop sweeps once per interval until ctx is cancelled.
func runEvictionLoop(ctx context.Context, scheduler portssvc.EvictionSchedulerSvc, interval time.Duration, logger *slog.Logger) {
	logger = logger.With(slog.String("component", services.EvictionProcessName))
	logger.Info("Eviction scheduler started", slog.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Eviction scheduler stopped")
			return
		case <-ticker.C:
			report, err := scheduler.ExecuteEvictionCycle(middleware.WithLogger(ctx, logger))
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Eviction cycle failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("Eviction cycle finished",
				slog.Int("evaluated", report.Evaluated),
				slog.Int("evicted", len(report.Evicted)),
				slog.Int("failed", len(report.Failed)),
			)
		}
	}
}

func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
