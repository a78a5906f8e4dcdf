package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/homebudget/budget-backend/internal/config"
	"github.com/homebudget/budget-backend/internal/database"
	"github.com/homebudget/budget-backend/internal/jobs"
	"github.com/homebudget/budget-backend/internal/logging"
	"github.com/homebudget/budget-backend/internal/mail"
	"github.com/homebudget/budget-backend/internal/revocation"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
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

	// ERROR+ records are also batched into system_logs
	dbLogHandler := logging.NewDBHandler(db, 5*time.Second)
	logging.Tee(dbLogHandler)

	// Revocation registry: the database is authoritative, Redis only caches hits
	var registry revocation.Registry = revocation.NewDBRegistry(db)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unreachable, revocation checks will use the database", "error", err)
		}
		cancel()

		registry = revocation.NewCachedRegistry(registry, redisClient, cfg.RevocationCacheTTL)
		slog.Info("revocation cache enabled", "ttl", cfg.RevocationCacheTTL.String())
	}

	mailer := mail.New(cfg)

	// Sentry error tracking
	withSentry := false
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Env,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			withSentry = true
			defer sentry.Flush(2 * time.Second)
		}
	}

	app := newApp(cfg, db, registry, mailer, withSentry)

	// Scheduled maintenance
	scheduler := jobs.NewScheduler()
	if err := scheduler.Add("log_cleanup", cfg.LogCleanupSchedule, logging.CleanupJob(db, cfg.LogRetentionDays)); err != nil {
		slog.Error("failed to schedule job", "error", err)
		os.Exit(1)
	}
	if pruner, ok := registry.(revocation.Pruner); ok {
		if err := scheduler.Add("revocation_prune", cfg.RevocationPruneSchedule, revocation.PruneJob(pruner, time.Minute)); err != nil {
			slog.Error("failed to schedule job", "error", err)
			os.Exit(1)
		}
	}
	scheduler.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	scheduler.Stop(ctx)
	cancel()

	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
