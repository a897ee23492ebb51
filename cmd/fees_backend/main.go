package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/school_fees_ledger/internal/adapters/analytics"
	"github.com/SscSPs/school_fees_ledger/internal/adapters/lock"
	"github.com/SscSPs/school_fees_ledger/internal/adapters/messaging"
	"github.com/SscSPs/school_fees_ledger/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/school_fees_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/school_fees_ledger/internal/core/services"
	"github.com/SscSPs/school_fees_ledger/internal/handlers"
	"github.com/SscSPs/school_fees_ledger/internal/middleware"
	"github.com/SscSPs/school_fees_ledger/internal/platform/clock"
	"github.com/SscSPs/school_fees_ledger/internal/platform/config"
	"github.com/SscSPs/school_fees_ledger/internal/platform/scheduler"
	"github.com/SscSPs/school_fees_ledger/internal/repositories/database/memory"
	"github.com/SscSPs/school_fees_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/school_fees_ledger/pkg/cache"
	"github.com/SscSPs/school_fees_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	smemory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// @title School Fees Ledger API
// @version 1.0
// @description Invoices, payments, balances and fee reminders for a school.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepos()

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("Failed to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cache.CloseRedisClient(redisClient)

	tracker := analytics.NewPosthogTracker(cfg.PostHogAPIKey, cfg.PostHogEndpoint, logger)
	defer tracker.Close()

	container := services.NewServiceContainer(
		cfg,
		repos,
		setupMessaging(cfg, logger),
		setupLocker(redisClient),
		services.WithEventTracker(tracker),
	)

	rateLimiter, err := setupRateLimiter(cfg, redisClient)
	if err != nil {
		logger.Error("Failed to initialize rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("Authorization")
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var eventTracker gateways.EventTracker
	if tracker.IsInitialized() {
		eventTracker = tracker
	}
	handlers.RegisterRoutes(r, cfg, container, eventTracker, middleware.RateLimit(rateLimiter))

	reminderScheduler, err := scheduler.New(cfg.ReminderCron, container.Reminder, cfg.ReminderTimeout, logger)
	if err != nil {
		logger.Error("Failed to initialize reminder scheduler", slog.String("error", err.Error()))
		os.Exit(1)
	}
	reminderScheduler.Start()
	logger.Info("Reminder scheduler started", slog.String("schedule", cfg.ReminderCron))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reminderScheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
	logger.Info("Server exited")
}

// setupRepositories opens the configured storage driver. The returned func
// releases it.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return memory.New().Provider(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	applied, err := database.RunMigrations(cfg.DatabaseURL, "file://migrations")
	if err != nil {
		database.ClosePgxPool(dbPool)
		return portsrepo.RepositoryProvider{}, nil, err
	}
	if applied {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}

	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

// setupMessaging orders the reminder channels: email first, then SMS. Without
// provider credentials reminders are only logged.
func setupMessaging(cfg *config.Config, logger *slog.Logger) *messaging.Gateway {
	var channels []messaging.Channel
	if cfg.SendGridAPIKey != "" {
		channels = append(channels, messaging.NewEmailChannel(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFromAddress))
	}
	if cfg.TwilioAccountSID != "" {
		channels = append(channels, messaging.NewSMSChannel(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber))
	}
	if len(channels) == 0 {
		channels = append(channels, messaging.LogChannel{})
	}
	for _, ch := range channels {
		logger.Info("Reminder channel enabled", slog.String("channel", ch.Name()))
	}
	return messaging.NewGateway(channels...)
}

func setupLocker(client *redis.Client) gateways.Locker {
	if client != nil {
		return lock.NewRedisLocker(client)
	}
	return lock.NewLocalLocker(clock.New())
}

func setupRateLimiter(cfg *config.Config, client *redis.Client) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return limiter.New(smemory.NewStore(), rate), nil
	}
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: "fees:ratelimit"})
	if err != nil {
		return nil, err
	}
	return limiter.New(store, rate), nil
}
