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

	"github.com/SscSPs/currency_rates_bot/internal/adapters/lock"
	"github.com/SscSPs/currency_rates_bot/internal/adapters/messaging/telegram"
	"github.com/SscSPs/currency_rates_bot/internal/adapters/providers/frankfurter"
	portsrepo "github.com/SscSPs/currency_rates_bot/internal/core/ports/repositories"
	"github.com/SscSPs/currency_rates_bot/internal/core/services"
	"github.com/SscSPs/currency_rates_bot/internal/handlers"
	"github.com/SscSPs/currency_rates_bot/internal/jobs"
	"github.com/SscSPs/currency_rates_bot/internal/metrics"
	"github.com/SscSPs/currency_rates_bot/internal/middleware"
	"github.com/SscSPs/currency_rates_bot/internal/platform/config"
	"github.com/SscSPs/currency_rates_bot/internal/platform/logging"
	"github.com/SscSPs/currency_rates_bot/internal/repositories/database/memory"
	"github.com/SscSPs/currency_rates_bot/internal/repositories/database/pgsql"
	"github.com/SscSPs/currency_rates_bot/internal/scheduler"
	"github.com/SscSPs/currency_rates_bot/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Service stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	healthChecks := map[string]handlers.HealthCheck{}

	// --- Storage ---
	var repos portsrepo.RepositoryProvider
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		if cfg.RunMigrations {
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
				return err
			}
		}
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return err
		}
		defer dbPool.Close()
		logger.Info("Database connection pool established.")
		repos = pgsql.NewRepositoryProvider(dbPool)
		healthChecks["database"] = dbPool.Ping
	default:
		repos = memory.NewRepositoryProvider()
	}

	// --- Redis (optional): distributed job lock and shared rate limiter ---
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := lock.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		redisClient = client
		healthChecks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		logger.Info("Redis connected, distributed job lock enabled.")
	}

	// --- Outbound adapters ---
	provider := frankfurter.NewClient(cfg.RateProviderURL, cfg.CallTimeout, logger)
	sender := telegram.NewClient(telegram.Config{
		APIURL:            cfg.TelegramAPIURL,
		Token:             cfg.TelegramBotToken,
		Timeout:           cfg.CallTimeout,
		MessagesPerSecond: cfg.TelegramRatePerSecond,
	}, logger)

	// --- Services ---
	svcOpts := []services.Option{services.WithLogger(logger), services.WithMetrics(m)}
	serviceContainer := services.NewServiceContainer(cfg, repos, provider, sender, svcOpts...)
	digestNotifier := services.NewNotifierService(sender, services.DailyDigestTitle, cfg.RatePrecision, cfg.CallTimeout, svcOpts...)

	// --- Scheduler ---
	engineOpts := []scheduler.Option{
		scheduler.WithLogger(logger),
		scheduler.WithMetrics(m),
		scheduler.WithWorkerPool(cfg.WorkerPoolSize),
	}
	if redisClient != nil {
		engineOpts = append(engineOpts, scheduler.WithLocker(lock.NewRedisLock(redisClient, cfg.JobLockTTL)))
	}
	engine := scheduler.NewEngine(engineOpts...)

	trigger, err := jobs.Register(engine, cfg, jobs.Deps{
		Services:       serviceContainer,
		Repos:          repos,
		DigestNotifier: digestNotifier,
		Metrics:        m,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	engine.Start(ctx)
	defer engine.Stop()

	// --- HTTP API ---
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	limiterInstance, err := middleware.NewRateLimiter(cfg.APIRateLimit, redisClient)
	if err != nil {
		return err
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, handlers.RouteDeps{
		FetchTrigger: trigger,
		Jobs:         engine,
		Gatherer:     reg,
		Limiter:      limiterInstance,
		HealthChecks: healthChecks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", "X-Request-ID")
	c.ExposeHeaders = []string{"X-Request-ID"}
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return c
}
