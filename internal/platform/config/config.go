package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	Port          string `validate:"required"`
	IsProduction  bool
	LogLevel      string `validate:"oneof=debug info warn error"`
	StorageDriver string `validate:"oneof=memory postgres"`

	// Database
	DatabaseURL    string `validate:"required_if=StorageDriver postgres"`
	EnableDBCheck  bool
	RunMigrations  bool
	MigrationsPath string

	// External services
	RateProviderURL       string `validate:"required,url"`
	TelegramBotToken      string
	TelegramAPIURL        string  `validate:"required,url"`
	TelegramRatePerSecond float64 `validate:"gte=0"`

	// Jobs
	TrackedPairs         []domain.Pair
	FetchSchedule        string `validate:"required"`
	NotifySchedule       string
	DailyDigestSchedule  string
	FetchSubscribedPairs bool
	CallTimeout          time.Duration `validate:"gt=0"`
	JobTimeout           time.Duration `validate:"gt=0"`
	WorkerPoolSize       int           `validate:"gte=1"`
	NotifyConcurrency    int           `validate:"gte=1"`
	RatePrecision        int           `validate:"gte=0,lte=12"`

	// Distributed job lock; disabled when RedisURL is empty.
	RedisURL   string
	JobLockTTL time.Duration `validate:"gt=0,gtefield=JobTimeout"`

	// HTTP API
	APIJWTSecret       string
	APIRateLimit       string `validate:"required"`
	CORSAllowedOrigins []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("RUN_MIGRATIONS", false)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("RATE_PROVIDER_URL", "https://api.frankfurter.app")
	v.SetDefault("TELEGRAM_BOT_TOKEN", "")
	v.SetDefault("TELEGRAM_API_URL", "https://api.telegram.org")
	v.SetDefault("TELEGRAM_RATE_PER_SECOND", 25)
	v.SetDefault("TRACKED_PAIRS", "EUR/USD,EUR/GBP")
	v.SetDefault("FETCH_SCHEDULE", "@every 1m")
	v.SetDefault("NOTIFY_SCHEDULE", "@every 1m")
	v.SetDefault("DAILY_DIGEST_SCHEDULE", "CRON_TZ=Europe/Vienna 0 9 * * *")
	v.SetDefault("FETCH_SUBSCRIBED_PAIRS", true)
	v.SetDefault("CALL_TIMEOUT", "8s")
	v.SetDefault("JOB_TIMEOUT", "5m")
	v.SetDefault("WORKER_POOL_SIZE", 8)
	v.SetDefault("NOTIFY_CONCURRENCY", 4)
	v.SetDefault("RATE_PRECISION", 4)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JOB_LOCK_TTL", "5m")
	v.SetDefault("API_JWT_SECRET", "")
	v.SetDefault("API_RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	// An empty NOTIFY_SCHEDULE or DAILY_DIGEST_SCHEDULE disables the job.
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	pairs, err := ParsePairList(v.GetString("TRACKED_PAIRS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRACKED_PAIRS: %w", err)
	}

	cfg := &Config{
		Port:                  v.GetString("PORT"),
		IsProduction:          v.GetBool("IS_PRODUCTION"),
		LogLevel:              strings.ToLower(v.GetString("LOG_LEVEL")),
		StorageDriver:         strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DatabaseURL:           v.GetString("PGSQL_URL"),
		EnableDBCheck:         v.GetBool("ENABLE_DB_CHECK"),
		RunMigrations:         v.GetBool("RUN_MIGRATIONS"),
		MigrationsPath:        v.GetString("MIGRATIONS_PATH"),
		RateProviderURL:       v.GetString("RATE_PROVIDER_URL"),
		TelegramBotToken:      v.GetString("TELEGRAM_BOT_TOKEN"),
		TelegramAPIURL:        v.GetString("TELEGRAM_API_URL"),
		TelegramRatePerSecond: v.GetFloat64("TELEGRAM_RATE_PER_SECOND"),
		TrackedPairs:          pairs,
		FetchSchedule:         v.GetString("FETCH_SCHEDULE"),
		NotifySchedule:        v.GetString("NOTIFY_SCHEDULE"),
		DailyDigestSchedule:   v.GetString("DAILY_DIGEST_SCHEDULE"),
		FetchSubscribedPairs:  v.GetBool("FETCH_SUBSCRIBED_PAIRS"),
		CallTimeout:           v.GetDuration("CALL_TIMEOUT"),
		JobTimeout:            v.GetDuration("JOB_TIMEOUT"),
		WorkerPoolSize:        v.GetInt("WORKER_POOL_SIZE"),
		NotifyConcurrency:     v.GetInt("NOTIFY_CONCURRENCY"),
		RatePrecision:         v.GetInt("RATE_PRECISION"),
		RedisURL:              v.GetString("REDIS_URL"),
		JobLockTTL:            v.GetDuration("JOB_LOCK_TTL"),
		APIJWTSecret:          v.GetString("API_JWT_SECRET"),
		APIRateLimit:          v.GetString("API_RATE_LIMIT"),
		CORSAllowedOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.TelegramBotToken == "" {
		slog.Warn("TELEGRAM_BOT_TOKEN not set. Notifications will fail to deliver.")
	}
	if cfg.APIJWTSecret == "" {
		slog.Warn("API_JWT_SECRET not set. The HTTP API is unauthenticated.")
	}
	if cfg.StorageDriver == StorageMemory {
		slog.Warn("STORAGE_DRIVER is memory. Data is lost on restart.")
	}

	return cfg, nil
}

// ParsePairList parses "EUR/USD,GBP-JPY" into distinct pairs, keeping order.
func ParsePairList(raw string) ([]domain.Pair, error) {
	var pairs []domain.Pair
	seen := make(map[domain.Pair]struct{})
	for _, item := range splitList(raw) {
		pair, err := domain.ParsePair(item)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[pair]; dup {
			continue
		}
		seen[pair] = struct{}{}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
