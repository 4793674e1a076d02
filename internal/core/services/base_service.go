package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/metrics"
	"github.com/SscSPs/currency_rates_bot/internal/platform/logging"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Now is the clock used for timestamps; overridable in tests.
	Now func() time.Time
}

// Option is a functional option shared by the service constructors.
type Option func(*BaseService)

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(s *BaseService) {
		s.Logger = logger
	}
}

// WithMetrics enables Prometheus recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *BaseService) {
		s.Metrics = m
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *BaseService) {
		s.Now = now
	}
}

func newBaseService(opts []Option) BaseService {
	base := BaseService{Logger: slog.Default(), Now: time.Now}
	for _, opt := range opts {
		opt(&base)
	}
	return base
}

// GetLogger gets the logger from context or returns the service logger
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.Logger)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// withTimeout bounds a single outbound call. A zero timeout only inherits ctx.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
