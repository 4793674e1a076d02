package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/apperrors"
	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	portssvc "github.com/SscSPs/currency_rates_bot/internal/core/ports/services"
	"github.com/SscSPs/currency_rates_bot/internal/platform/logging"
	"github.com/SscSPs/currency_rates_bot/internal/scheduler"
)

// FetchRateJob fetches one pair per run. A failed fetch is returned to the
// scheduler; the next tick is the retry.
func FetchRateJob(fetcher portssvc.RateFetcherSvc, pair domain.Pair) scheduler.JobFunc {
	return func(ctx context.Context) error {
		obs, err := fetcher.FetchRate(ctx, pair.Base.String(), pair.Target.String())
		if err != nil {
			var fetchErr *apperrors.FetchError
			if errors.As(err, &fetchErr) {
				return fmt.Errorf("fetch %s failed (%s): %w", pair, fetchErr.Kind, err)
			}
			return fmt.Errorf("fetch %s failed: %w", pair, err)
		}
		logging.FromContext(ctx).Debug("Stored rate", slog.String("pair", pair.String()), slog.String("rate", obs.Value.String()))
		return nil
	}
}

// Runner is the part of the scheduler the on-demand fetch needs.
type Runner interface {
	RunOnce(name string, timeout time.Duration, fn scheduler.JobFunc) (bool, error)
}

// FetchTrigger starts background fetches that share the single-flight guard
// of the scheduled fetch-rate job for the same pair.
type FetchTrigger struct {
	runner  Runner
	fetcher portssvc.RateFetcherSvc
	timeout time.Duration
	logger  *slog.Logger
}

func NewFetchTrigger(runner Runner, fetcher portssvc.RateFetcherSvc, timeout time.Duration, logger *slog.Logger) *FetchTrigger {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchTrigger{runner: runner, fetcher: fetcher, timeout: timeout, logger: logger}
}

// TriggerFetch reports false when a fetch of the pair is already running and
// scheduler.ErrStopped once the scheduler is shut down.
func (t *FetchTrigger) TriggerFetch(pair domain.Pair) (bool, error) {
	started, err := t.runner.RunOnce(FetchRateJobName(pair), t.timeout, FetchRateJob(t.fetcher, pair))
	if err != nil {
		t.logger.Warn("On-demand fetch rejected", slog.String("pair", pair.String()), slog.String("error", err.Error()))
		return false, err
	}
	t.logger.Debug("On-demand fetch requested", slog.String("pair", pair.String()), slog.Bool("started", started))
	return started, nil
}
