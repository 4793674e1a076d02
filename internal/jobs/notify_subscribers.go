package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/apperrors"
	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_rates_bot/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_rates_bot/internal/core/ports/services"
	"github.com/SscSPs/currency_rates_bot/internal/metrics"
	"github.com/SscSPs/currency_rates_bot/internal/platform/logging"
	"github.com/SscSPs/currency_rates_bot/internal/scheduler"
	"golang.org/x/sync/errgroup"
)

const defaultNotifyConcurrency = 4

// NotifySubscribers sends every subscriber the latest rate of their pair.
type NotifySubscribers struct {
	subs        portsrepo.SubscriptionReader
	rates       portsrepo.RateReader
	notifier    portssvc.NotifierSvc
	concurrency int
	callTimeout time.Duration
	metrics     *metrics.Metrics
}

func NewNotifySubscribers(
	subs portsrepo.SubscriptionReader,
	rates portsrepo.RateReader,
	notifier portssvc.NotifierSvc,
	concurrency int,
	callTimeout time.Duration,
	m *metrics.Metrics,
) *NotifySubscribers {
	if concurrency <= 0 {
		concurrency = defaultNotifyConcurrency
	}
	return &NotifySubscribers{
		subs:        subs,
		rates:       rates,
		notifier:    notifier,
		concurrency: concurrency,
		callTimeout: callTimeout,
		metrics:     m,
	}
}

// Run works on a snapshot of the subscriptions taken at start. Each
// subscription is handled independently; a missing rate is a silent skip and
// a failed lookup or send only counts as failed. Cancellation stops
// scheduling further subscriptions and the partial summary is returned with
// the context error.
func (n *NotifySubscribers) Run(ctx context.Context) (domain.NotifyRunSummary, error) {
	logger := logging.FromContext(ctx)
	var summary domain.NotifyRunSummary

	listCtx, cancel := n.withCallTimeout(ctx)
	subs, err := n.subs.ListSubscriptions(listCtx)
	cancel()
	if err != nil {
		return summary, fmt.Errorf("failed to snapshot subscriptions: %w", err)
	}
	summary.Total = len(subs)

	var mu sync.Mutex
	count := func(f func(*domain.NotifyRunSummary)) {
		mu.Lock()
		f(&summary)
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(n.concurrency)
	for _, sub := range subs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			lookupCtx, cancel := n.withCallTimeout(ctx)
			obs, err := n.rates.FindLatestRate(lookupCtx, sub.Pair)
			cancel()
			switch {
			case errors.Is(err, apperrors.ErrNotFound):
				n.metrics.RecordNotifySkipped()
				count(func(s *domain.NotifyRunSummary) { s.Skipped++ })
				return nil
			case err != nil:
				logger.Error("Latest rate lookup failed",
					slog.String("user_id", sub.UserID),
					slog.String("pair", sub.Pair.String()),
					slog.String("error", err.Error()))
				count(func(s *domain.NotifyRunSummary) { s.Failed++ })
				return nil
			}

			if n.notifier.Notify(ctx, sub, *obs).Delivered() {
				count(func(s *domain.NotifyRunSummary) { s.Delivered++ })
			} else {
				count(func(s *domain.NotifyRunSummary) { s.Failed++ })
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("notify run interrupted: %w", err)
	}
	return summary, nil
}

// Job adapts Run to the scheduler.
func (n *NotifySubscribers) Job() scheduler.JobFunc {
	return func(ctx context.Context) error {
		summary, err := n.Run(ctx)
		logging.FromContext(ctx).Info("Notify run finished",
			slog.Int("total", summary.Total),
			slog.Int("skipped", summary.Skipped),
			slog.Int("delivered", summary.Delivered),
			slog.Int("failed", summary.Failed))
		return err
	}
}

func (n *NotifySubscribers) withCallTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if n.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, n.callTimeout)
}
