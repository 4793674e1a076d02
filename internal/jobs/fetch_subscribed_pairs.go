package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_rates_bot/internal/core/ports/repositories"
	"github.com/SscSPs/currency_rates_bot/internal/platform/logging"
	"github.com/SscSPs/currency_rates_bot/internal/scheduler"
)

// FetchSubscribedPairsJob queues a fetch for every subscribed pair that has
// no scheduled fetch job of its own.
func FetchSubscribedPairsJob(subs portsrepo.SubscriptionReader, trigger *FetchTrigger, tracked []domain.Pair) scheduler.JobFunc {
	skip := make(map[domain.Pair]struct{}, len(tracked))
	for _, p := range tracked {
		skip[p] = struct{}{}
	}

	return func(ctx context.Context) error {
		pairs, err := subs.ListSubscribedPairs(ctx)
		if err != nil {
			return fmt.Errorf("failed to list subscribed pairs: %w", err)
		}

		queued, busy := 0, 0
		for _, pair := range pairs {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if _, ok := skip[pair]; ok {
				continue
			}
			started, err := trigger.TriggerFetch(pair)
			if err != nil {
				return fmt.Errorf("failed to queue fetch of %s: %w", pair, err)
			}
			if started {
				queued++
			} else {
				busy++
			}
		}
		logging.FromContext(ctx).Info("Subscribed pairs queued for fetch",
			slog.Int("pairs", len(pairs)), slog.Int("queued", queued), slog.Int("already_running", busy))
		return nil
	}
}
