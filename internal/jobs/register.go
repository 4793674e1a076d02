package jobs

import (
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/currency_rates_bot/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_rates_bot/internal/core/ports/services"
	"github.com/SscSPs/currency_rates_bot/internal/metrics"
	"github.com/SscSPs/currency_rates_bot/internal/platform/config"
	"github.com/SscSPs/currency_rates_bot/internal/scheduler"
)

// Deps are the collaborators the job bodies need.
type Deps struct {
	Services       *portssvc.ServiceContainer
	Repos          portsrepo.RepositoryProvider
	DigestNotifier portssvc.NotifierSvc
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
}

// Register adds every configured job to engine and returns the on-demand
// fetch trigger bound to the same engine.
func Register(engine *scheduler.Engine, cfg *config.Config, deps Deps) (*FetchTrigger, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for _, pair := range cfg.TrackedPairs {
		if err := engine.Register(scheduler.Job{
			Name:     FetchRateJobName(pair),
			Schedule: cfg.FetchSchedule,
			Timeout:  cfg.JobTimeout,
			Run:      FetchRateJob(deps.Services.Rate, pair),
		}); err != nil {
			return nil, fmt.Errorf("register fetch job for %s: %w", pair, err)
		}
	}

	notify := NewNotifySubscribers(deps.Repos.SubscriptionRepo, deps.Repos.RateRepo, deps.Services.Notifier,
		cfg.NotifyConcurrency, cfg.CallTimeout, deps.Metrics)
	if err := engine.Register(scheduler.Job{
		Name:     NotifySubscribersJobName,
		Schedule: cfg.NotifySchedule,
		Timeout:  cfg.JobTimeout,
		Run:      notify.Job(),
	}); err != nil {
		return nil, fmt.Errorf("register notify job: %w", err)
	}

	if cfg.DailyDigestSchedule != "" && deps.DigestNotifier != nil {
		digest := NewNotifySubscribers(deps.Repos.SubscriptionRepo, deps.Repos.RateRepo, deps.DigestNotifier,
			cfg.NotifyConcurrency, cfg.CallTimeout, deps.Metrics)
		if err := engine.Register(scheduler.Job{
			Name:     DailyDigestJobName,
			Schedule: cfg.DailyDigestSchedule,
			Timeout:  cfg.JobTimeout,
			Run:      digest.Job(),
		}); err != nil {
			return nil, fmt.Errorf("register daily digest job: %w", err)
		}
	}

	trigger := NewFetchTrigger(engine, deps.Services.Rate, cfg.CallTimeout*2, logger)

	if cfg.FetchSubscribedPairs {
		if err := engine.Register(scheduler.Job{
			Name:     FetchSubscribedPairsJobName,
			Schedule: cfg.FetchSchedule,
			Timeout:  cfg.JobTimeout,
			Run:      FetchSubscribedPairsJob(deps.Repos.SubscriptionRepo, trigger, cfg.TrackedPairs),
		}); err != nil {
			return nil, fmt.Errorf("register fetch-subscribed-pairs job: %w", err)
		}
	}

	logger.Info("Jobs registered",
		slog.Int("tracked_pairs", len(cfg.TrackedPairs)),
		slog.String("fetch_schedule", cfg.FetchSchedule),
		slog.String("notify_schedule", cfg.NotifySchedule),
		slog.String("daily_digest_schedule", cfg.DailyDigestSchedule))
	return trigger, nil
}
