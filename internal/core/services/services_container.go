package services

import (
	"github.com/SscSPs/currency_rates_bot/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/currency_rates_bot/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_rates_bot/internal/core/ports/services"
	"github.com/SscSPs/currency_rates_bot/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	provider gateways.RateProvider,
	sender gateways.MessageSender,
	opts ...Option,
) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Rate:         NewRateService(repos.RateRepo, provider, cfg.CallTimeout, opts...),
		Subscription: NewSubscriptionService(repos.SubscriptionRepo, opts...),
		User:         NewUserService(repos.UserRepo, opts...),
		Notifier:     NewNotifierService(sender, UpdateTitle, cfg.RatePrecision, cfg.CallTimeout, opts...),
	}
}
