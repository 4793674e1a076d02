package memory

import portsrepo "github.com/SscSPs/currency_rates_bot/internal/core/ports/repositories"

// NewRepositoryProvider wires fresh in-memory stores.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RateRepo:         NewRateStore(),
		SubscriptionRepo: NewSubscriptionStore(),
		UserRepo:         NewUserStore(),
	}
}
