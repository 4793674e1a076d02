package mapping

import (
	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	"github.com/SscSPs/currency_rates_bot/internal/models"
)

// ToModelSubscription converts a domain Subscription to a model Subscription
func ToModelSubscription(d domain.Subscription) models.Subscription {
	return models.Subscription{
		SubscriptionID: d.SubscriptionID,
		UserID:         d.UserID,
		BaseCurrency:   d.Base.String(),
		TargetCurrency: d.Target.String(),
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainSubscription converts a model Subscription to a domain Subscription
func ToDomainSubscription(m models.Subscription) domain.Subscription {
	return domain.Subscription{
		SubscriptionID: m.SubscriptionID,
		UserID:         m.UserID,
		Pair: domain.Pair{
			Base:   domain.CurrencyCode(m.BaseCurrency),
			Target: domain.CurrencyCode(m.TargetCurrency),
		},
		CreatedAt: m.CreatedAt,
	}
}

// ToDomainSubscriptions converts a slice of model Subscriptions
func ToDomainSubscriptions(ms []models.Subscription) []domain.Subscription {
	ds := make([]domain.Subscription, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSubscription(m)
	}
	return ds
}
