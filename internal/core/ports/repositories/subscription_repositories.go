package repositories

import (
	"context"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
)

// SubscriptionReader defines read operations for subscriptions.
type SubscriptionReader interface {
	// FindSubscriptionsByUser lists a user's subscriptions in insertion order.
	FindSubscriptionsByUser(ctx context.Context, userID string) ([]domain.Subscription, error)

	// ListSubscriptions returns a snapshot of every subscription.
	ListSubscriptions(ctx context.Context) ([]domain.Subscription, error)

	// ListSubscribedPairs returns each distinct subscribed pair once.
	ListSubscribedPairs(ctx context.Context) ([]domain.Pair, error)
}

// SubscriptionWriter defines write operations for subscriptions.
type SubscriptionWriter interface {
	// SaveSubscription inserts the subscription unless one already exists for
	// (UserID, Base, Target). It reports whether a row was created. The check
	// and the insert are a single atomic operation.
	SaveSubscription(ctx context.Context, sub domain.Subscription) (bool, error)

	// DeleteSubscription removes the subscription and reports whether one existed.
	DeleteSubscription(ctx context.Context, userID string, pair domain.Pair) (bool, error)
}

// SubscriptionRepositoryFacade combines all subscription-related repository interfaces.
type SubscriptionRepositoryFacade interface {
	SubscriptionReader
	SubscriptionWriter
}
