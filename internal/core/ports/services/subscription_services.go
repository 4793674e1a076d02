package services

import (
	"context"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
)

// SubscriptionWriterSvc defines subscribe/unsubscribe operations.
type SubscriptionWriterSvc interface {
	// Subscribe is idempotent: a repeated call reports SubscribeAlreadyExists.
	Subscribe(ctx context.Context, userID, base, target string) (domain.SubscribeStatus, error)

	// Unsubscribe reports UnsubscribeNotFound when nothing was removed.
	Unsubscribe(ctx context.Context, userID, base, target string) (domain.UnsubscribeStatus, error)
}

// SubscriptionReaderSvc defines read operations for subscriptions.
type SubscriptionReaderSvc interface {
	ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error)
}

// SubscriptionSvcFacade combines all subscription-related service interfaces
type SubscriptionSvcFacade interface {
	SubscriptionWriterSvc
	SubscriptionReaderSvc
}
