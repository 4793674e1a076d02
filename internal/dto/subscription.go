package dto

import (
	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
)

// SubscriptionRequest identifies a subscription. Codes are normalized by the
// service, so "eur" and " EUR" are accepted.
type SubscriptionRequest struct {
	UserID string `json:"userId" form:"user_id" binding:"required"`
	Base   string `json:"base" form:"base" binding:"required"`
	Target string `json:"target" form:"target" binding:"required"`
}

// SubscribeResponse reports whether a new subscription was created.
type SubscribeResponse struct {
	Status domain.SubscribeStatus `json:"status"`
}

// UnsubscribeResponse reports whether a subscription was removed.
type UnsubscribeResponse struct {
	Status  domain.UnsubscribeStatus `json:"status"`
	Message string                   `json:"message"`
}

// SubscriptionResponse is one entry of a user's subscription list.
type SubscriptionResponse struct {
	Base   string `json:"base"`
	Target string `json:"target"`
}

// ListSubscriptionsResponse wraps the list of subscriptions.
type ListSubscriptionsResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
}

// ToListSubscriptionsResponse converts domain subscriptions to the list DTO.
func ToListSubscriptionsResponse(subs []domain.Subscription) ListSubscriptionsResponse {
	items := make([]SubscriptionResponse, len(subs))
	for i, sub := range subs {
		items[i] = SubscriptionResponse{Base: sub.Base.String(), Target: sub.Target.String()}
	}
	return ListSubscriptionsResponse{Subscriptions: items}
}
