package models

import "time"

// Subscription is the subscriptions table row.
type Subscription struct {
	SubscriptionID int64     `db:"subscription_id"`
	UserID         string    `db:"user_id"`
	BaseCurrency   string    `db:"base_currency"`
	TargetCurrency string    `db:"target_currency"`
	CreatedAt      time.Time `db:"created_at"`
}
