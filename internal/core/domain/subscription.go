package domain

import "time"

// Subscription is a user's standing request for notifications on a pair.
// At most one exists per (UserID, Base, Target).
type Subscription struct {
	SubscriptionID int64     `json:"subscriptionID"`
	UserID         string    `json:"userID"`
	Pair
	CreatedAt time.Time `json:"createdAt"`
}

// SubscribeStatus reports the outcome of a subscribe call.
type SubscribeStatus string

const (
	SubscribeCreated       SubscribeStatus = "created"
	SubscribeAlreadyExists SubscribeStatus = "already_exists"
)

// UnsubscribeStatus reports the outcome of an unsubscribe call.
type UnsubscribeStatus string

const (
	UnsubscribeRemoved  UnsubscribeStatus = "removed"
	UnsubscribeNotFound UnsubscribeStatus = "not_found"
)
