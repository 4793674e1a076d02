package repositories

import (
	"context"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByChatID retrieves a user by chat id.
	FindUserByChatID(ctx context.Context, chatID string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// UpsertUser inserts the user or refreshes the stored profile. Empty
	// incoming fields never overwrite stored values.
	UpsertUser(ctx context.Context, user domain.User) (*domain.User, error)
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
