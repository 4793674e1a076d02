package services

import (
	"context"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	"github.com/SscSPs/currency_rates_bot/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByChatID retrieves a user by chat id.
	GetUserByChatID(ctx context.Context, chatID string) (*domain.User, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// RegisterUser creates the user on first contact and refreshes the
	// non-empty profile fields afterwards.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}
