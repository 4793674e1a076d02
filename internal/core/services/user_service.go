package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/currency_rates_bot/internal/apperrors"
	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_rates_bot/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_rates_bot/internal/core/ports/services"
	"github.com/SscSPs/currency_rates_bot/internal/dto"
)

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

func NewUserService(userRepo portsrepo.UserRepositoryFacade, opts ...Option) portssvc.UserSvcFacade {
	return &userService{
		BaseService: newBaseService(opts),
		userRepo:    userRepo,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	chatID := strings.TrimSpace(req.ChatID)
	if chatID == "" {
		return nil, apperrors.NewValidationError("chat id is required")
	}

	now := s.Now().UTC()
	user := domain.User{
		ChatID:    chatID,
		Username:  strings.TrimSpace(req.Username),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	saved, err := s.userRepo.UpsertUser(ctx, user)
	if err != nil {
		s.LogError(ctx, err, "Failed to register user", slog.String("chat_id", chatID))
		return nil, fmt.Errorf("failed to register user in service: %w", err)
	}
	return saved, nil
}

func (s *userService) GetUserByChatID(ctx context.Context, chatID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByChatID(ctx, strings.TrimSpace(chatID))
	if err != nil {
		return nil, fmt.Errorf("failed to get user in service: %w", err)
	}
	return user, nil
}
