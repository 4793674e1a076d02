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
)

type subscriptionService struct {
	BaseService
	subscriptionRepo portsrepo.SubscriptionRepositoryFacade
}

// NewSubscriptionService creates the subscription manager.
func NewSubscriptionService(repo portsrepo.SubscriptionRepositoryFacade, opts ...Option) portssvc.SubscriptionSvcFacade {
	return &subscriptionService{
		BaseService:      newBaseService(opts),
		subscriptionRepo: repo,
	}
}

var _ portssvc.SubscriptionSvcFacade = (*subscriptionService)(nil)

func (s *subscriptionService) Subscribe(ctx context.Context, userID, base, target string) (domain.SubscribeStatus, error) {
	userID, pair, err := normalizeSubscriptionKey(userID, base, target)
	if err != nil {
		return "", err
	}

	created, err := s.subscriptionRepo.SaveSubscription(ctx, domain.Subscription{
		UserID:    userID,
		Pair:      pair,
		CreatedAt: s.Now().UTC(),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save subscription", slog.String("user_id", userID), slog.String("pair", pair.String()))
		return "", fmt.Errorf("failed to subscribe: %w", err)
	}

	status := domain.SubscribeAlreadyExists
	if created {
		status = domain.SubscribeCreated
	}
	s.Metrics.RecordSubscriptionChange("subscribe", string(status))
	s.LogInfo(ctx, "Subscribe handled", slog.String("user_id", userID), slog.String("pair", pair.String()), slog.String("status", string(status)))
	return status, nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, userID, base, target string) (domain.UnsubscribeStatus, error) {
	userID, pair, err := normalizeSubscriptionKey(userID, base, target)
	if err != nil {
		return "", err
	}

	removed, err := s.subscriptionRepo.DeleteSubscription(ctx, userID, pair)
	if err != nil {
		s.LogError(ctx, err, "Failed to delete subscription", slog.String("user_id", userID), slog.String("pair", pair.String()))
		return "", fmt.Errorf("failed to unsubscribe: %w", err)
	}

	status := domain.UnsubscribeNotFound
	if removed {
		status = domain.UnsubscribeRemoved
	}
	s.Metrics.RecordSubscriptionChange("unsubscribe", string(status))
	s.LogInfo(ctx, "Unsubscribe handled", slog.String("user_id", userID), slog.String("pair", pair.String()), slog.String("status", string(status)))
	return status, nil
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}
	subs, err := s.subscriptionRepo.FindSubscriptionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	if subs == nil {
		subs = []domain.Subscription{}
	}
	return subs, nil
}

func normalizeSubscriptionKey(userID, base, target string) (string, domain.Pair, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", domain.Pair{}, apperrors.NewValidationError("user id is required")
	}
	pair, err := domain.NewPair(base, target)
	if err != nil {
		return "", domain.Pair{}, err
	}
	return userID, pair, nil
}
