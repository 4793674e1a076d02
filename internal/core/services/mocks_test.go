package services_test

import (
	"context"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	"github.com/SscSPs/currency_rates_bot/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/currency_rates_bot/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock RateRepository ---
type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) SaveRate(ctx context.Context, obs domain.RateObservation) (*domain.RateObservation, error) {
	args := m.Called(ctx, obs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateObservation), args.Error(1)
}

func (m *MockRateRepository) FindLatestRate(ctx context.Context, pair domain.Pair) (*domain.RateObservation, error) {
	args := m.Called(ctx, pair)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateObservation), args.Error(1)
}

var _ portsrepo.RateRepositoryFacade = (*MockRateRepository)(nil)

// --- Mock RateProvider ---
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) LatestRates(ctx context.Context, base domain.CurrencyCode, targets ...domain.CurrencyCode) (map[domain.CurrencyCode]decimal.Decimal, error) {
	args := m.Called(ctx, base, targets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.CurrencyCode]decimal.Decimal), args.Error(1)
}

var _ gateways.RateProvider = (*MockRateProvider)(nil)

// --- Mock SubscriptionRepository ---
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) SaveSubscription(ctx context.Context, sub domain.Subscription) (bool, error) {
	args := m.Called(ctx, sub)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) DeleteSubscription(ctx context.Context, userID string, pair domain.Pair) (bool, error) {
	args := m.Called(ctx, userID, pair)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionRepository) FindSubscriptionsByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ListSubscribedPairs(ctx context.Context) ([]domain.Pair, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pair), args.Error(1)
}

var _ portsrepo.SubscriptionRepositoryFacade = (*MockSubscriptionRepository)(nil)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) UpsertUser(ctx context.Context, user domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByChatID(ctx context.Context, chatID string) (*domain.User, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

// --- Mock MessageSender ---
type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) SendMessage(ctx context.Context, chatID string, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}

var _ gateways.MessageSender = (*MockMessageSender)(nil)
