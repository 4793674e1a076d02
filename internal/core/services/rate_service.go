package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/apperrors"
	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	"github.com/SscSPs/currency_rates_bot/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/currency_rates_bot/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_rates_bot/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// rateService fetches rates from the provider and serves stored ones.
type rateService struct {
	BaseService
	rateRepo    portsrepo.RateRepositoryFacade
	provider    gateways.RateProvider
	callTimeout time.Duration
}

// NewRateService creates the rate service. callTimeout bounds each provider
// call and each store call made by FetchRate.
func NewRateService(rateRepo portsrepo.RateRepositoryFacade, provider gateways.RateProvider, callTimeout time.Duration, opts ...Option) portssvc.RateSvcFacade {
	return &rateService{
		BaseService: newBaseService(opts),
		rateRepo:    rateRepo,
		provider:    provider,
		callTimeout: callTimeout,
	}
}

var _ portssvc.RateSvcFacade = (*rateService)(nil)

// FetchRate implements portssvc.RateFetcherSvc.
func (s *rateService) FetchRate(ctx context.Context, base, target string) (*domain.RateObservation, error) {
	pair, err := domain.NewPair(base, target)
	if err != nil {
		return nil, err
	}
	logger := s.GetLogger(ctx).With(slog.String("pair", pair.String()))

	calledAt := s.Now().UTC()
	callCtx, cancel := withTimeout(ctx, s.callTimeout)
	rates, err := s.provider.LatestRates(callCtx, pair.Base, pair.Target)
	cancel()
	if err != nil {
		logger.Warn("Rate provider call failed", slog.String("error", err.Error()))
		s.Metrics.RecordRateFetch(pair.String(), string(apperrors.FetchTransport))
		return nil, &apperrors.FetchError{Kind: apperrors.FetchTransport, Pair: pair.String(), Err: err}
	}

	value, ok := rates[pair.Target]
	if !ok || !value.IsPositive() {
		logger.Warn("Rate provider returned no usable rate", slog.Bool("present", ok))
		s.Metrics.RecordRateFetch(pair.String(), string(apperrors.FetchNotFound))
		return nil, &apperrors.FetchError{
			Kind: apperrors.FetchNotFound,
			Pair: pair.String(),
			Err:  fmt.Errorf("provider has no rate for %s", pair),
		}
	}

	obs := domain.RateObservation{Pair: pair, Value: value, ObservedAt: calledAt}

	storeCtx, cancelStore := withTimeout(ctx, s.callTimeout)
	saved, err := s.rateRepo.SaveRate(storeCtx, obs)
	cancelStore()
	if err != nil {
		logger.Error("Failed to store fetched rate", slog.String("error", err.Error()), slog.String("rate", value.String()))
		s.Metrics.RecordRateFetch(pair.String(), string(apperrors.FetchPersist))
		return &obs, &apperrors.FetchError{Kind: apperrors.FetchPersist, Pair: pair.String(), Err: err}
	}

	logger.Info("Rate fetched", slog.String("rate", saved.Value.String()), slog.Int64("rate_id", saved.RateID))
	s.Metrics.RecordRateFetch(pair.String(), "ok")
	return saved, nil
}

// GetLatestRate implements portssvc.RateReaderSvc.
func (s *rateService) GetLatestRate(ctx context.Context, base, target string) (*domain.RateObservation, error) {
	pair, err := domain.NewPair(base, target)
	if err != nil {
		return nil, err
	}
	obs, err := s.rateRepo.FindLatestRate(ctx, pair)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest rate for %s: %w", pair, err)
	}
	return obs, nil
}

// RecordRate implements portssvc.RateWriterSvc.
func (s *rateService) RecordRate(ctx context.Context, base, target string, value decimal.Decimal) (*domain.RateObservation, error) {
	pair, err := domain.NewPair(base, target)
	if err != nil {
		return nil, err
	}
	if !value.IsPositive() {
		return nil, apperrors.NewValidationError("rate must be positive")
	}

	saved, err := s.rateRepo.SaveRate(ctx, domain.RateObservation{Pair: pair, Value: value, ObservedAt: s.Now().UTC()})
	if err != nil {
		s.LogError(ctx, err, "Failed to record rate", slog.String("pair", pair.String()))
		return nil, fmt.Errorf("failed to record rate in service: %w", err)
	}
	s.LogInfo(ctx, "Rate recorded manually", slog.String("pair", pair.String()), slog.Int64("rate_id", saved.RateID))
	return saved, nil
}
