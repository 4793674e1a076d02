package services

import (
	"context"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateFetcherSvc pulls a rate from the external provider and records it.
type RateFetcherSvc interface {
	// FetchRate normalizes the codes, queries the provider once and stores the
	// observation. Failures are *apperrors.FetchError. On a persist failure the
	// fetched observation is returned alongside the error.
	FetchRate(ctx context.Context, base, target string) (*domain.RateObservation, error)
}

// RateReaderSvc defines read operations for rate data
type RateReaderSvc interface {
	// GetLatestRate returns the most recent stored observation for the pair.
	GetLatestRate(ctx context.Context, base, target string) (*domain.RateObservation, error)
}

// RateWriterSvc defines manual write operations for rate data
type RateWriterSvc interface {
	// RecordRate appends an observation supplied by an operator.
	RecordRate(ctx context.Context, base, target string, value decimal.Decimal) (*domain.RateObservation, error)
}

// RateSvcFacade combines all rate-related service interfaces
type RateSvcFacade interface {
	RateFetcherSvc
	RateReaderSvc
	RateWriterSvc
}
