package repositories

import (
	"context"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
)

// RateReader defines read operations for rate observations.
type RateReader interface {
	// FindLatestRate returns the most recent observation for the pair.
	// Ties on ObservedAt are broken by insertion order, last inserted wins.
	// Returns apperrors.ErrNotFound when the pair has never been observed.
	FindLatestRate(ctx context.Context, pair domain.Pair) (*domain.RateObservation, error)
}

// RateWriter defines write operations for rate observations.
type RateWriter interface {
	// SaveRate appends an observation. Observations are never updated or deleted.
	SaveRate(ctx context.Context, obs domain.RateObservation) (*domain.RateObservation, error)
}

// RateRepositoryFacade combines all rate-related repository interfaces.
type RateRepositoryFacade interface {
	RateReader
	RateWriter
}
