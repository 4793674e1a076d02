// Package memory provides process-local implementations of the repository
// ports. They back local runs without PostgreSQL and the job tests.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/currency_rates_bot/internal/apperrors"
	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_rates_bot/internal/core/ports/repositories"
)

// RateStore keeps every observation per pair in insertion order.
type RateStore struct {
	mu     sync.RWMutex
	nextID int64
	byPair map[domain.Pair][]domain.RateObservation
}

var _ portsrepo.RateRepositoryFacade = (*RateStore)(nil)

func NewRateStore() *RateStore {
	return &RateStore{byPair: make(map[domain.Pair][]domain.RateObservation)}
}

func (s *RateStore) SaveRate(ctx context.Context, obs domain.RateObservation) (*domain.RateObservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("save rate", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	obs.RateID = s.nextID
	s.byPair[obs.Pair] = append(s.byPair[obs.Pair], obs)
	return &obs, nil
}

// FindLatestRate scans the pair's history. On equal ObservedAt the later
// element wins, which matches insertion order.
func (s *RateStore) FindLatestRate(ctx context.Context, pair domain.Pair) (*domain.RateObservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("find latest rate", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.byPair[pair]
	if len(history) == 0 {
		return nil, apperrors.NewNotFoundError("no rate found for %s", pair)
	}
	latest := history[0]
	for _, obs := range history[1:] {
		if !obs.ObservedAt.Before(latest.ObservedAt) {
			latest = obs
		}
	}
	return &latest, nil
}

// Count returns the number of stored observations for the pair.
func (s *RateStore) Count(pair domain.Pair) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byPair[pair])
}
