package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/apperrors"
	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_rates_bot/internal/core/ports/repositories"
)

type subscriptionKey struct {
	userID string
	pair   domain.Pair
}

// SubscriptionStore keeps subscriptions keyed by (user, pair). The map key
// enforces uniqueness under the store mutex.
type SubscriptionStore struct {
	mu     sync.RWMutex
	nextID int64
	subs   map[subscriptionKey]domain.Subscription
}

var _ portsrepo.SubscriptionRepositoryFacade = (*SubscriptionStore)(nil)

func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{subs: make(map[subscriptionKey]domain.Subscription)}
}

func (s *SubscriptionStore) SaveSubscription(ctx context.Context, sub domain.Subscription) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, apperrors.NewPersistenceError("save subscription", err)
	}
	key := subscriptionKey{userID: sub.UserID, pair: sub.Pair}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subs[key]; exists {
		return false, nil
	}
	s.nextID++
	sub.SubscriptionID = s.nextID
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}
	s.subs[key] = sub
	return true, nil
}

func (s *SubscriptionStore) DeleteSubscription(ctx context.Context, userID string, pair domain.Pair) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, apperrors.NewPersistenceError("delete subscription", err)
	}
	key := subscriptionKey{userID: userID, pair: pair}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subs[key]; !exists {
		return false, nil
	}
	delete(s.subs, key)
	return true, nil
}

func (s *SubscriptionStore) FindSubscriptionsByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("list subscriptions", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Subscription
	for key, sub := range s.subs {
		if key.userID == userID {
			out = append(out, sub)
		}
	}
	sortByID(out)
	return out, nil
}

func (s *SubscriptionStore) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("list subscriptions", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, sub)
	}
	sortByID(out)
	return out, nil
}

func (s *SubscriptionStore) ListSubscribedPairs(ctx context.Context) ([]domain.Pair, error) {
	subs, err := s.ListSubscriptions(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[domain.Pair]struct{}, len(subs))
	var pairs []domain.Pair
	for _, sub := range subs {
		if _, ok := seen[sub.Pair]; ok {
			continue
		}
		seen[sub.Pair] = struct{}{}
		pairs = append(pairs, sub.Pair)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].String() < pairs[j].String() })
	return pairs, nil
}

func sortByID(subs []domain.Subscription) {
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubscriptionID < subs[j].SubscriptionID })
}
