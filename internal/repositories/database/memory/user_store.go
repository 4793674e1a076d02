package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/currency_rates_bot/internal/apperrors"
	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_rates_bot/internal/core/ports/repositories"
)

// UserStore keeps users keyed by chat id.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

var _ portsrepo.UserRepositoryFacade = (*UserStore)(nil)

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

func (s *UserStore) UpsertUser(ctx context.Context, user domain.User) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("upsert user", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.users[user.ChatID]
	if !exists {
		s.users[user.ChatID] = user
		return &user, nil
	}
	merged := stored.MergeProfile(user)
	merged.LastUpdatedAt = user.LastUpdatedAt
	s.users[user.ChatID] = merged
	return &merged, nil
}

func (s *UserStore) FindUserByChatID(ctx context.Context, chatID string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewPersistenceError("find user", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[chatID]
	if !ok {
		return nil, apperrors.NewNotFoundError("user %s not found", chatID)
	}
	return &user, nil
}
