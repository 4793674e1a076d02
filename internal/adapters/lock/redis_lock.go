// Package lock implements the scheduler's distributed single-flight lock on
// Redis.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/scheduler"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const DefaultExpiry = 5 * time.Minute

var ErrInvalidLockKey = errors.New("lock key is empty")

type RedisLock struct {
	rs     *redsync.Redsync
	expiry time.Duration
}

var _ scheduler.Locker = (*RedisLock)(nil)

// NewRedisLock wraps client. expiry is the lock TTL and should exceed the
// longest job run; zero selects DefaultExpiry.
func NewRedisLock(client redis.UniversalClient, expiry time.Duration) *RedisLock {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &RedisLock{
		rs:     redsync.New(goredis.NewPool(client)),
		expiry: expiry,
	}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func createUnlock(mutex *redsync.Mutex) func(context.Context) error {
	return func(ctx context.Context) error {
		ok, err := mutex.UnlockContext(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("failed to unlock")
		}
		return nil
	}
}

// TryLock makes a single acquisition attempt.
func (l *RedisLock) TryLock(ctx context.Context, key string) (func(context.Context) error, error) {
	if key == "" {
		return nil, ErrInvalidLockKey
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	mutex := l.rs.NewMutex(key,
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(1),
	)
	if err := mutex.LockContext(ctx); err != nil {
		var errTaken *redsync.ErrTaken
		if errors.As(err, &errTaken) || errors.Is(err, redsync.ErrFailed) {
			return nil, scheduler.ErrLockNotAcquired
		}
		return nil, err
	}
	return createUnlock(mutex), nil
}
