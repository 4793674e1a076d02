package pgsql

import (
	"context"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_rates_bot/internal/core/ports/repositories"
	"github.com/SscSPs/currency_rates_bot/internal/models"
	"github.com/SscSPs/currency_rates_bot/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSubscriptionRepository stores subscriptions. Uniqueness of
// (user_id, base_currency, target_currency) is a table constraint.
type PgxSubscriptionRepository struct {
	BaseRepository
}

func newPgxSubscriptionRepository(db *pgxpool.Pool) *PgxSubscriptionRepository {
	return &PgxSubscriptionRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.SubscriptionRepositoryFacade = (*PgxSubscriptionRepository)(nil)

const selectSubscriptionColumns = `
	SELECT subscription_id, user_id, base_currency, target_currency, created_at
	FROM subscriptions`

// SaveSubscription inserts unless the row already exists. ON CONFLICT makes
// concurrent subscribes for the same key race-free.
func (r *PgxSubscriptionRepository) SaveSubscription(ctx context.Context, sub domain.Subscription) (bool, error) {
	m := mapping.ToModelSubscription(sub)
	tag, err := r.Pool.Exec(ctx, `
		INSERT INTO subscriptions (user_id, base_currency, target_currency, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, base_currency, target_currency) DO NOTHING`,
		m.UserID, m.BaseCurrency, m.TargetCurrency, m.CreatedAt,
	)
	if err != nil {
		return false, r.mapError(err, "failed to save subscription")
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteSubscription removes the row in a single statement.
func (r *PgxSubscriptionRepository) DeleteSubscription(ctx context.Context, userID string, pair domain.Pair) (bool, error) {
	tag, err := r.Pool.Exec(ctx, `
		DELETE FROM subscriptions
		WHERE user_id = $1 AND base_currency = $2 AND target_currency = $3`,
		userID, pair.Base.String(), pair.Target.String(),
	)
	if err != nil {
		return false, r.mapError(err, "failed to delete subscription")
	}
	return tag.RowsAffected() > 0, nil
}

// FindSubscriptionsByUser lists a user's subscriptions oldest first.
func (r *PgxSubscriptionRepository) FindSubscriptionsByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	rows, err := r.Pool.Query(ctx, selectSubscriptionColumns+`
		WHERE user_id = $1
		ORDER BY subscription_id`, userID)
	if err != nil {
		return nil, r.mapError(err, "failed to list subscriptions for user")
	}
	return r.collect(rows)
}

// ListSubscriptions returns every subscription oldest first.
func (r *PgxSubscriptionRepository) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	rows, err := r.Pool.Query(ctx, selectSubscriptionColumns+`
		ORDER BY subscription_id`)
	if err != nil {
		return nil, r.mapError(err, "failed to list subscriptions")
	}
	return r.collect(rows)
}

// ListSubscribedPairs returns each distinct subscribed pair.
func (r *PgxSubscriptionRepository) ListSubscribedPairs(ctx context.Context) ([]domain.Pair, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT DISTINCT base_currency, target_currency
		FROM subscriptions
		ORDER BY base_currency, target_currency`)
	if err != nil {
		return nil, r.mapError(err, "failed to list subscribed pairs")
	}
	defer rows.Close()

	var pairs []domain.Pair
	for rows.Next() {
		var base, target string
		if err := rows.Scan(&base, &target); err != nil {
			return nil, r.mapError(err, "failed to scan subscribed pair")
		}
		pairs = append(pairs, domain.Pair{Base: domain.CurrencyCode(base), Target: domain.CurrencyCode(target)})
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapError(err, "error iterating subscribed pairs")
	}
	return pairs, nil
}

func (r *PgxSubscriptionRepository) collect(rows pgx.Rows) ([]domain.Subscription, error) {
	defer rows.Close()

	var modelSubs []models.Subscription
	for rows.Next() {
		var m models.Subscription
		if err := rows.Scan(&m.SubscriptionID, &m.UserID, &m.BaseCurrency, &m.TargetCurrency, &m.CreatedAt); err != nil {
			return nil, r.mapError(err, "failed to scan subscription")
		}
		modelSubs = append(modelSubs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapError(err, "error iterating subscriptions")
	}
	return mapping.ToDomainSubscriptions(modelSubs), nil
}
