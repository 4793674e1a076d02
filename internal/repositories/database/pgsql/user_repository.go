package pgsql

import (
	"context"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_rates_bot/internal/core/ports/repositories"
	"github.com/SscSPs/currency_rates_bot/internal/models"
	"github.com/SscSPs/currency_rates_bot/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxUserRepository stores chat users keyed by chat id.
type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

// UpsertUser inserts or refreshes a user. NULL (empty) incoming profile
// fields keep the stored value; created_at is never changed after insert.
func (r *PgxUserRepository) UpsertUser(ctx context.Context, user domain.User) (*domain.User, error) {
	modelUser := mapping.ToModelUser(user)
	query := `
        INSERT INTO users (chat_id, username, first_name, last_name, created_at, last_updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (chat_id) DO UPDATE SET
            username = COALESCE(EXCLUDED.username, users.username),
            first_name = COALESCE(EXCLUDED.first_name, users.first_name),
            last_name = COALESCE(EXCLUDED.last_name, users.last_name),
            last_updated_at = EXCLUDED.last_updated_at
        RETURNING chat_id, username, first_name, last_name, created_at, last_updated_at;
    `
	var saved models.User
	err := r.Pool.QueryRow(ctx, query,
		modelUser.ChatID,
		modelUser.Username,
		modelUser.FirstName,
		modelUser.LastName,
		modelUser.CreatedAt,
		modelUser.LastUpdatedAt,
	).Scan(&saved.ChatID, &saved.Username, &saved.FirstName, &saved.LastName, &saved.CreatedAt, &saved.LastUpdatedAt)
	if err != nil {
		return nil, r.mapError(err, "failed to upsert user "+user.ChatID)
	}

	domainUser := mapping.ToDomainUser(saved)
	return &domainUser, nil
}

func (r *PgxUserRepository) FindUserByChatID(ctx context.Context, chatID string) (*domain.User, error) {
	query := `
        SELECT chat_id, username, first_name, last_name, created_at, last_updated_at
        FROM users
        WHERE chat_id = $1;
    `
	var m models.User
	err := r.Pool.QueryRow(ctx, query, chatID).Scan(
		&m.ChatID, &m.Username, &m.FirstName, &m.LastName, &m.CreatedAt, &m.LastUpdatedAt,
	)
	if err != nil {
		return nil, r.mapError(err, "user "+chatID+" not found")
	}

	domainUser := mapping.ToDomainUser(m)
	return &domainUser, nil
}
