package pgsql

import (
	"errors"

	"github.com/SscSPs/currency_rates_bot/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// mapError converts a pgx error into the application error taxonomy.
// pgx.ErrNoRows becomes a not-found error, anything else a persistence error.
func (r *BaseRepository) mapError(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError("%s", msg)
	}
	return apperrors.NewPersistenceError(msg, err)
}
