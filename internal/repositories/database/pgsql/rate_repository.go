package pgsql

import (
	"context"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_rates_bot/internal/core/ports/repositories"
	"github.com/SscSPs/currency_rates_bot/internal/models"
	"github.com/SscSPs/currency_rates_bot/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRateRepository stores rate observations in the currency_rates table.
type PgxRateRepository struct {
	BaseRepository
}

func newPgxRateRepository(db *pgxpool.Pool) *PgxRateRepository {
	return &PgxRateRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.RateRepositoryFacade = (*PgxRateRepository)(nil)

// SaveRate appends an observation and returns it with the generated id.
func (r *PgxRateRepository) SaveRate(ctx context.Context, obs domain.RateObservation) (*domain.RateObservation, error) {
	modelRate := mapping.ToModelCurrencyRate(obs)

	err := r.Pool.QueryRow(ctx, `
		INSERT INTO currency_rates (base_currency, target_currency, rate, observed_at)
		VALUES ($1, $2, $3, $4)
		RETURNING rate_id`,
		modelRate.BaseCurrency, modelRate.TargetCurrency, modelRate.Rate, modelRate.ObservedAt,
	).Scan(&modelRate.RateID)
	if err != nil {
		return nil, r.mapError(err, "failed to save rate for "+obs.Pair.String())
	}

	saved := mapping.ToDomainRateObservation(modelRate)
	return &saved, nil
}

// FindLatestRate returns the newest observation of the pair. rate_id is a
// monotonically increasing sequence, so it breaks ties on observed_at in
// favour of the last inserted row.
func (r *PgxRateRepository) FindLatestRate(ctx context.Context, pair domain.Pair) (*domain.RateObservation, error) {
	query := `
		SELECT rate_id, base_currency, target_currency, rate, observed_at
		FROM currency_rates
		WHERE base_currency = $1 AND target_currency = $2
		ORDER BY observed_at DESC, rate_id DESC
		LIMIT 1;
	`

	var modelRate models.CurrencyRate
	err := r.Pool.QueryRow(ctx, query, pair.Base.String(), pair.Target.String()).Scan(
		&modelRate.RateID, &modelRate.BaseCurrency, &modelRate.TargetCurrency,
		&modelRate.Rate, &modelRate.ObservedAt,
	)
	if err != nil {
		return nil, r.mapError(err, "no rate found for "+pair.String())
	}

	obs := mapping.ToDomainRateObservation(modelRate)
	return &obs, nil
}
