package pgsql

import (
	portsrepo "github.com/SscSPs/currency_rates_bot/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		RateRepo:         newPgxRateRepository(dbPool),
		SubscriptionRepo: newPgxSubscriptionRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
	}
}
