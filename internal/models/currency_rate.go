package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyRate is the currency_rates table row. Rows are append-only.
type CurrencyRate struct {
	RateID         int64           `db:"rate_id"`
	BaseCurrency   string          `db:"base_currency"`
	TargetCurrency string          `db:"target_currency"`
	Rate           decimal.Decimal `db:"rate"`
	ObservedAt     time.Time       `db:"observed_at"`
}
