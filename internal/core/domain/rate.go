package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateObservation is a single, immutable reading of a currency pair. The
// store is append-only; the current rate of a pair is its latest observation.
type RateObservation struct {
	RateID int64 `json:"rateID"`
	Pair
	Value      decimal.Decimal `json:"value"`
	ObservedAt time.Time       `json:"observedAt"`
}
