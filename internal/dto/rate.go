package dto

import (
	"time"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRateRequest defines the structure for manually recording a rate.
type CreateRateRequest struct {
	Base   string          `json:"base" binding:"required"`
	Target string          `json:"target" binding:"required"`
	Rate   decimal.Decimal `json:"rate" binding:"required"`
}

// RateResponse defines the structure for API responses containing a rate.
type RateResponse struct {
	RateID     int64           `json:"rateId"`
	Base       string          `json:"base"`
	Target     string          `json:"target"`
	Rate       decimal.Decimal `json:"rate"`
	ObservedAt time.Time       `json:"observedAt"`
}

// ToRateResponse converts a domain.RateObservation to RateResponse DTO
func ToRateResponse(obs *domain.RateObservation) RateResponse {
	return RateResponse{
		RateID:     obs.RateID,
		Base:       obs.Base.String(),
		Target:     obs.Target.String(),
		Rate:       obs.Value,
		ObservedAt: obs.ObservedAt,
	}
}

// FetchQueuedResponse is returned when an on-demand fetch is requested.
type FetchQueuedResponse struct {
	Pair   string `json:"pair"`
	Status string `json:"status"`
}
