package services

import (
	"context"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
)

// NotifierSvc formats and sends a single rate notification. It never returns
// an error or panics; every outcome is described by the SendResult.
type NotifierSvc interface {
	Notify(ctx context.Context, sub domain.Subscription, obs domain.RateObservation) domain.SendResult
}
