// Package gateways declares the outbound ports to systems the bot does not own.
package gateways

import (
	"context"

	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateProvider queries an external exchange-rate source.
type RateProvider interface {
	// LatestRates returns the provider's current rates from base to each
	// requested target. Targets unknown to the provider are absent from the
	// map. Network, status and decoding failures wrap apperrors.ErrTransport.
	LatestRates(ctx context.Context, base domain.CurrencyCode, targets ...domain.CurrencyCode) (map[domain.CurrencyCode]decimal.Decimal, error)
}

// MessageSender delivers a text message to a chat.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID string, text string) error
}
