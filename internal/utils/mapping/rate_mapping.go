package mapping

import (
	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	"github.com/SscSPs/currency_rates_bot/internal/models"
)

// ToModelCurrencyRate converts a domain RateObservation to a model CurrencyRate
func ToModelCurrencyRate(d domain.RateObservation) models.CurrencyRate {
	return models.CurrencyRate{
		RateID:         d.RateID,
		BaseCurrency:   d.Base.String(),
		TargetCurrency: d.Target.String(),
		Rate:           d.Value,
		ObservedAt:     d.ObservedAt,
	}
}

// ToDomainRateObservation converts a model CurrencyRate to a domain RateObservation
func ToDomainRateObservation(m models.CurrencyRate) domain.RateObservation {
	return domain.RateObservation{
		RateID: m.RateID,
		Pair: domain.Pair{
			Base:   domain.CurrencyCode(m.BaseCurrency),
			Target: domain.CurrencyCode(m.TargetCurrency),
		},
		Value:      m.Rate,
		ObservedAt: m.ObservedAt,
	}
}
