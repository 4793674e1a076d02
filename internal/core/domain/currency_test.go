package domain_test

import (
	"testing"

	"github.com/SscSPs/currency_rates_bot/internal/apperrors"
	"github.com/SscSPs/currency_rates_bot/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCurrencyCode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    domain.CurrencyCode
		wantErr bool
	}{
		{name: "already normalized", raw: "EUR", want: "EUR"},
		{name: "lowercase", raw: "usd", want: "USD"},
		{name: "mixed case with spaces", raw: "  gBp ", want: "GBP"},
		{name: "empty", raw: "", wantErr: true},
		{name: "blank", raw: "   ", wantErr: true},
		{name: "too short", raw: "EU", wantErr: true},
		{name: "too long", raw: "EURO", wantErr: true},
		{name: "digits", raw: "E1R", wantErr: true},
		{name: "non ascii", raw: "ÉUR", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.NormalizeCurrencyCode(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewPair(t *testing.T) {
	pair, err := domain.NewPair("eur", " usd")
	require.NoError(t, err)
	assert.Equal(t, domain.CurrencyCode("EUR"), pair.Base)
	assert.Equal(t, domain.CurrencyCode("USD"), pair.Target)
	assert.Equal(t, "EUR/USD", pair.String())

	_, err = domain.NewPair("eur", "EUR")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.NewPair("", "USD")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParsePair(t *testing.T) {
	for _, raw := range []string{"EUR/USD", "eur-usd", "Eur:Usd"} {
		pair, err := domain.ParsePair(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, "EUR/USD", pair.String())
	}

	_, err := domain.ParsePair("EURUSD")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.ParsePair("EUR/USD/GBP")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestUser_MergeProfile(t *testing.T) {
	known := domain.User{ChatID: "42", Username: "alice", FirstName: "Alice", LastName: "Liddell"}

	merged := known.MergeProfile(domain.User{ChatID: "42", Username: "", FirstName: "Al"})

	assert.Equal(t, "alice", merged.Username)
	assert.Equal(t, "Al", merged.FirstName)
	assert.Equal(t, "Liddell", merged.LastName)
}
