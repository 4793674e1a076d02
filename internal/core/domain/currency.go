package domain

import (
	"strings"

	"github.com/SscSPs/currency_rates_bot/internal/apperrors"
)

// CurrencyCode is a normalized ISO-4217 style code, e.g. "EUR".
type CurrencyCode string

func (c CurrencyCode) String() string {
	return string(c)
}

// NormalizeCurrencyCode trims and uppercases raw input and checks that the
// result is exactly three ASCII letters.
func NormalizeCurrencyCode(raw string) (CurrencyCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", apperrors.NewValidationError("currency code is required")
	}
	if len(code) != 3 {
		return "", apperrors.NewValidationError("currency code %q must be 3 letters", raw)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", apperrors.NewValidationError("currency code %q must contain letters only", raw)
		}
	}
	return CurrencyCode(code), nil
}

// Pair is an ordered (base, target) currency pair. Values built through
// NewPair or ParsePair are always normalized.
type Pair struct {
	Base   CurrencyCode `json:"base"`
	Target CurrencyCode `json:"target"`
}

// NewPair normalizes both codes and rejects identical base and target.
func NewPair(base, target string) (Pair, error) {
	b, err := NormalizeCurrencyCode(base)
	if err != nil {
		return Pair{}, err
	}
	t, err := NormalizeCurrencyCode(target)
	if err != nil {
		return Pair{}, err
	}
	if b == t {
		return Pair{}, apperrors.NewValidationError("base and target currencies cannot be the same (%s)", b)
	}
	return Pair{Base: b, Target: t}, nil
}

// ParsePair accepts "EUR/USD", "eur-usd" or "EUR:USD".
func ParsePair(s string) (Pair, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '-' || r == ':'
	})
	if len(parts) != 2 {
		return Pair{}, apperrors.NewValidationError("currency pair %q must look like BASE/TARGET", s)
	}
	return NewPair(parts[0], parts[1])
}

// String renders the pair as BASE/TARGET.
func (p Pair) String() string {
	return string(p.Base) + "/" + string(p.Target)
}
