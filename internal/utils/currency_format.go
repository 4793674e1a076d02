package utils

import (
	"github.com/shopspring/decimal"
)

// FormatWithPrecision rounds amount to precision decimal places and drops
// trailing zeros. Example: 1.080000 with precision 4 returns "1.08",
// 0.853456 with precision 4 returns "0.8535".
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}
