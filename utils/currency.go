package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrencyIDR formats an amount as Indonesian Rupiah for display.
// Example: 15000.50 -> "Rp 15.000,50", 15000 -> "Rp 15.000"
func FormatCurrencyIDR(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	fixed := amount.StringFixed(2)
	parts := strings.SplitN(fixed, ".", 2)
	integerPart, decimalPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range integerPart {
		if i > 0 && (len(integerPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	if decimalPart == "00" {
		return "Rp " + sign + b.String()
	}
	return "Rp " + sign + b.String() + "," + decimalPart
}
