package utils

import (
	"fmt"
	"strings"

	"github.com/divan/num2words"
	"github.com/shopspring/decimal"
)

// FormatWithPrecision formats an amount with the given precision
// Example: 12.3456 with precision 2 returns "12.35"
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}

// FormatMoney renders an amount with thousands separators and two decimals,
// prefixed by the currency code: "KES 45,000.00".
func FormatMoney(amount decimal.Decimal, currencyCode string) string {
	fixed := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s%s.%s", currencyCode, sign, b.String(), frac))
}

// AmountInWords spells out an amount: 45000.50 -> "forty-five thousand and 50/100".
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Abs().Round(2)
	whole := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(whole)).Mul(decimal.NewFromInt(100)).IntPart()

	words := num2words.Convert(int(whole))
	if cents == 0 {
		return words
	}
	return fmt.Sprintf("%s and %02d/100", words, cents)
}
