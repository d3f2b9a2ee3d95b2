// Package money converts between major-unit decimals and integer minor
// currency units. All arithmetic that touches a charge happens in cents.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CentsFromDollars converts a major-unit decimal amount to cents, rounding to
// the nearest cent.
func CentsFromDollars(d decimal.Decimal) int64 {
	return d.Round(2).Mul(hundred).IntPart()
}

// FormatCents renders cents as a major-unit decimal with the currency symbol,
// e.g. 1234 -> "$12.34".
func FormatCents(cents int64, currency string) string {
	major := decimal.NewFromInt(cents).Div(hundred)
	switch currency {
	case "usd", "USD":
		return "$" + major.StringFixed(2)
	case "eur", "EUR":
		return "€" + major.StringFixed(2)
	default:
		return major.StringFixed(2) + " " + currency
	}
}

// ParseDollars parses a major-unit decimal string ("12.34").
func ParseDollars(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}
