// Package core provides money formatting utilities.
//
// Amounts travel as shopspring decimals so that category sums stay exact
// regardless of how the store serialises them (number or numeric string).
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every displayed amount.
const CurrencySymbol = "₹"

// FormatRupees formats an amount for display without trailing zeros.
//
// Examples:
//
//	FormatRupees(3.5)  -> "₹3.5"
//	FormatRupees(10)   -> "₹10"
//	FormatRupees(-2.25) -> "-₹2.25"
func FormatRupees(d decimal.Decimal) string {
	s := d.String()
	if strings.HasPrefix(s, "-") {
		return "-" + CurrencySymbol + s[1:]
	}
	return CurrencySymbol + s
}

// ParseAmount parses a user-typed amount, accepting a decimal comma.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	return decimal.NewFromString(s)
}
