// Package core provides the expense record and amount parsing.
//
// This file contains functions for parsing monetary amounts from strings.
// Amounts are exact decimals; floating point is never used for arithmetic.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to an exact decimal amount.
//
// Only a dot is accepted as the decimal separator. Commas are rejected
// outright since amounts are displayed with comma digit grouping and
// "1,234" must not be read as 1.234. Leading and trailing whitespace is
// ignored. Sign and magnitude are not checked.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("1,234") -> 0, ErrInvalidAmount
//	ParseAmount("abc")   -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// decimal accepts exponents; form input never should.
	if strings.ContainsAny(s, ",eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount with two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
