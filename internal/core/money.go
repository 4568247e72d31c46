// Package core provides the domain model for the occurrence engine.
//
// This file contains amount parsing and sanitization. Amounts are
// decimal.Decimal throughout; float input is sanitized at this boundary so
// NaN and infinities never reach the ledger.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// SanitizeAmount converts a float to a transaction amount. NaN and
// infinities collapse to zero, as do negative values (amounts carry their
// sign through the transaction type, not the number).
func SanitizeAmount(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// SanitizeBalance converts a float to an account balance. NaN and
// infinities collapse to zero; negative balances are legitimate.
func SanitizeBalance(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// ParseAmount parses a user-entered amount string.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// requires a strictly positive value. Returns ErrInvalidAmount for
// anything else.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-1")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
