// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// as they appear in bank messages and API payloads.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string with optional thousands separators
// into a positive decimal amount.
//
// Commas are treated as thousands separators and removed before parsing;
// the dot is the only decimal separator. Returns ErrInvalidAmount for signs,
// stray characters, more than one dot, or zero.
//
// Examples:
//   ParseAmount("1,234.56") -> 1234.56, nil
//   ParseAmount("500")      -> 500, nil
//   ParseAmount("1.2.3")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	dots := 0
	for _, r := range s {
		if r == '.' {
			dots++
			continue
		}
		if !unicode.IsDigit(r) {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if dots > 1 || s == "." {
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

// FormatAmount renders an amount with two decimals for display.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
