// Package core provides money parsing and handling utilities.
//
// This file contains the amount validation rules shared by every entry point
// into the ledger, plus display formatting for decimal amounts.
package core

import (
	"errors"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used for display when no currency is configured.
const DefaultCurrency = money.EUR

// MaxAmount is the ceiling for entry amounts and the budget goal.
var MaxAmount = decimal.NewFromInt(1_000_000)

// MaxFractionDigits bounds the scale of stored amounts.
const MaxFractionDigits = 8

// maxExponent is the largest exponent a value at or under MaxAmount can carry.
const maxExponent = 6

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrAmountTooLarge    = errors.New("amount exceeds 1,000,000")
	ErrInvalidBudgetGoal = errors.New("invalid budget goal")
)

// ParseAmount converts user input to a positive decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// surrounding whitespace. Exponent notation, thousands separators and more
// than MaxFractionDigits decimals are rejected. The value must be strictly
// greater than zero and at most MaxAmount.
//
// Examples:
//
//	ParseAmount("999.99")  -> 999.99, nil
//	ParseAmount("12,5")    -> 12.5, nil
//	ParseAmount("0")       -> 0, ErrInvalidAmount
//	ParseAmount("1,000")   -> 0, ErrInvalidAmount
//	ParseAmount("1000001") -> 0, ErrAmountTooLarge
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.Zero, err
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// IsValidAmount reports whether s parses to an amount in (0, MaxAmount].
func IsValidAmount(s string) bool {
	_, err := ParseAmount(s)
	return err == nil
}

// ValidateAmount checks an already parsed amount against the entry invariants.
// The exponent is checked before any comparison that would rescale d.
func ValidateAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return ErrInvalidAmount
	}
	if d.Exponent() < -MaxFractionDigits {
		return ErrInvalidAmount
	}
	if d.Exponent() > maxExponent || d.GreaterThan(MaxAmount) {
		return ErrAmountTooLarge
	}
	return nil
}

// ParseBudgetGoal is like ParseAmount but also accepts zero, which disables
// the over-budget check.
func ParseBudgetGoal(s string) (decimal.Decimal, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return decimal.Zero, ErrInvalidBudgetGoal
	}
	if err := ValidateBudgetGoal(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func ValidateBudgetGoal(d decimal.Decimal) error {
	if d.IsZero() {
		return nil
	}
	if d.IsNegative() || d.Exponent() < -MaxFractionDigits || d.Exponent() > maxExponent {
		return ErrInvalidBudgetGoal
	}
	if d.GreaterThan(MaxAmount) {
		return ErrInvalidBudgetGoal
	}
	return nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Count(s, ".")+strings.Count(s, ",") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	// A comma followed by exactly three digits reads as a thousands separator.
	if i := strings.IndexByte(s, ','); i >= 0 {
		if len(s)-i-1 == 3 {
			return decimal.Zero, ErrInvalidAmount
		}
		s = s[:i] + "." + s[i+1:]
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders d in the given ISO currency for display, e.g. "€1,234.50".
// Unknown currency codes fall back to go-money's bare formatting.
func FormatAmount(d decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	cur := money.New(0, currency).Currency()
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}
