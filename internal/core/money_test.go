package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1000000", "1000000", true},
		{"999.99", "999.99", true},
		{"12,5", "12.5", true},
		{" 2.50 ", "2.5", true},
		{"0.01", "0.01", true},
		{"", "", false},
		{"abc", "", false},
		{"0", "", false},
		{"-5", "", false},
		{"1000001", "", false},
		{"1000000.01", "", false},
		{"1.2.3", "", false},
		{"0.00000001", "0.00000001", true},
		{"0.000000001", "", false},
		{"1e-100000", "", false},
		{"1E2", "", false},
		{"1e20000000", "", false},
		{"1,000", "", false},
		{"1.000,5", "", false},
		{"12,50", "12.5", true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestIsValidAmount(t *testing.T) {
	for _, in := range []string{"", "abc", "0", "-5", "1000001"} {
		if IsValidAmount(in) {
			t.Errorf("IsValidAmount(%q) = true, want false", in)
		}
	}
	for _, in := range []string{"1", "1000000", "999.99"} {
		if !IsValidAmount(in) {
			t.Errorf("IsValidAmount(%q) = false, want true", in)
		}
	}
}

func TestParseAmountErrors(t *testing.T) {
	if _, err := ParseAmount("2000000"); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
	if _, err := ParseAmount("x"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestParseBudgetGoal(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"0", true},
		{"1500", true},
		{"1000000", true},
		{"-1", false},
		{"1000001", false},
		{"", false},
		{"lots", false},
		{"1e-100000", false},
		{"2,000", false},
	}
	for _, tc := range cases {
		_, err := ParseBudgetGoal(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q expected ok, got %v", tc.in, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidBudgetGoal) {
			t.Fatalf("%q expected ErrInvalidBudgetGoal, got %v", tc.in, err)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	got := FormatAmount(decimal.RequireFromString("1234.5"), "USD")
	if got != "$1,234.50" {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestValidateRejectsExtremeExponents(t *testing.T) {
	tiny := decimal.New(1, -20_000_000)
	huge := decimal.New(1, 20_000_000)

	if err := ValidateAmount(tiny); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("tiny amount: expected ErrInvalidAmount, got %v", err)
	}
	if err := ValidateAmount(huge); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("huge amount: expected ErrAmountTooLarge, got %v", err)
	}
	if err := ValidateBudgetGoal(tiny); !errors.Is(err, ErrInvalidBudgetGoal) {
		t.Fatalf("tiny goal: expected ErrInvalidBudgetGoal, got %v", err)
	}
	if err := ValidateBudgetGoal(huge); !errors.Is(err, ErrInvalidBudgetGoal) {
		t.Fatalf("huge goal: expected ErrInvalidBudgetGoal, got %v", err)
	}
	if err := ValidateBudgetGoal(decimal.New(0, 30)); err != nil {
		t.Fatalf("zero goal with exponent must be valid, got %v", err)
	}
}
