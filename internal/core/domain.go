package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind selects which collection of the ledger an entry belongs to.
	Kind string

	Entry struct {
		ID       int64
		Amount   decimal.Decimal
		Category string
	}

	// Ledger is the full budgeting state: both entry collections in insertion
	// order plus the monthly budget goal.
	Ledger struct {
		Income     []Entry
		Expenses   []Entry
		BudgetGoal decimal.Decimal
	}
)

var (
	ErrInvalidKind     = errors.New("invalid entry kind")
	ErrInvalidCategory = errors.New("invalid category")
)

var (
	incomeCategories = []string{"Salary", "Freelance", "Investments", "Gift", "Other"}

	expenseCategories = []string{
		"Food",
		"Transport",
		"Housing",
		"Utilities",
		"Entertainment",
		"Healthcare",
		"Shopping",
		"Other",
	}
)

// ParseKind accepts "income", "expense" or "expenses", ignoring case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return Income, nil
	case "expense", "expenses":
		return Expense, nil
	default:
		return "", ErrInvalidKind
	}
}

func (k Kind) String() string {
	return string(k)
}

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// Categories returns the fixed category set for a kind.
func Categories(k Kind) []string {
	switch k {
	case Income:
		return append([]string(nil), incomeCategories...)
	case Expense:
		return append([]string(nil), expenseCategories...)
	default:
		return nil
	}
}

func IsValidCategory(k Kind, category string) bool {
	for _, c := range Categories(k) {
		if c == category {
			return true
		}
	}
	return false
}

func (e Entry) Validate() error {
	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrInvalidCategory
	}
	return nil
}

// Entries returns the collection for the given kind.
func (l Ledger) Entries(k Kind) []Entry {
	if k == Income {
		return l.Income
	}
	return l.Expenses
}

// Clone returns a deep copy with non-nil collections; callers may modify it
// freely.
func (l Ledger) Clone() Ledger {
	return Ledger{
		Income:     cloneEntries(l.Income),
		Expenses:   cloneEntries(l.Expenses),
		BudgetGoal: l.BudgetGoal,
	}
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// MaxID returns the highest entry id across both collections, or 0.
func (l Ledger) MaxID() int64 {
	var max int64
	for _, e := range l.Income {
		if e.ID > max {
			max = e.ID
		}
	}
	for _, e := range l.Expenses {
		if e.ID > max {
			max = e.ID
		}
	}
	return max
}
