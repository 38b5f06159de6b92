// Package aggregate derives totals, balance, the over-budget flag and the
// per-category expense breakdown from a ledger. Everything here is pure.
package aggregate

import (
	"github.com/shopspring/decimal"

	"budget/internal/core"
)

// Total sums the amounts of entries.
func Total(entries []core.Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// Balance is income minus expenses and may be negative.
func Balance(totalIncome, totalExpenses decimal.Decimal) decimal.Decimal {
	return totalIncome.Sub(totalExpenses)
}

// IsOverBudget is false whenever no goal is set.
func IsOverBudget(goal, totalExpenses decimal.Decimal) bool {
	return goal.IsPositive() && totalExpenses.GreaterThan(goal)
}

// CategoryBreakdown groups expenses by category, keeping the order in which
// each category first appears.
func CategoryBreakdown(expenses []core.Entry) []core.CategoryAmount {
	out := make([]core.CategoryAmount, 0)
	index := make(map[string]int)
	for _, e := range expenses {
		i, seen := index[e.Category]
		if !seen {
			index[e.Category] = len(out)
			out = append(out, core.CategoryAmount{Name: e.Category, Amount: e.Amount})
			continue
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	return out
}

// Summarize computes every aggregate from scratch.
func Summarize(l core.Ledger) core.Summary {
	income := Total(l.Income)
	expenses := Total(l.Expenses)
	return core.Summary{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       Balance(income, expenses),
		BudgetGoal:    l.BudgetGoal,
		OverBudget:    IsOverBudget(l.BudgetGoal, expenses),
		Breakdown:     CategoryBreakdown(l.Expenses),
	}
}

// Summarizer turns a ledger snapshot into its aggregates.
type Summarizer interface {
	Summarize(l core.Ledger) core.Summary
}

// Pure recomputes on every call.
type Pure struct{}

func (Pure) Summarize(l core.Ledger) core.Summary {
	return Summarize(l)
}
