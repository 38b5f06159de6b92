package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Summary bundles every aggregate derived from a Ledger.
type Summary struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Balance       decimal.Decimal
	BudgetGoal    decimal.Decimal
	OverBudget    bool
	Breakdown     []CategoryAmount
}
