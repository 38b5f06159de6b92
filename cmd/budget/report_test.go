package main

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"budget/internal/aggregate"
	"budget/internal/core"
)

func TestBuildReport(t *testing.T) {
	l := core.Ledger{
		Income: []core.Entry{{ID: 1, Amount: decimal.NewFromInt(2000), Category: "Salary"}},
		Expenses: []core.Entry{
			{ID: 2, Amount: decimal.NewFromInt(1500), Category: "Housing"},
			{ID: 3, Amount: decimal.NewFromInt(700), Category: "Food"},
		},
		BudgetGoal: decimal.NewFromInt(2000),
	}
	md := buildReport(l, aggregate.Summarize(l), "USD")

	for _, want := range []string{
		"# Budget report",
		"| Income | $2,000.00 |",
		"| Expenses | $2,200.00 |",
		"**Over budget:**",
		"| Housing | $1,500.00 |",
		"| 3 | Food | $700.00 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
}

func TestBuildReportEmptyLedger(t *testing.T) {
	l := core.Ledger{}
	md := buildReport(l, aggregate.Summarize(l), "USD")

	for _, want := range []string{"_No budget goal set._", "No expenses yet.", "None."} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "Over budget") {
		t.Errorf("empty ledger reported over budget:\n%s", md)
	}
}

func TestFindEntry(t *testing.T) {
	l := core.Ledger{Expenses: []core.Entry{{ID: 7, Amount: decimal.NewFromInt(5), Category: "Food"}}}

	if _, ok := findEntry(l, core.Expense, 7); !ok {
		t.Fatal("expected to find expense 7")
	}
	if _, ok := findEntry(l, core.Income, 7); ok {
		t.Fatal("expense id must not match in income")
	}
}
