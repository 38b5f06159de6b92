package main

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"budget/internal/cli"
	"budget/internal/core"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Totals, balance and spending by category",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every entry with its id",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var hundred = decimal.NewFromInt(100)

func init() {
	rootCmd.AddCommand(summaryCmd, listCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	return withSession(cmd.Context(), func(sess *cli.Session) error {
		s := sess.Store.Summary()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		fmt.Fprintln(out, cli.RenderTitle("BUDGET SUMMARY"))
		fmt.Fprintln(out)

		goal := core.FormatAmount(s.BudgetGoal, sess.Currency)
		if !s.BudgetGoal.IsPositive() {
			goal = "not set"
		}
		fmt.Fprint(out, cli.RenderTable(cli.Table{
			Rows: [][]string{
				{"Income", core.FormatAmount(s.TotalIncome, sess.Currency)},
				{"Expenses", core.FormatAmount(s.TotalExpenses, sess.Currency)},
				{"---"},
				{"Balance", core.FormatAmount(s.Balance, sess.Currency)},
				{"Budget goal", goal},
			},
		}))
		fmt.Fprintln(out, "  "+cli.RenderStatus(s.OverBudget, s.BudgetGoal.IsPositive()))

		if len(s.Breakdown) == 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "  "+cli.RenderMuted("No expenses yet"))
			return nil
		}

		rows := make([][]string, len(s.Breakdown))
		for i, c := range s.Breakdown {
			share := c.Amount.Div(s.TotalExpenses).Mul(hundred).StringFixed(1) + "%"
			rows[i] = []string{c.Name, core.FormatAmount(c.Amount, sess.Currency), share}
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, cli.RenderTable(cli.Table{
			Title:   "Spending by category",
			Headers: []string{"Category", "Amount", "Share"},
			Rows:    rows,
		}))
		return nil
	})
}

func runList(cmd *cobra.Command, _ []string) error {
	return withSession(cmd.Context(), func(sess *cli.Session) error {
		l := sess.Store.Snapshot()
		out := cmd.OutOrStdout()

		for _, kind := range []core.Kind{core.Income, core.Expense} {
			entries := l.Entries(kind)
			title := "Income"
			if kind == core.Expense {
				title = "Expenses"
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "  "+cli.RenderMuted("No %s entries", kind))
				continue
			}
			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{strconv.FormatInt(e.ID, 10), e.Category, core.FormatAmount(e.Amount, sess.Currency)}
			}
			fmt.Fprint(out, cli.RenderTable(cli.Table{
				Title:   title,
				Headers: []string{"ID", "Category", "Amount"},
				Rows:    rows,
			}))
		}
		return nil
	})
}
