package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"budget/internal/cli"
	"budget/internal/core"
)

var (
	flagRaw      bool
	flagWordWrap int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a markdown report of the ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd.Context(), func(sess *cli.Session) error {
			md := buildReport(sess.Store.Snapshot(), sess.Store.Summary(), sess.Currency)
			if flagRaw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}

			r, err := glamour.NewTermRenderer(
				glamour.WithStandardStyle("dark"),
				glamour.WithWordWrap(flagWordWrap),
			)
			if err != nil {
				return fmt.Errorf("create markdown renderer: %w", err)
			}
			rendered, err := r.Render(md)
			if err != nil {
				return fmt.Errorf("render report: %w", err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		})
	},
}

func init() {
	reportCmd.Flags().BoolVar(&flagRaw, "raw", false, "Print the markdown source instead of rendering it")
	reportCmd.Flags().IntVar(&flagWordWrap, "wrap", 80, "Word wrap width for the rendered report")
	rootCmd.AddCommand(reportCmd)
}

// buildReport renders the ledger and its summary as a markdown document.
func buildReport(l core.Ledger, s core.Summary, currency string) string {
	var b strings.Builder
	b.WriteString("# Budget report\n\n")
	b.WriteString("| | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Income | %s |\n", core.FormatAmount(s.TotalIncome, currency))
	fmt.Fprintf(&b, "| Expenses | %s |\n", core.FormatAmount(s.TotalExpenses, currency))
	fmt.Fprintf(&b, "| **Balance** | **%s** |\n", core.FormatAmount(s.Balance, currency))
	if s.BudgetGoal.IsPositive() {
		fmt.Fprintf(&b, "| Budget goal | %s |\n", core.FormatAmount(s.BudgetGoal, currency))
	}
	b.WriteString("\n")

	switch {
	case !s.BudgetGoal.IsPositive():
		b.WriteString("_No budget goal set._\n\n")
	case s.OverBudget:
		b.WriteString("> **Over budget:** expenses exceed the monthly goal.\n\n")
	default:
		b.WriteString("> Within budget.\n\n")
	}

	b.WriteString("## Spending by category\n\n")
	if len(s.Breakdown) == 0 {
		b.WriteString("No expenses yet.\n\n")
	} else {
		b.WriteString("| Category | Amount |\n|---|---:|\n")
		for _, c := range s.Breakdown {
			fmt.Fprintf(&b, "| %s | %s |\n", c.Name, core.FormatAmount(c.Amount, currency))
		}
		b.WriteString("\n")
	}

	writeEntries(&b, "Income", l.Income, currency)
	writeEntries(&b, "Expenses", l.Expenses, currency)
	return b.String()
}

func writeEntries(b *strings.Builder, title string, entries []core.Entry, currency string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(entries) == 0 {
		b.WriteString("None.\n\n")
		return
	}
	b.WriteString("| ID | Category | Amount |\n|---:|---|---:|\n")
	for _, e := range entries {
		fmt.Fprintf(b, "| %d | %s | %s |\n", e.ID, e.Category, core.FormatAmount(e.Amount, currency))
	}
	b.WriteString("\n")
}
