package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"budget/internal/cli"
	"budget/internal/core"
	"budget/internal/ledger"
)

var flagYes bool

var incomeCmd = &cobra.Command{
	Use:     "income <amount> <category>",
	Short:   "Record an income entry",
	Long:    "Record an income entry. Categories: " + strings.Join(core.Categories(core.Income), ", "),
	Args:    cobra.ExactArgs(2),
	Example: "  budget income 2500 Salary",
	RunE:    runAddEntry(core.Income),
}

var expenseCmd = &cobra.Command{
	Use:     "expense <amount> <category>",
	Short:   "Record an expense entry",
	Long:    "Record an expense entry. Categories: " + strings.Join(core.Categories(core.Expense), ", "),
	Args:    cobra.ExactArgs(2),
	Example: "  budget expense 12,50 Food",
	RunE:    runAddEntry(core.Expense),
}

var goalCmd = &cobra.Command{
	Use:   "goal <amount>",
	Short: "Set the monthly budget goal (0 disables the over-budget check)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetGoal,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <income|expense> <id>",
	Short: "Delete an entry by id",
	Args:  cobra.ExactArgs(2),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Delete without asking for confirmation")
	rootCmd.AddCommand(incomeCmd, expenseCmd, goalCmd, deleteCmd)
}

var errRejected = errors.New("input rejected")

func runAddEntry(kind core.Kind) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(sess *cli.Session) error {
			add := sess.Store.AddExpense
			if kind == core.Income {
				add = sess.Store.AddIncome
			}
			res, err := add(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !res.Applied {
				return fmt.Errorf("%w: amount must be between 0 and 1,000,000 and category one of %s",
					errRejected, strings.Join(core.Categories(kind), ", "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s #%d: %s %s\n",
				kind, res.Entry.ID, core.FormatAmount(res.Entry.Amount, sess.Currency), res.Entry.Category)
			printBalance(cmd, sess, res)
			return nil
		})
	}
}

func runSetGoal(cmd *cobra.Command, args []string) error {
	return withSession(cmd.Context(), func(sess *cli.Session) error {
		res, err := sess.Store.SetBudgetGoal(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !res.Applied {
			return fmt.Errorf("%w: budget goal must be between 0 and 1,000,000", errRejected)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Budget goal set to %s\n", core.FormatAmount(res.Summary.BudgetGoal, sess.Currency))
		printBalance(cmd, sess, res)
		return nil
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	kind, err := core.ParseKind(args[0])
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[1])
	}

	return withSession(cmd.Context(), func(sess *cli.Session) error {
		entry, ok := findEntry(sess.Store.Snapshot(), kind, id)
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "No %s entry with id %d\n", kind, id)
			return nil
		}

		if !flagYes {
			confirmed := false
			prompt := huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s %s (%s)?", kind, core.FormatAmount(entry.Amount, sess.Currency), entry.Category)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&confirmed)
			if err := prompt.Run(); err != nil {
				return fmt.Errorf("confirmation: %w", err)
			}
			if !confirmed {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
		}

		res, err := sess.Store.DeleteEntry(cmd.Context(), kind, id)
		if err != nil {
			return err
		}
		if res.Applied {
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s #%d\n", kind, id)
		}
		printBalance(cmd, sess, res)
		return nil
	})
}

func findEntry(l core.Ledger, kind core.Kind, id int64) (core.Entry, bool) {
	for _, e := range l.Entries(kind) {
		if e.ID == id {
			return e, true
		}
	}
	return core.Entry{}, false
}

func printBalance(cmd *cobra.Command, sess *cli.Session, res ledger.Result) {
	s := res.Summary
	fmt.Fprintf(cmd.OutOrStdout(), "Balance: %s  %s\n",
		core.FormatAmount(s.Balance, sess.Currency),
		cli.RenderStatus(s.OverBudget, s.BudgetGoal.IsPositive()))
}
