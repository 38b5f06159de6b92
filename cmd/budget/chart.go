package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"budget/internal/chart"
	"budget/internal/cli"
)

var flagChartWidth int

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Draw the expense-by-category chart in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSession(cmd.Context(), func(sess *cli.Session) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.RenderTitle("EXPENSES BY CATEGORY"))
			fmt.Fprintln(out)

			sink := chart.TerminalSink{Out: out, Width: flagChartWidth}
			d := chart.Draw(cmd.Context(), sink, sess.Store.Chart(), sess.Config.ChartPalette, appLogger)
			if !d.OK {
				fmt.Fprintln(out, "  "+cli.RenderMuted("%s", d.Message))
			}
			return nil
		})
	},
}

func init() {
	chartCmd.Flags().IntVarP(&flagChartWidth, "width", "w", 30, "Bar width in cells")
	rootCmd.AddCommand(chartCmd)
}
