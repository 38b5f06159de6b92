package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"budget/internal/backend"
	"budget/internal/cli"
	"budget/internal/config"
	"budget/internal/log"
)

var (
	flagBackend  string
	flagDataDir  string
	flagConfig   string
	flagLogLevel string

	appConfig *config.Config
	appLogger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:          "budget",
	Short:        "Personal budget tracker",
	Long:         "Record income and expenses, set a monthly budget goal and see where the money goes.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cli.LoadEnvFile()

		cfg, err := cli.LoadAndValidateConfig(flagConfig, cli.Overrides{
			Backend:  flagBackend,
			DataDir:  flagDataDir,
			LogLevel: flagLogLevel,
		})
		if err != nil {
			return err
		}
		appConfig = cfg
		appLogger = cli.SetupLogger(cfg.LogLevel, cmd.ErrOrStderr())
		return nil
	},
	RunE: runSummary,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagBackend, "backend", "b", "",
		fmt.Sprintf("Storage backend %v (overrides DATA_BACKEND)", backend.GetBackendTypeStrings()))
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Directory for the file backend (overrides DATA_DIR)")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to a TOML config file (default ./budget.toml if present)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// withSession opens the ledger for the duration of fn.
func withSession(ctx context.Context, fn func(*cli.Session) error) (err error) {
	sess, err := cli.OpenStore(ctx, appConfig, appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(sess)
}
