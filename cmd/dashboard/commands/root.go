package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	engineConfig string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Trading performance dashboard",
	Long: `Trading performance dashboard CLI

Serves drawdown, Sharpe, expectancy, recovery factor, profit factor
and the watermark heatmap computed from closed strategies in PostgreSQL.

Usage:
  go run ./cmd/dashboard [command]

Examples:
  go run ./cmd/dashboard serve
  go run ./cmd/dashboard metrics --from 2024-01-01 --to 2024-03-31
  go run ./cmd/dashboard watermarks --to 2024-12-31
  go run ./cmd/dashboard test-db`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&engineConfig, "engine-config", "", "engine config YAML (overrides ENGINE_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
