package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "macrolens",
	Short: "macrolens - macro regime and trade decision service",
	Long: `macrolens

Macro-trading decision core and orchestrating service: classifies the macro
regime from indicator observations, analyzes cross-asset correlation shifts,
and synthesizes an actionable trade signal with deltas against the previous
cycle.

Usage:
  go run ./cmd/macrolens [command]

Examples:
  go run ./cmd/macrolens api
  go run ./cmd/macrolens evaluate
  go run ./cmd/macrolens scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
