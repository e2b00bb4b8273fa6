package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "platefeed",
	Short: "platefeed - recipe feed service",
	Long: `platefeed serves a recipe feed over a JSON HTTP API backed by
PostgreSQL: list and create recipes, register likes, and attach reviews
with read-time rating aggregates.

Configuration is taken from the environment (DATABASE_URL, PORT,
LOG_LEVEL, QUERY_TIMEOUT, SHUTDOWN_TIMEOUT, DB_MAX_CONNS).`,
	Version: "1.0.0",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
