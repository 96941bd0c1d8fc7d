// Package main provides breedctl, a command line client for scoring, ranking and
// searching the breed catalog and for managing stored catalogs.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	platformobservability "github.com/Apurer/breedmatch-api/internal/platform/observability"
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	catalogFile string
	policyFile  string
	logLevel    string
}

func rootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "breedctl",
		Short:         "Score, rank and search dog breeds",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `breedctl works against the bundled breed catalog, or a catalog file given
with --catalog. Preferences are passed as repeated --pref "Trait Name=value"
flags, where value is true, false, 0/low, 1/medium, 2/high or null.`,
	}
	cmd.PersistentFlags().StringVar(&opts.catalogFile, "catalog", "", "catalog JSON file (defaults to the bundled catalog)")
	cmd.PersistentFlags().StringVar(&opts.policyFile, "policy", os.Getenv("MATCH_POLICY_FILE"), "match policy YAML file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		scoreCmd(opts),
		rankCmd(opts),
		searchCmd(opts),
		catalogCmd(opts),
	)
	return cmd
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level, err := platformobservability.ParseLevel(o.logLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	return platformobservability.NewLogger(cmd.ErrOrStderr(), level)
}
