// Package app contains the Cobra command tree for shoorah-insights.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "shoorah-insights",
	Short: "Cohort mood scoring and wellbeing reports",
	Long: `shoorah-insights turns per-user emotional-state records into
cohort-level wellbeing reports: dimension averages, positive/negative
percentages, week-over-week trends, and narrative classifications.

Run a subcommand:
  report     Build cohort mood, overall, sentiment, or head-count reports
  subject    Manage subjects and company memberships
  record     Ingest mood records
  sentiment  Ingest free-text sentiment tallies
  taxonomy   List the built-in taxonomies and their dimensions`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/shoorah-insights/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
}
