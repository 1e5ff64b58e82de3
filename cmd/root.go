// Package cmd defines and implements the CLI commands for the apicheck executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apicheck",
		Short: "Conformance checker for the TamilansJob.com job board API.",
		Long: `apicheck exercises a running TamilansJob.com API end to end: health,
seeding, reference tables, job listing and filtering, creation, error paths,
and CORS. Results are reported on the console and can be persisted to
Postgres, exported as a JSON artifact, and announced over Pub/Sub.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
