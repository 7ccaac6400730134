// Command lca-cli runs life cycle assessments from the terminal and manages the database schema.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lca-cli",
		Short:         "EcoLCA command line tools",
		Long:          "Calculate life cycle assessments for material lists and manage the EcoLCA database.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newCalculateCmd(), newFactorsCmd(), newMigrateCmd())
	return cmd
}
