package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/amirphl/ecolca/lca"
	"github.com/spf13/cobra"
)

func newFactorsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "factors",
		Short: "Print the built-in emission factor table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			factors := lca.NewFactorTable(lca.DefaultFactors()).Factors()

			switch output {
			case outputJSON, outputYAML:
				return writeOutput(cmd.OutOrStdout(), output, factors)
			case "table":
			default:
				return fmt.Errorf("unsupported output format %q, use table, json or yaml", output)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MATERIAL\tCATEGORY\tCO2/UNIT\tENERGY MJ/UNIT\tTRANSPORT/KM\tUNIT")
			for _, f := range factors {
				fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\t%s\n",
					f.MaterialType, f.Category, f.CO2Factor, f.EnergyFactor, f.TransportFactor, f.Unit)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}
