package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	businessflow "github.com/amirphl/ecolca/business_flow"
	"github.com/amirphl/ecolca/lca"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

type calculateOutput struct {
	File           string                `json:"file"`
	SkippedRows    int                   `json:"skipped_rows"`
	ProcessingInfo *lca.ProcessingInfo   `json:"processing_info,omitempty"`
	Result         *lca.AssessmentResult `json:"result"`
}

func newCalculateCmd() *cobra.Command {
	var (
		file        string
		impute      bool
		output      string
		parallelism int
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate an assessment for a CSV or XLSX material list",
		Example: `  lca-cli calculate --file materials.csv
  lca-cli calculate --file materials.xlsx --impute --output yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != outputJSON && output != outputYAML {
				return fmt.Errorf("unsupported output format %q, use json or yaml", output)
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("cannot open %s: %w", file, err)
			}
			defer f.Close()

			out, err := calculateFile(filepath.Base(file), f, impute, parallelism)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "material list (.csv, .xlsx)")
	cmd.Flags().BoolVar(&impute, "impute", false, "fill missing quantities and energy with rule-based estimates")
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format: json or yaml")
	cmd.Flags().IntVar(&parallelism, "parallelism", 4, "enrichment workers")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func calculateFile(name string, r io.Reader, impute bool, parallelism int) (*calculateOutput, error) {
	imported, err := businessflow.ParseMaterialFile(name, r)
	if err != nil {
		return nil, err
	}

	materials := imported.Materials
	out := &calculateOutput{File: name, SkippedRows: imported.SkippedRows}
	if impute {
		processed, info := lca.ProcessMaterials(materials)
		materials = make([]lca.MaterialInput, 0, len(processed))
		for _, p := range processed {
			materials = append(materials, p.MaterialInput)
		}
		out.ProcessingInfo = &info
	}

	out.Result = lca.NewCalculator(lca.NewFactorTable(lca.DefaultFactors()), parallelism).Calculate(materials)
	return out, nil
}

// writeOutput renders v as indented JSON or as YAML keyed by the JSON field names
func writeOutput(w io.Writer, format string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if format == outputJSON {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
