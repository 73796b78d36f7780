// =============================================================================
// Invoice Consolidator - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   consolidator validate                  # check config.yaml only
//   consolidator validate --file export.xlsx
//
// With --file the export is loaded and checked for missing columns and
// non-numeric amounts, then consolidated in memory and the output table is
// checked against the upload schema. Nothing is written.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
	"github.com/ginjaninja78/invoice-consolidator/internal/loader"
	"github.com/ginjaninja78/invoice-consolidator/internal/validation"
)

var validateFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and optionally one export file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(appConfig, logger, validateFile, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateFile, "file", "", "Export file to check")
}

func runValidate(cfg *config.MainConfig, log logrus.FieldLogger, file string, out io.Writer) error {
	fmt.Fprintln(out, "Configuration: OK")
	fmt.Fprintf(out, "  Categories:   %v\n", cfg.Rules.CategoryLabels)
	fmt.Fprintf(out, "  Output:       %s (sheet %s, header row %d)\n",
		cfg.Output.Format, cfg.Output.SheetName, cfg.Output.StartRowValue()+1)

	if file == "" {
		return nil
	}

	// =========================================================================
	// STEP 1: INPUT
	// =========================================================================

	loaded, err := loader.Load(file, cfg.Input)
	if err != nil {
		return err
	}

	input := validation.ValidateInput(loaded.Table)
	fmt.Fprintf(out, "\nInput: %d data row(s)", loaded.Table.Len())
	if loaded.Encoding != "" {
		fmt.Fprintf(out, ", encoding %s", loaded.Encoding)
	}
	fmt.Fprintln(out)
	if len(input.Errors) > 0 {
		fmt.Fprint(out, validation.FormatErrors(input.Errors))
	}
	if err := input.Err(); err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: CONSOLIDATED OUTPUT
	// =========================================================================

	session, err := newRunSession(cfg, log)
	if err != nil {
		return err
	}
	result, err := session.engine.Run(loaded.Table)
	if err != nil {
		return err
	}

	f := result.Stats.Filter
	fmt.Fprintf(out, "\nRows kept:      %d of %d\n", f.Kept, f.RowsRead)
	fmt.Fprintf(out, "  company info: %d\n", f.CompanyInfoRows)
	fmt.Fprintf(out, "  artifacts:    %d\n", f.ArtifactRows)
	fmt.Fprintf(out, "  no price:     %d\n", f.MissingPrice+f.InvalidPrice)
	fmt.Fprintf(out, "  price <= 0:   %d\n", f.NonPositive)
	filled := 0
	for i := range result.Invoices {
		filled += result.Invoices[i].FilledSlots()
	}
	fmt.Fprintf(out, "Invoices:       %d (%d item slot(s) filled)\n", result.Stats.Invoices, filled)
	fmt.Fprintf(out, "Overflow items: %d\n", result.Stats.OverflowItems)
	fmt.Fprintf(out, "Unmapped items: %d\n", result.Stats.UnmappedItems)

	output := validation.ValidateOutput(result.Output, session.engine.Rules())
	if !output.IsValid {
		fmt.Fprint(out, validation.FormatErrors(output.Errors))
		return output.Err()
	}

	fmt.Fprintln(out, "\nOutput: OK")
	return nil
}
