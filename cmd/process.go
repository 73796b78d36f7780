// =============================================================================
// Invoice Consolidator - Process Command
// =============================================================================
//
// This file defines the 'process' command, the main command of the tool. It
// drives the consolidation pipeline over every export in the input directory.
//
// COMMAND USAGE:
//   consolidator process [flags]
//
// FLAGS:
//   --file     : Process only this file instead of scanning the input directory
//   --dry-run  : Consolidate and validate without writing or archiving anything
//   --format   : Override the output format (xlsx or csv)
//
// PROCESSING PIPELINE:
//   1. Prepare directories and clean old archives
//   2. Discover export files in the input directory
//   3. For each file, in name order:
//      a. Load the export (CSV or spreadsheet)
//      b. Consolidate line items into invoice rows
//      c. Validate the output table
//      d. Render and write the upload file
//      e. Archive the input and a copy of the output
//   4. Write the warning log, summary log and metrics file
//
// Files are processed one after another. A failing file is reported and
// left in the input directory; the remaining files are still processed.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
	"github.com/ginjaninja78/invoice-consolidator/pkg/utils"
)

// processOptions holds the process command flags.
type processOptions struct {
	File   string
	DryRun bool
	Format string
}

var processOpts processOptions

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Consolidate ERP exports into bulk-upload files",
	Long: `The process command scans the input directory for ERP sales exports
(.csv, .xlsx, .xlsm) and writes one bulk-upload file per export.

On successful processing:
  - The upload file is placed in the output directory
  - The export is moved to the input archive
  - A summary log is written to the output directory

On error:
  - The export remains in the input directory
  - The error is recorded in the summary log
  - Processing continues with the next file`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(appConfig, logger, processOpts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&processOpts.File, "file", "", "Process only this file")
	processCmd.Flags().BoolVar(&processOpts.DryRun, "dry-run", false, "Consolidate without writing output files")
	processCmd.Flags().StringVar(&processOpts.Format, "format", "", "Output format: xlsx or csv (overrides config)")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess orchestrates one processing run.
func runProcess(cfg *config.MainConfig, log *logrus.Logger, opts processOptions, out io.Writer) error {
	startTime := time.Now()

	if opts.Format != "" {
		if opts.Format != config.FormatXLSX && opts.Format != config.FormatCSV {
			return fmt.Errorf("unknown output format %q", opts.Format)
		}
		cfg.Output.Format = opts.Format
	}

	session, err := newRunSession(cfg, log)
	if err != nil {
		return err
	}
	session.dryRun = opts.DryRun

	// =========================================================================
	// STEP 1: PREPARE DIRECTORIES
	// =========================================================================

	if !opts.DryRun {
		if err := session.files.EnsureDirectories(); err != nil {
			return err
		}
		cleanArchives(cfg, log)
	}

	// =========================================================================
	// STEP 2: DISCOVER INPUT FILES
	// =========================================================================

	var inputFiles []string
	if opts.File != "" {
		inputFiles = []string{opts.File}
	} else {
		inputFiles, err = session.files.DiscoverInputFiles()
		if err != nil {
			return err
		}
	}

	if len(inputFiles) == 0 {
		fmt.Fprintln(out, "No export files found in the input directory.")
		return nil
	}

	fmt.Fprintf(out, "Found %d file(s) to process\n", len(inputFiles))

	// =========================================================================
	// STEP 3: PROCESS FILES
	// =========================================================================

	for _, file := range inputFiles {
		outcome := session.processFile(file)
		name := filepath.Base(file)

		switch {
		case outcome.Err != nil:
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, outcome.Err)
		case outcome.Output != "":
			fmt.Fprintf(out, "  ✓ %s -> %s (%d invoice(s))\n", name, filepath.Base(outcome.Output), outcome.Result.Stats.Invoices)
		default:
			fmt.Fprintf(out, "  ✓ %s (%d invoice(s), nothing written)\n", name, outcome.Result.Stats.Invoices)
		}
	}

	// =========================================================================
	// STEP 4: LOGS AND METRICS
	// =========================================================================

	if err := session.finish(); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", session.summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", session.summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", session.summary.FailedFiles)
	fmt.Fprintf(out, "Invoices:        %d\n", session.summary.TotalInvoices)
	fmt.Fprintf(out, "Time elapsed:    %s\n", time.Since(startTime))

	if session.summary.FailedFiles > 0 {
		return fmt.Errorf("%d file(s) failed", session.summary.FailedFiles)
	}
	return nil
}

// cleanArchives applies archive_retention_days to both archive directories.
func cleanArchives(cfg *config.MainConfig, log logrus.FieldLogger) {
	if cfg.ArchiveRetentionDays <= 0 {
		return
	}
	maxAge := time.Duration(cfg.ArchiveRetentionDays) * 24 * time.Hour

	for _, dir := range []string{cfg.InputArchiveDir, cfg.OutputArchiveDir} {
		removed, err := utils.CleanOldArchives(dir, maxAge)
		if err != nil {
			log.WithError(err).Warn("archive cleanup failed")
			continue
		}
		if removed > 0 {
			log.WithFields(logrus.Fields{"dir": dir, "removed": removed}).Info("old archives removed")
		}
	}
}
