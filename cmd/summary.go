package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
	"github.com/ginjaninja78/invoice-consolidator/internal/report"
)

var summaryFile string

// summaryCmd consolidates one export in memory and prints the totals.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print price/VAT totals per receiver for one export",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummary(appConfig, logger, summaryFile, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryFile, "file", "", "Export file to summarize")
	summaryCmd.MarkFlagRequired("file")
}

func runSummary(cfg *config.MainConfig, log logrus.FieldLogger, file string, out io.Writer) error {
	session, err := newRunSession(cfg, log)
	if err != nil {
		return err
	}
	if _, err := session.consolidate(file); err != nil {
		return err
	}

	res := session.last
	if res.Empty() {
		fmt.Fprintln(out, "No invoice rows.")
		return nil
	}

	if res.Stats.OverflowItems > 0 {
		fmt.Fprintf(out, "Warning: %d item(s) beyond the fourth slot were dropped\n\n", res.Stats.OverflowItems)
	}
	return report.Summarize(res.Output).Write(out)
}
