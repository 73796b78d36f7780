// =============================================================================
// Invoice Consolidator - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   consolidator version
//
// OUTPUT:
//   Invoice Consolidator
//   Version:    1.0.0
//   Build Date: 2025-02-03
//   Go Version: go1.24.11
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version and BuildDate are set at build time using ldflags:
//   go build -ldflags "-X 'github.com/ginjaninja78/invoice-consolidator/cmd.Version=1.0.0'"
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Display the application version",
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Invoice Consolidator")
		fmt.Fprintf(out, "Version:    %s\n", Version)
		fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
		fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
