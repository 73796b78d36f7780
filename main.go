// =============================================================================
// Invoice Consolidator - Main Entry Point
// =============================================================================
//
// USAGE:
//   consolidator process       - Consolidate every export in the input directory
//   consolidator validate      - Validate configuration and, optionally, one export
//   consolidator summary       - Print totals for one export
//   consolidator version       - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Consolidation engine, parsers, writers, validation
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/invoice-consolidator/cmd"
)

func main() {
	cmd.Execute()
}
