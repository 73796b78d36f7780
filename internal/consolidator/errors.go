package consolidator

import (
	"fmt"
	"strings"
)

// SchemaError reports mandatory input columns that are missing.
// It is the only error that aborts a consolidation run.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input is missing mandatory column(s): %s", strings.Join(e.Missing, ", "))
}

// ParseWarning records a numeric cell that could not be parsed.
// The value is treated as zero and processing continues.
type ParseWarning struct {
	// Row is the 1-indexed source row, or 0 when unknown.
	Row    int
	Column string
	Value  string
	Reason string
}

func (w ParseWarning) String() string {
	if w.Row > 0 {
		return fmt.Sprintf("row %d, column %s: %s (value: %q)", w.Row, w.Column, w.Reason, w.Value)
	}
	return fmt.Sprintf("column %s: %s (value: %q)", w.Column, w.Reason, w.Value)
}

// CheckSchema returns a *SchemaError when any of the required columns is absent.
func CheckSchema(columns []string) error {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}

	var missing []string
	for _, c := range RequiredColumns() {
		if !present[c] {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
