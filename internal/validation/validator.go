// =============================================================================
// Invoice Consolidator - Validation Engine
// =============================================================================
//
// This module checks tables on both sides of the consolidation engine.
//
// INPUT VALIDATION (before any row is processed):
//   - Mandatory columns present (fatal, reported as a SchemaError)
//   - Duplicate header names (warning)
//   - Non-numeric price/VAT cells (warning, the engine treats them as 0)
//
// OUTPUT VALIDATION (before any file is written):
//   - Exact 59-column schema, in order
//   - Every row has exactly 59 cells
//   - note_1..note_4 empty, etc5 equals the invoice type
//   - price_sum / VAT_sum equal the truncated slot sums
//
// ERROR HANDLING:
//   - Errors are collected, not returned one at a time
//   - Each error carries the row and column it refers to
//   - Only "error" severity blocks writing output
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
	"github.com/ginjaninja78/invoice-consolidator/internal/consolidator"
	"github.com/ginjaninja78/invoice-consolidator/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is "error" (blocks output) or "warning".
	Severity string

	// Field is the column the finding refers to.
	Field string

	// Value is the offending value, if any.
	Value string

	// Rule names the check that failed.
	Rule string

	// Message is a human-readable description.
	Message string

	// RowNumber is the 1-indexed source row (input) or output row index + 1.
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.RowNumber > 0 {
		return fmt.Sprintf("[%s] Row %d, Field '%s': %s (value: '%s')",
			strings.ToUpper(e.Severity), e.RowNumber, e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("[%s] Field '%s': %s", strings.ToUpper(e.Severity), e.Field, e.Message)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no error-severity findings.
	IsValid bool

	// Errors contains all findings, including warnings.
	Errors []*ValidationError

	// ErrorCount is the number of error-severity findings.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// RowsValidated is the number of rows inspected.
	RowsValidated int

	// Schema is set when mandatory input columns are missing.
	Schema *consolidator.SchemaError
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
	} else {
		r.WarningCount++
	}
}

func (r *ValidationResult) finish() *ValidationResult {
	r.IsValid = r.ErrorCount == 0
	return r
}

// Err returns the schema error, or a summary error if other errors exist.
func (r *ValidationResult) Err() error {
	if r.Schema != nil {
		return r.Schema
	}
	if r.ErrorCount > 0 {
		return fmt.Errorf("validation failed with %d error(s)", r.ErrorCount)
	}
	return nil
}

// =============================================================================
// INPUT VALIDATION
// =============================================================================

// ValidateInput checks an export table before consolidation.
func ValidateInput(table *types.Table) *ValidationResult {
	result := &ValidationResult{RowsValidated: table.Len()}

	if err := consolidator.CheckSchema(table.Columns); err != nil {
		schemaErr := err.(*consolidator.SchemaError)
		result.Schema = schemaErr
		for _, col := range schemaErr.Missing {
			result.add(&ValidationError{
				Severity: SeverityError,
				Field:    col,
				Rule:     "required_column",
				Message:  "mandatory column is missing",
			})
		}
		return result.finish()
	}

	seen := make(map[string]bool, len(table.Columns))
	for _, col := range table.Columns {
		if seen[col] {
			result.add(&ValidationError{
				Severity: SeverityWarning,
				Field:    col,
				Rule:     "duplicate_column",
				Message:  "column appears more than once, the first one is used",
			})
		}
		seen[col] = true
	}

	for row := 0; row < table.Len(); row++ {
		for _, col := range []string{consolidator.ColPrice, consolidator.ColVAT} {
			value := table.Value(row, col)
			if strings.TrimSpace(value) == "" {
				continue
			}
			if _, err := consolidator.ParseAmount(value); err != nil {
				result.add(&ValidationError{
					Severity:  SeverityWarning,
					Field:     col,
					Value:     value,
					Rule:      "numeric",
					Message:   "value is not numeric and will be treated as 0",
					RowNumber: table.SourceRow(row),
				})
			}
		}
	}

	return result.finish()
}

// =============================================================================
// OUTPUT VALIDATION
// =============================================================================

// ValidateOutput checks a consolidated table against the upload schema.
func ValidateOutput(table *types.Table, rules config.Rules) *ValidationResult {
	result := &ValidationResult{RowsValidated: table.Len()}

	expected := consolidator.OutputColumns()
	if len(table.Columns) != len(expected) {
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "*",
			Rule:     "column_count",
			Message:  fmt.Sprintf("expected %d columns, got %d", len(expected), len(table.Columns)),
		})
		return result.finish()
	}
	for i, col := range expected {
		if table.Columns[i] != col {
			result.add(&ValidationError{
				Severity: SeverityError,
				Field:    col,
				Value:    table.Columns[i],
				Rule:     "column_order",
				Message:  fmt.Sprintf("column %d must be %s", i+1, col),
			})
		}
	}
	if result.ErrorCount > 0 {
		return result.finish()
	}

	for row := 0; row < table.Len(); row++ {
		validateOutputRow(table, row, rules, result)
	}

	return result.finish()
}

// validateOutputRow checks the fixed-value columns and the sum law of one row.
func validateOutputRow(table *types.Table, row int, rules config.Rules, result *ValidationResult) {
	rowNumber := row + 1

	if len(table.Rows[row]) != len(table.Columns) {
		result.add(&ValidationError{
			Severity:  SeverityError,
			Field:     "*",
			Rule:      "row_width",
			Message:   fmt.Sprintf("row has %d cells, expected %d", len(table.Rows[row]), len(table.Columns)),
			RowNumber: rowNumber,
		})
		return
	}

	for slot := 1; slot <= consolidator.SlotCount; slot++ {
		col := consolidator.SlotColumn(consolidator.ColNote, slot)
		if v := table.Value(row, col); v != "" {
			result.add(&ValidationError{
				Severity: SeverityError, Field: col, Value: v, Rule: "empty_note",
				Message: "per-line notes must be empty", RowNumber: rowNumber,
			})
		}
	}

	if v := table.Value(row, "etc5"); v != rules.InvoiceType {
		result.add(&ValidationError{
			Severity: SeverityError, Field: "etc5", Value: v, Rule: "invoice_type",
			Message: fmt.Sprintf("etc5 must be %q", rules.InvoiceType), RowNumber: rowNumber,
		})
	}

	checkSum(table, row, consolidator.ColPrice, consolidator.ColPriceSum, result)
	checkSum(table, row, consolidator.ColVAT, consolidator.ColVATSum, result)
}

// checkSum compares a sum column with the truncated sum of its slot columns.
// The comparison stays in decimal so an oversized sum cannot wrap.
// Slot cells that do not parse count as zero, matching the engine.
func checkSum(table *types.Table, row int, field, sumColumn string, result *ValidationResult) {
	total := decimal.Zero
	for slot := 1; slot <= consolidator.SlotCount; slot++ {
		if d, err := consolidator.ParseAmount(table.Value(row, consolidator.SlotColumn(field, slot))); err == nil {
			total = total.Add(d)
		}
	}

	raw := table.Value(row, sumColumn)
	got, err := decimal.NewFromString(raw)
	if err != nil || !got.Equal(total.Truncate(0)) {
		result.add(&ValidationError{
			Severity:  SeverityError,
			Field:     sumColumn,
			Value:     raw,
			Rule:      "sum",
			Message:   fmt.Sprintf("expected %s", total.Truncate(0).String()),
			RowNumber: row + 1,
		})
	}
}

// =============================================================================
// REPORTING
// =============================================================================

// FormatErrors formats findings for display, one per line.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d validation finding(s):\n", len(errors)))
	for i, err := range errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}
