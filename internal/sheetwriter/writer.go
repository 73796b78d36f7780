// =============================================================================
// Invoice Consolidator - Upload Sheet Writer
// =============================================================================
//
// This module renders the consolidated table into the file formats accepted
// by the tax-authority bulk-upload screen.
//
// XLSX LAYOUT:
//   The upload template reserves the top of the sheet for instructions, so
//   the header goes on row StartRow+1 (row 6 by default) and data follows
//   directly below it.
//
//   Row 1..5   (empty)
//   Row 6      code | Date | TaxNo_get | ... | etc5
//   Row 7..    one row per consolidated invoice
//
//   price_sum, VAT_sum, price_n and VAT_n are written as numbers when they
//   parse; everything else is written as text so tax IDs and dates keep
//   their leading zeros.
//
// CSV LAYOUT:
//   Header on the first line, UTF-8 with a byte-order mark so spreadsheet
//   tools detect the encoding of Korean labels.
//
// Both writers render into memory. Nothing touches disk until the caller
// writes the returned bytes.
//
// =============================================================================

package sheetwriter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
	"github.com/ginjaninja78/invoice-consolidator/internal/consolidator"
	"github.com/ginjaninja78/invoice-consolidator/internal/types"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options contains the rendering options.
type Options struct {
	// Format is config.FormatXLSX or config.FormatCSV.
	Format string

	// SheetName is the worksheet name for xlsx output.
	SheetName string

	// StartRow is the zero-based row of the header in xlsx output.
	StartRow int

	// ColumnWidth is applied to every column in xlsx output. Zero leaves
	// the excelize default.
	ColumnWidth float64
}

// DefaultOptions returns the upload template layout.
func DefaultOptions() Options {
	return OptionsFrom(config.OutputSettings{})
}

// OptionsFrom builds writer options from the output settings.
func OptionsFrom(s config.OutputSettings) Options {
	opts := Options{
		Format:      s.Format,
		SheetName:   s.SheetName,
		StartRow:    s.StartRowValue(),
		ColumnWidth: s.ColumnWidth,
	}
	if opts.Format == "" {
		opts.Format = config.FormatXLSX
	}
	if opts.SheetName == "" {
		opts.SheetName = "sale1"
	}
	return opts
}

// Extension returns the file extension for the configured format.
func (o Options) Extension() string {
	if o.Format == config.FormatCSV {
		return ".csv"
	}
	return ".xlsx"
}

// numericColumns are written as numbers in xlsx output.
var numericColumns = func() map[string]bool {
	m := map[string]bool{
		consolidator.ColPriceSum: true,
		consolidator.ColVATSum:   true,
	}
	for slot := 1; slot <= consolidator.SlotCount; slot++ {
		m[consolidator.SlotColumn(consolidator.ColPrice, slot)] = true
		m[consolidator.SlotColumn(consolidator.ColVAT, slot)] = true
	}
	return m
}()

// =============================================================================
// WRITERS
// =============================================================================

// Write renders the table in the configured format.
func Write(table *types.Table, opts Options) ([]byte, error) {
	switch opts.Format {
	case config.FormatXLSX, "":
		return WriteXLSX(table, opts)
	case config.FormatCSV:
		return WriteCSV(table)
	default:
		return nil, fmt.Errorf("unsupported output format %q", opts.Format)
	}
}

// WriteXLSX renders the table as a single-sheet workbook.
//
// PARAMETERS:
//   - table: The consolidated output table.
//   - opts: Sheet name, header offset and column width.
//
// RETURNS:
//   - The workbook bytes.
//   - An error if excelize rejects a cell or the sheet name.
func WriteXLSX(table *types.Table, opts Options) ([]byte, error) {
	if opts.SheetName == "" {
		opts.SheetName = "sale1"
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", opts.SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	// =========================================================================
	// STEP 1: HEADER
	// =========================================================================

	headerRow := opts.StartRow + 1
	header := make([]interface{}, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col
	}
	if err := setRow(f, opts.SheetName, headerRow, header); err != nil {
		return nil, err
	}

	// =========================================================================
	// STEP 2: DATA ROWS
	// =========================================================================

	for r, row := range table.Rows {
		values := make([]interface{}, len(table.Columns))
		for c, col := range table.Columns {
			values[c] = cellValue(col, row[c])
		}
		if err := setRow(f, opts.SheetName, headerRow+1+r, values); err != nil {
			return nil, err
		}
	}

	// =========================================================================
	// STEP 3: COLUMN WIDTH
	// =========================================================================

	if opts.ColumnWidth > 0 && len(table.Columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(table.Columns))
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(opts.SheetName, "A", last, opts.ColumnWidth); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteCSV renders the table as UTF-8 CSV with a byte-order mark.
func WriteCSV(table *types.Table) ([]byte, error) {
	var buf bytes.Buffer
	bom := transform.NewWriter(&buf, unicode.UTF8BOM.NewEncoder())

	w := csv.NewWriter(bom)
	if err := w.Write(table.Columns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(table.Rows); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	if err := bom.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// cellValue converts numeric columns to int64 or float64. Empty cells stay
// empty strings.
func cellValue(column, value string) interface{} {
	if value == "" || !numericColumns[column] {
		return value
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	if d, err := consolidator.ParseAmount(value); err == nil {
		f, _ := d.Float64()
		return f
	}
	return value
}
