// =============================================================================
// Invoice Consolidator - XLSX Export Parser
// =============================================================================
//
// This module reads the ERP "sales by customer/item (TAX1)" spreadsheet
// export. The export layout is:
//
//   | Row 1        | company / report title                       |
//   | Row 2        | header: code, Date, TaxNo_Send, ... VAT, note |
//   | Row 3 .. N-2 | one line item per row                        |
//   | Row N-1      | grand total                                  |
//   | Row N        | print timestamp                              |
//
// so the defaults skip one leading row and two trailing rows. Cells are read
// as displayed text; numeric parsing happens in the consolidation engine.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/invoice-consolidator/internal/types"
)

// ErrLegacyFormat is returned for binary .xls workbooks, which excelize
// cannot read. Re-saving the export as .xlsx fixes it.
var ErrLegacyFormat = errors.New("legacy .xls workbooks are not supported, save the export as .xlsx")

// ErrNoSheet is returned when the requested worksheet does not exist.
var ErrNoSheet = errors.New("worksheet not found")

// Settings controls spreadsheet parsing.
type Settings struct {
	// Sheet is the worksheet to read. Empty means the first sheet.
	Sheet string

	// SkipRows is the number of rows before the header row.
	// Default for the ERP export: 1
	SkipRows int

	// SkipFooter is the number of trailing rows to drop.
	// Default for the ERP export: 2
	SkipFooter int
}

// DefaultSettings returns the settings matching the ERP export layout.
func DefaultSettings() Settings {
	return Settings{SkipRows: 1, SkipFooter: 2}
}

// Parse reads a workbook from disk.
//
// PARAMETERS:
//   - path: The path to the .xlsx/.xlsm file.
//   - settings: Sheet selection and skip settings.
//
// RETURNS:
//   - The sheet as a table.
//   - ErrLegacyFormat for .xls files, or a wrapped excelize error.
func Parse(path string, settings Settings) (*types.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		return nil, ErrLegacyFormat
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseFile(f, settings)
}

// ParseReader reads a workbook from a stream, e.g. an uploaded file.
func ParseReader(r io.Reader, settings Settings) (*types.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseFile(f, settings)
}

// parseFile extracts the configured sheet.
func parseFile(f *excelize.File, settings Settings) (*types.Table, error) {
	sheet := settings.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoSheet
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSheet, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	table, err := types.FromRecords(rows, settings.SkipRows, settings.SkipFooter)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheet, err)
	}

	return table, nil
}
