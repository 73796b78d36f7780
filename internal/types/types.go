// =============================================================================
// Invoice Consolidator - Shared Types
// =============================================================================
//
// This package contains the tabular type handed between the input loaders,
// the consolidation engine and the output writers. Keeping it here avoids
// import cycles between:
//   - csvparser / xlsxparser (produce tables)
//   - consolidator           (consumes and produces tables)
//   - sheetwriter / report   (consume tables)
//
// =============================================================================

package types

import (
	"fmt"
	"strings"
)

// =============================================================================
// TABLE
// =============================================================================

// Table is a plain in-memory table of text cells.
// Every row has exactly len(Columns) cells once it has been added through
// AppendRow; loaders and the engine never hand out ragged rows.
type Table struct {
	// Columns contains the header names in their original order.
	Columns []string

	// Rows contains the data rows. Rows[i][j] is the value of Columns[j].
	Rows [][]string

	// SourceRows holds the 1-indexed row number in the source file for each
	// row, when known. It is used for warning messages only.
	SourceRows []int

	index map[string]int
}

// NewTable creates an empty table with the given columns.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// ColumnIndex returns the position of a column, or -1 if it is absent.
// When a header appears twice the first occurrence wins. The lookup index is
// built on first use, so Columns must not change afterwards.
func (t *Table) ColumnIndex(name string) int {
	if t.index == nil {
		t.index = make(map[string]int, len(t.Columns))
		for i, c := range t.Columns {
			if _, exists := t.index[c]; !exists {
				t.index[c] = i
			}
		}
	}
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Value returns the cell at row/column, or "" when the column is absent
// or the row is short.
func (t *Table) Value(row int, column string) string {
	col := t.ColumnIndex(column)
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// AppendRow adds a row, padding or truncating it to the column count.
// sourceRow is the 1-indexed source position (0 if unknown).
func (t *Table) AppendRow(cells []string, sourceRow int) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
	t.SourceRows = append(t.SourceRows, sourceRow)
}

// SourceRow returns the recorded source row number for a row index.
func (t *Table) SourceRow(row int) int {
	if row < 0 || row >= len(t.SourceRows) {
		return 0
	}
	return t.SourceRows[row]
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// =============================================================================
// BUILDING FROM RAW RECORDS
// =============================================================================

// FromRecords builds a table from raw records as read from a file.
//
// PARAMETERS:
//   - records: All records of the file, in order.
//   - skipRows: Leading records before the header record.
//   - skipFooter: Trailing records dropped after the data (trailing blank
//     records are removed first and do not count).
//
// Blank records inside the data are skipped. Blank header cells are named
// Column_N. Source row numbers are the 1-indexed record positions.
func FromRecords(records [][]string, skipRows, skipFooter int) (*Table, error) {
	end := len(records)
	for end > 0 && isRecordEmpty(records[end-1]) {
		end--
	}

	if skipRows < 0 || skipFooter < 0 {
		return nil, fmt.Errorf("skip rows and skip footer must not be negative")
	}
	if skipRows >= end {
		return nil, fmt.Errorf("file has no header row after skipping %d row(s)", skipRows)
	}

	headers := cleanHeaders(records[skipRows])
	table := NewTable(headers)

	dataEnd := end - skipFooter
	for i := skipRows + 1; i < dataEnd; i++ {
		if isRecordEmpty(records[i]) {
			continue
		}
		cells := make([]string, len(records[i]))
		for j, v := range records[i] {
			cells[j] = strings.TrimSpace(v)
		}
		table.AppendRow(cells, i+1)
	}

	return table, nil
}

// cleanHeaders trims header names and names blank headers by position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(strings.TrimPrefix(header, "\ufeff"))
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

// isRecordEmpty checks if a record contains only blank values.
func isRecordEmpty(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
