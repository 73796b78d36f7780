package sheetwriter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
	"github.com/ginjaninja78/invoice-consolidator/internal/consolidator"
	"github.com/ginjaninja78/invoice-consolidator/internal/types"
)

func sampleOutput(t *testing.T) *types.Table {
	t.Helper()

	in := types.NewTable(consolidator.RequiredColumns())
	row := make([]string, len(in.Columns))
	for i, c := range in.Columns {
		switch c {
		case "code":
			row[i] = "01"
		case "Date":
			row[i] = "20250201"
		case "TaxNo_get":
			row[i] = "0123456789_B"
		case "item":
			row[i] = "관리비"
		case "price":
			row[i] = "1,000.5"
		case "VAT":
			row[i] = "100"
		}
	}
	in.AppendRow(row, 2)

	res, err := consolidator.Consolidate(in)
	require.NoError(t, err)
	return res.Output
}

func TestWriteXLSX_Layout(t *testing.T) {
	out := sampleOutput(t)

	data, err := WriteXLSX(out, DefaultOptions())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"sale1"}, f.GetSheetList())

	rows, err := f.GetRows("sale1")
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Empty(t, rows[0])
	assert.Equal(t, consolidator.OutputColumns(), rows[5])

	data0 := rows[6]
	assert.Equal(t, "0123456789", data0[out.ColumnIndex("TaxNo_get")])
	assert.Equal(t, "20250201", data0[out.ColumnIndex("Date")])
	assert.Equal(t, "1000", data0[out.ColumnIndex("price_1")])
	assert.Equal(t, "1000", data0[out.ColumnIndex("price_sum")])

	cellType, err := f.GetCellType("sale1", "A7")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeNumber, cellType)

	sumCell, err := excelize.CoordinatesToCellName(out.ColumnIndex("price_sum")+1, 7)
	require.NoError(t, err)
	sumType, err := f.GetCellType("sale1", sumCell)
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, sumType)
	assert.NotEqual(t, excelize.CellTypeInlineString, sumType)
}

func TestWriteXLSX_CustomSheetAndStartRow(t *testing.T) {
	out := sampleOutput(t)

	data, err := WriteXLSX(out, Options{Format: config.FormatXLSX, SheetName: "upload", StartRow: 0})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("upload")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "code", rows[0][0])
}

func TestWriteCSV_BOMAndHeader(t *testing.T) {
	out := sampleOutput(t)

	data, err := WriteCSV(out)
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	lines := strings.Split(strings.TrimSpace(string(data[3:])), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "code,Date,TaxNo_get,"))
	assert.Contains(t, lines[1], "관리비")
}

func TestWrite_UnknownFormat(t *testing.T) {
	_, err := Write(types.NewTable(nil), Options{Format: "pdf"})
	assert.Error(t, err)
}

func TestOptionsFrom_Defaults(t *testing.T) {
	opts := OptionsFrom(config.OutputSettings{})
	assert.Equal(t, "sale1", opts.SheetName)
	assert.Equal(t, 5, opts.StartRow)
	assert.Equal(t, ".xlsx", opts.Extension())
	assert.Equal(t, ".csv", Options{Format: config.FormatCSV}.Extension())
}
