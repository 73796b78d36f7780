package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
	"github.com/ginjaninja78/invoice-consolidator/internal/consolidator"
	"github.com/ginjaninja78/invoice-consolidator/internal/types"
)

func inputRow(t *types.Table, price, vat string) []string {
	row := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		switch c {
		case "code":
			row[i] = "01"
		case "item":
			row[i] = "임대료"
		case "price":
			row[i] = price
		case "VAT":
			row[i] = vat
		}
	}
	return row
}

func TestValidateInput_MissingColumns(t *testing.T) {
	table := types.NewTable([]string{"code", "Date"})

	result := ValidateInput(table)

	assert.False(t, result.IsValid)
	require.NotNil(t, result.Schema)
	assert.Contains(t, result.Schema.Missing, "TaxNo_get")
	assert.ErrorAs(t, result.Err(), new(*consolidator.SchemaError))
}

func TestValidateInput_NumericWarnings(t *testing.T) {
	table := types.NewTable(consolidator.RequiredColumns())
	table.AppendRow(inputRow(table, "1,000", "100"), 2)
	table.AppendRow(inputRow(table, "abc", ""), 3)
	table.AppendRow(inputRow(table, "500", "?"), 4)

	result := ValidateInput(table)

	assert.True(t, result.IsValid)
	assert.NoError(t, result.Err())
	require.Equal(t, 2, result.WarningCount)
	assert.Equal(t, 3, result.Errors[0].RowNumber)
	assert.Equal(t, "price", result.Errors[0].Field)
	assert.Equal(t, "VAT", result.Errors[1].Field)
}

func TestValidateOutput_EngineOutputIsValid(t *testing.T) {
	in := types.NewTable(consolidator.RequiredColumns())
	in.AppendRow(inputRow(in, "1,000.9", "100.9"), 2)
	in.AppendRow(inputRow(in, "2,000", "200"), 3)

	res, err := consolidator.Consolidate(in)
	require.NoError(t, err)

	result := ValidateOutput(res.Output, config.DefaultRules())
	assert.True(t, result.IsValid, FormatErrors(result.Errors))
}

func TestValidateOutput_DetectsBrokenRows(t *testing.T) {
	in := types.NewTable(consolidator.RequiredColumns())
	in.AppendRow(inputRow(in, "1000", "100"), 2)

	res, err := consolidator.Consolidate(in)
	require.NoError(t, err)

	out := res.Output
	out.Rows[0][out.ColumnIndex("price_sum")] = "999"
	out.Rows[0][out.ColumnIndex("note_1")] = "memo"
	out.Rows[0][out.ColumnIndex("etc5")] = "01"

	result := ValidateOutput(out, config.DefaultRules())

	assert.False(t, result.IsValid)
	assert.Equal(t, 3, result.ErrorCount)
	assert.Error(t, result.Err())
}

func TestValidateOutput_FlagsWrappedSum(t *testing.T) {
	in := types.NewTable(consolidator.RequiredColumns())
	in.AppendRow(inputRow(in, "1000", "100"), 2)

	res, err := consolidator.Consolidate(in)
	require.NoError(t, err)

	out := res.Output
	out.Rows[0][out.ColumnIndex("price_1")] = "9223372036854775807"
	out.Rows[0][out.ColumnIndex("price_2")] = "10"
	out.Rows[0][out.ColumnIndex("price_sum")] = "-9223372036854775799"

	result := ValidateOutput(out, config.DefaultRules())

	require.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, "sum", result.Errors[0].Rule)
	assert.Equal(t, "price_sum", result.Errors[0].Field)
}

func TestValidateOutput_WrongColumns(t *testing.T) {
	result := ValidateOutput(types.NewTable([]string{"code"}), config.DefaultRules())
	assert.False(t, result.IsValid)
	assert.Equal(t, "column_count", result.Errors[0].Rule)
}
