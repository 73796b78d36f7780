package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/invoice-consolidator/internal/types"
)

func outputTable(rows ...[3]string) *types.Table {
	t := types.NewTable([]string{"TaxTitle_get", "price_sum", "VAT_sum"})
	for i, r := range rows {
		t.AppendRow(r[:], i+1)
	}
	return t
}

func TestSummarize_TotalsAndReceivers(t *testing.T) {
	table := outputTable(
		[3]string{"한빛상사", "1000000", "100000"},
		[3]string{"미래물산", "250000", "25000"},
		[3]string{"한빛상사", "500000", "50000"},
	)

	s := Summarize(table)

	assert.Equal(t, 3, s.Invoices)
	assert.Equal(t, "1750000", s.PriceTotal.String())
	assert.Equal(t, "175000", s.VATTotal.String())
	assert.Equal(t, "1925000", s.GrandTotal().String())

	require.Len(t, s.Receivers, 2)
	assert.Equal(t, "한빛상사", s.Receivers[0].Title)
	assert.Equal(t, 2, s.Receivers[0].Invoices)
	assert.Equal(t, "1650000", s.Receivers[0].Total().String())
	assert.Equal(t, "미래물산", s.Receivers[1].Title)
}

func TestSummarize_BadCellsCountAsZero(t *testing.T) {
	s := Summarize(outputTable([3]string{"A", "x", ""}))
	assert.True(t, s.GrandTotal().IsZero())
}

func TestSummary_StringUsesSeparators(t *testing.T) {
	s := Summarize(outputTable([3]string{"한빛상사", "1234567", "123456"}))

	out := s.String()
	assert.Contains(t, out, "1,234,567")
	assert.Contains(t, out, "1,358,023")
	assert.Contains(t, out, "한빛상사")
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(types.NewTable(nil))
	assert.Equal(t, 0, s.Invoices)
	assert.Empty(t, s.Receivers)
	assert.NotContains(t, s.String(), "By receiver")
}

func TestFormatAmount(t *testing.T) {
	s := Summarize(outputTable([3]string{"A", "1000000", "0"}))
	assert.Equal(t, "1,000,000", FormatAmount(s.PriceTotal))
}
