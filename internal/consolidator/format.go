// =============================================================================
// Invoice Consolidator - Output Formatter
// =============================================================================
//
// Renders consolidated invoices into the fixed 59-column table.
//
// FORMATTING RULES:
//   - Every declared column is present in every row; absent values are ""
//   - note_1..note_4 are always "" (per-line notes are not uploaded)
//   - etc1..etc4 are "", etc5 is the invoice type literal ("02")
//   - TaxNo_get loses its "_B" bookkeeping suffix
//   - Rows keep the order in which invoice groups first appeared
//
// =============================================================================

package consolidator

import (
	"strings"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
	"github.com/ginjaninja78/invoice-consolidator/internal/types"
)

// FormatInvoices renders invoices into the output table.
func FormatInvoices(invoices []ConsolidatedInvoice, rules config.Rules) *types.Table {
	columns := OutputColumns()
	out := types.NewTable(columns)

	for i := range invoices {
		out.AppendRow(formatRow(&invoices[i], columns, rules), 0)
	}

	return out
}

// formatRow builds one output row. The row is first filled with "" for
// every column, then populated, so no column can be missing.
func formatRow(inv *ConsolidatedInvoice, columns []string, rules config.Rules) []string {
	values := make(map[string]string, len(columns))
	for _, c := range columns {
		values[c] = ""
	}

	for i, c := range InvoiceKeyColumns {
		values[c] = inv.Key[i]
	}
	if suffix := rules.TaxIDSuffix(); suffix != "" {
		values[ColTaxNoGet] = strings.TrimSuffix(values[ColTaxNoGet], suffix)
	}

	values[ColPriceSum] = inv.PriceSum.String()
	values[ColVATSum] = inv.VATSum.String()

	for i, s := range inv.Slots {
		if !s.Filled {
			continue
		}
		n := i + 1
		values[SlotColumn(ColDay, n)] = s.Day
		values[SlotColumn(ColItem, n)] = s.Item
		values[SlotColumn(ColStandard, n)] = s.Standard
		values[SlotColumn(ColQuantity, n)] = s.Quantity
		values[SlotColumn(ColUnitPrice, n)] = s.UnitPrice
		values[SlotColumn(ColPrice, n)] = s.Price
		values[SlotColumn(ColVAT, n)] = s.VAT
		// note_n stays empty.
	}

	values["etc5"] = rules.InvoiceType

	row := make([]string, len(columns))
	for i, c := range columns {
		row[i] = values[c]
	}
	return row
}
