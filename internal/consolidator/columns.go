// =============================================================================
// Invoice Consolidator - Column Schema
// =============================================================================
//
// This file declares the fixed input and output schemas. The output schema is
// the compatibility contract with the bulk-upload consumer: names and order
// must match exactly.
//
// OUTPUT LAYOUT (59 columns):
//   | 19 header fields | price_sum | VAT_sum | note_Sum |
//   | day_1 .. note_1 | day_2 .. note_2 | day_3 .. note_3 | day_4 .. note_4 |
//   | etc1 .. etc5 |
//
// =============================================================================

package consolidator

import "fmt"

// SlotCount is the number of item slots in one output row.
const SlotCount = 4

// Header field names used directly by the engine.
const (
	ColCode        = "code"
	ColDate        = "Date"
	ColTaxNoGet    = "TaxNo_get"
	ColTaxTitleGet = "TaxTitle_get"
	ColNoteSum     = "note_Sum"

	ColDay       = "day"
	ColItem      = "item"
	ColStandard  = "standard"
	ColQuantity  = "quantity"
	ColUnitPrice = "unit_price"
	ColPrice     = "price"
	ColVAT       = "VAT"
	ColNote      = "note"

	ColPriceSum = "price_sum"
	ColVATSum   = "VAT_sum"
)

// InvoiceKeyColumns are the 20 header fields identifying one invoice, in
// key order.
var InvoiceKeyColumns = []string{
	"code", "Date", "TaxNo_Send", "J1", "Title_send", "Name_send", "Addr_send",
	"sub1", "sub2", "Email_send", "TaxNo_get", "J2", "TaxTitle_get", "Name_get",
	"Addr_get", "type1", "type2", "Email_get", "Email2_get", "note_Sum",
}

// LineColumns are the per-item fields, in slot sub-field order.
var LineColumns = []string{
	ColDay, ColItem, ColStandard, ColQuantity, ColUnitPrice, ColPrice, ColVAT, ColNote,
}

// keyIndex maps a key column name to its position in InvoiceKey.
var keyIndex = func() map[string]int {
	m := make(map[string]int, len(InvoiceKeyColumns))
	for i, c := range InvoiceKeyColumns {
		m[c] = i
	}
	return m
}()

// RequiredColumns returns the mandatory input columns.
func RequiredColumns() []string {
	cols := make([]string, 0, len(InvoiceKeyColumns)+len(LineColumns))
	cols = append(cols, InvoiceKeyColumns...)
	cols = append(cols, LineColumns...)
	return cols
}

// SlotColumn returns the output column name of a slot sub-field (1-indexed slot).
func SlotColumn(field string, slot int) string {
	return fmt.Sprintf("%s_%d", field, slot)
}

// OutputColumns returns the fixed output column order.
func OutputColumns() []string {
	cols := make([]string, 0, 59)

	// The 19 header fields before note_Sum, then the sums, then note_Sum.
	cols = append(cols, InvoiceKeyColumns[:len(InvoiceKeyColumns)-1]...)
	cols = append(cols, ColPriceSum, ColVATSum, ColNoteSum)

	for slot := 1; slot <= SlotCount; slot++ {
		for _, field := range LineColumns {
			cols = append(cols, SlotColumn(field, slot))
		}
	}

	for i := 1; i <= 5; i++ {
		cols = append(cols, fmt.Sprintf("etc%d", i))
	}

	return cols
}
