// =============================================================================
// Invoice Consolidator - Domain Types
// =============================================================================
//
// LineItem is one billable record from the ERP export. ConsolidatedInvoice is
// one output row of the bulk-upload layout. InvoiceKey is the 20-field tuple
// that decides which line items share an output row.
//
// =============================================================================

package consolidator

import (
	"github.com/shopspring/decimal"
)

// InvoiceKey is the ordered tuple of the 20 header fields of one invoice.
// It is an array so that it compares by value and can be used as a map key.
type InvoiceKey [20]string

// Field returns a key field by column name, or "" for unknown names.
func (k InvoiceKey) Field(name string) string {
	if i, ok := keyIndex[name]; ok {
		return k[i]
	}
	return ""
}

// LineItem represents a single billable record.
type LineItem struct {
	// Key identifies the invoice this item belongs to.
	Key InvoiceKey

	Day       string
	Item      string
	Standard  string
	Quantity  string
	UnitPrice string
	Price     string
	VAT       string
	Note      string

	// PriceValue is the parsed, strictly positive taxable amount.
	PriceValue decimal.Decimal

	// Category is set by the Category Resolver.
	Category Category

	// Overridden is true when the category came from the receiver override
	// rather than the item label.
	Overridden bool

	// SourceRow is the 1-indexed row in the input file (0 if unknown).
	SourceRow int

	// Seq is the position of the item in the filtered input, used as the
	// tie-break for items of the same category.
	Seq int
}

// ReceiverTaxID returns the receiving party's tax-ID as recorded.
func (li LineItem) ReceiverTaxID() string {
	return li.Key.Field(ColTaxNoGet)
}

// Slot is one of the four item positions of an output row.
type Slot struct {
	// Filled is false for unused slots; all text fields are then empty.
	Filled bool

	Day       string
	Item      string
	Standard  string
	Quantity  string
	UnitPrice string
	Price     string
	VAT       string
	Note      string

	PriceValue decimal.Decimal
	VATValue   decimal.Decimal

	// Category is the resolved category of the occupant.
	Category Category
}

// ConsolidatedInvoice is one output row before rendering.
type ConsolidatedInvoice struct {
	Key      InvoiceKey
	PriceSum decimal.Decimal
	VATSum   decimal.Decimal
	Slots    [SlotCount]Slot

	// Dropped holds mapped items that did not fit into the four slots.
	Dropped []LineItem

	// Unmapped holds items whose label matched no category.
	Unmapped []LineItem
}

// FilledSlots returns the number of occupied slots.
func (inv *ConsolidatedInvoice) FilledSlots() int {
	n := 0
	for _, s := range inv.Slots {
		if s.Filled {
			n++
		}
	}
	return n
}
