// =============================================================================
// Invoice Consolidator - Slot Assigner
// =============================================================================
//
// Within one invoice group, mapped items are ordered by category priority
// (rent, management fee, electricity, parking) and by input order inside a
// category, then placed into slots 1..4.
//
// OVERFLOW:
//   Items beyond the fourth slot are dropped from the row AND from the sums.
//   This is a limit of the upload format and is kept on purpose.
//
// UNMAPPED ITEMS:
//   Items whose label matched no category never occupy a slot.
//
// =============================================================================

package consolidator

import (
	"errors"
	"sort"
)

// Assignment is the slot layout of one group.
type Assignment struct {
	Slots    [SlotCount]Slot
	Dropped  []LineItem
	Unmapped []LineItem
	Warnings []ParseWarning
}

// AssignSlots places the mapped items of a group into the four slots.
func AssignSlots(group InvoiceGroup) Assignment {
	var a Assignment

	mapped := make([]LineItem, 0, len(group.Items))
	for _, item := range group.Items {
		if item.Category.Mapped() {
			mapped = append(mapped, item)
		} else {
			a.Unmapped = append(a.Unmapped, item)
		}
	}

	sort.SliceStable(mapped, func(i, j int) bool {
		if mapped[i].Category != mapped[j].Category {
			return mapped[i].Category < mapped[j].Category
		}
		return mapped[i].Seq < mapped[j].Seq
	})

	for i, item := range mapped {
		if i >= SlotCount {
			a.Dropped = append(a.Dropped, mapped[i:]...)
			break
		}
		slot, warning := slotFromItem(item)
		a.Slots[i] = slot
		if warning != nil {
			a.Warnings = append(a.Warnings, *warning)
		}
	}

	return a
}

// slotFromItem copies an item into a slot and parses its VAT. Price and
// VAT are truncated to whole won. A malformed VAT counts as zero and is
// reported; an empty VAT counts as zero silently.
func slotFromItem(item LineItem) (Slot, *ParseWarning) {
	price := truncateToInt(item.PriceValue)
	slot := Slot{
		Filled:     true,
		Day:        item.Day,
		Item:       item.Item,
		Standard:   item.Standard,
		Quantity:   item.Quantity,
		UnitPrice:  item.UnitPrice,
		Price:      price.String(),
		VAT:        item.VAT,
		Note:       item.Note,
		PriceValue: price,
		Category:   item.Category,
	}

	vat, err := ParseAmount(item.VAT)
	switch {
	case err == nil:
		slot.VATValue = truncateToInt(vat)
		slot.VAT = slot.VATValue.String()
	case errors.Is(err, errEmptyAmount):
		// Missing VAT contributes zero.
	default:
		return slot, &ParseWarning{
			Row:    item.SourceRow,
			Column: ColVAT,
			Value:  item.VAT,
			Reason: "VAT is not a valid amount, counted as 0",
		}
	}

	return slot, nil
}
