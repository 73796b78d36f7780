package consolidator

// InvoiceGroup is the ordered list of line items sharing one InvoiceKey.
type InvoiceGroup struct {
	Key   InvoiceKey
	Items []LineItem
}

// GroupInvoices partitions items by InvoiceKey.
//
// Groups are returned in order of first appearance, and items keep their
// relative input order inside a group. The slot tie-break for items of the
// same category relies on that order. Every key present in the input yields
// a group, even when none of its items has a mapped category.
func GroupInvoices(items []LineItem) []InvoiceGroup {
	positions := make(map[InvoiceKey]int)
	var groups []InvoiceGroup

	for _, item := range items {
		pos, exists := positions[item.Key]
		if !exists {
			pos = len(groups)
			positions[item.Key] = pos
			groups = append(groups, InvoiceGroup{Key: item.Key})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}

	return groups
}
