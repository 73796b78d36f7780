package consolidator

import (
	"strings"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
)

// Category is the canonical item category. Mapped categories are ordered by
// slot priority: Rent < ManagementFee < Electricity < Parking.
type Category int

const (
	CategoryOther Category = iota - 1
	CategoryRent
	CategoryManagementFee
	CategoryElectricity
	CategoryParking
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryRent:
		return "RENT"
	case CategoryManagementFee:
		return "MANAGEMENT_FEE"
	case CategoryElectricity:
		return "ELECTRICITY"
	case CategoryParking:
		return "PARKING"
	default:
		return "OTHER"
	}
}

// Mapped reports whether the category takes part in slot assignment.
func (c Category) Mapped() bool {
	return c >= CategoryRent && c <= CategoryParking
}

// CategoryResolver maps item labels to categories.
type CategoryResolver struct {
	labels    map[string]Category
	overrides map[string]bool
	suffix    string

	// rent is the category the receiver override forces: the position of
	// the rent label, or the first slot when the label is not configured.
	rent Category
}

// NewCategoryResolver builds a resolver from the consolidation rules.
// Label priority is the position in rules.CategoryLabels.
func NewCategoryResolver(rules config.Rules) *CategoryResolver {
	r := &CategoryResolver{
		labels:    make(map[string]Category, len(rules.CategoryLabels)),
		overrides: make(map[string]bool, len(rules.RentOverrideTaxIDs)),
		suffix:    rules.TaxIDSuffix(),
		rent:      CategoryRent,
	}
	for i, label := range rules.CategoryLabels {
		r.labels[strings.TrimSpace(label)] = Category(i)
	}
	if c, ok := r.labels[config.LabelRent]; ok {
		r.rent = c
	}
	for _, id := range rules.RentOverrideTaxIDs {
		r.overrides[strings.TrimSpace(id)] = true
	}
	return r
}

// Resolve returns the category of one item and whether the receiver
// override decided it.
func (r *CategoryResolver) Resolve(item LineItem) (Category, bool) {
	if r.isOverride(item.ReceiverTaxID()) {
		return r.rent, true
	}
	if c, ok := r.labels[strings.TrimSpace(item.Item)]; ok {
		return c, false
	}
	return CategoryOther, false
}

// isOverride matches the receiver tax-ID with and without the bookkeeping
// suffix.
func (r *CategoryResolver) isOverride(taxID string) bool {
	taxID = strings.TrimSpace(taxID)
	if r.overrides[taxID] {
		return true
	}
	if r.suffix != "" && strings.HasSuffix(taxID, r.suffix) {
		return r.overrides[strings.TrimSuffix(taxID, r.suffix)]
	}
	return false
}

// ResolveCategories sets Category on every item. It is applied once, before
// grouping. The input slice is not modified.
func ResolveCategories(items []LineItem, resolver *CategoryResolver) []LineItem {
	out := make([]LineItem, len(items))
	for i, item := range items {
		item.Category, item.Overridden = resolver.Resolve(item)
		out[i] = item
	}
	return out
}
