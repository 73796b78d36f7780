package consolidator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
)

func item(seq int, label string, price int64, vat string) LineItem {
	return LineItem{
		Item:       label,
		Price:      decimal.NewFromInt(price).String(),
		PriceValue: decimal.NewFromInt(price),
		VAT:        vat,
		Seq:        seq,
	}
}

func TestResolveCategories(t *testing.T) {
	resolver := NewCategoryResolver(config.DefaultRules())

	items := []LineItem{
		item(0, "임대료", 1, "0"),
		item(1, "관리비", 1, "0"),
		item(2, "전기료", 1, "0"),
		item(3, " 주차료 ", 1, "0"),
		item(4, "수도료", 1, "0"),
	}
	override := item(5, "수도료", 1, "0")
	override.Key[keyIndex[ColTaxNoGet]] = config.ReservedRentTaxID + "_B"
	items = append(items, override)

	resolved := ResolveCategories(items, resolver)

	assert.Equal(t, CategoryRent, resolved[0].Category)
	assert.Equal(t, CategoryManagementFee, resolved[1].Category)
	assert.Equal(t, CategoryElectricity, resolved[2].Category)
	assert.Equal(t, CategoryParking, resolved[3].Category)
	assert.Equal(t, CategoryOther, resolved[4].Category)
	assert.Equal(t, CategoryRent, resolved[5].Category)
	assert.True(t, resolved[5].Overridden)

	// The input slice is untouched.
	assert.Equal(t, Category(0), items[4].Category)
	assert.False(t, items[5].Overridden)
}

func TestResolveCategories_OverrideFollowsRentLabelPosition(t *testing.T) {
	rules := config.DefaultRules()
	rules.CategoryLabels = []string{config.LabelManagementFee, config.LabelRent}
	resolver := NewCategoryResolver(rules)

	override := item(0, "주차료", 1, "0")
	override.Key[keyIndex[ColTaxNoGet]] = config.ReservedRentTaxID

	category, overridden := resolver.Resolve(override)
	assert.True(t, overridden)
	assert.Equal(t, Category(1), category)
}

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "RENT", CategoryRent.String())
	assert.Equal(t, "PARKING", CategoryParking.String())
	assert.Equal(t, "OTHER", CategoryOther.String())
	assert.False(t, CategoryOther.Mapped())
}

func TestGroupInvoices_StablePartition(t *testing.T) {
	a := InvoiceKey{"01", "20250101"}
	b := InvoiceKey{"01", "20250102"}

	items := []LineItem{
		{Key: b, Item: "b1", Seq: 0},
		{Key: a, Item: "a1", Seq: 1},
		{Key: b, Item: "b2", Seq: 2},
		{Key: a, Item: "a2", Seq: 3},
	}

	groups := GroupInvoices(items)

	require.Len(t, groups, 2)
	assert.Equal(t, b, groups[0].Key)
	assert.Equal(t, []string{"b1", "b2"}, []string{groups[0].Items[0].Item, groups[0].Items[1].Item})
	assert.Equal(t, a, groups[1].Key)
	assert.Equal(t, []string{"a1", "a2"}, []string{groups[1].Items[0].Item, groups[1].Items[1].Item})
}

func TestGroupInvoices_Empty(t *testing.T) {
	assert.Empty(t, GroupInvoices(nil))
}

func TestAssignSlots_UnfilledSlotsAreEmpty(t *testing.T) {
	resolver := NewCategoryResolver(config.DefaultRules())
	group := InvoiceGroup{Items: ResolveCategories([]LineItem{
		item(0, "관리비", 500, "50"),
	}, resolver)}

	a := AssignSlots(group)

	assert.True(t, a.Slots[0].Filled)
	for _, s := range a.Slots[1:] {
		assert.Equal(t, Slot{}, s)
	}

	priceSum, vatSum := Aggregate(a.Slots)
	assert.Equal(t, "500", priceSum.String())
	assert.Equal(t, "50", vatSum.String())
}

func TestAssignSlots_OverflowKeepsFirstFourByPriority(t *testing.T) {
	resolver := NewCategoryResolver(config.DefaultRules())
	group := InvoiceGroup{Items: ResolveCategories([]LineItem{
		item(0, "주차료", 1, "0"),
		item(1, "전기료", 2, "0"),
		item(2, "전기료", 3, "0"),
		item(3, "관리비", 4, "0"),
		item(4, "임대료", 5, "0"),
		item(5, "수도료", 6, "0"),
	}, resolver)}

	a := AssignSlots(group)

	got := make([]string, 0, SlotCount)
	for _, s := range a.Slots {
		got = append(got, s.Price)
	}
	assert.Equal(t, []string{"5", "4", "2", "3"}, got)

	require.Len(t, a.Dropped, 1)
	assert.Equal(t, "주차료", a.Dropped[0].Item)
	require.Len(t, a.Unmapped, 1)
	assert.Equal(t, "수도료", a.Unmapped[0].Item)

	priceSum, _ := Aggregate(a.Slots)
	assert.Equal(t, "14", priceSum.String())
}

func TestAssignSlots_EmptyVATCountsAsZeroWithoutWarning(t *testing.T) {
	resolver := NewCategoryResolver(config.DefaultRules())
	group := InvoiceGroup{Items: ResolveCategories([]LineItem{
		item(0, "임대료", 100, ""),
	}, resolver)}

	a := AssignSlots(group)

	assert.Empty(t, a.Warnings)
	assert.Equal(t, "", a.Slots[0].VAT)
	_, vatSum := Aggregate(a.Slots)
	assert.True(t, vatSum.IsZero())
}

func TestAssignSlots_TruncatesSlotAmounts(t *testing.T) {
	resolver := NewCategoryResolver(config.DefaultRules())
	rent := item(0, "임대료", 0, "100.9")
	rent.PriceValue = decimal.RequireFromString("1234.5")
	fee := item(1, "관리비", 0, "(20.7)")
	fee.PriceValue = decimal.RequireFromString("10.99")
	group := InvoiceGroup{Items: ResolveCategories([]LineItem{rent, fee}, resolver)}

	a := AssignSlots(group)

	assert.Equal(t, "1234", a.Slots[0].Price)
	assert.Equal(t, "100", a.Slots[0].VAT)
	assert.Equal(t, "10", a.Slots[1].Price)
	assert.Equal(t, "-20", a.Slots[1].VAT)

	priceSum, vatSum := Aggregate(a.Slots)
	assert.Equal(t, "1244", priceSum.String())
	assert.Equal(t, "80", vatSum.String())
}

func TestAggregate_LargeSlotsStayPositive(t *testing.T) {
	var slots [SlotCount]Slot
	for i := range slots {
		v := decimal.RequireFromString("999999999999999")
		slots[i] = Slot{Filled: true, Price: v.String(), PriceValue: v, VATValue: v}
	}

	priceSum, vatSum := Aggregate(slots)
	assert.Equal(t, "3999999999999996", priceSum.String())
	assert.True(t, vatSum.Equal(priceSum))
}
