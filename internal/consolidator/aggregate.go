package consolidator

import "github.com/shopspring/decimal"

// Aggregate sums price and VAT over the filled slots. Empty slots and
// dropped overflow items contribute nothing. Slot amounts are already
// whole numbers, so the sums equal the rendered slot cells added up.
func Aggregate(slots [SlotCount]Slot) (priceSum, vatSum decimal.Decimal) {
	priceSum = decimal.Zero
	vatSum = decimal.Zero

	for _, s := range slots {
		if !s.Filled {
			continue
		}
		priceSum = priceSum.Add(s.PriceValue)
		vatSum = vatSum.Add(s.VATValue)
	}

	return priceSum, vatSum
}
