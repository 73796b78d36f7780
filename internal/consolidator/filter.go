// =============================================================================
// Invoice Consolidator - Row Filter
// =============================================================================
//
// The row filter turns the raw export table into candidate line items.
//
// DROPPED ROWS:
//   - A leading "company info" row (first cell contains the marker)
//   - Rows whose code is blank (trailing artifacts of the export)
//   - Rows whose code matches the total marker pattern (총합계, print dates)
//   - Rows whose price is missing, non-numeric, zero or negative
//
// Remaining rows keep their input order. A malformed cell never aborts the
// run; a non-numeric price is reported as a ParseWarning.
//
// =============================================================================

package consolidator

import (
	"errors"
	"strings"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
	"github.com/ginjaninja78/invoice-consolidator/internal/types"
)

// FilterStats counts the rows removed by each filter rule.
type FilterStats struct {
	RowsRead        int
	CompanyInfoRows int
	ArtifactRows    int
	MissingPrice    int
	InvalidPrice    int
	NonPositive     int
	Kept            int
}

// Removed returns the total number of dropped rows.
func (s FilterStats) Removed() int {
	return s.CompanyInfoRows + s.ArtifactRows + s.MissingPrice + s.InvalidPrice + s.NonPositive
}

// FilterRows removes artifact rows and rows without a positive price and
// returns the remaining rows as line items. The caller must have checked
// the schema first.
func FilterRows(in *types.Table, rules config.Rules) ([]LineItem, FilterStats, []ParseWarning) {
	stats := FilterStats{RowsRead: in.Len()}
	var warnings []ParseWarning

	marker := rules.TotalMarker()
	items := make([]LineItem, 0, in.Len())

	for row := 0; row < in.Len(); row++ {
		// Leading company-info row.
		if row == 0 && isCompanyInfoRow(in, rules.CompanyInfoMarker) {
			stats.CompanyInfoRows++
			continue
		}

		code := strings.TrimSpace(in.Value(row, ColCode))
		if code == "" || marker.MatchString(code) {
			stats.ArtifactRows++
			continue
		}

		rawPrice := in.Value(row, ColPrice)
		price, err := ParseAmount(rawPrice)
		switch {
		case errors.Is(err, errEmptyAmount):
			stats.MissingPrice++
			continue
		case err != nil:
			stats.InvalidPrice++
			warnings = append(warnings, ParseWarning{
				Row:    in.SourceRow(row),
				Column: ColPrice,
				Value:  rawPrice,
				Reason: "price is not a valid amount, row excluded",
			})
			continue
		case !price.IsPositive():
			stats.NonPositive++
			continue
		}

		item := lineItemFromRow(in, row)
		item.PriceValue = price
		item.Seq = len(items)
		normalizeItem(&item, rules.Normalize)

		items = append(items, item)
	}

	stats.Kept = len(items)
	return items, stats, warnings
}

// isCompanyInfoRow checks the first cell of the first row for the marker.
func isCompanyInfoRow(in *types.Table, marker string) bool {
	if marker == "" || len(in.Rows) == 0 || len(in.Rows[0]) == 0 {
		return false
	}
	return strings.Contains(in.Rows[0][0], marker)
}

// lineItemFromRow copies the key and line fields of one table row.
func lineItemFromRow(in *types.Table, row int) LineItem {
	var key InvoiceKey
	for i, col := range InvoiceKeyColumns {
		key[i] = strings.TrimSpace(in.Value(row, col))
	}

	return LineItem{
		Key:       key,
		Day:       in.Value(row, ColDay),
		Item:      in.Value(row, ColItem),
		Standard:  in.Value(row, ColStandard),
		Quantity:  in.Value(row, ColQuantity),
		UnitPrice: in.Value(row, ColUnitPrice),
		Price:     in.Value(row, ColPrice),
		VAT:       in.Value(row, ColVAT),
		Note:      in.Value(row, ColNote),
		SourceRow: in.SourceRow(row),
	}
}

// normalizeItem applies the optional preprocessing switches.
func normalizeItem(item *LineItem, n config.Normalize) {
	if n.ForceCode != "" {
		item.Key[keyIndex[ColCode]] = n.ForceCode
	}

	date := item.Key[keyIndex[ColDate]]
	if n.DateDigits > 0 {
		if r := []rune(date); len(r) > n.DateDigits {
			date = string(r[:n.DateDigits])
			item.Key[keyIndex[ColDate]] = date
		}
	}

	if n.DeriveDay {
		r := []rune(date)
		if len(r) >= 2 {
			item.Day = string(r[len(r)-2:])
		} else {
			item.Day = date
		}
	}
}
