package consolidator

import (
	"github.com/ginjaninja78/invoice-consolidator/internal/types"
)

// testRow describes one export row; unset key fields get defaults from
// baseKey so most tests only set what they care about.
type testRow struct {
	code     string
	date     string
	taxNoGet string
	title    string
	item     string
	price    string
	vat      string
	note     string
	day      string
}

var baseKey = map[string]string{
	"code":         "01",
	"Date":         "20250131",
	"TaxNo_Send":   "1234567890",
	"J1":           "",
	"Title_send":   "Sender Co",
	"Name_send":    "Kim",
	"Addr_send":    "Seoul",
	"sub1":         "real estate",
	"sub2":         "lease",
	"Email_send":   "billing@sender.example",
	"TaxNo_get":    "1112233333",
	"J2":           "",
	"TaxTitle_get": "Tenant Co",
	"Name_get":     "Lee",
	"Addr_get":     "Busan",
	"type1":        "",
	"type2":        "",
	"Email_get":    "ap@tenant.example",
	"Email2_get":   "",
	"note_Sum":     "",
}

func buildTable(rows ...testRow) *types.Table {
	t := types.NewTable(RequiredColumns())
	for i, r := range rows {
		values := make(map[string]string, len(baseKey))
		for k, v := range baseKey {
			values[k] = v
		}
		if r.code != "" {
			values["code"] = r.code
		}
		if r.date != "" {
			values["Date"] = r.date
		}
		if r.taxNoGet != "" {
			values["TaxNo_get"] = r.taxNoGet
		}
		if r.title != "" {
			values["TaxTitle_get"] = r.title
		}
		values["day"] = r.day
		values["item"] = r.item
		values["standard"] = ""
		values["quantity"] = "1"
		values["unit_price"] = r.price
		values["price"] = r.price
		values["VAT"] = r.vat
		values["note"] = r.note

		cells := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			cells[j] = values[c]
		}
		t.AppendRow(cells, i+2)
	}
	return t
}

// outputValue reads a cell of the output table by column name.
func outputValue(t *types.Table, row int, column string) string {
	return t.Value(row, column)
}
