package consolidator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
)

func TestFilterRows_DropsArtifactsAndNonPositive(t *testing.T) {
	in := buildTable(
		testRow{item: "임대료", price: "1,000", vat: "100"},
		testRow{item: "관리비", price: "0", vat: "0"},
		testRow{item: "관리비", price: "-50", vat: "-5"},
		testRow{item: "전기료", price: "", vat: ""},
		testRow{item: "전기료", price: "abc", vat: "1"},
		testRow{code: "총합계", item: "", price: "99,999", vat: "9,999"},
		testRow{code: "2025/02/03 오후 3:15:02", price: "1", vat: "0"},
		testRow{code: " ", item: "임대료", price: "5", vat: "0"},
		testRow{item: "주차료", price: "200", vat: "20"},
	)

	items, stats, warnings := FilterRows(in, config.DefaultRules())

	require.Len(t, items, 2)
	assert.Equal(t, "임대료", items[0].Item)
	assert.Equal(t, "주차료", items[1].Item)
	assert.Equal(t, 0, items[0].Seq)
	assert.Equal(t, 1, items[1].Seq)
	assert.Equal(t, "1000", items[0].PriceValue.String())

	for _, item := range items {
		assert.True(t, item.PriceValue.IsPositive())
	}

	assert.Equal(t, 9, stats.RowsRead)
	assert.Equal(t, 3, stats.ArtifactRows)
	assert.Equal(t, 2, stats.NonPositive)
	assert.Equal(t, 1, stats.MissingPrice)
	assert.Equal(t, 1, stats.InvalidPrice)
	assert.Equal(t, 7, stats.Removed())

	require.Len(t, warnings, 1)
	assert.Equal(t, ColPrice, warnings[0].Column)
	assert.Equal(t, "abc", warnings[0].Value)
	assert.Equal(t, 6, warnings[0].Row)
}

func TestFilterRows_LeadingCompanyInfoRow(t *testing.T) {
	in := buildTable(
		testRow{item: "임대료", price: "1000", vat: "100"},
		testRow{item: "관리비", price: "500", vat: "50"},
	)
	in.Rows[0][0] = "회사명 : 테스트상사"

	items, stats, _ := FilterRows(in, config.DefaultRules())

	require.Len(t, items, 1)
	assert.Equal(t, "관리비", items[0].Item)
	assert.Equal(t, 1, stats.CompanyInfoRows)
}

func TestFilterRows_CompanyMarkerOnlyOnFirstRow(t *testing.T) {
	in := buildTable(
		testRow{item: "임대료", price: "1000", vat: "100"},
		testRow{item: "관리비", price: "500", vat: "50"},
	)
	in.Rows[1][0] = "회사명"

	items, stats, _ := FilterRows(in, config.DefaultRules())

	require.Len(t, items, 2)
	assert.Equal(t, 0, stats.CompanyInfoRows)
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in       string
		expected string
		wantErr  bool
	}{
		{"20000", "20000", false},
		{"20,000", "20000", false},
		{" 1,234,567 ", "1234567", false},
		{"₩1,500", "1500", false},
		{"1,234.50", "1234.5", false},
		{"(1,000)", "-1000", false},
		{"-300", "-300", false},
		{"", "0", true},
		{"twelve", "0", true},
		{"1e50000000", "0", true},
		{"1E3", "0", true},
		{"999,999,999,999,999", "999999999999999", false},
		{"1,000,000,000,000,000", "0", true},
		{"(1,000,000,000,000,000)", "0", true},
	}

	for _, tc := range cases {
		d, err := ParseAmount(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.expected, d.String(), tc.in)
	}
}
