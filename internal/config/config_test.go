package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMainConfig_Defaults(t *testing.T) {
	cfg, err := ParseMainConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "./input", cfg.InputDir)
	assert.Equal(t, FormatXLSX, cfg.Output.Format)
	assert.Equal(t, "sale1", cfg.Output.SheetName)
	assert.Equal(t, 5, cfg.Output.StartRowValue())
	assert.True(t, cfg.ArchiveEnabled())
	assert.Equal(t, []string{LabelRent, LabelManagementFee, LabelElectricity, LabelParking}, cfg.Rules.CategoryLabels)
	assert.Equal(t, []string{ReservedRentTaxID}, cfg.Rules.RentOverrideTaxIDs)
	assert.Equal(t, "_B", cfg.Rules.TaxIDSuffix())
	assert.Equal(t, "02", cfg.Rules.InvoiceType)

	assert.Equal(t, 1, cfg.Input.SkipRowsFor(true))
	assert.Equal(t, 2, cfg.Input.SkipFooterFor(true))
	assert.Equal(t, 0, cfg.Input.SkipRowsFor(false))

	require.NotNil(t, cfg.Rules.TotalMarker())
	assert.True(t, cfg.Rules.TotalMarker().MatchString("총합계"))
	assert.True(t, cfg.Rules.TotalMarker().MatchString("2025/02/03 오후 3:15:02"))
	assert.False(t, cfg.Rules.TotalMarker().MatchString("A-1"))
}

func TestParseMainConfig_Overrides(t *testing.T) {
	data := []byte(`
output:
  format: csv
  start_row: 0
archive_on_success: false
input:
  skip_rows: 0
rules:
  category_labels: [관리비, 임대료]
  strip_tax_id_suffix: ""
  normalize:
    force_code: "01"
    date_digits: 8
    derive_day: true
`)
	cfg, err := ParseMainConfig(data)
	require.NoError(t, err)

	assert.Equal(t, FormatCSV, cfg.Output.Format)
	assert.Equal(t, 0, cfg.Output.StartRowValue())
	assert.False(t, cfg.ArchiveEnabled())
	assert.Equal(t, 0, cfg.Input.SkipRowsFor(true))
	assert.Equal(t, []string{"관리비", "임대료"}, cfg.Rules.CategoryLabels)
	assert.Equal(t, "", cfg.Rules.TaxIDSuffix())
	assert.Equal(t, 8, cfg.Rules.Normalize.DateDigits)
}

func TestParseMainConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"format":     "output: {format: pdf}",
		"log level":  "log_level: loud",
		"too many":   "rules: {category_labels: [a, b, c, d, e]}",
		"duplicate":  "rules: {category_labels: [a, a]}",
		"empty":      `rules: {category_labels: [a, " "]}`,
		"regex":      "rules: {total_marker_pattern: '('}",
		"start row":  "output: {start_row: -1}",
		"retention":  "archive_retention_days: -1",
		"bad yaml":   "output: [",
		"date digit": "rules: {normalize: {date_digits: -2}}",
		"encoding":   "input: {encodings: [utf-8, cp-949]}",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseMainConfig([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestParseMainConfig_EncodingAliases(t *testing.T) {
	cfg, err := ParseMainConfig([]byte("input: {encodings: [UTF8, ms949, EUC_KR, iso-8859-1]}"))
	require.NoError(t, err)
	assert.Equal(t, []string{"UTF8", "ms949", "EUC_KR", "iso-8859-1"}, cfg.Input.Encodings)
}

func TestLoadMainConfig_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := LoadMainConfig(path, false)
	assert.Error(t, err)

	cfg, err := LoadMainConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, "./output", cfg.OutputDir)

	require.NoError(t, os.WriteFile(path, []byte("output_dir: ./out\n"), 0644))
	cfg, err = LoadMainConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, "./out", cfg.OutputDir)
}
