package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
)

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.CSV"))
	assert.True(t, Supported("dir/b.xlsx"))
	assert.False(t, Supported("c.txt"))
}

func TestLoad_CSVUsesNoSkipByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte("code,price\n01,100\n"), 0644))

	loaded, err := Load(path, config.InputSettings{})
	require.NoError(t, err)
	assert.Equal(t, "utf-8", loaded.Encoding)
	assert.Equal(t, 1, loaded.Table.Len())
}

func TestLoad_XLSXSkipsTitleAndFooter(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "title"))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"code", "price"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"01", 100}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]interface{}{"총합계", 100}))
	require.NoError(t, f.SetCellValue("Sheet1", "A5", "printed"))

	path := filepath.Join(t.TempDir(), "export.xlsx")
	require.NoError(t, f.SaveAs(path))

	loaded, err := Load(path, config.InputSettings{})
	require.NoError(t, err)
	require.Equal(t, 1, loaded.Table.Len())
	assert.Equal(t, "100", loaded.Table.Value(0, "price"))
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load("notes.txt", config.InputSettings{})
	assert.Error(t, err)
}
