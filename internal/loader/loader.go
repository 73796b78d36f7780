// Package loader picks the input parser for an ERP export by file extension
// and hands the engine a decoded table.
package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
	"github.com/ginjaninja78/invoice-consolidator/internal/csvparser"
	"github.com/ginjaninja78/invoice-consolidator/internal/types"
	"github.com/ginjaninja78/invoice-consolidator/internal/xlsxparser"
)

// SupportedExtensions lists the input file extensions the loader accepts.
var SupportedExtensions = []string{".csv", ".xlsx", ".xlsm", ".xls"}

// Loaded is a parsed input file.
type Loaded struct {
	Path  string
	Table *types.Table

	// Encoding is the text encoding that decoded a CSV file; empty for
	// spreadsheets.
	Encoding string
}

// Supported reports whether a file name has a supported extension.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads one export file using the input settings.
func Load(path string, settings config.InputSettings) (*Loaded, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		table, enc, err := csvparser.Parse(path, csvparser.Settings{
			Delimiter:  ',',
			SkipRows:   settings.SkipRowsFor(false),
			SkipFooter: settings.SkipFooterFor(false),
			Encodings:  settings.Encodings,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
		}
		return &Loaded{Path: path, Table: table, Encoding: enc}, nil

	case ".xlsx", ".xlsm", ".xls":
		table, err := xlsxparser.Parse(path, xlsxparser.Settings{
			Sheet:      settings.Sheet,
			SkipRows:   settings.SkipRowsFor(true),
			SkipFooter: settings.SkipFooterFor(true),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
		}
		return &Loaded{Path: path, Table: table}, nil

	default:
		return nil, fmt.Errorf("unsupported input file type %q", ext)
	}
}
