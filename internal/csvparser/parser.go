// =============================================================================
// Invoice Consolidator - CSV Parser Module
// =============================================================================
//
// This module reads CSV exports of the ERP sales report. It handles:
//   - Legacy Korean encodings (CP949 / EUC-KR) as well as UTF-8 with or
//     without BOM, tried in the configured order
//   - Leading title rows before the header (skip_rows)
//   - Trailing total rows after the data (skip_footer)
//   - Quoted fields and ragged records
//
// ENCODING DETECTION:
//   Each configured encoding is tried in turn. UTF-8 is accepted only when
//   the bytes are valid UTF-8; the Korean code pages are accepted only when
//   decoding produces no replacement characters. latin-1 accepts anything,
//   so it belongs last in the list.
//
// =============================================================================

package csvparser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/invoice-consolidator/internal/types"
)

// ErrUnsupportedEncoding is returned when none of the configured encodings
// decodes the file.
var ErrUnsupportedEncoding = errors.New("file could not be decoded with any supported encoding")

// =============================================================================
// SETTINGS
// =============================================================================

// Settings controls CSV parsing.
type Settings struct {
	// Delimiter separates fields. Default: ','
	Delimiter rune

	// SkipRows is the number of records before the header record.
	SkipRows int

	// SkipFooter is the number of trailing records to drop.
	SkipFooter int

	// Encodings are tried in order. Default: utf-8, cp949, euc-kr, latin-1
	Encodings []string
}

// DefaultSettings returns settings for a plain UTF-8/CP949 export.
func DefaultSettings() Settings {
	return Settings{
		Delimiter: ',',
		Encodings: []string{"utf-8", "cp949", "euc-kr", "latin-1"},
	}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns it as a table.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: The parsing settings.
//
// RETURNS:
//   - The parsed table and the name of the encoding that decoded it.
//   - ErrUnsupportedEncoding, or a wrapped read/parse error.
func Parse(filePath string, settings Settings) (*types.Table, string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	return ParseBytes(data, settings)
}

// ParseBytes parses CSV content held in memory.
func ParseBytes(data []byte, settings Settings) (*types.Table, string, error) {
	text, used, err := Decode(data, settings.Encodings)
	if err != nil {
		return nil, "", err
	}

	reader := csv.NewReader(strings.NewReader(text))
	configureReader(reader, settings)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, used, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, used, fmt.Errorf("CSV file is empty")
	}

	table, err := types.FromRecords(records, settings.SkipRows, settings.SkipFooter)
	if err != nil {
		return nil, used, fmt.Errorf("failed to extract rows: %w", err)
	}

	return table, used, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings Settings) {
	reader.Comma = ','
	if settings.Delimiter != 0 {
		reader.Comma = settings.Delimiter
	}

	// Export footers have fewer fields than data rows.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// =============================================================================
// ENCODING
// =============================================================================

// Decode converts raw bytes to UTF-8 text using the first encoding that
// accepts them. It returns the decoded text and the encoding name used.
func Decode(data []byte, encodings []string) (string, string, error) {
	if len(encodings) == 0 {
		encodings = DefaultSettings().Encodings
	}

	for _, name := range encodings {
		text, ok := tryDecode(data, name)
		if ok {
			return text, normalizeEncodingName(name), nil
		}
	}

	return "", "", fmt.Errorf("%w (tried %s)", ErrUnsupportedEncoding, strings.Join(encodings, ", "))
}

// SupportedEncoding reports whether name, or one of its aliases, is an
// encoding Decode can try.
func SupportedEncoding(name string) bool {
	switch normalizeEncodingName(name) {
	case "utf-8", "cp949", "euc-kr", "latin-1":
		return true
	default:
		return false
	}
}

// tryDecode decodes data with one named encoding.
func tryDecode(data []byte, name string) (string, bool) {
	switch normalizeEncodingName(name) {
	case "utf-8":
		if !utf8.Valid(data) {
			return "", false
		}
		out, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
		if err != nil {
			return "", false
		}
		return string(out), true

	case "cp949", "euc-kr":
		return decodeStrict(korean.EUCKR, data)

	case "latin-1":
		return decodeStrict(charmap.ISO8859_1, data)

	default:
		return "", false
	}
}

// decodeStrict rejects output containing replacement characters that were
// not already present in the input.
func decodeStrict(enc encoding.Encoding, data []byte) (string, bool) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", false
	}
	if bytes.ContainsRune(out, utf8.RuneError) && !bytes.ContainsRune(data, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

// normalizeEncodingName maps aliases to the names used in logs.
func normalizeEncodingName(name string) string {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "utf-8", "utf8", "utf-8-sig":
		return "utf-8"
	case "cp949", "ms949", "uhc":
		return "cp949"
	case "euc-kr", "euckr":
		return "euc-kr"
	case "latin-1", "latin1", "iso-8859-1":
		return "latin-1"
	default:
		return strings.ToLower(name)
	}
}
