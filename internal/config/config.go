// =============================================================================
// Invoice Consolidator - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the application
// configuration. A single YAML file holds:
//   1. Directory settings (input, output, archives)
//   2. Logging settings
//   3. Input loader settings (skip rows/footer, encodings)
//   4. Output writer settings (format, sheet name, start row)
//   5. Consolidation rules (category labels, overrides, markers)
//
// DEFAULTS:
//   Every field has a default. The consolidation rule defaults reproduce the
//   tax-authority bulk-upload rules exactly, so an empty config file is valid.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/invoice-consolidator/internal/csvparser"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// Category labels as they appear in the ERP export, in slot priority order.
const (
	LabelRent          = "임대료"
	LabelManagementFee = "관리비"
	LabelElectricity   = "전기료"
	LabelParking       = "주차료"
)

// ReservedRentTaxID is the receiver tax-ID whose rows are always treated as rent.
const ReservedRentTaxID = "2298500670"

// Output formats.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is the directory scanned for ERP export files.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir is the directory where consolidated upload files are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives input files after successful processing.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputArchiveDir receives a copy of every generated upload file.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// ArchiveOnSuccess moves processed inputs to InputArchiveDir.
	// Default: true
	ArchiveOnSuccess *bool `yaml:"archive_on_success"`

	// ArchiveRetentionDays removes archived files older than this many days
	// at the start of a run. Zero keeps everything.
	ArchiveRetentionDays int `yaml:"archive_retention_days"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the path to the application log file.
	// When empty, logs go to stderr only.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the logrus formatter.
	// Valid values: "text", "json"
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// MetricsFile is where run counters are written in the prometheus text
	// format. Empty disables metrics export.
	MetricsFile string `yaml:"metrics_file"`

	// =========================================================================
	// INPUT / OUTPUT SETTINGS
	// =========================================================================

	Input  InputSettings  `yaml:"input"`
	Output OutputSettings `yaml:"output"`

	// =========================================================================
	// CONSOLIDATION RULES
	// =========================================================================

	Rules Rules `yaml:"rules"`
}

// ArchiveEnabled reports whether inputs should be archived after success.
func (c *MainConfig) ArchiveEnabled() bool {
	return c.ArchiveOnSuccess == nil || *c.ArchiveOnSuccess
}

// =============================================================================
// INPUT SETTINGS
// =============================================================================

// InputSettings controls how ERP export files are read.
type InputSettings struct {
	// SkipRows is the number of leading rows before the header row.
	// The ERP spreadsheet export carries one title row.
	// Default: 1 for spreadsheets, 0 for CSV (see SkipRowsFor)
	SkipRows *int `yaml:"skip_rows"`

	// SkipFooter is the number of trailing rows to drop (grand totals, print
	// timestamp).
	// Default: 2 for spreadsheets, 0 for CSV (see SkipFooterFor)
	SkipFooter *int `yaml:"skip_footer"`

	// Encodings lists the text encodings tried, in order, for CSV input.
	// Default: ["utf-8", "cp949", "euc-kr", "latin-1"]
	Encodings []string `yaml:"encodings"`

	// Sheet is the worksheet to read from spreadsheet input.
	// Empty means the first sheet.
	Sheet string `yaml:"sheet"`
}

// SkipRowsFor returns the effective skip-rows value for an input kind.
func (s InputSettings) SkipRowsFor(spreadsheet bool) int {
	if s.SkipRows != nil {
		return *s.SkipRows
	}
	if spreadsheet {
		return 1
	}
	return 0
}

// SkipFooterFor returns the effective skip-footer value for an input kind.
func (s InputSettings) SkipFooterFor(spreadsheet bool) int {
	if s.SkipFooter != nil {
		return *s.SkipFooter
	}
	if spreadsheet {
		return 2
	}
	return 0
}

// =============================================================================
// OUTPUT SETTINGS
// =============================================================================

// OutputSettings controls how the consolidated table is written.
type OutputSettings struct {
	// Format is the output file format: "xlsx" or "csv".
	// Default: "xlsx"
	Format string `yaml:"format"`

	// NameFormat defines the output file name.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {original}  - Input file name without extension
	// Default: "tax_upload_{original}_{timestamp}"
	NameFormat string `yaml:"name_format"`

	// SheetName is the worksheet name for xlsx output.
	// Default: "sale1"
	SheetName string `yaml:"sheet_name"`

	// StartRow is the zero-based row offset of the header row in xlsx output.
	// The bulk-upload template expects the header on spreadsheet row 6.
	// Default: 5
	StartRow *int `yaml:"start_row"`

	// ColumnWidth is the width applied to every output column in xlsx.
	// Default: 14
	ColumnWidth float64 `yaml:"column_width"`
}

// StartRowValue returns the effective start row.
func (o OutputSettings) StartRowValue() int {
	if o.StartRow == nil {
		return 5
	}
	return *o.StartRow
}

// =============================================================================
// CONSOLIDATION RULES
// =============================================================================

// Rules holds the business rules applied by the consolidation engine.
type Rules struct {
	// CategoryLabels lists the item labels that are consolidated into slots.
	// The position in the list is the slot priority.
	// Default: [임대료, 관리비, 전기료, 주차료]
	CategoryLabels []string `yaml:"category_labels"`

	// RentOverrideTaxIDs lists receiver tax-IDs whose rows are always
	// treated as rent regardless of their item label.
	// Default: ["2298500670"]
	RentOverrideTaxIDs []string `yaml:"rent_override_tax_ids"`

	// CompanyInfoMarker identifies a leading company-info row by its first cell.
	// Default: "회사명"
	CompanyInfoMarker string `yaml:"company_info_marker"`

	// TotalMarkerPattern is a regular expression matched against the code
	// column to drop total/grand-total and print-timestamp rows.
	// Default: "총합계|^\d{4}/"
	TotalMarkerPattern string `yaml:"total_marker_pattern"`

	// StripTaxIDSuffix is removed from the end of TaxNo_get in the output.
	// Default: "_B"
	StripTaxIDSuffix *string `yaml:"strip_tax_id_suffix"`

	// InvoiceType is the literal written to etc5.
	// Default: "02" (청구)
	InvoiceType string `yaml:"invoice_type"`

	// Normalize holds the optional preprocessing applied to surviving rows.
	Normalize Normalize `yaml:"normalize"`

	totalMarker *regexp.Regexp
}

// Normalize holds preprocessing switches. All are off by default.
type Normalize struct {
	// ForceCode overwrites the code column on every row (e.g. "01").
	ForceCode string `yaml:"force_code"`

	// DateDigits truncates Date to its first N characters (e.g. 8 for YYYYMMDD).
	DateDigits int `yaml:"date_digits"`

	// DeriveDay sets day to the last two characters of Date.
	DeriveDay bool `yaml:"derive_day"`
}

// DefaultRules returns the built-in consolidation rules.
func DefaultRules() Rules {
	r := Rules{}
	applyRulesDefaults(&r)
	return r
}

// TotalMarker returns the compiled total-marker regular expression.
// It panics only if called on rules that were never validated.
func (r *Rules) TotalMarker() *regexp.Regexp {
	if r.totalMarker == nil {
		r.totalMarker = regexp.MustCompile(r.TotalMarkerPattern)
	}
	return r.totalMarker
}

// TaxIDSuffix returns the suffix stripped from TaxNo_get.
func (r *Rules) TaxIDSuffix() string {
	if r.StripTaxIDSuffix == nil {
		return "_B"
	}
	return *r.StripTaxIDSuffix
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed.
//
// A missing file is not an error when allowMissing is set: the defaults are
// returned instead, so the tool works out of the box.
func LoadMainConfig(configPath string, allowMissing bool) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if allowMissing && os.IsNotExist(err) {
			data = nil
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return ParseMainConfig(data)
}

// ParseMainConfig parses YAML bytes, applies defaults and validates.
func ParseMainConfig(data []byte) (*MainConfig, error) {
	var config MainConfig
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// EnsureDirectories creates the configured directories when missing.
func (c *MainConfig) EnsureDirectories() error {
	dirs := []string{
		c.InputDir,
		c.OutputDir,
		c.InputArchiveDir,
		c.OutputArchiveDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
	if len(config.Input.Encodings) == 0 {
		config.Input.Encodings = []string{"utf-8", "cp949", "euc-kr", "latin-1"}
	}
	if config.Output.Format == "" {
		config.Output.Format = FormatXLSX
	}
	if config.Output.NameFormat == "" {
		config.Output.NameFormat = "tax_upload_{original}_{timestamp}"
	}
	if config.Output.SheetName == "" {
		config.Output.SheetName = "sale1"
	}
	if config.Output.ColumnWidth == 0 {
		config.Output.ColumnWidth = 14
	}

	applyRulesDefaults(&config.Rules)
}

// applyRulesDefaults fills in the built-in business rules.
func applyRulesDefaults(rules *Rules) {
	if len(rules.CategoryLabels) == 0 {
		rules.CategoryLabels = []string{LabelRent, LabelManagementFee, LabelElectricity, LabelParking}
	}
	if rules.RentOverrideTaxIDs == nil {
		rules.RentOverrideTaxIDs = []string{ReservedRentTaxID}
	}
	if rules.CompanyInfoMarker == "" {
		rules.CompanyInfoMarker = "회사명"
	}
	if rules.TotalMarkerPattern == "" {
		rules.TotalMarkerPattern = `총합계|^\d{4}/`
	}
	if rules.InvoiceType == "" {
		rules.InvoiceType = "02"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	switch config.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", config.LogLevel)
	}

	switch config.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q", config.LogFormat)
	}

	switch config.Output.Format {
	case FormatXLSX, FormatCSV:
	default:
		return fmt.Errorf("unknown output format %q", config.Output.Format)
	}

	if config.ArchiveRetentionDays < 0 {
		return fmt.Errorf("archive_retention_days must not be negative")
	}

	if config.Output.StartRowValue() < 0 {
		return fmt.Errorf("output start_row must not be negative")
	}

	for _, name := range config.Input.Encodings {
		if !csvparser.SupportedEncoding(name) {
			return fmt.Errorf("unknown input encoding %q", name)
		}
	}

	if config.Input.SkipRows != nil && *config.Input.SkipRows < 0 {
		return fmt.Errorf("input skip_rows must not be negative")
	}
	if config.Input.SkipFooter != nil && *config.Input.SkipFooter < 0 {
		return fmt.Errorf("input skip_footer must not be negative")
	}

	return ValidateRules(&config.Rules)
}

// ValidateRules checks the consolidation rules and compiles the marker pattern.
func ValidateRules(rules *Rules) error {
	if len(rules.CategoryLabels) > 4 {
		return fmt.Errorf("at most 4 category labels are supported, got %d", len(rules.CategoryLabels))
	}

	seen := make(map[string]bool)
	for i, label := range rules.CategoryLabels {
		label = strings.TrimSpace(label)
		if label == "" {
			return fmt.Errorf("category label %d is empty", i+1)
		}
		if seen[label] {
			return fmt.Errorf("duplicate category label %q", label)
		}
		seen[label] = true
	}

	re, err := regexp.Compile(rules.TotalMarkerPattern)
	if err != nil {
		return fmt.Errorf("invalid total_marker_pattern: %w", err)
	}
	rules.totalMarker = re

	if rules.Normalize.DateDigits < 0 {
		return fmt.Errorf("normalize date_digits must not be negative")
	}

	return nil
}
