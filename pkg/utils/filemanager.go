// =============================================================================
// Invoice Consolidator - File Manager Utility
// =============================================================================
//
// This module provides the file handling around a consolidation run:
//   - Input discovery (ERP exports in the input directory)
//   - Output file naming and writing
//   - Archival of processed inputs and generated uploads
//   - Warning and summary logs
//   - Archive retention
//
// ARCHIVAL STRATEGY:
//   - Input files are moved to input_archive after successful processing
//   - Output files are copied to output_archive
//   - Failed files remain in the input directory for the next run
//   - A name already taken in an archive gets a numeric suffix, so nothing
//     is overwritten
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/invoice-consolidator/internal/loader"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the consolidator.
type FileManager struct {
	// InputDir is the directory scanned for export files.
	InputDir string

	// OutputDir receives the upload files and logs.
	OutputDir string

	// InputArchiveDir receives processed export files.
	InputArchiveDir string

	// OutputArchiveDir receives copies of the upload files.
	OutputArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in archives.
	// Example: input_archive/2025/02/03/export.xlsx
	UseTimestampSubdirs bool

	// ArchiveOnSuccess determines whether files are archived after a
	// successful run.
	ArchiveOnSuccess bool

	now func() time.Time
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir, inputArchiveDir, outputArchiveDir string) *FileManager {
	return &FileManager{
		InputDir:         inputDir,
		OutputDir:        outputDir,
		InputArchiveDir:  inputArchiveDir,
		OutputArchiveDir: outputArchiveDir,
		ArchiveOnSuccess: true,
		now:              time.Now,
	}
}

func (fm *FileManager) clock() time.Time {
	if fm.now == nil {
		return time.Now()
	}
	return fm.now()
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates all required directories if they don't exist.
func (fm *FileManager) EnsureDirectories() error {
	dirs := []string{
		fm.InputDir,
		fm.OutputDir,
		fm.InputArchiveDir,
		fm.OutputArchiveDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the export files in the input directory.
//
// RETURNS:
//   - File paths with a supported extension, sorted by name.
//   - An error if the directory cannot be read.
//
// Hidden files and spreadsheet lock files ("~$export.xlsx") are skipped.
func (fm *FileManager) DiscoverInputFiles() ([]string, error) {
	entries, err := os.ReadDir(fm.InputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var result []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			continue
		}
		if loader.Supported(name) {
			result = append(result, filepath.Join(fm.InputDir, name))
		}
	}

	sort.Strings(result)
	return result, nil
}

// =============================================================================
// OUTPUT FILES
// =============================================================================

// WriteOutputFile writes data to name inside the output directory. The data
// goes to a temporary file first and is renamed into place, so a failed
// write never leaves a partial upload file behind.
func (fm *FileManager) WriteOutputFile(name string, data []byte) (string, error) {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(fm.OutputDir, name)
	tmp, err := os.CreateTemp(fm.OutputDir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to move output file into place: %w", err)
	}

	return path, nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves an input file to the input archive directory.
//
// PARAMETERS:
//   - filePath: The path to the file to archive.
//
// RETURNS:
//   - The path to the archived file.
//   - An error if archival fails.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath, err := fm.archivePath(fm.InputArchiveDir, filePath)
	if err != nil {
		return "", err
	}

	// Move the file.
	if err := os.Rename(filePath, archivePath); err != nil {
		// If rename fails (e.g., cross-device), try copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// ArchiveOutputFile copies an output file to the output archive directory.
//
// NOTE: Output files are copied, not moved, so they remain in the output
// directory for upload.
func (fm *FileManager) ArchiveOutputFile(filePath string) (string, error) {
	if !fm.ArchiveOnSuccess {
		return filePath, nil
	}

	archivePath, err := fm.archivePath(fm.OutputArchiveDir, filePath)
	if err != nil {
		return "", err
	}

	if err := copyFile(filePath, archivePath); err != nil {
		return "", fmt.Errorf("failed to copy file to archive: %w", err)
	}

	return archivePath, nil
}

// archivePath returns a free path for filePath inside archiveDir and
// creates its directory.
func (fm *FileManager) archivePath(archiveDir, filePath string) (string, error) {
	dir := archiveDir
	if fm.UseTimestampSubdirs {
		now := fm.clock()
		dir = filepath.Join(
			archiveDir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	return uniquePath(filepath.Join(dir, filepath.Base(filePath))), nil
}

// uniquePath appends _1, _2, ... before the extension until the path is free.
func uniquePath(path string) string {
	if !FileExists(path) {
		return path
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if !FileExists(candidate) {
			return candidate
		}
	}
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates an output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {original}  - Input file name (without extension)
//   - params: A map of placeholder values.
//   - ext: The extension to enforce, e.g. ".xlsx".
//
// EXAMPLE:
//   format: "tax_upload_{original}_{timestamp}"
//   params: {"original": "sales_202502"}
//   output: "tax_upload_sales_202502_20250203_151502.xlsx"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// =============================================================================
// WARNING LOG GENERATION
// =============================================================================

// WarningLogEntry represents one row-level finding of a run.
type WarningLogEntry struct {
	Timestamp  time.Time
	FileName   string
	Kind       string
	Message    string
	RowNumber  int
	FieldName  string
	FieldValue string
}

// WriteWarningLog writes warning entries to a log file in outputDir.
//
// RETURNS:
//   - The path to the log file, or "" when there is nothing to write.
//   - An error if writing fails.
func WriteWarningLog(entries []WarningLogEntry, outputDir string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	timestamp := time.Now().Format("20060102_150405")
	logPath := uniquePath(filepath.Join(outputDir, fmt.Sprintf("warning_log_%s.txt", timestamp)))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create warning log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Invoice Consolidator - Warning Log\n"+
		"Generated: %s\n"+
		"Total Warnings: %d\n"+
		"================================================================================\n\n",
		time.Now().Format("2006-01-02 15:04:05"),
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Warning #%d\n"+
			"  Timestamp:  %s\n"+
			"  File:       %s\n"+
			"  Kind:       %s\n"+
			"  Message:    %s\n",
			i+1,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.FileName,
			entry.Kind,
			entry.Message)

		if entry.RowNumber > 0 {
			fmt.Fprintf(writer, "  Row Number: %d\n", entry.RowNumber)
		}
		if entry.FieldName != "" {
			fmt.Fprintf(writer, "  Field:      %s\n", entry.FieldName)
		}
		if entry.FieldValue != "" {
			fmt.Fprintf(writer, "  Value:      %s\n", entry.FieldValue)
		}
		writer.WriteString("\n")
	}

	writer.WriteString("================================================================================\n" +
		"End of Warning Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush warning log: %w", err)
	}

	return logPath, nil
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about a processing run.
type ProcessingSummary struct {
	StartTime       time.Time
	EndTime         time.Time
	TotalFiles      int
	SuccessfulFiles int
	FailedFiles     int
	TotalRows       int
	FilteredRows    int
	TotalInvoices   int
	OverflowItems   int
	ParseWarnings   int
	ProcessedFiles  []ProcessedFileInfo
	FailedFilesList []FailedFileInfo
}

// ProcessedFileInfo contains information about a successfully processed file.
type ProcessedFileInfo struct {
	InputFile   string
	OutputFile  string
	ArchivePath string
	Rows        int
	Invoices    int

	// GrandTotal is the formatted price plus VAT total of the output.
	GrandTotal  string
	ProcessTime time.Duration
}

// FailedFileInfo contains information about a failed file.
type FailedFileInfo struct {
	InputFile    string
	ErrorMessage string
	ErrorType    string
}

// WriteSummaryLog writes a processing summary to a log file in outputDir.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	summaryPath := uniquePath(filepath.Join(outputDir, fmt.Sprintf("processing_summary_%s.txt", timestamp)))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	fmt.Fprintf(writer, "Invoice Consolidator - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n\n"+
		"Statistics:\n"+
		"  Total Files:     %d\n"+
		"  Successful:      %d\n"+
		"  Failed:          %d\n"+
		"  Rows Read:       %d\n"+
		"  Rows Filtered:   %d\n"+
		"  Invoices:        %d\n"+
		"  Overflow Items:  %d\n"+
		"  Parse Warnings:  %d\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalFiles,
		summary.SuccessfulFiles,
		summary.FailedFiles,
		summary.TotalRows,
		summary.FilteredRows,
		summary.TotalInvoices,
		summary.OverflowItems,
		summary.ParseWarnings)

	if len(summary.ProcessedFiles) > 0 {
		writer.WriteString("Successful Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, pf := range summary.ProcessedFiles {
			fmt.Fprintf(writer, "  Input:        %s\n", pf.InputFile)
			fmt.Fprintf(writer, "  Output:       %s\n", pf.OutputFile)
			if pf.ArchivePath != "" {
				fmt.Fprintf(writer, "  Archived To:  %s\n", pf.ArchivePath)
			}
			fmt.Fprintf(writer, "  Rows:         %d\n", pf.Rows)
			fmt.Fprintf(writer, "  Invoices:     %d\n", pf.Invoices)
			if pf.GrandTotal != "" {
				fmt.Fprintf(writer, "  Grand Total:  %s\n", pf.GrandTotal)
			}
			fmt.Fprintf(writer, "  Process Time: %s\n\n", pf.ProcessTime.String())
		}
	}

	if len(summary.FailedFilesList) > 0 {
		writer.WriteString("Failed Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, ff := range summary.FailedFilesList {
			fmt.Fprintf(writer, "  File:  %s\n", ff.InputFile)
			if ff.ErrorType != "" {
				fmt.Fprintf(writer, "  Type:  %s\n", ff.ErrorType)
			}
			fmt.Fprintf(writer, "  Error: %s\n\n", ff.ErrorMessage)
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CleanOldArchives removes archive files older than maxAge.
//
// PARAMETERS:
//   - archiveDir: The archive directory to clean.
//   - maxAge: Files modified longer ago than this are removed.
//
// RETURNS:
//   - The number of files removed.
//   - An error if the walk fails.
//
// Empty date subdirectories are left in place.
func CleanOldArchives(archiveDir string, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.WalkDir(archiveDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == archiveDir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove %s: %w", path, err)
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to clean archive %s: %w", archiveDir, err)
	}

	return removed, nil
}
