package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
	"github.com/ginjaninja78/invoice-consolidator/internal/consolidator"
	"github.com/ginjaninja78/invoice-consolidator/internal/loader"
	"github.com/ginjaninja78/invoice-consolidator/internal/metrics"
	"github.com/ginjaninja78/invoice-consolidator/internal/report"
	"github.com/ginjaninja78/invoice-consolidator/internal/sheetwriter"
	"github.com/ginjaninja78/invoice-consolidator/internal/validation"
	"github.com/ginjaninja78/invoice-consolidator/pkg/utils"
)

// Error types used in the summary log.
const (
	errTypeLoad       = "load"
	errTypeSchema     = "schema"
	errTypeValidation = "validation"
	errTypeWrite      = "write"
)

// runSession carries everything one CLI invocation needs. It replaces
// package-level engine state: each command builds its own session.
type runSession struct {
	cfg      *config.MainConfig
	log      logrus.FieldLogger
	engine   *consolidator.Engine
	files    *utils.FileManager
	writer   sheetwriter.Options
	recorder *metrics.Recorder
	dryRun   bool

	// last is the result of the most recent successful consolidation.
	last *consolidator.Result

	summary  utils.ProcessingSummary
	warnings []utils.WarningLogEntry
}

// fileOutcome is what processFile reports about one input.
type fileOutcome struct {
	Input      string
	Output     string
	Archived   string
	Result     *consolidator.Result
	Summary    *report.Summary
	ErrorType  string
	Err        error
	Processing time.Duration
}

// newRunSession wires the engine, writer options and file manager from the
// configuration.
func newRunSession(cfg *config.MainConfig, log logrus.FieldLogger) (*runSession, error) {
	rules := cfg.Rules
	engine, err := consolidator.New(consolidator.Options{Rules: &rules, Logger: log})
	if err != nil {
		return nil, fmt.Errorf("failed to build consolidation engine: %w", err)
	}

	fm := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir, cfg.OutputArchiveDir)
	fm.ArchiveOnSuccess = cfg.ArchiveEnabled()

	return &runSession{
		cfg:      cfg,
		log:      log,
		engine:   engine,
		files:    fm,
		writer:   sheetwriter.OptionsFrom(cfg.Output),
		recorder: metrics.NewRecorder(),
		summary:  utils.ProcessingSummary{StartTime: time.Now()},
	}, nil
}

// consolidate loads one export and runs the engine over it.
func (s *runSession) consolidate(path string) (*consolidator.Result, error) {
	loaded, err := loader.Load(path, s.cfg.Input)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"file":     filepath.Base(path),
		"rows":     loaded.Table.Len(),
		"encoding": loaded.Encoding,
	}).Debug("input loaded")

	result, err := s.engine.Run(loaded.Table)
	if err != nil {
		return nil, err
	}
	s.last = result
	return result, nil
}

// processFile runs one export through load, consolidate, validate, render,
// write and archive. Errors are reported in the outcome, not returned, so
// the caller can continue with the next file.
func (s *runSession) processFile(path string) *fileOutcome {
	start := time.Now()
	name := filepath.Base(path)
	log := s.log.WithField("file", name)
	outcome := &fileOutcome{Input: path}

	fail := func(errType string, err error) *fileOutcome {
		outcome.ErrorType = errType
		outcome.Err = err
		outcome.Processing = time.Since(start)
		s.recorder.ObserveFailure()
		s.summary.FailedFiles++
		s.summary.FailedFilesList = append(s.summary.FailedFilesList, utils.FailedFileInfo{
			InputFile:    name,
			ErrorMessage: err.Error(),
			ErrorType:    errType,
		})
		log.WithError(err).WithField("type", errType).Error("file failed")
		return outcome
	}

	s.summary.TotalFiles++

	// =========================================================================
	// STEP 1: LOAD AND CONSOLIDATE
	// =========================================================================

	result, err := s.consolidate(path)
	if err != nil {
		var schemaErr *consolidator.SchemaError
		if errors.As(err, &schemaErr) {
			return fail(errTypeSchema, err)
		}
		return fail(errTypeLoad, err)
	}
	outcome.Result = result
	s.recordWarnings(name, result.Warnings)

	// =========================================================================
	// STEP 2: VALIDATE OUTPUT
	// =========================================================================

	check := validation.ValidateOutput(result.Output, s.engine.Rules())
	if !check.IsValid {
		log.Debug(validation.FormatErrors(check.Errors))
		return fail(errTypeValidation, check.Err())
	}

	outcome.Summary = report.Summarize(result.Output)

	s.summary.TotalRows += result.Stats.Filter.RowsRead
	s.summary.FilteredRows += result.Stats.Filter.Removed()
	s.summary.TotalInvoices += result.Stats.Invoices
	s.summary.OverflowItems += result.Stats.OverflowItems
	s.summary.ParseWarnings += len(result.Warnings)

	// =========================================================================
	// STEP 3: RENDER AND WRITE
	// =========================================================================

	switch {
	case s.dryRun:
		log.Info("dry run, output not written")

	case result.Empty():
		log.Warn("no invoice rows produced, output not written")

	default:
		data, err := sheetwriter.Write(result.Output, s.writer)
		if err != nil {
			return fail(errTypeWrite, err)
		}

		outName := utils.GenerateOutputFileName(s.cfg.Output.NameFormat,
			map[string]string{"original": utils.BaseName(path)}, s.writer.Extension())
		outPath, err := s.files.WriteOutputFile(outName, data)
		if err != nil {
			return fail(errTypeWrite, err)
		}
		outcome.Output = outPath

		if _, err := s.files.ArchiveOutputFile(outPath); err != nil {
			log.WithError(err).Warn("failed to archive output file")
		}
	}

	// =========================================================================
	// STEP 4: ARCHIVE INPUT
	// =========================================================================

	if !s.dryRun {
		archived, err := s.files.ArchiveInputFile(path)
		if err != nil {
			log.WithError(err).Warn("failed to archive input file")
		} else if archived != path {
			outcome.Archived = archived
		}
	}

	outputName := ""
	if outcome.Output != "" {
		outputName = filepath.Base(outcome.Output)
	}

	outcome.Processing = time.Since(start)
	s.recorder.ObserveResult(result)
	s.summary.SuccessfulFiles++
	s.summary.ProcessedFiles = append(s.summary.ProcessedFiles, utils.ProcessedFileInfo{
		InputFile:   name,
		OutputFile:  outputName,
		ArchivePath: outcome.Archived,
		Rows:        result.Stats.Filter.RowsRead,
		Invoices:    result.Stats.Invoices,
		GrandTotal:  report.FormatAmount(outcome.Summary.GrandTotal()),
		ProcessTime: outcome.Processing,
	})

	log.WithFields(logrus.Fields{
		"invoices": result.Stats.Invoices,
		"output":   outcome.Output,
		"duration": outcome.Processing,
	}).Info("file processed")

	return outcome
}

// recordWarnings converts parse warnings into warning log entries.
func (s *runSession) recordWarnings(file string, warnings []consolidator.ParseWarning) {
	now := time.Now()
	for _, w := range warnings {
		s.warnings = append(s.warnings, utils.WarningLogEntry{
			Timestamp:  now,
			FileName:   file,
			Kind:       "parse",
			Message:    w.Reason,
			RowNumber:  w.Row,
			FieldName:  w.Column,
			FieldValue: w.Value,
		})
	}
}

// finish writes the warning log, the summary log and the metrics file.
// Nothing is written on a dry run except metrics.
func (s *runSession) finish() error {
	s.summary.EndTime = time.Now()

	if !s.dryRun {
		if path, err := utils.WriteWarningLog(s.warnings, s.cfg.OutputDir); err != nil {
			s.log.WithError(err).Warn("failed to write warning log")
		} else if path != "" {
			s.log.WithField("path", path).Info("warning log written")
		}

		if s.summary.TotalFiles > 0 {
			path, err := utils.WriteSummaryLog(s.summary, s.cfg.OutputDir)
			if err != nil {
				return err
			}
			s.log.WithField("path", path).Debug("summary log written")
		}
	}

	if s.cfg.MetricsFile != "" {
		if err := s.recorder.WriteTextfile(s.cfg.MetricsFile); err != nil {
			return err
		}
	}
	return nil
}
