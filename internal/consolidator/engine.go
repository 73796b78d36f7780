// =============================================================================
// Invoice Consolidator - Consolidation Engine
// =============================================================================
//
// This module contains the core consolidation logic. It turns one in-memory
// export table into one in-memory bulk-upload table.
//
// CONSOLIDATION PIPELINE:
//   1. Check the input schema (the only fatal error)
//   2. Row Filter        - drop artifacts and non-positive prices
//   3. Category Resolver - map item labels, apply the rent override
//   4. Invoice Grouper   - stable partition by invoice key
//   5. Slot Assigner     - priority order, four slots, overflow dropped
//   6. Aggregator        - truncated price/VAT sums
//   7. Output Formatter  - fixed 59-column table
//
// STATE:
//   The engine keeps no state between runs. Run is a pure function of its
//   input and the rules it was built with.
//
// =============================================================================

package consolidator

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/invoice-consolidator/internal/config"
	"github.com/ginjaninja78/invoice-consolidator/internal/types"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one consolidation run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Output is the rendered bulk-upload table.
	Output *types.Table

	// Invoices holds the consolidated invoices in output order.
	Invoices []ConsolidatedInvoice

	// Warnings lists the non-fatal numeric parse problems.
	Warnings []ParseWarning

	// Stats contains processing statistics.
	Stats Stats
}

// Empty reports whether the run produced no invoice rows. This is not an
// error; the caller decides how to present it.
func (r *Result) Empty() bool {
	return len(r.Invoices) == 0
}

// Stats contains statistics about a run.
type Stats struct {
	Filter FilterStats

	// OverrideApplied is the number of items forced to rent by the receiver
	// override.
	OverrideApplied int

	// UnmappedItems is the number of items with an unknown label.
	UnmappedItems int

	// OverflowItems is the number of mapped items dropped beyond slot 4.
	OverflowItems int

	// Invoices is the number of output rows.
	Invoices int

	// ProcessingTime is the time taken by Run.
	ProcessingTime time.Duration
}

// =============================================================================
// ENGINE
// =============================================================================

// Options configures an Engine.
type Options struct {
	// Rules are the consolidation rules. Zero value means config.DefaultRules().
	Rules *config.Rules

	// Logger receives per-stage debug logs and parse warnings.
	// A nil logger discards everything.
	Logger logrus.FieldLogger

	// RunID is attached to every log line. Generated when empty.
	RunID string
}

// Engine runs the consolidation pipeline.
type Engine struct {
	rules    config.Rules
	resolver *CategoryResolver
	logger   logrus.FieldLogger
	runID    string
}

// New creates an engine. Rules are validated here so Run never sees a bad
// marker pattern.
func New(opts Options) (*Engine, error) {
	rules := config.DefaultRules()
	if opts.Rules != nil {
		rules = *opts.Rules
	}
	if err := config.ValidateRules(&rules); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	return &Engine{
		rules:    rules,
		resolver: NewCategoryResolver(rules),
		logger:   logger,
		runID:    opts.RunID,
	}, nil
}

// Rules returns the rules the engine was built with.
func (e *Engine) Rules() config.Rules {
	return e.rules
}

// Run executes the pipeline over one table.
//
// RETURNS:
//   - The Result, including the output table (possibly with zero rows).
//   - A *SchemaError if mandatory columns are missing. No other error is
//     returned; row-level problems degrade to defaults and warnings.
func (e *Engine) Run(in *types.Table) (*Result, error) {
	startTime := time.Now()

	runID := e.runID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := e.logger.WithField("run_id", runID)

	// =========================================================================
	// STEP 1: SCHEMA
	// =========================================================================

	if in == nil {
		in = types.NewTable(nil)
	}
	if err := CheckSchema(in.Columns); err != nil {
		log.WithError(err).Error("input schema check failed")
		return nil, err
	}

	result := &Result{RunID: runID}

	// =========================================================================
	// STEP 2: ROW FILTER
	// =========================================================================

	items, filterStats, warnings := FilterRows(in, e.rules)
	result.Stats.Filter = filterStats
	result.Warnings = append(result.Warnings, warnings...)

	log.WithFields(logrus.Fields{
		"stage":        "filter",
		"rows":         filterStats.RowsRead,
		"kept":         filterStats.Kept,
		"company_info": filterStats.CompanyInfoRows,
		"artifacts":    filterStats.ArtifactRows,
		"non_positive": filterStats.NonPositive + filterStats.MissingPrice + filterStats.InvalidPrice,
	}).Debug("rows filtered")

	// =========================================================================
	// STEP 3: CATEGORY RESOLVER
	// =========================================================================

	items = ResolveCategories(items, e.resolver)
	for _, item := range items {
		if item.Overridden {
			result.Stats.OverrideApplied++
		}
		if !item.Category.Mapped() {
			result.Stats.UnmappedItems++
		}
	}

	log.WithFields(logrus.Fields{
		"stage":     "categories",
		"overrides": result.Stats.OverrideApplied,
		"unmapped":  result.Stats.UnmappedItems,
	}).Debug("categories resolved")

	// =========================================================================
	// STEP 4: INVOICE GROUPER
	// =========================================================================

	groups := GroupInvoices(items)

	log.WithFields(logrus.Fields{
		"stage":  "group",
		"groups": len(groups),
	}).Debug("line items grouped")

	// =========================================================================
	// STEP 5 + 6: SLOT ASSIGNER AND AGGREGATOR
	// =========================================================================

	result.Invoices = make([]ConsolidatedInvoice, 0, len(groups))
	for _, group := range groups {
		assignment := AssignSlots(group)
		priceSum, vatSum := Aggregate(assignment.Slots)

		result.Invoices = append(result.Invoices, ConsolidatedInvoice{
			Key:      group.Key,
			PriceSum: priceSum,
			VATSum:   vatSum,
			Slots:    assignment.Slots,
			Dropped:  assignment.Dropped,
			Unmapped: assignment.Unmapped,
		})
		result.Warnings = append(result.Warnings, assignment.Warnings...)
		result.Stats.OverflowItems += len(assignment.Dropped)

		if len(assignment.Dropped) > 0 {
			log.WithFields(logrus.Fields{
				"stage":      "slots",
				"receiver":   group.Key.Field(ColTaxNoGet),
				"date":       group.Key.Field(ColDate),
				"overflowed": len(assignment.Dropped),
			}).Warn("invoice has more than 4 items, extra items dropped")
		}
	}

	// =========================================================================
	// STEP 7: OUTPUT FORMATTER
	// =========================================================================

	result.Output = FormatInvoices(result.Invoices, e.rules)
	result.Stats.Invoices = len(result.Invoices)

	for _, w := range result.Warnings {
		log.WithFields(logrus.Fields{
			"row":    w.Row,
			"column": w.Column,
			"value":  w.Value,
		}).Warn(w.Reason)
	}

	if result.Empty() {
		log.Info("no invoice rows produced")
	}

	result.Stats.ProcessingTime = time.Since(startTime)
	log.WithFields(logrus.Fields{
		"invoices": result.Stats.Invoices,
		"warnings": len(result.Warnings),
		"overflow": result.Stats.OverflowItems,
	}).Debug("consolidation complete")

	return result, nil
}

// Consolidate runs the pipeline with default rules and no logging.
func Consolidate(in *types.Table) (*Result, error) {
	engine, err := New(Options{})
	if err != nil {
		return nil, err
	}
	return engine.Run(in)
}
