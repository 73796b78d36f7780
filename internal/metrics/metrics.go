// Package metrics records per-run consolidation counters and exports them in
// the prometheus text format for a node-exporter textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ginjaninja78/invoice-consolidator/internal/consolidator"
)

const (
	metricPrefix = "invoice_consolidator_"

	resultSuccess = "success"
	resultError   = "error"

	reasonCompanyInfo  = "company_info"
	reasonArtifact     = "artifact"
	reasonMissingPrice = "missing_price"
	reasonInvalidPrice = "invalid_price"
	reasonNonPositive  = "non_positive"
)

// Recorder holds the collectors of one process on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	files          *prometheus.CounterVec
	rowsRead       prometheus.Counter
	rowsFiltered   *prometheus.CounterVec
	parseWarnings  prometheus.Counter
	overrides      prometheus.Counter
	unmapped       prometheus.Counter
	overflow       prometheus.Counter
	invoices       prometheus.Counter
	runDuration    prometheus.Histogram
	lastRunSeconds prometheus.Gauge
}

// NewRecorder registers the collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "files_total",
				Help: "Input files processed by result",
			},
			[]string{"result"},
		),
		rowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "rows_read_total",
			Help: "Export rows read",
		}),
		rowsFiltered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "rows_filtered_total",
				Help: "Export rows removed by the row filter, by reason",
			},
			[]string{"reason"},
		),
		parseWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "parse_warnings_total",
			Help: "Numeric cells that failed to parse",
		}),
		overrides: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "rent_overrides_total",
			Help: "Line items forced to rent by receiver tax-ID",
		}),
		unmapped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "unmapped_items_total",
			Help: "Line items with an unknown item label",
		}),
		overflow: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "overflow_items_total",
			Help: "Mapped line items dropped beyond the fourth slot",
		}),
		invoices: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "invoices_total",
			Help: "Consolidated invoice rows produced",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metricPrefix + "run_duration_seconds",
			Help:    "Consolidation time per input file",
			Buckets: prometheus.DefBuckets,
		}),
		lastRunSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "last_run_timestamp_seconds",
			Help: "Unix time of the last completed run",
		}),
	}

	r.registry.MustRegister(
		r.files, r.rowsRead, r.rowsFiltered, r.parseWarnings, r.overrides,
		r.unmapped, r.overflow, r.invoices, r.runDuration, r.lastRunSeconds,
	)
	return r
}

// ObserveResult records the counters of one successful run.
func (r *Recorder) ObserveResult(res *consolidator.Result) {
	if res == nil {
		return
	}
	f := res.Stats.Filter

	r.files.WithLabelValues(resultSuccess).Inc()
	r.rowsRead.Add(float64(f.RowsRead))
	r.rowsFiltered.WithLabelValues(reasonCompanyInfo).Add(float64(f.CompanyInfoRows))
	r.rowsFiltered.WithLabelValues(reasonArtifact).Add(float64(f.ArtifactRows))
	r.rowsFiltered.WithLabelValues(reasonMissingPrice).Add(float64(f.MissingPrice))
	r.rowsFiltered.WithLabelValues(reasonInvalidPrice).Add(float64(f.InvalidPrice))
	r.rowsFiltered.WithLabelValues(reasonNonPositive).Add(float64(f.NonPositive))
	r.parseWarnings.Add(float64(len(res.Warnings)))
	r.overrides.Add(float64(res.Stats.OverrideApplied))
	r.unmapped.Add(float64(res.Stats.UnmappedItems))
	r.overflow.Add(float64(res.Stats.OverflowItems))
	r.invoices.Add(float64(res.Stats.Invoices))
	r.runDuration.Observe(res.Stats.ProcessingTime.Seconds())
	r.lastRunSeconds.SetToCurrentTime()
}

// ObserveFailure counts a file that could not be consolidated.
func (r *Recorder) ObserveFailure() {
	r.files.WithLabelValues(resultError).Inc()
}

// WriteTextfile writes all metrics to path, creating parent directories.
func (r *Recorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
