package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/invoice-consolidator/internal/consolidator"
)

func sampleResult() *consolidator.Result {
	return &consolidator.Result{
		Warnings: []consolidator.ParseWarning{{Row: 3, Column: "VAT", Value: "x", Reason: "not numeric"}},
		Stats: consolidator.Stats{
			Filter: consolidator.FilterStats{
				RowsRead:     10,
				ArtifactRows: 2,
				NonPositive:  1,
				Kept:         7,
			},
			OverrideApplied: 1,
			OverflowItems:   2,
			Invoices:        3,
			ProcessingTime:  15 * time.Millisecond,
		},
	}
}

func TestRecorder_ObserveResult(t *testing.T) {
	r := NewRecorder()
	r.ObserveResult(sampleResult())
	r.ObserveResult(sampleResult())
	r.ObserveFailure()

	assert.Equal(t, 20.0, testutil.ToFloat64(r.rowsRead))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.rowsFiltered.WithLabelValues(reasonArtifact)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.parseWarnings))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.overflow))
	assert.Equal(t, 6.0, testutil.ToFloat64(r.invoices))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.files.WithLabelValues(resultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.files.WithLabelValues(resultError)))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveResult(sampleResult())

	path := filepath.Join(t.TempDir(), "metrics", "consolidator.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "invoice_consolidator_invoices_total 3")
	assert.Contains(t, string(data), `invoice_consolidator_rows_filtered_total{reason="artifact"} 2`)
}

func TestRecorder_NilResult(t *testing.T) {
	r := NewRecorder()
	r.ObserveResult(nil)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.invoices))
}
