package service

import (
	"context"
	"errors"
	"time"

	"solar_eda/internal/analysis"
	"solar_eda/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

// Run outcome label values.
const (
	outcomeOK             = "ok"
	outcomeNotFound       = "not_found"
	outcomeMalformed      = "malformed_input"
	outcomeSchemaMismatch = "schema_mismatch"
	outcomeCanceled       = "canceled"
	outcomeError          = "error"
)

// Metrics holds the pipeline collectors. A nil *Metrics records nothing.
type Metrics struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	rowsIn      prometheus.Counter
	rowsDropped prometheus.Counter
	rowsFlagged prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solar_eda",
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by data source and outcome.",
		}, []string{"source", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "solar_eda",
			Name:      "pipeline_run_duration_seconds",
			Help:      "Wall time of a pipeline run.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"source"}),
		rowsIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_eda",
			Name:      "rows_loaded_total",
			Help:      "Rows read by successful runs.",
		}),
		rowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_eda",
			Name:      "rows_dropped_total",
			Help:      "Rows removed by the cleaner.",
		}),
		rowsFlagged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "solar_eda",
			Name:      "rows_flagged_total",
			Help:      "Rows kept but marked as outliers.",
		}),
	}
	reg.MustRegister(m.runs, m.duration, m.rowsIn, m.rowsDropped, m.rowsFlagged)
	return m
}

func (m *Metrics) observeRun(source string, d time.Duration, s models.CleanSummary, err error) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(source, outcomeOf(err)).Inc()
	m.duration.WithLabelValues(source).Observe(d.Seconds())
	if err != nil {
		return
	}
	m.rowsIn.Add(float64(s.RowsIn))
	m.rowsDropped.Add(float64(s.RowsDropped))
	m.rowsFlagged.Add(float64(s.RowsFlagged))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, analysis.ErrNotFound):
		return outcomeNotFound
	case errors.Is(err, analysis.ErrMalformedInput):
		return outcomeMalformed
	case errors.Is(err, analysis.ErrSchemaMismatch):
		return outcomeSchemaMismatch
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCanceled
	default:
		return outcomeError
	}
}
