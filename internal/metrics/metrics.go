// Package metrics exposes Prometheus instruments for import and export runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Import outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomePartial  = "partial"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	importRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conventory",
		Name:      "import_runs_total",
		Help:      "Import runs by mode and outcome.",
	}, []string{"mode", "outcome"})

	importDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "conventory",
		Name:      "import_duration_seconds",
		Help:      "Wall time of import runs that reached the store.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"mode"})

	importRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conventory",
		Name:      "import_rows_total",
		Help:      "Rows seen by import runs, by result.",
	}, []string{"result"})

	entitiesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conventory",
		Name:      "entities_created_total",
		Help:      "Categories, locations and items created by committed imports.",
	}, []string{"kind"})

	activeImports = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "conventory",
		Name:      "imports_active",
		Help:      "Import runs currently holding a limiter slot.",
	})

	exports = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "conventory",
		Name:      "exports_total",
		Help:      "Completed CSV exports.",
	})
)

// ImportRun summarizes one finished run for RecordImport.
type ImportRun struct {
	ValidateOnly    bool
	Outcome         string
	Duration        time.Duration
	RowsOK          int
	RowErrors       int
	CategoriesAdded int
	LocationsAdded  int
	ItemsAdded      int
}

// RecordImport records a finished or rejected run. Created entities are only
// counted for committed runs.
func RecordImport(run ImportRun) {
	mode := "commit"
	if run.ValidateOnly {
		mode = "validate"
	}
	importRuns.WithLabelValues(mode, run.Outcome).Inc()
	if run.Outcome == OutcomeRejected {
		return
	}

	importDuration.WithLabelValues(mode).Observe(run.Duration.Seconds())
	importRows.WithLabelValues("ok").Add(float64(run.RowsOK))
	importRows.WithLabelValues("error").Add(float64(run.RowErrors))

	if !run.ValidateOnly {
		entitiesCreated.WithLabelValues("category").Add(float64(run.CategoriesAdded))
		entitiesCreated.WithLabelValues("location").Add(float64(run.LocationsAdded))
		entitiesCreated.WithLabelValues("item").Add(float64(run.ItemsAdded))
	}
}

// ImportStarted and ImportFinished track the active-run gauge.
func ImportStarted()  { activeImports.Inc() }
func ImportFinished() { activeImports.Dec() }

// RecordExport counts a completed export.
func RecordExport() { exports.Inc() }

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
