// Package metrics exposes backup engine counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pwarnimont/filmdb2/internal/backup"
)

// Recorder implements backup.Observer on top of Prometheus collectors.
type Recorder struct {
	imports        *prometheus.CounterVec
	records        *prometheus.CounterVec
	importDuration prometheus.Histogram
	exports        *prometheus.CounterVec
}

var _ backup.Observer = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them with reg.  Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "filmdb_backup_imports_total",
			Help: "Backup imports by result (ok or the failure kind).",
		}, []string{"result"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "filmdb_backup_records_total",
			Help: "Records written by committed imports.",
		}, []string{"entity", "op"}),
		importDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "filmdb_backup_import_duration_seconds",
			Help:    "Wall time of backup imports, failed ones included.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "filmdb_backup_exports_total",
			Help: "Backup exports by result.",
		}, []string{"result"}),
	}
	for _, c := range []prometheus.Collector{r.imports, r.records, r.importDuration, r.exports} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ImportFinished records one import.  Record counts are only added for
// committed imports.
func (r *Recorder) ImportFinished(s backup.Summary, elapsed time.Duration, err error) {
	r.imports.WithLabelValues(backup.Kind(err)).Inc()
	r.importDuration.Observe(elapsed.Seconds())
	if err != nil {
		return
	}
	add := func(entity, op string, n int) {
		if n > 0 {
			r.records.WithLabelValues(entity, op).Add(float64(n))
		}
	}
	add("film_roll", "created", s.FilmRollsCreated)
	add("film_roll", "updated", s.FilmRollsUpdated)
	add("camera", "created", s.CamerasCreated)
	add("camera", "updated", s.CamerasUpdated)
	add("print", "created", s.PrintsCreated)
	add("print", "updated", s.PrintsUpdated)
}

// ExportFinished records one export.
func (r *Recorder) ExportFinished(_ time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.exports.WithLabelValues(result).Inc()
}
