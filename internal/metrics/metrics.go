// Package metrics exposes Prometheus counters for import runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shop_import"

// Recorder collects import counters. A nil *Recorder discards everything.
type Recorder struct {
	rows     *prometheus.CounterVec
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
}

// New registers the import collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Imported rows by entity and outcome.",
		}, []string{"entity", "result"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Import runs by final status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of completed import runs.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		}),
	}
	reg.MustRegister(r.rows, r.runs, r.duration)
	return r
}

func (r *Recorder) Row(entity, result string) {
	if r == nil {
		return
	}
	r.rows.WithLabelValues(entity, result).Inc()
}

func (r *Recorder) Run(status string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(status).Inc()
	r.duration.Observe(elapsed.Seconds())
}
