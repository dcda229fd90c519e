// Package metrics records what a report run did as Prometheus metrics.
//
// A run is one-shot, so nothing is served over HTTP. The registry is
// written to a node_exporter textfile at the end of the run when a path is
// configured.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Stage names used as the "stage" label.
const (
	StageQuery     = "query"
	StageTransform = "transform"
	StageRender    = "render"
)

// Run outcomes used as the "outcome" label.
const (
	OutcomeRendered = "rendered"
	OutcomeNoData   = "no_data"
	OutcomeFailed   = "failed"
)

// Recorder owns a private registry with the run metrics.
type Recorder struct {
	reg           *prometheus.Registry
	records       prometheus.Gauge
	markers       prometheus.Gauge
	stageDuration *prometheus.GaugeVec
	runs          *prometheus.CounterVec
	lastRun       prometheus.Gauge
}

// New creates a Recorder with all metrics registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		reg: reg,
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nicemap_records",
			Help: "Ranked records returned by the last query.",
		}),
		markers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nicemap_markers",
			Help: "Markers placed on the last rendered map.",
		}),
		stageDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "nicemap_stage_duration_seconds",
				Help: "Wall time spent in each pipeline stage during the last run.",
			},
			[]string{"stage"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nicemap_runs_total",
				Help: "Report runs by outcome.",
			},
			[]string{"outcome"},
		),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nicemap_last_run_timestamp_seconds",
			Help: "Unix time at which the last run finished.",
		}),
	}

	reg.MustRegister(r.records, r.markers, r.stageDuration, r.runs, r.lastRun)
	return r
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// ObserveStage records how long a stage took.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Set(d.Seconds())
}

// SetRecords records the number of ranked records.
func (r *Recorder) SetRecords(n int) { r.records.Set(float64(n)) }

// SetMarkers records the number of markers placed on the map.
func (r *Recorder) SetMarkers(n int) { r.markers.Set(float64(n)) }

// RunFinished counts a run with the given outcome, finished at t.
func (r *Recorder) RunFinished(outcome string, t time.Time) {
	r.runs.WithLabelValues(outcome).Inc()
	r.lastRun.Set(float64(t.Unix()))
}

// WriteTextfile writes every metric to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
