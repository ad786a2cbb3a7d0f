// Package metrics records sizing outcomes in a private Prometheus registry.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Koson7970/wood-strength-prediction-model/internal/member"
	"github.com/Koson7970/wood-strength-prediction-model/internal/sizing"
)

var ratioBuckets = []float64{0.1, 0.25, 0.5, 0.75, 0.9, 1, 1.25, 1.5, 2}

// Recorder implements sizing.Observer
type Recorder struct {
	registry *prometheus.Registry

	runsTotal       prometheus.Counter
	membersSized    *prometheus.CounterVec
	membersFailed   *prometheus.CounterVec
	bucklingTotal   prometheus.Counter
	compositeUnits  prometheus.Counter
	maxRatio        prometheus.Histogram
	overstressed    prometheus.Counter
	runDuration     prometheus.Histogram
	lastRunUnixTime prometheus.Gauge
}

var _ sizing.Observer = (*Recorder)(nil)

// New creates a Recorder with its own registry. withRuntime adds the Go and
// process collectors, which the server exposes and the textfile export does
// not.
func New(withRuntime bool) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timbermatch_runs_total",
			Help: "Number of sizing runs.",
		}),
		membersSized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timbermatch_members_sized_total",
			Help: "Members that received an assignment, by force kind.",
		}, []string{"force"}),
		membersFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timbermatch_members_failed_total",
			Help: "Members that could not be sized, by reason.",
		}, []string{"reason"}),
		bucklingTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timbermatch_buckling_corrections_total",
			Help: "Compression members whose composite count was raised by the buckling check.",
		}),
		compositeUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timbermatch_composite_units_total",
			Help: "Timber pieces required across all sized members.",
		}),
		maxRatio: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "timbermatch_max_ratio",
			Help:    "Governing stress ratio of sized members.",
			Buckets: ratioBuckets,
		}),
		overstressed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timbermatch_overstressed_members_total",
			Help: "Sized members whose governing ratio exceeds 1.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "timbermatch_run_duration_seconds",
			Help:    "Time taken by a sizing run.",
			Buckets: prometheus.DefBuckets,
		}),
		lastRunUnixTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "timbermatch_last_run_timestamp_seconds",
			Help: "Unix time of the last completed run.",
		}),
	}
	r.registry.MustRegister(
		r.runsTotal,
		r.membersSized,
		r.membersFailed,
		r.bucklingTotal,
		r.compositeUnits,
		r.maxRatio,
		r.overstressed,
		r.runDuration,
		r.lastRunUnixTime,
	)
	if withRuntime {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return r
}

// Sized records one assigned member
func (r *Recorder) Sized(m *member.Member) {
	a := m.Assignment
	if a == nil {
		return
	}
	r.membersSized.WithLabelValues(m.Force.String()).Inc()
	r.compositeUnits.Add(float64(a.CompositeNum))
	r.maxRatio.Observe(a.MaxRatio)
	if a.MaxRatio > 1 {
		r.overstressed.Inc()
	}
	if a.Buckled() {
		r.bucklingTotal.Inc()
	}
}

// Failed records one member that could not be sized
func (r *Recorder) Failed(err *sizing.MemberError) {
	r.membersFailed.WithLabelValues(Reason(err)).Inc()
}

// ObserveRun records a finished run
func (r *Recorder) ObserveRun(start time.Time) {
	r.runsTotal.Inc()
	r.runDuration.Observe(time.Since(start).Seconds())
	r.lastRunUnixTime.SetToCurrentTime()
}

// Reason maps a member error to a short label value
func Reason(err error) string {
	switch {
	case errors.Is(err, sizing.ErrDegenerateCapacity):
		return "degenerate_capacity"
	case errors.Is(err, sizing.ErrNonFinite):
		return "non_finite"
	case errors.Is(err, sizing.ErrInvalidCount):
		return "invalid_count"
	}
	return "other"
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the registry for the node exporter textfile collector
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
