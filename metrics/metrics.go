// Package metrics exposes a run's progress as Prometheus metrics.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/teranos/hourgen/emit"
	"github.com/teranos/hourgen/record"
)

const namespace = "hourgen"

var allStates = []emit.State{
	emit.StateInit,
	emit.StateResolvingTarget,
	emit.StateWriterOpen,
	emit.StateEmitting,
	emit.StateClosing,
	emit.StateDone,
	emit.StateAborted,
}

// Recorder implements emit.Observer and collects into its own registry.
type Recorder struct {
	Registry *prometheus.Registry

	records prometheus.Counter
	waits   prometheus.Histogram
	state   *prometheus.GaugeVec
	last    prometheus.Gauge

	mu      sync.Mutex
	current emit.State
	written int
}

// NewRecorder creates a recorder with Go runtime and process collectors
// registered alongside the run metrics.
func NewRecorder() *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_written_total",
			Help:      "Records appended to the output file.",
		}),
		waits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pacing_wait_seconds",
			Help:      "Time spent waiting before each record.",
			Buckets:   []float64{0.001, 0.01, 0.1, 1, 10, 30, 36, 40, 60},
		}),
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_state",
			Help:      "1 for the run's current state, 0 otherwise.",
		}, []string{"state"}),
		last: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_record_timestamp_seconds",
			Help:      "Unix time the most recent record was appended.",
		}),
	}

	r.Registry.MustRegister(
		r.records,
		r.waits,
		r.state,
		r.last,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, s := range allStates {
		r.state.WithLabelValues(s.String()).Set(0)
	}
	r.state.WithLabelValues(emit.StateInit.String()).Set(1)
	return r
}

func (r *Recorder) StateChanged(from, to emit.State) {
	r.mu.Lock()
	r.current = to
	r.mu.Unlock()

	r.state.WithLabelValues(from.String()).Set(0)
	r.state.WithLabelValues(to.String()).Set(1)
}

func (r *Recorder) RecordWritten(_ record.Record, waited time.Duration) {
	r.mu.Lock()
	r.written++
	r.mu.Unlock()

	r.records.Inc()
	r.waits.Observe(waited.Seconds())
	r.last.SetToCurrentTime()
}

// Snapshot returns the current state and the number of records written.
func (r *Recorder) Snapshot() (emit.State, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.written
}
