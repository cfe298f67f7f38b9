// Package metrics defines the optional instrumentation hook the
// engine reports through while it walks an object database. Wiring a
// Recorder is entirely opt-in; Noop is the default so that embedders
// who don't care about metrics pay nothing for them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/reposcan/reposcan/store"
)

// Recorder observes the engine's progress while it runs. All methods
// must be safe to call concurrently from multiple worker goroutines.
type Recorder interface {
	// ObjectProcessed is called once a worker finishes accumulating a
	// single object of the given variant.
	ObjectProcessed(variant store.Variant)

	// QueueDepth reports the current length of the worker pool's work
	// queue immediately after an object ID was submitted to it.
	QueueDepth(depth int)
}

// Noop is a Recorder that discards every observation. It is the
// Analyzer's default.
type Noop struct{}

func (Noop) ObjectProcessed(store.Variant) {}
func (Noop) QueueDepth(int)                {}

// PrometheusRecorder records engine progress as Prometheus metrics:
// a counter of objects processed per category, and a gauge of the
// worker pool's queue depth.
type PrometheusRecorder struct {
	objectsProcessed *prometheus.CounterVec
	queueDepth       prometheus.Gauge
}

// NewPrometheusRecorder registers the engine's metrics against reg and
// returns a Recorder backed by them. Passing a fresh
// *prometheus.Registry (rather than prometheus.DefaultRegisterer) is
// recommended when more than one Analyzer may run in the same process,
// since re-registering the same metric names twice panics.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		objectsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reposcan",
			Subsystem: "engine",
			Name:      "objects_processed_total",
			Help:      "Number of objects accumulated, by category.",
		}, []string{"variant"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "reposcan",
			Subsystem: "engine",
			Name:      "work_queue_depth",
			Help:      "Number of pending items in the worker pool's work queue.",
		}),
	}
	reg.MustRegister(r.objectsProcessed, r.queueDepth)
	return r
}

func (r *PrometheusRecorder) ObjectProcessed(variant store.Variant) {
	r.objectsProcessed.WithLabelValues(variant.String()).Inc()
}

func (r *PrometheusRecorder) QueueDepth(depth int) {
	r.queueDepth.Set(float64(depth))
}
