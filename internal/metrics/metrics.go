// Package metrics records build outcomes as Prometheus metrics.
//
// A CLI invocation is short-lived, so metrics are not served over HTTP; the
// recorder writes them in the node_exporter textfile format instead.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Build outcomes used as the outcome label.
const (
	OutcomeSuccess            = "success"
	OutcomeConfigurationError = "configuration_error"
	OutcomeNotFound           = "not_found"
	OutcomeUnsupportedMixing  = "unsupported_mixing"
	OutcomeError              = "error"
)

// Recorder bundles the build metrics. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	gatherer prometheus.Gatherer

	Builds            *prometheus.CounterVec
	DocumentsRendered *prometheus.CounterVec
	MixingPairs       prometheus.Counter
	BuildDuration     prometheus.Histogram
}

// NewRecorder registers the build metrics against reg. A nil reg gets a
// fresh private registry.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	builds := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ffbuilder_builds_total",
		Help: "Total number of builds, labeled by outcome.",
	}, []string{"outcome"})
	if err := register(reg, builds, "ffbuilder_builds_total"); err != nil {
		return nil, err
	}

	docs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ffbuilder_documents_rendered_total",
		Help: "Total number of rendered documents, labeled by document file name.",
	}, []string{"document"})
	if err := register(reg, docs, "ffbuilder_documents_rendered_total"); err != nil {
		return nil, err
	}

	pairs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ffbuilder_mixing_pairs_total",
		Help: "Total number of mixed interaction pairs written to documents.",
	})
	if err := register(reg, pairs, "ffbuilder_mixing_pairs_total"); err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ffbuilder_build_duration_seconds",
		Help:    "Build latency in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
	})
	if err := register(reg, duration, "ffbuilder_build_duration_seconds"); err != nil {
		return nil, err
	}

	return &Recorder{
		gatherer:          gatherer,
		Builds:            builds,
		DocumentsRendered: docs,
		MixingPairs:       pairs,
		BuildDuration:     duration,
	}, nil
}

// ObserveBuild records one finished build.
func (r *Recorder) ObserveBuild(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.Builds.WithLabelValues(outcome).Inc()
	r.BuildDuration.Observe(elapsed.Seconds())
}

// DocumentRendered counts one rendered document.
func (r *Recorder) DocumentRendered(document string) {
	if r == nil {
		return
	}
	r.DocumentsRendered.WithLabelValues(document).Inc()
}

// AddMixingPairs counts pairs written to a mixing or override document.
func (r *Recorder) AddMixingPairs(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.MixingPairs.Add(float64(n))
}

// Gatherer exposes the registry the recorder writes to.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.gatherer
}

// WriteTextfile writes every gathered metric to path in the text exposition
// format. The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return fmt.Errorf("metrics: nil recorder")
	}
	if err := prometheus.WriteToTextfile(path, r.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func register(reg prometheus.Registerer, c prometheus.Collector, name string) error {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return fmt.Errorf("collector %s already registered", name)
		}
		return err
	}
	return nil
}
