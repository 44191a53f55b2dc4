// Package metrics records counters for a single collection run and writes them in the
// node-exporter textfile format once the run is over.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hymnal_scraper"

// Page outcomes.
const (
	PageOK     = "ok"
	PageEmpty  = "empty"
	PageFailed = "failed"
)

// Recorder holds the run's collectors on a private registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration prometheus.Histogram
	pages           *prometheus.CounterVec
	hymns           *prometheus.CounterVec
	hymnals         *prometheus.CounterVec
}

// New registers the run collectors on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP requests issued, by response status (\"error\" for transport failures).",
		}, []string{"status"}),
		requestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Transport latency of each request, excluding pacing delay.",
			Buckets:   prometheus.DefBuckets,
		}),
		pages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Hymnal listing pages processed, by outcome.",
		}, []string{"outcome"}),
		hymns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hymns_collected_total",
			Help:      "Hymns collected, by hymnal code.",
		}, []string{"hymnal"}),
		hymnals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hymnals_total",
			Help:      "Hymnals processed, by outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveRequest records one finished request.
func (r *Recorder) ObserveRequest(status int, err error, elapsed time.Duration) {
	if r == nil {
		return
	}
	label := "error"
	if err == nil {
		label = strconv.Itoa(status)
	}
	r.requests.WithLabelValues(label).Inc()
	r.requestDuration.Observe(elapsed.Seconds())
}

// ObservePage records the outcome of one listing page.
func (r *Recorder) ObservePage(outcome string) {
	if r == nil {
		return
	}
	r.pages.WithLabelValues(outcome).Inc()
}

// ObserveHymnal records one finished hymnal collection.
func (r *Recorder) ObserveHymnal(code string, hymns int, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.hymnals.WithLabelValues("failed").Inc()
		return
	}
	r.hymnals.WithLabelValues("ok").Inc()
	r.hymns.WithLabelValues(code).Add(float64(hymns))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// WriteTextfile writes every collector to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
