// Package prometheus records pipeline metrics in a Prometheus registry.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
)

// Namespace prefixes every metric name.
const Namespace = "clauseguard"

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

// Options configures the recorder.
type Options struct {
	// RuntimeMetrics adds the Go runtime and process collectors.
	RuntimeMetrics bool

	// Buckets overrides the analysis duration histogram buckets.
	Buckets []float64
}

// Recorder implements driven.MetricsRecorder with its own registry.
type Recorder struct {
	registry    *prometheus.Registry
	analyses    *prometheus.CounterVec
	clauses     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	fallbacks   *prometheus.CounterVec
	extractions *prometheus.CounterVec
	cache       *prometheus.CounterVec
}

// New creates a recorder and registers its collectors.
func New(opts Options) *Recorder {
	if opts.Buckets == nil {
		opts.Buckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "analyses_total",
			Help:      "Completed contract analyses by language and segmentation stage.",
		}, []string{"language", "stage"}),
		clauses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "clauses_total",
			Help:      "Scored clauses by risk tier.",
		}, []string{"tier"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time to analyse one contract.",
			Buckets:   opts.Buckets,
		}, []string{"stage"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "scorer_fallbacks_total",
			Help:      "Scorer failures that fell back to the next scorer.",
		}, []string{"scorer"}),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "extractions_total",
			Help:      "Text extraction attempts by format and result.",
		}, []string{"format", "result"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by outcome.",
		}, []string{"outcome"}),
	}

	r.registry.MustRegister(r.analyses, r.clauses, r.duration, r.fallbacks, r.extractions, r.cache)
	if opts.RuntimeMetrics {
		r.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: Namespace}),
		)
	}
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveAnalysis records one completed analysis.
func (r *Recorder) ObserveAnalysis(lang domain.Language, stage string, counts domain.TierCounts, elapsed time.Duration) {
	r.analyses.WithLabelValues(string(lang), stage).Inc()
	r.clauses.WithLabelValues(string(domain.TierHigh)).Add(float64(counts.High))
	r.clauses.WithLabelValues(string(domain.TierMedium)).Add(float64(counts.Medium))
	r.clauses.WithLabelValues(string(domain.TierLow)).Add(float64(counts.Low))
	r.duration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// ObserveFallback records a scorer failure.
func (r *Recorder) ObserveFallback(scorer string) {
	r.fallbacks.WithLabelValues(scorer).Inc()
}

// ObserveExtraction records an extraction attempt.
func (r *Recorder) ObserveExtraction(format string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	if format == "" {
		format = "unknown"
	}
	r.extractions.WithLabelValues(format, result).Inc()
}

// ObserveCache records a cache lookup.
func (r *Recorder) ObserveCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cache.WithLabelValues(outcome).Inc()
}
