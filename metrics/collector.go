// Package metrics exposes discovery and prover counters to Prometheus.
//
// Collectors live in a private registry so several engines in one process
// (or one test binary) never collide on the default registerer.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrNoNamespace is returned by New for an empty namespace.
var ErrNoNamespace = errors.New("metrics: namespace is required")

// Config names the metric family and toggles runtime collectors.
type Config struct {
	Namespace string
	// Runtime adds the Go and process collectors.
	Runtime bool
	// Buckets for latency histograms, in seconds.
	Buckets []float64
}

// Collector records engine and prover activity.
type Collector struct {
	registry *prometheus.Registry

	verdicts     *prometheus.CounterVec
	proofLatency prometheus.Histogram
	cache        *prometheus.CounterVec
	runs         *prometheus.CounterVec
	runLatency   prometheus.Histogram
	restarts     prometheus.Counter
	statements   prometheus.Gauge
}

// New builds a Collector and registers its families.
func New(cfg Config) (*Collector, error) {
	if cfg.Namespace == "" {
		return nil, ErrNoNamespace
	}
	if cfg.Buckets == nil {
		cfg.Buckets = []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5}
	}
	reg := prometheus.NewRegistry()
	if cfg.Runtime {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	c := &Collector{
		registry: reg,
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: "prover", Name: "verdicts_total",
			Help: "Verified candidates by relation kind, verdict and method.",
		}, []string{"kind", "verdict", "method"}),
		proofLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace, Subsystem: "prover", Name: "proof_seconds",
			Help: "Latency of symbolic confirmations.", Buckets: cfg.Buckets,
		}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: "prover", Name: "cache_total",
			Help: "Verdict cache lookups by result (hit, miss, archive).",
		}, []string{"result"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: "engine", Name: "runs_total",
			Help: "Discover invocations by outcome.",
		}, []string{"outcome"}),
		runLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace, Subsystem: "engine", Name: "run_seconds",
			Help: "Latency of Discover invocations.", Buckets: cfg.Buckets,
		}),
		restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace, Subsystem: "engine", Name: "restarts_total",
			Help: "Discover restarts caused by construction edits.",
		}),
		statements: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace, Subsystem: "engine", Name: "statements",
			Help: "Statements in the latest report.",
		}),
	}
	reg.MustRegister(c.verdicts, c.proofLatency, c.cache, c.runs, c.runLatency, c.restarts, c.statements)

	return c, nil
}

// Registry returns the private registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Verdict counts one verified candidate.
func (c *Collector) Verdict(kind, verdict, method string) {
	c.verdicts.WithLabelValues(kind, verdict, method).Inc()
}

// ProofLatency observes one symbolic confirmation.
func (c *Collector) ProofLatency(d time.Duration) { c.proofLatency.Observe(d.Seconds()) }

// CacheHit counts a verdict served from memory.
func (c *Collector) CacheHit() { c.cache.WithLabelValues("hit").Inc() }

// CacheMiss counts a verdict that had to be computed.
func (c *Collector) CacheMiss() { c.cache.WithLabelValues("miss").Inc() }

// ArchiveHit counts a verdict served from the archive.
func (c *Collector) ArchiveHit() { c.cache.WithLabelValues("archive").Inc() }

// Run records one Discover invocation.
func (c *Collector) Run(outcome string, d time.Duration, statements int) {
	c.runs.WithLabelValues(outcome).Inc()
	c.runLatency.Observe(d.Seconds())
	if outcome == "ok" {
		c.statements.Set(float64(statements))
	}
}

// Restart counts one restart.
func (c *Collector) Restart() { c.restarts.Inc() }
