package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "corridor"

// Prometheus records pipeline and cache events as Prometheus metrics.
// It implements [PipelineHooks] and [CacheHooks] and is safe for concurrent use.
type Prometheus struct {
	registry *prometheus.Registry

	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	landscapeSize *prometheus.GaugeVec
	targets       prometheus.Counter
	reduction     *prometheus.HistogramVec
	verifyChecks  prometheus.Counter
	verifyError   prometheus.Gauge
	cacheEvents   *prometheus.CounterVec
	cacheBytes    prometheus.Counter
}

// NewPrometheus creates the metrics and registers them on reg. A nil reg is
// replaced by a fresh registry.
func NewPrometheus(reg *prometheus.Registry) *Prometheus {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	p := &Prometheus{
		registry: reg,
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Pipeline stages that ended with an error.",
		}, []string{"stage"}),
		landscapeSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "landscape_elements",
			Help:      "Size of the last loaded instance.",
		}, []string{"kind"}),
		targets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "targets_reduced_total",
			Help:      "Targets for which a reduced landscape was computed.",
		}),
		reduction: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reduction_ratio",
			Help:      "Share of elements kept by a per-target reduction.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}, []string{"kind"}),
		verifyChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verify_checks_total",
			Help:      "Flow comparisons between original and reduced instances.",
		}),
		verifyError: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "verify_max_abs_error",
			Help:      "Largest absolute flow difference seen by the last verification.",
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache lookups and writes.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}),
	}
	reg.MustRegister(
		p.stageDuration, p.stageErrors, p.landscapeSize, p.targets, p.reduction,
		p.verifyChecks, p.verifyError, p.cacheEvents, p.cacheBytes,
	)
	return p
}

// Registry returns the registry the metrics are registered on.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// WriteTextfile writes the current metrics in the text exposition format,
// for the node exporter's textfile collector.
func (p *Prometheus) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}

func (p *Prometheus) stage(name string, d time.Duration, err error) {
	p.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		p.stageErrors.WithLabelValues(name).Inc()
	}
}

func (p *Prometheus) OnLoad(_ context.Context, nodes, arcs, options int, d time.Duration, err error) {
	p.stage("load", d, err)
	if err != nil {
		return
	}
	p.landscapeSize.WithLabelValues("nodes").Set(float64(nodes))
	p.landscapeSize.WithLabelValues("arcs").Set(float64(arcs))
	p.landscapeSize.WithLabelValues("options").Set(float64(options))
}

func (p *Prometheus) OnEvaluate(_ context.Context, _ int, d time.Duration, err error) {
	p.stage("evaluate", d, err)
}

func (p *Prometheus) OnPrecomputeStart(context.Context, string, int) {}

func (p *Prometheus) OnTargetReduced(_ context.Context, _ string, nodesBefore, nodesAfter, arcsBefore, arcsAfter int) {
	p.targets.Inc()
	if nodesBefore > 0 {
		p.reduction.WithLabelValues("nodes").Observe(float64(nodesAfter) / float64(nodesBefore))
	}
	if arcsBefore > 0 {
		p.reduction.WithLabelValues("arcs").Observe(float64(arcsAfter) / float64(arcsBefore))
	}
}

func (p *Prometheus) OnPrecomputeComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	p.stage("precompute", d, err)
}

func (p *Prometheus) OnVerify(_ context.Context, checks int, maxError float64) {
	p.verifyChecks.Add(float64(checks))
	p.verifyError.Set(maxError)
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheEvents.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.Add(float64(size))
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
)
