package observability

import (
	"context"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const namespace = "notionmap"

// Prometheus implements every hook interface with Prometheus collectors.
type Prometheus struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	loadedNodes   prometheus.Gauge

	restarts  prometheus.Counter
	ticks     prometheus.Counter
	rests     prometheus.Counter
	bodies    prometheus.Gauge
	alpha     prometheus.Gauge
	energy    prometheus.Gauge
	settleLen prometheus.Histogram

	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	fetches     *prometheus.CounterVec
	fetchBytes  *prometheus.CounterVec
	fetchLength *prometheus.HistogramVec
}

// NewPrometheus registers the collectors with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "stage_duration_seconds",
			Help:    "Duration of load, layout and render stages.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"stage"}),
		stageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "stage_errors_total",
			Help: "Failed pipeline stages.",
		}, []string{"stage"}),
		loadedNodes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "dataset_nodes",
			Help: "Nodes in the most recently loaded dataset.",
		}),
		restarts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "simulation", Name: "restarts_total",
			Help: "Working set rebuilds.",
		}),
		ticks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "simulation", Name: "ticks_total",
			Help: "Active simulation ticks.",
		}),
		rests: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "simulation", Name: "rests_total",
			Help: "Times the simulation cooled to rest.",
		}),
		bodies: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "simulation", Name: "bodies",
			Help: "Bodies in the current working set.",
		}),
		alpha: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "simulation", Name: "alpha",
			Help: "Temperature after the last tick.",
		}),
		energy: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "simulation", Name: "energy",
			Help: "Kinetic energy after the last tick.",
		}),
		settleLen: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "simulation", Name: "settle_ticks",
			Help:    "Ticks from restart to rest.",
			Buckets: prometheus.LinearBuckets(25, 25, 12),
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "operations_total",
			Help: "Cache lookups and writes by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "written_bytes_total",
			Help: "Bytes written to the cache.",
		}, []string{"key_type"}),
		fetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "source", Name: "fetches_total",
			Help: "Remote dataset fetches by scheme and outcome.",
		}, []string{"scheme", "outcome"}),
		fetchBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "source", Name: "fetched_bytes_total",
			Help: "Bytes read from remote datasets.",
		}, []string{"scheme"}),
		fetchLength: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "source", Name: "fetch_duration_seconds",
			Help:    "Remote fetch latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"scheme"}),
	}
}

func (p *Prometheus) stage(stage string, d time.Duration, err error) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		p.stageErrors.WithLabelValues(stage).Inc()
	}
}

func (p *Prometheus) OnLoadStart(context.Context, string) {}

func (p *Prometheus) OnLoadComplete(_ context.Context, _ string, n int, d time.Duration, err error) {
	p.stage("load", d, err)
	if err == nil {
		p.loadedNodes.Set(float64(n))
	}
}

func (p *Prometheus) OnLayoutStart(context.Context, int) {}

func (p *Prometheus) OnLayoutComplete(_ context.Context, _ int, d time.Duration, err error) {
	p.stage("layout", d, err)
}

func (p *Prometheus) OnRenderStart(context.Context, []string) {}

func (p *Prometheus) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	p.stage("render", d, err)
}

func (p *Prometheus) OnRestart(_ context.Context, nodes, _ int) {
	p.restarts.Inc()
	p.bodies.Set(float64(nodes))
}

func (p *Prometheus) OnTick(_ context.Context, alpha, energy float64) {
	p.ticks.Inc()
	p.alpha.Set(alpha)
	p.energy.Set(energy)
}

func (p *Prometheus) OnRest(_ context.Context, ticks int) {
	p.rests.Inc()
	p.settleLen.Observe(float64(ticks))
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheOps.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnFetch(context.Context, string, string) {}

func (p *Prometheus) OnFetchComplete(_ context.Context, scheme, _ string, size int, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.fetches.WithLabelValues(scheme, outcome).Inc()
	p.fetchBytes.WithLabelValues(scheme).Add(float64(size))
	p.fetchLength.WithLabelValues(scheme).Observe(d.Seconds())
}

// WriteText writes every metric family gathered from g in the Prometheus
// text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// Totals sums the samples of every counter and gauge family gathered from
// g, keyed by family name.
func Totals(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(families))
	for _, mf := range families {
		switch mf.GetType() {
		case dto.MetricType_COUNTER:
			for _, m := range mf.GetMetric() {
				out[mf.GetName()] += m.GetCounter().GetValue()
			}
		case dto.MetricType_GAUGE:
			for _, m := range mf.GetMetric() {
				out[mf.GetName()] += m.GetGauge().GetValue()
			}
		}
	}
	return out, nil
}

var (
	_ PipelineHooks   = (*Prometheus)(nil)
	_ SimulationHooks = (*Prometheus)(nil)
	_ CacheHooks      = (*Prometheus)(nil)
	_ SourceHooks     = (*Prometheus)(nil)
)
