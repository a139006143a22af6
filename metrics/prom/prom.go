package prom

import (
	"github.com/kvengine/arccache/cache"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	ghostHits prometheus.Counter
	evicts    *prometheus.CounterVec
	usage     prometheus.Gauge
	capacity  prometheus.Gauge
	lastID    prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Shard lookup hits (an AdaptiveCache's ghost side counts too)",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Shard lookup misses (an AdaptiveCache's ghost side counts too)",
			ConstLabels: constLabels,
		}),
		ghostHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "ghost_hits_total",
			Help:        "Lookups that missed the real side but hit the ghost side",
			ConstLabels: constLabels,
		}),
		evicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "evictions_total",
				Help:        "Cache evictions by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		usage: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "shard_usage",
			Help:        "Last observed shard usage in charge units",
			ConstLabels: constLabels,
		}),
		capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "shard_capacity",
			Help:        "Last observed shard capacity in charge units",
			ConstLabels: constLabels,
		}),
		lastID: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "last_id",
			Help:        "Last id handed out by NewID",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.ghostHits, a.evicts, a.usage, a.capacity, a.lastID)
	return a
}

// Hit implements cache.Metrics.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss implements cache.Metrics.
func (a *Adapter) Miss() { a.misses.Inc() }

// GhostHit implements cache.Metrics. The evicted charge itself isn't a
// useful Prometheus sample on its own (it's one shard's one entry), so only
// the counter advances; AdaptiveCache/PointCache callers that want the
// charge-weighted ratio read TotalRealCharge/TotalGhostCharge directly.
func (a *Adapter) GhostHit(charge int) { a.ghostHits.Inc() }

// Evict implements cache.Metrics, labeling by reason.
func (a *Adapter) Evict(r cache.EvictReason) {
	a.evicts.WithLabelValues(reason(r)).Inc()
}

// Size implements cache.Metrics. Since every shard reports its own usage
// and capacity independently, these gauges reflect the most recently
// reporting shard rather than a cache-wide total; a collector that wants a
// precise total should poll ShardedCache.TotalCharge/GetCapacity instead.
func (a *Adapter) Size(usage, capacity int64) {
	a.usage.Set(float64(usage))
	a.capacity.Set(float64(capacity))
}

// NewID implements cache.Metrics.
func (a *Adapter) NewID(id uint64) { a.lastID.Set(float64(id)) }

// reason maps EvictReason to a stable label value.
func reason(r cache.EvictReason) string {
	switch r {
	case cache.EvictCapacity:
		return "capacity"
	case cache.EvictErase:
		return "erase"
	case cache.EvictPrune:
		return "prune"
	default:
		return "unknown"
	}
}

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)
