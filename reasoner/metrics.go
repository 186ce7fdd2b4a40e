package reasoner

import "github.com/prometheus/client_golang/prometheus"

// metricsSet holds prometheus counters for cache lookups, kept alongside
// (not behind) reasoner.CacheStats, which reads classify.Cache's own
// counters. They are registered against a private registry per
// Reasoner instance (SPEC_FULL.md §12)
// rather than prometheus.DefaultRegisterer, so more than one Reasoner can
// coexist in a process without a duplicate-metric panic — grounded in
// 2lar-b2/backend's per-service prometheus.Registry.
type metricsSet struct {
	registry  *prometheus.Registry
	cacheOps  *prometheus.CounterVec
	cacheSize prometheus.Gauge
}

func newMetrics() *metricsSet {
	reg := prometheus.NewRegistry()
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dlreasoner_cache_operations_total",
		Help: "Classification cache lookups, labelled by query kind and hit/miss.",
	}, []string{"kind", "result"})
	size := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dlreasoner_cache_entries",
		Help: "Current number of memoised subsumption entries.",
	})
	reg.MustRegister(ops, size)
	return &metricsSet{registry: reg, cacheOps: ops, cacheSize: size}
}

// recordCacheLookup classifies one IsSubClassOf call as a hit or miss by
// comparing the cache's hit counter before and after the call — the
// Cache type itself only tracks aggregate hits/misses, so the delta
// tells a hit from a miss; the kind label is whatever the caller passes
// (IsSubClassOf passes "subclass"; no other caller records a lookup).
func (m *metricsSet) recordCacheLookup(kind string, hitsBefore, hitsAfter, entries int) {
	if hitsAfter > hitsBefore {
		m.cacheOps.WithLabelValues(kind, "hit").Inc()
	} else {
		m.cacheOps.WithLabelValues(kind, "miss").Inc()
	}
	m.cacheSize.Set(float64(entries))
}

// Registry exposes the per-instance prometheus.Registry so a caller can
// mount it behind its own /metrics handler (the CLI does not mount it;
// the reasoner package never starts an HTTP server, per spec.md's
// "external collaborator" boundary).
func (m *metricsSet) Registry() *prometheus.Registry { return m.registry }
