// Package reasoner is the L-top facade of spec.md §2: the five
// operations (is_consistent, is_satisfiable, is_subclass_of,
// instances_of, classify) wired over tableau, normalize, and classify,
// plus the ambient concerns SPEC_FULL.md §11/§12 add — zap logging,
// otel tracing, prometheus metrics, YAML configuration with fsnotify
// hot-reload, and errgroup-bounded parallel classification.
package reasoner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nodeadmin/dlreasoner/classify"
	"github.com/nodeadmin/dlreasoner/normalize"
	"github.com/nodeadmin/dlreasoner/ontology"
	"github.com/nodeadmin/dlreasoner/rerr"
	"github.com/nodeadmin/dlreasoner/tableau"
)

// Reasoner is the top-level entry point a caller constructs once per
// ontology and reuses across queries (spec.md §5: the cache and its
// Saturate closure are shared state; only the tableau graph per query is
// thrown away). It is safe for concurrent use — classify.Cache guards
// its own state, and every query builds its own tableau.Graph/Engine.
type Reasoner struct {
	ont *ontology.Ontology

	cfgMu sync.RWMutex
	cfg   Config

	cache   *classify.Cache
	log     *zap.SugaredLogger
	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *metricsSet
	watcher *fsnotify.Watcher
}

// New builds a Reasoner over o with cfg. Config.DebugTrace selects
// zap.NewDevelopment (verbose, human-readable, includes the tableau's
// clash trace lines) over zap.NewProduction (SPEC_FULL.md §11).
func New(o *ontology.Ontology, cfg Config) (*Reasoner, error) {
	logger, err := newZapLogger(cfg.DebugTrace)
	if err != nil {
		return nil, err
	}
	r := &Reasoner{
		ont:     o,
		cfg:     cfg,
		log:     logger.Sugar(),
		logger:  logger,
		tracer:  otel.Tracer("github.com/nodeadmin/dlreasoner/reasoner"),
		metrics: newMetrics(),
	}
	r.cache = classify.NewCache(r.satisfiableRoot)
	if cfg.IncrementalCache {
		if err := r.cache.EnableELFastPath(o); err != nil {
			r.log.Warnw("EL fast path disabled", "error", err)
		}
	}
	return r, nil
}

func newZapLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// WatchConfigFile starts an fsnotify watch on path (SPEC_FULL.md §11):
// each reload swaps the Reasoner's Config snapshot, which the next
// top-level query reads — never mid-saturation, since every query copies
// Config once at entry via currentConfig.
func (r *Reasoner) WatchConfigFile(path string) error {
	w, err := WatchConfig(path, func(cfg Config) {
		r.cfgMu.Lock()
		r.cfg = cfg
		r.cfgMu.Unlock()
		r.log.Infow("config reloaded", "path", path)
	})
	if err != nil {
		return err
	}
	r.watcher = w
	return nil
}

func (r *Reasoner) currentConfig() Config {
	r.cfgMu.RLock()
	defer r.cfgMu.RUnlock()
	return r.cfg
}

// satisfiableRoot builds a fresh tableau from the ABox (via buildGraph),
// adds one extra root node labelled root in NNF and saturates it — the
// closure classify.Cache calls to decide A ⊓ ¬B unsatisfiability
// (spec.md §4.7). An inconsistent ABox therefore makes every root
// unsatisfiable.
func (r *Reasoner) satisfiableRoot(root ontology.ExprID) (bool, error) {
	cfg := r.currentConfig()
	g, e, _ := r.buildGraph(context.Background(), cfg)
	rootNode := g.AddNode(tableau.KindRootIndividual)
	g.AddLabel(rootNode, normalize.ToNNF(r.ont.Exprs, root), nil)
	consistent, limit := e.Saturate()
	if limit != tableau.LimitNone {
		return false, r.limitError(limit)
	}
	return consistent, nil
}

func (r *Reasoner) limitError(l tableau.LimitErrorKind) error {
	switch l {
	case tableau.LimitDepth:
		return rerr.ResourceExhausted.New("max_depth exceeded")
	case tableau.LimitTimeout:
		return rerr.ResourceExhausted.New("timeout_ms exceeded")
	case tableau.LimitCancelled:
		return rerr.Cancelled.New("query context cancelled")
	default:
		return nil
	}
}

// IsConsistent answers spec.md §6's is_consistent(): whether the full
// ontology (TBox + RBox + ABox) admits a model.
func (r *Reasoner) IsConsistent(ctx context.Context) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "is_consistent")
	defer span.End()

	cfg := r.currentConfig()
	g, e, _ := r.buildGraph(ctx, cfg)
	consistent, limit := e.Saturate()
	span.SetAttributes(attribute.Int("node_count", g.NodeCount()))
	if limit != tableau.LimitNone {
		err := r.limitError(limit)
		span.RecordError(err)
		return false, err
	}
	return consistent, nil
}

// IsSatisfiable answers is_satisfiable(C): whether some model has a
// non-empty extension for c, checked with satisfiableRoot against the
// TBox+RBox together with the ABox.
func (r *Reasoner) IsSatisfiable(ctx context.Context, c ontology.ExprID) (bool, error) {
	_, span := r.tracer.Start(ctx, "is_satisfiable")
	defer span.End()

	sat, err := r.satisfiableRoot(c)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	return sat, nil
}

// IsSubClassOf answers is_subclass_of(A, B), routed through the
// classification cache (spec.md §4.7).
func (r *Reasoner) IsSubClassOf(ctx context.Context, a, b ontology.ExprID) (bool, error) {
	_, span := r.tracer.Start(ctx, "is_subclass_of")
	defer span.End()

	before := r.cache.CacheStats()
	holds, err := r.cache.IsSubClassOf(r.ont.Exprs, a, b)
	after := r.cache.CacheStats()
	r.metrics.recordCacheLookup("subclass", before.Hits, after.Hits, after.Entries)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	return holds, nil
}

// InstancesOf answers instances_of(C): the set of individuals an
// ontology entails are members of C, decided per individual by checking
// that asserting ¬C on it makes the ontology inconsistent (spec.md §6).
// SameIndividual-merged names both appear in the result, since each is
// checked against the same canonical tableau node (scenario 2, spec.md
// §8 "Clark Kent / Superman").
func (r *Reasoner) InstancesOf(ctx context.Context, c ontology.ExprID) ([]ontology.Individual, error) {
	ctx, span := r.tracer.Start(ctx, "instances_of")
	defer span.End()

	cfg := r.currentConfig()
	notC := normalize.ToNNF(r.ont.Exprs, r.ont.Exprs.Not(c))
	var out []ontology.Individual
	for _, ind := range r.allIndividuals() {
		select {
		case <-ctx.Done():
			err := rerr.Cancelled.New("instances_of cancelled")
			span.RecordError(err)
			return nil, err
		default:
		}
		g, e, nominals := r.buildGraph(ctx, cfg)
		n, ok := nominals[ind]
		if !ok {
			continue
		}
		g.AddLabel(n, notC, nil)
		consistent, limit := e.Saturate()
		if limit != tableau.LimitNone {
			err := r.limitError(limit)
			span.RecordError(err)
			return nil, err
		}
		if !consistent {
			out = append(out, ind)
		}
	}
	return out, nil
}

// Classify answers classify(): the full named-class taxonomy, built by
// classify.BuildTaxonomy over this Reasoner's cache (spec.md §4.7).
func (r *Reasoner) Classify(ctx context.Context) (*classify.ClassifiedHierarchy, error) {
	_, span := r.tracer.Start(ctx, "classify")
	defer span.End()

	start := time.Now()
	tax, err := classify.BuildTaxonomy(r.ont, r.cache)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	stats := r.cache.CacheStats()
	hierarchy := tax.ToJSON(r.ont.Interner,
		classify.MakeStats(len(r.ont.NamedClasses()), 0, time.Since(start), stats))
	span.SetAttributes(attribute.Int("concept_count", len(hierarchy.Concepts)))
	return hierarchy, nil
}

// ClassifyParallel is classify() with its O(n²) pairwise subsumption
// checks fanned out across Config.MaxWorkers goroutines via
// golang.org/x/sync/errgroup, each against its own tableau built from the
// same read-only ontology (SPEC_FULL.md §5). The fan-out only warms
// classify.Cache concurrently; the cheap transitive-reduction pass that
// turns warmed subsumption edges into a taxonomy still runs once,
// serially, via Classify.
func (r *Reasoner) ClassifyParallel(ctx context.Context) (*classify.ClassifiedHierarchy, error) {
	ctx, span := r.tracer.Start(ctx, "classify")
	defer span.End()

	cfg := r.currentConfig()
	workers := cfg.MaxWorkers
	if workers < 1 {
		workers = 1
	}

	classes := r.ont.NamedClasses()
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(workers)
	for _, c := range classes {
		cExpr := r.ont.Exprs.Class(c)
		for _, s := range classes {
			if s == c {
				continue
			}
			sExpr := r.ont.Exprs.Class(s)
			grp.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				_, err := r.cache.IsSubClassOf(r.ont.Exprs, cExpr, sExpr)
				return err
			})
		}
	}
	if err := grp.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return r.Classify(ctx)
}

// ClearCaches discards every memoised subsumption result (spec.md §6
// clear_caches()) and, if Config.IncrementalCache is set, immediately
// rebuilds the EL fast path so the next query isn't penalised by a cold
// cache on an EL++-valid ontology.
func (r *Reasoner) ClearCaches() error {
	r.cache.Clear()
	if r.currentConfig().IncrementalCache {
		return r.cache.EnableELFastPath(r.ont)
	}
	return nil
}

// CacheStats mirrors spec.md §6's cache_stats() → { hits, misses, size }.
type CacheStats struct {
	Hits, Misses, Size int
}

// CacheStats reports the classification cache's current counters.
func (r *Reasoner) CacheStats() CacheStats {
	s := r.cache.CacheStats()
	return CacheStats{Hits: s.Hits, Misses: s.Misses, Size: s.Entries}
}

// MetricsRegistry returns the per-instance prometheus.Registry holding
// the cache lookup metrics (CacheStats reads the cache's own counters),
// for a caller that wants to mount its own /metrics handler.
func (r *Reasoner) MetricsRegistry() prometheus.Gatherer { return r.metrics.registry }

// Close releases this Reasoner's resources: stops any fsnotify watch
// started by WatchConfigFile and flushes the zap logger.
func (r *Reasoner) Close() error {
	if r.watcher != nil {
		if err := r.watcher.Close(); err != nil {
			return fmt.Errorf("reasoner: closing config watcher: %w", err)
		}
	}
	_ = r.logger.Sync()
	return nil
}
