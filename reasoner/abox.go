package reasoner

import (
	"context"
	"time"

	"github.com/nodeadmin/dlreasoner/normalize"
	"github.com/nodeadmin/dlreasoner/ontology"
	"github.com/nodeadmin/dlreasoner/tableau"
)

// buildGraph normalizes o's TBox/RBox once and materializes every ABox
// assertion (ClassAssertion, ObjectPropertyAssertion, SameIndividual,
// DifferentIndividuals) into a fresh tableau graph, returning the
// individual→node map the engine needs for nominal merging (spec.md §3
// "equality reasoning over nominals"). Each call builds its own Graph and
// Engine so concurrent queries never share mutable tableau state — this
// is the concrete mechanism behind spec.md §5's "distinct read-only
// ontology snapshots may run in parallel".
func (r *Reasoner) buildGraph(ctx context.Context, cfg Config) (*tableau.Graph, *tableau.Engine, map[ontology.Individual]tableau.NodeId) {
	tb := normalize.Normalize(r.ont)
	g := tableau.NewGraph(r.ont.Exprs)
	nominals := make(map[ontology.Individual]tableau.NodeId)

	nodeFor := func(ind ontology.Individual) tableau.NodeId {
		if id, ok := nominals[ind]; ok {
			return id
		}
		id := g.AddNode(tableau.KindRootIndividual)
		n := g.Node(id)
		n.NominalOf = &ind
		nominals[ind] = id
		if !ind.IsAnon {
			// Every named individual labels its own node with its
			// singleton nominal {v}, so a ¬{v} filler the ∀ rule
			// propagates onto this exact node (the ¬HasValue(r,v)
			// rewrite in normalize.ToNNF) has something to clash
			// against.
			g.AddLabel(id, r.ont.Exprs.OneOf(ind.Named), nil)
		}
		return id
	}

	for _, ax := range r.ont.Axioms(ontology.AxClassAssertion) {
		g.AddLabel(nodeFor(ax.Individual), normalize.ToNNF(r.ont.Exprs, ax.ClassExpr), nil)
	}
	for _, ax := range r.ont.Axioms(ontology.AxObjectPropertyAssertion) {
		g.AddEdge(nodeFor(ax.Individual), ax.ObjectProp, nodeFor(ax.Individual2), nil)
	}
	for _, ax := range r.ont.Axioms(ontology.AxSameIndividual) {
		for i := 1; i < len(ax.Individuals); i++ {
			g.Merge(nodeFor(ax.Individuals[0]), nodeFor(ax.Individuals[i]))
		}
	}
	for _, ax := range r.ont.Axioms(ontology.AxDifferentIndividuals) {
		for i := 0; i < len(ax.Individuals); i++ {
			for j := i + 1; j < len(ax.Individuals); j++ {
				a := nodeFor(ax.Individuals[i])
				if !g.MarkDifferent(a, nodeFor(ax.Individuals[j])) {
					// Already merged by a SameIndividual: same ∧ different
					// is a clash, recorded as ⊥ on the merged node.
					g.AddLabel(a, ontology.Bottom, nil)
				}
			}
		}
	}

	e := tableau.NewEngine(g, tb, nominals, r.tableauConfig(ctx, cfg))
	return g, e, nominals
}

// tableauConfig translates reasoner.Config plus a query's context into a
// tableau.Config: the deadline and cancellation hook are derived fresh
// per call so a cooperative ctx.Done() is honored mid-saturation without
// the tableau package importing context itself (spec.md §5 "cooperative
// cancellation").
func (r *Reasoner) tableauConfig(ctx context.Context, cfg Config) tableau.Config {
	var deadline time.Time
	if cfg.TimeoutMS > 0 {
		deadline = time.Now().Add(time.Duration(cfg.TimeoutMS) * time.Millisecond)
	}
	return tableau.Config{
		MaxDepth: cfg.MaxDepth,
		Deadline: deadline,
		Cancelled: func() bool {
			select {
			case <-ctx.Done():
				return true
			default:
				return false
			}
		},
		Blocking:   tableau.BlockingStrategy(cfg.Blocking),
		DebugTrace: cfg.DebugTrace,
		OnTrace: func(msg string) {
			r.log.Debugw("tableau trace", "trace", msg)
		},
	}
}

// allIndividuals returns every individual named in the ABox, in
// first-seen order, for InstancesOf's brute-force per-individual
// consistency sweep.
func (r *Reasoner) allIndividuals() []ontology.Individual {
	seen := make(map[ontology.Individual]bool)
	var out []ontology.Individual
	add := func(ind ontology.Individual) {
		if !seen[ind] {
			seen[ind] = true
			out = append(out, ind)
		}
	}
	for _, ax := range r.ont.Axioms(ontology.AxClassAssertion) {
		add(ax.Individual)
	}
	for _, ax := range r.ont.Axioms(ontology.AxObjectPropertyAssertion) {
		add(ax.Individual)
		add(ax.Individual2)
	}
	for _, ax := range r.ont.Axioms(ontology.AxSameIndividual) {
		for _, ind := range ax.Individuals {
			add(ind)
		}
	}
	for _, ax := range r.ont.Axioms(ontology.AxDifferentIndividuals) {
		for _, ind := range ax.Individuals {
			add(ind)
		}
	}
	return out
}
