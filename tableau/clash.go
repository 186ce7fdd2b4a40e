package tableau

import (
	"fmt"

	"github.com/nodeadmin/dlreasoner/normalize"
	"github.com/nodeadmin/dlreasoner/ontology"
)

// Clash records a detected contradiction and the ChoiceIds it depends on
// (spec.md §4.3 "Clash detection").
type Clash struct {
	Reason string
	Deps   ChoiceSet
}

// detectClash scans every canonical node for ⊥ in its label, {A,¬A} on a
// named class or singleton nominal, a self-edge on an irreflexive role,
// and an asymmetric role in both directions. A ≤n overflow and a merge
// of nodes marked different are reported by the rules that attempt
// them, not here. It returns the first clash found; callers loop
// (detect, backjump, re-saturate, detect again) until none remain.
func detectClash(g *Graph, roles *normalize.RoleHierarchy) (Clash, bool) {
	t := g.Exprs
	seenRoots := map[NodeId]bool{}

	for _, n := range g.allCanonical() {
		if seenRoots[n] {
			continue
		}
		seenRoots[n] = true
		labels := g.Labels(n)

		if deps, ok := labels[ontology.Bottom]; ok {
			return Clash{Reason: "⊥ in label", Deps: deps}, true
		}
		for c, deps := range labels {
			e := t.Get(c)
			// Atomic concepts (named classes and singleton nominals {v})
			// clash against their own negation the same way: a node
			// can't be both A and ¬A, nor both {v} and ¬{v} — the latter
			// is how ¬HasValue(r,v)'s ∀r.¬{v} rewrite (normalize.ToNNF)
			// ever contradicts an asserted r-edge to v's node.
			atomic := e.Kind == ontology.ExprClass || (e.Kind == ontology.ExprOneOf && len(e.Individuals) == 1)
			if atomic {
				notC := t.Not(c)
				if otherDeps, ok := labels[notC]; ok {
					return Clash{Reason: fmt.Sprintf("{A,¬A} clash on node %d", n), Deps: deps.union(otherDeps)}, true
				}
			}
		}

		// Irreflexive role with a self-edge; asymmetric role with both
		// directions present.
		for _, e := range g.EdgesFrom(n) {
			if roles.IsIrreflexive(e.Role) && g.Canonical(e.To) == n {
				return Clash{Reason: "irreflexive self-edge", Deps: e.Deps}, true
			}
			if roles.IsAsymmetric(e.Role) && g.HasEdge(e.To, e.Role, n) {
				var back ChoiceSet
				for _, e2 := range g.EdgesFrom(e.To) {
					if e2.Role == e.Role && g.Canonical(e2.To) == n {
						back = e2.Deps
						break
					}
				}
				return Clash{Reason: "asymmetric role in both directions", Deps: e.Deps.union(back)}, true
			}
		}
	}
	return Clash{}, false
}

// allCanonical returns the current set of distinct canonical node ids.
func (g *Graph) allCanonical() []NodeId {
	seen := map[NodeId]bool{}
	var out []NodeId
	for i := 0; i < len(g.nodes); i++ {
		c := g.Canonical(NodeId(i))
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
