package tableau

import "github.com/nodeadmin/dlreasoner/ontology"

// applyDeterministicPass runs one full scan of every canonical node,
// applying every deterministic rule in spec.md §4.3 (⊓, ∀ through the
// role hierarchy, ∃ and ≥n successor generation, {o} nominal merge,
// ∋v HasValue, HasSelf, and property-characteristic propagation). A
// deterministic merge failure (Functional/InverseFunctional/nominal)
// is reported immediately as a Clash rather than waiting for the next
// detectClash scan, since it is not itself a label contradiction.
//
// It returns as soon as it finds a clash or after one pass that made
// no further changes — callers loop until a pass is clash-free and
// quiescent before trying a non-deterministic step.
func (e *Engine) applyDeterministicPass() (changed bool, clash *Clash) {
	for {
		passChanged := false
		for _, n := range e.Graph.allCanonical() {
			// Blocking is re-checked against current labels on every pass:
			// a node's label is still incomplete when it is created, and a
			// block whose condition no longer holds is released.
			if node := e.Graph.Node(n); node.HasAncestor {
				if blocker, ok := e.Block.BlockerOf(n); ok {
					if _, still := e.Graph.checkBlock(e.Block, n, blocker); !still {
						e.Block.Release(n)
					}
				}
				if !e.Block.IsBlocked(n) {
					e.maybeBlock(node.Ancestor, n)
				}
			}
			if e.Block.IsBlocked(n) {
				continue
			}
			labels := e.Graph.Labels(n)
			for c, deps := range labels {
				ex := e.Graph.Exprs.Get(c)
				switch ex.Kind {
				case ontology.ExprAnd:
					for _, op := range ex.Operands {
						if e.Graph.AddLabel(n, op, deps) {
							passChanged = true
						}
					}
				case ontology.ExprAll:
					if c, ok := e.applyAll(n, ex, deps); ok {
						if c != nil {
							return false, c
						}
						passChanged = true
					}
				case ontology.ExprSome:
					if c, ok := e.applySome(n, ex, deps); ok {
						if c != nil {
							return false, c
						}
						passChanged = true
					}
				case ontology.ExprMinN:
					if c, ok := e.applyMinN(n, ex, deps); ok {
						if c != nil {
							return false, c
						}
						passChanged = true
					}
				case ontology.ExprExactN:
					minEx := ex
					minEx.Kind = ontology.ExprMinN
					if c, ok := e.applyMinN(n, minEx, deps); ok {
						if c != nil {
							return false, c
						}
						passChanged = true
					}
				case ontology.ExprOneOf:
					if len(ex.Individuals) == 1 {
						if c, ok := e.applyNominal(n, ontology.NamedIndividual(ex.Individuals[0]), deps); ok {
							if c != nil {
								return false, c
							}
							passChanged = true
						}
					}
				case ontology.ExprHasValue:
					if c, ok := e.applyHasValue(n, ex, deps); ok {
						if c != nil {
							return false, c
						}
						passChanged = true
					}
				case ontology.ExprHasSelf:
					if !e.Graph.HasEdge(n, ex.Role, n) {
						e.Graph.AddEdge(n, ex.Role, n, deps)
						passChanged = true
					}
				}
			}
		}

		if c, ok := e.applyPropertyCharacteristics(); ok {
			if c != nil {
				return false, c
			}
			passChanged = true
		}
		if c, ok := e.applyChains(); ok {
			if c != nil {
				return false, c
			}
			passChanged = true
		}

		if !passChanged {
			return changed, nil
		}
		changed = true
		e.RulesApplied++
	}
}

// applyAll implements the ∀ rule, extended through the role hierarchy
// (sub-role edges count as role edges, spec.md §4.2) and through
// transitive sub-roles (spec.md §4.3: "extended through transitive
// sub-roles s⊑*r, s∈T*" — we re-assert ∀r.C on the successor itself so
// the rule re-fires one level further on the next pass, rather than
// walking the whole transitive chain eagerly).
func (e *Engine) applyAll(n NodeId, ex ontology.Expr, deps ChoiceSet) (*Clash, bool) {
	progressed := false
	for _, y := range dedupNodes(e.Graph, e.neighboursViaSubroles(n, ex.Role)) {
		if e.Graph.AddLabel(y, ex.Filler, deps) {
			progressed = true
		}
		if e.TBox.Roles.IsTransitive(ex.Role) {
			all := e.Graph.Exprs.All(ex.Role, ex.Filler)
			if e.Graph.AddLabel(y, all, deps) {
				progressed = true
			}
		}
	}
	return nil, progressed
}

// applySome implements the ∃ rule: generate a fresh successor unless one
// already exists (spec.md §4.3's "no r-successor with C already"), and
// unless n is currently blocked (spec.md §4.5: blocked nodes generate no
// new successors).
func (e *Engine) applySome(n NodeId, ex ontology.Expr, deps ChoiceSet) (*Clash, bool) {
	for _, y := range e.neighboursViaSubroles(n, ex.Role) {
		if e.Graph.HasLabel(y, ex.Filler) {
			return nil, false
		}
	}
	if e.Block.IsBlocked(n) {
		return nil, false
	}
	y := e.newSuccessor(n)
	e.Graph.AddEdge(n, ex.Role, y, deps)
	e.Graph.AddLabel(y, ex.Filler, deps)
	e.maybeBlock(n, y)
	return nil, true
}

// applyMinN implements ≥n r.C: top up existing, pairwise-different
// r-successors carrying C up to n, creating fresh ones as needed. Nodes
// already present and pairwise-different toward the count are left
// alone; any shortfall is made up with brand-new successors marked
// different from every other counted successor (spec.md §4.3).
func (e *Engine) applyMinN(n NodeId, ex ontology.Expr, deps ChoiceSet) (*Clash, bool) {
	if e.Block.IsBlocked(n) {
		return nil, false
	}
	var witnesses []NodeId
	for _, y := range dedupNodes(e.Graph, e.neighboursViaSubroles(n, ex.Role)) {
		if e.Graph.HasLabel(y, ex.Filler) {
			witnesses = append(witnesses, y)
		}
	}
	pairwiseDistinct := 0
	for i := range witnesses {
		distinct := true
		for j := range witnesses {
			if i != j && !e.Graph.IsDifferent(witnesses[i], witnesses[j]) {
				distinct = false
			}
		}
		if distinct {
			pairwiseDistinct++
		}
	}
	if pairwiseDistinct >= ex.N {
		return nil, false
	}
	progressed := false
	need := ex.N - pairwiseDistinct
	fresh := make([]NodeId, 0, need)
	for i := 0; i < need; i++ {
		y := e.newSuccessor(n)
		e.Graph.AddEdge(n, ex.Role, y, deps)
		e.Graph.AddLabel(y, ex.Filler, deps)
		fresh = append(fresh, y)
		progressed = true
	}
	for i, a := range fresh {
		for _, b := range witnesses {
			e.Graph.MarkDifferent(a, b)
		}
		for j := i + 1; j < len(fresh); j++ {
			e.Graph.MarkDifferent(a, fresh[j])
		}
	}
	return nil, progressed
}

// applyNominal implements the {o} rule: every node whose label carries
// the same singleton nominal denotes the same individual.
func (e *Engine) applyNominal(n NodeId, who ontology.Individual, deps ChoiceSet) (*Clash, bool) {
	other, ok := e.Nominals[who]
	if !ok {
		if e.Nominals == nil {
			e.Nominals = map[ontology.Individual]NodeId{}
		}
		e.Nominals[who] = n
		return nil, false
	}
	if e.Graph.Canonical(other) == e.Graph.Canonical(n) {
		return nil, false
	}
	if !e.Graph.Merge(n, other) {
		return &Clash{Reason: "nominal merge conflicts with asserted difference", Deps: deps}, true
	}
	return nil, true
}

// applyHasValue implements ∋v.r, equivalent to ∃r.{v}: find or record
// the node denoting v and assert the role edge to it.
func (e *Engine) applyHasValue(n NodeId, ex ontology.Expr, deps ChoiceSet) (*Clash, bool) {
	who := ontology.NamedIndividual(ex.Individual)
	y, ok := e.Nominals[who]
	if !ok {
		y = e.newSuccessor(n)
		e.Graph.Node(y).NominalOf = &who
		// Seed y with its own singleton nominal {v} so a ¬{v} filler the
		// ∀ rule later propagates onto y (¬HasValue(r,v)'s NNF rewrite)
		// has a positive {v} label here to clash against.
		e.Graph.AddLabel(y, e.Graph.Exprs.OneOf(ex.Individual), nil)
		if e.Nominals == nil {
			e.Nominals = map[ontology.Individual]NodeId{}
		}
		e.Nominals[who] = y
	}
	if e.Graph.HasEdge(n, ex.Role, y) {
		return nil, false
	}
	e.Graph.AddEdge(n, ex.Role, y, deps)
	return nil, true
}

// applyPropertyCharacteristics materializes Symmetric back-edges,
// Reflexive self-edges, and merges forced by Functional/
// InverseFunctional roles (spec.md §4.1 PropertyCharacteristics).
func (e *Engine) applyPropertyCharacteristics() (*Clash, bool) {
	progressed := false

	for _, n := range e.Graph.allCanonical() {
		for _, ex := range e.Graph.EdgesFrom(n) {
			if e.TBox.Roles.IsSymmetric(ex.Role) && !e.Graph.HasEdge(ex.To, ex.Role, n) {
				e.Graph.AddEdge(ex.To, ex.Role, n, ex.Deps)
				progressed = true
			}
		}
	}

	for role := range e.reflexiveRoles() {
		for _, n := range e.Graph.allCanonical() {
			if !e.Graph.HasEdge(n, role, n) {
				e.Graph.AddEdge(n, role, n, nil)
				progressed = true
			}
		}
	}

	for _, n := range e.Graph.allCanonical() {
		byRole := map[ontology.RoleExpr][]NodeId{}
		for _, ex := range e.Graph.EdgesFrom(n) {
			if e.TBox.Roles.IsFunctional(ex.Role) {
				byRole[ex.Role] = append(byRole[ex.Role], ex.To)
			}
		}
		for _, succs := range byRole {
			if c, ok := e.mergeAll(succs); ok {
				if c != nil {
					return c, true
				}
				progressed = true
			}
		}

		byInvRole := map[ontology.RoleExpr][]NodeId{}
		for _, ex := range e.Graph.EdgesFrom(n) {
			if e.TBox.Roles.IsInverseFunctional(ex.Role) {
				byInvRole[ex.Role] = append(byInvRole[ex.Role], ex.To)
			}
		}
		// InverseFunctional(r) means r⁻ is functional: every node with an
		// r-predecessor set of size >1 into the same target must merge
		// those predecessors, which is the dual view of the same scan.
		for _, n2 := range e.Graph.allCanonical() {
			var preds []NodeId
			for role := range byInvRole {
				preds = append(preds, e.Graph.Predecessors(n2, role)...)
			}
			if c, ok := e.mergeAll(dedupNodes(e.Graph, preds)); ok {
				if c != nil {
					return c, true
				}
				progressed = true
			}
		}
	}
	return nil, progressed
}

func (e *Engine) mergeAll(nodes []NodeId) (*Clash, bool) {
	nodes = dedupNodes(e.Graph, nodes)
	if len(nodes) < 2 {
		return nil, false
	}
	progressed := false
	for i := 1; i < len(nodes); i++ {
		if e.Graph.Canonical(nodes[0]) == e.Graph.Canonical(nodes[i]) {
			continue
		}
		if !e.Graph.Merge(nodes[0], nodes[i]) {
			return &Clash{Reason: "functional property forces conflicting merge"}, true
		}
		progressed = true
	}
	return nil, progressed
}

func (e *Engine) reflexiveRoles() map[ontology.RoleExpr]bool {
	out := map[ontology.RoleExpr]bool{}
	for _, r := range e.TBox.Roles.ReflexiveRoles() {
		out[r] = true
	}
	return out
}

// applyChains materializes property-chain and transitive-self-chain
// consequences (r1∘r2⊑s, including the compiled r∘r⊑r for declared-
// transitive r — spec.md §4.1 PropertyChainCompile).
func (e *Engine) applyChains() (*Clash, bool) {
	progressed := false
	edges := append([]Edge(nil), e.collectEdges()...)
	for _, e1 := range edges {
		for _, e2 := range e.Graph.EdgesFrom(e1.To) {
			targets := e.TBox.Roles.ChainTargets(e1.Role, e2.Role)
			for _, s := range targets {
				if !e.Graph.HasEdge(e1.From, s, e2.To) {
					e.Graph.AddEdge(e1.From, s, e2.To, e1.Deps.union(e2.Deps))
					progressed = true
				}
			}
		}
	}
	return nil, progressed
}

func (e *Engine) collectEdges() []Edge {
	var out []Edge
	for _, n := range e.Graph.allCanonical() {
		out = append(out, e.Graph.EdgesFrom(n)...)
	}
	return out
}

// maybeBlock walks y's ancestor chain looking for a blocker under the
// engine's configured strategy (spec.md §4.5).
func (e *Engine) maybeBlock(parent, y NodeId) {
	cur := parent
	for {
		node := e.Graph.Node(cur)
		if bc, ok := e.Graph.checkBlock(e.Block, y, cur); ok {
			e.Block.block(bc)
			return
		}
		if !node.HasAncestor {
			return
		}
		cur = node.Ancestor
	}
}
