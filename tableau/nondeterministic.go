package tableau

import "github.com/nodeadmin/dlreasoner/ontology"

// applyNonDeterministicStep looks for one ⊔ disjunction or one ≤n
// cardinality-merge choice to make (spec.md §4.3's non-deterministic
// rules), applies its first viable branch via the DependencyManager, and
// reports what happened:
//
//   - progressed=true: a choice point was created and a branch applied;
//     the engine should resaturate deterministically and look again.
//   - ranOut=true: no branch could be made to work (shouldn't normally
//     happen — disjunction branches never fail locally, and cardinality
//     candidates are pre-filtered to pairs that aren't already marked
//     different — but is handled defensively).
//   - clash!=nil: a ≤n restriction is violated by more successors than
//     can ever be merged (every pair already marked pairwise different),
//     which is a genuine clash rather than a choice (spec.md §4.3).
//   - none of the above: saturation is complete; no non-deterministic
//     rule applies anywhere.
func (e *Engine) applyNonDeterministicStep() (progressed bool, ranOut bool, clash *Clash) {
	for _, n := range e.Graph.allCanonical() {
		if e.Block.IsBlocked(n) {
			continue
		}
		labels := e.Graph.Labels(n)
		for c, deps := range labels {
			ex := e.Graph.Exprs.Get(c)
			if ex.Kind != ontology.ExprOr {
				continue
			}
			if e.disjunctionSatisfied(n, ex, labels) {
				continue
			}
			if ok := e.chooseDisjunct(n, ex, deps); ok {
				return true, false, nil
			}
			return false, true, nil
		}
	}

	for _, n := range e.Graph.allCanonical() {
		if e.Block.IsBlocked(n) {
			continue
		}
		labels := e.Graph.Labels(n)
		for c, deps := range labels {
			ex := e.Graph.Exprs.Get(c)
			if ex.Kind != ontology.ExprMaxN && ex.Kind != ontology.ExprExactN {
				continue
			}
			if c, ok := e.enforceMaxN(n, ex, deps); ok {
				if c != nil {
					return false, false, c
				}
				return true, false, nil
			}
		}
	}
	return false, false, nil
}

func (e *Engine) disjunctionSatisfied(n NodeId, ex ontology.Expr, labels map[ontology.ExprID]ChoiceSet) bool {
	for _, op := range ex.Operands {
		if _, ok := labels[op]; ok {
			return true
		}
	}
	return false
}

func (e *Engine) chooseDisjunct(n NodeId, ex ontology.Expr, baseDeps ChoiceSet) bool {
	choiceID := e.Deps.PeekNextID()
	deps := baseDeps.union(newChoiceSet(choiceID))
	branches := make([]Branch, 0, len(ex.Operands))
	for _, op := range ex.Operands {
		op := op
		branches = append(branches, Branch{
			Label: "disjunct",
			Apply: func(g *Graph) bool {
				g.AddLabel(n, op, deps)
				return true
			},
		})
	}
	_, ok := e.Deps.PushAndSelect(e.Graph, n, ChoiceDisjunction, branches, baseDeps)
	if ok {
		e.ChoicesExplored++
	}
	return ok
}

// enforceMaxN implements the ≤n rule: merge two r-successors carrying C
// when there are more than n of them. If every pair is already marked
// pairwise-different, merging can never bring the count down to n — a
// genuine clash (spec.md §4.3 "more than n pairwise-different
// r-C-successors").
func (e *Engine) enforceMaxN(n NodeId, ex ontology.Expr, baseDeps ChoiceSet) (*Clash, bool) {
	witnesses := dedupNodes(e.Graph, e.neighboursViaSubroles(n, ex.Role))
	var filtered []NodeId
	for _, y := range witnesses {
		if e.Graph.HasLabel(y, ex.Filler) {
			filtered = append(filtered, y)
		}
	}
	if len(filtered) <= ex.N {
		return nil, false
	}

	type pair struct{ a, b NodeId }
	var candidates []pair
	allDifferent := true
	for i := 0; i < len(filtered); i++ {
		for j := i + 1; j < len(filtered); j++ {
			if e.Graph.IsDifferent(filtered[i], filtered[j]) {
				continue
			}
			allDifferent = false
			candidates = append(candidates, pair{filtered[i], filtered[j]})
		}
	}
	if allDifferent || len(candidates) == 0 {
		deps := baseDeps
		for _, y := range filtered {
			if d, ok := e.Graph.LabelDeps(y, ex.Filler); ok {
				deps = deps.union(d)
			}
		}
		return &Clash{Reason: "more than n pairwise-different successors for a ≤n restriction", Deps: deps}, true
	}

	branches := make([]Branch, 0, len(candidates))
	for _, p := range candidates {
		p := p
		branches = append(branches, Branch{
			Label: "merge",
			Apply: func(g *Graph) bool {
				return g.Merge(p.a, p.b)
			},
		})
	}
	_, ok := e.Deps.PushAndSelect(e.Graph, n, ChoiceCardinalityMerge, branches, baseDeps)
	if ok {
		e.ChoicesExplored++
		return nil, true
	}
	return nil, false
}
