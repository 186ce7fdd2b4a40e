package tableau

// ChoiceType enumerates the sources of non-determinism spec.md §4.3
// names explicitly, mirroring original_source's ChoiceType (Disjunction,
// ExistentialRestriction, Nominal, DataRange) plus CardinalityMerge for
// the ≤n pair-merge choice spec.md §4.3 also requires.
type ChoiceType uint8

const (
	ChoiceDisjunction ChoiceType = iota
	ChoiceExistentialRestriction
	ChoiceNominal
	ChoiceDataRange
	ChoiceCardinalityMerge
)

// DependencySourceKind tags what produced a Dependency, mirroring
// original_source's DependencySource enum (ChoicePoint/Node/GlobalConstraint).
type DependencySourceKind uint8

const (
	DepFromChoicePoint DependencySourceKind = iota
	DepFromNode
	DepFromGlobalConstraint
)

// DependencySource names the origin of a Dependency.
type DependencySource struct {
	Kind     DependencySourceKind
	ChoiceID ChoiceId
	Node     NodeId
}

// DependencyKind categorizes a Dependency the way original_source's
// DependencyType does (Subclass/Property/Individual/Concept), kept purely
// for debug_trace introspection — it never affects backjumping, which
// only consults ChoiceSet.
type DependencyKind uint8

const (
	DepSubclass DependencyKind = iota
	DepProperty
	DepIndividual
	DepConcept
)

// Dependency records that dependentNode's assertion traces back to source.
type Dependency struct {
	DependentNode NodeId
	Source        DependencySource
	Kind          DependencyKind
}

// Branch is one alternative of a ChoicePoint. Apply performs the
// branch's graph mutation and reports whether it succeeded locally
// (e.g. a merge branch fails immediately if the pair is marked
// different); a false return is a local clash, not necessarily a global
// one — the engine still has to run saturation before knowing that.
type Branch struct {
	Label string
	Apply func(g *Graph) bool
}

// ChoicePoint is a branching decision over Branches (spec.md §3).
type ChoicePoint struct {
	ID               ChoiceId
	Node             NodeId
	Type             ChoiceType
	Branches         []Branch
	Taken            int // index of the branch currently in effect, -1 before first try
	DependenciesOnEntry ChoiceSet
	Savepoint        Token
}

// DependencyManager is the central coordinator for dependency-directed
// backtracking (spec.md §4.6), grounded in
// original_source/src/reasoning/tableaux/dependency.rs's DependencyManager.
type DependencyManager struct {
	stack      []*ChoicePoint
	nextID     ChoiceId
	dependencies map[NodeId][]Dependency
}

// NewDependencyManager returns an empty manager.
func NewDependencyManager() *DependencyManager {
	return &DependencyManager{dependencies: make(map[NodeId][]Dependency)}
}

// PeekNextID returns the ChoiceId the next Push call will assign,
// letting a caller build ChoiceSet-carrying Branch closures before the
// ChoicePoint itself exists (branch deps must name their own choice id).
func (d *DependencyManager) PeekNextID() ChoiceId { return d.nextID }

// Push creates a new choice point on top of the stack and returns it. sp
// is the graph savepoint captured immediately before any branch is tried,
// so Backjump can restore the graph to "choice just created, nothing
// chosen yet."
func (d *DependencyManager) Push(node NodeId, t ChoiceType, branches []Branch, depsOnEntry ChoiceSet, sp Token) *ChoicePoint {
	cp := &ChoicePoint{
		ID:                  d.nextID,
		Node:                node,
		Type:                t,
		Branches:            branches,
		Taken:               -1,
		DependenciesOnEntry: depsOnEntry,
		Savepoint:           sp,
	}
	d.nextID++
	d.stack = append(d.stack, cp)
	return cp
}

// Top returns the current (most recently pushed) choice point, if any.
func (d *DependencyManager) Top() (*ChoicePoint, bool) {
	if len(d.stack) == 0 {
		return nil, false
	}
	return d.stack[len(d.stack)-1], true
}

// Pop discards the top choice point (used once all its branches are
// exhausted — the choice itself has failed, per spec.md §4.6 step 3).
func (d *DependencyManager) Pop() {
	if len(d.stack) == 0 {
		return
	}
	d.stack = d.stack[:len(d.stack)-1]
}

// Empty reports whether the choice stack is empty ("the tableau is
// closed" when this becomes true after a clash, spec.md §4.6 step 4).
func (d *DependencyManager) Empty() bool { return len(d.stack) == 0 }

// AddDependency records a dependency edge for debug_trace / testing.
func (d *DependencyManager) AddDependency(dep Dependency) {
	d.dependencies[dep.DependentNode] = append(d.dependencies[dep.DependentNode], dep)
}

// DependenciesOf returns the recorded dependencies for node.
func (d *DependencyManager) DependenciesOf(node NodeId) []Dependency {
	return d.dependencies[node]
}

// CurrentChoiceIds returns the ChoiceId of every choice point currently
// on the stack — the "currently-taken branch ids" the backtrack-
// correctness invariant (spec.md §8) checks every clash dependency set
// against.
func (d *DependencyManager) CurrentChoiceIds() ChoiceSet {
	if len(d.stack) == 0 {
		return nil
	}
	ids := make(ChoiceSet, len(d.stack))
	for _, cp := range d.stack {
		ids[cp.ID] = true
	}
	return ids
}

// backjumpTargetIndex returns the stack index of the most-recent choice
// point whose id is in clashDeps — the "backjump" of spec.md §4.6 step
// 2 — or -1 when none is; Backjump (below) performs the actual
// pop+restore.
func (d *DependencyManager) backjumpTargetIndex(clashDeps ChoiceSet) int {
	for i := len(d.stack) - 1; i >= 0; i-- {
		if clashDeps[d.stack[i].ID] {
			return i
		}
	}
	return -1
}

// BackjumpResult reports the outcome of a Backjump call.
type BackjumpResult struct {
	// Closed is true if the whole tableau is unsatisfiable: no choice
	// point's dependencies intersect the clash (every intervening choice
	// was irrelevant and even the oldest relevant one has no branches
	// left) — spec.md §4.6 step 4.
	Closed bool
	// Retry is true if a new branch was selected and the engine should
	// resume expansion from cp.Savepoint.
	Retry bool
	Point *ChoicePoint
}

// Backjump implements spec.md §4.6: pop the choice stack down to the
// most-recent choice whose id is in clashDeps, skipping (discarding)
// intervening choices since their alternatives cannot change this clash;
// mark the exhausted branch failed and try the next one, or fail the
// choice itself and recurse further back when no branches remain.
func (d *DependencyManager) Backjump(g *Graph, clashDeps ChoiceSet) BackjumpResult {
	idx := d.backjumpTargetIndex(clashDeps)
	if idx < 0 {
		// Deterministic-only clash, or no relevant choice: the tableau
		// closes entirely.
		d.stack = nil
		return BackjumpResult{Closed: true}
	}
	// Discard every choice above idx — irrelevant to this clash.
	d.stack = d.stack[:idx+1]
	cp := d.stack[idx]

	g.Rollback(cp.Savepoint)
	if d.selectNext(g, cp) {
		return BackjumpResult{Retry: true, Point: cp}
	}
	// This choice is exhausted too; fail it and recurse to the
	// next-most-recent choice implicated by the same clash (widened by
	// this choice's entry dependencies). If no remaining choice is
	// implicated, the recursive call closes the tableau.
	d.stack = d.stack[:idx]
	if len(d.stack) == 0 {
		return BackjumpResult{Closed: true}
	}
	return d.Backjump(g, clashDeps.union(cp.DependenciesOnEntry))
}

// selectNext advances cp.Taken and applies branches in order until one
// succeeds or all are exhausted, rolling the graph back to cp.Savepoint
// before each attempt so a locally-failed branch leaves no residue.
func (d *DependencyManager) selectNext(g *Graph, cp *ChoicePoint) bool {
	for cp.Taken+1 < len(cp.Branches) {
		cp.Taken++
		if cp.Branches[cp.Taken].Apply(g) {
			return true
		}
		g.Rollback(cp.Savepoint)
	}
	return false
}

// PushAndSelect creates a new choice point and applies its first viable
// branch. If every branch fails immediately (e.g. every candidate merge
// pair is already marked different), the choice point is discarded and
// ok is false — the caller should treat this exactly like a clash whose
// dependency set is depsOnEntry.
func (d *DependencyManager) PushAndSelect(g *Graph, node NodeId, t ChoiceType, branches []Branch, depsOnEntry ChoiceSet) (*ChoicePoint, bool) {
	sp := g.Savepoint()
	cp := d.Push(node, t, branches, depsOnEntry, sp)
	if d.selectNext(g, cp) {
		return cp, true
	}
	d.Pop()
	return cp, false
}
