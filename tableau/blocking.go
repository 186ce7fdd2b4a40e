package tableau

import "github.com/nodeadmin/dlreasoner/ontology"

// BlockingStrategy selects how a generated node's label is compared
// against its ancestors (spec.md §4.5). Grounded in
// original_source/src/reasoning/tableaux/blocking.rs's BlockingStrategy
// enum (Equality/Subset/Optimized), carried into Go unchanged in shape.
type BlockingStrategy uint8

const (
	BlockEquality BlockingStrategy = iota
	BlockSubset
	BlockOptimized
)

// BlockingType records *why* a node is blocked, mirroring
// original_source's BlockingType (Equality/Subset/NamedIndividual) —
// kept as a distinct field from BlockingStrategy. checkBlock records
// only BlockedByEquality and BlockedBySubset: a node whose NominalOf is
// set is never blocked, so BlockedByNamedIndividual is not produced.
type BlockingType uint8

const (
	BlockedByEquality BlockingType = iota
	BlockedBySubset
	BlockedByNamedIndividual
)

// BlockingConstraint is the record created when a node is blocked.
type BlockingConstraint struct {
	Blocked  NodeId
	Blocker  NodeId
	Type     BlockingType
}

// BlockingManager coordinates blocking detection across a tableau
// (spec.md §4.5), grounded in original_source's BlockingManager.
type BlockingManager struct {
	Strategy    BlockingStrategy
	constraints []BlockingConstraint
	blocked     map[NodeId]BlockingConstraint
}

// NewBlockingManager returns a manager for the given strategy.
func NewBlockingManager(strategy BlockingStrategy) *BlockingManager {
	return &BlockingManager{Strategy: strategy, blocked: make(map[NodeId]BlockingConstraint)}
}

// IsBlocked reports whether node is currently blocked.
func (m *BlockingManager) IsBlocked(node NodeId) bool {
	_, ok := m.blocked[node]
	return ok
}

// BlockerOf returns the ancestor blocking node, if any.
func (m *BlockingManager) BlockerOf(node NodeId) (NodeId, bool) {
	c, ok := m.blocked[node]
	return c.Blocker, ok
}

func (m *BlockingManager) block(c BlockingConstraint) {
	m.blocked[c.Blocked] = c
	m.constraints = append(m.constraints, c)
}

// Release un-blocks node. A block is released when the blocking
// condition no longer holds (spec.md §4.5): Engine re-checks every
// blocked node against its blocker at the start of each deterministic
// pass and calls Release there, rather than BlockingManager polling
// labels itself.
func (m *BlockingManager) Release(node NodeId) {
	delete(m.blocked, node)
}

// Constraints returns every blocking constraint recorded so far.
func (m *BlockingManager) Constraints() []BlockingConstraint { return m.constraints }

// checkBlock evaluates whether `y`, generated as a successor reached
// through role edges from ancestor `x`, should be blocked, given their
// current merged labels. Equality blocking requires label equality;
// Subset blocking only requires L(y) ⊆ L(x) (weaker, sound only under
// restricted role expressivity per spec.md §4.5); Optimized accepts
// label equality, or L(y) ⊆ L(x) when x itself has an ancestor; it does
// not implement pairwise blocking. Under every strategy a node whose
// NominalOf is set is never blocked — nominals use the {o}-merge rule
// instead (spec.md §4.3).
func (g *Graph) checkBlock(m *BlockingManager, y, x NodeId) (BlockingConstraint, bool) {
	yn, xn := g.Node(y), g.Node(x)
	if yn.NominalOf != nil {
		return BlockingConstraint{}, false
	}
	ly, lx := g.Labels(y), g.Labels(x)

	switch m.Strategy {
	case BlockEquality:
		if sameLabelSet(ly, lx) {
			return BlockingConstraint{Blocked: y, Blocker: x, Type: BlockedByEquality}, true
		}
	case BlockSubset:
		if isSubsetLabel(ly, lx) {
			return BlockingConstraint{Blocked: y, Blocker: x, Type: BlockedBySubset}, true
		}
	case BlockOptimized:
		if sameLabelSet(ly, lx) {
			return BlockingConstraint{Blocked: y, Blocker: x, Type: BlockedByEquality}, true
		}
		if isSubsetLabel(ly, lx) && xn.HasAncestor {
			return BlockingConstraint{Blocked: y, Blocker: x, Type: BlockedBySubset}, true
		}
	}
	return BlockingConstraint{}, false
}

func sameLabelSet(a, b map[ontology.ExprID]ChoiceSet) bool {
	if len(a) != len(b) {
		return false
	}
	for c := range a {
		if _, ok := b[c]; !ok {
			return false
		}
	}
	return true
}

func isSubsetLabel(sub, sup map[ontology.ExprID]ChoiceSet) bool {
	for c := range sub {
		if _, ok := sup[c]; !ok {
			return false
		}
	}
	return true
}
