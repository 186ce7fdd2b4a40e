package tableau

import (
	"time"

	"github.com/nodeadmin/dlreasoner/normalize"
	"github.com/nodeadmin/dlreasoner/ontology"
)

// Config configures one Engine run. It mirrors the Configuration section
// of spec.md §6, kept free of any reasoner-level type so this package
// never imports its own caller.
type Config struct {
	MaxDepth   int
	Deadline   time.Time // zero means no deadline
	Cancelled  func() bool
	Blocking   BlockingStrategy
	DebugTrace bool
	OnTrace    func(msg string)
}

func (c Config) trace(msg string) {
	if c.DebugTrace && c.OnTrace != nil {
		c.OnTrace(msg)
	}
}

// Engine drives the work-list to saturation (L4 in spec.md §2): the
// priority is deterministic rules first (⊓, ∀, property characteristics),
// then ≥n mergers (also deterministic), then ⊔ and the ≤n merge choice
// (non-deterministic), exactly the table in spec.md §4.3.
//
// This implementation saturates with repeated full passes over the
// node set rather than a per-item work-list queue; classify's EL fast
// path (classify/elcompletion.go) keeps an explicit LIFO worklist for
// the tractable EL fragment instead, since that fragment has no
// non-determinism to interleave with queue processing. The general
// engine here trades that asymptotic edge for the much simpler code
// needed to host non-determinism, blocking, and backjumping together.
// See DESIGN.md.
type Engine struct {
	Graph    *Graph
	TBox     *normalize.TBox
	Deps     *DependencyManager
	Block    *BlockingManager
	Config   Config
	Nominals map[ontology.Individual]NodeId

	RulesApplied    int
	ChoicesExplored int
}

// NewEngine returns an Engine ready to saturate g under tb.
func NewEngine(g *Graph, tb *normalize.TBox, nominals map[ontology.Individual]NodeId, cfg Config) *Engine {
	return &Engine{
		Graph:    g,
		TBox:     tb,
		Deps:     NewDependencyManager(),
		Block:    NewBlockingManager(cfg.Blocking),
		Config:   cfg,
		Nominals: nominals,
	}
}

// LimitErrorKind is returned by Saturate to say which resource limit,
// if any, was hit (LimitNone when none was).
type LimitErrorKind uint8

const (
	LimitNone LimitErrorKind = iota
	LimitDepth
	LimitTimeout
	LimitCancelled
)

func (e *Engine) checkLimits() LimitErrorKind {
	if e.Config.Cancelled != nil && e.Config.Cancelled() {
		return LimitCancelled
	}
	if !e.Config.Deadline.IsZero() && time.Now().After(e.Config.Deadline) {
		return LimitTimeout
	}
	if e.Config.MaxDepth > 0 && e.Graph.NodeCount() > e.Config.MaxDepth {
		return LimitDepth
	}
	return LimitNone
}

// Saturate runs the expansion engine to completion (spec.md §4.3
// "Saturation"). It returns consistent=true once the work-list is empty
// and no rule applies (every open branch has reached a model), or
// consistent=false once every branch has clashed (spec.md §4.6 step 4).
func (e *Engine) Saturate() (consistent bool, limit LimitErrorKind) {
	// Seed every node with the internalized TBox's global concepts
	// (spec.md §4.1 InternalizeTBox).
	for i := 0; i < e.Graph.NodeCount(); i++ {
		e.seedGlobals(NodeId(i))
	}

	for {
		if l := e.checkLimits(); l != LimitNone {
			return false, l
		}

		changed, clash := e.applyDeterministicPass()
		if clash != nil {
			if !e.resolveClash(*clash) {
				return false, LimitNone
			}
			continue
		}
		if changed {
			continue
		}

		if labelClash, found := detectClash(e.Graph, e.TBox.Roles); found {
			if !e.resolveClash(labelClash) {
				return false, LimitNone
			}
			continue
		}

		progressed, ranOut, ndClash := e.applyNonDeterministicStep()
		if ndClash != nil {
			if !e.resolveClash(*ndClash) {
				return false, LimitNone
			}
			continue
		}
		if progressed {
			continue
		}
		if ranOut {
			// A choice point had zero viable branches but produced no
			// formal Clash (shouldn't normally happen since
			// applyNonDeterministicStep always attaches deps) — treat
			// conservatively as closed.
			return false, LimitNone
		}
		return true, LimitNone
	}
}

func (e *Engine) resolveClash(c Clash) bool {
	e.Config.trace("clash: " + c.Reason)
	res := e.Deps.Backjump(e.Graph, c.Deps)
	return !res.Closed
}

func (e *Engine) seedGlobals(n NodeId) {
	for _, g := range e.TBox.Global {
		e.Graph.AddLabel(n, g, nil)
	}
}

// newSuccessor creates a fresh generated node and immediately seeds it
// with the internalized TBox (spec.md §4.1: every node carries the
// universal concept, not only the ABox roots Saturate starts from).
func (e *Engine) newSuccessor(ancestor NodeId) NodeId {
	y := e.Graph.AddNodeChild(ancestor)
	e.seedGlobals(y)
	return y
}

// neighboursViaSubroles returns every node reached from x through role r
// or any of its closed sub-roles (role-hierarchy containment is resolved
// on read, the way inverses are — spec.md §4.2).
func (e *Engine) neighboursViaSubroles(x NodeId, r ontology.RoleExpr) []NodeId {
	var out []NodeId
	for _, s := range e.TBox.Roles.SubRolesOf(r) {
		out = append(out, e.Graph.Neighbours(x, s)...)
	}
	return out
}

func dedupNodes(g *Graph, ids []NodeId) []NodeId {
	seen := map[NodeId]bool{}
	var out []NodeId
	for _, id := range ids {
		c := g.Canonical(id)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
