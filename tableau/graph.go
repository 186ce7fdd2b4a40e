// Package tableau implements L3–L6 of spec.md §2: the tableaux graph,
// the rule-expansion engine, blocking, and dependency-directed
// backtracking, saturating with repeated full passes over the node set
// (see Engine) under the full non-deterministic OWL 2 DL rule set
// described in spec.md §4.3, and following original_source's blocking.rs /
// dependency.rs for the blocking-constraint and dependency-source shapes.
package tableau

import "github.com/nodeadmin/dlreasoner/ontology"

// NodeId identifies a tableau node. Ids are assigned in creation order
// and never reused within one Graph.
type NodeId int

// ChoiceId identifies a non-deterministic choice point (spec.md §3).
type ChoiceId int

// ChoiceSet is the (usually tiny) set of ChoiceIds an assertion depends
// on. A nil/empty set means the assertion is deterministic and survives
// every backtrack (spec.md §4.6).
type ChoiceSet map[ChoiceId]bool

func newChoiceSet(ids ...ChoiceId) ChoiceSet {
	if len(ids) == 0 {
		return nil
	}
	s := make(ChoiceSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

func (s ChoiceSet) union(o ChoiceSet) ChoiceSet {
	if len(s) == 0 {
		return o
	}
	if len(o) == 0 {
		return s
	}
	out := make(ChoiceSet, len(s)+len(o))
	for k := range s {
		out[k] = true
	}
	for k := range o {
		out[k] = true
	}
	return out
}

// NodeKind distinguishes ABox root individuals from engine-generated
// successors (spec.md §3).
type NodeKind uint8

const (
	KindRootIndividual NodeKind = iota
	KindGenerated
)

// Node is a tableau node (spec.md §3). Labels map each asserted concept
// to the ChoiceSet it depends on.
type Node struct {
	ID        NodeId
	Labels    map[ontology.ExprID]ChoiceSet
	BlockedBy *NodeId
	NominalOf *ontology.Individual
	Kind      NodeKind
	Ancestor  NodeId // parent in the generation tree, for blocking ancestor walks
	HasAncestor bool
}

// Edge is a directed, role-labelled tableau edge (spec.md §3). The graph
// never stores a duplicate symbolic inverse edge; callers asking for
// role r neighbours of x also see nodes reached via r⁻ edges into x,
// resolved on read (spec.md §4.2).
type Edge struct {
	From, To NodeId
	Role     ontology.RoleExpr
	Deps     ChoiceSet
}

// Graph is the tableau: nodes, directed role edges, the equality/
// inequality tracker, and a per-branch change log (spec.md §4.2).
type Graph struct {
	Exprs *ontology.ExprTable

	nodes []*Node
	edges []Edge
	uf    *unionFind

	log []change
}

// NewGraph returns an empty tableau graph sharing the ontology's
// hash-consing table.
func NewGraph(exprs *ontology.ExprTable) *Graph {
	return &Graph{Exprs: exprs, uf: newUnionFind()}
}

// --- change log -------------------------------------------------------

type changeKind uint8

const (
	chgNode changeKind = iota
	chgLabel
	chgEdge
	chgDiff
	chgMerge
)

type change struct {
	kind  changeKind
	node  NodeId
	expr  ontology.ExprID
	a, b  NodeId
	ufPre ufSnapshot
}

// Token is an opaque savepoint returned by Savepoint and consumed by
// Rollback.
type Token int

// Savepoint returns a token marking the current change-log position.
func (g *Graph) Savepoint() Token { return Token(len(g.log)) }

// Rollback undoes every change recorded since tok, restoring the graph
// to an exact, bytewise-equivalent prior state (spec.md §4.2).
func (g *Graph) Rollback(tok Token) {
	for i := len(g.log) - 1; i >= int(tok); i-- {
		c := g.log[i]
		switch c.kind {
		case chgNode:
			g.nodes = g.nodes[:len(g.nodes)-1]
		case chgLabel:
			delete(g.nodes[c.node].Labels, c.expr)
		case chgEdge:
			g.edges = g.edges[:len(g.edges)-1]
		case chgDiff:
			delete(g.uf.different, newDiffPair(c.a, c.b))
		case chgMerge:
			g.uf.restore(c.ufPre)
		}
	}
	g.log = g.log[:tok]
}

// --- node / edge operations --------------------------------------------

// AddNode creates a fresh node of the given kind.
func (g *Graph) AddNode(kind NodeKind) NodeId {
	id := NodeId(len(g.nodes))
	n := &Node{ID: id, Labels: make(map[ontology.ExprID]ChoiceSet, 8), Kind: kind}
	g.nodes = append(g.nodes, n)
	g.uf.ensure(id)
	g.log = append(g.log, change{kind: chgNode, node: id})
	return id
}

// AddNodeChild creates a fresh generated node recording its ancestor for
// the blocking walk (spec.md §4.5).
func (g *Graph) AddNodeChild(ancestor NodeId) NodeId {
	id := g.AddNode(KindGenerated)
	n := g.nodes[id]
	n.Ancestor = ancestor
	n.HasAncestor = true
	return id
}

// Node returns the node n (panics if out of range — internal callers
// always hold a valid id).
func (g *Graph) Node(n NodeId) *Node { return g.nodes[n] }

// NodeCount returns the number of nodes ever created in this graph
// (including blocked/merged ones).
func (g *Graph) NodeCount() int { return len(g.nodes) }

// AddLabel adds concept to canonical(node)'s label with the given
// dependency set. Returns true if this is new information.
func (g *Graph) AddLabel(node NodeId, concept ontology.ExprID, deps ChoiceSet) bool {
	rep := g.uf.Find(node)
	n := g.nodes[rep]
	if existing, ok := n.Labels[concept]; ok {
		// Already present; a stronger (smaller) dependency set never
		// arrives in this engine's rule order, so keep the first one.
		_ = existing
		return false
	}
	n.Labels[concept] = deps
	g.log = append(g.log, change{kind: chgLabel, node: rep, expr: concept})
	return true
}

// HasLabel reports whether concept is in canonical(node)'s merged label.
func (g *Graph) HasLabel(node NodeId, concept ontology.ExprID) bool {
	_, ok := g.LabelDeps(node, concept)
	return ok
}

// LabelDeps returns the dependency set for concept on canonical(node)'s
// merged label, scanning every member of the equivalence class (spec.md
// §4.2: "merged label that is the union of member labels").
func (g *Graph) LabelDeps(node NodeId, concept ontology.ExprID) (ChoiceSet, bool) {
	for _, m := range g.uf.Members(node) {
		if deps, ok := g.nodes[m].Labels[concept]; ok {
			return deps, true
		}
	}
	return nil, false
}

// Labels returns every concept in canonical(node)'s merged label.
func (g *Graph) Labels(node NodeId) map[ontology.ExprID]ChoiceSet {
	out := make(map[ontology.ExprID]ChoiceSet)
	for _, m := range g.uf.Members(node) {
		for c, d := range g.nodes[m].Labels {
			if _, already := out[c]; !already {
				out[c] = d
			}
		}
	}
	return out
}

// AddEdge adds a directed role edge.
func (g *Graph) AddEdge(from NodeId, role ontology.RoleExpr, to NodeId, deps ChoiceSet) {
	g.edges = append(g.edges, Edge{From: from, To: to, Role: role, Deps: deps})
	g.log = append(g.log, change{kind: chgEdge})
}

// Neighbours returns every node y such that canonical(x) reaches y via
// role (resolving inverse edges on read, per spec.md §4.2).
func (g *Graph) Neighbours(x NodeId, role ontology.RoleExpr) []NodeId {
	rx := g.uf.Find(x)
	var out []NodeId
	for _, e := range g.edges {
		if g.uf.Find(e.From) == rx && e.Role == role {
			out = append(out, e.To)
		}
		if g.uf.Find(e.To) == rx && e.Role == role.Inv() {
			out = append(out, e.From)
		}
	}
	return out
}

// Predecessors returns every node y such that y reaches canonical(x) via
// role.
func (g *Graph) Predecessors(x NodeId, role ontology.RoleExpr) []NodeId {
	return g.Neighbours(x, role.Inv())
}

// EdgesFrom returns every edge whose canonical source is x.
func (g *Graph) EdgesFrom(x NodeId) []Edge {
	rx := g.uf.Find(x)
	var out []Edge
	for _, e := range g.edges {
		if g.uf.Find(e.From) == rx {
			out = append(out, e)
		}
		if g.uf.Find(e.To) == rx {
			out = append(out, Edge{From: e.To, To: e.From, Role: e.Role.Inv(), Deps: e.Deps})
		}
	}
	return out
}

// HasEdge reports whether canonical(from) has a role edge to
// canonical(to), resolved through inverses.
func (g *Graph) HasEdge(from NodeId, role ontology.RoleExpr, to NodeId) bool {
	rf, rt := g.uf.Find(from), g.uf.Find(to)
	for _, e := range g.edges {
		if g.uf.Find(e.From) == rf && e.Role == role && g.uf.Find(e.To) == rt {
			return true
		}
		if g.uf.Find(e.To) == rf && e.Role == role.Inv() && g.uf.Find(e.From) == rt {
			return true
		}
	}
	return false
}

// Canonical returns n's current union-find representative.
func (g *Graph) Canonical(n NodeId) NodeId { return g.uf.Find(n) }

// SameNode reports whether a and b are in the same equivalence class.
func (g *Graph) SameNode(a, b NodeId) bool { return g.uf.SameClass(a, b) }

// IsDifferent reports whether a and b are marked explicitly different.
func (g *Graph) IsDifferent(a, b NodeId) bool { return g.uf.IsDifferent(a, b) }

// MarkDifferent records a and b as distinct individuals. Returns false on
// clash (they are already merged).
func (g *Graph) MarkDifferent(a, b NodeId) bool {
	ra, rb := g.uf.Find(a), g.uf.Find(b)
	if ra == rb {
		return false
	}
	if !g.uf.MarkDifferent(a, b) {
		return false
	}
	g.log = append(g.log, change{kind: chgDiff, a: ra, b: rb})
	return true
}

// Merge unions a and b's equivalence classes. Returns false on clash
// (they are already marked different).
func (g *Graph) Merge(a, b NodeId) bool {
	if g.uf.Find(a) == g.uf.Find(b) {
		return true
	}
	pre := g.uf.snapshot()
	if !g.uf.Merge(a, b) {
		return false
	}
	g.log = append(g.log, change{kind: chgMerge, ufPre: pre})
	return true
}
