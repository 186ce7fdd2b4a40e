package tableau_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeadmin/dlreasoner/normalize"
	"github.com/nodeadmin/dlreasoner/ontology"
	"github.com/nodeadmin/dlreasoner/tableau"
)

func newFixture() *ontology.Ontology {
	return ontology.New()
}

func role(o *ontology.Ontology, name string) ontology.RoleExpr {
	return ontology.RoleExpr{Prop: o.Interner.Intern(name)}
}

func class(o *ontology.Ontology, name string) ontology.ExprID {
	return o.Exprs.Class(o.Interner.Intern(name))
}

func newEngine(o *ontology.Ontology) (*tableau.Engine, *tableau.Graph) {
	tb := normalize.Normalize(o)
	g := tableau.NewGraph(o.Exprs)
	e := tableau.NewEngine(g, tb, map[ontology.Individual]tableau.NodeId{}, tableau.Config{
		MaxDepth: 10000,
		Blocking: tableau.BlockEquality,
	})
	return e, g
}

// TestExistentialGeneratesWitness exercises the ∃ rule: A ⊑ ∃r.B plus a
// root asserted A must saturate to a consistent tableau with an
// r-successor carrying B.
func TestExistentialGeneratesWitness(t *testing.T) {
	o := newFixture()
	a, b, r := class(o, "A"), class(o, "B"), role(o, "r")
	require.NoError(t, o.AddAxiom(ontology.Axiom{
		Kind: ontology.AxSubClassOf,
		Sub:  a,
		Sup:  o.Exprs.Some(r, b),
	}))

	e, g := newEngine(o)
	root := g.AddNode(tableau.KindRootIndividual)
	g.AddLabel(root, a, nil)

	consistent, limit := e.Saturate()
	require.Equal(t, tableau.LimitNone, limit)
	assert.True(t, consistent)

	found := false
	for _, y := range g.Neighbours(root, r) {
		if g.HasLabel(y, b) {
			found = true
		}
	}
	assert.True(t, found, "expected an r-successor labelled B")
}

// TestDirectClashIsInconsistent asserts {A,¬A} directly on one node and
// expects Saturate to report inconsistency (spec.md §4.3 clash rule).
func TestDirectClashIsInconsistent(t *testing.T) {
	o := newFixture()
	a := class(o, "A")
	notA := o.Exprs.Not(a)

	e, g := newEngine(o)
	root := g.AddNode(tableau.KindRootIndividual)
	g.AddLabel(root, a, nil)
	g.AddLabel(root, notA, nil)

	consistent, limit := e.Saturate()
	require.Equal(t, tableau.LimitNone, limit)
	assert.False(t, consistent)
}

// TestDisjointClassesForcesClash checks DisjointClasses(A,B) rejects an
// individual asserted as both.
func TestDisjointClassesForcesClash(t *testing.T) {
	o := newFixture()
	a, b := class(o, "A"), class(o, "B")
	require.NoError(t, o.AddAxiom(ontology.Axiom{
		Kind:    ontology.AxDisjointClasses,
		Classes: []ontology.ExprID{a, b},
	}))

	e, g := newEngine(o)
	root := g.AddNode(tableau.KindRootIndividual)
	g.AddLabel(root, a, nil)
	g.AddLabel(root, b, nil)

	consistent, _ := e.Saturate()
	assert.False(t, consistent)
}

// TestDisjunctionChoosesSatisfiableBranch exercises the ⊔ rule:
// A ⊔ B on the root, with the root also asserted ¬A, should force the
// A-branch to fail and the B-branch to succeed so the tableau remains
// consistent.
func TestDisjunctionChoosesSatisfiableBranch(t *testing.T) {
	o := newFixture()
	a, b := class(o, "A"), class(o, "B")

	e, g := newEngine(o)
	root := g.AddNode(tableau.KindRootIndividual)
	g.AddLabel(root, o.Exprs.Or(a, b), nil)
	g.AddLabel(root, o.Exprs.Not(a), nil)

	consistent, limit := e.Saturate()
	require.Equal(t, tableau.LimitNone, limit)
	assert.True(t, consistent)
	assert.True(t, g.HasLabel(root, b), "only the B branch is satisfiable")
}

// TestTransitivePropagationAcrossTwoHops is the property-chain
// completeness regression: ∀r.C on the root, r declared Transitive,
// root-r->y-r->z must still end with C on z two hops away, not only on
// the immediate successor y.
func TestTransitivePropagationAcrossTwoHops(t *testing.T) {
	o := newFixture()
	c := class(o, "C")
	r := role(o, "r")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxTransitive, Prop: r}))

	e, g := newEngine(o)
	root := g.AddNode(tableau.KindRootIndividual)
	y := g.AddNode(tableau.KindRootIndividual)
	z := g.AddNode(tableau.KindRootIndividual)
	g.AddEdge(root, r, y, nil)
	g.AddEdge(y, r, z, nil)
	g.AddLabel(root, o.Exprs.All(r, c), nil)

	consistent, limit := e.Saturate()
	require.Equal(t, tableau.LimitNone, limit)
	require.True(t, consistent)
	assert.True(t, g.HasLabel(y, c), "immediate successor should carry C")
	assert.True(t, g.HasLabel(z, c), "C must propagate through the transitive role to the second hop")
}

// TestMaxNForcesMerge checks that a ≤1 r.C restriction merges two
// distinct-but-not-marked-different r-successors both carrying C.
func TestMaxNForcesMerge(t *testing.T) {
	o := newFixture()
	c := class(o, "C")
	r := role(o, "r")

	e, g := newEngine(o)
	root := g.AddNode(tableau.KindRootIndividual)
	y1 := g.AddNode(tableau.KindGenerated)
	y2 := g.AddNode(tableau.KindGenerated)
	g.AddEdge(root, r, y1, nil)
	g.AddEdge(root, r, y2, nil)
	g.AddLabel(y1, c, nil)
	g.AddLabel(y2, c, nil)
	g.AddLabel(root, o.Exprs.MaxN(1, r, c), nil)

	consistent, limit := e.Saturate()
	require.Equal(t, tableau.LimitNone, limit)
	require.True(t, consistent)
	assert.True(t, g.SameNode(y1, y2), "the ≤1 restriction must merge the two witnesses")
}

// TestMaxNOverflowClashes checks that a ≤1 r.C restriction over two
// successors already marked pairwise different is a genuine clash, not
// a choice.
func TestMaxNOverflowClashes(t *testing.T) {
	o := newFixture()
	c := class(o, "C")
	r := role(o, "r")

	e, g := newEngine(o)
	root := g.AddNode(tableau.KindRootIndividual)
	y1 := g.AddNode(tableau.KindGenerated)
	y2 := g.AddNode(tableau.KindGenerated)
	g.AddEdge(root, r, y1, nil)
	g.AddEdge(root, r, y2, nil)
	g.AddLabel(y1, c, nil)
	g.AddLabel(y2, c, nil)
	g.AddLabel(root, o.Exprs.MaxN(1, r, c), nil)
	require.True(t, g.MarkDifferent(y1, y2))

	consistent, _ := e.Saturate()
	assert.False(t, consistent)
}

// TestFunctionalPropertyMergesSuccessors checks that a Functional role
// merges two successors it reaches, the way an ExactN(1) restriction
// would, without any cardinality axiom present.
func TestFunctionalPropertyMergesSuccessors(t *testing.T) {
	o := newFixture()
	r := role(o, "r")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxFunctional, Prop: r}))

	e, g := newEngine(o)
	root := g.AddNode(tableau.KindRootIndividual)
	y1 := g.AddNode(tableau.KindGenerated)
	y2 := g.AddNode(tableau.KindGenerated)
	g.AddEdge(root, r, y1, nil)
	g.AddEdge(root, r, y2, nil)

	consistent, _ := e.Saturate()
	assert.True(t, consistent)
	assert.True(t, g.SameNode(y1, y2))
}
