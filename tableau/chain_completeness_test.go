package tableau_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeadmin/dlreasoner/ontology"
	"github.com/nodeadmin/dlreasoner/tableau"
)

// TestAllRulePropagatesThroughTransitiveSubRole is the property-chain
// completeness regression named in SPEC_FULL.md §14: s declared a
// sub-role of the transitive role r must let ∀r.C reach a node two hops
// away even when the first hop is only asserted via s, not r itself.
func TestAllRulePropagatesThroughTransitiveSubRole(t *testing.T) {
	o := newFixture()
	c := class(o, "C")
	r, s := role(o, "r"), role(o, "s")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxTransitive, Prop: r}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubObjectPropertyOf, Prop: s, Prop2: r}))

	e, g := newEngine(o)
	root := g.AddNode(tableau.KindRootIndividual)
	y := g.AddNode(tableau.KindRootIndividual)
	z := g.AddNode(tableau.KindRootIndividual)
	g.AddEdge(root, s, y, nil) // s ⊑ r, so this edge counts as an r-edge too
	g.AddEdge(y, r, z, nil)
	g.AddLabel(root, o.Exprs.All(r, c), nil)

	consistent, limit := e.Saturate()
	require.Equal(t, tableau.LimitNone, limit)
	require.True(t, consistent)
	assert.True(t, g.HasLabel(y, c), "the s-edge must be read as an r-edge via sub-role closure")
	assert.True(t, g.HasLabel(z, c), "C must still propagate two hops through r's transitive closure")
}

// TestAllRulePropagatesThroughRoleChain checks that a property chain
// r∘s ⊑ t, combined with ∀t.C on the root, forces C onto the node
// reached by following r then s.
func TestAllRulePropagatesThroughRoleChain(t *testing.T) {
	o := newFixture()
	c := class(o, "C")
	r, s, tr := role(o, "r"), role(o, "s"), role(o, "t")
	require.NoError(t, o.AddAxiom(ontology.Axiom{
		Kind:       ontology.AxPropertyChain,
		ChainLeft:  []ontology.RoleExpr{r, s},
		ChainRight: tr,
	}))

	e, g := newEngine(o)
	root := g.AddNode(tableau.KindRootIndividual)
	y := g.AddNode(tableau.KindRootIndividual)
	z := g.AddNode(tableau.KindRootIndividual)
	g.AddEdge(root, r, y, nil)
	g.AddEdge(y, s, z, nil)
	g.AddLabel(root, o.Exprs.All(tr, c), nil)

	consistent, limit := e.Saturate()
	require.Equal(t, tableau.LimitNone, limit)
	require.True(t, consistent)
	assert.True(t, g.HasLabel(z, c), "the chained r∘s edge must be read as a t-edge")
}
