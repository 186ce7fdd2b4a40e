package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeadmin/dlreasoner/classify"
	"github.com/nodeadmin/dlreasoner/ontology"
)

func newELOnt() *ontology.Ontology { return ontology.New() }

func elClass(o *ontology.Ontology, name string) ontology.ExprID {
	return o.Exprs.Class(o.Interner.Intern(name))
}

func elRole(o *ontology.Ontology, name string) ontology.RoleExpr {
	return ontology.RoleExpr{Prop: o.Interner.Intern(name)}
}

// TestELIndexTransitiveSubClassOf checks CR1: A ⊑ B, B ⊑ C implies A ⊑ C.
func TestELIndexTransitiveSubClassOf(t *testing.T) {
	o := newELOnt()
	a, b, c := elClass(o, "A"), elClass(o, "B"), elClass(o, "C")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: a, Sup: b}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: b, Sup: c}))

	idx, err := classify.BuildELIndex(o)
	require.NoError(t, err)

	aIRI := o.Interner.Intern("A")
	cIRI := o.Interner.Intern("C")
	assert.True(t, idx.IsSubClassOf(aIRI, cIRI))
}

// TestELIndexConjunction checks CR2: A ⊑ X, A ⊑ Y, X ⊓ Y ⊑ B implies A ⊑ B.
func TestELIndexConjunction(t *testing.T) {
	o := newELOnt()
	a, x, y, b := elClass(o, "A"), elClass(o, "X"), elClass(o, "Y"), elClass(o, "B")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: a, Sup: x}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: a, Sup: y}))
	conj := o.Exprs.And(x, y)
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: conj, Sup: b}))

	idx, err := classify.BuildELIndex(o)
	require.NoError(t, err)

	assert.True(t, idx.IsSubClassOf(o.Interner.Intern("A"), o.Interner.Intern("B")))
}

// TestELIndexExistentialRight checks CR3/CR4: A ⊑ ∃r.B, ∃r.B ⊑ C implies A ⊑ C.
func TestELIndexExistentialRight(t *testing.T) {
	o := newELOnt()
	a, b, c := elClass(o, "A"), elClass(o, "B"), elClass(o, "C")
	r := elRole(o, "r")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: a, Sup: o.Exprs.Some(r, b)}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: o.Exprs.Some(r, b), Sup: c}))

	idx, err := classify.BuildELIndex(o)
	require.NoError(t, err)

	assert.True(t, idx.IsSubClassOf(o.Interner.Intern("A"), o.Interner.Intern("C")))
}

// TestELIndexRoleChain checks CR11: r∘s ⊑ t propagates ∃r.(∃s.B) into
// A ⊑ ∃t.B when A ⊑ ∃r.X and X ⊑ ∃s.B both hold.
func TestELIndexRoleChain(t *testing.T) {
	o := newELOnt()
	a, xc, b := elClass(o, "A"), elClass(o, "X"), elClass(o, "B")
	r, s, tr := elRole(o, "r"), elRole(o, "s"), elRole(o, "t")

	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: a, Sup: o.Exprs.Some(r, xc)}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: xc, Sup: o.Exprs.Some(s, b)}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{
		Kind:      ontology.AxPropertyChain,
		ChainLeft: []ontology.RoleExpr{r, s},
		ChainRight: tr,
	}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: o.Exprs.Some(tr, b), Sup: elClass(o, "C")}))

	idx, err := classify.BuildELIndex(o)
	require.NoError(t, err)

	assert.True(t, idx.IsSubClassOf(o.Interner.Intern("A"), o.Interner.Intern("C")))
}

// TestELIndexRoleSubsumption checks CR10: r ⊑ s, A ⊑ ∃r.B, ∃s.B ⊑ C
// implies A ⊑ C.
func TestELIndexRoleSubsumption(t *testing.T) {
	o := newELOnt()
	a, b, c := elClass(o, "A"), elClass(o, "B"), elClass(o, "C")
	r, s := elRole(o, "r"), elRole(o, "s")

	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: a, Sup: o.Exprs.Some(r, b)}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubObjectPropertyOf, Prop: r, Prop2: s}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: o.Exprs.Some(s, b), Sup: c}))

	idx, err := classify.BuildELIndex(o)
	require.NoError(t, err)

	assert.True(t, idx.IsSubClassOf(o.Interner.Intern("A"), o.Interner.Intern("C")))
}

// TestELIndexUnsatisfiablePropagatesBottom checks that ⊥ propagates
// along told subsumptions (CR1): A ⊑ B, B ⊑ ⊥ makes A unsatisfiable.
func TestELIndexUnsatisfiablePropagatesBottom(t *testing.T) {
	o := newELOnt()
	a, b := elClass(o, "A"), elClass(o, "B")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: a, Sup: b}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: b, Sup: ontology.Bottom}))

	idx, err := classify.BuildELIndex(o)
	require.NoError(t, err)

	assert.False(t, idx.Satisfiable(o.Interner.Intern("A")))
}

// TestELIndexUnrelatedClassesNotSubsumed is the negative control: two
// classes with no asserted or derivable relationship must not subsume.
func TestELIndexUnrelatedClassesNotSubsumed(t *testing.T) {
	o := newELOnt()
	elClass(o, "A")
	elClass(o, "B")
	// No axioms at all; both must still satisfy profile.InProfile trivially.
	idx, err := classify.BuildELIndex(o)
	require.NoError(t, err)

	assert.False(t, idx.IsSubClassOf(o.Interner.Intern("A"), o.Interner.Intern("B")))
	assert.True(t, idx.Satisfiable(o.Interner.Intern("A")))
}
