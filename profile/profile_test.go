package profile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeadmin/dlreasoner/ontology"
	"github.com/nodeadmin/dlreasoner/profile"
)

func newOnt() *ontology.Ontology { return ontology.New() }

func class(o *ontology.Ontology, name string) ontology.ExprID {
	return o.Exprs.Class(o.Interner.Intern(name))
}

func role(o *ontology.Ontology, name string) ontology.RoleExpr {
	return ontology.RoleExpr{Prop: o.Interner.Intern(name)}
}

// TestELAcceptsExistentialConjunction checks the tractable core of EL++:
// A ⊓ ∃r.B ⊑ C must pass with no violations.
func TestELAcceptsExistentialConjunction(t *testing.T) {
	o := newOnt()
	a, b, c := class(o, "A"), class(o, "B"), class(o, "C")
	r := role(o, "r")
	sub := o.Exprs.And(a, o.Exprs.Some(r, b))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: sub, Sup: c}))

	assert.True(t, profile.InProfile(o, profile.EL))
}

// TestELRejectsUniversalRestriction checks that ∀r.B triggers a
// violation naming the forbidden constructor.
func TestELRejectsUniversalRestriction(t *testing.T) {
	o := newOnt()
	a, b := class(o, "A"), class(o, "B")
	r := role(o, "r")
	sup := o.Exprs.All(r, b)
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: a, Sup: sup}))

	violations := profile.Check(o, profile.EL)
	require.Len(t, violations, 1)
	assert.Equal(t, ontology.AxSubClassOf, violations[0].AxiomKind)
}

// TestELRejectsCardinalityRestriction checks that ≥n triggers a
// violation.
func TestELRejectsCardinalityRestriction(t *testing.T) {
	o := newOnt()
	a, b := class(o, "A"), class(o, "B")
	r := role(o, "r")
	sup := o.Exprs.MinN(2, r, b)
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: a, Sup: sup}))

	assert.False(t, profile.InProfile(o, profile.EL))
}

// TestELAllowsDisjointClassesAxiom checks that spec.md §4.8's carve-out
// ("¬ except as class disjointness") means a DisjointClasses axiom over
// plain class names is not itself a violation.
func TestELAllowsDisjointClassesAxiom(t *testing.T) {
	o := newOnt()
	a, b := class(o, "A"), class(o, "B")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxDisjointClasses, Classes: []ontology.ExprID{a, b}}))

	assert.True(t, profile.InProfile(o, profile.EL))
}

// TestELRejectsInverseRole checks that an InverseProperties axiom is
// flagged, since EL++ forbids inverse roles entirely.
func TestELRejectsInverseRole(t *testing.T) {
	o := newOnt()
	r, s := role(o, "r"), role(o, "s")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxInverseProperties, Prop: r, Prop2: s}))

	assert.False(t, profile.InProfile(o, profile.EL))
}

// TestRLAcceptsDisjunctionOnSubclassSide checks that A ⊔ B ⊑ C is
// RL-valid: disjunction is permitted on the left-hand side only.
func TestRLAcceptsDisjunctionOnSubclassSide(t *testing.T) {
	o := newOnt()
	a, b, c := class(o, "A"), class(o, "B"), class(o, "C")
	sub := o.Exprs.Or(a, b)
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: sub, Sup: c}))

	assert.True(t, profile.InProfile(o, profile.RL))
}

// TestRLRejectsDisjunctionOnSuperclassSide checks that C ⊑ A ⊔ B is not
// RL-valid: disjunction is not permitted in superclass position.
func TestRLRejectsDisjunctionOnSuperclassSide(t *testing.T) {
	o := newOnt()
	a, b, c := class(o, "A"), class(o, "B"), class(o, "C")
	sup := o.Exprs.Or(a, b)
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: c, Sup: sup}))

	violations := profile.Check(o, profile.RL)
	require.Len(t, violations, 1)
}

// TestRLAcceptsUnqualifiedMaxOne checks that ≤1 r.⊤ is permitted in
// superclass position, the one cardinality shape RL retains.
func TestRLAcceptsUnqualifiedMaxOne(t *testing.T) {
	o := newOnt()
	a := class(o, "A")
	r := role(o, "r")
	sup := o.Exprs.MaxN(1, r, ontology.Top)
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: a, Sup: sup}))

	assert.True(t, profile.InProfile(o, profile.RL))
}

// TestRLRejectsGeneralMaxCardinality checks that ≤2 r.C is rejected: RL
// only tolerates the at-most-0/1 case.
func TestRLRejectsGeneralMaxCardinality(t *testing.T) {
	o := newOnt()
	a, c := class(o, "A"), class(o, "C")
	r := role(o, "r")
	sup := o.Exprs.MaxN(2, r, c)
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: a, Sup: sup}))

	assert.False(t, profile.InProfile(o, profile.RL))
}
