package reasoner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeadmin/dlreasoner/classify"
	"github.com/nodeadmin/dlreasoner/ontology"
	"github.com/nodeadmin/dlreasoner/reasoner"
)

func newOnt() *ontology.Ontology { return ontology.New() }

func class(o *ontology.Ontology, name string) ontology.ExprID {
	return o.Exprs.Class(o.Interner.Intern(name))
}

func role(o *ontology.Ontology, name string) ontology.RoleExpr {
	return ontology.RoleExpr{Prop: o.Interner.Intern(name)}
}

func individual(o *ontology.Ontology, name string) ontology.Individual {
	return ontology.NamedIndividual(o.Interner.Intern(name))
}

func newTestReasoner(t *testing.T, o *ontology.Ontology) *reasoner.Reasoner {
	t.Helper()
	r, err := reasoner.New(o, reasoner.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// TestFamilyTaxonomy is spec.md §8 scenario 1: Father ⊑ Parent ⊑ Person,
// Father ⊑ Male, with Male left unrelated to Person.
func TestFamilyTaxonomy(t *testing.T) {
	o := newOnt()
	person, parent, father, male := class(o, "Person"), class(o, "Parent"), class(o, "Father"), class(o, "Male")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: parent, Sup: person}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: father, Sup: parent}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: father, Sup: male}))

	r := newTestReasoner(t, o)
	ctx := context.Background()

	holds, err := r.IsSubClassOf(ctx, father, person)
	require.NoError(t, err)
	assert.True(t, holds, "Father should be entailed a subclass of Person")

	holds, err = r.IsSubClassOf(ctx, male, person)
	require.NoError(t, err)
	assert.False(t, holds, "Male has no asserted or derivable relation to Person")
}

// TestClarkKentSuperman is spec.md §8 scenario 2: SameIndividual merges
// ClarkKent and Superman onto one tableau node, so both IRIs must appear
// in instances_of(∃hasPower.{Flight}).
func TestClarkKentSuperman(t *testing.T) {
	o := newOnt()
	clarkKent := individual(o, "ClarkKent")
	superman := individual(o, "Superman")
	flight := o.Interner.Intern("Flight")
	hasPower := role(o, "hasPower")

	require.NoError(t, o.AddAxiom(ontology.Axiom{
		Kind:        ontology.AxSameIndividual,
		Individuals: []ontology.Individual{clarkKent, superman},
	}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{
		Kind:       ontology.AxObjectPropertyAssertion,
		Individual: clarkKent, Individual2: ontology.NamedIndividual(flight),
		ObjectProp: hasPower,
	}))

	r := newTestReasoner(t, o)
	ctx := context.Background()

	canFly := o.Exprs.HasValue(hasPower, flight)
	instances, err := r.InstancesOf(ctx, canFly)
	require.NoError(t, err)

	assert.Contains(t, instances, clarkKent)
	assert.Contains(t, instances, superman)
}

// TestSpidermanParadox is spec.md §8 scenario 3: two SameIndividual
// chains collapse three names onto one canonical individual while a
// DifferentIndividuals axiom forbids exactly that merge.
func TestSpidermanParadox(t *testing.T) {
	o := newOnt()
	peter := individual(o, "PeterParker")
	spiderman := individual(o, "Spiderman")
	miles := individual(o, "MilesMorales")

	require.NoError(t, o.AddAxiom(ontology.Axiom{
		Kind:        ontology.AxSameIndividual,
		Individuals: []ontology.Individual{peter, spiderman},
	}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{
		Kind:        ontology.AxSameIndividual,
		Individuals: []ontology.Individual{miles, spiderman},
	}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{
		Kind:        ontology.AxDifferentIndividuals,
		Individuals: []ontology.Individual{peter, miles},
	}))

	r := newTestReasoner(t, o)
	consistent, err := r.IsConsistent(context.Background())
	require.NoError(t, err)
	assert.False(t, consistent, "same(a,b) ∧ different(a,b) must clash")
}

// TestTransitiveAncestorOf is spec.md §8 scenario 4: a declared
// Transitive(ancestorOf) role must let instances_of(∃ancestorOf.{c})
// pick up the indirect ancestor a via the b hop.
func TestTransitiveAncestorOf(t *testing.T) {
	o := newOnt()
	a, b, c := individual(o, "a"), individual(o, "b"), individual(o, "c")
	ancestorOf := role(o, "ancestorOf")

	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxTransitive, Prop: ancestorOf}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{
		Kind: ontology.AxObjectPropertyAssertion, Individual: a, Individual2: b, ObjectProp: ancestorOf,
	}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{
		Kind: ontology.AxObjectPropertyAssertion, Individual: b, Individual2: c, ObjectProp: ancestorOf,
	}))

	r := newTestReasoner(t, o)
	ctx := context.Background()

	cIRI := c.Named
	hasAncestorC := o.Exprs.HasValue(ancestorOf, cIRI)
	instances, err := r.InstancesOf(ctx, hasAncestorC)
	require.NoError(t, err)
	assert.Contains(t, instances, a, "ancestorOf must propagate transitively from b to a")
}

// TestDisjointWithDisjunction is spec.md §8 scenario 5: ⊤ ⊑ A ⊔ B forces
// every individual into A or B; asserting A ⊑ C, A ⊑ D with C and D
// disjoint only closes the A branch, so the tableau must backtrack to B
// and the ontology stays consistent.
func TestDisjointWithDisjunction(t *testing.T) {
	o := newOnt()
	a, b, c, d := class(o, "A"), class(o, "B"), class(o, "C"), class(o, "D")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: ontology.Top, Sup: o.Exprs.Or(a, b)}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: a, Sup: c}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: a, Sup: d}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxDisjointClasses, Classes: []ontology.ExprID{c, d}}))

	ind := individual(o, "x")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxClassAssertion, Individual: ind, ClassExpr: ontology.Top}))

	r := newTestReasoner(t, o)
	consistent, err := r.IsConsistent(context.Background())
	require.NoError(t, err)
	assert.True(t, consistent, "backtracking must select the B disjunct once A clashes")
}

// TestCardinalityWithDisjunction is spec.md §8 scenario 6: A's branch is
// closed off by a 0-cardinality restriction on r while every individual
// needs at least one r-successor, so B must be forced and the ontology
// stays consistent.
func TestCardinalityWithDisjunction(t *testing.T) {
	o := newOnt()
	a, b := class(o, "A"), class(o, "B")
	r := role(o, "r")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: ontology.Top, Sup: o.Exprs.Or(a, b)}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: a, Sup: o.Exprs.MaxN(0, r, ontology.Top)}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: ontology.Top, Sup: o.Exprs.MinN(1, r, ontology.Top)}))

	ind := individual(o, "x")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxClassAssertion, Individual: ind, ClassExpr: ontology.Top}))

	rs := newTestReasoner(t, o)
	consistent, err := rs.IsConsistent(context.Background())
	require.NoError(t, err)
	assert.True(t, consistent, "B must be forced once A's branch contradicts the minimum cardinality")
}

// TestSubClassReflexivity is spec.md §8's quantified invariant: every
// named class is a subclass of itself.
func TestSubClassReflexivity(t *testing.T) {
	o := newOnt()
	a := class(o, "A")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: a, Sup: a}))

	r := newTestReasoner(t, o)
	holds, err := r.IsSubClassOf(context.Background(), a, a)
	require.NoError(t, err)
	assert.True(t, holds)
}

// TestClearCachesRoundTrip is spec.md §8's round-trip invariant:
// clear_caches(); is_consistent() must equal the pre-clear answer.
func TestClearCachesRoundTrip(t *testing.T) {
	o := newOnt()
	a, b := class(o, "A"), class(o, "B")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: a, Sup: b}))

	r := newTestReasoner(t, o)
	ctx := context.Background()

	before, err := r.IsConsistent(ctx)
	require.NoError(t, err)

	require.NoError(t, r.ClearCaches())

	after, err := r.IsConsistent(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

// TestClassifyParallelMatchesSerial checks that ClassifyParallel's
// concurrently-warmed cache yields the same taxonomy as the serial
// Classify pass.
func TestClassifyParallelMatchesSerial(t *testing.T) {
	o := newOnt()
	person, parent, father := class(o, "Person"), class(o, "Parent"), class(o, "Father")
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: parent, Sup: person}))
	require.NoError(t, o.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: father, Sup: parent}))

	r1 := newTestReasoner(t, o)
	serial, err := r1.Classify(context.Background())
	require.NoError(t, err)

	o2 := newOnt()
	person2, parent2, father2 := class(o2, "Person"), class(o2, "Parent"), class(o2, "Father")
	require.NoError(t, o2.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: parent2, Sup: person2}))
	require.NoError(t, o2.AddAxiom(ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: father2, Sup: parent2}))

	r2 := newTestReasoner(t, o2)
	parallel, err := r2.ClassifyParallel(context.Background())
	require.NoError(t, err)

	assert.Equal(t, len(serial.Concepts), len(parallel.Concepts))
	parents := func(cs []classify.ClassifiedConcept) map[string][]string {
		m := map[string][]string{}
		for _, c := range cs {
			m[c.ID] = c.DirectParents
		}
		return m
	}
	assert.Equal(t, parents(serial.Concepts), parents(parallel.Concepts))
}
