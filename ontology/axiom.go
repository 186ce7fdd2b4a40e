package ontology

import (
	"fmt"

	"github.com/nodeadmin/dlreasoner/iri"
	"github.com/nodeadmin/dlreasoner/rerr"
)

// AxiomKind enumerates every axiom shape spec.md §3 names.
type AxiomKind uint8

const (
	AxSubClassOf AxiomKind = iota
	AxEquivalentClasses
	AxDisjointClasses
	AxDisjointUnion

	AxSubObjectPropertyOf
	AxSubDataPropertyOf
	AxEquivalentObjectProperties
	AxEquivalentDataProperties
	AxInverseProperties
	AxObjectPropertyDomain
	AxObjectPropertyRange
	AxDataPropertyDomain
	AxDataPropertyRange
	AxPropertyChain

	AxFunctional
	AxInverseFunctional
	AxTransitive
	AxSymmetric
	AxAsymmetric
	AxReflexive
	AxIrreflexive

	AxClassAssertion
	AxObjectPropertyAssertion
	AxNegativeObjectPropertyAssertion
	AxDataPropertyAssertion
	AxNegativeDataPropertyAssertion
	AxSameIndividual
	AxDifferentIndividuals
)

func (k AxiomKind) String() string {
	names := [...]string{
		"SubClassOf", "EquivalentClasses", "DisjointClasses", "DisjointUnion",
		"SubObjectPropertyOf", "SubDataPropertyOf", "EquivalentObjectProperties",
		"EquivalentDataProperties", "InverseProperties", "ObjectPropertyDomain",
		"ObjectPropertyRange", "DataPropertyDomain", "DataPropertyRange", "PropertyChain",
		"Functional", "InverseFunctional", "Transitive", "Symmetric", "Asymmetric",
		"Reflexive", "Irreflexive", "ClassAssertion", "ObjectPropertyAssertion",
		"NegativeObjectPropertyAssertion", "DataPropertyAssertion",
		"NegativeDataPropertyAssertion", "SameIndividual", "DifferentIndividuals",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// AnonID tags an anonymous individual (a blank node) with a fresh local
// id, minted from github.com/google/uuid the way both 2lar-b2/backend and
// theRebelliousNerd-codenerd mint entity ids — see SPEC_FULL.md §11.
type AnonID string

// Individual is either a named individual (an IRI) or an anonymous one.
type Individual struct {
	Named iri.IRI
	Anon  AnonID
	IsAnon bool
}

func NamedIndividual(id iri.IRI) Individual { return Individual{Named: id} }
func AnonymousIndividual(id AnonID) Individual { return Individual{Anon: id, IsAnon: true} }

func (i Individual) String() string {
	if i.IsAnon {
		return "_:" + string(i.Anon)
	}
	return fmt.Sprintf("iri(%d)", i.Named)
}

// Axiom is a single ontology axiom. Only the fields relevant to Kind are
// populated.
type Axiom struct {
	Kind AxiomKind

	// Class-axiom fields (SubClassOf, EquivalentClasses, DisjointClasses,
	// DisjointUnion). Sub/Sup used for SubClassOf (Sub ⊑ Sup); Classes
	// used for the n-ary variants; DisjointUnion also puts its united
	// class in Sub.
	Sub, Sup ExprID
	Classes  []ExprID

	// Property-axiom fields.
	Prop, Prop2 RoleExpr
	Props       []RoleExpr
	ChainLeft   []RoleExpr // PropertyChain: r1∘..∘rn ⊑ ChainRight
	ChainRight  RoleExpr
	Domain      ExprID
	Range       ExprID
	DataProp    iri.IRI
	DataDomain  ExprID
	DataRangeTy DataRange

	// ABox fields.
	Individual  Individual
	Individual2 Individual
	ClassExpr   ExprID
	ObjectProp  RoleExpr
	DataPropA   iri.IRI
	Literal     Literal
	Individuals []Individual // SameIndividual / DifferentIndividuals
}

// AxiomSource is the abstract axiom stream the core consumes (spec.md §6):
// concrete-syntax parsers are external collaborators that deliver axioms
// already IRI-interned through this interface.
type AxiomSource interface {
	// Next returns the next axiom, ok=false at end of stream, or an error
	// if the source itself failed (a MalformedAxiom from a parser, for
	// instance, travels through here rather than through Ontology.AddAxiom).
	Next() (Axiom, bool, error)
}

// validate checks structural well-formedness independent of any index,
// per spec.md §4.1 "Error conditions".
func (a Axiom) validate() error {
	switch a.Kind {
	case AxFunctional, AxInverseFunctional, AxTransitive, AxSymmetric,
		AxAsymmetric, AxReflexive, AxIrreflexive:
		// no arity to check
	case AxPropertyChain:
		if len(a.ChainLeft) == 0 {
			return rerr.MalformedAxiom.New("property chain with empty body")
		}
	}
	return nil
}
