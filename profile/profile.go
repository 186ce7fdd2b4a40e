// Package profile implements L8 of spec.md §2: a purely syntactic scan
// over an ontology's axioms reporting whether it falls inside the OWL 2
// EL++ or OWL 2 RL tractable fragments (spec.md §4.8). Both checkers are
// stateless and idempotent — they read an *ontology.Ontology and never
// mutate it.
//
// Grounded in original_source/src/profiles/{el,rl}/mod.rs, which splits
// each profile into a validator and an optimization concern; per
// SPEC_FULL.md §4 we keep the validator half here and fold the
// optimization half into classify (an EL-valid ontology lets the
// classification cache prefer completion-rule saturation).
package profile

import (
	"fmt"

	"github.com/nodeadmin/dlreasoner/ontology"
)

// Profile names one of the two supported tractable fragments.
type Profile uint8

const (
	EL Profile = iota
	RL
)

func (p Profile) String() string {
	if p == EL {
		return "EL"
	}
	return "RL"
}

// Violation reports one axiom that falls outside a profile, naming the
// axiom's position in the ontology's per-kind list and the syntactic
// rule it broke (spec.md §4.8 "ProfileViolation{axiom_id, rule}").
type Violation struct {
	AxiomKind  ontology.AxiomKind
	AxiomIndex int
	Rule       string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s[%d]: %s", v.AxiomKind, v.AxiomIndex, v.Rule)
}

// Check scans every axiom in o against p's syntactic restrictions,
// returning the (possibly empty) list of violations. An empty result
// means o is InProfile per spec.md §4.8.
func Check(o *ontology.Ontology, p Profile) []Violation {
	if p == EL {
		return checkEL(o)
	}
	return checkRL(o)
}

// InProfile is a convenience wrapper: true iff Check reports nothing.
func InProfile(o *ontology.Ontology, p Profile) bool {
	return len(Check(o, p)) == 0
}

// allKinds enumerates every AxiomKind so a checker can walk o.Axioms(k)
// per kind and report violations indexed the same way
// ontology.Ontology.Axioms does (spec.md §4.8 "axiom_id").
var allKinds = []ontology.AxiomKind{
	ontology.AxSubClassOf, ontology.AxEquivalentClasses, ontology.AxDisjointClasses,
	ontology.AxDisjointUnion, ontology.AxSubObjectPropertyOf, ontology.AxSubDataPropertyOf,
	ontology.AxEquivalentObjectProperties, ontology.AxEquivalentDataProperties,
	ontology.AxInverseProperties, ontology.AxObjectPropertyDomain, ontology.AxObjectPropertyRange,
	ontology.AxDataPropertyDomain, ontology.AxDataPropertyRange, ontology.AxPropertyChain,
	ontology.AxFunctional, ontology.AxInverseFunctional, ontology.AxTransitive,
	ontology.AxSymmetric, ontology.AxAsymmetric, ontology.AxReflexive, ontology.AxIrreflexive,
	ontology.AxClassAssertion, ontology.AxObjectPropertyAssertion,
	ontology.AxNegativeObjectPropertyAssertion, ontology.AxDataPropertyAssertion,
	ontology.AxNegativeDataPropertyAssertion, ontology.AxSameIndividual, ontology.AxDifferentIndividuals,
}
