package profile

import (
	"github.com/nodeadmin/dlreasoner/ontology"
)

// checkRL scans every axiom against the OWL 2 RL syntactic shape rules
// (spec.md §4.8 "restricts axiom shapes based on the position of the
// class expression"). Subclass position (the Sub side of SubClassOf, or
// a conjunct nested there) and superclass position (the Sup side, or a
// ClassAssertion's type) admit different constructor sets; this is a
// simplified rendering of the OWL 2 RL Table 3/4 restrictions, covering
// the shapes spec.md's data model actually supports.
func checkRL(o *ontology.Ontology) []Violation {
	var out []Violation
	for _, kind := range allKinds {
		for idx, ax := range o.Axioms(kind) {
			out = append(out, checkRLAxiom(o, kind, idx, ax)...)
		}
	}
	return out
}

func checkRLAxiom(o *ontology.Ontology, kind ontology.AxiomKind, idx int, ax ontology.Axiom) []Violation {
	var out []Violation
	add := func(rule string) {
		out = append(out, Violation{AxiomKind: kind, AxiomIndex: idx, Rule: rule})
	}

	switch kind {
	case ontology.AxSubClassOf:
		if !subclassShapeOK(o.Exprs, ax.Sub) {
			add("left-hand side uses a constructor not permitted in subclass position")
		}
		if !superclassShapeOK(o.Exprs, ax.Sup) {
			add("right-hand side uses a constructor not permitted in superclass position")
		}
	case ontology.AxEquivalentClasses:
		// Equivalence requires both directions to hold, so each operand
		// must be valid in both positions simultaneously.
		for _, c := range ax.Classes {
			if !subclassShapeOK(o.Exprs, c) || !superclassShapeOK(o.Exprs, c) {
				add("equivalence operand uses a constructor not permitted on either side of RL subsumption")
			}
		}
	case ontology.AxDisjointClasses, ontology.AxDisjointUnion:
		for _, c := range ax.Classes {
			if !subclassShapeOK(o.Exprs, c) {
				add("disjointness operand uses a constructor not permitted in subclass position")
			}
		}
	case ontology.AxClassAssertion:
		if !superclassShapeOK(o.Exprs, ax.ClassExpr) {
			add("class assertion type uses a constructor not permitted in RL")
		}
	case ontology.AxObjectPropertyDomain:
		if !superclassShapeOK(o.Exprs, ax.Domain) {
			add("property domain uses a constructor not permitted in RL")
		}
	case ontology.AxObjectPropertyRange:
		if !superclassShapeOK(o.Exprs, ax.Range) {
			add("property range uses a constructor not permitted in RL")
		}
	}
	return out
}

// subclassShapeOK reports whether id is built only from constructors
// OWL 2 RL allows on the subsumed (left-hand) side: class names,
// conjunction, disjunction, qualified existential, nominals, value
// restrictions, and self restriction. Universal and general cardinality
// restrictions are superclass-only constructs.
func subclassShapeOK(t *ontology.ExprTable, id ontology.ExprID) bool {
	e := t.Get(id)
	switch e.Kind {
	case ontology.ExprTop, ontology.ExprBottom, ontology.ExprClass, ontology.ExprOneOf,
		ontology.ExprHasValue, ontology.ExprHasSelf, ontology.ExprDataSome, ontology.ExprDataHasValue:
		return true
	case ontology.ExprAnd, ontology.ExprOr:
		for _, o2 := range e.Operands {
			if !subclassShapeOK(t, o2) {
				return false
			}
		}
		return true
	case ontology.ExprSome:
		return subclassShapeOK(t, e.Filler)
	default:
		return false
	}
}

// superclassShapeOK reports whether id is built only from constructors
// OWL 2 RL allows on the subsuming (right-hand) side: class names,
// conjunction, qualified existential/universal, value restrictions, and
// an at-most-0/1 restriction (its filler is not checked). Disjunction
// and nominals are
// subclass-only constructs on this side.
func superclassShapeOK(t *ontology.ExprTable, id ontology.ExprID) bool {
	e := t.Get(id)
	switch e.Kind {
	case ontology.ExprTop, ontology.ExprBottom, ontology.ExprClass,
		ontology.ExprHasValue, ontology.ExprHasSelf, ontology.ExprDataSome,
		ontology.ExprDataAll, ontology.ExprDataHasValue:
		return true
	case ontology.ExprAnd:
		for _, o2 := range e.Operands {
			if !superclassShapeOK(t, o2) {
				return false
			}
		}
		return true
	case ontology.ExprSome, ontology.ExprAll:
		return superclassShapeOK(t, e.Filler)
	case ontology.ExprMaxN:
		return e.N <= 1
	case ontology.ExprDataMaxN:
		return e.N <= 1
	default:
		return false
	}
}
