package profile

import (
	"github.com/nodeadmin/dlreasoner/ontology"
)

// checkEL scans every axiom for the constructs spec.md §4.8 names as
// forbidden in EL++: universal restrictions, negation (other than the
// disjointness axiom itself), number restrictions, universal data
// ranges, and inverse roles.
func checkEL(o *ontology.Ontology) []Violation {
	var out []Violation
	for _, kind := range allKinds {
		for idx, ax := range o.Axioms(kind) {
			out = append(out, checkELAxiom(o, kind, idx, ax)...)
		}
	}
	return out
}

func checkELAxiom(o *ontology.Ontology, kind ontology.AxiomKind, idx int, ax ontology.Axiom) []Violation {
	var out []Violation
	add := func(rule string) {
		out = append(out, Violation{AxiomKind: kind, AxiomIndex: idx, Rule: rule})
	}

	checkRole := func(r ontology.RoleExpr) {
		if r.Inverse {
			add("inverse roles are not permitted in EL++")
		}
	}
	checkExpr := func(id ontology.ExprID) {
		walkExpr(o.Exprs, id, func(e ontology.Expr) {
			switch e.Kind {
			case ontology.ExprAll:
				add("universal restriction (∀) is not permitted in EL++")
			case ontology.ExprNot:
				add("negation is not permitted in EL++ except as class disjointness")
			case ontology.ExprMinN, ontology.ExprMaxN, ontology.ExprExactN:
				add("number restrictions are not permitted in EL++")
			case ontology.ExprDataAll:
				add("universal data ranges are not permitted in EL++")
			case ontology.ExprDataMinN, ontology.ExprDataMaxN, ontology.ExprDataExactN:
				add("data number restrictions are not permitted in EL++")
			}
			checkRole(e.Role)
		})
	}

	switch kind {
	case ontology.AxSubClassOf:
		checkExpr(ax.Sub)
		checkExpr(ax.Sup)
	case ontology.AxEquivalentClasses, ontology.AxDisjointUnion:
		for _, c := range ax.Classes {
			checkExpr(c)
		}
	case ontology.AxDisjointClasses:
		// DisjointClasses is EL's sanctioned form of negation (spec.md
		// §4.8 "¬ (except as class disjointness)") — the axiom itself is
		// allowed; only ¬ appearing inside a class expression is not.
		for _, c := range ax.Classes {
			checkExpr(c)
		}
	case ontology.AxObjectPropertyDomain:
		checkExpr(ax.Domain)
		checkRole(ax.Prop)
	case ontology.AxObjectPropertyRange:
		checkExpr(ax.Range)
		checkRole(ax.Prop)
	case ontology.AxInverseProperties:
		add("inverse roles are not permitted in EL++")
	case ontology.AxSubObjectPropertyOf:
		checkRole(ax.Prop)
		checkRole(ax.Prop2)
	case ontology.AxPropertyChain:
		for _, r := range ax.ChainLeft {
			checkRole(r)
		}
		checkRole(ax.ChainRight)
	case ontology.AxFunctional, ontology.AxInverseFunctional, ontology.AxTransitive,
		ontology.AxSymmetric, ontology.AxAsymmetric, ontology.AxReflexive, ontology.AxIrreflexive:
		checkRole(ax.Prop)
	case ontology.AxClassAssertion:
		checkExpr(ax.ClassExpr)
	}
	return out
}

// walkExpr visits id and every subexpression reachable from it, calling
// visit once per node (duplicates are fine — hash-consing means repeated
// visits are cheap and the checker is informational, not performance
// critical).
func walkExpr(t *ontology.ExprTable, id ontology.ExprID, visit func(ontology.Expr)) {
	e := t.Get(id)
	visit(e)
	switch e.Kind {
	case ontology.ExprNot:
		walkExpr(t, e.Operands[0], visit)
	case ontology.ExprAnd, ontology.ExprOr:
		for _, o := range e.Operands {
			walkExpr(t, o, visit)
		}
	case ontology.ExprSome, ontology.ExprAll, ontology.ExprMinN, ontology.ExprMaxN, ontology.ExprExactN:
		walkExpr(t, e.Filler, visit)
	}
}
