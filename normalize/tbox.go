package normalize

import "github.com/nodeadmin/dlreasoner/ontology"

// TBox is the internalized terminology: a set of "global" (universal)
// concepts that the expansion engine (L4) adds to every tableau node's
// label, per spec.md §4.1 InternalizeTBox, plus the closed RBox.
type TBox struct {
	// Global holds one NNF ExprID per internalized GCI. Implementations
	// intern NNF subexpressions (ontology.ExprTable is hash-consed) so
	// adding all of these to every node stays memory-cheap (spec.md §9).
	Global []ontology.ExprID

	Roles *RoleHierarchy
}

// Normalize converts the ontology's TBox/RBox axioms into the internal
// form the expansion engine consumes: NNF internalized GCIs plus a closed
// role hierarchy with chains and characteristics (spec.md §4.1).
func Normalize(o *ontology.Ontology) *TBox {
	t := o.Exprs
	tb := &TBox{Roles: buildRoleHierarchy(o)}

	addGlobal := func(sub, sup ontology.ExprID) {
		// C ⊑ D  ⇒  ¬C ⊔ D, in NNF.
		disj := t.Or(t.Not(sub), sup)
		tb.Global = append(tb.Global, ToNNF(t, disj))
	}

	for _, ax := range o.Axioms(ontology.AxSubClassOf) {
		addGlobal(ax.Sub, ax.Sup)
	}
	for _, ax := range o.Axioms(ontology.AxEquivalentClasses) {
		for i := range ax.Classes {
			for j := range ax.Classes {
				if i != j {
					addGlobal(ax.Classes[i], ax.Classes[j])
				}
			}
		}
	}
	for _, ax := range o.Axioms(ontology.AxDisjointClasses) {
		for i := range ax.Classes {
			for j := i + 1; j < len(ax.Classes); j++ {
				// Ci ⊓ Cj ⊑ ⊥  ⇒  ¬Ci ⊔ ¬Cj
				disj := t.Or(t.Not(ax.Classes[i]), t.Not(ax.Classes[j]))
				tb.Global = append(tb.Global, ToNNF(t, disj))
			}
		}
	}
	for _, ax := range o.Axioms(ontology.AxDisjointUnion) {
		// C ≡ C1 ⊔ .. ⊔ Cn, and Ci pairwise disjoint.
		union := t.Or(ax.Classes...)
		addGlobal(ax.Sub, union)
		addGlobal(union, ax.Sub)
		for i := range ax.Classes {
			for j := i + 1; j < len(ax.Classes); j++ {
				disj := t.Or(t.Not(ax.Classes[i]), t.Not(ax.Classes[j]))
				tb.Global = append(tb.Global, ToNNF(t, disj))
			}
		}
	}

	// DomainRangeCompile: domain(r)=D becomes ∃r.⊤ ⊑ D; range(r)=D
	// becomes ⊤ ⊑ ∀r.D (spec.md §4.1).
	for _, ax := range o.Axioms(ontology.AxObjectPropertyDomain) {
		some := t.Some(ax.Prop, ontology.Top)
		addGlobal(some, ax.Domain)
	}
	for _, ax := range o.Axioms(ontology.AxObjectPropertyRange) {
		all := t.All(ax.Prop, ax.Range)
		addGlobal(ontology.Top, all)
	}
	for _, ax := range o.Axioms(ontology.AxDataPropertyDomain) {
		some := t.DataSome(ax.DataProp, ontology.DataRangeAny)
		addGlobal(some, ax.DataDomain)
	}

	return tb
}
