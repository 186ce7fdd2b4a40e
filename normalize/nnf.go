// Package normalize implements L2 (spec.md §2): negation-normal-form
// conversion, the internalized TBox (universal concept), the closed role
// hierarchy, and property-chain/domain/range compilation, generalized
// to full OWL 2 DL NNF (SPEC_FULL.md §4).
package normalize

import "github.com/nodeadmin/dlreasoner/ontology"

// ToNNF returns the ExprID of id rewritten into negation normal form:
// negation pushed to atomic concepts via De Morgan duality, cardinalities
// dualized (¬≥n r.C ↦ ≤(n-1) r.C, ¬≤n r.C ↦ ≥(n+1) r.C), HasValue dualized
// through its ∃r.{v} reading (¬∋v.r ↦ ∀r.¬{v}), and ¬{o} itself left
// atomic (spec.md §4.1). ToNNF is idempotent: ToNNF(ToNNF(C)) == ToNNF(C).
// Every call site that can hand a negated compound expression to
// Graph.AddLabel must route it through here first — the engine's
// deterministic pass has no ExprNot case, so an un-normalized ¬C label
// with compound C never decomposes or clashes against anything.
func ToNNF(t *ontology.ExprTable, id ontology.ExprID) ontology.ExprID {
	return nnf(t, id, false)
}

// nnf pushes the pending `neg` polarity down into id.
func nnf(t *ontology.ExprTable, id ontology.ExprID, neg bool) ontology.ExprID {
	e := t.Get(id)
	switch e.Kind {
	case ontology.ExprTop:
		if neg {
			return ontology.Bottom
		}
		return ontology.Top
	case ontology.ExprBottom:
		if neg {
			return ontology.Top
		}
		return ontology.Bottom
	case ontology.ExprClass:
		if !neg {
			return id
		}
		return t.Not(id)
	case ontology.ExprNot:
		// ¬¬C == C; ¬atomic stays as the Not wrapper around the atom.
		return nnf(t, e.Operands[0], !neg)
	case ontology.ExprAnd:
		ops := mapNNF(t, e.Operands, neg)
		if neg {
			return t.Or(ops...)
		}
		return t.And(ops...)
	case ontology.ExprOr:
		ops := mapNNF(t, e.Operands, neg)
		if neg {
			return t.And(ops...)
		}
		return t.Or(ops...)
	case ontology.ExprSome:
		filler := nnf(t, e.Filler, neg)
		if neg {
			return t.All(e.Role, filler)
		}
		return t.Some(e.Role, filler)
	case ontology.ExprAll:
		filler := nnf(t, e.Filler, neg)
		if neg {
			return t.Some(e.Role, filler)
		}
		return t.All(e.Role, filler)
	case ontology.ExprMinN:
		filler := nnf(t, e.Filler, false)
		if neg {
			// ¬≥n r.C == ≤(n-1) r.C
			return t.MaxN(e.N-1, e.Role, filler)
		}
		return t.MinN(e.N, e.Role, filler)
	case ontology.ExprMaxN:
		filler := nnf(t, e.Filler, false)
		if neg {
			// ¬≤n r.C == ≥(n+1) r.C
			return t.MinN(e.N+1, e.Role, filler)
		}
		return t.MaxN(e.N, e.Role, filler)
	case ontology.ExprExactN:
		// =n r.C == ≥n r.C ⊓ ≤n r.C; negate each half under De Morgan.
		ge := t.MinN(e.N, e.Role, nnf(t, e.Filler, false))
		le := t.MaxN(e.N, e.Role, nnf(t, e.Filler, false))
		if neg {
			return t.Or(nnf(t, t.Not(ge), false), nnf(t, t.Not(le), false))
		}
		return t.And(ge, le)
	case ontology.ExprOneOf:
		if !neg {
			return id
		}
		return t.Not(id)
	case ontology.ExprHasValue:
		// ∋v.r == ∃r.{v} (ontology/expr.go's own HasValue doc comment), so
		// its negation follows the ∃/∀ duality rather than staying atomic:
		// ¬∋v.r == ∀r.¬{v}. The positive form stays ExprHasValue since the
		// engine's dedicated applyHasValue rule already handles it directly.
		if !neg {
			return id
		}
		return t.All(e.Role, t.Not(t.OneOf(e.Individual)))
	case ontology.ExprHasSelf:
		if !neg {
			return id
		}
		return t.Not(id)
	case ontology.ExprDataSome:
		if neg {
			return t.DataAll(e.DataProp, e.DataRange)
		}
		return id
	case ontology.ExprDataAll:
		if neg {
			return t.DataSome(e.DataProp, e.DataRange)
		}
		return id
	case ontology.ExprDataMinN:
		if neg {
			return t.DataMaxN(e.N-1, e.DataProp, e.DataRange)
		}
		return id
	case ontology.ExprDataMaxN:
		if neg {
			return t.DataMinN(e.N+1, e.DataProp, e.DataRange)
		}
		return id
	case ontology.ExprDataExactN:
		ge := t.DataMinN(e.N, e.DataProp, e.DataRange)
		le := t.DataMaxN(e.N, e.DataProp, e.DataRange)
		if neg {
			return t.Or(nnf(t, t.Not(ge), false), nnf(t, t.Not(le), false))
		}
		return t.And(ge, le)
	case ontology.ExprDataHasValue:
		if !neg {
			return id
		}
		return t.Not(id)
	}
	return id
}

func mapNNF(t *ontology.ExprTable, ops []ontology.ExprID, neg bool) []ontology.ExprID {
	out := make([]ontology.ExprID, len(ops))
	for i, o := range ops {
		out[i] = nnf(t, o, neg)
	}
	return out
}
