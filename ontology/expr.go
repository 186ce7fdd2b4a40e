package ontology

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/nodeadmin/dlreasoner/iri"
)

// ExprID is a handle into an ExprTable, the hash-consing table that keeps
// every class expression shared across labels small (spec.md §9 "Global
// TBox" note): structurally-identical subexpressions — in particular the
// internalized universal concept added to every node — share one ExprID.
type ExprID uint32

// ExprKind discriminates the closed set of class-expression variants
// spec.md §3 enumerates.
type ExprKind uint8

const (
	ExprTop ExprKind = iota
	ExprBottom
	ExprClass
	ExprNot
	ExprAnd
	ExprOr
	ExprSome
	ExprAll
	ExprMinN
	ExprMaxN
	ExprExactN
	ExprOneOf
	ExprHasValue
	ExprHasSelf
	ExprDataSome
	ExprDataAll
	ExprDataMinN
	ExprDataMaxN
	ExprDataExactN
	ExprDataHasValue
)

// RoleExpr is `Obj(p) | InverseOf(p)`. Data properties never carry
// inverses; constructors that take a data property store it directly in
// Expr.DataProp instead of a RoleExpr.
type RoleExpr struct {
	Prop    iri.IRI
	Inverse bool
}

// Inv returns the dual view of r (spec.md §9: "Treat r and r⁻ as dual
// views onto one edge").
func (r RoleExpr) Inv() RoleExpr { return RoleExpr{Prop: r.Prop, Inverse: !r.Inverse} }

func (r RoleExpr) key() string {
	if r.Inverse {
		return fmt.Sprintf("inv(%d)", r.Prop)
	}
	return fmt.Sprintf("%d", r.Prop)
}

// DataRange is a fixed set of built-in XSD-ish ranges, per the non-goal
// that excludes arbitrary facet lattices (spec.md §1).
type DataRange uint8

const (
	DataRangeString DataRange = iota
	DataRangeInteger
	DataRangeDecimal
	DataRangeBoolean
	DataRangeDateTime
	DataRangeAny
)

// Literal is a datatype value paired with its datatype.
type Literal struct {
	Value    string
	Datatype DataRange
}

// Expr is a single class-expression node. Only the fields relevant to
// Kind are meaningful; the rest are zero. Expr values are never compared
// directly — use ExprTable.Intern so structurally-equal expressions
// collapse to one ExprID, and compare ExprIDs instead.
type Expr struct {
	Kind        ExprKind
	Class       iri.IRI    // ExprClass
	Operands    []ExprID   // ExprNot(1), ExprAnd/ExprOr(n)
	Role        RoleExpr   // ExprSome/All/MinN/MaxN/ExactN/HasValue/HasSelf
	Filler      ExprID     // ExprSome/All/MinN/MaxN/ExactN (the C in ∃r.C etc.)
	N           int        // cardinality for MinN/MaxN/ExactN/DataMinN/...
	Individuals []iri.IRI  // ExprOneOf
	Individual  iri.IRI    // ExprHasValue
	DataProp    iri.IRI    // ExprDataSome/All/MinN/MaxN/ExactN/HasValue
	DataRange   DataRange  // ExprDataSome/All/MinN/MaxN/ExactN
	DataLiteral Literal    // ExprDataHasValue
}

// canonicalKey produces a deterministic string key for hash-consing.
// Operand order for And/Or must already be in canonical (sorted ExprID)
// order by the time this is called — ExprTable.Intern enforces that.
func (e Expr) canonicalKey() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|", e.Kind)
	switch e.Kind {
	case ExprClass:
		fmt.Fprintf(&b, "%d", e.Class)
	case ExprNot:
		fmt.Fprintf(&b, "%d", e.Operands[0])
	case ExprAnd, ExprOr:
		for _, o := range e.Operands {
			fmt.Fprintf(&b, "%d,", o)
		}
	case ExprSome, ExprAll:
		fmt.Fprintf(&b, "%s|%d", e.Role.key(), e.Filler)
	case ExprMinN, ExprMaxN, ExprExactN:
		fmt.Fprintf(&b, "%d|%s|%d", e.N, e.Role.key(), e.Filler)
	case ExprOneOf:
		ids := append([]iri.IRI(nil), e.Individuals...)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			fmt.Fprintf(&b, "%d,", id)
		}
	case ExprHasValue:
		fmt.Fprintf(&b, "%s|%d", e.Role.key(), e.Individual)
	case ExprHasSelf:
		fmt.Fprintf(&b, "%s", e.Role.key())
	case ExprDataSome, ExprDataAll:
		fmt.Fprintf(&b, "%d|%d", e.DataProp, e.DataRange)
	case ExprDataMinN, ExprDataMaxN, ExprDataExactN:
		fmt.Fprintf(&b, "%d|%d|%d", e.N, e.DataProp, e.DataRange)
	case ExprDataHasValue:
		fmt.Fprintf(&b, "%d|%s|%d", e.DataProp, e.DataLiteral.Value, e.DataLiteral.Datatype)
	}
	return b.String()
}

// ExprTable hash-conses class expressions within one Ontology (and the
// tableaux built from it). It is append-only and, like iri.Interner,
// safe for concurrent use.
type ExprTable struct {
	mu      sync.RWMutex
	keyToID map[string]ExprID
	exprs   []Expr
}

// NewExprTable returns an ExprTable pre-seeded with Top (owl:Thing) at
// id 0 and Bottom (owl:Nothing) at id 1, a reserved-id convention kept
// stable across every ExprTable instance.
func NewExprTable() *ExprTable {
	t := &ExprTable{
		keyToID: make(map[string]ExprID, 256),
		exprs:   make([]Expr, 0, 256),
	}
	t.mustIntern(Expr{Kind: ExprTop})
	t.mustIntern(Expr{Kind: ExprBottom})
	return t
}

const (
	Top    ExprID = 0
	Bottom ExprID = 1
)

func (t *ExprTable) mustIntern(e Expr) ExprID {
	id := ExprID(len(t.exprs))
	t.exprs = append(t.exprs, e)
	t.keyToID[e.canonicalKey()] = id
	return id
}

// Intern returns the ExprID for e, canonicalizing And/Or operand order
// first so structurally-equal expressions always collapse to one id.
func (t *ExprTable) Intern(e Expr) ExprID {
	if e.Kind == ExprAnd || e.Kind == ExprOr {
		ops := append([]ExprID(nil), e.Operands...)
		sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
		e.Operands = dedupSorted(ops)
		if len(e.Operands) == 1 {
			return e.Operands[0]
		}
	}
	key := e.canonicalKey()
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.keyToID[key]; ok {
		return id
	}
	return t.mustIntern(e)
}

func dedupSorted(ids []ExprID) []ExprID {
	out := ids[:0:0]
	for i, id := range ids {
		if i == 0 || id != ids[i-1] {
			out = append(out, id)
		}
	}
	return out
}

// Get returns the Expr for id.
func (t *ExprTable) Get(id ExprID) Expr {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.exprs[id]
}

// Len returns the number of interned expressions.
func (t *ExprTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.exprs)
}

// Class interns a named-class atom.
func (t *ExprTable) Class(c iri.IRI) ExprID { return t.Intern(Expr{Kind: ExprClass, Class: c}) }

// Not interns ¬operand.
func (t *ExprTable) Not(operand ExprID) ExprID {
	return t.Intern(Expr{Kind: ExprNot, Operands: []ExprID{operand}})
}

// And interns a conjunction of operands.
func (t *ExprTable) And(operands ...ExprID) ExprID {
	if len(operands) == 1 {
		return operands[0]
	}
	return t.Intern(Expr{Kind: ExprAnd, Operands: operands})
}

// Or interns a disjunction of operands.
func (t *ExprTable) Or(operands ...ExprID) ExprID {
	if len(operands) == 1 {
		return operands[0]
	}
	return t.Intern(Expr{Kind: ExprOr, Operands: operands})
}

// Some interns ∃role.filler.
func (t *ExprTable) Some(role RoleExpr, filler ExprID) ExprID {
	return t.Intern(Expr{Kind: ExprSome, Role: role, Filler: filler})
}

// All interns ∀role.filler.
func (t *ExprTable) All(role RoleExpr, filler ExprID) ExprID {
	return t.Intern(Expr{Kind: ExprAll, Role: role, Filler: filler})
}

// MinN/MaxN/ExactN intern qualified number restrictions.
func (t *ExprTable) MinN(n int, role RoleExpr, filler ExprID) ExprID {
	return t.Intern(Expr{Kind: ExprMinN, N: n, Role: role, Filler: filler})
}
func (t *ExprTable) MaxN(n int, role RoleExpr, filler ExprID) ExprID {
	return t.Intern(Expr{Kind: ExprMaxN, N: n, Role: role, Filler: filler})
}
func (t *ExprTable) ExactN(n int, role RoleExpr, filler ExprID) ExprID {
	return t.Intern(Expr{Kind: ExprExactN, N: n, Role: role, Filler: filler})
}

// OneOf interns a nominal set {o1..ok}.
func (t *ExprTable) OneOf(individuals ...iri.IRI) ExprID {
	return t.Intern(Expr{Kind: ExprOneOf, Individuals: individuals})
}

// HasValue interns ∋v.role (equivalent to ∃role.{v}).
func (t *ExprTable) HasValue(role RoleExpr, v iri.IRI) ExprID {
	return t.Intern(Expr{Kind: ExprHasValue, Role: role, Individual: v})
}

// HasSelf interns ∃role.Self.
func (t *ExprTable) HasSelf(role RoleExpr) ExprID {
	return t.Intern(Expr{Kind: ExprHasSelf, Role: role})
}

// DataSome/DataAll intern data existential/universal restrictions.
func (t *ExprTable) DataSome(dp iri.IRI, dr DataRange) ExprID {
	return t.Intern(Expr{Kind: ExprDataSome, DataProp: dp, DataRange: dr})
}
func (t *ExprTable) DataAll(dp iri.IRI, dr DataRange) ExprID {
	return t.Intern(Expr{Kind: ExprDataAll, DataProp: dp, DataRange: dr})
}

// DataMinN/DataMaxN/DataExactN intern data number restrictions.
func (t *ExprTable) DataMinN(n int, dp iri.IRI, dr DataRange) ExprID {
	return t.Intern(Expr{Kind: ExprDataMinN, N: n, DataProp: dp, DataRange: dr})
}
func (t *ExprTable) DataMaxN(n int, dp iri.IRI, dr DataRange) ExprID {
	return t.Intern(Expr{Kind: ExprDataMaxN, N: n, DataProp: dp, DataRange: dr})
}
func (t *ExprTable) DataExactN(n int, dp iri.IRI, dr DataRange) ExprID {
	return t.Intern(Expr{Kind: ExprDataExactN, N: n, DataProp: dp, DataRange: dr})
}

// DataHasValue interns a fixed-literal data restriction.
func (t *ExprTable) DataHasValue(dp iri.IRI, lit Literal) ExprID {
	return t.Intern(Expr{Kind: ExprDataHasValue, DataProp: dp, DataLiteral: lit})
}
