// Package ontology implements the indexed axiom container (L1 in
// spec.md §2): the Ontology type plus the class-expression and axiom
// data model it stores.
package ontology

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nodeadmin/dlreasoner/iri"
	"github.com/nodeadmin/dlreasoner/rerr"
)

// Ontology is a mapping from axiom-kind to an ordered collection of
// axioms, plus reverse indexes keyed by entity handle (spec.md §3).
// It is built once by a parser/fixture loader and mutated only between
// reasoning runs. AddAxiom does not touch the classification cache
// owned by the reasoner facade; Reasoner.ClearCaches discards it.
type Ontology struct {
	Interner *iri.Interner
	Exprs    *ExprTable

	byKind map[AxiomKind][]Axiom

	// subjectsOf indexes SubClassOf axioms whose left side (Sub) is a
	// named-class atom, keyed by that class's IRI — the iterator behind
	// SubClassAxiomsOf.
	subjectsOf map[iri.IRI][]int // index into byKind[AxSubClassOf]

	// propKind tracks whether a property IRI has been used as an object
	// or a data property, so a later conflicting use is rejected rather
	// than silently treated as a distinct property (spec.md §9).
	propKind map[iri.IRI]iri.EntityKind

	// seen deduplicates structurally-identical axioms on insertion.
	// Cardinality is not guaranteed to be deduplicated semantically
	// (spec.md §3), so this is a best-effort structural check only.
	seen map[string]struct{}
}

// New returns an empty Ontology sharing interner and expression table.
func New() *Ontology {
	return &Ontology{
		Interner:   iri.NewInterner(),
		Exprs:      NewExprTable(),
		byKind:     make(map[AxiomKind][]Axiom),
		subjectsOf: make(map[iri.IRI][]int),
		propKind:   make(map[iri.IRI]iri.EntityKind),
		seen:       make(map[string]struct{}),
	}
}

// NextAnonID mints a fresh local id for an anonymous individual, the way
// both 2lar-b2/backend and theRebelliousNerd-codenerd mint entity ids:
// a random UUID rather than a counter, so ids minted by independently
// loaded fixtures never collide if later merged into one ontology.
func (o *Ontology) NextAnonID() AnonID {
	return AnonID(uuid.NewString())
}

// LoadFrom drains src into the ontology, stopping at the first error.
func (o *Ontology) LoadFrom(src AxiomSource) error {
	for {
		ax, ok, err := src.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := o.AddAxiom(ax); err != nil {
			return err
		}
	}
}

// AddAxiom validates and inserts ax, indexing it for the iterators below.
func (o *Ontology) AddAxiom(ax Axiom) error {
	if err := ax.validate(); err != nil {
		return err
	}
	if err := o.checkCardinalities(ax); err != nil {
		return err
	}
	if err := o.checkPropertyKinds(ax); err != nil {
		return err
	}

	key := structuralKey(ax)
	if _, dup := o.seen[key]; dup {
		return nil // silently dedupe exact structural repeats
	}
	o.seen[key] = struct{}{}

	idx := len(o.byKind[ax.Kind])
	o.byKind[ax.Kind] = append(o.byKind[ax.Kind], ax)

	if ax.Kind == AxSubClassOf {
		if e := o.Exprs.Get(ax.Sub); e.Kind == ExprClass {
			o.subjectsOf[e.Class] = append(o.subjectsOf[e.Class], idx)
		}
	}
	return nil
}

// checkCardinalities walks every ExprID reachable from ax rejecting
// negative number restrictions (spec.md §4.1 "Error conditions").
func (o *Ontology) checkCardinalities(ax Axiom) error {
	var walk func(id ExprID, seen map[ExprID]bool) error
	walk = func(id ExprID, seen map[ExprID]bool) error {
		if seen[id] {
			return nil
		}
		seen[id] = true
		e := o.Exprs.Get(id)
		switch e.Kind {
		case ExprMinN, ExprMaxN, ExprExactN, ExprDataMinN, ExprDataMaxN, ExprDataExactN:
			if e.N < 0 {
				return rerr.MalformedAxiom.New(fmt.Sprintf("negative cardinality %d", e.N))
			}
			if e.Filler != 0 {
				return walk(e.Filler, seen)
			}
		case ExprNot:
			return walk(e.Operands[0], seen)
		case ExprAnd, ExprOr:
			for _, o2 := range e.Operands {
				if err := walk(o2, seen); err != nil {
					return err
				}
			}
		case ExprSome, ExprAll:
			return walk(e.Filler, seen)
		}
		return nil
	}
	for _, id := range []ExprID{ax.Sub, ax.Sup, ax.Domain, ax.Range, ax.ClassExpr, ax.DataDomain} {
		if err := walk(id, map[ExprID]bool{}); err != nil {
			return err
		}
	}
	for _, id := range ax.Classes {
		if err := walk(id, map[ExprID]bool{}); err != nil {
			return err
		}
	}
	return nil
}

// checkPropertyKinds rejects a property IRI used inconsistently as both
// an object and a data property (spec.md §9 Open Questions decision,
// recorded in SPEC_FULL.md §14).
func (o *Ontology) checkPropertyKinds(ax Axiom) error {
	record := func(p iri.IRI, kind iri.EntityKind) error {
		if p == 0 {
			return nil
		}
		if existing, ok := o.propKind[p]; ok && existing != kind {
			return rerr.MalformedAxiom.New(fmt.Sprintf(
				"property %s used as both %s and %s", o.Interner.String(p), existing, kind))
		}
		o.propKind[p] = kind
		return nil
	}
	switch ax.Kind {
	case AxSubObjectPropertyOf, AxEquivalentObjectProperties, AxInverseProperties,
		AxObjectPropertyDomain, AxObjectPropertyRange, AxPropertyChain,
		AxFunctional, AxInverseFunctional, AxTransitive, AxSymmetric,
		AxAsymmetric, AxReflexive, AxIrreflexive:
		if err := record(ax.Prop.Prop, iri.KindObjectProperty); err != nil {
			return err
		}
		if err := record(ax.Prop2.Prop, iri.KindObjectProperty); err != nil {
			return err
		}
		for _, p := range ax.Props {
			if err := record(p.Prop, iri.KindObjectProperty); err != nil {
				return err
			}
		}
		for _, p := range ax.ChainLeft {
			if err := record(p.Prop, iri.KindObjectProperty); err != nil {
				return err
			}
		}
		if ax.Kind == AxPropertyChain {
			if err := record(ax.ChainRight.Prop, iri.KindObjectProperty); err != nil {
				return err
			}
		}
	case AxSubDataPropertyOf, AxEquivalentDataProperties, AxDataPropertyDomain,
		AxDataPropertyRange:
		if err := record(ax.DataProp, iri.KindDataProperty); err != nil {
			return err
		}
	case AxObjectPropertyAssertion, AxNegativeObjectPropertyAssertion:
		return record(ax.ObjectProp.Prop, iri.KindObjectProperty)
	case AxDataPropertyAssertion, AxNegativeDataPropertyAssertion:
		return record(ax.DataPropA, iri.KindDataProperty)
	}
	return nil
}

// structuralKey is a best-effort duplicate-detection signature.
func structuralKey(ax Axiom) string {
	return fmt.Sprintf("%d|%d|%d|%v|%v|%v|%v|%v|%v|%v|%d|%d|%d|%d|%d|%v|%v|%v|%v|%d|%v",
		ax.Kind, ax.Sub, ax.Sup, ax.Classes, ax.Prop, ax.Prop2,
		ax.Props, ax.ChainLeft, ax.ChainRight, ax.Individuals,
		ax.ClassExpr, ax.DataProp, ax.Domain, ax.Range, ax.DataDomain,
		ax.DataRangeTy, ax.Individual, ax.Individual2, ax.ObjectProp,
		ax.DataPropA, ax.Literal)
}

// Axioms returns every axiom of the given kind, in insertion order.
func (o *Ontology) Axioms(kind AxiomKind) []Axiom { return o.byKind[kind] }

// SubClassAxiomsOf iterates SubClassOf axioms whose subject is the named
// class c (used by classify's asserted-edge adapter, neighboursOf).
func (o *Ontology) SubClassAxiomsOf(c iri.IRI) []Axiom {
	idxs := o.subjectsOf[c]
	out := make([]Axiom, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, o.byKind[AxSubClassOf][i])
	}
	return out
}

// AllAxioms returns every axiom in the ontology across all kinds, useful
// for a full scan (e.g. the profile checker).
func (o *Ontology) AllAxioms() []Axiom {
	var out []Axiom
	for _, axs := range o.byKind {
		out = append(out, axs...)
	}
	return out
}

// NamedClasses returns every class IRI that appears as a top-level
// ExprClass atom in a SubClassOf side, an EquivalentClasses member, or a
// ClassAssertion's type; classes nested inside complex expressions are
// not collected. Used by classify and the reasoner facade to seed the
// taxonomy.
func (o *Ontology) NamedClasses() []iri.IRI {
	seen := map[iri.IRI]bool{}
	var add func(id ExprID)
	add = func(id ExprID) {
		e := o.Exprs.Get(id)
		if e.Kind == ExprClass {
			seen[e.Class] = true
		}
	}
	for _, ax := range o.byKind[AxSubClassOf] {
		add(ax.Sub)
		add(ax.Sup)
	}
	for _, ax := range o.byKind[AxEquivalentClasses] {
		for _, c := range ax.Classes {
			add(c)
		}
	}
	for _, ax := range o.byKind[AxClassAssertion] {
		add(ax.ClassExpr)
	}
	out := make([]iri.IRI, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	return out
}
