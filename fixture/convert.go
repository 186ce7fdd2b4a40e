package fixture

import (
	"io"

	"github.com/nodeadmin/dlreasoner/ontology"
)

// Stream turns a parsed Doc into the ontology.AxiomSource the core's
// only ontology-input contract names — the fixture package never hands
// a *Doc to tableau/normalize/classify directly, only this queue of
// already-interned axioms, the same boundary original_source draws
// between its OBO/OWL readers and its reasoning core.
type Stream struct {
	axioms []ontology.Axiom
	pos    int
}

// Next implements ontology.AxiomSource.
func (s *Stream) Next() (ontology.Axiom, bool, error) {
	if s.pos >= len(s.axioms) {
		return ontology.Axiom{}, false, nil
	}
	ax := s.axioms[s.pos]
	s.pos++
	return ax, true, nil
}

// NewStream compiles doc's classes and properties into an axiom queue
// against o's interner and expression table.
//
// Each Class's SubClassOf restrictions become SubClassOf axioms — plain
// is_a conjuncts target the class directly, qualified ones compile to
// the matching ∃/∀/≥n/≤n/=n expression; DisjointWith pairs become
// DisjointClasses; an EquivalentTo list becomes an EquivalentClasses
// axiom pairing the class with the conjunction of its conjuncts (the
// standard genus-plus-differentiae cross-product translation).
//
// Each Property's characteristics become the matching RBox axiom
// (Transitive, Symmetric, ...); SubPropertyOf/InverseOf/Domain/Range
// become their RBox counterparts; a non-empty Chain compiles to a
// PropertyChain axiom with this property as the right-hand side.
func NewStream(o *ontology.Ontology, doc *Doc) *Stream {
	var axioms []ontology.Axiom

	classID := func(id string) ontology.ExprID {
		return o.Exprs.Class(o.Interner.Intern(id))
	}
	role := func(name string) ontology.RoleExpr {
		return ontology.RoleExpr{Prop: o.Interner.Intern(name)}
	}
	restrictionExpr := func(r Restriction) (ontology.ExprID, bool) {
		if r.Target == "" {
			return 0, false
		}
		target := classID(r.Target)
		switch r.Kind {
		case RestrictIsA:
			return target, true
		case RestrictSome:
			return o.Exprs.Some(role(r.Role), target), true
		case RestrictAll:
			return o.Exprs.All(role(r.Role), target), true
		case RestrictMin:
			return o.Exprs.MinN(r.N, role(r.Role), target), true
		case RestrictMax:
			return o.Exprs.MaxN(r.N, role(r.Role), target), true
		case RestrictExact:
			return o.Exprs.ExactN(r.N, role(r.Role), target), true
		default:
			return 0, false
		}
	}

	for _, c := range doc.Classes {
		if c.ID == "" {
			continue
		}
		self := classID(c.ID)

		for _, r := range c.SubClassOf {
			if expr, ok := restrictionExpr(r); ok {
				axioms = append(axioms, ontology.Axiom{Kind: ontology.AxSubClassOf, Sub: self, Sup: expr})
			}
		}

		if len(c.EquivalentTo) > 0 {
			operands := make([]ontology.ExprID, 0, len(c.EquivalentTo))
			for _, r := range c.EquivalentTo {
				if expr, ok := restrictionExpr(r); ok {
					operands = append(operands, expr)
				}
			}
			if len(operands) > 0 {
				conj := o.Exprs.And(operands...)
				axioms = append(axioms, ontology.Axiom{
					Kind: ontology.AxEquivalentClasses, Classes: []ontology.ExprID{self, conj},
				})
			}
		}

		for _, otherID := range c.DisjointWith {
			if otherID == "" {
				continue
			}
			axioms = append(axioms, ontology.Axiom{
				Kind: ontology.AxDisjointClasses, Classes: []ontology.ExprID{self, classID(otherID)},
			})
		}
	}

	for _, p := range doc.Properties {
		if p.ID == "" {
			continue
		}
		r := role(p.ID)

		if p.Transitive {
			axioms = append(axioms, ontology.Axiom{Kind: ontology.AxTransitive, Prop: r})
		}
		if p.Symmetric {
			axioms = append(axioms, ontology.Axiom{Kind: ontology.AxSymmetric, Prop: r})
		}
		if p.Asymmetric {
			axioms = append(axioms, ontology.Axiom{Kind: ontology.AxAsymmetric, Prop: r})
		}
		if p.Reflexive {
			axioms = append(axioms, ontology.Axiom{Kind: ontology.AxReflexive, Prop: r})
		}
		if p.Irreflexive {
			axioms = append(axioms, ontology.Axiom{Kind: ontology.AxIrreflexive, Prop: r})
		}
		if p.Functional {
			axioms = append(axioms, ontology.Axiom{Kind: ontology.AxFunctional, Prop: r})
		}
		if p.InverseFunctional {
			axioms = append(axioms, ontology.Axiom{Kind: ontology.AxInverseFunctional, Prop: r})
		}
		if p.SubPropertyOf != "" {
			axioms = append(axioms, ontology.Axiom{
				Kind: ontology.AxSubObjectPropertyOf, Prop: r, Prop2: role(p.SubPropertyOf),
			})
		}
		if p.InverseOf != "" {
			axioms = append(axioms, ontology.Axiom{
				Kind: ontology.AxInverseProperties, Prop: r, Prop2: role(p.InverseOf),
			})
		}
		if p.Domain != "" {
			axioms = append(axioms, ontology.Axiom{Kind: ontology.AxObjectPropertyDomain, Prop: r, Domain: classID(p.Domain)})
		}
		if p.Range != "" {
			axioms = append(axioms, ontology.Axiom{Kind: ontology.AxObjectPropertyRange, Prop: r, Range: classID(p.Range)})
		}
		if len(p.Chain) > 0 {
			chain := make([]ontology.RoleExpr, len(p.Chain))
			for i, c := range p.Chain {
				chain[i] = role(c)
			}
			axioms = append(axioms, ontology.Axiom{Kind: ontology.AxPropertyChain, ChainLeft: chain, ChainRight: r})
		}
	}

	return &Stream{axioms: axioms}
}

// ToOntology is the common-case entry point: parse with ParseOBO/ParseOWL,
// then call ToOntology to get a ready-to-reason-over *ontology.Ontology.
func ToOntology(doc *Doc) (*ontology.Ontology, error) {
	o := ontology.New()
	if err := o.LoadFrom(NewStream(o, doc)); err != nil {
		return nil, err
	}
	return o, nil
}

// OBOLoader reads a stanza-format document from r and returns its
// axioms as an ontology.AxiomSource.
func OBOLoader(o *ontology.Ontology, r io.Reader) (*Stream, error) {
	doc, err := ParseOBO(r)
	if err != nil {
		return nil, err
	}
	return NewStream(o, doc), nil
}

// OWLLoader is OBOLoader's RDF/XML counterpart, parsing an
// owl:Class/owl:ObjectProperty document with ParseOWL.
func OWLLoader(o *ontology.Ontology, r io.Reader) (*Stream, error) {
	doc, err := ParseOWL(r)
	if err != nil {
		return nil, err
	}
	return NewStream(o, doc), nil
}

var _ ontology.AxiomSource = (*Stream)(nil)
