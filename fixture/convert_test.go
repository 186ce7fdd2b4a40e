package fixture_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeadmin/dlreasoner/fixture"
	"github.com/nodeadmin/dlreasoner/ontology"
)

const oboSample = `format-version: 1.2
ontology: test

[Class]
id: Entity
name: entity

[Class]
id: Molecule
name: molecule
is_a: Entity

[Class]
id: Acid
name: acid
is_a: Entity
some: has_role Molecule
disjoint_from: Base

[Class]
id: Base
name: base
is_a: Entity

[Class]
id: BufferSolution
name: buffer solution
equivalent_to: Entity
equivalent_to: has_part Acid

[ObjectProperty]
id: has_role
name: has role
is_transitive: true

[ObjectProperty]
id: has_part
name: has part
sub_property_of: has_role
`

// TestOBOLoaderProducesSubClassAxioms exercises the full fixture
// pipeline: parse → Stream → Ontology, checking that is_a stanzas and
// qualified restriction lines compile into the expected axiom shapes.
func TestOBOLoaderProducesSubClassAxioms(t *testing.T) {
	o := ontology.New()
	stream, err := fixture.OBOLoader(o, strings.NewReader(oboSample))
	require.NoError(t, err)
	require.NoError(t, o.LoadFrom(stream))

	classes := o.NamedClasses()
	assert.GreaterOrEqual(t, len(classes), 4)

	foundTransitive := false
	for _, ax := range o.Axioms(ontology.AxTransitive) {
		if ax.Prop.Prop == o.Interner.Intern("has_role") {
			foundTransitive = true
		}
	}
	assert.True(t, foundTransitive, "has_role's is_transitive line should produce a Transitive axiom")

	foundSubProp := false
	for _, ax := range o.Axioms(ontology.AxSubObjectPropertyOf) {
		if ax.Prop.Prop == o.Interner.Intern("has_part") && ax.Prop2.Prop == o.Interner.Intern("has_role") {
			foundSubProp = true
		}
	}
	assert.True(t, foundSubProp, "has_part's sub_property_of line should produce a SubObjectPropertyOf axiom")

	foundDisjoint := false
	for _, ax := range o.Axioms(ontology.AxDisjointClasses) {
		foundDisjoint = true
		assert.Len(t, ax.Classes, 2)
	}
	assert.True(t, foundDisjoint, "disjoint_from line should produce a DisjointClasses axiom")

	equiv := o.Axioms(ontology.AxEquivalentClasses)
	assert.NotEmpty(t, equiv, "equivalent_to lines should produce an EquivalentClasses axiom")

	foundSome := false
	for _, ax := range o.Axioms(ontology.AxSubClassOf) {
		if o.Exprs.Get(ax.Sup).Kind == ontology.ExprSome {
			foundSome = true
		}
	}
	assert.True(t, foundSome, "a some: line should produce a SubClassOf axiom with an existential superclass")
}

// TestToOntologyParsesHeader checks that the document header fields
// survive into the parsed Doc before conversion.
func TestToOntologyParsesHeader(t *testing.T) {
	doc, err := fixture.ParseOBO(strings.NewReader(oboSample))
	require.NoError(t, err)
	assert.Equal(t, "1.2", doc.FormatVersion)
	assert.Equal(t, "test", doc.OntologyIRI)

	o, err := fixture.ToOntology(doc)
	require.NoError(t, err)
	assert.NotEmpty(t, o.NamedClasses())
}

const owlSample = `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:rdfs="http://www.w3.org/2000/01/rdf-schema#"
         xmlns:owl="http://www.w3.org/2002/07/owl#">
  <owl:Ontology rdf:about="http://example.org/test"/>
  <owl:Class rdf:about="http://example.org/Entity"/>
  <owl:Class rdf:about="http://example.org/Acid">
    <rdfs:subClassOf rdf:resource="http://example.org/Entity"/>
    <rdfs:subClassOf>
      <owl:Restriction>
        <owl:onProperty rdf:resource="http://example.org/hasRole"/>
        <owl:someValuesFrom rdf:resource="http://example.org/Molecule"/>
      </owl:Restriction>
    </rdfs:subClassOf>
  </owl:Class>
  <owl:Class rdf:about="http://example.org/Molecule"/>
  <owl:ObjectProperty rdf:about="http://example.org/hasRole">
    <rdf:type rdf:resource="http://www.w3.org/2002/07/owl#TransitiveProperty"/>
  </owl:ObjectProperty>
</rdf:RDF>
`

// TestOWLLoaderParsesRestriction checks that an owl:Restriction inside
// rdfs:subClassOf compiles to a qualified ∃-restriction SubClassOf axiom.
func TestOWLLoaderParsesRestriction(t *testing.T) {
	o := ontology.New()
	stream, err := fixture.OWLLoader(o, strings.NewReader(owlSample))
	require.NoError(t, err)
	require.NoError(t, o.LoadFrom(stream))

	foundSome := false
	for _, ax := range o.Axioms(ontology.AxSubClassOf) {
		if e := o.Exprs.Get(ax.Sup); e.Kind == ontology.ExprSome {
			foundSome = true
		}
	}
	assert.True(t, foundSome, "owl:Restriction/someValuesFrom should compile to an ExprSome SubClassOf")

	assert.NotEmpty(t, o.Axioms(ontology.AxTransitive), "TransitiveProperty rdf:type should produce a Transitive axiom")
}
