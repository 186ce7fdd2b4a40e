package fixture

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

// OWL/RDF namespace URIs
const (
	nsOWL  = "http://www.w3.org/2002/07/owl#"
	nsRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	nsRDFS = "http://www.w3.org/2000/01/rdf-schema#"
)

// ParseOWL parses an OWL/RDF-XML ontology document into the same Class/
// Property shape ParseOBO produces, so convert.go's NewStream handles
// either source identically.
func ParseOWL(r io.Reader) (*Doc, error) {
	decoder := xml.NewDecoder(r)
	pool := newInternPool()

	doc := &Doc{
		Classes: make([]Class, 0, initialClassCapacity),
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch {
		case matchElement(se, nsOWL, "Class"):
			c := parseOWLClass(decoder, se, pool)
			if c.ID != "" {
				doc.Classes = append(doc.Classes, c)
			}
		case matchElement(se, nsOWL, "Ontology"):
			parseOWLOntologyHeader(decoder, se, doc)
		case matchElement(se, nsOWL, "ObjectProperty"):
			p := parseOWLObjectProperty(decoder, se, pool)
			if p.ID != "" {
				doc.Properties = append(doc.Properties, p)
			}
		case matchElement(se, nsRDF, "RDF"):
			// Container element — descend into it, don't skip
		default:
			decoder.Skip()
		}
	}

	return doc, nil
}

func matchElement(se xml.StartElement, ns, local string) bool {
	return se.Name.Space == ns && se.Name.Local == local
}

func getAttr(se xml.StartElement, ns, local string) string {
	for _, a := range se.Attr {
		if a.Name.Space == ns && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// localID strips a URI down to its fragment or final path segment, the
// short id the rest of the pipeline indexes by.
func localID(uri string) string {
	if idx := strings.LastIndexAny(uri, "#/"); idx >= 0 && idx+1 < len(uri) {
		return uri[idx+1:]
	}
	return uri
}

func parseOWLOntologyHeader(decoder *xml.Decoder, se xml.StartElement, doc *Doc) {
	if about := getAttr(se, nsRDF, "about"); about != "" {
		doc.OntologyIRI = about
	}
	for {
		tok, err := decoder.Token()
		if err != nil {
			return
		}
		switch tok.(type) {
		case xml.StartElement:
			decoder.Skip()
		case xml.EndElement:
			return
		}
	}
}

func parseOWLClass(decoder *xml.Decoder, se xml.StartElement, pool *internPool) Class {
	var c Class
	if about := getAttr(se, nsRDF, "about"); about != "" {
		c.ID = localID(about)
	}

	for {
		tok, err := decoder.Token()
		if err != nil {
			return c
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch {
			case matchElement(el, nsRDFS, "label"):
				c.Name = readCharData(decoder)
			case matchElement(el, nsRDFS, "subClassOf"):
				if r, ok := parseSuperClassElement(decoder, el, pool); ok {
					c.SubClassOf = append(c.SubClassOf, r)
				}
			case matchElement(el, nsOWL, "disjointWith"):
				res := getAttr(el, nsRDF, "resource")
				if res != "" {
					c.DisjointWith = append(c.DisjointWith, localID(res))
				}
				decoder.Skip()
			case matchElement(el, nsOWL, "equivalentClass"):
				if r, ok := parseSuperClassElement(decoder, el, pool); ok {
					c.EquivalentTo = append(c.EquivalentTo, r)
				}
			default:
				decoder.Skip()
			}
		case xml.EndElement:
			return c
		}
	}
}

// parseSuperClassElement parses the content of one rdfs:subClassOf or
// owl:equivalentClass element: either a bare class reference (rdf:resource)
// or a nested owl:Restriction. It always reads through to the container's
// own EndElement before returning, regardless of which branch produced the
// Restriction, so the caller's loop never mistakes this EndElement for its
// own.
func parseSuperClassElement(decoder *xml.Decoder, container xml.StartElement, pool *internPool) (Restriction, bool) {
	if res := getAttr(container, nsRDF, "resource"); res != "" {
		decoder.Skip()
		return Restriction{Kind: RestrictIsA, Target: localID(res)}, true
	}
	var result Restriction
	found := false
	for {
		tok, err := decoder.Token()
		if err != nil {
			return result, found
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if matchElement(el, nsOWL, "Restriction") {
				result, found = parseOWLRestriction(decoder, pool)
			} else {
				decoder.Skip()
			}
		case xml.EndElement:
			return result, found
		}
	}
}

// parseOWLRestriction parses an owl:Restriction's onProperty paired with
// whichever of someValuesFrom/allValuesFrom/{min,max,qualified}Cardinality
// it carries.
func parseOWLRestriction(decoder *xml.Decoder, pool *internPool) (Restriction, bool) {
	var r Restriction
	haveRole := false
	for {
		tok, err := decoder.Token()
		if err != nil {
			return r, r.Target != "" && haveRole
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch {
			case matchElement(el, nsOWL, "onProperty"):
				if res := getAttr(el, nsRDF, "resource"); res != "" {
					r.Role = pool.get(localID(res))
					haveRole = true
				}
				decoder.Skip()
			case matchElement(el, nsOWL, "someValuesFrom"):
				r.Kind = RestrictSome
				r.Target = restrictionTarget(el)
				decoder.Skip()
			case matchElement(el, nsOWL, "allValuesFrom"):
				r.Kind = RestrictAll
				r.Target = restrictionTarget(el)
				decoder.Skip()
			case el.Name.Local == "minCardinality" || el.Name.Local == "minQualifiedCardinality":
				r.Kind = RestrictMin
				r.N = readCardinality(decoder)
			case el.Name.Local == "maxCardinality" || el.Name.Local == "maxQualifiedCardinality":
				r.Kind = RestrictMax
				r.N = readCardinality(decoder)
			case el.Name.Local == "cardinality" || el.Name.Local == "qualifiedCardinality":
				r.Kind = RestrictExact
				r.N = readCardinality(decoder)
			case matchElement(el, nsOWL, "onClass"):
				r.Target = restrictionTarget(el)
				decoder.Skip()
			default:
				decoder.Skip()
			}
		case xml.EndElement:
			return r, haveRole && (r.Target != "" || r.Kind == RestrictMin || r.Kind == RestrictMax || r.Kind == RestrictExact)
		}
	}
}

func restrictionTarget(el xml.StartElement) string {
	if res := getAttr(el, nsRDF, "resource"); res != "" {
		return localID(res)
	}
	return ""
}

func readCardinality(decoder *xml.Decoder) int {
	n, _ := strconv.Atoi(readCharData(decoder))
	return n
}

const owlTransitiveProperty = nsOWL + "TransitiveProperty"
const owlSymmetricProperty = nsOWL + "SymmetricProperty"
const owlAsymmetricProperty = nsOWL + "AsymmetricProperty"
const owlReflexiveProperty = nsOWL + "ReflexiveProperty"
const owlIrreflexiveProperty = nsOWL + "IrreflexiveProperty"
const owlFunctionalProperty = nsOWL + "FunctionalProperty"
const owlInverseFunctionalProperty = nsOWL + "InverseFunctionalProperty"

// parseOWLObjectProperty parses an owl:ObjectProperty element's
// characteristics, hierarchy position, and domain/range.
func parseOWLObjectProperty(decoder *xml.Decoder, se xml.StartElement, pool *internPool) Property {
	var p Property
	if about := getAttr(se, nsRDF, "about"); about != "" {
		p.ID = pool.get(localID(about))
	}

	for {
		tok, err := decoder.Token()
		if err != nil {
			return p
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch {
			case matchElement(el, nsRDF, "type"):
				switch getAttr(el, nsRDF, "resource") {
				case owlTransitiveProperty:
					p.Transitive = true
				case owlSymmetricProperty:
					p.Symmetric = true
				case owlAsymmetricProperty:
					p.Asymmetric = true
				case owlReflexiveProperty:
					p.Reflexive = true
				case owlIrreflexiveProperty:
					p.Irreflexive = true
				case owlFunctionalProperty:
					p.Functional = true
				case owlInverseFunctionalProperty:
					p.InverseFunctional = true
				}
				decoder.Skip()
			case matchElement(el, nsRDFS, "label"):
				p.Name = readCharData(decoder)
			case matchElement(el, nsRDFS, "subPropertyOf"):
				if res := getAttr(el, nsRDF, "resource"); res != "" {
					p.SubPropertyOf = pool.get(localID(res))
				}
				decoder.Skip()
			case matchElement(el, nsOWL, "inverseOf"):
				if res := getAttr(el, nsRDF, "resource"); res != "" {
					p.InverseOf = pool.get(localID(res))
				}
				decoder.Skip()
			case matchElement(el, nsRDFS, "domain"):
				if res := getAttr(el, nsRDF, "resource"); res != "" {
					p.Domain = localID(res)
				}
				decoder.Skip()
			case matchElement(el, nsRDFS, "range"):
				if res := getAttr(el, nsRDF, "resource"); res != "" {
					p.Range = localID(res)
				}
				decoder.Skip()
			default:
				decoder.Skip()
			}
		case xml.EndElement:
			return p
		}
	}
}

func readCharData(decoder *xml.Decoder) string {
	var sb strings.Builder
	for {
		tok, err := decoder.Token()
		if err != nil {
			return sb.String()
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			inner := readCharData(decoder)
			if inner != "" {
				sb.WriteString(inner)
			}
		case xml.EndElement:
			return sb.String()
		}
	}
}
