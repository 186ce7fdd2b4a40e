package classify

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nodeadmin/dlreasoner/iri"
	"github.com/nodeadmin/dlreasoner/ontology"
)

// Taxonomy holds the classified hierarchy after pairwise subsumption
// checks plus transitive reduction: the superset of each class is
// discovered on demand through Cache.IsSubClassOf against every other
// named class (spec.md §4.7).
type Taxonomy struct {
	DirectParents  map[iri.IRI][]iri.IRI
	DirectChildren map[iri.IRI][]iri.IRI
}

// BuildTaxonomy classifies every named class in o: for each pair (c, s)
// of named classes it asks the cache whether c ⊑ s, then keeps only the
// non-redundant (direct) superclass edges — any candidate B that is a
// superclass of another candidate S is dropped (spec.md §4.7 "Classify").
func BuildTaxonomy(o *ontology.Ontology, cache *Cache) (*Taxonomy, error) {
	classes := o.NamedClasses()
	supers := make(map[iri.IRI][]iri.IRI, len(classes))

	for _, c := range classes {
		cExpr := o.Exprs.Class(c)
		for _, s := range classes {
			if s == c {
				continue
			}
			sExpr := o.Exprs.Class(s)
			holds, err := cache.IsSubClassOf(o.Exprs, cExpr, sExpr)
			if err != nil {
				return nil, err
			}
			if holds {
				supers[c] = append(supers[c], s)
			}
		}
	}

	tax := &Taxonomy{
		DirectParents:  make(map[iri.IRI][]iri.IRI, len(classes)),
		DirectChildren: make(map[iri.IRI][]iri.IRI, len(classes)),
	}
	for _, c := range classes {
		candidates := supers[c]
		var direct []iri.IRI
		for _, b := range candidates {
			isDirect := true
			for _, s := range candidates {
				if s == b {
					continue
				}
				if containsIRI(supers[s], b) {
					isDirect = false
					break
				}
			}
			if isDirect {
				direct = append(direct, b)
			}
		}
		tax.DirectParents[c] = direct
		for _, p := range direct {
			tax.DirectChildren[p] = append(tax.DirectChildren[p], c)
		}
	}
	return tax, nil
}

func containsIRI(list []iri.IRI, x iri.IRI) bool {
	for _, v := range list {
		if v == x {
			return true
		}
	}
	return false
}

// ClassifiedConcept is one entry of the JSON classification report.
type ClassifiedConcept struct {
	ID             string   `json:"id"`
	DirectParents  []string `json:"direct_parents"`
	DirectChildren []string `json:"direct_children,omitempty"`
}

// ClassificationStats holds timing and size metrics for one Classify run.
type ClassificationStats struct {
	ConceptCount    int   `json:"concept_count"`
	NormalizeTimeMs int64 `json:"normalize_time_ms"`
	ClassifyTimeMs  int64 `json:"classify_time_ms"`
	TotalTimeMs     int64 `json:"total_time_ms"`
	CacheHits       int   `json:"cache_hits"`
	CacheMisses     int   `json:"cache_misses"`
}

// ClassifiedHierarchy is the top-level JSON report.
type ClassifiedHierarchy struct {
	Concepts []ClassifiedConcept `json:"concepts"`
	Stats    ClassificationStats `json:"stats"`
}

// ToJSON converts the taxonomy to a ClassifiedHierarchy report.
func (tax *Taxonomy) ToJSON(in *iri.Interner, stats ClassificationStats) *ClassifiedHierarchy {
	result := &ClassifiedHierarchy{Stats: stats}
	for c, parents := range tax.DirectParents {
		cc := ClassifiedConcept{ID: in.String(c)}
		for _, p := range parents {
			cc.DirectParents = append(cc.DirectParents, in.String(p))
		}
		for _, ch := range tax.DirectChildren[c] {
			cc.DirectChildren = append(cc.DirectChildren, in.String(ch))
		}
		result.Concepts = append(result.Concepts, cc)
	}
	return result
}

// WriteClassifiedJSON writes the report as indented JSON.
func WriteClassifiedJSON(w io.Writer, hierarchy *ClassifiedHierarchy) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(hierarchy)
}

// MakeStats assembles ClassificationStats from timing durations and the
// cache counters accumulated during one Classify run.
func MakeStats(conceptCount int, normTime, classifyTime time.Duration, cs Stats) ClassificationStats {
	return ClassificationStats{
		ConceptCount:    conceptCount,
		NormalizeTimeMs: normTime.Milliseconds(),
		ClassifyTimeMs:  classifyTime.Milliseconds(),
		TotalTimeMs:     (normTime + classifyTime).Milliseconds(),
		CacheHits:       cs.Hits,
		CacheMisses:     cs.Misses,
	}
}
