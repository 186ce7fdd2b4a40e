// Package classify implements L7 of spec.md §2: the classification
// cache that memoises pairwise subsumption and derives the class
// taxonomy by asking the cache, for every ordered pair of named classes,
// whether one subsumes the other (each answer from a tableau-backed
// check or the EL fast path). It does no BFS over asserted SubClassOf
// edges.
package classify

import (
	"sync"

	"github.com/nodeadmin/dlreasoner/iri"
	"github.com/nodeadmin/dlreasoner/normalize"
	"github.com/nodeadmin/dlreasoner/ontology"
	"github.com/nodeadmin/dlreasoner/profile"
)

type pairKey struct{ sub, sup ontology.ExprID }

// Stats reports cache effectiveness: hit/miss counts and current size.
type Stats struct {
	Hits, Misses int
	Entries      int
}

// Cache memoises A ⊑ B subsumption checks (computed as unsatisfiability
// of A ⊓ ¬B, spec.md §4.7) and collapses two expressions once both
// directions have been found to hold into one union-find class, so a
// later query between them short-circuits without a further tableau
// check.
type Cache struct {
	mu       sync.Mutex
	subsumes map[pairKey]bool
	uf       *equivUnionFind
	hits     int
	misses   int

	Saturate func(root ontology.ExprID) (bool, error) // injected by the reasoner facade

	el *ELIndex // set by EnableELFastPath when the ontology is EL++-valid
}

// NewCache returns an empty cache. checkSat decides whether the
// conjunction `root` (already built by the caller, typically A ⊓ ¬B in
// NNF) is satisfiable — it is the reasoner facade's job to wire this to
// a fresh tableau.Engine.Saturate call sharing the ontology's TBox.
func NewCache(checkSat func(root ontology.ExprID) (bool, error)) *Cache {
	return &Cache{
		subsumes: make(map[pairKey]bool),
		uf:       newEquivUnionFind(),
		Saturate: checkSat,
	}
}

// EnableELFastPath checks o against the EL++ profile (spec.md §4.8) and,
// if it is in-profile, builds an ELIndex via completion-rule saturation
// (classify/elcompletion.go) and wires it as a fast path for
// IsSubClassOf. Mixed-expressivity
// ontologies leave c.el nil and IsSubClassOf falls back to tableau
// satisfiability exactly as before — this is a performance path, not a
// second reasoning semantics (SPEC_FULL.md §4).
func (c *Cache) EnableELFastPath(o *ontology.Ontology) error {
	if !profile.InProfile(o, profile.EL) {
		c.mu.Lock()
		c.el = nil
		c.mu.Unlock()
		return nil
	}
	idx, err := BuildELIndex(o)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.el = idx
	c.mu.Unlock()
	return nil
}

// IsSubClassOf reports whether sub ⊑ sup holds, memoising the result.
// Equivalence (sub ⊑ sup and sup ⊑ sub) collapses both into one
// union-find class so later lookups for any member answer in O(1)
// (spec.md §4.7 "union-find collapsing of equivalence-class cycles").
func (c *Cache) IsSubClassOf(t *ontology.ExprTable, sub, sup ontology.ExprID) (bool, error) {
	c.mu.Lock()
	if c.uf.sameClass(sub, sup) {
		c.mu.Unlock()
		return true, nil
	}
	if c.el != nil {
		subE, supE := t.Get(sub), t.Get(sup)
		if subE.Kind == ontology.ExprClass && supE.Kind == ontology.ExprClass {
			c.mu.Unlock()
			return c.el.IsSubClassOf(subE.Class, supE.Class), nil
		}
	}
	key := pairKey{sub, sup}
	if v, ok := c.subsumes[key]; ok {
		c.hits++
		c.mu.Unlock()
		return v, nil
	}
	c.misses++
	c.mu.Unlock()

	conj := t.And(sub, normalize.ToNNF(t, t.Not(sup)))
	sat, err := c.Saturate(conj)
	if err != nil {
		return false, err
	}
	holds := !sat // A ⊓ ¬B unsatisfiable ⟺ A ⊑ B

	c.mu.Lock()
	c.subsumes[key] = holds
	if holds {
		reverseKey := pairKey{sup, sub}
		if rev, ok := c.subsumes[reverseKey]; ok && rev {
			c.uf.merge(sub, sup)
		}
	}
	c.mu.Unlock()
	return holds, nil
}

// Clear discards every memoised result and the EL fast path. The
// reasoner facade calls it only from Reasoner.ClearCaches;
// Ontology.AddAxiom does not trigger it.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subsumes = make(map[pairKey]bool)
	c.uf = newEquivUnionFind()
	c.hits, c.misses = 0, 0
	c.el = nil
}

// CacheStats reports current hit/miss counters and entry count.
func (c *Cache) CacheStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.subsumes)}
}

// equivUnionFind collapses ExprIDs known to be mutually subsuming.
type equivUnionFind struct {
	parent map[ontology.ExprID]ontology.ExprID
}

func newEquivUnionFind() *equivUnionFind {
	return &equivUnionFind{parent: make(map[ontology.ExprID]ontology.ExprID)}
}

func (u *equivUnionFind) find(x ontology.ExprID) ontology.ExprID {
	p, ok := u.parent[x]
	if !ok {
		return x
	}
	if p == x {
		return x
	}
	r := u.find(p)
	u.parent[x] = r
	return r
}

func (u *equivUnionFind) sameClass(a, b ontology.ExprID) bool {
	return a == b || u.find(a) == u.find(b)
}

func (u *equivUnionFind) merge(a, b ontology.ExprID) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	u.parent[ra] = rb
}

// neighboursOf is a tiny adapter returning the asserted SubClassOf
// axioms whose subject is the named class c; no cache-derived edges
// are included.
func neighboursOf(o *ontology.Ontology, c iri.IRI) []ontology.Axiom {
	return o.SubClassAxiomsOf(c)
}
