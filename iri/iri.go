// Package iri provides interned, hashable, totally-ordered handles for
// ontology identifiers. An IRI is opaque to every layer above this one:
// callers never inspect its string form except through String().
package iri

import "sync"

// IRI is an opaque, comparable, totally-ordered handle to an interned
// identifier string. The zero value is reserved (never returned by Intern).
type IRI uint32

// Interner is an append-only table mapping identifier strings to IRIs.
// It is not process-wide: ontology.New creates one per Ontology, so IRIs
// from two Ontology values are not comparable. It is safe for
// concurrent use: the reasoner facade
// shares one Interner across every tableau built from the same ontology
// snapshot, so concurrent top-level queries (spec.md §5) can intern IRIs
// from the same table without racing.
type Interner struct {
	mu      sync.Mutex
	strToID map[string]IRI
	idToStr []string
}

// NewInterner returns an empty Interner. Index 0 is reserved so the zero
// IRI value can never collide with an interned one.
func NewInterner() *Interner {
	return &Interner{
		strToID: make(map[string]IRI, 1024),
		idToStr: []string{""},
	}
}

// Intern returns the IRI for s, allocating a fresh one if s hasn't been
// seen before.
func (in *Interner) Intern(s string) IRI {
	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.strToID[s]; ok {
		return id
	}
	id := IRI(len(in.idToStr))
	in.strToID[s] = id
	in.idToStr = append(in.idToStr, s)
	return id
}

// Lookup returns the interned IRI for s without creating one.
func (in *Interner) Lookup(s string) (IRI, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	id, ok := in.strToID[s]
	return id, ok
}

// String returns the original string for id, or "" if id is unknown.
func (in *Interner) String(id IRI) string {
	in.mu.Lock()
	defer in.mu.Unlock()
	if int(id) <= 0 || int(id) >= len(in.idToStr) {
		return ""
	}
	return in.idToStr[id]
}

// Len returns the number of interned identifiers (excluding the reserved
// zero slot).
func (in *Interner) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.idToStr) - 1
}

// EntityKind discriminates what an IRI denotes. Several kinds may share
// the same IRI in malformed input (e.g. a property used as both an object
// and a data property); ontology.Ontology rejects that case explicitly
// rather than silently treating them as distinct (spec.md §9).
type EntityKind uint8

const (
	KindClass EntityKind = iota
	KindObjectProperty
	KindDataProperty
	KindNamedIndividual
	KindDatatype
	KindAnnotationProperty
)

func (k EntityKind) String() string {
	switch k {
	case KindClass:
		return "Class"
	case KindObjectProperty:
		return "ObjectProperty"
	case KindDataProperty:
		return "DataProperty"
	case KindNamedIndividual:
		return "NamedIndividual"
	case KindDatatype:
		return "Datatype"
	case KindAnnotationProperty:
		return "AnnotationProperty"
	default:
		return "Unknown"
	}
}

// Entity is a named IRI tagged with the kind under which it was declared
// or used. Anonymous individuals do not carry an Entity; they are tagged
// with a fresh local id instead (see ontology.AnonID and
// ontology.AnonymousIndividual).
type Entity struct {
	ID   IRI
	Kind EntityKind
}
