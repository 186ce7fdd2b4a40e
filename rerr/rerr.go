// Package rerr defines the reasoner's error taxonomy (spec.md §7).
// Malformed axioms, resource limits and cancellation surface as these
// kinds; other failures (config watching and closing, EL index
// building) are returned as plain errors. Internal clash propagation is
// control flow, not an error.
//
// Follows the same package-level errors.NewKind-with-message-template
// pattern go-mysql-server's auth package (auth/native.go, auth/auth.go)
// uses for its own error taxonomy.
package rerr

import errkit "gopkg.in/src-d/go-errors.v1"

var (
	// MalformedAxiom is returned for structural validation failures: bad
	// cardinalities, arity mismatches, empty chain bodies, or a property
	// declared as both an object and a data property. Fatal for the
	// containing operation.
	MalformedAxiom = errkit.NewKind("malformed axiom: %s")

	// ResourceExhausted is returned when a query exceeds Config.MaxDepth
	// or Config.TimeoutMS. Fatal for the query; the ontology and caches
	// are left untouched.
	ResourceExhausted = errkit.NewKind("resource exhausted: %s")

	// Cancelled is returned when a query observes its cooperative
	// cancellation flag or context between rule applications.
	Cancelled = errkit.NewKind("reasoning cancelled: %s")

	// ProfileViolation names a profile violation as an error; no function
	// in this module returns it (profile.Check reports violations as a
	// []profile.Violation value instead).
	ProfileViolation = errkit.NewKind("profile violation: %s")
)

// Is reports whether err was produced by kind, looking through wrapping.
func Is(err error, kind *errkit.Kind) bool {
	return kind.Is(err)
}
