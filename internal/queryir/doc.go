// Package queryir provides the backend-neutral description tree that the
// SPARQL condition builder compiles.
//
// A description is a boolean tree of atomic predicates:
//
//	Conjunction / Disjunction    internal nodes
//	SomeProperty                 property has a value matching a sub-description
//	NamespaceFilter              entity lives in a wiki namespace
//	ClassFilter                  entity belongs to one of several categories
//	ValueFilter                  value compares against a literal
//	ConceptFilter                entity matches a stored concept
//	Anything                     matches every entity
//
// SEALED INTERFACES:
//
// Description is a sealed interface using the marker method pattern. Only
// types in this package implement it, so backends can switch exhaustively:
//
//	switch d := queryir.Unwrap(desc).(type) {
//	case queryir.Conjunction:
//	    // merge children
//	case queryir.SomeProperty:
//	    // delegate to the property strategy
//	default:
//	    // unknown kinds compile to an unconditional match
//	}
//
// Both value and pointer forms are accepted everywhere; Unwrap normalizes
// pointers to values.
//
// Trees are immutable once built. Compilers read them and never modify
// children in place.
package queryir
