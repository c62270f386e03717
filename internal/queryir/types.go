package queryir

import "github.com/roach88/sparqlwhere/internal/ir"

// Description represents a node of the query description tree.
//
// This is a sealed interface - only types in this package implement it.
type Description interface {
	descriptionNode() // Marker method - seals interface to this package
}

// Conjunction matches entities satisfying every child (AND).
// An empty conjunction matches everything.
type Conjunction struct {
	Descriptions []Description
}

func (Conjunction) descriptionNode() {}

// Disjunction matches entities satisfying at least one child (OR).
// An empty disjunction matches nothing.
type Disjunction struct {
	Descriptions []Description
}

func (Disjunction) descriptionNode() {}

// SomeProperty matches entities that have Property with a value matching
// Value. A nil Value matches any value.
//
// When Inverse is set the entity is the object of the property rather than
// its subject.
//
// SPARQL MAPPING:
//
//	SomeProperty{Property: "Located in", Value: ValueFilter{EQ, Page("Germany")}}
//
// becomes:
//
//	?result property:Located_in wiki:Germany .
type SomeProperty struct {
	Property string
	Inverse  bool
	Value    Description
}

func (SomeProperty) descriptionNode() {}

// NamespaceFilter matches pages in the given wiki namespace.
type NamespaceFilter struct {
	Namespace int
}

func (NamespaceFilter) descriptionNode() {}

// ClassFilter matches pages in at least one of Categories.
// An empty category list matches nothing.
type ClassFilter struct {
	Categories []string
}

func (ClassFilter) descriptionNode() {}

// ValueFilter matches values that compare against Value with Comparator.
//
// EQ pins the join variable to a single term. The ordering comparators
// compare sortable forms (sort keys for pages). LIKE and NLIKE accept
// wildcard patterns where * matches any run and ? a single character.
type ValueFilter struct {
	Comparator Comparator
	Value      ir.IRValue
}

func (ValueFilter) descriptionNode() {}

// ConceptFilter matches members of a stored concept.
// Concepts are not expanded; backends treat them as Anything.
type ConceptFilter struct {
	Concept string
}

func (ConceptFilter) descriptionNode() {}

// Anything matches every entity unconditionally.
type Anything struct{}

func (Anything) descriptionNode() {}

// Kind is the variant tag of a description.
type Kind string

// Description kinds.
const (
	KindConjunction Kind = "conjunction"
	KindDisjunction Kind = "disjunction"
	KindProperty    Kind = "property"
	KindNamespace   Kind = "namespace"
	KindClass       Kind = "class"
	KindValue       Kind = "value"
	KindConcept     Kind = "concept"
	KindAnything    Kind = "anything"
	KindUnknown     Kind = "unknown"
)

// Unwrap returns the value form of a pointer description.
// Nil pointers and values pass through unchanged.
func Unwrap(d Description) Description {
	switch desc := d.(type) {
	case *Conjunction:
		if desc != nil {
			return *desc
		}
	case *Disjunction:
		if desc != nil {
			return *desc
		}
	case *SomeProperty:
		if desc != nil {
			return *desc
		}
	case *NamespaceFilter:
		if desc != nil {
			return *desc
		}
	case *ClassFilter:
		if desc != nil {
			return *desc
		}
	case *ValueFilter:
		if desc != nil {
			return *desc
		}
	case *ConceptFilter:
		if desc != nil {
			return *desc
		}
	case *Anything:
		if desc != nil {
			return *desc
		}
	}
	return d
}

// KindOf returns the variant tag of d.
// Nil descriptions and nil pointers report KindUnknown.
func KindOf(d Description) Kind {
	switch Unwrap(d).(type) {
	case Conjunction:
		return KindConjunction
	case Disjunction:
		return KindDisjunction
	case SomeProperty:
		return KindProperty
	case NamespaceFilter:
		return KindNamespace
	case ClassFilter:
		return KindClass
	case ValueFilter:
		return KindValue
	case ConceptFilter:
		return KindConcept
	case Anything:
		return KindAnything
	default:
		return KindUnknown
	}
}

// And builds a conjunction of ds.
func And(ds ...Description) Conjunction {
	return Conjunction{Descriptions: ds}
}

// Or builds a disjunction of ds.
func Or(ds ...Description) Disjunction {
	return Disjunction{Descriptions: ds}
}

// Property builds a SomeProperty with the given value description.
func Property(name string, value Description) SomeProperty {
	return SomeProperty{Property: name, Value: value}
}

// Equals builds an EQ value filter.
func Equals(v ir.IRValue) ValueFilter {
	return ValueFilter{Comparator: CmpEQ, Value: v}
}

// Category builds a class filter over the given categories.
func Category(names ...string) ClassFilter {
	return ClassFilter{Categories: names}
}
