// Package querysparql compiles description trees into SPARQL where-clauses.
//
// Compilation maps every node of a queryir.Description to a Condition.
// Atomic predicates are handed to pluggable strategies; Conjunction and
// Disjunction nodes are merged by the Builder:
//
//	description tree -> Condition tree (bottom-up) -> root Condition
//	root Condition   -> order-by augmentation      -> Render -> where-clause
//
// CONDITIONS:
//
// A Condition is one of five variants:
//
//	True       matches everything, no pattern text
//	False      matches nothing
//	Where      a graph pattern
//	Filter     a FILTER expression with no pattern of its own
//	Singleton  the join variable is pinned to one concrete term
//
// Every variant carries Annotations: namespaces to declare, weak
// conditions (supplementary patterns that bind order variables), the order
// variables recorded per sort key, and the variable the condition itself
// sorts by.
//
// SAFETY:
//
// A condition is safe when its pattern alone binds the join variable to an
// addressable page. Render injects a "?result swivt:page ?url" pattern for
// unsafe roots so the result variable is always constrained.
//
// Conditions are immutable values. Merges build new conditions and never
// modify their inputs.
package querysparql
