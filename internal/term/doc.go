// Package term models the RDF terms that appear in generated SPARQL and
// renders them as query-language text.
//
// Three term kinds exist: IRI (a full IRI), NsIRI (an IRI expressed as a
// namespace plus local name, rendered as a prefixed name) and Literal.
// Serializers turn terms into text and report which namespace, if any,
// the rendered text depends on so callers can emit PREFIX declarations.
//
// The package also provides token-aware variable substitution over
// generated pattern text. Substitution never touches string literals or
// IRIs and never matches a variable that is a prefix of another:
//
//	RenameVariable("?v1 p ?v10 .", "v1", "v7")  // "?v7 p ?v10 ."
package term
