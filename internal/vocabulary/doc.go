// Package vocabulary defines the namespaces and system predicates used in
// generated SPARQL, and the Exporter that maps wiki entities and data
// values to RDF terms.
//
// System namespaces are fixed. The wiki, property and category namespaces
// hang off a configurable base IRI:
//
//	wiki:      <base>Special:URIResolver/
//	property:  <base>Special:URIResolver/Property-3A
//	category:  <base>Special:URIResolver/Category-3A
package vocabulary
