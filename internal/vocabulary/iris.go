package vocabulary

import "github.com/roach88/sparqlwhere/internal/term"

// Standard namespace IRIs.
const (
	NamespaceRDF   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS  = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceXSD   = "http://www.w3.org/2001/XMLSchema#"
	NamespaceSWIVT = "http://semantic-mediawiki.org/swivt/1.0#"
)

// Prefixes of the wiki-relative namespaces.
const (
	PrefixWiki     = "wiki"
	PrefixProperty = "property"
	PrefixCategory = "category"
)

// System namespaces.
var (
	RDF   = term.Namespace{Prefix: "rdf", IRI: NamespaceRDF}
	RDFS  = term.Namespace{Prefix: "rdfs", IRI: NamespaceRDFS}
	XSD   = term.Namespace{Prefix: "xsd", IRI: NamespaceXSD}
	SWIVT = term.Namespace{Prefix: "swivt", IRI: NamespaceSWIVT}
)

// Predicates with fixed meaning in the exported graph.
var (
	// RDFType links a page to the categories it belongs to.
	RDFType = term.NsIRI{Namespace: RDF, Local: "type"}

	// SwivtPage links every exported entity to its wiki page. Binding a
	// variable through it guarantees the variable is an addressable page.
	SwivtPage = term.NsIRI{Namespace: SWIVT, Local: "page"}

	// SwivtSortKey carries the declared sort key of a page.
	SwivtSortKey = term.NsIRI{Namespace: SWIVT, Local: "wikiPageSortKey"}

	// SwivtNamespace carries the wiki namespace number of a page.
	SwivtNamespace = term.NsIRI{Namespace: SWIVT, Local: "wikiNamespace"}
)

// Datatypes.
var (
	XSDString  = term.NsIRI{Namespace: XSD, Local: "string"}
	XSDDouble  = term.NsIRI{Namespace: XSD, Local: "double"}
	XSDInteger = term.NsIRI{Namespace: XSD, Local: "integer"}
	XSDBoolean = term.NsIRI{Namespace: XSD, Local: "boolean"}
)

// SystemNamespaces returns the namespaces every generated query may use.
func SystemNamespaces() []term.Namespace {
	return []term.Namespace{RDF, RDFS, XSD, SWIVT}
}
