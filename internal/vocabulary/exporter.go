package vocabulary

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/term"
)

// DefaultBaseIRI is used when no base IRI is configured.
const DefaultBaseIRI = "http://example.org/"

// Wiki namespace numbers with canonical names.
var namespaceNames = map[int]string{
	0:   "",
	1:   "Talk",
	2:   "User",
	4:   "Project",
	6:   "File",
	8:   "MediaWiki",
	10:  "Template",
	12:  "Help",
	14:  "Category",
	102: "Property",
	108: "Concept",
}

// Wiki namespace numbers the exporter treats specially.
const (
	NSMain     = 0
	NSCategory = 14
	NSProperty = 102
	NSConcept  = 108
)

// Exporter maps wiki entities and values to RDF terms under one base IRI.
type Exporter struct {
	wiki     term.Namespace
	property term.Namespace
	category term.Namespace
}

// NewExporter creates an exporter rooted at baseIRI. An empty baseIRI uses
// DefaultBaseIRI; a missing trailing slash is added.
func NewExporter(baseIRI string) *Exporter {
	if baseIRI == "" {
		baseIRI = DefaultBaseIRI
	}
	if !strings.HasSuffix(baseIRI, "/") && !strings.HasSuffix(baseIRI, "#") {
		baseIRI += "/"
	}
	resolver := baseIRI + "Special:URIResolver/"
	return &Exporter{
		wiki:     term.Namespace{Prefix: PrefixWiki, IRI: resolver},
		property: term.Namespace{Prefix: PrefixProperty, IRI: resolver + "Property-3A"},
		category: term.Namespace{Prefix: PrefixCategory, IRI: resolver + "Category-3A"},
	}
}

// Namespaces returns the system namespaces followed by the wiki ones.
func (e *Exporter) Namespaces() []term.Namespace {
	return append(SystemNamespaces(), e.wiki, e.property, e.category)
}

// Page returns the term of a page in the main namespace.
func (e *Exporter) Page(title string) term.NsIRI {
	return e.PageIn(title, NSMain)
}

// PageIn returns the term of a page in wiki namespace ns. Categories and
// properties use their dedicated namespaces.
func (e *Exporter) PageIn(title string, ns int) term.NsIRI {
	switch ns {
	case NSCategory:
		return e.Category(title)
	case NSProperty:
		return e.Property(title)
	}
	local := NormalizeTitle(title)
	if name, ok := namespaceNames[ns]; ok && name != "" {
		local = name + ":" + local
	} else if !ok {
		local = fmt.Sprintf("NS%d:%s", ns, local)
	}
	return term.NsIRI{Namespace: e.wiki, Local: EncodeLocal(local)}
}

// Property returns the predicate term of a property.
func (e *Exporter) Property(name string) term.NsIRI {
	return term.NsIRI{Namespace: e.property, Local: EncodeLocal(NormalizeTitle(name))}
}

// Category returns the class term of a category.
func (e *Exporter) Category(name string) term.NsIRI {
	return term.NsIRI{Namespace: e.category, Local: EncodeLocal(NormalizeTitle(name))}
}

// Value maps a data value to its term.
//
//	IRString  "s"^^xsd:string
//	IRInt     "n"^^xsd:double
//	IRBool    "true"^^xsd:boolean
//	IRURI     <uri>
//	IRPage    wiki:Title
func (e *Exporter) Value(v ir.IRValue) (term.Term, error) {
	switch val := v.(type) {
	case ir.IRString:
		return term.Literal{Lexical: string(val), Datatype: XSDString}, nil
	case ir.IRInt:
		return term.Literal{Lexical: strconv.FormatInt(int64(val), 10), Datatype: XSDDouble}, nil
	case ir.IRBool:
		return term.Literal{Lexical: strconv.FormatBool(bool(val)), Datatype: XSDBoolean}, nil
	case ir.IRURI:
		return term.IRI{Value: string(val)}, nil
	case ir.IRPage:
		return e.PageIn(val.Title, val.Namespace), nil
	default:
		return nil, fmt.Errorf("cannot export %T as a term", v)
	}
}

// SortValue maps a data value to the term its order variable is compared
// against. Pages compare through their sort key; other values through
// themselves.
func (e *Exporter) SortValue(v ir.IRValue) (term.Term, error) {
	if p, ok := v.(ir.IRPage); ok {
		return term.Literal{Lexical: p.EffectiveSortKey(), Datatype: XSDString}, nil
	}
	return e.Value(v)
}

// NormalizeTitle puts a page or property name in canonical form: NFC,
// trimmed, runs of spaces and underscores collapsed to one underscore,
// first letter upper-cased.
func NormalizeTitle(title string) string {
	title = norm.NFC.String(title)
	fields := strings.FieldsFunc(title, func(r rune) bool {
		return r == '_' || unicode.IsSpace(r)
	})
	title = strings.Join(fields, "_")
	if title == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(title)
	return string(unicode.ToUpper(first)) + title[size:]
}

// EncodeLocal makes s safe as a prefixed-name local part: ASCII letters,
// digits and underscores pass through, every other byte becomes -XX.
func EncodeLocal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "-%02X", c)
		}
	}
	return b.String()
}
