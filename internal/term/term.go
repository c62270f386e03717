package term

// Kind identifies term types.
type Kind uint8

const (
	// KindIRI is a full or namespaced IRI.
	KindIRI Kind = iota
	// KindLiteral is a literal value.
	KindLiteral
)

// Term is a value that can appear in a graph pattern.
type Term interface {
	Kind() Kind
	String() string
}

// Namespace binds a prefix to the IRI it abbreviates.
type Namespace struct {
	Prefix string
	IRI    string
}

// IRI is a full IRI.
type IRI struct {
	Value string
}

// Kind returns KindIRI.
func (IRI) Kind() Kind { return KindIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// NsIRI is an IRI split into a namespace and a local name.
type NsIRI struct {
	Namespace Namespace
	Local     string
}

// Kind returns KindIRI.
func (NsIRI) Kind() Kind { return KindIRI }

// String returns the expanded IRI.
func (n NsIRI) String() string { return n.Namespace.IRI + n.Local }

// Literal is an RDF literal. Datatype is nil for plain literals.
type Literal struct {
	Lexical  string
	Datatype Term
	Lang     string
}

// Kind returns KindLiteral.
func (Literal) Kind() Kind { return KindLiteral }

// String returns a debug form of the literal.
func (l Literal) String() string {
	switch {
	case l.Lang != "":
		return quote(l.Lexical) + "@" + l.Lang
	case l.Datatype != nil:
		return quote(l.Lexical) + "^^<" + l.Datatype.String() + ">"
	default:
		return quote(l.Lexical)
	}
}

// Equal reports whether a and b denote the same term. Namespaced and full
// forms of one IRI are equal.
func Equal(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	if a.Kind() == KindIRI {
		return a.String() == b.String()
	}
	la, lb := asLiteral(a), asLiteral(b)
	return la.Lexical == lb.Lexical && la.Lang == lb.Lang && Equal(la.Datatype, lb.Datatype)
}

func asLiteral(t Term) Literal {
	if p, ok := t.(*Literal); ok {
		return *p
	}
	l, _ := t.(Literal)
	return l
}
