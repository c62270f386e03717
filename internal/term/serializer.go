package term

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Serializer renders terms as SPARQL text.
//
// The returned namespace is the one the text depends on (a prefixed name
// or the prefixed datatype of a literal), or nil when the text is
// self-contained.
type Serializer interface {
	Serialize(t Term) (string, *Namespace)
}

// TurtleSerializer renders terms in Turtle/SPARQL syntax.
//
//	IRI       <http://example.org/a>
//	NsIRI     wiki:Berlin
//	Literal   "42"^^xsd:double, "hi"@en, "plain"
//
// Namespaced IRIs whose local name is not a valid prefixed-name local part
// fall back to the full <IRI> form.
type TurtleSerializer struct{}

// Serialize implements Serializer.
func (s TurtleSerializer) Serialize(t Term) (string, *Namespace) {
	switch tm := t.(type) {
	case IRI:
		return "<" + escapeIRI(tm.Value) + ">", nil
	case *IRI:
		return s.Serialize(*tm)
	case NsIRI:
		if tm.Namespace.Prefix == "" || !validLocal(tm.Local) {
			return "<" + escapeIRI(tm.String()) + ">", nil
		}
		ns := tm.Namespace
		return ns.Prefix + ":" + tm.Local, &ns
	case *NsIRI:
		return s.Serialize(*tm)
	case Literal:
		text := quote(tm.Lexical)
		switch {
		case tm.Lang != "":
			return text + "@" + tm.Lang, nil
		case tm.Datatype != nil:
			dt, ns := s.Serialize(tm.Datatype)
			return text + "^^" + dt, ns
		default:
			return text, nil
		}
	case *Literal:
		return s.Serialize(*tm)
	default:
		return "", nil
	}
}

// quote renders s as a double-quoted SPARQL string literal.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// escapeIRI escapes the characters Turtle forbids inside <...>.
func escapeIRI(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r <= 0x20 || strings.ContainsRune(`<>"{}|^`+"`"+`\`, r) {
			b.WriteString(`\u`)
			b.WriteString(strings.ToUpper(hex4(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func hex4(r rune) string {
	const digits = "0123456789abcdef"
	return string([]byte{
		digits[(r>>12)&0xF],
		digits[(r>>8)&0xF],
		digits[(r>>4)&0xF],
		digits[r&0xF],
	})
}

// validLocal reports whether s can be written as the local part of a
// prefixed name without escapes.
func validLocal(s string) bool {
	if s == "" {
		return true
	}
	first, _ := utf8.DecodeRuneInString(s)
	if first == '-' || first == '.' {
		return false
	}
	if strings.HasSuffix(s, ".") {
		return false
	}
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
		case r == '_', r == '-', r == '.':
		default:
			return false
		}
	}
	return true
}
