package querysparql

import (
	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/term"
	"github.com/roach88/sparqlwhere/internal/vocabulary"
)

// WhereClause is a rendered condition: the body of a WHERE block and the
// namespaces its text uses.
type WhereClause struct {
	Text       string
	Namespaces map[string]string
}

// Hash returns the content-addressed identity of the clause.
func (w WhereClause) Hash() (string, error) {
	ns := make(ir.IRObject, len(w.Namespaces))
	for prefix, iri := range w.Namespaces {
		ns[prefix] = ir.IRString(iri)
	}
	return ir.ContentHash(ir.DomainCondition, ir.IRObject{
		"text":       ir.IRString(w.Text),
		"namespaces": ns,
	})
}

// Render turns a root condition into where-clause text.
//
// Weak conditions come first. When there are none and the condition is
// unsafe, a swivt:page pattern binds the result variable to a page. For a
// Singleton root every occurrence of the result variable is replaced by
// the pinned term.
func (b *Builder) Render(c Condition) WhereClause {
	c = UnwrapCondition(c)
	ann := c.annotations()
	namespaces := cloneMap(ann.Namespaces)

	text := ann.WeakConditionString()
	if text == "" && !c.IsSafe() {
		predicate, ns := b.Serialize(vocabulary.SwivtPage)
		if ns != nil {
			namespaces[ns.Prefix] = ns.IRI
		}
		text = term.Var(b.resultVariable) + " " + predicate + " ?url .\n"
	}
	text += c.Text()

	if s, ok := c.(Singleton); ok {
		name, ns := b.Serialize(s.Term)
		if ns != nil {
			namespaces[ns.Prefix] = ns.IRI
		}
		text = term.ReplaceVariable(text, b.resultVariable, name)
	}

	return WhereClause{Text: text, Namespaces: namespaces}
}
