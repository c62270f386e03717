package querysparql

import (
	"strconv"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/queryir"
	"github.com/roach88/sparqlwhere/internal/term"
	"github.com/roach88/sparqlwhere/internal/vocabulary"
)

// NamespaceStrategy compiles NamespaceFilter descriptions.
type NamespaceStrategy struct{}

// BuildCondition implements Strategy.
func (NamespaceStrategy) BuildCondition(c Compiler, d queryir.Description, joinVariable, orderByProperty string) Condition {
	desc, _ := queryir.Unwrap(d).(queryir.NamespaceFilter)

	ann := Annotations{}.clone()
	predicate, ns := c.Serialize(vocabulary.SwivtNamespace)
	ann = ann.withNamespace(ns)
	value, ns := c.Serialize(term.Literal{Lexical: strconv.Itoa(desc.Namespace), Datatype: vocabulary.XSDInteger})
	ann = ann.withNamespace(ns)

	pattern := "{ " + term.Var(joinVariable) + " " + predicate + " " + value + " . }\n"
	result := Where{Pattern: pattern, Safe: true}.withAnnotations(ann)
	return c.AddOrderByForProperty(result, joinVariable, orderByProperty, ir.KindPage)
}
