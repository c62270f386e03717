package querysparql

import (
	"strings"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/queryir"
	"github.com/roach88/sparqlwhere/internal/term"
	"github.com/roach88/sparqlwhere/internal/vocabulary"
)

// ClassStrategy compiles ClassFilter descriptions into a UNION of rdf:type
// patterns, one per category. No categories compiles to False.
type ClassStrategy struct{}

// BuildCondition implements Strategy.
func (ClassStrategy) BuildCondition(c Compiler, d queryir.Description, joinVariable, orderByProperty string) Condition {
	desc, _ := queryir.Unwrap(d).(queryir.ClassFilter)
	if len(desc.Categories) == 0 {
		return False{}.withAnnotations(Annotations{}.clone())
	}

	ann := Annotations{}.clone()
	typePredicate, ns := c.Serialize(vocabulary.RDFType)
	ann = ann.withNamespace(ns)

	branches := make([]string, 0, len(desc.Categories))
	for _, category := range desc.Categories {
		name, ns := c.Serialize(c.Exporter().Category(category))
		ann = ann.withNamespace(ns)
		branches = append(branches, "{ "+term.Var(joinVariable)+" "+typePredicate+" "+name+" . }\n")
	}

	result := Where{Pattern: strings.Join(branches, "UNION\n"), Safe: true}.withAnnotations(ann)
	return c.AddOrderByForProperty(result, joinVariable, orderByProperty, ir.KindPage)
}
