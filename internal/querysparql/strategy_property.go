package querysparql

import (
	"strings"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/queryir"
	"github.com/roach88/sparqlwhere/internal/term"
)

// PropertyStrategy compiles SomeProperty descriptions.
//
// The value description compiles against a fresh variable that becomes
// the object of the property triple (the subject when Inverse is set):
//
//	?result property:Located_in ?v1 .
//	{ ?v1 rdf:type category:City . }
//
// A Singleton value is inlined as the object term. When the property is a
// requested sort key, the value's order variable is recorded under it.
type PropertyStrategy struct{}

// BuildCondition implements Strategy.
func (PropertyStrategy) BuildCondition(c Compiler, d queryir.Description, joinVariable, orderByProperty string) Condition {
	desc, ok := queryir.Unwrap(d).(queryir.SomeProperty)
	if !ok || strings.TrimSpace(desc.Property) == "" {
		return c.BuildTrueCondition(joinVariable, orderByProperty)
	}

	innerOrderBy, isSortKey := c.SortKeyFor(desc.Property)
	innerVariable := c.NextVariable()

	var value queryir.Description = queryir.Anything{}
	if desc.Value != nil {
		value = desc.Value
	}
	inner := c.MapDescription(value, innerVariable, innerOrderBy)
	innerAnn := inner.annotations()
	ann := Annotations{}.clone()
	unionInto(ann.Namespaces, innerAnn.Namespaces)

	innerText := inner.Text() + innerAnn.WeakConditionString()
	objectName := term.Var(innerVariable)
	orderVariables := innerAnn.OrderVariables
	orderByVariable := innerAnn.OrderByVariable
	switch cond := inner.(type) {
	case False:
		return False{}.withAnnotations(Annotations{}.clone())
	case Singleton:
		name, ns := c.Serialize(cond.Term)
		ann = ann.withNamespace(ns)
		objectName = name
		innerText = term.ReplaceVariable(innerText, innerVariable, name)

		// innerVariable is gone from the pattern and can no longer carry
		// an order. A page's sort key variable survives in its weak
		// condition; a literal's value does not, and the root binds the
		// sort key on its own.
		orderVariables = withoutVariable(orderVariables, innerVariable)
		if orderByVariable == innerVariable {
			orderByVariable = ""
		}
	}

	predicate, ns := c.Serialize(c.Exporter().Property(desc.Property))
	ann = ann.withNamespace(ns)

	subjectName := term.Var(joinVariable)
	if desc.Inverse {
		subjectName, objectName = objectName, subjectName
	}

	var pattern strings.Builder
	pattern.WriteString(subjectName + " " + predicate + " " + objectName + " .\n")
	if innerText != "" {
		if _, isFilter := inner.(Filter); isFilter {
			pattern.WriteString(innerText)
		} else {
			pattern.WriteString("{ " + innerText + "}\n")
		}
	}

	unionInto(ann.OrderVariables, orderVariables)
	if isSortKey && orderByVariable != "" {
		ann.OrderVariables[innerOrderBy] = orderByVariable
	}

	result := Where{Pattern: pattern.String(), Safe: true}.withAnnotations(ann)
	return c.AddOrderByForProperty(result, joinVariable, orderByProperty, ir.KindPage)
}

// withoutVariable returns the order variables not bound to variable.
func withoutVariable(orderVariables map[string]string, variable string) map[string]string {
	kept := make(map[string]string, len(orderVariables))
	for key, v := range orderVariables {
		if v != variable {
			kept[key] = v
		}
	}
	return kept
}
