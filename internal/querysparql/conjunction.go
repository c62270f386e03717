package querysparql

import (
	"strings"

	"go.uber.org/zap"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/queryir"
	"github.com/roach88/sparqlwhere/internal/term"
)

// buildConjunction merges the children of an AND node.
//
// Children compile without an order-by target; ordering is attached to the
// merged result. Any False child, or two Singletons pinning different
// terms, makes the whole conjunction False.
func (b *Builder) buildConjunction(children []queryir.Description, joinVariable, orderByProperty string) Condition {
	switch len(children) {
	case 0:
		return b.BuildTrueCondition(joinVariable, orderByProperty)
	case 1:
		return b.MapDescription(children[0], joinVariable, orderByProperty)
	}

	var (
		pattern     strings.Builder
		filters     []string
		ann         = Annotations{}.clone()
		hasSafe     bool
		singleton   term.Term
		singletonID string
	)

	for i, child := range children {
		sub := b.MapDescription(child, joinVariable, "")
		switch cond := sub.(type) {
		case False:
			b.logger.Debug("conjunction short-circuits to false", zap.Int("child", i))
			return False{}.withAnnotations(Annotations{}.clone())
		case True:
		case Where:
			pattern.WriteString(cond.Pattern)
		case Filter:
			if cond.Expression != "" {
				filters = append(filters, cond.Expression)
			}
		case Singleton:
			id, _ := b.Serialize(cond.Term)
			if singleton != nil && !term.Equal(singleton, cond.Term) {
				b.logger.Debug("conjunction of different singletons is false",
					zap.String("first", singletonID),
					zap.String("second", id))
				return False{}.withAnnotations(Annotations{}.clone())
			}
			singleton, singletonID = cond.Term, id
			pattern.WriteString(cond.Pattern)
		}
		hasSafe = hasSafe || sub.IsSafe()
		ann = ann.merge(sub.annotations(), true)
	}

	filterText := conjoinFilters(filters)
	var result Condition
	switch {
	case singleton != nil:
		result = Singleton{Term: singleton, Pattern: pattern.String() + filterClause(filterText), Safe: hasSafe}
	case pattern.Len() == 0 && filterText == "":
		result = True{}
	case pattern.Len() == 0:
		result = Filter{Expression: filterText}
	default:
		result = Where{Pattern: pattern.String() + filterClause(filterText), Safe: hasSafe}
	}

	ann.OrderByVariable = ""
	return b.AddOrderByForProperty(result.withAnnotations(ann), joinVariable, orderByProperty, ir.KindUnknown)
}

// conjoinFilters joins expressions with &&, parenthesizing disjunctions.
func conjoinFilters(exprs []string) string {
	if len(exprs) == 1 {
		return exprs[0]
	}
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		if strings.Contains(e, "||") {
			e = "( " + e + " )"
		}
		parts[i] = e
	}
	return strings.Join(parts, " && ")
}

func filterClause(expr string) string {
	if expr == "" {
		return ""
	}
	return "FILTER( " + expr + " )\n"
}
