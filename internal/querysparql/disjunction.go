package querysparql

import (
	"strings"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/queryir"
	"github.com/roach88/sparqlwhere/internal/term"
)

// buildDisjunction merges the children of an OR node.
//
// Pattern children become UNION branches, filter children are joined with
// ||. When both kinds are present the union moves into an OPTIONAL block
// under a fresh variable and the filter accepts either binding, which
// leaves the result unsafe. Order variables of children are dropped: no
// single branch is guaranteed to bind them.
func (b *Builder) buildDisjunction(children []queryir.Description, joinVariable, orderByProperty string) Condition {
	switch len(children) {
	case 0:
		return False{}.withAnnotations(Annotations{}.clone())
	case 1:
		return b.MapDescription(children[0], joinVariable, orderByProperty)
	}

	var (
		branches []string
		filters  []string
		ann      = Annotations{}.clone()
		hasSafe  bool
	)
	joinVar := term.Var(joinVariable)

	for _, child := range children {
		sub := b.MapDescription(child, joinVariable, "")
		switch cond := sub.(type) {
		case False:
			continue
		case True:
			b.logger.Debug("disjunction short-circuits to true")
			return b.BuildTrueCondition(joinVariable, orderByProperty)
		case Where:
			branches = append(branches, "{\n"+cond.Pattern+"}")
			hasSafe = hasSafe || cond.Safe
		case Filter:
			if cond.Expression != "" {
				filters = append(filters, cond.Expression)
			}
		case Singleton:
			name, ns := b.Serialize(cond.Term)
			ann = ann.withNamespace(ns)
			if cond.Pattern == "" {
				filters = append(filters, joinVar+" = "+name)
			} else {
				branches = append(branches, "{\n"+cond.Pattern+" FILTER( "+joinVar+" = "+name+" ) }")
				hasSafe = hasSafe || cond.Safe
			}
		}
		ann = ann.merge(sub.annotations(), false)
	}

	union := strings.Join(branches, " UNION ")
	filter := strings.Join(filters, " || ")

	var result Condition
	switch {
	case union == "" && filter == "":
		return False{}.withAnnotations(Annotations{}.clone())
	case union == "":
		result = Filter{Expression: filter}
	case filter == "":
		result = Where{Pattern: union + "\n", Safe: hasSafe}
	default:
		sub := b.NextVariable()
		union = term.RenameVariable(union, joinVariable, sub)
		filter += " || " + joinVar + " = " + term.Var(sub)
		result = Where{Pattern: "OPTIONAL { " + union + " }\nFILTER( " + filter + " )\n", Safe: false}
	}

	ann.OrderVariables = map[string]string{}
	ann.OrderByVariable = ""
	return b.AddOrderByForProperty(result.withAnnotations(ann), joinVariable, orderByProperty, ir.KindUnknown)
}
