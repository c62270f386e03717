package querysparql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/sparqlwhere/internal/term"
)

// SelectOptions shapes the query produced by BuildSelect.
type SelectOptions struct {
	Distinct bool
	Limit    int // 0 means no LIMIT
	Offset   int // 0 means no OFFSET

	// AllPrefixes declares every exporter namespace, not only those the
	// where clause uses, so callers can append their own patterns.
	AllPrefixes bool
}

// BuildSelect assembles a complete SELECT query around a root condition:
// PREFIX declarations, the projection (result variable plus order
// variables), the rendered WHERE block, and ORDER BY in sort-key order.
//
// A Singleton root projects its term as the result variable.
func (b *Builder) BuildSelect(c Condition, opts SelectOptions) (string, error) {
	c = UnwrapCondition(c)
	where := b.Render(c)
	ann := c.annotations()

	resultVar := term.Var(b.resultVariable)
	projection := []string{resultVar}
	if s, ok := c.(Singleton); ok {
		name, _ := b.Serialize(s.Term)
		projection[0] = "(" + name + " AS " + resultVar + ")"
	}

	var orderBy []string
	seen := map[string]bool{b.resultVariable: true}
	for _, sk := range b.sortKeys {
		variable, ok := ann.OrderVariables[sk.Key]
		if !ok || variable == "" {
			return "", NewMissingOrderVariableError(sk.Key, "root condition")
		}
		if !seen[variable] {
			seen[variable] = true
			projection = append(projection, term.Var(variable))
		}
		orderBy = append(orderBy, orderExpression(sk.Direction, term.Var(variable)))
	}

	namespaces := where.Namespaces
	if opts.AllPrefixes {
		namespaces = cloneMap(where.Namespaces)
		for _, ns := range b.exporter.Namespaces() {
			if _, ok := namespaces[ns.Prefix]; !ok {
				namespaces[ns.Prefix] = ns.IRI
			}
		}
	}

	var q strings.Builder
	prefixes := make([]string, 0, len(namespaces))
	for prefix := range namespaces {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	for _, prefix := range prefixes {
		fmt.Fprintf(&q, "PREFIX %s: <%s>\n", prefix, namespaces[prefix])
	}

	q.WriteString("SELECT ")
	if opts.Distinct {
		q.WriteString("DISTINCT ")
	}
	q.WriteString(strings.Join(projection, " "))
	q.WriteString(" WHERE {\n")
	q.WriteString(where.Text)
	q.WriteString("}\n")

	if len(orderBy) > 0 {
		q.WriteString("ORDER BY " + strings.Join(orderBy, " ") + "\n")
	}
	if opts.Limit > 0 {
		fmt.Fprintf(&q, "LIMIT %d\n", opts.Limit)
	}
	if opts.Offset > 0 {
		fmt.Fprintf(&q, "OFFSET %d\n", opts.Offset)
	}
	return q.String(), nil
}

// orderExpression renders one ORDER BY term. Directions other than DESC
// sort ascending.
func orderExpression(direction, variable string) string {
	if strings.EqualFold(strings.TrimSpace(direction), "desc") {
		return "DESC(" + variable + ")"
	}
	return "ASC(" + variable + ")"
}
