package querysparql

import (
	"strings"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/queryir"
	"github.com/roach88/sparqlwhere/internal/term"
)

// ValueStrategy compiles ValueFilter descriptions.
//
//	=               Singleton of the exported value
//	!= < > <= >=    Filter comparing the order variable (a sort key for
//	                pages) with the exported value
//	~ !~            Filter with regex() over strings, page sort keys and
//	                IRIs; True for numbers and booleans
//
// Unknown comparators and values without a term form compile to True.
type ValueStrategy struct{}

var comparisonOperators = map[queryir.Comparator]string{
	queryir.CmpNEQ:     "!=",
	queryir.CmpLess:    "<",
	queryir.CmpGreater: ">",
	queryir.CmpLEQ:     "<=",
	queryir.CmpGEQ:     ">=",
}

// BuildCondition implements Strategy.
func (s ValueStrategy) BuildCondition(c Compiler, d queryir.Description, joinVariable, orderByProperty string) Condition {
	desc, _ := queryir.Unwrap(d).(queryir.ValueFilter)
	kind := ir.KindOf(desc.Value)

	switch desc.Comparator {
	case queryir.CmpEQ:
		value, err := c.Exporter().Value(desc.Value)
		if err != nil {
			return c.BuildTrueCondition(joinVariable, orderByProperty)
		}
		result := Singleton{Term: value}.withAnnotations(Annotations{}.clone())
		return c.AddOrderByForProperty(result, joinVariable, orderByProperty, kind)
	case queryir.CmpLike, queryir.CmpNotLike:
		return s.buildRegex(c, desc, joinVariable, orderByProperty)
	}

	op, ok := comparisonOperators[desc.Comparator]
	if !ok {
		return c.BuildTrueCondition(joinVariable, orderByProperty)
	}
	value, err := c.Exporter().SortValue(desc.Value)
	if err != nil {
		return c.BuildTrueCondition(joinVariable, orderByProperty)
	}

	result := c.AddOrderBy(Filter{}.withAnnotations(Annotations{}.clone()), joinVariable, kind)
	ann := result.annotations().clone()
	name, ns := c.Serialize(value)
	ann = ann.withNamespace(ns)

	result = Filter{Expression: term.Var(ann.OrderByVariable) + " " + op + " " + name}.withAnnotations(ann)
	return c.AddOrderByForProperty(result, joinVariable, orderByProperty, kind)
}

func (ValueStrategy) buildRegex(c Compiler, desc queryir.ValueFilter, joinVariable, orderByProperty string) Condition {
	fn := "regex"
	if desc.Comparator == queryir.CmpNotLike {
		fn = "!regex"
	}

	var result Condition = Filter{}.withAnnotations(Annotations{}.clone())
	var subject, pattern string
	switch v := desc.Value.(type) {
	case ir.IRString:
		subject, pattern = term.Var(joinVariable), string(v)
	case ir.IRURI:
		subject, pattern = "str( "+term.Var(joinVariable)+" )", string(v)
	case ir.IRPage:
		result = c.AddOrderBy(result, joinVariable, ir.KindPage)
		subject, pattern = term.Var(result.annotations().OrderByVariable), v.EffectiveSortKey()
	default:
		return c.BuildTrueCondition(joinVariable, orderByProperty)
	}

	literal, _ := c.Serialize(term.Literal{Lexical: LikePattern(pattern)})
	expr := fn + "( " + subject + ", " + literal + ", \"s\" )"
	result = Filter{Expression: expr}.withAnnotations(result.annotations())
	return c.AddOrderByForProperty(result, joinVariable, orderByProperty, ir.KindOf(desc.Value))
}

// likeReplacer escapes regex metacharacters and translates wildcards.
var likeReplacer = strings.NewReplacer(
	`\`, `\\`,
	`^`, `\^`,
	`$`, `\$`,
	`.`, `\.`,
	`+`, `\+`,
	`(`, `\(`,
	`)`, `\)`,
	`[`, `\[`,
	`]`, `\]`,
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`*`, `.*`,
	`?`, `.`,
)

// LikePattern turns a wildcard pattern into an anchored regular
// expression: * matches any run of characters, ? matches one character,
// everything else matches literally.
func LikePattern(wildcard string) string {
	return "^" + likeReplacer.Replace(wildcard) + "$"
}
