package querysparql

import (
	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/queryir"
	"github.com/roach88/sparqlwhere/internal/term"
	"github.com/roach88/sparqlwhere/internal/vocabulary"
)

// Strategy compiles one kind of atomic description.
//
// When orderByProperty is non-empty the returned condition must carry an
// OrderByVariable for it, usually via Compiler.AddOrderByForProperty.
// Strategies never fail: a predicate that cannot be expressed compiles to
// True or False.
type Strategy interface {
	BuildCondition(c Compiler, d queryir.Description, joinVariable, orderByProperty string) Condition
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc func(c Compiler, d queryir.Description, joinVariable, orderByProperty string) Condition

// BuildCondition implements Strategy.
func (f StrategyFunc) BuildCondition(c Compiler, d queryir.Description, joinVariable, orderByProperty string) Condition {
	return f(c, d, joinVariable, orderByProperty)
}

// Compiler is the view of the Builder that strategies work against.
type Compiler interface {
	// ResultVariable is the name of the variable bound to result pages.
	ResultVariable() string

	// NextVariable returns a fresh variable name.
	NextVariable() string

	// MapDescription compiles a nested description.
	MapDescription(d queryir.Description, joinVariable, orderByProperty string) Condition

	// BuildTrueCondition returns True with order-by support attached.
	BuildTrueCondition(joinVariable, orderByProperty string) Condition

	// AddOrderBy attaches ordering on mainVariable for values of kind.
	AddOrderBy(c Condition, mainVariable string, kind ir.DataKind) Condition

	// AddOrderByForProperty attaches ordering for orderByProperty. A zero
	// kind is resolved through the type registry.
	AddOrderByForProperty(c Condition, mainVariable, orderByProperty string, kind ir.DataKind) Condition

	// SortKeyFor returns the requested sort key naming property, if any.
	SortKeyFor(property string) (string, bool)

	// Exporter maps entities and values to terms.
	Exporter() *vocabulary.Exporter

	// Serialize renders a term as query text.
	Serialize(t term.Term) (string, *term.Namespace)
}

// defaultStrategies returns the built-in strategy for every atomic kind.
func defaultStrategies() map[queryir.Kind]Strategy {
	return map[queryir.Kind]Strategy{
		queryir.KindProperty:  PropertyStrategy{},
		queryir.KindClass:     ClassStrategy{},
		queryir.KindNamespace: NamespaceStrategy{},
		queryir.KindValue:     ValueStrategy{},
	}
}
