package querysparql

import (
	"go.uber.org/zap"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/queryir"
)

// AddMissingOrderByConditions makes sure every requested sort key has an
// order variable on the root condition.
//
// The "" key sorts by the result page's sort key. A property key is served
// by compiling an auxiliary "property has any value" description against
// the result variable and adopting its order variable, together with the
// pattern that binds it as a weak condition.
//
// A property key the auxiliary compilation does not bind is a broken
// strategy contract and fails with ErrCodeMissingOrderVariable.
func (b *Builder) AddMissingOrderByConditions(c Condition) (Condition, error) {
	c = UnwrapCondition(c)
	ann := c.annotations().clone()

	for _, sk := range b.sortKeys {
		if _, ok := ann.OrderVariables[sk.Key]; ok {
			continue
		}

		if sk.Key == "" {
			withOrder := b.AddOrderBy(c.withAnnotations(ann), b.resultVariable, ir.KindPage)
			ann = withOrder.annotations().clone()
			ann.OrderVariables[""] = ann.OrderByVariable
			continue
		}

		aux := b.MapDescription(queryir.SomeProperty{Property: sk.Key, Value: queryir.Anything{}}, b.resultVariable, "")
		auxAnn := aux.annotations()
		variable := auxAnn.OrderVariables[sk.Key]
		if variable == "" {
			return nil, NewMissingOrderVariableError(sk.Key, "auxiliary "+Kind(aux)+" condition")
		}

		ann.OrderVariables[sk.Key] = variable
		ann.WeakConditions[variable] = auxAnn.WeakConditionString() + aux.Text()
		unionInto(ann.Namespaces, auxAnn.Namespaces)

		b.logger.Debug("added order variable",
			zap.String("sort_key", sk.Key),
			zap.String("order_variable", variable))
	}

	return c.withAnnotations(ann), nil
}
