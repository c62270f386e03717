package querysparql

import "github.com/roach88/sparqlwhere/internal/term"

// Explanation is a JSON-friendly snapshot of a condition.
type Explanation struct {
	Kind            string            `json:"kind" yaml:"kind"`
	Safe            bool              `json:"safe" yaml:"safe"`
	Text            string            `json:"text,omitempty" yaml:"text,omitempty"`
	Term            string            `json:"term,omitempty" yaml:"term,omitempty"`
	Namespaces      map[string]string `json:"namespaces,omitempty" yaml:"namespaces,omitempty"`
	WeakConditions  map[string]string `json:"weak_conditions,omitempty" yaml:"weak_conditions,omitempty"`
	OrderVariables  map[string]string `json:"order_variables,omitempty" yaml:"order_variables,omitempty"`
	OrderByVariable string            `json:"order_by_variable,omitempty" yaml:"order_by_variable,omitempty"`
	Variables       []string          `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// Explain describes c without rendering it.
func (b *Builder) Explain(c Condition) Explanation {
	c = UnwrapCondition(c)
	ann := AnnotationsOf(c)

	e := Explanation{
		Kind:            Kind(c),
		Safe:            c.IsSafe(),
		Text:            c.Text(),
		OrderByVariable: ann.OrderByVariable,
		Variables:       term.Variables(ann.WeakConditionString() + c.Text()),
	}
	if len(ann.Namespaces) > 0 {
		e.Namespaces = ann.Namespaces
	}
	if len(ann.WeakConditions) > 0 {
		e.WeakConditions = ann.WeakConditions
	}
	if len(ann.OrderVariables) > 0 {
		e.OrderVariables = ann.OrderVariables
	}
	if s, ok := c.(Singleton); ok {
		e.Term, _ = b.Serialize(s.Term)
	}
	return e
}
