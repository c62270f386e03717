package querysparql

import (
	"maps"
	"sort"
	"strings"

	"github.com/roach88/sparqlwhere/internal/term"
)

// Condition is the compiled form of a description fragment.
//
// This is a sealed interface - only types in this package implement it.
type Condition interface {
	conditionNode()

	// IsSafe reports whether the condition binds its join variable to an
	// addressable page.
	IsSafe() bool

	// Text returns the condition's own pattern or FILTER text, without
	// weak conditions.
	Text() string

	annotations() Annotations
	withAnnotations(Annotations) Condition
}

// Annotations is the bookkeeping shared by all condition variants.
type Annotations struct {
	// Namespaces maps prefix to IRI for every namespace the text uses.
	Namespaces map[string]string

	// WeakConditions maps a variable to the pattern that binds it.
	WeakConditions map[string]string

	// OrderVariables maps a sort key ("" for the result entity) to the
	// variable carrying its sortable value.
	OrderVariables map[string]string

	// OrderByVariable is the variable this condition sorts by, if any.
	OrderByVariable string
}

// WeakConditionString concatenates the weak conditions in variable order.
func (a Annotations) WeakConditionString() string {
	vars := make([]string, 0, len(a.WeakConditions))
	for v := range a.WeakConditions {
		vars = append(vars, v)
	}
	sort.Strings(vars)

	var b strings.Builder
	for _, v := range vars {
		b.WriteString(a.WeakConditions[v])
	}
	return b.String()
}

func (a Annotations) clone() Annotations {
	return Annotations{
		Namespaces:      cloneMap(a.Namespaces),
		WeakConditions:  cloneMap(a.WeakConditions),
		OrderVariables:  cloneMap(a.OrderVariables),
		OrderByVariable: a.OrderByVariable,
	}
}

// merge returns a copy of a with o's maps unioned in. Existing keys win.
// Order variables are merged only when withOrder is set.
func (a Annotations) merge(o Annotations, withOrder bool) Annotations {
	out := a.clone()
	unionInto(out.Namespaces, o.Namespaces)
	unionInto(out.WeakConditions, o.WeakConditions)
	if withOrder {
		unionInto(out.OrderVariables, o.OrderVariables)
	}
	return out
}

func (a Annotations) withNamespace(ns *term.Namespace) Annotations {
	if ns == nil {
		return a
	}
	out := a.clone()
	out.Namespaces[ns.Prefix] = ns.IRI
	return out
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return make(map[string]string)
	}
	return maps.Clone(m)
}

func unionInto(dst, src map[string]string) {
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
}

// True is satisfied by every binding.
type True struct {
	Annotations
}

// False is never satisfied.
type False struct {
	Annotations
}

// Where is a non-empty graph pattern.
type Where struct {
	Annotations
	Pattern string
	Safe    bool
}

// Filter is a boolean expression for a FILTER clause.
type Filter struct {
	Annotations
	Expression string
}

// Singleton pins the join variable to Term. Pattern may be empty.
type Singleton struct {
	Annotations
	Term    term.Term
	Pattern string
	Safe    bool
}

func (True) conditionNode()      {}
func (False) conditionNode()     {}
func (Where) conditionNode()     {}
func (Filter) conditionNode()    {}
func (Singleton) conditionNode() {}

// IsSafe is false: nothing is bound.
func (True) IsSafe() bool { return false }

// IsSafe is true: an unsatisfiable condition needs no safety pattern.
func (False) IsSafe() bool { return true }

// IsSafe reports the recorded safety.
func (c Where) IsSafe() bool { return c.Safe }

// IsSafe is false: a filter binds nothing.
func (Filter) IsSafe() bool { return false }

// IsSafe reports the recorded safety.
func (c Singleton) IsSafe() bool { return c.Safe }

// Text is empty.
func (True) Text() string { return "" }

// Text is a filter that rejects every binding.
func (False) Text() string { return "FILTER( false )\n" }

// Text returns the pattern.
func (c Where) Text() string { return c.Pattern }

// Text wraps the expression in a FILTER clause.
func (c Filter) Text() string {
	if c.Expression == "" {
		return ""
	}
	return "FILTER( " + c.Expression + " )\n"
}

// Text returns the accompanying pattern.
func (c Singleton) Text() string { return c.Pattern }

func (c True) annotations() Annotations      { return c.Annotations }
func (c False) annotations() Annotations     { return c.Annotations }
func (c Where) annotations() Annotations     { return c.Annotations }
func (c Filter) annotations() Annotations    { return c.Annotations }
func (c Singleton) annotations() Annotations { return c.Annotations }

func (c True) withAnnotations(a Annotations) Condition      { c.Annotations = a; return c }
func (c False) withAnnotations(a Annotations) Condition     { c.Annotations = a; return c }
func (c Where) withAnnotations(a Annotations) Condition     { c.Annotations = a; return c }
func (c Filter) withAnnotations(a Annotations) Condition    { c.Annotations = a; return c }
func (c Singleton) withAnnotations(a Annotations) Condition { c.Annotations = a; return c }

// AnnotationsOf returns a copy of c's annotations.
func AnnotationsOf(c Condition) Annotations {
	if c == nil {
		return Annotations{}.clone()
	}
	return c.annotations().clone()
}

// UnwrapCondition returns the value form of a pointer condition.
// A nil condition or nil pointer becomes True.
func UnwrapCondition(c Condition) Condition {
	switch cond := c.(type) {
	case nil:
		return True{}
	case *True:
		if cond == nil {
			return True{}
		}
		return *cond
	case *False:
		if cond == nil {
			return True{}
		}
		return *cond
	case *Where:
		if cond == nil {
			return True{}
		}
		return *cond
	case *Filter:
		if cond == nil {
			return True{}
		}
		return *cond
	case *Singleton:
		if cond == nil {
			return True{}
		}
		return *cond
	default:
		return c
	}
}

// Kind names a condition variant: "true", "false", "where", "filter" or
// "singleton".
func Kind(c Condition) string {
	switch UnwrapCondition(c).(type) {
	case True:
		return "true"
	case False:
		return "false"
	case Where:
		return "where"
	case Filter:
		return "filter"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}
