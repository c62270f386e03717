package querysparql

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/queryir"
	"github.com/roach88/sparqlwhere/internal/schema"
	"github.com/roach88/sparqlwhere/internal/term"
	"github.com/roach88/sparqlwhere/internal/vocabulary"
)

// DefaultResultVariable names the variable bound to result pages.
const DefaultResultVariable = "result"

// SortKey requests ordering by a property ("" for the result page itself).
// Direction is passed through to ORDER BY; the builder does not read it.
type SortKey struct {
	Key       string
	Direction string
}

// Builder compiles description trees to conditions.
//
// A Builder holds per-compilation state (the fresh variable counter) and
// must not be used by two compilations at once.
type Builder struct {
	resultVariable string
	sortKeys       []SortKey
	registry       schema.Registry
	serializer     term.Serializer
	exporter       *vocabulary.Exporter
	strategies     map[queryir.Kind]Strategy
	logger         *zap.Logger

	counter int
}

// Option configures a Builder.
type Option func(*Builder)

// WithResultVariable sets the result variable name (without '?').
func WithResultVariable(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.resultVariable = name
		}
	}
}

// WithSortKeys sets the requested sort keys, in priority order.
func WithSortKeys(keys ...SortKey) Option {
	return func(b *Builder) { b.sortKeys = append([]SortKey(nil), keys...) }
}

// WithRegistry sets the property type registry.
func WithRegistry(r schema.Registry) Option {
	return func(b *Builder) { b.registry = r }
}

// WithSerializer sets the term serializer.
func WithSerializer(s term.Serializer) Option {
	return func(b *Builder) { b.serializer = s }
}

// WithExporter sets the exporter for entities and values.
func WithExporter(e *vocabulary.Exporter) Option {
	return func(b *Builder) { b.exporter = e }
}

// WithStrategy replaces the strategy for one description kind.
func WithStrategy(kind queryir.Kind, s Strategy) Option {
	return func(b *Builder) { b.strategies[kind] = s }
}

// WithLogger sets the logger. Compilation logs at debug level only.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder. Defaults: result variable "result", no
// sort keys, every property holding pages, Turtle serialization, and the
// default base IRI.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		resultVariable: DefaultResultVariable,
		registry:       schema.NewMapRegistry(nil),
		serializer:     term.TurtleSerializer{},
		exporter:       vocabulary.NewExporter(""),
		strategies:     defaultStrategies(),
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ResultVariable implements Compiler.
func (b *Builder) ResultVariable() string { return b.resultVariable }

// SortKeys returns the requested sort keys.
func (b *Builder) SortKeys() []SortKey { return append([]SortKey(nil), b.sortKeys...) }

// Exporter implements Compiler.
func (b *Builder) Exporter() *vocabulary.Exporter { return b.exporter }

// Serialize implements Compiler.
func (b *Builder) Serialize(t term.Term) (string, *term.Namespace) {
	return b.serializer.Serialize(t)
}

// NextVariable implements Compiler. Names are "v1", "v2", ... and never
// equal the result variable.
func (b *Builder) NextVariable() string {
	for {
		b.counter++
		name := "v" + strconv.Itoa(b.counter)
		if name != b.resultVariable {
			return name
		}
	}
}

// SortKeyFor implements Compiler.
func (b *Builder) SortKeyFor(property string) (string, bool) {
	want := schema.PropertyKey(property)
	if want == "" {
		return "", false
	}
	for _, sk := range b.sortKeys {
		if sk.Key != "" && schema.PropertyKey(sk.Key) == want {
			return sk.Key, true
		}
	}
	return "", false
}

// CheckSortKeys rejects sort keys that name the same property once
// normalized, such as "Located in" and "located_in". Two empty keys are
// duplicates as well.
func CheckSortKeys(keys []SortKey) error {
	seen := make(map[string]string, len(keys))
	for _, sk := range keys {
		norm := schema.PropertyKey(sk.Key)
		if prev, ok := seen[norm]; ok {
			return &SortKeyError{SortKey: sk.Key, Previous: prev}
		}
		seen[norm] = sk.Key
	}
	return nil
}

// BuildCondition compiles d against the result variable and attaches an
// order variable for every requested sort key.
//
// The fresh variable counter restarts at zero on every call, so equal
// descriptions compile to identical conditions.
func (b *Builder) BuildCondition(d queryir.Description) (Condition, error) {
	b.counter = 0
	for _, sk := range b.sortKeys {
		if sk.Key != "" && !schema.ValidPropertyKey(sk.Key) {
			return nil, NewInvalidSortKeyError(sk.Key)
		}
	}
	if err := CheckSortKeys(b.sortKeys); err != nil {
		return nil, err
	}

	b.logger.Debug("compiling description",
		zap.String("kind", string(queryir.KindOf(d))),
		zap.String("result_variable", b.resultVariable),
		zap.Int("sort_keys", len(b.sortKeys)))

	cond := b.MapDescription(d, b.resultVariable, "")
	cond, err := b.AddMissingOrderByConditions(cond)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("compiled description",
		zap.String("condition", Kind(cond)),
		zap.Bool("safe", cond.IsSafe()),
		zap.Int("fresh_variables", b.counter))
	return cond, nil
}

// Compile builds and renders d in one step.
func (b *Builder) Compile(d queryir.Description) (WhereClause, Condition, error) {
	cond, err := b.BuildCondition(d)
	if err != nil {
		return WhereClause{}, nil, err
	}
	return b.Render(cond), cond, nil
}

// MapDescription implements Compiler.
func (b *Builder) MapDescription(d queryir.Description, joinVariable, orderByProperty string) Condition {
	switch desc := queryir.Unwrap(d).(type) {
	case queryir.Conjunction:
		return b.buildConjunction(desc.Descriptions, joinVariable, orderByProperty)
	case queryir.Disjunction:
		return b.buildDisjunction(desc.Descriptions, joinVariable, orderByProperty)
	case queryir.ConceptFilter:
		// Concepts are not expanded.
		return True{}.withAnnotations(Annotations{}.clone())
	}

	kind := queryir.KindOf(d)
	if s, ok := b.strategies[kind]; ok && s != nil {
		return UnwrapCondition(s.BuildCondition(b, queryir.Unwrap(d), joinVariable, orderByProperty))
	}
	return b.BuildTrueCondition(joinVariable, orderByProperty)
}

// BuildTrueCondition implements Compiler.
func (b *Builder) BuildTrueCondition(joinVariable, orderByProperty string) Condition {
	return b.AddOrderByForProperty(True{}.withAnnotations(Annotations{}.clone()), joinVariable, orderByProperty, ir.KindUnknown)
}

// AddOrderByForProperty implements Compiler.
func (b *Builder) AddOrderByForProperty(c Condition, mainVariable, orderByProperty string, kind ir.DataKind) Condition {
	if orderByProperty == "" {
		return c
	}
	if kind == ir.KindUnknown {
		kind = b.registry.DataKindOf(orderByProperty)
	}
	return b.AddOrderBy(c, mainVariable, kind)
}

// AddOrderBy implements Compiler.
//
// Page values are not comparable themselves. They sort by their declared
// sort key, bound to mainVariable+"sk" through a weak condition. Other
// values sort by mainVariable directly.
func (b *Builder) AddOrderBy(c Condition, mainVariable string, kind ir.DataKind) Condition {
	c = UnwrapCondition(c)
	ann := c.annotations().clone()
	if kind != ir.KindPage {
		ann.OrderByVariable = mainVariable
		return c.withAnnotations(ann)
	}

	skVariable := mainVariable + "sk"
	predicate, ns := b.Serialize(vocabulary.SwivtSortKey)
	ann.OrderByVariable = skVariable
	ann.WeakConditions[skVariable] = term.Var(mainVariable) + " " + predicate + " " + term.Var(skVariable) + " .\n"
	ann = ann.withNamespace(ns)

	b.logger.Debug("order by sort key",
		zap.String("variable", mainVariable),
		zap.String("order_variable", skVariable))
	return c.withAnnotations(ann)
}
