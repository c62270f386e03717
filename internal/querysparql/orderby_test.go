package querysparql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/queryir"
)

func TestSortByResultPage(t *testing.T) {
	b := newTestBuilder(WithSortKeys(SortKey{Key: "", Direction: "ASC"}))

	got, cond := compile(t, b, queryir.Category("City"))

	assert.Equal(t, "?result swivt:wikiPageSortKey ?resultsk .\n{ ?result rdf:type category:City . }\n", got)
	assert.Equal(t, map[string]string{"": "resultsk"}, AnnotationsOf(cond).OrderVariables)
}

func TestSortByNumberProperty(t *testing.T) {
	b := newTestBuilder(WithSortKeys(SortKey{Key: "Population"}))

	got, cond := compile(t, b, queryir.Category("City"))

	assert.Equal(t, "?result property:Population ?v1 .\n{ ?result rdf:type category:City . }\n", got)
	ann := AnnotationsOf(cond)
	assert.Equal(t, map[string]string{"Population": "v1"}, ann.OrderVariables)
	assert.Equal(t, nsProperty, ann.Namespaces["property"])
}

func TestSortByPageProperty(t *testing.T) {
	b := newTestBuilder(WithSortKeys(SortKey{Key: "Located in"}))

	got, cond := compile(t, b, queryir.Anything{})

	assert.Equal(t, "?result property:Located_in ?v1 .\n{ ?v1 swivt:wikiPageSortKey ?v1sk .\n}\n", got,
		"weak condition replaces the safety pattern")
	assert.Equal(t, map[string]string{"Located in": "v1sk"}, AnnotationsOf(cond).OrderVariables)
}

func TestSortKeyBoundByQueryIsReused(t *testing.T) {
	b := newTestBuilder(WithSortKeys(SortKey{Key: "Population"}))

	got, cond := compile(t, b, queryir.Property("Population", queryir.ValueFilter{
		Comparator: queryir.CmpGreater,
		Value:      ir.IRInt(1000),
	}))

	assert.Equal(t, "?result property:Population ?v1 .\nFILTER( ?v1 > \"1000\"^^xsd:double )\n", got)
	assert.Equal(t, map[string]string{"Population": "v1"}, AnnotationsOf(cond).OrderVariables)
}

func TestSortKeyOnInlinedLiteralIsBoundByRoot(t *testing.T) {
	b := newTestBuilder(WithSortKeys(SortKey{Key: "Population"}))

	got, cond := compile(t, b, queryir.Property("Population", queryir.Equals(ir.IRInt(5))))

	// ?v1 was replaced by the literal, so it must not carry the order.
	assert.NotContains(t, got, "?v1 ")
	assert.Contains(t, got, "?result property:Population \"5\"^^xsd:double .\n")
	assert.Contains(t, got, "?result property:Population ?v2 .\n")
	assert.Equal(t, map[string]string{"Population": "v2"}, AnnotationsOf(cond).OrderVariables)

	sel, err := b.BuildSelect(cond, SelectOptions{})
	require.NoError(t, err)
	assert.Contains(t, sel, "SELECT ?result ?v2 WHERE {")
	assert.Contains(t, sel, "ORDER BY ASC(?v2)")
}

func TestSortKeyOnInlinedPageKeepsSortKeyVariable(t *testing.T) {
	b := newTestBuilder(WithSortKeys(SortKey{Key: "Located in"}))

	got, cond := compile(t, b, queryir.Property("Located in", queryir.Equals(page("Germany"))))

	assert.Contains(t, got, "wiki:Germany swivt:wikiPageSortKey ?v1sk .")
	assert.Equal(t, map[string]string{"Located in": "v1sk"}, AnnotationsOf(cond).OrderVariables)
}

func TestSortKeyMatchesNormalizedProperty(t *testing.T) {
	b := newTestBuilder(WithSortKeys(SortKey{Key: "located_in"}))

	_, cond := compile(t, b, queryir.Property("Located in", queryir.Category("Country")))

	// Recorded under the key as requested, bound inside the query itself.
	assert.Equal(t, map[string]string{"located_in": "v1sk"}, AnnotationsOf(cond).OrderVariables)
}

func TestEverySortKeyGetsAnOrderVariable(t *testing.T) {
	keys := []SortKey{{Key: ""}, {Key: "Population"}, {Key: "Name"}, {Key: "Located in"}}
	descs := []queryir.Description{
		queryir.Anything{},
		queryir.Category("City"),
		queryir.Or(queryir.Category("City"), queryir.Equals(page("Berlin"))),
		queryir.And(queryir.Property("Name", nil), queryir.Property("Population", nil)),
		queryir.Equals(page("Berlin")),
		queryir.Category(),
	}

	for _, d := range descs {
		b := newTestBuilder(WithSortKeys(keys...))
		cond, err := b.BuildCondition(d)
		require.NoError(t, err)

		ann := AnnotationsOf(cond)
		for _, sk := range keys {
			assert.NotEmpty(t, ann.OrderVariables[sk.Key], "%s: sort key %q", queryir.KindOf(d), sk.Key)
		}
	}
}

func TestDisjunctionDropsChildOrderVariables(t *testing.T) {
	b := newTestBuilder(WithSortKeys(SortKey{Key: "Population"}))

	_, cond := compile(t, b, queryir.Or(
		queryir.Property("Population", nil),
		queryir.Category("City"),
	))

	// The branch binding v1 may not be taken, so the root binds its own.
	assert.Equal(t, "v2", AnnotationsOf(cond).OrderVariables["Population"])
}

func TestInvalidSortKey(t *testing.T) {
	b := newTestBuilder(WithSortKeys(SortKey{Key: "a#b"}))

	_, err := b.BuildCondition(queryir.Anything{})

	require.Error(t, err)
	assert.True(t, IsInternalError(err))
	assert.True(t, IsInvalidSortKeyError(err))
	assert.Contains(t, err.Error(), "INVALID_SORT_KEY")
}

func TestDuplicateSortKeysRejected(t *testing.T) {
	tests := []struct {
		name string
		keys []SortKey
	}{
		{"normalized property", []SortKey{{Key: "Located in"}, {Key: "located_in"}}},
		{"first letter case", []SortKey{{Key: "Population"}, {Key: "", Direction: "DESC"}, {Key: "population"}}},
		{"result page twice", []SortKey{{Key: ""}, {Key: "", Direction: "DESC"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBuilder(WithSortKeys(tt.keys...))

			_, err := b.BuildCondition(queryir.Category("City"))

			require.Error(t, err)
			assert.True(t, IsSortKeyError(err))
			assert.False(t, IsInternalError(err), "duplicates are caller input, not a broken contract")
			assert.Contains(t, err.Error(), "names the same property")
		})
	}

	require.NoError(t, CheckSortKeys([]SortKey{{Key: "Located in"}, {Key: "Population"}, {Key: ""}}))
}

func TestMissingOrderVariable(t *testing.T) {
	stub := StrategyFunc(func(c Compiler, d queryir.Description, joinVariable, orderByProperty string) Condition {
		return Where{Pattern: "?" + joinVariable + " <http://x/p> ?o .\n", Safe: true}
	})
	b := newTestBuilder(
		WithSortKeys(SortKey{Key: "Population"}),
		WithStrategy(queryir.KindProperty, stub),
	)

	_, err := b.BuildCondition(queryir.Anything{})

	require.Error(t, err)
	assert.True(t, IsMissingOrderVariableError(err))
	assert.False(t, IsInvalidSortKeyError(err))
	assert.Contains(t, err.Error(), `"Population"`)
}

func TestAddOrderBy(t *testing.T) {
	b := newTestBuilder()

	byPage := b.AddOrderBy(True{}, "v3", ir.KindPage)
	ann := AnnotationsOf(byPage)
	assert.Equal(t, "v3sk", ann.OrderByVariable)
	assert.Equal(t, map[string]string{"v3sk": "?v3 swivt:wikiPageSortKey ?v3sk .\n"}, ann.WeakConditions)
	assert.Contains(t, ann.Namespaces, "swivt")

	num := b.AddOrderBy(True{}, "v3", ir.KindNumber)
	assert.Equal(t, "v3", AnnotationsOf(num).OrderByVariable)
	assert.Empty(t, AnnotationsOf(num).WeakConditions)
}

func TestAddOrderByForProperty(t *testing.T) {
	b := newTestBuilder()

	same := b.AddOrderByForProperty(True{}, "v1", "", ir.KindUnknown)
	assert.Equal(t, "", AnnotationsOf(same).OrderByVariable, "no property is a no-op")

	resolved := b.AddOrderByForProperty(True{}, "v1", "Population", ir.KindUnknown)
	assert.Equal(t, "v1", AnnotationsOf(resolved).OrderByVariable, "kind resolved through the registry")

	known := b.AddOrderByForProperty(True{}, "v1", "Population", ir.KindPage)
	assert.Equal(t, "v1sk", AnnotationsOf(known).OrderByVariable, "known kind wins")
}
