package querysparql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparqlwhere/internal/queryir"
)

func TestBuildSelect(t *testing.T) {
	b := newTestBuilder(WithSortKeys(SortKey{Key: "", Direction: "DESC"}))
	cond, err := b.BuildCondition(queryir.Category("City"))
	require.NoError(t, err)

	got, err := b.BuildSelect(cond, SelectOptions{Distinct: true, Limit: 10, Offset: 20})
	require.NoError(t, err)

	want := "PREFIX category: <" + nsCategory + ">\n" +
		"PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>\n" +
		"PREFIX swivt: <http://semantic-mediawiki.org/swivt/1.0#>\n" +
		"SELECT DISTINCT ?result ?resultsk WHERE {\n" +
		"?result swivt:wikiPageSortKey ?resultsk .\n" +
		"{ ?result rdf:type category:City . }\n" +
		"}\n" +
		"ORDER BY DESC(?resultsk)\n" +
		"LIMIT 10\n" +
		"OFFSET 20\n"
	assert.Equal(t, want, got)
}

func TestBuildSelectAllPrefixes(t *testing.T) {
	b := newTestBuilder()
	cond, err := b.BuildCondition(queryir.Category("City"))
	require.NoError(t, err)

	used, err := b.BuildSelect(cond, SelectOptions{})
	require.NoError(t, err)
	assert.NotContains(t, used, "PREFIX xsd:")
	assert.NotContains(t, used, "PREFIX wiki:")

	all, err := b.BuildSelect(cond, SelectOptions{AllPrefixes: true})
	require.NoError(t, err)
	want := "PREFIX category: <" + nsCategory + ">\n" +
		"PREFIX property: <" + nsProperty + ">\n" +
		"PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>\n" +
		"PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>\n" +
		"PREFIX swivt: <http://semantic-mediawiki.org/swivt/1.0#>\n" +
		"PREFIX wiki: <" + nsWiki + ">\n" +
		"PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>\n" +
		"SELECT ?result WHERE {\n"
	assert.Equal(t, want, all[:len(want)])
	assert.Equal(t, used[strings.Index(used, "SELECT"):], all[strings.Index(all, "SELECT"):])
}

func TestBuildSelectOrderVariablesInSortKeyOrder(t *testing.T) {
	b := newTestBuilder(WithSortKeys(
		SortKey{Key: "Population", Direction: "desc"},
		SortKey{Key: ""},
	))
	cond, err := b.BuildCondition(queryir.Anything{})
	require.NoError(t, err)

	got, err := b.BuildSelect(cond, SelectOptions{})
	require.NoError(t, err)

	assert.Contains(t, got, "SELECT ?result ?v1 ?resultsk WHERE {\n")
	assert.Contains(t, got, "ORDER BY DESC(?v1) ASC(?resultsk)\n")
	assert.NotContains(t, got, "LIMIT")
	assert.NotContains(t, got, "OFFSET")
}

func TestBuildSelectSingleton(t *testing.T) {
	b := newTestBuilder()
	cond, err := b.BuildCondition(queryir.Equals(page("Berlin")))
	require.NoError(t, err)

	got, err := b.BuildSelect(cond, SelectOptions{})
	require.NoError(t, err)

	assert.Contains(t, got, "SELECT (wiki:Berlin AS ?result) WHERE {\nwiki:Berlin swivt:page ?url .\n}\n")
	assert.Contains(t, got, "PREFIX wiki: <"+nsWiki+">\n")
}

func TestBuildSelectMissingOrderVariable(t *testing.T) {
	b := newTestBuilder(WithSortKeys(SortKey{Key: "Population"}))

	// Condition not produced by BuildCondition, so never augmented.
	_, err := b.BuildSelect(Where{Pattern: "?result ?p ?o .\n", Safe: true}, SelectOptions{})

	require.Error(t, err)
	assert.True(t, IsMissingOrderVariableError(err))
}

func TestOrderExpression(t *testing.T) {
	assert.Equal(t, "ASC(?x)", orderExpression("", "?x"))
	assert.Equal(t, "ASC(?x)", orderExpression("ASC", "?x"))
	assert.Equal(t, "DESC(?x)", orderExpression(" Desc ", "?x"))
	assert.Equal(t, "ASC(?x)", orderExpression("RANDOM", "?x"))
}
