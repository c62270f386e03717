package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparqlwhere/internal/compiler"
	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/store"
)

const citiesCUE = `package queries

schema: Population: "number"

query: big_cities: {
	where: {and: [
		{category: "City"},
		{property: "Population", where: {cmp: ">", value: 1000000}},
	]}
	sort: [{key: "Population", order: "desc"}]
	limit: 10
}

query: in_germany: {
	where: {property: "Located in", where: {page: "Germany"}}
}
`

// writeQueryFile writes src to a .cue file in a fresh directory.
func writeQueryFile(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queries.cue")
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func runCompileCommand(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCompileWhereClause(t *testing.T) {
	path := writeQueryFile(t, citiesCUE)

	output, err := runCompileCommand(t, "text", path, "--query", "in_germany")
	require.NoError(t, err)
	assert.Equal(t, "?result property:Located_in wiki:Germany .\n", output)
}

func TestCompileAllQueriesText(t *testing.T) {
	path := writeQueryFile(t, citiesCUE)

	output, err := runCompileCommand(t, "text", path)
	require.NoError(t, err)
	assert.Contains(t, output, "# big_cities\n")
	assert.Contains(t, output, "# in_germany\n")
	assert.Contains(t, output, "FILTER( ?v1 > \"1000000\"^^xsd:double )")
}

func TestCompileSelectMatchesGolden(t *testing.T) {
	path := writeQueryFile(t, citiesCUE)

	output, err := runCompileCommand(t, "text", path, "--query", "big_cities", "--select")
	require.NoError(t, err)

	golden, err := os.ReadFile(filepath.Join("..", "harness", "testdata", "golden", "cities_by_population.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(golden), output)
}

func TestCompileSortFlagOverridesQuery(t *testing.T) {
	path := writeQueryFile(t, citiesCUE)

	output, err := runCompileCommand(t, "text", path, "--query", "big_cities", "--select", "--sort", ":desc")
	require.NoError(t, err)
	assert.Contains(t, output, "ORDER BY DESC(?resultsk)")
	assert.NotContains(t, output, "DESC(?v1)")
}

func TestCompileAllPrefixes(t *testing.T) {
	path := writeQueryFile(t, citiesCUE)

	output, err := runCompileCommand(t, "text", path, "--query", "in_germany", "--select", "--all-prefixes")
	require.NoError(t, err)
	assert.Contains(t, output, "PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>\n")
	assert.Contains(t, output, "PREFIX category: <http://example.org/Special:URIResolver/Category-3A>\n")

	output, err = runCompileCommand(t, "text", path, "--query", "in_germany", "--select")
	require.NoError(t, err)
	assert.NotContains(t, output, "PREFIX rdfs:")
}

func TestCompileBaseIRIAndResultVariable(t *testing.T) {
	path := writeQueryFile(t, citiesCUE)

	output, err := runCompileCommand(t, "text", path,
		"--query", "in_germany", "--select",
		"--base-iri", "https://wiki.example.com",
		"--result-variable", "city")
	require.NoError(t, err)
	assert.Contains(t, output, "PREFIX property: <https://wiki.example.com/Special:URIResolver/Property-3A>")
	assert.Contains(t, output, "SELECT ?city WHERE {")
	assert.Contains(t, output, "?city property:Located_in wiki:Germany .")
}

func TestCompileExplain(t *testing.T) {
	path := writeQueryFile(t, citiesCUE)

	output, err := runCompileCommand(t, "text", path, "--query", "in_germany", "--explain")
	require.NoError(t, err)
	assert.Contains(t, output, "---\n")
	assert.Contains(t, output, "kind: where")
	assert.Contains(t, output, "safe: true")
}

func TestCompileJSON(t *testing.T) {
	path := writeQueryFile(t, citiesCUE)

	output, err := runCompileCommand(t, "json", path)
	require.NoError(t, err)

	var resp struct {
		Status  string            `json:"status"`
		TraceID string            `json:"trace_id"`
		Data    CompilationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.TraceID)
	require.Len(t, resp.Data.Queries, 2)

	big := resp.Data.Queries[0]
	assert.Equal(t, "big_cities", big.Name)
	assert.Equal(t, "v1", big.Explanation.OrderVariables["Population"])
	assert.Contains(t, big.Select, "LIMIT 10")
	assert.Contains(t, big.Namespaces, "xsd")
}

func TestCompileRecordsToDatabase(t *testing.T) {
	path := writeQueryFile(t, citiesCUE)
	dbPath := filepath.Join(t.TempDir(), "registry.db")

	output, err := runCompileCommand(t, "json", path, "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Data CompilationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	require.Len(t, resp.Data.Queries, 2)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	recs, err := st.ReadCompilations(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, resp.Data.Queries[0].CompilationID, recs[0].ID)
	assert.Equal(t, "big_cities", recs[0].QueryName)
	assert.Equal(t, resp.Data.Queries[1].Where, recs[1].Where.Text)
}

func TestCompileUsesDatabaseRegistry(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "registry.db")
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.PutProperties(context.Background(), map[string]ir.DataKind{"Rank": ir.KindNumber}))
	require.NoError(t, st.Close())

	path := writeQueryFile(t, `query: ranked: {
	where: {category: "City"}
	sort: ["Rank"]
}
`)

	withDB, err := runCompileCommand(t, "json", path, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, withDB, `"Rank":"v1"`)

	without, err := runCompileCommand(t, "json", path)
	require.NoError(t, err)
	assert.Contains(t, without, `"Rank":"v1sk"`)
}

func TestCompileInvalidSortKey(t *testing.T) {
	path := writeQueryFile(t, `query: bad: {
	where: {category: "City"}
	sort: ["a|b"]
}
`)

	output, err := runCompileCommand(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "Compilation failed")
	assert.Contains(t, output, ErrCodeInternal)
	assert.Contains(t, output, "INVALID_SORT_KEY")
}

func TestCompileErrorsJSON(t *testing.T) {
	path := writeQueryFile(t, `query: one: where: {property: ""}
query: two: where: {value: 1.5}
`)

	output, err := runCompileCommand(t, "json", path)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)

	all, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, all, 2)
	assert.Contains(t, output, "property name is required")
	assert.Contains(t, output, `"code": "E104"`)
}

func TestCompileUnknownQuery(t *testing.T) {
	path := writeQueryFile(t, citiesCUE)

	output, err := runCompileCommand(t, "text", path, "--query", "missing")
	require.Error(t, err)
	assert.Contains(t, output, `query "missing" not found`)
}

func TestCompileMissingPath(t *testing.T) {
	output, err := runCompileCommand(t, "text", filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, ErrCodeNotFound)
}

func TestCompileInvalidSortFlag(t *testing.T) {
	path := writeQueryFile(t, citiesCUE)

	output, err := runCompileCommand(t, "text", path, "--sort", "Population:sideways")
	require.Error(t, err)
	assert.Contains(t, output, ErrCodeConfig)
	assert.Contains(t, output, "direction must be asc or desc")
}

func TestCompileDuplicateSortKeys(t *testing.T) {
	path := writeQueryFile(t, citiesCUE)

	output, err := runCompileCommand(t, "text", path, "--sort", "Located in,located_in:desc")
	require.Error(t, err)
	assert.Contains(t, output, ErrCodeConfig)
	assert.Contains(t, output, "names the same property")
	assert.NotContains(t, output, "MISSING_ORDER_VARIABLE")

	path = writeQueryFile(t, `query: dup: {
	where: {category: "City"}
	sort: ["Located in", "located_in"]
}
`)
	output, err = runCompileCommand(t, "text", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, compiler.ErrDuplicateSortKey)
	assert.NotContains(t, output, "MISSING_ORDER_VARIABLE")
}
