package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioFiles(t *testing.T) {
	scenarios, err := LoadScenarioDir(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			var result *Result
			if s.Golden {
				result, err = RunWithGolden(t, s)
			} else {
				result, err = Run(s)
			}
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRunRecordsCompilation(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "record",
		Description: "records",
		Query:       `{category: "City"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "record-1", result.CompilationID)
	assert.Equal(t, "where", result.Explanation.Kind)
}

func TestRunUsesScenarioSchema(t *testing.T) {
	base := &Scenario{
		Name:        "schema",
		Description: "kind decides how a sort key is bound",
		Query:       `{category: "City"}`,
		Sort:        []SortSpec{{Key: "Rank"}},
	}

	asPage, err := Run(base)
	require.NoError(t, err)
	assert.Equal(t, "v1sk", asPage.Explanation.OrderVariables["Rank"], "undeclared property sorts as a page")

	withNumber := *base
	withNumber.Schema = map[string]string{"Rank": "number"}
	asNumber, err := Run(&withNumber)
	require.NoError(t, err)
	assert.Equal(t, "v1", asNumber.Explanation.OrderVariables["Rank"])
}

func TestRunFailingAssertions(t *testing.T) {
	yes := true
	result, err := Run(&Scenario{
		Name:        "failing",
		Description: "every assertion is wrong",
		Query:       `{property: "Located in"}`,
		Assertions: []Assertion{
			{Type: AssertKind, Kind: "filter"},
			{Type: AssertSafe, Safe: &yes},
			{Type: AssertContains, Text: "rdf:type"},
			{Type: AssertNotContains, Text: "property:Located_in"},
			{Type: AssertWhereEquals, Text: ""},
			{Type: AssertOrderVariable, Key: "Population", Variable: "v1"},
			{Type: AssertNamespace, Prefix: "category"},
			{Type: AssertError, Code: "INVALID_SORT_KEY"},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	// Safe holds: a property pattern binds the result.
	assert.Len(t, result.Errors, 7)
	assert.Contains(t, result.Errors[0], "Assertion failed: kind")
	assert.Contains(t, result.Errors[0], "Where clause:")
}

func TestRunCompileErrorFailsOtherAssertions(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "bad_sort",
		Description: "invalid sort key",
		Query:       `"*"`,
		Sort:        []SortSpec{{Key: "a|b"}},
		Assertions: []Assertion{
			{Type: AssertKind, Kind: "true"},
			{Type: AssertError, Code: "MISSING_ORDER_VARIABLE"},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "compilation failed")
	assert.Contains(t, result.Errors[1], "INVALID_SORT_KEY")
	assert.Empty(t, result.CompilationID)
}

func TestRunMalformedQuery(t *testing.T) {
	_, err := Run(&Scenario{
		Name:        "malformed",
		Description: "not a description",
		Query:       `{category: "A", namespace: 0}`,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestAssertGoldenSnapshotsErrors(t *testing.T) {
	result := NewResult()
	result.Select = "SELECT ?result WHERE {\n}\n"
	assert.Equal(t, "SELECT ?result WHERE {\n}\n", string(Snapshot(result)))

	result.CompileErr = assert.AnError
	assert.Equal(t, "error: "+assert.AnError.Error()+"\n", string(Snapshot(result)))
}
