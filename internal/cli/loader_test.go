package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparqlwhere/internal/compiler"
	"github.com/roach88/sparqlwhere/internal/ir"
)

func TestLoadQueriesFile(t *testing.T) {
	result, errs := LoadQueries(writeQueryFile(t, citiesCUE), LoadModeCollectAll)
	require.Empty(t, errs)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.FileCount)
	assert.Equal(t, map[string]ir.DataKind{"Population": ir.KindNumber}, result.Schema)
	require.Len(t, result.Queries, 2)
	assert.Equal(t, "big_cities", result.Queries[0].Name)
	assert.Equal(t, ir.KindNumber, result.Queries[1].Schema["Population"])
}

func TestLoadQueriesCollectAll(t *testing.T) {
	src := `schema: Area: "float"
query: one: where: {property: ""}
query: two: where: {category: "City"}
`
	result, errs := LoadQueries(writeQueryFile(t, src), LoadModeCollectAll)
	require.NotNil(t, result)
	require.Len(t, errs, 2)
	assert.Len(t, result.Queries, 1)

	var loadErr *LoadError
	require.ErrorAs(t, errs[0], &loadErr)
	assert.Equal(t, compiler.ErrUnknownDataKind, loadErr.Code)
	assert.True(t, loadErr.Pos.IsValid())

	_, errs = LoadQueries(writeQueryFile(t, src), LoadModeFailFast)
	assert.Len(t, errs, 1)
}

func TestLoadValueErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		code string
	}{
		{"missing", func(t *testing.T) string { return "/nonexistent/q.cue" }, ErrCodeNotFound},
		{"empty_dir", func(t *testing.T) string { return t.TempDir() }, ErrCodeNoFiles},
		{"not_cue", func(t *testing.T) string {
			path := filepath.Join(t.TempDir(), "q.json")
			require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
			return path
		}, ErrCodeNoFiles},
		{"syntax", func(t *testing.T) string { return writeQueryFile(t, "query: {") }, ErrCodeLoadFailed},
		{"conflict", func(t *testing.T) string { return writeQueryFile(t, "limit: 1\nlimit: 2\n") }, ErrCodeBuildFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadValue(tt.path(t))
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.code, loadErr.Code)
		})
	}
}

func TestMapFieldToErrorCode(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"schema.Area", compiler.ErrUnknownDataKind},
		{"cities.schema.Area", compiler.ErrUnknownDataKind},
		{"cities.sort[0].order", compiler.ErrInvalidSortKey},
		{"cities.where.and[1].property", compiler.ErrInvalidProperty},
		{"cities.where.value", compiler.ErrInvalidProperty},
		{"cities.where.cmp", compiler.ErrInvalidProperty},
		{"cities.limit", compiler.ErrNegativeBound},
		{"cities.where.or[0]", compiler.ErrEmptyDescription},
		{"query", compiler.ErrEmptyDescription},
		{"cities.distinct", ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, MapFieldToErrorCode(tt.field))
		})
	}
}
