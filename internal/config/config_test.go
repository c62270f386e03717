package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparqlwhere/internal/querysparql"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sparqlwhere.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "result", cfg.ResultVariable)
	assert.Equal(t, "http://example.org/", cfg.BaseIRI)
	assert.Empty(t, cfg.Sort)
	assert.Zero(t, cfg.Limit)
	assert.False(t, cfg.Distinct)
	assert.False(t, cfg.AllPrefixes)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
result_variable: page
base_iri: https://wiki.example.com/
limit: 50
offset: 10
distinct: true
db: wiki.db
all_prefixes: true
sort:
  - key: Population
    direction: desc
  - key: ""
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "page", cfg.ResultVariable)
	assert.Equal(t, "https://wiki.example.com/", cfg.BaseIRI)
	assert.Equal(t, 50, cfg.Limit)
	assert.Equal(t, 10, cfg.Offset)
	assert.True(t, cfg.Distinct)
	assert.Equal(t, "wiki.db", cfg.DB)
	assert.True(t, cfg.SelectOptions().AllPrefixes)
	assert.Equal(t, []querysparql.SortKey{
		{Key: "Population", Direction: "DESC"},
		{Key: "", Direction: "ASC"},
	}, cfg.SortKeys())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "result_variable: page\nlimit: 50\n")
	t.Setenv("SPARQLWHERE_RESULT_VARIABLE", "entity")
	t.Setenv("SPARQLWHERE_LIMIT", "5")
	t.Setenv("SPARQLWHERE_SORT", "Name, Population:desc")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "entity", cfg.ResultVariable)
	assert.Equal(t, 5, cfg.Limit)
	assert.Equal(t, []SortKey{
		{Key: "Name", Direction: "ASC"},
		{Key: "Population", Direction: "DESC"},
	}, cfg.Sort)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"bad variable", "result_variable: \"my var\"\n", "not a valid variable name"},
		{"negative limit", "limit: -1\n", "limit must not be negative"},
		{"bad direction", "sort:\n  - key: Name\n    direction: up\n", "must be asc or desc"},
		{"empty base", "base_iri: \"\"\n", "base_iri is required"},
		{"duplicate sort key", "sort:\n  - key: Located in\n  - key: located_in\n", "names the same property"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadBadSortEnv(t *testing.T) {
	t.Setenv("SPARQLWHERE_SORT", "Name:sideways")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SPARQLWHERE_SORT")
}

func TestParseSortSpec(t *testing.T) {
	tests := []struct {
		spec string
		want []SortKey
	}{
		{"", nil},
		{"Name", []SortKey{{Key: "Name", Direction: "ASC"}}},
		{":desc", []SortKey{{Key: "", Direction: "DESC"}}},
		{"A:DESC, ,B:asc", []SortKey{{Key: "A", Direction: "DESC"}, {Key: "B", Direction: "ASC"}}},
		{"Located in:desc", []SortKey{{Key: "Located in", Direction: "DESC"}}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseSortSpec(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilderOptions(t *testing.T) {
	cfg := Default()
	cfg.ResultVariable = "page"
	cfg.Sort = []SortKey{{Key: "Population", Direction: "desc"}}

	b := querysparql.NewBuilder(cfg.BuilderOptions()...)
	assert.Equal(t, "page", b.ResultVariable())
	assert.Equal(t, []querysparql.SortKey{{Key: "Population", Direction: "DESC"}}, b.SortKeys())

	assert.Equal(t, querysparql.SelectOptions{}, cfg.SelectOptions())
}
