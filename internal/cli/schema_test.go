package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/store"
)

func runSchemaCommand(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewSchemaCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestSchemaImport(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "registry.db")
	path := writeQueryFile(t, `schema: {
	Population: "number"
	"Located in": "page"
}
query: q: {
	schema: Homepage: "url"
	where: {category: "City"}
}
`)

	output, err := runSchemaCommand(t, "text", "import", path, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, output, "Imported 3 propert(ies), registry holds 3")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	reg, err := st.LoadRegistry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ir.KindNumber, reg.DataKindOf("population"))
	assert.Equal(t, ir.KindURI, reg.DataKindOf("Homepage"))
	assert.Equal(t, ir.KindPage, reg.DataKindOf("located_in"))
}

func TestSchemaImportUpdatesKinds(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "registry.db")

	_, err := runSchemaCommand(t, "text", "import", writeQueryFile(t, `schema: Rank: "string"`), "--db", dbPath)
	require.NoError(t, err)
	_, err = runSchemaCommand(t, "text", "import", writeQueryFile(t, `schema: Rank: "number"`), "--db", dbPath)
	require.NoError(t, err)

	output, err := runSchemaCommand(t, "json", "list", "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Data []store.Property `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Rank", resp.Data[0].Name)
	assert.Equal(t, ir.KindNumber, resp.Data[0].Kind)
}

func TestSchemaImportUnknownKind(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "registry.db")
	path := writeQueryFile(t, `schema: Area: "float"`)

	output, err := runSchemaCommand(t, "text", "import", path, "--db", dbPath)
	require.Error(t, err)
	assert.Contains(t, output, "E103")
	assert.Contains(t, output, `unknown data kind "float"`)
}

func TestSchemaImportNoSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "registry.db")
	path := writeQueryFile(t, `query: q: where: {category: "City"}`)

	output, err := runSchemaCommand(t, "text", "import", path, "--db", dbPath)
	require.Error(t, err)
	assert.Contains(t, output, "no schema found")
}

func TestSchemaListText(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "registry.db")
	_, err := runSchemaCommand(t, "text", "import", writeQueryFile(t, `schema: {Population: "number", Capital: "page"}`), "--db", dbPath)
	require.NoError(t, err)

	output, err := runSchemaCommand(t, "text", "list", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, "Capital\tpage\nPopulation\tnumber\n", output)
}

func TestSchemaRequiresDatabase(t *testing.T) {
	t.Setenv("SPARQLWHERE_DB", "")

	output, err := runSchemaCommand(t, "text", "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "no database")
}
