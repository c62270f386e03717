package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/sparqlwhere/internal/querysparql"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestCompilation creates a compilation with minimal required fields.
func createTestCompilation(name, descriptionHash, text string) Compilation {
	return Compilation{
		QueryName:       name,
		DescriptionHash: descriptionHash,
		Where: querysparql.WhereClause{
			Text:       text,
			Namespaces: map[string]string{"category": "http://example.org/Special:URIResolver/Category-3A"},
		},
		ResultVariable: "result",
		SortKeys:       []querysparql.SortKey{{Key: "Population", Direction: "DESC"}, {Key: "", Direction: "ASC"}},
	}
}
