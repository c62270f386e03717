package querysparql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/queryir"
	"github.com/roach88/sparqlwhere/internal/schema"
)

const (
	nsWiki     = "http://example.org/Special:URIResolver/"
	nsProperty = "http://example.org/Special:URIResolver/Property-3A"
	nsCategory = "http://example.org/Special:URIResolver/Category-3A"
)

// testRegistry declares the property kinds used across the tests.
func testRegistry() *schema.MapRegistry {
	return schema.NewMapRegistry(map[string]ir.DataKind{
		"Population": ir.KindNumber,
		"Name":       ir.KindString,
		"Homepage":   ir.KindURI,
	})
}

func newTestBuilder(opts ...Option) *Builder {
	return NewBuilder(append([]Option{WithRegistry(testRegistry())}, opts...)...)
}

// compile builds and renders d, failing the test on error.
func compile(t *testing.T, b *Builder, d queryir.Description) (string, Condition) {
	t.Helper()
	where, cond, err := b.Compile(d)
	require.NoError(t, err)
	return where.Text, cond
}

func page(title string) ir.IRPage {
	return ir.NewPage(title)
}
