package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/term"
)

func TestNewExporterBaseIRI(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"", "http://example.org/Special:URIResolver/"},
		{"http://wiki.test", "http://wiki.test/Special:URIResolver/"},
		{"http://wiki.test/w/", "http://wiki.test/w/Special:URIResolver/"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			e := NewExporter(tt.base)
			assert.Equal(t, tt.want, e.Page("X").Namespace.IRI)
			assert.Equal(t, tt.want+"Property-3A", e.Property("X").Namespace.IRI)
			assert.Equal(t, tt.want+"Category-3A", e.Category("X").Namespace.IRI)
		})
	}
}

func TestExporterNamespaces(t *testing.T) {
	ns := NewExporter("").Namespaces()

	prefixes := make([]string, len(ns))
	for i, n := range ns {
		prefixes[i] = n.Prefix
	}
	assert.Equal(t, []string{"rdf", "rdfs", "xsd", "swivt", "wiki", "property", "category"}, prefixes)
}

func TestExporterPages(t *testing.T) {
	e := NewExporter("")
	s := term.TurtleSerializer{}

	tests := []struct {
		name  string
		title string
		ns    int
		want  string
	}{
		{"main", "Berlin", NSMain, "wiki:Berlin"},
		{"spaces", "New York City", NSMain, "wiki:New_York_City"},
		{"lowercase first", "berlin", NSMain, "wiki:Berlin"},
		{"punctuation", "St. Louis", NSMain, "wiki:St-2E_Louis"},
		{"user namespace", "Alice", 2, "wiki:User-3AAlice"},
		{"category namespace", "City", NSCategory, "category:City"},
		{"property namespace", "Located in", NSProperty, "property:Located_in"},
		{"unknown namespace", "X", 3000, "wiki:NS3000-3AX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := s.Serialize(e.PageIn(tt.title, tt.ns))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExporterValue(t *testing.T) {
	e := NewExporter("")
	s := term.TurtleSerializer{}

	tests := []struct {
		name string
		v    ir.IRValue
		want string
	}{
		{"string", ir.IRString("Berlin"), `"Berlin"^^xsd:string`},
		{"int", ir.IRInt(42), `"42"^^xsd:double`},
		{"negative", ir.IRInt(-7), `"-7"^^xsd:double`},
		{"bool", ir.IRBool(true), `"true"^^xsd:boolean`},
		{"uri", ir.IRURI("http://x.org/a"), "<http://x.org/a>"},
		{"page", ir.NewPage("Berlin"), "wiki:Berlin"},
		{"page in namespace", ir.IRPage{Title: "City", Namespace: NSCategory}, "category:City"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, err := e.Value(tt.v)
			require.NoError(t, err)
			got, _ := s.Serialize(tm)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExporterValueRejectsComposite(t *testing.T) {
	e := NewExporter("")
	for _, v := range []ir.IRValue{ir.IRNull{}, ir.IRArray{}, ir.IRObject{}, nil} {
		_, err := e.Value(v)
		assert.Error(t, err, "%T", v)
	}
}

func TestExporterSortValue(t *testing.T) {
	e := NewExporter("")
	s := term.TurtleSerializer{}

	tm, err := e.SortValue(ir.IRPage{Title: "New_York", SortKey: "York, New"})
	require.NoError(t, err)
	got, _ := s.Serialize(tm)
	assert.Equal(t, `"York, New"^^xsd:string`, got)

	tm, err = e.SortValue(ir.NewPage("New_York"))
	require.NoError(t, err)
	got, _ = s.Serialize(tm)
	assert.Equal(t, `"New York"^^xsd:string`, got)

	tm, err = e.SortValue(ir.IRInt(3))
	require.NoError(t, err)
	got, _ = s.Serialize(tm)
	assert.Equal(t, `"3"^^xsd:double`, got)
}

func TestNormalizeTitle(t *testing.T) {
	// Only the first letter is capitalized.
	assert.Equal(t, "New_york", NormalizeTitle("  new   york "))
	assert.Equal(t, "New_York", NormalizeTitle("new York"))
	assert.Equal(t, "A_b", NormalizeTitle("a__ b"))
	assert.Equal(t, "", NormalizeTitle(" _ "))
	// Decomposed input is composed before encoding
	assert.Equal(t, NormalizeTitle("Caf\u00e9"), NormalizeTitle("Cafe\u0301"))
}

func TestEncodeLocal(t *testing.T) {
	assert.Equal(t, "Abc_09", EncodeLocal("Abc_09"))
	assert.Equal(t, "A-2DB", EncodeLocal("A-B"))
	assert.Equal(t, "Caf-C3-A9", EncodeLocal("Caf\u00e9"))
}
