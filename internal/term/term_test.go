package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testNS = Namespace{Prefix: "wiki", IRI: "http://example.org/id/"}

func TestTermKinds(t *testing.T) {
	assert.Equal(t, KindIRI, IRI{Value: "http://a"}.Kind())
	assert.Equal(t, KindIRI, NsIRI{Namespace: testNS, Local: "Berlin"}.Kind())
	assert.Equal(t, KindLiteral, Literal{Lexical: "x"}.Kind())
}

func TestNsIRIString(t *testing.T) {
	n := NsIRI{Namespace: testNS, Local: "Berlin"}
	assert.Equal(t, "http://example.org/id/Berlin", n.String())
}

func TestLiteralString(t *testing.T) {
	assert.Equal(t, `"hi"@en`, Literal{Lexical: "hi", Lang: "en"}.String())
	assert.Equal(t, `"1"^^<http://dt>`, Literal{Lexical: "1", Datatype: IRI{Value: "http://dt"}}.String())
	assert.Equal(t, `"plain"`, Literal{Lexical: "plain"}.String())
}

func TestEqual(t *testing.T) {
	full := IRI{Value: "http://example.org/id/Berlin"}
	short := NsIRI{Namespace: testNS, Local: "Berlin"}
	dt := IRI{Value: "http://www.w3.org/2001/XMLSchema#double"}

	tests := []struct {
		name string
		a, b Term
		want bool
	}{
		{"full vs namespaced", full, short, true},
		{"different IRIs", full, IRI{Value: "http://example.org/id/Paris"}, false},
		{"iri vs literal", full, Literal{Lexical: full.Value}, false},
		{"same literal", Literal{Lexical: "1", Datatype: dt}, Literal{Lexical: "1", Datatype: dt}, true},
		{"literal pointer", &Literal{Lexical: "1", Datatype: dt}, Literal{Lexical: "1", Datatype: dt}, true},
		{"different datatype", Literal{Lexical: "1", Datatype: dt}, Literal{Lexical: "1"}, false},
		{"different lang", Literal{Lexical: "a", Lang: "en"}, Literal{Lexical: "a", Lang: "de"}, false},
		{"both nil", nil, nil, true},
		{"one nil", nil, full, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}
