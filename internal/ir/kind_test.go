package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataKind(t *testing.T) {
	tests := []struct {
		in   string
		want DataKind
	}{
		{"page", KindPage},
		{"WikiPage", KindPage},
		{"text", KindString},
		{" number ", KindNumber},
		{"bool", KindBoolean},
		{"uri", KindURI},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDataKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDataKindUnknown(t *testing.T) {
	_, err := ParseDataKind("float")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "float")
}

func TestDataKindString(t *testing.T) {
	assert.Equal(t, "page", KindPage.String())
	assert.Equal(t, "DataKind(99)", DataKind(99).String())
}

func TestDataKindJSON(t *testing.T) {
	data, err := json.Marshal(map[string]DataKind{"Population": KindNumber})
	require.NoError(t, err)
	assert.Equal(t, `{"Population":"number"}`, string(data))

	var decoded map[string]DataKind
	require.NoError(t, json.Unmarshal([]byte(`{"Homepage":"url"}`), &decoded))
	assert.Equal(t, KindURI, decoded["Homepage"])

	assert.Error(t, json.Unmarshal([]byte(`{"x":"float"}`), &decoded))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindPage, KindOf(NewPage("A")))
	assert.Equal(t, KindString, KindOf(IRString("a")))
	assert.Equal(t, KindNumber, KindOf(IRInt(1)))
	assert.Equal(t, KindBoolean, KindOf(IRBool(false)))
	assert.Equal(t, KindURI, KindOf(IRURI("http://x")))
	assert.Equal(t, KindUnknown, KindOf(IRNull{}))
	assert.Equal(t, KindUnknown, KindOf(IRArray{}))
}
