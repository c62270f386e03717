// Package schema resolves the data kind of property values.
package schema

import (
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sparqlwhere/internal/ir"
)

// Registry maps a property to the kind of its values.
// Implementations return ir.KindUnknown only when they cannot decide.
type Registry interface {
	DataKindOf(property string) ir.DataKind
}

// MapRegistry is an in-memory Registry. Properties it does not know
// report Default, which is ir.KindPage unless set otherwise.
//
// MapRegistry is safe for concurrent use.
type MapRegistry struct {
	mu      sync.RWMutex
	kinds   map[string]ir.DataKind
	Default ir.DataKind
}

// NewMapRegistry creates a registry from property name to kind.
func NewMapRegistry(kinds map[string]ir.DataKind) *MapRegistry {
	r := &MapRegistry{kinds: make(map[string]ir.DataKind, len(kinds)), Default: ir.KindPage}
	for name, kind := range kinds {
		r.kinds[PropertyKey(name)] = kind
	}
	return r
}

// Set declares the kind of a property.
func (r *MapRegistry) Set(property string, kind ir.DataKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.kinds == nil {
		r.kinds = make(map[string]ir.DataKind)
	}
	r.kinds[PropertyKey(property)] = kind
}

// DataKindOf implements Registry.
func (r *MapRegistry) DataKindOf(property string) ir.DataKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if kind, ok := r.kinds[PropertyKey(property)]; ok {
		return kind
	}
	if r.Default == ir.KindUnknown {
		return ir.KindPage
	}
	return r.Default
}

// Properties returns the declared property keys in sorted order.
func (r *MapRegistry) Properties() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PropertyKey returns the canonical key of a property name: NFC, trimmed,
// underscores and whitespace runs collapsed to one space, first letter
// upper-cased. "located_in" and "Located  in" share the key "Located in".
func PropertyKey(name string) string {
	name = norm.NFC.String(name)
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || unicode.IsSpace(r)
	})
	name = strings.Join(fields, " ")
	if name == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(first)) + name[size:]
}

// illegalTitleChars cannot appear in property names.
const illegalTitleChars = "#<>[]|{}"

// ValidPropertyKey reports whether name is usable as a property name.
func ValidPropertyKey(name string) bool {
	key := PropertyKey(name)
	return key != "" && !strings.ContainsAny(key, illegalTitleChars)
}
