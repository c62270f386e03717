package ir

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"
)

// IRValue is a sealed interface representing the literal values a value
// filter may compare against.
// Only IRNull, IRString, IRInt, IRBool, IRPage, IRURI, IRArray and IRObject
// implement it. There is no IRFloat.
type IRValue interface {
	irValue() // Sealed - only these types implement it
}

// IRNull represents an absent value.
type IRNull struct{}

func (IRNull) irValue() {}

// IRString represents a plain string value.
type IRString string

func (IRString) irValue() {}

// IRInt represents an integer value. Always int64, never float64.
type IRInt int64

func (IRInt) irValue() {}

// IRBool represents a boolean value.
type IRBool bool

func (IRBool) irValue() {}

// IRURI represents an absolute IRI used as a value.
type IRURI string

func (IRURI) irValue() {}

// IRPage references a wiki page.
//
// Title is the page title without namespace decoration. Namespace is the
// numeric wiki namespace (0 for main, 14 for categories, 102 for
// properties). SortKey overrides the title for ordering when non-empty.
type IRPage struct {
	Title     string
	Namespace int
	SortKey   string
}

func (IRPage) irValue() {}

// EffectiveSortKey returns the sort key used to order the page.
// Falls back to the title with underscores shown as spaces.
func (p IRPage) EffectiveSortKey() string {
	if p.SortKey != "" {
		return p.SortKey
	}
	return strings.ReplaceAll(p.Title, "_", " ")
}

// IRArray represents an array of IRValue elements.
type IRArray []IRValue

func (IRArray) irValue() {}

// IRObject represents a map of string keys to IRValue elements.
// Use SortedKeys() for deterministic iteration.
type IRObject map[string]IRValue

func (IRObject) irValue() {}

// NewPage creates a page reference in the main namespace.
func NewPage(title string) IRPage {
	return IRPage{Title: title}
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings compares UTF-8 bytes, which differs for astral characters.
func (obj IRObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// Lexical returns the lexical form of a scalar value, as it would appear
// inside a typed literal. Composite values return an error.
func Lexical(v IRValue) (string, error) {
	switch val := v.(type) {
	case IRString:
		return string(val), nil
	case IRInt:
		return strconv.FormatInt(int64(val), 10), nil
	case IRBool:
		return strconv.FormatBool(bool(val)), nil
	case IRURI:
		return string(val), nil
	case IRPage:
		return val.Title, nil
	case IRNull:
		return "", fmt.Errorf("null has no lexical form")
	default:
		return "", fmt.Errorf("no lexical form for %T", v)
	}
}
