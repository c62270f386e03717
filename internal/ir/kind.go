package ir

import (
	"fmt"
	"strings"
)

// DataKind classifies the values of a property.
//
// The kind decides how values are compared and ordered: page values are
// ordered through their declared sort key, every other kind by the raw value.
type DataKind int

const (
	// KindUnknown means the kind has not been resolved yet.
	KindUnknown DataKind = iota
	// KindPage marks references to wiki pages (addressable entities).
	KindPage
	// KindString marks plain string values.
	KindString
	// KindNumber marks numeric values.
	KindNumber
	// KindBoolean marks boolean values.
	KindBoolean
	// KindURI marks IRIs used as values.
	KindURI
)

var kindNames = map[DataKind]string{
	KindUnknown: "unknown",
	KindPage:    "page",
	KindString:  "string",
	KindNumber:  "number",
	KindBoolean: "boolean",
	KindURI:     "uri",
}

// String returns the lowercase kind name.
func (k DataKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("DataKind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k DataKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name, accepting the same aliases as
// ParseDataKind.
func (k *DataKind) UnmarshalText(text []byte) error {
	kind, err := ParseDataKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseDataKind parses a kind name. Accepts the aliases "text" and "blob"
// for strings, and "wikipage" for pages.
func ParseDataKind(s string) (DataKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "page", "wikipage":
		return KindPage, nil
	case "string", "text", "blob":
		return KindString, nil
	case "number", "int", "integer":
		return KindNumber, nil
	case "boolean", "bool":
		return KindBoolean, nil
	case "uri", "url", "iri":
		return KindURI, nil
	default:
		return KindUnknown, fmt.Errorf("unknown data kind %q", s)
	}
}

// KindOf reports the data kind of a literal value.
// Composite values and IRNull report KindUnknown.
func KindOf(v IRValue) DataKind {
	switch v.(type) {
	case IRPage:
		return KindPage
	case IRString:
		return KindString
	case IRInt:
		return KindNumber
	case IRBool:
		return KindBoolean
	case IRURI:
		return KindURI
	default:
		return KindUnknown
	}
}
