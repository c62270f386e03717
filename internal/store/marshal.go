package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/querysparql"
)

// marshalNamespaces converts a prefix -> IRI map to canonical JSON TEXT.
// Uses RFC 8785 canonical JSON for deterministic serialization.
func marshalNamespaces(ns map[string]string) (string, error) {
	obj := make(ir.IRObject, len(ns))
	for prefix, iri := range ns {
		obj[prefix] = ir.IRString(iri)
	}
	data, err := ir.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("marshal namespaces: %w", err)
	}
	return string(data), nil
}

// marshalSortKeys converts sort keys to canonical JSON TEXT, preserving
// their order.
func marshalSortKeys(keys []querysparql.SortKey) (string, error) {
	arr := make(ir.IRArray, 0, len(keys))
	for _, k := range keys {
		arr = append(arr, ir.IRObject{
			"key":       ir.IRString(k.Key),
			"direction": ir.IRString(k.Direction),
		})
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal sort keys: %w", err)
	}
	return string(data), nil
}

// unmarshalNamespaces parses canonical JSON TEXT to a prefix -> IRI map.
func unmarshalNamespaces(data string) (map[string]string, error) {
	ns := map[string]string{}
	if data == "" || data == "{}" {
		return ns, nil
	}
	if err := json.Unmarshal([]byte(data), &ns); err != nil {
		return nil, fmt.Errorf("unmarshal namespaces: %w", err)
	}
	return ns, nil
}

// unmarshalSortKeys parses canonical JSON TEXT to sort keys.
func unmarshalSortKeys(data string) ([]querysparql.SortKey, error) {
	var raw []struct {
		Key       string `json:"key"`
		Direction string `json:"direction"`
	}
	if data == "" || data == "[]" {
		return []querysparql.SortKey{}, nil
	}
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal sort keys: %w", err)
	}
	keys := make([]querysparql.SortKey, 0, len(raw))
	for _, r := range raw {
		keys = append(keys, querysparql.SortKey{Key: r.Key, Direction: r.Direction})
	}
	return keys, nil
}
