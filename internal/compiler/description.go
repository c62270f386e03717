package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"

	"github.com/roach88/sparqlwhere/internal/queryir"
)

// Discriminating fields of a description object. Exactly one may appear.
var descriptionKeys = []string{"and", "or", "property", "namespace", "category", "value", "concept", "anything"}

// CompileDescription parses a CUE value into a description tree.
//
// Shapes:
//
//	{and: [d, ...]}                         Conjunction
//	{or: [d, ...]}                          Disjunction
//	{property: "P", inverse?: bool, where?: d}   SomeProperty
//	{namespace: 14}                         NamespaceFilter
//	{category: "C"} | {category: ["C", ...]}     ClassFilter
//	{value: v, cmp?: "<"}                   ValueFilter (cmp defaults to "=")
//	{concept: "C"}                          ConceptFilter
//	{anything: true} | {} | "*"             Anything
//
// A bare scalar or {page: ...} value is shorthand for {value: v}.
func CompileDescription(v cue.Value) (queryir.Description, error) {
	return compileDescription(v, "query")
}

func compileDescription(v cue.Value, field string) (queryir.Description, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(field, err)
	}

	if v.IncompleteKind() != cue.StructKind {
		if s, err := v.String(); err == nil && s == "*" {
			return queryir.Anything{}, nil
		}
		value, err := CompileValue(v, field)
		if err != nil {
			return nil, err
		}
		return queryir.Equals(value), nil
	}

	var present []string
	for _, key := range descriptionKeys {
		if v.LookupPath(cue.ParsePath(key)).Exists() {
			present = append(present, key)
		}
	}
	if len(present) > 1 {
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("ambiguous description: fields %s are mutually exclusive", strings.Join(present, ", ")),
			Pos:     v.Pos(),
		}
	}
	if len(present) == 0 {
		if isPageOrURI(v) {
			value, err := CompileValue(v, field)
			if err != nil {
				return nil, err
			}
			return queryir.Equals(value), nil
		}
		if hasFields(v) {
			return nil, &CompileError{
				Field:   field,
				Message: "unknown description: expected one of " + strings.Join(descriptionKeys, ", "),
				Pos:     v.Pos(),
			}
		}
		return queryir.Anything{}, nil
	}

	key := present[0]
	inner := v.LookupPath(cue.ParsePath(key))
	path := field + "." + key
	switch key {
	case "and":
		children, err := compileChildren(inner, path)
		if err != nil {
			return nil, err
		}
		return queryir.Conjunction{Descriptions: children}, nil
	case "or":
		children, err := compileChildren(inner, path)
		if err != nil {
			return nil, err
		}
		return queryir.Disjunction{Descriptions: children}, nil
	case "property":
		return compileProperty(v, inner, path)
	case "namespace":
		ns, err := inner.Int64()
		if err != nil {
			return nil, formatCUEError(path, err)
		}
		return queryir.NamespaceFilter{Namespace: int(ns)}, nil
	case "category":
		cats, err := stringOrList(inner, path)
		if err != nil {
			return nil, err
		}
		return queryir.ClassFilter{Categories: cats}, nil
	case "value":
		return compileValueFilter(v, inner, path)
	case "concept":
		name, err := inner.String()
		if err != nil {
			return nil, formatCUEError(path, err)
		}
		return queryir.ConceptFilter{Concept: name}, nil
	default:
		return queryir.Anything{}, nil
	}
}

func compileChildren(v cue.Value, field string) ([]queryir.Description, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(field, err)
	}

	children := []queryir.Description{}
	for i := 0; iter.Next(); i++ {
		child, err := compileDescription(iter.Value(), fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func compileProperty(v, nameVal cue.Value, field string) (queryir.Description, error) {
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(field, err)
	}
	if strings.TrimSpace(name) == "" {
		return nil, &CompileError{Field: field, Message: "property name is required", Pos: nameVal.Pos()}
	}

	desc := queryir.SomeProperty{Property: name}
	if invVal := v.LookupPath(cue.ParsePath("inverse")); invVal.Exists() {
		desc.Inverse, err = invVal.Bool()
		if err != nil {
			return nil, formatCUEError(strings.TrimSuffix(field, ".property")+".inverse", err)
		}
	}
	if whereVal := v.LookupPath(cue.ParsePath("where")); whereVal.Exists() {
		desc.Value, err = compileDescription(whereVal, strings.TrimSuffix(field, ".property")+".where")
		if err != nil {
			return nil, err
		}
	}
	return desc, nil
}

func compileValueFilter(v, valueVal cue.Value, field string) (queryir.Description, error) {
	value, err := CompileValue(valueVal, field)
	if err != nil {
		return nil, err
	}

	cmp := queryir.CmpEQ
	if cmpVal := v.LookupPath(cue.ParsePath("cmp")); cmpVal.Exists() {
		cmpField := strings.TrimSuffix(field, ".value") + ".cmp"
		symbol, err := cmpVal.String()
		if err != nil {
			return nil, formatCUEError(cmpField, err)
		}
		cmp, err = queryir.ParseComparator(symbol)
		if err != nil {
			return nil, &CompileError{Field: cmpField, Message: err.Error(), Pos: cmpVal.Pos()}
		}
	}
	return queryir.ValueFilter{Comparator: cmp, Value: value}, nil
}

// stringOrList reads a string or a list of strings.
func stringOrList(v cue.Value, field string) ([]string, error) {
	if s, err := v.String(); err == nil {
		return []string{s}, nil
	}

	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{Field: field, Message: "must be a string or a list of strings", Pos: v.Pos()}
	}
	out := []string{}
	for i := 0; iter.Next(); i++ {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(fmt.Sprintf("%s[%d]", field, i), err)
		}
		out = append(out, s)
	}
	return out, nil
}

func isPageOrURI(v cue.Value) bool {
	return v.LookupPath(cue.ParsePath("page")).Exists() || v.LookupPath(cue.ParsePath("uri")).Exists()
}

func hasFields(v cue.Value) bool {
	iter, err := v.Fields()
	if err != nil {
		return false
	}
	return iter.Next()
}
