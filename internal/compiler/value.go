package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/sparqlwhere/internal/ir"
)

// CompileValue parses a CUE value into a literal IR value.
//
//	"Berlin"                      IRString
//	42                            IRInt
//	true                          IRBool
//	{page: "Berlin", ns?: 0, sortkey?: "..."}  IRPage
//	{uri: "http://..."}           IRURI
//
// Floats are forbidden: numbers must be integers.
func CompileValue(v cue.Value, field string) (ir.IRValue, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(field, err)
	}

	switch v.IncompleteKind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(field, err)
		}
		return ir.IRString(s), nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(field, err)
		}
		return ir.IRInt(n), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(field, err)
		}
		return ir.IRBool(b), nil
	case cue.StructKind:
		return compileStructValue(v, field)
	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{
			Field:   field,
			Message: "float values are forbidden - use int instead",
			Pos:     v.Pos(),
		}
	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unsupported value kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

func compileStructValue(v cue.Value, field string) (ir.IRValue, error) {
	if uriVal := v.LookupPath(cue.ParsePath("uri")); uriVal.Exists() {
		uri, err := uriVal.String()
		if err != nil {
			return nil, formatCUEError(field+".uri", err)
		}
		return ir.IRURI(uri), nil
	}

	pageVal := v.LookupPath(cue.ParsePath("page"))
	if !pageVal.Exists() {
		return nil, &CompileError{
			Field:   field,
			Message: "value object must have a page or uri field",
			Pos:     v.Pos(),
		}
	}
	title, err := pageVal.String()
	if err != nil {
		return nil, formatCUEError(field+".page", err)
	}
	p := ir.NewPage(title)

	if nsVal := v.LookupPath(cue.ParsePath("ns")); nsVal.Exists() {
		ns, err := nsVal.Int64()
		if err != nil {
			return nil, formatCUEError(field+".ns", err)
		}
		p.Namespace = int(ns)
	}
	if skVal := v.LookupPath(cue.ParsePath("sortkey")); skVal.Exists() {
		sk, err := skVal.String()
		if err != nil {
			return nil, formatCUEError(field+".sortkey", err)
		}
		p.SortKey = sk
	}
	return p, nil
}
