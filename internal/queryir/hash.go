package queryir

import (
	"fmt"

	"github.com/roach88/sparqlwhere/internal/ir"
)

// Hash returns the content-addressed identity of a description.
// Structurally equal trees hash equally regardless of pointer/value form.
func Hash(d Description) (string, error) {
	obj, err := canonicalForm(d)
	if err != nil {
		return "", err
	}
	return ir.ContentHash(ir.DomainDescription, obj)
}

// canonicalForm converts a description to a canonical IRObject.
func canonicalForm(d Description) (ir.IRObject, error) {
	switch desc := Unwrap(d).(type) {
	case Conjunction:
		children, err := canonicalChildren(desc.Descriptions)
		if err != nil {
			return nil, err
		}
		return ir.IRObject{"and": children}, nil
	case Disjunction:
		children, err := canonicalChildren(desc.Descriptions)
		if err != nil {
			return nil, err
		}
		return ir.IRObject{"or": children}, nil
	case SomeProperty:
		obj := ir.IRObject{
			"property": ir.IRString(desc.Property),
			"inverse":  ir.IRBool(desc.Inverse),
		}
		if desc.Value != nil {
			inner, err := canonicalForm(desc.Value)
			if err != nil {
				return nil, err
			}
			obj["where"] = inner
		}
		return obj, nil
	case NamespaceFilter:
		return ir.IRObject{"namespace": ir.IRInt(desc.Namespace)}, nil
	case ClassFilter:
		cats := make(ir.IRArray, len(desc.Categories))
		for i, c := range desc.Categories {
			cats[i] = ir.IRString(c)
		}
		return ir.IRObject{"category": cats}, nil
	case ValueFilter:
		if desc.Value == nil {
			return nil, fmt.Errorf("value filter has no value")
		}
		return ir.IRObject{
			"cmp":   ir.IRString(desc.Comparator.String()),
			"value": desc.Value,
		}, nil
	case ConceptFilter:
		return ir.IRObject{"concept": ir.IRString(desc.Concept)}, nil
	case Anything:
		return ir.IRObject{"anything": ir.IRBool(true)}, nil
	default:
		return nil, fmt.Errorf("cannot hash description type %T", d)
	}
}

func canonicalChildren(ds []Description) (ir.IRArray, error) {
	out := make(ir.IRArray, len(ds))
	for i, child := range ds {
		obj, err := canonicalForm(child)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = obj
	}
	return out, nil
}
