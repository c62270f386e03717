package queryir

import (
	"fmt"
	"strings"

	"github.com/roach88/sparqlwhere/internal/ir"
)

// ValidationResult reports structural problems found in a description.
//
// Problems never make a description uncompilable: the builder degrades
// gracefully (unknown kinds match everything, empty class lists match
// nothing). Warnings tell authors where that degradation will happen.
type ValidationResult struct {
	// Valid is true when no warnings were produced.
	Valid bool

	// Warnings lists the problems found, in tree order.
	Warnings []string
}

// Validate walks a description tree and reports structural problems.
//
// Checks:
//  1. No nil nodes
//  2. Property names are non-empty
//  3. Class filters name at least one category
//  4. Value filters carry a scalar value and a known comparator
//  5. Concept filters are flagged (compiled as unconditional matches)
//
// Validate is a pure function with no side effects.
func Validate(d Description) ValidationResult {
	v := &validator{warnings: []string{}}
	v.validate(d, "query")

	return ValidationResult{
		Valid:    len(v.warnings) == 0,
		Warnings: v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

func (v *validator) addWarning(path, format string, args ...any) {
	v.warnings = append(v.warnings, path+": "+fmt.Sprintf(format, args...))
}

func (v *validator) validate(d Description, path string) {
	if d == nil {
		v.addWarning(path, "nil description")
		return
	}

	switch desc := Unwrap(d).(type) {
	case Conjunction:
		v.validateChildren(desc.Descriptions, path+".and")
	case Disjunction:
		v.validateChildren(desc.Descriptions, path+".or")
	case SomeProperty:
		if strings.TrimSpace(desc.Property) == "" {
			v.addWarning(path, "property name is empty")
		}
		if desc.Value != nil {
			v.validate(desc.Value, path+".where")
		}
	case ClassFilter:
		if len(desc.Categories) == 0 {
			v.addWarning(path, "class filter has no categories and matches nothing")
		}
		for i, c := range desc.Categories {
			if strings.TrimSpace(c) == "" {
				v.addWarning(fmt.Sprintf("%s.category[%d]", path, i), "category name is empty")
			}
		}
	case ValueFilter:
		v.validateValue(desc, path)
	case ConceptFilter:
		v.addWarning(path, "concept %q is not expanded and matches everything", desc.Concept)
	case NamespaceFilter, Anything:
		// Always well-formed
	default:
		v.addWarning(path, "unknown description type %T matches everything", d)
	}
}

func (v *validator) validateChildren(children []Description, path string) {
	for i, child := range children {
		v.validate(child, fmt.Sprintf("%s[%d]", path, i))
	}
}

func (v *validator) validateValue(f ValueFilter, path string) {
	if !f.Comparator.Valid() {
		v.addWarning(path, "unsupported comparator %s matches everything", f.Comparator)
	}
	if f.Value == nil {
		v.addWarning(path, "value filter has no value")
		return
	}
	switch f.Value.(type) {
	case ir.IRNull:
		v.addWarning(path, "value filter compares against null")
	case ir.IRArray, ir.IRObject:
		v.addWarning(path, "value filter compares against composite %T", f.Value)
	}
	if f.Comparator == CmpLike || f.Comparator == CmpNotLike {
		switch kind := ir.KindOf(f.Value); kind {
		case ir.KindNumber, ir.KindBoolean:
			v.addWarning(path, "pattern comparator %s on %s value matches everything", f.Comparator, kind)
		}
	}
}
