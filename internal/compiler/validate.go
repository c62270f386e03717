package compiler

import (
	"fmt"

	"github.com/roach88/sparqlwhere/internal/ir"
	"github.com/roach88/sparqlwhere/internal/queryir"
	"github.com/roach88/sparqlwhere/internal/schema"
)

// Validation error codes (E100-E199)
const (
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// Query errors (E101-E109)
	ErrEmptyDescription   = "E101" // query has no where description
	ErrInvalidProperty    = "E102" // property name is not a valid key
	ErrUnknownDataKind    = "E103" // schema kind not resolved
	ErrFloatTypeForbidden = "E104" // float values not allowed
	ErrInvalidSortKey     = "E105" // sort key is not a valid property name
	ErrDuplicateSortKey   = "E106" // same sort key listed twice
	ErrNegativeBound      = "E107" // negative limit or offset

	// Description warnings promoted by strict validation (E110)
	ErrDescriptionWarning = "E110"
)

// ValidationError represents a query validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate validates a compiled query.
// Returns all errors found (does not fail-fast).
func Validate(v any) []ValidationError {
	switch q := v.(type) {
	case *Query:
		return validateQuery(q)
	case Query:
		return validateQuery(&q)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

// Warnings returns the description warnings of q as validation errors
// with code E110. Callers decide whether they are fatal.
func Warnings(q *Query) []ValidationError {
	if q == nil || q.Description == nil {
		return nil
	}
	var errs []ValidationError
	for _, w := range queryir.Validate(q.Description).Warnings {
		errs = append(errs, ValidationError{
			Field:   q.Name,
			Message: w,
			Code:    ErrDescriptionWarning,
		})
	}
	return errs
}

func validateQuery(q *Query) []ValidationError {
	var errs []ValidationError

	if q.Description == nil {
		errs = append(errs, ValidationError{
			Field:   q.Name + ".where",
			Message: "description is required",
			Code:    ErrEmptyDescription,
		})
	} else {
		errs = append(errs, validateProperties(q.Description, q.Name+".where")...)
	}

	for prop, kind := range q.Schema {
		if !schema.ValidPropertyKey(prop) {
			errs = append(errs, ValidationError{
				Field:   q.Name + ".schema." + prop,
				Message: "invalid property name",
				Code:    ErrInvalidProperty,
			})
		}
		if kind == ir.KindUnknown {
			errs = append(errs, ValidationError{
				Field:   q.Name + ".schema." + prop,
				Message: "data kind is unknown",
				Code:    ErrUnknownDataKind,
			})
		}
	}

	seen := make(map[string]bool)
	for i, sk := range q.Sort {
		field := fmt.Sprintf("%s.sort[%d]", q.Name, i)
		if sk.Key != "" && !schema.ValidPropertyKey(sk.Key) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("sort key %q is not a valid property name", sk.Key),
				Code:    ErrInvalidSortKey,
			})
		}
		norm := sk.Key
		if norm != "" {
			norm = schema.PropertyKey(norm)
		}
		if seen[norm] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("sort key %q listed more than once", sk.Key),
				Code:    ErrDuplicateSortKey,
			})
		}
		seen[norm] = true
	}

	if q.Limit < 0 {
		errs = append(errs, ValidationError{Field: q.Name + ".limit", Message: "must not be negative", Code: ErrNegativeBound})
	}
	if q.Offset < 0 {
		errs = append(errs, ValidationError{Field: q.Name + ".offset", Message: "must not be negative", Code: ErrNegativeBound})
	}

	return errs
}

// validateProperties checks property names throughout a description tree.
func validateProperties(d queryir.Description, path string) []ValidationError {
	var errs []ValidationError
	switch n := queryir.Unwrap(d).(type) {
	case queryir.Conjunction:
		for i, child := range n.Descriptions {
			errs = append(errs, validateProperties(child, fmt.Sprintf("%s.and[%d]", path, i))...)
		}
	case queryir.Disjunction:
		for i, child := range n.Descriptions {
			errs = append(errs, validateProperties(child, fmt.Sprintf("%s.or[%d]", path, i))...)
		}
	case queryir.SomeProperty:
		if !schema.ValidPropertyKey(n.Property) {
			errs = append(errs, ValidationError{
				Field:   path + ".property",
				Message: fmt.Sprintf("invalid property name %q", n.Property),
				Code:    ErrInvalidProperty,
			})
		}
		if n.Value != nil {
			errs = append(errs, validateProperties(n.Value, path+".where")...)
		}
	}
	return errs
}
