package harness

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/roach88/sparqlwhere/internal/querysparql"
)

// AssertionError is returned when an assertion fails.
// It includes the rendered clause to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Where    string // Rendered where-clause for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Where != "" {
		fmt.Fprintf(&buf, "\nWhere clause:\n")
		for _, line := range strings.Split(strings.TrimRight(e.Where, "\n"), "\n") {
			fmt.Fprintf(&buf, "  %s\n", line)
		}
	}

	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var msgs []string

	for i, assertion := range assertions {
		var err error
		if result.CompileErr != nil && assertion.Type != AssertError {
			err = fmt.Errorf("assertion[%d]: compilation failed: %v", i, result.CompileErr)
		} else {
			err = evaluate(result, assertion)
		}
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}

	return msgs
}

func evaluate(result *Result, a Assertion) error {
	fail := func(expected, actual string) error {
		return &AssertionError{Type: a.Type, Expected: expected, Actual: actual, Where: result.Where.Text}
	}
	exp := result.Explanation
	text := result.Where.Text

	switch a.Type {
	case AssertKind:
		if exp.Kind != a.Kind {
			return fail(a.Kind, exp.Kind)
		}
	case AssertSafe:
		if exp.Safe != *a.Safe {
			return fail(fmt.Sprintf("safe=%t", *a.Safe), fmt.Sprintf("safe=%t", exp.Safe))
		}
	case AssertContains:
		if !strings.Contains(text, a.Text) {
			return fail(fmt.Sprintf("clause containing %q", a.Text), "not found")
		}
	case AssertNotContains:
		if strings.Contains(text, a.Text) {
			return fail(fmt.Sprintf("clause without %q", a.Text), "found")
		}
	case AssertWhereEquals:
		if text != a.Text {
			return fail(fmt.Sprintf("%q", a.Text), fmt.Sprintf("%q", text))
		}
	case AssertOrderVariable:
		got, ok := exp.OrderVariables[a.Key]
		if !ok {
			return fail(fmt.Sprintf("sort key %q bound to %s", a.Key, a.Variable), "sort key not bound")
		}
		if got != a.Variable {
			return fail(fmt.Sprintf("sort key %q bound to %s", a.Key, a.Variable), got)
		}
	case AssertNamespace:
		if _, ok := result.Where.Namespaces[a.Prefix]; !ok {
			return fail(fmt.Sprintf("namespace %q declared", a.Prefix), fmt.Sprintf("%v", sortedPrefixes(result.Where.Namespaces)))
		}
	case AssertError:
		var ie *querysparql.InternalError
		if !errors.As(result.CompileErr, &ie) {
			return fail("internal error "+a.Code, "compilation succeeded")
		}
		if string(ie.Code) != a.Code {
			return fail("internal error "+a.Code, string(ie.Code))
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func sortedPrefixes(ns map[string]string) []string {
	return slices.Sorted(maps.Keys(ns))
}
