package querysparql

import (
	"errors"
	"fmt"
)

// InternalError reports a broken compiler contract. It aborts compilation;
// it never describes a problem with the user's query semantics.
//
// Unsatisfiable queries are not errors: they compile to False.
type InternalError struct {
	// Code identifies the error category.
	Code InternalErrorCode

	// Message is a human-readable description.
	Message string

	// SortKey is the sort key involved, if any.
	SortKey string
}

// InternalErrorCode categorizes internal errors.
type InternalErrorCode string

const (
	// ErrCodeInvalidSortKey indicates a requested sort key is neither ""
	// nor a valid property name.
	ErrCodeInvalidSortKey InternalErrorCode = "INVALID_SORT_KEY"

	// ErrCodeMissingOrderVariable indicates a sort key has no bound order
	// variable after augmentation.
	ErrCodeMissingOrderVariable InternalErrorCode = "MISSING_ORDER_VARIABLE"
)

// Error implements the error interface.
func (e *InternalError) Error() string {
	if e.SortKey != "" {
		return fmt.Sprintf("%s: %s (sort key %q)", e.Code, e.Message, e.SortKey)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInternalError returns true if err is or wraps an InternalError.
func IsInternalError(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}

// IsInvalidSortKeyError returns true if err is an InternalError with
// ErrCodeInvalidSortKey.
func IsInvalidSortKeyError(err error) bool {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeInvalidSortKey
	}
	return false
}

// IsMissingOrderVariableError returns true if err is an InternalError with
// ErrCodeMissingOrderVariable.
func IsMissingOrderVariableError(err error) bool {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeMissingOrderVariable
	}
	return false
}

// NewInvalidSortKeyError creates an InternalError for a malformed sort key.
func NewInvalidSortKeyError(key string) *InternalError {
	return &InternalError{
		Code:    ErrCodeInvalidSortKey,
		Message: "sort key is not a valid property name",
		SortKey: key,
	}
}

// NewMissingOrderVariableError creates an InternalError for a sort key
// whose order variable was never bound.
func NewMissingOrderVariableError(key, context string) *InternalError {
	return &InternalError{
		Code:    ErrCodeMissingOrderVariable,
		Message: context + " did not bind an order variable",
		SortKey: key,
	}
}

// SortKeyError rejects a requested ordering. Unlike InternalError it is
// caused by the caller's input, such as two sort keys naming the same
// property.
type SortKeyError struct {
	SortKey  string
	Previous string
}

// Error implements the error interface.
func (e *SortKeyError) Error() string {
	return fmt.Sprintf("sort key %q names the same property as %q", e.SortKey, e.Previous)
}

// IsSortKeyError returns true if err is or wraps a SortKeyError.
func IsSortKeyError(err error) bool {
	var se *SortKeyError
	return errors.As(err, &se)
}
