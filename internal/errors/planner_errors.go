package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory represents different types of errors that can occur during a run
type ErrorCategory string

const (
	// Errors that must stop a run before or while it executes
	ErrorCategoryFatal         ErrorCategory = "FATAL"
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"

	// Transient, internal to the generators; never returned to callers of Run
	ErrorCategoryInvalidAllocation ErrorCategory = "INVALID_ALLOCATION"

	// Errors raised by the reporting and catalog loading layers
	ErrorCategoryIO ErrorCategory = "IO"
)

// PlannerError represents a categorized error with context
type PlannerError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *PlannerError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *PlannerError) Unwrap() error {
	return e.Underlying
}

// IsFatal returns whether this error aborts a run
func (e *PlannerError) IsFatal() bool {
	return e.Category == ErrorCategoryFatal ||
		e.Category == ErrorCategoryConfiguration
}

// WithContext adds context information to the error
func (e *PlannerError) WithContext(key string, value interface{}) *PlannerError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewPlannerError creates a new categorized error
func NewPlannerError(category ErrorCategory, component, operation, message string) *PlannerError {
	return &PlannerError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with planner error context
func WrapError(err error, category ErrorCategory, component, operation string) *PlannerError {
	if err == nil {
		return nil
	}

	return &PlannerError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// Common error constructors

func NewConfigurationError(component, operation, message string) *PlannerError {
	return NewPlannerError(ErrorCategoryConfiguration, component, operation, message)
}

func NewInvalidAllocationError(component, operation, message string) *PlannerError {
	return NewPlannerError(ErrorCategoryInvalidAllocation, component, operation, message)
}

func NewFatalError(component, operation string, err error) *PlannerError {
	return WrapError(err, ErrorCategoryFatal, component, operation)
}

func NewIOError(component, operation string, err error) *PlannerError {
	return WrapError(err, ErrorCategoryIO, component, operation)
}

// CategoryOf returns the category of err if it wraps a PlannerError
func CategoryOf(err error) (ErrorCategory, bool) {
	var pe *PlannerError
	if stderrors.As(err, &pe) {
		return pe.Category, true
	}
	return "", false
}

// IsConfigurationError reports whether err is (or wraps) a configuration error
func IsConfigurationError(err error) bool {
	category, ok := CategoryOf(err)
	return ok && category == ErrorCategoryConfiguration
}

// IsFatalError reports whether err is (or wraps) a fatal run error
func IsFatalError(err error) bool {
	category, ok := CategoryOf(err)
	return ok && category == ErrorCategoryFatal
}
