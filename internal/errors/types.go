// Package errors defines the structured error type used across chassis and
// the constructors for each failure the mixin runtime can report.
//
// Argument, index and reference errors are programmer errors returned to
// the caller. Invalid targets during bulk application are soft: they are
// logged and collected, and the remaining targets proceed.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeArgument   ErrorType = "argument"
	ErrorTypeReference  ErrorType = "reference"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeScenario   ErrorType = "scenario"
	ErrorTypeInternal   ErrorType = "internal"
)

// Error codes.
const (
	ErrCodeInvalidTarget       = "ERR_INVALID_TARGET"
	ErrCodeMissingArgument     = "ERR_MISSING_ARGUMENT"
	ErrCodeInvalidArgument     = "ERR_INVALID_ARGUMENT"
	ErrCodeIndexOutOfRange     = "ERR_INDEX_OUT_OF_RANGE"
	ErrCodeUnresolvedReference = "ERR_UNRESOLVED_REFERENCE"
	ErrCodeUnknownMixin        = "ERR_UNKNOWN_MIXIN"
	ErrCodeConfigInvalid       = "ERR_CONFIG_INVALID"
	ErrCodeScenario            = "ERR_SCENARIO"
	ErrCodeInternalError       = "ERR_INTERNAL"
)

// Sentinels for errors.Is. A ChassisError matches a sentinel when Type and
// Code agree.
var (
	ErrInvalidTarget       = &ChassisError{Type: ErrorTypeValidation, Code: ErrCodeInvalidTarget}
	ErrMissingArgument     = &ChassisError{Type: ErrorTypeArgument, Code: ErrCodeMissingArgument}
	ErrInvalidArgument     = &ChassisError{Type: ErrorTypeArgument, Code: ErrCodeInvalidArgument}
	ErrIndexOutOfRange     = &ChassisError{Type: ErrorTypeArgument, Code: ErrCodeIndexOutOfRange}
	ErrUnresolvedReference = &ChassisError{Type: ErrorTypeReference, Code: ErrCodeUnresolvedReference}
	ErrUnknownMixin        = &ChassisError{Type: ErrorTypeValidation, Code: ErrCodeUnknownMixin}
	ErrConfigInvalid       = &ChassisError{Type: ErrorTypeConfig, Code: ErrCodeConfigInvalid}
	ErrScenario            = &ChassisError{Type: ErrorTypeScenario, Code: ErrCodeScenario}
)

// ChassisError is a structured error type with context.
type ChassisError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	Recoverable bool
}

// Error implements the error interface.
func (e *ChassisError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	if e.Message != "" {
		parts = append(parts, e.Message)
	}

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *ChassisError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *ChassisError) Is(target error) bool {
	var t *ChassisError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *ChassisError) WithContext(key string, value interface{}) *ChassisError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *ChassisError) WithComponent(component string) *ChassisError {
	e.Component = component

	return e
}

// NewInvalidTargetError reports a mixin target that is neither a selector
// nor a node.
func NewInvalidTargetError(mixin string, target interface{}) *ChassisError {
	return (&ChassisError{
		Type:        ErrorTypeValidation,
		Code:        ErrCodeInvalidTarget,
		Message:     fmt.Sprintf("could not apply %s to target of type %T: not a node or selector", mixin, target),
		Recoverable: true,
	}).WithContext("mixin", mixin).WithContext("target", target)
}

// NewMissingArgumentError reports an operation called without arguments.
func NewMissingArgumentError(operation string) *ChassisError {
	return &ChassisError{
		Type:    ErrorTypeArgument,
		Code:    ErrCodeMissingArgument,
		Message: operation + " requires at least one argument",
	}
}

// NewInvalidArgumentError reports an argument of the wrong type or value.
func NewInvalidArgumentError(operation string, cause error) *ChassisError {
	return &ChassisError{
		Type:    ErrorTypeArgument,
		Code:    ErrCodeInvalidArgument,
		Message: "invalid argument to " + operation,
		Cause:   cause,
	}
}

// NewIndexOutOfRangeError reports an index outside [0, length). max is the
// current valid maximum, 0 for an empty list.
func NewIndexOutOfRangeError(index, max int) *ChassisError {
	return (&ChassisError{
		Type: ErrorTypeArgument,
		Code: ErrCodeIndexOutOfRange,
		Message: fmt.Sprintf(
			"index %d out of bounds: must be between 0 and the size of the list (current max value: %d)",
			index, max,
		),
	}).WithContext("index", index).WithContext("max", max)
}

// NewUnresolvedReferenceError reports a for attribute naming a missing id.
func NewUnresolvedReferenceError(id string) *ChassisError {
	return (&ChassisError{
		Type:    ErrorTypeReference,
		Code:    ErrCodeUnresolvedReference,
		Message: fmt.Sprintf("the specified element %q could not be found or does not exist", id),
	}).WithContext("id", id)
}

// NewUnknownMixinError reports an apply call naming an unregistered mixin.
func NewUnknownMixinError(name string) *ChassisError {
	return (&ChassisError{
		Type:    ErrorTypeValidation,
		Code:    ErrCodeUnknownMixin,
		Message: "unknown mixin: " + name,
	}).WithContext("mixin", name)
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, cause error) *ChassisError {
	return &ChassisError{
		Type:    ErrorTypeConfig,
		Code:    ErrCodeConfigInvalid,
		Message: message,
		Cause:   cause,
	}
}

// NewScenarioError reports a failed scenario step.
func NewScenarioError(step int, message string, cause error) *ChassisError {
	return (&ChassisError{
		Type:        ErrorTypeScenario,
		Code:        ErrCodeScenario,
		Message:     fmt.Sprintf("step %d: %s", step, message),
		Cause:       cause,
		Recoverable: true,
	}).WithContext("step", step)
}

// NewInternalError creates an internal error.
func NewInternalError(message string, cause error) *ChassisError {
	return &ChassisError{
		Type:    ErrorTypeInternal,
		Code:    ErrCodeInternalError,
		Message: message,
		Cause:   cause,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var ce *ChassisError
	if errors.As(err, &ce) {
		return ce.Recoverable
	}

	return false
}
