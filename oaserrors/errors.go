// Package oaserrors provides structured error types for openapi-gui.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to tell an unresolvable $ref apart from a
// reference cycle that never settles, or a missing stored schema apart from
// a malformed module name.
//
// # Error Categories
//
//   - ParseError: YAML/JSON decoding failures
//   - ReferenceError: $ref resolution failures (missing target, malformed pointer)
//   - ResourceLimitError: pass cap or nesting depth exceeded
//   - ConfigError: invalid options or inputs
//   - StorageError: schema/apidoc store failures
//
// # Usage with errors.Is
//
//	result, err := deref.New().Dereference(doc, defs)
//	if errors.Is(err, oaserrors.ErrCycleDepthExceeded) {
//	    // the document keeps producing new references
//	}
package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrReferenceNotFound indicates a $ref whose target does not exist.
	ErrReferenceNotFound = errors.New("reference not found")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrCycleDepthExceeded indicates dereferencing kept finding new
	// references past the pass cap.
	ErrCycleDepthExceeded = errors.New("reference cycle depth exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrStorage indicates a storage failure.
	ErrStorage = errors.New("storage error")

	// ErrNotFound indicates a stored item does not exist.
	ErrNotFound = errors.New("not found")
)

// ResourceTypeDerefPasses is the ResourceLimitError.ResourceType reported
// when the dereference pass cap is exceeded.
const ResourceTypeDerefPasses = "deref_passes"

// ParseError represents a failure to parse a document.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReferenceError represents a failure to resolve a $ref.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// Path is the JSON Pointer of the reference node in the document
	Path string
	// RefType indicates the resolution root: "local" or "component"
	RefType string
	// IsMissing is true if the target does not exist or the pointer is malformed
	IsMissing bool
	// IsCircular is true if this error is due to a circular reference
	IsCircular bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	switch {
	case e.IsCircular:
		msg = "circular reference"
	case e.IsMissing:
		msg = "reference not found"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also ErrReferenceNotFound or ErrCircularReference
// when the matching flag is set.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	if target == ErrReferenceNotFound && e.IsMissing {
		return true
	}
	if target == ErrCircularReference && e.IsCircular {
		return true
	}
	return false
}

// ResourceLimitError represents a resource exhaustion condition.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "deref_passes", "nesting_depth", "file_size"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ResourceLimitError has no underlying cause.
func (e *ResourceLimitError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
// The pass cap additionally matches ErrCycleDepthExceeded.
func (e *ResourceLimitError) Is(target error) bool {
	if target == ErrResourceLimit {
		return true
	}
	return target == ErrCycleDepthExceeded && e.ResourceType == ResourceTypeDerefPasses
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// StorageError represents a failure in the schema or apidoc store.
type StorageError struct {
	// Op is the store operation: "save", "fetch", "list", "history"
	Op string
	// Module is the module directory involved
	Module string
	// ID is the stored item identifier, if any
	ID string
	// IsNotFound is true when the requested item does not exist
	IsNotFound bool
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *StorageError) Error() string {
	msg := "storage error"
	if e.Op != "" {
		msg += " during " + e.Op
	}
	if e.Module != "" {
		msg += " in module " + e.Module
	}
	if e.ID != "" {
		msg += " for " + e.ID
	}
	if e.IsNotFound {
		msg += ": not found"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *StorageError) Is(target error) bool {
	if target == ErrStorage {
		return true
	}
	return target == ErrNotFound && e.IsNotFound
}
