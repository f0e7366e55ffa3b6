// Package mesaerrors provides structured error handling for mesa with rich
// context, stack traces, and error categorization. It enables consistent
// error handling patterns across the entire codebase.
//
// # Overview
//
// The mesaerrors package extends Go's standard error handling with:
//   - Error categorization through ErrorType
//   - Structured context with key-value details
//   - Automatic stack trace capture
//   - Error wrapping with cause preservation
//
// # Basic Usage
//
//	// Create a new error
//	err := mesaerrors.New(mesaerrors.ErrorTypeArgument, "delete requires at least one key")
//
//	// Add context
//	err = err.WithDetail("mode", "column").
//	         WithDetail("keys", 0)
//
//	// Wrap existing errors
//	if err := dec.Decode(line); err != nil {
//	    return mesaerrors.Wrap(err, mesaerrors.ErrorTypeFormat, "malformed record").
//	        WithDetail("line", lineNo)
//	}
//
// # Error Types
//
// The table engine distinguishes absent-value conditions, which are never
// errors, from input-contract violations, which always are. The types here
// categorize the violations (and the I/O layer's failures) for handling
// strategies and diagnostics.
//
// # Stack Traces
//
// Stack traces are automatically captured at error creation points,
// providing valuable debugging information without manual intervention.
//
// # Thread Safety
//
// Error instances are not thread-safe for modification. Create new
// instances or use WithDetail before sharing across goroutines.
package mesaerrors

import (
	"errors"
	"runtime"

	stringpool "github.com/datamesa/mesa/pkg/strings"
)

// ErrorType represents the category of error, used for error handling
// strategies and diagnostics.
type ErrorType string

const (
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents invalid operation inputs, such as an
	// unsupported value shape in an assignment
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeArgument represents argument-count contract violations
	ErrorTypeArgument ErrorType = "argument"
	// ErrorTypeType represents key or value type mismatches, such as a
	// column-name key in row mode or digging past a scalar
	ErrorTypeType ErrorType = "type"
	// ErrorTypeData represents data processing errors
	ErrorTypeData ErrorType = "data"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeFile represents file operation errors
	ErrorTypeFile ErrorType = "file"
	// ErrorTypeFormat represents encoding and decoding errors
	ErrorTypeFormat ErrorType = "format"
)

// Error represents a structured error with context, providing rich debugging
// information and enabling sophisticated error handling strategies.
//
// Fields:
//   - Type: Categorizes the error for handling strategies
//   - Message: Human-readable error description
//   - Cause: The underlying error that caused this error
//   - Details: Key-value pairs providing additional context
//   - Stack: Call stack at the point of error creation
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack, capturing
// the function name, file path, and line number for debugging.
type StackFrame struct {
	Function string // Fully qualified function name
	File     string // Source file path
	Line     int    // Line number in source file
}

// Error implements the error interface, returning a formatted error message
// that includes the error type, message, and cause (if present).
func (e *Error) Error() string {
	if e.Cause != nil {
		return stringpool.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return stringpool.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error, enabling compatibility with errors.Is
// and errors.As for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error, providing additional
// context for debugging. This method can be chained.
//
// Example:
//
//	err := mesaerrors.New(mesaerrors.ErrorTypeType, "key is not valid in row mode").
//	    WithDetail("key", key.String()).
//	    WithDetail("mode", mode)
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message, automatically
// capturing the call stack at the point of creation.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: stringpool.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context, preserving the
// original error as the cause. If the error is already a structured Error,
// its stack trace is preserved. Returns nil if the input error is nil.
//
// Example:
//
//	data, err := os.ReadFile(path)
//	if err != nil {
//	    return mesaerrors.Wrap(err, mesaerrors.ErrorTypeFile, "failed to read input").
//	        WithDetail("path", path)
//	}
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, errType ErrorType, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, errType, stringpool.Sprintf(format, args...))
	return wrapped
}

// IsType checks if the error is of the given type, useful for conditional
// logic based on error categories.
//
// Example:
//
//	if mesaerrors.IsType(err, mesaerrors.ErrorTypeArgument) {
//	    // caller violated the operation's argument contract
//	}
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// GetType returns the type of a structured error, or ErrorTypeInternal for
// errors that did not originate from this package.
func GetType(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ErrorTypeInternal
	}
	return e.Type
}

// captureStack captures the current call stack up to maxFrames deep,
// skipping the specified number of frames from the top.
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
