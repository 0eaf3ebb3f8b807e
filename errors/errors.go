// Package errors defines the diagnostic protocol of the code generator:
// error codes, severities, the sink that receives reports, and the error
// types raised by type coercion and storage allocation.
package errors

import (
	"fmt"
	"strings"
)

// FatalError is an interface for errors that may or may not be fatal.
type FatalError interface {
	Error() string
	IsFatal() bool
}

// FriendlyError is an interface for errors that have a human friendly
// message in addition to the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// CompileError is an error raised while generating a class or method.
type CompileError struct {
	Code        ErrorCode
	Message     string
	Class       string
	Method      string
	Suggestions []Suggestion
	Note        string
	Fatal       bool
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("compile error: ")
	b.WriteString(e.Message)
	if loc := e.location(); loc != "" {
		b.WriteString("\n\nlocation: ")
		b.WriteString(loc)
	}
	return b.String()
}

func (e *CompileError) location() string {
	switch {
	case e.Class != "" && e.Method != "":
		return e.Class + "." + e.Method
	case e.Method != "":
		return e.Method
	default:
		return e.Class
	}
}

// IsFatal returns whether the error aborts the current unit.
func (e *CompileError) IsFatal() bool {
	return e.Fatal
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *CompileError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	return &FormattedError{
		Code:     e.Code,
		Kind:     "compile error",
		Message:  e.Message,
		Location: e.location(),
		Hint:     FormatSuggestions(e.Suggestions),
		Note:     e.Note,
	}
}

// WithLocation returns the error annotated with the class and method that
// were being generated.
func (e *CompileError) WithLocation(class, method string) *CompileError {
	e.Class = class
	e.Method = method
	return e
}

// NewCompileError creates a CompileError whose message is derived from the
// description template of the code.
func NewCompileError(code ErrorCode, args ...any) *CompileError {
	return &CompileError{Code: code, Message: code.Format(args...)}
}

// CompileErrorf creates a CompileError with a custom message.
func CompileErrorf(code ErrorCode, format string, args ...any) *CompileError {
	return &CompileError{Code: code, Message: fmt.Sprintf(format, args...)}
}
