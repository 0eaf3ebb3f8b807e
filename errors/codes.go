package errors

import "fmt"

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E4xxx: Type coercion errors
//   - E5xxx: Generation context errors
type ErrorCode string

const (
	// Type coercion errors (E4xxx)
	E4001 ErrorCode = "E4001" // Data conversion between lattice types
	E4002 ErrorCode = "E4002" // Data conversion to an external type
	E4003 ErrorCode = "E4003" // Data conversion from an external type
	E4004 ErrorCode = "E4004" // No applicable overload
	E4005 ErrorCode = "E4005" // Ambiguous overload
	E4006 ErrorCode = "E4006" // Unknown type name

	// Generation context errors (E5xxx)
	E5001 ErrorCode = "E5001" // Slot range not allocated
	E5002 ErrorCode = "E5002" // Method already committed
	E5003 ErrorCode = "E5003" // Unresolved branch
	E5004 ErrorCode = "E5004" // Invalid stack depth
	E5005 ErrorCode = "E5005" // Value not available in unit kind
	E5006 ErrorCode = "E5006" // Unit kind not allowed in class
	E5007 ErrorCode = "E5007" // Duplicate local variable
	E5008 ErrorCode = "E5008" // Unknown local variable
	E5009 ErrorCode = "E5009" // Branch target out of range
	E5010 ErrorCode = "E5010" // Unit aborted by fatal diagnostic
	E5011 ErrorCode = "E5011" // Invalid local variable type
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E4001: "data conversion",
	E4002: "conversion to external type",
	E4003: "conversion from external type",
	E4004: "no applicable overload",
	E4005: "ambiguous overload",
	E4006: "unknown type",

	E5001: "slot not allocated",
	E5002: "method already committed",
	E5003: "unresolved branch",
	E5004: "invalid stack depth",
	E5005: "value not available",
	E5006: "unit kind not allowed",
	E5007: "duplicate local variable",
	E5008: "unknown local variable",
	E5009: "branch target out of range",
	E5010: "unit aborted",
	E5011: "invalid local type",
}

// codeTemplates are the message templates used to render the arguments of
// a reported diagnostic.
var codeTemplates = map[ErrorCode]string{
	E4001: "cannot convert %v to %v",
	E4002: "cannot convert %v to external type %v",
	E4003: "cannot convert external type %v to %v",
	E4004: "no applicable overload for %v",
	E4005: "ambiguous call %v: %v",
	E4006: "unknown type %q",

	E5001: "slot range %v (size %v) is not allocated",
	E5002: "method %v has already been committed",
	E5003: "branch at %v has no target",
	E5004: "invalid stack depth at %v: %v",
	E5005: "%v unit has no %v",
	E5006: "%v unit cannot be generated in %v class",
	E5007: "local variable %q already defined",
	E5008: "local variable %q is not defined",
	E5009: "branch at %v targets %v outside the method",
	E5010: "method %v was aborted by a fatal diagnostic",
	E5011: "local variable %q cannot hold a value of type %v",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Format renders a message for the code from the given arguments.
func (c ErrorCode) Format(args ...any) string {
	tmpl, ok := codeTemplates[c]
	if !ok {
		if len(args) == 0 {
			return c.Description()
		}
		return fmt.Sprintf("%s: %v", c.Description(), args)
	}
	return fmt.Sprintf(tmpl, args...)
}

// AllCodes returns all defined error codes.
func AllCodes() []ErrorCode {
	return []ErrorCode{
		E4001, E4002, E4003, E4004, E4005, E4006,
		E5001, E5002, E5003, E5004, E5005, E5006, E5007, E5008, E5009, E5010, E5011,
	}
}

// Category returns the category of the error code.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '4':
		return "coercion"
	case '5':
		return "context"
	default:
		return "unknown"
	}
}
