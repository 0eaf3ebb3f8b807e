package errors

import (
	"fmt"
	"strings"
)

// ConversionError reports that no coercion rule bridges two types, or a
// type and an external type. It is recoverable: only the unit being
// generated fails.
type ConversionError struct {
	From     string
	To       string
	External string
	// FromExternal is set when the conversion direction is from the
	// external type into the lattice.
	FromExternal bool
}

// Code returns the error code matching the direction of the conversion.
func (e *ConversionError) Code() ErrorCode {
	switch {
	case e.External == "":
		return E4001
	case e.FromExternal:
		return E4003
	default:
		return E4002
	}
}

// Args returns the diagnostic arguments for the conversion.
func (e *ConversionError) Args() []any {
	switch {
	case e.External == "":
		return []any{e.From, e.To}
	case e.FromExternal:
		return []any{e.External, e.To}
	default:
		return []any{e.From, e.External}
	}
}

func (e *ConversionError) Error() string {
	return "data conversion error: " + e.Code().Format(e.Args()...)
}

// IsFatal returns false; conversion errors are recoverable.
func (e *ConversionError) IsFatal() bool {
	return false
}

// Report sends the error to the sink as a recoverable diagnostic.
func (e *ConversionError) Report(sink Sink) {
	sink.ReportError(Recoverable, e.Code(), e.Args()...)
}

// SlotAllocationError reports a release of a slot range that is not
// currently allocated. It always indicates a defect in the caller's scope
// tracking and is raised with panic.
type SlotAllocationError struct {
	Base int
	Size int
}

func (e *SlotAllocationError) Error() string {
	return "slot allocation error: " + E5001.Format(e.Base, e.Size)
}

// IsFatal returns true.
func (e *SlotAllocationError) IsFatal() bool {
	return true
}

// AmbiguousOverloadError reports that several candidates share the least
// finite conversion distance for a call.
type AmbiguousOverloadError struct {
	Call       string
	Candidates []string
	Distance   int
}

func (e *AmbiguousOverloadError) Error() string {
	return fmt.Sprintf("ambiguous overload error: %s (distance %d)",
		E4005.Format(e.Call, strings.Join(e.Candidates, ", ")), e.Distance)
}

// IsFatal returns false; the unit fails but generation may continue.
func (e *AmbiguousOverloadError) IsFatal() bool {
	return false
}
