package errors

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Severity is the severity of a reported diagnostic.
type Severity int

const (
	// Warning diagnostics never stop generation.
	Warning Severity = iota
	// Recoverable diagnostics fail the current unit only; other units may
	// still be generated.
	Recoverable
	// Fatal diagnostics abort the current unit immediately.
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Recoverable:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Sink receives diagnostics reported during generation. Message text is
// derived from the code and arguments by the sink, not by the reporter.
type Sink interface {
	ReportError(severity Severity, code ErrorCode, args ...any)
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Severity Severity
	Code     ErrorCode
	Args     []any
}

// Message renders the diagnostic's message from its code template.
func (d *Diagnostic) Message() string {
	return d.Code.Format(d.Args...)
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s[%s]: %s", d.Severity, d.Code, d.Message())
}

// IsFatal returns true for fatal diagnostics.
func (d *Diagnostic) IsFatal() bool {
	return d.Severity == Fatal
}

// ToFormatted converts to the FormattedError type for display.
func (d *Diagnostic) ToFormatted() *FormattedError {
	return &FormattedError{
		Code:    d.Code,
		Kind:    d.Severity.String(),
		Message: d.Message(),
	}
}

// Bag is a Sink that collects diagnostics in report order.
type Bag struct {
	diagnostics []*Diagnostic
	errorCount  int
	warnCount   int
	fatal       bool
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{}
}

// ReportError implements Sink.
func (b *Bag) ReportError(severity Severity, code ErrorCode, args ...any) {
	d := &Diagnostic{Severity: severity, Code: code, Args: args}
	b.diagnostics = append(b.diagnostics, d)
	switch severity {
	case Warning:
		b.warnCount++
	case Fatal:
		b.fatal = true
		b.errorCount++
	default:
		b.errorCount++
	}
}

// HasErrors returns true if any non-warning diagnostic was reported.
func (b *Bag) HasErrors() bool {
	return b.errorCount > 0
}

// ErrorCount returns the number of non-warning diagnostics.
func (b *Bag) ErrorCount() int {
	return b.errorCount
}

// WarningCount returns the number of warnings.
func (b *Bag) WarningCount() int {
	return b.warnCount
}

// Fatal returns true if a fatal diagnostic was reported.
func (b *Bag) Fatal() bool {
	return b.fatal
}

// Diagnostics returns a copy of all diagnostics.
func (b *Bag) Diagnostics() []*Diagnostic {
	out := make([]*Diagnostic, len(b.diagnostics))
	copy(out, b.diagnostics)
	return out
}

// Mark returns a position that can later be passed to ErrSince to check
// for errors reported by a single unit.
func (b *Bag) Mark() int {
	return len(b.diagnostics)
}

// ErrSince aggregates the non-warning diagnostics reported after mark.
// It returns nil if there are none.
func (b *Bag) ErrSince(mark int) error {
	var result *multierror.Error
	if mark < 0 {
		mark = 0
	}
	for _, d := range b.diagnostics[min(mark, len(b.diagnostics)):] {
		if d.Severity == Warning {
			continue
		}
		result = multierror.Append(result, d)
	}
	return result.ErrorOrNil()
}

// Err aggregates all non-warning diagnostics into a single error, or
// returns nil if there are none.
func (b *Bag) Err() error {
	return b.ErrSince(0)
}

// Discard is a Sink that drops every diagnostic.
var Discard Sink = discard{}

type discard struct{}

func (discard) ReportError(Severity, ErrorCode, ...any) {}
