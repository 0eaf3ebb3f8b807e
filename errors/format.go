package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders diagnostics for a terminal, optionally in color.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

var (
	colorError    = color.New(color.FgRed)
	colorErrorHi  = color.New(color.FgHiRed, color.Bold)
	colorWarning  = color.New(color.FgHiYellow, color.Bold)
	colorCode     = color.New(color.FgHiBlack)
	colorLocation = color.New(color.FgCyan)
	colorPipe     = color.New(color.FgHiBlack)
	colorHint     = color.New(color.FgHiYellow)
	colorNote     = color.New(color.FgHiBlue)
)

// FormattedError is a diagnostic ready for display.
type FormattedError struct {
	Code     ErrorCode
	Kind     string // "error", "warning", "compile error", ...
	Message  string
	Location string // Class.method being generated, if known
	Hint     string
	Note     string
}

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

// Format formats a single error.
func (f *Formatter) Format(err *FormattedError) string {
	return f.FormatWithPrefix(err, "")
}

// FormatWithPrefix formats the error with an optional prefix like "1/5"
// that is shown when the error has no code.
func (f *Formatter) FormatWithPrefix(err *FormattedError, prefix string) string {
	var b strings.Builder

	label := "error"
	if err.Kind != "" {
		label = err.Kind
	}
	if label == "warning" {
		b.WriteString(f.paint(colorWarning, label))
	} else {
		b.WriteString(f.paint(colorErrorHi, label))
	}
	switch {
	case err.Code != "":
		b.WriteString(f.paint(colorCode, fmt.Sprintf("[%s]", err.Code)))
	case prefix != "":
		b.WriteString(f.paint(colorCode, fmt.Sprintf("[%s]", prefix)))
	}
	b.WriteString(f.paint(colorError, ": "))
	b.WriteString(err.Message)
	b.WriteString("\n")

	if err.Location != "" {
		b.WriteString("  ")
		b.WriteString(f.paint(colorLocation, "--> "+err.Location))
		b.WriteString("\n")
	}
	if err.Hint != "" {
		b.WriteString(f.paint(colorPipe, "   = "))
		b.WriteString(f.paint(colorHint, "hint: "))
		b.WriteString(err.Hint)
		b.WriteString("\n")
	}
	if err.Note != "" {
		b.WriteString(f.paint(colorPipe, "   = "))
		b.WriteString(f.paint(colorNote, "note: "))
		b.WriteString(err.Note)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatMultiple formats multiple errors with consistent styling.
func (f *Formatter) FormatMultiple(errs []*FormattedError) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return f.Format(errs[0])
	}

	var b strings.Builder
	total := len(errs)
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.FormatWithPrefix(err, fmt.Sprintf("%d/%d", i+1, total)))
	}
	b.WriteString("\n")
	b.WriteString(f.paint(colorErrorHi, fmt.Sprintf("found %d errors", total)))
	b.WriteString("\n")
	return b.String()
}

// FormatBag formats every diagnostic collected in the bag.
func (f *Formatter) FormatBag(bag *Bag) string {
	diags := bag.Diagnostics()
	errs := make([]*FormattedError, 0, len(diags))
	for _, d := range diags {
		errs = append(errs, d.ToFormatted())
	}
	return f.FormatMultiple(errs)
}
