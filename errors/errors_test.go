package errors

import (
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func TestCompileError(t *testing.T) {
	err := NewCompileError(E5005, "predicate", "output sink").WithLocation("Translet", "test")
	require.Equal(t, "predicate unit has no output sink", err.Message)
	require.Equal(t, "compile error: predicate unit has no output sink\n\nlocation: Translet.test", err.Error())
	require.False(t, err.IsFatal())

	formatted := err.ToFormatted()
	require.Equal(t, E5005, formatted.Code)
	require.Equal(t, "Translet.test", formatted.Location)
}

func TestCompileErrorNoLocation(t *testing.T) {
	err := CompileErrorf(E5003, "dangling branch %d", 4)
	require.Equal(t, "compile error: dangling branch 4", err.Error())
}

func TestCodes(t *testing.T) {
	for _, code := range AllCodes() {
		t.Run(code.String(), func(t *testing.T) {
			require.NotEqual(t, "unknown error", code.Description())
			require.NotEqual(t, "unknown", code.Category())
			_, ok := codeTemplates[code]
			require.True(t, ok)
		})
	}
	require.Equal(t, "coercion", E4001.Category())
	require.Equal(t, "context", E5010.Category())
	require.Equal(t, "unknown error", ErrorCode("E9999").Description())
	require.Equal(t, "unknown error: [1]", ErrorCode("E9999").Format(1))
}

func TestBag(t *testing.T) {
	bag := NewBag()
	require.NoError(t, bag.Err())

	bag.ReportError(Warning, E4005, "f(I)", "a, b")
	require.NoError(t, bag.Err())
	require.Equal(t, 1, bag.WarningCount())
	require.False(t, bag.HasErrors())

	mark := bag.Mark()
	bag.ReportError(Recoverable, E4001, "int", "node-set")
	bag.ReportError(Recoverable, E4002, "string", "java.util.Date")
	require.True(t, bag.HasErrors())
	require.False(t, bag.Fatal())
	require.Equal(t, 2, bag.ErrorCount())

	err := bag.ErrSince(mark)
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	require.Len(t, merr.Errors, 2)
	require.Contains(t, err.Error(), "cannot convert int to node-set")

	require.NoError(t, bag.ErrSince(bag.Mark()))

	bag.ReportError(Fatal, E5004, 3, -1)
	require.True(t, bag.Fatal())
	require.Len(t, bag.Diagnostics(), 4)
}

func TestDiagnostic(t *testing.T) {
	d := &Diagnostic{Severity: Recoverable, Code: E4001, Args: []any{"real", "node"}}
	require.Equal(t, "error[E4001]: cannot convert real to node", d.Error())
	require.False(t, d.IsFatal())
	require.Equal(t, "fatal", Fatal.String())
	require.Equal(t, "warning", Warning.String())
}

func TestDiscard(t *testing.T) {
	require.NotPanics(t, func() {
		Discard.ReportError(Fatal, E5010, "m")
	})
}

func TestConversionError(t *testing.T) {
	tests := []struct {
		name string
		err  *ConversionError
		code ErrorCode
		msg  string
	}{
		{
			name: "lattice",
			err:  &ConversionError{From: "boolean", To: "node-set"},
			code: E4001,
			msg:  "data conversion error: cannot convert boolean to node-set",
		},
		{
			name: "to external",
			err:  &ConversionError{From: "node-set", External: "java.util.Date"},
			code: E4002,
			msg:  "data conversion error: cannot convert node-set to external type java.util.Date",
		},
		{
			name: "from external",
			err:  &ConversionError{To: "node", External: "java.util.Date", FromExternal: true},
			code: E4003,
			msg:  "data conversion error: cannot convert external type java.util.Date to node",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.code, tt.err.Code())
			require.Equal(t, tt.msg, tt.err.Error())
			require.False(t, tt.err.IsFatal())

			bag := NewBag()
			tt.err.Report(bag)
			require.Len(t, bag.Diagnostics(), 1)
			require.Equal(t, tt.code, bag.Diagnostics()[0].Code)
			require.Equal(t, Recoverable, bag.Diagnostics()[0].Severity)
		})
	}
}

func TestSlotAllocationError(t *testing.T) {
	err := &SlotAllocationError{Base: 6, Size: 2}
	require.True(t, err.IsFatal())
	require.Equal(t, "slot allocation error: slot range 6 (size 2) is not allocated", err.Error())
}

func TestAmbiguousOverloadError(t *testing.T) {
	err := &AmbiguousOverloadError{Call: "f(I)", Candidates: []string{"f(D)", "f(Ljava/lang/String;)"}, Distance: 2}
	require.Equal(t, "ambiguous overload error: ambiguous call f(I): f(D), f(Ljava/lang/String;) (distance 2)", err.Error())
}

func TestFormatter(t *testing.T) {
	f := NewFormatter(false)
	out := f.Format(&FormattedError{
		Code:     E4006,
		Kind:     "compile error",
		Message:  `unknown type "nodeset"`,
		Location: "Translet.template0",
		Hint:     "Did you mean 'node-set'?",
		Note:     "types are named as in signatures",
	})
	require.Equal(t, strings.Join([]string{
		`compile error[E4006]: unknown type "nodeset"`,
		"  --> Translet.template0",
		"   = hint: Did you mean 'node-set'?",
		"   = note: types are named as in signatures",
		"",
	}, "\n"), out)
}

func TestFormatterColor(t *testing.T) {
	f := NewFormatter(true)
	out := f.Format(&FormattedError{Kind: "warning", Message: "tie"})
	require.Contains(t, out, "\x1b[")
	require.Contains(t, out, "tie")
}

func TestFormatMultiple(t *testing.T) {
	bag := NewBag()
	bag.ReportError(Warning, E4005, "f", "a, b")
	bag.ReportError(Recoverable, E4001, "int", "node")
	out := NewFormatter(false).FormatBag(bag)
	require.Contains(t, out, "warning[E4005]: ambiguous call f: a, b")
	require.Contains(t, out, "error[E4001]: cannot convert int to node")
	require.Contains(t, out, "found 2 errors")
	require.Equal(t, "", NewFormatter(false).FormatMultiple(nil))
}

func TestSuggestSimilar(t *testing.T) {
	candidates := []string{"int", "real", "boolean", "string", "node-set", "node", "result-tree", "reference", "void"}
	s := SuggestSimilar("nodeset", candidates)
	require.NotEmpty(t, s)
	require.Equal(t, "node-set", s[0].Value)
	require.Len(t, s, 1)
	require.Equal(t, []Suggestion{{Value: "real", Distance: 1}}, SuggestSimilar("rea", candidates))
	require.Equal(t, "Did you mean 'node-set'?", FormatSuggestions(s[:1]))
	require.Empty(t, SuggestSimilar("", candidates))
	require.Empty(t, SuggestSimilar("zzzzzzzzz", candidates))
	require.Equal(t, "", FormatSuggestions(nil))
	require.Equal(t, "Did you mean one of: 'a', 'b'?",
		FormatSuggestions([]Suggestion{{Value: "a"}, {Value: "b"}}))
}

func TestLevenshtein(t *testing.T) {
	require.Equal(t, 0, levenshteinDistance("real", "real"))
	require.Equal(t, 3, levenshteinDistance("", "int"))
	require.Equal(t, 1, levenshteinDistance("nodeset", "node-set"))
	require.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}
