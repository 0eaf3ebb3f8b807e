package types

import (
	"testing"

	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/stretchr/testify/require"
)

func TestResolveLeastDistance(t *testing.T) {
	call := Method(Void, Int, NodeSet)
	candidates := []*MethodType{
		Method(Void, Boolean, Boolean), // int -> boolean is infinite
		Method(Void, String, String),   // 2 + 2
		Method(Void, Real, String),     // 1 + 2
		Method(Void, Real, Reference),  // 1 + 4
	}
	res, err := Resolve(call, candidates, FirstDeclared)
	require.NoError(t, err)
	require.Equal(t, 2, res.Index)
	require.Same(t, candidates[2], res.Method)
	require.Equal(t, 3, res.Distance)
	require.False(t, res.Ambiguous())
}

func TestResolveTieFirstDeclared(t *testing.T) {
	call := Method(Void, Int)
	candidates := []*MethodType{
		Method(Void, String), // 2
		Method(Void, Real),   // 1
		Method(Int, Real),    // 1, result types do not count
	}
	res, err := Resolve(call, candidates, FirstDeclared)
	require.NoError(t, err)
	require.Equal(t, 1, res.Index)
	require.True(t, res.Ambiguous())
	require.Equal(t, []int{1, 2}, res.Ties)

	// The policy is stable under repetition.
	for i := 0; i < 10; i++ {
		again, err := Resolve(call, candidates, FirstDeclared)
		require.NoError(t, err)
		require.Equal(t, res, again)
	}
}

func TestResolveTieStrict(t *testing.T) {
	call := Method(Void, Int)
	candidates := []*MethodType{Method(Void, Real), Method(Boolean, Real)}
	res, err := Resolve(call, candidates, StrictTies)
	require.Error(t, err)
	var ambiguous *errors.AmbiguousOverloadError
	require.ErrorAs(t, err, &ambiguous)
	require.Equal(t, 1, ambiguous.Distance)
	require.Len(t, ambiguous.Candidates, 2)
	require.Equal(t, "(int) -> void", ambiguous.Call)
	require.Equal(t, 0, res.Index)
}

func TestResolveStrictWithoutTie(t *testing.T) {
	res, err := Resolve(Method(Void, Int), []*MethodType{Method(Void, Int), Method(Void, Real)}, StrictTies)
	require.NoError(t, err)
	require.Equal(t, 0, res.Index)
	require.Equal(t, 0, res.Distance)
}

func TestResolveNoCandidate(t *testing.T) {
	call := Method(Void, Int, Int)
	candidates := []*MethodType{
		Method(Void, Int),
		Method(Void, NodeSet, Int),
		nil,
	}
	res, err := Resolve(call, candidates, FirstDeclared)
	require.Error(t, err)
	var compileErr *errors.CompileError
	require.ErrorAs(t, err, &compileErr)
	require.Equal(t, errors.E4004, compileErr.Code)
	require.Equal(t, -1, res.Index)
	require.Equal(t, Infinite, res.Distance)

	_, err = Resolve(call, nil, FirstDeclared)
	require.Error(t, err)
}

func TestTiePolicyString(t *testing.T) {
	require.Equal(t, "first-declared", FirstDeclared.String())
	require.Equal(t, "strict", StrictTies.String())
	require.Equal(t, "unknown", TiePolicy(9).String())
}
