package types

import (
	"testing"

	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/stretchr/testify/require"
)

// representative returns one instance of every value type, including
// several node kinds and object classes.
func representative() []Type {
	return []Type{
		Int, Real, Boolean, String, NodeSet,
		AnyNode, Node(NodeElement), Node(NodeAttribute),
		ResultTree, Reference,
		Object("java.util.Date"), Object("java.lang.String"),
		Void,
	}
}

func TestIdentityDistance(t *testing.T) {
	for _, typ := range append(representative(), Method(Int, Real)) {
		require.Equal(t, 0, DistanceTo(typ, typ), typ.String())
	}
}

func TestDistances(t *testing.T) {
	tests := []struct {
		from, to Type
		want     int
	}{
		{Int, Real, 1},
		{Real, Int, 1},
		{Int, Boolean, Infinite},
		{Int, NodeSet, Infinite},
		{Int, String, 2},
		{Int, Reference, 4},
		{Reference, Int, 5},
		{NodeSet, Boolean, 2},
		{NodeSet, String, 2},
		{NodeSet, AnyNode, 2},
		{NodeSet, Node(NodeElement), Infinite},
		{Reference, Node(NodeElement), Infinite},
		{String, Node(NodeText), Infinite},
		{Object("a.B"), Node(NodeAttribute), Infinite},
		{NodeSet, Real, 3},
		{AnyNode, NodeSet, 2},
		{Node(NodeElement), AnyNode, 1},
		{AnyNode, Node(NodeElement), Infinite},
		{Node(NodeElement), Node(NodeText), Infinite},
		{ResultTree, NodeSet, 3},
		{Boolean, NodeSet, Infinite},
		{String, NodeSet, Infinite},
		{Void, String, 2},
		{Void, Int, Infinite},
		{Object("a.B"), Object("a.C"), 2},
		{Reference, Object("a.B"), 5},
		{Int, Method(Int), Infinite},
		{Method(Int), Int, Infinite},
		{nil, Int, Infinite},
	}
	for _, tt := range tests {
		name := typeName(tt.from) + "->" + typeName(tt.to)
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tt.want, DistanceTo(tt.from, tt.to))
		})
	}
}

func TestDistanceMatchesTranslate(t *testing.T) {
	for _, from := range representative() {
		for _, to := range representative() {
			name := from.String() + "->" + to.String()
			t.Run(name, func(t *testing.T) {
				g := newTestGen()
				err := TranslateTo(g, from, to)
				if DistanceTo(from, to) == Infinite {
					require.Error(t, err)
					var convErr *errors.ConversionError
					require.ErrorAs(t, err, &convErr)
					require.Equal(t, from.String(), convErr.From)
					require.Equal(t, to.String(), convErr.To)
					require.Equal(t, 0, g.il.Len(), "nothing is emitted on failure")
					require.True(t, g.HasErrors())
					require.Equal(t, errors.Recoverable, g.Diagnostics()[0].Severity)
				} else {
					require.NoError(t, err)
					require.False(t, g.HasErrors())
					require.Empty(t, g.il.Unresolved())
					require.Equal(t, 0, g.live)
				}
			})
		}
	}

	// Method types are exempt: overloads have a distance but are never
	// converted into one another.
	call, candidate := Method(Void, Int), Method(Void, Real)
	require.Equal(t, 1, DistanceTo(call, candidate))
	g := newTestGen()
	require.Error(t, TranslateTo(g, call, candidate))
	require.Equal(t, 0, g.il.Len())
}

func TestNarrowingToNodeKind(t *testing.T) {
	for _, from := range []Type{NodeSet, Reference, AnyNode, Node(NodeText), String, ResultTree} {
		t.Run(from.String(), func(t *testing.T) {
			g := newTestGen()
			require.Equal(t, Infinite, DistanceTo(from, Node(NodeElement)))
			require.Error(t, TranslateTo(g, from, Node(NodeElement)))
			require.Equal(t, 0, g.il.Len())
		})
	}
	call := Method(Void, NodeSet)
	_, err := Resolve(call, []*MethodType{Method(Void, Node(NodeElement))}, FirstDeclared)
	require.Error(t, err)
	res, err := Resolve(call, []*MethodType{Method(Void, Node(NodeElement)), Method(Void, AnyNode)}, FirstDeclared)
	require.NoError(t, err)
	require.Equal(t, 1, res.Index)
}

func TestMethodTypesAreNotValues(t *testing.T) {
	g := newTestGen()
	require.NoError(t, TranslateTo(g, Method(Int, Real), Method(Int, Real)))
	require.Error(t, TranslateTo(g, Method(Int, Int), Method(Int, Real)))
	require.Error(t, TranslateTo(g, Int, Method(Int)))
	require.Error(t, TranslateTo(g, nil, Int))
	require.Equal(t, 0, g.il.Len())
}

func TestMethodDistance(t *testing.T) {
	tests := []struct {
		name     string
		from, to *MethodType
		want     int
	}{
		{"zero args", Method(Int), Method(String), 0},
		{"arity mismatch", Method(Int, Int), Method(Int, Int, Int), Infinite},
		{"infinite argument", Method(Int, Int, Boolean), Method(Int, Int, NodeSet), Infinite},
		{"sum", Method(Int, Int, NodeSet), Method(Int, Real, String), 3},
		{"identical", Method(Int, Int, Real), Method(Int, Int, Real), 0},
		{"results ignored", Method(Int, Int), Method(Boolean, Int), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, DistanceTo(tt.from, tt.to))
		})
	}
}

func TestRules(t *testing.T) {
	all := Rules()
	require.NotEmpty(t, all)
	for i, r := range all {
		require.NotNil(t, r.emit, "%s -> %s", r.From, r.To)
		require.NotEmpty(t, r.Via)
		require.GreaterOrEqual(t, r.Distance, distWiden)
		require.LessOrEqual(t, r.Distance, distReference)
		if i > 0 {
			prev := all[i-1]
			require.True(t, prev.From < r.From || (prev.From == r.From && prev.To < r.To))
		}
	}
	r, ok := LookupRule(KindInt, KindReal)
	require.True(t, ok)
	require.Equal(t, 1, r.Distance)
	require.Equal(t, "I2D", r.Via)
	_, ok = LookupRule(KindInt, KindBoolean)
	require.False(t, ok)
}

func TestIntoReferenceAndOutOfReference(t *testing.T) {
	for _, r := range Rules() {
		if r.To == KindReference {
			require.Equal(t, distBox, r.Distance, r.From.String())
		}
		if r.From == KindReference {
			require.Equal(t, distReference, r.Distance, r.To.String())
		}
	}
}

func TestDesynthesizedMatchesDistance(t *testing.T) {
	for _, from := range representative() {
		t.Run(from.String(), func(t *testing.T) {
			g := newTestGen()
			list, err := TranslateToDesynthesized(g, from)
			if DistanceTo(from, Boolean) == Infinite {
				require.Error(t, err)
				require.Nil(t, list)
				require.Equal(t, 0, g.il.Len())
				return
			}
			require.NoError(t, err)
			require.Len(t, g.il.Unresolved(), list.Len())
			require.Equal(t, 0, g.live)
		})
	}
}
