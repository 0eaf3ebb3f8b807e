package types

import (
	"testing"

	"github.com/deepnoodle-ai/xsltc/abi"
	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/deepnoodle-ai/xsltc/op"
	"github.com/deepnoodle-ai/xsltc/vm"
	"github.com/stretchr/testify/require"
)

func TestExternalNames(t *testing.T) {
	require.Equal(t, ExternalString, External("string").Name())
	require.Equal(t, ExternalNodeList, External("nodelist").Name())
	require.Equal(t, "java.util.Date", External("java/util/Date").Name())
	require.Equal(t, "J", External("long").Signature())
	require.Equal(t, "Lorg/w3c/dom/Node;", External("node").Signature())
	require.True(t, External("boolean").IsPrimitive())
	require.False(t, External("object").IsPrimitive())
}

func TestExternalDistances(t *testing.T) {
	tests := []struct {
		typ  Type
		ext  string
		to   int
		from int
	}{
		{Int, "int", 0, 0},
		{Real, "int", 1, 1},
		{Int, "long", 1, 1},
		{Real, "double", 0, 0},
		{Boolean, "boolean", 0, 0},
		{Boolean, "long", Infinite, Infinite},
		{String, "string", 0, 0},
		{Int, "string", 3, 3},
		{Reference, "object", 0, 0},
		{Int, "object", 2, 5},
		{Real, "object", 2, 5},
		{AnyNode, "node", 0, Infinite},
		{NodeSet, "node", 1, 0},
		{NodeSet, "nodelist", 0, 0},
		{Object("java.util.Date"), "java.util.Date", 0, 0},
		{Object("java.util.Date"), "java.util.List", 1, 1},
		{Reference, "java.util.Date", 1, 1},
		{Void, "void", Infinite, 0},
		{Void, "object", Infinite, Infinite},
		{Method(Int), "int", Infinite, Infinite},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String()+"/"+tt.ext, func(t *testing.T) {
			require.Equal(t, tt.to, DistanceToExternal(tt.typ, External(tt.ext)), "to")
			require.Equal(t, tt.from, DistanceFromExternal(External(tt.ext), tt.typ), "from")
		})
	}
}

func TestExternalDistanceMatchesTranslate(t *testing.T) {
	exts := []string{"int", "long", "double", "boolean", "void", "string",
		"object", "node", "nodelist", "java.util.Date"}
	for _, typ := range representative() {
		for _, name := range exts {
			ext := External(name)
			t.Run(typ.String()+"/"+name, func(t *testing.T) {
				g := newTestGen()
				err := TranslateToExternal(g, typ, ext)
				require.Equal(t, DistanceToExternal(typ, ext) != Infinite, err == nil)

				g = newTestGen()
				err = TranslateFromExternal(g, ext, typ)
				require.Equal(t, DistanceFromExternal(ext, typ) != Infinite, err == nil)
			})
		}
	}
}

func toExternalResult(t *testing.T, typ Type, ext string, input any) any {
	t.Helper()
	g := newTestGen()
	g.il.Append(loadOp(typ), inputSlot)
	require.NoError(t, TranslateToExternal(g, typ, External(ext)))
	return execute(t, g, External(ext).Signature(), testDocument(), input)
}

func TestTranslateToExternal(t *testing.T) {
	require.Equal(t, int64(5), toExternalResult(t, Int, "long", int32(5)))
	require.Equal(t, int64(-2), toExternalResult(t, Real, "long", -2.5))
	require.Equal(t, int32(3), toExternalResult(t, Real, "int", 3.7))
	require.Equal(t, 4.0, toExternalResult(t, Int, "double", int32(4)))
	require.Equal(t, "hello", toExternalResult(t, AnyNode, "string", int32(5)))
	require.Equal(t, "true", toExternalResult(t, Boolean, "string", int32(1)))

	boxed := toExternalResult(t, Int, "object", int32(8)).(*vm.Object)
	require.Equal(t, abi.Integer, boxed.Class)

	node := toExternalResult(t, AnyNode, "node", int32(3)).(*vm.Object)
	require.Equal(t, abi.W3CNode, node.Class)
	require.Equal(t, int32(3), node.Fields["node"])

	list := toExternalResult(t, NodeSet, "nodelist", vm.NewIterator(3, 5)).(*vm.Object)
	require.Equal(t, abi.W3CNodeList, list.Class)
	require.Equal(t, []int32{3, 5}, list.Fields["nodes"])
}

func fromExternalResult(t *testing.T, ext string, typ Type, input any) any {
	t.Helper()
	g := newTestGen()
	sig := External(ext).Signature()
	switch sig {
	case "J":
		g.il.Append(op.LLoad, inputSlot)
	case "D":
		g.il.Append(op.DLoad, inputSlot)
	case "I", "Z":
		g.il.Append(op.ILoad, inputSlot)
	default:
		g.il.Append(op.ALoad, inputSlot)
	}
	require.NoError(t, TranslateFromExternal(g, External(ext), typ))
	return execute(t, g, typ.Signature(), testDocument(), input)
}

func TestTranslateFromExternal(t *testing.T) {
	require.Equal(t, int32(9), fromExternalResult(t, "long", Int, int64(9)))
	require.Equal(t, 9.0, fromExternalResult(t, "long", Real, int64(9)))
	require.Equal(t, 2.0, fromExternalResult(t, "int", Real, int32(2)))
	require.Equal(t, int32(2), fromExternalResult(t, "double", Int, 2.5))
	require.Equal(t, 1.5, fromExternalResult(t, "string", Real, "1.5"))
	require.Equal(t, 6.0, fromExternalResult(t, "object", Real, boxedInt(6)))

	w3cNode := vm.NewObject(abi.W3CNode)
	w3cNode.Fields["node"] = int32(5)
	it := fromExternalResult(t, "node", NodeSet, w3cNode).(*vm.Iterator)
	require.Equal(t, int32(5), it.Next())
}

func TestExternalConversionErrors(t *testing.T) {
	g := newTestGen()
	err := TranslateToExternal(g, Boolean, External("long"))
	var convErr *errors.ConversionError
	require.ErrorAs(t, err, &convErr)
	require.Equal(t, errors.E4002, convErr.Code())
	require.Equal(t, "java.util.Date", External("java.util.Date").String())

	err = TranslateFromExternal(g, External("boolean"), NodeSet)
	require.ErrorAs(t, err, &convErr)
	require.Equal(t, errors.E4003, convErr.Code())
	require.Equal(t, "boolean", convErr.External)

	require.Equal(t, 2, g.ErrorCount())
	require.Equal(t, errors.E4002, g.Diagnostics()[0].Code)
	require.Equal(t, 0, g.il.Len())
}
