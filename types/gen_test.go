package types

import (
	"context"
	"testing"

	"github.com/deepnoodle-ai/xsltc/bytecode"
	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/deepnoodle-ai/xsltc/op"
	"github.com/deepnoodle-ai/xsltc/signature"
	"github.com/deepnoodle-ai/xsltc/vm"
	"github.com/stretchr/testify/require"
)

// Layout used by the test generator: slot 0 holds the document, the value
// under test starts at slot 1 and temporaries start at slot 3.
const (
	documentSlot = 0
	inputSlot    = 1
	firstTemp    = 3
)

type testGen struct {
	*errors.Bag
	il   *bytecode.List
	cp   *bytecode.ConstantPool
	next int
	live int
}

func newTestGen() *testGen {
	return &testGen{
		Bag:  errors.NewBag(),
		il:   bytecode.NewList(),
		cp:   bytecode.NewConstantPool(),
		next: firstTemp,
	}
}

func (g *testGen) Instructions() *bytecode.List    { return g.il }
func (g *testGen) Pool() *bytecode.ConstantPool    { return g.cp }
func (g *testGen) ReleaseTemp(slot, size int)      { g.live -= size }
func (g *testGen) LoadDocument() (bytecode.Sequence, error) {
	return bytecode.Seq(bytecode.Make(op.ALoad, documentSlot)), nil
}

func (g *testGen) AllocateTemp(size int) int {
	slot := g.next
	g.next += size
	g.live += size
	return slot
}

func loadOp(t Type) op.Code {
	switch signature.Width(t.Signature()) {
	case 2:
		return op.DLoad
	}
	if signature.IsReference(t.Signature()) {
		return op.ALoad
	}
	return op.ILoad
}

// execute commits the instructions of g, followed by a return of the
// given signature, and runs them with the document and input value.
func execute(t *testing.T, g *testGen, resultSig string, doc *vm.Document, input any) any {
	t.Helper()
	switch {
	case resultSig == signature.Double:
		g.il.Append(op.DReturn)
	case resultSig == signature.Long:
		g.il.Append(op.LReturn)
	case signature.IsReference(resultSig):
		g.il.Append(op.AReturn)
	default:
		g.il.Append(op.IReturn)
	}
	require.Empty(t, g.il.Unresolved())
	method := bytecode.NewMethod(bytecode.MethodParams{
		Name:         "convert",
		Signature:    "()V",
		Instructions: g.il.Instructions(),
		MaxLocals:    g.next,
		MaxStack:     16,
	})
	class := bytecode.NewClass(bytecode.ClassParams{
		Name:    "ConversionTest",
		Pool:    g.cp,
		Methods: []*bytecode.Method{method},
	})
	if doc == nil {
		doc = vm.NewDocument(nil)
	}
	args := []any{doc}
	if input != nil {
		args = append(args, input)
	}
	result, err := vm.New().Call(context.Background(), class, method, args...)
	require.NoError(t, err)
	return result
}

// convert emits a load of the input of type from, the conversion to type
// to, and runs the result.
func convert(t *testing.T, from, to Type, doc *vm.Document, input any) any {
	t.Helper()
	g := newTestGen()
	if from.Kind() != KindVoid {
		g.il.Append(loadOp(from), inputSlot)
	}
	require.NoError(t, TranslateTo(g, from, to))
	require.Equal(t, 0, g.live, "temporaries must be released")
	return execute(t, g, to.Signature(), doc, input)
}
