package bytecode

import (
	"testing"

	"github.com/deepnoodle-ai/xsltc/op"
	"github.com/stretchr/testify/require"
)

func TestListAppend(t *testing.T) {
	l := NewList()
	require.Equal(t, Handle(0), l.End())
	h0 := l.Append(op.ILoad, 4)
	h1 := l.Append(op.I2D)
	require.Equal(t, Handle(0), h0)
	require.Equal(t, Handle(1), h1)
	require.Equal(t, 2, l.Len())
	require.Equal(t, op.ILoad, l.At(h0).Code)
	require.Equal(t, 4, l.At(h0).Operand)
	require.Equal(t, NoTarget, l.At(h1).Target)

	last, ok := l.Last()
	require.True(t, ok)
	require.Equal(t, op.I2D, last.Code)
}

func TestListBranches(t *testing.T) {
	l := NewList()
	br := l.AppendBranch(op.IfEq)
	l.Append(op.IConst1)
	require.Equal(t, []Handle{br}, l.Unresolved())
	l.SetTarget(br, l.End())
	l.Append(op.IConst0)
	require.Empty(t, l.Unresolved())
	require.Equal(t, 2, l.At(br).Target)
	require.Equal(t, "IFEQ -> 2", l.At(br).String())
}

func TestListAppendBranchRejectsNonBranch(t *testing.T) {
	l := NewList()
	require.Panics(t, func() { l.AppendBranch(op.Dup) })
	h := l.Append(op.Dup)
	require.Panics(t, func() { l.SetTarget(h, 0) })
}

func TestListSequence(t *testing.T) {
	l := NewList()
	l.Append(op.Nop)
	start := l.AppendSequence(Seq(Make(op.ALoad, 0), Make(op.GetField, 3)))
	require.Equal(t, Handle(1), start)
	require.Equal(t, 3, l.Len())
	require.Equal(t, op.GetField, l.At(2).Code)
	require.Equal(t, l.End(), l.AppendSequence(nil))
}

func TestListSeal(t *testing.T) {
	l := NewList()
	l.Append(op.Return)
	insts := l.Instructions()
	l.Seal()
	require.True(t, l.Sealed())
	require.Panics(t, func() { l.Append(op.Nop) })

	// The copy is independent of the list
	insts[0] = Make(op.Nop)
	require.Equal(t, op.Return, l.At(0).Code)
}

func TestFlowListBackPatch(t *testing.T) {
	l := NewList()
	a := l.AppendBranch(op.IfEq)
	b := l.AppendBranch(op.IfLt)
	fl := NewFlowList(a).Add(b)
	other := NewFlowList(l.AppendBranch(op.IfNull))
	fl.Append(other)
	require.Equal(t, 3, fl.Len())
	target := l.Append(op.IConst0)
	fl.BackPatch(l, target)
	for _, h := range fl.Handles() {
		require.Equal(t, int(target), l.At(h).Target)
	}
	require.Empty(t, l.Unresolved())

	var empty *FlowList
	require.True(t, empty.Empty())
	empty.BackPatch(l, target)
}

func TestNewMethodImmutability(t *testing.T) {
	insts := []Instruction{Make(op.ILoad, 4), Make(op.IReturn)}
	m := NewMethod(MethodParams{
		Name:         "test",
		Signature:    "(I)I",
		Access:       AccPublic | AccStatic,
		Instructions: insts,
		MaxLocals:    5,
		MaxStack:     1,
		Locals:       []LocalVariable{{Name: "current", Signature: "I", Index: 4}},
	})
	insts[0] = Make(op.Nop)
	require.Equal(t, op.ILoad, m.InstructionAt(0).Code)
	require.Equal(t, 2, m.InstructionCount())
	require.True(t, m.IsStatic())
	require.Equal(t, "current", m.LocalName(4))
	require.Equal(t, "", m.LocalName(1))
}

func TestConstantPool(t *testing.T) {
	p := NewConstantPool()
	s := p.AddString("abc")
	require.Equal(t, 1, s)
	require.Equal(t, s, p.AddString("abc"))
	d := p.AddDouble(1.5)
	require.Equal(t, 2, d)
	m := p.AddMethodRef("a/B", "f", "(I)D")
	im := p.AddInterfaceMethodRef("a/B", "f", "(I)D")
	require.NotEqual(t, m, im)
	require.Equal(t, 4, p.Len())

	e, err := p.EntryAt(m)
	require.Nil(t, err)
	require.Equal(t, EntryMethod, e.Kind)
	require.Equal(t, "a/B.f:(I)D", e.Describe())
	require.True(t, e.IsMember())

	de, err := p.EntryAt(d)
	require.Nil(t, err)
	require.True(t, de.Wide())

	_, err = p.EntryAt(0)
	require.NotNil(t, err)
	_, err = p.EntryAt(5)
	require.NotNil(t, err)

	p.Freeze()
	require.Equal(t, s, p.AddString("abc"))
	require.Panics(t, func() { p.AddString("new") })
}
