package bytecode

import (
	"testing"

	"github.com/deepnoodle-ai/xsltc/op"
	"github.com/stretchr/testify/require"
)

func testClass() *Class {
	pool := NewConstantPool()
	ref := pool.AddInterfaceMethodRef("xsltc/dom/NodeIterator", "next", "()I")
	pool.AddDouble(2.5)
	pool.AddString("x")
	l := NewList()
	l.Append(op.ALoad, 2)
	l.Append(op.InvokeInterface, ref)
	br := l.AppendBranch(op.IfLt)
	l.Append(op.IConst1)
	l.Append(op.IReturn)
	l.SetTarget(br, l.Append(op.IConst0))
	l.Append(op.IReturn)
	m := NewMethod(MethodParams{
		Name:         "test",
		Signature:    "()Z",
		Access:       AccPublic,
		Instructions: l.Instructions(),
		MaxLocals:    3,
		MaxStack:     1,
	})
	return NewClass(ClassParams{
		Name:       "translet$Predicate0",
		SuperName:  "java/lang/Object",
		Interfaces: []string{"xsltc/dom/CurrentNodeListFilter"},
		Access:     AccPublic | AccSuper,
		External:   true,
		Pool:       pool,
		Methods:    []*Method{m},
	})
}

func TestMarshalRoundTrip(t *testing.T) {
	classA := testClass()
	data, err := Marshal(classA)
	require.Nil(t, err)
	classB, err := Unmarshal(data)
	require.Nil(t, err)
	require.Equal(t, classA, classB)
}

func TestUnmarshalUnknownOpcode(t *testing.T) {
	_, err := Unmarshal([]byte(`{"name":"C","methods":[{"name":"f","instructions":[{"op":"BOGUS"}]}]}`))
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "unknown opcode")
}

func TestClassStats(t *testing.T) {
	c := testClass()
	stats := c.Stats()
	require.Equal(t, 1, stats.MethodCount)
	require.Equal(t, 7, stats.InstructionCount)
	require.Equal(t, 3, stats.ConstantCount)
	require.Equal(t, 1, stats.MaxStack)
	require.Equal(t, 3, stats.MaxLocals)

	m, ok := c.Method("test", "")
	require.True(t, ok)
	require.Equal(t, "()Z", m.Signature())
	_, ok = c.Method("test", "()I")
	require.False(t, ok)
	require.True(t, c.Pool().Frozen())
}
