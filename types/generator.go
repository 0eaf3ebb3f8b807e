package types

import (
	"github.com/deepnoodle-ai/xsltc/abi"
	"github.com/deepnoodle-ai/xsltc/bytecode"
	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/deepnoodle-ai/xsltc/op"
)

// Generator is the part of a method generation context that conversions
// need: the instruction list to append to, the constant pool of the class
// being generated, access to the document handle, short-lived temporaries,
// and the diagnostic sink.
type Generator interface {
	errors.Sink
	Instructions() *bytecode.List
	Pool() *bytecode.ConstantPool
	// LoadDocument returns the instructions that push the document handle.
	LoadDocument() (bytecode.Sequence, error)
	// AllocateTemp reserves a temporary slot of the given width.
	AllocateTemp(size int) int
	// ReleaseTemp releases a slot obtained from AllocateTemp.
	ReleaseTemp(slot, size int)
}

// asm appends instructions for one conversion.
type asm struct {
	g  Generator
	il *bytecode.List
	cp *bytecode.ConstantPool
}

func newAsm(g Generator) *asm {
	return &asm{g: g, il: g.Instructions(), cp: g.Pool()}
}

func (a *asm) emit(code op.Code, operand ...int) bytecode.Handle {
	return a.il.Append(code, operand...)
}

func (a *asm) branch(code op.Code) bytecode.Handle {
	return a.il.AppendBranch(code)
}

func (a *asm) here() bytecode.Handle {
	return a.il.End()
}

func (a *asm) ldcString(s string) {
	a.emit(op.Ldc, a.cp.AddString(s))
}

func (a *asm) invokeStatic(m abi.Member) {
	a.emit(op.InvokeStatic, a.cp.AddMethodRef(m.Class, m.Name, m.Signature))
}

func (a *asm) invokeVirtual(m abi.Member) {
	a.emit(op.InvokeVirtual, a.cp.AddMethodRef(m.Class, m.Name, m.Signature))
}

func (a *asm) invokeSpecial(m abi.Member) {
	a.emit(op.InvokeSpecial, a.cp.AddMethodRef(m.Class, m.Name, m.Signature))
}

func (a *asm) invokeInterface(m abi.Member) {
	a.emit(op.InvokeInterface, a.cp.AddInterfaceMethodRef(m.Class, m.Name, m.Signature))
}

func (a *asm) getField(m abi.Member) {
	a.emit(op.GetField, a.cp.AddFieldRef(m.Class, m.Name, m.Signature))
}

func (a *asm) checkCast(class string) {
	a.emit(op.CheckCast, a.cp.AddClass(class))
}

func (a *asm) newObject(class string) {
	a.emit(op.New, a.cp.AddClass(class))
}

func (a *asm) loadDocument() error {
	seq, err := a.g.LoadDocument()
	if err != nil {
		return err
	}
	a.il.AppendSequence(seq)
	return nil
}

// wrapSingle replaces the one-unit value on top of the stack with a new
// instance of class constructed from it.
func (a *asm) wrapSingle(class string, init abi.Member) {
	a.newObject(class)
	a.emit(op.DupX1)
	a.emit(op.Swap)
	a.invokeSpecial(init)
}

// wrapWide replaces the two-unit value on top of the stack with a new
// instance of class constructed from it.
func (a *asm) wrapWide(class string, init abi.Member) {
	a.newObject(class)
	a.emit(op.DupX2)
	a.emit(op.DupX2)
	a.emit(op.Pop)
	a.invokeSpecial(init)
}

// materialize turns a desynthesized test into a 0/1 value: the pending
// branches in falseList are patched to push 0, the fallthrough pushes 1.
func (a *asm) materialize(falseList *bytecode.FlowList) {
	if falseList.Empty() {
		a.emit(op.IConst1)
		return
	}
	a.emit(op.IConst1)
	skip := a.branch(op.Goto)
	falseList.BackPatch(a.il, a.emit(op.IConst0))
	a.il.SetTarget(skip, a.here())
}
