package bytecode

import (
	"fmt"

	"github.com/deepnoodle-ai/xsltc/op"
)

// NoTarget is the target of a branch instruction that has not been resolved.
const NoTarget = -1

// Handle identifies an instruction by its position within a List.
type Handle int

// Instruction is a single opcode with its operand. Operand holds a local
// slot index or a constant pool index depending on the opcode. Target is the
// index of the destination instruction for branches.
type Instruction struct {
	Code    op.Code
	Operand int
	Target  int
}

// Is returns true if the instruction has the given opcode.
func (i Instruction) Is(code op.Code) bool {
	return i.Code == code
}

// IsBranch returns true if the instruction transfers control to Target.
func (i Instruction) IsBranch() bool {
	return op.GetInfo(i.Code).Branch
}

func (i Instruction) String() string {
	info := op.GetInfo(i.Code)
	switch {
	case info.Branch:
		return fmt.Sprintf("%s -> %d", info.Name, i.Target)
	case info.OperandCount > 0:
		return fmt.Sprintf("%s %d", info.Name, i.Operand)
	default:
		return info.Name
	}
}

// Make returns an instruction for the given opcode and optional operand.
func Make(code op.Code, operand ...int) Instruction {
	inst := Instruction{Code: code, Target: NoTarget}
	if len(operand) > 0 {
		inst.Operand = operand[0]
	}
	return inst
}

// Sequence is a short run of instructions, such as the instructions needed
// to load a value from a fixed location.
type Sequence []Instruction

// Seq builds a Sequence from the given instructions.
func Seq(insts ...Instruction) Sequence {
	return Sequence(insts)
}

// List is an append-only instruction buffer. It is owned by exactly one
// method generator and is sealed when that method is committed.
type List struct {
	instructions []Instruction
	sealed       bool
}

// NewList returns an empty instruction list.
func NewList() *List {
	return &List{}
}

func (l *List) checkSealed() {
	if l.sealed {
		panic("bytecode: append to a sealed instruction list")
	}
}

// Append adds an instruction and returns its handle.
func (l *List) Append(code op.Code, operand ...int) Handle {
	return l.AppendInstruction(Make(code, operand...))
}

// AppendInstruction adds a prebuilt instruction and returns its handle.
func (l *List) AppendInstruction(inst Instruction) Handle {
	l.checkSealed()
	h := Handle(len(l.instructions))
	l.instructions = append(l.instructions, inst)
	return h
}

// AppendBranch adds a branch instruction whose target is resolved later
// with SetTarget or a FlowList back-patch.
func (l *List) AppendBranch(code op.Code) Handle {
	if !op.GetInfo(code).Branch {
		panic(fmt.Sprintf("bytecode: %s is not a branch", code))
	}
	return l.AppendInstruction(Instruction{Code: code, Target: NoTarget})
}

// AppendSequence adds every instruction of seq and returns the handle of the
// first one. An empty sequence returns the current end of the list.
func (l *List) AppendSequence(seq Sequence) Handle {
	l.checkSealed()
	start := Handle(len(l.instructions))
	l.instructions = append(l.instructions, seq...)
	return start
}

// SetTarget resolves the branch at h to jump to target.
func (l *List) SetTarget(h Handle, target Handle) {
	l.checkSealed()
	inst := &l.instructions[h]
	if !op.GetInfo(inst.Code).Branch {
		panic(fmt.Sprintf("bytecode: instruction %d (%s) is not a branch", h, inst.Code))
	}
	inst.Target = int(target)
}

// End returns the handle the next appended instruction will receive. It is
// used as a branch target for code that has not been emitted yet.
func (l *List) End() Handle {
	return Handle(len(l.instructions))
}

// Len returns the number of instructions in the list.
func (l *List) Len() int {
	return len(l.instructions)
}

// At returns the instruction at h.
func (l *List) At(h Handle) Instruction {
	return l.instructions[h]
}

// Last returns the most recently appended instruction.
func (l *List) Last() (Instruction, bool) {
	if len(l.instructions) == 0 {
		return Instruction{}, false
	}
	return l.instructions[len(l.instructions)-1], true
}

// Sealed returns true once the owning method has been committed.
func (l *List) Sealed() bool {
	return l.sealed
}

// Seal prevents further modification of the list.
func (l *List) Seal() {
	l.sealed = true
}

// Unresolved returns the handles of branches that still lack a target.
func (l *List) Unresolved() []Handle {
	var handles []Handle
	for i, inst := range l.instructions {
		if inst.IsBranch() && inst.Target == NoTarget {
			handles = append(handles, Handle(i))
		}
	}
	return handles
}

// Instructions returns a copy of the instructions in the list.
func (l *List) Instructions() []Instruction {
	return clone(l.instructions)
}
