package bytecode

// Access is a set of access flags for classes, fields and methods.
type Access uint16

const (
	AccPublic    Access = 0x0001
	AccPrivate   Access = 0x0002
	AccProtected Access = 0x0004
	AccStatic    Access = 0x0008
	AccFinal     Access = 0x0010
	AccSuper     Access = 0x0020
	AccInterface Access = 0x0200
	AccAbstract  Access = 0x0400
	AccSynthetic Access = 0x1000
)

// Has returns true if all flags in f are set.
func (a Access) Has(f Access) bool {
	return a&f == f
}

// LocalVariable names a local slot range for debugging and disassembly.
type LocalVariable struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
	Index     int    `json:"index"`
}

// Method is a committed method. It is immutable after creation.
type Method struct {
	name         string
	signature    string
	access       Access
	instructions []Instruction
	maxLocals    int
	maxStack     int
	locals       []LocalVariable
}

// MethodParams contains parameters for creating a new Method.
type MethodParams struct {
	Name         string
	Signature    string
	Access       Access
	Instructions []Instruction
	MaxLocals    int
	MaxStack     int
	Locals       []LocalVariable
}

// NewMethod creates a new immutable Method. Input slices are copied.
func NewMethod(params MethodParams) *Method {
	var locals []LocalVariable
	if params.Locals != nil {
		locals = make([]LocalVariable, len(params.Locals))
		copy(locals, params.Locals)
	}
	return &Method{
		name:         params.Name,
		signature:    params.Signature,
		access:       params.Access,
		instructions: clone(params.Instructions),
		maxLocals:    params.MaxLocals,
		maxStack:     params.MaxStack,
		locals:       locals,
	}
}

// Name returns the method name.
func (m *Method) Name() string {
	return m.name
}

// Signature returns the method descriptor.
func (m *Method) Signature() string {
	return m.signature
}

// Access returns the method's access flags.
func (m *Method) Access() Access {
	return m.access
}

// IsStatic returns true for methods without a receiver.
func (m *Method) IsStatic() bool {
	return m.access.Has(AccStatic)
}

// InstructionCount returns the number of instructions.
func (m *Method) InstructionCount() int {
	return len(m.instructions)
}

// InstructionAt returns the instruction at the given index.
func (m *Method) InstructionAt(index int) Instruction {
	return m.instructions[index]
}

// MaxLocals returns the number of local storage units the method needs.
func (m *Method) MaxLocals() int {
	return m.maxLocals
}

// MaxStack returns the maximum operand stack depth in stack units.
func (m *Method) MaxStack() int {
	return m.maxStack
}

// LocalCount returns the number of named locals.
func (m *Method) LocalCount() int {
	return len(m.locals)
}

// LocalAt returns the named local at the given index.
func (m *Method) LocalAt(index int) LocalVariable {
	return m.locals[index]
}

// LocalName returns the name of the local stored at slot, if one is known.
func (m *Method) LocalName(slot int) string {
	for _, l := range m.locals {
		if l.Index == slot {
			return l.Name
		}
	}
	return ""
}
