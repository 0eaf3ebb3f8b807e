package bytecode

// Stats contains statistics about a generated class.
type Stats struct {
	// MethodCount is the number of committed methods.
	MethodCount int

	// InstructionCount is the total number of instructions over all methods.
	InstructionCount int

	// ConstantCount is the number of entries in the constant pool.
	ConstantCount int

	// MaxStack is the deepest operand stack of any method.
	MaxStack int

	// MaxLocals is the largest local storage area of any method.
	MaxLocals int
}
