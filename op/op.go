// Package op defines the opcodes of the stack-based target virtual machine
// that generated translets run on.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint16

const (
	Invalid Code = 0

	// Constants
	Nop        Code = 1
	AConstNull Code = 2
	IConstM1   Code = 3
	IConst0    Code = 4
	IConst1    Code = 5
	DConst0    Code = 6
	DConst1    Code = 7
	Ldc        Code = 8
	Ldc2       Code = 9 // Double-width constant

	// Locals
	ILoad  Code = 20
	LLoad  Code = 21
	DLoad  Code = 22
	ALoad  Code = 23
	IStore Code = 24
	LStore Code = 25
	DStore Code = 26
	AStore Code = 27

	// Stack
	Pop   Code = 30
	Pop2  Code = 31
	Dup   Code = 32
	DupX1 Code = 33
	DupX2 Code = 34
	Dup2  Code = 35
	Swap  Code = 36

	// Arithmetic
	IAdd Code = 40
	ISub Code = 41
	INeg Code = 42
	DAdd Code = 43
	DSub Code = 44
	DNeg Code = 45

	// Numeric conversions
	I2L Code = 50
	I2D Code = 51
	L2I Code = 52
	L2D Code = 53
	D2I Code = 54
	D2L Code = 55

	// Comparisons
	LCmp  Code = 60
	DCmpL Code = 61
	DCmpG Code = 62

	// Branches
	IfEq      Code = 70
	IfNe      Code = 71
	IfLt      Code = 72
	IfGe      Code = 73
	IfGt      Code = 74
	IfLe      Code = 75
	IfICmpEq  Code = 76
	IfICmpNe  Code = 77
	IfICmpLt  Code = 78
	IfICmpGe  Code = 79
	IfICmpGt  Code = 80
	IfICmpLe  Code = 81
	IfACmpEq  Code = 82
	IfACmpNe  Code = 83
	IfNull    Code = 84
	IfNonNull Code = 85
	Goto      Code = 86

	// Returns
	IReturn Code = 90
	LReturn Code = 91
	DReturn Code = 92
	AReturn Code = 93
	Return  Code = 94

	// Fields
	GetStatic Code = 100
	PutStatic Code = 101
	GetField  Code = 102
	PutField  Code = 103

	// Invocation
	InvokeVirtual   Code = 110
	InvokeSpecial   Code = 111
	InvokeStatic    Code = 112
	InvokeInterface Code = 113

	// Objects
	New        Code = 120
	CheckCast  Code = 121
	InstanceOf Code = 122
	AThrow     Code = 123
)

// Variable marks a stack effect that depends on the operand, such as the
// signature of an invoked method or an accessed field.
const Variable = -1

// Info contains information about an opcode. Pop and Push are measured in
// stack units; double and long values occupy two units.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
	Pop          int
	Push         int
	Branch       bool
	Terminal     bool
}

// IsConditional returns true for branches that may fall through.
func (i Info) IsConditional() bool {
	return i.Branch && i.Code != Goto
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op       Code
		name     string
		count    int
		pop      int
		push     int
		branch   bool
		terminal bool
	}
	ops := []opInfo{
		{Nop, "NOP", 0, 0, 0, false, false},
		{AConstNull, "ACONST_NULL", 0, 0, 1, false, false},
		{IConstM1, "ICONST_M1", 0, 0, 1, false, false},
		{IConst0, "ICONST_0", 0, 0, 1, false, false},
		{IConst1, "ICONST_1", 0, 0, 1, false, false},
		{DConst0, "DCONST_0", 0, 0, 2, false, false},
		{DConst1, "DCONST_1", 0, 0, 2, false, false},
		{Ldc, "LDC", 1, 0, 1, false, false},
		{Ldc2, "LDC2_W", 1, 0, 2, false, false},
		{ILoad, "ILOAD", 1, 0, 1, false, false},
		{LLoad, "LLOAD", 1, 0, 2, false, false},
		{DLoad, "DLOAD", 1, 0, 2, false, false},
		{ALoad, "ALOAD", 1, 0, 1, false, false},
		{IStore, "ISTORE", 1, 1, 0, false, false},
		{LStore, "LSTORE", 1, 2, 0, false, false},
		{DStore, "DSTORE", 1, 2, 0, false, false},
		{AStore, "ASTORE", 1, 1, 0, false, false},
		{Pop, "POP", 0, 1, 0, false, false},
		{Pop2, "POP2", 0, 2, 0, false, false},
		{Dup, "DUP", 0, 1, 2, false, false},
		{DupX1, "DUP_X1", 0, 2, 3, false, false},
		{DupX2, "DUP_X2", 0, 3, 4, false, false},
		{Dup2, "DUP2", 0, 2, 4, false, false},
		{Swap, "SWAP", 0, 2, 2, false, false},
		{IAdd, "IADD", 0, 2, 1, false, false},
		{ISub, "ISUB", 0, 2, 1, false, false},
		{INeg, "INEG", 0, 1, 1, false, false},
		{DAdd, "DADD", 0, 4, 2, false, false},
		{DSub, "DSUB", 0, 4, 2, false, false},
		{DNeg, "DNEG", 0, 2, 2, false, false},
		{I2L, "I2L", 0, 1, 2, false, false},
		{I2D, "I2D", 0, 1, 2, false, false},
		{L2I, "L2I", 0, 2, 1, false, false},
		{L2D, "L2D", 0, 2, 2, false, false},
		{D2I, "D2I", 0, 2, 1, false, false},
		{D2L, "D2L", 0, 2, 2, false, false},
		{LCmp, "LCMP", 0, 4, 1, false, false},
		{DCmpL, "DCMPL", 0, 4, 1, false, false},
		{DCmpG, "DCMPG", 0, 4, 1, false, false},
		{IfEq, "IFEQ", 1, 1, 0, true, false},
		{IfNe, "IFNE", 1, 1, 0, true, false},
		{IfLt, "IFLT", 1, 1, 0, true, false},
		{IfGe, "IFGE", 1, 1, 0, true, false},
		{IfGt, "IFGT", 1, 1, 0, true, false},
		{IfLe, "IFLE", 1, 1, 0, true, false},
		{IfICmpEq, "IF_ICMPEQ", 1, 2, 0, true, false},
		{IfICmpNe, "IF_ICMPNE", 1, 2, 0, true, false},
		{IfICmpLt, "IF_ICMPLT", 1, 2, 0, true, false},
		{IfICmpGe, "IF_ICMPGE", 1, 2, 0, true, false},
		{IfICmpGt, "IF_ICMPGT", 1, 2, 0, true, false},
		{IfICmpLe, "IF_ICMPLE", 1, 2, 0, true, false},
		{IfACmpEq, "IF_ACMPEQ", 1, 2, 0, true, false},
		{IfACmpNe, "IF_ACMPNE", 1, 2, 0, true, false},
		{IfNull, "IFNULL", 1, 1, 0, true, false},
		{IfNonNull, "IFNONNULL", 1, 1, 0, true, false},
		{Goto, "GOTO", 1, 0, 0, true, true},
		{IReturn, "IRETURN", 0, 1, 0, false, true},
		{LReturn, "LRETURN", 0, 2, 0, false, true},
		{DReturn, "DRETURN", 0, 2, 0, false, true},
		{AReturn, "ARETURN", 0, 1, 0, false, true},
		{Return, "RETURN", 0, 0, 0, false, true},
		{GetStatic, "GETSTATIC", 1, 0, Variable, false, false},
		{PutStatic, "PUTSTATIC", 1, Variable, 0, false, false},
		{GetField, "GETFIELD", 1, 1, Variable, false, false},
		{PutField, "PUTFIELD", 1, Variable, 0, false, false},
		{InvokeVirtual, "INVOKEVIRTUAL", 1, Variable, Variable, false, false},
		{InvokeSpecial, "INVOKESPECIAL", 1, Variable, Variable, false, false},
		{InvokeStatic, "INVOKESTATIC", 1, Variable, Variable, false, false},
		{InvokeInterface, "INVOKEINTERFACE", 1, Variable, Variable, false, false},
		{New, "NEW", 1, 0, 1, false, false},
		{CheckCast, "CHECKCAST", 1, 1, 1, false, false},
		{InstanceOf, "INSTANCEOF", 1, 1, 1, false, false},
		{AThrow, "ATHROW", 0, 1, 0, false, true},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Code:         o.op,
			Name:         o.name,
			OperandCount: o.count,
			Pop:          o.pop,
			Push:         o.push,
			Branch:       o.branch,
			Terminal:     o.terminal,
		}
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	if int(op) >= len(infos) {
		return Info{}
	}
	return infos[op]
}

// String returns the mnemonic of the opcode.
func (c Code) String() string {
	if name := GetInfo(c).Name; name != "" {
		return name
	}
	return "INVALID"
}

// Negate returns the branch opcode that tests the opposite condition.
// Unconditional and non-branch opcodes map to Invalid.
func Negate(c Code) Code {
	switch c {
	case IfEq:
		return IfNe
	case IfNe:
		return IfEq
	case IfLt:
		return IfGe
	case IfGe:
		return IfLt
	case IfGt:
		return IfLe
	case IfLe:
		return IfGt
	case IfICmpEq:
		return IfICmpNe
	case IfICmpNe:
		return IfICmpEq
	case IfICmpLt:
		return IfICmpGe
	case IfICmpGe:
		return IfICmpLt
	case IfICmpGt:
		return IfICmpLe
	case IfICmpLe:
		return IfICmpGt
	case IfACmpEq:
		return IfACmpNe
	case IfACmpNe:
		return IfACmpEq
	case IfNull:
		return IfNonNull
	case IfNonNull:
		return IfNull
	default:
		return Invalid
	}
}
