package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(InvokeInterface)
	require.Equal(t, "INVOKEINTERFACE", info.Name)
	require.Equal(t, 1, info.OperandCount)
	require.Equal(t, Variable, info.Pop)
	require.Equal(t, InvokeInterface, info.Code)
}

func TestGetInfoStackEffects(t *testing.T) {
	tests := []struct {
		code Code
		name string
		pop  int
		push int
	}{
		{IConst0, "ICONST_0", 0, 1},
		{DConst0, "DCONST_0", 0, 2},
		{DLoad, "DLOAD", 0, 2},
		{DStore, "DSTORE", 2, 0},
		{I2D, "I2D", 1, 2},
		{D2I, "D2I", 2, 1},
		{DCmpG, "DCMPG", 4, 1},
		{DupX1, "DUP_X1", 2, 3},
		{DupX2, "DUP_X2", 3, 4},
		{Dup2, "DUP2", 2, 4},
		{Swap, "SWAP", 2, 2},
		{IfLt, "IFLT", 1, 0},
		{IfNull, "IFNULL", 1, 0},
		{New, "NEW", 0, 1},
		{CheckCast, "CHECKCAST", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := GetInfo(tt.code)
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.pop, info.Pop)
			require.Equal(t, tt.push, info.Push)
		})
	}
}

func TestBranchFlags(t *testing.T) {
	require.True(t, GetInfo(IfEq).Branch)
	require.True(t, GetInfo(IfEq).IsConditional())
	require.True(t, GetInfo(Goto).Branch)
	require.False(t, GetInfo(Goto).IsConditional())
	require.True(t, GetInfo(Goto).Terminal)
	require.True(t, GetInfo(AReturn).Terminal)
	require.False(t, GetInfo(Dup).Branch)
}

func TestNegate(t *testing.T) {
	require.Equal(t, IfNe, Negate(IfEq))
	require.Equal(t, IfGe, Negate(IfLt))
	require.Equal(t, IfNonNull, Negate(IfNull))
	require.Equal(t, IfICmpLe, Negate(IfICmpGt))
	require.Equal(t, Invalid, Negate(Goto))
	require.Equal(t, Invalid, Negate(Dup))
	for _, c := range []Code{IfEq, IfLe, IfICmpEq, IfACmpNe, IfNull} {
		require.Equal(t, c, Negate(Negate(c)))
	}
}

func TestString(t *testing.T) {
	require.Equal(t, "LDC", Ldc.String())
	require.Equal(t, "INVALID", Code(250).String())
	require.Equal(t, "INVALID", Code(9999).String())
}
