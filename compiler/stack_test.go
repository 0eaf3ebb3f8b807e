package compiler

import (
	"testing"

	"github.com/deepnoodle-ai/xsltc/abi"
	"github.com/deepnoodle-ai/xsltc/bytecode"
	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/deepnoodle-ai/xsltc/op"
	"github.com/stretchr/testify/require"
)

func TestStackEffectOfMembers(t *testing.T) {
	cp := bytecode.NewConstantPool()
	tests := []struct {
		name string
		inst bytecode.Instruction
		pop  int
		push int
	}{
		{"static call", bytecode.Make(op.InvokeStatic,
			cp.AddMethodRef(abi.StringF.Class, abi.StringF.Name, abi.StringF.Signature)), 2, 1},
		{"interface call", bytecode.Make(op.InvokeInterface,
			cp.AddInterfaceMethodRef(abi.GetStringValueX.Class, abi.GetStringValueX.Name, abi.GetStringValueX.Signature)), 2, 1},
		{"double result", bytecode.Make(op.InvokeStatic,
			cp.AddMethodRef(abi.StringToReal.Class, abi.StringToReal.Name, abi.StringToReal.Signature)), 1, 2},
		{"constructor", bytecode.Make(op.InvokeSpecial,
			cp.AddMethodRef(abi.DoubleInit.Class, abi.DoubleInit.Name, abi.DoubleInit.Signature)), 3, 0},
		{"get field", bytecode.Make(op.GetField,
			cp.AddFieldRef("test/Unit", abi.DocumentField, abi.DOMSig)), 1, 1},
		{"put wide field", bytecode.Make(op.PutField,
			cp.AddFieldRef("test/Unit", "total", "D")), 3, 0},
		{"get static", bytecode.Make(op.GetStatic,
			cp.AddFieldRef("test/Unit", "count", "I")), 0, 1},
		{"put static", bytecode.Make(op.PutStatic,
			cp.AddFieldRef("test/Unit", "total", "D")), 2, 0},
		{"fixed", bytecode.Make(op.DCmpG), 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pop, push, err := StackEffect(tt.inst, cp)
			require.NoError(t, err)
			require.Equal(t, tt.pop, pop)
			require.Equal(t, tt.push, push)
		})
	}

	_, _, err := StackEffect(bytecode.Make(op.InvokeStatic, 99), cp)
	require.Error(t, err)
	_, _, err = StackEffect(bytecode.Make(op.Code(250)), cp)
	require.Error(t, err)
}

func TestMaxStack(t *testing.T) {
	cp := bytecode.NewConstantPool()
	il := bytecode.NewList()
	il.Append(op.ILoad, 0)
	test := il.AppendBranch(op.IfEq)
	il.Append(op.DConst1)
	il.Append(op.DConst1)
	il.Append(op.DAdd)
	skip := il.AppendBranch(op.Goto)
	il.SetTarget(test, il.Append(op.DConst0))
	il.SetTarget(skip, il.Append(op.DReturn))

	depth, err := MaxStack(il.Instructions(), cp)
	require.NoError(t, err)
	require.Equal(t, 4, depth)

	empty, err := MaxStack(nil, cp)
	require.NoError(t, err)
	require.Equal(t, 0, empty)
}

func TestMaxStackInconsistentMerge(t *testing.T) {
	cp := bytecode.NewConstantPool()
	il := bytecode.NewList()
	il.Append(op.ILoad, 0)
	test := il.AppendBranch(op.IfEq)
	il.Append(op.IConst1) // only on the fallthrough path
	il.SetTarget(test, il.Append(op.Return))

	_, err := MaxStack(il.Instructions(), cp)
	require.Error(t, err)
	require.Equal(t, errors.E5004, err.(*errors.CompileError).Code)
}

func TestMaxStackLoop(t *testing.T) {
	cp := bytecode.NewConstantPool()
	il := bytecode.NewList()
	top := il.Append(op.ILoad, 0)
	exit := il.AppendBranch(op.IfLe)
	il.Append(op.ILoad, 0)
	il.Append(op.IConstM1)
	il.Append(op.IAdd)
	il.Append(op.IStore, 0)
	back := il.AppendBranch(op.Goto)
	il.SetTarget(back, top)
	il.SetTarget(exit, il.Append(op.Return))

	depth, err := MaxStack(il.Instructions(), cp)
	require.NoError(t, err)
	require.Equal(t, 2, depth)
}

func TestValidateBranches(t *testing.T) {
	insts := []bytecode.Instruction{
		{Code: op.IConst0, Target: bytecode.NoTarget},
		{Code: op.IfEq, Target: 2},
		{Code: op.Return, Target: bytecode.NoTarget},
	}
	require.NoError(t, ValidateBranches(insts))

	insts[1].Target = bytecode.NoTarget
	require.Equal(t, errors.E5003, ValidateBranches(insts).(*errors.CompileError).Code)

	insts[1].Target = 3
	require.Equal(t, errors.E5009, ValidateBranches(insts).(*errors.CompileError).Code)
}
