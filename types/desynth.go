package types

import (
	"github.com/deepnoodle-ai/xsltc/abi"
	"github.com/deepnoodle-ai/xsltc/bytecode"
	"github.com/deepnoodle-ai/xsltc/op"
)

// TranslateToDesynthesized appends a test of the truth value of the value
// of type from on top of the stack, without producing a boolean. Execution
// falls through when the value is true. The branches that must jump to the
// false target are returned; the caller back-patches them once that target
// has been emitted.
//
// Only the branch outcome is defined. Callers that need the 0/1 value use
// TranslateTo with Boolean instead.
func TranslateToDesynthesized(g Generator, from Type) (*bytecode.FlowList, error) {
	if DistanceTo(from, Boolean) == Infinite {
		return nil, conversionError(g, from, Boolean)
	}
	return desynthesize(newAsm(g), from)
}

func desynthesize(a *asm, from Type) (*bytecode.FlowList, error) {
	switch from.Kind() {
	case KindBoolean:
		return bytecode.NewFlowList(a.branch(op.IfEq)), nil
	case KindReal:
		return realTest(a), nil
	case KindString:
		a.invokeVirtual(abi.StringLength)
		return bytecode.NewFlowList(a.branch(op.IfEq)), nil
	case KindNodeSet:
		a.invokeInterface(abi.IteratorNext)
		return bytecode.NewFlowList(a.branch(op.IfLt)), nil
	case KindNode:
		return bytecode.NewFlowList(a.branch(op.IfLt)), nil
	case KindResultTree:
		a.emit(op.Pop)
		return bytecode.NewFlowList(), nil
	case KindObject:
		return bytecode.NewFlowList(a.branch(op.IfNull)), nil
	default:
		if err := TranslateTo(a.g, from, Boolean); err != nil {
			return nil, err
		}
		return bytecode.NewFlowList(a.branch(op.IfEq)), nil
	}
}

// realTest branches to false for zero and for NaN, which is the only value
// that compares unequal to itself.
func realTest(a *asm) *bytecode.FlowList {
	tmp := a.g.AllocateTemp(2)
	defer a.g.ReleaseTemp(tmp, 2)

	a.emit(op.DStore, tmp)
	a.emit(op.DLoad, tmp)
	a.emit(op.DConst0)
	a.emit(op.DCmpG)
	falseList := bytecode.NewFlowList(a.branch(op.IfEq))
	a.emit(op.DLoad, tmp)
	a.emit(op.DLoad, tmp)
	a.emit(op.DCmpG)
	falseList.Add(a.branch(op.IfNe))
	return falseList
}
