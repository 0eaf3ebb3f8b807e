package types

import (
	"github.com/deepnoodle-ai/xsltc/abi"
	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/deepnoodle-ai/xsltc/op"
)

// DistanceTo returns the cost of implicitly converting a value of type from
// to type to. It is zero for identical types and Infinite when no
// conversion exists. For two method types it is the overload distance: the
// sum of the argument distances, or Infinite if the arities differ or any
// argument cannot be converted.
//
// Method pairs are the one place where a finite distance does not mean
// TranslateTo succeeds: method types are not values, so only the identity
// conversion between them emits anything.
func DistanceTo(from, to Type) int {
	if from == nil || to == nil {
		return Infinite
	}
	if Identical(from, to) {
		return distIdentity
	}
	if from.Kind() == KindMethod || to.Kind() == KindMethod {
		if from.Kind() == KindMethod && to.Kind() == KindMethod {
			return methodDistance(from.(*MethodType), to.(*MethodType))
		}
		return Infinite
	}
	// Narrowing to a specific kind of node is never implicit, whatever the
	// source.
	if n, ok := to.(*NodeType); ok && n.nodeKind != NodeAny {
		return Infinite
	}
	r, ok := rules[ruleKey{from.Kind(), to.Kind()}]
	if !ok {
		return Infinite
	}
	return r.Distance
}

func methodDistance(call, candidate *MethodType) int {
	if len(call.args) != len(candidate.args) {
		return Infinite
	}
	total := 0
	for i, arg := range call.args {
		d := DistanceTo(arg, candidate.args[i])
		if d == Infinite {
			return Infinite
		}
		total += d
	}
	return total
}

// TranslateTo appends the instructions that convert the value of type from
// on top of the stack into a value of type to. If no conversion exists a
// recoverable diagnostic is reported to g and a *errors.ConversionError is
// returned; nothing is emitted in that case.
//
// Method types are not values: only the identity conversion between them
// succeeds, although DistanceTo reports overload distances between them.
func TranslateTo(g Generator, from, to Type) error {
	if from != nil && to != nil && Identical(from, to) {
		return nil
	}
	if from == nil || to == nil || from.Kind() == KindMethod || to.Kind() == KindMethod ||
		DistanceTo(from, to) == Infinite {
		return conversionError(g, from, to)
	}
	r := rules[ruleKey{from.Kind(), to.Kind()}]
	return r.emit(newAsm(g), from, to)
}

func typeName(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func conversionError(g Generator, from, to Type) error {
	err := &errors.ConversionError{From: typeName(from), To: typeName(to)}
	err.Report(g)
	return err
}

func booleanToString(a *asm, _, _ Type) error {
	falseBranch := a.branch(op.IfEq)
	a.ldcString("true")
	skip := a.branch(op.Goto)
	a.il.SetTarget(falseBranch, a.here())
	a.ldcString("false")
	a.il.SetTarget(skip, a.here())
	return nil
}

func nodeToString(a *asm, _, _ Type) error {
	if err := a.loadDocument(); err != nil {
		return err
	}
	a.emit(op.Swap)
	a.invokeInterface(abi.GetStringValueX)
	return nil
}

func nodeSetToNode(a *asm, _, _ Type) error {
	a.invokeInterface(abi.IteratorNext)
	return nil
}

func nodeSetToString(a *asm, from, to Type) error {
	if err := nodeSetToNode(a, from, AnyNode); err != nil {
		return err
	}
	return nodeToString(a, AnyNode, to)
}

func nodeToNodeSet(a *asm, _, _ Type) error {
	a.wrapSingle(abi.SingletonIterator, abi.SingletonIteratorInit)
	return nil
}

func resultTreeToString(a *asm, _, _ Type) error {
	a.invokeInterface(abi.GetStringValue)
	return nil
}

func resultTreeToNodeSet(a *asm, _, _ Type) error {
	a.invokeInterface(abi.GetIterator)
	return nil
}

func castToObject(a *asm, _, to Type) error {
	a.checkCast(to.(*ObjectType).InternalName())
	return nil
}

func objectToString(a *asm, _, _ Type) error {
	a.emit(op.Dup)
	isNull := a.branch(op.IfNull)
	a.invokeVirtual(abi.ObjectToString)
	skip := a.branch(op.Goto)
	a.il.SetTarget(isNull, a.emit(op.Pop))
	a.ldcString("")
	a.il.SetTarget(skip, a.here())
	return nil
}

func voidToString(a *asm, _, _ Type) error {
	a.ldcString("")
	return nil
}
