package types

import (
	"github.com/deepnoodle-ai/xsltc/abi"
	"github.com/deepnoodle-ai/xsltc/errors"
)

// TranslateBox appends the instructions that convert the value of type t
// on top of the stack to its generic object form, as stored in variables of
// unknown type. Reference values are already in that form.
func TranslateBox(g Generator, t Type) error {
	if !boxable(t) {
		return conversionError(g, t, Reference)
	}
	return box(newAsm(g), t)
}

// TranslateUnBox appends the instructions that convert a generic object,
// produced by TranslateBox for type t, back to the stack form of t.
func TranslateUnBox(g Generator, t Type) error {
	if !boxable(t) {
		return conversionError(g, Reference, t)
	}
	unbox(newAsm(g), t)
	return nil
}

func boxable(t Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case KindVoid, KindMethod, KindInvalid:
		return false
	}
	return true
}

func box(a *asm, t Type) error {
	switch t.Kind() {
	case KindInt:
		a.wrapSingle(abi.Integer, abi.IntegerInit)
	case KindReal:
		a.wrapWide(abi.Double, abi.DoubleInit)
	case KindBoolean:
		a.wrapSingle(abi.Boolean, abi.BooleanInit)
	case KindNode:
		a.wrapSingle(abi.NodeBox, abi.NodeBoxInit)
	case KindString, KindNodeSet, KindResultTree, KindReference, KindObject:
		// Already an object.
	default:
		return &errors.ConversionError{From: t.String(), To: Reference.String()}
	}
	return nil
}

func unbox(a *asm, t Type) {
	switch t.Kind() {
	case KindInt:
		a.checkCast(abi.Integer)
		a.invokeVirtual(abi.IntegerValue)
	case KindReal:
		a.checkCast(abi.Double)
		a.invokeVirtual(abi.DoubleValue)
	case KindBoolean:
		a.checkCast(abi.Boolean)
		a.invokeVirtual(abi.BooleanValue)
	case KindNode:
		a.checkCast(abi.NodeBox)
		a.getField(abi.NodeBoxField)
	case KindString:
		a.checkCast(abi.String)
	case KindNodeSet:
		a.checkCast(abi.NodeIterator)
	case KindResultTree:
		a.checkCast(abi.DOM)
	case KindObject:
		a.checkCast(t.(*ObjectType).InternalName())
	}
}
