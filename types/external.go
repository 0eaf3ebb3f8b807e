package types

import (
	"github.com/deepnoodle-ai/xsltc/abi"
	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/deepnoodle-ai/xsltc/op"
	"github.com/deepnoodle-ai/xsltc/signature"
)

// Canonical names of the external types with dedicated conversions.
const (
	ExternalInt      = "int"
	ExternalLong     = "long"
	ExternalDouble   = "double"
	ExternalBoolean  = "boolean"
	ExternalVoid     = "void"
	ExternalString   = "java.lang.String"
	ExternalObject   = "java.lang.Object"
	ExternalNode     = "org.w3c.dom.Node"
	ExternalNodeList = "org.w3c.dom.NodeList"
)

var externalAliases = map[string]string{
	"string":   ExternalString,
	"object":   ExternalObject,
	"node":     ExternalNode,
	"nodelist": ExternalNodeList,
}

var primitiveSignatures = map[string]string{
	ExternalInt:     signature.Int,
	ExternalLong:    signature.Long,
	ExternalDouble:  signature.Double,
	ExternalBoolean: signature.Boolean,
	ExternalVoid:    signature.Void,
}

// ExternalType is a parameter or result type declared by an extension
// function implemented outside the generated code.
type ExternalType struct {
	name string
}

// External returns the external type with the given name: a primitive
// ("int", "long", "double", "boolean", "void"), a short alias ("string",
// "object", "node", "nodelist"), or a dotted class name.
func External(name string) ExternalType {
	if canonical, ok := externalAliases[name]; ok {
		name = canonical
	}
	return ExternalType{name: signature.ClassName(name)}
}

// Name returns the canonical name of the type.
func (e ExternalType) Name() string { return e.name }

// IsPrimitive returns true for the non-class external types.
func (e ExternalType) IsPrimitive() bool {
	_, ok := primitiveSignatures[e.name]
	return ok
}

// Signature returns the ABI signature of the external type.
func (e ExternalType) Signature() string {
	if sig, ok := primitiveSignatures[e.name]; ok {
		return sig
	}
	return signature.Class(e.name)
}

func (e ExternalType) String() string { return e.name }

type externalConversion struct {
	distance int
	emit     func(a *asm) error
}

func emitOps(codes ...op.Code) func(a *asm) error {
	return func(a *asm) error {
		for _, c := range codes {
			a.emit(c)
		}
		return nil
	}
}

func viaLattice(from, to Type) func(a *asm) error {
	return func(a *asm) error {
		return TranslateTo(a.g, from, to)
	}
}

func withDocument(m abi.Member, swap bool) func(a *asm) error {
	return func(a *asm) error {
		if err := a.loadDocument(); err != nil {
			return err
		}
		if swap {
			a.emit(op.Swap)
			a.invokeInterface(m)
		} else {
			a.invokeStatic(m)
		}
		return nil
	}
}

func toExternal(t Type, ext ExternalType) (externalConversion, bool) {
	if t == nil || t.Kind() == KindMethod || t.Kind() == KindVoid || t.Kind() == KindInvalid {
		return externalConversion{}, false
	}
	k := t.Kind()
	switch ext.name {
	case ExternalInt:
		switch k {
		case KindInt:
			return externalConversion{0, emitOps()}, true
		case KindReal:
			return externalConversion{1, emitOps(op.D2I)}, true
		case KindBoolean:
			return externalConversion{2, emitOps()}, true
		}
	case ExternalLong:
		switch k {
		case KindInt:
			return externalConversion{1, emitOps(op.I2L)}, true
		case KindReal:
			return externalConversion{2, emitOps(op.D2L)}, true
		}
	case ExternalDouble:
		switch k {
		case KindReal:
			return externalConversion{0, emitOps()}, true
		case KindInt:
			return externalConversion{1, emitOps(op.I2D)}, true
		}
	case ExternalBoolean:
		if k == KindBoolean {
			return externalConversion{0, emitOps()}, true
		}
	case ExternalString:
		if k == KindString {
			return externalConversion{0, emitOps()}, true
		}
		if d := DistanceTo(t, String); d != Infinite {
			return externalConversion{d + 1, viaLattice(t, String)}, true
		}
	case ExternalObject:
		switch k {
		case KindReference:
			return externalConversion{0, emitOps()}, true
		case KindString, KindNodeSet, KindResultTree, KindObject:
			return externalConversion{1, emitOps()}, true
		default:
			return externalConversion{2, func(a *asm) error { return box(a, t) }}, true
		}
	case ExternalNode:
		switch k {
		case KindNode:
			return externalConversion{0, withDocument(abi.MakeNode, true)}, true
		case KindNodeSet:
			return externalConversion{1, withDocument(abi.MakeNodeFromIterator, true)}, true
		}
	case ExternalNodeList:
		switch k {
		case KindNodeSet:
			return externalConversion{0, withDocument(abi.MakeNodeListFromIter, true)}, true
		case KindNode:
			return externalConversion{1, withDocument(abi.MakeNodeList, true)}, true
		}
	}
	if ext.IsPrimitive() {
		return externalConversion{}, false
	}
	switch k {
	case KindObject:
		if t.(*ObjectType).name == ext.name {
			return externalConversion{0, emitOps()}, true
		}
		return externalConversion{1, checkCastTo(ext)}, true
	case KindReference:
		return externalConversion{1, checkCastTo(ext)}, true
	}
	return externalConversion{}, false
}

func checkCastTo(ext ExternalType) func(a *asm) error {
	return func(a *asm) error {
		a.checkCast(signature.InternalName(ext.name))
		return nil
	}
}

func fromExternal(ext ExternalType, t Type) (externalConversion, bool) {
	if t == nil || t.Kind() == KindMethod || t.Kind() == KindInvalid {
		return externalConversion{}, false
	}
	k := t.Kind()
	switch ext.name {
	case ExternalVoid:
		if k == KindVoid {
			return externalConversion{0, emitOps()}, true
		}
		return externalConversion{}, false
	case ExternalInt:
		switch k {
		case KindInt:
			return externalConversion{0, emitOps()}, true
		case KindReal:
			return externalConversion{1, emitOps(op.I2D)}, true
		}
	case ExternalLong:
		switch k {
		case KindInt:
			return externalConversion{1, emitOps(op.L2I)}, true
		case KindReal:
			return externalConversion{1, emitOps(op.L2D)}, true
		}
	case ExternalDouble:
		switch k {
		case KindReal:
			return externalConversion{0, emitOps()}, true
		case KindInt:
			return externalConversion{1, emitOps(op.D2I)}, true
		}
	case ExternalBoolean:
		if k == KindBoolean {
			return externalConversion{0, emitOps()}, true
		}
	case ExternalString:
		switch k {
		case KindString:
			return externalConversion{0, emitOps()}, true
		case KindReference:
			return externalConversion{1, emitOps()}, true
		}
		if d := DistanceTo(String, t); d != Infinite {
			return externalConversion{d + 1, viaLattice(String, t)}, true
		}
	case ExternalObject:
		if k == KindReference {
			return externalConversion{0, emitOps()}, true
		}
		if d := DistanceTo(Reference, t); d != Infinite {
			return externalConversion{d, viaLattice(Reference, t)}, true
		}
	case ExternalNode:
		switch k {
		case KindNodeSet:
			return externalConversion{0, withDocument(abi.Node2Iterator, false)}, true
		case KindReference:
			return externalConversion{1, emitOps()}, true
		}
	case ExternalNodeList:
		switch k {
		case KindNodeSet:
			return externalConversion{0, withDocument(abi.NodeList2Iterator, false)}, true
		case KindReference:
			return externalConversion{1, emitOps()}, true
		}
	}
	if ext.IsPrimitive() {
		return externalConversion{}, false
	}
	switch k {
	case KindObject:
		if t.(*ObjectType).name == ext.name {
			return externalConversion{0, emitOps()}, true
		}
		return externalConversion{1, checkCastTo(External(t.(*ObjectType).name))}, true
	case KindReference:
		return externalConversion{1, emitOps()}, true
	}
	return externalConversion{}, false
}

// DistanceToExternal returns the cost of passing a value of type t where
// the external type ext is expected, or Infinite.
func DistanceToExternal(t Type, ext ExternalType) int {
	conv, ok := toExternal(t, ext)
	if !ok {
		return Infinite
	}
	return conv.distance
}

// DistanceFromExternal returns the cost of converting a value of the
// external type ext into type t, or Infinite.
func DistanceFromExternal(ext ExternalType, t Type) int {
	conv, ok := fromExternal(ext, t)
	if !ok {
		return Infinite
	}
	return conv.distance
}

// TranslateToExternal appends the instructions that convert a value of
// type t into the stack form of the external type ext.
func TranslateToExternal(g Generator, t Type, ext ExternalType) error {
	conv, ok := toExternal(t, ext)
	if !ok {
		err := &errors.ConversionError{From: typeName(t), External: ext.name}
		err.Report(g)
		return err
	}
	return conv.emit(newAsm(g))
}

// TranslateFromExternal appends the instructions that convert a value of
// the external type ext, such as the result of an extension call, into
// type t.
func TranslateFromExternal(g Generator, ext ExternalType, t Type) error {
	conv, ok := fromExternal(ext, t)
	if !ok {
		err := &errors.ConversionError{To: typeName(t), External: ext.name, FromExternal: true}
		err.Report(g)
		return err
	}
	return conv.emit(newAsm(g))
}
