// Package types implements the type lattice of the code generator: the
// closed set of value types, their on-stack representations, the conversion
// distance between any two of them, and the instruction sequences that
// perform each conversion.
//
// All conversions are declared in a single table (see Rules) keyed by the
// source and target Kind, so the full coercion matrix can be inspected and
// tested in one place.
package types

import (
	"fmt"
	"math"
	"strings"

	"github.com/deepnoodle-ai/xsltc/abi"
	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/deepnoodle-ai/xsltc/signature"
)

// Infinite is the distance between types that have no implicit conversion.
const Infinite = math.MaxInt32

// Kind identifies a type variant.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindReal
	KindBoolean
	KindString
	KindNodeSet
	KindNode
	KindResultTree
	KindReference
	KindObject
	KindVoid
	KindMethod
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindInt:        "int",
	KindReal:       "real",
	KindBoolean:    "boolean",
	KindString:     "string",
	KindNodeSet:    "node-set",
	KindNode:       "node",
	KindResultTree: "result-tree",
	KindReference:  "reference",
	KindObject:     "object",
	KindVoid:       "void",
	KindMethod:     "method",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// ValueKinds returns the kinds whose values can live on the operand stack,
// in declaration order.
func ValueKinds() []Kind {
	return []Kind{
		KindInt, KindReal, KindBoolean, KindString, KindNodeSet,
		KindNode, KindResultTree, KindReference, KindObject, KindVoid,
	}
}

// Type is an immutable member of the type lattice.
type Type interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Signature returns the ABI signature of the type's stack form.
	Signature() string
	// Width returns the number of stack units a value occupies.
	Width() int
	String() string
}

type basicType struct {
	kind Kind
	sig  string
}

func (t *basicType) Kind() Kind        { return t.kind }
func (t *basicType) Signature() string { return t.sig }
func (t *basicType) Width() int        { return signature.Width(t.sig) }
func (t *basicType) String() string    { return t.kind.String() }

// Singleton types. These are shared by every generator and never change.
var (
	Int        Type = &basicType{kind: KindInt, sig: signature.Int}
	Real       Type = &basicType{kind: KindReal, sig: signature.Double}
	Boolean    Type = &basicType{kind: KindBoolean, sig: signature.Boolean}
	String     Type = &basicType{kind: KindString, sig: abi.StringSig}
	NodeSet    Type = &basicType{kind: KindNodeSet, sig: abi.NodeIteratorSig}
	ResultTree Type = &basicType{kind: KindResultTree, sig: abi.DOMSig}
	Reference  Type = &basicType{kind: KindReference, sig: abi.ObjectSig}
	Void       Type = &basicType{kind: KindVoid, sig: signature.Void}
)

// NodeKind narrows the Node type to a specific kind of document node.
type NodeKind uint8

const (
	NodeAny NodeKind = iota
	NodeRoot
	NodeElement
	NodeAttribute
	NodeText
	NodeComment
	NodeProcessingInstruction
)

var nodeKindNames = [...]string{
	NodeAny:                   "any",
	NodeRoot:                  "root",
	NodeElement:               "element",
	NodeAttribute:             "attribute",
	NodeText:                  "text",
	NodeComment:               "comment",
	NodeProcessingInstruction: "processing-instruction",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "invalid"
}

// NodeType is a single document node, represented on the stack as an
// integer node handle.
type NodeType struct {
	nodeKind NodeKind
}

func (t *NodeType) Kind() Kind         { return KindNode }
func (t *NodeType) Signature() string  { return signature.Int }
func (t *NodeType) Width() int         { return 1 }
func (t *NodeType) NodeKind() NodeKind { return t.nodeKind }

func (t *NodeType) String() string {
	if t.nodeKind == NodeAny {
		return "node"
	}
	return "node(" + t.nodeKind.String() + ")"
}

var nodeTypes = func() []*NodeType {
	out := make([]*NodeType, len(nodeKindNames))
	for i := range out {
		out[i] = &NodeType{nodeKind: NodeKind(i)}
	}
	return out
}()

// Node returns the canonical node type of the given kind.
func Node(kind NodeKind) *NodeType {
	if int(kind) >= len(nodeTypes) {
		return nodeTypes[NodeAny]
	}
	return nodeTypes[kind]
}

// AnyNode is the node type that matches every kind of node.
var AnyNode Type = Node(NodeAny)

// ObjectType is an instance of a named external class, used for values
// passed to and returned from extension functions.
type ObjectType struct {
	name string
}

// Object returns the type of instances of the named class. Dotted and
// internal names are accepted.
func Object(className string) *ObjectType {
	return &ObjectType{name: signature.ClassName(className)}
}

func (t *ObjectType) Kind() Kind        { return KindObject }
func (t *ObjectType) Signature() string { return signature.Class(t.name) }
func (t *ObjectType) Width() int        { return 1 }
func (t *ObjectType) ClassName() string { return t.name }

// InternalName returns the class name in internal form, "a/b/C".
func (t *ObjectType) InternalName() string { return signature.InternalName(t.name) }
func (t *ObjectType) String() string    { return "object(" + t.name + ")" }

// MethodType describes the argument and result types of a callable.
type MethodType struct {
	args   []Type
	result Type
}

// Method returns a method type with the given result and argument types.
func Method(result Type, args ...Type) *MethodType {
	copied := make([]Type, len(args))
	copy(copied, args)
	return &MethodType{args: copied, result: result}
}

func (t *MethodType) Kind() Kind   { return KindMethod }
func (t *MethodType) Width() int   { return 0 }
func (t *MethodType) Result() Type { return t.result }
func (t *MethodType) ArgCount() int {
	return len(t.args)
}

// ArgAt returns the argument type at index i.
func (t *MethodType) ArgAt(i int) Type {
	return t.args[i]
}

// Args returns a copy of the argument types.
func (t *MethodType) Args() []Type {
	out := make([]Type, len(t.args))
	copy(out, t.args)
	return out
}

func (t *MethodType) Signature() string {
	args := make([]string, 0, len(t.args))
	for _, a := range t.args {
		args = append(args, a.Signature())
	}
	return signature.Method(args, t.result.Signature())
}

func (t *MethodType) String() string {
	names := make([]string, 0, len(t.args))
	for _, a := range t.args {
		names = append(names, a.String())
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(names, ", "), t.result)
}

// Identical reports whether a and b denote the same type. Singletons are
// compared by tag; node, object and method types structurally.
func Identical(a, b Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNode:
		return a.(*NodeType).nodeKind == b.(*NodeType).nodeKind
	case KindObject:
		return a.(*ObjectType).name == b.(*ObjectType).name
	case KindMethod:
		ma, mb := a.(*MethodType), b.(*MethodType)
		if len(ma.args) != len(mb.args) || !Identical(ma.result, mb.result) {
			return false
		}
		for i := range ma.args {
			if !Identical(ma.args[i], mb.args[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

var namedTypes = map[string]Type{
	"int":         Int,
	"real":        Real,
	"number":      Real,
	"boolean":     Boolean,
	"string":      String,
	"node-set":    NodeSet,
	"node":        AnyNode,
	"result-tree": ResultTree,
	"reference":   Reference,
	"void":        Void,
}

// Names returns the names accepted by Parse for non-object types.
func Names() []string {
	names := make([]string, 0, len(namedTypes)+len(nodeKindNames))
	for _, k := range []string{"int", "real", "number", "boolean", "string",
		"node-set", "node", "result-tree", "reference", "void"} {
		names = append(names, k)
	}
	for _, n := range nodeTypes[1:] {
		names = append(names, n.String())
	}
	return names
}

// Parse returns the type with the given name: a lattice type name such as
// "node-set", a node type such as "node(element)", or a dotted class name
// such as "java.util.Date" for an object type.
func Parse(name string) (Type, error) {
	if t, ok := namedTypes[name]; ok {
		return t, nil
	}
	if strings.HasPrefix(name, "node(") && strings.HasSuffix(name, ")") {
		inner := name[len("node(") : len(name)-1]
		for i, n := range nodeKindNames {
			if n == inner {
				return Node(NodeKind(i)), nil
			}
		}
	}
	if strings.Contains(name, ".") && !strings.ContainsAny(name, " ()") {
		return Object(name), nil
	}
	err := errors.NewCompileError(errors.E4006, name)
	err.Suggestions = errors.SuggestSimilar(name, Names())
	return nil, err
}
