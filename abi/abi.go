// Package abi names the runtime classes, fields and methods that generated
// code calls into. The runtime itself lives outside this module; these names
// are the contract between emitted instructions and that runtime.
package abi

import "github.com/deepnoodle-ai/xsltc/signature"

// Runtime classes, in internal form.
const (
	BasisLibrary      = "xsltc/runtime/BasisLibrary"
	Translet          = "xsltc/runtime/AbstractTranslet"
	NodeBox           = "xsltc/runtime/Node"
	DOM               = "xsltc/DOM"
	NodeIterator      = "xsltc/dom/NodeIterator"
	SingletonIterator = "xsltc/dom/SingletonIterator"
	OutputHandler     = "xsltc/serializer/SerializationHandler"
	NodeSortRecord    = "xsltc/dom/NodeSortRecord"
	NodeSortFactory   = "xsltc/dom/NodeSortRecordFactory"
	NodeCounter       = "xsltc/dom/NodeCounter"
	W3CNode           = "org/w3c/dom/Node"
	W3CNodeList       = "org/w3c/dom/NodeList"

	Object  = "java/lang/Object"
	String  = "java/lang/String"
	Integer = "java/lang/Integer"
	Double  = "java/lang/Double"
	Boolean = "java/lang/Boolean"
)

// Signatures of the runtime classes.
var (
	DOMSig           = signature.Class(DOM)
	NodeIteratorSig  = signature.Class(NodeIterator)
	TransletSig      = signature.Class(Translet)
	OutputHandlerSig = signature.Class(OutputHandler)
	NodeBoxSig       = signature.Class(NodeBox)
	W3CNodeSig       = signature.Class(W3CNode)
	W3CNodeListSig   = signature.Class(W3CNodeList)
	ObjectSig        = signature.Class(Object)
	StringSig        = signature.Class(String)
	ObjectArraySig   = signature.Array(ObjectSig)
)

// EndNode is the node handle returned by an exhausted iterator. Valid node
// handles are never negative.
const EndNode = -1

// Member identifies a field or method of a runtime class.
type Member struct {
	Class     string
	Name      string
	Signature string
}

// Key returns a unique string for the member, "class.name:signature".
func (m Member) Key() string {
	return m.Class + "." + m.Name + ":" + m.Signature
}

func (m Member) String() string {
	return m.Key()
}

func member(class, name string, args []string, result string) Member {
	return Member{Class: class, Name: name, Signature: signature.Method(args, result)}
}

// Static helpers of the basis library.
var (
	IntToString           = member(BasisLibrary, "intToString", []string{signature.Int}, StringSig)
	RealToString          = member(BasisLibrary, "realToString", []string{signature.Double}, StringSig)
	StringToReal          = member(BasisLibrary, "stringToReal", []string{StringSig}, signature.Double)
	StringF               = member(BasisLibrary, "stringF", []string{ObjectSig, DOMSig}, StringSig)
	NumberF               = member(BasisLibrary, "numberF", []string{ObjectSig, DOMSig}, signature.Double)
	BooleanF              = member(BasisLibrary, "booleanF", []string{ObjectSig}, signature.Boolean)
	ReferenceToNodeSet    = member(BasisLibrary, "referenceToNodeSet", []string{ObjectSig}, NodeIteratorSig)
	ReferenceToNode       = member(BasisLibrary, "referenceToNode", []string{ObjectSig, DOMSig}, signature.Int)
	ReferenceToResultTree = member(BasisLibrary, "referenceToResultTree", []string{ObjectSig}, DOMSig)
	Node2Iterator         = member(BasisLibrary, "node2Iterator", []string{W3CNodeSig, DOMSig}, NodeIteratorSig)
	NodeList2Iterator     = member(BasisLibrary, "nodeList2Iterator", []string{W3CNodeListSig, DOMSig}, NodeIteratorSig)
)

// Document interface methods.
var (
	GetStringValueX      = member(DOM, "getStringValueX", []string{signature.Int}, StringSig)
	GetStringValue       = member(DOM, "getStringValue", nil, StringSig)
	GetIterator          = member(DOM, "getIterator", nil, NodeIteratorSig)
	MakeNode             = member(DOM, "makeNode", []string{signature.Int}, W3CNodeSig)
	MakeNodeFromIterator = member(DOM, "makeNode", []string{NodeIteratorSig}, W3CNodeSig)
	MakeNodeList         = member(DOM, "makeNodeList", []string{signature.Int}, W3CNodeListSig)
	MakeNodeListFromIter = member(DOM, "makeNodeList", []string{NodeIteratorSig}, W3CNodeListSig)
)

// Iterator interface methods.
var (
	IteratorNext  = member(NodeIterator, "next", nil, signature.Int)
	IteratorReset = member(NodeIterator, "reset", nil, NodeIteratorSig)
)

// Constructors, unboxing accessors and fields.
var (
	SingletonIteratorInit = member(SingletonIterator, "<init>", []string{signature.Int}, signature.Void)
	NodeBoxInit           = member(NodeBox, "<init>", []string{signature.Int}, signature.Void)
	NodeBoxField          = Member{Class: NodeBox, Name: "node", Signature: signature.Int}
	IntegerInit           = member(Integer, "<init>", []string{signature.Int}, signature.Void)
	IntegerValue          = member(Integer, "intValue", nil, signature.Int)
	DoubleInit            = member(Double, "<init>", []string{signature.Double}, signature.Void)
	DoubleValue           = member(Double, "doubleValue", nil, signature.Double)
	BooleanInit           = member(Boolean, "<init>", []string{signature.Boolean}, signature.Void)
	BooleanValue          = member(Boolean, "booleanValue", nil, signature.Boolean)
	StringLength          = member(String, "length", nil, signature.Int)
	ObjectToString        = member(Object, "toString", nil, StringSig)
)

// Field names on the generated classes of external units, which reach the
// document and translet through their own instance rather than a parameter.
const (
	DocumentField = "_dom"
	TransletField = "_translet"
)
