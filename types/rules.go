package types

import (
	"sort"

	"github.com/deepnoodle-ai/xsltc/abi"
	"github.com/deepnoodle-ai/xsltc/op"
)

// Distance levels of the declared conversions.
const (
	distIdentity  = 0
	distWiden     = 1
	distValue     = 2
	distIndirect  = 3
	distBox       = 4
	distReference = 5
)

type emitFunc func(a *asm, from, to Type) error

// Rule is one declared edge of the coercion matrix.
type Rule struct {
	From     Kind
	To       Kind
	Distance int
	// Via briefly describes the emitted code.
	Via  string
	emit emitFunc
}

type ruleKey struct {
	from, to Kind
}

var rules = map[ruleKey]*Rule{}

func declare(from, to Kind, distance int, via string, emit emitFunc) {
	key := ruleKey{from, to}
	if _, dup := rules[key]; dup {
		panic("types: duplicate conversion rule " + from.String() + " -> " + to.String())
	}
	rules[key] = &Rule{From: from, To: to, Distance: distance, Via: via, emit: emit}
}

// Rules returns every declared conversion, ordered by source then target
// kind. Identity conversions are implicit and not listed.
func Rules() []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// LookupRule returns the declared conversion between two kinds.
func LookupRule(from, to Kind) (Rule, bool) {
	r, ok := rules[ruleKey{from, to}]
	if !ok {
		return Rule{}, false
	}
	return *r, true
}

func nothing(*asm, Type, Type) error { return nil }

func opcodes(codes ...op.Code) emitFunc {
	return func(a *asm, _, _ Type) error {
		for _, c := range codes {
			a.emit(c)
		}
		return nil
	}
}

func callStatic(m abi.Member, then ...op.Code) emitFunc {
	return func(a *asm, _, _ Type) error {
		a.invokeStatic(m)
		for _, c := range then {
			a.emit(c)
		}
		return nil
	}
}

func callWithDocument(m abi.Member, then ...op.Code) emitFunc {
	return func(a *asm, _, _ Type) error {
		if err := a.loadDocument(); err != nil {
			return err
		}
		a.invokeStatic(m)
		for _, c := range then {
			a.emit(c)
		}
		return nil
	}
}

func boxed(a *asm, from, _ Type) error {
	return box(a, from)
}

// viaTest materializes the desynthesized boolean test of from.
func viaTest(a *asm, from, _ Type) error {
	falseList, err := desynthesize(a, from)
	if err != nil {
		return err
	}
	a.materialize(falseList)
	return nil
}

// then chains two emitters, the second receiving the intermediate type.
func then(first emitFunc, mid Type, second emitFunc) emitFunc {
	return func(a *asm, from, to Type) error {
		if err := first(a, from, mid); err != nil {
			return err
		}
		return second(a, mid, to)
	}
}

func init() {
	// Integers
	declare(KindInt, KindReal, distWiden, "I2D", opcodes(op.I2D))
	declare(KindInt, KindString, distValue, "intToString", callStatic(abi.IntToString))
	declare(KindInt, KindReference, distBox, "box java.lang.Integer", boxed)

	// Reals
	declare(KindReal, KindInt, distWiden, "D2I", opcodes(op.D2I))
	declare(KindReal, KindString, distValue, "realToString", callStatic(abi.RealToString))
	declare(KindReal, KindBoolean, distValue, "non-zero and not NaN", viaTest)
	declare(KindReal, KindReference, distBox, "box java.lang.Double", boxed)

	// Booleans
	declare(KindBoolean, KindInt, distValue, "0/1", nothing)
	declare(KindBoolean, KindReal, distValue, "I2D", opcodes(op.I2D))
	declare(KindBoolean, KindString, distValue, `"true"/"false"`, booleanToString)
	declare(KindBoolean, KindReference, distBox, "box java.lang.Boolean", boxed)

	// Strings
	declare(KindString, KindInt, distValue, "stringToReal, D2I", callStatic(abi.StringToReal, op.D2I))
	declare(KindString, KindReal, distValue, "stringToReal", callStatic(abi.StringToReal))
	declare(KindString, KindBoolean, distValue, "non-empty", viaTest)
	declare(KindString, KindReference, distBox, "as object", nothing)

	// Node sets
	declare(KindNodeSet, KindBoolean, distValue, "non-empty", viaTest)
	declare(KindNodeSet, KindString, distValue, "string value of first node", nodeSetToString)
	declare(KindNodeSet, KindNode, distValue, "first node", nodeSetToNode)
	declare(KindNodeSet, KindReal, distIndirect, "string value, stringToReal",
		then(nodeSetToString, String, callStatic(abi.StringToReal)))
	declare(KindNodeSet, KindInt, distIndirect, "string value, stringToReal, D2I",
		then(nodeSetToString, String, callStatic(abi.StringToReal, op.D2I)))
	declare(KindNodeSet, KindReference, distBox, "as object", nothing)

	// Nodes
	declare(KindNode, KindNode, distWiden, "any node", nothing)
	declare(KindNode, KindBoolean, distValue, "handle is not END", viaTest)
	declare(KindNode, KindString, distValue, "getStringValueX", nodeToString)
	declare(KindNode, KindNodeSet, distValue, "singleton iterator", nodeToNodeSet)
	declare(KindNode, KindReal, distIndirect, "string value, stringToReal",
		then(nodeToString, String, callStatic(abi.StringToReal)))
	declare(KindNode, KindInt, distIndirect, "string value, stringToReal, D2I",
		then(nodeToString, String, callStatic(abi.StringToReal, op.D2I)))
	declare(KindNode, KindReference, distBox, "box xsltc.runtime.Node", boxed)

	// Result tree fragments
	declare(KindResultTree, KindBoolean, distValue, "always true", viaTest)
	declare(KindResultTree, KindString, distValue, "getStringValue", resultTreeToString)
	declare(KindResultTree, KindReal, distIndirect, "string value, stringToReal",
		then(resultTreeToString, String, callStatic(abi.StringToReal)))
	declare(KindResultTree, KindInt, distIndirect, "string value, stringToReal, D2I",
		then(resultTreeToString, String, callStatic(abi.StringToReal, op.D2I)))
	declare(KindResultTree, KindNodeSet, distIndirect, "getIterator", resultTreeToNodeSet)
	declare(KindResultTree, KindReference, distBox, "as object", nothing)

	// References
	declare(KindReference, KindInt, distReference, "numberF, D2I", callWithDocument(abi.NumberF, op.D2I))
	declare(KindReference, KindReal, distReference, "numberF", callWithDocument(abi.NumberF))
	declare(KindReference, KindBoolean, distReference, "booleanF", callStatic(abi.BooleanF))
	declare(KindReference, KindString, distReference, "stringF", callWithDocument(abi.StringF))
	declare(KindReference, KindNodeSet, distReference, "referenceToNodeSet", callStatic(abi.ReferenceToNodeSet))
	declare(KindReference, KindNode, distReference, "referenceToNode", callWithDocument(abi.ReferenceToNode))
	declare(KindReference, KindResultTree, distReference, "referenceToResultTree", callStatic(abi.ReferenceToResultTree))
	declare(KindReference, KindObject, distReference, "CHECKCAST", castToObject)

	// External objects
	declare(KindObject, KindObject, distValue, "CHECKCAST", castToObject)
	declare(KindObject, KindString, distValue, `toString or ""`, objectToString)
	declare(KindObject, KindBoolean, distValue, "non-null", viaTest)
	declare(KindObject, KindReference, distBox, "as object", nothing)

	// Void
	declare(KindVoid, KindString, distValue, `""`, voidToString)
}
