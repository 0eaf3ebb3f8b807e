package compiler

import (
	"fmt"

	"github.com/deepnoodle-ai/xsltc/abi"
	"github.com/deepnoodle-ai/xsltc/signature"
)

// UnitKind identifies a kind of generated method. Each kind has a fixed
// convention for which values live in which local slots.
type UnitKind int

const (
	// Template is a template body method of the translet class.
	Template UnitKind = iota
	// Named is a named template; its parameters follow the fixed slots.
	Named
	// Predicate is the test method of a compiled predicate class.
	Predicate
	// Compare is the comparison method of a compiled sort key class.
	Compare
	// AttributeSet is the static method that outputs a named attribute set.
	AttributeSet
	// SortRecordFactory is the record construction method of a sort
	// record factory class.
	SortRecordFactory
)

var unitKindNames = map[UnitKind]string{
	Template:          "template",
	Named:             "named-template",
	Predicate:         "predicate",
	Compare:           "compare",
	AttributeSet:      "attribute-set",
	SortRecordFactory: "sort-record-factory",
}

func (k UnitKind) String() string {
	if name, ok := unitKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("UnitKind(%d)", int(k))
}

// External returns true for kinds generated into their own class, which
// talks to the runtime through a narrow callback contract.
func (k UnitKind) External() bool {
	switch k {
	case Predicate, Compare, AttributeSet, SortRecordFactory:
		return true
	}
	return false
}

// UnitKinds returns all unit kinds in declaration order.
func UnitKinds() []UnitKind {
	return []UnitKind{Template, Named, Predicate, Compare, AttributeSet, SortRecordFactory}
}

// ParseUnitKind returns the unit kind with the given name.
func ParseUnitKind(name string) (UnitKind, bool) {
	for k, n := range unitKindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Value names a value that a unit kind keeps at a fixed location.
type Value int

const (
	ValueSelf Value = iota
	ValueDocument
	ValueIterator
	ValueOutput
	ValueCurrentNode
	ValueTranslet
	ValueContextNode
	ValuePosition
	ValueLast
	ValueLevel
	ValueParameters
)

var valueNames = []string{
	ValueSelf:        "self",
	ValueDocument:    "document",
	ValueIterator:    "iterator",
	ValueOutput:      "output sink",
	ValueCurrentNode: "current node",
	ValueTranslet:    "translet",
	ValueContextNode: "context node",
	ValuePosition:    "position",
	ValueLast:        "last",
	ValueLevel:       "level",
	ValueParameters:  "parameters",
}

func (v Value) String() string {
	if int(v) >= 0 && int(v) < len(valueNames) {
		return valueNames[v]
	}
	return fmt.Sprintf("Value(%d)", int(v))
}

// Slot is a fixed local slot of a layout.
type Slot struct {
	Index     int    `json:"index"`
	Value     Value  `json:"-"`
	Name      string `json:"name"`
	Signature string `json:"signature"`
	// Local marks a fixed slot that is not a method parameter. The unit
	// initializes it itself on entry.
	Local bool `json:"local,omitempty"`
}

// FieldAccess is a value reached through a field of the generated
// instance rather than a local slot.
type FieldAccess struct {
	Value     Value  `json:"-"`
	Name      string `json:"name"`
	Field     string `json:"field"`
	Signature string `json:"signature"`
}

// Layout is the storage convention of a unit kind.
type Layout struct {
	Kind           UnitKind      `json:"-"`
	Unit           string        `json:"unit"`
	External       bool          `json:"external"`
	Static         bool          `json:"static"`
	Slots          []Slot        `json:"slots"`
	Fields         []FieldAccess `json:"fields,omitempty"`
	FirstAvailable int           `json:"first_available"`
	Result         string        `json:"result"`
}

// Slot returns the fixed slot holding v. Units whose instance is the
// translet itself find the translet in the self slot.
func (l *Layout) Slot(v Value) (Slot, bool) {
	for _, s := range l.Slots {
		if s.Value == v {
			return s, true
		}
	}
	if v == ValueTranslet {
		if self, ok := l.Slot(ValueSelf); ok && self.Signature == abi.TransletSig {
			return self, true
		}
	}
	return Slot{}, false
}

// Field returns the field access for v.
func (l *Layout) Field(v Value) (FieldAccess, bool) {
	for _, f := range l.Fields {
		if f.Value == v {
			return f, true
		}
	}
	return FieldAccess{}, false
}

// Has returns true if the unit can reach v at all.
func (l *Layout) Has(v Value) bool {
	if _, ok := l.Slot(v); ok {
		return true
	}
	_, ok := l.Field(v)
	return ok
}

// Signature returns the method signature of a unit with this layout. The
// fixed slots other than self come first, followed by extra.
func (l *Layout) Signature(extra ...string) string {
	var args []string
	for _, s := range l.Slots {
		if s.Value == ValueSelf || s.Local {
			continue
		}
		args = append(args, s.Signature)
	}
	args = append(args, extra...)
	return signature.Method(args, l.Result)
}

func slot(index int, v Value, sig string) Slot {
	return Slot{Index: index, Value: v, Name: v.String(), Signature: sig}
}

func field(v Value, name, sig string) FieldAccess {
	return FieldAccess{Value: v, Name: v.String(), Field: name, Signature: sig}
}

// LayoutOf returns the storage layout of the given unit kind.
func LayoutOf(kind UnitKind) *Layout {
	l := &Layout{Kind: kind, Unit: kind.String(), External: kind.External()}
	switch kind {
	case Predicate:
		l.Slots = []Slot{
			slot(0, ValueSelf, abi.ObjectSig),
			slot(1, ValueContextNode, signature.Int),
			slot(2, ValuePosition, signature.Int),
			slot(3, ValueLast, signature.Int),
			slot(4, ValueCurrentNode, signature.Int),
			slot(5, ValueTranslet, abi.TransletSig),
			slot(6, ValueIterator, abi.NodeIteratorSig),
		}
		l.Fields = []FieldAccess{field(ValueDocument, abi.DocumentField, abi.DOMSig)}
		l.FirstAvailable = 7
		l.Result = signature.Boolean
	case Compare:
		l.Slots = []Slot{
			slot(0, ValueSelf, abi.ObjectSig),
			slot(1, ValueDocument, abi.DOMSig),
			slot(2, ValueCurrentNode, signature.Int),
			slot(3, ValueLevel, signature.Int),
			slot(4, ValueTranslet, abi.TransletSig),
			slot(5, ValueLast, signature.Int),
			{Index: 6, Value: ValueIterator, Name: ValueIterator.String(), Signature: abi.NodeIteratorSig, Local: true},
		}
		l.FirstAvailable = 7
		l.Result = abi.StringSig
	case AttributeSet:
		l.Static = true
		l.Slots = []Slot{
			slot(0, ValueTranslet, abi.TransletSig),
			slot(1, ValueDocument, abi.DOMSig),
			slot(2, ValueIterator, abi.NodeIteratorSig),
			slot(3, ValueOutput, abi.OutputHandlerSig),
			slot(4, ValueCurrentNode, signature.Int),
			slot(5, ValueParameters, abi.ObjectArraySig),
		}
		l.FirstAvailable = 6
		l.Result = signature.Void
	case SortRecordFactory:
		l.Slots = []Slot{
			slot(0, ValueSelf, abi.ObjectSig),
			slot(1, ValueCurrentNode, signature.Int),
			slot(2, ValueLast, signature.Int),
		}
		l.Fields = []FieldAccess{
			field(ValueDocument, abi.DocumentField, abi.DOMSig),
			field(ValueTranslet, abi.TransletField, abi.TransletSig),
		}
		l.FirstAvailable = 3
		l.Result = signature.Class(abi.NodeSortRecord)
	default:
		// Template and Named share the translet method convention.
		l.Slots = []Slot{
			slot(0, ValueSelf, abi.TransletSig),
			slot(1, ValueDocument, abi.DOMSig),
			slot(2, ValueIterator, abi.NodeIteratorSig),
			slot(3, ValueOutput, abi.OutputHandlerSig),
			slot(4, ValueCurrentNode, signature.Int),
		}
		l.FirstAvailable = 5
		l.Result = signature.Void
	}
	return l
}
