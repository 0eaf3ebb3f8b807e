package vm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/deepnoodle-ai/xsltc/abi"
)

func defaultNatives() map[string]Native {
	natives := map[string]Native{}
	add := func(m abi.Member, fn Native) {
		natives[m.Key()] = fn
	}

	add(abi.IntToString, func(_ *VirtualMachine, args []any) (any, error) {
		return strconv.Itoa(int(args[0].(int32))), nil
	})
	add(abi.RealToString, func(_ *VirtualMachine, args []any) (any, error) {
		return FormatNumber(args[0].(float64)), nil
	})
	add(abi.StringToReal, func(_ *VirtualMachine, args []any) (any, error) {
		s, _ := args[0].(string)
		return ParseNumber(s), nil
	})
	add(abi.StringF, func(vm *VirtualMachine, args []any) (any, error) {
		return vm.stringValue(args[0], args[1])
	})
	add(abi.NumberF, func(vm *VirtualMachine, args []any) (any, error) {
		return vm.numberValue(args[0], args[1])
	})
	add(abi.BooleanF, func(vm *VirtualMachine, args []any) (any, error) {
		return vm.booleanValue(args[0])
	})
	add(abi.ReferenceToNodeSet, func(_ *VirtualMachine, args []any) (any, error) {
		switch v := args[0].(type) {
		case *Object:
			if v.Class == abi.NodeBox {
				return NewIterator(v.Fields["node"].(int32)), nil
			}
		}
		return iteratorOf(args[0])
	})
	add(abi.ReferenceToNode, func(_ *VirtualMachine, args []any) (any, error) {
		switch v := args[0].(type) {
		case *Object:
			if v.Class == abi.NodeBox {
				return v.Fields["node"].(int32), nil
			}
		}
		it, err := iteratorOf(args[0])
		if err != nil {
			return nil, err
		}
		return it.Next(), nil
	})
	add(abi.ReferenceToResultTree, func(_ *VirtualMachine, args []any) (any, error) {
		return documentOf(args[0])
	})
	add(abi.Node2Iterator, func(_ *VirtualMachine, args []any) (any, error) {
		obj, ok := args[0].(*Object)
		if !ok {
			return nil, fmt.Errorf("node2Iterator: not a node: %T", args[0])
		}
		return NewIterator(obj.Fields["node"].(int32)), nil
	})
	add(abi.NodeList2Iterator, func(_ *VirtualMachine, args []any) (any, error) {
		obj, ok := args[0].(*Object)
		if !ok {
			return nil, fmt.Errorf("nodeList2Iterator: not a node list: %T", args[0])
		}
		return NewIterator(obj.Fields["nodes"].([]int32)...), nil
	})

	add(abi.GetStringValueX, func(_ *VirtualMachine, args []any) (any, error) {
		doc, err := documentOf(args[0])
		if err != nil {
			return nil, err
		}
		return doc.StringValue(args[1].(int32)), nil
	})
	add(abi.GetStringValue, func(_ *VirtualMachine, args []any) (any, error) {
		doc, err := documentOf(args[0])
		if err != nil {
			return nil, err
		}
		return doc.StringValue(0), nil
	})
	add(abi.GetIterator, func(_ *VirtualMachine, args []any) (any, error) {
		doc, err := documentOf(args[0])
		if err != nil {
			return nil, err
		}
		return NewIterator(doc.Nodes()...), nil
	})
	makeNode := func(node int32) *Object {
		obj := NewObject(abi.W3CNode)
		obj.Fields["node"] = node
		return obj
	}
	makeNodeList := func(nodes []int32) *Object {
		obj := NewObject(abi.W3CNodeList)
		obj.Fields["nodes"] = nodes
		return obj
	}
	add(abi.MakeNode, func(_ *VirtualMachine, args []any) (any, error) {
		return makeNode(args[1].(int32)), nil
	})
	add(abi.MakeNodeFromIterator, func(_ *VirtualMachine, args []any) (any, error) {
		it, err := iteratorOf(args[1])
		if err != nil {
			return nil, err
		}
		return makeNode(it.Next()), nil
	})
	add(abi.MakeNodeList, func(_ *VirtualMachine, args []any) (any, error) {
		return makeNodeList([]int32{args[1].(int32)}), nil
	})
	add(abi.MakeNodeListFromIter, func(_ *VirtualMachine, args []any) (any, error) {
		it, err := iteratorOf(args[1])
		if err != nil {
			return nil, err
		}
		var nodes []int32
		for n := it.Next(); n != abi.EndNode; n = it.Next() {
			nodes = append(nodes, n)
		}
		return makeNodeList(nodes), nil
	})

	add(abi.IteratorNext, func(_ *VirtualMachine, args []any) (any, error) {
		it, err := iteratorOf(args[0])
		if err != nil {
			return nil, err
		}
		return it.Next(), nil
	})
	add(abi.IteratorReset, func(_ *VirtualMachine, args []any) (any, error) {
		it, err := iteratorOf(args[0])
		if err != nil {
			return nil, err
		}
		it.Reset()
		return args[0], nil
	})
	add(abi.SingletonIteratorInit, func(_ *VirtualMachine, args []any) (any, error) {
		args[0].(*Object).Native = NewIterator(args[1].(int32))
		return nil, nil
	})

	setField := func(name string) Native {
		return func(_ *VirtualMachine, args []any) (any, error) {
			obj, ok := args[0].(*Object)
			if !ok {
				return nil, fmt.Errorf("constructor called on %T", args[0])
			}
			obj.Fields[name] = args[1]
			return nil, nil
		}
	}
	getField := func(name string) Native {
		return func(_ *VirtualMachine, args []any) (any, error) {
			obj, ok := args[0].(*Object)
			if !ok {
				return nil, fmt.Errorf("accessor called on %T", args[0])
			}
			return obj.Fields[name], nil
		}
	}
	add(abi.NodeBoxInit, setField(abi.NodeBoxField.Name))
	add(abi.IntegerInit, setField("value"))
	add(abi.IntegerValue, getField("value"))
	add(abi.DoubleInit, setField("value"))
	add(abi.DoubleValue, getField("value"))
	add(abi.BooleanInit, setField("value"))
	add(abi.BooleanValue, getField("value"))

	add(abi.StringLength, func(_ *VirtualMachine, args []any) (any, error) {
		s, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("length called on %T", args[0])
		}
		return int32(utf8.RuneCountInString(s)), nil
	})
	add(abi.ObjectToString, func(_ *VirtualMachine, args []any) (any, error) {
		if args[0] == nil {
			return nil, fmt.Errorf("toString called on null")
		}
		return fmt.Sprint(args[0]), nil
	})
	return natives
}

// FormatNumber formats a real the way the string() function of the query
// language does: integral values have no fraction, and there is no
// exponent notation.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == math.Trunc(v) && math.Abs(v) < 1e15:
		if v == 0 {
			return "0"
		}
		return strconv.FormatFloat(v, 'f', 0, 64)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// ParseNumber converts a string to a real the way the number() function of
// the query language does. Anything that is not a plain decimal number is
// NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "eExXpP_+") || strings.EqualFold(s, "nan") ||
		strings.Contains(strings.ToLower(s), "inf") {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func (vm *VirtualMachine) stringValue(v, dom any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case *Document:
		return v.StringValue(0), nil
	case *Object:
		switch v.Class {
		case abi.Double:
			return FormatNumber(v.Fields["value"].(float64)), nil
		case abi.Integer:
			return strconv.Itoa(int(v.Fields["value"].(int32))), nil
		case abi.Boolean:
			if v.Fields["value"].(int32) != 0 {
				return "true", nil
			}
			return "false", nil
		case abi.NodeBox:
			doc, err := vm.documentArg(dom)
			if err != nil {
				return "", err
			}
			return doc.StringValue(v.Fields["node"].(int32)), nil
		}
	}
	it, err := iteratorOf(v)
	if err != nil {
		return fmt.Sprint(v), nil
	}
	doc, err := vm.documentArg(dom)
	if err != nil {
		return "", err
	}
	return doc.StringValue(it.Next()), nil
}

func (vm *VirtualMachine) numberValue(v, dom any) (float64, error) {
	if obj, ok := v.(*Object); ok {
		switch obj.Class {
		case abi.Double:
			return obj.Fields["value"].(float64), nil
		case abi.Integer:
			return float64(obj.Fields["value"].(int32)), nil
		case abi.Boolean:
			return float64(obj.Fields["value"].(int32)), nil
		}
	}
	s, err := vm.stringValue(v, dom)
	if err != nil {
		return 0, err
	}
	return ParseNumber(s), nil
}

func (vm *VirtualMachine) booleanValue(v any) (int32, error) {
	switch v := v.(type) {
	case nil:
		return 0, nil
	case string:
		return boolInt(v != ""), nil
	case *Document:
		return 1, nil
	case *Object:
		switch v.Class {
		case abi.Double:
			d := v.Fields["value"].(float64)
			return boolInt(d != 0 && !math.IsNaN(d)), nil
		case abi.Integer, abi.Boolean:
			return boolInt(v.Fields["value"].(int32) != 0), nil
		case abi.NodeBox:
			return 1, nil
		}
	}
	it, err := iteratorOf(v)
	if err != nil {
		return 1, nil
	}
	return boolInt(it.Next() != abi.EndNode), nil
}

func (vm *VirtualMachine) documentArg(dom any) (*Document, error) {
	if dom == nil {
		return vm.document, nil
	}
	return documentOf(dom)
}
