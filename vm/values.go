package vm

import (
	"fmt"
	"sort"
)

// Values on the operand stack and in locals are plain Go values:
//
//	int      -> int32 (booleans are 0 or 1)
//	long     -> int64, followed by a wide marker
//	double   -> float64, followed by a wide marker
//	String   -> string
//	null     -> nil
//	objects  -> *Object, *Iterator or *Document
//
// Long and double values occupy two units, like in the target VM, so stack
// manipulation opcodes such as DUP_X2 behave exactly as they do there.
type wide struct{}

// Object is an instance of a runtime class created with NEW.
type Object struct {
	Class  string
	Fields map[string]any
	// Native holds the Go value backing instances of runtime classes such
	// as SingletonIterator.
	Native any
}

// NewObject returns an empty instance of the given class.
func NewObject(class string) *Object {
	return &Object{Class: class, Fields: map[string]any{}}
}

func (o *Object) String() string {
	if v, ok := o.Fields["value"]; ok {
		return fmt.Sprint(v)
	}
	return o.Class
}

// Iterator is a node iterator over a fixed sequence of node handles.
type Iterator struct {
	nodes []int32
	pos   int
}

// NewIterator returns an iterator over the given node handles.
func NewIterator(nodes ...int32) *Iterator {
	it := &Iterator{}
	it.nodes = append(it.nodes, nodes...)
	return it
}

// Next returns the next node handle, or -1 when exhausted.
func (it *Iterator) Next() int32 {
	if it.pos >= len(it.nodes) {
		return -1
	}
	n := it.nodes[it.pos]
	it.pos++
	return n
}

// Reset rewinds the iterator.
func (it *Iterator) Reset() *Iterator {
	it.pos = 0
	return it
}

// Len returns the total number of nodes.
func (it *Iterator) Len() int {
	return len(it.nodes)
}

// Document is a minimal in-memory document: a map from node handle to the
// string value of that node. Handle 0 is the root.
type Document struct {
	values map[int32]string
}

// NewDocument returns a document with the given node string values.
func NewDocument(values map[int32]string) *Document {
	d := &Document{values: map[int32]string{}}
	for k, v := range values {
		d.values[k] = v
	}
	return d
}

// StringValue returns the string value of node, or "" for unknown nodes
// and the end marker.
func (d *Document) StringValue(node int32) string {
	return d.values[node]
}

// Nodes returns every node handle in document order.
func (d *Document) Nodes() []int32 {
	nodes := make([]int32, 0, len(d.values))
	for n := range d.values {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

func iteratorOf(v any) (*Iterator, error) {
	switch v := v.(type) {
	case *Iterator:
		return v, nil
	case *Object:
		if it, ok := v.Native.(*Iterator); ok {
			return it, nil
		}
	}
	return nil, fmt.Errorf("not a node iterator: %T", v)
}

func documentOf(v any) (*Document, error) {
	if d, ok := v.(*Document); ok && d != nil {
		return d, nil
	}
	return nil, fmt.Errorf("not a document: %T", v)
}
