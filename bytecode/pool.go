package bytecode

import (
	"fmt"
	"math"
)

// EntryKind identifies the kind of a constant pool entry.
type EntryKind uint8

const (
	EntryInteger EntryKind = iota + 1
	EntryLong
	EntryDouble
	EntryString
	EntryClass
	EntryField
	EntryMethod
	EntryInterfaceMethod
)

func (k EntryKind) String() string {
	switch k {
	case EntryInteger:
		return "Integer"
	case EntryLong:
		return "Long"
	case EntryDouble:
		return "Double"
	case EntryString:
		return "String"
	case EntryClass:
		return "Class"
	case EntryField:
		return "Fieldref"
	case EntryMethod:
		return "Methodref"
	case EntryInterfaceMethod:
		return "InterfaceMethodref"
	default:
		return "Invalid"
	}
}

// Entry is a single constant pool entry. Only the fields relevant to Kind
// are set. For member references Class is the owner in internal form
// ("a/b/C"), Name is the member name and Signature its descriptor.
type Entry struct {
	Kind      EntryKind `json:"kind"`
	Int       int64     `json:"int,omitempty"`
	Double    float64   `json:"double,omitempty"`
	String    string    `json:"string,omitempty"`
	Class     string    `json:"class,omitempty"`
	Name      string    `json:"name,omitempty"`
	Signature string    `json:"signature,omitempty"`
}

// Wide returns true if a constant of this kind occupies two stack units.
func (e Entry) Wide() bool {
	return e.Kind == EntryLong || e.Kind == EntryDouble
}

// IsMember returns true for field and method references.
func (e Entry) IsMember() bool {
	switch e.Kind {
	case EntryField, EntryMethod, EntryInterfaceMethod:
		return true
	}
	return false
}

func (e Entry) describe() string {
	switch e.Kind {
	case EntryInteger, EntryLong:
		return fmt.Sprintf("%d", e.Int)
	case EntryDouble:
		return fmt.Sprintf("%g", e.Double)
	case EntryString:
		return fmt.Sprintf("%q", e.String)
	case EntryClass:
		return e.Class
	default:
		return fmt.Sprintf("%s.%s:%s", e.Class, e.Name, e.Signature)
	}
}

// Describe returns a short human-readable rendering of the entry.
func (e Entry) Describe() string {
	return e.describe()
}

type poolKey struct {
	kind EntryKind
	a    string
	b    string
	c    string
	n    uint64
}

// ConstantPool holds the constants and member references of one class.
// Entries are deduplicated and indexes start at 1; index 0 is never valid.
// A pool is mutated only while its class is being generated and is not safe
// for concurrent writers.
type ConstantPool struct {
	entries []Entry
	index   map[poolKey]int
	frozen  bool
}

// NewConstantPool returns an empty constant pool.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{index: map[poolKey]int{}}
}

func (p *ConstantPool) add(key poolKey, e Entry) int {
	if idx, ok := p.index[key]; ok {
		return idx
	}
	if p.frozen {
		panic("bytecode: add to a frozen constant pool")
	}
	p.entries = append(p.entries, e)
	idx := len(p.entries)
	p.index[key] = idx
	return idx
}

// AddInteger adds an integer constant.
func (p *ConstantPool) AddInteger(v int32) int {
	return p.add(poolKey{kind: EntryInteger, n: uint64(uint32(v))},
		Entry{Kind: EntryInteger, Int: int64(v)})
}

// AddLong adds a long constant.
func (p *ConstantPool) AddLong(v int64) int {
	return p.add(poolKey{kind: EntryLong, n: uint64(v)},
		Entry{Kind: EntryLong, Int: v})
}

// AddDouble adds a double constant. NaN values share one entry.
func (p *ConstantPool) AddDouble(v float64) int {
	return p.add(poolKey{kind: EntryDouble, n: math.Float64bits(v)},
		Entry{Kind: EntryDouble, Double: v})
}

// AddString adds a string constant.
func (p *ConstantPool) AddString(s string) int {
	return p.add(poolKey{kind: EntryString, a: s},
		Entry{Kind: EntryString, String: s})
}

// AddClass adds a class reference. The name is in internal form.
func (p *ConstantPool) AddClass(name string) int {
	return p.add(poolKey{kind: EntryClass, a: name},
		Entry{Kind: EntryClass, Class: name})
}

// AddFieldRef adds a field reference.
func (p *ConstantPool) AddFieldRef(class, name, sig string) int {
	return p.add(poolKey{kind: EntryField, a: class, b: name, c: sig},
		Entry{Kind: EntryField, Class: class, Name: name, Signature: sig})
}

// AddMethodRef adds a reference to a class method.
func (p *ConstantPool) AddMethodRef(class, name, sig string) int {
	return p.add(poolKey{kind: EntryMethod, a: class, b: name, c: sig},
		Entry{Kind: EntryMethod, Class: class, Name: name, Signature: sig})
}

// AddInterfaceMethodRef adds a reference to an interface method.
func (p *ConstantPool) AddInterfaceMethodRef(class, name, sig string) int {
	return p.add(poolKey{kind: EntryInterfaceMethod, a: class, b: name, c: sig},
		Entry{Kind: EntryInterfaceMethod, Class: class, Name: name, Signature: sig})
}

// Len returns the number of entries in the pool.
func (p *ConstantPool) Len() int {
	return len(p.entries)
}

// EntryAt returns the entry at the given 1-based index.
func (p *ConstantPool) EntryAt(index int) (Entry, error) {
	if index < 1 || index > len(p.entries) {
		return Entry{}, fmt.Errorf("constant pool index out of range: %d", index)
	}
	return p.entries[index-1], nil
}

// Entries returns a copy of all entries in index order.
func (p *ConstantPool) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Freeze prevents new entries from being added. Lookups of existing
// entries through the Add methods keep working.
func (p *ConstantPool) Freeze() {
	p.frozen = true
}

// Frozen returns true once the owning class has been finished.
func (p *ConstantPool) Frozen() bool {
	return p.frozen
}
