package bytecode

// Field is a field declared by a generated class.
type Field struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
	Access    Access `json:"access"`
}

// Class is a finished generated class. It is immutable after creation and
// its constant pool is frozen.
type Class struct {
	name       string
	superName  string
	interfaces []string
	access     Access
	external   bool
	pool       *ConstantPool
	fields     []Field
	methods    []*Method
}

// ClassParams contains parameters for creating a new Class.
type ClassParams struct {
	Name       string
	SuperName  string
	Interfaces []string
	Access     Access
	External   bool
	Pool       *ConstantPool
	Fields     []Field
	Methods    []*Method
}

// NewClass creates a new immutable Class. The pool is frozen.
func NewClass(params ClassParams) *Class {
	pool := params.Pool
	if pool == nil {
		pool = NewConstantPool()
	}
	pool.Freeze()
	return &Class{
		name:       params.Name,
		superName:  params.SuperName,
		interfaces: clone(params.Interfaces),
		access:     params.Access,
		external:   params.External,
		pool:       pool,
		fields:     clone(params.Fields),
		methods:    clone(params.Methods),
	}
}

// Name returns the class name in internal form.
func (c *Class) Name() string {
	return c.name
}

// SuperName returns the superclass name in internal form.
func (c *Class) SuperName() string {
	return c.superName
}

// InterfaceCount returns the number of implemented interfaces.
func (c *Class) InterfaceCount() int {
	return len(c.interfaces)
}

// InterfaceAt returns the implemented interface at the given index.
func (c *Class) InterfaceAt(index int) string {
	return c.interfaces[index]
}

// Access returns the class access flags.
func (c *Class) Access() Access {
	return c.access
}

// External returns true for classes compiled as independent units that
// implement a narrow runtime callback contract.
func (c *Class) External() bool {
	return c.external
}

// Pool returns the frozen constant pool.
func (c *Class) Pool() *ConstantPool {
	return c.pool
}

// FieldCount returns the number of declared fields.
func (c *Class) FieldCount() int {
	return len(c.fields)
}

// FieldAt returns the field at the given index.
func (c *Class) FieldAt(index int) Field {
	return c.fields[index]
}

// MethodCount returns the number of methods.
func (c *Class) MethodCount() int {
	return len(c.methods)
}

// MethodAt returns the method at the given index.
func (c *Class) MethodAt(index int) *Method {
	return c.methods[index]
}

// Method looks up a method by name and signature. An empty signature
// matches the first method with the given name.
func (c *Class) Method(name, signature string) (*Method, bool) {
	for _, m := range c.methods {
		if m.name == name && (signature == "" || m.signature == signature) {
			return m, true
		}
	}
	return nil, false
}

// Stats returns summary statistics for the class.
func (c *Class) Stats() Stats {
	s := Stats{
		MethodCount:   len(c.methods),
		ConstantCount: c.pool.Len(),
	}
	for _, m := range c.methods {
		s.InstructionCount += m.InstructionCount()
		if m.maxStack > s.MaxStack {
			s.MaxStack = m.maxStack
		}
		if m.maxLocals > s.MaxLocals {
			s.MaxLocals = m.maxLocals
		}
	}
	return s
}
