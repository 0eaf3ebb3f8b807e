package compiler

import (
	"fmt"

	"github.com/deepnoodle-ai/xsltc/abi"
	"github.com/deepnoodle-ai/xsltc/bytecode"
	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/deepnoodle-ai/xsltc/types"
	"github.com/rs/zerolog"
)

// ClassGenerator is the generation context of one class. It owns the
// constant pool shared by all methods of the class and the table of
// committed methods.
type ClassGenerator struct {
	name       string
	superName  string
	interfaces []string
	external   bool
	pool       *bytecode.ConstantPool
	fields     []bytecode.Field
	methods    []*bytecode.Method
	sink       errors.Sink
	logger     zerolog.Logger
	tiePolicy  types.TiePolicy
	finished   bool
}

// NewClassGenerator creates the generation context of a class. Names are
// in internal form. External classes hold the methods of external unit
// kinds; internal classes hold template methods. Pass nil for cfg to use
// defaults.
func NewClassGenerator(name, superName string, external bool, cfg *Config) *ClassGenerator {
	if superName == "" {
		superName = abi.Object
	}
	c := &ClassGenerator{
		name:       name,
		superName:  superName,
		interfaces: cfg.interfaces(),
		external:   external,
		pool:       bytecode.NewConstantPool(),
		sink:       cfg.sink(),
		tiePolicy:  cfg.tiePolicy(),
	}
	c.logger = cfg.logger().With().Str("class", name).Logger()
	c.logger.Debug().Bool("external", external).Str("super", superName).Msg("class created")
	return c
}

// Name returns the class name in internal form.
func (c *ClassGenerator) Name() string {
	return c.name
}

// SuperName returns the superclass name in internal form.
func (c *ClassGenerator) SuperName() string {
	return c.superName
}

// External returns true for classes that hold external units.
func (c *ClassGenerator) External() bool {
	return c.external
}

// Pool returns the constant pool of the class.
func (c *ClassGenerator) Pool() *bytecode.ConstantPool {
	return c.pool
}

// Sink returns the diagnostic sink of the class.
func (c *ClassGenerator) Sink() errors.Sink {
	return c.sink
}

// TiePolicy returns the overload tie policy used by the class's methods.
func (c *ClassGenerator) TiePolicy() types.TiePolicy {
	return c.tiePolicy
}

// AddField declares a field. Declaring a field twice with the same name is
// a no-op.
func (c *ClassGenerator) AddField(name, sig string, access bytecode.Access) {
	for _, f := range c.fields {
		if f.Name == name {
			return
		}
	}
	c.fields = append(c.fields, bytecode.Field{Name: name, Signature: sig, Access: access})
}

// HasField returns true if a field with the given name is declared.
func (c *ClassGenerator) HasField(name string) bool {
	for _, f := range c.fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// NewMethod creates the generation context of a method of the given unit
// kind. The kind must match the class: external kinds only in external
// classes and template kinds only in internal ones.
func (c *ClassGenerator) NewMethod(name string, kind UnitKind) (*MethodGenerator, error) {
	if c.finished {
		return nil, errors.CompileErrorf(errors.E5006, "class %s is already finished", c.name).
			WithLocation(c.name, name)
	}
	if kind.External() != c.external {
		return nil, errors.NewCompileError(errors.E5006, kind, c.classKind()).
			WithLocation(c.name, name)
	}
	layout := LayoutOf(kind)
	for _, f := range layout.Fields {
		c.AddField(f.Field, f.Signature, bytecode.AccProtected)
	}
	return newMethodGenerator(c, name, layout), nil
}

func (c *ClassGenerator) classKind() string {
	if c.external {
		return "external"
	}
	return "internal"
}

// AddMethod commits mg: its instruction list is sealed, its derived
// metadata is computed and the resulting immutable method is added to the
// class method table. The method generator rejects further changes.
func (c *ClassGenerator) AddMethod(mg *MethodGenerator) (*bytecode.Method, error) {
	if mg.class != c {
		return nil, fmt.Errorf("method %s belongs to class %s, not %s", mg.name, mg.class.name, c.name)
	}
	if c.finished {
		return nil, errors.CompileErrorf(errors.E5006, "class %s is already finished", c.name).
			WithLocation(c.name, mg.name)
	}
	m, err := mg.commit()
	if err != nil {
		c.logger.Debug().Str("method", mg.name).Err(err).Msg("method rejected")
		return nil, err
	}
	c.methods = append(c.methods, m)
	c.logger.Debug().
		Str("method", m.Name()).
		Str("signature", m.Signature()).
		Int("instructions", m.InstructionCount()).
		Int("max_locals", m.MaxLocals()).
		Int("max_stack", m.MaxStack()).
		Msg("method committed")
	return m, nil
}

// MethodCount returns the number of committed methods.
func (c *ClassGenerator) MethodCount() int {
	return len(c.methods)
}

// Finish returns the immutable class. The constant pool is frozen and no
// more methods can be created.
func (c *ClassGenerator) Finish() *bytecode.Class {
	c.finished = true
	access := bytecode.AccPublic | bytecode.AccSuper
	if c.external {
		access |= bytecode.AccFinal
	}
	return bytecode.NewClass(bytecode.ClassParams{
		Name:       c.name,
		SuperName:  c.superName,
		Interfaces: c.interfaces,
		Access:     access,
		External:   c.external,
		Pool:       c.pool,
		Fields:     c.fields,
		Methods:    c.methods,
	})
}
