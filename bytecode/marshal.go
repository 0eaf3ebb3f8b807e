package bytecode

import (
	"encoding/json"
	"fmt"

	"github.com/deepnoodle-ai/xsltc/op"
)

// Marshal converts a Class into a JSON representation.
func Marshal(class *Class) ([]byte, error) {
	return json.Marshal(stateFromClass(class))
}

// Unmarshal converts a JSON representation into a Class.
func Unmarshal(data []byte) (*Class, error) {
	var state classDef
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return classFromState(&state)
}

// Serialization types

type instructionDef struct {
	Op      string `json:"op"`
	Operand int    `json:"operand,omitempty"`
	Target  *int   `json:"target,omitempty"`
}

type methodDef struct {
	Name         string           `json:"name"`
	Signature    string           `json:"signature"`
	Access       Access           `json:"access"`
	MaxLocals    int              `json:"max_locals"`
	MaxStack     int              `json:"max_stack"`
	Instructions []instructionDef `json:"instructions"`
	Locals       []LocalVariable  `json:"locals,omitempty"`
}

type classDef struct {
	Name       string      `json:"name"`
	SuperName  string      `json:"super_name"`
	Interfaces []string    `json:"interfaces,omitempty"`
	Access     Access      `json:"access"`
	External   bool        `json:"external,omitempty"`
	Constants  []Entry     `json:"constants"`
	Fields     []Field     `json:"fields,omitempty"`
	Methods    []methodDef `json:"methods"`
}

var opcodesByName = map[string]op.Code{}

func init() {
	for code := op.Code(1); code < 256; code++ {
		if info := op.GetInfo(code); info.Name != "" {
			opcodesByName[info.Name] = code
		}
	}
}

func stateFromClass(class *Class) *classDef {
	state := &classDef{
		Name:       class.name,
		SuperName:  class.superName,
		Interfaces: clone(class.interfaces),
		Access:     class.access,
		External:   class.external,
		Constants:  class.pool.Entries(),
		Fields:     clone(class.fields),
	}
	for _, m := range class.methods {
		def := methodDef{
			Name:      m.name,
			Signature: m.signature,
			Access:    m.access,
			MaxLocals: m.maxLocals,
			MaxStack:  m.maxStack,
			Locals:    m.locals,
		}
		for _, inst := range m.instructions {
			idef := instructionDef{Op: inst.Code.String(), Operand: inst.Operand}
			if inst.IsBranch() {
				target := inst.Target
				idef.Target = &target
			}
			def.Instructions = append(def.Instructions, idef)
		}
		state.Methods = append(state.Methods, def)
	}
	return state
}

func classFromState(state *classDef) (*Class, error) {
	pool := NewConstantPool()
	for _, e := range state.Constants {
		var idx int
		switch e.Kind {
		case EntryInteger:
			idx = pool.AddInteger(int32(e.Int))
		case EntryLong:
			idx = pool.AddLong(e.Int)
		case EntryDouble:
			idx = pool.AddDouble(e.Double)
		case EntryString:
			idx = pool.AddString(e.String)
		case EntryClass:
			idx = pool.AddClass(e.Class)
		case EntryField:
			idx = pool.AddFieldRef(e.Class, e.Name, e.Signature)
		case EntryMethod:
			idx = pool.AddMethodRef(e.Class, e.Name, e.Signature)
		case EntryInterfaceMethod:
			idx = pool.AddInterfaceMethodRef(e.Class, e.Name, e.Signature)
		default:
			return nil, fmt.Errorf("unknown constant kind: %d", e.Kind)
		}
		if idx != pool.Len() {
			return nil, fmt.Errorf("duplicate constant pool entry: %s", e.describe())
		}
	}
	var methods []*Method
	for _, def := range state.Methods {
		insts := make([]Instruction, 0, len(def.Instructions))
		for _, idef := range def.Instructions {
			code, ok := opcodesByName[idef.Op]
			if !ok {
				return nil, fmt.Errorf("unknown opcode: %s", idef.Op)
			}
			inst := Instruction{Code: code, Operand: idef.Operand, Target: NoTarget}
			if idef.Target != nil {
				inst.Target = *idef.Target
			}
			insts = append(insts, inst)
		}
		methods = append(methods, NewMethod(MethodParams{
			Name:         def.Name,
			Signature:    def.Signature,
			Access:       def.Access,
			Instructions: insts,
			MaxLocals:    def.MaxLocals,
			MaxStack:     def.MaxStack,
			Locals:       def.Locals,
		}))
	}
	return NewClass(ClassParams{
		Name:       state.Name,
		SuperName:  state.SuperName,
		Interfaces: state.Interfaces,
		Access:     state.Access,
		External:   state.External,
		Pool:       pool,
		Fields:     state.Fields,
		Methods:    methods,
	}), nil
}
