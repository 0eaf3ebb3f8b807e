// Package dis supports analysis of generated methods by disassembling them.
// This works with the opcodes defined in the `op` package and resolves
// operands against the constant pool of the owning class.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/deepnoodle-ai/xsltc/bytecode"
	"github.com/deepnoodle-ai/xsltc/internal/table"
	"github.com/deepnoodle-ai/xsltc/op"
	"github.com/fatih/color"
)

// Instruction represents a single instruction and its operands.
type Instruction struct {
	Offset     int     `json:"offset"`
	Name       string  `json:"name"`
	Opcode     op.Code `json:"-"`
	Operands   []int   `json:"operands,omitempty"`
	Annotation string  `json:"annotation,omitempty"`
	Constant   any     `json:"constant,omitempty"`
}

// Disassemble returns a parsed representation of a committed method.
// Local slots are annotated with their names where the method records them.
func Disassemble(m *bytecode.Method, pool *bytecode.ConstantPool) ([]Instruction, error) {
	insts := make([]bytecode.Instruction, m.InstructionCount())
	for i := range insts {
		insts[i] = m.InstructionAt(i)
	}
	return disassemble(insts, pool, m.LocalName)
}

// DisassembleInstructions returns a parsed representation of a sequence of
// instructions that has not been committed to a method.
func DisassembleInstructions(insts []bytecode.Instruction, pool *bytecode.ConstantPool) ([]Instruction, error) {
	return disassemble(insts, pool, nil)
}

func disassemble(insts []bytecode.Instruction, pool *bytecode.ConstantPool, localName func(int) string) ([]Instruction, error) {
	instructions := make([]Instruction, 0, len(insts))
	for offset, inst := range insts {
		info := op.GetInfo(inst.Code)
		if info.Name == "" {
			return nil, fmt.Errorf("invalid opcode %d at offset %d", inst.Code, offset)
		}
		out := Instruction{Offset: offset, Name: info.Name, Opcode: inst.Code}
		switch {
		case info.Branch:
			out.Operands = []int{inst.Target}
		case info.OperandCount > 0:
			out.Operands = []int{inst.Operand}
		}
		switch inst.Code {
		case op.ILoad, op.LLoad, op.DLoad, op.ALoad, op.IStore, op.LStore, op.DStore, op.AStore:
			if localName != nil {
				out.Annotation = localName(inst.Operand)
			}
		case op.Ldc, op.Ldc2:
			entry, err := entryAt(pool, inst.Operand, offset)
			if err != nil {
				return nil, err
			}
			out.Constant = constantValue(entry)
		case op.GetStatic, op.PutStatic, op.GetField, op.PutField,
			op.InvokeVirtual, op.InvokeSpecial, op.InvokeStatic, op.InvokeInterface,
			op.New, op.CheckCast, op.InstanceOf:
			entry, err := entryAt(pool, inst.Operand, offset)
			if err != nil {
				return nil, err
			}
			out.Annotation = entry.Describe()
		}
		instructions = append(instructions, out)
	}
	return instructions, nil
}

func entryAt(pool *bytecode.ConstantPool, index, offset int) (bytecode.Entry, error) {
	if pool == nil {
		return bytecode.Entry{}, fmt.Errorf("no constant pool for operand at offset %d", offset)
	}
	entry, err := pool.EntryAt(index)
	if err != nil {
		return bytecode.Entry{}, fmt.Errorf("offset %d: %w", offset, err)
	}
	return entry, nil
}

func constantValue(e bytecode.Entry) any {
	switch e.Kind {
	case bytecode.EntryInteger, bytecode.EntryLong:
		return e.Int
	case bytecode.EntryDouble:
		return e.Double
	case bytecode.EntryString:
		return e.String
	default:
		return e.Describe()
	}
}

var (
	bold    = color.New(color.Bold).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	cyan    = color.New(color.FgHiCyan).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
)

// Print a string representation of the given instructions to the given writer.
func Print(instructions []Instruction, writer io.Writer) {
	var lines [][]string
	for _, instr := range instructions {
		var values []string
		values = append(values, fmt.Sprintf("%d", instr.Offset))
		values = append(values, bold(instr.Name))
		values = append(values, formatOperands(instr.Operands))
		if instr.Constant != nil {
			switch c := instr.Constant.(type) {
			case int64:
				values = append(values, yellow(fmt.Sprintf("%d", c)))
			case float64:
				values = append(values, yellow(fmt.Sprintf("%g", c)))
			case string:
				if len(c) > 80 {
					c = c[:77] + "..."
				}
				values = append(values, green(fmt.Sprintf("%q", c)))
			default:
				values = append(values, magenta(fmt.Sprintf("%v", c)))
			}
		} else if instr.Annotation != "" {
			values = append(values, cyan(instr.Annotation))
		} else {
			values = append(values, "")
		}
		lines = append(lines, values)
	}

	table.NewTable(writer).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERANDS", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}

func formatOperands(operands []int) string {
	var sb strings.Builder
	for i, o := range operands {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%d", o))
	}
	return sb.String()
}
