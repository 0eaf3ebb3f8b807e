package compiler

import (
	"fmt"

	"github.com/deepnoodle-ai/xsltc/bytecode"
	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/deepnoodle-ai/xsltc/op"
	"github.com/deepnoodle-ai/xsltc/signature"
)

// StackEffect returns the stack units consumed and produced by inst.
// Effects that depend on a field or method signature are looked up in pool.
func StackEffect(inst bytecode.Instruction, pool *bytecode.ConstantPool) (pop, push int, err error) {
	info := op.GetInfo(inst.Code)
	if info.Name == "" {
		return 0, 0, fmt.Errorf("invalid opcode %d", inst.Code)
	}
	if info.Pop != op.Variable && info.Push != op.Variable {
		return info.Pop, info.Push, nil
	}
	entry, err := pool.EntryAt(inst.Operand)
	if err != nil {
		return 0, 0, err
	}
	switch inst.Code {
	case op.GetStatic:
		return 0, signature.Width(entry.Signature), nil
	case op.PutStatic:
		return signature.Width(entry.Signature), 0, nil
	case op.GetField:
		return 1, signature.Width(entry.Signature), nil
	case op.PutField:
		return 1 + signature.Width(entry.Signature), 0, nil
	default:
		return signature.StackEffect(entry.Signature, inst.Code != op.InvokeStatic)
	}
}

// ValidateBranches checks that every branch has a target inside the
// instruction sequence.
func ValidateBranches(insts []bytecode.Instruction) error {
	for i, inst := range insts {
		if !inst.IsBranch() {
			continue
		}
		if inst.Target == bytecode.NoTarget {
			return errors.NewCompileError(errors.E5003, i)
		}
		if inst.Target < 0 || inst.Target >= len(insts) {
			return errors.NewCompileError(errors.E5009, i, inst.Target)
		}
	}
	return nil
}

// MaxStack computes the maximum operand stack depth of insts by following
// every path from the first instruction. Paths that merge must agree on the
// depth, and no instruction may pop more than the stack holds. Branch
// targets must already be valid.
func MaxStack(insts []bytecode.Instruction, pool *bytecode.ConstantPool) (int, error) {
	if len(insts) == 0 {
		return 0, nil
	}
	depths := make([]int, len(insts))
	for i := range depths {
		depths[i] = -1
	}
	depths[0] = 0
	work := []int{0}
	maxDepth := 0

	visit := func(from, to, depth int) error {
		if to >= len(insts) {
			return nil
		}
		switch depths[to] {
		case -1:
			depths[to] = depth
			work = append(work, to)
		case depth:
		default:
			return errors.NewCompileError(errors.E5004, to,
				fmt.Sprintf("depth %d from %d, expected %d", depth, from, depths[to]))
		}
		return nil
	}

	for len(work) > 0 {
		i := work[len(work)-1]
		work = work[:len(work)-1]
		inst := insts[i]
		pop, push, err := StackEffect(inst, pool)
		if err != nil {
			return 0, errors.NewCompileError(errors.E5004, i, err)
		}
		depth := depths[i]
		if depth < pop {
			return 0, errors.NewCompileError(errors.E5004, i,
				fmt.Sprintf("%s pops %d with %d on the stack", inst.Code, pop, depth))
		}
		depth = depth - pop + push
		if depth > maxDepth {
			maxDepth = depth
		}
		info := op.GetInfo(inst.Code)
		if info.Branch {
			if err := visit(i, inst.Target, depth); err != nil {
				return 0, err
			}
		}
		if !info.Terminal {
			if err := visit(i, i+1, depth); err != nil {
				return 0, err
			}
		}
	}
	return maxDepth, nil
}
