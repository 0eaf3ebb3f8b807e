// Package vm provides a reference interpreter for committed methods. It
// executes the instruction set of package op against native stand-ins for
// the runtime library, which makes the behavior of generated code
// observable in tests and from the command line.
package vm

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/deepnoodle-ai/xsltc/abi"
	"github.com/deepnoodle-ai/xsltc/bytecode"
	"github.com/deepnoodle-ai/xsltc/op"
	"github.com/deepnoodle-ai/xsltc/signature"
)

const (
	MaxFrameDepth = 256
	MaxStackDepth = 1024

	// DefaultContextCheckInterval is the number of instructions between
	// checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

var (
	// ErrStepLimit is returned when a call exceeds the configured maximum
	// number of executed instructions.
	ErrStepLimit = errors.New("step limit exceeded")
	// ErrHalted is returned when an observer stops execution.
	ErrHalted = errors.New("execution halted by observer")
)

// Native implements a runtime method. args holds the receiver, if any,
// followed by the arguments; two-unit values appear once.
type Native func(vm *VirtualMachine, args []any) (any, error)

// VirtualMachine executes committed methods. It is not safe for concurrent
// use.
type VirtualMachine struct {
	natives              map[string]Native
	supers               map[string]map[string]bool
	statics              map[string]any
	document             *Document
	contextCheckInterval int
	maxSteps             int
	observer             Observer
	observerConfig       ObserverConfig
	depth                int
	steps                int
}

// New creates a VirtualMachine with the default runtime natives.
func New(options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		natives:              defaultNatives(),
		supers:               map[string]map[string]bool{},
		statics:              map[string]any{},
		document:             NewDocument(nil),
		contextCheckInterval: DefaultContextCheckInterval,
	}
	WithSubtype(abi.SingletonIterator, abi.NodeIterator)(vm)
	for _, opt := range options {
		opt(vm)
	}
	return vm
}

// Document returns the default document.
func (vm *VirtualMachine) Document() *Document {
	return vm.document
}

// Static returns the value of a static field set by PUTSTATIC.
func (vm *VirtualMachine) Static(class, name string) (any, bool) {
	v, ok := vm.statics[class+"."+name]
	return v, ok
}

// Call executes method, which belongs to class, and returns its result.
// Arguments fill local slots from 0; int64 and float64 arguments take two
// slots. Void methods return nil.
func (vm *VirtualMachine) Call(ctx context.Context, class *bytecode.Class, method *bytecode.Method, args ...any) (result any, err error) {
	if vm.observer != nil {
		vm.observerConfig = NormalizeConfig(vm.observer.Config())
	}
	vm.steps = 0
	vm.depth = 0
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return vm.invoke(ctx, class, method, args)
}

// CallNamed executes the first method of class with the given name.
func (vm *VirtualMachine) CallNamed(ctx context.Context, class *bytecode.Class, name string, args ...any) (any, error) {
	method, ok := class.Method(name, "")
	if !ok {
		return nil, fmt.Errorf("method not found: %s.%s", class.Name(), name)
	}
	return vm.Call(ctx, class, method, args...)
}

type frame struct {
	class  *bytecode.Class
	method *bytecode.Method
	locals []any
	stack  []any
	ip     int
}

func isWide(v any) bool {
	switch v.(type) {
	case float64, int64:
		return true
	}
	return false
}

func (vm *VirtualMachine) invoke(ctx context.Context, class *bytecode.Class, method *bytecode.Method, args []any) (any, error) {
	if vm.depth >= MaxFrameDepth {
		return nil, fmt.Errorf("frame depth exceeded calling %s", method.Name())
	}
	vm.depth++
	defer func() { vm.depth-- }()

	f := &frame{
		class:  class,
		method: method,
		locals: make([]any, method.MaxLocals()),
		stack:  make([]any, 0, method.MaxStack()+1),
	}
	slot := 0
	for _, a := range args {
		width := 1
		if isWide(a) {
			width = 2
		}
		if slot+width > len(f.locals) {
			return nil, fmt.Errorf("too many arguments for %s (max locals %d)", method.Name(), method.MaxLocals())
		}
		f.locals[slot] = a
		if width == 2 {
			f.locals[slot+1] = wide{}
		}
		slot += width
	}
	return vm.run(ctx, f)
}

func (f *frame) push(v any) {
	if len(f.stack) >= MaxStackDepth {
		panic("operand stack overflow")
	}
	f.stack = append(f.stack, v)
}

func (f *frame) pushWide(v any) {
	f.push(v)
	f.push(wide{})
}

func (f *frame) pop() any {
	if len(f.stack) == 0 {
		panic(fmt.Sprintf("operand stack underflow in %s at %d", f.method.Name(), f.ip))
	}
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v
}

func (f *frame) popWide() any {
	if _, ok := f.pop().(wide); !ok {
		panic(fmt.Sprintf("expected a two-unit value in %s at %d", f.method.Name(), f.ip))
	}
	return f.pop()
}

func (f *frame) popInt() int32 {
	switch v := f.pop().(type) {
	case int32:
		return v
	default:
		panic(fmt.Sprintf("expected int in %s at %d, got %T", f.method.Name(), f.ip, v))
	}
}

func (f *frame) popDouble() float64 {
	switch v := f.popWide().(type) {
	case float64:
		return v
	default:
		panic(fmt.Sprintf("expected double in %s at %d, got %T", f.method.Name(), f.ip, v))
	}
}

func (f *frame) popLong() int64 {
	switch v := f.popWide().(type) {
	case int64:
		return v
	default:
		panic(fmt.Sprintf("expected long in %s at %d, got %T", f.method.Name(), f.ip, v))
	}
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// d2i converts with the saturating semantics of the target VM.
func d2i(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}

func d2l(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(v)
	}
}

func dcmp(a, b float64, nanResult int32) int32 {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return nanResult
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

func (vm *VirtualMachine) step(ctx context.Context, f *frame, inst bytecode.Instruction) error {
	vm.steps++
	if vm.maxSteps > 0 && vm.steps > vm.maxSteps {
		return ErrStepLimit
	}
	if vm.contextCheckInterval > 0 && vm.steps%vm.contextCheckInterval == 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	if vm.observer == nil {
		return nil
	}
	cfg := vm.observerConfig
	notify := cfg.StepMode == StepAll ||
		(cfg.StepMode == StepSampled && vm.steps%cfg.SampleInterval == 0)
	if notify && !vm.observer.OnStep(StepEvent{
		Method:     f.method.Name(),
		IP:         f.ip,
		Opcode:     inst.Code,
		StackDepth: len(f.stack),
		FrameDepth: vm.depth,
	}) {
		return ErrHalted
	}
	return nil
}

func (vm *VirtualMachine) run(ctx context.Context, f *frame) (any, error) {
	pool := f.class.Pool()
	for {
		if f.ip < 0 || f.ip >= f.method.InstructionCount() {
			return nil, fmt.Errorf("%s: control reached instruction %d outside the method", f.method.Name(), f.ip)
		}
		inst := f.method.InstructionAt(f.ip)
		if err := vm.step(ctx, f, inst); err != nil {
			return nil, err
		}
		next := f.ip + 1

		switch inst.Code {
		case op.Nop:
		case op.AConstNull:
			f.push(nil)
		case op.IConstM1:
			f.push(int32(-1))
		case op.IConst0:
			f.push(int32(0))
		case op.IConst1:
			f.push(int32(1))
		case op.DConst0:
			f.pushWide(float64(0))
		case op.DConst1:
			f.pushWide(float64(1))
		case op.Ldc, op.Ldc2:
			entry, err := pool.EntryAt(inst.Operand)
			if err != nil {
				return nil, err
			}
			switch entry.Kind {
			case bytecode.EntryInteger:
				f.push(int32(entry.Int))
			case bytecode.EntryString:
				f.push(entry.String)
			case bytecode.EntryLong:
				f.pushWide(entry.Int)
			case bytecode.EntryDouble:
				f.pushWide(entry.Double)
			default:
				return nil, fmt.Errorf("cannot load constant of kind %s", entry.Kind)
			}

		case op.ILoad, op.ALoad:
			f.push(f.locals[inst.Operand])
		case op.LLoad, op.DLoad:
			f.pushWide(f.locals[inst.Operand])
		case op.IStore, op.AStore:
			f.locals[inst.Operand] = f.pop()
		case op.LStore, op.DStore:
			f.locals[inst.Operand] = f.popWide()
			f.locals[inst.Operand+1] = wide{}

		case op.Pop:
			f.pop()
		case op.Pop2:
			f.pop()
			f.pop()
		case op.Dup:
			v := f.pop()
			f.push(v)
			f.push(v)
		case op.DupX1:
			v1, v2 := f.pop(), f.pop()
			f.push(v1)
			f.push(v2)
			f.push(v1)
		case op.DupX2:
			v1, v2, v3 := f.pop(), f.pop(), f.pop()
			f.push(v1)
			f.push(v3)
			f.push(v2)
			f.push(v1)
		case op.Dup2:
			v1, v2 := f.pop(), f.pop()
			f.push(v2)
			f.push(v1)
			f.push(v2)
			f.push(v1)
		case op.Swap:
			v1, v2 := f.pop(), f.pop()
			f.push(v1)
			f.push(v2)

		case op.IAdd:
			b, a := f.popInt(), f.popInt()
			f.push(a + b)
		case op.ISub:
			b, a := f.popInt(), f.popInt()
			f.push(a - b)
		case op.INeg:
			f.push(-f.popInt())
		case op.DAdd:
			b, a := f.popDouble(), f.popDouble()
			f.pushWide(a + b)
		case op.DSub:
			b, a := f.popDouble(), f.popDouble()
			f.pushWide(a - b)
		case op.DNeg:
			f.pushWide(-f.popDouble())

		case op.I2L:
			f.pushWide(int64(f.popInt()))
		case op.I2D:
			f.pushWide(float64(f.popInt()))
		case op.L2I:
			f.push(int32(f.popLong()))
		case op.L2D:
			f.pushWide(float64(f.popLong()))
		case op.D2I:
			f.push(d2i(f.popDouble()))
		case op.D2L:
			f.pushWide(d2l(f.popDouble()))

		case op.LCmp:
			b, a := f.popLong(), f.popLong()
			switch {
			case a > b:
				f.push(int32(1))
			case a < b:
				f.push(int32(-1))
			default:
				f.push(int32(0))
			}
		case op.DCmpL:
			b, a := f.popDouble(), f.popDouble()
			f.push(dcmp(a, b, -1))
		case op.DCmpG:
			b, a := f.popDouble(), f.popDouble()
			f.push(dcmp(a, b, 1))

		case op.IfEq, op.IfNe, op.IfLt, op.IfGe, op.IfGt, op.IfLe:
			if compareZero(inst.Code, f.popInt()) {
				next = inst.Target
			}
		case op.IfICmpEq, op.IfICmpNe, op.IfICmpLt, op.IfICmpGe, op.IfICmpGt, op.IfICmpLe:
			b, a := f.popInt(), f.popInt()
			if compareInts(inst.Code, a, b) {
				next = inst.Target
			}
		case op.IfACmpEq, op.IfACmpNe:
			b, a := f.pop(), f.pop()
			if (a == b) == (inst.Code == op.IfACmpEq) {
				next = inst.Target
			}
		case op.IfNull, op.IfNonNull:
			if (f.pop() == nil) == (inst.Code == op.IfNull) {
				next = inst.Target
			}
		case op.Goto:
			next = inst.Target

		case op.IReturn, op.AReturn:
			return f.pop(), nil
		case op.LReturn, op.DReturn:
			return f.popWide(), nil
		case op.Return:
			return nil, nil

		case op.GetStatic, op.PutStatic, op.GetField, op.PutField:
			if err := vm.field(f, pool, inst); err != nil {
				return nil, err
			}
		case op.InvokeVirtual, op.InvokeSpecial, op.InvokeStatic, op.InvokeInterface:
			if err := vm.call(ctx, f, pool, inst); err != nil {
				return nil, err
			}

		case op.New:
			entry, err := pool.EntryAt(inst.Operand)
			if err != nil {
				return nil, err
			}
			f.push(NewObject(entry.Class))
		case op.CheckCast:
			entry, err := pool.EntryAt(inst.Operand)
			if err != nil {
				return nil, err
			}
			v := f.pop()
			if v != nil && !vm.instanceOf(v, entry.Class) {
				return nil, fmt.Errorf("class cast: %T cannot be cast to %s", v, entry.Class)
			}
			f.push(v)
		case op.InstanceOf:
			entry, err := pool.EntryAt(inst.Operand)
			if err != nil {
				return nil, err
			}
			v := f.pop()
			f.push(boolInt(v != nil && vm.instanceOf(v, entry.Class)))
		case op.AThrow:
			return nil, fmt.Errorf("%s: exception thrown: %v", f.method.Name(), f.pop())

		default:
			return nil, fmt.Errorf("unsupported opcode %s at %d", inst.Code, f.ip)
		}
		f.ip = next
	}
}

func compareZero(code op.Code, v int32) bool {
	return compareInts(code-op.IfEq+op.IfICmpEq, v, 0)
}

func compareInts(code op.Code, a, b int32) bool {
	switch code {
	case op.IfICmpEq:
		return a == b
	case op.IfICmpNe:
		return a != b
	case op.IfICmpLt:
		return a < b
	case op.IfICmpGe:
		return a >= b
	case op.IfICmpGt:
		return a > b
	default:
		return a <= b
	}
}

func (vm *VirtualMachine) instanceOf(v any, class string) bool {
	if class == abi.Object {
		return true
	}
	switch v := v.(type) {
	case string:
		return class == abi.String
	case *Iterator:
		return class == abi.NodeIterator
	case *Document:
		return class == abi.DOM
	case *Object:
		return v.Class == class || vm.supers[v.Class][class]
	}
	return false
}

func (vm *VirtualMachine) field(f *frame, pool *bytecode.ConstantPool, inst bytecode.Instruction) error {
	entry, err := pool.EntryAt(inst.Operand)
	if err != nil {
		return err
	}
	if entry.Kind != bytecode.EntryField {
		return fmt.Errorf("%s operand is a %s entry", inst.Code, entry.Kind)
	}
	isWideField := signature.Width(entry.Signature) == 2
	key := entry.Class + "." + entry.Name
	switch inst.Code {
	case op.GetStatic:
		v := vm.statics[key]
		if isWideField {
			f.pushWide(v)
		} else {
			f.push(v)
		}
	case op.PutStatic:
		if isWideField {
			vm.statics[key] = f.popWide()
		} else {
			vm.statics[key] = f.pop()
		}
	case op.GetField:
		obj, ok := f.pop().(*Object)
		if !ok {
			return fmt.Errorf("GETFIELD %s on a non-object", key)
		}
		v := obj.Fields[entry.Name]
		if isWideField {
			f.pushWide(v)
		} else {
			f.push(v)
		}
	case op.PutField:
		var v any
		if isWideField {
			v = f.popWide()
		} else {
			v = f.pop()
		}
		obj, ok := f.pop().(*Object)
		if !ok {
			return fmt.Errorf("PUTFIELD %s on a non-object", key)
		}
		obj.Fields[entry.Name] = v
	}
	return nil
}

func (vm *VirtualMachine) call(ctx context.Context, f *frame, pool *bytecode.ConstantPool, inst bytecode.Instruction) error {
	entry, err := pool.EntryAt(inst.Operand)
	if err != nil {
		return err
	}
	if entry.Kind != bytecode.EntryMethod && entry.Kind != bytecode.EntryInterfaceMethod {
		return fmt.Errorf("%s operand is a %s entry", inst.Code, entry.Kind)
	}
	argSigs, result, err := signature.Split(entry.Signature)
	if err != nil {
		return err
	}
	hasReceiver := inst.Code != op.InvokeStatic
	n := len(argSigs)
	if hasReceiver {
		n++
	}
	args := make([]any, n)
	for i := len(argSigs) - 1; i >= 0; i-- {
		idx := i
		if hasReceiver {
			idx++
		}
		if signature.Width(argSigs[i]) == 2 {
			args[idx] = f.popWide()
		} else {
			args[idx] = f.pop()
		}
	}
	if hasReceiver {
		args[0] = f.pop()
	}

	member := abi.Member{Class: entry.Class, Name: entry.Name, Signature: entry.Signature}
	native, isNative := vm.natives[member.Key()]
	if vm.observer != nil && vm.observerConfig.ObserveCalls {
		if !vm.observer.OnCall(CallEvent{
			Member:     member.Key(),
			Native:     isNative,
			ArgCount:   n,
			FrameDepth: vm.depth,
		}) {
			return ErrHalted
		}
	}

	var value any
	switch {
	case isNative:
		value, err = native(vm, args)
	case entry.Class == f.class.Name():
		target, ok := f.class.Method(entry.Name, entry.Signature)
		if !ok {
			return fmt.Errorf("no such method: %s", member.Key())
		}
		value, err = vm.invoke(ctx, f.class, target, args)
	default:
		return fmt.Errorf("no native for %s", member.Key())
	}
	if err != nil {
		return err
	}
	switch signature.Width(result) {
	case 0:
	case 1:
		f.push(value)
	case 2:
		f.pushWide(value)
	}
	return nil
}
