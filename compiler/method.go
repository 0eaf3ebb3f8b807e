package compiler

import (
	"strings"

	"github.com/deepnoodle-ai/xsltc/bytecode"
	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/deepnoodle-ai/xsltc/op"
	"github.com/deepnoodle-ai/xsltc/signature"
	"github.com/deepnoodle-ai/xsltc/types"
	"github.com/rs/zerolog"
)

// MethodGenerator is the generation context of one method. It owns the
// instruction list and the slot allocator of the method and knows where
// the unit kind keeps the document, the current node and the other fixed
// values. It implements types.Generator.
type MethodGenerator struct {
	class     *ClassGenerator
	name      string
	layout    *Layout
	access    bytecode.Access
	il        *bytecode.List
	slots     *Allocator
	locals    *localTable
	params    []*Local
	logger    zerolog.Logger
	aborted   bool
	committed bool
}

var _ types.Generator = (*MethodGenerator)(nil)

func newMethodGenerator(c *ClassGenerator, name string, layout *Layout) *MethodGenerator {
	mg := &MethodGenerator{
		class:  c,
		name:   name,
		layout: layout,
		access: bytecode.AccPublic,
		il:     bytecode.NewList(),
		slots:  NewAllocator(layout.FirstAvailable),
		locals: newLocalTable(),
		logger: c.logger.With().Str("method", name).Str("unit", layout.Unit).Logger(),
	}
	mg.slots.logger = mg.logger
	if layout.Static {
		mg.access |= bytecode.AccStatic
	}
	if layout.External {
		mg.access |= bytecode.AccFinal
	}
	// Fixed slots that are not parameters start out null.
	for _, s := range layout.Slots {
		if s.Local {
			mg.il.Append(op.AConstNull)
			mg.il.Append(storeOp(s.Signature), s.Index)
		}
	}
	return mg
}

// Name returns the method name.
func (mg *MethodGenerator) Name() string {
	return mg.name
}

// Kind returns the unit kind of the method.
func (mg *MethodGenerator) Kind() UnitKind {
	return mg.layout.Kind
}

// Layout returns the storage layout of the method's unit kind.
func (mg *MethodGenerator) Layout() *Layout {
	return mg.layout
}

// Class returns the generation context of the owning class.
func (mg *MethodGenerator) Class() *ClassGenerator {
	return mg.class
}

// Signature returns the method signature, including any parameters.
func (mg *MethodGenerator) Signature() string {
	extra := make([]string, 0, len(mg.params))
	for _, p := range mg.params {
		extra = append(extra, p.typ.Signature())
	}
	return mg.layout.Signature(extra...)
}

// Instructions returns the instruction list of the method.
func (mg *MethodGenerator) Instructions() *bytecode.List {
	return mg.il
}

// Pool returns the constant pool of the owning class.
func (mg *MethodGenerator) Pool() *bytecode.ConstantPool {
	return mg.class.pool
}

// Emit appends an instruction. Emitting into a committed method panics.
func (mg *MethodGenerator) Emit(code op.Code, operand ...int) bytecode.Handle {
	return mg.il.Append(code, operand...)
}

// EmitBranch appends a branch whose target is resolved later.
func (mg *MethodGenerator) EmitBranch(code op.Code) bytecode.Handle {
	return mg.il.AppendBranch(code)
}

// EmitSequence appends seq and returns the handle of its first instruction.
func (mg *MethodGenerator) EmitSequence(seq bytecode.Sequence) bytecode.Handle {
	return mg.il.AppendSequence(seq)
}

// ReportError forwards a diagnostic to the class sink. A fatal diagnostic
// aborts the method: it can no longer be committed.
func (mg *MethodGenerator) ReportError(severity errors.Severity, code errors.ErrorCode, args ...any) {
	if severity == errors.Fatal {
		mg.aborted = true
	}
	mg.logger.Debug().
		Str("severity", severity.String()).
		Str("code", string(code)).
		Msg(code.Format(args...))
	mg.class.sink.ReportError(severity, code, args...)
}

// Aborted returns true once a fatal diagnostic has been reported.
func (mg *MethodGenerator) Aborted() bool {
	return mg.aborted
}

// Committed returns true once the method has been added to its class.
func (mg *MethodGenerator) Committed() bool {
	return mg.committed
}

// AllocateTemp reserves a temporary slot of the given width.
func (mg *MethodGenerator) AllocateTemp(size int) int {
	return mg.slots.Allocate(size)
}

// ReleaseTemp releases a slot obtained from AllocateTemp.
func (mg *MethodGenerator) ReleaseTemp(slot, size int) {
	mg.slots.Release(slot, size)
}

// MaxLocals returns the number of local units used so far.
func (mg *MethodGenerator) MaxLocals() int {
	return mg.slots.MaxLocals()
}

func (mg *MethodGenerator) errorf(err *errors.CompileError) *errors.CompileError {
	return err.WithLocation(mg.class.name, mg.name)
}

// open fails once the method has been committed.
func (mg *MethodGenerator) open() error {
	if mg.committed {
		return mg.errorf(errors.NewCompileError(errors.E5002, mg.name))
	}
	return nil
}

func (mg *MethodGenerator) newLocal(name string, t types.Type) (*Local, error) {
	if err := mg.open(); err != nil {
		return nil, err
	}
	if t == nil || t.Width() < 1 {
		return nil, mg.errorf(errors.NewCompileError(errors.E5011, name, t))
	}
	if mg.locals.definedInScope(name) {
		return nil, mg.errorf(errors.NewCompileError(errors.E5007, name))
	}
	l := &Local{name: name, typ: t, width: t.Width()}
	l.index = mg.slots.Allocate(l.width)
	mg.locals.insert(l)
	return l, nil
}

// AddParameter declares a parameter of a named template. Parameters occupy
// the slots right after the fixed layout, in declaration order, so they
// must be declared before any other local or temporary.
func (mg *MethodGenerator) AddParameter(name string, t types.Type) (*Local, error) {
	if mg.layout.Kind != Named {
		return nil, mg.errorf(errors.NewCompileError(errors.E5005, mg.layout.Unit, "parameters"))
	}
	width := 0
	for _, p := range mg.params {
		width += p.width
	}
	if mg.slots.Live() != width {
		return nil, mg.errorf(errors.CompileErrorf(errors.E5005,
			"parameter %q must be declared before other locals", name))
	}
	l, err := mg.newLocal(name, t)
	if err != nil {
		return nil, err
	}
	mg.params = append(mg.params, l)
	return l, nil
}

// Parameters returns the declared parameters.
func (mg *MethodGenerator) Parameters() []*Local {
	out := make([]*Local, len(mg.params))
	copy(out, mg.params)
	return out
}

// AddLocal declares a named local in the current scope and allocates its
// slot.
func (mg *MethodGenerator) AddLocal(name string, t types.Type) (*Local, error) {
	return mg.newLocal(name, t)
}

// Lookup finds a named local, searching from the innermost scope out.
func (mg *MethodGenerator) Lookup(name string) (*Local, bool) {
	return mg.locals.lookup(name)
}

// LocalIndex returns the slot of a named local.
func (mg *MethodGenerator) LocalIndex(name string) (int, error) {
	l, ok := mg.locals.lookup(name)
	if !ok {
		return -1, mg.errorf(errors.NewCompileError(errors.E5008, name))
	}
	return l.index, nil
}

// RemoveLocal ends the lifetime of a named local and releases its slot.
func (mg *MethodGenerator) RemoveLocal(name string) error {
	l, ok := mg.locals.lookup(name)
	if !ok {
		return mg.errorf(errors.NewCompileError(errors.E5008, name))
	}
	mg.locals.remove(l)
	mg.slots.Release(l.index, l.width)
	return nil
}

// PushScope opens a nested scope for named locals.
func (mg *MethodGenerator) PushScope() {
	mg.locals.push()
}

// PopScope closes the innermost scope and releases the slots of the locals
// declared in it.
func (mg *MethodGenerator) PopScope() {
	for _, l := range mg.locals.pop() {
		mg.slots.Release(l.index, l.width)
	}
}

// LoadLocal returns the instructions that push the value of a named local.
func (mg *MethodGenerator) LoadLocal(name string) (bytecode.Sequence, error) {
	if err := mg.open(); err != nil {
		return nil, err
	}
	l, ok := mg.locals.lookup(name)
	if !ok {
		return nil, mg.errorf(errors.NewCompileError(errors.E5008, name))
	}
	return bytecode.Seq(bytecode.Make(loadOp(l.typ.Signature()), l.index)), nil
}

// StoreLocal returns the instructions that pop a value into a named local.
func (mg *MethodGenerator) StoreLocal(name string) (bytecode.Sequence, error) {
	if err := mg.open(); err != nil {
		return nil, err
	}
	l, ok := mg.locals.lookup(name)
	if !ok {
		return nil, mg.errorf(errors.NewCompileError(errors.E5008, name))
	}
	return bytecode.Seq(bytecode.Make(storeOp(l.typ.Signature()), l.index)), nil
}

func loadOp(sig string) op.Code {
	switch sig {
	case signature.Int, signature.Boolean:
		return op.ILoad
	case signature.Long:
		return op.LLoad
	case signature.Double:
		return op.DLoad
	default:
		return op.ALoad
	}
}

func storeOp(sig string) op.Code {
	switch sig {
	case signature.Int, signature.Boolean:
		return op.IStore
	case signature.Long:
		return op.LStore
	case signature.Double:
		return op.DStore
	default:
		return op.AStore
	}
}

func returnOp(sig string) op.Code {
	switch sig {
	case signature.Void:
		return op.Return
	case signature.Int, signature.Boolean:
		return op.IReturn
	case signature.Long:
		return op.LReturn
	case signature.Double:
		return op.DReturn
	default:
		return op.AReturn
	}
}

// EmitReturn emits the return instruction for a value of type t on top of
// the stack. Void emits a bare return.
func (mg *MethodGenerator) EmitReturn(t types.Type) bytecode.Handle {
	return mg.Emit(returnOp(t.Signature()))
}

// Load returns the instructions that push v, either from its fixed slot or
// through a field of the generated instance.
func (mg *MethodGenerator) Load(v Value) (bytecode.Sequence, error) {
	if err := mg.open(); err != nil {
		return nil, err
	}
	if s, ok := mg.layout.Slot(v); ok {
		return bytecode.Seq(bytecode.Make(loadOp(s.Signature), s.Index)), nil
	}
	if f, ok := mg.layout.Field(v); ok {
		self, ok := mg.layout.Slot(ValueSelf)
		if ok {
			ref := mg.class.pool.AddFieldRef(mg.class.name, f.Field, f.Signature)
			return bytecode.Seq(
				bytecode.Make(op.ALoad, self.Index),
				bytecode.Make(op.GetField, ref),
			), nil
		}
	}
	return nil, mg.errorf(errors.NewCompileError(errors.E5005, mg.layout.Unit, v))
}

// Store returns the instructions that pop a value into the fixed slot of v.
// Values reached through fields cannot be stored.
func (mg *MethodGenerator) Store(v Value) (bytecode.Sequence, error) {
	if err := mg.open(); err != nil {
		return nil, err
	}
	if s, ok := mg.layout.Slot(v); ok {
		return bytecode.Seq(bytecode.Make(storeOp(s.Signature), s.Index)), nil
	}
	return nil, mg.errorf(errors.NewCompileError(errors.E5005, mg.layout.Unit, v))
}

// LoadDocument returns the instructions that push the document handle.
func (mg *MethodGenerator) LoadDocument() (bytecode.Sequence, error) {
	return mg.Load(ValueDocument)
}

// LoadCurrentNode returns the instructions that push the current node.
func (mg *MethodGenerator) LoadCurrentNode() (bytecode.Sequence, error) {
	return mg.Load(ValueCurrentNode)
}

// StoreCurrentNode returns the instructions that set the current node.
func (mg *MethodGenerator) StoreCurrentNode() (bytecode.Sequence, error) {
	return mg.Store(ValueCurrentNode)
}

// LoadOutputSink returns the instructions that push the output handler.
func (mg *MethodGenerator) LoadOutputSink() (bytecode.Sequence, error) {
	return mg.Load(ValueOutput)
}

// LoadIterator returns the instructions that push the node iterator.
func (mg *MethodGenerator) LoadIterator() (bytecode.Sequence, error) {
	return mg.Load(ValueIterator)
}

// StoreIterator returns the instructions that replace the node iterator.
func (mg *MethodGenerator) StoreIterator() (bytecode.Sequence, error) {
	return mg.Store(ValueIterator)
}

// LoadTranslet returns the instructions that push the translet instance.
func (mg *MethodGenerator) LoadTranslet() (bytecode.Sequence, error) {
	return mg.Load(ValueTranslet)
}

// LoadContextNode returns the instructions that push the context node.
func (mg *MethodGenerator) LoadContextNode() (bytecode.Sequence, error) {
	return mg.Load(ValueContextNode)
}

// LoadPosition returns the instructions that push the context position.
func (mg *MethodGenerator) LoadPosition() (bytecode.Sequence, error) {
	return mg.Load(ValuePosition)
}

// LoadLastNode returns the instructions that push the context size.
func (mg *MethodGenerator) LoadLastNode() (bytecode.Sequence, error) {
	return mg.Load(ValueLast)
}

// LoadParameters returns the instructions that push the parameter array.
func (mg *MethodGenerator) LoadParameters() (bytecode.Sequence, error) {
	return mg.Load(ValueParameters)
}

// Convert appends the conversion of the value on top of the stack from one
// type to another.
func (mg *MethodGenerator) Convert(from, to types.Type) error {
	if err := mg.open(); err != nil {
		return err
	}
	return types.TranslateTo(mg, from, to)
}

// ResolveCall selects the overload of a call using the class tie policy.
// Ties resolved by declaration order are reported as warnings; rejected
// calls are reported as recoverable errors.
func (mg *MethodGenerator) ResolveCall(call *types.MethodType, candidates []*types.MethodType) (types.Resolution, error) {
	if err := mg.open(); err != nil {
		return types.Resolution{Index: -1, Distance: types.Infinite}, err
	}
	res, err := types.Resolve(call, candidates, mg.class.tiePolicy)
	if err != nil {
		switch e := err.(type) {
		case *errors.AmbiguousOverloadError:
			mg.ReportError(errors.Recoverable, errors.E4005, e.Call, strings.Join(e.Candidates, ", "))
		case *errors.CompileError:
			mg.ReportError(errors.Recoverable, e.Code, call)
		}
		return res, err
	}
	if res.Ambiguous() {
		names := make([]string, 0, len(res.Ties))
		for _, i := range res.Ties {
			names = append(names, candidates[i].String())
		}
		mg.ReportError(errors.Warning, errors.E4005, call, strings.Join(names, ", "))
	}
	return res, nil
}

func (mg *MethodGenerator) commit() (*bytecode.Method, error) {
	if err := mg.open(); err != nil {
		return nil, err
	}
	if mg.aborted {
		return nil, mg.errorf(errors.NewCompileError(errors.E5010, mg.name))
	}
	insts := mg.il.Instructions()
	if err := ValidateBranches(insts); err != nil {
		return nil, mg.located(err)
	}
	maxStack, err := MaxStack(insts, mg.class.pool)
	if err != nil {
		return nil, mg.located(err)
	}
	mg.il.Seal()
	mg.committed = true

	locals := make([]bytecode.LocalVariable, 0, len(mg.layout.Slots)+len(mg.locals.history))
	for _, s := range mg.layout.Slots {
		locals = append(locals, bytecode.LocalVariable{Name: s.Name, Signature: s.Signature, Index: s.Index})
	}
	locals = append(locals, mg.locals.history...)

	return bytecode.NewMethod(bytecode.MethodParams{
		Name:         mg.name,
		Signature:    mg.Signature(),
		Access:       mg.access,
		Instructions: insts,
		MaxLocals:    mg.slots.MaxLocals(),
		MaxStack:     maxStack,
		Locals:       locals,
	}), nil
}

func (mg *MethodGenerator) located(err error) error {
	if ce, ok := err.(*errors.CompileError); ok {
		return mg.errorf(ce)
	}
	return err
}
