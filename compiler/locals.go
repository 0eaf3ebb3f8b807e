package compiler

import (
	"github.com/deepnoodle-ai/xsltc/bytecode"
	"github.com/deepnoodle-ai/xsltc/types"
)

// Local is a named local variable of a method being generated.
type Local struct {
	name  string
	typ   types.Type
	index int
	width int
	scope int
}

// Name returns the variable name.
func (l *Local) Name() string { return l.name }

// Type returns the variable type.
func (l *Local) Type() types.Type { return l.typ }

// Index returns the first slot of the variable.
func (l *Local) Index() int { return l.index }

// Width returns the number of slots the variable occupies.
func (l *Local) Width() int { return l.width }

// localTable tracks named locals in nested scopes. Names are unique within
// a scope; an inner scope may shadow an outer name.
type localTable struct {
	scopes  []map[string]*Local
	history []bytecode.LocalVariable
}

func newLocalTable() *localTable {
	return &localTable{scopes: []map[string]*Local{{}}}
}

func (t *localTable) depth() int {
	return len(t.scopes) - 1
}

func (t *localTable) push() {
	t.scopes = append(t.scopes, map[string]*Local{})
}

// pop removes the innermost scope and returns its locals. The outermost
// scope is never removed.
func (t *localTable) pop() []*Local {
	if len(t.scopes) == 1 {
		return nil
	}
	inner := t.scopes[len(t.scopes)-1]
	t.scopes = t.scopes[:len(t.scopes)-1]
	out := make([]*Local, 0, len(inner))
	for _, l := range inner {
		out = append(out, l)
	}
	return out
}

func (t *localTable) definedInScope(name string) bool {
	_, ok := t.scopes[len(t.scopes)-1][name]
	return ok
}

func (t *localTable) insert(l *Local) {
	l.scope = t.depth()
	t.scopes[l.scope][l.name] = l
	t.history = append(t.history, bytecode.LocalVariable{
		Name:      l.name,
		Signature: l.typ.Signature(),
		Index:     l.index,
	})
}

func (t *localTable) lookup(name string) (*Local, bool) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if l, ok := t.scopes[i][name]; ok {
			return l, true
		}
	}
	return nil, false
}

func (t *localTable) remove(l *Local) {
	delete(t.scopes[l.scope], l.name)
}
