// env.go — the evaluator's scope-stacked binding environment.
//
// Scopes push on entering a block, loop body, or callable frame and pop on
// exit. A scope owns the qubits allocated inside it; popping releases them
// back to the allocator, which is what gives `use` its scoped-release
// semantics on every exit path (including early return, which unwinds with
// popTo). Bindings are hybrid: a binding holds a concrete Value or, once
// materialized, a runtime Variable slot alongside its tracked value.

package qsharp

import "fmt"

type binding struct {
	val     Value
	mutable bool
	slot    *Variable // runtime slot, set when the binding is materialized
}

type scope struct {
	table  map[string]*binding
	qubits []QubitID
}

type env struct {
	scopes []*scope
	alloc  *resourceAllocator
}

func newEnv(alloc *resourceAllocator) *env {
	return &env{alloc: alloc}
}

func (e *env) push() {
	e.scopes = append(e.scopes, &scope{table: map[string]*binding{}})
}

func (e *env) pop() {
	n := len(e.scopes)
	top := e.scopes[n-1]
	// Release in reverse allocation order so the free list unwinds LIFO.
	for i := len(top.qubits) - 1; i >= 0; i-- {
		e.alloc.releaseQubit(top.qubits[i])
	}
	e.scopes = e.scopes[:n-1]
}

// depth returns the current scope count; popTo unwinds back to it.
func (e *env) depth() int { return len(e.scopes) }

func (e *env) popTo(depth int) {
	for len(e.scopes) > depth {
		e.pop()
	}
}

// define binds name in the innermost scope, shadowing outer bindings.
func (e *env) define(name string, v Value, mutable bool) *binding {
	b := &binding{val: v, mutable: mutable}
	e.scopes[len(e.scopes)-1].table[name] = b
	return b
}

// lookup walks scopes innermost-first.
func (e *env) lookup(name string) (*binding, error) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if b, ok := e.scopes[i].table[name]; ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("unresolved binding: %s", name)
}

// trackQubit registers a qubit for release when the innermost scope pops.
func (e *env) trackQubit(id QubitID) {
	top := e.scopes[len(e.scopes)-1]
	top.qubits = append(top.qubits, id)
}
