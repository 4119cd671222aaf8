// fir.go — the flattened program representation the Specializer consumes.
//
// The lowering collaborator produces a Package: a table of callable
// declarations plus an entry expression. Bodies are S-expression trees
// (type S = []any, string tag first) that the evaluator walks in the source
// language's defined evaluation order: left-to-right arguments,
// short-circuit booleans. The Specializer treats a Package as read-only.
//
// Node forms:
//
//	("unit")
//	("int", int64)            ("double", float64)        ("bool", bool)
//	("result", int64)         // 0 = Zero, 1 = One
//	("array", e...)           ("tuple", e...)
//	("range", lo, step, hi)   // all integer expressions, closed interval
//	("var", name)
//	("let", name, e)          ("mutable", name, e)       ("assign", name, e)
//	("binop", op, l, r)       // + - * / % == != < <= > >= and or
//	("unop", op, e)           // - not
//	("index", arr, idx)
//	("call", callee, arg...)  // callee: name string or expression
//	("partial", callee, arg...)
//	("if", cond, then)        ("if", cond, then, else)
//	("for", name, iter, body)
//	("while", cond, body)
//	("repeat", body, until)
//	("block", stmt...)
//	("return", e?)
//	("use", name, count?, body) // count: integer expression for a register
//
// Sidecar indices attach spans (spans.go) and compute properties (props.go)
// per node by NodePath.

package qsharp

// S is the node shape of flattened expression trees: a string tag followed by
// children (S nodes or scalar payloads).
type S = []any

// IntrinsicKind classifies declarations that execute on the quantum
// substrate instead of having an evaluable body.
type IntrinsicKind int

const (
	IntrinsicNone        IntrinsicKind = iota // has a body
	IntrinsicGate                             // unitary operation
	IntrinsicMeasurement                      // allocates and fills a Result
	IntrinsicReset
)

// Param is one declared parameter. Ty matters only for intrinsics, where it
// fixes the emitted callable signature; bodies are evaluated dynamically.
type Param struct {
	Name string
	Ty   Ty
}

// CallableDecl is one callable in the flattened package.
type CallableDecl struct {
	Name      string
	Params    []Param
	Output    *Ty // nil = Unit
	Intrinsic IntrinsicKind
	Body      S // nil for intrinsics

	Props *PropsIndex
	Spans *SpanIndex
}

// Package is the read-only input of a partial-evaluation run.
type Package struct {
	Callables []*CallableDecl
	Entry     S

	EntryProps *PropsIndex
	EntrySpans *SpanIndex
}

// Lookup resolves a callable declaration by name.
func (p *Package) Lookup(name string) (*CallableDecl, bool) {
	for _, c := range p.Callables {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// tag returns the node's string tag, or "" for malformed nodes.
func tag(n S) string {
	if len(n) == 0 {
		return ""
	}
	t, _ := n[0].(string)
	return t
}
