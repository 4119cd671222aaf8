// errors.go — the structured error surfaced by partial evaluation.
//
// Internally the evaluator raises failures as typed panics (evalErr) and the
// single public entry point recovers them into *Error. No error is silently
// recovered: the first failure along the evaluation path aborts the whole
// compilation unit and the partially built Program is discarded.

package qsharp

import "fmt"

// ErrorKind classifies partial-evaluation failures.
type ErrorKind int

const (
	// ErrUnsupportedRuntimeCapability: a branch or loop condition depends on
	// a runtime value the target's capabilities cannot express.
	ErrUnsupportedRuntimeCapability ErrorKind = iota
	// ErrUnboundedLoop: a loop (or recursion) could not be proven to
	// terminate within the iteration cap.
	ErrUnboundedLoop
	// ErrUnsupportedExpressionForm: a construct with no defined compile-time
	// evaluation strategy.
	ErrUnsupportedExpressionForm
	// ErrInvalidProgram: an internal consistency violation, a defect in the
	// input rather than a capability gap.
	ErrInvalidProgram
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnsupportedRuntimeCapability:
		return "UnsupportedRuntimeCapability"
	case ErrUnboundedLoop:
		return "UnboundedLoop"
	case ErrUnsupportedExpressionForm:
		return "UnsupportedExpressionForm"
	case ErrInvalidProgram:
		return "InvalidProgram"
	default:
		return "<unknown>"
	}
}

// Error is the terminal failure of a partial-evaluation run. Callable names
// the enclosing callable ("<entry>" for the entry expression); Span is the
// byte interval of the offending expression in the original source, when the
// lowering collaborator supplied one.
type Error struct {
	Kind     ErrorKind
	Msg      string
	Callable string
	Span     Span
}

func (e *Error) Error() string {
	where := e.Callable
	if where == "" {
		where = "<entry>"
	}
	if e.Span != (Span{}) {
		return fmt.Sprintf("%s in %s at [%d,%d): %s", e.Kind, where, e.Span.StartByte, e.Span.EndByte, e.Msg)
	}
	return fmt.Sprintf("%s in %s: %s", e.Kind, where, e.Msg)
}

// evalErr is the internal panic payload used to unwind evaluation. It is
// converted into *Error exactly once, at the Specialize boundary.
type evalErr struct {
	kind ErrorKind
	msg  string
	span Span
}

// raise aborts evaluation with a structured failure.
func raise(kind ErrorKind, span Span, format string, args ...any) {
	panic(evalErr{kind: kind, msg: fmt.Sprintf(format, args...), span: span})
}
