// loops.go — compile-time loop unrolling.
//
// Loops never survive into the output program: every iteration runs in the
// evaluator and only the side-effecting instructions of each iteration are
// appended. The iterable (for) and condition (while, repeat/until) must
// resolve classically; a runtime condition would need backward branching,
// which no supported target provides.
//
// The iteration cap is shared across every loop of the run, so deeply nested
// unrolling cannot multiply past it.
//
// Materialization follows the mutable-binding policy: the loop's driving
// state gets exactly one initial Store (the range start, a zero index, or
// the repeat continue flag), while per-iteration updates stay in the
// evaluator's environment.

package qsharp

import "go.uber.org/zap"

func (sp *Specializer) evalFor(n S, path NodePath) Value {
	span := sp.span(path)
	if len(n) != 4 {
		raise(ErrInvalidProgram, span, "malformed for node")
	}
	name := sp.nodeName(n, 1, path)
	iterPath := childPath(path, 1)
	iter := sp.eval(sp.childNode(n, 2, path), iterPath)
	if sp.propsAt(iterPath).RequiresRuntimeValue {
		raise(ErrUnsupportedExpressionForm, sp.span(iterPath), "loop iterable must be statically resolvable")
	}
	body := sp.childNode(n, 3, path)
	bodyPath := childPath(path, 2)

	runBody := func(v Value) {
		sp.env.push()
		sp.env.define(name, v, false)
		sp.eval(body, bodyPath)
		sp.env.pop()
	}

	switch iter.Tag {
	case VTRange:
		r := iter.Data.(Range)
		slot := sp.freshVar(TyInteger)
		sp.emit(Instruction{Op: OpStore, Result: &slot, Args: []Operand{LitOperand(IntLit(r.Start))}})
		count := 0
		for v := r.Start; (r.Step > 0 && v <= r.End) || (r.Step < 0 && v >= r.End); v += r.Step {
			sp.countIteration(span)
			runBody(Int(v))
			count++
		}
		sp.log.Debug("unrolled loop", zap.Int("iterations", count))
	case VTArray:
		xs := iter.Data.([]Value)
		slot := sp.freshVar(TyInteger)
		sp.emit(Instruction{Op: OpStore, Result: &slot, Args: []Operand{LitOperand(IntLit(0))}})
		for _, v := range xs {
			sp.countIteration(span)
			runBody(v)
		}
		sp.log.Debug("unrolled loop", zap.Int("iterations", len(xs)))
	default:
		if iter.isRuntime() {
			raise(ErrUnsupportedExpressionForm, span, "loop iterable must be statically resolvable")
		}
		raise(ErrInvalidProgram, span, "for loop over a non-iterable value")
	}
	return Unit
}

func (sp *Specializer) evalWhile(n S, path NodePath) Value {
	span := sp.span(path)
	if len(n) != 3 {
		raise(ErrInvalidProgram, span, "malformed while node")
	}
	cond := sp.childNode(n, 1, path)
	condPath := childPath(path, 0)
	body := sp.childNode(n, 2, path)
	bodyPath := childPath(path, 1)

	iters := 0
	for {
		c := sp.eval(cond, condPath)
		sp.checkLoopCondition(c, condPath)
		if !c.Data.(bool) {
			break
		}
		sp.countIteration(span)
		iters++
		sp.env.push()
		sp.eval(body, bodyPath)
		sp.env.pop()
	}
	sp.log.Debug("unrolled loop", zap.Int("iterations", iters))
	return Unit
}

func (sp *Specializer) evalRepeat(n S, path NodePath) Value {
	span := sp.span(path)
	if len(n) != 3 {
		raise(ErrInvalidProgram, span, "malformed repeat node")
	}
	body := sp.childNode(n, 1, path)
	bodyPath := childPath(path, 0)
	cond := sp.childNode(n, 2, path)
	condPath := childPath(path, 1)

	// The continue flag is the one piece of loop state a runtime could
	// observe: true before each iteration, false once on exit.
	flag := sp.freshVar(TyBoolean)
	iters := 0
	for {
		sp.countIteration(span)
		iters++
		sp.emit(Instruction{Op: OpStore, Result: &flag, Args: []Operand{LitOperand(BoolLit(true))}})
		// The until condition sees bindings introduced by the body.
		sp.env.push()
		sp.eval(body, bodyPath)
		c := sp.eval(cond, condPath)
		sp.env.pop()
		sp.checkLoopCondition(c, condPath)
		if c.Data.(bool) {
			break
		}
	}
	sp.emit(Instruction{Op: OpStore, Result: &flag, Args: []Operand{LitOperand(BoolLit(false))}})
	sp.log.Debug("unrolled loop", zap.Int("iterations", iters))
	return Unit
}

// countIteration charges one unrolled iteration against the run-wide cap.
func (sp *Specializer) countIteration(span Span) {
	sp.iterCount++
	if sp.iterCount > sp.iterCap {
		raise(ErrUnboundedLoop, span, "loop unrolling exceeded the evaluation cap (%d iterations)", sp.iterCap)
	}
}

// checkLoopCondition rejects any loop condition that did not fold to a
// classical boolean. A condition the sidecar classifies as runtime-required
// is treated as runtime even when its value folded.
func (sp *Specializer) checkLoopCondition(c Value, condPath NodePath) {
	runtimeClassified := sp.propsAt(condPath).RequiresRuntimeValue
	if c.Tag == VTBool && !runtimeClassified {
		return
	}
	span := sp.span(condPath)
	if c.isRuntime() || runtimeClassified {
		if !sp.caps.Has(CapBackwardBranching) {
			raise(ErrUnsupportedRuntimeCapability, span,
				"loop condition depends on a runtime value, which requires the %s capability", CapBackwardBranching)
		}
		raise(ErrUnsupportedExpressionForm, span, "runtime loop conditions are not supported")
	}
	raise(ErrInvalidProgram, span, "loop condition is not boolean")
}
