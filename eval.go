// eval.go — the partial-evaluation engine (the Specializer).
//
// Specialize walks the flattened program the way a real execution would,
// computing every classically-determined expression in the host value domain
// and appending an instruction to the output program only when an operation
// has a physical side effect (gate, measurement, reset, output recording) or
// when a value crosses into runtime (materialized variables, runtime-
// conditioned branches on capability-rich targets).
//
// Error discipline mirrors the engine surface pattern used across this
// codebase: evaluation raises typed panics (evalErr, returnSig) internally
// and the single public entry point converts them exactly once.

package qsharp

import (
	"fmt"

	"go.uber.org/zap"
)

const (
	defaultIterationCap = 1_000_000
	defaultCallDepthCap = 1024
)

// Option configures a partial-evaluation run.
type Option func(*Specializer)

// WithLogger installs a logger for Debug-level tracing of callable
// registration, block creation, and loop unrolling. Default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(sp *Specializer) { sp.log = l }
}

// WithIterationCap overrides the per-loop unrolling safety cap.
func WithIterationCap(n int) Option {
	return func(sp *Specializer) { sp.iterCap = n }
}

// WithCallDepthCap overrides the recursion depth cap.
func WithCallDepthCap(n int) Option {
	return func(sp *Specializer) { sp.depthCap = n }
}

// returnSig unwinds a `return` out of the enclosing callable body.
type returnSig struct{ v Value }

// evalFrame tracks the sidecar indices and name of the callable body being
// evaluated, for props lookups and error attribution. branchBase records the
// runtime branch depth at frame entry so a `return` can tell whether its
// unwind would cross a runtime-conditioned arm.
type evalFrame struct {
	props      *PropsIndex
	spans      *SpanIndex
	name       string
	branchBase int
}

// Specializer holds the state of one partial-evaluation run. One instance
// owns one resource allocator and one output Program; evaluation is
// single-threaded, synchronous, and deterministic.
type Specializer struct {
	pkg  *Package
	caps CapabilityFlags
	log  *zap.Logger

	prog    *Program
	current BlockID
	sigIDs  map[string]CallableID
	nextVar VariableID
	alloc   resourceAllocator
	env     *env
	frames  []evalFrame

	iterCap     int
	iterCount   int
	depthCap    int
	callDepth   int
	branchDepth int
}

// Specialize partially evaluates pkg's entry expression against the target's
// capability flags and returns the flat RIR program, or the first structured
// error encountered along the evaluation path. On failure the partially
// built program is discarded.
func Specialize(pkg *Package, target TargetProfile, opts ...Option) (prog *Program, err error) {
	if pkg == nil || pkg.Entry == nil {
		return nil, &Error{Kind: ErrInvalidProgram, Msg: "package has no entry expression"}
	}

	sp := &Specializer{
		pkg:      pkg,
		caps:     target.Capabilities,
		log:      zap.NewNop(),
		prog:     newProgram(),
		sigIDs:   map[string]CallableID{},
		iterCap:  defaultIterationCap,
		depthCap: defaultCallDepthCap,
	}
	for _, opt := range opts {
		opt(sp)
	}
	sp.env = newEnv(&sp.alloc)

	defer func() {
		if r := recover(); r != nil {
			prog = nil
			switch sig := r.(type) {
			case evalErr:
				err = &Error{Kind: sig.kind, Msg: sig.msg, Callable: sp.frameName(), Span: sig.span}
			case returnSig:
				err = &Error{Kind: ErrInvalidProgram, Msg: "return outside of a callable body", Callable: sp.frameName()}
			default:
				err = &Error{Kind: ErrInvalidProgram, Msg: fmt.Sprintf("evaluation panic: %v", r), Callable: sp.frameName()}
			}
		}
	}()

	entry := sp.prog.newBlock()
	sp.prog.Entry = entry.ID
	sp.current = entry.ID
	entryBody := entry.ID
	sp.prog.addCallable(&Callable{Name: "main", CallType: CallRegular, Body: &entryBody})

	sp.frames = append(sp.frames, evalFrame{props: pkg.EntryProps, spans: pkg.EntrySpans, name: "<entry>"})
	sp.env.push()

	val := sp.evalEntry()
	sp.recordOutput(val)
	sp.emit(Instruction{Op: OpReturn})

	sp.env.pop()
	sp.prog.NumQubits = sp.alloc.qubitCount()
	sp.prog.NumResults = sp.alloc.resultCount()
	sp.log.Debug("partial evaluation complete",
		zap.Int("callables", len(sp.prog.Callables())),
		zap.Int("blocks", len(sp.prog.Blocks())),
		zap.Int("qubits", sp.prog.NumQubits),
		zap.Int("results", sp.prog.NumResults))
	return sp.prog, nil
}

func (sp *Specializer) frameName() string {
	if len(sp.frames) == 0 {
		return "<entry>"
	}
	return sp.frames[len(sp.frames)-1].name
}

// evalEntry evaluates the entry expression, treating a top-level `return`
// like the end of a callable body.
func (sp *Specializer) evalEntry() (out Value) {
	base := sp.env.depth()
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(returnSig)
			if !ok {
				panic(r)
			}
			sp.env.popTo(base)
			out = sig.v
		}
	}()
	out = sp.eval(sp.pkg.Entry, nil)
	return
}

/* ---------- sidecar lookups ---------- */

func (sp *Specializer) span(path NodePath) Span {
	f := sp.frames[len(sp.frames)-1]
	s, _ := f.spans.Get(path)
	return s
}

func (sp *Specializer) propsAt(path NodePath) ComputeProps {
	f := sp.frames[len(sp.frames)-1]
	return f.props.Get(path)
}

// requireCaps is the Capability Gate: it fails evaluation when the target
// lacks any of the needed capabilities.
func (sp *Specializer) requireCaps(needed CapabilityFlags, span Span, what string) {
	if !sp.caps.Has(needed) {
		missing := needed &^ sp.caps
		raise(ErrUnsupportedRuntimeCapability, span,
			"%s requires target capabilities the target does not support: %s", what, missing)
	}
}

/* ---------- emission helpers ---------- */

func (sp *Specializer) emit(in Instruction) {
	sp.prog.appendTo(sp.current, in)
}

func (sp *Specializer) freshVar(ty Ty) Variable {
	v := Variable{ID: sp.nextVar, Ty: ty}
	sp.nextVar++
	return v
}

func (sp *Specializer) newBlock() *Block {
	b := sp.prog.newBlock()
	sp.log.Debug("created block", zap.Int("id", int(b.ID)))
	return b
}

// resolveCallable returns the stable id for a physical operation, registering
// it on first use. Identity is the full signature: name, input/output types,
// and call type.
func (sp *Specializer) resolveCallable(name string, input []Ty, output *Ty, ct CallableType) CallableID {
	key := fmt.Sprintf("%s|%v|%v|%d", name, input, output, ct)
	if id, ok := sp.sigIDs[key]; ok {
		return id
	}
	id := sp.prog.addCallable(&Callable{
		Name:       name,
		CallType:   ct,
		InputType:  input,
		OutputType: output,
	})
	sp.sigIDs[key] = id
	sp.log.Debug("registered callable", zap.String("name", name), zap.Int("id", int(id)))
	return id
}

/* ---------- the recursive evaluator ---------- */

func (sp *Specializer) eval(n S, path NodePath) Value {
	if len(n) == 0 {
		raise(ErrInvalidProgram, sp.span(path), "empty expression node")
	}
	switch tag(n) {
	case "unit":
		return Unit
	case "int":
		return Int(asInt64(n[1], sp.span(path)))
	case "double":
		return Double(asFloat64(n[1], sp.span(path)))
	case "bool":
		b, ok := n[1].(bool)
		if !ok {
			raise(ErrInvalidProgram, sp.span(path), "malformed bool literal")
		}
		return Bool(b)
	case "result":
		return ResultLit(asInt64(n[1], sp.span(path)) != 0)
	case "array", "tuple":
		xs := make([]Value, 0, len(n)-1)
		for i := 1; i < len(n); i++ {
			xs = append(xs, sp.eval(sp.childNode(n, i, path), childPath(path, i-1)))
		}
		if tag(n) == "tuple" {
			if len(xs) == 0 {
				return Unit
			}
			return Tuple(xs)
		}
		return Arr(xs)
	case "range":
		return sp.evalRange(n, path)
	case "var":
		return sp.evalVar(n, path)
	case "let", "mutable":
		return sp.evalBind(n, path)
	case "assign":
		return sp.evalAssign(n, path)
	case "binop":
		return sp.evalBinop(n, path)
	case "unop":
		return sp.evalUnop(n, path)
	case "index":
		return sp.evalIndex(n, path)
	case "call":
		return sp.evalCall(n, path, false)
	case "partial":
		return sp.evalCall(n, path, true)
	case "if":
		return sp.evalIf(n, path)
	case "for":
		return sp.evalFor(n, path)
	case "while":
		return sp.evalWhile(n, path)
	case "repeat":
		return sp.evalRepeat(n, path)
	case "block":
		return sp.evalBlock(n, path)
	case "return":
		// Unwinding out of a runtime-conditioned arm would leave its blocks
		// without terminators, so the arm has to run to completion.
		if sp.branchDepth > sp.frames[len(sp.frames)-1].branchBase {
			raise(ErrUnsupportedExpressionForm, sp.span(path), "return from within a runtime-conditioned branch")
		}
		v := Unit
		if len(n) > 1 {
			v = sp.eval(sp.childNode(n, 1, path), childPath(path, 0))
		}
		panic(returnSig{v: v})
	case "use":
		return sp.evalUse(n, path)
	default:
		raise(ErrUnsupportedExpressionForm, sp.span(path), "no compile-time evaluation strategy for %q", tag(n))
	}
	return Unit
}

// childNode fetches child i (1-based slot) of n as an expression node.
func (sp *Specializer) childNode(n S, i int, path NodePath) S {
	if i >= len(n) {
		raise(ErrInvalidProgram, sp.span(path), "node %q is missing child %d", tag(n), i-1)
	}
	c, ok := n[i].(S)
	if !ok {
		raise(ErrInvalidProgram, sp.span(path), "node %q has a malformed child %d", tag(n), i-1)
	}
	return c
}

func (sp *Specializer) nodeName(n S, i int, path NodePath) string {
	if i >= len(n) {
		raise(ErrInvalidProgram, sp.span(path), "node %q is missing a name", tag(n))
	}
	s, ok := n[i].(string)
	if !ok {
		raise(ErrInvalidProgram, sp.span(path), "node %q has a malformed name", tag(n))
	}
	return s
}

func (sp *Specializer) evalRange(n S, path NodePath) Value {
	span := sp.span(path)
	get := func(i int) int64 {
		v := sp.eval(sp.childNode(n, i, path), childPath(path, i-1))
		if v.Tag != VTInt {
			raise(ErrUnsupportedExpressionForm, span, "range bounds must be statically resolvable integers")
		}
		return v.Data.(int64)
	}
	var r Range
	switch len(n) {
	case 3:
		r = Range{Start: get(1), Step: 1, End: get(2)}
	case 4:
		r = Range{Start: get(1), Step: get(2), End: get(3)}
	default:
		raise(ErrInvalidProgram, span, "malformed range node")
	}
	if r.Step == 0 {
		raise(ErrInvalidProgram, span, "range step cannot be zero")
	}
	return RangeVal(r)
}

func (sp *Specializer) evalVar(n S, path NodePath) Value {
	name := sp.nodeName(n, 1, path)
	if b, err := sp.env.lookup(name); err == nil {
		return b.val
	}
	if decl, ok := sp.pkg.Lookup(name); ok {
		return CallableVal(&CallableValue{Decl: decl})
	}
	raise(ErrInvalidProgram, sp.span(path), "unresolved binding: %s", name)
	return Unit
}

func (sp *Specializer) evalBind(n S, path NodePath) Value {
	name := sp.nodeName(n, 1, path)
	v := sp.eval(sp.childNode(n, 2, path), childPath(path, 1))
	mutable := tag(n) == "mutable"
	b := sp.env.define(name, v, mutable)
	if mutable {
		sp.materialize(b, sp.span(path))
	}
	return Unit
}

// materialize gives a binding its runtime slot and emits the single initial
// Store. Bindings whose values have no materializable RIR type (arrays,
// tuples, callables) stay purely classical.
func (sp *Specializer) materialize(b *binding, span Span) {
	ty, ok := storableTy(b.val)
	if !ok {
		return
	}
	slot := sp.freshVar(ty)
	sp.emit(Instruction{Op: OpStore, Result: &slot, Args: []Operand{sp.operandOf(b.val, span)}})
	b.slot = &slot
	if b.val.isRuntime() {
		b.val = VarVal(slot)
	}
}

func (sp *Specializer) evalAssign(n S, path NodePath) Value {
	name := sp.nodeName(n, 1, path)
	span := sp.span(path)
	b, err := sp.env.lookup(name)
	if err != nil {
		raise(ErrInvalidProgram, span, "unresolved binding: %s", name)
	}
	if !b.mutable {
		raise(ErrInvalidProgram, span, "assignment to immutable binding: %s", name)
	}
	v := sp.eval(sp.childNode(n, 2, path), childPath(path, 1))
	if v.isRuntime() {
		ty, ok := storableTy(v)
		if !ok {
			raise(ErrUnsupportedExpressionForm, span, "cannot materialize %s binding", name)
		}
		if b.slot == nil || b.slot.Ty != ty {
			slot := sp.freshVar(ty)
			b.slot = &slot
		}
		sp.emit(Instruction{Op: OpStore, Result: b.slot, Args: []Operand{sp.operandOf(v, span)}})
		b.val = VarVal(*b.slot)
		return Unit
	}
	// Classical updates stay in the environment; only the binding's
	// initial Store reaches the instruction stream.
	b.val = v
	return Unit
}

func (sp *Specializer) evalIndex(n S, path NodePath) Value {
	span := sp.span(path)
	arr := sp.eval(sp.childNode(n, 1, path), childPath(path, 0))
	idx := sp.eval(sp.childNode(n, 2, path), childPath(path, 1))
	if arr.Tag != VTArray {
		raise(ErrInvalidProgram, span, "indexing a non-array value")
	}
	if idx.Tag != VTInt {
		if idx.isRuntime() {
			raise(ErrUnsupportedExpressionForm, span, "array index must be statically resolvable")
		}
		raise(ErrInvalidProgram, span, "array index must be an integer")
	}
	xs := arr.Data.([]Value)
	i := idx.Data.(int64)
	if i < 0 || i >= int64(len(xs)) {
		raise(ErrInvalidProgram, span, "array index %d out of range (length %d)", i, len(xs))
	}
	return xs[i]
}

func (sp *Specializer) evalBlock(n S, path NodePath) Value {
	sp.env.push()
	defer sp.env.pop()
	v := Unit
	for i := 1; i < len(n); i++ {
		v = sp.eval(sp.childNode(n, i, path), childPath(path, i-1))
	}
	return v
}

func (sp *Specializer) evalUse(n S, path NodePath) Value {
	name := sp.nodeName(n, 1, path)
	span := sp.span(path)
	sp.env.push()
	defer sp.env.pop()
	switch len(n) {
	case 3: // single qubit
		id := sp.alloc.allocQubit()
		sp.env.trackQubit(id)
		sp.env.define(name, Qubit(id), false)
		return sp.eval(sp.childNode(n, 2, path), childPath(path, 1))
	case 4: // register of qubits
		count := sp.eval(sp.childNode(n, 2, path), childPath(path, 1))
		if count.Tag != VTInt {
			raise(ErrUnsupportedExpressionForm, span, "qubit register size must be statically resolvable")
		}
		size := count.Data.(int64)
		if size < 0 {
			raise(ErrInvalidProgram, span, "negative qubit register size")
		}
		qs := make([]Value, size)
		for i := range qs {
			id := sp.alloc.allocQubit()
			sp.env.trackQubit(id)
			qs[i] = Qubit(id)
		}
		sp.env.define(name, Arr(qs), false)
		return sp.eval(sp.childNode(n, 3, path), childPath(path, 2))
	default:
		raise(ErrInvalidProgram, span, "malformed use node")
	}
	return Unit
}

/* ---------- calls ---------- */

func (sp *Specializer) evalCall(n S, path NodePath, partial bool) Value {
	span := sp.span(path)
	if len(n) < 2 {
		raise(ErrInvalidProgram, span, "malformed call node")
	}

	var cv *CallableValue
	switch callee := n[1].(type) {
	case string:
		if b, err := sp.env.lookup(callee); err == nil {
			if b.val.Tag != VTCallable {
				raise(ErrInvalidProgram, span, "%s is not callable", callee)
			}
			cv = b.val.Data.(*CallableValue)
		} else if decl, ok := sp.pkg.Lookup(callee); ok {
			cv = &CallableValue{Decl: decl}
		} else {
			raise(ErrInvalidProgram, span, "unresolved callable: %s", callee)
		}
	default:
		v := sp.eval(sp.childNode(n, 1, path), childPath(path, 0))
		if v.Tag != VTCallable {
			raise(ErrInvalidProgram, span, "call target is not callable")
		}
		cv = v.Data.(*CallableValue)
	}

	args := make([]Value, 0, len(n)-2)
	for i := 2; i < len(n); i++ {
		args = append(args, sp.eval(sp.childNode(n, i, path), childPath(path, i-1)))
	}

	if partial {
		if len(cv.Applied)+len(args) > len(cv.Decl.Params) {
			raise(ErrInvalidProgram, span, "partial application of %s exceeds its arity", cv.Decl.Name)
		}
		return CallableVal(cv.WithApplied(args))
	}

	combined := args
	if len(cv.Applied) > 0 {
		combined = append(append([]Value{}, cv.Applied...), args...)
	}
	if len(combined) != len(cv.Decl.Params) {
		raise(ErrInvalidProgram, span, "arity mismatch calling %s: expected %d, got %d",
			cv.Decl.Name, len(cv.Decl.Params), len(combined))
	}

	if cv.Decl.Intrinsic != IntrinsicNone {
		return sp.emitIntrinsicCall(cv.Decl, combined, span)
	}
	return sp.callUserCallable(cv.Decl, combined, span)
}

// callUserCallable evaluates a callable body inline against concrete
// arguments. Recursion depth shares the unbounded-evaluation cap.
func (sp *Specializer) callUserCallable(decl *CallableDecl, args []Value, span Span) (out Value) {
	if decl.Body == nil {
		raise(ErrInvalidProgram, span, "callable %s has no body", decl.Name)
	}
	sp.callDepth++
	if sp.callDepth > sp.depthCap {
		raise(ErrUnboundedLoop, span, "call depth exceeded the evaluation cap (%d) in %s", sp.depthCap, decl.Name)
	}
	base := sp.env.depth()
	sp.env.push()
	sp.frames = append(sp.frames, evalFrame{props: decl.Props, spans: decl.Spans, name: decl.Name, branchBase: sp.branchDepth})

	defer func() {
		sp.callDepth--
		if r := recover(); r != nil {
			sig, ok := r.(returnSig)
			if !ok {
				panic(r) // frames stay for error attribution
			}
			sp.frames = sp.frames[:len(sp.frames)-1]
			sp.env.popTo(base)
			out = sig.v
			return
		}
		sp.frames = sp.frames[:len(sp.frames)-1]
		sp.env.popTo(base)
	}()

	for i, p := range decl.Params {
		sp.env.define(p.Name, args[i], false)
	}
	out = sp.eval(decl.Body, nil)
	return
}

// emitIntrinsicCall appends a Call for an operation with a physical side
// effect. Measurements allocate the result handle and pass it as the final
// argument, following the hardware calling convention.
func (sp *Specializer) emitIntrinsicCall(decl *CallableDecl, args []Value, span Span) Value {
	input := make([]Ty, len(decl.Params))
	for i, p := range decl.Params {
		input[i] = p.Ty
	}
	operands := make([]Operand, len(args))
	for i, a := range args {
		operands[i] = sp.operandOf(a, span)
	}

	switch decl.Intrinsic {
	case IntrinsicMeasurement:
		id := sp.alloc.allocResult()
		input = append(input, TyResult)
		operands = append(operands, LitOperand(ResultIDLit(id)))
		callee := sp.resolveCallable(decl.Name, input, nil, CallMeasurement)
		sp.emit(Instruction{Op: OpCall, Callee: callee, Args: operands})
		return Result(id)
	case IntrinsicReset:
		callee := sp.resolveCallable(decl.Name, input, nil, CallReset)
		sp.emit(Instruction{Op: OpCall, Callee: callee, Args: operands})
		return Unit
	default:
		callee := sp.resolveCallable(decl.Name, input, decl.Output, CallRegular)
		if decl.Output == nil {
			sp.emit(Instruction{Op: OpCall, Callee: callee, Args: operands})
			return Unit
		}
		res := sp.freshVar(*decl.Output)
		sp.emit(Instruction{Op: OpCall, Result: &res, Callee: callee, Args: operands})
		return VarVal(res)
	}
}

/* ---------- conditionals ---------- */

func (sp *Specializer) evalIf(n S, path NodePath) Value {
	span := sp.span(path)
	if len(n) < 3 || len(n) > 4 {
		raise(ErrInvalidProgram, span, "malformed if node")
	}
	condPath := childPath(path, 0)
	cond := sp.eval(sp.childNode(n, 1, path), condPath)
	condProps := sp.propsAt(condPath)

	if cond.Tag == VTBool && !condProps.RequiresRuntimeValue {
		// Constant-folded: take the branch purely in the evaluator. A
		// condition the sidecar classifies as runtime-required is never
		// folded, whatever its value turned out to be.
		if cond.Data.(bool) {
			sp.env.push()
			defer sp.env.pop()
			return sp.eval(sp.childNode(n, 2, path), childPath(path, 1))
		}
		if len(n) == 4 {
			sp.env.push()
			defer sp.env.pop()
			return sp.eval(sp.childNode(n, 3, path), childPath(path, 2))
		}
		return Unit
	}
	if !cond.isRuntime() && cond.Tag != VTBool {
		raise(ErrInvalidProgram, span, "branch condition is not boolean")
	}

	condSpan := sp.span(condPath)
	sp.requireCaps(CapForwardBranching|condProps.RequiredCaps, condSpan, "branching on a runtime value")
	condOp := sp.boolOperandOf(cond, condSpan)

	hasElse := len(n) == 4
	trueBlk := sp.newBlock()
	var elseBlk *Block
	if hasElse {
		elseBlk = sp.newBlock()
	}
	contBlk := sp.newBlock()

	falseTarget := contBlk.ID
	if hasElse {
		falseTarget = elseBlk.ID
	}
	sp.emit(Instruction{Op: OpBranch, Args: []Operand{condOp}, True: trueBlk.ID, False: falseTarget})

	evalArm := func(blk BlockID, i int) (Value, BlockID) {
		sp.current = blk
		sp.env.push()
		sp.branchDepth++
		v := sp.eval(sp.childNode(n, i, path), childPath(path, i-1))
		sp.branchDepth--
		sp.env.pop()
		return v, sp.current
	}

	tv, tEnd := evalArm(trueBlk.ID, 2)
	fv, fEnd := Unit, BlockID(-1)
	if hasElse {
		fv, fEnd = evalArm(elseBlk.ID, 3)
	}

	result := Unit
	if tv.Tag != VTUnit || (hasElse && fv.Tag != VTUnit) {
		if !hasElse {
			raise(ErrInvalidProgram, span, "conditional expression without an else branch must be unit")
		}
		tty, tok := storableTy(tv)
		fty, fok := storableTy(fv)
		if !tok || !fok || tty != fty {
			raise(ErrInvalidProgram, span, "conditional branches produce incompatible values")
		}
		join := sp.freshVar(tty)
		sp.prog.appendTo(tEnd, Instruction{Op: OpStore, Result: &join, Args: []Operand{sp.operandOf(tv, span)}})
		sp.prog.appendTo(fEnd, Instruction{Op: OpStore, Result: &join, Args: []Operand{sp.operandOf(fv, span)}})
		result = VarVal(join)
	}

	sp.prog.appendTo(tEnd, Instruction{Op: OpJump, Target: contBlk.ID})
	if hasElse {
		sp.prog.appendTo(fEnd, Instruction{Op: OpJump, Target: contBlk.ID})
	}
	sp.current = contBlk.ID
	return result
}

/* ---------- operand conversion ---------- */

// operandOf lowers an evaluated value to an instruction operand.
func (sp *Specializer) operandOf(v Value, span Span) Operand {
	switch v.Tag {
	case VTInt:
		return LitOperand(IntLit(v.Data.(int64)))
	case VTDouble:
		return LitOperand(DoubleLit(v.Data.(float64)))
	case VTBool:
		return LitOperand(BoolLit(v.Data.(bool)))
	case VTQubit:
		return LitOperand(QubitLit(v.Data.(QubitID)))
	case VTResult:
		if id, ok := v.Data.(ResultID); ok {
			return LitOperand(ResultIDLit(id))
		}
		raise(ErrUnsupportedExpressionForm, span, "result constants cannot be materialized as operands")
	case VTVariable:
		return VarOperand(v.Data.(Variable))
	}
	raise(ErrUnsupportedExpressionForm, span, "value has no operand representation")
	return Operand{}
}

// boolOperandOf lowers a value used as a runtime condition. A raw
// measurement handle reads out through the readout callable, which needs the
// result-comparison capability.
func (sp *Specializer) boolOperandOf(v Value, span Span) Operand {
	switch v.Tag {
	case VTBool:
		return LitOperand(BoolLit(v.Data.(bool)))
	case VTVariable:
		rv := v.Data.(Variable)
		if rv.Ty != TyBoolean {
			raise(ErrInvalidProgram, span, "condition variable is not boolean")
		}
		return VarOperand(rv)
	case VTResult:
		if _, ok := v.Data.(ResultID); ok {
			return VarOperand(sp.readResult(v, span))
		}
	}
	raise(ErrInvalidProgram, span, "condition is not boolean")
	return Operand{}
}

// readResult lowers a measurement handle to a Boolean variable via the
// readout callable.
func (sp *Specializer) readResult(v Value, span Span) Variable {
	sp.requireCaps(CapResultComparison, span, "reading a measurement result")
	boolTy := TyBoolean
	callee := sp.resolveCallable("__quantum__qis__read_result__body", []Ty{TyResult}, &boolTy, CallRegular)
	res := sp.freshVar(TyBoolean)
	sp.emit(Instruction{Op: OpCall, Result: &res, Callee: callee, Args: []Operand{sp.operandOf(v, span)}})
	return res
}

/* ---------- scalar coercion ---------- */

// storableTy maps a value to the RIR type a runtime slot for it would have.
func storableTy(v Value) (Ty, bool) {
	switch v.Tag {
	case VTInt:
		return TyInteger, true
	case VTDouble:
		return TyDouble, true
	case VTBool:
		return TyBoolean, true
	case VTVariable:
		return v.Data.(Variable).Ty, true
	case VTUnit:
		return 0, false
	}
	return 0, false
}

func asInt64(x any, span Span) int64 {
	switch n := x.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	}
	raise(ErrInvalidProgram, span, "malformed integer literal")
	return 0
}

func asFloat64(x any, span Span) float64 {
	switch f := x.(type) {
	case float64:
		return f
	case int64:
		return float64(f)
	case int:
		return float64(f)
	}
	raise(ErrInvalidProgram, span, "malformed double literal")
	return 0
}
