// ops.go — binary and unary operators under hybrid evaluation.
//
// Every operator folds in the host value domain when all operands are
// classical. The moment a runtime value flows in, the operator materializes
// as an RIR instruction instead, gated on the target's integer, floating-
// point, or result-comparison capabilities.

package qsharp

var intOps = map[string]Opcode{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpSdiv, "%": OpSrem,
}

var doubleOps = map[string]Opcode{
	"+": OpFadd, "-": OpFsub, "*": OpFmul, "/": OpFdiv,
}

var cmpConds = map[string]ConditionCode{
	"==": CondEq, "!=": CondNe, "<": CondSlt, "<=": CondSle, ">": CondSgt, ">=": CondSge,
}

func (sp *Specializer) evalBinop(n S, path NodePath) Value {
	span := sp.span(path)
	if len(n) != 4 {
		raise(ErrInvalidProgram, span, "malformed binop node")
	}
	op := sp.nodeName(n, 1, path)

	if op == "and" || op == "or" {
		return sp.evalLogical(n, op, path)
	}

	lhs := sp.eval(sp.childNode(n, 2, path), childPath(path, 1))
	rhs := sp.eval(sp.childNode(n, 3, path), childPath(path, 2))

	if !lhs.isRuntime() && !rhs.isRuntime() {
		return sp.foldBinop(op, lhs, rhs, span)
	}
	switch op {
	case "+", "-", "*", "/", "%":
		return sp.emitArith(op, lhs, rhs, span)
	case "==", "!=", "<", "<=", ">", ">=":
		return sp.emitCompare(op, lhs, rhs, path)
	}
	raise(ErrInvalidProgram, span, "unknown operator %q", op)
	return Unit
}

// evalLogical short-circuits when the left side is classical; a runtime left
// side forces both sides to evaluate and emits the logical instruction.
func (sp *Specializer) evalLogical(n S, op string, path NodePath) Value {
	span := sp.span(path)
	lhs := sp.eval(sp.childNode(n, 2, path), childPath(path, 1))

	if lhs.Tag == VTBool {
		l := lhs.Data.(bool)
		if op == "and" && !l {
			return Bool(false)
		}
		if op == "or" && l {
			return Bool(true)
		}
		rhs := sp.eval(sp.childNode(n, 3, path), childPath(path, 2))
		if isBoolLike(rhs) || (rhs.Tag == VTResult && rhs.isRuntime()) {
			return rhs
		}
		raise(ErrInvalidProgram, span, "logical %s applied to a non-boolean value", op)
	}
	if !lhs.isRuntime() {
		raise(ErrInvalidProgram, span, "logical %s applied to a non-boolean value", op)
	}

	rhs := sp.eval(sp.childNode(n, 3, path), childPath(path, 2))
	props := sp.propsAt(path)
	sp.requireCaps(props.RequiredCaps, span, "a runtime logical operation")

	opcode := OpLogicalAnd
	if op == "or" {
		opcode = OpLogicalOr
	}
	// Operands lower first so any readout variables precede the result id.
	la := sp.boolOperandOf(lhs, span)
	ra := sp.boolOperandOf(rhs, span)
	res := sp.freshVar(TyBoolean)
	sp.emit(Instruction{Op: opcode, Result: &res, Args: []Operand{la, ra}})
	return VarVal(res)
}

// foldBinop performs the operator on two classical values.
func (sp *Specializer) foldBinop(op string, lhs, rhs Value, span Span) Value {
	switch op {
	case "==", "!=":
		eq := sp.valuesEqual(lhs, rhs, span)
		if op == "!=" {
			eq = !eq
		}
		return Bool(eq)
	}

	switch {
	case lhs.Tag == VTInt && rhs.Tag == VTInt:
		a, b := lhs.Data.(int64), rhs.Data.(int64)
		switch op {
		case "+":
			return Int(a + b)
		case "-":
			return Int(a - b)
		case "*":
			return Int(a * b)
		case "/":
			if b == 0 {
				raise(ErrInvalidProgram, span, "division by zero")
			}
			return Int(a / b)
		case "%":
			if b == 0 {
				raise(ErrInvalidProgram, span, "division by zero")
			}
			return Int(a % b)
		case "<":
			return Bool(a < b)
		case "<=":
			return Bool(a <= b)
		case ">":
			return Bool(a > b)
		case ">=":
			return Bool(a >= b)
		}
	case lhs.Tag == VTDouble && rhs.Tag == VTDouble:
		a, b := lhs.Data.(float64), rhs.Data.(float64)
		switch op {
		case "+":
			return Double(a + b)
		case "-":
			return Double(a - b)
		case "*":
			return Double(a * b)
		case "/":
			if b == 0 {
				raise(ErrInvalidProgram, span, "division by zero")
			}
			return Double(a / b)
		case "<":
			return Bool(a < b)
		case "<=":
			return Bool(a <= b)
		case ">":
			return Bool(a > b)
		case ">=":
			return Bool(a >= b)
		}
	case lhs.Tag == VTArray && rhs.Tag == VTArray && op == "+":
		a, b := lhs.Data.([]Value), rhs.Data.([]Value)
		out := make([]Value, 0, len(a)+len(b))
		out = append(out, a...)
		out = append(out, b...)
		return Arr(out)
	}
	raise(ErrInvalidProgram, span, "operator %q applied to mismatched operand types", op)
	return Unit
}

// valuesEqual is structural equality over classical values. Result constants
// compare against other result values; a runtime handle never reaches here.
func (sp *Specializer) valuesEqual(a, b Value, span Span) bool {
	if a.Tag != b.Tag {
		raise(ErrInvalidProgram, span, "comparison of mismatched value types")
	}
	switch a.Tag {
	case VTUnit:
		return true
	case VTInt:
		return a.Data.(int64) == b.Data.(int64)
	case VTDouble:
		return a.Data.(float64) == b.Data.(float64)
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTQubit:
		return a.Data.(QubitID) == b.Data.(QubitID)
	case VTResult:
		la, aok := a.Data.(ResultLiteral)
		lb, bok := b.Data.(ResultLiteral)
		if !aok || !bok {
			raise(ErrInvalidProgram, span, "comparison of mismatched value types")
		}
		return la == lb
	case VTTuple, VTArray:
		xs, ys := a.Data.([]Value), b.Data.([]Value)
		if len(xs) != len(ys) {
			return false
		}
		for i := range xs {
			if !sp.valuesEqual(xs[i], ys[i], span) {
				return false
			}
		}
		return true
	case VTRange:
		return a.Data.(Range) == b.Data.(Range)
	}
	raise(ErrUnsupportedExpressionForm, span, "values of this type cannot be compared")
	return false
}

// emitArith lowers an arithmetic operator with at least one runtime operand.
func (sp *Specializer) emitArith(op string, lhs, rhs Value, span Span) Value {
	ty, ok := numericTy(lhs, rhs)
	if !ok {
		raise(ErrInvalidProgram, span, "operator %q applied to mismatched operand types", op)
	}
	var opcode Opcode
	switch ty {
	case TyInteger:
		sp.requireCaps(CapIntegerComputations, span, "runtime integer arithmetic")
		opcode, ok = intOps[op]
	case TyDouble:
		sp.requireCaps(CapFloatingPointComputations, span, "runtime floating-point arithmetic")
		opcode, ok = doubleOps[op]
	default:
		ok = false
	}
	if !ok {
		raise(ErrInvalidProgram, span, "operator %q has no runtime form for this type", op)
	}
	la := sp.operandOf(lhs, span)
	ra := sp.operandOf(rhs, span)
	res := sp.freshVar(ty)
	sp.emit(Instruction{Op: opcode, Result: &res, Args: []Operand{la, ra}})
	return VarVal(res)
}

// emitCompare lowers a comparison with at least one runtime operand.
// Comparisons over measurement results read both sides out as booleans
// first, under the result-comparison capability.
func (sp *Specializer) emitCompare(op string, lhs, rhs Value, path NodePath) Value {
	span := sp.span(path)
	cond, ok := cmpConds[op]
	if !ok {
		raise(ErrInvalidProgram, span, "unknown comparison %q", op)
	}

	if isResultLike(lhs) || isResultLike(rhs) {
		if op != "==" && op != "!=" {
			raise(ErrInvalidProgram, span, "results only support equality comparison")
		}
		sp.requireCaps(CapResultComparison, span, "comparing measurement results")
		la := sp.resultCmpOperand(lhs, span)
		ra := sp.resultCmpOperand(rhs, span)
		res := sp.freshVar(TyBoolean)
		sp.emit(Instruction{Op: OpIcmp, Cond: cond, Result: &res, Args: []Operand{la, ra}})
		return VarVal(res)
	}

	ty, tok := numericTy(lhs, rhs)
	if !tok {
		if isBoolLike(lhs) && isBoolLike(rhs) && (op == "==" || op == "!=") {
			la := sp.boolOperandOf(lhs, span)
			ra := sp.boolOperandOf(rhs, span)
			res := sp.freshVar(TyBoolean)
			sp.emit(Instruction{Op: OpIcmp, Cond: cond, Result: &res, Args: []Operand{la, ra}})
			return VarVal(res)
		}
		raise(ErrInvalidProgram, span, "comparison of mismatched value types")
	}

	opcode := OpIcmp
	switch ty {
	case TyInteger:
		sp.requireCaps(CapIntegerComputations, span, "runtime integer comparison")
	case TyDouble:
		sp.requireCaps(CapFloatingPointComputations, span, "runtime floating-point comparison")
		opcode = OpFcmp
	}
	la := sp.operandOf(lhs, span)
	ra := sp.operandOf(rhs, span)
	res := sp.freshVar(TyBoolean)
	sp.emit(Instruction{Op: opcode, Cond: cond, Result: &res, Args: []Operand{la, ra}})
	return VarVal(res)
}

// resultCmpOperand lowers one side of a result comparison to a boolean
// operand: handles read out through the readout callable, constants fold to
// boolean literals.
func (sp *Specializer) resultCmpOperand(v Value, span Span) Operand {
	if v.Tag == VTResult {
		if lit, ok := v.Data.(ResultLiteral); ok {
			return LitOperand(BoolLit(bool(lit)))
		}
		return VarOperand(sp.readResult(v, span))
	}
	if v.Tag == VTVariable && v.Data.(Variable).Ty == TyBoolean {
		return VarOperand(v.Data.(Variable))
	}
	raise(ErrInvalidProgram, span, "result compared against a non-result value")
	return Operand{}
}

func (sp *Specializer) evalUnop(n S, path NodePath) Value {
	span := sp.span(path)
	if len(n) != 3 {
		raise(ErrInvalidProgram, span, "malformed unop node")
	}
	op := sp.nodeName(n, 1, path)
	v := sp.eval(sp.childNode(n, 2, path), childPath(path, 1))

	switch op {
	case "-":
		switch v.Tag {
		case VTInt:
			return Int(-v.Data.(int64))
		case VTDouble:
			return Double(-v.Data.(float64))
		case VTVariable:
			// Lowered as a subtraction from zero.
			switch v.Data.(Variable).Ty {
			case TyInteger:
				return sp.emitArith("-", Int(0), v, span)
			case TyDouble:
				return sp.emitArith("-", Double(0), v, span)
			}
		}
		raise(ErrInvalidProgram, span, "negation of a non-numeric value")
	case "not":
		if v.Tag == VTBool {
			return Bool(!v.Data.(bool))
		}
		if v.isRuntime() {
			props := sp.propsAt(path)
			sp.requireCaps(props.RequiredCaps, span, "a runtime logical operation")
			arg := sp.boolOperandOf(v, span)
			res := sp.freshVar(TyBoolean)
			sp.emit(Instruction{Op: OpLogicalNot, Result: &res, Args: []Operand{arg}})
			return VarVal(res)
		}
		raise(ErrInvalidProgram, span, "logical not applied to a non-boolean value")
	}
	raise(ErrInvalidProgram, span, "unknown unary operator %q", op)
	return Unit
}

func numericTy(lhs, rhs Value) (Ty, bool) {
	ty := func(v Value) (Ty, bool) {
		switch v.Tag {
		case VTInt:
			return TyInteger, true
		case VTDouble:
			return TyDouble, true
		case VTVariable:
			t := v.Data.(Variable).Ty
			if t == TyInteger || t == TyDouble {
				return t, true
			}
		}
		return 0, false
	}
	lt, lok := ty(lhs)
	rt, rok := ty(rhs)
	if !lok || !rok || lt != rt {
		return 0, false
	}
	return lt, true
}

func isResultLike(v Value) bool { return v.Tag == VTResult }

func isBoolLike(v Value) bool {
	return v.Tag == VTBool || (v.Tag == VTVariable && v.Data.(Variable).Ty == TyBoolean)
}
