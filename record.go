// record.go — output recording for the entry point's return value.
//
// Hardware targets stream their output: the tail of the entry block records
// the shape and leaves of the return value through the runtime's recording
// callables, so the execution log can be decoded back into the value. Unit
// records as an empty tuple.

package qsharp

const (
	recTuple  = "__quantum__rt__tuple_record_output"
	recArray  = "__quantum__rt__array_record_output"
	recInt    = "__quantum__rt__int_record_output"
	recDouble = "__quantum__rt__double_record_output"
	recBool   = "__quantum__rt__bool_record_output"
	recResult = "__quantum__rt__result_record_output"
)

func (sp *Specializer) recordOutput(v Value) {
	switch v.Tag {
	case VTUnit:
		sp.emitRecord(recTuple, TyInteger, LitOperand(IntLit(0)))
	case VTTuple:
		xs := v.Data.([]Value)
		sp.emitRecord(recTuple, TyInteger, LitOperand(IntLit(int64(len(xs)))))
		for _, x := range xs {
			sp.recordOutput(x)
		}
	case VTArray:
		xs := v.Data.([]Value)
		sp.emitRecord(recArray, TyInteger, LitOperand(IntLit(int64(len(xs)))))
		for _, x := range xs {
			sp.recordOutput(x)
		}
	case VTInt:
		sp.emitRecord(recInt, TyInteger, LitOperand(IntLit(v.Data.(int64))))
	case VTDouble:
		sp.emitRecord(recDouble, TyDouble, LitOperand(DoubleLit(v.Data.(float64))))
	case VTBool:
		sp.emitRecord(recBool, TyBoolean, LitOperand(BoolLit(v.Data.(bool))))
	case VTResult:
		id, ok := v.Data.(ResultID)
		if !ok {
			raise(ErrUnsupportedExpressionForm, Span{}, "entry point output contains a result constant")
		}
		sp.emitRecord(recResult, TyResult, LitOperand(ResultIDLit(id)))
	case VTVariable:
		rv := v.Data.(Variable)
		switch rv.Ty {
		case TyInteger:
			sp.emitRecord(recInt, TyInteger, VarOperand(rv))
		case TyDouble:
			sp.emitRecord(recDouble, TyDouble, VarOperand(rv))
		case TyBoolean:
			sp.emitRecord(recBool, TyBoolean, VarOperand(rv))
		default:
			raise(ErrUnsupportedExpressionForm, Span{}, "entry point output cannot be recorded")
		}
	default:
		raise(ErrUnsupportedExpressionForm, Span{}, "entry point output cannot be recorded")
	}
}

// emitRecord appends one recording call. Every recording callable takes the
// recorded value plus an opaque pointer tag.
func (sp *Specializer) emitRecord(name string, valTy Ty, val Operand) {
	callee := sp.resolveCallable(name, []Ty{valTy, TyPointer}, nil, CallOutputRecording)
	sp.emit(Instruction{Op: OpCall, Callee: callee, Args: []Operand{val, LitOperand(PointerLit())}})
}
