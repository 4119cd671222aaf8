// value.go — compile-time value domain of the Specializer.
//
// Values exist only inside the evaluator: they are the concrete results of
// all classically-determined computation. They never appear in the emitted
// program except as immediate operands (see rir.go for the Literal type that
// carries them across that boundary).
//
// The domain is a tagged sum. Two tags deserve a note:
//   - VTResult carries either a ResultID (an opaque handle produced by a
//     measurement, unresolved until hardware execution) or a ResultLiteral
//     (the Zero/One constants, which are concrete and only legal in
//     comparisons).
//   - VTVariable carries a rir Variable: the value of an expression that has
//     already been materialized into the instruction stream. Hybrid
//     expressions flow these through the same evaluation paths as concrete
//     values.

package qsharp

import (
	"fmt"
	"strconv"
	"strings"
)

// QubitID is an opaque handle to a physical qubit. Handles are allocated
// monotonically and may be reused only after scope-exit release.
type QubitID int

// ResultID is an opaque handle to a measurement outcome. Result handles are
// allocated monotonically and never reused.
type ResultID int

// ResultLiteral is one of the two result constants (false = Zero, true = One).
type ResultLiteral bool

// VTag enumerates the runtime kinds a Value may hold.
type VTag int

const (
	VTUnit     VTag = iota // empty tuple (no payload)
	VTInt                  // int64
	VTDouble               // float64
	VTBool                 // bool
	VTQubit                // QubitID
	VTResult               // ResultID or ResultLiteral
	VTTuple                // []Value
	VTArray                // []Value
	VTRange                // Range
	VTCallable             // *CallableValue
	VTVariable             // Variable (already materialized at runtime)
)

// Value is the universal carrier threaded through the evaluator.
// Tag determines which Go type Data holds (see VTag).
type Value struct {
	Tag  VTag
	Data any
}

// Unit is the singleton unit Value.
var Unit = Value{Tag: VTUnit}

func Int(n int64) Value          { return Value{Tag: VTInt, Data: n} }
func Double(f float64) Value     { return Value{Tag: VTDouble, Data: f} }
func Bool(b bool) Value          { return Value{Tag: VTBool, Data: b} }
func Qubit(id QubitID) Value     { return Value{Tag: VTQubit, Data: id} }
func Result(id ResultID) Value   { return Value{Tag: VTResult, Data: id} }
func ResultLit(one bool) Value   { return Value{Tag: VTResult, Data: ResultLiteral(one)} }
func Tuple(xs []Value) Value     { return Value{Tag: VTTuple, Data: xs} }
func Arr(xs []Value) Value       { return Value{Tag: VTArray, Data: xs} }
func RangeVal(r Range) Value     { return Value{Tag: VTRange, Data: r} }
func VarVal(v Variable) Value    { return Value{Tag: VTVariable, Data: v} }
func CallableVal(c *CallableValue) Value {
	return Value{Tag: VTCallable, Data: c}
}

// Range is a closed interval with a step, matching the source language's
// range semantics (1..3 is 1, 2, 3). Step must be non-zero.
type Range struct {
	Start, Step, End int64
}

// Len returns the number of elements the range yields.
func (r Range) Len() int64 {
	if r.Step > 0 {
		if r.End < r.Start {
			return 0
		}
		return (r.End-r.Start)/r.Step + 1
	}
	if r.End > r.Start {
		return 0
	}
	return (r.Start-r.End)/(-r.Step) + 1
}

// CallableValue is a first-class reference to a declared callable, optionally
// carrying a partially-applied argument prefix. Call sites always resolve to
// a concrete declaration.
type CallableValue struct {
	Decl    *CallableDecl
	Applied []Value
}

// WithApplied returns a copy with args appended to the applied prefix.
func (c *CallableValue) WithApplied(args []Value) *CallableValue {
	combined := make([]Value, 0, len(c.Applied)+len(args))
	combined = append(combined, c.Applied...)
	combined = append(combined, args...)
	return &CallableValue{Decl: c.Decl, Applied: combined}
}

// String renders a human-friendly debug representation.
func (v Value) String() string {
	switch v.Tag {
	case VTUnit:
		return "Unit"
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTDouble:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case VTBool:
		return strconv.FormatBool(v.Data.(bool))
	case VTQubit:
		return fmt.Sprintf("Qubit(%d)", v.Data.(QubitID))
	case VTResult:
		switch r := v.Data.(type) {
		case ResultID:
			return fmt.Sprintf("Result(%d)", r)
		case ResultLiteral:
			if r {
				return "One"
			}
			return "Zero"
		}
		return "<result>"
	case VTTuple:
		return renderSeq("(", ")", v.Data.([]Value))
	case VTArray:
		return renderSeq("[", "]", v.Data.([]Value))
	case VTRange:
		r := v.Data.(Range)
		return fmt.Sprintf("%d..%d..%d", r.Start, r.Step, r.End)
	case VTCallable:
		return fmt.Sprintf("<callable %s>", v.Data.(*CallableValue).Decl.Name)
	case VTVariable:
		return v.Data.(Variable).String()
	default:
		return "<unknown>"
	}
}

func renderSeq(open, close string, xs []Value) string {
	var b strings.Builder
	b.WriteString(open)
	for i, x := range xs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(x.String())
	}
	b.WriteString(close)
	return b.String()
}

// isRuntime reports whether the value is only known at hardware execution
// time: a materialized variable or an unresolved measurement handle.
func (v Value) isRuntime() bool {
	if v.Tag == VTVariable {
		return true
	}
	if v.Tag == VTResult {
		_, isHandle := v.Data.(ResultID)
		return isHandle
	}
	return false
}
