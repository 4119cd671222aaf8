// printer.go — deterministic, stable renderings for RIR types.
//
// The textual forms here are load-bearing: golden tests compare them byte for
// byte, and the downstream code generator consumes them. Changing any format
// is a breaking change.

package qsharp

import (
	"fmt"
	"strconv"
	"strings"
)

/* ---------- small indenting writer ---------- */

type out struct {
	b     strings.Builder
	depth int
}

func (o *out) write(s string) { o.b.WriteString(s) }
func (o *out) nl()            { o.b.WriteByte('\n') }
func (o *out) line(s string) {
	for i := 0; i < o.depth; i++ {
		o.b.WriteString("    ")
	}
	o.b.WriteString(s)
}
func (o *out) withIndent(fn func()) { o.depth++; fn(); o.depth-- }

/* ---------- leaf renderings ---------- */

func (t Ty) String() string {
	switch t {
	case TyInteger:
		return "Integer"
	case TyDouble:
		return "Double"
	case TyBoolean:
		return "Boolean"
	case TyQubit:
		return "Qubit"
	case TyResult:
		return "Result"
	case TyPointer:
		return "Pointer"
	default:
		return "<unknown>"
	}
}

func (v Variable) String() string {
	return fmt.Sprintf("Variable(%d, %s)", v.ID, v.Ty)
}

func (l Literal) String() string {
	switch l.Tag {
	case LitInteger:
		return fmt.Sprintf("Integer(%d)", l.Data.(int64))
	case LitDouble:
		return fmt.Sprintf("Double(%s)", strconv.FormatFloat(l.Data.(float64), 'f', -1, 64))
	case LitBool:
		return fmt.Sprintf("Bool(%t)", l.Data.(bool))
	case LitQubit:
		return fmt.Sprintf("Qubit(%d)", l.Data.(QubitID))
	case LitResult:
		return fmt.Sprintf("Result(%d)", l.Data.(ResultID))
	case LitPointer:
		return "Pointer"
	default:
		return "<unknown>"
	}
}

func (op Operand) String() string {
	if op.IsVar {
		return op.Var.String()
	}
	return op.Lit.String()
}

func (c ConditionCode) String() string {
	switch c {
	case CondEq:
		return "Eq"
	case CondNe:
		return "Ne"
	case CondSlt:
		return "Slt"
	case CondSle:
		return "Sle"
	case CondSgt:
		return "Sgt"
	case CondSge:
		return "Sge"
	default:
		return "<unknown>"
	}
}

func (ct CallableType) String() string {
	switch ct {
	case CallRegular:
		return "Regular"
	case CallMeasurement:
		return "Measurement"
	case CallReset:
		return "Reset"
	case CallOutputRecording:
		return "OutputRecording"
	default:
		return "<unknown>"
	}
}

/* ---------- instructions ---------- */

var opcodeNames = map[Opcode]string{
	OpAdd:        "Add",
	OpSub:        "Sub",
	OpMul:        "Mul",
	OpSdiv:       "Sdiv",
	OpSrem:       "Srem",
	OpFadd:       "Fadd",
	OpFsub:       "Fsub",
	OpFmul:       "Fmul",
	OpFdiv:       "Fdiv",
	OpLogicalAnd: "LogicalAnd",
	OpLogicalOr:  "LogicalOr",
}

func (in Instruction) String() string {
	var b strings.Builder
	if in.Result != nil {
		fmt.Fprintf(&b, "%s = ", *in.Result)
	}
	switch in.Op {
	case OpStore:
		fmt.Fprintf(&b, "Store %s", in.Args[0])
	case OpCall:
		fmt.Fprintf(&b, "Call id(%d), args( ", in.Callee)
		for _, a := range in.Args {
			fmt.Fprintf(&b, "%s, ", a)
		}
		b.WriteString(")")
	case OpIcmp:
		fmt.Fprintf(&b, "Icmp %s, %s, %s", in.Cond, in.Args[0], in.Args[1])
	case OpFcmp:
		fmt.Fprintf(&b, "Fcmp %s, %s, %s", in.Cond, in.Args[0], in.Args[1])
	case OpLogicalNot:
		fmt.Fprintf(&b, "LogicalNot %s", in.Args[0])
	case OpJump:
		fmt.Fprintf(&b, "Jump(%d)", in.Target)
	case OpBranch:
		fmt.Fprintf(&b, "Branch %s, %d, %d", in.Args[0], in.True, in.False)
	case OpReturn:
		if len(in.Args) > 0 {
			fmt.Fprintf(&b, "Return %s", in.Args[0])
		} else {
			b.WriteString("Return")
		}
	default:
		if name, ok := opcodeNames[in.Op]; ok {
			fmt.Fprintf(&b, "%s %s, %s", name, in.Args[0], in.Args[1])
		} else {
			b.WriteString("<unknown>")
		}
	}
	return b.String()
}

/* ---------- tables ---------- */

// String renders the block header and one instruction per line:
//
//	Block:
//	    Variable(0, Integer) = Store Integer(0)
//	    Call id(1), args( Qubit(0), )
//	    Return
func (b *Block) String() string {
	var o out
	o.write("Block:")
	o.withIndent(func() {
		for _, in := range b.Instrs {
			o.nl()
			o.line(in.String())
		}
	})
	return o.b.String()
}

// String renders the callable signature:
//
//	Callable:
//	    name: op
//	    call_type: Regular
//	    input_type:
//	        [0]: Qubit
//	    output_type: <VOID>
//	    body: <NONE>
func (c *Callable) String() string {
	var o out
	o.write("Callable:")
	o.withIndent(func() {
		o.nl()
		o.line("name: " + c.Name)
		o.nl()
		o.line("call_type: " + c.CallType.String())
		o.nl()
		if len(c.InputType) == 0 {
			o.line("input_type: <VOID>")
		} else {
			o.line("input_type:")
			o.withIndent(func() {
				for i, t := range c.InputType {
					o.nl()
					o.line(fmt.Sprintf("[%d]: %s", i, t))
				}
			})
		}
		o.nl()
		if c.OutputType == nil {
			o.line("output_type: <VOID>")
		} else {
			o.line("output_type: " + c.OutputType.String())
		}
		o.nl()
		if c.Body == nil {
			o.line("body: <NONE>")
		} else {
			o.line(fmt.Sprintf("body: %d", *c.Body))
		}
	})
	return o.b.String()
}

// String renders the whole program: header, callable table, block table, all
// in id order. Two programs with equal tables render byte-identically.
func (p *Program) String() string {
	var o out
	o.write("Program:")
	o.withIndent(func() {
		o.nl()
		o.line(fmt.Sprintf("entry: %d", p.Entry))
		o.nl()
		o.line(fmt.Sprintf("num_qubits: %d", p.NumQubits))
		o.nl()
		o.line(fmt.Sprintf("num_results: %d", p.NumResults))
		for _, c := range p.callables {
			o.nl()
			o.line(fmt.Sprintf("Callable %d: %s", c.ID, indentTail(c.String(), o.depth)))
		}
		for _, b := range p.blocks {
			o.nl()
			o.line(fmt.Sprintf("Block %d: %s", b.ID, indentTail(b.String(), o.depth)))
		}
	})
	return o.b.String()
}

// indentTail shifts every line after the first by depth indent units so
// nested multi-line renderings stay aligned under their headers.
func indentTail(s string, depth int) string {
	pad := strings.Repeat("    ", depth)
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}
