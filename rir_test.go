package qsharp

import "testing"

func TestInstructionRendering(t *testing.T) {
	v0 := Variable{ID: 0, Ty: TyInteger}
	v1 := Variable{ID: 1, Ty: TyBoolean}

	cases := []struct {
		in   Instruction
		want string
	}{
		{
			Instruction{Op: OpStore, Result: &v0, Args: []Operand{LitOperand(IntLit(1))}},
			"Variable(0, Integer) = Store Integer(1)",
		},
		{
			Instruction{Op: OpCall, Callee: 1, Args: []Operand{LitOperand(QubitLit(0))}},
			"Call id(1), args( Qubit(0), )",
		},
		{
			Instruction{Op: OpCall, Callee: 2, Args: []Operand{LitOperand(IntLit(0)), LitOperand(PointerLit())}},
			"Call id(2), args( Integer(0), Pointer, )",
		},
		{
			Instruction{Op: OpAdd, Result: &v0, Args: []Operand{VarOperand(v0), LitOperand(IntLit(2))}},
			"Variable(0, Integer) = Add Variable(0, Integer), Integer(2)",
		},
		{
			Instruction{Op: OpIcmp, Cond: CondSlt, Result: &v1, Args: []Operand{VarOperand(v0), LitOperand(IntLit(7))}},
			"Variable(1, Boolean) = Icmp Slt, Variable(0, Integer), Integer(7)",
		},
		{
			Instruction{Op: OpFadd, Result: &v0, Args: []Operand{LitOperand(DoubleLit(0.5)), LitOperand(DoubleLit(0))}},
			"Variable(0, Integer) = Fadd Double(0.5), Double(0)",
		},
		{
			Instruction{Op: OpBranch, Args: []Operand{VarOperand(v1)}, True: 1, False: 2},
			"Branch Variable(1, Boolean), 1, 2",
		},
		{Instruction{Op: OpJump, Target: 3}, "Jump(3)"},
		{Instruction{Op: OpReturn}, "Return"},
	}
	for _, c := range cases {
		if got := c.in.String(); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}

func TestCallableRendering(t *testing.T) {
	body := BlockID(0)
	cases := []struct {
		c    *Callable
		want string
	}{
		{
			&Callable{Name: "main", CallType: CallRegular, Body: &body},
			"Callable:\n    name: main\n    call_type: Regular\n    input_type: <VOID>\n    output_type: <VOID>\n    body: 0",
		},
		{
			&Callable{Name: "mz", CallType: CallMeasurement, InputType: []Ty{TyQubit, TyResult}},
			"Callable:\n    name: mz\n    call_type: Measurement\n    input_type:\n        [0]: Qubit\n        [1]: Result\n    output_type: <VOID>\n    body: <NONE>",
		},
		{
			&Callable{
				Name:       "__quantum__qis__read_result__body",
				CallType:   CallRegular,
				InputType:  []Ty{TyResult},
				OutputType: tyPtr(TyBoolean),
			},
			"Callable:\n    name: __quantum__qis__read_result__body\n    call_type: Regular\n    input_type:\n        [0]: Result\n    output_type: Boolean\n    body: <NONE>",
		},
	}
	for _, c := range cases {
		if got := c.c.String(); got != c.want {
			t.Errorf("callable %s:\n--- got ---\n%s\n--- want ---\n%s", c.c.Name, got, c.want)
		}
	}
}

func TestDoubleLiteralRendering(t *testing.T) {
	cases := []struct {
		f    float64
		want string
	}{
		{0, "Double(0)"},
		{0.25, "Double(0.25)"},
		{-1.5, "Double(-1.5)"},
		{3, "Double(3)"},
	}
	for _, c := range cases {
		if got := DoubleLit(c.f).String(); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}

func TestAppendPastTerminatorPanics(t *testing.T) {
	p := newProgram()
	b := p.newBlock()
	p.appendTo(b.ID, Instruction{Op: OpReturn})

	defer func() {
		if recover() == nil {
			t.Fatal("appending past a terminator must panic")
		}
	}()
	p.appendTo(b.ID, Instruction{Op: OpReturn})
}

func TestGetCallableBadIDPanics(t *testing.T) {
	p := newProgram()
	defer func() {
		if recover() == nil {
			t.Fatal("unknown callable id must panic")
		}
	}()
	p.GetCallable(5)
}
