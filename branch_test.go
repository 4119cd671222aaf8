package qsharp

import (
	"strings"
	"testing"
)

func branchPkg() *Package {
	entry := sx("use", "q", sx("block",
		sx("let", "m", sx("call", "mz", sx("var", "q"))),
		sx("if", sx("binop", "==", sx("var", "m"), sx("result", 1)),
			sx("call", "op", sx("var", "q")))))
	return testPkg(entry, measureDecl("mz"), gateDecl("op", TyQubit))
}

func TestBaseProfileRejectsResultComparison(t *testing.T) {
	e := wantErrKind(t, branchPkg(), BaseProfile(), ErrUnsupportedRuntimeCapability)
	if !strings.Contains(e.Msg, "result_comparison") {
		t.Fatalf("error should name the missing capability, got %q", e.Msg)
	}
}

func TestAdaptiveBranchOnMeasurement(t *testing.T) {
	prog := mustSpecialize(t, branchPkg(), AdaptiveProfile())
	want := `Program:
    entry: 0
    num_qubits: 1
    num_results: 1
    Callable 0: Callable:
        name: main
        call_type: Regular
        input_type: <VOID>
        output_type: <VOID>
        body: 0
    Callable 1: Callable:
        name: mz
        call_type: Measurement
        input_type:
            [0]: Qubit
            [1]: Result
        output_type: <VOID>
        body: <NONE>
    Callable 2: Callable:
        name: __quantum__qis__read_result__body
        call_type: Regular
        input_type:
            [0]: Result
        output_type: Boolean
        body: <NONE>
    Callable 3: Callable:
        name: op
        call_type: Regular
        input_type:
            [0]: Qubit
        output_type: <VOID>
        body: <NONE>
    Callable 4: Callable:
        name: __quantum__rt__tuple_record_output
        call_type: OutputRecording
        input_type:
            [0]: Integer
            [1]: Pointer
        output_type: <VOID>
        body: <NONE>
    Block 0: Block:
        Call id(1), args( Qubit(0), Result(0), )
        Variable(0, Boolean) = Call id(2), args( Result(0), )
        Variable(1, Boolean) = Icmp Eq, Variable(0, Boolean), Bool(true)
        Branch Variable(1, Boolean), 1, 2
    Block 1: Block:
        Call id(3), args( Qubit(0), )
        Jump(2)
    Block 2: Block:
        Call id(4), args( Integer(0), Pointer, )
        Return`
	if got := prog.String(); got != want {
		t.Fatalf("program mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestAdaptiveBranchWithElse(t *testing.T) {
	entry := sx("use", "q", sx("block",
		sx("let", "m", sx("call", "mz", sx("var", "q"))),
		sx("if", sx("binop", "==", sx("var", "m"), sx("result", 1)),
			sx("call", "x", sx("var", "q")),
			sx("call", "y", sx("var", "q")))))
	pkg := testPkg(entry, measureDecl("mz"), gateDecl("x", TyQubit), gateDecl("y", TyQubit))
	prog := mustSpecialize(t, pkg, AdaptiveProfile())

	// True arm, else arm, continuation: ids in creation order.
	if n := len(prog.Blocks()); n != 4 {
		t.Fatalf("want 4 blocks, got %d", n)
	}
	wantEntryBlock(t, prog, `Block:
    Call id(1), args( Qubit(0), Result(0), )
    Variable(0, Boolean) = Call id(2), args( Result(0), )
    Variable(1, Boolean) = Icmp Eq, Variable(0, Boolean), Bool(true)
    Branch Variable(1, Boolean), 1, 2`)
	if got := prog.GetBlock(1).String(); got != `Block:
    Call id(3), args( Qubit(0), )
    Jump(3)` {
		t.Fatalf("true arm mismatch:\n%s", got)
	}
	if got := prog.GetBlock(2).String(); got != `Block:
    Call id(4), args( Qubit(0), )
    Jump(3)` {
		t.Fatalf("else arm mismatch:\n%s", got)
	}
}

func TestRuntimeIfExpressionMaterializesValue(t *testing.T) {
	entry := sx("use", "q", sx("block",
		sx("let", "m", sx("call", "mz", sx("var", "q"))),
		sx("if", sx("binop", "==", sx("var", "m"), sx("result", 1)),
			sx("int", 1),
			sx("int", 2))))
	prog := mustSpecialize(t, testPkg(entry, measureDecl("mz")), AdaptiveProfile())

	if got := prog.GetBlock(1).String(); got != `Block:
    Variable(2, Integer) = Store Integer(1)
    Jump(3)` {
		t.Fatalf("true arm mismatch:\n%s", got)
	}
	if got := prog.GetBlock(2).String(); got != `Block:
    Variable(2, Integer) = Store Integer(2)
    Jump(3)` {
		t.Fatalf("else arm mismatch:\n%s", got)
	}
	// The joined value is the entry output.
	if got := prog.GetBlock(3).String(); got != `Block:
    Call id(3), args( Variable(2, Integer), Pointer, )
    Return` {
		t.Fatalf("continuation mismatch:\n%s", got)
	}
}

func TestRuntimeIfExpressionWithoutElseFails(t *testing.T) {
	entry := sx("use", "q", sx("block",
		sx("let", "m", sx("call", "mz", sx("var", "q"))),
		sx("if", sx("binop", "==", sx("var", "m"), sx("result", 1)),
			sx("int", 1))))
	wantErrKind(t, testPkg(entry, measureDecl("mz")), AdaptiveProfile(), ErrInvalidProgram)
}

func TestRuntimeArithmeticNeedsIntegerCapability(t *testing.T) {
	counter := &CallableDecl{Name: "rand", Intrinsic: IntrinsicGate, Output: tyPtr(TyInteger)}
	entry := sx("binop", "+", sx("call", "rand"), sx("int", 1))

	e := wantErrKind(t, testPkg(entry, counter), BaseProfile(), ErrUnsupportedRuntimeCapability)
	if !strings.Contains(e.Msg, "integer_computations") {
		t.Fatalf("error should name the missing capability, got %q", e.Msg)
	}

	prog := mustSpecialize(t, testPkg(entry, counter), AdaptiveProfile())
	wantEntryBlock(t, prog, `Block:
    Variable(0, Integer) = Call id(1), args( )
    Variable(1, Integer) = Add Variable(0, Integer), Integer(1)
    Call id(2), args( Variable(1, Integer), Pointer, )
    Return`)
}

func TestRuntimeNotReadsOutTheResultFirst(t *testing.T) {
	entry := sx("use", "q", sx("block",
		sx("let", "m", sx("call", "mz", sx("var", "q"))),
		sx("unop", "not", sx("var", "m"))))
	prog := mustSpecialize(t, testPkg(entry, measureDecl("mz")), AdaptiveProfile())
	// The readout variable is emitted, and numbered, before the negation's.
	wantEntryBlock(t, prog, `Block:
    Call id(1), args( Qubit(0), Result(0), )
    Variable(0, Boolean) = Call id(2), args( Result(0), )
    Variable(1, Boolean) = LogicalNot Variable(0, Boolean)
    Call id(3), args( Variable(1, Boolean), Pointer, )
    Return`)
}

func TestReturnInsideRuntimeBranchIsRejected(t *testing.T) {
	entry := sx("use", "q", sx("block",
		sx("let", "m", sx("call", "mz", sx("var", "q"))),
		sx("if", sx("binop", "==", sx("var", "m"), sx("result", 1)),
			sx("return", sx("int", 1)),
			sx("unit"))))
	e := wantErrKind(t, testPkg(entry, measureDecl("mz")), AdaptiveProfile(), ErrUnsupportedExpressionForm)
	if !strings.Contains(e.Msg, "return") {
		t.Fatalf("error should mention the return, got %q", e.Msg)
	}
}

func TestReturnInsideCallableCalledFromRuntimeBranch(t *testing.T) {
	// The unwind stays within the callable, so its blocks stay well formed.
	seven := &CallableDecl{
		Name:   "seven",
		Output: tyPtr(TyInteger),
		Props:  UniformProps(false),
		Body:   sx("block", sx("return", sx("int", 7)), sx("int", 0)),
	}
	entry := sx("use", "q", sx("block",
		sx("let", "m", sx("call", "mz", sx("var", "q"))),
		sx("if", sx("binop", "==", sx("var", "m"), sx("result", 1)),
			sx("block",
				sx("let", "x", sx("call", "seven")),
				sx("call", "op", sx("var", "q"))))))
	pkg := testPkg(entry, measureDecl("mz"), gateDecl("op", TyQubit), seven)
	prog := mustSpecialize(t, pkg, AdaptiveProfile())
	if got := prog.GetBlock(1).String(); got != `Block:
    Call id(3), args( Qubit(0), )
    Jump(2)` {
		t.Fatalf("true arm mismatch:\n%s", got)
	}
}

func TestRuntimeClassifiedConditionIsNeverFolded(t *testing.T) {
	props := UniformProps(false)
	props.Set(NodePath{0}, ComputeProps{RequiresRuntimeValue: true})
	entry := sx("if", sx("bool", true), sx("call", "op"))
	pkg := &Package{Callables: []*CallableDecl{gateDecl("op")}, Entry: entry, EntryProps: props}

	e := wantErrKind(t, pkg, BaseProfile(), ErrUnsupportedRuntimeCapability)
	if !strings.Contains(e.Msg, "forward_branching") {
		t.Fatalf("error should name the missing capability, got %q", e.Msg)
	}

	prog := mustSpecialize(t, pkg, AdaptiveProfile())
	wantEntryBlock(t, prog, `Block:
    Branch Bool(true), 1, 2`)
	if got := prog.GetBlock(1).String(); got != `Block:
    Call id(1), args( )
    Jump(2)` {
		t.Fatalf("true arm mismatch:\n%s", got)
	}
}

func TestMissingPropsIndexTreatsConditionsAsRuntime(t *testing.T) {
	entry := sx("if", sx("bool", true), sx("call", "op"))
	pkg := &Package{Callables: []*CallableDecl{gateDecl("op")}, Entry: entry}
	e := wantErrKind(t, pkg, BaseProfile(), ErrUnsupportedRuntimeCapability)
	if !strings.Contains(e.Msg, "forward_branching") {
		t.Fatalf("error should name the missing capability, got %q", e.Msg)
	}
}

func TestRuntimeNegationLowersAsSubtraction(t *testing.T) {
	counter := &CallableDecl{Name: "rand", Intrinsic: IntrinsicGate, Output: tyPtr(TyInteger)}
	entry := sx("unop", "-", sx("call", "rand"))
	prog := mustSpecialize(t, testPkg(entry, counter), AdaptiveProfile())
	wantEntryBlock(t, prog, `Block:
    Variable(0, Integer) = Call id(1), args( )
    Variable(1, Integer) = Sub Integer(0), Variable(0, Integer)
    Call id(2), args( Variable(1, Integer), Pointer, )
    Return`)
}
