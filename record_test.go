package qsharp

import "testing"

func TestRecordTupleOutput(t *testing.T) {
	entry := sx("tuple", sx("int", 7), sx("bool", true))
	prog := mustSpecialize(t, testPkg(entry), BaseProfile())
	wantEntryBlock(t, prog, `Block:
    Call id(1), args( Integer(2), Pointer, )
    Call id(2), args( Integer(7), Pointer, )
    Call id(3), args( Bool(true), Pointer, )
    Return`)

	wantNames := []string{
		"main",
		"__quantum__rt__tuple_record_output",
		"__quantum__rt__int_record_output",
		"__quantum__rt__bool_record_output",
	}
	for i, name := range wantNames {
		if got := prog.GetCallable(CallableID(i)).Name; got != name {
			t.Fatalf("callable %d: got %q, want %q", i, got, name)
		}
	}
	if ct := prog.GetCallable(1).CallType; ct != CallOutputRecording {
		t.Fatalf("recording callable type: %s", ct)
	}
}

func TestRecordNestedArrayOutput(t *testing.T) {
	entry := sx("array",
		sx("array", sx("int", 1), sx("int", 2)),
		sx("array", sx("double", 0.5)))
	prog := mustSpecialize(t, testPkg(entry), BaseProfile())
	wantEntryBlock(t, prog, `Block:
    Call id(1), args( Integer(2), Pointer, )
    Call id(1), args( Integer(2), Pointer, )
    Call id(2), args( Integer(1), Pointer, )
    Call id(2), args( Integer(2), Pointer, )
    Call id(1), args( Integer(1), Pointer, )
    Call id(3), args( Double(0.5), Pointer, )
    Return`)
}

func TestRecordMeasurementResultsArray(t *testing.T) {
	entry := sx("use", "qs", sx("int", 2), sx("array",
		sx("call", "mz", sx("index", sx("var", "qs"), sx("int", 0))),
		sx("call", "mz", sx("index", sx("var", "qs"), sx("int", 1)))))
	prog := mustSpecialize(t, testPkg(entry, measureDecl("mz")), BaseProfile())
	wantEntryBlock(t, prog, `Block:
    Call id(1), args( Qubit(0), Result(0), )
    Call id(1), args( Qubit(1), Result(1), )
    Call id(2), args( Integer(2), Pointer, )
    Call id(3), args( Result(0), Pointer, )
    Call id(3), args( Result(1), Pointer, )
    Return`)
	if prog.NumResults != 2 {
		t.Fatalf("want 2 results, got %d", prog.NumResults)
	}
}

func TestRecordUnrecordableOutputFails(t *testing.T) {
	entry := sx("range", sx("int", 0), sx("int", 3))
	wantErrKind(t, testPkg(entry), BaseProfile(), ErrUnsupportedExpressionForm)
}
