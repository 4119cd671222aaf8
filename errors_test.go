package qsharp

import (
	"strings"
	"testing"
)

func TestErrorRendering(t *testing.T) {
	e := &Error{
		Kind:     ErrUnboundedLoop,
		Msg:      "loop exceeded the evaluation cap (8 iterations)",
		Callable: "prepare",
		Span:     Span{StartByte: 14, EndByte: 42},
	}
	want := "UnboundedLoop in prepare at [14,42): loop exceeded the evaluation cap (8 iterations)"
	if got := e.Error(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	noSpan := &Error{Kind: ErrInvalidProgram, Msg: "division by zero"}
	if got := noSpan.Error(); got != "InvalidProgram in <entry>: division by zero" {
		t.Fatalf("got %q", got)
	}
}

func TestErrorAttributesEnclosingCallable(t *testing.T) {
	boom := &CallableDecl{
		Name: "boom",
		Body: sx("binop", "/", sx("int", 1), sx("int", 0)),
	}
	_, err := Specialize(testPkg(sx("call", "boom"), boom), BaseProfile())
	if err == nil {
		t.Fatal("want error")
	}
	e := err.(*Error)
	if e.Callable != "boom" {
		t.Fatalf("want attribution to boom, got %q", e.Callable)
	}
}

func TestErrorCarriesSpanFromSidecar(t *testing.T) {
	entry := sx("binop", "/", sx("int", 1), sx("int", 0))
	spans := NewSpanIndex()
	spans.Set(nil, Span{StartByte: 3, EndByte: 12})
	pkg := &Package{Entry: entry, EntryProps: UniformProps(false), EntrySpans: spans}

	_, err := Specialize(pkg, BaseProfile())
	if err == nil {
		t.Fatal("want error")
	}
	e := err.(*Error)
	if e.Span != (Span{3, 12}) {
		t.Fatalf("want span [3,12), got %v", e.Span)
	}
	if !strings.Contains(e.Error(), "[3,12)") {
		t.Fatalf("rendered error should include the span: %q", e.Error())
	}
}

func TestStrayPanicBecomesInvalidProgram(t *testing.T) {
	// A malformed tree (missing payload) must surface as a structured error,
	// never as a raw panic.
	pkg := &Package{Entry: S{"int"}, EntryProps: UniformProps(false)}
	_, err := Specialize(pkg, BaseProfile())
	if err == nil {
		t.Fatal("want error")
	}
	if err.(*Error).Kind != ErrInvalidProgram {
		t.Fatalf("want InvalidProgram, got %s", err.(*Error).Kind)
	}
}
