package qsharp

import "testing"

func TestSpanIndexSetGet(t *testing.T) {
	si := NewSpanIndex()
	si.Set(NodePath{0, 2}, Span{StartByte: 5, EndByte: 9})

	if sp, ok := si.Get(NodePath{0, 2}); !ok || sp != (Span{5, 9}) {
		t.Fatalf("got %v %v", sp, ok)
	}
	if _, ok := si.Get(NodePath{1}); ok {
		t.Fatal("unknown path must miss")
	}
	var nilIdx *SpanIndex
	if _, ok := nilIdx.Get(nil); ok {
		t.Fatal("nil index must miss")
	}
}

func TestBuildSpanIndexPostOrder(t *testing.T) {
	// (binop + (int 1) (int 2)): post-order is lhs, rhs, root.
	tree := sx("binop", "+", sx("int", 1), sx("int", 2))
	si := BuildSpanIndexPostOrder(tree, []Span{{0, 1}, {4, 5}, {0, 5}})

	if sp, _ := si.Get(NodePath{1}); sp != (Span{0, 1}) {
		t.Fatalf("lhs span %v", sp)
	}
	if sp, _ := si.Get(NodePath{2}); sp != (Span{4, 5}) {
		t.Fatalf("rhs span %v", sp)
	}
	if sp, _ := si.Get(nil); sp != (Span{0, 5}) {
		t.Fatalf("root span %v", sp)
	}
}

func TestPathKeyRoundTrip(t *testing.T) {
	for _, p := range []NodePath{nil, {0}, {1, 0, 3}} {
		got, err := parsePath(pathKey(p))
		if err != nil {
			t.Fatalf("parse %q: %v", pathKey(p), err)
		}
		if pathKey(got) != pathKey(p) {
			t.Fatalf("round trip %v -> %v", p, got)
		}
	}
	if _, err := parsePath("a.b"); err == nil {
		t.Fatal("non-numeric path must fail")
	}
}

func TestPropsIndexFailSafe(t *testing.T) {
	var nilIdx *PropsIndex
	if !nilIdx.Get(nil).RequiresRuntimeValue {
		t.Fatal("nil index must read as runtime-required")
	}

	pi := NewPropsIndex()
	if !pi.Get(NodePath{2}).RequiresRuntimeValue {
		t.Fatal("missing entry must read as runtime-required")
	}
	pi.Set(NodePath{2}, ComputeProps{RequiredCaps: CapIntegerComputations})
	got := pi.Get(NodePath{2})
	if got.RequiresRuntimeValue || got.RequiredCaps != CapIntegerComputations {
		t.Fatalf("got %+v", got)
	}
}

func TestUniformPropsCoverEveryPath(t *testing.T) {
	pi := UniformProps(false)
	if pi.Get(NodePath{9, 9, 9}).RequiresRuntimeValue {
		t.Fatal("uniform static index must classify everything static")
	}
	pi.Set(NodePath{1}, ComputeProps{RequiresRuntimeValue: true})
	if !pi.Get(NodePath{1}).RequiresRuntimeValue {
		t.Fatal("per-path entry must override the uniform default")
	}
}

func TestCapabilityFlagsString(t *testing.T) {
	if got := CapabilityFlags(0).String(); got != "none" {
		t.Fatalf("got %q", got)
	}
	f := CapForwardBranching | CapResultComparison
	if got := f.String(); got != "forward_branching,result_comparison" {
		t.Fatalf("got %q", got)
	}
	if !f.Has(CapForwardBranching) || f.Has(CapBackwardBranching) {
		t.Fatal("Has mismatch")
	}
}
