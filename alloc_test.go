package qsharp

import "testing"

func TestQubitAllocationIsMonotonicUntilRelease(t *testing.T) {
	var a resourceAllocator
	q0 := a.allocQubit()
	q1 := a.allocQubit()
	if q0 != 0 || q1 != 1 {
		t.Fatalf("want 0,1 got %d,%d", q0, q1)
	}
	a.releaseQubit(q0)
	a.releaseQubit(q1)
	// Released ids come back most-recent-first.
	if q := a.allocQubit(); q != 1 {
		t.Fatalf("want reuse of 1, got %d", q)
	}
	if q := a.allocQubit(); q != 0 {
		t.Fatalf("want reuse of 0, got %d", q)
	}
	if q := a.allocQubit(); q != 2 {
		t.Fatalf("want fresh 2, got %d", q)
	}
	if a.qubitCount() != 3 {
		t.Fatalf("high-water mark should be 3, got %d", a.qubitCount())
	}
}

func TestResultAllocationNeverReuses(t *testing.T) {
	var a resourceAllocator
	if r := a.allocResult(); r != 0 {
		t.Fatalf("want 0, got %d", r)
	}
	if r := a.allocResult(); r != 1 {
		t.Fatalf("want 1, got %d", r)
	}
	if a.resultCount() != 2 {
		t.Fatalf("want 2 results, got %d", a.resultCount())
	}
}

func TestScopeExitReleasesQubits(t *testing.T) {
	var a resourceAllocator
	e := newEnv(&a)
	e.push()
	e.trackQubit(a.allocQubit())
	e.trackQubit(a.allocQubit())
	e.pop()
	if q := a.allocQubit(); q != 0 {
		t.Fatalf("want reuse of 0 after scope exit, got %d", q)
	}
}
