// alloc.go — qubit/result resource allocator.
//
// One allocator is owned by one Specializer per compilation. Qubit ids are
// handed out monotonically, go back on a LIFO free list at scope exit, and
// are only reused once released. Result ids are monotonic and never reused.

package qsharp

type resourceAllocator struct {
	nextQubit  QubitID
	released   []QubitID
	nextResult ResultID
	highQubits int // high-water mark of distinct qubit ids
}

func (a *resourceAllocator) allocQubit() QubitID {
	if n := len(a.released); n > 0 {
		id := a.released[n-1]
		a.released = a.released[:n-1]
		return id
	}
	id := a.nextQubit
	a.nextQubit++
	if int(a.nextQubit) > a.highQubits {
		a.highQubits = int(a.nextQubit)
	}
	return id
}

func (a *resourceAllocator) releaseQubit(id QubitID) {
	a.released = append(a.released, id)
}

func (a *resourceAllocator) allocResult() ResultID {
	id := a.nextResult
	a.nextResult++
	return id
}

func (a *resourceAllocator) qubitCount() int  { return a.highQubits }
func (a *resourceAllocator) resultCount() int { return int(a.nextResult) }
