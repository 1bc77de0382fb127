package relisp

// RootHandle is the scope-bound root guard from DESIGN NOTES §9 ("GC
// roots without raw stack scanning"): pushing a root returns a handle
// whose Pop releases it. This replaces the original runtime's
// hand-maintained rep_PUSHGC/rep_POPGC macro pairs with a value that
// a defer can release, while still enforcing the strict LIFO
// discipline spec §4.2/§6 require.
type RootHandle struct {
	it    *Interp
	index int
	n     int // number of root slots this handle owns, 1 for PushRoot
}

// PushRoot roots v until the returned handle is popped. Typical use:
//
//	h := it.PushRoot(v)
//	defer h.Pop()
func (it *Interp) PushRoot(v Value) RootHandle {
	idx := len(it.roots)
	it.roots = append(it.roots, v)
	return RootHandle{it: it, index: idx, n: 1}
}

// PushRootRange roots every element of vs, as a single contiguous
// range, until the returned handle is popped (spec §6 "scoped n-value
// root range"). The elements are copied onto the root stack, so
// values stored into vs after the push are not rooted by this handle.
func (it *Interp) PushRootRange(vs []Value) RootHandle {
	idx := len(it.roots)
	it.roots = append(it.roots, vs...)
	return RootHandle{it: it, index: idx, n: len(vs)}
}

// Pop releases the root(s) owned by h. Root handles must be popped in
// strict LIFO order; popping anything but the most recently pushed,
// still-live handle is a programming error and panics rather than
// silently corrupting the root stack.
func (h RootHandle) Pop() {
	if h.it == nil {
		return // zero-value handle: nothing was pushed through it
	}
	want := h.index + h.n
	if len(h.it.roots) != want {
		panic("relisp: root handle popped out of LIFO order")
	}
	h.it.roots = h.it.roots[:h.index]
}

// markExplicitRoots feeds every currently pushed root to mark, per
// spec §4.2 mark seed (b).
func (it *Interp) markExplicitRoots(mark func(Value)) {
	for _, v := range it.roots {
		mark(v)
	}
}
