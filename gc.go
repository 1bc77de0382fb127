package relisp

// mark sets v's mark bit (if v is a heap Cell) before recursing into
// its referents via the type's Mark hook, so cycles terminate (spec
// §4.2 "it sets the cell's mark bit before recursing to avoid
// cycles").
func (it *Interp) mark(v Value) {
	if v == nil {
		return
	}
	c, ok := v.(Cell)
	if !ok {
		return // Fixnum: no header, nothing to mark
	}
	hdr := c.header()
	if hdr.marked {
		return
	}
	hdr.marked = true
	d := TypeOf(v)
	if d != nil && d.Mark != nil {
		d.Mark(v, it.mark)
	}
}

// markRoots implements spec §4.2 phase 1 in full: the call-stack
// chain, explicitly pushed roots, statically pinned singletons, and
// every registered type's MarkRoots hook (e.g. the socket component
// keeping every ACTIVE socket alive regardless of other references).
func (it *Interp) markRoots() {
	it.top.walk(func(f *Frame) {
		it.mark(f.Fun)
		if f.Args != nil && f.Args != Value(Void) {
			it.mark(f.Args)
		}
		if f.Form != nil {
			it.mark(f.Form)
		}
		if f.Env != nil {
			f.Env.mark(it.mark)
		}
	})

	it.markExplicitRoots(it.mark)

	for _, s := range []*singleton{Nil, True, Undefined, Void} {
		it.mark(s)
	}

	for _, code := range it.heap.reg.byCode {
		if code != nil && code.MarkRoots != nil {
			code.MarkRoots(it.mark)
		}
	}
}

// sweep implements spec §4.2 phase 2: every registered type with a
// Sweep hook runs it; core types default to the heap's generic
// per-type sweep.
func (it *Interp) sweep() {
	for code, d := range it.heap.reg.byCode {
		if d == nil {
			continue
		}
		tc := TypeCode(code)
		if d.Sweep != nil {
			d.Sweep(it.heap)
		} else {
			it.heap.sweepType(tc)
		}
	}
}

// CollectGarbage forces a full mark-and-sweep cycle regardless of the
// allocation-pressure counter (spec §4.2 "Collections may be forced
// explicitly").
func (it *Interp) CollectGarbage() {
	it.markRoots()
	it.sweep()
	it.heap.bytesSinceGC = 0
	it.heap.cycles++
	it.log.Debugf("gc: cycle %d complete", it.heap.cycles)
}

// maybeGC runs a collection if the allocation-pressure counter has
// crossed the configured threshold. Called from Apply's entry, one of
// the two "safe points" spec §4.2 names.
func (it *Interp) maybeGC() {
	if it.heap.bytesSinceGC >= it.heap.threshold {
		it.CollectGarbage()
	}
}
