package relisp

import "golang.org/x/exp/slices"

// approxCellBytes is a fixed per-cell size estimate used to drive the
// allocation-pressure counter. The original runtime tracks exact
// malloc sizes; a Go cell's true size varies by type and by what the
// Go allocator rounds it up to, so a flat estimate is used instead
// purely to decide *when* to run a GC cycle (spec §4.2 "threshold
// policy: fixed byte count").
const approxCellBytes = 48

// Heap owns every type's instance list and free list, plus the
// allocation-pressure counter that drives automatic collection.
type Heap struct {
	reg *TypeRegistry

	instances map[TypeCode]Cell   // intrusive doubly-linked list head, per type
	free      map[TypeCode][]Cell // reusable, already-allocated cells

	bytesSinceGC int64
	threshold    int64

	cycles int // number of completed GC cycles, for diagnostics/tests
}

// NewHeap creates a heap with the given GC threshold in bytes.
func NewHeap(thresholdBytes int64) *Heap {
	return &Heap{
		reg:       registry,
		instances: map[TypeCode]Cell{},
		free:      map[TypeCode][]Cell{},
		threshold: thresholdBytes,
	}
}

// allocCell pops a reusable cell of type T off h's free list for
// code, or builds a fresh one with newFn, links it into code's
// instance list, and bumps the allocation-pressure counter.
func allocCell[T Cell](h *Heap, code TypeCode, newFn func() T) T {
	var c T
	if free := h.free[code]; len(free) > 0 {
		c = free[len(free)-1].(T)
		h.free[code] = free[:len(free)-1]
		*c.header() = cellHeader{typ: code}
	} else {
		c = newFn()
		c.header().typ = code
	}
	h.linkInstance(code, c)
	h.bytesSinceGC += approxCellBytes
	return c
}

func (h *Heap) linkInstance(code TypeCode, c Cell) {
	head := h.instances[code]
	hdr := c.header()
	hdr.prev, hdr.next = nil, head
	if head != nil {
		head.header().prev = c
	}
	h.instances[code] = c
}

// unlinkInstance removes c from its type's instance list.
func (h *Heap) unlinkInstance(code TypeCode, c Cell) {
	hdr := c.header()
	if hdr.prev != nil {
		hdr.prev.header().next = hdr.next
	} else {
		h.instances[code] = hdr.next
	}
	if hdr.next != nil {
		hdr.next.header().prev = hdr.prev
	}
	hdr.prev, hdr.next = nil, nil
}

// sweepType is the default Sweep hook body shared by every core cell
// type: unmarked instances are unlinked and pushed onto the free
// list, marked instances have their mark bit cleared and stay linked
// (spec §4.2 "Sweep").
func (h *Heap) sweepType(code TypeCode) {
	var dead []Cell
	for c := h.instances[code]; c != nil; {
		next := c.header().next
		if c.header().static {
			c = next
			continue
		}
		if c.header().marked {
			c.header().marked = false
		} else {
			dead = append(dead, c)
		}
		c = next
	}
	for _, c := range dead {
		h.unlinkInstance(code, c)
	}
	h.free[code] = slices.Insert(h.free[code], len(h.free[code]), dead...)
}

// InstanceCount reports how many live instances of code are currently
// linked, used by tests asserting bounded heap growth (spec §8
// scenario 6).
func (h *Heap) InstanceCount(code TypeCode) int {
	n := 0
	for c := h.instances[code]; c != nil; c = c.header().next {
		n++
	}
	return n
}
