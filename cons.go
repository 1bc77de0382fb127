package relisp

// Cons is the binary pair cell. Lists are chains of Cons terminated
// by Nil (spec §3 "Cons, list").
type Cons struct {
	cellHeader
	Car, Cdr Value
}

// NewCons allocates a cons cell through the active heap so it
// participates in GC accounting and the type's instance list.
func (h *Heap) NewCons(car, cdr Value) *Cons {
	c := allocCell(h, typeCodeCons, func() *Cons { return &Cons{} })
	c.Car, c.Cdr = car, cdr
	return c
}

func init() {
	registerCoreType(typeCodeCons, &TypeDescriptor{
		Name: "cons",
		Compare: func(a, b Value) (int, bool) {
			if a.(*Cons) == b.(*Cons) {
				return 0, true
			}
			return 1, false
		},
		Print: func(v Value) string { return printCons(v.(*Cons)) },
		Mark: func(v Value, mark func(Value)) {
			c := v.(*Cons)
			mark(c.Car)
			mark(c.Cdr)
		},
	})
}

func printCons(c *Cons) string {
	out := "("
	var cur Value = c
	first := true
	for {
		cc, ok := cur.(*Cons)
		if !ok {
			break
		}
		if !first {
			out += " "
		}
		first = false
		out += Print(cc.Car)
		cur = cc.Cdr
	}
	if !IsNil(cur) {
		out += " . " + Print(cur)
	}
	return out + ")"
}

// ListP reports whether v is nil or a cons chain whose cdr eventually
// reaches nil (spec §3 invariant "a value is a list iff...").
func ListP(v Value) bool {
	slow, fast := v, v
	for {
		if IsNil(fast) {
			return true
		}
		fc, ok := fast.(*Cons)
		if !ok {
			return false
		}
		fast = fc.Cdr
		if IsNil(fast) {
			return true
		}
		fc, ok = fast.(*Cons)
		if !ok {
			return false
		}
		fast = fc.Cdr

		sc := slow.(*Cons)
		slow = sc.Cdr
		if slow == fast {
			return false // circular
		}
	}
}

// ListLength returns the length of the proper list v, or -1 if v is
// dotted or circular (spec §3: "list-length returns -1 ... which the
// engine treats as an argument error").
func ListLength(v Value) int {
	if !ListP(v) {
		return -1
	}
	n := 0
	for cur := v; !IsNil(cur); {
		n++
		cur = cur.(*Cons).Cdr
	}
	return n
}

// ListToSlice materializes a proper list into a Go slice. Callers
// that pass an improper list get back whatever prefix was collected
// and ok=false.
func ListToSlice(v Value) (out []Value, ok bool) {
	for cur := v; ; {
		if IsNil(cur) {
			return out, true
		}
		c, isCons := cur.(*Cons)
		if !isCons {
			return out, false
		}
		out = append(out, c.Car)
		cur = c.Cdr
	}
}

// SliceToList builds a proper list out of a Go slice, allocating
// cons cells through h.
func SliceToList(h *Heap, vs []Value) Value {
	var out Value = Nil
	for i := len(vs) - 1; i >= 0; i-- {
		out = h.NewCons(vs[i], out)
	}
	return out
}
