package relisp

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// vectorImmutable is set in a Vector's header flags bit 0 once
// make-vector-immutable! has run (vectors.c's rep_VECTOR_IMMUTABLE).
const vectorImmutable uint32 = 1 << 0

// Vector is spec §4.6's fixed-length, O(1)-indexed container, grounded
// on vectors.c's rep_vector: a flat Go slice stands in for the
// original's flexible-array-member layout, and the immutable flag
// moves from a bit packed into the cell header word to cellHeader's
// dedicated flags field.
type Vector struct {
	cellHeader
	elems []Value
}

func (v *Vector) typeCode() TypeCode  { return typeCodeVector }
func (v *Vector) header() *cellHeader { return &v.cellHeader }

func init() {
	registerCoreType(typeCodeVector, &TypeDescriptor{
		Name: "vector",
		Compare: func(a, b Value) (int, bool) {
			x, y := a.(*Vector), b.(*Vector)
			if len(x.elems) != len(y.elems) {
				return 1, false
			}
			for i := range x.elems {
				if cmp, ok := ValueCompare(x.elems[i], y.elems[i]); !ok || cmp != 0 {
					return cmp, ok
				}
			}
			return 0, true
		},
		Print: func(v Value) string {
			vec := v.(*Vector)
			s := "#["
			for i, e := range vec.elems {
				if i > 0 {
					s += " "
				}
				s += Print(e)
			}
			return s + "]"
		},
		Mark: func(v Value, mark func(Value)) {
			for _, e := range v.(*Vector).elems {
				mark(e)
			}
		},
	})
}

// NewVectorFromArgs builds a vector whose elements are exactly args,
// the Go analogue of Fvector (`vector` taking its argv directly as the
// new vector's backing store).
func (it *Interp) NewVectorFromArgs(args []Value) *Vector {
	v := allocCell(it.heap, typeCodeVector, func() *Vector { return &Vector{} })
	v.elems = append([]Value(nil), args...)
	return v
}

// NewVector builds a vector of size elements, all initialized to init
// (Fmake_vector).
func (it *Interp) NewVector(size int, init Value) (*Vector, *Exception) {
	if size < 0 {
		return nil, it.SignalBadArg(1, Fixnum(size))
	}
	elems := lo.Times(size, func(int) Value { return init })
	v := allocCell(it.heap, typeCodeVector, func() *Vector { return &Vector{} })
	v.elems = elems
	return v, nil
}

// Len returns the vector's length.
func (v *Vector) Len() int { return len(v.elems) }

// Writable reports whether the vector may still be mutated
// (rep_VECTOR_WRITABLE_P).
func (v *Vector) Writable() bool { return v.flags&vectorImmutable == 0 }

// Freeze marks the vector immutable, irreversibly
// (make-vector-immutable!).
func (v *Vector) Freeze() { v.flags |= vectorImmutable }

// VectorRef returns the idx'th element, or an Exception if idx is out of
// range (vector-ref).
func (it *Interp) VectorRef(v *Vector, idx int) (Value, *Exception) {
	if idx < 0 || idx >= len(v.elems) {
		return nil, it.SignalBadArg(2, Fixnum(idx))
	}
	return v.elems[idx], nil
}

// VectorSet assigns the idx'th element to val (vector-set!). The
// immutable check runs before the bounds check, matching vectors.c's
// Fvector_set: attempting to write any index of a frozen vector
// signals setting-constant even when the index itself is also out of
// range.
func (it *Interp) VectorSet(v *Vector, idx int, val Value) *Exception {
	if !v.Writable() {
		return it.SignalSettingConstant(v)
	}
	if idx < 0 || idx >= len(v.elems) {
		return it.SignalBadArg(2, Fixnum(idx))
	}
	v.elems[idx] = val
	return nil
}

// ListToVector builds a vector from a proper list's elements
// (list->vector).
func (it *Interp) ListToVector(lst Value) (*Vector, *Exception) {
	if !ListP(lst) {
		return nil, it.SignalBadArg(1, lst)
	}
	elems, _ := ListToSlice(lst)
	return it.NewVectorFromArgs(elems), nil
}

// VectorToList builds a proper list from a vector's elements
// (vector->list).
func (it *Interp) VectorToList(v *Vector) Value {
	return SliceToList(it.heap, v.elems)
}

// VectorP reports whether v is a Vector.
func VectorP(v Value) bool {
	_, ok := v.(*Vector)
	return ok
}

// vectorMapLength returns the shortest length across vs (shared by
// vector-map and vector-for-each, which impose the same "smallest
// vector wins" rule).
func vectorMapLength(vs []*Vector) int {
	if len(vs) == 0 {
		return 0
	}
	lengths := lo.Map(vs, func(v *Vector, _ int) int { return v.Len() })
	return lo.Min(lengths)
}

func (it *Interp) toVectors(args []Value) ([]*Vector, *Exception) {
	vs := make([]*Vector, len(args))
	for i, a := range args {
		vec, ok := a.(*Vector)
		if !ok {
			return nil, it.SignalBadArg(i+2, a)
		}
		vs[i] = vec
	}
	return vs, nil
}

// VectorMap implements vector-map: fn is called with one argument per
// vector in vs, elementwise, and the results collected into a freshly
// allocated vector the length of the shortest input. Per spec §4.6 it
// roots its result and arguments for the duration of the iteration.
func (it *Interp) VectorMap(fn Value, vs []Value) (Value, *Exception) {
	if len(vs) == 0 {
		return nil, it.SignalMissingArg(1)
	}
	vecs, exc := it.toVectors(vs)
	if exc != nil {
		return nil, exc
	}
	n := vectorMapLength(vecs)
	out, exc := it.NewVector(n, Nil)
	if exc != nil {
		return nil, exc
	}
	h := it.PushRoot(out)
	defer h.Pop()
	hv := it.PushRootRange(vs)
	defer hv.Pop()

	row := make([]Value, len(vecs))
	for j := 0; j < n; j++ {
		for i, v := range vecs {
			row[i] = v.elems[j]
		}
		res, exc := it.CallLispN(fn, row)
		if exc != nil {
			return nil, exc
		}
		out.elems[j] = res
	}
	return out, nil
}

// VectorForEach implements vector-for-each: like VectorMap but
// discards fn's results, returning Undefined on success.
func (it *Interp) VectorForEach(fn Value, vs []Value) (Value, *Exception) {
	if len(vs) == 0 {
		return nil, it.SignalMissingArg(1)
	}
	vecs, exc := it.toVectors(vs)
	if exc != nil {
		return nil, exc
	}
	n := vectorMapLength(vecs)
	hv := it.PushRootRange(vs)
	defer hv.Pop()

	row := make([]Value, len(vecs))
	for j := 0; j < n; j++ {
		for i, v := range vecs {
			row[i] = v.elems[j]
		}
		if _, exc := it.CallLispN(fn, row); exc != nil {
			return nil, exc
		}
	}
	return Undefined, nil
}

// Elems exposes a defensive copy of v's backing slice, e.g. for tests
// asserting on contents without risking aliasing mutation through the
// live vector.
func (v *Vector) Elems() []Value {
	return slices.Clone(v.elems)
}

// asIndex recovers a Go int from a Value expected to be a Fixnum,
// shared by every vector primitive that takes an index argument.
func (it *Interp) asIndex(argpos int, v Value) (int, *Exception) {
	n, ok := v.(Fixnum)
	if !ok {
		return 0, it.SignalBadArg(argpos, v)
	}
	return int(n), nil
}

func (it *Interp) asVector(argpos int, v Value) (*Vector, *Exception) {
	vec, ok := v.(*Vector)
	if !ok {
		return nil, it.SignalBadArg(argpos, v)
	}
	return vec, nil
}

// DefineVectorSubrs registers every spec §4.6 vector primitive as a
// Lisp-callable global, closing over it the same way apply.go's
// DefineCoreSubrs does.
func (it *Interp) DefineVectorSubrs() {
	DefSubrV("vector", func(argv []Value) (Value, *Exception) {
		return it.NewVectorFromArgs(argv), nil
	})

	DefSubrN("make-vector", Arity2, func(size, init Value) (Value, *Exception) {
		n, exc := it.asIndex(0, size)
		if exc != nil {
			return nil, exc
		}
		return it.NewVector(n, init)
	})

	DefSubrN("vector-length", Arity1, func(v Value) (Value, *Exception) {
		vec, exc := it.asVector(0, v)
		if exc != nil {
			return nil, exc
		}
		return Fixnum(vec.Len()), nil
	})

	DefSubrN("vector-ref", Arity2, func(v, idx Value) (Value, *Exception) {
		vec, exc := it.asVector(0, v)
		if exc != nil {
			return nil, exc
		}
		i, exc := it.asIndex(1, idx)
		if exc != nil {
			return nil, exc
		}
		return it.VectorRef(vec, i)
	})

	DefSubrN("vector-set!", Arity3, func(v, idx, val Value) (Value, *Exception) {
		vec, exc := it.asVector(0, v)
		if exc != nil {
			return nil, exc
		}
		i, exc := it.asIndex(1, idx)
		if exc != nil {
			return nil, exc
		}
		if exc := it.VectorSet(vec, i, val); exc != nil {
			return nil, exc
		}
		return val, nil
	})

	DefSubrN("make-vector-immutable!", Arity1, func(v Value) (Value, *Exception) {
		vec, exc := it.asVector(0, v)
		if exc != nil {
			return nil, exc
		}
		vec.Freeze()
		return vec, nil
	})

	DefSubrN("list->vector", Arity1, func(lst Value) (Value, *Exception) {
		return it.ListToVector(lst)
	})

	DefSubrN("vector->list", Arity1, func(v Value) (Value, *Exception) {
		vec, exc := it.asVector(0, v)
		if exc != nil {
			return nil, exc
		}
		return it.VectorToList(vec), nil
	})

	DefSubrL("vector-map", func(args Value) (Value, *Exception) {
		argv, ok := ListToSlice(args)
		if !ok || len(argv) == 0 {
			return nil, it.SignalMissingArg(0)
		}
		return it.VectorMap(argv[0], argv[1:])
	})

	DefSubrL("vector-for-each", func(args Value) (Value, *Exception) {
		argv, ok := ListToSlice(args)
		if !ok || len(argv) == 0 {
			return nil, it.SignalMissingArg(0)
		}
		return it.VectorForEach(argv[0], argv[1:])
	})

	DefSubrN("vector?", Arity1, func(v Value) (Value, *Exception) {
		return Bool(VectorP(v)), nil
	})
}
