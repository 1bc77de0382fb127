package relisp

import "fmt"

// Value is the uniform machine word of the interpreter: either an
// immediate Fixnum or a pointer to a heap Cell. Every concrete type
// that can flow through Apply, be stored in a Cons, or be printed
// implements this interface.
type Value interface {
	// typeCode returns the dense primary type code used to look up
	// the type's TypeDescriptor in the registry. Fixnum is the only
	// Value that does not live in the registry under a heap type;
	// it reports typeCodeFixnum, a reserved pseudo-code.
	typeCode() TypeCode
}

// Fixnum is the immediate small-integer encoding. In the original C
// runtime this is a pointer with its low bit set and the payload
// packed into the remaining bits; here it is simply a distinct Go
// type whose typeCode method lets TypeOf tell it apart from every
// heap Cell without a tag bit.
type Fixnum int64

func (Fixnum) typeCode() TypeCode { return typeCodeFixnum }

// Cell is satisfied by every heap-allocated value. cellHeader
// supplies the default implementation; types embed it.
type Cell interface {
	Value
	header() *cellHeader
}

// cellHeader is the first-word equivalent of every heap cell: a type
// code, a mark bit, a static-allocation bit, and a small flags word
// for type-specific status (vector immutability, socket activity,
// ...). It also carries the intrusive links used by the
// GC's per-type instance list (see freelist.go).
type cellHeader struct {
	typ    TypeCode
	marked bool
	static bool
	flags  uint32

	prev, next Cell
}

func (h *cellHeader) header() *cellHeader { return h }

func (h *cellHeader) typeCode() TypeCode { return h.typ }

// Singletons. nil and the end-of-list datum are the same object per
// spec's resolution of that open question: Eol is simply an alias of
// Nil, not a second value.
var (
	Nil       = &singleton{name: "nil"}
	True      = &singleton{name: "t"}
	Undefined = &singleton{name: "undefined"}
	Void      = &singleton{name: "void"}
)

// Eol is the end-of-list terminator. It is identical to Nil.
var Eol = Nil

type singleton struct {
	cellHeader
	name string
}

func (s *singleton) String() string { return "#<" + s.name + ">" }

// typeCodeSingleton gives the singletons a registry slot of their own,
// so they never pass for another primary type in TypeOf/ValueCompare.
var typeCodeSingleton = RegisterType(&TypeDescriptor{
	Name: "singleton",
	Compare: func(a, b Value) (int, bool) {
		if a.(*singleton) == b.(*singleton) {
			return 0, true
		}
		return 1, false
	},
	Print: func(v Value) string { return v.(*singleton).String() },
})

func init() {
	for _, s := range []*singleton{Nil, True, Undefined, Void} {
		s.typ = typeCodeSingleton
		s.marked = true
		s.static = true
	}
}

// IsNil reports whether v is the nil/end-of-list singleton.
func IsNil(v Value) bool { return v == Value(Nil) }

// IsTrue reports whether v is the canonical true singleton. Lisp
// truthiness in this core is "anything but nil", so IsTrue is used
// only when code wants the literal `t` object, e.g. predicates
// returning a boolean.
func IsTrue(v Value) bool { return v == Value(True) }

// Bool converts a Go bool into the canonical Lisp boolean pair.
func Bool(b bool) Value {
	if b {
		return True
	}
	return Nil
}

// Truthy implements Lisp's generalized boolean: everything except nil
// is true.
func Truthy(v Value) bool { return !IsNil(v) }

func fmtValue(v Value) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return Print(v)
}
