package relisp

// Arity is the contract a primitive uses to receive its arguments
// (spec §3 "Subr", glossary "Arity tag").
type Arity int

const (
	Arity0 Arity = iota
	Arity1
	Arity2
	Arity3
	Arity4
	Arity5
	ArityL  // raw, unevaluated-arglist-shaped Value (a proper list)
	ArityV  // pre-built []Value of length argc
	AritySF // special form: receives its argument form unevaluated, plus tail?
)

// SpecialFormFunc is the shape a special form's Subr.FnSF takes. It
// receives the call's unevaluated argument form (the cdr of the
// original call expression), the lexical environment and structure it
// is running under, and whether the call is in tail position.
type SpecialFormFunc func(it *Interp, form Value, env *Environment, structure *Structure, tail bool) (Value, *Exception)

// Subr is a primitive implemented in Go rather than in Lisp (spec §3
// "Subr"). Exactly one of the Fn* fields is populated, selected by
// Arity.
type Subr struct {
	cellHeader
	Name  string
	Arity Arity

	Fn0 func() (Value, *Exception)
	Fn1 func(a Value) (Value, *Exception)
	Fn2 func(a, b Value) (Value, *Exception)
	Fn3 func(a, b, c Value) (Value, *Exception)
	Fn4 func(a, b, c, d Value) (Value, *Exception)
	Fn5 func(a, b, c, d, e Value) (Value, *Exception)
	FnL func(args Value) (Value, *Exception)
	FnV func(argv []Value) (Value, *Exception)
	FnSF SpecialFormFunc
}

func (s *Subr) String() string { return "#<subr " + s.Name + ">" }

func init() {
	registerCoreType(typeCodeSubr, &TypeDescriptor{
		Name: "subr",
		Compare: func(a, b Value) (int, bool) {
			if a.(*Subr) == b.(*Subr) {
				return 0, true
			}
			return 1, false
		},
		Print: func(v Value) string { return v.(*Subr).String() },
	})
}

// DefSubrN registers name as a global symbol bound to a fixed-arity
// (0-5) primitive.
func DefSubrN(name string, arity Arity, fn any) *Subr {
	s := &Subr{Name: name, Arity: arity}
	s.cellHeader.typ = typeCodeSubr
	s.cellHeader.static = true
	switch arity {
	case Arity0:
		s.Fn0 = fn.(func() (Value, *Exception))
	case Arity1:
		s.Fn1 = fn.(func(Value) (Value, *Exception))
	case Arity2:
		s.Fn2 = fn.(func(Value, Value) (Value, *Exception))
	case Arity3:
		s.Fn3 = fn.(func(Value, Value, Value) (Value, *Exception))
	case Arity4:
		s.Fn4 = fn.(func(Value, Value, Value, Value) (Value, *Exception))
	case Arity5:
		s.Fn5 = fn.(func(Value, Value, Value, Value, Value) (Value, *Exception))
	default:
		panic("DefSubrN: arity must be 0-5")
	}
	Intern(name).function = s
	SetSymbolValue(Intern(name), s)
	return s
}

// DefSubrL registers name as a global symbol bound to a primitive
// that receives its raw argument list.
func DefSubrL(name string, fn func(Value) (Value, *Exception)) *Subr {
	s := &Subr{Name: name, Arity: ArityL, FnL: fn}
	s.cellHeader.typ, s.cellHeader.static = typeCodeSubr, true
	Intern(name).function = s
	SetSymbolValue(Intern(name), s)
	return s
}

// DefSubrV registers name as a global symbol bound to a primitive
// that receives a materialized argv.
func DefSubrV(name string, fn func([]Value) (Value, *Exception)) *Subr {
	s := &Subr{Name: name, Arity: ArityV, FnV: fn}
	s.cellHeader.typ, s.cellHeader.static = typeCodeSubr, true
	Intern(name).function = s
	SetSymbolValue(Intern(name), s)
	return s
}

// DefSpecialForm registers name as a global symbol bound to a special
// form.
func DefSpecialForm(name string, fn SpecialFormFunc) *Subr {
	s := &Subr{Name: name, Arity: AritySF, FnSF: fn}
	s.cellHeader.typ, s.cellHeader.static = typeCodeSubr, true
	Intern(name).function = s
	return s
}
