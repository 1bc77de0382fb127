package relisp

import "sync"

// Symbol is an interned name cell. Two symbols with the same name are
// always the same pointer, which is what makes datum identity
// (spec §4.5) and special-form dispatch cheap pointer comparisons.
type Symbol struct {
	cellHeader
	Name string

	// value is the symbol's global dynamic binding, resolved by
	// SymbolValue/SetSymbolValue. *standard-output* and
	// *standard-input* are ordinary symbols bound this way
	// (spec §6).
	value Value

	// function is the primitive registered under this name by
	// DefSubrN/DefSubrL/DefSubrV/DefSpecialForm, or nil; Eval treats
	// it as a special form when its Arity is AritySF.
	function *Subr
}

func (s *Symbol) String() string { return s.Name }

var (
	symtabMu sync.Mutex
	symtab   = map[string]*Symbol{}
)

// Intern returns the unique Symbol for name, creating it on first
// use. Interning never triggers GC and newly interned symbols are
// kept alive by the symbol table itself, so callers never need to
// root the result of Intern.
func Intern(name string) *Symbol {
	symtabMu.Lock()
	defer symtabMu.Unlock()
	if s, ok := symtab[name]; ok {
		return s
	}
	s := &Symbol{Name: name}
	s.cellHeader.typ = typeCodeSymbol
	s.cellHeader.static = true
	symtab[name] = s
	return s
}

// SymbolValue returns the symbol's current global binding, or
// Undefined if it has never been set.
func SymbolValue(sym *Symbol) Value {
	if sym.value == nil {
		return Undefined
	}
	return sym.value
}

// SetSymbolValue assigns sym's global binding.
func SetSymbolValue(sym *Symbol, v Value) { sym.value = v }

var (
	// StandardOutput and StandardInput are the well-known symbols
	// resolved via SymbolValue to find the active streams
	// (spec §6).
	StandardOutput = Intern("*standard-output*")
	StandardInput  = Intern("*standard-input*")
)

func init() {
	registerCoreType(typeCodeSymbol, &TypeDescriptor{
		Name: "symbol",
		Compare: func(a, b Value) (int, bool) {
			x, y := a.(*Symbol), b.(*Symbol)
			if x == y {
				return 0, true
			}
			return 1, false
		},
		Print: func(v Value) string { return v.(*Symbol).Name },
	})
}
