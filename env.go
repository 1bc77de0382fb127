package relisp

// Environment is a single lexical binding frame, chained to its
// parent. Closures capture the environment active at the time they
// are formed; applying one switches the active environment to its
// own before evaluating its body (spec §4.3 "Closure: switch the
// active environment/structure to the closure's").
type Environment struct {
	vars   map[*Symbol]Value
	parent *Environment
}

// NewEnvironment creates a fresh binding frame chained to parent
// (which may be nil for the toplevel).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{vars: map[*Symbol]Value{}, parent: parent}
}

// Bind introduces or overwrites a binding in this frame (used when
// binding lambda formals; never reaches through to a parent frame).
func (e *Environment) Bind(sym *Symbol, v Value) {
	e.vars[sym] = v
}

// Lookup searches this frame and its ancestors for sym, falling back
// to the symbol's global value (spec §6 symbol-value resolution).
func (e *Environment) Lookup(sym *Symbol) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[sym]; ok {
			return v, true
		}
	}
	if sym.value != nil {
		return sym.value, true
	}
	return nil, false
}

// Set assigns to the nearest frame that already binds sym, or the
// global binding if none does.
func (e *Environment) Set(sym *Symbol, v Value) {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[sym]; ok {
			env.vars[sym] = v
			return
		}
	}
	SetSymbolValue(sym, v)
}

// mark walks every Value bound directly in this frame (and its
// ancestors); it is the GC root contribution of a closure's captured
// environment (spec §4.2 mark seed (a): "saved-env").
func (e *Environment) mark(mark func(Value)) {
	for env := e; env != nil; env = env.parent {
		for _, v := range env.vars {
			mark(v)
		}
	}
}
