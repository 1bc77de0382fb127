package relisp

// BytecodeDispatcher executes a BytecodeVector with its materialized
// argument vector (spec §6 "Bytecode hook"). It is expected to be
// reentrant: the reactor may invoke Lisp code that calls back into a
// dispatcher while another invocation is still on the call stack.
type BytecodeDispatcher func(bv *BytecodeVector, argv []Value, tail bool) (Value, *Exception)

// Structure is a module-like namespace with its own symbol table and
// an optional bytecode dispatcher. The structure/module system proper
// is an external collaborator (spec §1); this is the minimal shape
// the core needs to resolve the per-structure bytecode hook (spec
// §4.3/§6) and to report a frame's "current structure" in backtraces.
type Structure struct {
	Name      string
	Bytecode  BytecodeDispatcher // nil uses the interpreter's default
	Variables map[*Symbol]Value
}

// NewStructure creates an empty structure with the given name.
func NewStructure(name string) *Structure {
	return &Structure{Name: name, Variables: map[*Symbol]Value{}}
}

// Dispatcher returns s's bytecode dispatcher, or def if s has none
// installed (spec §6: "The engine prefers the structure-local hook;
// otherwise a default dispatcher").
func (s *Structure) Dispatcher(def BytecodeDispatcher) BytecodeDispatcher {
	if s == nil || s.Bytecode == nil {
		return def
	}
	return s.Bytecode
}
