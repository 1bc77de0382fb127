package relisp

// Closure bundles a callable body with the environment and structure
// captured at the point it was formed (spec §3 "Closure"). Body may
// be a cons `(lambda formals . body)`, a *BytecodeVector, an
// *Autoload placeholder, or any other applicable heap value.
type Closure struct {
	cellHeader
	Body      Value
	Env       *Environment
	Structure *Structure
	Name      string
}

// NewClosure allocates a closure cell through h.
func (h *Heap) NewClosure(body Value, env *Environment, structure *Structure, name string) *Closure {
	c := allocCell(h, typeCodeClosure, func() *Closure { return &Closure{} })
	c.Body, c.Env, c.Structure, c.Name = body, env, structure, name
	return c
}

func init() {
	registerCoreType(typeCodeClosure, &TypeDescriptor{
		Name: "closure",
		Compare: func(a, b Value) (int, bool) {
			if a.(*Closure) == b.(*Closure) {
				return 0, true
			}
			return 1, false
		},
		Print: func(v Value) string {
			c := v.(*Closure)
			if c.Name != "" {
				return "#<closure " + c.Name + ">"
			}
			return "#<closure anonymous>"
		},
		Mark: func(v Value, mark func(Value)) {
			c := v.(*Closure)
			mark(c.Body)
			if c.Env != nil {
				c.Env.mark(mark)
			}
		},
	})
}

// Autoload is a placeholder function body that, on first call, loads
// the real definition and atomically replaces the owning closure's
// Body. A failed load leaves the closure untouched and the original
// error propagates (spec §9 DESIGN NOTES "Autoload").
type Autoload struct {
	cellHeader
	Name   string
	Loader func() (Value, *Exception)
}

// NewAutoload allocates an autoload placeholder through h.
func (h *Heap) NewAutoload(name string, loader func() (Value, *Exception)) *Autoload {
	a := allocCell(h, typeCodeAutoload, func() *Autoload { return &Autoload{} })
	a.Name, a.Loader = name, loader
	return a
}

// typeCodeAutoload shares the plugin range since it is a core
// implementation detail of Closure rather than a value Lisp code
// meets outside of one, but still needs its own registry slot to
// print and mark correctly.
var typeCodeAutoload = RegisterType(&TypeDescriptor{
	Name: "autoload",
	Print: func(v Value) string {
		return "#<autoload " + v.(*Autoload).Name + ">"
	},
})
