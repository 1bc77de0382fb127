package relisp

import "fmt"

// TypeCode is the dense, append-only index assigned to a registered
// type. Core types are assigned from a reserved low range; plugin
// types (sockets, and anything a structure registers with
// RegisterType) come from a second range starting at
// firstPluginTypeCode, mirroring the source's "two 16-bit ranges"
// scheme (spec §3/§4.1).
type TypeCode uint16

const (
	typeCodeFixnum TypeCode = iota
	typeCodeCons
	typeCodeSymbol
	typeCodeString
	typeCodeVector
	typeCodeBytecodeVector
	typeCodeClosure
	// typeCodeSubr also covers the "special-form" primary type from
	// spec §3: a special form is simply a Subr whose Arity is
	// AritySF, the same way the spec's own §3 "Subr" section folds
	// SF into the Subr arity tag even though the primary-type list
	// names it separately.
	typeCodeSubr
	typeCodeDatum

	firstPluginTypeCode TypeCode = 256
)

// TypeDescriptor is the capability set a primary type registers once,
// at init time for core types or via RegisterType for plugins. Every
// field is optional; a nil hook means "this type does not support
// this capability" rather than a null-pointer landmine (DESIGN NOTES
// §9, "type table as trait-object registry").
type TypeDescriptor struct {
	Name string

	// Compare returns -1/0/1, or ok=false when a and b are
	// otherwise comparable types but the specific values are not
	// (e.g. NaN-like cases); unequal primary types never reach
	// Compare (ValueCompare short-circuits to "incomparable").
	Compare func(a, b Value) (int, bool)

	// Print writes the textual form of v. Absence yields the
	// "#<opaque Name>" default (spec §4.1).
	Print func(v Value) string

	// Mark walks v's referents, calling mark(ref) on each one that
	// is itself a Cell.
	Mark func(v Value, mark func(Value))

	// MarkRoots is called once per GC cycle for types that keep
	// their own root set independent of the call stack and
	// explicit root handles (the socket subsystem's "every active
	// socket is live" rule, spec §4.2/§4.7).
	MarkRoots func(mark func(Value))

	// Sweep is called once per GC cycle to reclaim unmarked
	// instances of this type. Implementations walk their own
	// instance list (heap.instances[code]) and return cells to
	// their free list.
	Sweep func(h *Heap)

	// PutC/PutS make this type a writable Stream (spec §6).
	PutC func(v Value, r rune) (int, *Exception)
	PutS func(v Value, b []byte, interned bool) (int, *Exception)

	// Bind/Unbind implement scoped activation for
	// CallWithObject (spec §4.3).
	Bind   func(v Value) (any, *Exception)
	Unbind func(v Value, handle any)

	// Apply makes non-core values callable (spec §4.1 "type hook
	// contract"). argv has already been materialized by Apply.
	Apply func(v Value, argv []Value, tail bool) (Value, *Exception)
}

// HasApply reports whether this type's descriptor supplies an Apply
// hook, the HAS_APPLY flag from spec §3/§4.1.
func (d *TypeDescriptor) HasApply() bool { return d.Apply != nil }

// TypeRegistry is the process-wide, append-only table of registered
// types. The package keeps a single instance (registry, below), and
// every Interp's Heap refers to that same instance.
type TypeRegistry struct {
	byCode []*TypeDescriptor
	byName map[string]TypeCode
	next   TypeCode
}

func newTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{byName: map[string]TypeCode{}, next: firstPluginTypeCode}
	r.registerAt(typeCodeFixnum, &TypeDescriptor{Name: "fixnum",
		Compare: func(a, b Value) (int, bool) {
			x, y := a.(Fixnum), b.(Fixnum)
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			default:
				return 0, true
			}
		},
		Print: func(v Value) string { return fmt.Sprintf("%d", v.(Fixnum)) },
	})
	return r
}

func (r *TypeRegistry) registerAt(code TypeCode, d *TypeDescriptor) {
	for len(r.byCode) <= int(code) {
		r.byCode = append(r.byCode, nil)
	}
	r.byCode[code] = d
	r.byName[d.Name] = code
}

// registerType assigns the next free plugin type code to desc and
// returns it. Used by plugin modules such as the socket component;
// core types are pre-registered with fixed codes via registerAt.
func (r *TypeRegistry) registerType(desc *TypeDescriptor) TypeCode {
	code := r.next
	r.next++
	r.registerAt(code, desc)
	return code
}

// Descriptor returns the TypeDescriptor for code, or nil if code is
// unregistered.
func (r *TypeRegistry) Descriptor(code TypeCode) *TypeDescriptor {
	if int(code) >= len(r.byCode) {
		return nil
	}
	return r.byCode[code]
}

// TypeOf returns v's type descriptor.
func (r *TypeRegistry) TypeOf(v Value) *TypeDescriptor {
	return r.Descriptor(v.typeCode())
}

// ValueCompare implements value-compare (spec §4.1): unequal primary
// types are always incomparable, reported here as (1, false) so
// callers that only check for "not equal" still work without special
// casing.
func (r *TypeRegistry) ValueCompare(a, b Value) (int, bool) {
	if a.typeCode() != b.typeCode() {
		return 1, false
	}
	d := r.TypeOf(a)
	if d == nil || d.Compare == nil {
		return 1, false
	}
	return d.Compare(a, b)
}

// Print dispatches to the type's print hook, or the opaque default.
func (r *TypeRegistry) Print(v Value) string {
	d := r.TypeOf(v)
	if d == nil || d.Print == nil {
		name := "unknown"
		if d != nil {
			name = d.Name
		}
		return fmt.Sprintf("#<opaque %s>", name)
	}
	return d.Print(v)
}

// registry is the process-wide, append-only type table (DESIGN
// NOTES §9: "the type table [is a] process-wide singleton"). Core
// types self-register into it from each file's init(); plugin types
// (e.g. sockets) call RegisterType at setup time.
var registry = newTypeRegistry()

// RegisterType is the package-level entry point a plugin module calls
// to introduce a new primary type (spec §4.1/§6 define-type).
func RegisterType(desc *TypeDescriptor) TypeCode { return registry.registerType(desc) }

// registerCoreType installs desc at a fixed, pre-reserved code. Every
// built-in primary type (cons, symbol, string, ...) calls this from
// its file's init() so the core pre-registers its own types before
// any user or plugin code runs (spec §4.1).
func registerCoreType(code TypeCode, desc *TypeDescriptor) {
	registry.registerAt(code, desc)
}

// TypeOf returns v's type descriptor.
func TypeOf(v Value) *TypeDescriptor { return registry.TypeOf(v) }

// ValueCompare implements value-compare (spec §4.1).
func ValueCompare(a, b Value) (int, bool) { return registry.ValueCompare(a, b) }

// Print renders v using its type's print hook, or the opaque default.
func Print(v Value) string { return registry.Print(v) }
