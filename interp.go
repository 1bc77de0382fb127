package relisp

import "sync/atomic"

// Interp is the single "interpreter context" DESIGN NOTES §9 asks
// for: the call stack, the pending-exception slot, the GC heap, the
// root stack, configuration, logging, and the reactor are all fields
// of one value rather than package-level globals (except for the
// append-only type registry and the symbol table, which really are
// process-wide per spec §4.1/§3). Only one Interp may be driving
// evaluation at a time; nothing here is safe for concurrent use from
// two goroutines (spec §5) except interrupted, which exists
// specifically so a second goroutine (a signal handler) can request an
// interrupt without touching anything else.
type Interp struct {
	heap *Heap
	top  *Frame // current top-of-stack frame; top.Prev chain is the call stack

	pending     *Exception
	interrupted atomic.Bool
	roots       []Value

	config *Config
	log    *Logger

	reactor *Reactor

	// global is the toplevel lexical environment; structure-level
	// and lambda-local environments chain off of it.
	global    *Environment
	structure *Structure

	genv *Environment // alias of global, kept for readability at call sites
}

// NewInterp builds an interpreter using cfg, or compiled-in defaults
// when cfg is nil.
func NewInterp(cfg *Config) *Interp {
	if cfg == nil {
		cfg = NewConfig()
	}
	it := &Interp{
		heap:   NewHeap(int64(cfg.GetInt("gc.threshold_bytes"))),
		top:    newTopFrame(),
		config: cfg,
		log:    NewLogger(cfg),
	}
	it.global = NewEnvironment(nil)
	it.genv = it.global
	it.structure = NewStructure("user")
	it.reactor = NewReactor(it)
	SetSymbolValue(StandardOutput, NewStringOutputStream(it.heap))
	SetSymbolValue(StandardInput, NewStringInputStream(""))
	it.DefineCoreSubrs()
	it.DefineVectorSubrs()
	it.DefineDatumSubrs()
	it.DefineSocketSubrs()
	it.DefineBacktraceSubrs()
	return it
}

// Heap exposes the interpreter's heap, e.g. for allocating values
// from host (Go) code before handing them to Apply/Eval.
func (it *Interp) Heap() *Heap { return it.heap }

// GlobalEnv returns the toplevel lexical environment.
func (it *Interp) GlobalEnv() *Environment { return it.global }

// MaxDepth returns the configured maximum call-stack depth (spec §3
// invariant "never exceeds the configured maximum (default 250)").
func (it *Interp) MaxDepth() int { return it.config.GetInt("apply.max_depth") }

// Depth returns the current call-stack depth.
func (it *Interp) Depth() int { return it.top.Depth }
