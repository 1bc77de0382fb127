package relisp

// Frame is one entry in the call stack: a stack-allocated record (in
// the original C runtime; here a heap-allocated node linked into the
// chain, since Go has no notion of "on the C stack") created before
// each Apply and popped on return regardless of outcome (spec §3
// "Stack frame").
type Frame struct {
	Fun       Value
	Args      Value // the raw arglist, or Void when not yet materialized
	Env       *Environment
	Structure *Structure
	Form      Value // the form currently being evaluated, or nil
	Depth     int
	Prev      *Frame
}

// newTopFrame builds the sentinel frame whose depth is zero, so the
// call-stack chain is never empty (spec §3 invariant).
func newTopFrame() *Frame {
	return &Frame{Fun: Nil, Args: Void, Depth: 0}
}

// push links a new frame for fun/args on top of cur and returns it.
func (cur *Frame) push(fun, args Value, env *Environment, structure *Structure) *Frame {
	return &Frame{
		Fun:       fun,
		Args:      args,
		Env:       env,
		Structure: structure,
		Depth:     cur.Depth + 1,
		Prev:      cur,
	}
}

// walk visits every frame from the top (most recent) down to, but
// excluding, the sentinel, calling fn on each. Used both by the GC
// root walk and by Backtrace.
func (f *Frame) walk(fn func(*Frame)) {
	for cur := f; cur != nil && cur.Prev != nil; cur = cur.Prev {
		fn(cur)
	}
}
