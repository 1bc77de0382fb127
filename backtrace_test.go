package relisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBacktrace_FunctionNameNamedClosure(t *testing.T) {
	it := NewInterp(nil)
	h := it.Heap()
	body := h.NewCons(Intern("lambda"), h.NewCons(Nil, h.NewCons(Fixnum(1), Nil)))
	closure := h.NewClosure(body, it.GlobalEnv(), it.structure, "my-fn")

	name, ok := backtraceFunctionName(closure)
	assert.True(t, ok)
	assert.Equal(t, "my-fn", name)
}

func TestBacktrace_FunctionNameAnonymousClosureIsSkipped(t *testing.T) {
	it := NewInterp(nil)
	h := it.Heap()
	body := h.NewCons(Intern("lambda"), h.NewCons(Nil, h.NewCons(Fixnum(1), Nil)))
	closure := h.NewClosure(body, it.GlobalEnv(), it.structure, "")

	_, ok := backtraceFunctionName(closure)
	assert.False(t, ok, "an anonymous closure's frame must be skipped, matching Fbacktrace's rep_nil-name guard")
}

func TestBacktrace_FunctionNameSubr(t *testing.T) {
	s := DefSubrN("test-backtrace-named-subr", Arity0, func() (Value, *Exception) { return Nil, nil })
	name, ok := backtraceFunctionName(s)
	assert.True(t, ok)
	assert.Equal(t, "test-backtrace-named-subr", name)
}

func TestBacktrace_FunctionNameBareLambdaCons(t *testing.T) {
	it := NewInterp(nil)
	h := it.Heap()
	lambdaCons := h.NewCons(Intern("lambda"), Nil)

	name, ok := backtraceFunctionName(lambdaCons)
	assert.True(t, ok)
	assert.Equal(t, "(lambda ...)", name)
}

func TestBacktrace_FunctionNameUnknownIsSkipped(t *testing.T) {
	_, ok := backtraceFunctionName(Fixnum(42))
	assert.False(t, ok)
}

func TestBacktrace_LineFormat(t *testing.T) {
	line := backtraceLine(3, "my-fn", Fixnum(7))
	assert.Equal(t, "#3 my-fn 7\n", line)
}

func TestBacktrace_LineFormatVoidArgsPrintsEllipsis(t *testing.T) {
	line := backtraceLine(0, "sentinel-ish", Void)
	assert.Equal(t, "#0 sentinel-ish ...\n", line)
}

func TestBacktrace_WritesOneLinePerLiveFrameMostRecentFirst(t *testing.T) {
	it := NewInterp(nil)
	h := it.Heap()
	sink := NewStringOutputStream(h)

	inner := DefSubrN("test-backtrace-inner", Arity1, func(strm Value) (Value, *Exception) {
		exc := it.Backtrace(strm)
		return Nil, exc
	})
	outer := DefSubrN("test-backtrace-outer", Arity1, func(strm Value) (Value, *Exception) {
		return it.Call1(inner, strm)
	})

	_, exc := it.Call1(outer, sink)
	require.Nil(t, exc)

	assert.Equal(t,
		"#2 test-backtrace-inner ("+Print(sink)+")\n#1 test-backtrace-outer ("+Print(sink)+")\n",
		sink.String())
}

func TestBacktrace_StackFrameRefReturnsFunAndArgsAtDepth(t *testing.T) {
	it := NewInterp(nil)

	var captured Value
	probe := DefSubrN("test-stack-frame-ref-probe", Arity0, func() (Value, *Exception) {
		f := it.stackFrameRef(1)
		require.NotNil(t, f)
		captured = SliceToList(it.heap, []Value{f.Fun, f.Args})
		return Nil, nil
	})

	_, exc := it.Call1(probe, Fixnum(1))
	// probe is Arity0 but called with one arg; extra arg is simply
	// ignored per applySubr's fixed-arity truncation rule.
	require.Nil(t, exc)

	out, ok := ListToSlice(captured)
	require.True(t, ok)
	assert.Same(t, Value(probe), out[0])
}

func TestBacktrace_StackFrameRefOutOfRangeReturnsNil(t *testing.T) {
	it := NewInterp(nil)
	assert.Nil(t, it.stackFrameRef(999))
}
