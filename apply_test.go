package relisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_LambdaBindsFormalsAndEvaluatesBody(t *testing.T) {
	it := NewInterp(nil)
	h := it.Heap()

	// (lambda (x y) (if x y 0))
	lambdaForm := h.NewCons(
		h.NewCons(Intern("x"), h.NewCons(Intern("y"), Nil)),
		h.NewCons(
			h.NewCons(Intern("if"), h.NewCons(Intern("x"), h.NewCons(Intern("y"), h.NewCons(Fixnum(0), Nil)))),
			Nil,
		),
	)
	closure := h.NewClosure(h.NewCons(Intern("lambda"), lambdaForm), it.GlobalEnv(), it.structure, "")

	result, exc := it.Call2(closure, True, Fixnum(42))
	require.Nil(t, exc)
	assert.Equal(t, Fixnum(42), result)
}

func TestApply_LambdaRestParameter(t *testing.T) {
	it := NewInterp(nil)
	h := it.Heap()

	// (lambda (a . rest) rest)
	lambdaForm := h.NewCons(
		h.NewCons(Intern("a"), Intern("rest")),
		h.NewCons(Intern("rest"), Nil),
	)
	closure := h.NewClosure(h.NewCons(Intern("lambda"), lambdaForm), it.GlobalEnv(), it.structure, "")

	result, exc := it.CallLispN(closure, []Value{Fixnum(1), Fixnum(2), Fixnum(3)})
	require.Nil(t, exc)
	out, ok := ListToSlice(result)
	require.True(t, ok)
	assert.Equal(t, []Value{Fixnum(2), Fixnum(3)}, out)
}

func TestApply_SubrFixedArityDefaultsMissingTrailingArgsToNil(t *testing.T) {
	it := NewInterp(nil)
	var seen [3]Value
	s := DefSubrN("test-subr-arity3", Arity3, func(a, b, c Value) (Value, *Exception) {
		seen = [3]Value{a, b, c}
		return Nil, nil
	})

	_, exc := it.Call1(s, Fixnum(7))
	require.Nil(t, exc)
	assert.Equal(t, Fixnum(7), seen[0])
	assert.Same(t, Nil, seen[1])
	assert.Same(t, Nil, seen[2])
}

func TestApply_SubrFixedArityIgnoresExtraTrailingArgs(t *testing.T) {
	it := NewInterp(nil)
	var seen [2]Value
	s := DefSubrN("test-subr-arity2-extra", Arity2, func(a, b Value) (Value, *Exception) {
		seen = [2]Value{a, b}
		return Nil, nil
	})

	_, exc := it.CallLispN(s, []Value{Fixnum(1), Fixnum(2), Fixnum(3)})
	require.Nil(t, exc)
	assert.Equal(t, [2]Value{Fixnum(1), Fixnum(2)}, seen, "a fixed-arity subr must only consume exactly its arity's worth of args")
}

func TestApply_InvalidFunctionSignalsError(t *testing.T) {
	it := NewInterp(nil)
	_, exc := it.Apply(Fixnum(1), Nil, false)
	require.NotNil(t, exc)
	assert.Equal(t, ErrInvalidFunction, ErrorKind(exc.Tag.Name))
}

func TestApply_MaxDepthSignalsError(t *testing.T) {
	cfg := NewConfig()
	cfg.SetInt("apply.max_depth", 3)
	it := NewInterp(cfg)

	var selfCall *Subr
	selfCall = DefSubrL("test-infinite-recursion", func(args Value) (Value, *Exception) {
		return it.Apply(selfCall, Nil, false)
	})

	_, exc := it.Apply(selfCall, Nil, false)
	require.NotNil(t, exc)
	assert.Equal(t, ErrError, ErrorKind(exc.Tag.Name))
}

func TestApply_AutoloadResolvesAndPatchesClosure(t *testing.T) {
	it := NewInterp(nil)
	h := it.Heap()

	real := DefSubrN("test-autoload-target", Arity0, func() (Value, *Exception) { return Fixnum(99), nil })
	auto := h.NewAutoload("test-autoload-target", func() (Value, *Exception) { return real, nil })
	closure := h.NewClosure(auto, it.GlobalEnv(), it.structure, "")

	result, exc := it.Apply(closure, Nil, false)
	require.Nil(t, exc)
	assert.Equal(t, Fixnum(99), result)
	assert.Same(t, Value(real), closure.Body, "a successful autoload must patch the owning closure's body")
}

func TestFunction_Predicate(t *testing.T) {
	it := NewInterp(nil)
	fnSym := Intern("function?")
	pred := fnSym.function

	isFn, exc := it.Call1(pred, pred)
	require.Nil(t, exc)
	assert.Same(t, Value(True), isFn)

	notFn, exc := it.Call1(pred, Fixnum(1))
	require.Nil(t, exc)
	assert.Same(t, Value(Nil), notFn)
}

func TestFuncall(t *testing.T) {
	it := NewInterp(nil)
	s := DefSubrN("test-funcall-add1", Arity1, func(a Value) (Value, *Exception) {
		return Fixnum(a.(Fixnum) + 1), nil
	})

	result, exc := it.Funcall(s, []Value{Fixnum(41)})
	require.Nil(t, exc)
	assert.Equal(t, Fixnum(42), result)
}
