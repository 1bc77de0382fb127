package relisp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignal_SetsPending(t *testing.T) {
	it := NewInterp(nil)
	require.Nil(t, it.Pending())

	exc := it.Signal(ErrError, it.Heap().NewString("boom"))
	assert.Same(t, exc, it.Pending())

	it.ClearPending()
	assert.Nil(t, it.Pending())
}

func TestSignalBadArg_CarriesIndexAndValue(t *testing.T) {
	it := NewInterp(nil)
	exc := it.SignalBadArg(2, Fixnum(7))

	assert.Equal(t, "bad-arg", exc.Tag.Name)
	out, ok := ListToSlice(exc.Value)
	require.True(t, ok)
	assert.Equal(t, []Value{Fixnum(2), Fixnum(7)}, out)
}

func TestSignalMissingArg(t *testing.T) {
	it := NewInterp(nil)
	exc := it.SignalMissingArg(1)
	assert.Equal(t, "missing-arg", exc.Tag.Name)
	assert.Equal(t, Fixnum(1), exc.Value)
}

func TestSignalFileError_WrapsCause(t *testing.T) {
	it := NewInterp(nil)
	cause := errors.New("connection refused")
	exc := it.SignalFileError(cause, "socket-client 127.0.0.1:0")

	assert.Equal(t, "file-error", exc.Tag.Name)
	msg := exc.Value.(*StringVal).String()
	assert.Contains(t, msg, "connection refused")
	assert.Contains(t, msg, "socket-client")
}

func TestException_Error(t *testing.T) {
	it := NewInterp(nil)
	exc := it.SignalMissingArg(0)
	assert.Equal(t, "missing-arg: 0", exc.Error())
}

func TestSignalErrorMessage_WrapsMessageInOneElementList(t *testing.T) {
	it := NewInterp(nil)
	exc := it.SignalErrorMessage("max-lisp-depth exceeded, possible infinite recursion?")

	assert.Equal(t, "error", exc.Tag.Name)
	out, ok := ListToSlice(exc.Value)
	require.True(t, ok)
	require.Len(t, out, 1)
	assert.Equal(t, "max-lisp-depth exceeded, possible infinite recursion?", out[0].(*StringVal).String())
}

func TestRequestInterrupt_AbortsNextApplyWithoutDispatching(t *testing.T) {
	it := NewInterp(nil)
	require.Nil(t, it.Pending())

	called := false
	fn := DefSubrN("test-interrupt-should-not-run", Arity0, func() (Value, *Exception) {
		called = true
		return Nil, nil
	})

	it.RequestInterrupt()
	result, exc := it.Apply(fn, Nil, false)

	assert.Nil(t, result)
	require.NotNil(t, exc)
	assert.Equal(t, "interrupt", exc.Tag.Name)
	assert.Same(t, exc, it.Pending())
	assert.False(t, called, "an interrupt pending at Apply's entry must prevent the call from dispatching")

	it.ClearPending()
	called = false
	_, exc = it.Apply(fn, Nil, false)
	require.Nil(t, exc)
	assert.True(t, called, "the interrupt flag must be consumed once, not stick forever")
}
