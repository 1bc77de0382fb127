package relisp

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	acceptWait = 2 * time.Second
	acceptPoll = 5 * time.Millisecond
)

func TestSocket_ClientServerLoopbackDrainsIntoStream(t *testing.T) {
	it := NewInterp(nil)
	h := it.Heap()
	addr := filepath.Join(t.TempDir(), "test.sock")

	sink := NewStringOutputStream(h)
	var accepted *Socket
	var acceptedSink *StringOutputStream

	acceptCallback := DefSubrN("test-socket-accept-cb", Arity1, func(server Value) (Value, *Exception) {
		acceptedSink = NewStringOutputStream(h)
		s, exc := it.SocketAccept(server.(*Socket), acceptedSink, Nil)
		require.Nil(t, exc)
		accepted = s
		return Nil, nil
	})

	server, exc := it.SocketServer("unix", addr, acceptCallback, Nil)
	require.Nil(t, exc)
	assert.True(t, SocketActive(server))

	client, exc := it.SocketClient("unix", addr, sink, Nil)
	require.Nil(t, exc)
	assert.True(t, SocketActive(client))

	require.Eventually(t, func() bool { return accepted != nil }, acceptWait, acceptPoll)

	n, exc := it.PutS(client, []byte("hello"), false)
	require.Nil(t, exc)
	assert.Equal(t, 5, n)

	require.Eventually(t, func() bool {
		timedOut, err := it.AcceptInputForFDs(50, nil)
		require.NoError(t, err)
		return !timedOut && acceptedSink.String() == "hello"
	}, acceptWait, acceptPoll)
}

func TestReactor_AcceptInputForFDsReportsTimedOutWhenNothingFires(t *testing.T) {
	it := NewInterp(nil)
	timedOut, err := it.AcceptInputForFDs(20, nil)
	require.NoError(t, err)
	assert.True(t, timedOut, "no registered input ever becomes readable, so the deadline must win")
}

func TestSocket_CloseSocketDoesNotCallSentinel(t *testing.T) {
	it := NewInterp(nil)
	h := it.Heap()
	addr := filepath.Join(t.TempDir(), "test-close.sock")

	var sentinelFired bool
	sentinel := DefSubrN("test-socket-close-sentinel", Arity1, func(Value) (Value, *Exception) {
		sentinelFired = true
		return Nil, nil
	})

	server, exc := it.SocketServer("unix", addr, Nil, Nil)
	require.Nil(t, exc)

	client, exc := it.SocketClient("unix", addr, NewStringOutputStream(h), sentinel)
	require.Nil(t, exc)

	exc = it.CloseSocket(client)
	require.Nil(t, exc)
	assert.False(t, SocketActive(client))
	assert.False(t, sentinelFired, "close-socket must not invoke the sentinel")

	_ = it.CloseSocket(server)
}

func TestSocket_WriteToClosedSocketSignalsFileError(t *testing.T) {
	it := NewInterp(nil)
	h := it.Heap()
	addr := filepath.Join(t.TempDir(), "test-write-closed.sock")

	server, exc := it.SocketServer("unix", addr, Nil, Nil)
	require.Nil(t, exc)
	client, exc := it.SocketClient("unix", addr, NewStringOutputStream(h), Nil)
	require.Nil(t, exc)

	require.Nil(t, it.CloseSocket(client))

	_, exc = it.PutS(client, []byte("x"), false)
	require.NotNil(t, exc)
	assert.Equal(t, "file-error", exc.Tag.Name, "CLOSED is terminal: any stream operation must fail file-error")

	_ = it.CloseSocket(server)
}

func TestSocket_Predicate(t *testing.T) {
	it := NewInterp(nil)
	h := it.Heap()
	addr := filepath.Join(t.TempDir(), "test-predicate.sock")

	server, exc := it.SocketServer("unix", addr, Nil, Nil)
	require.Nil(t, exc)
	defer it.CloseSocket(server)

	_, isSocket := Value(server).(*Socket)
	assert.True(t, isSocket)
	_, isSocket = Value(Fixnum(1)).(*Socket)
	assert.False(t, isSocket)
	_ = h
}

func TestSocket_DialFailureSignalsFileError(t *testing.T) {
	it := NewInterp(nil)
	addr := filepath.Join(t.TempDir(), "does-not-exist.sock")

	_, exc := it.SocketClient("unix", addr, NewStringOutputStream(it.Heap()), Nil)
	require.NotNil(t, exc)
	assert.Equal(t, "file-error", exc.Tag.Name)
}
