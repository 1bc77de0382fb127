package relisp

import (
	"errors"
	"fmt"
	"net"
	"sync"
)

// Socket state-machine flags, carried in cellHeader.flags the same
// way Vector carries its immutable bit (sockets.c's IS_ACTIVE /
// IS_REGISTERED packed into the cell's type word).
const (
	socketActive     uint32 = 1 << 0 // FRESH -> ACTIVE on successful connect/listen
	socketRegistered uint32 = 1 << 1 // ACTIVE -> ACTIVE[REGISTERED] once watched by the reactor
	socketSentinel   uint32 = 1 << 2 // sentinel already fired; guards double invocation
)

// errInactiveSocket names the cause sockets.c's DEFSTRING(inactive_socket,
// "Inactive socket") gives a write against a CLOSED or server-role
// socket.
var errInactiveSocket = errors.New("inactive socket")

// Socket wraps either a client connection or a listening server
// socket, grounded on sockets.c's rep_socket. Exactly one of conn /
// listener is non-nil, distinguishing the client and server roles.
type Socket struct {
	cellHeader

	it *Interp

	conn     net.Conn
	listener net.Listener

	reactorID int // valid only once socketRegistered is set

	stream   Value // client: sink for drained input; server: accept callback
	sentinel Value // called with the socket once it transitions to CLOSED

	mu      sync.Mutex // guards pending; the listener goroutine and SocketAccept both touch it
	pending []net.Conn // connections a server socket's Accept loop has queued

	// activePrev/activeNext link this socket into activeSockets,
	// independently of cellHeader's own prev/next (already used by
	// the heap's per-type instance list, see freelist.go).
	activePrev, activeNext *Socket
}

func (s *Socket) typeCode() TypeCode  { return typeCodeSocket }
func (s *Socket) header() *cellHeader { return &s.cellHeader }

var typeCodeSocket = RegisterType(&TypeDescriptor{
	Name: "socket",
	Print: func(v Value) string {
		s := v.(*Socket)
		if s.flags&socketActive != 0 {
			return "#<socket active>"
		}
		return "#<socket closed>"
	},
	Mark: func(v Value, mark func(Value)) {
		s := v.(*Socket)
		if s.stream != nil {
			mark(s.stream)
		}
		if s.sentinel != nil {
			mark(s.sentinel)
		}
	},
	// MarkRoots keeps every still-ACTIVE socket alive regardless of
	// whether Lisp code holds a reference, per spec §4.2/§4.7: a
	// socket's sentinel must still be able to fire even if nothing
	// else reaches the value.
	MarkRoots: func(mark func(Value)) {
		for s := activeSockets; s != nil; s = s.activeNext {
			mark(s)
		}
	},
	PutC: func(v Value, r rune) (int, *Exception) {
		return v.(*Socket).putS([]byte(string(r)))
	},
	PutS: func(v Value, b []byte, _ bool) (int, *Exception) {
		return v.(*Socket).putS(b)
	},
})

// activeSockets is the instance-list head Socket keeps independently
// of the heap's per-type list, solely to give MarkRoots something to
// walk; sockets still participate in the ordinary heap/free-list
// machinery for allocation and sweep like any other cell.
var activeSockets *Socket

func linkActiveSocket(s *Socket) {
	s.activeNext = activeSockets
	if activeSockets != nil {
		activeSockets.activePrev = s
	}
	activeSockets = s
}

func unlinkActiveSocket(s *Socket) {
	if s.activePrev != nil {
		s.activePrev.activeNext = s.activeNext
	} else {
		activeSockets = s.activeNext
	}
	if s.activeNext != nil {
		s.activeNext.activePrev = s.activePrev
	}
	s.activePrev, s.activeNext = nil, nil
}

// putS writes b to the socket's connection. A CLOSED or server-role
// socket is terminal (spec §4.7), so a write against one signals
// file-error rather than a Go nil-pointer panic, matching
// sockets.c's blocking_write: `Fsignal(Qfile_error, rep_list_2(
// rep_VAL(&inactive_socket), rep_VAL(s)))`.
func (s *Socket) putS(b []byte) (int, *Exception) {
	if s.conn == nil || s.flags&socketActive == 0 {
		return 0, s.it.SignalFileError(errInactiveSocket, "socket write")
	}
	n, err := s.conn.Write(b)
	if err != nil {
		return n, s.it.SignalFileError(err, "socket write")
	}
	return n, nil
}

func newSocket(it *Interp) *Socket {
	return allocCell(it.heap, typeCodeSocket, func() *Socket { return &Socket{} })
}

// SocketClient dials address on network (passed to net.Dial as is,
// e.g. "unix" with a socket path or "tcp" with "host:port"), copying
// all input read from the connection onto stream (a Stream, e.g. a
// StringOutputStream) until the remote end closes, at which point
// sentinel is called with the socket (spec §4.7 "client drain-to-sink
// callback").
func (it *Interp) SocketClient(network, address string, stream, sentinel Value) (*Socket, *Exception) {
	conn, err := net.Dial(network, address)
	if err != nil {
		return nil, it.SignalFileError(err, "socket-client "+address)
	}
	s := newSocket(it)
	s.it, s.conn, s.stream, s.sentinel = it, conn, stream, sentinel
	s.flags |= socketActive
	linkActiveSocket(s)

	id := it.reactor.RegisterInputFD(conn, func(fdID int) { it.onClientReadable(s, fdID) })
	s.reactorID = id
	s.flags |= socketRegistered
	return s, nil
}

// onClientReadable drains whatever the reactor found readable into
// s.stream, or runs the shutdown+sentinel sequence on EOF/error
// (client_socket_output's exact contract).
func (it *Interp) onClientReadable(s *Socket, fdID int) {
	br := it.reactor.Reader(fdID)
	if br == nil {
		return
	}
	buf := make([]byte, 1024)
	n, err := br.Read(buf)
	if n > 0 && s.stream != nil {
		it.PutS(s.stream.(Stream), buf[:n], false)
	}
	if err != nil {
		it.shutdownSocketAndCallSentinel(s)
	}
}

// SocketServer listens on address, calling callback (a Lisp function)
// with the server socket itself whenever a connection is pending;
// callback is expected to call SocketAccept to complete the
// connection (spec §4.7 "server accept callback").
func (it *Interp) SocketServer(network, address string, callback, sentinel Value) (*Socket, *Exception) {
	ln, err := net.Listen(network, address)
	if err != nil {
		return nil, it.SignalFileError(err, "socket-server "+address)
	}
	s := newSocket(it)
	s.it, s.listener, s.stream, s.sentinel = it, ln, callback, sentinel
	s.flags |= socketActive
	linkActiveSocket(s)

	it.watchListener(s)
	return s, nil
}

// watchListener stands in for the reactor's Peek-based watcher for
// server sockets: a listening socket has no stream of bytes to peek
// at, only pending connections, so a dedicated background Accept loop
// queues each one onto s.pending and invokes the callback directly.
// Unlike client drains this does not bounce through
// AcceptInputForFDs, since the callback only touches s.pending
// (mutex-guarded) rather than shared interpreter state — but it still
// runs on its own goroutine, so callers embedding relisp in a
// multi-threaded host must serialize Lisp-visible callbacks
// themselves if they register more than one server socket (spec §5).
func (it *Interp) watchListener(s *Socket) {
	go func() {
		for {
			conn, err := s.listener.Accept()
			s.mu.Lock()
			active := s.flags&socketActive != 0
			if active && err == nil {
				s.pending = append(s.pending, conn)
			}
			s.mu.Unlock()
			if !active || err != nil {
				if conn != nil {
					conn.Close()
				}
				return
			}
			if s.stream != nil {
				it.Call1(s.stream, s)
			}
		}
	}()
}

// SocketAccept completes the oldest pending connection on a server
// socket, wrapping it as a new client-role Socket whose drain target
// is stream and whose sentinel is sentinel.
func (it *Interp) SocketAccept(server *Socket, stream, sentinel Value) (*Socket, *Exception) {
	server.mu.Lock()
	if len(server.pending) == 0 {
		server.mu.Unlock()
		return nil, it.SignalBadArg(0, server)
	}
	conn := server.pending[0]
	server.pending = server.pending[1:]
	server.mu.Unlock()

	s := newSocket(it)
	s.it, s.conn, s.stream, s.sentinel = it, conn, stream, sentinel
	s.flags |= socketActive
	linkActiveSocket(s)
	s.reactorID = it.reactor.RegisterInputFD(conn, func(fdID int) { it.onClientReadable(s, fdID) })
	s.flags |= socketRegistered
	return s, nil
}

// CloseSocket shuts down the connection (or listener) without running
// the sentinel — close-socket's documented "does not call SENTINEL"
// behavior.
func (it *Interp) CloseSocket(s *Socket) *Exception {
	s.shutdown()
	return nil
}

func (s *Socket) shutdown() {
	if s.flags&socketActive == 0 {
		return
	}
	if s.flags&socketRegistered != 0 {
		s.it.reactor.DeregisterInputFD(s.reactorID)
	}
	if s.conn != nil {
		s.conn.Close()
	}
	if s.listener != nil {
		s.listener.Close()
	}
	s.flags &^= socketActive
	unlinkActiveSocket(s)
}

func (it *Interp) shutdownSocketAndCallSentinel(s *Socket) {
	s.shutdown()
	if s.sentinel != nil && s.flags&socketSentinel == 0 {
		s.flags |= socketSentinel
		it.Call1(s.sentinel, s)
	}
}

// SocketActive reports whether s is still in the ACTIVE state (the
// ACTIVE_SOCKET_P macro).
func SocketActive(s *Socket) bool { return s.flags&socketActive != 0 }

// AcceptInputForFDs is the spec §4.7/§6 "accept-with-timeout"
// operation: it waits up to timeoutMs milliseconds (the
// socket.accept_timeout_ms setting when timeoutMs <= 0) and returns
// once an event for one of fds (any registered input when fds is
// empty) has been serviced; events of other inputs seen before that
// are serviced too. It reports whether the deadline was reached
// rather than whether an event fired.
func (it *Interp) AcceptInputForFDs(timeoutMs int, fds []int) (timedOut bool, err error) {
	if timeoutMs <= 0 {
		timeoutMs = it.config.GetInt("socket.accept_timeout_ms")
	}
	return it.reactor.AcceptInputForFDs(timeoutMs, fds)
}

// asString recovers a Go string from a Value expected to carry string
// content, shared by every socket primitive that takes a network
// address argument.
func (it *Interp) asString(argpos int, v Value) (string, *Exception) {
	s, ok := v.(fmt.Stringer)
	if !ok {
		return "", it.SignalBadArg(argpos, v)
	}
	return s.String(), nil
}

func (it *Interp) asSocket(argpos int, v Value) (*Socket, *Exception) {
	s, ok := v.(*Socket)
	if !ok {
		return nil, it.SignalBadArg(argpos, v)
	}
	return s, nil
}

// DefineSocketSubrs registers the spec §4.7 socket primitives as
// Lisp-callable globals. socket-local-client/server fix the network to
// "unix"; socket-client/server take it as an explicit first argument
// (e.g. "tcp") so Lisp code can reach either transport.
func (it *Interp) DefineSocketSubrs() {
	DefSubrN("socket-local-client", Arity3, func(path, stream, sentinel Value) (Value, *Exception) {
		addr, exc := it.asString(0, path)
		if exc != nil {
			return nil, exc
		}
		return it.SocketClient("unix", addr, stream, sentinel)
	})

	DefSubrN("socket-local-server", Arity3, func(path, callback, sentinel Value) (Value, *Exception) {
		addr, exc := it.asString(0, path)
		if exc != nil {
			return nil, exc
		}
		return it.SocketServer("unix", addr, callback, sentinel)
	})

	DefSubrV("socket-client", func(argv []Value) (Value, *Exception) {
		if len(argv) != 4 {
			return nil, it.SignalMissingArg(len(argv))
		}
		network, exc := it.asString(0, argv[0])
		if exc != nil {
			return nil, exc
		}
		addr, exc := it.asString(1, argv[1])
		if exc != nil {
			return nil, exc
		}
		return it.SocketClient(network, addr, argv[2], argv[3])
	})

	DefSubrV("socket-server", func(argv []Value) (Value, *Exception) {
		if len(argv) != 4 {
			return nil, it.SignalMissingArg(len(argv))
		}
		network, exc := it.asString(0, argv[0])
		if exc != nil {
			return nil, exc
		}
		addr, exc := it.asString(1, argv[1])
		if exc != nil {
			return nil, exc
		}
		return it.SocketServer(network, addr, argv[2], argv[3])
	})

	DefSubrN("socket-accept", Arity3, func(server, stream, sentinel Value) (Value, *Exception) {
		s, exc := it.asSocket(0, server)
		if exc != nil {
			return nil, exc
		}
		return it.SocketAccept(s, stream, sentinel)
	})

	DefSubrN("close-socket", Arity1, func(v Value) (Value, *Exception) {
		s, exc := it.asSocket(0, v)
		if exc != nil {
			return nil, exc
		}
		if exc := it.CloseSocket(s); exc != nil {
			return nil, exc
		}
		return v, nil
	})

	DefSubrN("socket?", Arity1, func(v Value) (Value, *Exception) {
		_, ok := v.(*Socket)
		return Bool(ok), nil
	})

	DefSubrN("accept-input-for-fds", Arity1, func(timeoutMs Value) (Value, *Exception) {
		ms, exc := it.asIndex(0, timeoutMs)
		if exc != nil {
			return nil, exc
		}
		timedOut, err := it.AcceptInputForFDs(ms, nil)
		if err != nil {
			return nil, it.SignalFileError(err, "accept-input-for-fds")
		}
		return Bool(timedOut), nil
	})
}
