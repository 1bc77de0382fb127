package relisp

import (
	"bytes"
	"unicode/utf8"
)

// Stream is satisfied by any Value whose type registers a PutC/PutS
// hook (spec §6): writable destinations include strings and sockets.
type Stream interface {
	Value
}

// PutC/PutS dispatch through the type registry the same way Print and
// ValueCompare do, so *any* registered type can act as an output
// stream without Stream itself growing a switch over concrete types.
func (it *Interp) PutC(s Stream, r rune) (int, *Exception) {
	d := TypeOf(s)
	if d == nil || d.PutC == nil {
		return 0, it.SignalBadArg(0, s)
	}
	return d.PutC(s, r)
}

func (it *Interp) PutS(s Stream, b []byte, interned bool) (int, *Exception) {
	d := TypeOf(s)
	if d == nil || d.PutS == nil {
		return 0, it.SignalBadArg(0, s)
	}
	return d.PutS(s, b, interned)
}

// StringOutputStream is an in-memory, growable sink, the stream
// analogue of the teacher's MemInput (vm_input.go) turned inside out:
// instead of cursoring over a fixed byte slice, it accumulates one via
// bytes.Buffer. Building it as a distinct Cell type (rather than just
// handing back *StringVal) keeps the "already closed over" string
// content separate from an in-progress output buffer.
type StringOutputStream struct {
	cellHeader
	buf bytes.Buffer
}

var typeCodeStringOutputStream = RegisterType(&TypeDescriptor{
	Name: "string-output-stream",
	Print: func(v Value) string {
		return "#<string-output-stream>"
	},
	PutC: func(v Value, r rune) (int, *Exception) {
		s := v.(*StringOutputStream)
		n, _ := s.buf.WriteRune(r)
		return n, nil
	},
	PutS: func(v Value, b []byte, interned bool) (int, *Exception) {
		s := v.(*StringOutputStream)
		n, _ := s.buf.Write(b)
		return n, nil
	},
})

func (s *StringOutputStream) typeCode() TypeCode  { return typeCodeStringOutputStream }
func (s *StringOutputStream) header() *cellHeader { return &s.cellHeader }

// NewStringOutputStream allocates a fresh, empty output stream on h.
func NewStringOutputStream(h *Heap) *StringOutputStream {
	s := allocCell(h, typeCodeStringOutputStream, func() *StringOutputStream {
		return &StringOutputStream{}
	})
	s.buf.Reset()
	return s
}

// String returns everything written to s so far.
func (s *StringOutputStream) String() string { return s.buf.String() }

// StringInputStream is a read-only cursor over a fixed string,
// grounded directly on the teacher's MemInput (vm_input.go): same
// peek/read/seek shape, renamed to the spec's reader vocabulary and
// operating on runes rather than bytes since relisp characters are not
// required to be ASCII.
type StringInputStream struct {
	cellHeader
	data []byte
	pos  int
}

var typeCodeStringInputStream = RegisterType(&TypeDescriptor{
	Name: "string-input-stream",
	Print: func(v Value) string {
		return "#<string-input-stream>"
	},
})

func (s *StringInputStream) typeCode() TypeCode  { return typeCodeStringInputStream }
func (s *StringInputStream) header() *cellHeader { return &s.cellHeader }

// NewStringInputStream wraps data for reading. It is not heap
// allocated via allocCell since it is typically bound directly to
// *standard-input* at startup rather than participating in the
// general GC-tracked value graph; its fields are nonetheless
// accessible to the GC through the usual Cell interface if a caller
// does choose to root it.
func NewStringInputStream(data string) *StringInputStream {
	return &StringInputStream{data: []byte(data)}
}

// PeekRune returns the next rune without consuming it, or (0, false)
// at end of input.
func (s *StringInputStream) PeekRune() (rune, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	r, _ := utf8.DecodeRune(s.data[s.pos:])
	return r, true
}

// ReadRune consumes and returns the next rune, or (0, false) at end of
// input.
func (s *StringInputStream) ReadRune() (rune, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	r, size := utf8.DecodeRune(s.data[s.pos:])
	s.pos += size
	return r, true
}
