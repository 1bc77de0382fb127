package relisp

import "github.com/pkg/errors"

// ErrorKind enumerates the taxonomy of errors the core itself can
// signal (spec §4.4/§7). Adapted from the teacher's two-member
// ParsingError/backtrackingError taxonomy (errors.go), generalized to
// the full error/invalid-function/bad-arg/missing-arg/
// setting-constant/file-error/interrupt set.
type ErrorKind string

const (
	ErrError           ErrorKind = "error"
	ErrInvalidFunction ErrorKind = "invalid-function"
	ErrBadArg          ErrorKind = "bad-arg"
	ErrMissingArg      ErrorKind = "missing-arg"
	ErrSettingConstant ErrorKind = "setting-constant"
	ErrFileError       ErrorKind = "file-error"
	ErrInterrupt       ErrorKind = "interrupt"
)

// Exception is the (tag, value) pair the pending-exception slot holds
// while a non-local exit is in flight (spec §4.4 "throw-value"). It is
// a plain returned value rather than the original's "empty return
// plus sidechannel" convention, which DESIGN NOTES §9 calls a
// concession to a fixed C ABI that must not be preserved here.
type Exception struct {
	Tag   *Symbol
	Value Value
}

func (e *Exception) Error() string {
	return e.Tag.Name + ": " + Print(e.Value)
}

// isthrown reports whether err originated from the Lisp-level
// Exception protocol rather than from a host-level Go error.
func isthrown(err error) bool {
	_, ok := err.(*Exception)
	return ok
}

// newException builds an Exception tagged by kind, wrapping data as
// its value. A nil data defaults to Nil.
func newException(kind ErrorKind, data Value) *Exception {
	if data == nil {
		data = Nil
	}
	return &Exception{Tag: Intern(string(kind)), Value: data}
}

// Signal is the core primitive from spec §4.4: it builds the (tag,
// data) pair and records it as the pending exception. Every caller
// that receives a non-nil *Exception from a nested call must
// propagate it unless it is itself the matching catch/throw boundary
// (an external facility per spec §1/§7).
func (it *Interp) Signal(kind ErrorKind, data Value) *Exception {
	exc := newException(kind, data)
	it.pending = exc
	return exc
}

// SignalBadArg raises bad-arg with the offending argument index and
// value (spec §4.4 taxonomy, and the original_source/apply.c detail
// that bad-arg always carries an index, even when detected inside a
// primitive's body rather than at dispatch).
func (it *Interp) SignalBadArg(index int, value Value) *Exception {
	return it.Signal(ErrBadArg, it.heap.NewCons(Fixnum(index), it.heap.NewCons(value, Nil)))
}

// SignalMissingArg raises missing-arg for the given zero-based
// argument index.
func (it *Interp) SignalMissingArg(index int) *Exception {
	return it.Signal(ErrMissingArg, Fixnum(index))
}

// SignalErrorMessage raises the generic error kind with msg wrapped in
// a one-element list, matching apply.c:56's `Fsignal(Qerror,
// rep_LIST_1(rep_string(msg)))` convention rather than passing the
// string bare.
func (it *Interp) SignalErrorMessage(msg string) *Exception {
	return it.Signal(ErrError, it.heap.NewCons(it.heap.NewString(msg), Nil))
}

// SignalInvalidFunction raises invalid-function for a value that
// cannot be applied.
func (it *Interp) SignalInvalidFunction(v Value) *Exception {
	return it.Signal(ErrInvalidFunction, v)
}

// SignalSettingConstant raises setting-constant for a mutation
// attempted against a frozen value (spec §4.6/§8 "immutable vector
// rejects all element mutations").
func (it *Interp) SignalSettingConstant(v Value) *Exception {
	return it.Signal(ErrSettingConstant, v)
}

// SignalFileError wraps a host-level I/O failure (from the socket
// component, spec §4.7) as a file-error exception. The underlying Go
// error gets a stack trace attached via pkg/errors for diagnostics
// logged through rlog.go; it never itself crosses into Lisp-visible
// state, only its message does.
func (it *Interp) SignalFileError(cause error, context string) *Exception {
	wrapped := errors.Wrap(cause, context)
	return it.Signal(ErrFileError, it.heap.NewString(wrapped.Error()))
}

// RequestInterrupt records that an interrupt arrived, without touching
// the pending-exception slot directly: apply.c's rep_TEST_INT/
// rep_INTERRUPTP only ever sets a flag from the (possibly
// async/signal-handler) context that notices the interrupt, and it is
// the interpreter's own next Apply that turns the flag into the
// signaled exception. it.interrupted is an atomic.Bool for exactly
// that reason — it is the one piece of Interp state meant to be
// touched from outside the single evaluation goroutine spec §5
// requires everywhere else.
func (it *Interp) RequestInterrupt() {
	it.interrupted.Store(true)
}

// ClearPending clears the pending exception. Only a matching
// catch/throw boundary (spec §4.4/§7, external facility) should do
// this in a well-behaved embedding.
func (it *Interp) ClearPending() { it.pending = nil }

// Pending returns the current pending exception, or nil.
func (it *Interp) Pending() *Exception { return it.pending }
