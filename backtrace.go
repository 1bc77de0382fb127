package relisp

import "github.com/samber/lo"

// Backtrace implements the spec §3/§9 debug aid, grounded directly on
// apply.c's Fbacktrace: one line per live call-stack frame, most
// recent first, down to but excluding the sentinel top frame. Each
// line is `#<index> <function-name> <args>`; the original's trailing
// "[at FILE:LINE]" clause needs a reader/compiler that retains source
// positions per frame (spec §1's external collaborator), which this
// core does not keep, so it is simply omitted rather than faked.
func (it *Interp) Backtrace(strm Stream) *Exception {
	if strm == nil {
		strm = SymbolValue(StandardOutput)
	}

	var frames []*Frame
	it.top.walk(func(f *Frame) { frames = append(frames, f) })

	lines := lo.FilterMap(frames, func(f *Frame, _ int) (string, bool) {
		name, ok := backtraceFunctionName(f.Fun)
		if !ok {
			return "", false
		}
		return backtraceLine(f.Depth, name, f.Args), true
	})

	for _, line := range lines {
		if _, exc := it.PutS(strm, []byte(line), false); exc != nil {
			return exc
		}
	}
	return nil
}

// backtraceFunctionName extracts the printable name apply.c's
// Fbacktrace shows for a frame's function: a closure's name, a subr's
// name, or "(lambda ...)" for a bare interpreted-lambda cons.
// The second return is false for anonymous closures, matching the
// original's "function_name != rep_nil" guard that skips printing such
// frames entirely.
func backtraceFunctionName(fun Value) (string, bool) {
	switch f := fun.(type) {
	case *Closure:
		if f.Name != "" {
			return f.Name, true
		}
		return "", false
	case *Subr:
		return f.Name, true
	case *Cons:
		if sym, ok := f.Car.(*Symbol); ok && sym == Intern("lambda") {
			return "(lambda ...)", true
		}
	}
	return "", false
}

func backtraceLine(depth int, name string, args Value) string {
	s := "#" + Print(Fixnum(depth)) + " " + name
	if args == Void {
		s += " ..."
	} else {
		s += " " + Print(args)
	}
	return s + "\n"
}

// DefineBacktraceSubrs registers backtrace as a Lisp-callable global,
// closing over it the same way the other DefineXSubrs functions do.
func (it *Interp) DefineBacktraceSubrs() {
	DefSubrL("backtrace", func(args Value) (Value, *Exception) {
		argv, _ := ListToSlice(args)
		var strm Stream
		if len(argv) > 0 {
			strm = argv[0]
		}
		if exc := it.Backtrace(strm); exc != nil {
			return nil, exc
		}
		return True, nil
	})

	DefSubrN("stack-frame-ref", Arity1, func(idxVal Value) (Value, *Exception) {
		idx, exc := it.asIndex(0, idxVal)
		if exc != nil {
			return nil, exc
		}
		f := it.stackFrameRef(idx)
		if f == nil {
			return Nil, nil
		}
		args := f.Args
		if args == Void {
			args = Undefined
		}
		return SliceToList(it.heap, []Value{f.Fun, args}), nil
	})
}

// stackFrameRef finds the frame whose Depth equals idx, or nil.
func (it *Interp) stackFrameRef(idx int) *Frame {
	var found *Frame
	it.top.walk(func(f *Frame) {
		if f.Depth == idx {
			found = f
		}
	})
	return found
}
