package relisp

// smallArgvThreshold bounds how many argv slots Apply is willing to
// materialize from a list-style call before treating the call as
// pathological; it mirrors apply.c's stack_alloc sizing concern
// without actually needing a stack allocator (spec §4.3 open question,
// resolved at 32).
const smallArgvThreshold = 32

// Apply is the universal dispatch engine from spec §4.3. Every other
// call path in the package — Eval's cons-call case, Funcall, the
// CallLispN family, vector-map/for-each — funnels through here.
func (it *Interp) Apply(fun Value, arglist Value, tail bool) (Value, *Exception) {
	if it.interrupted.Swap(false) {
		return nil, it.Signal(ErrInterrupt, Nil)
	}

	if it.top.Depth+1 > it.MaxDepth() {
		return nil, it.SignalErrorMessage("max-lisp-depth exceeded, possible infinite recursion?")
	}

	frame := it.top.push(fun, arglist, nil, nil)
	it.top = frame
	defer func() { it.top = frame.Prev }()

	it.maybeGC()

	origFun := fun

again:
	var result Value
	var exc *Exception

	closure, isClosure := fun.(*Closure)
	if isClosure {
		frame.Env, frame.Structure = closure.Env, closure.Structure
		fun = closure.Body
	}

	switch body := fun.(type) {
	case *Cons:
		if !isClosure {
			return nil, it.SignalInvalidFunction(origFun)
		}
		if sym, ok := body.Car.(*Symbol); ok && sym == Intern("lambda") {
			result, exc = it.applyLambda(closure, body, arglist, tail)
		} else {
			return nil, it.SignalInvalidFunction(origFun)
		}

	case *Autoload:
		loaded, lexc := it.loadAutoload(closure, body)
		if lexc != nil {
			return nil, lexc
		}
		fun = loaded
		goto again

	case *Subr:
		result, exc = it.applySubr(body, arglist)

	case *BytecodeVector:
		argv, ok := ListToSlice(arglist)
		if !ok {
			return nil, it.SignalBadArg(1, arglist)
		}
		dispatch := frame.Structure.Dispatcher(it.defaultBytecodeDispatcher)
		result, exc = dispatch(body, argv, tail)

	default:
		d := TypeOf(fun)
		if d == nil || d.Apply == nil {
			return nil, it.SignalInvalidFunction(origFun)
		}
		argv, ok := ListToSlice(arglist)
		if !ok {
			return nil, it.SignalBadArg(1, arglist)
		}
		result, exc = d.Apply(fun, argv, tail)
	}

	if (result == nil) == (exc == nil) {
		it.log.Dump("apply: invariant violation", map[string]any{"fun": Print(origFun), "result": result, "exc": exc})
		if exc != nil {
			result = nil
		} else {
			exc = it.SignalErrorMessage("exception raised, no value")
		}
	}

	return result, exc
}

// applyLambda binds arglist's evaluated arguments against the
// `(lambda formals . body)` cons's parameter list, in a fresh
// environment child of the closure's captured one, then evaluates the
// body (spec §4.3 "Closure ... evaluate the body"). Formals may be a
// proper list of required parameters, optionally dotted to a rest
// parameter symbol.
func (it *Interp) applyLambda(closure *Closure, lambdaForm *Cons, arglist Value, tail bool) (Value, *Exception) {
	rest, ok := ListToSlice(lambdaForm.Cdr)
	if !ok || len(rest) == 0 {
		return nil, it.SignalBadArg(0, lambdaForm)
	}
	formals := rest[0]
	body := SliceToList(it.heap, rest[1:])

	env := NewEnvironment(closure.Env)
	args := arglist
	cur := formals
	for {
		c, isCons := cur.(*Cons)
		if !isCons {
			break
		}
		sym, ok := c.Car.(*Symbol)
		if !ok {
			return nil, it.SignalBadArg(0, c.Car)
		}
		var v Value = Nil
		if ac, ok := args.(*Cons); ok {
			v = ac.Car
			args = ac.Cdr
		} else {
			return nil, it.SignalMissingArg(0)
		}
		env.Bind(sym, v)
		cur = c.Cdr
	}
	if sym, ok := cur.(*Symbol); ok {
		env.Bind(sym, args)
	}

	return it.evalBody(body, env, closure.Structure, tail)
}

// applySubr materializes arglist against s's declared Arity and
// invokes the matching Fn* field, following apply.c's exact
// "missing trailing args default to nil" rule for fixed-arity subrs.
func (it *Interp) applySubr(s *Subr, arglist Value) (Value, *Exception) {
	switch s.Arity {
	case Arity0:
		return s.Fn0()
	case Arity1, Arity2, Arity3, Arity4, Arity5:
		n := int(s.Arity)
		argv := [5]Value{Nil, Nil, Nil, Nil, Nil}
		cur := arglist
		for i := 0; i < n; i++ {
			c, ok := cur.(*Cons)
			if !ok {
				break
			}
			argv[i] = c.Car
			cur = c.Cdr
		}
		switch s.Arity {
		case Arity1:
			return s.Fn1(argv[0])
		case Arity2:
			return s.Fn2(argv[0], argv[1])
		case Arity3:
			return s.Fn3(argv[0], argv[1], argv[2])
		case Arity4:
			return s.Fn4(argv[0], argv[1], argv[2], argv[3])
		default:
			return s.Fn5(argv[0], argv[1], argv[2], argv[3], argv[4])
		}
	case ArityL:
		return s.FnL(arglist)
	case ArityV:
		argv, ok := ListToSlice(arglist)
		if !ok {
			return nil, it.SignalBadArg(1, arglist)
		}
		if len(argv) > smallArgvThreshold {
			it.log.Debugf("apply: %s called with %d args, above the small-argv threshold", s.Name, len(argv))
		}
		return s.FnV(argv)
	default:
		return nil, it.SignalInvalidFunction(s)
	}
}

// loadAutoload resolves an autoload placeholder, replacing the owning
// closure's captured body atomically with whatever the loader
// function produces; a failed load leaves the closure untouched.
// closure is nil when the autoload was reached directly rather than
// through a closure wrapper, in which case there is nothing to patch.
func (it *Interp) loadAutoload(closure *Closure, auto *Autoload) (Value, *Exception) {
	loaded, exc := auto.Loader()
	if exc != nil {
		return nil, exc
	}
	if closure != nil {
		closure.Body = loaded
	}
	return loaded, nil
}

// defaultBytecodeDispatcher is used when neither the active Structure
// nor any narrower scope installs one. The bytecode engine proper is
// an external collaborator (spec §1/§6); absent one, bytecode values
// are simply inert and calling one is an invalid-function error.
func (it *Interp) defaultBytecodeDispatcher(bv *BytecodeVector, argv []Value, tail bool) (Value, *Exception) {
	return nil, it.SignalInvalidFunction(bv)
}

// Funcall implements funcall: FUNCTION ARGS... — apply fun to argv
// given as a Go slice; it is CallLispN, which conses the arglist.
func (it *Interp) Funcall(fun Value, argv []Value) (Value, *Exception) {
	return it.CallLispN(fun, argv)
}

// CallLispN applies fun to argc args supplied as a Go slice, consing
// them into an arglist (rep_call_lispn's "normal call" path; the
// bytecode fast path it also implements is folded into Apply itself
// here rather than duplicated).
func (it *Interp) CallLispN(fun Value, argv []Value) (Value, *Exception) {
	return it.Apply(fun, SliceToList(it.heap, argv), false)
}

// Call1/Call2/Call3 are fixed-arity convenience wrappers over
// CallLispN (apply.c's rep_CALL_1/2/3).
func (it *Interp) Call1(fun, a Value) (Value, *Exception) { return it.CallLispN(fun, []Value{a}) }
func (it *Interp) Call2(fun, a, b Value) (Value, *Exception) {
	return it.CallLispN(fun, []Value{a, b})
}
func (it *Interp) Call3(fun, a, b, c Value) (Value, *Exception) {
	return it.CallLispN(fun, []Value{a, b, c})
}

// CallWithObject invokes fn after binding obj via its type's Bind
// hook, guaranteeing Unbind runs afterward even if fn returns an
// exception (spec §4.3 "CallWithObject"). Types without a Bind hook
// simply run fn unguarded.
func (it *Interp) CallWithObject(obj Value, fn func() (Value, *Exception)) (Value, *Exception) {
	d := TypeOf(obj)
	if d == nil || d.Bind == nil {
		return fn()
	}
	handle, exc := d.Bind(obj)
	if exc != nil {
		return nil, exc
	}
	defer d.Unbind(obj, handle)
	return fn()
}

// DefSubrL-registered funcall and DefSubrN-registered function? (apply.c
// Ffuncall/Ffunctionp), wired against the running *Interp by closing
// over it at structure-setup time rather than living at package init,
// since both need an *Interp to call through.
func (it *Interp) DefineCoreSubrs() {
	DefSubrL("funcall", func(args Value) (Value, *Exception) {
		c, ok := args.(*Cons)
		if !ok {
			return nil, it.SignalMissingArg(0)
		}
		return it.Apply(c.Car, c.Cdr, false)
	})

	DefSubrN("function?", Arity1, func(v Value) (Value, *Exception) {
		switch v.(type) {
		case *Subr, *Closure:
			return True, nil
		}
		if d := TypeOf(v); d != nil && d.HasApply() {
			return True, nil
		}
		return Nil, nil
	})
}
