package relisp

// Eval evaluates form in env/structure. It is the small, in-scope
// evaluator an interpreted closure's body needs (spec §4.3 bullet 2:
// "Cons whose car is lambda ... evaluate the body"); a full
// reader/compiler/bytecode pipeline remains an external collaborator
// (spec §1/§6). Self-evaluating values return themselves; symbols
// resolve through env; every other cons is a call, dispatched either
// as a special form or through Apply.
func (it *Interp) Eval(form Value, env *Environment, structure *Structure, tail bool) (Value, *Exception) {
	switch f := form.(type) {
	case *Symbol:
		if v, ok := env.Lookup(f); ok {
			return v, nil
		}
		return nil, it.SignalErrorMessage("unbound variable: " + f.Name)

	case *Cons:
		if sym, ok := f.Car.(*Symbol); ok && sym.function != nil && sym.function.Arity == AritySF {
			return sym.function.FnSF(it, f.Cdr, env, structure, tail)
		}
		fn, exc := it.Eval(f.Car, env, structure, false)
		if exc != nil {
			return nil, exc
		}
		argv, ok := ListToSlice(f.Cdr)
		if !ok {
			return nil, it.SignalBadArg(0, f.Cdr)
		}
		args := make([]Value, len(argv))
		for i, a := range argv {
			v, exc := it.Eval(a, env, structure, false)
			if exc != nil {
				return nil, exc
			}
			args[i] = v
		}
		return it.Apply(fn, SliceToList(it.heap, args), tail)

	default:
		// Fixnum, strings, vectors, closures, subrs, singletons,
		// datums: self-evaluating.
		return form, nil
	}
}

// evalBody evaluates a list of body forms in sequence, returning the
// last one's value; only the last form is evaluated in tail position.
func (it *Interp) evalBody(body Value, env *Environment, structure *Structure, tail bool) (Value, *Exception) {
	forms, ok := ListToSlice(body)
	if !ok {
		return nil, it.SignalBadArg(0, body)
	}
	if len(forms) == 0 {
		return Nil, nil
	}
	var result Value = Nil
	var exc *Exception
	for i, form := range forms {
		isLast := i == len(forms)-1
		result, exc = it.Eval(form, env, structure, tail && isLast)
		if exc != nil {
			return nil, exc
		}
	}
	return result, nil
}

func init() {
	DefSpecialForm("quote", func(it *Interp, form Value, env *Environment, structure *Structure, tail bool) (Value, *Exception) {
		args, ok := ListToSlice(form)
		if !ok || len(args) != 1 {
			return nil, it.SignalMissingArg(0)
		}
		return args[0], nil
	})

	DefSpecialForm("if", func(it *Interp, form Value, env *Environment, structure *Structure, tail bool) (Value, *Exception) {
		args, ok := ListToSlice(form)
		if !ok || len(args) < 2 || len(args) > 3 {
			return nil, it.SignalMissingArg(1)
		}
		cond, exc := it.Eval(args[0], env, structure, false)
		if exc != nil {
			return nil, exc
		}
		if Truthy(cond) {
			return it.Eval(args[1], env, structure, tail)
		}
		if len(args) == 3 {
			return it.Eval(args[2], env, structure, tail)
		}
		return Nil, nil
	})

	DefSpecialForm("lambda", func(it *Interp, form Value, env *Environment, structure *Structure, tail bool) (Value, *Exception) {
		return it.heap.NewClosure(it.heap.NewCons(Intern("lambda"), form), env, structure, ""), nil
	})

	DefSpecialForm("define", func(it *Interp, form Value, env *Environment, structure *Structure, tail bool) (Value, *Exception) {
		args, ok := ListToSlice(form)
		if !ok || len(args) < 1 {
			return nil, it.SignalMissingArg(0)
		}
		sym, ok := args[0].(*Symbol)
		if !ok {
			return nil, it.SignalBadArg(0, args[0])
		}
		var value Value = Nil
		if len(args) >= 2 {
			v, exc := it.Eval(args[1], env, structure, false)
			if exc != nil {
				return nil, exc
			}
			value = v
		}
		if c, ok := value.(*Closure); ok && c.Name == "" {
			c.Name = sym.Name
		}
		env.Set(sym, value)
		return sym, nil
	})

	DefSpecialForm("set!", func(it *Interp, form Value, env *Environment, structure *Structure, tail bool) (Value, *Exception) {
		args, ok := ListToSlice(form)
		if !ok || len(args) != 2 {
			return nil, it.SignalMissingArg(1)
		}
		sym, ok := args[0].(*Symbol)
		if !ok {
			return nil, it.SignalBadArg(0, args[0])
		}
		value, exc := it.Eval(args[1], env, structure, false)
		if exc != nil {
			return nil, exc
		}
		env.Set(sym, value)
		return value, nil
	})

	DefSpecialForm("begin", func(it *Interp, form Value, env *Environment, structure *Structure, tail bool) (Value, *Exception) {
		return it.evalBody(form, env, structure, tail)
	})
}
