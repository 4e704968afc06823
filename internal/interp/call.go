package interp

import "github.com/ruchy-lang/ruchy/internal/ast"

func (in *Interp) evalCall(n *ast.CallExpr, env *Environment) (Value, error) {
	callee, err := in.Eval(n.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := in.Eval(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return in.callValue(callee, args)
}

func (in *Interp) callValue(callee Value, args []Value) (Value, error) {
	switch fn := callee.(type) {
	case Closure:
		return in.callClosure(fn, args)
	case Builtin:
		return fn.Fn(in, args)
	default:
		return nil, newRuntimeError(ErrTypeMismatch, "value of kind %s is not callable", callee.Kind())
	}
}

// callClosure applies a closure to arguments with a fresh frame
// enclosing the closure's captured environment, not the caller's, and
// enforces the call-depth limit.
func (in *Interp) callClosure(fn Closure, args []Value) (Value, error) {
	if len(args) != len(fn.Params) {
		return nil, newRuntimeError(ErrArity, "expected %d argument(s), got %d", len(fn.Params), len(args))
	}
	in.depth++
	defer func() { in.depth-- }()
	if in.depth > maxCallDepth {
		return nil, newRuntimeError(ErrStackOverflow, "call depth exceeded %d", maxCallDepth)
	}
	if err := in.Budget.CheckStackDepth(in.depth); err != nil {
		return nil, err
	}
	if err := in.checkInterrupt(); err != nil {
		return nil, err
	}
	frame := NewEnclosedEnvironment(fn.Env)
	for i, p := range fn.Params {
		val := args[i]
		bindings, ok := bindPattern(p.Name, val)
		if !ok {
			return nil, newRuntimeError(ErrNonExhaustive, "parameter pattern did not match its argument")
		}
		for k, v := range bindings {
			frame.Define(k, v)
		}
	}
	result, err := in.Eval(fn.Body, frame)
	if err != nil {
		if ret, ok := err.(*returnSignal); ok {
			return ret.Value, nil
		}
		return nil, err
	}
	return result, nil
}

func (in *Interp) evalMethodCall(n *ast.MethodCallExpr, env *Environment) (Value, error) {
	recv, err := in.Eval(n.Receiver, env)
	if err != nil {
		return nil, err
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := in.Eval(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	// Method calls resolve against the builtin method catalogue keyed by
	// receiver kind;
	// user trait impls are a transpile/inference-time concern (the
	// target languages' own trait systems), not a tree-walk dispatch
	// table this interpreter maintains.
	if m, ok := methodsOf(recv)[n.Name]; ok {
		return m(in, recv, args)
	}
	if fv, ok := recv.(RecordValue); ok {
		if f, ok := fv.Fields[n.Name]; ok {
			return in.callValue(f, args)
		}
	}
	return nil, newRuntimeError(ErrUnboundName, "no method %q on %s", n.Name, recv.Kind())
}
