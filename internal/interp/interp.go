package interp

import (
	"context"
	"io"
	"os"

	"github.com/ruchy-lang/ruchy/internal/arena"
	"github.com/ruchy-lang/ruchy/internal/ast"
)

// maxCallDepth bounds user-call recursion.
const maxCallDepth = 256

// Interp is one evaluation session: a global scope, the builtins
// catalogue, and the current call depth. There are no witness or trait
// dispatch tables; generics and traits are inference and transpiler
// concerns, not tree-walk dispatch concerns.
type Interp struct {
	Globals   *Environment
	depth     int
	Out       io.Writer
	typeDecls map[string]*ast.EnumDecl
	Budget    *arena.Budget   // nil means unbounded; consulted at calls and loop back-edges
	Ctx       context.Context // nil means never cancelled; consulted at the same points as Budget
}

func New() *Interp {
	in := &Interp{Globals: NewEnvironment(), Out: os.Stdout, typeDecls: map[string]*ast.EnumDecl{}}
	registerBuiltins(in)
	return in
}

// Run evaluates a whole program: every top-level function declaration
// and enum declaration is registered first (so forward references
// between top-level functions resolve regardless of source order),
// then remaining top-level statements execute in order. The value of
// the last statement is returned, mirroring the REPL's one-expression-
// per-entry semantics.
func (in *Interp) Run(prog *ast.Program) (Value, error) {
	for _, stmt := range prog.Statements {
		switch n := stmt.(type) {
		case *ast.FunctionDecl:
			in.Globals.Define(n.Name, in.closureOf(n))
		case *ast.EnumDecl:
			in.typeDecls[n.Name] = n
			in.registerEnumConstructors(n)
		}
	}
	var result Value = UnitValue{}
	for _, stmt := range prog.Statements {
		switch stmt.(type) {
		case *ast.FunctionDecl, *ast.EnumDecl, *ast.StructDecl, *ast.TraitDecl, *ast.ImplDecl, *ast.ImportStatement, *ast.ModuleDecl:
			continue
		}
		v, err := in.evalStatement(stmt, in.Globals)
		if err != nil {
			if th, ok := err.(*thrownError); ok {
				return nil, newRuntimeError(ErrNonExhaustive, "uncaught throw: %s", th.Value.Inspect())
			}
			return nil, err
		}
		result = v
	}
	return result, nil
}

// RunContext is Run with a host cancellation context. The context is checked at the same loop back-edges and call
// sites the Budget is, so cancellation granularity is one step.
func (in *Interp) RunContext(ctx context.Context, prog *ast.Program) (Value, error) {
	in.Ctx = ctx
	return in.Run(prog)
}

// checkInterrupt is the cooperative interruption point: host context
// first, then the evaluation budget.
func (in *Interp) checkInterrupt() error {
	if in.Ctx != nil {
		if err := in.Ctx.Err(); err != nil {
			return err
		}
	}
	return in.Budget.ConsumeInstruction()
}

// CallMain invokes the top-level `main` function with no arguments, for
// hosts that run a whole program rather than evaluate it as one
// expression.
// Returns ErrUnboundName if the program declares no `main`.
func (in *Interp) CallMain() (Value, error) {
	fn, ok := in.Globals.Get("main")
	if !ok {
		return nil, newRuntimeError(ErrUnboundName, "no main function declared")
	}
	return in.callValue(fn, nil)
}

func (in *Interp) closureOf(fn *ast.FunctionDecl) Closure {
	return Closure{Name: fn.Name, Params: fn.Params, Body: fn.Body, Env: in.Globals}
}

// registerEnumConstructors binds each tuple-variant name to a builtin
// that allocates a VariantValue, and each unit variant directly to its
// value, so `Some(1)` and `None` both work as plain calls/identifiers
// without the parser needing to special-case enum constructor syntax.
func (in *Interp) registerEnumConstructors(decl *ast.EnumDecl) {
	for _, v := range decl.Variants {
		v := v
		switch {
		case len(v.TupleFields) > 0:
			name := v.Name
			enumName := decl.Name
			in.Globals.Define(name, Builtin{Name: name, Fn: func(_ *Interp, args []Value) (Value, error) {
				return VariantValue{EnumName: enumName, VariantName: name, Tuple: args}, nil
			}})
		case len(v.StructField) > 0:
			// Struct-shaped variants are constructed through object-
			// literal / record syntax at the call site rather than a
			// positional builtin, so nothing is registered here.
		default:
			in.Globals.Define(v.Name, VariantValue{EnumName: decl.Name, VariantName: v.Name})
		}
	}
}

// evalStatement evaluates a node in statement position. Every
// expression node also satisfies ast.Statement, so this only needs to
// special-case the handful of nodes whose statement-position meaning
// differs from plain evaluation.
func (in *Interp) evalStatement(stmt ast.Statement, env *Environment) (Value, error) {
	switch n := stmt.(type) {
	case *ast.LetExpr:
		return in.evalLet(n, env)
	case *ast.AssignExpr:
		return in.evalAssign(n, env)
	case *ast.ReturnExpr:
		var v Value = UnitValue{}
		if n.Value != nil {
			var err error
			v, err = in.Eval(n.Value, env)
			if err != nil {
				return nil, err
			}
		}
		return nil, &returnSignal{Value: v}
	case *ast.BreakExpr:
		var v Value
		if n.Value != nil {
			var err error
			v, err = in.Eval(n.Value, env)
			if err != nil {
				return nil, err
			}
		}
		return nil, &breakSignal{Label: n.Label, Value: v}
	case *ast.ContinueExpr:
		return nil, &continueSignal{Label: n.Label}
	case *ast.StructDecl, *ast.TraitDecl, *ast.ImplDecl, *ast.ImportStatement, *ast.ModuleDecl, *ast.FunctionDecl, *ast.EnumDecl:
		return UnitValue{}, nil
	default:
		if expr, ok := ast.UnwrapExpr(stmt); ok {
			return in.Eval(expr, env)
		}
		return UnitValue{}, nil
	}
}

// Eval evaluates an expression node to a Value, or returns an error —
// either a genuine RuntimeError, or one of the control-flow signal
// types a caller further up the call stack (a loop, a function call,
// a try block) is expected to intercept.
func (in *Interp) Eval(expr ast.Expression, env *Environment) (Value, error) {
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		return IntValue(n.Value), nil
	case *ast.FloatLiteral:
		return FloatValue(n.Value), nil
	case *ast.BoolLiteral:
		return BoolValue(n.Value), nil
	case *ast.NilLiteral:
		return OptionalValue{Present: false}, nil
	case *ast.CharLiteral:
		return CharValue(n.Value), nil
	case *ast.StringLiteral:
		return StringValue(n.Value), nil
	case *ast.StringInterp:
		return in.evalStringInterp(n, env)
	case *ast.Identifier:
		if v, ok := env.Get(n.Value); ok {
			return v, nil
		}
		return nil, newRuntimeError(ErrUnboundName, "unbound name %q", n.Value)
	case *ast.Path:
		name := n.Segments[len(n.Segments)-1]
		if v, ok := env.Get(name); ok {
			return v, nil
		}
		return nil, newRuntimeError(ErrUnboundName, "unbound path %v", n.Segments)
	case *ast.BinaryExpr:
		return in.evalBinary(n, env)
	case *ast.UnaryExpr:
		return in.evalUnary(n, env)
	case *ast.Block:
		return in.evalBlock(n, env)
	case *ast.IfExpr:
		return in.evalIf(n, env)
	case *ast.MatchExpr:
		return in.evalMatch(n, env)
	case *ast.WhileExpr:
		return in.evalWhile(n, env)
	case *ast.LoopExpr:
		return in.evalLoop(n, env)
	case *ast.ForExpr:
		return in.evalFor(n, env)
	case *ast.LetExpr:
		return in.evalLet(n, env)
	case *ast.AssignExpr:
		return in.evalAssign(n, env)
	case *ast.ReturnExpr:
		return in.evalStatement(n, env)
	case *ast.BreakExpr:
		return in.evalStatement(n, env)
	case *ast.ContinueExpr:
		return in.evalStatement(n, env)
	case *ast.Lambda:
		lenv := env
		if n.Captures == ast.CaptureMove {
			lenv = env.clone()
		}
		return Closure{Params: n.Params, Body: n.Body, Env: lenv}, nil
	case *ast.CallExpr:
		return in.evalCall(n, env)
	case *ast.MethodCallExpr:
		return in.evalMethodCall(n, env)
	case *ast.FieldAccessExpr:
		return in.evalFieldAccess(n, env)
	case *ast.IndexExpr:
		return in.evalIndex(n, env)
	case *ast.CastExpr:
		return in.evalCast(n, env)
	case *ast.TryExpr:
		return in.evalTry(n, env)
	case *ast.ThrowExpr:
		v, err := in.Eval(n.Value, env)
		if err != nil {
			return nil, err
		}
		return nil, &thrownError{Value: v}
	case *ast.SendExpr:
		return in.evalSendAsk(n.Target, n.Message, env)
	case *ast.AskExpr:
		return in.evalSendAsk(n.Target, n.Message, env)
	case *ast.ArrayLiteral:
		elems := make([]Value, len(n.Elements))
		for i, e := range n.Elements {
			v, err := in.Eval(e, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return ListValue{Elems: elems}, nil
	case *ast.VecRepeat:
		elem, err := in.Eval(n.Elem, env)
		if err != nil {
			return nil, err
		}
		count, err := in.Eval(n.Count, env)
		if err != nil {
			return nil, err
		}
		cn, ok := count.(IntValue)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "vec repeat count must be Int")
		}
		elems := make([]Value, cn)
		for i := range elems {
			elems[i] = elem
		}
		return ListValue{Elems: elems}, nil
	case *ast.TupleLiteral:
		elems := make([]Value, len(n.Elements))
		for i, e := range n.Elements {
			v, err := in.Eval(e, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return TupleValue{Elems: elems}, nil
	case *ast.SetLiteral:
		var elems []Value
		for _, e := range n.Elements {
			v, err := in.Eval(e, env)
			if err != nil {
				return nil, err
			}
			dup := false
			for _, existing := range elems {
				if valuesEqual(existing, v) {
					dup = true
					break
				}
			}
			if !dup {
				elems = append(elems, v)
			}
		}
		return SetValue{Elems: elems}, nil
	case *ast.ObjectLiteral:
		return in.evalObjectLiteral(n, env)
	case *ast.DataFrame:
		return in.evalDataFrame(n, env)
	case *ast.Error:
		return nil, newRuntimeError(ErrTypeMismatch, "parse error node reached evaluation: %s", n.Message)
	default:
		return UnitValue{}, nil
	}
}

func (in *Interp) evalStringInterp(n *ast.StringInterp, env *Environment) (Value, error) {
	out := ""
	for _, part := range n.Parts {
		if part.Expr == nil {
			out += part.Text
			continue
		}
		v, err := in.Eval(part.Expr, env)
		if err != nil {
			return nil, err
		}
		out += inspectPlain(v)
	}
	return StringValue(out), nil
}

// inspectPlain renders a value the way string interpolation wants it:
// unquoted strings and chars, everything else as Inspect().
func inspectPlain(v Value) string {
	switch x := v.(type) {
	case StringValue:
		return string(x)
	case CharValue:
		return string(rune(x))
	default:
		return v.Inspect()
	}
}

func (in *Interp) evalBlock(b *ast.Block, env *Environment) (Value, error) {
	inner := NewEnclosedEnvironment(env)
	for _, stmt := range b.Statements {
		if _, err := in.evalStatement(stmt, inner); err != nil {
			return nil, err
		}
	}
	if b.Tail != nil {
		return in.Eval(b.Tail, inner)
	}
	return UnitValue{}, nil
}

func (in *Interp) evalIf(n *ast.IfExpr, env *Environment) (Value, error) {
	cond, err := in.Eval(n.Condition, env)
	if err != nil {
		return nil, err
	}
	if truthy(cond) {
		return in.evalBlock(n.Consequence, env)
	}
	if n.Alternative != nil {
		return in.Eval(n.Alternative, env)
	}
	return UnitValue{}, nil
}

func (in *Interp) evalLet(n *ast.LetExpr, env *Environment) (Value, error) {
	val, err := in.Eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	bindings, ok := bindPattern(n.Pattern, val)
	if !ok {
		return nil, newRuntimeError(ErrNonExhaustive, "let pattern did not match its value")
	}
	for k, v := range bindings {
		env.Define(k, v)
	}
	if n.Body != nil {
		return in.Eval(n.Body, env)
	}
	return val, nil
}

func (in *Interp) evalAssign(n *ast.AssignExpr, env *Environment) (Value, error) {
	val, err := in.Eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	if n.Op != "=" {
		cur, err := in.Eval(n.Target, env)
		if err != nil {
			return nil, err
		}
		val, err = arith(compoundOpOf(n.Op), cur, val)
		if err != nil {
			return nil, err
		}
	}
	switch target := n.Target.(type) {
	case *ast.Identifier:
		if !env.Update(target.Value, val) {
			return nil, newRuntimeError(ErrUnboundName, "unbound name %q", target.Value)
		}
	case *ast.IndexExpr:
		recv, err := in.Eval(target.Receiver, env)
		if err != nil {
			return nil, err
		}
		idx, err := in.Eval(target.Index, env)
		if err != nil {
			return nil, err
		}
		lst, ok := recv.(ListValue)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "index assignment target is not a List")
		}
		i, ok := idx.(IntValue)
		if !ok || int(i) < 0 || int(i) >= len(lst.Elems) {
			return nil, newRuntimeError(ErrIndexOutOfRange, "index %v out of range", idx.Inspect())
		}
		lst.Elems[int(i)] = val
	case *ast.FieldAccessExpr:
		recv, err := in.Eval(target.Receiver, env)
		if err != nil {
			return nil, err
		}
		rec, ok := recv.(RecordValue)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "field assignment target is not a record")
		}
		if _, exists := rec.Fields[target.Name]; !exists {
			rec.Order = append(rec.Order, target.Name)
		}
		rec.Fields[target.Name] = val
	default:
		return nil, newRuntimeError(ErrTypeMismatch, "invalid assignment target")
	}
	return UnitValue{}, nil
}

func compoundOpOf(op string) string {
	switch op {
	case "+=":
		return "+"
	case "-=":
		return "-"
	case "*=":
		return "*"
	case "/=":
		return "/"
	case "%=":
		return "%"
	default:
		return "+"
	}
}

func (in *Interp) evalCast(n *ast.CastExpr, env *Environment) (Value, error) {
	v, err := in.Eval(n.Value, env)
	if err != nil {
		return nil, err
	}
	named, ok := n.Target.(*ast.NamedType)
	if !ok {
		return v, nil
	}
	switch named.Name {
	case "Int":
		switch x := v.(type) {
		case IntValue:
			return x, nil
		case FloatValue:
			return IntValue(int64(x)), nil
		case CharValue:
			return IntValue(x), nil
		case BoolValue:
			if x {
				return IntValue(1), nil
			}
			return IntValue(0), nil
		}
	case "Float":
		switch x := v.(type) {
		case FloatValue:
			return x, nil
		case IntValue:
			return FloatValue(x), nil
		}
	case "String":
		return StringValue(inspectPlain(v)), nil
	}
	return nil, newRuntimeError(ErrTypeMismatch, "cannot cast %s to %s", v.Kind(), named.Name)
}

func (in *Interp) evalSendAsk(target, message ast.Expression, env *Environment) (Value, error) {
	// Actor message passing resolves to a plain method-style call on the
	// target, so
	// send/ask reduce to evaluating the message against the target as
	// the receiver's sole argument.
	recv, err := in.Eval(target, env)
	if err != nil {
		return nil, err
	}
	msg, err := in.Eval(message, env)
	if err != nil {
		return nil, err
	}
	if fn, ok := recv.(Closure); ok {
		return in.callClosure(fn, []Value{msg})
	}
	return TupleValue{Elems: []Value{recv, msg}}, nil
}

func (in *Interp) evalObjectLiteral(n *ast.ObjectLiteral, env *Environment) (Value, error) {
	rec := RecordValue{Fields: map[string]Value{}}
	if n.Spread != nil {
		base, err := in.Eval(n.Spread, env)
		if err != nil {
			return nil, err
		}
		if br, ok := base.(RecordValue); ok {
			rec.TypeName = br.TypeName
			for _, k := range br.Order {
				rec.Order = append(rec.Order, k)
				rec.Fields[k] = br.Fields[k]
			}
		}
	}
	for _, f := range n.Fields {
		v, err := in.Eval(f.Value, env)
		if err != nil {
			return nil, err
		}
		if _, exists := rec.Fields[f.Key]; !exists {
			rec.Order = append(rec.Order, f.Key)
		}
		rec.Fields[f.Key] = v
	}
	return rec, nil
}

func (in *Interp) evalDataFrame(n *ast.DataFrame, env *Environment) (Value, error) {
	rec := RecordValue{TypeName: "DataFrame", Fields: map[string]Value{}}
	for _, col := range n.Columns {
		elems := make([]Value, len(col.Values))
		for i, e := range col.Values {
			v, err := in.Eval(e, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		rec.Order = append(rec.Order, col.Name)
		rec.Fields[col.Name] = ListValue{Elems: elems}
	}
	return rec, nil
}

func (in *Interp) evalWhile(n *ast.WhileExpr, env *Environment) (Value, error) {
	for {
		if err := in.checkInterrupt(); err != nil {
			return nil, err
		}
		cond, err := in.Eval(n.Condition, env)
		if err != nil {
			return nil, err
		}
		if !truthy(cond) {
			return UnitValue{}, nil
		}
		if _, err := in.evalBlock(n.Body, env); err != nil {
			if br, ok := err.(*breakSignal); ok && labelMatches(br.Label, n.Label) {
				if br.Value != nil {
					return br.Value, nil
				}
				return UnitValue{}, nil
			}
			if ct, ok := err.(*continueSignal); ok && labelMatches(ct.Label, n.Label) {
				continue
			}
			return nil, err
		}
	}
}

func (in *Interp) evalLoop(n *ast.LoopExpr, env *Environment) (Value, error) {
	for {
		if err := in.checkInterrupt(); err != nil {
			return nil, err
		}
		if _, err := in.evalBlock(n.Body, env); err != nil {
			if br, ok := err.(*breakSignal); ok && labelMatches(br.Label, n.Label) {
				if br.Value != nil {
					return br.Value, nil
				}
				return UnitValue{}, nil
			}
			if ct, ok := err.(*continueSignal); ok && labelMatches(ct.Label, n.Label) {
				continue
			}
			return nil, err
		}
	}
}

func (in *Interp) evalFor(n *ast.ForExpr, env *Environment) (Value, error) {
	iterable, err := in.Eval(n.Iterable, env)
	if err != nil {
		return nil, err
	}
	items, err := iterate(iterable)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if err := in.checkInterrupt(); err != nil {
			return nil, err
		}
		inner := NewEnclosedEnvironment(env)
		bindings, ok := bindPattern(n.Binding, item)
		if !ok {
			return nil, newRuntimeError(ErrNonExhaustive, "for loop binding pattern did not match")
		}
		for k, v := range bindings {
			inner.Define(k, v)
		}
		if _, err := in.evalBlock(n.Body, inner); err != nil {
			if br, ok := err.(*breakSignal); ok && labelMatches(br.Label, n.Label) {
				if br.Value != nil {
					return br.Value, nil
				}
				return UnitValue{}, nil
			}
			if ct, ok := err.(*continueSignal); ok && labelMatches(ct.Label, n.Label) {
				continue
			}
			return nil, err
		}
	}
	return UnitValue{}, nil
}

func labelMatches(signalLabel, loopLabel string) bool {
	return signalLabel == "" || signalLabel == loopLabel
}

func iterate(v Value) ([]Value, error) {
	switch x := v.(type) {
	case ListValue:
		return x.Elems, nil
	case SetValue:
		return x.Elems, nil
	case StringValue:
		runes := []rune(string(x))
		out := make([]Value, len(runes))
		for i, r := range runes {
			out[i] = CharValue(r)
		}
		return out, nil
	case TupleValue:
		return x.Elems, nil
	default:
		return nil, newRuntimeError(ErrTypeMismatch, "value of kind %s is not iterable", v.Kind())
	}
}

func (in *Interp) evalTry(n *ast.TryExpr, env *Environment) (Value, error) {
	runFinally := func() error {
		if n.Finally == nil {
			return nil
		}
		_, err := in.evalBlock(n.Finally, env)
		return err
	}

	result, err := in.evalBlock(n.Body, env)
	if err == nil {
		if ferr := runFinally(); ferr != nil {
			return nil, ferr
		}
		return result, nil
	}
	th, ok := err.(*thrownError)
	if rerr, isRuntime := err.(*RuntimeError); isRuntime {
		// A RuntimeError is caught like a throw; the handler sees its
		// message as a String.
		th, ok = &thrownError{Value: StringValue(rerr.Error())}, true
	}
	if !ok {
		// Signals (return/break/continue) pass through untouched, but
		// finally still always runs.
		if ferr := runFinally(); ferr != nil {
			return nil, ferr
		}
		return nil, err
	}
	if n.Handler == nil {
		if ferr := runFinally(); ferr != nil {
			return nil, ferr
		}
		return nil, err
	}
	catchEnv := NewEnclosedEnvironment(env)
	if n.CatchPattern != nil {
		bindings, ok := bindPattern(n.CatchPattern, th.Value)
		if !ok {
			if ferr := runFinally(); ferr != nil {
				return nil, ferr
			}
			return nil, err
		}
		for k, v := range bindings {
			catchEnv.Define(k, v)
		}
	}
	result, herr := in.evalBlock(n.Handler, catchEnv)
	if ferr := runFinally(); ferr != nil {
		return nil, ferr
	}
	return result, herr
}

func (in *Interp) evalFieldAccess(n *ast.FieldAccessExpr, env *Environment) (Value, error) {
	recv, err := in.Eval(n.Receiver, env)
	if err != nil {
		return nil, err
	}
	if n.IsOptional {
		if opt, ok := recv.(OptionalValue); ok {
			if !opt.Present {
				return OptionalValue{Present: false}, nil
			}
			recv = opt.Elem
		}
	}
	switch x := recv.(type) {
	case TupleValue:
		if n.Index >= 0 && n.Index < len(x.Elems) {
			return x.Elems[n.Index], nil
		}
		return nil, newRuntimeError(ErrIndexOutOfRange, "tuple index %d out of range", n.Index)
	case RecordValue:
		if v, ok := x.Fields[n.Name]; ok {
			return v, nil
		}
		return nil, newRuntimeError(ErrUnboundName, "no field %q", n.Name)
	case VariantValue:
		if v, ok := x.Fields[n.Name]; ok {
			return v, nil
		}
		return nil, newRuntimeError(ErrUnboundName, "no field %q on variant %s", n.Name, x.VariantName)
	default:
		return nil, newRuntimeError(ErrTypeMismatch, "value of kind %s has no fields", recv.Kind())
	}
}

func (in *Interp) evalIndex(n *ast.IndexExpr, env *Environment) (Value, error) {
	recv, err := in.Eval(n.Receiver, env)
	if err != nil {
		return nil, err
	}
	idx, err := in.Eval(n.Index, env)
	if err != nil {
		return nil, err
	}
	switch x := recv.(type) {
	case ListValue:
		i, ok := idx.(IntValue)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "list index must be Int")
		}
		if int(i) < 0 || int(i) >= len(x.Elems) {
			return nil, newRuntimeError(ErrIndexOutOfRange, "index %d out of range (len %d)", i, len(x.Elems))
		}
		return x.Elems[int(i)], nil
	case StringValue:
		i, ok := idx.(IntValue)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "string index must be Int")
		}
		runes := []rune(string(x))
		if int(i) < 0 || int(i) >= len(runes) {
			return nil, newRuntimeError(ErrIndexOutOfRange, "index %d out of range (len %d)", i, len(runes))
		}
		return CharValue(runes[int(i)]), nil
	case RecordValue:
		s, ok := idx.(StringValue)
		if !ok {
			return nil, newRuntimeError(ErrTypeMismatch, "record index must be String")
		}
		if v, ok := x.Fields[string(s)]; ok {
			return v, nil
		}
		return nil, newRuntimeError(ErrUnboundName, "no field %q", string(s))
	default:
		return nil, newRuntimeError(ErrTypeMismatch, "value of kind %s is not indexable", recv.Kind())
	}
}
