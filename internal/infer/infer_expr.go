package infer

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/typesystem"
)

func (inf *Inferencer) inferStatement(env *Env, stmt ast.Statement) {
	switch n := stmt.(type) {
	case *ast.FunctionDecl:
		inf.inferFunctionGroup(env, []*ast.FunctionDecl{n})
	case *ast.StructDecl, *ast.EnumDecl, *ast.TraitDecl, *ast.ModuleDecl, *ast.ImportStatement:
		// declarations carry no runtime value; field/variant tables were
		// collected up front in collectDecls.
	case *ast.ImplDecl:
		inf.inferImplDecl(env, n)
	default:
		if expr, ok := ast.UnwrapExpr(stmt); ok {
			inf.inferExpr(env, expr)
		}
	}
}

// inferImplDecl type-checks each method body of an
// `impl Type { fun name(self,...) }` block as an ordinary function
// whose first implicit concern is the receiver type. Trait conformance
// itself (every declared method present with a matching signature) is
// not re-verified here: there is no full constraint solver, so
// `impl Trait for Type` is accepted structurally.
func (inf *Inferencer) inferImplDecl(env *Env, n *ast.ImplDecl) {
	for _, m := range n.Methods {
		inf.inferFunctionGroup(env, []*ast.FunctionDecl{m})
	}
}

func (inf *Inferencer) inferBlock(env *Env, b *ast.Block) typesystem.Type {
	inf.inferTopLevel(env, b.Statements)
	if b.Tail != nil {
		return inf.inferExpr(env, b.Tail)
	}
	return typesystem.TUnit
}

// inferExpr is Algorithm W's core: for each syntax form, it infers (and
// records into inf.Types) the expression's type under env.
func (inf *Inferencer) inferExpr(env *Env, expr ast.Expression) typesystem.Type {
	var t typesystem.Type
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		t = typesystem.TInt
	case *ast.FloatLiteral:
		t = typesystem.TFloat
	case *ast.BoolLiteral:
		t = typesystem.TBool
	case *ast.NilLiteral:
		t = typesystem.TOptional{Elem: inf.fresh()}
	case *ast.CharLiteral:
		t = typesystem.TChar
	case *ast.StringLiteral:
		t = typesystem.TString
	case *ast.StringInterp:
		for _, part := range n.Parts {
			if part.Expr != nil {
				inf.inferExpr(env, part.Expr)
			}
		}
		t = typesystem.TString
	case *ast.Identifier:
		if sc, ok := env.Lookup(n.Value); ok {
			t = inf.instantiate(sc)
		} else {
			t = inf.unboundName(n, n.Value)
		}
	case *ast.Path:
		name := n.Segments[len(n.Segments)-1]
		if sc, ok := env.Lookup(name); ok {
			t = inf.instantiate(sc)
		} else {
			t = inf.unboundName(n, name)
		}
	case *ast.BinaryExpr:
		t = inf.inferBinary(env, n)
	case *ast.UnaryExpr:
		t = inf.inferUnary(env, n)
	case *ast.IfExpr:
		t = inf.inferIf(env, n)
	case *ast.MatchExpr:
		t = inf.inferMatch(env, n)
	case *ast.WhileExpr:
		inf.unify(n.Condition, typesystem.TBool, inf.inferExpr(env, n.Condition))
		inf.inferBlock(env.Child(), n.Body)
		t = typesystem.TUnit
	case *ast.ForExpr:
		iterT := inf.inferExpr(env, n.Iterable)
		elem := inf.fresh()
		inf.unify(n.Iterable, typesystem.TList{Elem: elem}, iterT)
		body := env.Child()
		inf.bindPattern(body, n.Binding, elem)
		inf.inferBlock(body, n.Body)
		t = typesystem.TUnit
	case *ast.LoopExpr:
		inf.inferBlock(env.Child(), n.Body)
		t = inf.fresh()
	case *ast.BreakExpr:
		if n.Value != nil {
			inf.inferExpr(env, n.Value)
		}
		t = typesystem.TUnit
	case *ast.ContinueExpr:
		t = typesystem.TUnit
	case *ast.ReturnExpr:
		if n.Value != nil {
			inf.inferExpr(env, n.Value)
		}
		t = inf.fresh()
	case *ast.Block:
		t = inf.inferBlock(env.Child(), n)
	case *ast.LetExpr:
		t = inf.inferLet(env, n)
	case *ast.AssignExpr:
		targetT := inf.inferExpr(env, n.Target)
		valT := inf.inferExpr(env, n.Value)
		inf.unify(n, targetT, valT)
		t = typesystem.TUnit
	case *ast.Lambda:
		t = inf.inferLambda(env, n)
	case *ast.CallExpr:
		t = inf.inferCall(env, n)
	case *ast.MethodCallExpr:
		t = inf.inferMethodCall(env, n)
	case *ast.FieldAccessExpr:
		t = inf.inferFieldAccess(env, n)
	case *ast.IndexExpr:
		recvT := inf.inferExpr(env, n.Receiver)
		inf.inferExpr(env, n.Index)
		elem := inf.fresh()
		inf.unify(n, typesystem.TList{Elem: elem}, recvT)
		t = elem
	case *ast.CastExpr:
		inf.inferExpr(env, n.Value)
		t = inf.lowerType(n.Target, nil)
	case *ast.TryExpr:
		t = inf.inferTry(env, n)
	case *ast.ThrowExpr:
		inf.inferExpr(env, n.Value)
		t = inf.fresh()
	case *ast.SendExpr:
		inf.inferExpr(env, n.Target)
		inf.inferExpr(env, n.Message)
		t = typesystem.TUnit
	case *ast.AskExpr:
		inf.inferExpr(env, n.Target)
		if n.Message != nil {
			inf.inferExpr(env, n.Message)
		}
		t = inf.fresh()
	case *ast.ArrayLiteral:
		elem := inf.fresh()
		for _, e := range n.Elements {
			inf.unify(e, elem, inf.inferExpr(env, e))
		}
		t = typesystem.TList{Elem: elem}
	case *ast.VecRepeat:
		elemT := inf.inferExpr(env, n.Elem)
		inf.unify(n.Count, typesystem.TInt, inf.inferExpr(env, n.Count))
		t = typesystem.TList{Elem: elemT}
	case *ast.TupleLiteral:
		elems := make([]typesystem.Type, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = inf.inferExpr(env, e)
		}
		t = typesystem.TTuple{Elements: elems}
	case *ast.SetLiteral:
		elem := inf.fresh()
		for _, e := range n.Elements {
			inf.unify(e, elem, inf.inferExpr(env, e))
		}
		t = typesystem.TCon{Name: "Set", Args: []typesystem.Type{elem}}
	case *ast.ObjectLiteral:
		for _, f := range n.Fields {
			if f.Value != nil {
				inf.inferExpr(env, f.Value)
			}
		}
		if n.Spread != nil {
			inf.inferExpr(env, n.Spread)
		}
		t = typesystem.TCon{Name: "Object"}
	case *ast.DataFrame:
		for _, col := range n.Columns {
			for _, v := range col.Values {
				inf.inferExpr(env, v)
			}
		}
		t = typesystem.TCon{Name: "DataFrame"}
	case *ast.Error:
		t = inf.fresh()
	default:
		t = inf.fresh()
	}
	inf.Types[expr] = t.Apply(inf.subst)
	return t
}

func (inf *Inferencer) inferBinary(env *Env, n *ast.BinaryExpr) typesystem.Type {
	lt := inf.inferExpr(env, n.Left)
	rt := inf.inferExpr(env, n.Right)
	switch n.Op {
	case ast.OpAnd, ast.OpOr:
		inf.unify(n.Left, typesystem.TBool, lt)
		inf.unify(n.Right, typesystem.TBool, rt)
		return typesystem.TBool
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		inf.unify(n, lt, rt)
		return typesystem.TBool
	case ast.OpRange, ast.OpRangeEq:
		inf.unify(n, typesystem.TInt, lt)
		inf.unify(n, typesystem.TInt, rt)
		return typesystem.TList{Elem: typesystem.TInt}
	case ast.OpPipe:
		// `x |> f` desugars to `f(x)`: Right must be callable with Left.
		ret := inf.fresh()
		inf.unify(n, typesystem.TFunc{Params: []typesystem.Type{lt}, Return: ret}, rt)
		return ret
	default:
		return inf.unify(n, lt, rt)
	}
}

func (inf *Inferencer) inferUnary(env *Env, n *ast.UnaryExpr) typesystem.Type {
	rt := inf.inferExpr(env, n.Right)
	switch n.Op {
	case ast.OpNot:
		return inf.unify(n, typesystem.TBool, rt)
	default:
		return rt
	}
}

func (inf *Inferencer) inferIf(env *Env, n *ast.IfExpr) typesystem.Type {
	inf.unify(n.Condition, typesystem.TBool, inf.inferExpr(env, n.Condition))
	consT := inf.inferBlock(env.Child(), n.Consequence)
	if n.Alternative == nil {
		return typesystem.TUnit
	}
	altT := inf.inferExpr(env, n.Alternative)
	return inf.unify(n, consT, altT)
}

func (inf *Inferencer) inferLet(env *Env, n *ast.LetExpr) typesystem.Type {
	valT := inf.inferExpr(env, n.Value)
	if n.TypeAnnotation != nil {
		valT = inf.unify(n.Value, inf.lowerType(n.TypeAnnotation, nil), valT)
	}
	if n.Body != nil {
		inner := env.Child()
		inf.bindGeneralized(inner, env, n.Pattern, valT)
		return inf.inferExpr(inner, n.Body)
	}
	inf.bindGeneralized(env, env, n.Pattern, valT)
	return typesystem.TUnit
}

// bindGeneralized generalizes valT against outer before binding pattern
// into scope, so a top-level `let id = |x| x` is usable polymorphically
// at each call site; non-identifier
// patterns bind monomorphically since destructured components can't
// individually carry separate quantifiers here.
func (inf *Inferencer) bindGeneralized(scope, outer *Env, pat ast.Pattern, valT typesystem.Type) {
	if ip, ok := pat.(*ast.IdentPattern); ok {
		scope.BindScheme(ip.Name, inf.generalize(outer, valT))
		return
	}
	inf.bindPattern(scope, pat, valT)
}

func (inf *Inferencer) inferLambda(env *Env, n *ast.Lambda) typesystem.Type {
	body := env.Child()
	params := make([]typesystem.Type, len(n.Params))
	for i, p := range n.Params {
		pt := inf.lowerType(p.TypeAnnotation, nil)
		params[i] = pt
		inf.bindPattern(body, p.Name, pt)
		if p.Default != nil {
			inf.unify(p.Default, pt, inf.inferExpr(body, p.Default))
		}
	}
	retT := inf.inferExpr(body, n.Body)
	if n.ReturnType != nil {
		retT = inf.unify(n.Body, inf.lowerType(n.ReturnType, nil), retT)
	}
	return typesystem.TFunc{Params: params, Return: retT}
}

func (inf *Inferencer) inferCall(env *Env, n *ast.CallExpr) typesystem.Type {
	calleeT := inf.inferExpr(env, n.Callee)
	args := make([]typesystem.Type, len(n.Args))
	for i, a := range n.Args {
		args[i] = inf.inferExpr(env, a)
	}
	ret := inf.fresh()
	inf.unify(n, typesystem.TFunc{Params: args, Return: ret}, calleeT)
	return ret
}

func (inf *Inferencer) inferMethodCall(env *Env, n *ast.MethodCallExpr) typesystem.Type {
	inf.inferExpr(env, n.Receiver)
	for _, a := range n.Args {
		inf.inferExpr(env, a)
	}
	// Method resolution against the struct/trait impl table is out of
	// scope for this pass; the call's result is left as a fresh variable, refined
	// only where the caller's own usage constrains it.
	return inf.fresh()
}

func (inf *Inferencer) inferFieldAccess(env *Env, n *ast.FieldAccessExpr) typesystem.Type {
	recvT := inf.inferExpr(env, n.Receiver).Apply(inf.subst)
	if n.Name == "" {
		if tup, ok := recvT.(typesystem.TTuple); ok && n.Index >= 0 && n.Index < len(tup.Elements) {
			return tup.Elements[n.Index]
		}
		return inf.fresh()
	}
	if con, ok := recvT.(typesystem.TCon); ok {
		if si, ok := inf.structs[con.Name]; ok {
			if ft, ok := si.fields[n.Name]; ok {
				vars := inf.bindTypeParams(si.typeParams, con.Args)
				return inf.lowerType(ft, vars)
			}
		}
	}
	return inf.fresh()
}

func (inf *Inferencer) bindTypeParams(names []string, args []typesystem.Type) map[string]typesystem.Type {
	vars := make(map[string]typesystem.Type, len(names))
	for i, n := range names {
		if i < len(args) {
			vars[n] = args[i]
		} else {
			vars[n] = inf.fresh()
		}
	}
	return vars
}

func (inf *Inferencer) inferTry(env *Env, n *ast.TryExpr) typesystem.Type {
	bodyT := inf.inferBlock(env.Child(), n.Body)
	if n.Handler != nil {
		handlerEnv := env.Child()
		if n.CatchPattern != nil {
			inf.bindPattern(handlerEnv, n.CatchPattern, inf.fresh())
		}
		handlerT := inf.inferBlock(handlerEnv, n.Handler)
		bodyT = inf.unify(n, bodyT, handlerT)
	}
	if n.Finally != nil {
		inf.inferBlock(env.Child(), n.Finally)
	}
	return bodyT
}
