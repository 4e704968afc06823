package infer

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diagnostics"
	"github.com/ruchy-lang/ruchy/internal/typesystem"
)

// Inferencer runs one Algorithm W pass over a Program. It never aborts
// on the first type error: each failure is recorded to Diagnostics and
// inference continues with a fresh unification variable standing in for
// the ill-typed expression, so a single run surfaces as many problems as
// possible.
type Inferencer struct {
	counter     int
	subst       typesystem.Subst
	Types       map[ast.Node]typesystem.Type
	Diagnostics diagnostics.Sink

	structs map[string]*structInfo
	enums   map[string]*enumInfo
}

type structInfo struct {
	typeParams []string
	fields     map[string]ast.TypeExpr
	fieldOrder []string
}

type enumInfo struct {
	typeParams []string
	variants   map[string]ast.EnumVariantDecl
}

// New returns a ready-to-use Inferencer.
func New() *Inferencer {
	return &Inferencer{
		subst:   typesystem.Subst{},
		Types:   map[ast.Node]typesystem.Type{},
		structs: map[string]*structInfo{},
		enums:   map[string]*enumInfo{},
	}
}

func (inf *Inferencer) fresh() typesystem.TVar {
	inf.counter++
	return typesystem.TVar{Name: fmt.Sprintf("t%d", inf.counter)}
}

// InferProgram type-checks every top-level declaration, returning the
// per-node type table (best-effort even on error) and a diagnostic sink.
func InferProgram(prog *ast.Program) (map[ast.Node]typesystem.Type, *diagnostics.Sink) {
	inf := New()
	env := NewEnv()
	inf.registerBuiltins(env)
	inf.collectDecls(prog)
	inf.inferTopLevel(env, prog.Statements)
	return inf.Types, &inf.Diagnostics
}

// registerBuiltins gives the prelude functions (print, len, etc.)
// polymorphic schemes so ordinary programs
// type-check without a separate builtin-signature table lookup at every
// call site.
func (inf *Inferencer) registerBuiltins(env *Env) {
	a := inf.fresh()
	env.BindScheme("print", typesystem.Scheme{Vars: []string{a.Name}, Type: typesystem.TFunc{Params: []typesystem.Type{a}, Return: typesystem.TUnit}})
	b := inf.fresh()
	env.BindScheme("println", typesystem.Scheme{Vars: []string{b.Name}, Type: typesystem.TFunc{Params: []typesystem.Type{b}, Return: typesystem.TUnit}})
	c := inf.fresh()
	env.BindScheme("len", typesystem.Scheme{Vars: []string{c.Name}, Type: typesystem.TFunc{Params: []typesystem.Type{typesystem.TList{Elem: c}}, Return: typesystem.TInt}})
}

// collectDecls pre-registers struct/enum field tables so a field-access
// or constructor call can resolve its type before (or regardless of) the
// declaration's lexical position.
func (inf *Inferencer) collectDecls(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		switch n := stmt.(type) {
		case *ast.StructDecl:
			si := &structInfo{typeParams: n.TypeParams, fields: map[string]ast.TypeExpr{}}
			for _, f := range n.Fields {
				si.fields[f.Name] = f.Type
				si.fieldOrder = append(si.fieldOrder, f.Name)
			}
			inf.structs[n.Name] = si
		case *ast.EnumDecl:
			ei := &enumInfo{typeParams: n.TypeParams, variants: map[string]ast.EnumVariantDecl{}}
			for _, v := range n.Variants {
				ei.variants[v.Name] = v
			}
			inf.enums[n.Name] = ei
		}
	}
}

// inferTopLevel infers every statement, treating consecutive function
// declarations as one mutually-recursive group: every function name in
// the group gets a fresh scheme before any body is inferred, so a
// forward or mutual call resolves instead of reporting "unbound name".
func (inf *Inferencer) inferTopLevel(env *Env, stmts []ast.Statement) {
	var group []*ast.FunctionDecl
	flush := func() {
		if len(group) == 0 {
			return
		}
		inf.inferFunctionGroup(env, group)
		group = nil
	}
	for _, stmt := range stmts {
		if fn, ok := stmt.(*ast.FunctionDecl); ok {
			group = append(group, fn)
			continue
		}
		flush()
		inf.inferStatement(env, stmt)
	}
	flush()
}

// inferFunctionGroup binds every function's signature (with fresh
// unification variables for parameters/return where unannotated) before
// inferring any body, then generalizes each into a let-polymorphic
// scheme once all bodies have been checked.
func (inf *Inferencer) inferFunctionGroup(env *Env, group []*ast.FunctionDecl) {
	sigs := make([]typesystem.TFunc, len(group))
	for i, fn := range group {
		typeVars := inf.typeParamVars(fn.TypeParams)
		params := make([]typesystem.Type, len(fn.Params))
		for j, p := range fn.Params {
			params[j] = inf.lowerType(p.TypeAnnotation, typeVars)
		}
		ret := inf.lowerType(fn.ReturnType, typeVars)
		sigs[i] = typesystem.TFunc{Params: params, Return: ret}
		env.Bind(fn.Name, sigs[i])
	}
	for i, fn := range group {
		inf.inferFunctionBody(env, fn, sigs[i])
	}
	for i, fn := range group {
		t := sigs[i].Apply(inf.subst)
		free := freeMinus(t.FreeTypeVariables(), env.FreeTypeVariables())
		env.BindScheme(fn.Name, typesystem.Scheme{Vars: typesystem.SortedFreeVars(free), Type: t})
	}
}

func (inf *Inferencer) inferFunctionBody(env *Env, fn *ast.FunctionDecl, sig typesystem.TFunc) {
	body := env.Child()
	for i, p := range fn.Params {
		inf.bindPattern(body, p.Name, sig.Params[i])
	}
	bodyT := inf.inferBlock(body, fn.Body)
	inf.unify(fn.Body, sig.Return, bodyT)
}

func (inf *Inferencer) typeParamVars(names []string) map[string]typesystem.Type {
	vars := make(map[string]typesystem.Type, len(names))
	for _, n := range names {
		vars[n] = inf.fresh()
	}
	return vars
}

func freeMinus(vars, exclude []typesystem.TVar) []typesystem.TVar {
	excl := map[string]bool{}
	for _, v := range exclude {
		excl[v.Name] = true
	}
	var out []typesystem.TVar
	seen := map[string]bool{}
	for _, v := range vars {
		if !excl[v.Name] && !seen[v.Name] {
			seen[v.Name] = true
			out = append(out, v)
		}
	}
	return out
}

// unify records the result type in inf.Types and folds any failure into
// a diagnostic rather than aborting, returning the best-effort type.
func (inf *Inferencer) unify(node ast.Node, t1, t2 typesystem.Type) typesystem.Type {
	s, err := typesystem.Unify(t1.Apply(inf.subst), t2.Apply(inf.subst))
	if err != nil {
		inf.reportTypeError(node, err)
		return inf.fresh()
	}
	inf.subst = typesystem.Compose(s, inf.subst)
	result := t1.Apply(inf.subst)
	if node != nil {
		inf.Types[node] = result
	}
	return result
}

func (inf *Inferencer) reportTypeError(node ast.Node, err error) {
	tok := node.GetToken()
	switch e := err.(type) {
	case *typesystem.UnificationFailure:
		inf.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrT001, tok, e.T1.Apply(inf.subst), e.T2.Apply(inf.subst)))
	case *typesystem.OccursCheckError:
		inf.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrT002, tok, e.Var, e.In))
	case *typesystem.ArityMismatch:
		inf.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrT004, tok, e.Expected, e.Found))
	default:
		inf.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrT001, tok, err.Error(), ""))
	}
}

func (inf *Inferencer) unboundName(node ast.Node, name string) typesystem.Type {
	inf.Diagnostics.Add(diagnostics.NewError(diagnostics.ErrT003, node.GetToken(), name))
	return inf.fresh()
}

// instantiate replaces a scheme's quantified variables with fresh ones
// at each use site.
func (inf *Inferencer) instantiate(s typesystem.Scheme) typesystem.Type {
	if len(s.Vars) == 0 {
		return s.Type
	}
	sub := typesystem.Subst{}
	for _, v := range s.Vars {
		sub[v] = inf.fresh()
	}
	return s.Type.Apply(sub)
}

// generalize closes over every free variable in t not also free in the
// enclosing environment, producing the scheme bound by `let`.
func (inf *Inferencer) generalize(env *Env, t typesystem.Type) typesystem.Scheme {
	t = t.Apply(inf.subst)
	free := freeMinus(t.FreeTypeVariables(), env.FreeTypeVariables())
	return typesystem.Scheme{Vars: typesystem.SortedFreeVars(free), Type: t}
}
