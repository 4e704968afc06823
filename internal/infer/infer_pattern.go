package infer

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/typesystem"
)

func (inf *Inferencer) inferMatch(env *Env, n *ast.MatchExpr) typesystem.Type {
	subjT := inf.inferExpr(env, n.Subject)
	var result typesystem.Type = inf.fresh()
	for _, arm := range n.Arms {
		armEnv := env.Child()
		inf.bindPattern(armEnv, arm.Pattern, subjT)
		if arm.Guard != nil {
			inf.unify(arm.Guard, typesystem.TBool, inf.inferExpr(armEnv, arm.Guard))
		}
		bodyT := inf.inferExpr(armEnv, arm.Body)
		result = inf.unify(arm.Body, result, bodyT)
	}
	return result
}

// bindPattern unifies pattern's inherent shape with t and binds every
// identifier the pattern introduces into env, left to right.
func (inf *Inferencer) bindPattern(env *Env, pat ast.Pattern, t typesystem.Type) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		// binds nothing
	case *ast.IdentPattern:
		env.Bind(p.Name, t)
	case *ast.LiteralPattern:
		lt := inf.inferExpr(env, p.Literal)
		inf.unify(p, t, lt)
	case *ast.RangePattern:
		lt := inf.inferExpr(env, p.Low)
		inf.inferExpr(env, p.High)
		inf.unify(p, t, lt)
	case *ast.TuplePattern:
		elems := make([]typesystem.Type, len(p.Elements))
		for i := range p.Elements {
			elems[i] = inf.fresh()
		}
		inf.unify(p, typesystem.TTuple{Elements: elems}, t)
		for i, sub := range p.Elements {
			inf.bindPattern(env, sub, elems[i])
		}
	case *ast.ListPattern:
		elem := inf.fresh()
		inf.unify(p, typesystem.TList{Elem: elem}, t)
		for _, sub := range p.Elements {
			inf.bindPattern(env, sub, elem)
		}
		if p.Rest != nil && *p.Rest != "" {
			env.Bind(*p.Rest, typesystem.TList{Elem: elem})
		}
	case *ast.StructPattern:
		inf.bindStructPattern(env, p, t)
	case *ast.VariantPattern:
		inf.bindVariantPattern(env, p, t)
	case *ast.OrPattern:
		for _, alt := range p.Alternatives {
			inf.bindPattern(env, alt, t)
		}
	case *ast.GuardedPattern:
		inf.bindPattern(env, p.Inner, t)
		if p.Guard != nil {
			inf.unify(p.Guard, typesystem.TBool, inf.inferExpr(env, p.Guard))
		}
	}
}

func (inf *Inferencer) bindStructPattern(env *Env, p *ast.StructPattern, t typesystem.Type) {
	si, ok := inf.structs[p.Name]
	if !ok {
		for _, f := range p.Fields {
			if f.Pattern != nil {
				inf.bindPattern(env, f.Pattern, inf.fresh())
			} else {
				env.Bind(f.Name, inf.fresh())
			}
		}
		return
	}
	typeArgs := make([]typesystem.Type, len(si.typeParams))
	for i := range typeArgs {
		typeArgs[i] = inf.fresh()
	}
	inf.unify(p, typesystem.TCon{Name: p.Name, Args: typeArgs}, t)
	vars := inf.bindTypeParams(si.typeParams, typeArgs)
	for _, f := range p.Fields {
		var ft typesystem.Type = inf.fresh()
		if decl, ok := si.fields[f.Name]; ok {
			ft = inf.lowerType(decl, vars)
		}
		if f.Pattern != nil {
			inf.bindPattern(env, f.Pattern, ft)
		} else {
			env.Bind(f.Name, ft)
		}
	}
}

func (inf *Inferencer) bindVariantPattern(env *Env, p *ast.VariantPattern, t typesystem.Type) {
	owner, variant, ok := inf.findVariant(p.Name)
	if !ok {
		for _, sub := range p.Payload {
			inf.bindPattern(env, sub, inf.fresh())
		}
		return
	}
	typeArgs := make([]typesystem.Type, len(owner.typeParams))
	for i := range typeArgs {
		typeArgs[i] = inf.fresh()
	}
	enumName := inf.enumNameFor(owner)
	inf.unify(p, typesystem.TCon{Name: enumName, Args: typeArgs}, t)
	vars := inf.bindTypeParams(owner.typeParams, typeArgs)
	for i, sub := range p.Payload {
		var pt typesystem.Type = inf.fresh()
		if i < len(variant.TupleFields) {
			pt = inf.lowerType(variant.TupleFields[i], vars)
		}
		inf.bindPattern(env, sub, pt)
	}
}

func (inf *Inferencer) findVariant(name string) (*enumInfo, ast.EnumVariantDecl, bool) {
	for _, ei := range inf.enums {
		if v, ok := ei.variants[name]; ok {
			return ei, v, true
		}
	}
	return nil, ast.EnumVariantDecl{}, false
}

func (inf *Inferencer) enumNameFor(target *enumInfo) string {
	for name, ei := range inf.enums {
		if ei == target {
			return name
		}
	}
	return "?"
}
