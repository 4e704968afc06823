package infer

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/typesystem"
)

// primitiveTypes maps the reserved primitive type names onto the
// typesystem's constructors; anything else is a
// nominal struct/enum/trait/generic-parameter name.
var primitiveTypes = map[string]typesystem.Type{
	"Int": typesystem.TInt, "Float": typesystem.TFloat, "Bool": typesystem.TBool,
	"String": typesystem.TString, "Char": typesystem.TChar, "Unit": typesystem.TUnit,
	"Nil": typesystem.TNilType,
}

// lowerType converts a parsed TypeExpr into a typesystem.Type. typeVars
// maps in-scope generic parameter names (from the enclosing fun/struct/
// enum's TypeParams) to the fresh TVar each was assigned.
func (inf *Inferencer) lowerType(t ast.TypeExpr, typeVars map[string]typesystem.Type) typesystem.Type {
	if t == nil {
		return inf.fresh()
	}
	switch n := t.(type) {
	case *ast.NamedType:
		if tv, ok := typeVars[n.Name]; ok {
			return tv
		}
		if len(n.Args) == 0 {
			if prim, ok := primitiveTypes[n.Name]; ok {
				return prim
			}
			switch n.Name {
			case "List", "Vec":
				return typesystem.TList{Elem: inf.fresh()}
			}
			return typesystem.TCon{Name: n.Name}
		}
		args := make([]typesystem.Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = inf.lowerType(a, typeVars)
		}
		switch n.Name {
		case "List", "Vec":
			return typesystem.TList{Elem: args[0]}
		case "Optional":
			return typesystem.TOptional{Elem: args[0]}
		}
		return typesystem.TCon{Name: n.Name, Args: args}
	case *ast.TupleType:
		elems := make([]typesystem.Type, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = inf.lowerType(e, typeVars)
		}
		return typesystem.TTuple{Elements: elems}
	case *ast.ArrayType:
		elem := inf.lowerType(n.Elem, typeVars)
		if n.Size == nil {
			return typesystem.TList{Elem: elem}
		}
		return typesystem.TArray{Elem: elem}
	case *ast.FuncType:
		params := make([]typesystem.Type, len(n.Params))
		for i, p := range n.Params {
			params[i] = inf.lowerType(p, typeVars)
		}
		return typesystem.TFunc{Params: params, Return: inf.lowerType(n.Return, typeVars)}
	case *ast.RefType:
		return typesystem.TRef{Elem: inf.lowerType(n.Elem, typeVars), Mutable: n.Mutable}
	case *ast.OptionalType:
		return typesystem.TOptional{Elem: inf.lowerType(n.Elem, typeVars)}
	}
	return inf.fresh()
}
