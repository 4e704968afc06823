package transpile

import "github.com/ruchy-lang/ruchy/internal/ast"

// namedTypeTable maps source primitive/collection type names to their
// Rust spelling. Anything absent (user-defined structs/enums/generic
// params) passes through unchanged.
var namedTypeTable = map[string]string{
	"Int":    "i64",
	"Float":  "f64",
	"Bool":   "bool",
	"String": "String",
	"Char":   "char",
	"Unit":   "()",
}

func (tr *Transpiler) emitType(t ast.TypeExpr) {
	if t == nil {
		tr.write("_")
		return
	}
	switch n := t.(type) {
	case *ast.NamedType:
		name := n.Name
		if mapped, ok := namedTypeTable[name]; ok {
			name = mapped
		}
		switch n.Name {
		case "List", "Vec":
			tr.write("Vec<")
			if len(n.Args) > 0 {
				tr.emitType(n.Args[0])
			} else {
				tr.write("_")
			}
			tr.write(">")
			return
		case "Optional":
			tr.write("Option<")
			if len(n.Args) > 0 {
				tr.emitType(n.Args[0])
			} else {
				tr.write("_")
			}
			tr.write(">")
			return
		}
		tr.write(ident(name))
		if len(n.Args) > 0 {
			tr.write("<")
			for i, a := range n.Args {
				if i > 0 {
					tr.write(", ")
				}
				tr.emitType(a)
			}
			tr.write(">")
		}
	case *ast.TupleType:
		tr.write("(")
		for i, e := range n.Elements {
			if i > 0 {
				tr.write(", ")
			}
			tr.emitType(e)
		}
		tr.write(")")
	case *ast.ArrayType:
		if n.Size != nil {
			tr.write("[")
			tr.emitType(n.Elem)
			tr.write("; ")
			tr.emitExpr(n.Size)
			tr.write("]")
		} else {
			tr.write("Vec<")
			tr.emitType(n.Elem)
			tr.write(">")
		}
	case *ast.FuncType:
		tr.write("fn(")
		for i, p := range n.Params {
			if i > 0 {
				tr.write(", ")
			}
			tr.emitType(p)
		}
		tr.write(")")
		if n.Return != nil {
			tr.write(" -> ")
			tr.emitType(n.Return)
		}
	case *ast.RefType:
		tr.write("&")
		if n.Mutable {
			tr.write("mut ")
		}
		tr.emitType(n.Elem)
	case *ast.OptionalType:
		tr.write("Option<")
		tr.emitType(n.Elem)
		tr.write(">")
	default:
		tr.write("_")
	}
}
