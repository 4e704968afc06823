package transpile

import (
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
)

func (tr *Transpiler) emitTopLevel(stmt ast.Statement) {
	switch n := stmt.(type) {
	case *ast.FunctionDecl:
		tr.emitFunctionDecl(n)
	case *ast.StructDecl:
		tr.emitStructDecl(n)
	case *ast.EnumDecl:
		tr.emitEnumDecl(n)
	case *ast.TraitDecl:
		tr.emitTraitDecl(n)
	case *ast.ImplDecl:
		tr.emitImplDecl(n)
	case *ast.ImportStatement:
		tr.emitImportStatement(n)
	case *ast.ModuleDecl:
		tr.emitModuleDecl(n)
	default:
		if expr, ok := ast.UnwrapExpr(stmt); ok {
			tr.writeIndent()
			tr.emitExpr(expr)
			tr.write(";\n")
		}
	}
}

func typeParamsOf(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return "<" + strings.Join(params, ", ") + ">"
}

func (tr *Transpiler) emitFunctionSignature(name string, typeParams []string, params []ast.Param, ret ast.TypeExpr) {
	tr.write("fn ")
	tr.write(ident(name))
	tr.write(typeParamsOf(typeParams))
	tr.write("(")
	for i, p := range params {
		if i > 0 {
			tr.write(", ")
		}
		tr.write(ident(paramName(p.Name)))
		tr.write(": ")
		if p.TypeAnnotation != nil {
			tr.emitType(p.TypeAnnotation)
		} else {
			tr.write("_")
		}
	}
	tr.write(")")
	if ret != nil {
		tr.write(" -> ")
		tr.emitType(ret)
	}
}

func paramName(pat ast.Pattern) string {
	if ip, ok := pat.(*ast.IdentPattern); ok {
		return ip.Name
	}
	return "_"
}

func (tr *Transpiler) emitFunctionDecl(n *ast.FunctionDecl) {
	tr.emitAttributes(n.Attributes)
	tr.writeIndent()
	tr.write(visibilityPrefix(n.Visibility))
	tr.emitFunctionSignature(n.Name, n.TypeParams, n.Params, n.ReturnType)
	tr.write(" ")
	tr.emitBlock(n.Body)
	tr.write("\n")
}

func (tr *Transpiler) emitStructDecl(n *ast.StructDecl) {
	tr.emitAttributes(n.Attributes)
	tr.writeIndent()
	tr.write(visibilityPrefix(n.Visibility))
	tr.write("struct ")
	tr.write(ident(n.Name))
	tr.write(typeParamsOf(n.TypeParams))
	tr.write(" {\n")
	tr.indent++
	for _, f := range n.Fields {
		tr.writeIndent()
		tr.write(visibilityPrefix(f.Visibility))
		tr.write(ident(f.Name))
		tr.write(": ")
		tr.emitType(f.Type)
		tr.write(",\n")
	}
	tr.indent--
	tr.writeLine("}")
}

func (tr *Transpiler) emitEnumDecl(n *ast.EnumDecl) {
	tr.emitAttributes(n.Attributes)
	tr.writeIndent()
	tr.write(visibilityPrefix(n.Visibility))
	tr.write("enum ")
	tr.write(ident(n.Name))
	tr.write(typeParamsOf(n.TypeParams))
	tr.write(" {\n")
	tr.indent++
	for _, v := range n.Variants {
		tr.writeIndent()
		tr.write(ident(v.Name))
		switch {
		case len(v.TupleFields) > 0:
			tr.write("(")
			for i, t := range v.TupleFields {
				if i > 0 {
					tr.write(", ")
				}
				tr.emitType(t)
			}
			tr.write(")")
		case len(v.StructField) > 0:
			tr.write(" { ")
			for i, f := range v.StructField {
				if i > 0 {
					tr.write(", ")
				}
				tr.write(ident(f.Name))
				tr.write(": ")
				tr.emitType(f.Type)
			}
			tr.write(" }")
		}
		tr.write(",\n")
	}
	tr.indent--
	tr.writeLine("}")
}

func (tr *Transpiler) emitTraitDecl(n *ast.TraitDecl) {
	tr.emitAttributes(n.Attributes)
	tr.writeIndent()
	tr.write(visibilityPrefix(n.Visibility))
	tr.write("trait ")
	tr.write(ident(n.Name))
	tr.write(typeParamsOf(n.TypeParams))
	tr.write(" {\n")
	tr.indent++
	for _, m := range n.Methods {
		tr.writeIndent()
		tr.emitFunctionSignature(m.Name, nil, m.Params, m.ReturnType)
		if m.Default != nil {
			tr.write(" ")
			tr.emitBlock(m.Default)
			tr.write("\n")
		} else {
			tr.write(";\n")
		}
	}
	tr.indent--
	tr.writeLine("}")
}

func (tr *Transpiler) emitImplDecl(n *ast.ImplDecl) {
	tr.writeIndent()
	tr.write("impl")
	tr.write(typeParamsOf(n.TypeParams))
	tr.write(" ")
	if n.Trait != "" {
		tr.write(ident(n.Trait))
		tr.write(" for ")
	}
	tr.emitType(n.ForType)
	tr.write(" {\n")
	tr.indent++
	for _, m := range n.Methods {
		tr.emitFunctionDecl(m)
	}
	tr.indent--
	tr.writeLine("}")
}

func (tr *Transpiler) emitImportStatement(n *ast.ImportStatement) {
	tr.writeIndent()
	tr.write("use ")
	tr.write(n.Path)
	if len(n.Items) > 0 {
		tr.write("::{")
		for i, it := range n.Items {
			if i > 0 {
				tr.write(", ")
			}
			tr.write(ident(it.Name))
			if it.Alias != "" {
				tr.write(" as ")
				tr.write(ident(it.Alias))
			}
		}
		tr.write("}")
	}
	tr.write(";\n")
}

func (tr *Transpiler) emitModuleDecl(n *ast.ModuleDecl) {
	tr.writeIndent()
	tr.write("mod ")
	tr.write(ident(n.Name))
	tr.write(" {\n")
	tr.indent++
	for _, item := range n.Items {
		tr.emitTopLevel(item)
	}
	tr.indent--
	tr.writeLine("}")
}
