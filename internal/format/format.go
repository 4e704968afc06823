// Package format is the source formatter behind `cmd/ruchy fmt`: it
// re-serializes a parsed Program back into canonical Ruchy surface
// syntax, independent of the transpiler's target-language emitter. The
// same buffer-plus-indent printer shape internal/transpile uses for its
// Rust emitter, pointed back at the source language itself.
//
// Coverage matches the node set the rest of this toolchain actually
// exercises (function/enum declarations, the core expression and
// statement forms); a node outside that set is emitted as a bracketed
// placeholder comment rather than silently dropped or panicking, since
// `fmt` must be total the same way `parse` is.
package format

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
)

// Format renders prog as formatted Ruchy source text.
func Format(prog *ast.Program) string {
	p := &printer{}
	for i, stmt := range prog.Statements {
		if i > 0 {
			p.buf.WriteByte('\n')
		}
		p.topLevel(stmt)
	}
	return p.buf.String()
}

type printer struct {
	buf    bytes.Buffer
	indent int
}

func (p *printer) writeIndent()   { p.buf.WriteString(strings.Repeat("    ", p.indent)) }
func (p *printer) write(s string) { p.buf.WriteString(s) }
func (p *printer) line(s string) {
	p.writeIndent()
	p.buf.WriteString(s)
	p.buf.WriteByte('\n')
}

func (p *printer) topLevel(stmt ast.Statement) {
	switch n := stmt.(type) {
	case *ast.FunctionDecl:
		p.functionDecl(n)
	case *ast.EnumDecl:
		p.enumDecl(n)
	case *ast.ImportStatement:
		p.line(fmt.Sprintf("import %s", n.Path))
	default:
		p.writeIndent()
		if e, ok := ast.UnwrapExpr(stmt); ok {
			p.expr(e)
		} else {
			p.write(fmt.Sprintf("/* unsupported statement %T */", stmt))
		}
		p.buf.WriteByte('\n')
	}
}

func (p *printer) functionDecl(n *ast.FunctionDecl) {
	vis := ""
	if n.Visibility == ast.Public {
		vis = "pub "
	}
	params := make([]string, len(n.Params))
	for i, param := range n.Params {
		params[i] = p.paramString(param)
	}
	sig := fmt.Sprintf("%sfun %s(%s)", vis, n.Name, strings.Join(params, ", "))
	if n.ReturnType != nil {
		sig += " -> " + typeString(n.ReturnType)
	}
	p.line(sig + " {")
	p.indent++
	p.blockBody(n.Body)
	p.indent--
	p.line("}")
}

func (p *printer) paramString(param ast.Param) string {
	s := patternString(param.Name)
	if param.TypeAnnotation != nil {
		s += ": " + typeString(param.TypeAnnotation)
	}
	return s
}

func (p *printer) enumDecl(n *ast.EnumDecl) {
	vis := ""
	if n.Visibility == ast.Public {
		vis = "pub "
	}
	p.line(fmt.Sprintf("%senum %s {", vis, n.Name))
	p.indent++
	for _, v := range n.Variants {
		switch {
		case len(v.TupleFields) > 0:
			types := make([]string, len(v.TupleFields))
			for i, t := range v.TupleFields {
				types[i] = typeString(t)
			}
			p.line(fmt.Sprintf("%s(%s),", v.Name, strings.Join(types, ", ")))
		default:
			p.line(v.Name + ",")
		}
	}
	p.indent--
	p.line("}")
}

// blockBody writes a block's statements followed by its tail expression,
// without the surrounding braces (the caller already wrote those).
func (p *printer) blockBody(b *ast.Block) {
	for _, stmt := range b.Statements {
		p.writeIndent()
		p.statement(stmt)
		p.buf.WriteByte('\n')
	}
	if b.Tail != nil {
		p.writeIndent()
		p.expr(b.Tail)
		p.buf.WriteByte('\n')
	}
}

func (p *printer) statement(stmt ast.Statement) {
	if e, ok := ast.UnwrapExpr(stmt); ok {
		p.expr(e)
		return
	}
	p.write(fmt.Sprintf("/* unsupported statement %T */", stmt))
}

func (p *printer) block(b *ast.Block) {
	p.write("{\n")
	p.indent++
	p.blockBody(b)
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *printer) expr(e ast.Expression) {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		p.write(strconv.FormatInt(n.Value, 10))
	case *ast.FloatLiteral:
		p.write(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *ast.BoolLiteral:
		p.write(strconv.FormatBool(n.Value))
	case *ast.CharLiteral:
		p.write(fmt.Sprintf("%q", n.Value))
	case *ast.StringLiteral:
		p.write(strconv.Quote(n.Value))
	case *ast.NilLiteral:
		p.write("nil")
	case *ast.Identifier:
		p.write(n.Value)
	case *ast.BinaryExpr:
		p.expr(n.Left)
		p.write(" " + n.Op.String() + " ")
		p.expr(n.Right)
	case *ast.UnaryExpr:
		p.write(n.Op.String())
		p.expr(n.Right)
	case *ast.Block:
		p.block(n)
	case *ast.IfExpr:
		p.write("if ")
		p.expr(n.Condition)
		p.write(" ")
		p.block(n.Consequence)
		if n.Alternative != nil {
			p.write(" else ")
			if b, ok := n.Alternative.(*ast.Block); ok {
				p.block(b)
			} else {
				p.expr(n.Alternative)
			}
		}
	case *ast.WhileExpr:
		p.write(labelPrefix(n.Label) + "while ")
		p.expr(n.Condition)
		p.write(" ")
		p.block(n.Body)
	case *ast.LoopExpr:
		p.write(labelPrefix(n.Label) + "loop ")
		p.block(n.Body)
	case *ast.ForExpr:
		p.write(labelPrefix(n.Label) + "for ")
		p.write(patternString(n.Binding))
		p.write(" in ")
		p.expr(n.Iterable)
		p.write(" ")
		p.block(n.Body)
	case *ast.LetExpr:
		p.letExpr(n)
	case *ast.AssignExpr:
		p.expr(n.Target)
		p.write(" " + n.Op + " ")
		p.expr(n.Value)
	case *ast.Lambda:
		p.lambda(n)
	case *ast.CallExpr:
		p.expr(n.Callee)
		p.write("(")
		p.exprList(n.Args)
		p.write(")")
	case *ast.MethodCallExpr:
		p.expr(n.Receiver)
		p.write("." + n.Name + "(")
		p.exprList(n.Args)
		p.write(")")
	case *ast.FieldAccessExpr:
		p.expr(n.Receiver)
		if n.IsOptional {
			p.write("?.")
		} else {
			p.write(".")
		}
		if n.Name != "" {
			p.write(n.Name)
		} else {
			p.write(strconv.Itoa(n.Index))
		}
	case *ast.IndexExpr:
		p.expr(n.Receiver)
		p.write("[")
		p.expr(n.Index)
		p.write("]")
	case *ast.ArrayLiteral:
		p.write("[")
		p.exprList(n.Elements)
		p.write("]")
	case *ast.TupleLiteral:
		p.write("(")
		p.exprList(n.Elements)
		p.write(")")
	case *ast.MatchExpr:
		p.matchExpr(n)
	default:
		p.write(fmt.Sprintf("/* unsupported expression %T */", e))
	}
}

func (p *printer) exprList(exprs []ast.Expression) {
	for i, e := range exprs {
		if i > 0 {
			p.write(", ")
		}
		p.expr(e)
	}
}

func (p *printer) letExpr(n *ast.LetExpr) {
	mut := ""
	if n.Mutable {
		mut = "mut "
	}
	p.write("let " + mut + patternString(n.Pattern))
	if n.TypeAnnotation != nil {
		p.write(": " + typeString(n.TypeAnnotation))
	}
	p.write(" = ")
	p.expr(n.Value)
	if n.Body != nil {
		p.write(" in ")
		p.expr(n.Body)
	}
}

func (p *printer) lambda(n *ast.Lambda) {
	params := make([]string, len(n.Params))
	for i, param := range n.Params {
		params[i] = p.paramString(param)
	}
	p.write("|" + strings.Join(params, ", ") + "| ")
	p.expr(n.Body)
}

func (p *printer) matchExpr(n *ast.MatchExpr) {
	p.write("match ")
	p.expr(n.Subject)
	p.write(" {\n")
	p.indent++
	for _, arm := range n.Arms {
		p.writeIndent()
		p.write(patternString(arm.Pattern))
		if arm.Guard != nil {
			p.write(" if ")
			p.expr(arm.Guard)
		}
		p.write(" => ")
		p.expr(arm.Body)
		p.write(",\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func labelPrefix(label string) string {
	if label == "" {
		return ""
	}
	return "'" + label + ": "
}

func patternString(pat ast.Pattern) string {
	switch n := pat.(type) {
	case *ast.WildcardPattern:
		return "_"
	case *ast.IdentPattern:
		return n.Name
	case *ast.TuplePattern:
		parts := make([]string, len(n.Elements))
		for i, e := range n.Elements {
			parts[i] = patternString(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.VariantPattern:
		parts := make([]string, len(n.Payload))
		for i, e := range n.Payload {
			parts[i] = patternString(e)
		}
		if len(parts) == 0 {
			return n.Name
		}
		return n.Name + "(" + strings.Join(parts, ", ") + ")"
	case *ast.OrPattern:
		parts := make([]string, len(n.Alternatives))
		for i, e := range n.Alternatives {
			parts[i] = patternString(e)
		}
		return strings.Join(parts, " | ")
	default:
		return fmt.Sprintf("/* unsupported pattern %T */", pat)
	}
}

func typeString(t ast.TypeExpr) string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf("%v", t.TokenLiteral())
}
