package transpile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
)

func (tr *Transpiler) emitExpr(expr ast.Expression) {
	if expr == nil {
		tr.write("()")
		return
	}
	if _, isErr := expr.(*ast.Error); isErr {
		tr.emitUnresolved(expr)
		return
	}
	if !tr.resolved(expr) {
		return
	}
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		tr.write(strconv.FormatInt(n.Value, 10))
		if n.Suffix != "" {
			tr.write(n.Suffix)
		}
	case *ast.FloatLiteral:
		// Floats always carry an explicit f64/f32 suffix on emission to
		// avoid the target's numeric-inference defaulting to something
		// else.
		tr.write(strconv.FormatFloat(n.Value, 'g', -1, 64))
		if n.Suffix != "" {
			tr.write("_" + n.Suffix)
		} else {
			tr.write("_f64")
		}
	case *ast.BoolLiteral:
		tr.write(strconv.FormatBool(n.Value))
	case *ast.NilLiteral:
		tr.write("None")
	case *ast.CharLiteral:
		tr.write(fmt.Sprintf("%q", n.Value)) // %q on a rune yields a single-quoted literal, matching Rust char syntax
	case *ast.StringLiteral:
		tr.write(strconv.Quote(n.Value))
	case *ast.StringInterp:
		tr.emitStringInterp(n)
	case *ast.Identifier:
		tr.write(ident(n.Value))
	case *ast.Path:
		tr.write(strings.Join(n.Segments, "::"))
	case *ast.BinaryExpr:
		tr.emitBinary(n)
	case *ast.UnaryExpr:
		tr.write(n.Op.String())
		tr.emitExpr(n.Right)
	case *ast.IfExpr:
		tr.emitIf(n)
	case *ast.MatchExpr:
		tr.emitMatch(n)
	case *ast.WhileExpr:
		tr.emitWhile(n)
	case *ast.ForExpr:
		tr.emitFor(n)
	case *ast.LoopExpr:
		tr.emitLoop(n)
	case *ast.BreakExpr:
		tr.write("break")
		if n.Label != "" {
			tr.write(" '" + n.Label)
		}
		if n.Value != nil {
			tr.write(" ")
			tr.emitExpr(n.Value)
		}
	case *ast.ContinueExpr:
		tr.write("continue")
		if n.Label != "" {
			tr.write(" '" + n.Label)
		}
	case *ast.ReturnExpr:
		tr.write("return")
		if n.Value != nil {
			tr.write(" ")
			tr.emitExpr(n.Value)
		}
	case *ast.Block:
		tr.emitBlock(n)
	case *ast.LetExpr:
		tr.emitLet(n)
	case *ast.AssignExpr:
		tr.emitAssign(n)
	case *ast.Lambda:
		tr.emitLambda(n)
	case *ast.CallExpr:
		tr.emitExpr(n.Callee)
		tr.write("(")
		for i, a := range n.Args {
			if i > 0 {
				tr.write(", ")
			}
			tr.emitExpr(a)
		}
		tr.write(")")
	case *ast.MethodCallExpr:
		tr.emitExpr(n.Receiver)
		tr.write(".")
		tr.write(ident(n.Name))
		if len(n.Turbofish) > 0 {
			tr.write("::<")
			for i, t := range n.Turbofish {
				if i > 0 {
					tr.write(", ")
				}
				tr.emitType(t)
			}
			tr.write(">")
		}
		tr.write("(")
		for i, a := range n.Args {
			if i > 0 {
				tr.write(", ")
			}
			tr.emitExpr(a)
		}
		tr.write(")")
	case *ast.FieldAccessExpr:
		tr.emitExpr(n.Receiver)
		if n.IsOptional {
			tr.write("?")
		}
		tr.write(".")
		if n.Name != "" {
			tr.write(ident(n.Name))
		} else {
			tr.write(strconv.Itoa(n.Index))
		}
	case *ast.IndexExpr:
		tr.emitExpr(n.Receiver)
		tr.write("[")
		tr.emitExpr(n.Index)
		tr.write("]")
	case *ast.CastExpr:
		tr.write("(")
		tr.emitExpr(n.Value)
		tr.write(" as ")
		tr.emitType(n.Target)
		tr.write(")")
	case *ast.TryExpr:
		tr.emitTry(n)
	case *ast.ThrowExpr:
		tr.write("return Err(")
		tr.emitExpr(n.Value)
		tr.write(")")
	case *ast.SendExpr:
		// Actor send/ask have no accompanying core runtime; emitted as a plain method-call shape so the
		// generated Rust at least compiles against a hand-written mailbox.
		tr.emitExpr(n.Target)
		tr.write(".send(")
		tr.emitExpr(n.Message)
		tr.write(")")
	case *ast.AskExpr:
		tr.emitExpr(n.Target)
		tr.write(".ask(")
		tr.emitExpr(n.Message)
		tr.write(")")
	case *ast.ArrayLiteral:
		tr.write("vec![")
		for i, e := range n.Elements {
			if i > 0 {
				tr.write(", ")
			}
			tr.emitExpr(e)
		}
		tr.write("]")
	case *ast.VecRepeat:
		// `vec!` repeat uses semicolon form, distinct from the
		// comma form ordinary array literals use above.
		tr.write("vec![")
		tr.emitExpr(n.Elem)
		tr.write("; ")
		tr.emitExpr(n.Count)
		tr.write("]")
	case *ast.TupleLiteral:
		tr.write("(")
		for i, e := range n.Elements {
			if i > 0 {
				tr.write(", ")
			}
			tr.emitExpr(e)
		}
		if len(n.Elements) == 1 {
			tr.write(",") // one-element Rust tuple needs a trailing comma
		}
		tr.write(")")
	case *ast.SetLiteral:
		tr.write("HashSet::from([")
		for i, e := range n.Elements {
			if i > 0 {
				tr.write(", ")
			}
			tr.emitExpr(e)
		}
		tr.write("])")
	case *ast.ObjectLiteral:
		tr.emitObjectLiteral(n)
	case *ast.DataFrame:
		tr.emitDataFrame(n)
	default:
		tr.write("()")
	}
}

func (tr *Transpiler) emitStringInterp(n *ast.StringInterp) {
	// String interpolation lowers to the target's formatted-print idiom
	//: Rust's format! with a positional {} per hole.
	var fmtStr strings.Builder
	var args []ast.Expression
	for _, part := range n.Parts {
		if part.Expr != nil {
			fmtStr.WriteString("{}")
			args = append(args, part.Expr)
		} else {
			fmtStr.WriteString(strings.ReplaceAll(strings.ReplaceAll(part.Text, "{", "{{"), "}", "}}"))
		}
	}
	tr.write("format!(")
	tr.write(strconv.Quote(fmtStr.String()))
	for _, a := range args {
		tr.write(", ")
		tr.emitExpr(a)
	}
	tr.write(")")
}

func (tr *Transpiler) emitBinary(n *ast.BinaryExpr) {
	if n.Op == ast.OpPow {
		tr.emitExpr(n.Left)
		tr.write(".powf(")
		tr.emitExpr(n.Right)
		tr.write(" as f64)")
		return
	}
	if n.Op == ast.OpPipe {
		// `a |> f` desugars to `f(a)`.
		tr.emitExpr(n.Right)
		tr.write("(")
		tr.emitExpr(n.Left)
		tr.write(")")
		return
	}
	tr.write("(")
	tr.emitExpr(n.Left)
	tr.write(" " + n.Op.String() + " ")
	tr.emitExpr(n.Right)
	tr.write(")")
}

func (tr *Transpiler) emitIf(n *ast.IfExpr) {
	tr.write("if ")
	tr.emitExpr(n.Condition)
	tr.write(" ")
	tr.emitBlock(n.Consequence)
	if n.Alternative != nil {
		tr.write(" else ")
		if ifElse, ok := n.Alternative.(*ast.IfExpr); ok {
			tr.emitIf(ifElse)
		} else {
			tr.emitExpr(n.Alternative)
		}
	}
}

func (tr *Transpiler) emitMatch(n *ast.MatchExpr) {
	tr.write("match ")
	tr.emitExpr(n.Subject)
	tr.write(" {\n")
	tr.indent++
	for _, arm := range n.Arms {
		tr.writeIndent()
		tr.emitPattern(arm.Pattern)
		if arm.Guard != nil {
			tr.write(" if ")
			tr.emitExpr(arm.Guard)
		}
		tr.write(" => ")
		tr.emitExpr(arm.Body)
		tr.write(",\n")
	}
	tr.indent--
	tr.writeIndent()
	tr.write("}")
}

func (tr *Transpiler) emitWhile(n *ast.WhileExpr) {
	if n.Label != "" {
		tr.write("'" + n.Label + ": ")
	}
	tr.write("while ")
	tr.emitExpr(n.Condition)
	tr.write(" ")
	tr.emitBlock(n.Body)
}

func (tr *Transpiler) emitLoop(n *ast.LoopExpr) {
	if n.Label != "" {
		tr.write("'" + n.Label + ": ")
	}
	tr.write("loop ")
	tr.emitBlock(n.Body)
}

func (tr *Transpiler) emitFor(n *ast.ForExpr) {
	if n.Label != "" {
		tr.write("'" + n.Label + ": ")
	}
	tr.write("for ")
	tr.emitPattern(n.Binding)
	tr.write(" in ")
	tr.emitExpr(n.Iterable)
	tr.write(" ")
	tr.emitBlock(n.Body)
}

func (tr *Transpiler) emitBlock(b *ast.Block) {
	tr.write("{\n")
	tr.indent++
	for _, stmt := range b.Statements {
		tr.writeIndent()
		tr.emitStatement(stmt)
		tr.write("\n")
	}
	if b.Tail != nil {
		tr.writeIndent()
		tr.emitExpr(b.Tail)
		tr.write("\n")
	}
	tr.indent--
	tr.writeIndent()
	tr.write("}")
}

func (tr *Transpiler) emitStatement(stmt ast.Statement) {
	switch n := stmt.(type) {
	case *ast.LetExpr:
		tr.emitLet(n)
		tr.write(";")
	case *ast.ReturnExpr, *ast.BreakExpr, *ast.ContinueExpr, *ast.ThrowExpr, *ast.AssignExpr:
		tr.emitExpr(stmt.(ast.Expression))
		tr.write(";")
	default:
		if expr, ok := ast.UnwrapExpr(stmt); ok {
			tr.emitExpr(expr)
			tr.write(";")
		}
	}
}

func (tr *Transpiler) emitLet(n *ast.LetExpr) {
	tr.write("let ")
	if n.Mutable {
		tr.write("mut ")
	}
	tr.emitPattern(n.Pattern)
	if n.TypeAnnotation != nil {
		tr.write(": ")
		tr.emitType(n.TypeAnnotation)
	}
	tr.write(" = ")
	tr.emitExpr(n.Value)
	if n.Body != nil {
		tr.write(";\n")
		tr.writeIndent()
		tr.emitExpr(n.Body)
	}
}

func (tr *Transpiler) emitAssign(n *ast.AssignExpr) {
	tr.emitExpr(n.Target)
	tr.write(" " + n.Op + " ")
	tr.emitExpr(n.Value)
}

func (tr *Transpiler) emitLambda(n *ast.Lambda) {
	if n.Captures == ast.CaptureMove {
		tr.write("move ")
	}
	tr.write("|")
	for i, p := range n.Params {
		if i > 0 {
			tr.write(", ")
		}
		tr.write(ident(paramName(p.Name)))
		if p.TypeAnnotation != nil {
			tr.write(": ")
			tr.emitType(p.TypeAnnotation)
		}
	}
	tr.write("| ")
	tr.emitExpr(n.Body)
}

func (tr *Transpiler) emitTry(n *ast.TryExpr) {
	// try/catch/finally has no single Rust statement equivalent; emitted
	// as a match over a std::panic::catch_unwind-style Result so the
	// handler/finally blocks still appear as ordinary Rust blocks.
	tr.write("match (|| -> Result<_, _> ")
	tr.emitBlock(n.Body)
	tr.write(")() {\n")
	tr.indent++
	tr.writeIndent()
	tr.write("Ok(v) => v,\n")
	if n.Handler != nil {
		tr.writeIndent()
		tr.write("Err(")
		if n.CatchPattern != nil {
			tr.emitPattern(n.CatchPattern)
		} else {
			tr.write("_")
		}
		tr.write(") => ")
		tr.emitBlock(n.Handler)
		tr.write(",\n")
	}
	tr.indent--
	tr.writeIndent()
	tr.write("}")
	if n.Finally != nil {
		tr.write(";\n")
		tr.writeIndent()
		tr.emitBlock(n.Finally)
	}
}

func (tr *Transpiler) emitObjectLiteral(n *ast.ObjectLiteral) {
	tr.write("HashMap::from([")
	for i, f := range n.Fields {
		if i > 0 {
			tr.write(", ")
		}
		tr.write("(")
		tr.write(strconv.Quote(f.Key))
		tr.write(".to_string(), ")
		if f.Value != nil {
			tr.emitExpr(f.Value)
		} else {
			tr.write(ident(f.Key))
		}
		tr.write(")")
	}
	tr.write("])")
}

func (tr *Transpiler) emitDataFrame(n *ast.DataFrame) {
	tr.write("DataFrame::new(vec![")
	for i, col := range n.Columns {
		if i > 0 {
			tr.write(", ")
		}
		tr.write("(")
		tr.write(strconv.Quote(col.Name))
		tr.write(", vec![")
		for j, v := range col.Values {
			if j > 0 {
				tr.write(", ")
			}
			tr.emitExpr(v)
		}
		tr.write("])")
	}
	tr.write("])")
}
