package parser

import (
	"testing"

	"github.com/ruchy-lang/ruchy/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, diags := ParseProgram(src)
	if diags.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", src, diags.All())
	}
	return prog
}

func TestParseFunctionDecl(t *testing.T) {
	prog := mustParse(t, `fun add(x: Int, y: Int) -> Int { x + y }`)
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	fn, ok := prog.Statements[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected *ast.FunctionDecl, got %T", prog.Statements[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("got %+v", fn)
	}
}

func TestParseArithmeticPrecedence(t *testing.T) {
	prog := mustParse(t, `let x = 1 + 2 * 3`)
	let := prog.Statements[0].(*ast.LetExpr)
	bin, ok := let.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpAdd {
		t.Fatalf("expected top-level '+', got %+v", let.Value)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rhs.Op != ast.OpMul {
		t.Fatalf("expected '*' on the right of '+', got %+v", bin.Right)
	}
}

func TestParseIfElseExpression(t *testing.T) {
	prog := mustParse(t, `let x = if a { 1 } else { 2 }`)
	let := prog.Statements[0].(*ast.LetExpr)
	ifExpr, ok := let.Value.(*ast.IfExpr)
	if !ok {
		t.Fatalf("expected *ast.IfExpr, got %T", let.Value)
	}
	if ifExpr.Alternative == nil {
		t.Fatalf("expected else branch")
	}
}

func TestParseMatchExpression(t *testing.T) {
	prog := mustParse(t, `
fun classify(x: Int) -> Int {
  match x {
    0 => 100,
    n if n > 0 => 1,
    _ => -1,
  }
}`)
	fn := prog.Statements[0].(*ast.FunctionDecl)
	match, ok := fn.Body.Tail.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("expected *ast.MatchExpr tail, got %T", fn.Body.Tail)
	}
	if len(match.Arms) != 3 {
		t.Fatalf("expected 3 arms, got %d", len(match.Arms))
	}
	if match.Arms[1].Guard == nil {
		t.Fatalf("expected guard on second arm")
	}
	if _, ok := match.Arms[2].Pattern.(*ast.WildcardPattern); !ok {
		t.Fatalf("expected wildcard pattern on last arm, got %T", match.Arms[2].Pattern)
	}
}

func TestParseStructAndEnumDecl(t *testing.T) {
	prog := mustParse(t, `
struct Point { x: Int, y: Int }
enum Shape { Circle(Int), Square(Int), Empty }
`)
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
	sd := prog.Statements[0].(*ast.StructDecl)
	if len(sd.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(sd.Fields))
	}
	ed := prog.Statements[1].(*ast.EnumDecl)
	if len(ed.Variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(ed.Variants))
	}
}

func TestParseStringInterpolation(t *testing.T) {
	prog := mustParse(t, `let msg = "a{1+1}b"`)
	let := prog.Statements[0].(*ast.LetExpr)
	interp, ok := let.Value.(*ast.StringInterp)
	if !ok {
		t.Fatalf("expected *ast.StringInterp, got %T", let.Value)
	}
	if len(interp.Parts) != 3 {
		t.Fatalf("expected 3 parts, got %d: %+v", len(interp.Parts), interp.Parts)
	}
	if interp.Parts[0].Text != "a" || interp.Parts[2].Text != "b" {
		t.Fatalf("unexpected parts: %+v", interp.Parts)
	}
	if interp.Parts[1].Expr == nil {
		t.Fatalf("expected interpolated expression in middle part")
	}
}

func TestParseLambdaAndPipeline(t *testing.T) {
	prog := mustParse(t, `let f = |x| x * 2`)
	let := prog.Statements[0].(*ast.LetExpr)
	lam, ok := let.Value.(*ast.Lambda)
	if !ok {
		t.Fatalf("expected *ast.Lambda, got %T", let.Value)
	}
	if len(lam.Params) != 1 {
		t.Fatalf("expected 1 param, got %d", len(lam.Params))
	}
}

func TestParseTryCatchFinally(t *testing.T) {
	prog := mustParse(t, `
fun f() -> Int {
  try { 1 } catch e { 2 } finally { 3 }
}`)
	fn := prog.Statements[0].(*ast.FunctionDecl)
	tr, ok := fn.Body.Tail.(*ast.TryExpr)
	if !ok {
		t.Fatalf("expected *ast.TryExpr, got %T", fn.Body.Tail)
	}
	if tr.Handler == nil || tr.Finally == nil {
		t.Fatalf("expected handler and finally blocks, got %+v", tr)
	}
}

func TestParseRecoversFromUnexpectedToken(t *testing.T) {
	prog, diags := ParseProgram(`let x =; let y = 2`)
	if !diags.HasErrors() {
		t.Fatalf("expected parse errors for malformed input")
	}
	if prog == nil {
		t.Fatalf("expected a non-nil program even on error")
	}
}

func TestParseNeverPanics(t *testing.T) {
	inputs := []string{
		"", "{{{", "fun", "let", "match x {", "1 +", "\"unterminated",
		"struct S {", "impl", "for x in", "|||", "a.b.c.d(",
	}
	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("parser panicked on %q: %v", in, r)
				}
			}()
			ParseProgram(in)
		}()
	}
}

func TestParseAttributeAttachesToNextItem(t *testing.T) {
	prog := mustParse(t, `
		#[inline]
		fun helper(x: Int) -> Int { x + 1 }
		fun caller(x: Int) -> Int { helper(x) }
	`)
	fn, ok := prog.Statements[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected *ast.FunctionDecl, got %T", prog.Statements[0])
	}
	if len(fn.Attributes) != 1 || fn.Attributes[0].Name != "inline" {
		t.Fatalf("expected the inline attribute on helper, got %+v", fn.Attributes)
	}
	second, ok := prog.Statements[1].(*ast.FunctionDecl)
	if !ok || len(second.Attributes) != 0 {
		t.Fatalf("attribute leaked onto the following declaration: %+v", prog.Statements[1])
	}
}

func TestParseAttributeWithArgs(t *testing.T) {
	prog := mustParse(t, `
		#[cfg(test, debug)]
		struct Probe { n: Int }
	`)
	st, ok := prog.Statements[0].(*ast.StructDecl)
	if !ok {
		t.Fatalf("expected *ast.StructDecl, got %T", prog.Statements[0])
	}
	if len(st.Attributes) != 1 || st.Attributes[0].Name != "cfg" || len(st.Attributes[0].Args) != 2 {
		t.Fatalf("got %+v", st.Attributes)
	}
}

// Assignment is right-associative: `a = b = c` is `a = (b = c)`, and a
// chained assignment raises no invalid-target diagnostic.
func TestParseChainedAssignmentIsRightAssociative(t *testing.T) {
	prog := mustParse(t, `a = b = c`)
	outer, ok := prog.Statements[0].(*ast.AssignExpr)
	if !ok {
		t.Fatalf("expected *ast.AssignExpr, got %T", prog.Statements[0])
	}
	if ident, ok := outer.Target.(*ast.Identifier); !ok || ident.Value != "a" {
		t.Fatalf("expected target a, got %+v", outer.Target)
	}
	inner, ok := outer.Value.(*ast.AssignExpr)
	if !ok {
		t.Fatalf("expected nested assignment on the right, got %T", outer.Value)
	}
	if ident, ok := inner.Target.(*ast.Identifier); !ok || ident.Value != "b" {
		t.Fatalf("expected inner target b, got %+v", inner.Target)
	}
}
