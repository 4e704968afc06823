package transpile

import (
	"strings"
	"testing"

	"github.com/ruchy-lang/ruchy/internal/infer"
	"github.com/ruchy-lang/ruchy/internal/parser"
)

func mustTranspile(t *testing.T, src string) string {
	t.Helper()
	prog, diags := parser.ParseProgram(src)
	if diags.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", src, diags.All())
	}
	types, typeDiags := infer.InferProgram(prog)
	if typeDiags.HasErrors() {
		t.Fatalf("unexpected type errors for %q: %v", src, typeDiags.All())
	}
	out, transpileDiags := Transpile(prog, types)
	if transpileDiags.HasErrors() {
		t.Fatalf("unexpected transpile errors for %q: %v", src, transpileDiags.All())
	}
	return out
}

func TestTranspileFunctionDecl(t *testing.T) {
	out := mustTranspile(t, `fun add(x: Int, y: Int) -> Int { x + y }`)
	if !strings.Contains(out, "fn add(x: i64, y: i64) -> i64") {
		t.Fatalf("expected a Rust fn signature, got:\n%s", out)
	}
}

func TestTranspileReservedWordSuffixed(t *testing.T) {
	out := mustTranspile(t, `fun type(x: Int) -> Int { x }`)
	if !strings.Contains(out, "fn type_(") {
		t.Fatalf("expected reserved word 'type' suffixed, got:\n%s", out)
	}
}

func TestTranspileIntegerSuffixPassesThrough(t *testing.T) {
	out := mustTranspile(t, `fun f() -> Int { 42i32 }`)
	if !strings.Contains(out, "42i32") {
		t.Fatalf("expected integer suffix preserved, got:\n%s", out)
	}
}

func TestTranspileFloatGetsF64Annotation(t *testing.T) {
	out := mustTranspile(t, `fun f() -> Float { 1.5 }`)
	if !strings.Contains(out, "_f64") {
		t.Fatalf("expected float literal to carry an f64 suffix, got:\n%s", out)
	}
}

func TestTranspileVecRepeatUsesSemicolonForm(t *testing.T) {
	out := mustTranspile(t, `fun f() -> Int { let v = [0; 3]; 0 }`)
	if !strings.Contains(out, "vec![0; 3]") {
		t.Fatalf("expected semicolon-form vec! repeat, got:\n%s", out)
	}
}

func TestTranspileArrayLiteralUsesCommaForm(t *testing.T) {
	out := mustTranspile(t, `fun f() -> Int { let v = [1, 2, 3]; 0 }`)
	if !strings.Contains(out, "vec![1, 2, 3]") {
		t.Fatalf("expected comma-form vec! literal, got:\n%s", out)
	}
}

func TestTranspileStringInterpolation(t *testing.T) {
	out := mustTranspile(t, `fun f(x: Int) -> String { "value is {x}" }`)
	if !strings.Contains(out, `format!("value is {}", x)`) {
		t.Fatalf("expected format! lowering, got:\n%s", out)
	}
}

func TestTranspileMatchEmitsPatterns(t *testing.T) {
	out := mustTranspile(t, `
		fun f(x: Int) -> Int {
			match x {
				0 => 1,
				n => n * 2,
			}
		}
	`)
	if !strings.Contains(out, "match x {") || !strings.Contains(out, "=>") {
		t.Fatalf("expected a match expression, got:\n%s", out)
	}
}

func TestTranspileNeverPanics(t *testing.T) {
	sources := []string{
		``,
		`fun f() -> Int { 1 }`,
		`struct Point { x: Int, y: Int }`,
		`enum Option2 { Some(Int), None }`,
		`fun f(x: Int) -> Int { if x > 0 { x } else { -x } }`,
		`fun f() -> Int { 1 + true }`,
		`let x =`,
	}
	for _, src := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("panic transpiling %q: %v", src, r)
				}
			}()
			prog, _ := parser.ParseProgram(src)
			types, _ := infer.InferProgram(prog)
			Transpile(prog, types)
		}()
	}
}
