package infer

import (
	"testing"

	"github.com/ruchy-lang/ruchy/internal/parser"
	"github.com/ruchy-lang/ruchy/internal/typesystem"
)

func mustInfer(t *testing.T, src string) map[string]typesystem.Type {
	t.Helper()
	prog, diags := parser.ParseProgram(src)
	if diags.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", src, diags.All())
	}
	_, tdiags := InferProgram(prog)
	if tdiags.HasErrors() {
		t.Fatalf("unexpected type errors for %q: %v", src, tdiags.All())
	}
	return nil
}

func TestInferLiterals(t *testing.T) {
	prog, _ := parser.ParseProgram(`let x = 1`)
	types, diags := InferProgram(prog)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.All())
	}
	if len(types) == 0 {
		t.Fatalf("expected some inferred types")
	}
}

func TestInferFunctionAndCall(t *testing.T) {
	mustInfer(t, `
fun add(x: Int, y: Int) -> Int { x + y }
let z = add(1, 2)`)
}

func TestInferIfBranchesMustAgree(t *testing.T) {
	prog, _ := parser.ParseProgram(`let x = if true { 1 } else { "no" }`)
	_, diags := InferProgram(prog)
	if !diags.HasErrors() {
		t.Fatalf("expected a unification error for mismatched if branches")
	}
}

func TestInferUnboundName(t *testing.T) {
	prog, _ := parser.ParseProgram(`let x = y + 1`)
	_, diags := InferProgram(prog)
	if !diags.HasErrors() {
		t.Fatalf("expected an unbound-name error")
	}
}

func TestInferLetPolymorphism(t *testing.T) {
	mustInfer(t, `
let id = |x| x
let a = id(1)
let b = id(true)`)
}

func TestInferRecursiveFunction(t *testing.T) {
	mustInfer(t, `
fun fact(n: Int) -> Int {
  if n <= 1 { 1 } else { n * fact(n - 1) }
}`)
}

func TestInferMutualRecursion(t *testing.T) {
	mustInfer(t, `
fun isEven(n: Int) -> Bool { if n == 0 { true } else { isOdd(n - 1) } }
fun isOdd(n: Int) -> Bool { if n == 0 { false } else { isEven(n - 1) } }`)
}

func TestInferMatchWithGuardAndWildcard(t *testing.T) {
	mustInfer(t, `
fun classify(x: Int) -> Int {
  match x {
    0 => 100,
    n if n > 0 => 1,
    _ => -1,
  }
}`)
}

func TestInferStructFieldAccess(t *testing.T) {
	mustInfer(t, `
struct Point { x: Int, y: Int }
fun sumX(p: Point) -> Int { p.x }`)
}

func TestInferNeverPanics(t *testing.T) {
	inputs := []string{"", "let x =", "fun f(", "match x {}", "1 + true"}
	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("inference panicked on %q: %v", in, r)
				}
			}()
			prog, _ := parser.ParseProgram(in)
			InferProgram(prog)
		}()
	}
}
