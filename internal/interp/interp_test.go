package interp

import (
	"bytes"
	"testing"

	"github.com/ruchy-lang/ruchy/internal/parser"
)

func mustRun(t *testing.T, src string) (Value, *bytes.Buffer) {
	t.Helper()
	prog, diags := parser.ParseProgram(src)
	if diags.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", src, diags.All())
	}
	in := New()
	out := &bytes.Buffer{}
	in.Out = out
	v, err := in.Run(prog)
	if err != nil {
		t.Fatalf("unexpected eval error for %q: %v", src, err)
	}
	return v, out
}

func TestLetInArithmetic(t *testing.T) {
	v, _ := mustRun(t, `let x = 2 + 3 in x * x`)
	iv, ok := v.(IntValue)
	if !ok || iv != 25 {
		t.Fatalf("expected Int 25, got %v", v)
	}
}

func TestIfExpression(t *testing.T) {
	v, _ := mustRun(t, `if 3 > 2 { "yes" } else { "no" }`)
	sv, ok := v.(StringValue)
	if !ok || sv != "yes" {
		t.Fatalf("expected String \"yes\", got %v", v)
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	src := `
		let mut i = 0
		let mut sum = 0
		while i < 5 {
			sum = sum + i
			i = i + 1
		}
		sum
	`
	v, _ := mustRun(t, src)
	iv, ok := v.(IntValue)
	if !ok || iv != 10 {
		t.Fatalf("expected Int 10, got %v", v)
	}
}

func TestFunctionCallAndRecursion(t *testing.T) {
	src := `
		fun fact(n: Int) -> Int {
			if n <= 1 { 1 } else { n * fact(n - 1) }
		}
		fact(6)
	`
	v, _ := mustRun(t, src)
	iv, ok := v.(IntValue)
	if !ok || iv != 720 {
		t.Fatalf("expected Int 720, got %v", v)
	}
}

func TestClosureCapture(t *testing.T) {
	src := `
		fun make_adder(n: Int) -> fn(Int) -> Int {
			|x| x + n
		}
		let add5 = make_adder(5)
		add5(10)
	`
	v, _ := mustRun(t, src)
	iv, ok := v.(IntValue)
	if !ok || iv != 15 {
		t.Fatalf("expected Int 15, got %v", v)
	}
}

func TestMatchWithGuard(t *testing.T) {
	src := `
		fun classify(n: Int) -> String {
			match n {
				0 => "zero",
				n if n > 0 => "positive",
				_ => "negative",
			}
		}
		classify(-5)
	`
	v, _ := mustRun(t, src)
	sv, ok := v.(StringValue)
	if !ok || sv != "negative" {
		t.Fatalf("expected String \"negative\", got %v", v)
	}
}

func TestBreakWithValue(t *testing.T) {
	src := `
		let mut i = 0
		loop {
			i = i + 1
			if i == 3 {
				break i * 10
			}
		}
	`
	v, _ := mustRun(t, src)
	iv, ok := v.(IntValue)
	if !ok || iv != 30 {
		t.Fatalf("expected Int 30, got %v", v)
	}
}

func TestTryCatchFinallyAlwaysRuns(t *testing.T) {
	src := `
		let mut ran = false
		try {
			throw "boom"
		} catch e {
			e
		} finally {
			ran = true
			println(ran)
		}
	`
	v, out := mustRun(t, src)
	sv, ok := v.(StringValue)
	if !ok || sv != "boom" {
		t.Fatalf("expected caught String \"boom\", got %v", v)
	}
	if out.String() != "true\n" {
		t.Fatalf("expected finally to run and set ran, got output %q", out.String())
	}
}

func TestListMethods(t *testing.T) {
	src := `
		let xs = [1, 2, 3, 4]
		let doubled = xs.map(|x| x * 2)
		doubled.reduce(0, |acc, x| acc + x)
	`
	v, _ := mustRun(t, src)
	iv, ok := v.(IntValue)
	if !ok || iv != 20 {
		t.Fatalf("expected Int 20, got %v", v)
	}
}

func TestPrintWritesToOut(t *testing.T) {
	_, out := mustRun(t, `println("hello")`)
	if out.String() != "hello\n" {
		t.Fatalf("expected \"hello\\n\", got %q", out.String())
	}
}

func TestStackOverflowOnUnboundedRecursion(t *testing.T) {
	src := `
		fun loopForever(n: Int) -> Int {
			loopForever(n + 1)
		}
		loopForever(0)
	`
	prog, diags := parser.ParseProgram(src)
	if diags.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", diags.All())
	}
	in := New()
	_, err := in.Run(prog)
	if err == nil {
		t.Fatalf("expected a stack overflow error, got none")
	}
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Kind != ErrStackOverflow {
		t.Fatalf("expected a StackOverflow RuntimeError, got %v", err)
	}
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	prog, diags := parser.ParseProgram(`1 / 0`)
	if diags.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", diags.All())
	}
	in := New()
	_, err := in.Run(prog)
	if err == nil {
		t.Fatalf("expected a division by zero error")
	}
	rerr, ok := err.(*RuntimeError)
	if !ok || rerr.Kind != ErrDivisionByZero {
		t.Fatalf("expected a DivisionByZero RuntimeError, got %v", err)
	}
}

func TestEvalNeverPanics(t *testing.T) {
	sources := []string{
		``,
		`1 + 1`,
		`let x =`,
		`fun f() -> Int { f() }`,
		`[1, 2][5]`,
		`match 1 { 2 => "no" }`,
	}
	for _, src := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("panic evaluating %q: %v", src, r)
				}
			}()
			prog, _ := parser.ParseProgram(src)
			in := New()
			in.Run(prog)
		}()
	}
}
