package vm

import (
	"testing"

	"github.com/ruchy-lang/ruchy/internal/diagnostics"
	"github.com/ruchy-lang/ruchy/internal/infer"
	"github.com/ruchy-lang/ruchy/internal/mir"
	"github.com/ruchy-lang/ruchy/internal/parser"
)

func compileAndRun(t *testing.T, src, entry string, args []Value) Value {
	t.Helper()
	prog, diags := parser.ParseProgram(src)
	if diags.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", diags.All())
	}
	types, _ := infer.InferProgram(prog)
	sink := &diagnostics.Sink{}
	mirProg := mir.LowerProgram(prog, types, sink)
	if sink.HasErrors() {
		t.Fatalf("unexpected lowering errors: %v", sink.All())
	}
	mir.OptimizeProgram(mirProg, sink)
	chunks := Compile(mirProg)
	v, err := NewVM(chunks).Run(entry, args)
	if err != nil {
		t.Fatalf("vm run error: %v", err)
	}
	return v
}

func TestArithmeticFunction(t *testing.T) {
	src := `
		fun square(n: Int) -> Int {
			n * n
		}
	`
	v := compileAndRun(t, src, "square", []Value{VInt(7)})
	if iv, ok := v.(VInt); !ok || iv != 49 {
		t.Fatalf("expected 49, got %v", v)
	}
}

func TestIfMergesThroughPhi(t *testing.T) {
	src := `
		fun abs(n: Int) -> Int {
			if n < 0 { 0 - n } else { n }
		}
	`
	v := compileAndRun(t, src, "abs", []Value{VInt(-5)})
	if iv, ok := v.(VInt); !ok || iv != 5 {
		t.Fatalf("expected 5, got %v", v)
	}
	v2 := compileAndRun(t, src, "abs", []Value{VInt(5)})
	if iv, ok := v2.(VInt); !ok || iv != 5 {
		t.Fatalf("expected 5, got %v", v2)
	}
}

func TestRecursiveCall(t *testing.T) {
	src := `
		fun fact(n: Int) -> Int {
			if n <= 1 { 1 } else { n * fact(n - 1) }
		}
	`
	v := compileAndRun(t, src, "fact", []Value{VInt(6)})
	if iv, ok := v.(VInt); !ok || iv != 720 {
		t.Fatalf("expected 720, got %v", v)
	}
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	src := `
		fun bad(n: Int) -> Int {
			10 / n
		}
	`
	prog, diags := parser.ParseProgram(src)
	if diags.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", diags.All())
	}
	types, _ := infer.InferProgram(prog)
	mirProg := mir.LowerProgram(prog, types, &diagnostics.Sink{})
	mir.OptimizeProgram(mirProg, &diagnostics.Sink{})
	chunks := Compile(mirProg)
	_, err := NewVM(chunks).Run("bad", []Value{VInt(0)})
	if err == nil {
		t.Fatalf("expected a division-by-zero error")
	}
}

func TestMatchOnTupleThroughDecisionTree(t *testing.T) {
	src := `
		fun pick(n: Int) -> Int {
			match (n, 2) {
				(0, y) => y,
				(x, y) => x + y,
			}
		}
	`
	v := compileAndRun(t, src, "pick", []Value{VInt(0)})
	if iv, ok := v.(VInt); !ok || iv != 2 {
		t.Fatalf("expected 2 from the first arm, got %v", v)
	}
	v2 := compileAndRun(t, src, "pick", []Value{VInt(1)})
	if iv, ok := v2.(VInt); !ok || iv != 3 {
		t.Fatalf("expected 3 from the second arm, got %v", v2)
	}
}

func TestMatchGuardFallsThroughToNextArm(t *testing.T) {
	src := `
		fun classify(n: Int) -> Int {
			match n {
				0 => 1,
				m if m > 5 => 2,
				_ => 3,
			}
		}
	`
	cases := map[int64]int64{0: 1, 9: 2, 3: 3}
	for in, want := range cases {
		v := compileAndRun(t, src, "classify", []Value{VInt(in)})
		if iv, ok := v.(VInt); !ok || int64(iv) != want {
			t.Fatalf("classify(%d): expected %d, got %v", in, want, v)
		}
	}
}
