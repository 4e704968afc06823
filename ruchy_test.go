package ruchy

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ruchy-lang/ruchy/internal/format"
)

func mustParse(t *testing.T, src string) *Program {
	t.Helper()
	prog, diags := Parse(src)
	if diags.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", src, diags.All())
	}
	return prog
}

func interpret(t *testing.T, src string) Value {
	t.Helper()
	v, err := Interpret(mustParse(t, src), nil)
	if err != nil {
		t.Fatalf("unexpected eval error for %q: %v", src, err)
	}
	return v
}

func TestRecursiveFibonacci(t *testing.T) {
	src := `
		fun f(n: Int) -> Int {
			if n <= 1 { n } else { f(n - 1) + f(n - 2) }
		}
		f(10)
	`
	if got := interpret(t, src).Inspect(); got != "55" {
		t.Fatalf("expected 55, got %s", got)
	}
}

func TestMapSquareSum(t *testing.T) {
	src := `
		let xs = [1, 2, 3]
		xs.map(|x| x * x).sum()
	`
	if got := interpret(t, src).Inspect(); got != "14" {
		t.Fatalf("expected 14, got %s", got)
	}
}

func TestTupleMatch(t *testing.T) {
	src := `match (1, 2) { (0, y) => y, (x, y) => x + y }`
	if got := interpret(t, src).Inspect(); got != "3" {
		t.Fatalf("expected 3, got %s", got)
	}
}

func TestTryCatchDivisionByZero(t *testing.T) {
	src := `try { 1 / 0 } catch e { -1 }`
	if got := interpret(t, src).Inspect(); got != "-1" {
		t.Fatalf("expected -1, got %s", got)
	}
}

func TestStringInterpolation(t *testing.T) {
	src := `let s = "hi {1 + 1}!" in s`
	if got := interpret(t, src).Inspect(); got != `"hi 2!"` {
		t.Fatalf("expected %q, got %q", `"hi 2!"`, got)
	}
}

func TestTranspileVecRepeatKeepsSemicolonForm(t *testing.T) {
	out, diags := Transpile(mustParse(t, `fun f() -> Int { let v = [0; 3]; 0 }`))
	if diags.HasErrors() {
		t.Fatalf("unexpected transpile errors: %v", diags.All())
	}
	if !strings.Contains(out, "vec![0; 3]") {
		t.Fatalf("expected semicolon-form vec! repeat in output:\n%s", out)
	}
}

// Interpreter and VM must agree on closed programs without
// nondeterministic builtins. Each program ends with a top-level main()
// call: the tree walk evaluates it as the program's last statement, and
// the VM (which compiles function declarations only) enters main
// directly, so both backends compute the same value.
func TestInterpreterVMAgreement(t *testing.T) {
	programs := []string{
		`fun main() -> Int { 2 + 3 * 4 } main()`,
		`fun main() -> Int { if 2 < 3 { 10 } else { 20 } } main()`,
		`fun main() -> Int { let x = 2 + 3 in x * x } main()`,
		`
			fun f(n: Int) -> Int {
				if n <= 1 { n } else { f(n - 1) + f(n - 2) }
			}
			fun main() -> Int { f(12) }
			main()
		`,
		`
			fun square(n: Int) -> Int { n * n }
			fun main() -> Int { square(7) + square(2) }
			main()
		`,
		`
			fun main() -> Int {
				match (1, 2) {
					(0, y) => y,
					(x, y) => x + y,
				}
			}
			main()
		`,
		`
			fun classify(n: Int) -> Int {
				match n {
					0 => 1,
					m if m > 5 => 2,
					_ => 3,
				}
			}
			fun main() -> Int { classify(9) + classify(0) + classify(3) }
			main()
		`,
	}
	for _, src := range programs {
		prog := mustParse(t, src)
		treeValue, err := Interpret(prog, nil)
		if err != nil {
			t.Fatalf("interpreter failed for %q: %v", src, err)
		}
		chunks, diags := CompileBytecode(prog)
		if diags.HasErrors() {
			t.Fatalf("bytecode compile failed for %q: %v", src, diags.All())
		}
		vmValue, err := VMRun(chunks, nil)
		if err != nil {
			t.Fatalf("vm failed for %q: %v", src, err)
		}
		if diff := cmp.Diff(treeValue.Inspect(), vmValue.Inspect()); diff != "" {
			t.Fatalf("backends disagree for %q (-interp +vm):\n%s", src, diff)
		}
	}
}

// Formatting a parse result and re-parsing it must preserve structure;
// formatting is idempotent on its own output.
func TestFormatRoundTrip(t *testing.T) {
	sources := []string{
		`fun fact(n: Int) -> Int { if n <= 1 { 1 } else { n * fact(n - 1) } }`,
		`let xs = [1, 2, 3] in xs.map(|x| x + 1)`,
		`match (1, 2) { (0, y) => y, (x, y) => x + y }`,
	}
	for _, src := range sources {
		once := format.Format(mustParse(t, src))
		twice := format.Format(mustParse(t, once))
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Fatalf("format not stable for %q (-first +second):\n%s", src, diff)
		}
	}
}
