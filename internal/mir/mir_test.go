package mir

import (
	"testing"

	"github.com/ruchy-lang/ruchy/internal/diagnostics"
	"github.com/ruchy-lang/ruchy/internal/infer"
	"github.com/ruchy-lang/ruchy/internal/parser"
)

func mustLower(t *testing.T, src string) *Program {
	t.Helper()
	prog, diags := parser.ParseProgram(src)
	if diags.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", src, diags.All())
	}
	types, typeDiags := infer.InferProgram(prog)
	if typeDiags.HasErrors() {
		t.Fatalf("unexpected type errors for %q: %v", src, typeDiags.All())
	}
	lowerDiags := &diagnostics.Sink{}
	mp := LowerProgram(prog, types, lowerDiags)
	if lowerDiags.HasErrors() {
		t.Fatalf("unexpected lowering errors for %q: %v", src, lowerDiags.All())
	}
	return mp
}

func fn(mp *Program, name string) *Function {
	for _, f := range mp.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// TestFoldLetArithmetic: `let x = 2 + 3 in x * x` should fold to a
// single constant plus return.
func TestFoldLetArithmetic(t *testing.T) {
	mp := mustLower(t, `fun f() -> Int { let x = 2 + 3 in x * x }`)
	f := fn(mp, "f")
	if f == nil {
		t.Fatal("function f not lowered")
	}
	OptimizeProgram(mp, &diagnostics.Sink{})

	if len(f.Blocks) != 1 {
		t.Fatalf("expected a single block after optimization, got %d", len(f.Blocks))
	}
	b := f.Blocks[0]
	ret, ok := b.Term.(Return)
	if !ok {
		t.Fatalf("expected Return terminator, got %T", b.Term)
	}
	var foundConst25 bool
	for _, s := range b.Statements {
		if ci, ok := s.Rvalue.(ConstInt); ok {
			if ci.Value == 25 {
				foundConst25 = true
			}
			if s.Dest == ret.Value && ci.Value == 25 {
				foundConst25 = true
			}
		}
	}
	if !foundConst25 {
		t.Fatalf("expected a folded Const(25), got statements %+v", b.Statements)
	}
}

func TestDeadCodeEliminatesUnusedLocal(t *testing.T) {
	mp := mustLower(t, `fun f() -> Int { let unused = 1 + 1; 2 }`)
	f := fn(mp, "f")
	before := len(f.Blocks[0].Statements)
	OptimizeProgram(mp, &diagnostics.Sink{})
	after := len(f.Blocks[0].Statements)
	if after >= before {
		t.Fatalf("expected dead-code elimination to shrink statement count, before=%d after=%d", before, after)
	}
	for _, s := range f.Blocks[0].Statements {
		if bop, ok := s.Rvalue.(BinaryOp); ok && bop.Op == BAdd {
			t.Fatalf("unused addition should have been eliminated, found %+v", s)
		}
	}
}

func TestInlineEliminatesSmallHelperCall(t *testing.T) {
	mp := mustLower(t, `
		fun helper(x: Int) -> Int { x + 1 }
		fun main() -> Int { helper(41) }
	`)
	OptimizeProgram(mp, &diagnostics.Sink{})
	main := fn(mp, "main")
	if main == nil {
		t.Fatal("function main not lowered")
	}
	for _, b := range main.Blocks {
		for _, s := range b.Statements {
			if call, ok := s.Rvalue.(Call); ok && call.Func == "helper" {
				t.Fatalf("expected helper call to be inlined away, found %+v", call)
			}
		}
	}
}

func TestOptimizeNeverPanics(t *testing.T) {
	sources := []string{
		``,
		`fun f() -> Int { 1 }`,
		`fun f(x: Int) -> Int { if x > 0 { x } else { -x } }`,
		`fun f() -> Int { let mut i = 0; while i < 10 { i += 1 }; i }`,
		`fun f() -> Int { loop { break 5 } }`,
		`fun f(x: Int) -> Bool { x > 0 && x < 10 }`,
		`fun f(x: Int) -> Int { x / 0 }`,
		`fun rec(n: Int) -> Int { if n <= 1 { 1 } else { n * rec(n - 1) } }`,
	}
	for _, src := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("panic lowering/optimizing %q: %v", src, r)
				}
			}()
			prog, diags := parser.ParseProgram(src)
			if diags.HasErrors() {
				return
			}
			types, _ := infer.InferProgram(prog)
			mp := LowerProgram(prog, types, &diagnostics.Sink{})
			OptimizeProgram(mp, &diagnostics.Sink{})
		}()
	}
}

// TestMatchLowersToDecisionTree: each arm becomes a test block chain
// branching to the next arm on failure, with the exhaustion fall-off
// ending in an Unreachable terminator.
func TestMatchLowersToDecisionTree(t *testing.T) {
	mp := mustLower(t, `
		fun classify(n: Int) -> Int {
			match n {
				0 => 1,
				m if m > 5 => 2,
				_ => 3,
			}
		}
	`)
	f := fn(mp, "classify")
	if f == nil {
		t.Fatal("function classify not lowered")
	}
	branches := 0
	unreachables := 0
	for _, b := range f.Blocks {
		switch b.Term.(type) {
		case Branch:
			branches++
		case Unreachable:
			unreachables++
		}
	}
	if branches < 2 {
		t.Fatalf("expected at least 2 decision branches (literal test, guard), got %d", branches)
	}
	if unreachables != 1 {
		t.Fatalf("expected exactly one exhaustion trap block, got %d", unreachables)
	}
}

func TestMatchTuplePatternProjects(t *testing.T) {
	mp := mustLower(t, `
		fun add(n: Int) -> Int {
			match (n, 2) {
				(0, y) => y,
				(x, y) => x + y,
			}
		}
	`)
	f := fn(mp, "add")
	projs := 0
	for _, b := range f.Blocks {
		for _, s := range b.Statements {
			if _, ok := s.Rvalue.(Proj); ok {
				projs++
			}
		}
	}
	if projs < 2 {
		t.Fatalf("expected tuple patterns to lower through Proj, found %d", projs)
	}
}

// Constructs with no bytecode runtime must surface as diagnostics, not
// lower to a silent no-op.
func TestLoweringUnsupportedConstructIsDiagnosed(t *testing.T) {
	sources := []string{
		`fun f() -> Int { let g = |x| x + 1; 0 }`,
		`fun f(xs: [Int]) -> Int { xs.len() }`,
		`fun f() -> Int { for x in [1, 2] { 0 }; 1 }`,
		`fun f() -> Int { try { 1 } catch e { 2 } }`,
	}
	for _, src := range sources {
		prog, diags := parser.ParseProgram(src)
		if diags.HasErrors() {
			t.Fatalf("unexpected parse errors for %q: %v", src, diags.All())
		}
		types, _ := infer.InferProgram(prog)
		sink := &diagnostics.Sink{}
		LowerProgram(prog, types, sink)
		if !sink.HasErrors() {
			t.Fatalf("expected an unsupported-construct diagnostic for %q", src)
		}
	}
}
