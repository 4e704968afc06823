// Package ruchy exposes the toolchain's library entry points: parse,
// infer, transpile, interpret, and the bytecode compile/run pair. The
// CLI in cmd/ruchy is a thin shell over these; embedding hosts call
// them directly.
package ruchy

import (
	"context"

	"github.com/ruchy-lang/ruchy/internal/arena"
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diagnostics"
	"github.com/ruchy-lang/ruchy/internal/infer"
	"github.com/ruchy-lang/ruchy/internal/interp"
	"github.com/ruchy-lang/ruchy/internal/mir"
	"github.com/ruchy-lang/ruchy/internal/parser"
	"github.com/ruchy-lang/ruchy/internal/transpile"
	"github.com/ruchy-lang/ruchy/internal/typesystem"
	"github.com/ruchy-lang/ruchy/internal/vm"
)

// Re-exported aliases so embedding hosts can name the types the entry
// points traffic in without reaching into internal packages.
type (
	Program     = ast.Program
	Node        = ast.Node
	Type        = typesystem.Type
	Diagnostics = diagnostics.Sink
	Value       = interp.Value
	Chunk       = vm.Chunk
	Budget      = arena.Budget
)

// Parse lexes and parses source into a best-effort AST plus every
// diagnostic collected along the way. It is total: any byte sequence
// yields a result, never a panic.
func Parse(source string) (*Program, *Diagnostics) {
	return parser.ParseProgram(source)
}

// Infer runs Hindley–Milner inference over a parsed program, returning
// the node-to-type table and the collected diagnostics. Errors do not
// abort inference; one call surfaces as many as possible.
func Infer(prog *Program) (map[Node]Type, *Diagnostics) {
	return infer.InferProgram(prog)
}

// Transpile emits Rust source for a parsed program, running inference
// first for the type table the emitter trusts.
func Transpile(prog *Program) (string, *Diagnostics) {
	types, diags := infer.InferProgram(prog)
	if diags.HasErrors() {
		return "", diags
	}
	return transpile.Transpile(prog, types)
}

// Interpret tree-walks a program under the given resource budget (nil
// for unbounded), returning the value of its last statement.
func Interpret(prog *Program, budget *Budget) (Value, error) {
	return InterpretContext(context.Background(), prog, budget)
}

// InterpretContext is Interpret with a host cancellation context,
// consulted between interpreter steps.
func InterpretContext(ctx context.Context, prog *Program, budget *Budget) (Value, error) {
	in := interp.New()
	in.Budget = budget
	return in.RunContext(ctx, prog)
}

// CompileBytecode lowers a program through MIR, optimizes it, and
// compiles every function to a chunk. Optimizer warnings (e.g. division
// by a literal zero) land in the returned sink.
func CompileBytecode(prog *Program) (map[string]*Chunk, *Diagnostics) {
	types, diags := infer.InferProgram(prog)
	if diags.HasErrors() {
		return nil, diags
	}
	mp := mir.LowerProgram(prog, types, diags)
	if diags.HasErrors() {
		return nil, diags
	}
	mir.OptimizeProgram(mp, diags)
	return vm.Compile(mp), diags
}

// VMRun executes a compiled program's main function on the stack VM
// under the given budget (nil for unbounded).
func VMRun(chunks map[string]*Chunk, budget *Budget) (vm.Value, error) {
	machine := vm.NewVM(chunks)
	machine.Budget = budget
	return machine.Run("main", nil)
}
