package mir

import "github.com/ruchy-lang/ruchy/internal/diagnostics"

// InlineBudget bounds the statement count of a function still eligible
// for inlining.
const InlineBudget = 16

// OptimizeProgram runs the fold -> propagate -> DCE -> inline pipeline
// over every function, repeating until no pass reports a change or the
// hard round cap is hit.
func OptimizeProgram(prog *Program, diags *diagnostics.Sink) {
	for _, f := range prog.Functions {
		optimizeFunction(f, prog, diags)
	}
}

func optimizeFunction(f *Function, prog *Program, diags *diagnostics.Sink) {
	const maxRounds = 8
	for round := 0; round < maxRounds; round++ {
		changed := false
		changed = foldConstants(f, diags) || changed
		changed = propagateConstants(f) || changed
		changed = eliminateDeadCode(f) || changed
		changed = inlineCalls(f, prog) || changed
		if !changed {
			break
		}
	}
}

func forEachStatement(f *Function, fn func(b *BasicBlock, i int, s *Statement)) {
	for _, b := range f.Blocks {
		for i := range b.Statements {
			fn(b, i, &b.Statements[i])
		}
	}
}

// constOf extracts a foldable literal from a statement's rvalue, if any.
func constOf(f *Function, local int) (Rvalue, bool) {
	for _, b := range f.Blocks {
		for _, s := range b.Statements {
			if s.Dest != local {
				continue
			}
			switch s.Rvalue.(type) {
			case ConstInt, ConstFloat, ConstBool, ConstString, ConstUnit:
				return s.Rvalue, true
			}
		}
	}
	return nil, false
}
