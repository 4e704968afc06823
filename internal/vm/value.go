// Package vm is the bytecode backend: a compiler from
// internal/mir.Program into a flat, register-addressed instruction
// array, and a stack-of-frames VM that executes it. Selected by
// `cmd/ruchy run --vm-mode bytecode` as the alternative to the
// internal/interp tree-walker; both backends must agree on every
// program's observable result.
//
// The instruction format follows MIR's own value/operand shape: MIR
// locals are already register slots (internal/mir.Local.ID), so this VM
// is register-addressed rather than stack-addressed, and values are the
// small set MIR's Rvalue constructors produce (Int/Float/Bool/String/
// Unit/Tuple) rather than the tree-walker's full Value catalogue.
package vm

import (
	"fmt"
	"strings"
)

// Value is the bytecode VM's runtime value. It mirrors the subset of
// internal/interp.Value that internal/mir.Rvalue can actually produce;
// Lists/Records/Closures stay tree-walk-only since MIR has no lowering
// for them yet.
type Value interface{ Inspect() string }

type VInt int64
type VFloat float64
type VBool bool
type VString string
type VUnit struct{}
type VTuple struct{ Elems []Value }

func (v VInt) Inspect() string    { return fmt.Sprintf("%d", int64(v)) }
func (v VFloat) Inspect() string  { return fmt.Sprintf("%g", float64(v)) }
func (v VBool) Inspect() string   { return fmt.Sprintf("%t", bool(v)) }
func (v VString) Inspect() string { return string(v) }
func (VUnit) Inspect() string     { return "()" }
func (v VTuple) Inspect() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.Inspect()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func truthy(v Value) bool {
	b, ok := v.(VBool)
	return ok && bool(b)
}
