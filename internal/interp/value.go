// Package interp is the tree-walking evaluator over the AST: a Value
// interface, an Environment chain, and a syntax-directed Eval dispatch
// over one closed Value set. There are no arbitrary-precision numerics,
// persistent maps, or host object types — the runtime carries exactly
// the value kinds the language surface can produce.
package interp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
)

// Value is the runtime representation every expression evaluates to.
// Values do not carry a typesystem.Type: inference output is advisory
// for this backend, and the dynamic Kind string is enough for every
// runtime dispatch and error message.
type Value interface {
	Kind() string
	Inspect() string
}

type IntValue int64

func (IntValue) Kind() string      { return "Int" }
func (v IntValue) Inspect() string { return strconv.FormatInt(int64(v), 10) }

type FloatValue float64

func (FloatValue) Kind() string      { return "Float" }
func (v FloatValue) Inspect() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

type BoolValue bool

func (BoolValue) Kind() string      { return "Bool" }
func (v BoolValue) Inspect() string { return strconv.FormatBool(bool(v)) }

type CharValue rune

func (CharValue) Kind() string      { return "Char" }
func (v CharValue) Inspect() string { return fmt.Sprintf("%q", rune(v)) }

type StringValue string

func (StringValue) Kind() string      { return "String" }
func (v StringValue) Inspect() string { return strconv.Quote(string(v)) }

type UnitValue struct{}

func (UnitValue) Kind() string    { return "Unit" }
func (UnitValue) Inspect() string { return "()" }

// OptionalValue represents `nil`/`Some(x)`: an explicit empty/present
// pair rather than overloading Go's nil.
type OptionalValue struct {
	Present bool
	Elem    Value
}

func (OptionalValue) Kind() string { return "Optional" }
func (v OptionalValue) Inspect() string {
	if !v.Present {
		return "nil"
	}
	return v.Elem.Inspect()
}

// ListValue is a resizable sequence. Backed by a Go slice of pointer-free Values; mutation
// through assignment targets is handled at the interpreter level by
// replacing list elements in place.
type ListValue struct {
	Elems []Value
}

func (ListValue) Kind() string { return "List" }
func (v ListValue) Inspect() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type TupleValue struct {
	Elems []Value
}

func (TupleValue) Kind() string { return "Tuple" }
func (v TupleValue) Inspect() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.Inspect()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// RecordValue backs both object literals (`{ x: 1, y: 2 }`) and struct
// instances; Order preserves the field declaration/insertion order for
// stable iteration and printing.
type RecordValue struct {
	TypeName string // empty for an anonymous object literal
	Fields   map[string]Value
	Order    []string
}

func (RecordValue) Kind() string { return "Record" }
func (v RecordValue) Inspect() string {
	parts := make([]string, len(v.Order))
	for i, k := range v.Order {
		parts[i] = k + ": " + v.Fields[k].Inspect()
	}
	prefix := v.TypeName
	return prefix + "{ " + strings.Join(parts, ", ") + " }"
}

// VariantValue is an enum instance, e.g. `Some(1)` or `Point{x: 1}`.
type VariantValue struct {
	EnumName    string
	VariantName string
	Tuple       []Value
	Fields      map[string]Value
	FieldOrder  []string
}

func (VariantValue) Kind() string { return "Variant" }
func (v VariantValue) Inspect() string {
	if len(v.Tuple) > 0 {
		parts := make([]string, len(v.Tuple))
		for i, e := range v.Tuple {
			parts[i] = e.Inspect()
		}
		return v.VariantName + "(" + strings.Join(parts, ", ") + ")"
	}
	if len(v.FieldOrder) > 0 {
		parts := make([]string, len(v.FieldOrder))
		for i, k := range v.FieldOrder {
			parts[i] = k + ": " + v.Fields[k].Inspect()
		}
		return v.VariantName + "{ " + strings.Join(parts, ", ") + " }"
	}
	return v.VariantName
}

// SetValue is a small unordered collection with linear-scan
// membership.
type SetValue struct {
	Elems []Value
}

func (SetValue) Kind() string { return "Set" }
func (v SetValue) Inspect() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.Inspect()
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}

// Closure is a callable lambda or named function value. Move closures
// clone their captured environment's bindings at creation time into a
// frame the closure alone owns; ref
// closures instead keep a pointer to the defining Environment so later
// mutation through the shared environment is visible inside the body.
type Closure struct {
	Name   string
	Params []ast.Param
	Body   ast.Expression
	Env    *Environment
}

func (Closure) Kind() string { return "Function" }
func (c Closure) Inspect() string {
	if c.Name != "" {
		return "fn " + c.Name
	}
	return "fn <lambda>"
}

// Builtin wraps a natively-implemented function.
type Builtin struct {
	Name string
	Fn   func(in *Interp, args []Value) (Value, error)
}

func (Builtin) Kind() string      { return "Builtin" }
func (b Builtin) Inspect() string { return "builtin fn " + b.Name }

// Native wraps a host resource (a DB connection, an RPC channel) that
// has no direct representation in the source language's value grammar.
// Kept generic rather than adding one bespoke Value type per external
// dependency, since every such resource is opaque to the language and
// only ever round-trips through its own builtin functions.
type Native struct {
	TypeName string
	Data     interface{}
}

func (n Native) Kind() string    { return n.TypeName }
func (n Native) Inspect() string { return fmt.Sprintf("<%s>", n.TypeName) }

func truthy(v Value) bool {
	switch n := v.(type) {
	case BoolValue:
		return bool(n)
	case UnitValue:
		return false
	case OptionalValue:
		return n.Present
	default:
		return true
	}
}

func valuesEqual(a, b Value) bool {
	switch x := a.(type) {
	case IntValue:
		y, ok := b.(IntValue)
		return ok && x == y
	case FloatValue:
		y, ok := b.(FloatValue)
		return ok && x == y
	case BoolValue:
		y, ok := b.(BoolValue)
		return ok && x == y
	case CharValue:
		y, ok := b.(CharValue)
		return ok && x == y
	case StringValue:
		y, ok := b.(StringValue)
		return ok && x == y
	case UnitValue:
		_, ok := b.(UnitValue)
		return ok
	case OptionalValue:
		y, ok := b.(OptionalValue)
		if !ok || x.Present != y.Present {
			return false
		}
		if !x.Present {
			return true
		}
		return valuesEqual(x.Elem, y.Elem)
	case TupleValue:
		y, ok := b.(TupleValue)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !valuesEqual(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case ListValue:
		y, ok := b.(ListValue)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !valuesEqual(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case VariantValue:
		y, ok := b.(VariantValue)
		return ok && x.VariantName == y.VariantName && x.EnumName == y.EnumName
	default:
		return false
	}
}
