// Package transpile emits Rust source tokens directly from the AST —
// the second of the three backends on the pipeline's fork
// (interpreter / transpiler / MIR+VM). Emission trusts the type table
// the inferencer produced rather than re-checking anything; a node with
// no resolved type is emitted as a placeholder and recorded as a
// diagnostic instead of aborting the whole run, matching the
// non-aborting diagnostics discipline every other stage follows.
//
// The emitter is a buffer-plus-indent printer. Every binary operation
// is emitted wrapped in its own parentheses, so no operator precedence
// comparison is needed and source parens are not tracked.
package transpile

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diagnostics"
	"github.com/ruchy-lang/ruchy/internal/typesystem"
)

// reserved is the Rust keyword set. A source identifier colliding with
// one of these is suffixed with `_` on emission.
var reserved = map[string]bool{
	"as": true, "break": true, "const": true, "continue": true, "crate": true,
	"dyn": true, "else": true, "enum": true, "extern": true, "false": true,
	"fn": true, "for": true, "if": true, "impl": true, "in": true, "let": true,
	"loop": true, "match": true, "mod": true, "move": true, "mut": true,
	"pub": true, "ref": true, "return": true, "self": true, "Self": true,
	"static": true, "struct": true, "super": true, "trait": true, "true": true,
	"type": true, "unsafe": true, "use": true, "where": true, "while": true,
	"async": true, "await": true, "abstract": true, "become": true, "box": true,
	"do": true, "final": true, "macro": true, "override": true, "priv": true,
	"typeof": true, "unsized": true, "virtual": true, "yield": true, "try": true,
}

func ident(name string) string {
	if reserved[name] {
		return name + "_"
	}
	return name
}

// Transpiler holds emission state for one Transpile call. It is not
// reentrant across calls (the buffer and indent level are call-scoped),
// but a single instance performs no I/O and touches no shared state, so
// the package as a whole is pure and safe to invoke concurrently from
// independent Transpiler values.
type Transpiler struct {
	buf    bytes.Buffer
	indent int
	types  map[ast.Node]typesystem.Type
	diags  *diagnostics.Sink
}

// Transpile emits prog as Rust source text. types is the inferencer's
// per-node type table; it may be nil, in which case every node is
// treated as having an unresolved type and emitted as a placeholder.
func Transpile(prog *ast.Program, types map[ast.Node]typesystem.Type) (string, *diagnostics.Sink) {
	tr := &Transpiler{types: types, diags: &diagnostics.Sink{}}
	for _, stmt := range prog.Statements {
		tr.emitTopLevel(stmt)
	}
	return tr.buf.String(), tr.diags
}

func (tr *Transpiler) writeIndent() {
	tr.buf.WriteString(strings.Repeat("    ", tr.indent))
}

func (tr *Transpiler) write(s string) { tr.buf.WriteString(s) }

func (tr *Transpiler) writeLine(s string) {
	tr.writeIndent()
	tr.buf.WriteString(s)
	tr.buf.WriteByte('\n')
}

// resolved reports whether n has a known type, and emits a placeholder
// plus an ErrX001 diagnostic when it doesn't.
func (tr *Transpiler) resolved(n ast.Node) bool {
	if tr.types == nil {
		tr.emitUnresolved(n)
		return false
	}
	if _, ok := tr.types[n]; ok {
		return true
	}
	tr.emitUnresolved(n)
	return false
}

func (tr *Transpiler) emitUnresolved(n ast.Node) {
	tr.diags.Add(diagnostics.NewError(diagnostics.ErrX001, n.GetToken()))
	tr.write("todo!(/* unresolved type */)")
}

func visibilityPrefix(v ast.Visibility) string {
	if v == ast.Public {
		return "pub "
	}
	return ""
}

func attributesOf(attrs []ast.Attribute) string {
	var b strings.Builder
	for _, a := range attrs {
		if a.Name == "inline" {
			b.WriteString("#[inline]\n")
		} else if len(a.Args) == 0 {
			fmt.Fprintf(&b, "#[%s]\n", a.Name)
		} else {
			fmt.Fprintf(&b, "#[%s(%s)]\n", a.Name, strings.Join(a.Args, ", "))
		}
	}
	return b.String()
}

func (tr *Transpiler) emitAttributes(attrs []ast.Attribute) {
	s := attributesOf(attrs)
	if s == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		tr.writeLine(line)
	}
}
