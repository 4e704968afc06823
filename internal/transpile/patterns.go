package transpile

import "github.com/ruchy-lang/ruchy/internal/ast"

// emitPattern emits a pattern directly in the target's own pattern
// syntax  — Rust's match-arm pattern grammar is close enough to
// the source language's own that no desugaring into guard chains is
// needed, unlike string interpolation or vec-repeat literals.
func (tr *Transpiler) emitPattern(p ast.Pattern) {
	switch n := p.(type) {
	case *ast.WildcardPattern:
		tr.write("_")
	case *ast.IdentPattern:
		tr.write(ident(n.Name))
	case *ast.LiteralPattern:
		tr.emitExpr(n.Literal)
	case *ast.RangePattern:
		tr.emitExpr(n.Low)
		if n.Inclusive {
			tr.write("..=")
		} else {
			tr.write("..")
		}
		tr.emitExpr(n.High)
	case *ast.TuplePattern:
		tr.write("(")
		for i, e := range n.Elements {
			if i > 0 {
				tr.write(", ")
			}
			tr.emitPattern(e)
		}
		tr.write(")")
	case *ast.ListPattern:
		tr.write("[")
		for i, e := range n.Elements {
			if i > 0 {
				tr.write(", ")
			}
			tr.emitPattern(e)
		}
		if n.Rest != nil {
			if len(n.Elements) > 0 {
				tr.write(", ")
			}
			tr.write("rest @..")
		}
		tr.write("]")
	case *ast.StructPattern:
		tr.write(ident(n.Name))
		tr.write(" { ")
		for i, f := range n.Fields {
			if i > 0 {
				tr.write(", ")
			}
			tr.write(ident(f.Name))
			if f.Pattern != nil {
				tr.write(": ")
				tr.emitPattern(f.Pattern)
			}
		}
		tr.write(" }")
	case *ast.VariantPattern:
		tr.write(ident(n.Name))
		if len(n.Payload) > 0 {
			tr.write("(")
			for i, e := range n.Payload {
				if i > 0 {
					tr.write(", ")
				}
				tr.emitPattern(e)
			}
			tr.write(")")
		}
	case *ast.OrPattern:
		for i, alt := range n.Alternatives {
			if i > 0 {
				tr.write(" | ")
			}
			tr.emitPattern(alt)
		}
	case *ast.GuardedPattern:
		tr.emitPattern(n.Inner)
	default:
		tr.write("_")
	}
}
