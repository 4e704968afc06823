package mir

import "github.com/ruchy-lang/ruchy/internal/typesystem"

// inlineCalls substitutes eligible single-block callees directly into
// their call sites. A callee is eligible when it
// has a single return, fewer statements than InlineBudget, never calls
// itself, and is private to the unit or marked #[inline]. Multi-block
// callees (loops, branches) are left as ordinary calls: splicing their
// control flow into the caller's CFG and rewriting the callee's return
// into a jump to a caller continuation is a larger transform than this
// pass attempts; the common case, a small straight-line helper, is
// exactly the single-block shape this covers.
func inlineCalls(f *Function, prog *Program) bool {
	byName := map[string]*Function{}
	for _, fn := range prog.Functions {
		byName[fn.Name] = fn
	}
	changed := false
	for _, b := range f.Blocks {
		var out []Statement
		for _, s := range b.Statements {
			call, ok := s.Rvalue.(Call)
			if !ok {
				out = append(out, s)
				continue
			}
			target, ok := byName[call.Func]
			if !ok || !eligibleForInline(target, f.Name) {
				out = append(out, s)
				continue
			}
			ret, inlined := inlineInto(f, target, call.Args)
			out = append(out, inlined...)
			out = append(out, Statement{Dest: s.Dest, Rvalue: Copy{Src: ret}})
			changed = true
		}
		b.Statements = out
	}
	return changed
}

func eligibleForInline(target *Function, callerName string) bool {
	if target.Name == callerName {
		return false
	}
	if !target.Private && !target.Inline {
		return false
	}
	if len(target.Blocks) != 1 {
		return false
	}
	if _, ok := target.Blocks[0].Term.(Return); !ok {
		return false
	}
	for _, s := range target.Blocks[0].Statements {
		if c, ok := s.Rvalue.(Call); ok && c.Func == target.Name {
			return false
		}
	}
	return len(target.Blocks[0].Statements) < InlineBudget
}

// inlineInto copies target's single block into a fresh set of locals
// owned by f, binding target's parameters directly to args (no Copy
// needed since a parameter is just an alias for the caller's operand),
// and returns the local id holding the callee's return value.
func inlineInto(f *Function, target *Function, args []int) (int, []Statement) {
	mapping := map[int]int{}
	for i, p := range target.Params {
		if i < len(args) {
			mapping[p] = args[i]
		}
	}
	for _, local := range target.Locals {
		if _, bound := mapping[local.ID]; bound {
			continue
		}
		mapping[local.ID] = f.newLocal(local.Name, local.Type)
	}
	var out []Statement
	for _, s := range target.Blocks[0].Statements {
		out = append(out, Statement{Dest: mapping[s.Dest], Rvalue: translateRvalue(s.Rvalue, mapping)})
	}
	ret := target.Blocks[0].Term.(Return)
	retLocal := ret.Value
	if retLocal >= 0 {
		retLocal = mapping[retLocal]
	} else {
		retLocal = f.newLocal("", typesystem.TUnit)
		out = append(out, Statement{Dest: retLocal, Rvalue: ConstUnit{}})
	}
	return retLocal, out
}

func translateRvalue(rv Rvalue, mapping map[int]int) Rvalue {
	tr := func(id int) int {
		if m, ok := mapping[id]; ok {
			return m
		}
		return id
	}
	switch n := rv.(type) {
	case Copy:
		return Copy{Src: tr(n.Src)}
	case BinaryOp:
		return BinaryOp{Op: n.Op, Left: tr(n.Left), Right: tr(n.Right)}
	case UnaryOp:
		return UnaryOp{Op: n.Op, Src: tr(n.Src)}
	case Call:
		args := make([]int, len(n.Args))
		for i, a := range n.Args {
			args[i] = tr(a)
		}
		return Call{Func: n.Func, Args: args}
	case Aggregate:
		elems := make([]int, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = tr(e)
		}
		return Aggregate{Kind: n.Kind, Elems: elems}
	case Phi:
		incoming := make([]PhiEdge, len(n.Incoming))
		for i, e := range n.Incoming {
			incoming[i] = PhiEdge{Block: e.Block, Local: tr(e.Local)}
		}
		return Phi{Incoming: incoming}
	default:
		return rv
	}
}
