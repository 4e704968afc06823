package mir

// defOf finds the statement (if any) that defines local across every
// block in f. Every local in this representation is assigned at most
// once (each mir.emit call mints a brand new local), so MIR's "single
// static definition" SSA property holds by construction and
// this lookup is unambiguous.
func defOf(f *Function, local int) (Rvalue, bool) {
	for _, b := range f.Blocks {
		for _, s := range b.Statements {
			if s.Dest == local {
				return s.Rvalue, true
			}
		}
	}
	return nil, false
}

// resolveCopy follows a chain of `dest = Copy(src)` definitions back to
// its ultimate source, so a use of a merely-renamed value can be
// rewritten to reference the original definition directly.
func resolveCopy(f *Function, id int) int {
	seen := map[int]bool{}
	for {
		if seen[id] {
			return id
		}
		seen[id] = true
		rv, ok := defOf(f, id)
		if !ok {
			return id
		}
		cp, ok := rv.(Copy)
		if !ok {
			return id
		}
		id = cp.Src
	}
}

// propagateConstants is an intraprocedural sparse pass: it rewrites
// every operand reference to skip through copy chains, and where the
// resolved source is itself a literal, lets the next foldConstants round
// fold the surrounding operation.
func propagateConstants(f *Function) bool {
	changed := false
	rewrite := func(id int) int {
		r := resolveCopy(f, id)
		if r != id {
			changed = true
		}
		return r
	}
	forEachStatement(f, func(_ *BasicBlock, _ int, s *Statement) {
		switch rv := s.Rvalue.(type) {
		case Copy:
			s.Rvalue = Copy{Src: rewrite(rv.Src)}
		case BinaryOp:
			s.Rvalue = BinaryOp{Op: rv.Op, Left: rewrite(rv.Left), Right: rewrite(rv.Right)}
		case UnaryOp:
			s.Rvalue = UnaryOp{Op: rv.Op, Src: rewrite(rv.Src)}
		case Call:
			args := make([]int, len(rv.Args))
			for i, a := range rv.Args {
				args[i] = rewrite(a)
			}
			s.Rvalue = Call{Func: rv.Func, Args: args}
		case Aggregate:
			elems := make([]int, len(rv.Elems))
			for i, e := range rv.Elems {
				elems[i] = rewrite(e)
			}
			s.Rvalue = Aggregate{Kind: rv.Kind, Elems: elems}
		case Proj:
			s.Rvalue = Proj{Src: rewrite(rv.Src), Index: rv.Index}
		case Phi:
			incoming := make([]PhiEdge, len(rv.Incoming))
			for i, e := range rv.Incoming {
				incoming[i] = PhiEdge{Block: e.Block, Local: rewrite(e.Local)}
			}
			s.Rvalue = Phi{Incoming: incoming}
		}
	})
	for _, b := range f.Blocks {
		switch t := b.Term.(type) {
		case Return:
			if t.Value >= 0 {
				b.Term = Return{Value: rewrite(t.Value)}
			}
		case Branch:
			b.Term = Branch{Cond: rewrite(t.Cond), TrueTarget: t.TrueTarget, FalseTarget: t.FalseTarget}
		case CallTerm:
			args := make([]int, len(t.Args))
			for i, a := range t.Args {
				args[i] = rewrite(a)
			}
			b.Term = CallTerm{Dest: t.Dest, Func: t.Func, Args: args, Cont: t.Cont}
		}
	}
	return changed
}
