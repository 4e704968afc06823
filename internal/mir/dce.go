package mir

// eliminateDeadCode removes unused locals with pure rvalues and blocks
// unreachable from entry. Terminators are left as they are; blocks are
// not merged. Side-effecting calls are never removed.
func eliminateDeadCode(f *Function) bool {
	changed := removeDeadStatements(f)
	changed = removeUnreachableBlocks(f) || changed
	return changed
}

func isPure(rv Rvalue) bool {
	_, isCall := rv.(Call)
	return !isCall
}

func usedLocals(f *Function) map[int]bool {
	used := map[int]bool{}
	mark := func(id int) {
		if id >= 0 {
			used[id] = true
		}
	}
	for _, b := range f.Blocks {
		for _, s := range b.Statements {
			switch rv := s.Rvalue.(type) {
			case Copy:
				mark(rv.Src)
			case BinaryOp:
				mark(rv.Left)
				mark(rv.Right)
			case UnaryOp:
				mark(rv.Src)
			case Call:
				for _, a := range rv.Args {
					mark(a)
				}
			case Aggregate:
				for _, e := range rv.Elems {
					mark(e)
				}
			case Proj:
				mark(rv.Src)
			case Phi:
				for _, e := range rv.Incoming {
					mark(e.Local)
				}
			}
		}
		switch t := b.Term.(type) {
		case Return:
			mark(t.Value)
		case Branch:
			mark(t.Cond)
		case CallTerm:
			for _, a := range t.Args {
				mark(a)
			}
		}
	}
	for _, p := range f.Params {
		mark(p)
	}
	return used
}

func removeDeadStatements(f *Function) bool {
	changed := false
	for {
		used := usedLocals(f)
		round := false
		for _, b := range f.Blocks {
			kept := b.Statements[:0]
			for _, s := range b.Statements {
				if !used[s.Dest] && isPure(s.Rvalue) {
					round = true
					continue
				}
				kept = append(kept, s)
			}
			b.Statements = kept
		}
		if !round {
			break
		}
		changed = true
	}
	return changed
}

func removeUnreachableBlocks(f *Function) bool {
	if len(f.Blocks) == 0 {
		return false
	}
	reachable := map[int]bool{f.Blocks[0].ID: true}
	worklist := []int{f.Blocks[0].ID}
	byID := map[int]*BasicBlock{}
	for _, b := range f.Blocks {
		byID[b.ID] = b
	}
	for len(worklist) > 0 {
		id := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		b, ok := byID[id]
		if !ok {
			continue
		}
		for _, target := range successors(b.Term) {
			if !reachable[target] {
				reachable[target] = true
				worklist = append(worklist, target)
			}
		}
	}
	changed := false
	kept := f.Blocks[:0]
	for _, b := range f.Blocks {
		if reachable[b.ID] {
			kept = append(kept, b)
		} else {
			changed = true
		}
	}
	f.Blocks = kept
	return changed
}

func successors(t Terminator) []int {
	switch n := t.(type) {
	case Jump:
		return []int{n.Target}
	case Branch:
		return []int{n.TrueTarget, n.FalseTarget}
	case CallTerm:
		return []int{n.Cont}
	default:
		return nil
	}
}
