package vm

import "github.com/ruchy-lang/ruchy/internal/mir"

// Compile lowers every function in a MIR program into a flat Chunk.
// Block IDs become absolute instruction offsets once the whole function
// has been laid out — a single patch pass, since MIR blocks are already
// in a fixed order rather than emitted incrementally during a tree
// walk.
func Compile(prog *mir.Program) map[string]*Chunk {
	chunks := make(map[string]*Chunk, len(prog.Functions))
	for _, fn := range prog.Functions {
		chunks[fn.Name] = compileFunction(fn)
	}
	return chunks
}

func compileFunction(fn *mir.Function) *Chunk {
	// Block IDs are not dense after dead-code elimination, so the
	// offset table is sized by the highest surviving ID.
	maxID := 0
	for _, b := range fn.Blocks {
		if b.ID > maxID {
			maxID = b.ID
		}
	}
	blockStart := make([]int, maxID+1)
	offset := 0
	for _, b := range fn.Blocks {
		blockStart[b.ID] = offset
		offset += len(b.Statements) + 1 // +1 for the block's terminator
	}

	c := &Chunk{Name: fn.Name, NumLocals: len(fn.Locals), ParamLocs: fn.Params}
	for _, b := range fn.Blocks {
		for _, s := range b.Statements {
			c.Instrs = append(c.Instrs, compileStatement(s))
			c.InstrBlock = append(c.InstrBlock, b.ID)
		}
		c.Instrs = append(c.Instrs, compileTerminator(b.Term, blockStart))
		c.InstrBlock = append(c.InstrBlock, b.ID)
	}
	return c
}

func compileStatement(s mir.Statement) Instr {
	switch rv := s.Rvalue.(type) {
	case mir.ConstInt:
		return Instr{Op: OpLoadConst, Dest: s.Dest, Const: VInt(rv.Value)}
	case mir.ConstFloat:
		return Instr{Op: OpLoadConst, Dest: s.Dest, Const: VFloat(rv.Value)}
	case mir.ConstBool:
		return Instr{Op: OpLoadConst, Dest: s.Dest, Const: VBool(rv.Value)}
	case mir.ConstString:
		return Instr{Op: OpLoadConst, Dest: s.Dest, Const: VString(rv.Value)}
	case mir.ConstUnit:
		return Instr{Op: OpLoadConst, Dest: s.Dest, Const: VUnit{}}
	case mir.Copy:
		return Instr{Op: OpCopy, Dest: s.Dest, A: rv.Src}
	case mir.BinaryOp:
		return Instr{Op: OpBinOp, Dest: s.Dest, A: rv.Left, B: rv.Right, Kind: binOpName(rv.Op)}
	case mir.UnaryOp:
		return Instr{Op: OpUnOp, Dest: s.Dest, A: rv.Src, Kind: unOpName(rv.Op)}
	case mir.Aggregate:
		return Instr{Op: OpAggregate, Dest: s.Dest, Args: rv.Elems, Kind: rv.Kind}
	case mir.Proj:
		return Instr{Op: OpProj, Dest: s.Dest, A: rv.Src, B: rv.Index}
	case mir.Call:
		return Instr{Op: OpCall, Dest: s.Dest, Func: rv.Func, Args: rv.Args}
	case mir.Phi:
		blocks := make([]int, len(rv.Incoming))
		locals := make([]int, len(rv.Incoming))
		for i, edge := range rv.Incoming {
			blocks[i] = edge.Block
			locals[i] = edge.Local
		}
		return Instr{Op: OpPhi, Dest: s.Dest, PhiBlocks: blocks, PhiLocals: locals}
	default:
		return Instr{Op: OpUnreachable}
	}
}

func compileTerminator(t mir.Terminator, blockStart []int) Instr {
	switch term := t.(type) {
	case mir.Return:
		return Instr{Op: OpReturn, A: term.Value}
	case mir.Jump:
		return Instr{Op: OpJump, Target: blockStart[term.Target]}
	case mir.Branch:
		return Instr{Op: OpBranch, A: term.Cond, Target: blockStart[term.TrueTarget], Target2: blockStart[term.FalseTarget]}
	case mir.CallTerm:
		return Instr{Op: OpCall, Dest: term.Dest, Func: term.Func, Args: term.Args, Target: blockStart[term.Cont], IsTerm: true}
	default:
		return Instr{Op: OpUnreachable}
	}
}

func binOpName(op mir.BinOp) string {
	names := map[mir.BinOp]string{
		mir.BAdd: "add", mir.BSub: "sub", mir.BMul: "mul", mir.BDiv: "div", mir.BMod: "mod",
		mir.BEq: "eq", mir.BNeq: "neq", mir.BLt: "lt", mir.BLte: "lte", mir.BGt: "gt", mir.BGte: "gte",
		mir.BBitAnd: "band", mir.BBitOr: "bor", mir.BBitXor: "bxor", mir.BShl: "shl", mir.BShr: "shr",
	}
	return names[op]
}

func unOpName(op mir.UnOp) string {
	names := map[mir.UnOp]string{mir.UNeg: "neg", mir.UNot: "not", mir.UBitNot: "bitnot"}
	return names[op]
}
