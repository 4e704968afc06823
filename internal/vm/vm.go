package vm

import (
	"context"
	"fmt"
	"math"

	"github.com/ruchy-lang/ruchy/internal/arena"
	"github.com/ruchy-lang/ruchy/internal/config"
)

// frame is one activation record: a register file sized to the chunk's
// local count, a program counter, and the block id execution most
// recently transitioned from (for Phi resolution). Every frame owns its
// register file outright; there is no shared operand stack sliced by
// base offset.
type frame struct {
	chunk   *Chunk
	locals  []Value
	pc      int
	fromBlk int
}

// VM executes compiled MIR chunks. One VM instance is single-use per
// program run.
type VM struct {
	chunks map[string]*Chunk
	frames []*frame
	Trace  bool            // log every instruction before executing it (the CLI's --trace)
	Budget *arena.Budget   // nil means unbounded; consumed once per executed instruction
	Ctx    context.Context // nil means never cancelled; checked between instructions
}

// NewVM constructs a VM over a compiled program. Call Run to execute a
// named function (conventionally "main").
func NewVM(chunks map[string]*Chunk) *VM {
	return &VM{chunks: chunks}
}

// Run executes fnName with the given arguments, to completion or until a
// runtime error or the stack-depth budget is exceeded.
func (vm *VM) Run(fnName string, args []Value) (Value, error) {
	chunk, ok := vm.chunks[fnName]
	if !ok {
		return nil, fmt.Errorf("vm: undefined function %q", fnName)
	}
	return vm.call(chunk, args)
}

// RunContext is Run with a host cancellation context, checked between
// instructions so cancellation granularity is one instruction.
func (vm *VM) RunContext(ctx context.Context, fnName string, args []Value) (Value, error) {
	vm.Ctx = ctx
	return vm.Run(fnName, args)
}

func (vm *VM) call(chunk *Chunk, args []Value) (Value, error) {
	if len(vm.frames) >= config.DefaultMaxStackDepth {
		return nil, fmt.Errorf("vm: stack overflow (depth exceeded %d)", config.DefaultMaxStackDepth)
	}
	f := &frame{chunk: chunk, locals: make([]Value, chunk.NumLocals), fromBlk: -1}
	for i, loc := range chunk.ParamLocs {
		if i < len(args) {
			f.locals[loc] = args[i]
		}
	}
	vm.frames = append(vm.frames, f)
	defer func() { vm.frames = vm.frames[:len(vm.frames)-1] }()

	for {
		if vm.Ctx != nil {
			if err := vm.Ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err := vm.Budget.ConsumeInstruction(); err != nil {
			return nil, err
		}
		instr := f.chunk.Instrs[f.pc]
		if vm.Trace {
			fmt.Printf("trace: %s@%d op=%d dest=%d\n", chunk.Name, f.pc, instr.Op, instr.Dest)
		}
		switch instr.Op {
		case OpLoadConst:
			f.locals[instr.Dest] = instr.Const
			f.pc++
		case OpCopy:
			f.locals[instr.Dest] = f.locals[instr.A]
			f.pc++
		case OpBinOp:
			v, err := binOp(instr.Kind, f.locals[instr.A], f.locals[instr.B])
			if err != nil {
				return nil, err
			}
			f.locals[instr.Dest] = v
			f.pc++
		case OpUnOp:
			v, err := unOp(instr.Kind, f.locals[instr.A])
			if err != nil {
				return nil, err
			}
			f.locals[instr.Dest] = v
			f.pc++
		case OpAggregate:
			elems := make([]Value, len(instr.Args))
			for i, a := range instr.Args {
				elems[i] = f.locals[a]
			}
			f.locals[instr.Dest] = VTuple{Elems: elems}
			f.pc++
		case OpProj:
			t, ok := f.locals[instr.A].(VTuple)
			if !ok {
				return nil, fmt.Errorf("vm: type mismatch in projection (want tuple, have %T)", f.locals[instr.A])
			}
			if instr.B < 0 || instr.B >= len(t.Elems) {
				return nil, fmt.Errorf("vm: projection index %d out of range", instr.B)
			}
			f.locals[instr.Dest] = t.Elems[instr.B]
			f.pc++
		case OpPhi:
			for i, blk := range instr.PhiBlocks {
				if blk == f.fromBlk {
					f.locals[instr.Dest] = f.locals[instr.PhiLocals[i]]
					break
				}
			}
			f.pc++
		case OpCall:
			callee, ok := vm.chunks[instr.Func]
			if !ok {
				return nil, fmt.Errorf("vm: undefined function %q", instr.Func)
			}
			callArgs := make([]Value, len(instr.Args))
			for i, a := range instr.Args {
				callArgs[i] = f.locals[a]
			}
			result, err := vm.call(callee, callArgs)
			if err != nil {
				return nil, err
			}
			f.locals[instr.Dest] = result
			if instr.IsTerm {
				f.fromBlk = f.chunk.InstrBlock[f.pc]
				f.pc = instr.Target
			} else {
				f.pc++
			}
		case OpJump:
			f.fromBlk = f.chunk.InstrBlock[f.pc]
			f.pc = instr.Target
		case OpBranch:
			f.fromBlk = f.chunk.InstrBlock[f.pc]
			if truthy(f.locals[instr.A]) {
				f.pc = instr.Target
			} else {
				f.pc = instr.Target2
			}
		case OpReturn:
			if instr.A < 0 {
				return VUnit{}, nil
			}
			return f.locals[instr.A], nil
		case OpUnreachable:
			return nil, fmt.Errorf("vm: reached unreachable instruction in %s", chunk.Name)
		default:
			return nil, fmt.Errorf("vm: unknown opcode %d", instr.Op)
		}
	}
}

// binOp mirrors internal/interp/arith.go's integer/float policy exactly
// (wrapping int64 arithmetic, IEEE float semantics, immediate
// DivisionByZero on integer div/mod by a runtime zero) so the bytecode
// and tree-walk backends stay observably equivalent.
func binOp(kind string, l, r Value) (Value, error) {
	if li, lok := l.(VInt); lok {
		if ri, rok := r.(VInt); rok {
			return intBinOp(kind, int64(li), int64(ri))
		}
	}
	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if lok && rok {
		return floatBinOp(kind, lf, rf)
	}
	if ls, lok := l.(VString); lok {
		if rs, rok := r.(VString); rok && kind == "add" {
			return VString(string(ls) + string(rs)), nil
		}
	}
	if kind == "eq" {
		return VBool(valuesEqual(l, r)), nil
	}
	if kind == "neq" {
		return VBool(!valuesEqual(l, r)), nil
	}
	return nil, fmt.Errorf("vm: type mismatch in binary op %q", kind)
}

func asFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case VFloat:
		return float64(n), true
	case VInt:
		return float64(n), true
	default:
		return 0, false
	}
}

func intBinOp(kind string, l, r int64) (Value, error) {
	switch kind {
	case "add":
		return VInt(l + r), nil
	case "sub":
		return VInt(l - r), nil
	case "mul":
		return VInt(l * r), nil
	case "div":
		if r == 0 {
			return nil, fmt.Errorf("vm: division by zero")
		}
		return VInt(l / r), nil
	case "mod":
		if r == 0 {
			return nil, fmt.Errorf("vm: division by zero")
		}
		return VInt(l % r), nil
	case "eq":
		return VBool(l == r), nil
	case "neq":
		return VBool(l != r), nil
	case "lt":
		return VBool(l < r), nil
	case "lte":
		return VBool(l <= r), nil
	case "gt":
		return VBool(l > r), nil
	case "gte":
		return VBool(l >= r), nil
	case "band":
		return VInt(l & r), nil
	case "bor":
		return VInt(l | r), nil
	case "bxor":
		return VInt(l ^ r), nil
	case "shl":
		return VInt(l << uint(r)), nil
	case "shr":
		return VInt(l >> uint(r)), nil
	default:
		return nil, fmt.Errorf("vm: unknown int op %q", kind)
	}
}

func floatBinOp(kind string, l, r float64) (Value, error) {
	switch kind {
	case "add":
		return VFloat(l + r), nil
	case "sub":
		return VFloat(l - r), nil
	case "mul":
		return VFloat(l * r), nil
	case "div":
		return VFloat(l / r), nil // NaN/Inf-propagating, matching Go float64 semantics
	case "eq":
		return VBool(l == r), nil
	case "neq":
		return VBool(l != r), nil
	case "lt":
		return VBool(l < r), nil
	case "lte":
		return VBool(l <= r), nil
	case "gt":
		return VBool(l > r), nil
	case "gte":
		return VBool(l >= r), nil
	default:
		return nil, fmt.Errorf("vm: unknown float op %q", kind)
	}
}

func unOp(kind string, v Value) (Value, error) {
	switch kind {
	case "neg":
		switch n := v.(type) {
		case VInt:
			return VInt(-n), nil
		case VFloat:
			return VFloat(-n), nil
		}
	case "not":
		if b, ok := v.(VBool); ok {
			return VBool(!b), nil
		}
	case "bitnot":
		if n, ok := v.(VInt); ok {
			return VInt(^n), nil
		}
	}
	return nil, fmt.Errorf("vm: type mismatch in unary op %q", kind)
}

func valuesEqual(a, b Value) bool {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af == bf || (math.IsNaN(af) && math.IsNaN(bf))
	}
	return a.Inspect() == b.Inspect()
}
