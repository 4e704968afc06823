// Package mir is the middle intermediate representation: SSA-style
// locals grouped into basic blocks ending in an explicit terminator,
// plus the fold/propagate/DCE/inline optimizer pipeline.
package mir

import "github.com/ruchy-lang/ruchy/internal/typesystem"

// Local is one SSA-style temporary or named binding. Every local is
// defined exactly once across the function.
type Local struct {
	ID   int
	Name string // original source name, empty for compiler temporaries
	Type typesystem.Type
}

// BinOp / UnOp mirror ast.BinaryOp / ast.UnaryOp without depending on
// the ast package, since MIR outlives the parse tree it was lowered
// from.
type BinOp int

const (
	BAdd BinOp = iota
	BSub
	BMul
	BDiv
	BMod
	BEq
	BNeq
	BLt
	BLte
	BGt
	BGte
	BBitAnd
	BBitOr
	BBitXor
	BShl
	BShr
)

type UnOp int

const (
	UNeg UnOp = iota
	UNot
	UBitNot
)

// Rvalue is the right-hand side of an assignment statement.
type Rvalue interface{ rvalueNode() }

type ConstInt struct{ Value int64 }
type ConstFloat struct{ Value float64 }
type ConstBool struct{ Value bool }
type ConstString struct{ Value string }
type ConstUnit struct{}

type Copy struct{ Src int } // local id

type BinaryOp struct {
	Op          BinOp
	Left, Right int
}

type UnaryOp struct {
	Op  UnOp
	Src int
}

// Call models both a direct-call rvalue used inline within a block when
// the callee is known not to observe control flow (pure/no-return-path
// distinction is enforced instead at the terminator level for calls the
// optimizer must treat as a control-flow boundary; see CallTerm).
type Call struct {
	Func string
	Args []int
}

// Aggregate builds a compound value (tuple/array/struct) from operands.
type Aggregate struct {
	Kind  string // "tuple", "array", "struct:<Name>"
	Elems []int
}

// Proj extracts one element of an aggregate by position, the primitive
// pattern-match lowering decomposes tuples with.
type Proj struct {
	Src   int
	Index int
}

// PhiEdge/Phi merge a value defined differently along different
// predecessors into a single SSA definition at the start of the merge
// block — required by the "every local defined exactly once" invariant
// once control flow forks and rejoins, e.g. an if/else whose branches
// both produce a tail value.
type PhiEdge struct {
	Block int
	Local int
}
type Phi struct{ Incoming []PhiEdge }

func (Phi) rvalueNode() {}

func (ConstInt) rvalueNode()    {}
func (ConstFloat) rvalueNode()  {}
func (ConstBool) rvalueNode()   {}
func (ConstString) rvalueNode() {}
func (ConstUnit) rvalueNode()   {}
func (Copy) rvalueNode()        {}
func (BinaryOp) rvalueNode()    {}
func (UnaryOp) rvalueNode()     {}
func (Call) rvalueNode()        {}
func (Aggregate) rvalueNode()   {}
func (Proj) rvalueNode()        {}

// Statement is one SSA assignment `dest = rvalue`.
type Statement struct {
	Dest   int
	Rvalue Rvalue
}

// Terminator ends a basic block.
type Terminator interface{ termNode() }

type Return struct{ Value int } // -1 for a unit/void return
type Branch struct {
	Cond        int
	TrueTarget  int
	FalseTarget int
}
type Jump struct{ Target int }
type Unreachable struct{}

// CallTerm is a call whose result feeds a continuation block, used when
// the callee may itself be control-flow-observable.
type CallTerm struct {
	Dest int
	Func string
	Args []int
	Cont int
}

func (Return) termNode()      {}
func (Branch) termNode()      {}
func (Jump) termNode()        {}
func (Unreachable) termNode() {}
func (CallTerm) termNode()    {}

// BasicBlock is a straight-line run of statements ending in exactly one
// terminator.
type BasicBlock struct {
	ID         int
	Statements []Statement
	Term       Terminator
}

// Function is one compiled function: its locals table (indexed by
// Local.ID) and an ordered block list whose first entry is the entry
// block.
type Function struct {
	Name    string
	Params  []int // local ids bound to the incoming arguments
	Locals  []Local
	Blocks  []*BasicBlock
	Inline  bool // carries #[inline] / private-to-unit eligibility
	Private bool
}

// Program is an ordered set of Functions.
type Program struct {
	Functions []*Function
}

func (f *Function) newLocal(name string, t typesystem.Type) int {
	id := len(f.Locals)
	f.Locals = append(f.Locals, Local{ID: id, Name: name, Type: t})
	return id
}

func (f *Function) newBlock() *BasicBlock {
	b := &BasicBlock{ID: len(f.Blocks)}
	f.Blocks = append(f.Blocks, b)
	return b
}
