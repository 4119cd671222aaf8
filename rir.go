// rir.go — the Runtime Intermediate Representation produced by the
// Specializer.
//
// A Program is a flat pair of tables (callables, blocks) plus an entry block
// id. All cross-references go through dense integer ids, never through
// structural pointers, so the tables stay acyclic-safe containers regardless
// of the call graph's shape. The Program is built incrementally during one
// evaluation pass and must be treated as immutable once Specialize returns.
//
// Deterministic renderings for every type live in printer.go; they are the
// contract golden tests and downstream code generation rely on.

package qsharp

// CallableID identifies an entry in a Program's callable table.
type CallableID int

// BlockID identifies an entry in a Program's block table.
type BlockID int

// VariableID identifies an RIR variable within a program.
type VariableID int

// Ty is the type tag attached to RIR variables and callable signatures.
type Ty int

const (
	TyInteger Ty = iota
	TyDouble
	TyBoolean
	TyQubit
	TyResult
	TyPointer
)

// Variable is an SSA-like runtime slot. Each id is assigned by Store/Call
// instructions; an id may be re-stored across iterations of an unrolled loop
// when it represents the same classical slot.
type Variable struct {
	ID VariableID
	Ty Ty
}

// LitTag discriminates Literal payloads.
type LitTag int

const (
	LitInteger LitTag = iota // int64
	LitDouble                // float64
	LitBool                  // bool
	LitQubit                 // QubitID
	LitResult                // ResultID
	LitPointer               // no payload
)

// Literal is an immediate operand.
type Literal struct {
	Tag  LitTag
	Data any
}

// Immediate constructors.
func IntLit(n int64) Literal          { return Literal{Tag: LitInteger, Data: n} }
func DoubleLit(f float64) Literal     { return Literal{Tag: LitDouble, Data: f} }
func BoolLit(b bool) Literal          { return Literal{Tag: LitBool, Data: b} }
func QubitLit(id QubitID) Literal     { return Literal{Tag: LitQubit, Data: id} }
func ResultIDLit(id ResultID) Literal { return Literal{Tag: LitResult, Data: id} }
func PointerLit() Literal             { return Literal{Tag: LitPointer} }

// Operand is either a Literal or a Variable reference.
type Operand struct {
	IsVar bool
	Lit   Literal
	Var   Variable
}

func LitOperand(l Literal) Operand  { return Operand{Lit: l} }
func VarOperand(v Variable) Operand { return Operand{IsVar: true, Var: v} }

// Opcode enumerates the closed instruction set.
type Opcode int

const (
	OpStore Opcode = iota
	OpCall
	OpAdd
	OpSub
	OpMul
	OpSdiv
	OpSrem
	OpFadd
	OpFsub
	OpFmul
	OpFdiv
	OpLogicalAnd
	OpLogicalOr
	OpLogicalNot
	OpIcmp
	OpFcmp
	OpJump
	OpBranch
	OpReturn
)

// ConditionCode selects the comparison performed by Icmp/Fcmp.
type ConditionCode int

const (
	CondEq ConditionCode = iota
	CondNe
	CondSlt
	CondSle
	CondSgt
	CondSge
)

// Instruction is one RIR instruction. Which fields are meaningful depends on
// Op:
//   - OpStore:     Args[0] stored into *Result.
//   - OpCall:      Callee called with Args; *Result bound when non-nil.
//   - arithmetic/logic/compare: Args operands, *Result destination.
//   - OpJump:      Target.
//   - OpBranch:    Args[0] condition, True/False successors.
//   - OpReturn:    optional Args[0].
type Instruction struct {
	Op     Opcode
	Result *Variable
	Callee CallableID
	Args   []Operand
	Cond   ConditionCode
	Target BlockID
	True   BlockID
	False  BlockID
}

// isTerminator reports whether the instruction ends a block.
func (in Instruction) isTerminator() bool {
	switch in.Op {
	case OpJump, OpBranch, OpReturn:
		return true
	}
	return false
}

// CallableType classifies the physical operation a callable performs.
type CallableType int

const (
	CallRegular CallableType = iota
	CallMeasurement
	CallReset
	CallOutputRecording
)

// Callable is an entry in the callable table. Identity is structural+nominal:
// the table guarantees one id per (name, signature, call type).
type Callable struct {
	ID         CallableID
	Name       string
	CallType   CallableType
	InputType  []Ty
	OutputType *Ty      // nil = void
	Body       *BlockID // nil for intrinsics with no RIR body
}

// Block is an ordered instruction list; the terminator is always present and
// is the last element.
type Block struct {
	ID     BlockID
	Instrs []Instruction
}

// Program owns the callable and block tables and records the entry block.
type Program struct {
	callables []*Callable
	blocks    []*Block

	Entry      BlockID
	NumQubits  int
	NumResults int
}

func newProgram() *Program { return &Program{} }

// GetCallable returns the callable registered under id. It panics on an id
// that was never registered; ids only come from the program itself.
func (p *Program) GetCallable(id CallableID) *Callable {
	if int(id) < 0 || int(id) >= len(p.callables) {
		panic("rir: unknown callable id")
	}
	return p.callables[id]
}

// GetBlock returns the block registered under id.
func (p *Program) GetBlock(id BlockID) *Block {
	if int(id) < 0 || int(id) >= len(p.blocks) {
		panic("rir: unknown block id")
	}
	return p.blocks[id]
}

// Callables returns the callable table in id order.
func (p *Program) Callables() []*Callable { return p.callables }

// Blocks returns the block table in id order.
func (p *Program) Blocks() []*Block { return p.blocks }

func (p *Program) addCallable(c *Callable) CallableID {
	c.ID = CallableID(len(p.callables))
	p.callables = append(p.callables, c)
	return c.ID
}

func (p *Program) newBlock() *Block {
	b := &Block{ID: BlockID(len(p.blocks))}
	p.blocks = append(p.blocks, b)
	return b
}

func (p *Program) appendTo(id BlockID, in Instruction) {
	b := p.GetBlock(id)
	if n := len(b.Instrs); n > 0 && b.Instrs[n-1].isTerminator() {
		panic("rir: append past block terminator")
	}
	b.Instrs = append(b.Instrs, in)
}
