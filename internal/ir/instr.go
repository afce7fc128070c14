package ir

import "fmt"

// InstrKind enumerates instruction kinds.
type InstrKind uint8

const (
	// InstrLoadLiteral writes a constant into Dst.
	InstrLoadLiteral InstrKind = iota
	// InstrBinaryOp computes LHSDst = LHSDst Op RHS.
	InstrBinaryOp
	// InstrReturn ends the block yielding Src.
	InstrReturn
)

func (k InstrKind) String() string {
	switch k {
	case InstrLoadLiteral:
		return "load-literal"
	case InstrBinaryOp:
		return "binary-op"
	case InstrReturn:
		return "return"
	}
	return "unknown"
}

// Instr is a tagged instruction; only the payload matching Kind is set.
type Instr struct {
	Kind InstrKind

	LoadLiteral LoadLiteralInstr
	BinaryOp    BinaryOpInstr
	Return      ReturnInstr
}

type LoadLiteralInstr struct {
	Dst RegID
	Lit Literal
}

// BinaryOpInstr overwrites its left operand with the result.
type BinaryOpInstr struct {
	LHSDst RegID
	Op     Operator
	RHS    RegID
}

type ReturnInstr struct {
	Src RegID
}

func LoadLiteral(dst RegID, lit Literal) Instr {
	return Instr{Kind: InstrLoadLiteral, LoadLiteral: LoadLiteralInstr{Dst: dst, Lit: lit}}
}

func BinaryOp(lhsDst RegID, op Operator, rhs RegID) Instr {
	return Instr{Kind: InstrBinaryOp, BinaryOp: BinaryOpInstr{LHSDst: lhsDst, Op: op, RHS: rhs}}
}

func Return(src RegID) Instr {
	return Instr{Kind: InstrReturn, Return: ReturnInstr{Src: src}}
}

// Uses returns the registers the instruction reads.
func (in *Instr) Uses() []RegID {
	switch in.Kind {
	case InstrBinaryOp:
		return []RegID{in.BinaryOp.LHSDst, in.BinaryOp.RHS}
	case InstrReturn:
		return []RegID{in.Return.Src}
	}
	return nil
}

// Def returns the register the instruction writes, if any.
func (in *Instr) Def() (RegID, bool) {
	switch in.Kind {
	case InstrLoadLiteral:
		return in.LoadLiteral.Dst, true
	case InstrBinaryOp:
		return in.BinaryOp.LHSDst, true
	}
	return 0, false
}

func (in Instr) String() string {
	switch in.Kind {
	case InstrLoadLiteral:
		return fmt.Sprintf("%s %s, %s", in.Kind, in.LoadLiteral.Dst, in.LoadLiteral.Lit)
	case InstrBinaryOp:
		return fmt.Sprintf("%s %s, %s, %s", in.Kind, in.BinaryOp.LHSDst, in.BinaryOp.Op, in.BinaryOp.RHS)
	case InstrReturn:
		return fmt.Sprintf("%s %s", in.Kind, in.Return.Src)
	}
	return fmt.Sprintf("<instr kind=%d>", in.Kind)
}
