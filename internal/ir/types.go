package ir

import "fmt"

// RegID is a virtual register. Ids are handed out in increasing order and
// never reused within one block.
type RegID uint32

func (r RegID) String() string {
	return fmt.Sprintf("%%%d", uint32(r))
}

// Operator is the semantic code of a binary operation.
type Operator uint8

const (
	OpPlus Operator = iota + 1
	OpMultiply
)

func (o Operator) String() string {
	switch o {
	case OpPlus:
		return "plus"
	case OpMultiply:
		return "multiply"
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// LiteralKind distinguishes constant kinds.
type LiteralKind uint8

const (
	// LitInt is a signed 64-bit integer.
	LitInt LiteralKind = iota
)

// Literal is a constant value loaded by load-literal.
type Literal struct {
	Kind LiteralKind
	Int  int64
}

// IntLiteral is a shorthand for Literal{Kind: LitInt, Int: v}.
func IntLiteral(v int64) Literal {
	return Literal{Kind: LitInt, Int: v}
}

func (l Literal) String() string {
	switch l.Kind {
	case LitInt:
		return fmt.Sprintf("int(%d)", l.Int)
	}
	return "unknown"
}
