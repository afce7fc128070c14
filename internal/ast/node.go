package ast

import (
	"nuir/internal/source"
)

// NodeKind is the closed set of node shapes the parser may produce.
type NodeKind uint8

const (
	// NodeInt is an integer literal; its value is the span text.
	NodeInt NodeKind = iota
	// NodeBlock is a sequence of nodes evaluated in order.
	NodeBlock
	// NodeBinaryOp is `lhs op rhs`.
	NodeBinaryOp

	// operator leaves
	NodePlus
	NodeMinus
	NodeMultiply
	NodeDivide

	// разбираются парсером, но пока не понижаются в IR
	NodeString
	NodeName
	NodeVariable
	NodeGarbage
)

func (k NodeKind) String() string {
	switch k {
	case NodeInt:
		return "Int"
	case NodeBlock:
		return "Block"
	case NodeBinaryOp:
		return "BinaryOp"
	case NodePlus:
		return "Plus"
	case NodeMinus:
		return "Minus"
	case NodeMultiply:
		return "Multiply"
	case NodeDivide:
		return "Divide"
	case NodeString:
		return "String"
	case NodeName:
		return "Name"
	case NodeVariable:
		return "Variable"
	case NodeGarbage:
		return "Garbage"
	}
	return "Unknown"
}

// IsOperator reports whether the kind is an operator leaf.
func (k NodeKind) IsOperator() bool {
	return k >= NodePlus && k <= NodeDivide
}

// BinaryOp is the payload of NodeBinaryOp.
type BinaryOp struct {
	LHS NodeID
	Op  NodeID
	RHS NodeID
}

// Node is a tagged variant; only the payload matching Kind is meaningful.
type Node struct {
	Kind NodeKind
	Span source.Span

	Block  BlockID
	Binary BinaryOp
}

// Block is an ordered node sequence. Its value is the value of its last member.
type Block struct {
	Nodes []NodeID
}
