package ir

import (
	"nuir/internal/ast"
	"nuir/internal/source"
)

// Block is the output of one generation pass.
//
// Spans and AST run parallel to Instrs. They are placeholders for now: every
// entry is the zero span and ast.NoNodeID respectively. Data and Comments are
// empty pools reserved for string data and per-instruction comments.
type Block struct {
	Instrs        []Instr
	Spans         []source.Span
	AST           []ast.NodeID
	Data          []byte
	Comments      []string
	RegisterCount uint32
	FileCount     uint32
}

// NewBlock takes ownership of instrs and fills the parallel placeholder arrays.
func NewBlock(instrs []Instr, registerCount, fileCount uint32) *Block {
	return &Block{
		Instrs:        instrs,
		Spans:         make([]source.Span, len(instrs)),
		AST:           make([]ast.NodeID, len(instrs)),
		Data:          []byte{},
		Comments:      []string{},
		RegisterCount: registerCount,
		FileCount:     fileCount,
	}
}

// Len returns the number of instructions.
func (b *Block) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Instrs)
}
