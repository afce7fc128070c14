package ast

import (
	"nuir/internal/source"
)

type Hints struct{ Nodes, Blocks uint }

// Builder owns the node and block arenas of one parsed file together with
// the source text the node spans point into. Once parsing is done it is
// treated as immutable.
type Builder struct {
	Nodes  *Arena[Node]
	Blocks *Arena[Block]
	File   source.FileID
	Source []byte
}

func NewBuilder(file source.FileID, src []byte, hints Hints) *Builder {
	if hints.Nodes == 0 {
		hints.Nodes = 1 << 8
	}
	if hints.Blocks == 0 {
		hints.Blocks = 1 << 4
	}
	return &Builder{
		Nodes:  NewArena[Node](hints.Nodes),
		Blocks: NewArena[Block](hints.Blocks),
		File:   file,
		Source: src,
	}
}

func (b *Builder) span(start, end uint32) source.Span {
	return source.Span{File: b.File, Start: start, End: end}
}

// NewLeaf appends a node without payload (literals, operators, names).
func (b *Builder) NewLeaf(kind NodeKind, start, end uint32) NodeID {
	return NodeID(b.Nodes.Allocate(Node{Kind: kind, Span: b.span(start, end)}))
}

// NewBinary appends a binary operation over already allocated operands.
func (b *Builder) NewBinary(lhs, op, rhs NodeID) NodeID {
	var sp source.Span
	if l, r := b.Node(lhs), b.Node(rhs); l != nil && r != nil {
		sp = l.Span.Cover(r.Span)
	}
	return NodeID(b.Nodes.Allocate(Node{
		Kind:   NodeBinaryOp,
		Span:   sp,
		Binary: BinaryOp{LHS: lhs, Op: op, RHS: rhs},
	}))
}

// NewBlock stores the sequence and appends the node referring to it.
func (b *Builder) NewBlock(nodes []NodeID, start, end uint32) NodeID {
	blockID := BlockID(b.Blocks.Allocate(Block{Nodes: nodes}))
	return NodeID(b.Nodes.Allocate(Node{Kind: NodeBlock, Span: b.span(start, end), Block: blockID}))
}

// NodeCount returns the number of nodes; the last one has NodeID(NodeCount()).
func (b *Builder) NodeCount() uint32 {
	return b.Nodes.Len()
}

// Root returns the node with the highest id, or NoNodeID for an empty tree.
func (b *Builder) Root() NodeID {
	return NodeID(b.Nodes.Len())
}

func (b *Builder) Node(id NodeID) *Node {
	return b.Nodes.Get(uint32(id))
}

func (b *Builder) Block(id BlockID) *Block {
	return b.Blocks.Get(uint32(id))
}

// SpanContents returns the raw source bytes the node spans.
func (b *Builder) SpanContents(id NodeID) []byte {
	n := b.Node(id)
	if n == nil {
		return nil
	}
	end := min(n.Span.End, uint32(len(b.Source))) //nolint:gosec // source size checked by FileSet.Add
	if n.Span.Start > end {
		return nil
	}
	return b.Source[n.Span.Start:end]
}
