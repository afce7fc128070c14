package ast

import (
	"fmt"
	"io"
	"strconv"
)

// Dump writes the node table in id order, one node per line:
//
//	3: BinaryOp lhs=1 op=2 rhs=4 @0-5
func Dump(w io.Writer, b *Builder) error {
	for i, n := range b.Nodes.Slice() {
		if _, err := fmt.Fprintf(w, "%d: %s\n", i+1, FormatNode(b, &n)); err != nil {
			return err
		}
	}
	return nil
}

// FormatNode renders a single node with its payload and source text.
func FormatNode(b *Builder, n *Node) string {
	at := fmt.Sprintf("@%d-%d", n.Span.Start, n.Span.End)
	switch n.Kind {
	case NodeBinaryOp:
		return fmt.Sprintf("%s lhs=%d op=%d rhs=%d %s", n.Kind, n.Binary.LHS, n.Binary.Op, n.Binary.RHS, at)
	case NodeBlock:
		var ids []NodeID
		if blk := b.Block(n.Block); blk != nil {
			ids = blk.Nodes
		}
		return fmt.Sprintf("%s %v %s", n.Kind, ids, at)
	default:
		text := ""
		if b.Source != nil && int(n.Span.End) <= len(b.Source) && n.Span.Start <= n.Span.End {
			text = strconv.Quote(string(b.Source[n.Span.Start:n.Span.End]))
		}
		return fmt.Sprintf("%s %s %s", n.Kind, text, at)
	}
}
