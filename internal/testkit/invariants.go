// Package testkit holds structural checks shared by parser, irgen and fuzz
// tests.
package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"nuir/internal/ast"
	"nuir/internal/source"
)

// CheckTreeInvariants runs the structural checks on a parsed file:
// 1) the root is the last node and is a block
// 2) every span points into sf and stays within its content
// 3) children have smaller ids than their parent (post-order)
// 4) a parent span covers the spans of its children
func CheckTreeInvariants(b *ast.Builder, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	root := b.Node(b.Root())
	if root == nil {
		return fmt.Errorf("tree has no nodes")
	}
	if root.Kind != ast.NodeBlock {
		return fmt.Errorf("root node %d is %s, want Block", b.Root(), root.Kind)
	}

	var errs []error
	for i := uint32(1); i <= b.NodeCount(); i++ {
		id := ast.NodeID(i)
		n := b.Node(id)
		if n.Span.File != sf.ID {
			errs = append(errs, fmt.Errorf("node %d: span points to file %d, want %d", id, n.Span.File, sf.ID))
		}
		if n.Span.Start > n.Span.End || n.Span.End > lenContent {
			errs = append(errs, fmt.Errorf("node %d: span %d-%d outside content of %d bytes", id, n.Span.Start, n.Span.End, lenContent))
		}
		for _, child := range children(b, n) {
			c := b.Node(child)
			switch {
			case c == nil:
				errs = append(errs, fmt.Errorf("node %d: child %d does not exist", id, child))
			case child >= id:
				errs = append(errs, fmt.Errorf("node %d: child %d is not emitted before its parent", id, child))
			case !n.Span.Contains(c.Span):
				errs = append(errs, fmt.Errorf("node %d: span %d-%d does not cover child %d at %d-%d",
					id, n.Span.Start, n.Span.End, child, c.Span.Start, c.Span.End))
			}
		}
	}
	return errors.Join(errs...)
}

func children(b *ast.Builder, n *ast.Node) []ast.NodeID {
	switch n.Kind {
	case ast.NodeBinaryOp:
		return []ast.NodeID{n.Binary.LHS, n.Binary.Op, n.Binary.RHS}
	case ast.NodeBlock:
		if blk := b.Block(n.Block); blk != nil {
			return blk.Nodes
		}
	}
	return nil
}
