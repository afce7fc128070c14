package ast

import (
	"strings"
	"testing"
)

func TestBuilderPostOrder(t *testing.T) {
	src := []byte("1 + 22")
	b := NewBuilder(0, src, Hints{})

	lhs := b.NewLeaf(NodeInt, 0, 1)
	op := b.NewLeaf(NodePlus, 2, 3)
	rhs := b.NewLeaf(NodeInt, 4, 6)
	bin := b.NewBinary(lhs, op, rhs)
	root := b.NewBlock([]NodeID{bin}, 0, 6)

	if b.NodeCount() != 5 || b.Root() != root {
		t.Fatalf("root = %d, count = %d", b.Root(), b.NodeCount())
	}
	if got := string(b.SpanContents(rhs)); got != "22" {
		t.Fatalf("SpanContents(rhs) = %q", got)
	}
	n := b.Node(bin)
	if n.Kind != NodeBinaryOp || n.Binary != (BinaryOp{LHS: lhs, Op: op, RHS: rhs}) {
		t.Fatalf("unexpected binary node %+v", n)
	}
	if n.Span.Start != 0 || n.Span.End != 6 {
		t.Fatalf("binary span %v does not cover operands", n.Span)
	}
	blk := b.Block(b.Node(root).Block)
	if blk == nil || len(blk.Nodes) != 1 || blk.Nodes[0] != bin {
		t.Fatalf("unexpected block %+v", blk)
	}
}

func TestBuilderLookupsOutOfRange(t *testing.T) {
	b := NewBuilder(0, nil, Hints{})
	if b.Root() != NoNodeID {
		t.Fatalf("empty builder root = %d", b.Root())
	}
	if b.Node(NoNodeID) != nil || b.Node(7) != nil || b.Block(3) != nil {
		t.Fatalf("expected nil lookups")
	}
	if b.SpanContents(7) != nil {
		t.Fatalf("expected nil contents")
	}
}

func TestDump(t *testing.T) {
	b := NewBuilder(0, []byte("7"), Hints{})
	lit := b.NewLeaf(NodeInt, 0, 1)
	b.NewBlock([]NodeID{lit}, 0, 1)

	var sb strings.Builder
	if err := Dump(&sb, b); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	want := "1: Int \"7\" @0-1\n2: Block [1] @0-1\n"
	if sb.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestNodeKindString(t *testing.T) {
	for k := NodeInt; k <= NodeGarbage; k++ {
		if k.String() == "Unknown" {
			t.Errorf("kind %d has no name", k)
		}
	}
	if !NodeMultiply.IsOperator() || NodeInt.IsOperator() || NodeString.IsOperator() {
		t.Fatalf("IsOperator mismatch")
	}
}
