package testkit

import (
	"strings"
	"testing"

	"nuir/internal/ast"
	"nuir/internal/parser"
	"nuir/internal/source"
)

func TestParsedTreesSatisfyInvariants(t *testing.T) {
	for _, src := range []string{
		"1 + 2 * 3",
		"{ 1; { 2\n3 } }",
		"(a / $b)\n\"s\" # trailing",
		"",
		"{}",
	} {
		fs := source.NewFileSet()
		f := fs.Get(fs.AddVirtual("t.nu", []byte(src)))
		res := parser.ParseFile(f, parser.Options{})
		if res.Tree == nil {
			t.Fatalf("%q: parse failed: %v", src, res.Bag.Items())
		}
		if err := CheckTreeInvariants(res.Tree, f); err != nil {
			t.Fatalf("%q: %v", src, err)
		}
	}
}

func TestDetectsBrokenTree(t *testing.T) {
	fs := source.NewFileSet()
	src := []byte("1 + 2")
	f := fs.Get(fs.AddVirtual("t.nu", src))

	b := ast.NewBuilder(f.ID, src, ast.Hints{})
	lhs := b.NewLeaf(ast.NodeInt, 0, 1)
	op := b.NewLeaf(ast.NodePlus, 2, 3)
	rhs := b.NewLeaf(ast.NodeInt, 4, 5)
	bin := b.NewBinary(lhs, op, rhs)
	b.Node(bin).Span.End = 3 // не покрывает rhs
	b.NewBlock([]ast.NodeID{bin}, 0, 5)

	err := CheckTreeInvariants(b, f)
	if err == nil || !strings.Contains(err.Error(), "does not cover child 3") {
		t.Fatalf("expected coverage error, got %v", err)
	}
}

func TestRootMustBeBlock(t *testing.T) {
	fs := source.NewFileSet()
	src := []byte("1")
	f := fs.Get(fs.AddVirtual("t.nu", src))
	b := ast.NewBuilder(f.ID, src, ast.Hints{})
	b.NewLeaf(ast.NodeInt, 0, 1)
	if err := CheckTreeInvariants(b, f); err == nil {
		t.Fatalf("expected root error")
	}
}
