package irgen

import (
	"bytes"
	"strings"
	"testing"

	"nuir/internal/ast"
	"nuir/internal/diag"
	"nuir/internal/ir"
	"nuir/internal/trace"
)

// tree builds ASTs by hand; every leaf appends its text to the source.
type tree struct{ b *ast.Builder }

func newTree() *tree {
	return &tree{b: ast.NewBuilder(1, nil, ast.Hints{})}
}

func (t *tree) leaf(kind ast.NodeKind, text string) ast.NodeID {
	start := uint32(len(t.b.Source))
	t.b.Source = append(t.b.Source, text...)
	return t.b.NewLeaf(kind, start, uint32(len(t.b.Source)))
}

func (t *tree) num(text string) ast.NodeID { return t.leaf(ast.NodeInt, text) }

func (t *tree) bin(lhs ast.NodeID, op ast.NodeKind, rhs ast.NodeID) ast.NodeID {
	return t.b.NewBinary(lhs, t.leaf(op, "?"), rhs)
}

func (t *tree) block(nodes ...ast.NodeID) ast.NodeID {
	return t.b.NewBlock(nodes, 0, uint32(len(t.b.Source)))
}

func generate(t *testing.T, src ParseResult, opts Options) *Generator {
	t.Helper()
	g := New(src, opts)
	g.Generate()
	return g
}

func instrStrings(b *ir.Block) []string {
	out := make([]string, 0, len(b.Instrs))
	for _, in := range b.Instrs {
		out = append(out, in.String())
	}
	return out
}

func expectInstrs(t *testing.T, g *Generator, want ...string) {
	t.Helper()
	got := instrStrings(g.Block())
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("instructions mismatch\nwant:\n%s\ngot:\n%s", strings.Join(want, "\n"), strings.Join(got, "\n"))
	}
}

func TestGenerateLiteral(t *testing.T) {
	tr := newTree()
	tr.block(tr.num("1"))

	g := generate(t, tr.b, Options{})
	expectInstrs(t, g,
		"load-literal %0, int(1)",
		"return %0",
	)
	blk := g.Block()
	if blk.RegisterCount != 1 || blk.FileCount != 0 {
		t.Fatalf("counts: registers=%d files=%d", blk.RegisterCount, blk.FileCount)
	}
	if len(g.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", g.Diagnostics())
	}
	if err := ir.Validate(blk); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestGeneratePlus(t *testing.T) {
	tr := newTree()
	tr.block(tr.bin(tr.num("1"), ast.NodePlus, tr.num("2")))

	g := generate(t, tr.b, Options{})
	expectInstrs(t, g,
		"load-literal %0, int(1)",
		"load-literal %1, int(2)",
		"binary-op %0, plus, %1",
		"return %0",
	)
	if g.Block().RegisterCount != 2 {
		t.Fatalf("expected 2 registers, got %d", g.Block().RegisterCount)
	}
	if g.HasErrors() {
		t.Fatalf("unexpected errors: %v", g.Diagnostics())
	}
}

func TestGenerateNestedEvaluationOrder(t *testing.T) {
	// (1+2)*(3+4)
	tr := newTree()
	l := tr.bin(tr.num("1"), ast.NodePlus, tr.num("2"))
	r := tr.bin(tr.num("3"), ast.NodePlus, tr.num("4"))
	tr.block(tr.bin(l, ast.NodeMultiply, r))

	g := generate(t, tr.b, Options{})
	expectInstrs(t, g,
		"load-literal %0, int(1)",
		"load-literal %1, int(2)",
		"binary-op %0, plus, %1",
		"load-literal %2, int(3)",
		"load-literal %3, int(4)",
		"binary-op %2, plus, %3",
		"binary-op %0, multiply, %2",
		"return %0",
	)

	var last int64 = -1
	for _, in := range g.Block().Instrs {
		if in.Kind != ir.InstrLoadLiteral {
			continue
		}
		if int64(in.LoadLiteral.Dst) <= last {
			t.Fatalf("registers not strictly increasing: %s after %%%d", in.LoadLiteral.Dst, last)
		}
		last = int64(in.LoadLiteral.Dst)
	}
	if err := ir.Validate(g.Block()); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestGenerateBlockValueIsLastChild(t *testing.T) {
	tr := newTree()
	tr.block(tr.num("1"), tr.num("2"), tr.block(tr.num("3")))

	g := generate(t, tr.b, Options{})
	expectInstrs(t, g,
		"load-literal %0, int(1)",
		"load-literal %1, int(2)",
		"load-literal %2, int(3)",
		"return %2",
	)
}

func TestGenerateEmpty(t *testing.T) {
	g := generate(t, newTree().b, Options{})
	if n := g.Block().Len(); n != 0 {
		t.Fatalf("expected no instructions, got %d", n)
	}
	if len(g.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics: %v", g.Diagnostics())
	}
	if g.Block().RegisterCount != 0 {
		t.Fatalf("expected 0 registers, got %d", g.Block().RegisterCount)
	}
}

func TestGenerateEmptyBlock(t *testing.T) {
	tr := newTree()
	tr.block()

	g := generate(t, tr.b, Options{})
	if g.Block().Len() != 0 || len(g.Diagnostics()) != 0 {
		t.Fatalf("empty block: instrs=%d diags=%v", g.Block().Len(), g.Diagnostics())
	}
}

func TestGenerateInvalidLiteral(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"letters", "abc", `failed to convert a node to integer: strconv.ParseInt: parsing "abc": invalid syntax`},
		{"overflow", "99999999999999999999", `failed to convert a node to integer: strconv.ParseInt: parsing "99999999999999999999": value out of range`},
		{"empty", "", `failed to convert a node to integer: strconv.ParseInt: parsing "": invalid syntax`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTree()
			lit := tr.num(tt.text)
			tr.block(lit)

			g := generate(t, tr.b, Options{})
			ds := g.Diagnostics()
			if len(ds) != 1 {
				t.Fatalf("expected 1 diagnostic, got %v", ds)
			}
			d := ds[0]
			if d.Code != diag.IRInvalidLiteral || d.Node != lit || d.Severity != diag.SevError {
				t.Fatalf("unexpected diagnostic %+v", d)
			}
			if d.Message != tt.want {
				t.Fatalf("message:\nwant %q\ngot  %q", tt.want, d.Message)
			}
			if g.Block().Len() != 0 {
				t.Fatalf("no instructions expected, got %v", instrStrings(g.Block()))
			}
			// the register was allocated before decoding
			if g.Block().RegisterCount != 1 {
				t.Fatalf("expected 1 register, got %d", g.Block().RegisterCount)
			}
		})
	}
}

func TestGenerateInvalidUTF8(t *testing.T) {
	b := ast.NewBuilder(1, []byte{'1', 0xff, '2'}, ast.Hints{})
	lit := b.NewLeaf(ast.NodeInt, 0, 3)
	b.NewBlock([]ast.NodeID{lit}, 0, 3)

	g := generate(t, b, Options{})
	ds := g.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", ds)
	}
	if want := "failed to convert a node to string: invalid UTF-8 at byte 1"; ds[0].Message != want {
		t.Fatalf("message: want %q, got %q", want, ds[0].Message)
	}
	if ds[0].Primary.Start != 0 || ds[0].Primary.End != 3 {
		t.Fatalf("diagnostic span: %v", ds[0].Primary)
	}
}

func TestGenerateUnsupportedNode(t *testing.T) {
	tr := newTree()
	str := tr.leaf(ast.NodeString, `"x"`)
	tr.block(tr.num("1"), str, tr.num("2"))

	g := generate(t, tr.b, Options{})
	ds := g.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("expected 1 diagnostic, got %v", ds)
	}
	if ds[0].Code != diag.IRUnsupportedNode || ds[0].Node != str {
		t.Fatalf("unexpected diagnostic %+v", ds[0])
	}
	if ds[0].Message != "node String not supported yet" {
		t.Fatalf("message: %q", ds[0].Message)
	}
	// lowering stops at the failing child; no return is emitted
	expectInstrs(t, g, "load-literal %0, int(1)")
}

func TestGenerateUnsupportedOperand(t *testing.T) {
	tr := newTree()
	name := tr.leaf(ast.NodeVariable, "$x")
	tr.block(tr.bin(name, ast.NodePlus, tr.num("2")))

	g := generate(t, tr.b, Options{})
	ds := g.Diagnostics()
	if len(ds) != 1 || ds[0].Node != name {
		t.Fatalf("expected one diagnostic at node %d, got %v", name, ds)
	}
	// rhs is never lowered once lhs failed
	if g.Block().Len() != 0 || g.Block().RegisterCount != 0 {
		t.Fatalf("unexpected output: %v registers=%d", instrStrings(g.Block()), g.Block().RegisterCount)
	}
}

func TestGenerateUnknownOperator(t *testing.T) {
	for _, kind := range []ast.NodeKind{ast.NodeMinus, ast.NodeDivide, ast.NodeInt} {
		t.Run(kind.String(), func(t *testing.T) {
			tr := newTree()
			one := tr.num("1")
			op := tr.leaf(kind, "-")
			two := tr.num("2")
			tr.block(tr.b.NewBinary(one, op, two))

			g := generate(t, tr.b, Options{})
			ds := g.Diagnostics()
			if len(ds) != 1 {
				t.Fatalf("expected 1 diagnostic, got %v", ds)
			}
			if ds[0].Code != diag.IRUnknownOperator || ds[0].Node != op {
				t.Fatalf("unexpected diagnostic %+v", ds[0])
			}
			if want := "unrecognized operator " + kind.String(); ds[0].Message != want {
				t.Fatalf("message: want %q, got %q", want, ds[0].Message)
			}
			// operands were already lowered when the operator was resolved
			expectInstrs(t, g,
				"load-literal %0, int(1)",
				"load-literal %1, int(2)",
			)
		})
	}
}

func TestGenerateInvalidReferences(t *testing.T) {
	t.Run("node", func(t *testing.T) {
		b := ast.NewBuilder(1, nil, ast.Hints{})
		b.NewBlock([]ast.NodeID{99}, 0, 0)
		g := generate(t, b, Options{})
		ds := g.Diagnostics()
		if len(ds) != 1 || ds[0].Code != diag.IRInvalidNodeRef || ds[0].Node != 99 {
			t.Fatalf("unexpected diagnostics %v", ds)
		}
	})
	t.Run("block", func(t *testing.T) {
		b := ast.NewBuilder(1, nil, ast.Hints{})
		b.Nodes.Allocate(ast.Node{Kind: ast.NodeBlock, Block: 7})
		g := generate(t, b, Options{})
		ds := g.Diagnostics()
		if len(ds) != 1 || ds[0].Code != diag.IRInvalidNodeRef {
			t.Fatalf("unexpected diagnostics %v", ds)
		}
		if ds[0].Message != "block 7 does not exist" {
			t.Fatalf("message: %q", ds[0].Message)
		}
	})
	t.Run("operator", func(t *testing.T) {
		tr := newTree()
		tr.block(tr.b.NewBinary(tr.num("1"), 42, tr.num("2")))
		g := generate(t, tr.b, Options{})
		ds := g.Diagnostics()
		if len(ds) != 1 || ds[0].Code != diag.IRInvalidNodeRef || ds[0].Node != 42 {
			t.Fatalf("unexpected diagnostics %v", ds)
		}
	})
}

func nested(tr *tree, depth int) {
	id := tr.num("7")
	for range depth {
		id = tr.block(id)
	}
}

func TestGenerateMaxDepth(t *testing.T) {
	tr := newTree()
	nested(tr, 5)
	g := generate(t, tr.b, Options{MaxDepth: 5})
	if g.HasErrors() {
		t.Fatalf("depth 5 should fit, got %v", g.Diagnostics())
	}
	expectInstrs(t, g, "load-literal %0, int(7)", "return %0")

	tr = newTree()
	nested(tr, 6)
	g = generate(t, tr.b, Options{MaxDepth: 5})
	ds := g.Diagnostics()
	if len(ds) != 1 || ds[0].Code != diag.IRNestingTooDeep {
		t.Fatalf("expected nesting diagnostic, got %v", ds)
	}
	if ds[0].Message != "expression nesting exceeds 5 levels" {
		t.Fatalf("message: %q", ds[0].Message)
	}
	if g.Block().Len() != 0 {
		t.Fatalf("no instructions expected, got %v", instrStrings(g.Block()))
	}
}

func TestGenerateDeepNestingUnlimited(t *testing.T) {
	tr := newTree()
	id := tr.num("1")
	for range 100_000 {
		id = tr.bin(id, ast.NodePlus, tr.num("1"))
	}
	tr.block(id)

	g := generate(t, tr.b, Options{})
	if g.HasErrors() {
		t.Fatalf("unexpected errors: %v", g.Diagnostics()[:1])
	}
	blk := g.Block()
	if blk.RegisterCount != 100_001 {
		t.Fatalf("registers: %d", blk.RegisterCount)
	}
	if last := blk.Instrs[len(blk.Instrs)-1]; last.Kind != ir.InstrReturn || last.Return.Src != 0 {
		t.Fatalf("last instruction: %s", last)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	tr := newTree()
	l := tr.bin(tr.num("2"), ast.NodeMultiply, tr.num("3"))
	tr.block(tr.num("1"), tr.bin(l, ast.NodePlus, tr.leaf(ast.NodeName, "x")))

	first := generate(t, tr.b, Options{}).DisplayState()
	second := generate(t, tr.b, Options{}).DisplayState()
	if first != second {
		t.Fatalf("state differs between runs:\n%s\n---\n%s", first, second)
	}

	g := New(tr.b, Options{})
	g.Generate()
	g.Generate()
	if g.DisplayState() != first {
		t.Fatalf("regenerating did not start over:\n%s", g.DisplayState())
	}
}

func TestBlockDoesNotAlias(t *testing.T) {
	tr := newTree()
	tr.block(tr.num("1"))
	g := generate(t, tr.b, Options{})

	blk := g.Block()
	blk.Instrs[0] = ir.Return(5)
	expectInstrs(t, g, "load-literal %0, int(1)", "return %0")
	if len(blk.Spans) != blk.Len() || len(blk.AST) != blk.Len() {
		t.Fatalf("placeholder arrays do not match instructions")
	}
}

func TestDisplayState(t *testing.T) {
	tr := newTree()
	tr.block(tr.bin(tr.num("1"), ast.NodePlus, tr.num("2")))
	g := generate(t, tr.b, Options{})

	want := `==== IR ====
register_count: 2
file_count: 0
0: load-literal %0, int(1)
1: load-literal %1, int(2)
2: binary-op %0, plus, %1
3: return %0
`
	if got := g.DisplayState(); got != want {
		t.Fatalf("display state mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}

	var buf bytes.Buffer
	if err := g.Print(&buf); err != nil {
		t.Fatalf("print: %v", err)
	}
	if buf.String() != want {
		t.Fatalf("Print differs from DisplayState")
	}
}

func TestDisplayStateWithErrors(t *testing.T) {
	tr := newTree()
	tr.block(tr.num("1"), tr.num("abc"))
	g := generate(t, tr.b, Options{})

	want := `==== IR ====
register_count: 2
file_count: 0
0: load-literal %0, int(1)
==== IR ERRORS ====
Error (NodeId 2): failed to convert a node to integer: strconv.ParseInt: parsing "abc": invalid syntax
`
	if got := g.DisplayState(); got != want {
		t.Fatalf("display state mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}

type collectReporter struct{ items []diag.Diagnostic }

func (c *collectReporter) Report(d diag.Diagnostic) { c.items = append(c.items, d) }

func TestReporterReceivesDiagnostics(t *testing.T) {
	tr := newTree()
	tr.block(tr.leaf(ast.NodeGarbage, "@"))

	rep := &collectReporter{}
	g := generate(t, tr.b, Options{Reporter: rep})
	if len(rep.items) != 1 || len(g.Diagnostics()) != 1 {
		t.Fatalf("reporter=%v bag=%v", rep.items, g.Diagnostics())
	}
	if rep.items[0] != g.Diagnostics()[0] {
		t.Fatalf("reporter and bag disagree")
	}
}

func TestGenerateTraces(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	tr := newTree()
	tr.block(tr.num("1"))
	generate(t, tr.b, Options{Tracer: ring})

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	begin, end := events[0], events[len(events)-1]
	if begin.Kind != trace.KindSpanBegin || begin.Name != "irgen" {
		t.Fatalf("first event: %+v", begin)
	}
	if end.Kind != trace.KindSpanEnd || end.Extra["instrs"] != "2" || end.Extra["registers"] != "1" {
		t.Fatalf("last event: %+v", end)
	}
	if events[1].Kind != trace.KindPoint || events[1].Name != "Block" || events[1].ParentID != begin.SpanID {
		t.Fatalf("node event: %+v", events[1])
	}
	if events[2].Name != "Int" || events[2].Detail != "1" {
		t.Fatalf("node event: %+v", events[2])
	}
}
