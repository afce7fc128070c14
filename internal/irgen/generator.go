package irgen

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"nuir/internal/ast"
	"nuir/internal/diag"
	"nuir/internal/ir"
	"nuir/internal/trace"
)

// DefaultMaxDepth is the nesting limit used by the driver unless configured.
const DefaultMaxDepth = 4096

// ParseResult is the read-only view of a parse the generator consumes.
// *ast.Builder implements it.
type ParseResult interface {
	// NodeCount returns the number of nodes; ids run from 1 to NodeCount.
	NodeCount() uint32
	Node(id ast.NodeID) *ast.Node
	Block(id ast.BlockID) *ast.Block
	// SpanContents returns the raw source bytes covered by the node.
	SpanContents(id ast.NodeID) []byte
}

// Options tune a generation pass.
type Options struct {
	// MaxDepth bounds the number of nested blocks and binary operations
	// being lowered at once; <= 0 disables the limit.
	MaxDepth int
	// Reporter, if set, receives every diagnostic as it is reported.
	Reporter diag.Reporter
	Tracer   trace.Tracer
	// ParentSpan is the trace span the "irgen" span is attached to.
	ParentSpan uint64
}

// Generator holds the mutable emission state of one pass. It is not safe for
// concurrent use.
type Generator struct {
	src  ParseResult
	opts Options

	instrs        []ir.Instr
	registerCount uint32
	fileCount     uint32
	bag           *diag.Bag
	reporter      diag.Reporter

	stack []frame
	res   outcome
	span  uint64
}

// New binds a generator to a completed parse result.
func New(src ParseResult, opts Options) *Generator {
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	g := &Generator{src: src, opts: opts}
	g.reset()
	return g
}

func (g *Generator) reset() {
	g.instrs = nil
	g.registerCount = 0
	g.fileCount = 0
	g.bag = diag.NewBag(0)
	g.reporter = diag.BagReporter{Bag: g.bag}
	if g.opts.Reporter != nil {
		g.reporter = diag.MultiReporter{g.reporter, g.opts.Reporter}
	}
	g.stack = g.stack[:0]
	g.res = outcome{}
}

// Generate lowers the whole parse result. Results are read afterwards with
// Block and Diagnostics. Calling Generate again starts over from scratch.
func (g *Generator) Generate() {
	g.reset()
	span := trace.Begin(g.opts.Tracer, trace.ScopePass, "irgen", g.opts.ParentSpan)
	g.span = span.ID()
	defer func() {
		span.WithCount("instrs", len(g.instrs)).
			WithCount("registers", int(g.registerCount)).
			WithCount("diagnostics", g.bag.Len()).
			End("")
	}()

	if g.src == nil || g.src.NodeCount() == 0 {
		return
	}
	reg, ok := g.lower(ast.NodeID(g.src.NodeCount()))
	if !ok {
		return
	}
	g.emit(ir.Return(reg))
}

// Block returns the assembled IR. The returned block does not alias the
// generator's state.
func (g *Generator) Block() *ir.Block {
	return ir.NewBlock(slices.Clone(g.instrs), g.registerCount, g.fileCount)
}

// Diagnostics returns the diagnostics in report order.
// Не модифицируйте возвращаемый срез.
func (g *Generator) Diagnostics() []diag.Diagnostic {
	return g.bag.Items()
}

// HasErrors reports whether any Error diagnostic was collected.
func (g *Generator) HasErrors() bool {
	return g.bag.HasErrors()
}

// DisplayState renders the generator state for debugging and snapshot tests.
func (g *Generator) DisplayState() string {
	var sb strings.Builder
	sb.WriteString("==== IR ====\n")
	fmt.Fprintf(&sb, "register_count: %d\n", g.registerCount)
	fmt.Fprintf(&sb, "file_count: %d\n", g.fileCount)
	for i := range g.instrs {
		fmt.Fprintf(&sb, "%d: %s\n", i, g.instrs[i])
	}
	if g.bag.Len() > 0 {
		sb.WriteString("==== IR ERRORS ====\n")
		for _, d := range g.bag.Items() {
			sb.WriteString(d.String())
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Print writes DisplayState to w.
func (g *Generator) Print(w io.Writer) error {
	_, err := io.WriteString(w, g.DisplayState())
	return err
}

// nextRegister returns an unused register.
func (g *Generator) nextRegister() ir.RegID {
	r := ir.RegID(g.registerCount)
	g.registerCount++
	return r
}

func (g *Generator) emit(in ir.Instr) {
	g.instrs = append(g.instrs, in)
}

func (g *Generator) errorf(code diag.Code, id ast.NodeID, format string, args ...any) {
	d := diag.NewError(code, id, fmt.Sprintf(format, args...))
	if n := g.src.Node(id); n != nil {
		d = d.WithSpan(n.Span)
	}
	g.reporter.Report(d)
}
