package irgen

import (
	"strconv"
	"unicode/utf8"

	"nuir/internal/ast"
	"nuir/internal/diag"
	"nuir/internal/ir"
	"nuir/internal/trace"
)

// outcome is the result of lowering one node: the register holding its value,
// or ok == false when the node produced none.
type outcome struct {
	reg ir.RegID
	ok  bool
}

var failed = outcome{}

// frame is a composite node whose children are still being lowered.
// step counts the children already visited.
type frame struct {
	id     ast.NodeID
	node   *ast.Node
	nodes  []ast.NodeID // children of a block
	step   int
	lhsReg ir.RegID
}

// lower runs the depth-first walk from root on an explicit stack. The order
// in which visit is called is exactly the pre-order of a recursive descent,
// so instructions come out in evaluation order.
func (g *Generator) lower(root ast.NodeID) (ir.RegID, bool) {
	g.visit(root)
	for len(g.stack) > 0 {
		top := len(g.stack) - 1
		switch g.stack[top].node.Kind {
		case ast.NodeBlock:
			g.stepBlock(top)
		case ast.NodeBinaryOp:
			g.stepBinary(top)
		default:
			// visit pushes only the kinds above
			g.stack = g.stack[:top]
			g.res = failed
		}
	}
	return g.res.reg, g.res.ok
}

// visit starts lowering id. Leaves finish immediately and leave their outcome
// in g.res; blocks and binary operations push a frame finished by step*.
func (g *Generator) visit(id ast.NodeID) {
	node := g.src.Node(id)
	if node == nil {
		g.errorf(diag.IRInvalidNodeRef, id, "node %d does not exist", id)
		g.res = failed
		return
	}
	if g.opts.Tracer.Enabled() {
		trace.Point(g.opts.Tracer, trace.ScopeNode, node.Kind.String(), strconv.FormatUint(uint64(id), 10), g.span)
	}

	switch node.Kind {
	case ast.NodeInt:
		g.res = g.lowerInt(id)

	case ast.NodeBlock, ast.NodeBinaryOp:
		if g.opts.MaxDepth > 0 && len(g.stack) >= g.opts.MaxDepth {
			g.errorf(diag.IRNestingTooDeep, id, "expression nesting exceeds %d levels", g.opts.MaxDepth)
			g.res = failed
			return
		}
		f := frame{id: id, node: node}
		if node.Kind == ast.NodeBlock {
			blk := g.src.Block(node.Block)
			if blk == nil {
				g.errorf(diag.IRInvalidNodeRef, id, "block %d does not exist", node.Block)
				g.res = failed
				return
			}
			f.nodes = blk.Nodes
		}
		g.stack = append(g.stack, f)

	default:
		g.errorf(diag.IRUnsupportedNode, id, "node %s not supported yet", node.Kind)
		g.res = failed
	}
}

func (g *Generator) pop(top int, res outcome) {
	g.stack = g.stack[:top]
	g.res = res
}

// stepBlock visits the next child. The block's value is its last child's;
// the first failing child fails the block and the rest are not lowered.
func (g *Generator) stepBlock(top int) {
	f := &g.stack[top]
	if f.step > 0 && !g.res.ok {
		g.pop(top, failed)
		return
	}
	if f.step == len(f.nodes) {
		if f.step == 0 {
			// пустой блок не даёт значения
			g.pop(top, failed)
			return
		}
		g.pop(top, g.res)
		return
	}
	child := f.nodes[f.step]
	f.step++
	g.visit(child) // may grow the stack; f is stale after this
}

// stepBinary lowers lhs, then rhs, then resolves the operator. The result
// overwrites the lhs register, which becomes the value of the expression.
func (g *Generator) stepBinary(top int) {
	f := &g.stack[top]
	bin := f.node.Binary
	switch f.step {
	case 0:
		f.step = 1
		g.visit(bin.LHS)
	case 1:
		if !g.res.ok {
			g.pop(top, failed)
			return
		}
		f.lhsReg = g.res.reg
		f.step = 2
		g.visit(bin.RHS)
	default:
		if !g.res.ok {
			g.pop(top, failed)
			return
		}
		lhs, rhs := f.lhsReg, g.res.reg
		op, ok := g.resolveOperator(bin.Op)
		if !ok {
			g.pop(top, failed)
			return
		}
		g.emit(ir.BinaryOp(lhs, op, rhs))
		g.pop(top, outcome{reg: lhs, ok: true})
	}
}

// lowerInt allocates the destination first, so a literal that fails to
// decode still consumes a register id.
func (g *Generator) lowerInt(id ast.NodeID) outcome {
	reg := g.nextRegister()
	text := g.src.SpanContents(id)
	if !utf8.Valid(text) {
		g.errorf(diag.IRInvalidLiteral, id, "failed to convert a node to string: invalid UTF-8 at byte %d", invalidUTF8Offset(text))
		return failed
	}
	v, err := strconv.ParseInt(string(text), 10, 64)
	if err != nil {
		g.errorf(diag.IRInvalidLiteral, id, "failed to convert a node to integer: %v", err)
		return failed
	}
	g.emit(ir.LoadLiteral(reg, ir.IntLiteral(v)))
	return outcome{reg: reg, ok: true}
}

func invalidUTF8Offset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}

// resolveOperator maps an operator leaf to its semantic code.
func (g *Generator) resolveOperator(id ast.NodeID) (ir.Operator, bool) {
	node := g.src.Node(id)
	if node == nil {
		g.errorf(diag.IRInvalidNodeRef, id, "node %d does not exist", id)
		return 0, false
	}
	switch node.Kind {
	case ast.NodePlus:
		return ir.OpPlus, true
	case ast.NodeMultiply:
		return ir.OpMultiply, true
	}
	g.errorf(diag.IRUnknownOperator, id, "unrecognized operator %s", node.Kind)
	return 0, false
}
