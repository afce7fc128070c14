package parser

import (
	"github.com/alecthomas/participle/v2/lexer"

	"nuir/internal/ast"
	"nuir/internal/source"
)

// flattener appends grammar nodes to the arena in post-order: operands, then
// the operator leaf, then the binary node; block children before the block.
type flattener struct {
	b *ast.Builder
}

func (f *flattener) program(p *program) error {
	nodes, err := f.items(p.Items)
	if err != nil {
		return err
	}
	f.b.NewBlock(nodes, 0, offset(len(f.b.Source)))
	return nil
}

func (f *flattener) items(items []*item) ([]ast.NodeID, error) {
	var (
		nodes   []ast.NodeID
		needSep bool
	)
	for _, it := range items {
		if it.Sep {
			needSep = false
			continue
		}
		if needSep {
			return nil, f.errorAt(it.Pos, "expected newline or \";\" before expression")
		}
		id, err := f.expr(it.Expr)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, id)
		needSep = true
	}
	return nodes, nil
}

func (f *flattener) expr(e *expr) (ast.NodeID, error) {
	lhs, err := f.term(e.Head)
	if err != nil {
		return ast.NoNodeID, err
	}
	for _, op := range e.Tail {
		rhs, err := f.term(op.RHS)
		if err != nil {
			return ast.NoNodeID, err
		}
		kind := ast.NodePlus
		if op.Op == "-" {
			kind = ast.NodeMinus
		}
		lhs = f.binary(lhs, kind, op.Pos, rhs)
	}
	return lhs, nil
}

func (f *flattener) term(t *term) (ast.NodeID, error) {
	lhs, err := f.primary(t.Head)
	if err != nil {
		return ast.NoNodeID, err
	}
	for _, op := range t.Tail {
		rhs, err := f.primary(op.RHS)
		if err != nil {
			return ast.NoNodeID, err
		}
		kind := ast.NodeMultiply
		if op.Op == "/" {
			kind = ast.NodeDivide
		}
		lhs = f.binary(lhs, kind, op.Pos, rhs)
	}
	return lhs, nil
}

func (f *flattener) binary(lhs ast.NodeID, kind ast.NodeKind, pos lexer.Position, rhs ast.NodeID) ast.NodeID {
	start := offset(pos.Offset)
	op := f.b.NewLeaf(kind, start, start+1)
	return f.b.NewBinary(lhs, op, rhs)
}

func (f *flattener) primary(p *primary) (ast.NodeID, error) {
	start := offset(p.Pos.Offset)
	leaf := func(kind ast.NodeKind, text string) ast.NodeID {
		return f.b.NewLeaf(kind, start, start+offset(len(text)))
	}
	switch {
	case p.Int != nil:
		return leaf(ast.NodeInt, *p.Int), nil
	case p.String != nil:
		return leaf(ast.NodeString, *p.String), nil
	case p.Variable != nil:
		return leaf(ast.NodeVariable, *p.Variable), nil
	case p.Name != nil:
		return leaf(ast.NodeName, *p.Name), nil
	case p.Paren != nil:
		return f.expr(p.Paren)
	case p.Block != nil:
		nodes, err := f.items(p.Block.Items)
		if err != nil {
			return ast.NoNodeID, err
		}
		end := offset(p.Block.Close.Pos.Offset) + 1
		return f.b.NewBlock(nodes, start, end), nil
	}
	return ast.NoNodeID, f.errorAt(p.Pos, "empty expression")
}

func (f *flattener) errorAt(pos lexer.Position, msg string) *Error {
	start := offset(pos.Offset)
	end := start
	if int(end) < len(f.b.Source) {
		end++
	}
	return &Error{
		Span:   source.Span{File: f.b.File, Start: start, End: end},
		Line:   pos.Line,
		Column: pos.Column,
		Msg:    msg,
	}
}
