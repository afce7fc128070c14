package parser

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
	"github.com/alecthomas/participle/v2"

	"nuir/internal/ast"
	"nuir/internal/diag"
	"nuir/internal/source"
)

// Error is a syntax error. Парсер останавливается на первой ошибке.
type Error struct {
	Span   source.Span
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

type Options struct {
	// Reporter receives the syntax error, if any.
	Reporter diag.Reporter
}

type Result struct {
	Tree *ast.Builder
	Bag  *diag.Bag
}

// ParseFile parses one loaded file. A syntax error is reported as a
// diagnostic and leaves Tree nil.
func ParseFile(file *source.File, opts Options) Result {
	bag := diag.NewBag(0)
	var reporter diag.Reporter = diag.BagReporter{Bag: bag}
	if opts.Reporter != nil {
		reporter = diag.MultiReporter{reporter, opts.Reporter}
	}

	tree, err := ParseBytes(file.ID, file.Path, file.Content)
	if err != nil {
		var pe *Error
		if !errors.As(err, &pe) {
			pe = &Error{Span: source.Span{File: file.ID}, Msg: err.Error()}
		}
		reporter.Report(diag.NewError(diag.SynUnexpectedToken, ast.NoNodeID, pe.Msg).WithSpan(pe.Span))
		return Result{Bag: bag}
	}
	return Result{Tree: tree, Bag: bag}
}

// ParseBytes parses src into a flat post-order tree. The last node is always
// the block of top-level statements. Errors are of type *Error.
func ParseBytes(file source.FileID, name string, src []byte) (*ast.Builder, error) {
	if _, err := safecast.Conv[uint32](len(src)); err != nil {
		return nil, fmt.Errorf("%s: source too large: %w", name, err)
	}
	prog, err := nuParser.ParseBytes(name, src)
	if err != nil {
		return nil, convertError(file, src, err)
	}

	f := &flattener{
		b: ast.NewBuilder(file, src, ast.Hints{Nodes: uint(len(src)/2 + 1)}),
	}
	if err := f.program(prog); err != nil {
		return nil, err
	}
	return f.b, nil
}

func convertError(file source.FileID, src []byte, err error) error {
	var pe participle.Error
	if !errors.As(err, &pe) {
		return err
	}
	pos := pe.Position()
	start := offset(min(max(pos.Offset, 0), len(src)))
	end := start
	if int(end) < len(src) {
		end++
	}
	return &Error{
		Span:   source.Span{File: file, Start: start, End: end},
		Line:   pos.Line,
		Column: pos.Column,
		Msg:    pe.Message(),
	}
}

// offset narrows a byte offset; ParseBytes has already checked the source size.
func offset(n int) uint32 {
	return uint32(n) //nolint:gosec // len(src) fits in uint32
}
