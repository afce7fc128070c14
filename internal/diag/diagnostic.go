package diag

import (
	"fmt"

	"nuir/internal/ast"
	"nuir/internal/source"
)

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	// Node is the originating AST node; NoNodeID for file-level problems.
	Node ast.NodeID
	// Primary is the node span when known; zero otherwise.
	Primary source.Span
}

func New(sev Severity, code Code, node ast.NodeID, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Node:     node,
	}
}

func NewError(code Code, node ast.NodeID, msg string) Diagnostic {
	return New(SevError, code, node, msg)
}

// WithSpan returns a copy with the primary span set.
func (d Diagnostic) WithSpan(sp source.Span) Diagnostic {
	d.Primary = sp
	return d
}

// String is the compact form used by generator state dumps:
//
//	Error (NodeId 3): node String not supported yet
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s (NodeId %d): %s", d.Severity, d.Node, d.Message)
}
