package diag

import "nuir/internal/ast"

// DedupReporter forwards each distinct (code, severity, node, message)
// once. Not safe for concurrent use.
type DedupReporter struct {
	next Reporter
	seen map[reportKey]bool
}

type reportKey struct {
	Code     Code
	Severity Severity
	Node     ast.NodeID
	Message  string
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: map[reportKey]bool{}}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	k := reportKey{d.Code, d.Severity, d.Node, d.Message}
	if r.seen[k] {
		return
	}
	r.seen[k] = true
	if r.next != nil {
		r.next.Report(d)
	}
}
