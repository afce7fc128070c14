// Package diag defines the diagnostic model shared by the front end and the
// IR generator.
//
// A Diagnostic is a recoverable report tied to an AST node: severity, a
// stable numeric Code, a short message, the originating node id and, when the
// producer knows it, the primary source span. Producers never panic or return
// errors for problems in the input program; they report through a Reporter
// and keep going.
//
// Bag is the ordered, optionally capped store used by phases. BagReporter
// adapts it to Reporter; DedupReporter filters repeated reports.
//
// Rendering lives in internal/diagfmt. This package does no IO.
package diag
