package diagfmt

import (
	"encoding/json"
	"io"

	"nuir/internal/diag"
	"nuir/internal/source"
)

// LocationJSON is a span with optional resolved positions.
type LocationJSON struct {
	File      string `json:"file,omitempty"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Node     uint32       `json:"node,omitempty"`
	Location LocationJSON `json:"location"`
}

// DiagnosticsOutput is the document JSON writes.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Dropped     int              `json:"dropped,omitempty"`
}

// BuildDiagnosticsOutput converts bag into its JSON shape.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	shown := items
	if opts.Max > 0 && len(shown) > opts.Max {
		shown = shown[:opts.Max]
	}
	out := DiagnosticsOutput{
		Diagnostics: make([]DiagnosticJSON, len(shown)),
		Count:       len(items),
		Dropped:     bag.Dropped(),
	}
	for i, d := range shown {
		out.Diagnostics[i] = DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Node:     uint32(d.Node),
			Location: locationOf(d.Primary, fs, opts),
		}
	}
	return out
}

func locationOf(span source.Span, fs *source.FileSet, opts JSONOpts) LocationJSON {
	loc := LocationJSON{StartByte: span.Start, EndByte: span.End}
	if !hasLocation(span, fs) {
		return loc
	}
	loc.File = formatPath(fs.Get(span.File), fs, opts.PathMode)
	if !opts.IncludePositions {
		return loc
	}
	from, to := fs.Resolve(span)
	loc.StartLine, loc.StartCol = from.Line, from.Col
	loc.EndLine, loc.EndCol = to.Line, to.Col
	return loc
}

// JSON writes one indented document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
