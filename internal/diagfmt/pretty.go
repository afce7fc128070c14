package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"nuir/internal/diag"
	"nuir/internal/source"
)

type palette struct {
	err, warn, code, gutter, caret, path *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		path:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.code, p.gutter, p.caret, p.path} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		sev := pal.err
		if d.Severity == diag.SevWarning {
			sev = pal.warn
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			pal.path.Sprint(formatLocation(d.Primary, fs, opts.PathMode)),
			sev.Sprint(strings.ToUpper(d.Severity.String())),
			pal.code.Sprint(d.Code.ID()),
			d.Message,
		)
		if hasLocation(d.Primary, fs) {
			writeSnippet(w, fs, d.Primary, opts, pal)
		}
	}
}

func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts, pal palette) {
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)
	ctx := uint32(max(opts.Context, 0)) //nolint:gosec // non-negative int8
	first := start.Line - min(ctx, start.Line-1)
	last := start.Line + ctx
	if lines := uint32(len(f.LineIdx)) + 1; last > lines { //nolint:gosec // bounded by FileSet.Add
		last = lines
	}
	gutterWidth := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		line := f.GetLine(n)
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, n), clip(line, opts.Width))
		if n != start.Line {
			continue
		}
		col := min(int(start.Col)-1, len(line))
		endCol := len(line)
		if end.Line == start.Line {
			endCol = min(max(int(end.Col)-1, col), len(line))
		}
		pad := runewidth.StringWidth(line[:col])
		width := max(runewidth.StringWidth(line[col:endCol]), 1)
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), pal.caret.Sprint(marker))
	}
}

func clip(line string, width uint8) string {
	if width == 0 || runewidth.StringWidth(line) <= int(width) {
		return line
	}
	return runewidth.Truncate(line, int(width), "...")
}
