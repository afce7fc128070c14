package main

import (
	"fmt"
	"io"

	"nuir/internal/diag"
	"nuir/internal/diagfmt"
	"nuir/internal/source"
)

// renderDiagnostics prints bag to w: one line per diagnostic in quiet mode,
// with a source snippet otherwise.
func renderDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, s settings) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	if s.Quiet {
		if err := diagfmt.Short(w, bag, fs, s.PathMode); err != nil {
			return err
		}
	} else {
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:    s.Color,
			Context:  1,
			PathMode: s.PathMode,
		})
	}
	if n := bag.Dropped(); n > 0 {
		_, err := fmt.Fprintf(w, "... %d more diagnostics not shown (--max-diagnostics)\n", n)
		return err
	}
	return nil
}
