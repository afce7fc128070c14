package diagfmt

import (
	"fmt"
	"path/filepath"

	"nuir/internal/source"
)

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil && f.Flags&source.FileVirtual == 0 {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeBasename:
		return filepath.Base(f.Path)
	default:
		return f.RelPath(fs.BaseDir())
	}
}

// hasLocation reports whether the span points somewhere. Diagnostics about
// nodes that do not exist carry the zero span.
func hasLocation(span source.Span, fs *source.FileSet) bool {
	if fs == nil || (span.Start == 0 && span.End == 0 && span.File == 0) {
		return false
	}
	return fs.Get(span.File) != nil
}

// formatLocation renders "path:line:col" or "<no-span>".
func formatLocation(span source.Span, fs *source.FileSet, mode PathMode) string {
	if !hasLocation(span, fs) {
		return "<no-span>"
	}
	f := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), start.Line, start.Col)
}
