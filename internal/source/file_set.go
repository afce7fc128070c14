package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
)

// FileSet owns every loaded file version. Re-adding a path yields a new
// FileID; older ids stay valid so diagnostics keep their text.
type FileSet struct {
	files   []File
	latest  map[string]FileID
	baseDir string
}

func NewFileSet() *FileSet { return NewFileSetWithBase("") }

// NewFileSetWithBase задаёт каталог, относительно которого печатаются пути.
func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{latest: map[string]FileID{}, baseDir: baseDir}
}

func (s *FileSet) SetBaseDir(dir string) { s.baseDir = dir }

// BaseDir falls back to the working directory when no base was set.
func (s *FileSet) BaseDir() string {
	if s.baseDir != "" {
		return s.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

func (s *FileSet) Len() int { return len(s.files) }

// Add registers already normalized content under path.
func (s *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("%s: file too large: %w", path, err))
	}
	next, err := safecast.Conv[uint32](len(s.files))
	if err != nil {
		panic(fmt.Errorf("file set is full: %w", err))
	}
	id := FileID(next)
	key := normalizePath(path)
	s.files = append(s.files, File{
		ID:      id,
		Path:    key,
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	s.latest[key] = id
	return id
}

// Load reads path, normalizes the bytes and adds them. The first Load
// pins the base dir when none was set.
func (s *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- caller-chosen path
	if err != nil {
		return 0, err
	}
	if s.baseDir == "" {
		s.baseDir = filepath.Dir(path)
	}
	flags := Normalize(&content)
	return s.Add(path, content, flags), nil
}

// AddVirtual adds in-memory text, normalized like Load.
func (s *FileSet) AddVirtual(name string, content []byte) FileID {
	flags := Normalize(&content) | FileVirtual
	return s.Add(name, content, flags)
}

// Normalize strips a BOM, folds CRLF and rewrites to NFC in place.
func Normalize(content *[]byte) FileFlags {
	steps := [...]struct {
		fn   func([]byte) ([]byte, bool)
		flag FileFlags
	}{
		{removeBOM, FileHadBOM},
		{normalizeCRLF, FileNormalizedCRLF},
		{normalizeNFC, FileNormalizedNFC},
	}
	var flags FileFlags
	for _, st := range steps {
		var changed bool
		if *content, changed = st.fn(*content); changed {
			flags |= st.flag
		}
	}
	return flags
}

// Get returns nil for ids this set never issued.
func (s *FileSet) Get(id FileID) *File {
	if uint64(id) >= uint64(len(s.files)) {
		return nil
	}
	return &s.files[id]
}

// GetLatest returns the newest version registered under path.
func (s *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := s.latest[normalizePath(path)]
	return id, ok
}

// Resolve maps both ends of span to line/column.
func (s *FileSet) Resolve(span Span) (start, end LineCol) {
	f := s.Get(span.File)
	if f == nil {
		return
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Slice returns the covered bytes, clamped to the file.
func (f *File) Slice(span Span) []byte {
	if f == nil {
		return nil
	}
	size := uint32(len(f.Content)) //nolint:gosec // checked in Add
	lo, hi := min(span.Start, size), min(span.End, size)
	if hi < lo {
		return nil
	}
	return f.Content[lo:hi]
}

// GetLine returns line n (1-based) without its newline, "" past the end.
func (f *File) GetLine(n uint32) string {
	if f == nil || n == 0 || uint64(n) > uint64(len(f.LineIdx))+1 {
		return ""
	}
	lo := uint32(0)
	if n > 1 {
		lo = f.LineIdx[n-2] + 1
	}
	hi := uint32(len(f.Content)) //nolint:gosec // checked in Add
	if uint64(n) <= uint64(len(f.LineIdx)) {
		hi = f.LineIdx[n-1]
	}
	if lo > hi {
		return ""
	}
	return string(f.Content[lo:hi])
}

// RelPath shortens an absolute path under baseDir; anything else prints as is.
func (f *File) RelPath(baseDir string) string {
	if f == nil {
		return ""
	}
	if baseDir == "" || !filepath.IsAbs(f.Path) {
		return f.Path
	}
	rel, err := filepath.Rel(baseDir, f.Path)
	if err != nil {
		return f.Path
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return f.Path
	}
	return rel
}
