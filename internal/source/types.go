package source

// FileID is the index of a file version inside its FileSet.
type FileID uint32

// FileFlags records what loading did to the raw bytes.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // из памяти, не с диска
	FileHadBOM                               // UTF-8 BOM был срезан
	FileNormalizedCRLF                       // \r\n → \n
	FileNormalizedNFC                        // текст переписан в NFC
)

// File is one immutable version of a source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of every '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol is a 1-based line/column pair; columns count bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}
