package source

import "fmt"

// Span addresses bytes [Start, End) of one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// IsZero reports whether s is the zero Span (no location attached).
func (s Span) IsZero() bool { return s == Span{} }

// Empty is true for zero-width spans.
func (s Span) Empty() bool { return s.End <= s.Start }

// Len is the width in bytes; inverted spans count as empty.
func (s Span) Len() uint32 {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover widens s to include other. Foreign-file spans leave s unchanged.
func (s Span) Cover(other Span) Span {
	if s.File == other.File {
		s.Start = min(s.Start, other.Start)
		s.End = max(s.End, other.End)
	}
	return s
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	if s.File != other.File {
		return false
	}
	return s.Start <= other.Start && other.End <= s.End
}
