package diagfmt

// PathMode chooses how file paths are printed in locations.
type PathMode uint8

const (
	PathModeAuto     PathMode = iota // relative to the FileSet base dir when possible
	PathModeAbsolute                 // virtual files keep their name
	PathModeRelative
	PathModeBasename
)

var pathModeNames = [...]string{
	PathModeAuto:     "auto",
	PathModeAbsolute: "absolute",
	PathModeRelative: "relative",
	PathModeBasename: "basename",
}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return "auto"
}

// ParsePathMode is the inverse of String; "" means auto.
func ParsePathMode(s string) (PathMode, bool) {
	if s == "" {
		return PathModeAuto, true
	}
	for m, name := range pathModeNames {
		if name == s {
			return PathMode(m), true //nolint:gosec // index of a 4-entry table
		}
	}
	return PathModeAuto, false
}

// PrettyOpts настраивает человекочитаемый вывод.
type PrettyOpts struct {
	Color    bool
	Context  int8 // строк вокруг основной
	PathMode PathMode
	Width    uint8 // 0 = без обрезки
}

// JSONOpts настраивает машинный вывод.
type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	Max              int // limits the listing only, Count stays the full size
}
