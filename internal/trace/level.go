package trace

import (
	"fmt"
	"strings"
)

// Level selects how much is traced. Each level includes the ones below it.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // only crash dumps
	LevelPhase               // driver + pass boundaries
	LevelDetail              // per-file events
	LevelDebug               // everything including node-level
)

var levelNames = []string{"off", "error", "phase", "detail", "debug"}

// widestScope is the finest scope each level lets through; 0 blocks all.
var widestScope = []Scope{0, 0, ScopePass, ScopeFile, ScopeNode}

func (l Level) String() string { return nameOf(levelNames, int(l)) }

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(widestScope) && scope > 0 && scope <= widestScope[l]
}

// ParseLevel accepts off|error|phase|detail|debug in any case; "" is off.
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelOff, nil
	}
	i, ok := indexOf(levelNames, s)
	if !ok {
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames, "|"))
	}
	return Level(i), nil
}

// StorageMode decides where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written immediately
	ModeRing                          // kept in memory, dumped on demand
	ModeBoth
)

var modeNames = []string{"", "stream", "ring", "both"}

func (m StorageMode) String() string { return nameOf(modeNames, int(m)) }

// ParseMode accepts stream|ring|both.
func ParseMode(s string) (StorageMode, error) {
	i, ok := indexOf(modeNames, s)
	if !ok || i == 0 {
		return ModeStream, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
	}
	return StorageMode(i), nil
}

// Format is the encoding of one event.
type Format uint8

const (
	FormatAuto   Format = iota // decided by the output path
	FormatText                 // human-readable
	FormatNDJSON               // one JSON object per line
)

var formatNames = []string{"auto", "text", "ndjson"}

func (f Format) String() string { return nameOf(formatNames, int(f)) }

// ParseFormat accepts auto|text|ndjson; json is an alias for ndjson.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatAuto, nil
	}
	if strings.EqualFold(s, "json") {
		return FormatNDJSON, nil
	}
	i, ok := indexOf(formatNames, s)
	if !ok {
		return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
	}
	return Format(i), nil
}

// FormatForPath resolves FormatAuto from a file extension.
func FormatForPath(path string) Format {
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

func nameOf(names []string, i int) string {
	if i < 0 || i >= len(names) || names[i] == "" {
		return "unknown"
	}
	return names[i]
}

func indexOf(names []string, s string) (int, bool) {
	for i, n := range names {
		if n != "" && strings.EqualFold(n, s) {
			return i, true
		}
	}
	return 0, false
}
