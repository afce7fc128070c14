package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"nuir/internal/diag"
	"nuir/internal/source"
)

func fixture() (*diag.Bag, *source.FileSet) {
	fs := source.NewFileSetWithBase("/proj")
	id := fs.AddVirtual("/proj/src/a.nu", []byte("2 * 3\n1 + abc\n"))

	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.IRInvalidLiteral, 5, "failed to convert a node to integer").
		WithSpan(source.Span{File: id, Start: 10, End: 13}))
	bag.Add(diag.NewError(diag.IRInvalidNodeRef, 9, "node 9 does not exist"))
	return bag, fs
}

func TestShort(t *testing.T) {
	bag, fs := fixture()
	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, PathModeAuto); err != nil {
		t.Fatalf("short: %v", err)
	}
	want := `src/a.nu:2:5: ERROR IRG4001: failed to convert a node to integer
<no-span>: ERROR IRG4005: node 9 does not exist
`
	if buf.String() != want {
		t.Fatalf("short mismatch\nwant:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestPretty(t *testing.T) {
	bag, fs := fixture()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1})

	want := `src/a.nu:2:5: ERROR IRG4001: failed to convert a node to integer
1 | 2 * 3
2 | 1 + abc
  |     ^~~
3 | 

<no-span>: ERROR IRG4005: node 9 does not exist
`
	if buf.String() != want {
		t.Fatalf("pretty mismatch\nwant:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := fixture()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Color: true})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes, got %q", buf.String())
	}
}

func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("界 + x\n")
	id := fs.AddVirtual("w.nu", content)
	bag := diag.NewBag(0)
	start := uint32(strings.Index(string(content), "x"))
	bag.Add(diag.NewError(diag.IRUnsupportedNode, 2, "node Name not supported yet").
		WithSpan(source.Span{File: id, Start: start, End: start + 1}))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected output %q", buf.String())
	}
	// 界 is two columns wide
	if lines[2] != "  |      ^" {
		t.Fatalf("caret line %q", lines[2])
	}
}

func TestPathModes(t *testing.T) {
	bag, fs := fixture()
	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeAuto, "src/a.nu:2:5"},
		{PathModeRelative, "src/a.nu:2:5"},
		{PathModeBasename, "a.nu:2:5"},
		{PathModeAbsolute, "/proj/src/a.nu:2:5"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Short(&buf, bag, fs, tt.mode); err != nil {
			t.Fatalf("short: %v", err)
		}
		if !strings.HasPrefix(buf.String(), tt.want+":") {
			t.Fatalf("mode %d: want prefix %q, got %q", tt.mode, tt.want, buf.String())
		}
	}
}

func TestJSON(t *testing.T) {
	bag, fs := fixture()
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, Max: 1}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 2 || len(out.Diagnostics) != 1 {
		t.Fatalf("count=%d len=%d", out.Count, len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Code != "IRG4001" || d.Severity != "Error" || d.Node != 5 {
		t.Fatalf("unexpected %+v", d)
	}
	if d.Location.File != "src/a.nu" || d.Location.StartLine != 2 || d.Location.StartCol != 5 || d.Location.EndCol != 8 {
		t.Fatalf("location %+v", d.Location)
	}
}

func TestParsePathMode(t *testing.T) {
	for _, m := range []PathMode{PathModeAuto, PathModeAbsolute, PathModeRelative, PathModeBasename} {
		got, ok := ParsePathMode(m.String())
		if !ok || got != m {
			t.Fatalf("%s: got %v, %v", m, got, ok)
		}
	}
	if _, ok := ParsePathMode("full"); ok {
		t.Fatalf("unknown mode accepted")
	}
}
