package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "ERROR", "phase", "Detail", "debug"} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)

	span := Begin(tr, ScopePass, "irgen", 0)
	Point(tr, ScopeNode, "node", "Int", span.ID())
	span.WithExtra("registers", "2").WithExtra("instrs", "4").End("ok")

	out := buf.String()
	for _, want := range []string{"→ irgen", "• node (Int)", "← irgen (ok) {instrs=4, registers=2}"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestStreamTracerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	Point(tr, ScopeNode, "node", "", 0)
	if buf.Len() != 0 {
		t.Fatalf("node event leaked at phase level: %q", buf.String())
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeStream, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Begin(tr, ScopeDriver, "gen", 0).End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if ev["kind"] != "end" || ev["name"] != "gen" || ev["scope"] != "driver" {
		t.Fatalf("unexpected event %v", ev)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopePass, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot size %d", len(snap))
	}
	got := snap[0].Name + snap[1].Name + snap[2].Name
	if got != "cde" {
		t.Fatalf("snapshot order %q, want cde", got)
	}
}

func TestMultiTracerAndContext(t *testing.T) {
	var buf bytes.Buffer
	m, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf, RingSize: 8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := WithTracer(context.Background(), m)
	span := Begin(FromContext(ctx), ScopePass, "parse", CurrentSpan(ctx))
	ctx = WithSpan(ctx, span)
	if CurrentSpan(ctx) != span.ID() {
		t.Fatalf("span id not propagated")
	}
	span.End("")

	ring := m.(*MultiTracer).Ring()
	if ring == nil || len(ring.Snapshot()) != 2 {
		t.Fatalf("ring did not receive events")
	}
	if buf.Len() == 0 {
		t.Fatalf("stream did not receive events")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNopDefaults(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("missing tracer must be Nop")
	}
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("LevelOff must yield a disabled tracer")
	}
	if d := Begin(Nop, ScopePass, "x", 0).End(""); d != 0 {
		t.Fatalf("nop span measured time")
	}
}

func TestRingOf(t *testing.T) {
	r := NewRingTracer(2, LevelPhase)
	if RingOf(r) != r {
		t.Fatalf("RingOf(ring) must return the ring")
	}
	if RingOf(NewMultiTracer(LevelPhase, NewStreamTracer(&bytes.Buffer{}, LevelPhase, FormatText), r)) != r {
		t.Fatalf("RingOf(multi) must find the ring target")
	}
	if RingOf(Nop) != nil {
		t.Fatalf("Nop has no ring")
	}
}

func TestFormatParsing(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatAuto},
		{"TEXT", FormatText},
		{"json", FormatNDJSON},
		{"ndjson", FormatNDJSON},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("ParseFormat(%q) = %v, %v", tt.in, got, err)
		}
	}
	if FormatForPath("out.jsonl") != FormatNDJSON || FormatForPath("out.log") != FormatText {
		t.Fatalf("FormatForPath picked the wrong format")
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestWithCount(t *testing.T) {
	r := NewRingTracer(4, LevelPhase)
	Begin(r, ScopePass, "irgen", 0).WithCount("instrs", 4).End("")
	snap := r.Snapshot()
	if len(snap) != 2 || snap[1].Extra["instrs"] != "4" {
		t.Fatalf("unexpected events %+v", snap)
	}
}
