package observ

import (
	"strings"
	"testing"
	"time"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	at := time.Unix(0, 0)
	return func() time.Time {
		at = at.Add(step)
		return at
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)
	end := tm.Track("parse")
	end("3 nodes")
	idx := tm.Begin("irgen")
	tm.End(idx, "")
	tm.End(42, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(rep.Phases))
	}
	if rep.Phases[0].Name != "parse" || rep.Phases[0].Note != "3 nodes" || rep.Phases[1].Name != "irgen" {
		t.Fatalf("unexpected phases %+v", rep.Phases)
	}
	if rep.Phases[0].DurationMS != 1 || rep.TotalMS != 2 {
		t.Fatalf("durations: %+v", rep)
	}

	var sb strings.Builder
	if _, err := rep.WriteTo(&sb); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "  parse          1.00 ms  // 3 nodes\n" +
		"  irgen          1.00 ms\n" +
		"  total          2.00 ms\n"
	if sb.String() != want {
		t.Fatalf("report mismatch\nwant:\n%s\ngot:\n%s", want, sb.String())
	}
}

func TestEmptyTimer(t *testing.T) {
	var tm *Timer
	if rep := tm.Report(); rep.TotalMS != 0 || rep.Phases != nil {
		t.Fatalf("nil timer report: %+v", rep)
	}
}
