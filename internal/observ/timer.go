// Package observ measures the phases of one file's trip through the pipeline.
package observ

import (
	"fmt"
	"io"
	"time"
)

// Timer records phases in start order. Not safe for concurrent use; batch
// runs keep one Timer per file.
type Timer struct {
	now    func() time.Time
	phases []phase
}

type phase struct {
	name    string
	started time.Time
	dur     time.Duration
	note    string
}

func NewTimer() *Timer { return &Timer{now: time.Now} }

// Begin starts a phase and returns its index for End.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, phase{name: name, started: t.now()})
	return len(t.phases) - 1
}

// End closes phase idx; unknown indexes are ignored.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.dur = t.now().Sub(p.started)
	p.note = note
}

// Track begins a phase and returns the function that ends it.
func (t *Timer) Track(name string) func(note string) {
	idx := t.Begin(name)
	return func(note string) { t.End(idx, note) }
}

// PhaseReport is one phase in milliseconds.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report is the serialisable form of a Timer.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report snapshots the phases; a nil or empty timer gives the zero Report.
func (t *Timer) Report() Report {
	var r Report
	if t == nil || len(t.phases) == 0 {
		return r
	}
	var total time.Duration
	r.Phases = make([]PhaseReport, len(t.phases))
	for i, p := range t.phases {
		total += p.dur
		r.Phases[i] = PhaseReport{Name: p.name, DurationMS: millis(p.dur), Note: p.note}
	}
	r.TotalMS = millis(total)
	return r
}

// WriteTo prints one aligned line per phase and a total:
//
//	parse           0.12 ms  // 7 nodes
//	total           0.30 ms
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var written int64
	line := func(name string, ms float64, note string) error {
		if note != "" {
			note = "  // " + note
		}
		n, err := fmt.Fprintf(w, "  %-10s %8.2f ms%s\n", name, ms, note)
		written += int64(n)
		return err
	}
	for _, p := range r.Phases {
		if err := line(p.Name, p.DurationMS, p.Note); err != nil {
			return written, err
		}
	}
	return written, line("total", r.TotalMS, "")
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
