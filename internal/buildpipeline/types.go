package buildpipeline

import (
	"time"

	"nuir/internal/driver"
)

// Stage names a pipeline phase. The driver phases map onto stages by name.
type Stage string

const (
	StageLoad     Stage = driver.PhaseLoad
	StageParse    Stage = driver.PhaseParse
	StageGenerate Stage = driver.PhaseGenerate
	StageValidate Stage = driver.PhaseValidate
	// StageRun is timed by the run command, the driver never reports it.
	StageRun Stage = "run"
)

// Status is where a file is in its trip through the stages.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event is one progress update for File. An empty Stage with a final status
// closes the file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Elapsed time.Duration
	Cached  bool
}

// ProgressSink consumes progress events. OnEvent may be called from several
// goroutines in directory mode.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards every event into the channel; a nil channel drops them.
type ChannelSink chan<- Event

func (ch ChannelSink) OnEvent(ev Event) {
	if ch != nil {
		ch <- ev
	}
}

// Timings sums stage durations over all files of one request.
type Timings struct {
	total map[Stage]time.Duration
}

func (t *Timings) Add(stage Stage, d time.Duration) {
	if t == nil {
		return
	}
	if t.total == nil {
		t.total = make(map[Stage]time.Duration, 5)
	}
	t.total[stage] += d
}

// Has reports whether any of stages has been recorded.
func (t Timings) Has(stages ...Stage) bool {
	for _, s := range stages {
		if _, ok := t.total[s]; ok {
			return true
		}
	}
	return false
}

func (t Timings) Duration(stage Stage) time.Duration {
	return t.total[stage]
}

// Sum adds up the given stages; unrecorded stages count as zero.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var sum time.Duration
	for _, s := range stages {
		sum += t.total[s]
	}
	return sum
}
