package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a pipeline phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
	// PhaseFailed ends a phase that produced errors.
	PhaseFailed
)

// Phase names.
const (
	PhaseLoad     = "load"
	PhaseParse    = "parse"
	PhaseGenerate = "irgen"
	PhaseValidate = "validate"
)

// PhaseEvent describes a phase boundary for one file.
type PhaseEvent struct {
	File    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	Cached  bool
}

// PhaseObserver receives phase events. In directory mode it is called from
// several goroutines.
type PhaseObserver func(PhaseEvent)

func (o PhaseObserver) emit(ev PhaseEvent) {
	if o != nil {
		o(ev)
	}
}
