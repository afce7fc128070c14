package buildpipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"nuir/internal/driver"
	"nuir/internal/source"
)

// Request describes one generation run over a file or a directory.
type Request struct {
	Path     string
	Options  driver.Options
	Progress ProgressSink
}

// Outcome collects the per-file results in path order.
type Outcome struct {
	FileSet *source.FileSet
	Results []*driver.Result
	Timings Timings
}

// HasErrors reports whether any file produced an Error diagnostic.
func (o *Outcome) HasErrors() bool {
	for _, r := range o.Results {
		if r.HasErrors() {
			return true
		}
	}
	return false
}

// Files lists the inputs a request will touch, for progress displays.
func Files(path string) ([]string, error) {
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	return driver.ListSourceFiles(path)
}

// Generate runs the driver and translates its phase events into progress
// events. Every file goes through queued → working stages → done|error.
func Generate(ctx context.Context, req Request) (*Outcome, error) {
	out := &Outcome{}
	path := filepath.Clean(req.Path)
	files, err := Files(path)
	if err != nil {
		return nil, err
	}
	emitQueued(req.Progress, files)

	var mu sync.Mutex
	failed := make(map[string]bool, len(files))
	opts := req.Options
	next := opts.Observer
	opts.Observer = func(ev driver.PhaseEvent) {
		if next != nil {
			next(ev)
		}
		stage := Stage(ev.Name)
		mu.Lock()
		if ev.Status != driver.PhaseStart {
			out.Timings.Add(stage, ev.Elapsed)
		}
		if ev.Status == driver.PhaseFailed {
			failed[ev.File] = true
		}
		mu.Unlock()
		emit(req.Progress, Event{File: ev.File, Stage: stage, Status: phaseStatus(ev.Status), Elapsed: ev.Elapsed, Cached: ev.Cached})
	}

	if len(files) == 1 && files[0] == path {
		out.FileSet = source.NewFileSet()
		res, err := driver.GenerateFile(ctx, out.FileSet, path, opts)
		if err != nil {
			emitFinal(req.Progress, files, map[string]bool{path: true})
			return nil, err
		}
		out.Results = []*driver.Result{res}
	} else {
		fs, results, err := driver.GenerateDir(ctx, path, opts)
		out.FileSet = fs
		out.Results = results
		if err != nil {
			emitFinal(req.Progress, files, failed)
			return out, err
		}
	}
	for _, r := range out.Results {
		if r != nil && r.HasErrors() {
			failed[r.File.Path] = true
		}
	}
	emitFinal(req.Progress, files, failed)
	return out, nil
}

// phaseStatus maps a phase boundary; a file is done only after its last phase.
func phaseStatus(s driver.PhaseStatus) Status {
	if s == driver.PhaseFailed {
		return StatusError
	}
	return StatusWorking
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

func emitQueued(sink ProgressSink, files []string) {
	for _, f := range files {
		emit(sink, Event{File: f, Status: StatusQueued})
	}
}

func emitFinal(sink ProgressSink, files []string, failed map[string]bool) {
	for _, f := range files {
		status := StatusDone
		if failed[f] {
			status = StatusError
		}
		emit(sink, Event{File: f, Status: status})
	}
}
