package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"nuir/internal/ast"
	"nuir/internal/diag"
	"nuir/internal/ir"
	"nuir/internal/irgen"
	"nuir/internal/observ"
	"nuir/internal/parser"
	"nuir/internal/source"
	"nuir/internal/trace"
)

// Result is the outcome of generating one file.
type Result struct {
	File *source.File
	// Tree is nil for cache hits and syntax errors.
	Tree  *ast.Builder
	Block *ir.Block
	Bag   *diag.Bag
	// State is the generator's DisplayState.
	State  string
	Cached bool
	Timing *observ.Report
}

// HasErrors reports whether the file produced any Error diagnostic.
func (r *Result) HasErrors() bool {
	return r != nil && r.Bag != nil && r.Bag.HasErrors()
}

// GenerateFile loads path into fs and generates it. I/O errors are returned;
// problems in the source are diagnostics in the result.
func GenerateFile(ctx context.Context, fs *source.FileSet, path string, opts Options) (*Result, error) {
	started := time.Now()
	opts.Observer.emit(PhaseEvent{File: path, Name: PhaseLoad, Status: PhaseStart})
	id, err := fs.Load(path)
	if err != nil {
		opts.Observer.emit(PhaseEvent{File: path, Name: PhaseLoad, Status: PhaseFailed, Elapsed: time.Since(started)})
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	opts.Observer.emit(PhaseEvent{File: path, Name: PhaseLoad, Status: PhaseEnd, Elapsed: time.Since(started)})
	return GenerateSource(ctx, fs.Get(id), opts)
}

// GenerateSource runs parse → irgen → validate over an already loaded file.
func GenerateSource(ctx context.Context, f *source.File, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "file:"+f.Path, trace.CurrentSpan(ctx))
	defer span.End("")

	key := cacheKey(f, opts)
	if opts.Cache != nil {
		entry, err := opts.Cache.load(key)
		if err != nil {
			// битый кэш не мешает генерации
			trace.Point(tracer, trace.ScopeFile, "cache-error", err.Error(), span.ID())
		}
		if entry != nil {
			span.WithExtra("cached", "true")
			opts.Observer.emit(PhaseEvent{File: f.Path, Name: PhaseGenerate, Status: PhaseEnd, Cached: true})
			return entry.result(f, opts.MaxDiagnostics), nil
		}
	}

	timer := observ.NewTimer()
	bag := diag.NewBag(opts.MaxDiagnostics)
	res := &Result{File: f, Bag: bag}

	phase := observePhase(opts.Observer, f.Path, PhaseParse)
	end := timer.Track(PhaseParse)
	parsed := parser.ParseFile(f, parser.Options{})
	bag.Merge(parsed.Bag)
	if parsed.Tree == nil {
		end("syntax error")
		phase(true)
		res.Block = ir.NewBlock(nil, 0, 0)
		res.Timing = reportPtr(timer)
		return res, nil
	}
	res.Tree = parsed.Tree
	end(strconv.FormatUint(uint64(parsed.Tree.NodeCount()), 10) + " nodes")
	phase(false)

	phase = observePhase(opts.Observer, f.Path, PhaseGenerate)
	end = timer.Track(PhaseGenerate)
	gen := irgen.New(parsed.Tree, irgen.Options{
		MaxDepth:   opts.MaxDepth,
		Reporter:   diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		Tracer:     tracer,
		ParentSpan: span.ID(),
	})
	gen.Generate()
	res.Block = gen.Block()
	res.State = gen.DisplayState()
	end(strconv.Itoa(res.Block.Len()) + " instrs")
	phase(gen.HasErrors())

	if opts.Validate && !gen.HasErrors() {
		phase = observePhase(opts.Observer, f.Path, PhaseValidate)
		end = timer.Track(PhaseValidate)
		err := ir.Validate(res.Block)
		end("")
		phase(err != nil)
		if err != nil {
			// генератор не должен выдавать некорректный IR
			return nil, fmt.Errorf("%s: generated IR is invalid: %w", f.Path, err)
		}
	}
	res.Timing = reportPtr(timer)

	if opts.Cache != nil {
		if err := opts.Cache.store(key, newCacheEntry(res)); err != nil {
			trace.Point(tracer, trace.ScopeFile, "cache-error", err.Error(), span.ID())
		}
	}
	return res, nil
}

// observePhase emits the start event and returns the matching end.
func observePhase(o PhaseObserver, file, name string) func(failed bool) {
	started := time.Now()
	o.emit(PhaseEvent{File: file, Name: name, Status: PhaseStart})
	return func(failed bool) {
		status := PhaseEnd
		if failed {
			status = PhaseFailed
		}
		o.emit(PhaseEvent{File: file, Name: name, Status: status, Elapsed: time.Since(started)})
	}
}

func reportPtr(t *observ.Timer) *observ.Report {
	r := t.Report()
	return &r
}
