package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"nuir/internal/diag"
	"nuir/internal/source"
)

// SourceExt marks the files GenerateDir picks up.
const SourceExt = ".nu"

var ErrNoInput = errors.New("no " + SourceExt + " files found")

// ListSourceFiles walks dir and returns every source file in lexical order.
func ListSourceFiles(dir string) ([]string, error) {
	var paths []string
	walk := func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.Type().IsRegular() && filepath.Ext(path) == SourceExt:
			paths = append(paths, path)
		}
		return nil
	}
	if err := filepath.WalkDir(dir, walk); err != nil {
		return nil, err
	}
	slices.Sort(paths)
	return paths, nil
}

// loaded is a file read up front or the reason it could not be read.
type loaded struct {
	path string
	id   source.FileID
	err  error
}

// loadAll reads paths sequentially: FileSet is not safe for concurrent Add.
func loadAll(fileSet *source.FileSet, paths []string, obs PhaseObserver) []loaded {
	out := make([]loaded, len(paths))
	for i, path := range paths {
		out[i].path = path
		obs.emit(PhaseEvent{File: path, Name: PhaseLoad, Status: PhaseStart})
		id, err := fileSet.Load(path)
		if err != nil {
			out[i].err = err
			obs.emit(PhaseEvent{File: path, Name: PhaseLoad, Status: PhaseFailed})
			continue
		}
		out[i].id = id
		obs.emit(PhaseEvent{File: path, Name: PhaseLoad, Status: PhaseEnd})
	}
	return out
}

// GenerateDir lowers every source file under dir using up to opts.Jobs
// workers. Results keep path order; an unreadable file turns into a
// Result carrying IOLoadFileError instead of aborting the batch.
func GenerateDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []*Result, error) {
	paths, err := ListSourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(paths) == 0 {
		return fileSet, nil, ErrNoInput
	}
	inputs := loadAll(fileSet, paths, opts.Observer)

	workers := opts.Jobs
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(inputs)) // каждый воркер пишет только свой слот

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, len(inputs)))
	for i, in := range inputs {
		g.Go(func() error {
			if in.err != nil {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.NewError(diag.IOLoadFileError, 0, "failed to load file: "+in.err.Error()))
				results[i] = &Result{File: &source.File{Path: in.path}, Bag: bag}
				return nil
			}
			res, err := GenerateSource(gctx, fileSet.Get(in.id), opts)
			if err != nil {
				return fmt.Errorf("%s: %w", in.path, err)
			}
			results[i] = res
			return nil
		})
	}
	err = g.Wait()
	return fileSet, results, err
}
