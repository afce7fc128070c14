package main

import (
	"fmt"
	"io"
	"time"

	"nuir/internal/buildpipeline"
	"nuir/internal/driver"
)

// printTimings writes per-file phase timings followed by the stage totals.
func printTimings(out io.Writer, results []*driver.Result, timings buildpipeline.Timings, includeRun bool) {
	if out == nil {
		return
	}
	for _, r := range results {
		if r == nil || r.Timing == nil || len(r.Timing.Phases) == 0 {
			continue
		}
		mustPrint(fmt.Fprintf(out, "%s:\n", r.File.Path))
		if _, err := r.Timing.WriteTo(out); err != nil {
			panic(err)
		}
	}
	printStageTimings(out, timings, includeRun)
}

func printStageTimings(out io.Writer, timings buildpipeline.Timings, includeRun bool) {
	rows := []struct {
		label  string
		stages []buildpipeline.Stage
	}{
		{"parsed", []buildpipeline.Stage{buildpipeline.StageParse}},
		{"generated", []buildpipeline.Stage{buildpipeline.StageGenerate, buildpipeline.StageValidate}},
	}
	if includeRun {
		rows = append(rows, struct {
			label  string
			stages []buildpipeline.Stage
		}{"ran", []buildpipeline.Stage{buildpipeline.StageRun}})
	}
	for _, row := range rows {
		if !timings.Has(row.stages...) {
			continue
		}
		mustPrint(fmt.Fprintf(out, "%s %.1f ms\n", row.label, toMillis(timings.Sum(row.stages...))))
	}
}

// mustPrint: вывод в stderr не должен молча теряться
func mustPrint(_ int, err error) {
	if err != nil {
		panic(err)
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
