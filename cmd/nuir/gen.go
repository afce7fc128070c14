package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"nuir/internal/buildpipeline"
	"nuir/internal/diagfmt"
	"nuir/internal/driver"
	"nuir/internal/ir"
	"nuir/internal/source"
)

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen <file|dir>",
		Short: "Lower a file or every .nu file in a directory into IR",
		Args:  cobra.ExactArgs(1),
		RunE:  runGen,
	}
	cmd.Flags().String("format", "state", "output format (state|ir|json)")
	cmd.Flags().Int("max-depth", driver.DefaultOptions().MaxDepth, "maximum expression nesting (0=unlimited)")
	cmd.Flags().Bool("cache", false, "reuse results from the on-disk cache")
	cmd.Flags().String("cache-dir", "", "cache directory (implies --cache)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	return cmd
}

func runGen(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd, args[0])
	if err != nil {
		return err
	}
	switch s.Format {
	case "state", "ir", "json":
	default:
		return fmt.Errorf("invalid --format value %q (expected state|ir|json)", s.Format)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	outcome, err := generate(cmd.Context(), args[0], s, mode)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch s.Format {
	case "json":
		err = writeJSON(out, outcome, s.PathMode)
	default:
		err = writeText(out, outcome, s.Format, len(outcome.Results) > 1)
	}
	if err != nil {
		return err
	}
	if s.Format != "json" {
		for _, r := range outcome.Results {
			if err := renderDiagnostics(cmd.ErrOrStderr(), r.Bag, outcome.FileSet, s); err != nil {
				return err
			}
		}
	}
	if s.Timings {
		printTimings(cmd.ErrOrStderr(), outcome.Results, outcome.Timings, false)
	}
	if outcome.HasErrors() {
		return errDiagnostics
	}
	return nil
}

// generate runs the pipeline, with a progress UI when mode allows it.
func generate(ctx context.Context, path string, s settings, mode uiMode) (*buildpipeline.Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req := buildpipeline.Request{Path: path, Options: s.driverOptions()}
	files, err := buildpipeline.Files(path)
	if err != nil {
		return nil, err
	}
	if !s.Quiet && shouldUseTUI(mode, len(files)) {
		return runGenerateWithUI(ctx, "nuir gen", files, req)
	}
	return buildpipeline.Generate(ctx, req)
}

func writeText(w io.Writer, outcome *buildpipeline.Outcome, format string, headers bool) error {
	for _, r := range outcome.Results {
		if headers {
			if _, err := fmt.Fprintf(w, "== %s ==\n", r.File.Path); err != nil {
				return err
			}
		}
		if format == "ir" {
			if err := ir.Dump(w, r.Block); err != nil {
				return err
			}
			continue
		}
		if _, err := io.WriteString(w, r.State); err != nil {
			return err
		}
	}
	return nil
}

type fileJSON struct {
	File          string                    `json:"file"`
	Cached        bool                      `json:"cached,omitempty"`
	RegisterCount uint32                    `json:"register_count"`
	FileCount     uint32                    `json:"file_count"`
	Instrs        []string                  `json:"instrs"`
	Diagnostics   diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

func writeJSON(w io.Writer, outcome *buildpipeline.Outcome, mode diagfmt.PathMode) error {
	files := make([]fileJSON, 0, len(outcome.Results))
	for _, r := range outcome.Results {
		files = append(files, resultJSON(r, outcome.FileSet, mode))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(files) == 1 {
		return enc.Encode(files[0])
	}
	return enc.Encode(files)
}

func resultJSON(r *driver.Result, fs *source.FileSet, mode diagfmt.PathMode) fileJSON {
	out := fileJSON{
		File:        r.File.Path,
		Cached:      r.Cached,
		Instrs:      []string{},
		Diagnostics: diagfmt.BuildDiagnosticsOutput(r.Bag, fs, diagfmt.JSONOpts{IncludePositions: true, PathMode: mode}),
	}
	if r.Block != nil {
		out.RegisterCount = r.Block.RegisterCount
		out.FileCount = r.Block.FileCount
		for i := range r.Block.Instrs {
			out.Instrs = append(out.Instrs, r.Block.Instrs[i].String())
		}
	}
	return out
}
