package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nuir/internal/buildpipeline"
	"nuir/internal/driver"
	"nuir/internal/vm"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file|dir>",
		Short: "Generate IR and evaluate it",
		Args:  cobra.ExactArgs(1),
		RunE:  runRun,
	}
	cmd.Flags().Int("max-depth", driver.DefaultOptions().MaxDepth, "maximum expression nesting (0=unlimited)")
	return cmd
}

// runRun prints one value per file; with several files each line is
// prefixed by the path.
func runRun(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd, args[0])
	if err != nil {
		return err
	}
	outcome, err := generate(cmd.Context(), args[0], s, uiModeOff)
	if err != nil {
		return err
	}
	failed := false
	out := cmd.OutOrStdout()
	for _, r := range outcome.Results {
		if r.HasErrors() {
			failed = true
			if err := renderDiagnostics(cmd.ErrOrStderr(), r.Bag, outcome.FileSet, s); err != nil {
				return err
			}
			continue
		}
		started := time.Now()
		value, err := vm.Run(cmd.Context(), r.Block)
		outcome.Timings.Add(buildpipeline.StageRun, time.Since(started))
		if err != nil {
			failed = true
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.File.Path, err)
			continue
		}
		if len(outcome.Results) > 1 {
			fmt.Fprintf(out, "%s: %d\n", r.File.Path, value)
		} else {
			fmt.Fprintf(out, "%d\n", value)
		}
	}
	if s.Timings {
		printTimings(cmd.ErrOrStderr(), outcome.Results, outcome.Timings, true)
	}
	if failed {
		return errDiagnostics
	}
	return nil
}
