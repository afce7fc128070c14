package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"nuir/internal/trace"
)

// commandCleanup is installed by PersistentPreRunE and must run exactly once,
// also when RunE fails and PersistentPostRun is skipped.
var commandCleanup func()

func runCommandCleanup() {
	if fn := commandCleanup; fn != nil {
		commandCleanup = nil
		fn()
	}
}

func addTraceFlags(root *cobra.Command) {
	f := root.PersistentFlags()
	f.String("trace", "", `write trace events to this file ("-" = stderr)`)
	f.String("trace-level", "off", "off|error|phase|detail|debug")
	f.String("trace-mode", "stream", "stream|ring|both")
	f.String("trace-format", "auto", "auto|text|ndjson")
	f.Int("trace-ring-size", 4096, "ring capacity in events")
}

// traceFlags returns the tracer Config described by the root flags.
func traceFlags(cmd *cobra.Command) (trace.Config, error) {
	f := cmd.Root().PersistentFlags()
	var cfg trace.Config
	var errs []error
	str := func(name string) string {
		v, err := f.GetString(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to get %s flag: %w", name, err))
		}
		return v
	}
	cfg.OutputPath = str("trace")
	level, mode, format := str("trace-level"), str("trace-mode"), str("trace-format")
	ring, err := f.GetInt("trace-ring-size")
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to get trace-ring-size flag: %w", err))
	}
	cfg.RingSize = ring
	if err := errors.Join(errs...); err != nil {
		return cfg, err
	}

	if cfg.Level, err = trace.ParseLevel(level); err != nil {
		return cfg, fmt.Errorf("invalid trace level: %w", err)
	}
	if cfg.Level == trace.LevelOff && cfg.OutputPath != "" {
		cfg.Level = trace.LevelPhase // одного --trace достаточно
	}
	if cfg.Mode, err = trace.ParseMode(mode); err != nil {
		return cfg, fmt.Errorf("invalid trace mode: %w", err)
	}
	if cfg.Format, err = trace.ParseFormat(format); err != nil {
		return cfg, fmt.Errorf("invalid trace format: %w", err)
	}
	return cfg, nil
}

// setupTracing installs the tracer and a driver span for cmd into its
// context and returns the matching teardown.
func setupTracing(cmd *cobra.Command) (func(), error) {
	cfg, err := traceFlags(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	span := trace.Begin(tracer, trace.ScopeDriver, cmd.Name(), 0)
	cmd.SetContext(trace.WithSpan(trace.WithTracer(cmd.Context(), tracer), span))

	return func() {
		span.End("")
		errOut := cmd.ErrOrStderr()
		// ring копит события до конца команды
		if ring := trace.RingOf(tracer); ring != nil && cfg.Mode == trace.ModeRing {
			format := cfg.Format
			if format == trace.FormatAuto {
				format = trace.FormatText
			}
			if err := ring.Dump(errOut, format); err != nil {
				fmt.Fprintf(errOut, "trace: dump: %v\n", err)
			}
		}
		if err := errors.Join(tracer.Flush(), tracer.Close()); err != nil {
			fmt.Fprintf(errOut, "trace: %v\n", err)
		}
	}, nil
}
