package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"nuir/internal/buildpipeline"
	"nuir/internal/ui"
)

// uiMode is the value of --ui.
type uiMode uint8

const (
	uiModeAuto uiMode = iota
	uiModeOn
	uiModeOff
)

func readUIMode(value string) (uiMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	}
	return uiModeAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI: прогресс идёт в stderr, так что stdout можно перенаправлять.
// В auto один файл прогресса не заслуживает.
func shouldUseTUI(mode uiMode, files int) bool {
	if mode == uiModeAuto {
		return files > 1 && isTerminal(os.Stderr)
	}
	return mode == uiModeOn
}

// runGenerateWithUI drives the pipeline in the background and renders its
// events until the pipeline closes the channel.
func runGenerateWithUI(ctx context.Context, title string, files []string, req buildpipeline.Request) (*buildpipeline.Outcome, error) {
	events := make(chan buildpipeline.Event, 256)
	type done struct {
		outcome *buildpipeline.Outcome
		err     error
	}
	finished := make(chan done, 1)

	req.Progress = buildpipeline.ChannelSink(events)
	go func() {
		defer close(events)
		out, err := buildpipeline.Generate(ctx, req)
		finished <- done{out, err}
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, files, events), tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// UI мог выйти раньше (ctrl-c), не даём пайплайну застрять на send
	go func() {
		for range events {
		}
	}()
	res := <-finished
	return res.outcome, errors.Join(res.err, uiErr)
}
