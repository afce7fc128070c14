package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"nuir/internal/diagfmt"
	"nuir/internal/driver"
	"nuir/internal/project"
)

// settings is the merged view of nuir.toml and command-line flags.
// Flags win over the manifest when set explicitly.
type settings struct {
	ManifestPath   string
	MaxDepth       int
	Format         string
	Color          bool
	Quiet          bool
	Timings        bool
	MaxDiagnostics int
	Jobs           int
	PathMode       diagfmt.PathMode
	Cache          *driver.DiskCache
}

func (s settings) driverOptions() driver.Options {
	opts := driver.DefaultOptions()
	opts.MaxDepth = s.MaxDepth
	opts.MaxDiagnostics = s.MaxDiagnostics
	opts.Jobs = s.Jobs
	opts.Cache = s.Cache
	return opts
}

// loadSettings resolves the manifest for input and layers flags on top.
func loadSettings(cmd *cobra.Command, input string) (settings, error) {
	root := cmd.Root().PersistentFlags()
	var s settings

	cfg, manifestPath, err := loadConfig(cmd, input)
	if err != nil {
		return s, err
	}
	s.ManifestPath = manifestPath
	s.MaxDepth = cfg.Generator.MaxDepth
	s.Format = cfg.Output.Format

	colorFlag, err := root.GetString("color")
	if err != nil {
		return s, fmt.Errorf("failed to get color flag: %w", err)
	}
	colorMode := cfg.Output.Color
	if root.Changed("color") {
		colorMode = colorFlag
	}
	switch colorMode {
	case "on":
		s.Color = true
	case "off":
		s.Color = false
	case "auto":
		s.Color = isTerminal(os.Stderr)
	default:
		return s, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorMode)
	}

	if s.Quiet, err = root.GetBool("quiet"); err != nil {
		return s, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.Timings, err = root.GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.MaxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.Jobs, err = root.GetInt("jobs"); err != nil {
		return s, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	pathMode, err := root.GetString("path-mode")
	if err != nil {
		return s, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	var ok bool
	if s.PathMode, ok = diagfmt.ParsePathMode(pathMode); !ok {
		return s, fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", pathMode)
	}

	flags := cmd.Flags()
	if flags.Lookup("max-depth") != nil && flags.Changed("max-depth") {
		if s.MaxDepth, err = flags.GetInt("max-depth"); err != nil {
			return s, fmt.Errorf("failed to get max-depth flag: %w", err)
		}
	}
	if flags.Lookup("format") != nil && flags.Changed("format") {
		if s.Format, err = flags.GetString("format"); err != nil {
			return s, fmt.Errorf("failed to get format flag: %w", err)
		}
	}

	useCache := cfg.Cache.Enabled
	cacheDir := cfg.Cache.Dir
	if flags.Lookup("cache") != nil && flags.Changed("cache") {
		if useCache, err = flags.GetBool("cache"); err != nil {
			return s, fmt.Errorf("failed to get cache flag: %w", err)
		}
	}
	if flags.Lookup("cache-dir") != nil && flags.Changed("cache-dir") {
		if cacheDir, err = flags.GetString("cache-dir"); err != nil {
			return s, fmt.Errorf("failed to get cache-dir flag: %w", err)
		}
		useCache = true
	}
	if useCache {
		if cacheDir != "" {
			s.Cache, err = driver.OpenDiskCacheAt(cacheDir)
		} else {
			s.Cache, err = driver.OpenDiskCache("nuir")
		}
		if err != nil {
			return s, fmt.Errorf("failed to open cache: %w", err)
		}
	}
	return s, nil
}

// loadConfig honours --config, then searches upwards from input.
func loadConfig(cmd *cobra.Command, input string) (project.Config, string, error) {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, "", fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath != "" {
		cfg, err := project.LoadConfig(configPath)
		return cfg, configPath, err
	}
	start := input
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		start = filepath.Dir(input)
	}
	manifest, ok, err := project.LoadManifest(start)
	if err != nil {
		return project.Config{}, "", err
	}
	if !ok {
		return project.Defaults(), "", nil
	}
	return manifest.Config, manifest.Path, nil
}
