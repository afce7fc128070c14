package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the optional per-project configuration file.
const ManifestName = "nuir.toml"

// DefaultMaxDepth matches irgen.DefaultMaxDepth.
const DefaultMaxDepth = 4096

type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Generator GeneratorConfig `toml:"generator"`
	Output    OutputConfig    `toml:"output"`
	Cache     CacheConfig     `toml:"cache"`
}

type GeneratorConfig struct {
	// MaxDepth, 0 - без ограничения.
	MaxDepth int `toml:"max_depth"`
}

type OutputConfig struct {
	Format string `toml:"format"` // state | ir | json
	Color  string `toml:"color"`  // auto | on | off
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Defaults returns the configuration used when no manifest is found.
func Defaults() Config {
	return Config{
		Generator: GeneratorConfig{MaxDepth: DefaultMaxDepth},
		Output:    OutputConfig{Format: "state", Color: "auto"},
	}
}

// FindManifest walks up from startDir to locate nuir.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and decodes the nearest manifest. ok is false when there
// is none; the caller then uses Defaults.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig decodes path over Defaults; keys absent from the file keep
// their default values.
func LoadConfig(path string) (Config, error) {
	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("cache", "dir") && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Generator.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("[generator].max_depth must be >= 0, got %d", c.Generator.MaxDepth))
	}
	switch c.Output.Format {
	case "state", "ir", "json":
	default:
		errs = append(errs, fmt.Errorf("[output].format must be state, ir or json, got %q", c.Output.Format))
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		errs = append(errs, fmt.Errorf("[output].color must be auto, on or off, got %q", c.Output.Color))
	}
	return errors.Join(errs...)
}
