package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[output]\nformat = \"ir\"\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Output.Format != "ir" {
		t.Fatalf("format: %q", cfg.Output.Format)
	}
	if cfg.Generator.MaxDepth != DefaultMaxDepth || cfg.Output.Color != "auto" || cfg.Cache.Enabled {
		t.Fatalf("defaults not kept: %+v", cfg)
	}
}

func TestLoadConfigFull(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[generator]
max_depth = 0

[output]
format = "json"
color = "off"

[cache]
enabled = true
dir = ".cache"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Generator.MaxDepth != 0 || cfg.Output.Color != "off" || !cfg.Cache.Enabled {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if want := filepath.Join(dir, ".cache"); cfg.Cache.Dir != want {
		t.Fatalf("cache dir: want %q, got %q", want, cfg.Cache.Dir)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"syntax", "[output\n", []string{"failed to parse TOML"}},
		{"unknown key", "[generator]\ndepth = 3\n", []string{"unknown keys", "generator.depth"}},
		{
			"invalid values",
			"[generator]\nmax_depth = -1\n[output]\nformat = \"xml\"\ncolor = \"rainbow\"\n",
			[]string{"max_depth", "format", "color"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.content)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Fatalf("error %q does not mention %q", err, w)
				}
			}
		})
	}
}

func TestLoadManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[cache]\nenabled = true\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, ok, err := LoadManifest(nested)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if m.Root != root || !m.Config.Cache.Enabled {
		t.Fatalf("unexpected manifest %+v", m)
	}
}

func TestCombineOrder(t *testing.T) {
	a, b := StringDigest("a"), StringDigest("b")
	if Combine(a, b) == Combine(b, a) {
		t.Fatalf("Combine must depend on order")
	}
	if Combine(a, b) != Combine(a, b) {
		t.Fatalf("Combine must be deterministic")
	}
}
