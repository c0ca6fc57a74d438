package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/termkeys/internal/config/loader"
)

// staticEnv is an environment layer with fixed contents.
type staticEnv map[string]any

func (e staticEnv) Load() (map[string]any, error) { return e, nil }

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Keyboard.Language != "en-US" || !cfg.Keyboard.Hardware {
		t.Errorf("Keyboard = %+v", cfg.Keyboard)
	}
	if !cfg.Keymap.Defaults {
		t.Error("Keymap.Defaults = false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, `
[log]
level = "debug"

[keyboard]
language = "de-DE"
hardware = false

[keymap]
defaults = false
files = ["keymaps/tabs.toml", "/abs/view.yaml"]

[plugins]
lua = ["clear.lua"]
`)

	cfg, err := load(path, loader.DefaultFS(), staticEnv{})
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}

	if cfg.Path != path {
		t.Errorf("Path = %q", cfg.Path)
	}
	if cfg.Keyboard.Language != "de-DE" || cfg.Keyboard.Hardware {
		t.Errorf("Keyboard = %+v", cfg.Keyboard)
	}
	if cfg.Keyboard.MaxChainDepth != 64 {
		t.Errorf("MaxChainDepth = %d, want default 64", cfg.Keyboard.MaxChainDepth)
	}
	if cfg.Keymap.Defaults {
		t.Error("Keymap.Defaults = true")
	}
	wantFiles := []string{filepath.Join(dir, "keymaps", "tabs.toml"), "/abs/view.yaml"}
	if len(cfg.Keymap.Files) != 2 || cfg.Keymap.Files[0] != wantFiles[0] || cfg.Keymap.Files[1] != wantFiles[1] {
		t.Errorf("Keymap.Files = %v, want %v", cfg.Keymap.Files, wantFiles)
	}
	if len(cfg.Plugins.Lua) != 1 || cfg.Plugins.Lua[0] != filepath.Join(dir, "clear.lua") {
		t.Errorf("Plugins.Lua = %v", cfg.Plugins.Lua)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}

	watched := cfg.WatchedFiles()
	if len(watched) != 3 || watched[0] != path {
		t.Errorf("WatchedFiles() = %v", watched)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "[keyboard]\nlanguage = \"de-DE\"\n")

	env := staticEnv{"keyboard": map[string]any{"language": "ja-JP", "max_chain_depth": int64(8)}}
	cfg, err := load(path, loader.DefaultFS(), env)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.Keyboard.Language != "ja-JP" {
		t.Errorf("Language = %q, want env override", cfg.Keyboard.Language)
	}
	if cfg.Keyboard.MaxChainDepth != 8 {
		t.Errorf("MaxChainDepth = %d, want 8", cfg.Keyboard.MaxChainDepth)
	}
}

func TestLoadIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shared.toml"), "[keyboard]\nlanguage = \"fr-FR\"\nhardware = false\n")
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "\"@include\" = [\"shared.toml\"]\n[keyboard]\nhardware = true\n")

	cfg, err := load(path, loader.DefaultFS(), staticEnv{})
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.Keyboard.Language != "fr-FR" || !cfg.Keyboard.Hardware {
		t.Errorf("Keyboard = %+v", cfg.Keyboard)
	}
}

func TestLoadMissingExplicit(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "nope.toml"), loader.DefaultFS(), staticEnv{})
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("error = %v, want ErrFileNotFound", err)
	}
}

func TestLoadMissingDefault(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := load("", loader.DefaultFS(), staticEnv{})
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty", cfg.Path)
	}
	if cfg.Keyboard.Language != "en-US" {
		t.Errorf("Language = %q", cfg.Keyboard.Language)
	}
}

func TestLoadEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alt.toml")
	writeFile(t, path, "[keyboard]\nlanguage = \"es-ES\"\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := load("", loader.DefaultFS(), staticEnv{})
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.Keyboard.Language != "es-ES" {
		t.Errorf("Language = %q", cfg.Keyboard.Language)
	}
}

func TestLoadParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[keyboard\n")

	_, err := load(path, loader.DefaultFS(), staticEnv{})
	var perr *loader.ParseError
	if !errors.As(err, &perr) {
		t.Errorf("error = %v, want *loader.ParseError", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"chain depth", "[keyboard]\nmax_chain_depth = 0\n"},
		{"log level", "[log]\nlevel = \"chatty\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, ErrValidationFailed) {
				t.Errorf("Parse() error = %v, want ErrValidationFailed", err)
			}
		})
	}
}

func TestParseTypeMismatch(t *testing.T) {
	if _, err := Parse([]byte("[keyboard]\nhardware = \"maybe\"\n")); err == nil {
		t.Error("Parse() accepted a string for a bool")
	}
}
