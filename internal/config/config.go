package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/termkeys/internal/config/loader"
	"github.com/dshills/termkeys/internal/logging"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "TERMKEYS_CONFIG"

// LanguageAuto as keyboard.language detects the language from the locale
// environment variables.
const LanguageAuto = "auto"

// maxIncludeDepth bounds nested "@include" directives.
const maxIncludeDepth = 8

// Config is the complete termkeys configuration.
type Config struct {
	Log      logging.Config `toml:"log"`
	Keyboard Keyboard       `toml:"keyboard"`
	Keymap   Keymap         `toml:"keymap"`
	Plugins  Plugins        `toml:"plugins"`

	// Path is the file the configuration was loaded from, if any.
	Path string `toml:"-"`
}

// Keyboard configures the input dispatcher and keyboard surface.
type Keyboard struct {
	// Language is the initial input-language label, or LanguageAuto.
	Language string `toml:"language"`

	// Hardware reports whether a hardware keyboard is attached.
	Hardware bool `toml:"hardware"`

	// MaxChainDepth bounds responder chain walks.
	MaxChainDepth int `toml:"max_chain_depth"`
}

// Keymap configures which shortcut sets are loaded.
type Keymap struct {
	// Defaults enables the built-in terminal shortcuts.
	Defaults bool `toml:"defaults"`

	// Files lists keymap files (.toml, .yaml, .yml, .json).
	Files []string `toml:"files"`

	// Paths lists directories whose keymap files are all loaded.
	Paths []string `toml:"paths"`
}

// Plugins configures scripted responders.
type Plugins struct {
	// Lua lists Lua responder scripts.
	Lua []string `toml:"lua"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Keyboard: Keyboard{
			Language:      "en-US",
			Hardware:      true,
			MaxChainDepth: 64,
		},
		Keymap: Keymap{
			Defaults: true,
		},
	}
}

// DefaultPath returns the user configuration file path.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "termkeys", "config.toml"), nil
}

// Load reads configuration from path. An empty path uses TERMKEYS_CONFIG
// or DefaultPath, and a missing default file yields the defaults. A missing
// explicitly named file is an error.
func Load(path string) (*Config, error) {
	return load(path, loader.DefaultFS(), loader.NewEnvLoader(loader.DefaultPrefix))
}

func load(path string, fsys loader.FileSystem, env loader.Loader) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	data := make(map[string]any)
	if path != "" {
		if _, err := fsys.Stat(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config: %w", err)
			}
			if explicit {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			path = ""
		} else {
			fileData, err := loader.NewTOMLLoaderWithFS(fsys, path).LoadWithIncludes(path, maxIncludeDepth)
			if err != nil {
				return nil, err
			}
			data = loader.DeepMerge(data, fileData)
		}
	}

	envData, err := env.Load()
	if err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	data = loader.DeepMerge(data, envData)

	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration from TOML data over the defaults. It does
// not apply includes or environment overrides.
func Parse(data []byte) (*Config, error) {
	m, err := loader.Parse("<data>", data)
	if err != nil {
		return nil, err
	}
	cfg, err := decode(m)
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// decode converts merged layers into a Config over the defaults.
func decode(data map[string]any) (*Config, error) {
	cfg := Default()
	if len(data) == 0 {
		return cfg, nil
	}

	raw, err := toml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("config: encode merged settings: %w", err)
	}
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, &loader.ParseError{Path: "<merged>", Message: err.Error(), Err: err}
	}
	return cfg, nil
}

// resolvePaths makes relative file references relative to the config file.
func (c *Config) resolvePaths() {
	if c.Path == "" {
		return
	}
	base := filepath.Dir(c.Path)
	resolve := func(list []string) {
		for i, p := range list {
			if p != "" && !filepath.IsAbs(p) {
				list[i] = filepath.Join(base, p)
			}
		}
	}
	resolve(c.Keymap.Files)
	resolve(c.Keymap.Paths)
	resolve(c.Plugins.Lua)
}

// Validate checks settings that the type system cannot.
func (c *Config) Validate() error {
	if c.Keyboard.MaxChainDepth < 1 {
		return &ValidationError{
			Path:    "keyboard.max_chain_depth",
			Message: "must be at least 1",
			Value:   c.Keyboard.MaxChainDepth,
		}
	}
	if err := c.Log.Validate(); err != nil {
		return &ValidationError{Path: "log", Message: err.Error(), Value: c.Log}
	}
	return nil
}

// WatchedFiles returns the files whose changes should trigger a reload.
func (c *Config) WatchedFiles() []string {
	files := make([]string, 0, 1+len(c.Keymap.Files))
	if c.Path != "" {
		files = append(files, c.Path)
	}
	files = append(files, c.Keymap.Files...)
	return files
}
